package carousel

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/types"
)

func TestNaturalSort(t *testing.T) {
	names := []string{"slide10.png", "slide2.png", "slide1.png"}
	sortNatural(names)
	want := []string{"slide1.png", "slide2.png", "slide10.png"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("sortNatural = %v, want %v", names, want)
		}
	}
}

func TestNaturalLessCases(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{"slide2", "slide10", true},
		{"slide10", "slide2", false},
		{"a1b2", "a1b10", true},
		{"img001", "img2", true},
		{"same", "same", false},
		{"a", "ab", true},
	}
	for _, tc := range cases {
		if got := naturalLess(tc.a, tc.b); got != tc.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func tinyPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func zipOf(t *testing.T, entries map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func TestImportZipNumericOrder(t *testing.T) {
	red := tinyPNG(t, 4, 4, color.RGBA{R: 255, A: 255})
	green := tinyPNG(t, 4, 4, color.RGBA{G: 255, A: 255})
	blue := tinyPNG(t, 4, 4, color.RGBA{B: 255, A: 255})

	data := zipOf(t, map[string][]byte{
		"slide10.png": blue,
		"slide2.png":  green,
		"slide1.png":  red,
		"notes.txt":   []byte("skip me"),
	})

	slides, err := ImportFiles(context.Background(), []ImportFile{{Name: "deck.zip", Kind: ImportKindZIP, Data: data}})
	if err != nil {
		t.Fatalf("ImportFiles: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("got %d slides, want 3", len(slides))
	}
	// Verify numeric-aware order by the dominant color of each canvas center.
	wantRGB := [][3]uint8{{255, 0, 0}, {0, 255, 0}, {0, 0, 255}}
	for i, s := range slides {
		img, err := png.Decode(bytes.NewReader(s.Image))
		if err != nil {
			t.Fatalf("decode slide %d: %v", i, err)
		}
		if got := img.Bounds().Dx(); got != types.TemplateCanvasSize {
			t.Fatalf("slide %d width %d, want %d", i, got, types.TemplateCanvasSize)
		}
		r, g, b, _ := img.At(types.TemplateCanvasSize/2, types.TemplateCanvasSize/2).RGBA()
		got := [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
		want := wantRGB[i]
		if !approx(got[0], want[0]) || !approx(got[1], want[1]) || !approx(got[2], want[2]) {
			t.Fatalf("slide %d center color %v, want about %v (wrong order?)", i, got, want)
		}
	}
}

func approx(a, b uint8) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= 16
}

func TestImportPDFPlaceholders(t *testing.T) {
	pdf := []byte("%PDF-1.4\n1 0 obj\n<< /Type /Pages /Count 2 >>\nendobj\n2 0 obj\n<< /Type /Page >>\nendobj\n3 0 obj\n<< /Type /Page >>\nendobj\n%%EOF\n")
	slides, err := ImportFiles(context.Background(), []ImportFile{{Name: "deck.pdf", Kind: ImportKindPDF, Data: pdf}})
	if err != nil {
		t.Fatalf("ImportFiles: %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d placeholder slides, want 2", len(slides))
	}
	for i, s := range slides {
		if !s.Placeholder {
			t.Fatalf("slide %d should be a placeholder", i)
		}
		if len(s.Image) == 0 {
			t.Fatalf("slide %d has no canvas", i)
		}
	}
}

func TestImportZeroUsableFails(t *testing.T) {
	_, err := ImportFiles(context.Background(), []ImportFile{
		{Name: "notes.txt", Kind: "text", Data: []byte("nope")},
		{Name: "broken.png", Kind: ImportKindImage, Data: []byte("not an image")},
	})
	if !errors.Is(err, errdef.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestSlideMutations(t *testing.T) {
	slides := BuildSlides([]GeneratedSlide{
		{Headline: "Big hook"},
		{Body: "Point one"},
		{Headline: "Do it", CTA: "Do it"},
	})
	if len(slides) != 3 {
		t.Fatalf("BuildSlides count = %d", len(slides))
	}
	for i, s := range slides {
		if s.Position != i {
			t.Fatalf("slide %d position %d", i, s.Position)
		}
	}

	if err := EditSlideField(slides, 1, SlideFieldHeadline, "One point"); err != nil {
		t.Fatalf("EditSlideField: %v", err)
	}
	if slides[1].Headline != "One point" {
		t.Fatalf("headline not updated")
	}
	if err := EditSlideField(slides, 1, "position", "9"); !errors.Is(err, errdef.ErrUnsupported) {
		t.Fatalf("editing position should be unsupported, got %v", err)
	}
	if err := EditSlideField(slides, 5, SlideFieldBody, "x"); !errors.Is(err, errdef.ErrOutOfRange) {
		t.Fatalf("out of range edit err = %v", err)
	}

	imgID := uuid.New()
	if err := SetSlideImage(slides, 2, imgID); err != nil {
		t.Fatalf("SetSlideImage: %v", err)
	}
	if slides[2].ImageID == nil || *slides[2].ImageID != imgID {
		t.Fatalf("image not attached")
	}
	if err := RemoveSlideImage(slides, 2); err != nil {
		t.Fatalf("RemoveSlideImage: %v", err)
	}
	if slides[2].ImageID != nil {
		t.Fatalf("image not detached")
	}
}

func TestEncodeSlidesRewritesPositions(t *testing.T) {
	slides := []types.Slide{
		{ID: uuid.New(), Position: 7, Headline: "a"},
		{ID: uuid.New(), Position: 7, Headline: "b"},
	}
	raw := EncodeSlides(slides)
	decoded := DecodeSlides(raw)
	if len(decoded) != 2 || decoded[0].Position != 0 || decoded[1].Position != 1 {
		t.Fatalf("positions not densified: %+v", decoded)
	}
}

func TestDecodeSlidesLenient(t *testing.T) {
	if got := DecodeSlides([]byte("{broken")); got != nil {
		t.Fatalf("corrupt slides should decode to empty, got %v", got)
	}
}

func TestValidateGenerated(t *testing.T) {
	ok := []GeneratedSlide{{Headline: "hook"}, {Body: "p"}, {CTA: "go"}}
	if err := ValidateGenerated(ok, 3); err != nil {
		t.Fatalf("ValidateGenerated: %v", err)
	}
	if err := ValidateGenerated(ok, 5); !errors.Is(err, errdef.ErrOutOfRange) {
		t.Fatalf("count mismatch err = %v", err)
	}
	bad := []GeneratedSlide{{Body: "no headline"}, {CTA: "go"}}
	if err := ValidateGenerated(bad, 2); !errors.Is(err, errdef.ErrUnavailable) {
		t.Fatalf("missing headline err = %v", err)
	}
}

func TestTextZoneValidation(t *testing.T) {
	good := types.TextZone{ID: "z1", Type: "headline", X: 100, Y: 100, Width: 400, Height: 120}
	if err := ValidateZone(good); err != nil {
		t.Fatalf("ValidateZone: %v", err)
	}
	tooSmall := types.TextZone{ID: "z2", Type: "body", X: 10, Y: 10, Width: 49, Height: 29}
	if err := ValidateZone(tooSmall); !errors.Is(err, errdef.ErrOutOfRange) {
		t.Fatalf("undersized zone err = %v", err)
	}
	offCanvas := types.TextZone{ID: "z3", Type: "cta", X: 1000, Y: 100, Width: 200, Height: 60}
	if err := ValidateZone(offCanvas); !errors.Is(err, errdef.ErrOutOfRange) {
		t.Fatalf("off-canvas zone err = %v", err)
	}
	badType := types.TextZone{ID: "z4", Type: "footer", X: 10, Y: 10, Width: 100, Height: 60}
	if err := ValidateZone(badType); !errors.Is(err, errdef.ErrUnsupported) {
		t.Fatalf("bad type err = %v", err)
	}

	// Duplicate types are allowed; filtering drops only the degenerate one.
	kept := FilterZones([]types.TextZone{good, tooSmall, {ID: "z5", Type: "headline", X: 0, Y: 600, Width: 300, Height: 100}})
	if len(kept) != 2 {
		t.Fatalf("FilterZones kept %d, want 2", len(kept))
	}
}

func TestCountPDFPages(t *testing.T) {
	if got := countPDFPages([]byte("not a pdf")); got != 0 {
		t.Fatalf("non-pdf pages = %d", got)
	}
	pdf := []byte("%PDF-1.7\n<< /Type /Pages >>\n<< /Type /Page >>\n<< /Type /Page >>\n<< /Type /Page >>\n")
	if got := countPDFPages(pdf); got != 3 {
		t.Fatalf("pages = %d, want 3", got)
	}
}

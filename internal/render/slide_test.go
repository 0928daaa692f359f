package render

import (
	"testing"

	"github.com/fogleman/gg"
)

func TestZoneText(t *testing.T) {
	text := SlideText{Headline: "H", Body: "B", CTA: "C"}
	cases := map[string]string{
		"headline": "H",
		"body":     "B",
		"cta":      "C",
		"footer":   "",
	}
	for zone, want := range cases {
		if got := zoneText(zone, text); got != want {
			t.Errorf("zoneText(%q) = %q, want %q", zone, got, want)
		}
	}
}

func TestAnchorFor(t *testing.T) {
	if ax, al := anchorFor("center"); ax != 0.5 || al != gg.AlignCenter {
		t.Fatalf("center anchor = %v/%v", ax, al)
	}
	if ax, al := anchorFor("right"); ax != 1 || al != gg.AlignRight {
		t.Fatalf("right anchor = %v/%v", ax, al)
	}
	if ax, al := anchorFor(""); ax != 0 || al != gg.AlignLeft {
		t.Fatalf("default anchor = %v/%v", ax, al)
	}
}

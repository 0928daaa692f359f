package render

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"strings"

	_ "image/jpeg"
	"image/png"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"

	"github.com/yungbote/postforge-backend/internal/pkg/logger"
	"github.com/yungbote/postforge-backend/internal/types"
)

// SlideRenderer rasterizes carousel slides for export: the template
// background with generated text drawn into its text zones. Zones are
// descriptive metadata; the renderer is the only consumer of their geometry.
type SlideRenderer struct {
	log  *logger.Logger
	font *truetype.Font
}

// SlideText carries the text to place into zones, keyed by zone type.
type SlideText struct {
	Headline string
	Body     string
	CTA      string
}

func NewSlideRenderer(baseLog *logger.Logger, fontPath string) (*SlideRenderer, error) {
	rendererLog := baseLog.With("service", "SlideRenderer")
	if strings.TrimSpace(fontPath) == "" {
		return nil, fmt.Errorf("slide font path is empty")
	}
	raw, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("could not read slide font: %w", err)
	}
	f, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse slide font: %w", err)
	}
	rendererLog.Info("Slide font loaded", "font", fontPath)
	return &SlideRenderer{log: rendererLog, font: f}, nil
}

// RenderPNG draws text zones over a background. A nil background renders on
// a plain white canvas (the degraded-PDF placeholder case).
func (r *SlideRenderer) RenderPNG(background []byte, zones []types.TextZone, text SlideText) ([]byte, error) {
	size := types.TemplateCanvasSize
	dc := gg.NewContext(size, size)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	if len(background) > 0 {
		bg, _, err := image.Decode(bytes.NewReader(background))
		if err != nil {
			return nil, fmt.Errorf("decode background: %w", err)
		}
		dc.DrawImage(bg, 0, 0)
	}

	for _, z := range zones {
		content := zoneText(z.Type, text)
		if content == "" {
			continue
		}
		fontSize := z.FontSize
		if fontSize <= 0 {
			fontSize = 42
		}
		face := truetype.NewFace(r.font, &truetype.Options{Size: fontSize})
		dc.SetFontFace(face)
		if z.Color != "" {
			dc.SetHexColor(z.Color)
		} else {
			dc.SetHexColor("#111111")
		}
		ax, align := anchorFor(z.TextAlign)
		dc.DrawStringWrapped(content, z.X+ax*z.Width, z.Y, ax, 0, z.Width, 1.3, align)
	}

	var out bytes.Buffer
	if err := png.Encode(&out, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return out.Bytes(), nil
}

func zoneText(zoneType string, text SlideText) string {
	switch zoneType {
	case "headline":
		return text.Headline
	case "body":
		return text.Body
	case "cta":
		return text.CTA
	default:
		return ""
	}
}

// anchorFor maps a zone's textAlign to the gg anchor fraction and alignment.
func anchorFor(textAlign string) (float64, gg.Align) {
	switch strings.ToLower(textAlign) {
	case "center":
		return 0.5, gg.AlignCenter
	case "right":
		return 1, gg.AlignRight
	default:
		return 0, gg.AlignLeft
	}
}

package carousel

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/types"
)

// Editable slide text fields, as exposed to the action protocol.
const (
	SlideFieldHeadline     = "headline"
	SlideFieldBody         = "body"
	SlideFieldCTA          = "cta"
	SlideFieldVisualPrompt = "visual_prompt"
)

var slideFields = map[string]bool{
	SlideFieldHeadline:     true,
	SlideFieldBody:         true,
	SlideFieldCTA:          true,
	SlideFieldVisualPrompt: true,
}

// ValidSlideField reports whether the action protocol accepts this field name.
func ValidSlideField(field string) bool { return slideFields[field] }

// DecodeSlides parses the serialized slide array with the lenient-parse
// policy: failures yield an empty sequence.
func DecodeSlides(raw datatypes.JSON) []types.Slide {
	if len(raw) == 0 {
		return nil
	}
	var out []types.Slide
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// EncodeSlides serializes slides, rewriting Position to the dense 0..n-1
// sequence derived from array order. Position is never independently set.
func EncodeSlides(slides []types.Slide) datatypes.JSON {
	for i := range slides {
		slides[i].Position = i
	}
	raw, err := json.Marshal(slides)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

// EditSlideField mutates one text field of the slide at index.
func EditSlideField(slides []types.Slide, index int, field, value string) error {
	if index < 0 || index >= len(slides) {
		return fmt.Errorf("%w: slide index %d, count %d", errdef.ErrOutOfRange, index, len(slides))
	}
	switch field {
	case SlideFieldHeadline:
		slides[index].Headline = value
	case SlideFieldBody:
		slides[index].Body = value
	case SlideFieldCTA:
		slides[index].CTA = value
	case SlideFieldVisualPrompt:
		slides[index].VisualPrompt = value
	default:
		return fmt.Errorf("%w: slide field %q", errdef.ErrUnsupported, field)
	}
	return nil
}

// SetSlideImage attaches a generated image to the slide at index.
func SetSlideImage(slides []types.Slide, index int, imageID uuid.UUID) error {
	if index < 0 || index >= len(slides) {
		return fmt.Errorf("%w: slide index %d, count %d", errdef.ErrOutOfRange, index, len(slides))
	}
	id := imageID
	slides[index].ImageID = &id
	return nil
}

// RemoveSlideImage clears the attached image of the slide at index.
func RemoveSlideImage(slides []types.Slide, index int) error {
	if index < 0 || index >= len(slides) {
		return fmt.Errorf("%w: slide index %d, count %d", errdef.ErrOutOfRange, index, len(slides))
	}
	slides[index].ImageID = nil
	return nil
}

// GeneratedSlide is the JSON contract the slide-generation prompt must
// return. The narrative arc (hook first, one point per interior slide, CTA
// last) is the prompt's responsibility; ValidateGenerated checks only slide
// count and field presence.
type GeneratedSlide struct {
	Headline     string `json:"headline"`
	Body         string `json:"body,omitempty"`
	CTA          string `json:"cta,omitempty"`
	VisualPrompt string `json:"visual_prompt,omitempty"`
}

// ValidateGenerated checks the structural contract of generated slides.
func ValidateGenerated(slides []GeneratedSlide, wantCount int) error {
	if len(slides) != wantCount {
		return fmt.Errorf("%w: generated %d slides, want %d", errdef.ErrOutOfRange, len(slides), wantCount)
	}
	if slides[0].Headline == "" {
		return fmt.Errorf("%w: first slide missing headline", errdef.ErrUnavailable)
	}
	last := slides[len(slides)-1]
	if last.CTA == "" && last.Headline == "" {
		return fmt.Errorf("%w: last slide missing cta", errdef.ErrUnavailable)
	}
	return nil
}

// BuildSlides converts validated generated slides into the stored shape with
// fresh IDs and dense positions.
func BuildSlides(generated []GeneratedSlide) []types.Slide {
	slides := make([]types.Slide, 0, len(generated))
	for i, g := range generated {
		slides = append(slides, types.Slide{
			ID:           uuid.New(),
			Position:     i,
			Headline:     g.Headline,
			Body:         g.Body,
			CTA:          g.CTA,
			VisualPrompt: g.VisualPrompt,
		})
	}
	return slides
}

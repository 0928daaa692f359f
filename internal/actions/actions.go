package actions

import (
	"strings"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/carousel"
	"github.com/yungbote/postforge-backend/internal/content"
)

// ToolCall is the wire shape of one named invocation emitted by the model.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Categories partition the action set; each category is dispatched
// independently.
const (
	CategoryContent  = "content"
	CategoryCarousel = "carousel"
	CategoryImage    = "image"
	CategoryDeferred = "deferred"
)

// Action is one validated, typed mutation parsed from a tool call.
type Action interface {
	Name() string
	Category() string
}

type EditCard struct {
	ContentType content.Type
	Index       int
	NewContent  string
}

func (EditCard) Name() string     { return "edit_card" }
func (EditCard) Category() string { return CategoryContent }

type RemoveCard struct {
	ContentType content.Type
	Index       int
}

func (RemoveCard) Name() string     { return "remove_card" }
func (RemoveCard) Category() string { return CategoryContent }

type SelectCard struct {
	ContentType content.Type
	Index       int
}

func (SelectCard) Name() string     { return "select_card" }
func (SelectCard) Category() string { return CategoryContent }

// RegenerateSection is not applied in-process; it signals the orchestrator to
// re-run generation for one section in a follow-up call.
type RegenerateSection struct {
	ContentType content.Type
}

func (RegenerateSection) Name() string     { return "regenerate_section" }
func (RegenerateSection) Category() string { return CategoryDeferred }

// AddMore signals the orchestrator to append additional generated items.
type AddMore struct {
	ContentType content.Type
}

func (AddMore) Name() string     { return "add_more" }
func (AddMore) Category() string { return CategoryDeferred }

type GenerateImage struct {
	Prompt        string
	UseReferences bool
	AspectRatio   string
}

func (GenerateImage) Name() string     { return "generate_image" }
func (GenerateImage) Category() string { return CategoryImage }

type RefineImage struct {
	ImageID          uuid.UUID
	RefinementPrompt string
	UseReferences    bool
}

func (RefineImage) Name() string     { return "refine_image" }
func (RefineImage) Category() string { return CategoryImage }

// GenerateThumbnail pairs an image generation with a 1-based visual-concept
// slot number.
type GenerateThumbnail struct {
	Prompt         string
	ThumbnailIndex int
	UseReferences  bool
	AspectRatio    string
}

func (GenerateThumbnail) Name() string     { return "generate_thumbnail" }
func (GenerateThumbnail) Category() string { return CategoryImage }

type EditCarouselSlide struct {
	SlideIndex int
	Field      string
	Value      string
}

func (EditCarouselSlide) Name() string     { return "edit_carousel_slide" }
func (EditCarouselSlide) Category() string { return CategoryCarousel }

type SetSlideImage struct {
	SlideIndex int
	AssetID    uuid.UUID
}

func (SetSlideImage) Name() string     { return "set_slide_image" }
func (SetSlideImage) Category() string { return CategoryCarousel }

type RemoveSlideImage struct {
	SlideIndex int
}

func (RemoveSlideImage) Name() string     { return "remove_slide_image" }
func (RemoveSlideImage) Category() string { return CategoryCarousel }

// Dropped records one invocation rejected at parse time. Malformed calls are
// dropped from the batch, never raised; a single bad call must not abort the
// others.
type Dropped struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Parse validates tool calls against the closed action set and returns the
// typed batch plus the dropped calls.
func Parse(calls []ToolCall) ([]Action, []Dropped) {
	var batch []Action
	var dropped []Dropped
	for _, call := range calls {
		act, reason := parseOne(call)
		if act == nil {
			dropped = append(dropped, Dropped{Name: call.Name, Reason: reason})
			continue
		}
		batch = append(batch, act)
	}
	return batch, dropped
}

func parseOne(call ToolCall) (Action, string) {
	args := call.Arguments
	switch strings.ToLower(strings.TrimSpace(call.Name)) {
	case "edit_card":
		ct, ok := argContentType(args)
		if !ok {
			return nil, "missing content_type"
		}
		idx, ok := argInt(args, "index")
		if !ok {
			return nil, "missing index"
		}
		text, ok := argText(args, "new_content")
		if !ok {
			return nil, "missing new_content"
		}
		return EditCard{ContentType: ct, Index: idx, NewContent: text}, ""
	case "remove_card":
		ct, ok := argContentType(args)
		if !ok {
			return nil, "missing content_type"
		}
		idx, ok := argInt(args, "index")
		if !ok {
			return nil, "missing index"
		}
		return RemoveCard{ContentType: ct, Index: idx}, ""
	case "select_card":
		ct, ok := argContentType(args)
		if !ok {
			return nil, "missing content_type"
		}
		idx, ok := argInt(args, "index")
		if !ok {
			return nil, "missing index"
		}
		return SelectCard{ContentType: ct, Index: idx}, ""
	case "regenerate_section":
		ct, ok := argContentType(args)
		if !ok {
			return nil, "missing content_type"
		}
		return RegenerateSection{ContentType: ct}, ""
	case "add_more":
		ct, ok := argContentType(args)
		if !ok {
			return nil, "missing content_type"
		}
		return AddMore{ContentType: ct}, ""
	case "generate_image":
		prompt, ok := argString(args, "prompt")
		if !ok {
			return nil, "missing prompt"
		}
		return GenerateImage{
			Prompt:        prompt,
			UseReferences: argBool(args, "use_references"),
			AspectRatio:   optString(args, "aspect_ratio"),
		}, ""
	case "refine_image":
		id, ok := argUUID(args, "image_id")
		if !ok {
			return nil, "missing image_id"
		}
		prompt, ok := argString(args, "refinement_prompt")
		if !ok {
			return nil, "missing refinement_prompt"
		}
		return RefineImage{
			ImageID:          id,
			RefinementPrompt: prompt,
			UseReferences:    argBool(args, "use_references"),
		}, ""
	case "generate_thumbnail":
		prompt, ok := argString(args, "prompt")
		if !ok {
			return nil, "missing prompt"
		}
		slot, ok := argInt(args, "thumbnail_index")
		if !ok || slot < 1 {
			return nil, "missing thumbnail_index"
		}
		return GenerateThumbnail{
			Prompt:         prompt,
			ThumbnailIndex: slot,
			UseReferences:  argBool(args, "use_references"),
			AspectRatio:    optString(args, "aspect_ratio"),
		}, ""
	case "edit_carousel_slide":
		idx, ok := argInt(args, "slide_index")
		if !ok {
			return nil, "missing slide_index"
		}
		field, ok := argString(args, "field")
		if !ok || !carousel.ValidSlideField(field) {
			return nil, "invalid field"
		}
		value, ok := argText(args, "value")
		if !ok {
			return nil, "missing value"
		}
		return EditCarouselSlide{SlideIndex: idx, Field: field, Value: value}, ""
	case "set_slide_image":
		idx, ok := argInt(args, "slide_index")
		if !ok {
			return nil, "missing slide_index"
		}
		id, ok := argUUID(args, "asset_id")
		if !ok {
			return nil, "missing asset_id"
		}
		return SetSlideImage{SlideIndex: idx, AssetID: id}, ""
	case "remove_slide_image":
		idx, ok := argInt(args, "slide_index")
		if !ok {
			return nil, "missing slide_index"
		}
		return RemoveSlideImage{SlideIndex: idx}, ""
	default:
		return nil, "unrecognized action"
	}
}

func argContentType(args map[string]any) (content.Type, bool) {
	raw, ok := argString(args, "content_type")
	if !ok {
		return "", false
	}
	return content.ParseType(strings.ToLower(raw))
}

// argString requires a present, non-empty string.
func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

// argText requires a present string but allows it to be empty (clearing a
// field is a legitimate edit).
func argText(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func optString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

// argInt accepts the numeric shapes JSON decoding produces.
func argInt(args map[string]any, key string) (int, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		if float64(i) != n {
			return 0, false
		}
		return i, true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func argBool(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func argUUID(args map[string]any, key string) (uuid.UUID, bool) {
	s, ok := argString(args, key)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

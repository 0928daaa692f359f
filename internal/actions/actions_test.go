package actions

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/postforge-backend/internal/content"
)

func TestParseValidCalls(t *testing.T) {
	calls := []ToolCall{
		{Name: "edit_card", Arguments: map[string]any{"content_type": "hook", "index": float64(1), "new_content": "Better hook"}},
		{Name: "remove_card", Arguments: map[string]any{"content_type": "cta", "index": float64(0)}},
		{Name: "select_card", Arguments: map[string]any{"content_type": "title", "index": float64(-1)}},
		{Name: "regenerate_section", Arguments: map[string]any{"content_type": "visual"}},
		{Name: "add_more", Arguments: map[string]any{"content_type": "hook"}},
		{Name: "generate_image", Arguments: map[string]any{"prompt": "a lighthouse", "aspect_ratio": "16:9"}},
		{Name: "refine_image", Arguments: map[string]any{"image_id": uuid.NewString(), "refinement_prompt": "warmer light"}},
		{Name: "generate_thumbnail", Arguments: map[string]any{"prompt": "bold text", "thumbnail_index": float64(2)}},
		{Name: "edit_carousel_slide", Arguments: map[string]any{"slide_index": float64(0), "field": "headline", "value": "New headline"}},
		{Name: "set_slide_image", Arguments: map[string]any{"slide_index": float64(1), "asset_id": uuid.NewString()}},
		{Name: "remove_slide_image", Arguments: map[string]any{"slide_index": float64(1)}},
	}
	batch, dropped := Parse(calls)
	if len(dropped) != 0 {
		t.Fatalf("dropped = %v, want none", dropped)
	}
	if len(batch) != len(calls) {
		t.Fatalf("parsed %d actions, want %d", len(batch), len(calls))
	}

	edit, ok := batch[0].(EditCard)
	if !ok || edit.ContentType != content.TypeHook || edit.Index != 1 || edit.NewContent != "Better hook" {
		t.Fatalf("batch[0] = %#v", batch[0])
	}
	sel, ok := batch[2].(SelectCard)
	if !ok || sel.Index != -1 {
		t.Fatalf("batch[2] = %#v", batch[2])
	}
	thumb, ok := batch[7].(GenerateThumbnail)
	if !ok || thumb.ThumbnailIndex != 2 {
		t.Fatalf("batch[7] = %#v", batch[7])
	}
}

func TestParseDropsMalformed(t *testing.T) {
	cases := []struct {
		name string
		call ToolCall
	}{
		{"unknown name", ToolCall{Name: "launch_rocket", Arguments: map[string]any{}}},
		{"missing index", ToolCall{Name: "edit_card", Arguments: map[string]any{"content_type": "hook", "new_content": "x"}}},
		{"mistyped index", ToolCall{Name: "edit_card", Arguments: map[string]any{"content_type": "hook", "index": "one", "new_content": "x"}}},
		{"fractional index", ToolCall{Name: "remove_card", Arguments: map[string]any{"content_type": "hook", "index": 1.5}}},
		{"bad content type", ToolCall{Name: "select_card", Arguments: map[string]any{"content_type": "banner", "index": float64(0)}}},
		{"missing prompt", ToolCall{Name: "generate_image", Arguments: map[string]any{"aspect_ratio": "1:1"}}},
		{"bad uuid", ToolCall{Name: "refine_image", Arguments: map[string]any{"image_id": "not-a-uuid", "refinement_prompt": "x"}}},
		{"zero thumbnail slot", ToolCall{Name: "generate_thumbnail", Arguments: map[string]any{"prompt": "x", "thumbnail_index": float64(0)}}},
		{"bad slide field", ToolCall{Name: "edit_carousel_slide", Arguments: map[string]any{"slide_index": float64(0), "field": "position", "value": "9"}}},
		{"nil arguments", ToolCall{Name: "add_more", Arguments: nil}},
	}
	for _, tc := range cases {
		batch, dropped := Parse([]ToolCall{tc.call})
		if len(batch) != 0 || len(dropped) != 1 {
			t.Errorf("%s: batch=%v dropped=%v, want 0/1", tc.name, batch, dropped)
		}
	}
}

func TestParseMalformedDoesNotAbortBatch(t *testing.T) {
	calls := []ToolCall{
		{Name: "select_card", Arguments: map[string]any{"content_type": "hook", "index": float64(0)}},
		{Name: "bogus", Arguments: map[string]any{}},
		{Name: "select_card", Arguments: map[string]any{"content_type": "cta", "index": float64(-2)}},
	}
	batch, dropped := Parse(calls)
	if len(batch) != 2 {
		t.Fatalf("parsed %d, want 2", len(batch))
	}
	if len(dropped) != 1 || dropped[0].Name != "bogus" {
		t.Fatalf("dropped = %v", dropped)
	}
}

func TestParseAllowsEmptyEditText(t *testing.T) {
	batch, dropped := Parse([]ToolCall{
		{Name: "edit_carousel_slide", Arguments: map[string]any{"slide_index": float64(0), "field": "body", "value": ""}},
	})
	if len(batch) != 1 || len(dropped) != 0 {
		t.Fatalf("clearing a field should parse, got batch=%v dropped=%v", batch, dropped)
	}
}

package actions

// ToolSchema describes one action to the model as a function tool.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

func contentTypeProp() map[string]any {
	return map[string]any{
		"type":        "string",
		"enum":        []string{"hook", "body", "intro", "title", "cta", "visual"},
		"description": "Which content section to target.",
	}
}

// Schemas returns the closed tool set advertised to the model. Adding an
// action here requires a matching case in Parse and in the dispatcher.
func Schemas() []ToolSchema {
	return []ToolSchema{
		{
			Name:        "edit_card",
			Description: "Rewrite one generated content item in place.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content_type": contentTypeProp(),
					"index":        map[string]any{"type": "integer", "description": "Zero-based item index. Use 0 for body."},
					"new_content":  map[string]any{"type": "string"},
				},
				"required": []string{"content_type", "index", "new_content"},
			},
		},
		{
			Name:        "remove_card",
			Description: "Delete one generated content item. The body section cannot be removed.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content_type": contentTypeProp(),
					"index":        map[string]any{"type": "integer"},
				},
				"required": []string{"content_type", "index"},
			},
		},
		{
			Name:        "select_card",
			Description: "Mark one item as the user's selection. Index -1 clears the selection; -2 explicitly skips the CTA section.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content_type": contentTypeProp(),
					"index":        map[string]any{"type": "integer"},
				},
				"required": []string{"content_type", "index"},
			},
		},
		{
			Name:        "regenerate_section",
			Description: "Ask for one section's content to be regenerated from scratch.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content_type": contentTypeProp(),
				},
				"required": []string{"content_type"},
			},
		},
		{
			Name:        "add_more",
			Description: "Ask for additional items to be appended to one section.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"content_type": contentTypeProp(),
				},
				"required": []string{"content_type"},
			},
		},
		{
			Name:        "generate_image",
			Description: "Generate a new image for the project from a prompt.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt":         map[string]any{"type": "string"},
					"use_references": map[string]any{"type": "boolean"},
					"aspect_ratio":   map[string]any{"type": "string", "enum": []string{"1:1", "16:9", "9:16", "4:5"}},
				},
				"required": []string{"prompt"},
			},
		},
		{
			Name:        "refine_image",
			Description: "Refine an existing generated image with a follow-up instruction.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"image_id":          map[string]any{"type": "string", "description": "UUID of the parent image."},
					"refinement_prompt": map[string]any{"type": "string"},
					"use_references":    map[string]any{"type": "boolean"},
				},
				"required": []string{"image_id", "refinement_prompt"},
			},
		},
		{
			Name:        "generate_thumbnail",
			Description: "Generate a thumbnail image for one visual-concept slot.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"prompt":          map[string]any{"type": "string"},
					"thumbnail_index": map[string]any{"type": "integer", "description": "1-based visual-concept slot number."},
					"use_references":  map[string]any{"type": "boolean"},
					"aspect_ratio":    map[string]any{"type": "string", "enum": []string{"1:1", "16:9", "9:16", "4:5"}},
				},
				"required": []string{"prompt", "thumbnail_index"},
			},
		},
		{
			Name:        "edit_carousel_slide",
			Description: "Edit one text field of a carousel slide.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slide_index": map[string]any{"type": "integer"},
					"field":       map[string]any{"type": "string", "enum": []string{"headline", "body", "cta", "visual_prompt"}},
					"value":       map[string]any{"type": "string"},
				},
				"required": []string{"slide_index", "field", "value"},
			},
		},
		{
			Name:        "set_slide_image",
			Description: "Attach a generated image to a carousel slide.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slide_index": map[string]any{"type": "integer"},
					"asset_id":    map[string]any{"type": "string", "description": "UUID of a generated image in this project."},
				},
				"required": []string{"slide_index", "asset_id"},
			},
		},
		{
			Name:        "remove_slide_image",
			Description: "Detach the image from a carousel slide.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"slide_index": map[string]any{"type": "integer"},
				},
				"required": []string{"slide_index"},
			},
		},
	}
}

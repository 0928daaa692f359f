package content

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/yungbote/postforge-backend/internal/types"
	"github.com/yungbote/postforge-backend/internal/workflow"
)

// Type enumerates the generated content sections of an Output.
type Type string

const (
	TypeHook   Type = "hook"
	TypeBody   Type = "body"
	TypeIntro  Type = "intro"
	TypeTitle  Type = "title"
	TypeCTA    Type = "cta"
	TypeVisual Type = "visual"
)

// AllTypes is the closed set of content types, in generation order.
var AllTypes = []Type{TypeHook, TypeBody, TypeIntro, TypeTitle, TypeCTA, TypeVisual}

// fieldAccess binds a content type to its Output columns. This table is the
// single mapping shared by the editor, the selection mutator and the
// generation writer; a new content type must be added here together with its
// action-schema entry.
type fieldAccess struct {
	column      string
	items       func(*types.Output) []string
	setItems    func(*types.Output, []string)
	original    func(*types.Output) []string
	setOriginal func(*types.Output, []string)
	selected    func(*types.Output) int
	setSelected func(*types.Output, int)
	removable   bool
	selectable  bool
	skippable   bool
}

var fieldTable = map[Type]fieldAccess{
	TypeHook: {
		column:      "hooks",
		items:       func(o *types.Output) []string { return decodeStrings(o.Hooks) },
		setItems:    func(o *types.Output, v []string) { o.Hooks = encodeStrings(v) },
		original:    func(o *types.Output) []string { return decodeStrings(o.HooksOriginal) },
		setOriginal: func(o *types.Output, v []string) { o.HooksOriginal = encodeStrings(v) },
		selected:    func(o *types.Output) int { return o.SelectedHookIndex },
		setSelected: func(o *types.Output, v int) { o.SelectedHookIndex = v },
		removable:   true,
		selectable:  true,
	},
	TypeBody: {
		// Body is a single string addressed as index 0. It is neither
		// removable nor selectable; its step completes when non-empty.
		column: "body_content",
		items: func(o *types.Output) []string {
			if o.BodyContent == "" {
				return nil
			}
			return []string{o.BodyContent}
		},
		setItems: func(o *types.Output, v []string) {
			if len(v) == 0 {
				o.BodyContent = ""
				return
			}
			o.BodyContent = v[0]
		},
		original: func(o *types.Output) []string {
			if o.BodyContentOriginal == "" {
				return nil
			}
			return []string{o.BodyContentOriginal}
		},
		setOriginal: func(o *types.Output, v []string) {
			if len(v) == 0 {
				o.BodyContentOriginal = ""
				return
			}
			o.BodyContentOriginal = v[0]
		},
		selected:    func(o *types.Output) int { return types.SelectionNone },
		setSelected: func(o *types.Output, v int) {},
	},
	TypeIntro: {
		column:      "intros",
		items:       func(o *types.Output) []string { return decodeStrings(o.Intros) },
		setItems:    func(o *types.Output, v []string) { o.Intros = encodeStrings(v) },
		original:    func(o *types.Output) []string { return decodeStrings(o.IntrosOriginal) },
		setOriginal: func(o *types.Output, v []string) { o.IntrosOriginal = encodeStrings(v) },
		selected:    func(o *types.Output) int { return o.SelectedIntroIndex },
		setSelected: func(o *types.Output, v int) { o.SelectedIntroIndex = v },
		removable:   true,
		selectable:  true,
	},
	TypeTitle: {
		column:      "titles",
		items:       func(o *types.Output) []string { return decodeStrings(o.Titles) },
		setItems:    func(o *types.Output, v []string) { o.Titles = encodeStrings(v) },
		original:    func(o *types.Output) []string { return decodeStrings(o.TitlesOriginal) },
		setOriginal: func(o *types.Output, v []string) { o.TitlesOriginal = encodeStrings(v) },
		selected:    func(o *types.Output) int { return o.SelectedTitleIndex },
		setSelected: func(o *types.Output, v int) { o.SelectedTitleIndex = v },
		removable:   true,
		selectable:  true,
	},
	TypeCTA: {
		column:      "ctas",
		items:       func(o *types.Output) []string { return decodeStrings(o.CTAs) },
		setItems:    func(o *types.Output, v []string) { o.CTAs = encodeStrings(v) },
		original:    func(o *types.Output) []string { return decodeStrings(o.CTAsOriginal) },
		setOriginal: func(o *types.Output, v []string) { o.CTAsOriginal = encodeStrings(v) },
		selected:    func(o *types.Output) int { return o.SelectedCTAIndex },
		setSelected: func(o *types.Output, v int) { o.SelectedCTAIndex = v },
		removable:   true,
		selectable:  true,
		skippable:   true,
	},
	TypeVisual: {
		column:      "visual_concepts",
		items:       func(o *types.Output) []string { return decodeConcepts(o.VisualConcepts) },
		setItems:    func(o *types.Output, v []string) { o.VisualConcepts = encodeConcepts(v) },
		original:    func(o *types.Output) []string { return decodeConcepts(o.VisualConceptsOriginal) },
		setOriginal: func(o *types.Output, v []string) { o.VisualConceptsOriginal = encodeConcepts(v) },
		selected:    func(o *types.Output) int { return o.SelectedVisualIndex },
		setSelected: func(o *types.Output, v int) { o.SelectedVisualIndex = v },
		removable:   true,
		selectable:  true,
	},
}

// ParseType returns the content type for its wire name, or false for
// anything outside the closed set.
func ParseType(s string) (Type, bool) {
	t := Type(s)
	_, ok := fieldTable[t]
	return t, ok
}

// Column returns the storage column backing a content type's items.
func Column(t Type) string { return fieldTable[t].column }

// stepTypes maps workflow steps to the content type they produce.
var stepTypes = map[string]Type{
	workflow.StepHooks:      TypeHook,
	workflow.StepIntros:     TypeIntro,
	workflow.StepBody:       TypeBody,
	workflow.StepTitles:     TypeTitle,
	workflow.StepCTAs:       TypeCTA,
	workflow.StepVisuals:    TypeVisual,
	workflow.StepThumbnails: TypeVisual,
}

// TypeForStep returns the content type a workflow step produces, if any.
func TypeForStep(step string) (Type, bool) {
	t, ok := stepTypes[step]
	return t, ok
}

// decodeStrings parses a serialized []string. Parse failures fall back to an
// empty sequence by policy, never to an error.
func decodeStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func encodeStrings(v []string) datatypes.JSON {
	if v == nil {
		v = []string{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

// decodeConcepts parses visual concepts ([{"description": ...}]) down to
// their description strings, with the same lenient fallback.
func decodeConcepts(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var objs []types.VisualConcept
	if err := json.Unmarshal(raw, &objs); err != nil {
		return nil
	}
	out := make([]string, 0, len(objs))
	for _, c := range objs {
		out = append(out, c.Description)
	}
	return out
}

func encodeConcepts(v []string) datatypes.JSON {
	objs := make([]types.VisualConcept, 0, len(v))
	for _, d := range v {
		objs = append(objs, types.VisualConcept{Description: d})
	}
	raw, err := json.Marshal(objs)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

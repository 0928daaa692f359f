package content

import (
	"errors"
	"testing"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/types"
)

func newOutput(t *testing.T) *types.Output {
	t.Helper()
	o := &types.Output{
		SelectedHookIndex:   types.SelectionNone,
		SelectedIntroIndex:  types.SelectionNone,
		SelectedTitleIndex:  types.SelectionNone,
		SelectedCTAIndex:    types.SelectionNone,
		SelectedVisualIndex: types.SelectionNone,
	}
	SetItems(o, TypeHook, []string{"A", "B", "C"})
	SetOriginal(o, TypeHook, []string{"A", "B", "C"})
	SetItems(o, TypeCTA, []string{"Follow us", "Sign up"})
	SetOriginal(o, TypeCTA, []string{"Follow us", "Sign up"})
	SetItems(o, TypeBody, []string{"the body"})
	SetOriginal(o, TypeBody, []string{"the body"})
	SetItems(o, TypeVisual, []string{"a sunrise", "a chart"})
	SetOriginal(o, TypeVisual, []string{"a sunrise", "a chart"})
	return o
}

func TestEditItemKeepsOriginal(t *testing.T) {
	o := newOutput(t)
	old, err := EditItem(o, TypeHook, 1, "B2")
	if err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	if old != "B" {
		t.Fatalf("EditItem old = %q, want B", old)
	}
	if got := Items(o, TypeHook)[1]; got != "B2" {
		t.Fatalf("items[1] = %q, want B2", got)
	}
	if got := Original(o, TypeHook)[1]; got != "B" {
		t.Fatalf("original[1] = %q, edit must not mutate originals", got)
	}
}

func TestEditItemOutOfRange(t *testing.T) {
	o := newOutput(t)
	for _, idx := range []int{-1, 3, 99} {
		if _, err := EditItem(o, TypeHook, idx, "x"); !errors.Is(err, errdef.ErrOutOfRange) {
			t.Fatalf("EditItem(%d) err = %v, want ErrOutOfRange", idx, err)
		}
	}
}

func TestRevertAfterEdit(t *testing.T) {
	o := newOutput(t)
	if _, err := EditItem(o, TypeHook, 0, "edited"); err != nil {
		t.Fatalf("EditItem: %v", err)
	}
	old, restored, err := Revert(o, TypeHook, 0)
	if err != nil {
		t.Fatalf("Revert: %v", err)
	}
	if old != "edited" || restored != "A" {
		t.Fatalf("Revert returned (%q, %q), want (edited, A)", old, restored)
	}
	if got := Items(o, TypeHook)[0]; got != "A" {
		t.Fatalf("items[0] = %q after revert, want A", got)
	}
}

func TestRevertWithoutOriginal(t *testing.T) {
	o := newOutput(t)
	if _, _, err := Revert(o, TypeIntro, 0); !errors.Is(err, errdef.ErrOutOfRange) {
		t.Fatalf("Revert on empty section err = %v, want ErrOutOfRange", err)
	}
}

func TestRemoveBodyUnsupported(t *testing.T) {
	o := newOutput(t)
	if err := RemoveItem(o, TypeBody, 0); !errors.Is(err, errdef.ErrUnsupported) {
		t.Fatalf("RemoveItem(body) err = %v, want ErrUnsupported", err)
	}
}

func TestRemoveShiftsButSelectionStaysStale(t *testing.T) {
	// Documented behavior: removing an item does not adjust the selection
	// index, so a prior selection can end up pointing at a shifted item.
	o := newOutput(t)
	if err := UpdateSelection(o, TypeHook, 1); err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}
	if err := RemoveItem(o, TypeHook, 0); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	items := Items(o, TypeHook)
	if len(items) != 2 || items[0] != "B" || items[1] != "C" {
		t.Fatalf("items after remove = %v, want [B C]", items)
	}
	if got := SelectedIndex(o, TypeHook); got != 1 {
		t.Fatalf("selection after remove = %d, want stale 1", got)
	}
	// The stale index now points at "C".
	if items[SelectedIndex(o, TypeHook)] != "C" {
		t.Fatalf("stale selection should point at C")
	}
}

func TestUpdateSelectionSentinels(t *testing.T) {
	o := newOutput(t)

	if err := UpdateSelection(o, TypeHook, types.SelectionNone); err != nil {
		t.Fatalf("UpdateSelection(-1) should always succeed: %v", err)
	}
	for _, idx := range []int{2, 3, -3} {
		if err := UpdateSelection(o, TypeCTA, idx); !errors.Is(err, errdef.ErrOutOfRange) {
			t.Fatalf("UpdateSelection(cta, %d) err = %v, want ErrOutOfRange", idx, err)
		}
	}

	// Explicit skip is a CTA-only sentinel.
	if err := UpdateSelection(o, TypeCTA, types.SelectionSkipped); err != nil {
		t.Fatalf("UpdateSelection(cta, -2): %v", err)
	}
	if err := UpdateSelection(o, TypeHook, types.SelectionSkipped); !errors.Is(err, errdef.ErrOutOfRange) {
		t.Fatalf("UpdateSelection(hook, -2) err = %v, want ErrOutOfRange", err)
	}

	if err := UpdateSelection(o, TypeBody, 0); !errors.Is(err, errdef.ErrUnsupported) {
		t.Fatalf("UpdateSelection(body) err = %v, want ErrUnsupported", err)
	}
}

func TestCompletedDerivation(t *testing.T) {
	o := newOutput(t)
	if Completed(o, TypeHook) {
		t.Fatalf("hook should not be complete with no selection")
	}
	if err := UpdateSelection(o, TypeHook, 0); err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}
	if !Completed(o, TypeHook) {
		t.Fatalf("hook should be complete after selection")
	}

	if !Completed(o, TypeBody) {
		t.Fatalf("body should be complete when non-empty")
	}
	o.BodyContent = ""
	if Completed(o, TypeBody) {
		t.Fatalf("body should be incomplete when empty")
	}

	// CTA counts an explicit skip as done.
	if Completed(o, TypeCTA) {
		t.Fatalf("cta should start incomplete")
	}
	if err := UpdateSelection(o, TypeCTA, types.SelectionSkipped); err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}
	if !Completed(o, TypeCTA) {
		t.Fatalf("cta skip should count as complete")
	}
}

func TestLenientParseFallsBackToEmpty(t *testing.T) {
	o := newOutput(t)
	o.Hooks = []byte("{not json")
	if got := Items(o, TypeHook); len(got) != 0 {
		t.Fatalf("corrupt column should decode to empty, got %v", got)
	}
}

func TestVisualConceptsRoundTripAsObjects(t *testing.T) {
	o := newOutput(t)
	if string(o.VisualConcepts) == "" {
		t.Fatalf("visual concepts not encoded")
	}
	items := Items(o, TypeVisual)
	if len(items) != 2 || items[0] != "a sunrise" {
		t.Fatalf("visual items = %v", items)
	}
	// Stored shape is [{"description": ...}], not bare strings.
	if want := `[{"description":"a sunrise"},{"description":"a chart"}]`; string(o.VisualConcepts) != want {
		t.Fatalf("stored visuals = %s, want %s", o.VisualConcepts, want)
	}
}

func TestAppendItemsLeavesOriginalsAndSelection(t *testing.T) {
	o := newOutput(t)
	if err := UpdateSelection(o, TypeHook, 2); err != nil {
		t.Fatalf("UpdateSelection: %v", err)
	}
	AppendItems(o, TypeHook, []string{"D", "E"})
	if got := len(Items(o, TypeHook)); got != 5 {
		t.Fatalf("items length = %d, want 5", got)
	}
	if got := len(Original(o, TypeHook)); got != 3 {
		t.Fatalf("original length = %d, want 3", got)
	}
	if got := SelectedIndex(o, TypeHook); got != 2 {
		t.Fatalf("selection = %d, want 2", got)
	}
}

func TestParseType(t *testing.T) {
	if _, ok := ParseType("hook"); !ok {
		t.Fatalf("hook should parse")
	}
	if _, ok := ParseType("banner"); ok {
		t.Fatalf("banner should not parse")
	}
}

func TestTypeForStep(t *testing.T) {
	cases := map[string]Type{
		"hooks":      TypeHook,
		"intros":     TypeIntro,
		"body":       TypeBody,
		"titles":     TypeTitle,
		"ctas":       TypeCTA,
		"visuals":    TypeVisual,
		"thumbnails": TypeVisual,
	}
	for step, want := range cases {
		got, ok := TypeForStep(step)
		if !ok || got != want {
			t.Errorf("TypeForStep(%q) = (%v, %v), want %v", step, got, ok, want)
		}
	}
	if _, ok := TypeForStep("setup"); ok {
		t.Errorf("setup should not map to a content type")
	}
}

package content

import (
	"fmt"

	"github.com/yungbote/postforge-backend/internal/pkg/errdef"
	"github.com/yungbote/postforge-backend/internal/types"
)

// Items returns the current items for a content type (body as a length-1
// sequence when non-empty).
func Items(o *types.Output, t Type) []string {
	return fieldTable[t].items(o)
}

// Original returns the first-generation snapshot for a content type.
func Original(o *types.Output, t Type) []string {
	return fieldTable[t].original(o)
}

// SelectedIndex returns the selection index for a content type.
func SelectedIndex(o *types.Output, t Type) int {
	return fieldTable[t].selected(o)
}

// SetItems overwrites the items array. Originals are untouched; use
// SetOriginal explicitly on first generation or reset.
func SetItems(o *types.Output, t Type, items []string) {
	fieldTable[t].setItems(o, items)
}

// SetOriginal overwrites the first-generation snapshot.
func SetOriginal(o *types.Output, t Type, items []string) {
	fieldTable[t].setOriginal(o, items)
}

// AppendItems appends freshly generated items, leaving originals and the
// selection untouched.
func AppendItems(o *types.Output, t Type, extra []string) {
	fa := fieldTable[t]
	fa.setItems(o, append(fa.items(o), extra...))
}

// EditItem overwrites the item at index and returns the prior value so the
// caller can write a ContentVersion row. Originals are never touched.
func EditItem(o *types.Output, t Type, index int, newContent string) (string, error) {
	fa := fieldTable[t]
	items := fa.items(o)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("%w: %s index %d, length %d", errdef.ErrOutOfRange, t, index, len(items))
	}
	old := items[index]
	items[index] = newContent
	fa.setItems(o, items)
	return old, nil
}

// RemoveItem deletes the item at index, shifting subsequent items down. The
// body section is not removable. The selection index is deliberately NOT
// adjusted: a selection at or after the removed index goes stale, and callers
// are expected to know that (observable, documented behavior).
func RemoveItem(o *types.Output, t Type, index int) error {
	fa := fieldTable[t]
	if !fa.removable {
		return fmt.Errorf("%w: cannot remove %s", errdef.ErrUnsupported, t)
	}
	items := fa.items(o)
	if index < 0 || index >= len(items) {
		return fmt.Errorf("%w: %s index %d, length %d", errdef.ErrOutOfRange, t, index, len(items))
	}
	fa.setItems(o, append(items[:index], items[index+1:]...))
	return nil
}

// UpdateSelection sets the selection index. SelectionNone (-1) is accepted
// for every selectable type without a bounds check; SelectionSkipped (-2) is
// accepted only where the section may be explicitly skipped (CTA). Any other
// value is bounds-checked against the current item count.
func UpdateSelection(o *types.Output, t Type, index int) error {
	fa := fieldTable[t]
	if !fa.selectable {
		return fmt.Errorf("%w: %s has no selection", errdef.ErrUnsupported, t)
	}
	switch {
	case index == types.SelectionNone:
	case index == types.SelectionSkipped:
		if !fa.skippable {
			return fmt.Errorf("%w: %s cannot be skipped", errdef.ErrOutOfRange, t)
		}
	case index < 0:
		return fmt.Errorf("%w: %s index %d", errdef.ErrOutOfRange, t, index)
	default:
		if n := len(fa.items(o)); index >= n {
			return fmt.Errorf("%w: %s index %d, length %d", errdef.ErrOutOfRange, t, index, n)
		}
	}
	fa.setSelected(o, index)
	return nil
}

// Revert restores the first-generation value at index and returns the value
// that was overwritten. Fails when the original snapshot has no entry at
// that position.
func Revert(o *types.Output, t Type, index int) (old string, restored string, err error) {
	fa := fieldTable[t]
	orig := fa.original(o)
	if index < 0 || index >= len(orig) {
		return "", "", fmt.Errorf("%w: %s has no original at index %d", errdef.ErrOutOfRange, t, index)
	}
	items := fa.items(o)
	if index >= len(items) {
		return "", "", fmt.Errorf("%w: %s index %d, length %d", errdef.ErrOutOfRange, t, index, len(items))
	}
	old = items[index]
	items[index] = orig[index]
	fa.setItems(o, items)
	return old, orig[index], nil
}

// Completed derives whether a content type's step is done. Body completes on
// a non-empty string; CTA counts an explicit skip as done; everything else
// needs a valid non-negative selection. The result is recomputed from the
// Output on every call, never cached.
func Completed(o *types.Output, t Type) bool {
	fa := fieldTable[t]
	if t == TypeBody {
		return o.BodyContent != ""
	}
	sel := fa.selected(o)
	if t == TypeCTA && sel == types.SelectionSkipped {
		return true
	}
	return sel >= 0 && sel < len(fa.items(o))
}

// CompletedSteps maps each content type to its derived completion state.
func CompletedSteps(o *types.Output) map[Type]bool {
	out := make(map[Type]bool, len(AllTypes))
	for _, t := range AllTypes {
		out[t] = Completed(o, t)
	}
	return out
}

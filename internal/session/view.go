package session

import "taskline/internal/storage"

// ViewState is the active filter plus the highlighted row within it.
type ViewState struct {
	Filter storage.Filter
	Cursor int
}

// CycleForward moves All -> Done -> Undone -> All and resets the cursor.
func (v *ViewState) CycleForward() {
	switch v.Filter {
	case storage.FilterAll:
		v.Filter = storage.FilterDone
	case storage.FilterDone:
		v.Filter = storage.FilterUndone
	default:
		v.Filter = storage.FilterAll
	}
	v.Cursor = 0
}

// CycleBackward is the reverse of CycleForward.
func (v *ViewState) CycleBackward() {
	switch v.Filter {
	case storage.FilterAll:
		v.Filter = storage.FilterUndone
	case storage.FilterUndone:
		v.Filter = storage.FilterDone
	default:
		v.Filter = storage.FilterAll
	}
	v.Cursor = 0
}

// MoveDown advances the cursor, stopping at the last row of a view with
// count rows.
func (v *ViewState) MoveDown(count int) {
	if count == 0 {
		return
	}
	v.Cursor = min(v.Cursor+1, count-1)
}

// MoveUp steps the cursor back, stopping at row 0.
func (v *ViewState) MoveUp() {
	v.Cursor = max(v.Cursor-1, 0)
}

// Top jumps to the first row.
func (v *ViewState) Top() {
	v.Cursor = 0
}

// Bottom jumps to the last row, or row 0 when the view is empty.
func (v *ViewState) Bottom(count int) {
	v.Cursor = max(count-1, 0)
}

// Reconcile clamps the cursor after the filtered count changed.
func (v *ViewState) Reconcile(count int) {
	v.Cursor = min(v.Cursor, max(count-1, 0))
}

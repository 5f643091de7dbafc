package caption

import "errors"

// ErrNotFound is returned by edits addressing an id that is not in
// the timeline.
var ErrNotFound = errors.New("caption not found")

// Field names the part of a caption an edit touched. It controls the
// sync dispatch rule: only style and animation edits broadcast.
type Field string

const (
	FieldNone      Field = ""
	FieldText      Field = "text"
	FieldStyle     Field = "style"
	FieldAnimation Field = "animation"
)

// EditContext carries the edit-dispatch mode. Threading it through
// every call keeps the broadcast rule an explicit function of its
// inputs instead of hidden global state.
type EditContext struct {
	SyncStyles bool
}

// Update applies an edited caption to the store. With style sync
// enabled and a style or animation edit, only the signaled field is
// copied onto every caption in the timeline, leaving their text and
// timing untouched. Otherwise the single caption matching the edited
// id is replaced in full.
func (s *Store) Update(edited Caption, field Field, ectx EditContext) {
	if ectx.SyncStyles && (field == FieldStyle || field == FieldAnimation) {
		s.replace(func(tl Timeline) Timeline {
			next := make(Timeline, len(tl))
			for i, c := range tl {
				if field == FieldStyle {
					c.Style = edited.Style
				} else {
					c.Animation = edited.Animation
				}
				next[i] = c
			}
			return next
		})
		return
	}

	s.replace(func(tl Timeline) Timeline {
		next := make(Timeline, len(tl))
		for i, c := range tl {
			if c.ID == edited.ID {
				next[i] = edited
			} else {
				next[i] = c
			}
		}
		return next
	})
}

// Split divides the caption with the given id at a rune offset into
// its text. The two halves take the original's position in sequence
// order and the timeline is re-sorted by start time. A missing id or
// a rejected split leaves the store unchanged.
func (s *Store) Split(id string, offset int) error {
	var splitErr error

	s.replace(func(tl Timeline) Timeline {
		idx := -1
		for i, c := range tl {
			if c.ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			splitErr = ErrNotFound
			return tl
		}

		first, second, err := SplitAt(tl[idx], offset)
		if err != nil {
			splitErr = err
			return tl
		}

		next := make(Timeline, 0, len(tl)+1)
		next = append(next, tl[:idx]...)
		next = append(next, first, second)
		next = append(next, tl[idx+1:]...)
		sortByStart(next)
		return next
	})

	return splitErr
}

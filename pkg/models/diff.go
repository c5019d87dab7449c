package models

// Change records one attribute whose value differs between two versions of an
// entity.
type Change struct {
	Field string
	Old   any
	New   any
}

type Changes []Change

func (c Changes) Empty() bool { return len(c) == 0 }

// OldValues returns the previous values keyed by field, as stored in audits.
func (c Changes) OldValues() map[string]any {
	out := make(map[string]any, len(c))
	for _, ch := range c {
		out[ch.Field] = ch.Old
	}
	return out
}

// NewValues returns the new values keyed by field.
func (c Changes) NewValues() map[string]any {
	out := make(map[string]any, len(c))
	for _, ch := range c {
		out[ch.Field] = ch.New
	}
	return out
}

func diffField[T comparable](out Changes, field string, before, after T) Changes {
	if before != after {
		out = append(out, Change{Field: field, Old: before, New: after})
	}
	return out
}

// DiffJob compares the persisted attributes of two jobs by value.
func DiffJob(before, after Job) Changes {
	var out Changes
	out = diffField(out, "label", before.Label, after.Label)
	out = diffField(out, "description", before.Description, after.Description)
	out = diffField(out, "status", int(before.Status), int(after.Status))
	return out
}

// DiffJobNote compares the mutable attributes of two notes by value.
func DiffJobNote(before, after JobNote) Changes {
	var out Changes
	out = diffField(out, "note", before.Note, after.Note)
	return out
}

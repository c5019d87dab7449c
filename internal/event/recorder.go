package event

import (
	"context"
	"sync"
)

// Recorder keeps every event it receives. It is safe for concurrent use.
type Recorder struct {
	mu            sync.Mutex
	StatusChanges []JobStatusChanged
	NotesCreated  []JobNoteCreated
	NotesUpdated  []JobNoteUpdated
}

func (r *Recorder) JobStatusChanged(_ context.Context, e JobStatusChanged) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StatusChanges = append(r.StatusChanges, e)
}

func (r *Recorder) JobNoteCreated(_ context.Context, e JobNoteCreated) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.NotesCreated = append(r.NotesCreated, e)
}

func (r *Recorder) JobNoteUpdated(_ context.Context, e JobNoteUpdated) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.NotesUpdated = append(r.NotesUpdated, e)
}

// Total returns the number of events recorded so far.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.StatusChanges) + len(r.NotesCreated) + len(r.NotesUpdated)
}

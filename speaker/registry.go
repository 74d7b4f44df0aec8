// Package speaker assigns human-readable display labels to the anonymous
// speaker identifiers produced by a diarization backend.
//
// A Registry is scoped to a single processing run. Labels are handed out in
// the order speakers first win a transcript segment, so the first speaker heard
// is "Speaker 1" regardless of the backend's own identifiers.
package speaker

import "fmt"

// DefaultLabelFormat is the label pattern used when none is configured.
const DefaultLabelFormat = "Speaker %d"

// Assignment pairs a backend speaker identifier with its display label.
type Assignment struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// Option configures a Registry.
type Option func(*Registry)

// WithLabelFormat sets the fmt pattern used to build labels. The pattern
// receives the 1-based ordinal as its only argument. Empty values are ignored.
func WithLabelFormat(format string) Option {
	return func(r *Registry) {
		if format != "" {
			r.format = format
		}
	}
}

// Registry maps backend speaker identifiers to stable display labels.
// It is not safe for concurrent use and must not be shared between runs.
type Registry struct {
	format string
	labels map[string]string
	order  []Assignment
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		format: DefaultLabelFormat,
		labels: make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the label already assigned to id, or assigns the next one.
func (r *Registry) Resolve(id string) string {
	if label, ok := r.labels[id]; ok {
		return label
	}
	label := fmt.Sprintf(r.format, len(r.order)+1)
	r.labels[id] = label
	r.order = append(r.order, Assignment{ID: id, Label: label})
	return label
}

// Lookup returns the label for id without assigning one.
func (r *Registry) Lookup(id string) (string, bool) {
	label, ok := r.labels[id]
	return label, ok
}

// Labels returns the assignments in the order they were made.
func (r *Registry) Labels() []Assignment {
	out := make([]Assignment, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of distinct speakers seen so far.
func (r *Registry) Len() int {
	return len(r.order)
}

package util

// Ptr returns a pointer to the given value.
func Ptr[T any](v T) *T {
	return &v
}

// ValueOr returns the value p points to, or def when p is nil. Optional
// config fields use it to tell "unset" from the zero value.
func ValueOr[T any](p *T, def T) T {
	if p != nil {
		return *p
	}
	return def
}

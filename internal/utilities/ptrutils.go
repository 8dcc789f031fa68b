package utilities

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Deref returns the value pointed to by p, or the zero value if p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

package pointers

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

func Float64(v float64) *float64 { return &v }
func String(v string) *string    { return &v }

// Float64Or dereferences p, returning def when p is nil.
func Float64Or(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

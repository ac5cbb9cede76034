package goutil

func String(s string) *string {
	return &s
}

func Bool(b bool) *bool {
	return &b
}

// StringOr dereferences s, falling back to def when s is nil or empty.
func StringOr(s *string, def string) string {
	if s != nil && *s != "" {
		return *s
	}
	return def
}

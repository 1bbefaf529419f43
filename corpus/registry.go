package corpus

// LineRegistry is the authoritative set of valid transit line identifiers.
// The response validator consults it to reject fabricated line numbers.
type LineRegistry struct {
	valid map[int]bool
}

// NewLineRegistry builds a registry from the corpus plus any extra lines
// configured by the operator (new lines with no inquiry history yet).
func NewLineRegistry(records []Record, extra []int) *LineRegistry {
	valid := make(map[int]bool)
	for _, rec := range records {
		for _, n := range rec.LineNumbers {
			if n >= 1 && n <= 999 {
				valid[n] = true
			}
		}
	}
	for _, n := range extra {
		if n >= 1 && n <= 999 {
			valid[n] = true
		}
	}
	return &LineRegistry{valid: valid}
}

// IsValidLine reports whether n is a known line identifier.
func (r *LineRegistry) IsValidLine(n int) bool {
	return r.valid[n]
}

// Size returns the number of registered lines.
func (r *LineRegistry) Size() int {
	return len(r.valid)
}

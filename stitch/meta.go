package stitch

// Meta returns every (context, value) pair stored under name, in
// insertion order.
// Complexity: O(k) where k is the number of entries for name.
func (s *Stitch) Meta(name string) []MetaEntry {
	entries := s.meta[name]
	out := make([]MetaEntry, len(entries))
	copy(out, entries)

	return out
}

// MetaCtx filters Meta(name) to entries whose Context equals ctx.
// Complexity: O(k).
func (s *Stitch) MetaCtx(name string, ctx int) []MetaEntry {
	all := s.meta[name]
	out := make([]MetaEntry, 0, len(all))
	for _, e := range all {
		if e.Context == ctx {
			out = append(out, e)
		}
	}

	return out
}

// MetaValues returns just the values from Meta(name), in insertion order.
func (s *Stitch) MetaValues(name string) []any {
	all := s.meta[name]
	out := make([]any, len(all))
	for i, e := range all {
		out[i] = e.Value
	}

	return out
}

// First returns the first value stored under name with the given context
// (NoContext for unscoped lookups), and whether one was found. Most
// required metadata keys are single-valued per context, so this is
// the common accessor.
func (s *Stitch) First(name string, ctx int) (any, bool) {
	for _, e := range s.meta[name] {
		if e.Context == ctx {
			return e.Value, true
		}
	}

	return nil, false
}

// SetMeta appends a (ctx, value) pair under name.
// Complexity: O(1) amortized.
func (s *Stitch) SetMeta(name string, ctx int, value any) {
	s.meta[name] = append(s.meta[name], MetaEntry{Context: ctx, Value: value})
}

// HasMeta reports whether name has any entries at all.
func (s *Stitch) HasMeta(name string) bool {
	return len(s.meta[name]) > 0
}

package diag

// Bag accumulates diagnostics in report order.
// Counters always reflect every added diagnostic, even past the display cap.
type Bag struct {
	items    []Diagnostic
	max      int // 0 — без ограничения
	errors   int
	warnings int
	dropped  int
}

func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	return &Bag{
		items: make([]Diagnostic, 0, min(max, 64)),
		max:   max,
	}
}

// Add appends a diagnostic and updates the counters.
// Returns false when the diagnostic was counted but not stored (display cap reached).
func (b *Bag) Add(d Diagnostic) bool {
	switch d.Severity {
	case SevError:
		b.errors++
	case SevWarning:
		b.warnings++
	}
	if b.max > 0 && len(b.items) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() int {
	return b.max
}

// HasErrors reports whether the compilation must be considered failed.
// With treatWarningsAsErrors any warning counts as an error.
func (b *Bag) HasErrors(treatWarningsAsErrors bool) bool {
	if b == nil {
		return false
	}
	if b.errors > 0 {
		return true
	}
	return treatWarningsAsErrors && b.warnings > 0
}

func (b *Bag) ErrorCount() int   { return b.errors }
func (b *Bag) WarningCount() int { return b.warnings }

// Dropped returns how many diagnostics were counted but not stored.
func (b *Bag) Dropped() int { return b.dropped }

// длина
func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает read-only slice диагностик.
// ВАЖНО: не модифицируйте возвращаемый срез! (он указывает на внутренний массив Bag)
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends diagnostics from other in their original order.
// Diagnostics other has already dropped still contribute to the counters.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	var errs, warns int
	for _, d := range other.items {
		switch d.Severity {
		case SevError:
			errs++
		case SevWarning:
			warns++
		}
		b.Add(d)
	}
	b.errors += other.errors - errs
	b.warnings += other.warnings - warns
	b.dropped += other.dropped
}

// Filter returns the stored diagnostics whose severity is at least min.
func (b *Bag) Filter(min Severity) []Diagnostic {
	out := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		if d.Severity >= min {
			out = append(out, d)
		}
	}
	return out
}

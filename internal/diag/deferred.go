package diag

import (
	"sort"

	"idlc/internal/source"
)

// Deferred buffers diagnostics of one pass and releases them ordered by key.
// Passes key findings by the arena index of the entity that triggered them, so
// the flushed sequence does not depend on traversal details.
type Deferred struct {
	entries []deferredEntry
}

type deferredEntry struct {
	key uint32
	seq int
	d   Diagnostic
}

// Add buffers d under key.
func (q *Deferred) Add(key uint32, d Diagnostic) {
	q.entries = append(q.entries, deferredEntry{key: key, seq: len(q.entries), d: d})
}

// Error buffers an error. The returned pointer stays valid until the next Add.
func (q *Deferred) Error(key uint32, code Code, primary source.Span, msg string) *Diagnostic {
	return q.push(key, NewError(code, primary, msg))
}

// Warning buffers a warning and returns a pointer so notes can be attached.
func (q *Deferred) Warning(key uint32, code Code, primary source.Span, msg string) *Diagnostic {
	return q.push(key, NewWarning(code, primary, msg))
}

func (q *Deferred) push(key uint32, d Diagnostic) *Diagnostic {
	q.Add(key, d)
	return &q.entries[len(q.entries)-1].d
}

// Len returns the number of buffered diagnostics.
func (q *Deferred) Len() int { return len(q.entries) }

// Flush emits everything to r ordered by key (insertion order within a key) and resets the buffer.
func (q *Deferred) Flush(r Reporter) {
	sort.SliceStable(q.entries, func(i, j int) bool {
		if q.entries[i].key != q.entries[j].key {
			return q.entries[i].key < q.entries[j].key
		}
		return q.entries[i].seq < q.entries[j].seq
	})
	for _, e := range q.entries {
		if r != nil {
			r.Report(e.d.Code, e.d.Severity, e.d.Primary, e.d.Message, e.d.Notes)
		}
	}
	q.entries = q.entries[:0]
}

// AddNote appends a note to a buffered diagnostic.
func (d *Diagnostic) AddNote(sp source.Span, msg string) *Diagnostic {
	if d != nil {
		d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	}
	return d
}

package rewrite

// Progress is reported while a document is rewritten. Bytes counts input
// bytes consumed. Total is the input size, or zero if unknown.
type Progress struct {
	Units int64 `json:"units"`
	Bytes int64 `json:"bytes"`
	Total int64 `json:"total"`
}

// Fraction returns the completed share of the input between 0 and 1, or 0
// when the input size is unknown.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 0
	}
	f := float64(p.Bytes) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

type ProgressSink interface {
	Report(Progress)
}

// ProgressFunc adapts a function to ProgressSink.
type ProgressFunc func(Progress)

func (f ProgressFunc) Report(p Progress) {
	f(p)
}

// Offset returns a sink which adds base to every report before passing it
// on, for progress aggregated over several documents.
func Offset(sink ProgressSink, base Progress) ProgressSink {
	if sink == nil {
		return nil
	}
	return ProgressFunc(func(p Progress) {
		sink.Report(Progress{
			Units: base.Units + p.Units,
			Bytes: base.Bytes + p.Bytes,
			Total: base.Total,
		})
	})
}

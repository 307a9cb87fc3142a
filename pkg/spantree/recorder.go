package spantree

// Recorder receives operation counts from an Index. The engine itself
// stays free of metrics dependencies; hosts attach a prometheus-backed
// recorder (see pkg/observability) or their own.
type Recorder interface {
	RecordInsert()
	RecordRemove()
	RecordPointQuery()
	RecordSplit()
}

// nopRecorder drops everything.
type nopRecorder struct{}

func (nopRecorder) RecordInsert()     {}
func (nopRecorder) RecordRemove()     {}
func (nopRecorder) RecordPointQuery() {}
func (nopRecorder) RecordSplit()      {}

// IndexOption configures an Index at construction.
type IndexOption func(*Index)

// WithRecorder attaches a Recorder to the Index.
func WithRecorder(r Recorder) IndexOption {
	return func(ix *Index) {
		if r != nil {
			ix.rec = r
		}
	}
}

// Package snapshot drives a book.Book from a grouped, filtered OrderLog
// event stream and yields fixed-depth rows, plus an optional writer that
// serializes those rows with compression and an integrity checksum.
package snapshot

import (
	"iter"
	"log/slog"

	"github.com/2dav/qshbook/book"
	"github.com/2dav/qshbook/record"
)

// Row is one depth-N snapshot: [timestamp, Pb0, Vb0, Pa0, Va0, ...,
// Pb(n-1), Vb(n-1), Pa(n-1), Va(n-1)], length 1+4n.
type Row []int64

// Producer applies OrderLog transaction batches to a book.Book and
// yields a Row after every batch that leaves both sides at least n
// levels deep. Batches that would yield a short row are skipped rather
// than padded, per spec.md §4.5's snapshot(n) contract.
type Producer struct {
	book  *book.Book
	depth int
}

// NewProducer builds a Producer over b, emitting depth-n rows. b's
// strict mode governs whether a malformed batch aborts the whole
// sequence or is logged and skipped.
func NewProducer(b *book.Book, depth int) *Producer {
	return &Producer{book: b, depth: depth}
}

// Run drives batches, applying every record in each batch to the book in
// order, and yields one Row per batch where the book is deep enough on
// both sides. A book.Apply error terminates the sequence, forwarding the
// error as the iterator's error value.
func (p *Producer) Run(batches iter.Seq2[[]record.OrderLogRecord, error]) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for batch, err := range batches {
			if err != nil {
				yield(nil, err)
				return
			}

			for _, rec := range batch {
				if err := p.book.Apply(rec); err != nil {
					yield(nil, err)
					return
				}
			}

			row, ok := p.book.Snapshot(p.depth)
			if !ok {
				continue
			}

			if !yield(Row(row), nil) {
				return
			}
		}
	}
}

// NewRelaxedProducer builds a Producer backed by a fresh, non-strict
// book.Book: an Unknown event or invariant violation is logged via
// logger and the offending record is skipped rather than aborting the
// whole run. This favors exploratory/batch tooling over the strict,
// fail-fast default of book.New.
func NewRelaxedProducer(depth int, logger *slog.Logger) (*Producer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	b, err := book.New(book.WithStrictMode(false), book.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return NewProducer(b, depth), nil
}

// Package group turns a flat OrderLog record sequence into transaction
// batches, and provides the two standard filters that sit either side of
// that grouping.
package group

import (
	"iter"

	"github.com/2dav/qshbook/record"
)

// Transactions accumulates src into batches, each ending at (and
// including) the first record whose flags carry record.FlagTxEnd. It is a
// pure adapter: it never reorders or drops records, and it buffers at
// most one in-progress batch at a time.
//
// A decode error from src is forwarded immediately, along with whatever
// partial batch had accumulated so far discarded, matching the "decode
// errors terminate the sequence at the current record" policy the
// underlying stream decoders already follow.
func Transactions(src iter.Seq2[record.OrderLogRecord, error]) iter.Seq2[[]record.OrderLogRecord, error] {
	return func(yield func([]record.OrderLogRecord, error) bool) {
		var batch []record.OrderLogRecord

		for rec, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}

			batch = append(batch, rec)

			if !rec.Flags.Has(record.FlagTxEnd) {
				continue
			}

			if !yield(batch, nil) {
				return
			}

			batch = nil
		}

		if len(batch) > 0 {
			yield(batch, nil)
		}
	}
}

// SystemFilter drops records marked as non-system administrative entries
// before they ever reach the grouper, per spec's pre-grouping filter.
func SystemFilter(src iter.Seq2[record.OrderLogRecord, error]) iter.Seq2[record.OrderLogRecord, error] {
	return func(yield func(record.OrderLogRecord, error) bool) {
		for rec, err := range src {
			if err != nil {
				yield(record.OrderLogRecord{}, err)
				return
			}

			if rec.Flags.Has(record.FlagNonSystem) {
				continue
			}

			if !yield(rec, nil) {
				return
			}
		}
	}
}

// FOKIOCFilter drops post-grouping batches whose sole originating order
// was fill-or-kill or immediate-or-cancel and produced no deal: such
// batches would otherwise leave an immediately-removed order's Add event
// in the book application stream for no reason, since the order never
// actually rested.
func FOKIOCFilter(src iter.Seq2[[]record.OrderLogRecord, error]) iter.Seq2[[]record.OrderLogRecord, error] {
	return func(yield func([]record.OrderLogRecord, error) bool) {
		for batch, err := range src {
			if err != nil {
				yield(nil, err)
				return
			}

			if isEmptyFOKIOC(batch) {
				continue
			}

			if !yield(batch, nil) {
				return
			}
		}
	}
}

func isEmptyFOKIOC(batch []record.OrderLogRecord) bool {
	if len(batch) == 0 {
		return false
	}

	fokIOC := false
	for _, rec := range batch {
		if rec.OrderID != batch[0].OrderID {
			return false
		}

		if rec.Flags.Has(record.FlagFillOrKill) || rec.Flags.Has(record.FlagImmediateOrCancel) {
			fokIOC = true
		}

		if rec.EventClass() == record.EventFill {
			return false
		}
	}

	return fokIOC
}

package stream

import (
	"fmt"
	"iter"

	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/record"
)

// ticksPerMillisecond converts the millisecond timestamp delta every record
// carries into the file's 100-ns tick base. OrderLog, Deal and AuxInfo
// records carry that delta as a signed LEB; Quotes records carry it as an
// unsigned ULEB.
const ticksPerMillisecond = 10_000

// OrderLogDecoder decodes a sequence of OrderLog records from a
// primitive.Reader positioned just past the stream header. It is
// stateful: every field but DealID, DealPrice and Flags inherits its previous
// decoded value when a record's field mask omits it, per the retained
// state a growing() delta needs to decode the next present value.
type OrderLogDecoder struct {
	r *primitive.Reader

	prevTimestamp    int64
	prevOrderID      int64
	prevBidPrice     int64
	prevAskPrice     int64
	prevAmount       int64
	prevAmountRest   int64
	prevDealID       int64
	prevDealPrice    int64
	prevOpenInterest int64
}

// NewOrderLogDecoder wraps r for OrderLog decoding, seeded with the
// header's timestamp as the zero point every record's delta builds on.
func NewOrderLogDecoder(r *primitive.Reader, headerTimestamp int64) *OrderLogDecoder {
	return &OrderLogDecoder{r: r, prevTimestamp: headerTimestamp}
}

// All returns a pull iterator over the remaining records in the stream.
// It stops cleanly at end of stream and stops with an error on the first
// malformed record; the caller must check the yielded error on every
// iteration, including the last.
func (d *OrderLogDecoder) All() iter.Seq2[record.OrderLogRecord, error] {
	return func(yield func(record.OrderLogRecord, error) bool) {
		for {
			rec, ok, err := d.next()
			if err != nil {
				yield(record.OrderLogRecord{}, err)
				return
			}

			if !ok {
				return
			}

			if !yield(rec, nil) {
				return
			}
		}
	}
}

// next decodes one record. ok is false with a nil error exactly at a
// clean end of stream, i.e. no bytes remain before the field mask.
func (d *OrderLogDecoder) next() (record.OrderLogRecord, bool, error) {
	maskVal, ok, err := d.r.TryReadULEB()
	if err != nil || !ok {
		return record.OrderLogRecord{}, false, err
	}

	mask := fieldMask(maskVal) //nolint:gosec

	deltaMs, err := d.r.ReadLEB()
	if err != nil {
		return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: timestamp delta: %w", err)
	}

	d.prevTimestamp += deltaMs * ticksPerMillisecond

	rec := record.OrderLogRecord{Timestamp: d.prevTimestamp}

	// Flags resolve the side before price is decoded, since bid and ask
	// price cursors are tracked independently.
	if mask.has(fieldFlags) {
		flagsVal, err := d.r.ReadULEB()
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: flags: %w", err)
		}

		rec.Flags = record.OrderFlags(flagsVal) //nolint:gosec
	}

	if mask.has(fieldOrderID) {
		id, err := d.r.ReadGrowing(d.prevOrderID)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: order id: %w", err)
		}

		d.prevOrderID = id
	}

	rec.OrderID = d.prevOrderID

	if mask.has(fieldPrice) {
		cursor := &d.prevBidPrice
		if side, ok := rec.Flags.Side(); ok && side == record.SideSell {
			cursor = &d.prevAskPrice
		}

		price, err := d.r.ReadGrowing(*cursor)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: price: %w", err)
		}

		*cursor = price
	}

	if side, ok := rec.Flags.Side(); ok && side == record.SideSell {
		rec.Price = d.prevAskPrice
	} else {
		rec.Price = d.prevBidPrice
	}

	if mask.has(fieldAmount) {
		amount, err := d.r.ReadGrowing(d.prevAmount)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: amount: %w", err)
		}

		d.prevAmount = amount
	}

	rec.Amount = d.prevAmount

	if mask.has(fieldAmountRest) {
		rest, err := d.r.ReadGrowing(d.prevAmountRest)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: amount rest: %w", err)
		}

		d.prevAmountRest = rest
	}

	rec.AmountRest = d.prevAmountRest

	// DealID and DealPrice do not inherit: an absent bit means this event
	// is not a fill, even though a prior record may have left
	// prevDealID/prevDealPrice non-zero. The prev* fields are kept only as
	// the delta base for the next present value, the same way a trade
	// sequence counter keeps incrementing across unrelated Add/Cancel
	// records in between fills.
	if mask.has(fieldDealID) {
		id, err := d.r.ReadGrowing(d.prevDealID)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: deal id: %w", err)
		}

		d.prevDealID = id
		rec.DealID = id
	}

	if mask.has(fieldDealPrice) {
		price, err := d.r.ReadGrowing(d.prevDealPrice)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: deal price: %w", err)
		}

		d.prevDealPrice = price
		rec.DealPrice = price
	}

	if mask.has(fieldOpenInterest) {
		oi, err := d.r.ReadGrowing(d.prevOpenInterest)
		if err != nil {
			return record.OrderLogRecord{}, false, fmt.Errorf("orderlog: open interest: %w", err)
		}

		d.prevOpenInterest = oi
	}

	rec.OpenInterest = d.prevOpenInterest

	return rec, true, nil
}

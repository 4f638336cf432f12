package stream

import (
	"fmt"
	"iter"

	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/record"
)

// DealDecoder decodes a sequence of Deal records. Every field inherits
// its previous decoded value when a record's field mask omits it; unlike
// OrderLog, a Deal record always represents a trade, so there is no
// classification field whose absence needs special handling.
type DealDecoder struct {
	r *primitive.Reader

	prevTimestamp    int64
	prevDealID       int64
	prevOrderID      int64
	prevPrice        int64
	prevAmount       int64
	prevOpenInterest int64
	prevFlags        record.DealFlags
}

// NewDealDecoder wraps r for Deal decoding, seeded with the header's
// timestamp.
func NewDealDecoder(r *primitive.Reader, headerTimestamp int64) *DealDecoder {
	return &DealDecoder{r: r, prevTimestamp: headerTimestamp}
}

// All returns a pull iterator over the remaining records in the stream.
func (d *DealDecoder) All() iter.Seq2[record.DealRecord, error] {
	return func(yield func(record.DealRecord, error) bool) {
		for {
			rec, ok, err := d.next()
			if err != nil {
				yield(record.DealRecord{}, err)
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

func (d *DealDecoder) next() (record.DealRecord, bool, error) {
	maskVal, ok, err := d.r.TryReadULEB()
	if err != nil || !ok {
		return record.DealRecord{}, false, err
	}

	mask := fieldMask(maskVal) //nolint:gosec

	deltaMs, err := d.r.ReadLEB()
	if err != nil {
		return record.DealRecord{}, false, fmt.Errorf("deal: timestamp delta: %w", err)
	}

	d.prevTimestamp += deltaMs * ticksPerMillisecond

	dealID, err := d.r.ReadGrowing(d.prevDealID)
	if err != nil {
		return record.DealRecord{}, false, fmt.Errorf("deal: deal id: %w", err)
	}

	d.prevDealID = dealID

	if mask.has(dealFieldOrderID) {
		id, err := d.r.ReadGrowing(d.prevOrderID)
		if err != nil {
			return record.DealRecord{}, false, fmt.Errorf("deal: order id: %w", err)
		}

		d.prevOrderID = id
	}

	if mask.has(dealFieldPrice) {
		price, err := d.r.ReadGrowing(d.prevPrice)
		if err != nil {
			return record.DealRecord{}, false, fmt.Errorf("deal: price: %w", err)
		}

		d.prevPrice = price
	}

	if mask.has(dealFieldAmount) {
		amount, err := d.r.ReadGrowing(d.prevAmount)
		if err != nil {
			return record.DealRecord{}, false, fmt.Errorf("deal: amount: %w", err)
		}

		d.prevAmount = amount
	}

	if mask.has(dealFieldFlags) {
		flagsVal, err := d.r.ReadULEB()
		if err != nil {
			return record.DealRecord{}, false, fmt.Errorf("deal: flags: %w", err)
		}

		d.prevFlags = record.DealFlags(flagsVal) //nolint:gosec
	}

	if mask.has(dealFieldOpenInterest) {
		oi, err := d.r.ReadGrowing(d.prevOpenInterest)
		if err != nil {
			return record.DealRecord{}, false, fmt.Errorf("deal: open interest: %w", err)
		}

		d.prevOpenInterest = oi
	}

	return record.DealRecord{
		Timestamp:    d.prevTimestamp,
		DealID:       d.prevDealID,
		OrderID:      d.prevOrderID,
		Price:        d.prevPrice,
		Amount:       d.prevAmount,
		OpenInterest: d.prevOpenInterest,
		Flags:        d.prevFlags,
	}, true, nil
}

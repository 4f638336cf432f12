package stream

import (
	"fmt"
	"iter"

	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/record"
)

// AuxInfoDecoder decodes a sequence of AuxInfo records: the per-instrument
// price/total/limit/deposit/rate figures and an optional message, each
// gated by its own field-presence bit since a recorder only emits the
// fields that changed since the previous record.
type AuxInfoDecoder struct {
	r *primitive.Reader

	prevTimestamp    int64
	prevPrice        int64
	prevAskTotal     int64
	prevBidTotal     int64
	prevOpenInterest int64
	prevHighLimit    int64
	prevLowLimit     int64
	prevDeposit      int64
	prevRate         int64
	prevMessage      string
	prevFlags        record.AuxFlags
}

// NewAuxInfoDecoder wraps r for AuxInfo decoding, seeded with the
// header's timestamp.
func NewAuxInfoDecoder(r *primitive.Reader, headerTimestamp int64) *AuxInfoDecoder {
	return &AuxInfoDecoder{r: r, prevTimestamp: headerTimestamp}
}

// All returns a pull iterator over the remaining records in the stream.
func (d *AuxInfoDecoder) All() iter.Seq2[record.AuxInfoRecord, error] {
	return func(yield func(record.AuxInfoRecord, error) bool) {
		for {
			rec, ok, err := d.next()
			if err != nil {
				yield(record.AuxInfoRecord{}, err)
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

func (d *AuxInfoDecoder) next() (record.AuxInfoRecord, bool, error) {
	maskVal, ok, err := d.r.TryReadULEB()
	if err != nil || !ok {
		return record.AuxInfoRecord{}, false, err
	}

	mask := fieldMask(maskVal) //nolint:gosec

	deltaMs, err := d.r.ReadLEB()
	if err != nil {
		return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: timestamp delta: %w", err)
	}

	d.prevTimestamp += deltaMs * ticksPerMillisecond

	if mask.has(auxFieldPrice) {
		v, err := d.r.ReadGrowing(d.prevPrice)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: price: %w", err)
		}
		d.prevPrice = v
	}

	if mask.has(auxFieldAskTotal) {
		v, err := d.r.ReadGrowing(d.prevAskTotal)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: ask total: %w", err)
		}
		d.prevAskTotal = v
	}

	if mask.has(auxFieldBidTotal) {
		v, err := d.r.ReadGrowing(d.prevBidTotal)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: bid total: %w", err)
		}
		d.prevBidTotal = v
	}

	if mask.has(auxFieldOpenInterest) {
		v, err := d.r.ReadGrowing(d.prevOpenInterest)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: open interest: %w", err)
		}
		d.prevOpenInterest = v
	}

	if mask.has(auxFieldHighLimit) {
		v, err := d.r.ReadGrowing(d.prevHighLimit)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: high limit: %w", err)
		}
		d.prevHighLimit = v
	}

	if mask.has(auxFieldLowLimit) {
		v, err := d.r.ReadGrowing(d.prevLowLimit)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: low limit: %w", err)
		}
		d.prevLowLimit = v
	}

	if mask.has(auxFieldDeposit) {
		v, err := d.r.ReadGrowing(d.prevDeposit)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: deposit: %w", err)
		}
		d.prevDeposit = v
	}

	if mask.has(auxFieldRate) {
		v, err := d.r.ReadGrowing(d.prevRate)
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: rate: %w", err)
		}
		d.prevRate = v
	}

	// Message does not inherit across records carrying no message: unlike
	// the numeric fields, an absent message bit means this record has
	// none, not that yesterday's comment still applies.
	message := ""
	if mask.has(auxFieldMessage) {
		msg, err := d.r.ReadString()
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: message: %w", err)
		}
		d.prevMessage = msg
		message = msg
	}

	if mask.has(auxFieldFlags) {
		flagsVal, err := d.r.ReadULEB()
		if err != nil {
			return record.AuxInfoRecord{}, false, fmt.Errorf("auxinfo: flags: %w", err)
		}
		d.prevFlags = record.AuxFlags(flagsVal) //nolint:gosec
	}

	return record.AuxInfoRecord{
		Timestamp:    d.prevTimestamp,
		Price:        d.prevPrice,
		AskTotal:     d.prevAskTotal,
		BidTotal:     d.prevBidTotal,
		OpenInterest: d.prevOpenInterest,
		HighLimit:    d.prevHighLimit,
		LowLimit:     d.prevLowLimit,
		Deposit:      d.prevDeposit,
		Rate:         d.prevRate,
		Message:      message,
		Flags:        d.prevFlags,
	}, true, nil
}

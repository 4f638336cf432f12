package stream

import (
	"fmt"
	"iter"

	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/record"
)

// QuotesDecoder decodes a sequence of Quotes (L2 depth) records. Unlike
// OrderLog and Deal, a record's price cursor does not carry across
// records: every record starts a fresh book snapshot, so each level's
// price is a growing delta against the previous level within the same
// record, starting from zero.
type QuotesDecoder struct {
	r *primitive.Reader

	prevTimestamp int64
}

// NewQuotesDecoder wraps r for Quotes decoding, seeded with the header's
// timestamp.
func NewQuotesDecoder(r *primitive.Reader, headerTimestamp int64) *QuotesDecoder {
	return &QuotesDecoder{r: r, prevTimestamp: headerTimestamp}
}

// All returns a pull iterator over the remaining records in the stream.
func (d *QuotesDecoder) All() iter.Seq2[record.QuoteRecord, error] {
	return func(yield func(record.QuoteRecord, error) bool) {
		for {
			rec, ok, err := d.next()
			if err != nil {
				yield(record.QuoteRecord{}, err)
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

func (d *QuotesDecoder) next() (record.QuoteRecord, bool, error) {
	deltaMs, ok, err := d.r.TryReadULEB()
	if err != nil || !ok {
		return record.QuoteRecord{}, false, err
	}

	d.prevTimestamp += int64(deltaMs) * ticksPerMillisecond //nolint:gosec

	count, err := d.r.ReadULEB()
	if err != nil {
		return record.QuoteRecord{}, false, fmt.Errorf("quotes: level count: %w", err)
	}

	rec := record.QuoteRecord{
		Timestamp: d.prevTimestamp,
		Levels:    make([]record.QuoteLevel, 0, count),
	}

	var price, volume int64

	for i := uint64(0); i < count; i++ {
		mask, err := d.r.ReadULEB()
		if err != nil {
			return record.QuoteRecord{}, false, fmt.Errorf("quotes: level %d mask: %w", i, err)
		}

		fm := fieldMask(mask) //nolint:gosec

		if fm.has(quoteFieldPrice) {
			price, err = d.r.ReadGrowing(price)
			if err != nil {
				return record.QuoteRecord{}, false, fmt.Errorf("quotes: level %d price: %w", i, err)
			}
		}

		if fm.has(quoteFieldVolume) {
			volume, err = d.r.ReadGrowing(volume)
			if err != nil {
				return record.QuoteRecord{}, false, fmt.Errorf("quotes: level %d volume: %w", i, err)
			}
		}

		rec.Levels = append(rec.Levels, record.QuoteLevel{Price: price, Volume: volume})
	}

	return rec, true, nil
}

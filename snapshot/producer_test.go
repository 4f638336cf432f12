package snapshot

import (
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2dav/qshbook/book"
	"github.com/2dav/qshbook/record"
)

func batchesOf(batches ...[]record.OrderLogRecord) iter.Seq2[[]record.OrderLogRecord, error] {
	return func(yield func([]record.OrderLogRecord, error) bool) {
		for _, b := range batches {
			if !yield(b, nil) {
				return
			}
		}
	}
}

func addRec(id, price, amount int64, side record.Side) record.OrderLogRecord {
	flags := record.FlagAdd | record.FlagTxEnd
	if side == record.SideBuy {
		flags |= record.FlagBuy
	} else {
		flags |= record.FlagSell
	}
	return record.OrderLogRecord{OrderID: id, Price: price, Amount: amount, Flags: flags, Timestamp: 1}
}

func TestProducer_SkipsRowsBelowDepth(t *testing.T) {
	b, err := book.New()
	require.NoError(t, err)
	p := NewProducer(b, 2)

	batches := batchesOf(
		[]record.OrderLogRecord{addRec(1, 100, 1, record.SideBuy)},
		[]record.OrderLogRecord{addRec(2, 99, 1, record.SideBuy), addRec(3, 101, 1, record.SideSell)},
		[]record.OrderLogRecord{addRec(4, 102, 1, record.SideSell)},
	)

	var rows []Row
	for row, err := range p.Run(batches) {
		require.NoError(t, err)
		rows = append(rows, row)
	}

	require.Len(t, rows, 1, "only the final batch leaves both sides at depth 2")
	require.Len(t, rows[0], 1+4*2)
}

func TestProducer_PropagatesBookError(t *testing.T) {
	b, err := book.New()
	require.NoError(t, err)
	p := NewProducer(b, 1)

	batches := batchesOf([]record.OrderLogRecord{
		{OrderID: 1, Flags: record.FlagCancel | record.FlagTxEnd},
	})

	sawErr := false
	for _, err := range p.Run(batches) {
		if err != nil {
			sawErr = true
		}
	}
	require.True(t, sawErr)
}

func TestNewRelaxedProducer_SkipsRatherThanAborts(t *testing.T) {
	p, err := NewRelaxedProducer(1, nil)
	require.NoError(t, err)

	batches := batchesOf(
		[]record.OrderLogRecord{{OrderID: 1, Flags: record.FlagCancel | record.FlagTxEnd}},
		[]record.OrderLogRecord{addRec(2, 100, 1, record.SideBuy), addRec(3, 101, 1, record.SideSell)},
	)

	var rows []Row
	for row, err := range p.Run(batches) {
		require.NoError(t, err)
		rows = append(rows, row)
	}
	require.Len(t, rows, 1)
}

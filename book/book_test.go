package book

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2dav/qshbook/record"
)

func add(id, price, amount int64, side record.Side) record.OrderLogRecord {
	flags := record.FlagAdd
	if side == record.SideBuy {
		flags |= record.FlagBuy
	} else {
		flags |= record.FlagSell
	}
	return record.OrderLogRecord{OrderID: id, Price: price, Amount: amount, Flags: flags}
}

func fill(id, amount, dealID int64) record.OrderLogRecord {
	return record.OrderLogRecord{OrderID: id, Amount: amount, DealID: dealID, Flags: record.FlagFill}
}

func cancel(id int64) record.OrderLogRecord {
	return record.OrderLogRecord{OrderID: id, Flags: record.FlagCancel}
}

func TestBook_Add(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	require.NoError(t, b.Apply(add(1, 73914, 5, record.SideBuy)))

	price, volume, ok := b.Best(record.SideBuy)
	require.True(t, ok)
	require.Equal(t, int64(73914), price)
	require.Equal(t, int64(5), volume)
	require.Equal(t, 1, b.Depth(record.SideBuy))
	require.Equal(t, 0, b.Depth(record.SideSell))
}

func TestBook_Fill(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	require.NoError(t, b.Apply(add(1, 73914, 5, record.SideBuy)))
	require.NoError(t, b.Apply(fill(1, 2, 1)))

	price, volume, ok := b.Best(record.SideBuy)
	require.True(t, ok)
	require.Equal(t, int64(73914), price)
	require.Equal(t, int64(3), volume)
}

func TestBook_CancelRemovesLevel(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	require.NoError(t, b.Apply(add(1, 73914, 5, record.SideBuy)))
	require.NoError(t, b.Apply(fill(1, 2, 1)))
	require.NoError(t, b.Apply(cancel(1)))

	require.Equal(t, 0, b.Depth(record.SideBuy))
	_, _, ok := b.Best(record.SideBuy)
	require.False(t, ok)
}

func TestBook_Snapshot(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	for _, r := range []record.OrderLogRecord{
		add(1, 73914, 5, record.SideBuy),
		add(2, 73913, 4, record.SideBuy),
		add(3, 73912, 95, record.SideBuy),
		add(4, 73916, 14, record.SideSell),
		add(5, 73917, 6, record.SideSell),
		add(6, 73920, 3, record.SideSell),
	} {
		require.NoError(t, b.Apply(r))
	}
	b.lastTimestamp = 1584440657760

	row, ok := b.Snapshot(3)
	require.True(t, ok)
	require.Equal(t, []int64{
		1584440657760,
		73914, 5, 73916, 14,
		73913, 4, 73917, 6,
		73912, 95, 73920, 3,
	}, row)
}

func TestBook_Snapshot_InsufficientDepthReturnsNotOK(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.NoError(t, b.Apply(add(1, 100, 1, record.SideBuy)))
	require.NoError(t, b.Apply(add(2, 101, 1, record.SideSell)))

	_, ok := b.Snapshot(2)
	require.False(t, ok)
}

func TestBook_MidPrice(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.NoError(t, b.Apply(add(1, 100, 1, record.SideBuy)))
	require.NoError(t, b.Apply(add(2, 104, 1, record.SideSell)))

	mid, ok := b.MidPrice()
	require.True(t, ok)
	require.InDelta(t, 102.0, mid, 0.0001)
}

func TestBook_MidPrice_EmptySideIsNotOK(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	_, ok := b.MidPrice()
	require.False(t, ok)
}

func TestBook_UnknownOrderIsInvariantViolationInStrictMode(t *testing.T) {
	b, err := New()
	require.NoError(t, err)

	err = b.Apply(cancel(999))
	require.Error(t, err)
}

func TestBook_NonStrictModeSkipsUnknownOrder(t *testing.T) {
	b, err := New(WithStrictMode(false))
	require.NoError(t, err)

	require.NoError(t, b.Apply(cancel(999)))
}

func TestBook_NewSessionClearsBook(t *testing.T) {
	b, err := New()
	require.NoError(t, err)
	require.NoError(t, b.Apply(add(1, 100, 1, record.SideBuy)))

	require.NoError(t, b.Apply(record.OrderLogRecord{Flags: record.FlagNewSession}))

	require.Equal(t, 0, b.Depth(record.SideBuy))
	require.Equal(t, 0, b.Depth(record.SideSell))
}

func TestRegistry_ReturnsSameBookForSameInstrument(t *testing.T) {
	r := NewRegistry()

	a, err := r.Get("Plaza2:Si-3.20::1252209:1")
	require.NoError(t, err)
	b, err := r.Get("Plaza2:Si-3.20::1252209:1")
	require.NoError(t, err)
	require.Same(t, a, b)

	other, err := r.Get("Plaza2:RTS-3.20::1252210:1")
	require.NoError(t, err)
	require.NotSame(t, a, other)
}

func TestBook_AddThenEqualCancelRestoresPriorState(t *testing.T) {
	// P7: Add followed by an equal-quantity Cancel returns the book to
	// its prior (empty) state.
	b, err := New()
	require.NoError(t, err)

	require.Equal(t, 0, b.Depth(record.SideBuy))
	_, _, okBefore := b.Best(record.SideBuy)
	require.False(t, okBefore)

	require.NoError(t, b.Apply(add(1, 100, 5, record.SideBuy)))
	require.Equal(t, 1, b.Depth(record.SideBuy))

	require.NoError(t, b.Apply(cancel(1)))

	require.Equal(t, 0, b.Depth(record.SideBuy))
	_, _, okAfter := b.Best(record.SideBuy)
	require.False(t, okAfter)
}

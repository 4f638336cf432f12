package stream

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/record"
)

type dealFieldset struct {
	deltaMs             int64
	dealID              int64
	orderID             int64
	price, amount       int64
	openInterest        int64
	flags               record.DealFlags
	hasOrderID          bool
	hasPrice, hasAmount bool
	hasOpenInterest     bool
	hasFlags            bool
}

type dealFixtureEncoder struct {
	w                                   *primitive.Writer
	prevDealID, prevOrderID, prevPrice  int64
	prevAmount, prevOpenInterest        int64
}

func newDealFixtureEncoder(w *primitive.Writer) *dealFixtureEncoder {
	return &dealFixtureEncoder{w: w}
}

func (e *dealFixtureEncoder) encode(f dealFieldset) {
	var mask fieldMask
	if f.hasOrderID {
		mask |= dealFieldOrderID
	}
	if f.hasPrice {
		mask |= dealFieldPrice
	}
	if f.hasAmount {
		mask |= dealFieldAmount
	}
	if f.hasFlags {
		mask |= dealFieldFlags
	}
	if f.hasOpenInterest {
		mask |= dealFieldOpenInterest
	}

	e.w.WriteULEB(uint64(mask))
	e.w.WriteLEB(f.deltaMs)
	e.w.WriteGrowing(e.prevDealID, f.dealID)
	e.prevDealID = f.dealID

	if f.hasOrderID {
		e.w.WriteGrowing(e.prevOrderID, f.orderID)
		e.prevOrderID = f.orderID
	}
	if f.hasPrice {
		e.w.WriteGrowing(e.prevPrice, f.price)
		e.prevPrice = f.price
	}
	if f.hasAmount {
		e.w.WriteGrowing(e.prevAmount, f.amount)
		e.prevAmount = f.amount
	}
	if f.hasFlags {
		e.w.WriteULEB(uint64(f.flags))
	}
	if f.hasOpenInterest {
		e.w.WriteGrowing(e.prevOpenInterest, f.openInterest)
		e.prevOpenInterest = f.openInterest
	}
}

func newDealReader(t *testing.T, data []byte) *primitive.Reader {
	t.Helper()
	return primitive.NewReader(bufio.NewReader(bytes.NewReader(data)))
}

func TestDealDecoder_InheritsOmittedFields(t *testing.T) {
	w := primitive.NewWriter()
	e := newDealFixtureEncoder(w)
	e.encode(dealFieldset{
		deltaMs: 10, dealID: 1000,
		hasOrderID: true, orderID: 42,
		hasPrice: true, price: 20100,
		hasAmount: true, amount: 5,
		hasOpenInterest: true, openInterest: 1200,
		hasFlags: true, flags: record.DealFlagBuy,
	})
	// Second trade at the same price and side, new deal id and order id.
	e.encode(dealFieldset{
		deltaMs: 1, dealID: 1001,
		hasOrderID: true, orderID: 43,
		hasAmount: true, amount: 3,
	})
	data := append([]byte(nil), w.Bytes()...)
	w.Release()

	d := NewDealDecoder(newDealReader(t, data), 0)

	var got []record.DealRecord
	for rec, err := range d.All() {
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Len(t, got, 2)

	require.Equal(t, int64(1000), got[0].DealID)
	require.Equal(t, int64(42), got[0].OrderID)
	require.Equal(t, int64(20100), got[0].Price)
	require.Equal(t, int64(5), got[0].Amount)
	require.Equal(t, int64(1200), got[0].OpenInterest)
	require.Equal(t, record.DealFlagBuy, got[0].Flags)

	require.Equal(t, int64(1001), got[1].DealID)
	require.Equal(t, int64(43), got[1].OrderID)
	require.Equal(t, int64(20100), got[1].Price, "price inherits since the field was omitted")
	require.Equal(t, int64(3), got[1].Amount)
	require.Equal(t, int64(1200), got[1].OpenInterest, "open interest inherits since the field was omitted")
	require.Equal(t, record.DealFlagBuy, got[1].Flags, "flags inherit since the field was omitted")
}

func TestDealDecoder_EmptyStreamYieldsNothing(t *testing.T) {
	d := NewDealDecoder(newDealReader(t, nil), 0)

	count := 0
	for range d.All() {
		count++
	}
	require.Equal(t, 0, count)
}

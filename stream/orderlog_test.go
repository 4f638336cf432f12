package stream

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/record"
)

type orderLogFieldset struct {
	deltaMs                            int64
	flags                              record.OrderFlags
	orderID, amount, dealID            int64
	price                              int64
	amountRest, dealPrice, openInterest int64
	hasFlags, hasOrderID               bool
	hasPrice, hasAmount                bool
	hasDealID                          bool
	hasAmountRest, hasDealPrice        bool
	hasOpenInterest                    bool
}

// orderLogFixtureEncoder mirrors OrderLogDecoder's running state so each
// growing field in a fixture is written against the same baseline the
// decoder will use to read it back, the same contract a real encoder and
// decoder pair must hold.
type orderLogFixtureEncoder struct {
	w                                       *primitive.Writer
	prevOrderID, prevBidPrice, prevAskPrice int64
	prevAmount, prevDealID                  int64
	prevAmountRest, prevDealPrice           int64
	prevOpenInterest                        int64
}

func newOrderLogFixtureEncoder(w *primitive.Writer) *orderLogFixtureEncoder {
	return &orderLogFixtureEncoder{w: w}
}

func (e *orderLogFixtureEncoder) encode(f orderLogFieldset) {
	var mask fieldMask
	if f.hasFlags {
		mask |= fieldFlags
	}
	if f.hasOrderID {
		mask |= fieldOrderID
	}
	if f.hasPrice {
		mask |= fieldPrice
	}
	if f.hasAmount {
		mask |= fieldAmount
	}
	if f.hasDealID {
		mask |= fieldDealID
	}
	if f.hasAmountRest {
		mask |= fieldAmountRest
	}
	if f.hasDealPrice {
		mask |= fieldDealPrice
	}
	if f.hasOpenInterest {
		mask |= fieldOpenInterest
	}

	e.w.WriteULEB(uint64(mask))
	e.w.WriteLEB(f.deltaMs)

	if f.hasFlags {
		e.w.WriteULEB(uint64(f.flags))
	}
	if f.hasOrderID {
		e.w.WriteGrowing(e.prevOrderID, f.orderID)
		e.prevOrderID = f.orderID
	}
	if f.hasPrice {
		cursor := &e.prevBidPrice
		if side, ok := f.flags.Side(); ok && side == record.SideSell {
			cursor = &e.prevAskPrice
		}
		e.w.WriteGrowing(*cursor, f.price)
		*cursor = f.price
	}
	if f.hasAmount {
		e.w.WriteGrowing(e.prevAmount, f.amount)
		e.prevAmount = f.amount
	}
	if f.hasAmountRest {
		e.w.WriteGrowing(e.prevAmountRest, f.amountRest)
		e.prevAmountRest = f.amountRest
	}
	if f.hasDealID {
		e.w.WriteGrowing(e.prevDealID, f.dealID)
		e.prevDealID = f.dealID
	}
	if f.hasDealPrice {
		e.w.WriteGrowing(e.prevDealPrice, f.dealPrice)
		e.prevDealPrice = f.dealPrice
	}
	if f.hasOpenInterest {
		e.w.WriteGrowing(e.prevOpenInterest, f.openInterest)
		e.prevOpenInterest = f.openInterest
	}
}

func newOrderLogReader(t *testing.T, data []byte) *primitive.Reader {
	t.Helper()
	return primitive.NewReader(bufio.NewReader(bytes.NewReader(data)))
}

func TestOrderLogDecoder_AddThenFillThenCancel(t *testing.T) {
	w := primitive.NewWriter()
	e := newOrderLogFixtureEncoder(w)
	e.encode(orderLogFieldset{
		deltaMs: 5, flags: record.FlagAdd | record.FlagBuy, hasFlags: true,
		orderID: 100, hasOrderID: true,
		price: 20150, hasPrice: true,
		amount: 10, hasAmount: true,
	})
	e.encode(orderLogFieldset{
		deltaMs: 1, hasOrderID: true, orderID: 100,
		hasAmount: true, amount: 4,
		hasAmountRest: true, amountRest: 6,
		hasDealID: true, dealID: 555,
		hasDealPrice: true, dealPrice: 20150,
		hasOpenInterest: true, openInterest: 1800,
	})
	e.encode(orderLogFieldset{
		deltaMs: 2, flags: record.FlagCancel | record.FlagBuy, hasFlags: true,
		hasOrderID: true, orderID: 100,
	})
	data := append([]byte(nil), w.Bytes()...)
	w.Release()

	d := NewOrderLogDecoder(newOrderLogReader(t, data), 1_000_000)

	var got []record.OrderLogRecord
	for rec, err := range d.All() {
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Len(t, got, 3)

	require.Equal(t, record.EventAdd, got[0].EventClass())
	require.Equal(t, int64(100), got[0].OrderID)
	require.Equal(t, int64(20150), got[0].Price)
	require.Equal(t, int64(10), got[0].Amount)

	require.Equal(t, record.EventFill, got[1].EventClass())
	require.Equal(t, int64(100), got[1].OrderID)
	require.Equal(t, int64(20150), got[1].Price, "price inherits from the Add when omitted")
	require.Equal(t, int64(4), got[1].Amount)
	require.Equal(t, int64(6), got[1].AmountRest)
	require.Equal(t, int64(555), got[1].DealID)
	require.Equal(t, int64(20150), got[1].DealPrice)
	require.Equal(t, int64(1800), got[1].OpenInterest)

	require.Equal(t, record.EventCancel, got[2].EventClass())
	require.Equal(t, int64(0), got[2].DealID, "DealID resets when the field is absent, unlike the other fields")
	require.Equal(t, int64(0), got[2].DealPrice, "DealPrice resets when the field is absent, unlike the other fields")
	require.Equal(t, int64(1800), got[2].OpenInterest, "open interest inherits since the field was omitted")
}

func TestOrderLogDecoder_BidAskPriceCursorsAreIndependent(t *testing.T) {
	w := primitive.NewWriter()
	e := newOrderLogFixtureEncoder(w)
	e.encode(orderLogFieldset{
		flags: record.FlagAdd | record.FlagBuy, hasFlags: true,
		hasPrice: true, price: 100,
	})
	e.encode(orderLogFieldset{
		flags: record.FlagAdd | record.FlagSell, hasFlags: true,
		hasPrice: true, price: 200,
	})
	// Omit price on a third Buy record: should inherit the Buy cursor
	// (100), not the Sell cursor (200).
	e.encode(orderLogFieldset{
		flags: record.FlagAdd | record.FlagBuy, hasFlags: true,
	})
	data := append([]byte(nil), w.Bytes()...)
	w.Release()

	d := NewOrderLogDecoder(newOrderLogReader(t, data), 0)

	var got []record.OrderLogRecord
	for rec, err := range d.All() {
		require.NoError(t, err)
		got = append(got, rec)
	}
	require.Len(t, got, 3)
	require.Equal(t, int64(100), got[0].Price)
	require.Equal(t, int64(200), got[1].Price)
	require.Equal(t, int64(100), got[2].Price)
}

func TestOrderLogDecoder_EmptyStreamYieldsNothing(t *testing.T) {
	d := NewOrderLogDecoder(newOrderLogReader(t, nil), 0)

	count := 0
	for range d.All() {
		count++
	}
	require.Equal(t, 0, count)
}

func TestOrderLogDecoder_TruncatedRecordYieldsError(t *testing.T) {
	// A field mask byte with no following timestamp delta.
	d := NewOrderLogDecoder(newOrderLogReader(t, []byte{0x01}), 0)

	sawErr := false
	for _, err := range d.All() {
		if err != nil {
			sawErr = true
		}
	}
	require.True(t, sawErr)
}

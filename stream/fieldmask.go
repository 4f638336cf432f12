// Package stream provides the stateful incremental decoders sitting on
// top of package primitive: one per QSH-v4 record stream (OrderLog,
// Deal, Quotes, AuxInfo). Each decoder tracks the previous value of
// every delta-encoded field and exposes its records as a lazy
// iter.Seq2[record.X, error] that terminates at EOF or the first decode
// error.
package stream

// fieldMask is the per-record bitmask selecting which delta-encoded
// fields this record carries; an absent field inherits the previous
// decoded value unchanged. This is distinct from record.OrderFlags,
// which is itself one of the fields a fieldMask bit may gate.
//
// Each decoder tests the bits one field at a time with has, in a fixed
// per-stream field order; there is no table-driven dispatch. The fixture
// encoders in this package's tests write the same fields in the same
// order with primitive.Writer, which is what the round-trip tests exercise.
type fieldMask uint32

const (
	fieldOrderID fieldMask = 1 << iota
	fieldPrice
	fieldAmount
	fieldDealID
	fieldFlags
	fieldAmountRest
	fieldDealPrice
	fieldOpenInterest
)

func (m fieldMask) has(bit fieldMask) bool { return m&bit != 0 }

const (
	dealFieldPrice fieldMask = 1 << iota
	dealFieldAmount
	dealFieldOrderID
	dealFieldFlags
	dealFieldOpenInterest
)

const (
	quoteFieldPrice fieldMask = 1 << iota
	quoteFieldVolume
)

const (
	auxFieldPrice fieldMask = 1 << iota
	auxFieldAskTotal
	auxFieldBidTotal
	auxFieldOpenInterest
	auxFieldHighLimit
	auxFieldLowLimit
	auxFieldDeposit
	auxFieldRate
	auxFieldMessage
	auxFieldFlags
)

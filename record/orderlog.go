// Package record defines the decoded record shapes for each of the four
// QSH-v4 streams and the flag bitmasks used to classify them.
package record

import "fmt"

// OrderFlags is the per-record business bitmask carried by an OrderLog
// record: order type, side, time-in-force, and transaction/session
// boundaries. It is distinct from the record's field-presence bitmask,
// which selects which of a record's delta-encoded fields are carried in
// this record (see stream.fieldMask).
//
// Exact bit positions are not given anywhere in the retrieval pack — no
// reference QSH-v4 binary was available — so these are implementation
// placeholders. They are internally consistent (classification, side
// extraction and the grouper all agree on them) and isolated to this one
// declaration, so wiring in the real positions later is a one-place edit.
type OrderFlags uint32

const (
	FlagAdd OrderFlags = 1 << iota
	FlagFill
	FlagCancel
	FlagRemove
	FlagGroupCancel
	FlagBuy
	FlagSell
	FlagQuote
	FlagFillOrKill
	FlagImmediateOrCancel
	FlagTxEnd
	FlagNewSession
	FlagNonSystem
)

func (f OrderFlags) Has(bit OrderFlags) bool { return f&bit != 0 }

func (f OrderFlags) String() string {
	names := []struct {
		bit  OrderFlags
		name string
	}{
		{FlagAdd, "Add"}, {FlagFill, "Fill"}, {FlagCancel, "Cancel"},
		{FlagRemove, "Remove"}, {FlagGroupCancel, "GroupCancel"},
		{FlagBuy, "Buy"}, {FlagSell, "Sell"}, {FlagQuote, "Quote"},
		{FlagFillOrKill, "FillOrKill"}, {FlagImmediateOrCancel, "ImmediateOrCancel"},
		{FlagTxEnd, "TxEnd"}, {FlagNewSession, "NewSession"}, {FlagNonSystem, "NonSystem"},
	}

	s := ""
	for _, n := range names {
		if f.Has(n.bit) {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	if s == "" {
		return "none"
	}

	return s
}

// Side reports the order side implied by the Buy/Sell bits. ok is false
// if neither or both bits are set.
func (f OrderFlags) Side() (side Side, ok bool) {
	buy, sell := f.Has(FlagBuy), f.Has(FlagSell)
	switch {
	case buy && !sell:
		return SideBuy, true
	case sell && !buy:
		return SideSell, true
	default:
		return Side(0), false
	}
}

// Side identifies the resting side of an order-log event.
type Side uint8

const (
	SideBuy Side = iota + 1
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "Buy"
	case SideSell:
		return "Sell"
	default:
		return fmt.Sprintf("Side(%d)", uint8(s))
	}
}

// OrderLogRecord is one decoded order-log event: an order insertion,
// fill, or removal, plus enough flags to classify it and group it into
// transactions.
type OrderLogRecord struct {
	// Timestamp is the event time in 100-ns ticks since the file's .NET
	// epoch base, reconstructed from the previous timestamp plus a
	// millisecond delta.
	Timestamp int64
	OrderID   int64
	Price     int64
	Amount    int64
	// AmountRest is the order's remaining quantity after this event, as
	// carried on the wire; the book engine derives its own remainder from
	// applied Fill/Cancel amounts rather than trusting this field, since
	// spec.md §4.5 treats the deal-id/amount fields as the authoritative
	// decrement and AmountRest as informational.
	AmountRest int64
	// DealID is non-zero exactly when this event is a Fill; it is an
	// audit key only, never cross-referenced against the Deal stream.
	DealID int64
	// DealPrice is the matched trade price, present alongside DealID on
	// Fill events; 0 when this event is not a Fill.
	DealPrice int64
	// OpenInterest is the exchange's open-interest figure as of this
	// event, for derivatives instruments; 0 where not applicable.
	OpenInterest int64
	Flags        OrderFlags
}

// EventClass classifies the record per the priority order: a non-zero
// DealID always means Fill, Add is checked next, then any of
// Cancel/Remove/GroupCancel, else Unknown.
func (r OrderLogRecord) EventClass() EventClass {
	switch {
	case r.DealID != 0:
		return EventFill
	case r.Flags.Has(FlagAdd):
		return EventAdd
	case r.Flags.Has(FlagCancel) || r.Flags.Has(FlagRemove) || r.Flags.Has(FlagGroupCancel):
		return EventCancel
	default:
		return EventUnknown
	}
}

// EventClass is the result of classifying an OrderLogRecord for book
// application.
type EventClass uint8

const (
	EventUnknown EventClass = iota
	EventAdd
	EventFill
	EventCancel
)

func (c EventClass) String() string {
	switch c {
	case EventAdd:
		return "Add"
	case EventFill:
		return "Fill"
	case EventCancel:
		return "Cancel"
	default:
		return "Unknown"
	}
}

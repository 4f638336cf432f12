package record

// AuxFlags is the auxiliary-record business bitmask, analogous to
// OrderFlags/DealFlags. Bit positions are implementation placeholders,
// same caveat as OrderFlags: no reference QSH-v4 binary was available to
// pin them down.
type AuxFlags uint32

func (f AuxFlags) Has(bit AuxFlags) bool { return f&bit != 0 }

// AuxInfoRecord is one decoded AuxInfo event: the per-instrument market
// figures a recorder publishes alongside the order/deal/quote streams
// (spec.md §3). Message is the empty string when the record carries none.
type AuxInfoRecord struct {
	Timestamp    int64
	Price        int64
	AskTotal     int64
	BidTotal     int64
	OpenInterest int64
	HighLimit    int64
	LowLimit     int64
	Deposit      int64
	Rate         int64
	Message      string
	Flags        AuxFlags
}

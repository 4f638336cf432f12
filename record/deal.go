package record

// DealFlags carries the side and order kind of a completed trade. Bit
// positions are implementation placeholders, same caveat as OrderFlags.
type DealFlags uint32

const (
	DealFlagBuy DealFlags = 1 << iota
	DealFlagSell
	DealFlagNonSystem
)

func (f DealFlags) Has(bit DealFlags) bool { return f&bit != 0 }

// DealRecord is one decoded trade from the Deal stream: two resting
// orders (or one resting order and an aggressor) matched at a price.
type DealRecord struct {
	Timestamp int64
	DealID    int64
	OrderID   int64
	Price     int64
	Amount    int64
	// OpenInterest is the exchange's open-interest figure as of this
	// trade, for derivatives instruments; 0 where not applicable.
	OpenInterest int64
	Flags        DealFlags
}

package record

// QuoteLevel is one (price, volume) pair within a Quotes record.
type QuoteLevel struct {
	Price  int64
	Volume int64
}

// QuoteRecord is one L2 depth snapshot from the Quotes stream: a count
// followed by that many price levels, each delta-encoded against a price
// cursor that resets at the start of every record.
type QuoteRecord struct {
	Timestamp int64
	Levels    []QuoteLevel
}

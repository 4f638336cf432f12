// Package errs collects the sentinel errors returned by this module, so
// callers can match on them with errors.Is instead of string comparison.
package errs

import "errors"

var (
	// ErrWrongMagic is returned when a file's leading bytes do not match
	// the QSH signature.
	ErrWrongMagic = errors.New("qshbook: wrong magic signature")
	// ErrWrongVersion is returned when the header's version byte is not 4.
	ErrWrongVersion = errors.New("qshbook: unsupported format version")
	// ErrUnknownStreamKind is returned when the header's stream-kind byte
	// does not match any of OrderLog/Deal/Quotes/AuxInfo.
	ErrUnknownStreamKind = errors.New("qshbook: unknown stream kind")
	// ErrUnexpectedEOF is returned when the underlying reader runs out of
	// bytes in the middle of a primitive or a record.
	ErrUnexpectedEOF = errors.New("qshbook: unexpected end of stream mid-record")
	// ErrOverflow is returned when a variable-length integer exceeds 64 bits.
	ErrOverflow = errors.New("qshbook: varint overflows 64 bits")
	// ErrInvalidUTF8 is returned when a length-prefixed string is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("qshbook: invalid utf-8 in string field")

	// ErrInvariantViolation is returned by the order book when applying an
	// event would break one of its invariants (P2-P4). It is fatal: the
	// core never attempts to repair a corrupt book.
	ErrInvariantViolation = errors.New("qshbook: order book invariant violation")
	// ErrUnknownOrder is returned when a Fill or Cancel references an order
	// id that is not in the book's id index.
	ErrUnknownOrder = errors.New("qshbook: event references unknown order id")
	// ErrNegativeQuantity is returned when a fill would drive a level
	// aggregate or an order remainder negative.
	ErrNegativeQuantity = errors.New("qshbook: fill drives quantity negative")
	// ErrUnclassifiedEvent is returned in strict mode when an order-log
	// record's flags do not classify into Add, Fill, or Cancel.
	ErrUnclassifiedEvent = errors.New("qshbook: order-log record did not classify into a known event")

	// ErrInvalidCompression is returned by CreateCodec/GetCodec for an
	// unrecognized format.CompressionType.
	ErrInvalidCompression = errors.New("qshbook: invalid compression type")
)

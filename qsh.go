// Package qshbook decodes QSH-v4 history files — OrderLog, Deal, Quotes,
// and AuxInfo streams — and reconstructs an L3 limit order book from the
// OrderLog stream, with fixed-depth snapshot output.
//
// # Core Features
//
//   - Stateful bitmask-gated record decoding (stream package) over a
//     pull-based primitive reader (primitive package)
//   - Transaction grouping and FOK/IOC filtering (group package)
//   - An L3 order book engine with id-addressed cancel/fill (book package)
//   - Depth-N snapshot production, optionally compressed and checksummed
//     (snapshot package)
//
// # Basic Usage
//
//	f, err := qshbook.Open("orderlog.qsh")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	decoder, err := f.OrderLog()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, _ := book.New()
//	for rec, err := range decoder.All() {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    _ = b.Apply(rec)
//	}
//
// This package provides the convenient top-level entry point around the
// format/stream/compress packages. For grouping, filtering, book
// application, and snapshot production, use the group/book/snapshot
// packages directly.
package qshbook

import (
	"fmt"
	"os"

	"github.com/2dav/qshbook/compress"
	"github.com/2dav/qshbook/errs"
	"github.com/2dav/qshbook/format"
	"github.com/2dav/qshbook/primitive"
	"github.com/2dav/qshbook/stream"
)

// File is an opened QSH-v4 file: the parsed header plus the underlying
// reader positioned at the first record byte. Exactly one of the stream
// accessors matches Header.StreamKind; calling the wrong one returns an
// error rather than attempting to decode a stream as the wrong kind.
type File struct {
	Header Header
	f      *os.File
	pr     *primitive.Reader
}

// Header is the parsed QSH-v4 header: format.Header plus nothing else,
// re-exported here so callers of this package don't need to import
// format directly for the common case.
type Header = format.Header

// Open opens path, wraps it in a deflate byte source, and parses the
// QSH-v4 header. The returned File owns the underlying os.File; callers
// must call Close when done.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("qshbook: open %s: %w", path, err)
	}

	deflate, err := compress.NewDeflateReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("qshbook: %s: %w", path, err)
	}

	pr := primitive.NewReader(deflate)

	header, err := format.ParseHeader(pr)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("qshbook: %s: %w", path, err)
	}

	return &File{Header: header, f: f, pr: pr}, nil
}

// Close releases the underlying file.
func (qf *File) Close() error {
	return qf.f.Close()
}

// OrderLog returns a decoder for the file's OrderLog stream. It errors if
// the header's stream kind is not OrderLog.
func (qf *File) OrderLog() (*stream.OrderLogDecoder, error) {
	if qf.Header.StreamKind != format.StreamOrderLog {
		return nil, wrongStreamKind(format.StreamOrderLog, qf.Header.StreamKind)
	}

	return stream.NewOrderLogDecoder(qf.pr, qf.Header.Timestamp), nil
}

// Deals returns a decoder for the file's Deal stream.
func (qf *File) Deals() (*stream.DealDecoder, error) {
	if qf.Header.StreamKind != format.StreamDeal {
		return nil, wrongStreamKind(format.StreamDeal, qf.Header.StreamKind)
	}

	return stream.NewDealDecoder(qf.pr, qf.Header.Timestamp), nil
}

// Quotes returns a decoder for the file's Quotes stream.
func (qf *File) Quotes() (*stream.QuotesDecoder, error) {
	if qf.Header.StreamKind != format.StreamQuotes {
		return nil, wrongStreamKind(format.StreamQuotes, qf.Header.StreamKind)
	}

	return stream.NewQuotesDecoder(qf.pr, qf.Header.Timestamp), nil
}

// AuxInfo returns a decoder for the file's AuxInfo stream.
func (qf *File) AuxInfo() (*stream.AuxInfoDecoder, error) {
	if qf.Header.StreamKind != format.StreamAuxInfo {
		return nil, wrongStreamKind(format.StreamAuxInfo, qf.Header.StreamKind)
	}

	return stream.NewAuxInfoDecoder(qf.pr, qf.Header.Timestamp), nil
}

func wrongStreamKind(want, got format.StreamKind) error {
	return fmt.Errorf("%w: file is %s, not %s", errs.ErrUnknownStreamKind, got, want)
}

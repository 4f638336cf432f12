package format

import (
	"fmt"

	"github.com/2dav/qshbook/errs"
	"github.com/2dav/qshbook/primitive"
)

// NetEpochTicksPerSecond is the number of 100-ns ticks in one second, the
// unit QSH-v4 recording timestamps are expressed in, counted from the
// .NET epoch (0001-01-01 00:00:00 UTC).
const NetEpochTicksPerSecond = 10_000_000

// Header is the single file-level block every QSH-v4 stream opens with.
type Header struct {
	StreamKind StreamKind
	Instrument string
	Recorder   string
	Comment    string
	// Timestamp is the recording start time in 100-ns ticks since the
	// .NET epoch, as stored in the file.
	Timestamp int64
}

// ParseHeader reads the fixed signature, version byte, stream-kind byte,
// the three length-prefixed strings, and the fixed recording timestamp
// from r, leaving the reader positioned at the first record byte.
func ParseHeader(r *primitive.Reader) (Header, error) {
	var h Header

	for i, want := range Magic {
		got, err := r.ReadByte()
		if err != nil {
			return Header{}, fmt.Errorf("header: magic byte %d: %w", i, err)
		}
		if got != want {
			return Header{}, fmt.Errorf("%w: byte %d is 0x%02x, want 0x%02x", errs.ErrWrongMagic, i, got, want)
		}
	}

	version, err := r.ReadByte()
	if err != nil {
		return Header{}, fmt.Errorf("header: version byte: %w", err)
	}
	if version != Version {
		return Header{}, fmt.Errorf("%w: got %d, want %d", errs.ErrWrongVersion, version, Version)
	}

	kindByte, err := r.ReadByte()
	if err != nil {
		return Header{}, fmt.Errorf("header: stream-kind byte: %w", err)
	}

	kind := StreamKind(kindByte)
	if !kind.Valid() {
		return Header{}, fmt.Errorf("%w: 0x%02x", errs.ErrUnknownStreamKind, kindByte)
	}
	h.StreamKind = kind

	if h.Instrument, err = r.ReadString(); err != nil {
		return Header{}, fmt.Errorf("header: instrument: %w", err)
	}
	if h.Recorder, err = r.ReadString(); err != nil {
		return Header{}, fmt.Errorf("header: recorder: %w", err)
	}
	if h.Comment, err = r.ReadString(); err != nil {
		return Header{}, fmt.Errorf("header: comment: %w", err)
	}

	ts, err := r.ReadI64()
	if err != nil {
		return Header{}, fmt.Errorf("header: timestamp: %w", err)
	}
	h.Timestamp = ts

	return h, nil
}

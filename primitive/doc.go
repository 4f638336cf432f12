// Package primitive decodes the low-level scalar encodings QSH-v4 records
// are built from: unsigned and signed LEB128 integers, "growing" deltas
// with a sentinel escape to an absolute value, ULEB-length-prefixed UTF-8
// strings, and little-endian fixed-width scalars.
//
// Reader is the substrate every stream decoder in package stream sits on.
// Writer is its mirror, used by tests to build byte-exact fixtures and to
// exercise Reader/Writer round trips; QSH files are never produced by this
// module outside of tests.
package primitive

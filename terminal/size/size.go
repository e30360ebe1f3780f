// Package size defines the integer types used to address terminal grid
// geometry (columns, rows, and cell counts).
package size

// CellCountInt is the integer type used throughout the terminal package to
// count or address cells, rows and columns. It is kept as its own type
// (rather than a bare int) so that grid/page arithmetic reads unambiguously
// and so widening/narrowing conversions from the wire protocol (uint16
// parameters) are always explicit at the call site.
type CellCountInt int32

// OffsetInt is used for signed deltas against a CellCountInt position, e.g.
// scrollback offsets that can move "before" row 0.
type OffsetInt int64

// MaxCellCount is the largest addressable column/row count we support. This
// mirrors the practical limit of real terminal emulators and keeps us from
// overflowing CellCountInt arithmetic during resize/reflow.
const MaxCellCount CellCountInt = 1 << 20

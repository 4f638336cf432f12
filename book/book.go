// Package book implements the L3 limit order book engine: two ordered
// price-level maps fed by classified OrderLog events, an order-id index
// for O(1) cancel/fill lookups, and fixed-depth snapshot queries.
package book

import (
	"container/list"
	"fmt"
	"log/slog"

	"github.com/emirpasic/gods/maps/treemap"

	"github.com/2dav/qshbook/errs"
	"github.com/2dav/qshbook/internal/hash"
	"github.com/2dav/qshbook/internal/options"
	"github.com/2dav/qshbook/internal/pool"
	"github.com/2dav/qshbook/record"
)

// level is one price level's FIFO of resting orders plus its aggregate
// remaining volume. Orders are appended on Add and removed from the
// middle on Fill-to-zero/Cancel, so the FIFO is backed by a linked list
// with a side table for O(1) element lookup by order id.
type level struct {
	price    int64
	volume   int64
	orders   *list.List
	byOrder  map[int64]*list.Element
}

func newLevel(price int64) *level {
	return &level{price: price, orders: list.New(), byOrder: make(map[int64]*list.Element)}
}

type restingOrder struct {
	id        int64
	remainder int64
}

// idLocation is where an order currently rests, so Fill/Cancel can find
// its level without scanning both sides.
type idLocation struct {
	side  record.Side
	price int64
}

// Book is a single-instrument L3 order book. It is not safe for
// concurrent use; callers apply events from one goroutine, matching the
// single-threaded, single-pass decode pipeline upstream.
type Book struct {
	bids *treemap.Map
	asks *treemap.Map
	ids  map[int64]idLocation

	lastTimestamp int64
	strict        bool
	logger        *slog.Logger
}

// Option configures a Book at construction time.
type Option = options.Option[*Book]

// WithStrictMode toggles whether an Unknown event or invariant violation
// is a hard error (true, the default) or a logged-and-skipped no-op
// (false), per the "unspecified flag combination" design resolution.
func WithStrictMode(strict bool) Option {
	return options.NoError(func(b *Book) { b.strict = strict })
}

// WithLogger sets the logger used to report skipped events in non-strict
// mode. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(b *Book) { b.logger = logger })
}

// descendingInt64 orders higher prices first, so iterating a bid
// treemap's keys from the beginning walks from the best bid outward.
func descendingInt64(a, b any) int {
	x, y := a.(int64), b.(int64) //nolint:errcheck
	switch {
	case x > y:
		return -1
	case x < y:
		return 1
	default:
		return 0
	}
}

func ascendingInt64(a, b any) int {
	x, y := a.(int64), b.(int64) //nolint:errcheck
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	default:
		return 0
	}
}

// New builds an empty Book with strict mode enabled by default.
func New(opts ...Option) (*Book, error) {
	b := &Book{
		bids:   treemap.NewWith(descendingInt64),
		asks:   treemap.NewWith(ascendingInt64),
		ids:    make(map[int64]idLocation),
		strict: true,
		logger: slog.Default(),
	}

	if err := options.Apply(b, opts...); err != nil {
		return nil, err
	}

	return b, nil
}

func (b *Book) sideMap(side record.Side) *treemap.Map {
	if side == record.SideBuy {
		return b.bids
	}

	return b.asks
}

// NewSession clears both sides of the book and the id index, per the
// NewSession flag's session-boundary semantics.
func (b *Book) NewSession() {
	b.bids.Clear()
	b.asks.Clear()
	b.ids = make(map[int64]idLocation)
}

// Apply classifies rec and applies its effect to the book. A
// record.EventUnknown, or any invariant violation, is a hard error in
// strict mode; otherwise it is logged and the record is skipped.
func (b *Book) Apply(rec record.OrderLogRecord) error {
	b.lastTimestamp = rec.Timestamp

	if rec.Flags.Has(record.FlagNewSession) {
		b.NewSession()

		// A bare session-boundary record carries no order event of its own.
		if rec.EventClass() == record.EventUnknown {
			return nil
		}
	}

	var err error
	switch class := rec.EventClass(); class {
	case record.EventAdd:
		err = b.applyAdd(rec)
	case record.EventFill:
		err = b.applyFill(rec)
	case record.EventCancel:
		err = b.applyCancel(rec)
	default:
		err = fmt.Errorf("%w: %w: flags %s", errs.ErrInvariantViolation, errs.ErrUnclassifiedEvent, rec.Flags)
	}

	if err == nil {
		return nil
	}

	if b.strict {
		return err
	}

	b.logger.Warn("book: skipped event", "error", err, "order_id", rec.OrderID)
	return nil
}

func (b *Book) applyAdd(rec record.OrderLogRecord) error {
	side, ok := rec.Flags.Side()
	if !ok {
		return fmt.Errorf("%w: add event has no side", errs.ErrInvariantViolation)
	}

	m := b.sideMap(side)

	lvl, found := m.Get(rec.Price)
	if !found {
		lvl = newLevel(rec.Price)
		m.Put(rec.Price, lvl)
	}

	lv := lvl.(*level) //nolint:errcheck
	elem := lv.orders.PushBack(&restingOrder{id: rec.OrderID, remainder: rec.Amount})
	lv.byOrder[rec.OrderID] = elem
	lv.volume += rec.Amount

	b.ids[rec.OrderID] = idLocation{side: side, price: rec.Price}
	return nil
}

func (b *Book) applyFill(rec record.OrderLogRecord) error {
	lv, loc, err := b.lookupOrder(rec.OrderID)
	if err != nil {
		return err
	}

	elem := lv.byOrder[rec.OrderID]
	ord := elem.Value.(*restingOrder) //nolint:errcheck

	if ord.remainder < rec.Amount || lv.volume < rec.Amount {
		return fmt.Errorf("%w: %w: order %d fill %d exceeds remainder %d", errs.ErrInvariantViolation, errs.ErrNegativeQuantity, rec.OrderID, rec.Amount, ord.remainder)
	}

	ord.remainder -= rec.Amount
	lv.volume -= rec.Amount

	if ord.remainder == 0 {
		lv.orders.Remove(elem)
		delete(lv.byOrder, rec.OrderID)
		delete(b.ids, rec.OrderID)
	}

	if lv.volume == 0 {
		b.sideMap(loc.side).Remove(loc.price)
	}

	return nil
}

func (b *Book) applyCancel(rec record.OrderLogRecord) error {
	lv, loc, err := b.lookupOrder(rec.OrderID)
	if err != nil {
		return err
	}

	elem := lv.byOrder[rec.OrderID]
	ord := elem.Value.(*restingOrder) //nolint:errcheck

	lv.orders.Remove(elem)
	delete(lv.byOrder, rec.OrderID)
	delete(b.ids, rec.OrderID)
	lv.volume -= ord.remainder

	if lv.volume <= 0 {
		b.sideMap(loc.side).Remove(loc.price)
	}

	return nil
}

func (b *Book) lookupOrder(id int64) (*level, idLocation, error) {
	loc, ok := b.ids[id]
	if !ok {
		return nil, idLocation{}, fmt.Errorf("%w: %w: order id %d", errs.ErrInvariantViolation, errs.ErrUnknownOrder, id)
	}

	raw, ok := b.sideMap(loc.side).Get(loc.price)
	if !ok {
		return nil, idLocation{}, fmt.Errorf("%w: order id %d references a missing price level", errs.ErrInvariantViolation, id)
	}

	return raw.(*level), loc, nil //nolint:errcheck
}

// Depth returns the number of distinct price levels on side.
func (b *Book) Depth(side record.Side) int {
	return b.sideMap(side).Size()
}

// Best returns the top-of-book (price, volume) on side. ok is false if
// that side is empty.
func (b *Book) Best(side record.Side) (price, volume int64, ok bool) {
	m := b.sideMap(side)
	if m.Empty() {
		return 0, 0, false
	}

	_, raw := m.Min()
	lv := raw.(*level) //nolint:errcheck
	return lv.price, lv.volume, true
}

// MidPrice returns (best_bid+best_ask)/2. ok is false if either side is
// empty.
func (b *Book) MidPrice() (mid float64, ok bool) {
	bidPrice, _, bidOK := b.Best(record.SideBuy)
	askPrice, _, askOK := b.Best(record.SideSell)
	if !bidOK || !askOK {
		return 0, false
	}

	return float64(bidPrice+askPrice) / 2, true
}

// Snapshot returns 1+4n values: the book's last applied event timestamp,
// then n (best_bid_price, best_bid_volume, best_ask_price, best_ask_volume)
// groups walking away from the touch. ok is false if either side has
// fewer than n levels, in which case the caller should skip the row.
func (b *Book) Snapshot(n int) (row []int64, ok bool) {
	if b.bids.Size() < n || b.asks.Size() < n {
		return nil, false
	}

	bidLevels := topLevels(b.bids, n)
	askLevels := topLevels(b.asks, n)

	scratch, release := pool.GetInt64Slice(1 + 4*n)
	defer release()

	scratch[0] = b.lastTimestamp
	for i := 0; i < n; i++ {
		base := 1 + 4*i
		scratch[base] = bidLevels[i].price
		scratch[base+1] = bidLevels[i].volume
		scratch[base+2] = askLevels[i].price
		scratch[base+3] = askLevels[i].volume
	}

	row = make([]int64, len(scratch))
	copy(row, scratch)

	return row, true
}

// Registry keeps one Book per instrument, keyed by the xxHash64 of its
// name, so a caller processing many QSH files in sequence can reuse the
// per-instrument book across files instead of reallocating one per open.
// Registry is not safe for concurrent use, matching Book.
type Registry struct {
	books map[uint64]*Book
	opts  []Option
}

// NewRegistry creates an empty Registry. opts are applied to every Book
// it constructs on first lookup.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{books: make(map[uint64]*Book), opts: opts}
}

// Get returns the Book for instrument, creating one if this is the first
// lookup for that name.
func (r *Registry) Get(instrument string) (*Book, error) {
	key := hash.ID(instrument)

	b, ok := r.books[key]
	if ok {
		return b, nil
	}

	b, err := New(r.opts...)
	if err != nil {
		return nil, fmt.Errorf("registry: new book for %q: %w", instrument, err)
	}

	r.books[key] = b
	return b, nil
}

func topLevels(m *treemap.Map, n int) []*level {
	out := make([]*level, 0, n)

	it := m.Iterator()
	for it.Next() && len(out) < n {
		out = append(out, it.Value().(*level)) //nolint:errcheck
	}

	return out
}

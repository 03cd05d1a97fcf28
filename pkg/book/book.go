package book

import (
	"github.com/shopspring/decimal"
)

// Entry is one resting limit order. Quantity is signed: a positive quantity
// is a resting offer (sell-side liquidity), a negative quantity is a resting
// bid. Prices and quantities are kept at cent precision.
type Entry struct {
	ID       uint64
	Price    decimal.Decimal
	Quantity decimal.Decimal
}

// Book is an insertion-ordered collection of resting entries for one asset
// pair. Entries get a stable ID at insertion, so removing one entry never
// shifts the identity of the others. A Book holds no zero-quantity entries.
type Book struct {
	seq     uint64
	ids     []uint64
	entries map[uint64]*Entry
}

func New() *Book {
	return &Book{
		entries: make(map[uint64]*Entry),
	}
}

// Add inserts a resting entry, rounding price and quantity to 2 decimals.
func (b *Book) Add(price, quantity decimal.Decimal) (*Entry, error) {
	price = price.Round(2)
	quantity = quantity.Round(2)

	if price.Sign() <= 0 {
		return nil, errNonPositivePrice
	}
	if quantity.IsZero() {
		return nil, errZeroQuantity
	}

	b.seq++
	e := &Entry{
		ID:       b.seq,
		Price:    price,
		Quantity: quantity,
	}
	b.ids = append(b.ids, e.ID)
	b.entries[e.ID] = e
	return e, nil
}

func (b *Book) Get(id uint64) (*Entry, bool) {
	e, ok := b.entries[id]
	return e, ok
}

// Remove deletes an entry by ID. Removal keeps the insertion order of the
// remaining entries intact.
func (b *Book) Remove(id uint64) bool {
	if _, ok := b.entries[id]; !ok {
		return false
	}
	delete(b.entries, id)
	for i, v := range b.ids {
		if v == id {
			b.ids = append(b.ids[:i], b.ids[i+1:]...)
			break
		}
	}
	return true
}

// SetQuantity replaces an entry's quantity. A zero quantity removes the
// entry, so the book never retains consumed entries.
func (b *Book) SetQuantity(id uint64, quantity decimal.Decimal) bool {
	e, ok := b.entries[id]
	if !ok {
		return false
	}
	if quantity.IsZero() {
		return b.Remove(id)
	}
	e.Quantity = quantity
	return true
}

// Entries returns the live entries in insertion order.
func (b *Book) Entries() []*Entry {
	out := make([]*Entry, 0, len(b.ids))
	for _, id := range b.ids {
		out = append(out, b.entries[id])
	}
	return out
}

func (b *Book) Len() int {
	return len(b.ids)
}

// Clone returns a deep copy sharing no entries with the original. Entry IDs
// are preserved.
func (b *Book) Clone() *Book {
	cp := &Book{
		seq:     b.seq,
		ids:     append([]uint64(nil), b.ids...),
		entries: make(map[uint64]*Entry, len(b.entries)),
	}
	for id, e := range b.entries {
		dup := *e
		cp.entries[id] = &dup
	}
	return cp
}

package freepants

import (
	_ "embed"

	"github.com/pkg/errors"
)

//go:embed data/bootstrap.txt
var bootstrapTable []byte

// AddressSpace is the 1024-slot glyph table owned by a VM. An empty glyph
// means no glyph is defined at that slot.
type AddressSpace struct {
	slots [AddressCount]Glyph
}

// NewAddressSpace returns an empty address space.
func NewAddressSpace() *AddressSpace {
	return &AddressSpace{}
}

// Bootstrap returns an address space loaded with the built-in table: the
// keyboard layer, the shape table and the symbol font.
func Bootstrap() (*AddressSpace, error) {
	recs, err := Unmarshal(bootstrapTable)
	if err != nil {
		return nil, errors.Wrap(err, "bootstrap table")
	}
	s := NewAddressSpace()
	for _, r := range recs {
		s.slots[r.Address] = r.Glyph
	}
	return s, nil
}

// MustBootstrap is like Bootstrap but panics if the built-in table is broken.
func MustBootstrap() *AddressSpace {
	s, err := Bootstrap()
	if err != nil {
		panic(err)
	}
	return s
}

// Get returns the glyph stored at the address.
func (s *AddressSpace) Get(a Address) (Glyph, error) {
	if !a.Valid() {
		return "", &AddressError{Value: int64(a)}
	}
	return s.slots[a], nil
}

// Set stores the glyph at the address, replacing any previous one.
func (s *AddressSpace) Set(a Address, g Glyph) error {
	if !a.Valid() {
		return &AddressError{Value: int64(a)}
	}
	s.slots[a] = g
	return nil
}

// Clear empties the slot at the address.
func (s *AddressSpace) Clear(a Address) error {
	return s.Set(a, "")
}

// Len returns the number of non-empty slots.
func (s *AddressSpace) Len() int {
	n := 0
	for _, g := range s.slots {
		if g != "" {
			n++
		}
	}
	return n
}

// Each calls fn for every non-empty slot in ascending address order until fn
// returns false.
func (s *AddressSpace) Each(fn func(Address, Glyph) bool) {
	for i, g := range s.slots {
		if g == "" {
			continue
		}
		if !fn(Address(i), g) {
			return
		}
	}
}

// Clone returns an independent copy of the address space.
func (s *AddressSpace) Clone() *AddressSpace {
	c := *s
	return &c
}

func (s *AddressSpace) glyph(a Address) Glyph {
	return s.slots[a]
}

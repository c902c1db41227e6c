package freepants

import (
	"strconv"
	"strings"
)

// AddressCount is the number of slots of the address space.
const AddressCount = 1024

// Address is a key into the address space. Addresses below SymbolOffset form
// the primitive layer, the others the symbol layer.
type Address uint16

// Addresses with a dedicated meaning.
const (
	// Reset is the turtle reset primitive run at the start of every render.
	Reset Address = 0300
	// Cursor is the sentinel marking the insertion point of an edited glyph.
	Cursor Address = 0207
	// Nop does nothing.
	Nop Address = 0177
	// SymbolOffset separates the primitive layer from the symbol layer.
	SymbolOffset Address = 01000
	// FirstPrintable and LastPrintable delimit the printable ASCII range.
	FirstPrintable Address = 040
	LastPrintable  Address = 0176
)

// Valid reports whether the address is inside the address space.
func (a Address) Valid() bool { return a < AddressCount }

// IsSymbol reports whether the address belongs to the symbol layer.
func (a Address) IsSymbol() bool { return a >= SymbolOffset && a.Valid() }

// IsPrintable reports whether the address appends a character to the word buffer.
func (a Address) IsPrintable() bool { return a >= FirstPrintable && a <= LastPrintable }

// Spelled returns the symbol-layer counterpart used when a glyph is laid out
// as text. Printable characters, Nop, the cursor and symbol addresses map to
// themselves.
func (a Address) Spelled() Address {
	if a > Nop && a < SymbolOffset && a != Cursor {
		return a + SymbolOffset
	}
	return a
}

// Symbol returns the address a spelled render expands instead of a. Unlike
// Spelled it also maps the reserved and root action addresses below the
// printable range, so no token of a spelled glyph acts on the view.
func (a Address) Symbol() Address {
	if a < SymbolOffset && a != Cursor && (a < FirstPrintable || a > Nop) {
		return a + SymbolOffset
	}
	return a
}

// String writes the address in base 8 with a leading zero.
func (a Address) String() string {
	return "0" + strconv.FormatUint(uint64(a), 8)
}

// ParseAddress parses a base 8 token such as "0330".
func ParseAddress(tok string) (Address, error) {
	tok = strings.TrimSpace(tok)
	v, err := strconv.ParseUint(tok, 8, 32)
	if err != nil {
		return 0, &AddressError{Token: tok}
	}
	if v >= AddressCount {
		return 0, &AddressError{Value: int64(v)}
	}
	return Address(v), nil
}

// Glyph is a comma delimited sequence of address tokens, e.g. "0330,0330,".
type Glyph string

// Tokens parses the glyph, skipping empty and blank tokens.
func (g Glyph) Tokens() ([]Address, error) {
	fields := strings.Split(string(g), ",")
	out := make([]Address, 0, len(fields))
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			continue
		}
		a, err := ParseAddress(f)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// IsEmpty reports whether the glyph holds no tokens.
func (g Glyph) IsEmpty() bool {
	return strings.Trim(string(g), ", \t\r\n") == ""
}

// GlyphOf formats the addresses as a glyph, each token followed by a comma.
func GlyphOf(addrs ...Address) Glyph {
	var sb strings.Builder
	for _, a := range addrs {
		sb.WriteString(a.String())
		sb.WriteByte(',')
	}
	return Glyph(sb.String())
}

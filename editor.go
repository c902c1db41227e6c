package freepants

import "github.com/pkg/errors"

// Editor edits the glyph stored at a home address. The glyph is held as a
// token slice and a separate insertion index; the cursor sentinel only
// appears in the text form returned by Text.
type Editor struct {
	space *AddressSpace
	home  Address

	tokens []Address
	cursor int
	clean  Glyph
}

// NewEditor returns an editor for the glyph stored at home, with the cursor
// after its last token.
func NewEditor(space *AddressSpace, home Address) (*Editor, error) {
	g, err := space.Get(home)
	if err != nil {
		return nil, err
	}
	e := &Editor{space: space, home: home}
	if err := e.Load(g); err != nil {
		return nil, err
	}
	return e, nil
}

// Home returns the address the glyph is stored at by Clean.
func (e *Editor) Home() Address { return e.home }

// Load replaces the edited glyph. A single cursor sentinel in g sets the
// insertion point, otherwise the cursor goes after the last token.
func (e *Editor) Load(g Glyph) error {
	tokens, err := g.Tokens()
	if err != nil {
		return err
	}
	cursor := -1
	out := tokens[:0]
	for _, a := range tokens {
		if a == Cursor {
			if cursor >= 0 {
				return errors.Wrap(ErrCursorInvariant, "glyph holds more than one cursor")
			}
			cursor = len(out)
			continue
		}
		out = append(out, a)
	}
	if cursor < 0 {
		cursor = len(out)
	}
	e.tokens, e.cursor = out, cursor
	return nil
}

// Insert applies an editor command, or splices the address in front of the
// cursor. The cursor sentinel and the home address itself are refused.
func (e *Editor) Insert(a Address) error {
	if !a.Valid() {
		return &AddressError{Value: int64(a)}
	}
	if a < FirstPrintable {
		e.Apply(a)
		return nil
	}
	if a == Cursor {
		return errors.Wrap(ErrCursorInvariant, "the cursor cannot be inserted")
	}
	if a == e.home {
		return &RecursionError{Address: a, Cycle: true}
	}
	e.tokens = append(e.tokens, 0)
	copy(e.tokens[e.cursor+1:], e.tokens[e.cursor:])
	e.tokens[e.cursor] = a
	e.cursor++
	return nil
}

// Delete removes the token in front of the cursor. It does nothing at the
// start of the glyph.
func (e *Editor) Delete() {
	if e.cursor == 0 {
		return
	}
	e.tokens = append(e.tokens[:e.cursor-1], e.tokens[e.cursor:]...)
	e.cursor--
}

// Back moves the cursor one token towards the start.
func (e *Editor) Back() {
	if e.cursor > 0 {
		e.cursor--
	}
}

// Forward moves the cursor one token towards the end.
func (e *Editor) Forward() {
	if e.cursor < len(e.tokens) {
		e.cursor++
	}
}

// Clear empties the glyph and forgets the last cleaned copy.
func (e *Editor) Clear() {
	e.tokens = e.tokens[:0]
	e.cursor = 0
	e.clean = ""
}

// Clean stores the glyph without its cursor at the home address and returns it.
func (e *Editor) Clean() (Glyph, error) {
	g := GlyphOf(e.tokens...)
	if err := e.space.Set(e.home, g); err != nil {
		return "", err
	}
	e.clean = g
	return g, nil
}

// Cleaned returns the copy stored by the last Clean.
func (e *Editor) Cleaned() Glyph { return e.clean }

// Spell replaces every shape and primitive token with its symbol-layer
// counterpart, so the glyph can be laid out as text.
func (e *Editor) Spell() {
	for i, a := range e.tokens {
		e.tokens[i] = a.Spelled()
	}
}

// Text returns the glyph with the cursor sentinel at the insertion point.
func (e *Editor) Text() Glyph {
	out := make([]Address, 0, len(e.tokens)+1)
	out = append(out, e.tokens[:e.cursor]...)
	out = append(out, Cursor)
	out = append(out, e.tokens[e.cursor:]...)
	return GlyphOf(out...)
}

// Tokens returns a copy of the glyph tokens, without the cursor.
func (e *Editor) Tokens() []Address {
	return append([]Address(nil), e.tokens...)
}

// Cursor returns the insertion index, between 0 and len(Tokens()).
func (e *Editor) Cursor() int { return e.cursor }

// Apply runs an editor command. It reports false for addresses which are
// not editor commands.
func (e *Editor) Apply(cmd Address) bool {
	switch cmd {
	case CmdDelete:
		e.Delete()
	case CmdClear:
		e.Clear()
	case CmdSpell:
		e.Spell()
	case CmdBack:
		e.Back()
	case CmdForward:
		e.Forward()
	case CmdNext, CmdPrevious, CmdToggle:
	default:
		return false
	}
	return true
}

package freepants

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const home Address = 01777

func newTestEditor(t *testing.T, g Glyph) (*Editor, *AddressSpace) {
	t.Helper()
	s := NewAddressSpace()
	require.NoError(t, s.Set(home, g))
	e, err := NewEditor(s, home)
	require.NoError(t, err)
	return e, s
}

func TestEditor_Load(t *testing.T) {
	assert := assert.New(t)

	e, _ := newTestEditor(t, "0330,0331,")
	assert.Equal([]Address{0330, 0331}, e.Tokens())
	assert.Equal(2, e.Cursor())
	assert.Equal(Glyph("0330,0331,0207,"), e.Text())
	assert.Equal(home, e.Home())

	assert.NoError(e.Load("0330,0207,0331,"))
	assert.Equal(1, e.Cursor())
	assert.Equal([]Address{0330, 0331}, e.Tokens())

	err := e.Load("0207,0330,0207,")
	assert.True(errors.Is(err, ErrCursorInvariant))
	assert.True(errors.Is(e.Load("0330,xx,"), ErrInvalidAddress))

	_, err = NewEditor(NewAddressSpace(), 02000)
	assert.True(errors.Is(err, ErrInvalidAddress))
}

func TestEditor_InsertAndMove(t *testing.T) {
	assert := assert.New(t)
	e, _ := newTestEditor(t, "")

	assert.NoError(e.Insert(0330))
	assert.NoError(e.Insert(0331))
	assert.Equal(Glyph("0330,0331,0207,"), e.Text())

	e.Back()
	assert.NoError(e.Insert(0342))
	assert.Equal(Glyph("0330,0342,0207,0331,"), e.Text())

	e.Back()
	e.Back()
	e.Back()
	e.Back()
	assert.Equal(0, e.Cursor())
	e.Delete()
	assert.Equal(Glyph("0207,0330,0342,0331,"), e.Text())

	for i := 0; i < 5; i++ {
		e.Forward()
	}
	assert.Equal(3, e.Cursor())
	e.Delete()
	assert.Equal(Glyph("0330,0342,0207,"), e.Text())
}

func TestEditor_Refusals(t *testing.T) {
	assert := assert.New(t)
	e, _ := newTestEditor(t, "0330,")

	assert.True(errors.Is(e.Insert(Cursor), ErrCursorInvariant))
	assert.True(errors.Is(e.Insert(home), ErrCycleDetected))
	assert.True(errors.Is(e.Insert(02000), ErrInvalidAddress))
	assert.Equal(Glyph("0330,0207,"), e.Text())
}

func TestEditor_Commands(t *testing.T) {
	assert := assert.New(t)
	e, _ := newTestEditor(t, "0330,0101,0200,0177,")

	assert.NoError(e.Insert(CmdSpell))
	assert.Equal([]Address{01330, 0101, 01200, 0177}, e.Tokens())

	assert.True(e.Apply(CmdBack))
	assert.True(e.Apply(CmdDelete))
	assert.Equal(Glyph("01330,0101,0207,0177,"), e.Text())
	assert.True(e.Apply(CmdForward))
	assert.Equal(3, e.Cursor())

	assert.True(e.Apply(CmdNext))
	assert.False(e.Apply(0330))
	assert.Equal(3, e.Cursor())

	assert.True(e.Apply(CmdClear))
	assert.Equal(Glyph("0207,"), e.Text())
	assert.Empty(e.Tokens())
}

func TestEditor_Clean(t *testing.T) {
	assert := assert.New(t)
	e, s := newTestEditor(t, "0330,")

	e.Back()
	assert.NoError(e.Insert(0342))
	g, err := e.Clean()
	assert.NoError(err)
	assert.Equal(Glyph("0342,0330,"), g)
	assert.Equal(g, e.Cleaned())

	stored, _ := s.Get(home)
	assert.Equal(g, stored)

	// Cleaning keeps the cursor where it was.
	assert.Equal(1, e.Cursor())

	e.Clear()
	assert.Empty(e.Cleaned())
	stored, _ = s.Get(home)
	assert.Equal(g, stored)
}

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LafeLabs/freepants"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "glyphs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveLoad(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := openTestStore(t)

	space := freepants.MustBootstrap()
	require.NoError(t, s.Save(ctx, "bootstrap", space))

	got, err := s.Load(ctx, "bootstrap")
	require.NoError(t, err)
	assert.Equal(space.Len(), got.Len())
	space.Each(func(a freepants.Address, g freepants.Glyph) bool {
		other, _ := got.Get(a)
		assert.Equal(g, other, a.String())
		return true
	})
}

func TestStore_LoadRejectsCorruptAddresses(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, addr := range []int{65541, 1024, -1} {
		name := fmt.Sprintf("corrupt%d", addr)
		_, err := s.db.ExecContext(ctx, "INSERT INTO glyphs (tbl, address, glyph) VALUES (?, ?, ?)", name, addr, "0330,")
		require.NoError(t, err)

		_, err = s.Load(ctx, name)
		assert.True(t, errors.Is(err, freepants.ErrInvalidAddress), "%d", addr)
		var ae *freepants.AddressError
		require.True(t, errors.As(err, &ae))
		assert.Equal(t, int64(addr), ae.Value)
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := openTestStore(t)

	space := freepants.NewAddressSpace()
	_ = space.Set(01000, "0330,")
	_ = space.Set(01001, "0331,")
	require.NoError(t, s.Save(ctx, "mine", space))

	_ = space.Clear(01001)
	_ = space.Set(01000, "0342,")
	require.NoError(t, s.Save(ctx, "mine", space))

	got, err := s.Load(ctx, "mine")
	require.NoError(t, err)
	assert.Equal(1, got.Len())
	g, _ := got.Get(01000)
	assert.Equal(freepants.Glyph("0342,"), g)
}

func TestStore_Tables(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := openTestStore(t)

	space := freepants.NewAddressSpace()
	_ = space.Set(040, "0330,")
	require.NoError(t, s.Save(ctx, "zeta", space))
	require.NoError(t, s.Save(ctx, "alpha", space))

	names, err := s.Tables(ctx)
	assert.NoError(err)
	assert.Equal([]string{"alpha", "zeta"}, names)

	require.NoError(t, s.Delete(ctx, "zeta"))
	names, err = s.Tables(ctx)
	assert.NoError(err)
	assert.Equal([]string{"alpha"}, names)

	assert.True(errors.Is(s.Delete(ctx, "zeta"), ErrTableNotFound))
	_, err = s.Load(ctx, "zeta")
	assert.True(errors.Is(err, ErrTableNotFound))
}

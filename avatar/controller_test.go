package avatar

import (
	"os"
	"path"
	"testing"

	"github.com/dmisol/animface/morph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFiresHooksInOrder(t *testing.T) {
	c := NewController(nil)
	var events []string
	c.OnPreLoaded(func(i Info) { events = append(events, "pre:"+i.Name) })
	c.OnLoaded(func(i Info) { events = append(events, "loaded:"+i.Name) })
	c.OnDisposing(func() { events = append(events, "disposing") })

	info, err := c.Load(path.Join("testdata", "avatar.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "sample", info.Name)
	assert.NotEmpty(t, info.ID)
	assert.Len(t, info.Keys, 11)
	assert.Equal(t, morph.Neutral, info.Keys[0])
	assert.Equal(t, 0.1, info.Buffer.Weight(morph.Sorrow))

	other, err := c.Load(path.Join("testdata", "other.yaml"))
	require.NoError(t, err)
	assert.NotEqual(t, info.ID, other.ID)
	assert.NotSame(t, info.Buffer, other.Buffer)

	assert.Equal(t, []string{"pre:sample", "loaded:sample", "disposing", "pre:other", "loaded:other"}, events)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, []morph.Key{morph.A, "Surprised"}, cur.Keys)
}

func TestReleaseIsIdempotent(t *testing.T) {
	c := NewController(nil)
	n := 0
	c.OnDisposing(func() { n++ })

	c.Release()
	_, err := c.Load(path.Join("testdata", "other.yaml"))
	require.NoError(t, err)
	c.Release()
	c.Release()

	assert.Equal(t, 1, n)
	_, ok := c.Current()
	assert.False(t, ok)
}

func TestLoadErrorsKeepCurrent(t *testing.T) {
	c := NewController(nil)
	_, err := c.Load(path.Join("testdata", "other.yaml"))
	require.NoError(t, err)

	_, err = c.Load(path.Join("testdata", "model.vrm"))
	assert.ErrorIs(t, err, ErrUnknownFileType)

	_, err = c.Load(path.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	cur, ok := c.Current()
	require.True(t, ok)
	assert.Equal(t, "other", cur.Name)
}

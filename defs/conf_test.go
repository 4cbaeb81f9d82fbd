package defs

import (
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConf(t *testing.T) {
	t.Setenv("LIVEKIT_SECRET", "from-env")

	c, err := LoadConf(path.Join("testdata", "portal.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", c.Listen)
	assert.Equal(t, "devkey", c.Key)
	assert.Equal(t, "from-env", c.Secret)
	assert.Equal(t, "ft", c.Hall)
	assert.Equal(t, 60, c.FPS)
	assert.Equal(t, 640, c.Preview.W)
	assert.Equal(t, 3*time.Second, c.Blink.Interval)
	assert.Equal(t, 120*time.Millisecond, c.Blink.Duration)
	assert.Equal(t, 1.0, c.LipSync.Gain)

	require.Len(t, c.Expressions, 2)
	e := c.Expressions[0]
	assert.Equal(t, "joy", e.Name)
	assert.Equal(t, 0.8, e.Weights["Joy"])
	assert.Equal(t, 2*time.Second, e.Duration)
	assert.True(t, e.ResetOnEnd)

	e = c.Expressions[1]
	assert.Equal(t, "talk-happy", e.Name)
	assert.True(t, e.SkipLipSync)
	assert.Zero(t, e.Duration)
}

func TestLoadConfMissing(t *testing.T) {
	_, err := LoadConf(path.Join("testdata", "missing.yaml"))
	assert.Error(t, err)
}

package morph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryKeepsOrderAndDropsDuplicates(t *testing.T) {
	r := NewRegistry([]Key{Joy, A, "", Joy, Angry})

	assert.Equal(t, []Key{Joy, A, Angry}, r.Keys())
	assert.Equal(t, 3, r.Len())
	assert.True(t, r.Contains(A))
	assert.False(t, r.Contains(Sorrow))
}

func TestRegistryIsolatedFromInput(t *testing.T) {
	in := []Key{A, I}
	r := NewRegistry(in)
	in[0] = Fun

	assert.False(t, r.Contains(Fun))
	out := r.Keys()
	out[1] = Fun
	assert.Equal(t, []Key{A, I}, r.Keys())
}

func TestNilRegistry(t *testing.T) {
	var r *Registry
	assert.False(t, r.Contains(A))
	assert.Zero(t, r.Len())
	assert.Nil(t, r.Keys())
	r.Each(func(Key) { t.Fatal("no keys expected") })
}

func TestLipSyncKeys(t *testing.T) {
	for _, k := range []Key{A, I, U, E, O} {
		assert.True(t, IsLipSync(k), k)
	}
	assert.False(t, IsLipSync(Joy))
	assert.False(t, IsLipSync("a"))
}

func TestVowel(t *testing.T) {
	k, ok := Vowel('e')
	assert.True(t, ok)
	assert.Equal(t, E, k)

	_, ok = Vowel('x')
	assert.False(t, ok)
}

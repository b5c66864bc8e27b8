package cbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	B map[uint8]string `json:"b"`
	A uint64           `json:"a"`
}

func TestMarshalIsDeterministic(t *testing.T) {
	x := item{A: 5, B: map[uint8]string{3: "c", 1: "a", 2: "b"}}
	first, err := Marshal(x)
	require.NoError(t, err)
	for i := 0; i < 20; i++ {
		again, err := Marshal(item{A: 5, B: map[uint8]string{2: "b", 1: "a", 3: "c"}})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	d1, err := Digest(x)
	require.NoError(t, err)
	d2, err := Digest(x)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)
}

func TestUnmarshalRejectsDuplicateKeys(t *testing.T) {
	// {"a": 1, "a": 2}
	dup := []byte{0xa2, 0x61, 'a', 0x01, 0x61, 'a', 0x02}
	var x item
	assert.Error(t, Unmarshal(dup, &x))
}

func TestUnmarshalRejectsUnknownFields(t *testing.T) {
	bts, err := Marshal(map[string]uint64{"a": 1, "zz": 2})
	require.NoError(t, err)
	var x item
	assert.Error(t, Unmarshal(bts, &x))
}

func TestUnmarshalRejectsTrailingBytes(t *testing.T) {
	bts, err := Marshal(item{A: 1})
	require.NoError(t, err)
	var x item
	assert.Error(t, Unmarshal(append(bts, 0x00), &x))
}

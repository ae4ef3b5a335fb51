package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColorWireFormat(t *testing.T) {
	w := NewWriter(0)
	require.NoError(t, w.WriteValue(Color{R: 37, G: 54, B: 126}))
	assert.Equal(t, []byte{37, 54, 126, 0}, w.Bytes())
}

func TestColorDecodeIgnoresPadding(t *testing.T) {
	var c Color
	require.NoError(t, c.Decode(NewReader([]byte{37, 54, 126, 0xff}, 0)))
	assert.Equal(t, Color{R: 37, G: 54, B: 126}, c)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#25367e", Color{R: 37, G: 54, B: 126}.Hex())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#25367e")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 37, G: 54, B: 126}, c)

	c, err = ParseColor("ff0000")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 255}, c)

	_, err = ParseColor("red")
	assert.Error(t, err)
	_, err = ParseColor("#ff00")
	assert.Error(t, err)
}

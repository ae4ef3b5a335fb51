package presets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgbnet-project/orgbnet/internal/protocol"
)

func writePreset(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

func TestStoreLoad(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "fire.yaml", "name: fire\ndescription: warm reds\ncolors:\n  - \"#ff0000\"\n  - \"#ff6600\"\n")
	writePreset(t, dir, "ocean.yml", "colors:\n  - \"#0066ff\"\n")
	writePreset(t, dir, "notes.txt", "not a preset")

	s := NewStore(dir)
	require.NoError(t, s.Load())

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "fire", list[0].Name)
	assert.Equal(t, "ocean", list[1].Name, "file name fills in a missing preset name")

	fire, ok := s.Get("fire")
	require.True(t, ok)
	assert.Equal(t, "warm reds", fire.Description)
}

func TestStoreLoadRejectsBadColor(t *testing.T) {
	dir := t.TempDir()
	writePreset(t, dir, "bad.yaml", "name: bad\ncolors:\n  - \"#zzzzzz\"\n")

	s := NewStore(dir)
	require.Error(t, s.Load())
}

func TestStoreMissingDirectoryIsEmpty(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, s.Load())
	assert.Empty(t, s.List())
}

func TestPresetFrameCyclesColors(t *testing.T) {
	p := &Preset{Name: "duo", Colors: []string{"#ff0000", "#0000ff"}}

	frame, err := p.Frame(5)
	require.NoError(t, err)
	want := []protocol.Color{
		{R: 255}, {B: 255}, {R: 255}, {B: 255}, {R: 255},
	}
	assert.Equal(t, want, frame)
}

func TestPresetWithoutColors(t *testing.T) {
	p := &Preset{Name: "empty"}
	_, err := p.Frame(3)
	require.Error(t, err)
}

func TestStoreSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Load())

	require.NoError(t, s.Save(&Preset{Name: "mono", Colors: []string{"#ffffff"}}))

	reloaded := NewStore(dir)
	require.NoError(t, reloaded.Load())
	p, ok := reloaded.Get("mono")
	require.True(t, ok)
	assert.Equal(t, []string{"#ffffff"}, p.Colors)

	require.Error(t, s.Save(&Preset{Name: "", Colors: []string{"#ffffff"}}))
	require.Error(t, s.Save(&Preset{Name: "bad", Colors: []string{"nope"}}))
}

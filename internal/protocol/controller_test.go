package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildController assembles a controller payload the way a server would:
// embedded size first, then the fixed field order.
func buildController(t *testing.T, version uint32) []byte {
	t.Helper()
	w := NewWriter(version)
	w.WriteU32(9999) // embedded size; receivers discard it
	w.WriteU32(uint32(DeviceKeyboard))
	for _, s := range []string{"Corsair K70", "Corsair", "Mechanical keyboard", "3.08", "K70-001", "HID: /dev/hidraw2"} {
		require.NoError(t, w.WriteString(s))
	}

	w.WriteU16(2)  // mode count
	w.WriteI32(1)  // active mode
	static := ModeData{Name: "Static", Flags: ModeHasPerLEDColor, ColorMode: ColorModePerLED}
	wave := sampleMode()
	require.NoError(t, w.WriteValue(static))
	require.NoError(t, w.WriteValue(wave))

	zone := buildZone(t, version, true, nil, nil)
	w.WriteU16(1)
	w.WriteRaw(zone)

	w.WriteU16(2) // led count
	for _, name := range []string{"Key: A", "Key: B"} {
		require.NoError(t, w.WriteString(name))
		w.WriteU32(0)
	}
	require.NoError(t, WriteList(w, []Color{{R: 255}, {B: 255}}))

	if version >= 5 {
		w.WriteU16(2)
		require.NoError(t, w.WriteString("A"))
		require.NoError(t, w.WriteString("B"))
		w.WriteU32(4) // controller flags
	}
	return w.Bytes()
}

func TestControllerDecodeV5(t *testing.T) {
	r := NewReader(buildController(t, 5), 5)
	ctrl, err := ReadValue[ControllerData](r)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Remaining())

	assert.Equal(t, DeviceKeyboard, ctrl.Type)
	assert.Equal(t, "Corsair K70", ctrl.Name)
	assert.Equal(t, "Corsair", ctrl.Vendor)
	assert.Equal(t, "HID: /dev/hidraw2", ctrl.Location)
	assert.Equal(t, int32(1), ctrl.ActiveMode)

	require.Len(t, ctrl.Modes, 2)
	assert.Equal(t, uint32(0), ctrl.Modes[0].Index)
	assert.Equal(t, uint32(1), ctrl.Modes[1].Index)
	assert.Equal(t, "Wave", ctrl.Modes[1].Name)

	require.Len(t, ctrl.Zones, 1)
	assert.Equal(t, uint32(0), ctrl.Zones[0].ID)
	require.NotNil(t, ctrl.Zones[0].Matrix)

	require.Len(t, ctrl.LEDs, 2)
	assert.Equal(t, "Key: A", ctrl.LEDs[0].Name)
	assert.Equal(t, []Color{{R: 255}, {B: 255}}, ctrl.Colors)

	names, ok := ctrl.LEDAltNames.Value()
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B"}, names)
	assert.Equal(t, uint32(4), ctrl.Flags.Or(0))
}

func TestControllerDecodeV2(t *testing.T) {
	payload := buildController(t, 2)
	r := NewReader(payload, 2)
	ctrl, err := ReadValue[ControllerData](r)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Remaining())

	assert.False(t, ctrl.LEDAltNames.Supported())
	assert.False(t, ctrl.Flags.Supported())
	_, ok := ctrl.Modes[1].Brightness.Value()
	assert.False(t, ok)

	// Decoding the same payload again yields an identical snapshot.
	again, err := ReadValue[ControllerData](NewReader(payload, 2))
	require.NoError(t, err)
	assert.Equal(t, ctrl, again)
}

func TestControllerAccessors(t *testing.T) {
	r := NewReader(buildController(t, 5), 5)
	ctrl, err := ReadValue[ControllerData](r)
	require.NoError(t, err)

	require.NotNil(t, ctrl.Mode("Wave"))
	assert.Nil(t, ctrl.Mode("Breathing"))

	cur := ctrl.CurrentMode()
	require.NotNil(t, cur)
	assert.Equal(t, "Wave", cur.Name)

	require.NotNil(t, ctrl.Zone(0))
	assert.Nil(t, ctrl.Zone(1))
	assert.Equal(t, 2, ctrl.LEDCount())

	ctrl.ActiveMode = -1
	assert.Nil(t, ctrl.CurrentMode())
}

func TestControllerTruncated(t *testing.T) {
	full := buildController(t, 5)
	for _, cut := range []int{4, 8, len(full) / 2, len(full) - 1} {
		_, err := ReadValue[ControllerData](NewReader(full[:cut], 5))
		require.Error(t, err, "cut at %d", cut)
	}
}

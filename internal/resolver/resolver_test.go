package resolver

import (
	"testing"

	perrors "djp.chapter42.de/printerbridge/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveService(t *testing.T) {
	cases := []struct {
		entity string
		action string
		want   string
	}{
		{"switch.kitchen_printer_wake", "test_print", "kitchen_test_print"},
		{"switch.kitchen_wake", "wake_printer", "kitchen_wake_printer"},
		{"switch.kitchen", "sleep_printer", "kitchen_sleep_printer"},
		{"switch.Kitchen_Printer_printer_wake", "print_text", "Kitchen_Printer_print_text"},
		{"switch.office_printer", "feed_paper", "office_printer_feed_paper"},
		{"switch.hall_wake_printer_wake", "print_barcode", "hall_wake_print_barcode"},
		{"binary_sensor.garage.door_wake", "print_text", "garage.door_print_text"},
	}

	for _, tc := range cases {
		t.Run(tc.entity, func(t *testing.T) {
			got, err := ResolveService(tc.entity, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveServiceIsStable(t *testing.T) {
	first, err := ResolveService("switch.kitchen_printer_wake", "print_text")
	require.NoError(t, err)
	second, err := ResolveService("switch.kitchen_printer_wake", "print_text")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	device, err := DeviceName("switch.kitchen_printer_wake")
	require.NoError(t, err)
	again, err := DeviceName("switch." + device)
	require.NoError(t, err)
	assert.Equal(t, device, again)
}

func TestResolveServiceErrors(t *testing.T) {
	for _, entity := range []string{"kitchen_printer", "", ".kitchen", "switch.", "switch._wake"} {
		_, err := ResolveService(entity, "print_text")
		assert.True(t, perrors.Is(err, perrors.ErrCodeResolutionFailed), entity)
	}

	_, err := ResolveService("switch.kitchen", "")
	assert.True(t, perrors.Is(err, perrors.ErrCodeResolutionFailed))
}

func TestDeviceNameStripsOnlyOneSuffix(t *testing.T) {
	device, err := DeviceName("switch.x_wake_printer_wake")
	require.NoError(t, err)
	assert.Equal(t, "x_wake", device)

	device, err = DeviceName("switch.x_printer_wake_wake")
	require.NoError(t, err)
	assert.Equal(t, "x_printer_wake", device)
}

package dial

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseUART(t *testing.T) {
	testCases := []struct {
		spec   string
		device string
		baud   int
	}{
		{"/dev/ttyUSB0", "/dev/ttyUSB0", 115200},
		{"COM3", "COM3", 115200},
		{"uart:///dev/ttyACM0?baud=9600", "/dev/ttyACM0", 9600},
		{"uart://COM4", "COM4", 115200},
	}
	for _, tc := range testCases {
		t.Run(tc.spec, func(t *testing.T) {
			device, baud, err := ParseUART(tc.spec)
			require.NoError(t, err)
			require.Equal(t, tc.device, device)
			require.Equal(t, tc.baud, baud)
		})
	}
	_, _, err := ParseUART("uart:///dev/tty0?baud=fast")
	require.Error(t, err)
}

func TestRadioUnknownScheme(t *testing.T) {
	_, err := Radio("carrier-pigeon://loft", Options{})
	require.Error(t, err)
}

func TestBridgeID(t *testing.T) {
	conf := NewConfig()
	conf.ID = "b1"
	require.Equal(t, "b1", conf.BridgeID())
	conf.ID = ""
	require.NotEmpty(t, conf.BridgeID())
	require.Equal(t, MachineID(), conf.BridgeID())
}

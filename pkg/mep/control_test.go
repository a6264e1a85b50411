package mep

import (
	"testing"

	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResetBuildsEightByteSet(t *testing.T) {
	raw, err := Reset(proto.PPTP, 1)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	assert.Equal(t, proto.CmdSet, f.Cmd)
	assert.Equal(t, 8, len(f.Payload))
}

func TestDeleteCodeRefusesReadOnly(t *testing.T) {
	_, err := DeleteCode(proto.PPTP, 1, codeStatus)
	require.Error(t, err)

	_, err = DeleteCode(proto.PPTP, 1, codeDeviceDesc)
	require.NoError(t, err)
}

func TestClockValidation(t *testing.T) {
	_, err := BuildClock(proto.PPTP, 1, Clock{Year: 24, Month: 2, Day: 29, Hour: 12, Minute: 0, Second: 0})
	require.NoError(t, err)

	_, err = BuildClock(proto.PPTP, 1, Clock{Year: 24, Month: 13, Day: 1})
	require.Error(t, err)

	_, err = BuildClock(proto.PPTP, 1, Clock{Year: 24, Month: 4, Day: 31})
	require.Error(t, err)
}

// Clock validation (spec property 6).
func TestClockValidationProperty(t *testing.T) {
	daysPerMonth := [12]uint8{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	rapid.Check(t, func(t *rapid.T) {
		c := Clock{
			Year:   uint8(rapid.IntRange(0, 255).Draw(t, "y")),
			Month:  uint8(rapid.IntRange(0, 20).Draw(t, "m")),
			Day:    uint8(rapid.IntRange(0, 35).Draw(t, "d")),
			Hour:   uint8(rapid.IntRange(0, 30).Draw(t, "h")),
			Minute: uint8(rapid.IntRange(0, 70).Draw(t, "min")),
			Second: uint8(rapid.IntRange(0, 70).Draw(t, "s")),
		}
		_, err := BuildClock(proto.PPTP, 1, c)

		valid := c.Month >= 1 && c.Month <= 12
		if valid {
			valid = c.Day >= 1 && c.Day <= daysPerMonth[c.Month-1]
		}
		valid = valid && c.Hour <= 24 && c.Minute <= 59 && c.Second <= 59

		if valid {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}
	})
}

func TestBrightnessSkipsOutOfRangeChannel(t *testing.T) {
	raw, err := Brightness(proto.PPTP, 1, [4]int{300, 0, 255, 128})
	require.NoError(t, err)
	// 5 header bytes (payloadLen+tran+cmd) + group(8) + 3*(9) = 5+8+27=40
	assert.Equal(t, 40, len(raw))
}

func TestBrightnessAllOutOfRangeFails(t *testing.T) {
	_, err := Brightness(proto.PPTP, 1, [4]int{300, 300, 300, 300})
	require.Error(t, err)
}

// Traffic-light value guard (spec property 7).
func TestTrafficLightValueGuardProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := uint16(rapid.Uint16().Draw(t, "v"))
		_, err := TrafficLightStatus(proto.PPTP, 1, codeTrafficLight1, value)

		hi := byte(value>>8) & 0x07
		lo := byte(value) & 0x07
		valid := isLampValue(hi) && isLampValue(lo)

		if valid {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}
	})
}

func TestDeviceIDTruncates(t *testing.T) {
	raw, err := DeviceID(proto.PPTP, 1, "0123456789ABCDEFXYZ")
	require.NoError(t, err)
	assert.Equal(t, 5+16+16, len(raw))
}

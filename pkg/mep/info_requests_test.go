package mep

import (
	"testing"

	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClockInfoBuildsSingleGet(t *testing.T) {
	raw, err := ClockInfo(proto.PPTP, 1)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	assert.Equal(t, proto.CmdGet, f.Cmd)
	assert.Equal(t, 6, len(f.Payload))
}

func TestDeviceInfoRequestsFullGroup(t *testing.T) {
	raw, err := DeviceInfo(proto.PPTP, 1)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	// customDeviceInfoData + 7 device fields = 8 GET records.
	assert.Equal(t, 8*6, len(f.Payload))
}

func TestTempInfoWholeGroupWhenCodeZero(t *testing.T) {
	raw, err := TempInfo(proto.PPTP, 1, 0)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	// group marker + 8 temperature channels = 9 GET records.
	assert.Equal(t, 9*6, len(f.Payload))
}

func TestTempInfoSingleChannel(t *testing.T) {
	raw, err := TempInfo(proto.PPTP, 1, codeTemp1)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	assert.Equal(t, 6, len(f.Payload))
}

func TestTempInfoRejectsForeignCode(t *testing.T) {
	_, err := TempInfo(proto.PPTP, 1, codeHumidity1)
	require.Error(t, err)
}

func TestHumidityInfoSingleChannel(t *testing.T) {
	raw, err := HumidityInfo(proto.PPTP, 1, codeHumidity1)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	assert.Equal(t, 6, len(f.Payload))
}

func TestDiagnosticInfoBuildsExpectedCount(t *testing.T) {
	raw, err := DiagnosticInfo(proto.PPTP, 1)
	require.NoError(t, err)

	f, err := frame.ParsePPTP(raw)
	require.NoError(t, err)
	// marker + 11 diagnostic fields = 12 GET records.
	assert.Equal(t, 12*6, len(f.Payload))
}

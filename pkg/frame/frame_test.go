package frame

import (
	"errors"
	"testing"

	"github.com/aesysnet/mepcodec/pkg/command"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// S1 — PPTP GET round-trip.
func TestPPTPGetRoundTrip(t *testing.T) {
	payload := command.EncodeGet(command.GetRecord{Code: 0x7531, Offset: 0})

	raw, err := Build(proto.PPTP, 0, 0x0100, proto.CmdGet, payload)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x06, 0x01, 0x00, 0x81, 0x75, 0x31, 0x00, 0x00, 0x00, 0x00}, raw)

	parsed, err := ParsePPTP(raw)
	require.NoError(t, err)
	assert.Equal(t, uint16(6), parsed.PayloadLen)
	assert.Equal(t, proto.TransactionId(0x0100), parsed.TranId)
	assert.Equal(t, proto.CmdGet, parsed.Cmd)

	cursor := 0
	rec, more, err := command.ReadNextGet(parsed.Payload, &cursor)
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, command.GetRecord{Code: 0x7531, Offset: 0}, rec)
}

// S2 — UPTB escape: a reserved byte inside the payload is stuffed and the
// exact raw body is recovered on decode.
func TestUPTBEscapeRoundTrip(t *testing.T) {
	payload := command.EncodeDel(command.DelRecord{Code: 0x0003})

	stuffed, err := Build(proto.UPTB, proto.AddressBroadcast, 0x0002, proto.CmdDel, payload)
	require.NoError(t, err)

	// Code 0x0003 puts a raw ETX byte in the payload; it must appear
	// stuffed as DLE,0x83 in the emitted stream.
	foundStuffedETX := false
	for i := 0; i+1 < len(stuffed); i++ {
		if stuffed[i] == proto.DLE && stuffed[i+1] == proto.ETX+proto.EscapeIncrement {
			foundStuffedETX = true
		}
	}
	assert.True(t, foundStuffedETX)

	parsed, err := ParseUPTB(stuffed)
	require.NoError(t, err)
	assert.Equal(t, proto.Address(proto.AddressBroadcast), parsed.Address)
	assert.Equal(t, proto.TransactionId(0x0002), parsed.TranId)
	assert.Equal(t, proto.CmdDel, parsed.Cmd)
	assert.Equal(t, payload, parsed.Payload)
}

// S6 — CRC tamper: flipping a single bit in the payload must be rejected.
func TestUPTBCRCTamperRejected(t *testing.T) {
	payload := command.EncodeGet(command.GetRecord{Code: 0x7531, Offset: 0})
	stuffed, err := Build(proto.UPTB, proto.AddressBroadcast, 1, proto.CmdGet, payload)
	require.NoError(t, err)

	tampered := append([]byte(nil), stuffed...)
	// Flip a bit in the first payload byte: STX(1) + unstuffed header(7).
	tampered[8] ^= 0x01

	_, err = ParseUPTB(tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, proto.ErrBadFrame))
}

func TestBuildRejectsOversizedPayload(t *testing.T) {
	_, err := Build(proto.PPTP, 0, 0, proto.CmdGet, make([]byte, proto.MaxPayloadLen+1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, proto.ErrBadFrame))
}

func TestBuildRejectsInvalidCommand(t *testing.T) {
	_, err := Build(proto.PPTP, 0, 0, proto.Command(0x99), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, proto.ErrBadFrame))
}

func TestParsePPTPRejectsInvalidCommand(t *testing.T) {
	raw := []byte{0x00, 0x02, 0x00, 0x00, 0x99, 0x00, 0x00}
	_, err := ParsePPTP(raw)
	require.Error(t, err)
}

// Cmd validation (spec property 3).
func TestCmdValidationProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cmd := proto.Command(rapid.Byte().Draw(t, "cmd"))
		valid := cmd >= proto.CmdSet && cmd <= proto.CmdDat

		_, err := Build(proto.PPTP, 0, 0, cmd, nil)
		if valid {
			require.NoError(t, err)
		} else {
			require.Error(t, err)
		}
	})
}

// Ceiling enforcement (spec property 4).
func TestCeilingEnforcementProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(proto.MaxPayloadLen+1, proto.MaxPayloadLen+500).Draw(t, "n")
		_, err := Build(proto.PPTP, 0, 0, proto.CmdGet, make([]byte, n))
		require.Error(t, err)
		require.True(t, errors.Is(err, proto.ErrBadFrame))
	})
}

// CRC determinism (spec property 2): parsing the same frame twice yields
// identical normalized output.
func TestUPTBParseDeterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		// At least 2 payload bytes keeps the frame at the 13-byte UPTB minimum.
		payload := rapid.SliceOfN(rapid.Byte(), 2, 64).Draw(t, "payload")
		stuffed, err := Build(proto.UPTB, proto.AddressBroadcast, 7, proto.CmdSet, payload)
		require.NoError(t, err)

		a, err := ParseUPTB(stuffed)
		require.NoError(t, err)
		b, err := ParseUPTB(stuffed)
		require.NoError(t, err)
		require.Equal(t, a, b)
	})
}

// Package frame assembles and disassembles the two on-wire envelope
// variants (PPTP, UPTB/UPTB_NOSTX), computing and validating the CRC-16
// and enforcing the protocol's size ceilings.
package frame

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/escape"
	"github.com/aesysnet/mepcodec/pkg/octet"
	"github.com/aesysnet/mepcodec/pkg/proto"
)

// PPTP is the decoded form of a PPTP sub-frame.
type PPTP struct {
	PayloadLen uint16
	TranId     proto.TransactionId
	Cmd        proto.Command
	Payload    []byte
}

// UPTB is the decoded form of a UPTB / UPTB_NOSTX frame, including the
// address and CRC the PPTP sub-frame is wrapped with.
type UPTB struct {
	CRC        uint16
	Address    proto.Address
	PayloadLen uint16
	TranId     proto.TransactionId
	Cmd        proto.Command
	Payload    []byte
}

// Build assembles a complete on-wire frame of the requested kind.
func Build(kind proto.FrameKind, address proto.Address, tranId proto.TransactionId, cmd proto.Command, payload []byte) ([]byte, error) {
	if !cmd.Valid() {
		return nil, fmt.Errorf("frame: invalid command 0x%02x: %w", byte(cmd), proto.ErrBadFrame)
	}
	if len(payload) > proto.MaxPayloadLen {
		return nil, fmt.Errorf("frame: payload length %d exceeds ceiling: %w", len(payload), proto.ErrBadFrame)
	}

	switch kind {
	case proto.PPTP:
		return buildPPTP(tranId, cmd, payload)
	case proto.UPTB, proto.UPTBNoSTX:
		return buildUPTB(kind, address, tranId, cmd, payload)
	default:
		return nil, fmt.Errorf("frame: unknown frame kind %d: %w", kind, proto.ErrInvalidArgument)
	}
}

func buildPPTP(tranId proto.TransactionId, cmd proto.Command, payload []byte) ([]byte, error) {
	total := 5 + len(payload)
	if total > proto.MaxFrameLen {
		return nil, fmt.Errorf("frame: frame length %d exceeds ceiling: %w", total, proto.ErrBadFrame)
	}

	buf := make([]byte, total)
	o := octet.PutUint16BE(buf, 0, uint16(len(payload)))
	o = octet.PutUint16BE(buf, o, uint16(tranId))
	buf[o] = byte(cmd)
	o++
	copy(buf[o:], payload)
	return buf, nil
}

func buildUPTB(kind proto.FrameKind, address proto.Address, tranId proto.TransactionId, cmd proto.Command, payload []byte) ([]byte, error) {
	raw := make([]byte, 7+len(payload))
	o := octet.PutUint16BE(raw, 0, uint16(address))
	o = octet.PutUint16BE(raw, o, uint16(len(payload)))
	o = octet.PutUint16BE(raw, o, uint16(tranId))
	raw[o] = byte(cmd)
	o++
	copy(raw[o:], payload)

	if len(raw)+2 > proto.MaxFrameLen {
		return nil, fmt.Errorf("frame: frame length %d exceeds ceiling: %w", len(raw)+2, proto.ErrBadFrame)
	}

	crc := octet.CRC(raw)
	full := append(raw, byte(crc>>8), byte(crc))

	stuffed, err := escape.Encode(full, kind == proto.UPTB)
	if err != nil {
		return nil, err
	}
	return stuffed, nil
}

// ParsePPTP validates and decodes a PPTP sub-frame.
func ParsePPTP(raw []byte) (*PPTP, error) {
	if len(raw) < proto.MinSizePPTP {
		return nil, fmt.Errorf("frame: pptp frame too short (%d bytes): %w", len(raw), proto.ErrBadFrame)
	}

	cmd := proto.Command(raw[4])
	if !cmd.Valid() {
		return nil, fmt.Errorf("frame: invalid command 0x%02x: %w", raw[4], proto.ErrBadFrame)
	}

	payloadLen, _ := octet.GetUint16BE(raw, 0)
	if int(payloadLen) > proto.MaxPayloadLen || int(payloadLen) != len(raw)-5 {
		return nil, fmt.Errorf("frame: payload length mismatch: %w", proto.ErrBadFrame)
	}

	tranId, _ := octet.GetUint16BE(raw, 2)

	payload := make([]byte, payloadLen)
	copy(payload, raw[5:])

	return &PPTP{
		PayloadLen: payloadLen,
		TranId:     proto.TransactionId(tranId),
		Cmd:        cmd,
		Payload:    payload,
	}, nil
}

// ParseUPTB validates and decodes a UPTB frame bracketed by STX/ETX.
func ParseUPTB(frame []byte) (*UPTB, error) {
	if len(frame) < proto.MinSizeUPTB || frame[0] != proto.STX || frame[len(frame)-1] != proto.ETX {
		return nil, fmt.Errorf("frame: malformed uptb envelope: %w", proto.ErrBadFrame)
	}
	return parseUPTBBody(frame[1:len(frame)-1], true)
}

// ParseUPTBNoSTX validates and decodes a UPTB_NOSTX frame (identical wire
// layout, no delimiters).
func ParseUPTBNoSTX(frame []byte) (*UPTB, error) {
	if len(frame) < proto.MinSizeUPTB-2 {
		return nil, fmt.Errorf("frame: malformed uptb_nostx envelope: %w", proto.ErrBadFrame)
	}
	return parseUPTBBody(frame, false)
}

// parseUPTBBody decodes the escaped body (header + payload + crc) common to
// UPTB and UPTB_NOSTX. hadDelimiters is not consulted: the caller has
// already stripped any delimiters, so the final cursor check is the same
// for both variants.
func parseUPTBBody(body []byte, hadDelimiters bool) (*UPTB, error) {
	computedCRC := octet.CRCInit()
	cursor := 0

	header, consumed, err := escape.Decode(body[cursor:], 7, &computedCRC)
	if err != nil {
		return nil, err
	}
	cursor += consumed

	cmd := proto.Command(header[6])
	if !cmd.Valid() {
		return nil, fmt.Errorf("frame: invalid command 0x%02x: %w", header[6], proto.ErrBadFrame)
	}

	payloadLen, _ := octet.GetUint16BE(header, 2)
	if int(payloadLen) > proto.MaxPayloadLen {
		return nil, fmt.Errorf("frame: payload length %d exceeds ceiling: %w", payloadLen, proto.ErrBadFrame)
	}

	payload, consumed, err := escape.Decode(body[cursor:], int(payloadLen), &computedCRC)
	if err != nil {
		return nil, err
	}
	cursor += consumed

	crcBytes, consumed, err := escape.Decode(body[cursor:], 2, nil)
	if err != nil {
		return nil, err
	}
	cursor += consumed

	if cursor != len(body) {
		return nil, fmt.Errorf("frame: trailing bytes after crc: %w", proto.ErrMalformedSequence)
	}

	receivedCRC, _ := octet.GetUint16BE(crcBytes, 0)
	if receivedCRC != computedCRC {
		return nil, fmt.Errorf("frame: crc mismatch: %w", proto.ErrBadFrame)
	}

	address, _ := octet.GetUint16BE(header, 0)
	tranId, _ := octet.GetUint16BE(header, 4)

	return &UPTB{
		CRC:        receivedCRC,
		Address:    proto.Address(address),
		PayloadLen: payloadLen,
		TranId:     proto.TransactionId(tranId),
		Cmd:        cmd,
		Payload:    payload,
	}, nil
}

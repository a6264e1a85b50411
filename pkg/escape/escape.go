// Package escape implements the DLE byte-stuffing scheme used to protect
// the reserved bytes STX, ETX and DLE when they occur inside a frame body.
package escape

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/octet"
	"github.com/aesysnet/mepcodec/pkg/proto"
)

// Encode scans raw and emits DLE,byte+K for every occurrence of STX, ETX or
// DLE, verbatim otherwise. When withDelimiters is set the result is
// bracketed with an unescaped STX/ETX pair. Fails if the stuffed length
// would exceed the frame ceiling.
func Encode(raw []byte, withDelimiters bool) ([]byte, error) {
	extra := 0
	for _, b := range raw {
		if isReserved(b) {
			extra++
		}
	}

	total := len(raw) + extra
	if withDelimiters {
		total += 2
	}
	if total > proto.MaxFrameLen {
		return nil, fmt.Errorf("escape: stuffed length %d exceeds frame ceiling: %w", total, proto.ErrBadFrame)
	}

	out := make([]byte, 0, total)
	if withDelimiters {
		out = append(out, proto.STX)
	}
	for _, b := range raw {
		if isReserved(b) {
			out = append(out, proto.DLE, b+proto.EscapeIncrement)
		} else {
			out = append(out, b)
		}
	}
	if withDelimiters {
		out = append(out, proto.ETX)
	}
	return out, nil
}

// Decode unstuffs stuffed, producing exactly expectedLen raw bytes (or
// stopping early on an unescaped ETX). Every unstuffed byte is folded into
// *crcAcc when crcAcc is non-nil. Returns the decoded bytes and the number
// of stuffed bytes consumed.
func Decode(stuffed []byte, expectedLen int, crcAcc *uint16) ([]byte, int, error) {
	out := make([]byte, 0, expectedLen)
	i := 0
	for len(out) < expectedLen && i < len(stuffed) && stuffed[i] != proto.ETX {
		b := stuffed[i]
		if b == proto.DLE {
			if i+1 >= len(stuffed) {
				return nil, 0, fmt.Errorf("escape: truncated escape sequence: %w", proto.ErrMalformedSequence)
			}
			next := stuffed[i+1]
			if !isStuffed(next) {
				return nil, 0, fmt.Errorf("escape: invalid escape byte 0x%02x: %w", next, proto.ErrMalformedSequence)
			}
			unescaped := next - proto.EscapeIncrement
			out = append(out, unescaped)
			if crcAcc != nil {
				*crcAcc = octet.CRCStep(unescaped, *crcAcc)
			}
			i += 2
		} else {
			out = append(out, b)
			if crcAcc != nil {
				*crcAcc = octet.CRCStep(b, *crcAcc)
			}
			i++
		}
	}

	if len(out) != expectedLen {
		return nil, 0, fmt.Errorf("escape: expected %d bytes, got %d: %w", expectedLen, len(out), proto.ErrMalformedSequence)
	}
	return out, i, nil
}

func isReserved(b byte) bool {
	return b == proto.STX || b == proto.ETX || b == proto.DLE
}

func isStuffed(b byte) bool {
	return b == proto.STX+proto.EscapeIncrement || b == proto.ETX+proto.EscapeIncrement || b == proto.DLE+proto.EscapeIncrement
}

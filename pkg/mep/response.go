package mep

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/command"
	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/octet"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/aesysnet/mepcodec/pkg/registry"
)

// ResponseItem is one decoded, typed value from a DAT response.
type ResponseItem struct {
	Code  proto.Code
	Flags uint8
	Type  proto.ValueType
	Value []byte
}

// Response is the decoded form of a DAT frame: the echoed transaction id, a
// synthetic groupType taken from the first DAT record's code (this is how
// CUSTOM_*_INFO_DATA pseudo-codes surface to the caller), and the items.
type Response struct {
	TranId    proto.TransactionId
	GroupType proto.Code
	Items     []ResponseItem
}

// ParseResponse decodes raw (a PPTP or UPTB frame, never UPTB_NOSTX) and
// groups its DAT records into a Response.
func ParseResponse(kind proto.FrameKind, raw []byte) (*Response, error) {
	var payload []byte
	var tranId proto.TransactionId
	var cmd proto.Command

	switch kind {
	case proto.PPTP:
		f, err := frame.ParsePPTP(raw)
		if err != nil {
			return nil, err
		}
		payload, tranId, cmd = f.Payload, f.TranId, f.Cmd
	case proto.UPTB:
		f, err := frame.ParseUPTB(raw)
		if err != nil {
			return nil, err
		}
		payload, tranId, cmd = f.Payload, f.TranId, f.Cmd
	default:
		return nil, fmt.Errorf("mep: response parsing rejects frame kind %d: %w", kind, ErrInvalidArgument)
	}

	if cmd != proto.CmdDat {
		return nil, fmt.Errorf("mep: response frame is not a DAT: %w", ErrNotPermitted)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("mep: empty dat payload: %w", ErrBadFrame)
	}
	if payload[0] != 0 {
		return nil, fmt.Errorf("mep: dat status byte %d is nonzero: %w", payload[0], ErrNotPermitted)
	}

	resp := &Response{TranId: tranId}
	cursor := 1
	first := true

	for {
		rec, more, err := command.ReadNextDat(payload, &cursor)
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
		if first {
			resp.GroupType = rec.Code
			first = false
		}
		if rec.Flags == 1 {
			continue
		}

		resp.Items = append(resp.Items, ResponseItem{
			Code:  rec.Code,
			Flags: rec.Flags,
			Type:  valueType(rec.Code, rec.Data),
			Value: rec.Data,
		})
	}

	return resp, nil
}

// valueType resolves a DAT record's value type from the registry, or falls
// back to a length-keyed guess when the code is unknown. Length 4 maps to
// BINARY and length>=5 maps to UINT32 — a fallback-table indexing quirk
// preserved verbatim rather than "corrected" to the more natural mapping.
func valueType(code proto.Code, data []byte) proto.ValueType {
	if p, ok := registry.Lookup(code); ok {
		return p.Type
	}

	switch len(data) {
	case 0:
		return proto.Void
	case 1:
		return proto.Uint8
	case 2:
		return proto.Uint16
	case 3:
		return proto.Binary
	case 4:
		return proto.Binary
	default:
		return proto.Uint32
	}
}

// Uint32At reads a big-endian uint32 from an item's raw value; used by
// callers that know an item's registry type is UINT32/UINT16/UINT8.
// Values shorter than four bytes are read as a big-endian number of their
// own width.
func Uint32At(data []byte) uint32 {
	if len(data) < 4 {
		var v uint32
		for _, b := range data {
			v = v<<8 | uint32(b)
		}
		return v
	}
	v, _ := octet.GetUint32BE(data, 0)
	return v
}

// Package command encodes and decodes the SET/GET/DEL/DAT records carried
// inside a frame payload, including the streaming decoder and the
// VisExtensible inner page iterator.
package command

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/octet"
	"github.com/aesysnet/mepcodec/pkg/proto"
)

// SetRecord is a SET command record: code, offset, length-prefixed data.
type SetRecord struct {
	Code   proto.Code
	Offset uint32
	Data   []byte
}

// GetRecord is a GET command record: code and offset.
type GetRecord struct {
	Code   proto.Code
	Offset uint32
}

// DelRecord is a DEL command record: just a code.
type DelRecord struct {
	Code proto.Code
}

// DatRecord is one typed result entry in a device response.
type DatRecord struct {
	Code   proto.Code
	Offset uint32
	Flags  uint8
	Data   []byte
}

// EncodeSet serializes a SET record: code(2) | offset(4) | length(2) | data.
func EncodeSet(rec SetRecord) []byte {
	buf := make([]byte, 8+len(rec.Data))
	o := octet.PutUint16BE(buf, 0, uint16(rec.Code))
	o = octet.PutUint32BE(buf, o, rec.Offset)
	o = octet.PutUint16BE(buf, o, uint16(len(rec.Data)))
	copy(buf[o:], rec.Data)
	return buf
}

// EncodeGet serializes a GET record: code(2) | offset(4).
func EncodeGet(rec GetRecord) []byte {
	buf := make([]byte, 6)
	o := octet.PutUint16BE(buf, 0, uint16(rec.Code))
	octet.PutUint32BE(buf, o, rec.Offset)
	return buf
}

// EncodeDel serializes a DEL record: code(2).
func EncodeDel(rec DelRecord) []byte {
	buf := make([]byte, 2)
	octet.PutUint16BE(buf, 0, uint16(rec.Code))
	return buf
}

// ReadNextSet decodes one SET record at *cursor. more is false and err is
// nil at a clean end of payload; err is non-nil on a truncated record.
func ReadNextSet(payload []byte, cursor *int) (SetRecord, bool, error) {
	const headerSize = 8
	if *cursor >= len(payload) {
		return SetRecord{}, false, nil
	}
	if *cursor+headerSize > len(payload) {
		return SetRecord{}, false, fmt.Errorf("command: truncated set record at %d: %w", *cursor, proto.ErrBadFrame)
	}

	o := *cursor
	var code16 uint16
	code16, o = octet.GetUint16BE(payload, o)
	offset, o := octet.GetUint32BE(payload, o)
	length, o := octet.GetUint16BE(payload, o)

	rec := SetRecord{Code: proto.Code(code16), Offset: offset}
	if length > 0 {
		if o+int(length) > len(payload) {
			return SetRecord{}, false, fmt.Errorf("command: truncated set data at %d: %w", o, proto.ErrBadFrame)
		}
		rec.Data = append([]byte(nil), payload[o:o+int(length)]...)
		o += int(length)
	}

	*cursor = o
	return rec, true, nil
}

// ReadNextGet decodes one GET record at *cursor.
func ReadNextGet(payload []byte, cursor *int) (GetRecord, bool, error) {
	const size = 6
	if *cursor >= len(payload) {
		return GetRecord{}, false, nil
	}
	if *cursor+size > len(payload) {
		return GetRecord{}, false, fmt.Errorf("command: truncated get record at %d: %w", *cursor, proto.ErrBadFrame)
	}

	o := *cursor
	var code16 uint16
	code16, o = octet.GetUint16BE(payload, o)
	offset, o := octet.GetUint32BE(payload, o)

	*cursor = o
	return GetRecord{Code: proto.Code(code16), Offset: offset}, true, nil
}

// ReadNextDel decodes one DEL record (a bare code) at *cursor.
func ReadNextDel(payload []byte, cursor *int) (DelRecord, bool, error) {
	const size = 2
	if *cursor >= len(payload) {
		return DelRecord{}, false, nil
	}
	if *cursor+size > len(payload) {
		return DelRecord{}, false, fmt.Errorf("command: truncated del record at %d: %w", *cursor, proto.ErrBadFrame)
	}

	code16, o := octet.GetUint16BE(payload, *cursor)
	*cursor = o
	return DelRecord{Code: proto.Code(code16)}, true, nil
}

// ReadNextDat decodes one DAT record at *cursor. Callers must initialize
// *cursor to 1 before the first call, to skip the leading status byte.
func ReadNextDat(payload []byte, cursor *int) (DatRecord, bool, error) {
	const headerSize = 9
	if *cursor >= len(payload) {
		return DatRecord{}, false, nil
	}
	if *cursor+headerSize > len(payload) {
		return DatRecord{}, false, fmt.Errorf("command: truncated dat record at %d: %w", *cursor, proto.ErrBadFrame)
	}

	o := *cursor
	var code16 uint16
	code16, o = octet.GetUint16BE(payload, o)
	offset, o := octet.GetUint32BE(payload, o)
	flags := payload[o]
	o++
	length, o := octet.GetUint16BE(payload, o)

	rec := DatRecord{Code: proto.Code(code16), Offset: offset, Flags: flags}
	if length > 0 {
		if o+int(length) > len(payload) {
			return DatRecord{}, false, fmt.Errorf("command: truncated dat data at %d: %w", o, proto.ErrBadFrame)
		}
		rec.Data = append([]byte(nil), payload[o:o+int(length)]...)
		o += int(length)
	}

	*cursor = o
	return rec, true, nil
}

// VisExtPage is one page within a VIS_EXTENSIBLE value blob.
type VisExtPage struct {
	PageId   uint8
	Duration uint8
	Params   uint8
	Type     uint8
	Data     []byte
}

// VisExtCursor packs the two 8-bit counters the streaming VisExtensible
// iterator tracks: pages consumed so far (high byte) and pages remaining
// in the current group (low byte). Callers own the zero value and pass it
// by pointer across calls to ReadNextVisExtPage.
type VisExtCursor uint16

func (c VisExtCursor) consumed() uint8  { return uint8(c >> 8) }
func (c VisExtCursor) remaining() uint8 { return uint8(c) }

// ReadNextVisExtPage decodes one page from a VIS_EXTENSIBLE value blob.
// Callers must initialize *cursor to 1 before the first call: byte 0 is the
// reserved numPagesExpected count, checked against state's consumed() only
// once the cursor reaches the end of payload. more is false and err is nil
// once every expected page has been consumed.
func ReadNextVisExtPage(payload []byte, cursor *int, state *VisExtCursor) (VisExtPage, bool, error) {
	if len(payload) == 0 {
		return VisExtPage{}, false, fmt.Errorf("command: empty visext payload: %w", proto.ErrInvalidArgument)
	}

	noe := state.consumed()
	nop := state.remaining()

	if *cursor >= len(payload) {
		if noe != payload[0] {
			return VisExtPage{}, false, fmt.Errorf("command: visext page count mismatch: %w", proto.ErrBadFrame)
		}
		return VisExtPage{}, false, nil
	}

	var pageId uint8
	if nop == 0 {
		if *cursor+2 > len(payload) {
			return VisExtPage{}, false, fmt.Errorf("command: truncated visext group header at %d: %w", *cursor, proto.ErrBadFrame)
		}
		pageId = payload[*cursor]
		nop = payload[*cursor+1]
		*cursor += 2
		noe++
		*state = VisExtCursor(uint16(noe)<<8 | uint16(nop))

		if nop == 0 {
			return VisExtPage{}, true, nil
		}
	}

	const headerSize = 5
	if *cursor+headerSize > len(payload) {
		return VisExtPage{}, false, fmt.Errorf("command: truncated visext page header at %d: %w", *cursor, proto.ErrBadFrame)
	}

	duration := payload[*cursor]
	params := payload[*cursor+1]
	typ := payload[*cursor+2]
	size, _ := octet.GetUint16BE(payload, *cursor+3)

	*cursor += headerSize
	if *cursor+int(size) > len(payload) {
		return VisExtPage{}, false, fmt.Errorf("command: truncated visext page data at %d: %w", *cursor, proto.ErrBadFrame)
	}

	data := append([]byte(nil), payload[*cursor:*cursor+int(size)]...)
	*cursor += int(size)

	nop--
	*state = VisExtCursor(uint16(noe)<<8 | uint16(nop))

	return VisExtPage{PageId: pageId, Duration: duration, Params: params, Type: typ, Data: data}, true, nil
}

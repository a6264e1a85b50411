package mep

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/command"
	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/proto"
	"github.com/aesysnet/mepcodec/pkg/registry"
)

// Reset builds a single zero-length SET record that reboots the device.
func Reset(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	payload := command.EncodeSet(command.SetRecord{Code: codeReset})
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// DeleteCode builds a DEL record for code, refusing codes the registry
// marks read-only (or unregistered codes entirely).
func DeleteCode(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code) ([]byte, error) {
	if !registry.Writable(code) {
		return nil, fmt.Errorf("mep: code 0x%04x is not writable: %w", code, ErrNotPermitted)
	}
	payload := command.EncodeDel(command.DelRecord{Code: code})
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdDel, payload)
}

var daysPerMonth = [12]uint8{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Clock is the wire layout of a clock value: year, month, day, hour,
// minute, second. Year is a raw offset byte (device-interpreted), not a
// calendar year.
type Clock struct {
	Year, Month, Day, Hour, Minute, Second uint8
}

// valid reports whether c passes the device's clock sanity checks. Day 29
// is accepted for every month via the fixed days-per-month table (February
// is hardcoded to 29, ignoring leap years) — preserved from the reference
// firmware rather than computed from a real calendar.
func (c Clock) valid() bool {
	if c.Month == 0 || c.Month > 12 {
		return false
	}
	if c.Day == 0 || c.Day > daysPerMonth[c.Month-1] {
		return false
	}
	return c.Hour <= 24 && c.Minute <= 59 && c.Second <= 59
}

// BuildClock builds a SET record carrying the 6 raw clock bytes, or an
// error if any field fails the device's validation rules.
func BuildClock(kind proto.FrameKind, tranId proto.TransactionId, c Clock) ([]byte, error) {
	if !c.valid() {
		return nil, fmt.Errorf("mep: invalid clock value %+v: %w", c, ErrInvalidArgument)
	}
	data := []byte{c.Year, c.Month, c.Day, c.Hour, c.Minute, c.Second}
	payload := command.EncodeSet(command.SetRecord{Code: codeClock, Data: data})
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// Brightness builds SET records for up to 4 brightness channels. A value
// above 255 skips that channel; 0 is the device's "automatic" sentinel. If
// every channel is skipped, returns an error.
func Brightness(kind proto.FrameKind, tranId proto.TransactionId, values [4]int) ([]byte, error) {
	codes := brightnessCodes()
	payload := command.EncodeSet(command.SetRecord{Code: customSetBrightness})
	any := false
	for i, v := range values {
		if v > 255 {
			continue
		}
		payload = append(payload, command.EncodeSet(command.SetRecord{Code: codes[i], Data: []byte{byte(v)}})...)
		any = true
	}
	if !any {
		return nil, fmt.Errorf("mep: no brightness channel selected: %w", ErrInvalidArgument)
	}
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// DeviceID builds a CUSTOM_SET_DEVID-grouped SET for the device id string,
// silently truncated to 16 bytes.
func DeviceID(kind proto.FrameKind, tranId proto.TransactionId, id string) ([]byte, error) {
	return buildGroupedString(kind, tranId, customSetDevID, codeDeviceID, id, 16)
}

// DeviceDescription builds a CUSTOM_SET_DEVDESC-grouped SET for the device
// description string, silently truncated to 64 bytes.
func DeviceDescription(kind proto.FrameKind, tranId proto.TransactionId, desc string) ([]byte, error) {
	return buildGroupedString(kind, tranId, customSetDevDesc, codeDeviceDesc, desc, 64)
}

func buildGroupedString(kind proto.FrameKind, tranId proto.TransactionId, group, target proto.Code, s string, max int) ([]byte, error) {
	data := []byte(s)
	if len(data) > max {
		data = data[:max]
	}
	payload := command.EncodeSet(command.SetRecord{Code: group})
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: target, Data: data})...)
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// LastPublicationStatus builds a single-byte SET for the
// remember-last-publication flag.
func LastPublicationStatus(kind proto.FrameKind, tranId proto.TransactionId, remember bool) ([]byte, error) {
	var b byte
	if remember {
		b = 1
	}
	payload := command.EncodeSet(command.SetRecord{Code: codeRememberLastPub, Data: []byte{b}})
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// TrafficLightStatus builds a CUSTOM_SET_TRAFFIC-grouped SET for one of the
// four traffic-light codes. value's high and low byte are each masked with
// 0x07 and must land on exactly one of {1,2,4} (red/orange/green, or their
// flashing equivalents).
func TrafficLightStatus(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code, value uint16) ([]byte, error) {
	if code < codeTrafficLight1 || code > codeTrafficLight4 {
		return nil, fmt.Errorf("mep: code 0x%04x is not a traffic light code: %w", code, ErrInvalidArgument)
	}
	hi := byte(value>>8) & 0x07
	lo := byte(value) & 0x07
	if !isLampValue(hi) || !isLampValue(lo) {
		return nil, fmt.Errorf("mep: traffic light value 0x%04x out of range: %w", value, ErrInvalidArgument)
	}
	payload := command.EncodeSet(command.SetRecord{Code: customSetTraffic})
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: code, Data: []byte{hi, lo}})...)
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

func isLampValue(b byte) bool { return b == 1 || b == 2 || b == 4 }

// ClearPublication builds the nice-begin/nice-end VIS_EXTENSIBLE group that
// clears whatever is currently displayed.
func ClearPublication(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	payload := command.EncodeSet(command.SetRecord{Code: customClearPub})
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible})...)
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible, Data: []byte{0x00}})...)
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible, Offset: 1})...)
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

// Pictogram builds the nice-begin/nice-end VIS_EXTENSIBLE group that
// displays a single stored pictogram.
func Pictogram(kind proto.FrameKind, tranId proto.TransactionId, flashingLamps bool, pictoCode uint16) ([]byte, error) {
	var params uint8
	if flashingLamps {
		params = 1
	}

	pageData := []byte{0x01, 0x00, 0x01} // numPagesExpected, pageId, pageCount
	pageData = append(pageData, 0x05, params, 0x01, 0x00, 0x02)
	pageData = append(pageData, byte(pictoCode>>8), byte(pictoCode))

	payload := command.EncodeSet(command.SetRecord{Code: customSetPicto})
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible})...)
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible, Data: pageData})...)
	payload = append(payload, command.EncodeSet(command.SetRecord{Code: codeVisExtensible, Offset: uint32(len(pageData))})...)
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdSet, payload)
}

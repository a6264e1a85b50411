// Package registry holds the static table of supported codes and the
// capabilities (nice-begin/end support, permitted operations, value type)
// each one carries, grounded on the reference firmware's records[] table.
package registry

import (
	"sort"

	"github.com/aesysnet/mepcodec/pkg/proto"
)

// Properties describes one registered code.
type Properties struct {
	Code                  proto.Code
	NiceBeginEndSupported bool
	Io                    proto.IoCapability
	Type                  proto.ValueType
}

// entries is sorted by Code so Lookup can binary search. Transcribed
// verbatim (code, nice-begin/end, io, type) from the reference firmware's
// code table, re-sorted by numeric code value for lookup.
var entries = sortedEntries([]Properties{
	{0x0000, false, proto.RD, proto.Void},   // STATUS
	{0x0001, false, proto.RD, proto.String}, // HARDWARE_MODEL
	{0x0002, false, proto.RD, proto.String}, // FIRMWARE_MODEL
	{0x0003, false, proto.RD, proto.String}, // FIRMWARE_VERSION
	{0x0004, false, proto.RD, proto.String}, // FIRMWARE_RELEASE
	{0x0005, false, proto.RW, proto.Uint8},  // FIRMWARE_DEVICE_TYPE
	{0x000A, false, proto.RW, proto.String}, // DEVICE_ID
	{0x000B, true, proto.RW, proto.String},  // DEVICE_DESCRIPTION
	{0x0066, false, proto.WR, proto.Void},   // RESET
	{0x03EE, false, proto.RW, proto.Binary}, // VIS_EXTENSIBLE

	{0x2711, false, proto.RD, proto.Int8}, // TEMP_1
	{0x2712, false, proto.RD, proto.Int8}, // TEMP_2
	{0x2713, false, proto.RD, proto.Int8}, // TEMP_3
	{0x2714, false, proto.RD, proto.Int8}, // TEMP_4
	{0x2715, false, proto.RD, proto.Int8}, // TEMP_5
	{0x2716, false, proto.RD, proto.Int8}, // TEMP_6
	{0x2717, false, proto.RD, proto.Int8}, // TEMP_7
	{0x2718, false, proto.RD, proto.Int8}, // TEMP_8

	{0x2775, false, proto.RD, proto.Uint8}, // HUMIDITY_1
	{0x2776, false, proto.RD, proto.Uint8}, // HUMIDITY_2
	{0x2777, false, proto.RD, proto.Uint8}, // HUMIDITY_3
	{0x2778, false, proto.RD, proto.Uint8}, // HUMIDITY_4

	{0x27D9, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_1
	{0x27DA, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_2
	{0x27DB, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_3
	{0x27DC, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_4
	{0x27DD, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_5
	{0x27DE, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_6
	{0x27DF, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_7
	{0x27E0, false, proto.RD, proto.Uint8}, // ENVIRONMENTAL_BRIGHTNESS_8

	{0x5209, false, proto.RD, proto.Bool},   // DEVICE_RESTARTED
	{0x520A, false, proto.RD, proto.Bool},   // DOORS_OPEN
	{0x5217, false, proto.RD, proto.Uint16}, // INTERNAL_ERROR_CODE
	{0x521C, false, proto.RD, proto.Uint8},  // POWER_SAVING_STATUS
	{0x521D, false, proto.RW, proto.Uint8},  // BATTERY_LEVEL

	{0x55F1, false, proto.RD, proto.Bool}, // FANS_ACTIVE
	{0x55F2, false, proto.RD, proto.Bool}, // HEATING_ACTIVE
	{0x55F3, false, proto.RD, proto.Bool}, // SIREN_ACTIVE

	{0x59D9, false, proto.RD, proto.Uint8},  // BROKEN_FANS_NUMBER
	{0x59DB, false, proto.RD, proto.Uint32}, // BROKEN_LEDS_NUMBER
	{0x59DD, false, proto.RD, proto.Uint8},  // BROKEN_BACKLIGHTS_NUMBER
	{0x59DF, false, proto.RD, proto.Uint16}, // NUM_BROKEN_LED_BOARDS

	{0x7531, false, proto.RW, proto.Binary}, // CLOCK
	{0x7562, false, proto.RW, proto.Binary}, // COLORS_CALIBRATION

	{0x7D01, false, proto.RW, proto.Uint8}, // BRIGHTNESS_1
	{0x7D02, false, proto.RW, proto.Uint8}, // BRIGHTNESS_2
	{0x7D03, false, proto.RW, proto.Uint8}, // BRIGHTNESS_3
	{0x7D04, false, proto.RW, proto.Uint8}, // BRIGHTNESS_4

	{0x811A, false, proto.RW, proto.Bool}, // REMEMBER_LAST_PUBLICATION

	{0x814C, false, proto.RW, proto.Binary}, // TRAFFIC_LIGHT_STATUS_1
	{0x814D, false, proto.RW, proto.Binary}, // TRAFFIC_LIGHT_STATUS_2
	{0x814E, false, proto.RW, proto.Binary}, // TRAFFIC_LIGHT_STATUS_3
	{0x814F, false, proto.RW, proto.Binary}, // TRAFFIC_LIGHT_STATUS_4
})

func sortedEntries(e []Properties) []Properties {
	sort.Slice(e, func(i, j int) bool { return e[i].Code < e[j].Code })
	return e
}

// Lookup returns the registered properties for code, or ok=false when the
// code is not in the table.
func Lookup(code proto.Code) (Properties, bool) {
	i := sort.Search(len(entries), func(i int) bool { return entries[i].Code >= code })
	if i < len(entries) && entries[i].Code == code {
		return entries[i], true
	}
	return Properties{}, false
}

// Writable reports whether code permits WR or RW operations — used by the
// DEL builder (mep.DeleteCode) to refuse read-only codes.
func Writable(code proto.Code) bool {
	p, ok := Lookup(code)
	return ok && (p.Io == proto.WR || p.Io == proto.RW)
}

package mep

import "github.com/aesysnet/mepcodec/pkg/proto"

// Registered codes referenced directly by builders and the response parser.
const (
	codeStatus           proto.Code = 0x0000
	codeHardwareModel    proto.Code = 0x0001
	codeFirmwareModel    proto.Code = 0x0002
	codeFirmwareVersion  proto.Code = 0x0003
	codeFirmwareRelease  proto.Code = 0x0004
	codeFirmwareDevType  proto.Code = 0x0005
	codeDeviceID         proto.Code = 0x000A
	codeDeviceDesc       proto.Code = 0x000B
	codeReset            proto.Code = 0x0066
	codeVisExtensible    proto.Code = 0x03EE
	codeTemp1            proto.Code = 0x2711
	codeHumidity1        proto.Code = 0x2775
	codeEnvBrightness1   proto.Code = 0x27D9
	codeDeviceRestarted  proto.Code = 0x5209
	codeDoorsOpen        proto.Code = 0x520A
	codeInternalError    proto.Code = 0x5217
	codePowerSaving      proto.Code = 0x521C
	codeBatteryLevel     proto.Code = 0x521D
	codeFansActive       proto.Code = 0x55F1
	codeHeatingActive    proto.Code = 0x55F2
	codeSirenActive      proto.Code = 0x55F3
	codeBrokenFans       proto.Code = 0x59D9
	codeBrokenLeds       proto.Code = 0x59DB
	codeBrokenBacklights proto.Code = 0x59DD
	codeNumBrokenBoards  proto.Code = 0x59DF
	codeClock            proto.Code = 0x7531
	codeRememberLastPub  proto.Code = 0x811A
	codeBrightness1      proto.Code = 0x7D01
	codeTrafficLight1    proto.Code = 0x814C
	codeTrafficLight4    proto.Code = 0x814F
)

// Pseudo-codes synthesized by group builders (not in the real code space).
// Builders send them as the leading zero-length SET or leading GET record of
// a group; the device echoes the GET ones back to classify a grouped
// response.
const (
	customSetText             proto.Code = 0xFDE8
	customSetPicto            proto.Code = 0xFDE9
	customSetDevID            proto.Code = 0xFDEA
	customSetTraffic          proto.Code = 0xFDEB
	customSetDevDesc          proto.Code = 0xFDEC
	customSetBrightness       proto.Code = 0xFDED
	customClearPub            proto.Code = 0xFDEE
	customDeleteCode          proto.Code = 0xFDEF
	customStatusInfoData      proto.Code = 0xFDF0
	customDeviceInfoData      proto.Code = 0xFDF1
	customTrafficInfoData     proto.Code = 0xFDF2
	customHumidityInfoData    proto.Code = 0xFDF3
	customBrightnessInfoData  proto.Code = 0xFDF4
	customDiagnosticInfoData  proto.Code = 0xFDF5
	customTemperatureInfoData proto.Code = 0xFDF6
	customEBrightnessInfoData proto.Code = 0xFDF7
)

func temperatureCodes() [8]proto.Code {
	var out [8]proto.Code
	for i := range out {
		out[i] = codeTemp1 + proto.Code(i)
	}
	return out
}

func humidityCodes() [4]proto.Code {
	var out [4]proto.Code
	for i := range out {
		out[i] = codeHumidity1 + proto.Code(i)
	}
	return out
}

func envBrightnessCodes() [8]proto.Code {
	var out [8]proto.Code
	for i := range out {
		out[i] = codeEnvBrightness1 + proto.Code(i)
	}
	return out
}

func brightnessCodes() [4]proto.Code {
	var out [4]proto.Code
	for i := range out {
		out[i] = codeBrightness1 + proto.Code(i)
	}
	return out
}

func trafficLightCodes() [4]proto.Code {
	var out [4]proto.Code
	for i := range out {
		out[i] = codeTrafficLight1 + proto.Code(i)
	}
	return out
}

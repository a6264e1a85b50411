package mep

import (
	"fmt"

	"github.com/aesysnet/mepcodec/pkg/command"
	"github.com/aesysnet/mepcodec/pkg/frame"
	"github.com/aesysnet/mepcodec/pkg/proto"
)

// buildGetGroup concatenates one GET record per code and frames it.
func buildGetGroup(kind proto.FrameKind, tranId proto.TransactionId, codes []proto.Code) ([]byte, error) {
	payload := make([]byte, 0, 6*len(codes))
	for _, c := range codes {
		payload = append(payload, command.EncodeGet(command.GetRecord{Code: c})...)
	}
	return frame.Build(kind, proto.AddressBroadcast, tranId, proto.CmdGet, payload)
}

// ClockInfo requests the device clock.
func ClockInfo(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	return buildGetGroup(kind, tranId, []proto.Code{codeClock})
}

// DeviceInfo requests the synthetic device-info group: hardware model,
// firmware model/version/release/device-type, device id and description.
func DeviceInfo(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	return buildGetGroup(kind, tranId, []proto.Code{
		customDeviceInfoData,
		codeHardwareModel, codeFirmwareModel, codeFirmwareVersion,
		codeFirmwareRelease, codeFirmwareDevType, codeDeviceID, codeDeviceDesc,
	})
}

// DevStatusInfo requests the synthetic device-status group (currently just
// the raw status code).
func DevStatusInfo(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	return buildGetGroup(kind, tranId, []proto.Code{customStatusInfoData, codeStatus})
}

// DiagnosticInfo requests the synthetic diagnostic group: doors, power
// saving, battery, fans, siren, heating, internal error code and
// broken-part counters.
func DiagnosticInfo(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	return buildGetGroup(kind, tranId, []proto.Code{
		customDiagnosticInfoData,
		codeDoorsOpen, codePowerSaving, codeBatteryLevel, codeFansActive,
		codeSirenActive, codeHeatingActive, codeBrokenFans, codeBrokenBacklights,
		codeInternalError, codeNumBrokenBoards, codeBrokenLeds,
	})
}

// DevRestartedInfo requests the device-restarted flag.
func DevRestartedInfo(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	return buildGetGroup(kind, tranId, []proto.Code{codeDeviceRestarted})
}

// LastPublicationInfo requests the remember-last-publication flag.
func LastPublicationInfo(kind proto.FrameKind, tranId proto.TransactionId) ([]byte, error) {
	return buildGetGroup(kind, tranId, []proto.Code{codeRememberLastPub})
}

func buildFamilyInfo(kind proto.FrameKind, tranId proto.TransactionId, groupCode proto.Code, family []proto.Code, code proto.Code) ([]byte, error) {
	if code == 0 {
		codes := append([]proto.Code{groupCode}, family...)
		return buildGetGroup(kind, tranId, codes)
	}
	for _, c := range family {
		if c == code {
			return buildGetGroup(kind, tranId, []proto.Code{code})
		}
	}
	return nil, fmt.Errorf("mep: code 0x%04x not in requested family: %w", code, ErrInvalidArgument)
}

// TempInfo requests one temperature sensor (code != 0, must be TEMP_1..8) or
// the whole group (code == 0).
func TempInfo(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code) ([]byte, error) {
	fam := temperatureCodes()
	return buildFamilyInfo(kind, tranId, customTemperatureInfoData, fam[:], code)
}

// HumidityInfo requests one humidity sensor or the whole group.
func HumidityInfo(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code) ([]byte, error) {
	fam := humidityCodes()
	return buildFamilyInfo(kind, tranId, customHumidityInfoData, fam[:], code)
}

// BrightnessInfo requests one brightness channel or the whole group.
func BrightnessInfo(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code) ([]byte, error) {
	fam := brightnessCodes()
	return buildFamilyInfo(kind, tranId, customBrightnessInfoData, fam[:], code)
}

// TrafficLightInfo requests one traffic light or the whole group.
func TrafficLightInfo(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code) ([]byte, error) {
	fam := trafficLightCodes()
	return buildFamilyInfo(kind, tranId, customTrafficInfoData, fam[:], code)
}

// EnvBrightnessInfo requests one environmental brightness sensor or the
// whole group.
func EnvBrightnessInfo(kind proto.FrameKind, tranId proto.TransactionId, code proto.Code) ([]byte, error) {
	fam := envBrightnessCodes()
	return buildFamilyInfo(kind, tranId, customEBrightnessInfoData, fam[:], code)
}

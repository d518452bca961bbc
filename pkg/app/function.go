// Package app implements the DNP3 application layer: fragment header
// parsing/writing, object-header iteration, and the function-code and
// internal-indication vocabulary shared by master and outstation.
package app

import "fmt"

// Function is a one-byte application-layer function code.
type Function uint8

const (
	FuncConfirm              Function = 0x00
	FuncRead                 Function = 0x01
	FuncWrite                Function = 0x02
	FuncSelect               Function = 0x03
	FuncOperate              Function = 0x04
	FuncDirectOperate        Function = 0x05
	FuncDirectOperateNoAck   Function = 0x06
	FuncImmedFreeze          Function = 0x07
	FuncImmedFreezeNoAck     Function = 0x08
	FuncFreezeClear          Function = 0x09
	FuncFreezeClearNoAck     Function = 0x0A
	FuncFreezeAtTime         Function = 0x0B
	FuncFreezeAtTimeNoAck    Function = 0x0C
	FuncColdRestart          Function = 0x0D
	FuncWarmRestart          Function = 0x0E
	FuncInitializeData       Function = 0x0F
	FuncInitializeApp        Function = 0x10
	FuncStartApp             Function = 0x11
	FuncStopApp              Function = 0x12
	FuncSaveConfig           Function = 0x13
	FuncEnableUnsolicited    Function = 0x14
	FuncDisableUnsolicited   Function = 0x15
	FuncAssignClass          Function = 0x16
	FuncDelayMeasure         Function = 0x17
	FuncRecordCurrentTime    Function = 0x18
	FuncOpenFile             Function = 0x19
	FuncCloseFile            Function = 0x1A
	FuncDeleteFile           Function = 0x1B
	FuncGetFileInfo          Function = 0x1C
	FuncAuthenticateFile     Function = 0x1D
	FuncAbortFile            Function = 0x1E
	FuncResponse             Function = 0x81
	FuncUnsolicitedResponse  Function = 0x82
)

func (f Function) String() string {
	switch f {
	case FuncConfirm:
		return "CONFIRM"
	case FuncRead:
		return "READ"
	case FuncWrite:
		return "WRITE"
	case FuncSelect:
		return "SELECT"
	case FuncOperate:
		return "OPERATE"
	case FuncDirectOperate:
		return "DIRECT_OPERATE"
	case FuncDirectOperateNoAck:
		return "DIRECT_OPERATE_NO_ACK"
	case FuncImmedFreeze:
		return "IMMEDIATE_FREEZE"
	case FuncImmedFreezeNoAck:
		return "IMMEDIATE_FREEZE_NO_ACK"
	case FuncFreezeClear:
		return "FREEZE_AND_CLEAR"
	case FuncFreezeClearNoAck:
		return "FREEZE_AND_CLEAR_NO_ACK"
	case FuncFreezeAtTime:
		return "FREEZE_AT_TIME"
	case FuncFreezeAtTimeNoAck:
		return "FREEZE_AT_TIME_NO_ACK"
	case FuncColdRestart:
		return "COLD_RESTART"
	case FuncWarmRestart:
		return "WARM_RESTART"
	case FuncInitializeData:
		return "INITIALIZE_DATA"
	case FuncInitializeApp:
		return "INITIALIZE_APPLICATION"
	case FuncStartApp:
		return "START_APPLICATION"
	case FuncStopApp:
		return "STOP_APPLICATION"
	case FuncSaveConfig:
		return "SAVE_CONFIGURATION"
	case FuncEnableUnsolicited:
		return "ENABLE_UNSOLICITED"
	case FuncDisableUnsolicited:
		return "DISABLE_UNSOLICITED"
	case FuncAssignClass:
		return "ASSIGN_CLASS"
	case FuncDelayMeasure:
		return "DELAY_MEASURE"
	case FuncRecordCurrentTime:
		return "RECORD_CURRENT_TIME"
	case FuncOpenFile:
		return "OPEN_FILE"
	case FuncCloseFile:
		return "CLOSE_FILE"
	case FuncDeleteFile:
		return "DELETE_FILE"
	case FuncGetFileInfo:
		return "GET_FILE_INFO"
	case FuncAuthenticateFile:
		return "AUTHENTICATE_FILE"
	case FuncAbortFile:
		return "ABORT_FILE"
	case FuncResponse:
		return "RESPONSE"
	case FuncUnsolicitedResponse:
		return "UNSOLICITED_RESPONSE"
	default:
		return fmt.Sprintf("UNKNOWN(0x%02x)", uint8(f))
	}
}

// IsResponse reports whether this function code marks a response fragment
// (carrying an IIN field) rather than a request.
func (f Function) IsResponse() bool {
	return f == FuncResponse || f == FuncUnsolicitedResponse
}

package master

import (
	"errors"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/cursor"
	"github.com/open-dnp3/godnp3/pkg/objects"
	"github.com/open-dnp3/godnp3/pkg/transport"
)

// ErrNoStatusEchoed is returned when a control response carries no
// object matching the request, so no CommandStatus could be read.
var ErrNoStatusEchoed = errors.New("master: response echoed no control status")

func decodeCROBStatus(frag *app.Fragment) (objects.CommandStatus, error) {
	if len(frag.Objects) == 0 {
		return 0, ErrNoStatusEchoed
	}
	crob, err := objects.DecodeCROB(cursor.NewReader(frag.Objects[0].Payload))
	if err != nil {
		return 0, err
	}
	return crob.Status, nil
}

func decodeAnalogStatus(frag *app.Fragment, variation AnalogOutputVariation) (objects.CommandStatus, error) {
	if len(frag.Objects) == 0 {
		return 0, ErrNoStatusEchoed
	}
	r := cursor.NewReader(frag.Objects[0].Payload)
	var cmd objects.AnalogOutputCommand
	var err error
	switch variation {
	case AnalogOutputInt16:
		cmd, err = objects.DecodeAnalogOutputCommandInt16(r)
	case AnalogOutputVarFloat32:
		cmd, err = objects.DecodeAnalogOutputCommandFloat32(r)
	case AnalogOutputVarFloat64:
		cmd, err = objects.DecodeAnalogOutputCommandFloat64(r)
	default:
		cmd, err = objects.DecodeAnalogOutputCommandInt32(r)
	}
	if err != nil {
		return 0, err
	}
	return cmd.Status, nil
}

// ControlResult carries a completed control operation's outcome: the
// CommandStatus the outstation echoed, or an error if the task itself
// never got a usable response (timeout, malformed reply, closed
// association).
type ControlResult struct {
	Status objects.CommandStatus
	Err    error
}

// DirectOperateCROB sends a DIRECT_OPERATE (or, if noAck, a
// DIRECT_OPERATE_NO_ACK) for one g12v1 control relay output block, per
// spec.md §4.4. A NO_ACK task is queued and timed like any other: with no
// response coming back it stays in flight until the response timeout
// (which is reported to Handler.OnTaskFailed), and onComplete then
// receives a zero ControlResult.
func (a *Association) DirectOperateCROB(index uint32, crob objects.CROB, noAck bool, onComplete func(ControlResult)) {
	fn := app.FuncDirectOperate
	if noAck {
		fn = app.FuncDirectOperateNoAck
	}
	a.Submit(&Task{
		Name:     "direct-operate-crob",
		Priority: PriorityCommand,
		Build: func(seq uint8) ([]byte, error) {
			return buildCROBRequest(make([]byte, 64), seq, fn, index, crob)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if noAck {
				onComplete(ControlResult{})
				return
			}
			onComplete(crobResult(res))
		},
	})
}

// SelectOperateCROB runs select-before-operate for one g12v1 control:
// a SELECT naming the exact control value, and, only if it succeeds, an
// OPERATE naming the identical value on the very next sequence number,
// per spec.md §4.4's SBO vocabulary. onComplete receives the OPERATE's
// outcome (or the SELECT's failure, if it didn't succeed).
func (a *Association) SelectOperateCROB(index uint32, crob objects.CROB, onComplete func(ControlResult)) {
	a.Submit(&Task{
		Name:     "select-crob",
		Priority: PriorityCommand,
		Build: func(seq uint8) ([]byte, error) {
			return buildCROBRequest(make([]byte, 64), seq, app.FuncSelect, index, crob)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			result := crobResult(res)
			if result.Err != nil || result.Status != objects.StatusSuccess {
				onComplete(result)
				return
			}
			a.Submit(&Task{
				Name:     "operate-crob",
				Priority: PriorityCommand,
				Build: func(seq uint8) ([]byte, error) {
					return buildCROBRequest(make([]byte, 64), seq, app.FuncOperate, index, crob)
				},
				OnResponse: func(frag *app.Fragment) bool { return true },
				OnComplete: func(res2 TaskResult) { onComplete(crobResult(res2)) },
			})
		},
	})
}

func crobResult(res TaskResult) ControlResult {
	if err := checkIIN(res); err != nil {
		return ControlResult{Err: err}
	}
	status, err := decodeCROBStatus(res.Response)
	return ControlResult{Status: status, Err: err}
}

// DirectOperateAnalog sends a DIRECT_OPERATE[_NO_ACK] for one analog
// output command (g41), in the wire variation the outstation's point
// expects.
func (a *Association) DirectOperateAnalog(index uint32, variation AnalogOutputVariation, cmd objects.AnalogOutputCommand, noAck bool, onComplete func(ControlResult)) {
	fn := app.FuncDirectOperate
	if noAck {
		fn = app.FuncDirectOperateNoAck
	}
	a.Submit(&Task{
		Name:     "direct-operate-analog",
		Priority: PriorityCommand,
		Build: func(seq uint8) ([]byte, error) {
			return buildAnalogOutputRequest(make([]byte, 64), seq, fn, variation, index, cmd)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if noAck {
				onComplete(ControlResult{})
				return
			}
			onComplete(analogResult(res, variation))
		},
	})
}

// SelectOperateAnalog runs select-before-operate for one analog output.
func (a *Association) SelectOperateAnalog(index uint32, variation AnalogOutputVariation, cmd objects.AnalogOutputCommand, onComplete func(ControlResult)) {
	a.Submit(&Task{
		Name:     "select-analog",
		Priority: PriorityCommand,
		Build: func(seq uint8) ([]byte, error) {
			return buildAnalogOutputRequest(make([]byte, 64), seq, app.FuncSelect, variation, index, cmd)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			result := analogResult(res, variation)
			if result.Err != nil || result.Status != objects.StatusSuccess {
				onComplete(result)
				return
			}
			a.Submit(&Task{
				Name:     "operate-analog",
				Priority: PriorityCommand,
				Build: func(seq uint8) ([]byte, error) {
					return buildAnalogOutputRequest(make([]byte, 64), seq, app.FuncOperate, variation, index, cmd)
				},
				OnResponse: func(frag *app.Fragment) bool { return true },
				OnComplete: func(res2 TaskResult) { onComplete(analogResult(res2, variation)) },
			})
		},
	})
}

func analogResult(res TaskResult, variation AnalogOutputVariation) ControlResult {
	if err := checkIIN(res); err != nil {
		return ControlResult{Err: err}
	}
	status, err := decodeAnalogStatus(res.Response, variation)
	return ControlResult{Status: status, Err: err}
}

// PollEvents submits a READ naming only the association's configured
// event classes, the periodic event poll of spec.md §4.5 distinct from
// the startup/recovery integrity scan (which also rereads static data).
func (a *Association) PollEvents(onComplete func(error)) {
	a.Submit(&Task{
		Name:     "poll-events",
		Priority: PriorityUserPoll,
		Build: func(seq uint8) ([]byte, error) {
			return buildClassScan(make([]byte, transport.DefaultMaxFragmentSize), seq, a.cfg.EventClasses)
		},
		OnResponse: func(frag *app.Fragment) bool { return frag.Control.FIN },
		OnComplete: func(res TaskResult) { onComplete(checkIIN(res)) },
	})
}

// Restart sends COLD_RESTART (or, if warm, WARM_RESTART) and reports
// the delay the outstation reported before it will be ready again,
// decoded from the g52 time-delay object its response carries.
func (a *Association) Restart(warm bool, onComplete func(delay uint16, err error)) {
	a.Submit(&Task{
		Name:     "restart",
		Priority: PriorityCommand,
		Build: func(seq uint8) ([]byte, error) {
			return buildRestart(make([]byte, 8), seq, warm)
		},
		OnResponse: func(frag *app.Fragment) bool { return true },
		OnComplete: func(res TaskResult) {
			if err := checkIIN(res); err != nil {
				onComplete(0, err)
				return
			}
			if len(res.Response.Objects) == 0 {
				onComplete(0, nil)
				return
			}
			delay, err := objects.DecodeTimeDelay(cursor.NewReader(res.Response.Objects[0].Payload))
			onComplete(delay, err)
		},
	})
}

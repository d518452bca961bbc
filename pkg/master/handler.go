package master

import (
	"errors"

	"github.com/open-dnp3/godnp3/pkg/app"
	"github.com/open-dnp3/godnp3/pkg/objects"
)

// ErrIINFailure is the error a task completes with when its response
// arrived but carried an IIN2 bit describing the request itself as
// rejected (unsupported function, bad parameter, unknown object).
var ErrIINFailure = errors.New("master: response rejected by IIN2")

// Update is one decoded object instance delivered to a Handler, carrying
// enough for the caller to interpret it with the objects package's
// per-variation decoders without this package needing to know the
// concrete measurement type.
type Update struct {
	GroupVariation objects.GroupVariation
	Index          uint32
	Payload        []byte
}

// Handler is the master's user-facing callback surface, mirroring
// pkg/outstation's Handler: the association calls back into whatever
// owns the SCADA view behind this master, with the association's own
// lock already released.
type Handler interface {
	// OnUpdate is called once per object instance found in any response,
	// solicited or unsolicited, in wire order; packed and variable-length
	// objects arrive as one Update per object header.
	OnUpdate(assoc *Association, u Update)

	// OnRestartDetected is called the first time IIN1.7 (DEVICE_RESTART)
	// is observed set on a response, before the association's automatic
	// clear-and-rescan sequence (if enabled) is enqueued.
	OnRestartDetected(assoc *Association)

	// OnTaskFailed is called when a task's request cannot be sent or its
	// response times out, and when an automatic task's response reports
	// an IIN2 rejection (task is then nil). Tasks failed by Close are
	// reported only through their own OnComplete.
	OnTaskFailed(assoc *Association, task *Task, err error)
}

// iinError reports whether a response's IIN2 bits describe the request
// as rejected outright, for a task to fail fast instead of treating an
// OBJECT_UNKNOWN or PARAMETER_ERROR response as success.
func iinError(iin app.IIN) bool {
	return iin.Has(app.IIN2NoFuncCodeSupport) ||
		iin.Has(app.IIN2ParameterError) ||
		iin.Has(app.IIN2ObjectUnknown)
}

// checkIIN turns a task's IIN2 rejection, if any, into an error a
// caller can treat the same as a transport-level failure. A task
// result that already carries an error is returned unchanged.
func checkIIN(res TaskResult) error {
	if res.Err != nil {
		return res.Err
	}
	if res.Response != nil && iinError(res.Response.IIN) {
		return ErrIINFailure
	}
	return nil
}

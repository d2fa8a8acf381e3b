package morph

import "errors"

// Status is the integer returned across the foreign-call boundary. The
// values match the original C enum and are ABI-stable.
type Status int32

const (
	StatusSuccess           Status = 0
	StatusBadMorphOp        Status = 1
	StatusBadType           Status = 2
	StatusBadDevice         Status = 3
	StatusNoDevice          Status = 4
	StatusBadApproxType     Status = 5
	StatusUncaughtException Status = -1
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusBadMorphOp:
		return "bad morphology operation"
	case StatusBadType:
		return "bad element type"
	case StatusBadDevice:
		return "bad device index"
	case StatusNoDevice:
		return "no available device"
	case StatusBadApproxType:
		return "bad approximation type"
	case StatusUncaughtException:
		return "uncaught internal failure"
	}
	return "unknown status"
}

// StatusOf flattens any error into a Status. Recognized domain errors map to
// their code; nil maps to StatusSuccess; everything else, including faults
// raised by the compute engine, maps to StatusUncaughtException. The mapping
// is pure: the same error value always yields the same code.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrBadMorphOp):
		return StatusBadMorphOp
	case errors.Is(err, ErrBadType):
		return StatusBadType
	case errors.Is(err, ErrBadDevice):
		return StatusBadDevice
	case errors.Is(err, ErrNoDevice):
		return StatusNoDevice
	case errors.Is(err, ErrBadApproxType):
		return StatusBadApproxType
	}
	return StatusUncaughtException
}

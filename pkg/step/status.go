package step

// Status is the outcome of a transfer or write, in the style of classic CAD
// data exchange libraries. RetDone is the only success value.
type Status int

const (
	// RetVoid means there was nothing to do
	RetVoid Status = iota
	// RetDone means the operation completed
	RetDone
	// RetError means the input was rejected
	RetError
	// RetFail means the operation failed while running, e.g. on I/O
	RetFail
	// RetStop means the operation was interrupted
	RetStop
)

func (s Status) String() string {
	switch s {
	case RetVoid:
		return "void"
	case RetDone:
		return "done"
	case RetError:
		return "error"
	case RetFail:
		return "fail"
	case RetStop:
		return "stop"
	default:
		return "unknown"
	}
}

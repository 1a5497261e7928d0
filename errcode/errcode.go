package errcode

// Code is a stable error identifier used in diagnostic lines.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	Unsupported   Code = "unsupported"
	InvalidConfig Code = "invalid_config"
	InvalidRecord Code = "invalid_record"
	InvalidTime   Code = "invalid_time"

	BusError   Code = "bus_error"
	NotMounted Code = "not_mounted"
	NotFound   Code = "not_found"

	AlreadyArmed  Code = "already_armed"
	NotArmed      Code = "not_armed"
	AlreadySynced Code = "already_synced"

	Error Code = "error" // generic fallback
)

// Optional wrapper when we want to keep context and a cause.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}
func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Wrap attaches a code and operation to a driver error. Nil stays nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	if c, ok := err.(Code); ok {
		return c
	}
	type coder interface{ Code() Code }
	if x, ok := err.(coder); ok {
		return x.Code()
	}
	if f, ok := err.(*FatalError); ok {
		return Of(f.Err)
	}
	return Error
}

package errors

import "fmt"

const (
	// SuccessABCICode is the ABCI response code of a successful call.
	SuccessABCICode = 0

	// Errors that carry no ABCI code are reported with this code and
	// message, so that no implementation detail leaks to the client.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and the log of an ABCI response for err.
//
// Only registered errors expose their message. Errors without an ABCI code
// get code 1 and a generic message. A recovered panic keeps its code but
// its message, which is the panic value, is hidden as well.
// In debug mode the full message with a stack trace is always returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	case ErrPanic.Is(err):
		return code, ErrPanic.desc
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// provides one.
func abciCode(err error) uint32 {
	for !isNilErr(err) {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return internalABCICode
}

package errorx

import "fmt"

type Code int

type Error struct {
	Code    Code
	Message string
}

var Unknown = Error{Code: 100000, Message: "Request failed"}

func New(code Code, format string, a ...any) Error {
	return Error{Code: code, Message: fmt.Sprintf(format, a...)}
}

func (e Error) Error() string {
	return e.Message
}

package types

import "errors"

// Code is a stable, wire-facing error identifier
type Code string

func (c Code) Error() string { return string(c) }

const (
	CodeOK            Code = "ok"
	CodeBusy          Code = "busy"
	CodeInvalidParams Code = "invalid_params"
	CodeUnknownOp     Code = "unknown_op"
	CodeUnknownIcon   Code = "unknown_icon"
	CodeTimeout       Code = "timeout"
	CodeError         Code = "error"
)

// CodedError wraps a cause with a Code
type CodedError struct {
	C   Code
	Msg string
	Err error
}

func (e *CodedError) Error() string {
	if e.Msg != "" {
		return string(e.C) + ": " + e.Msg
	}
	return string(e.C)
}

func (e *CodedError) Unwrap() error { return e.Err }
func (e *CodedError) Code() Code    { return e.C }

// Errorf builds a CodedError
func Errorf(c Code, msg string, err error) error {
	return &CodedError{C: c, Msg: msg, Err: err}
}

// CodeOf extracts a Code from an error, defaulting to CodeError
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	var coder interface{ Code() Code }
	if errors.As(err, &coder) {
		return coder.Code()
	}
	return CodeError
}

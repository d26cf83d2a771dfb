package api

import (
	"errors"
	"fmt"
)

// Request errors
var (
	// ErrTransport indicates that the server could not be reached or answered with a non-2xx status
	ErrTransport = errors.New("transport failure")

	// ErrDecode indicates that a response body could not be decoded
	ErrDecode = errors.New("decode failure")

	// ErrResponseTooLarge indicates a response body above the client limit
	ErrResponseTooLarge = errors.New("response body too large")
)

// RequestError describes a failed request to the metadata server.
// It wraps ErrTransport or ErrDecode, and the underlying cause.
type RequestError struct {
	Kind       error  // ErrTransport или ErrDecode
	Err        error  // исходная причина
	Path       string // запрошенный путь относительно base URL
	Message    string // сообщение сервера из тела ответа с ошибкой
	StatusCode int    // 0, если ответа не было
}

func (e *RequestError) Error() string {
	msg := fmt.Sprintf("%v on %s", e.Kind, e.Path)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns both the kind and the cause for errors.Is / errors.As
func (e *RequestError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func transportError(path string, status int, message string, err error) error {
	return &RequestError{Kind: ErrTransport, Path: path, StatusCode: status, Message: message, Err: err}
}

// DecodeError wraps a decoding failure of the response from path
func DecodeError(path string, err error) error {
	return &RequestError{Kind: ErrDecode, Path: path, Err: err}
}

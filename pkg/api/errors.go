package api

// ErrorResponse представляет ответ сервера с ошибкой: {"errors":[{"msg":"..."}]}
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

// ErrorMessage одно сообщение об ошибке
type ErrorMessage struct {
	Msg string `json:"msg"`
}

// Message returns the first error message, or "" if none
func (e ErrorResponse) Message() string {
	if len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Msg
}

// NewErrorResponse creates an error response with a single message
func NewErrorResponse(msg string) ErrorResponse {
	return ErrorResponse{Errors: []ErrorMessage{{Msg: msg}}}
}

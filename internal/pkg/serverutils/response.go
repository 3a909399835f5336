package serverutils

// BaseResponse is the envelope of every JSON response.
type BaseResponse[T any] struct {
	Code    int      `json:"code"`
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Data    T        `json:"data"`
	Errors  []string `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) BaseResponse[T] {
	return BaseResponse[T]{
		Code:    200,
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string, errs ...string) BaseResponse[any] {
	return BaseResponse[any]{
		Code:    code,
		Success: false,
		Message: message,
		Errors:  errs,
	}
}

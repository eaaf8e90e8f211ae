// internal/models/response.go
package models

// Response is the public envelope shared by the REST API and the build-response worker.
type Response struct {
	Success bool        `json:"success"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

// DataResponse wraps data in a success envelope. count is optional.
func DataResponse(data interface{}, count *int) Response {
	return Response{Success: true, Count: count, Data: data}
}

// ListResponse wraps a list, always reporting its length.
func ListResponse(data interface{}, n int) Response {
	return Response{Success: true, Count: &n, Data: data}
}

func ErrorResponse(code, message, requestID string) Response {
	return Response{Success: false, Error: &ErrorBody{Code: code, Message: message, RequestID: requestID}}
}

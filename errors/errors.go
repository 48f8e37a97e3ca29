package errors

import (
	"encoding/json"
	"net/http"
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e APIError) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrBadRequest       = APIError{Code: "BAD_REQUEST", Message: "无效的请求"}
	ErrInvalidJSON      = APIError{Code: "INVALID_JSON", Message: "无效的 JSON 请求体"}
	ErrUnauthorized     = APIError{Code: "UNAUTHORIZED", Message: "用户名或密码错误"}
	ErrMethodNotAllowed = APIError{Code: "METHOD_NOT_ALLOWED", Message: "不支持的请求方法"}
	ErrInternal         = APIError{Code: "INTERNAL_ERROR", Message: "服务器内部错误"}
)

func WriteJSONError(w http.ResponseWriter, err APIError, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(err)
}

func WriteJSONErrorWithMsg(w http.ResponseWriter, err APIError, status int, msg string) {
	resp := err
	resp.Message = msg
	WriteJSONError(w, resp, status)
}

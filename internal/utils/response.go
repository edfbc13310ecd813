package utils

import (
	"encoding/json"
	"net/http"
	"time"

	"bearcat-ticketing/internal/apperr"
)

type APIResponse struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
	Detail    interface{} `json:"detail,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

func SuccessResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

func ErrorResponse(message, errMsg string) APIResponse {
	return APIResponse{
		Success:   false,
		Message:   message,
		Error:     errMsg,
		Timestamp: time.Now(),
	}
}

func WriteJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteError maps an error's kind to an HTTP status and renders the message
// verbatim; check-in rejections carry the existing check-in detail.
func WriteError(w http.ResponseWriter, err error) {
	resp := APIResponse{
		Success:   false,
		Message:   err.Error(),
		Error:     err.Error(),
		ErrorKind: string(apperr.KindOf(err)),
		Timestamp: time.Now(),
	}
	if detail := apperr.DetailOf(err); detail != nil {
		resp.Detail = detail
	}
	WriteJSON(w, apperr.HTTPStatus(err), resp)
}

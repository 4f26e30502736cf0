package dto

import (
	"net/http"
	"strings"
)

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Validation failures are 400, missing resources 404, duplicates and
// concurrency conflicts 409, business rule violations 422.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	"NOT_FOUND": http.StatusNotFound,

	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"NUMBER_ASSIGNED":      http.StatusConflict,

	"INVALID_STATE":             http.StatusUnprocessableEntity,
	"INVALID_STATUS_TRANSITION": http.StatusUnprocessableEntity,
	"DOCUMENT_LOCKED":           http.StatusUnprocessableEntity,
	"ESTIMATION_INVOICED":       http.StatusUnprocessableEntity,
	"LEAD_WON":                  http.StatusUnprocessableEntity,
	"INVOICE_PAID":              http.StatusUnprocessableEntity,
	"QUANTITY_EXCEEDED":         http.StatusUnprocessableEntity,
	"TOTAL_BELOW_PAID":          http.StatusUnprocessableEntity,
	"EMPTY_CHALLAN":             http.StatusUnprocessableEntity,
	"EMPTY_ESTIMATION":          http.StatusUnprocessableEntity,
	"REASON_REQUIRED":           http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code.
// Codes prefixed INVALID_ are input validation failures unless mapped
// explicitly; anything unknown is an internal error.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

package response

import "net/http"

// DefaultMsg is the message used when a handler fails without saying why.
var DefaultMsg = map[int]string{
	http.StatusBadRequest:            "bad request",
	http.StatusUnauthorized:          "unauthorized",
	http.StatusForbidden:             "forbidden",
	http.StatusNotFound:              "not found",
	http.StatusConflict:              "conflict",
	http.StatusRequestEntityTooLarge: "request body too large",
	http.StatusTooManyRequests:       "too many requests",
	http.StatusInternalServerError:   "internal server error",
	http.StatusServiceUnavailable:    "server busy",
	http.StatusGatewayTimeout:        "timeout",
}

// Msg returns custom when set, otherwise the default message for status.
func Msg(status int, custom string) string {
	if custom != "" {
		return custom
	}
	if m, ok := DefaultMsg[status]; ok {
		return m
	}
	return http.StatusText(status)
}

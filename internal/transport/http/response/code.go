package response

import "net/http"

// fallback messages when a caller passes none
var statusMsg = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusNotFound:              "Not Found",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   "Internal Server Error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Timeout",
}

func StatusText(status int) string {
	if m, ok := statusMsg[status]; ok {
		return m
	}
	return http.StatusText(status)
}

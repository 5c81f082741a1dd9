package httputil

import (
	"net/http"
	"strconv"
)

// PathInt reads an integer path value; ok is false when it is missing or malformed
func PathInt(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, false
	}
	return n, true
}

// QueryInt reads an integer query parameter, falling back to def
func QueryInt(r *http.Request, name string, def int) int {
	if n, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return n
	}
	return def
}

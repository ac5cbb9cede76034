package httputil

import (
	"encoding/json"
	"net/http"
)

const (
	MaxBodySize = 1 << 20 // 1MB
)

func ReadJsonBody(r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	d := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBodySize))

	return d.Decode(dst)
}

// ReadFormBody parses a urlencoded body and returns only the posted values,
// leaving URL query values out.
func ReadFormBody(r *http.Request) (map[string][]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodySize)
	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

package httputil

import (
	"encoding/json"
	"net/http"

	"landing/pkg/errutil"

	"github.com/rs/zerolog/log"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ReturnServerResponse writes res as JSON when resErr is nil, otherwise an
// ErrorResponse with the status code carried by resErr.
func ReturnServerResponse(w http.ResponseWriter, res interface{}, resErr error) {
	code, errMsg := errutil.ParseHttpError(resErr)

	var body interface{} = res
	if resErr != nil {
		body = &ErrorResponse{Error: errMsg}
	}

	js, err := json.Marshal(body)
	if err != nil {
		log.Error().Msgf("marshal server response failed, err: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if _, err := w.Write(js); err != nil {
		log.Error().Msgf("fail to return server response, err: %v", err)
	}
}

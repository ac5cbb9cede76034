package errutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseHttpError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{"nil", nil, http.StatusOK, ""},
		{"bad request", BadRequestError(errors.New("Email is required")), http.StatusBadRequest, "Email is required"},
		{"internal hides cause", InternalError("Server configuration error", errors.New("MAILCHIMP_API_KEY not set")), http.StatusInternalServerError, "Server configuration error"},
		{"upstream", UpstreamError(http.StatusTooManyRequests, "slow down"), http.StatusTooManyRequests, "slow down"},
		{"wrapped", fmt.Errorf("subscribe: %w", NotFoundError(errors.New("no such list"))), http.StatusNotFound, "no such list"},
		{"untyped", errors.New("dial tcp: refused"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, msg := ParseHttpError(tc.err)
			assert.Equal(t, tc.wantCode, code)
			assert.Equal(t, tc.wantMsg, msg)
		})
	}
}

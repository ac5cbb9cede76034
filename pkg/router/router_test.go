package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"landing/pkg/errutil"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

type echoRequest struct {
	Name  *string  `json:"name,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Debug *string  `json:"debug,omitempty"`
}

type echoResponse struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	Next string   `json:"-"`
}

func (r *echoResponse) RedirectURL() string {
	return r.Next
}

func newTestRouter() http.Handler {
	root := mux.NewRouter()
	r := NewHttpRouter(root)

	r.RegisterHttpRoute(&HttpRoute{
		Method: http.MethodPost,
		Path:   "/echo",
		Handler: Handler{
			Req: new(echoRequest),
			Res: new(echoResponse),
			HandleFunc: func(_ context.Context, req, res interface{}) error {
				in, out := req.(*echoRequest), res.(*echoResponse)
				if in.Name == nil {
					return errutil.BadRequestError(errors.New("name is required"))
				}
				out.Name = *in.Name
				out.Tags = in.Tags
				if in.Debug != nil {
					out.Next = "/done?name=" + *in.Name
				}
				return nil
			},
		},
		Middlewares: []Middleware{StaticHeaders(map[string]string{"X-Test": "1"})},
	})

	r.RegisterHttpRoute(&HttpRoute{
		Method: http.MethodOptions,
		Path:   "/echo",
		Raw: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	})

	return root
}

func do(h http.Handler, method, target, contentType, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestJSONBody(t *testing.T) {
	w := do(newTestRouter(), http.MethodPost, "/api/echo", "application/json; charset=utf-8", `{"name":"ann","tags":["A","B"]}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Test"))
	assert.JSONEq(t, `{"name":"ann","tags":["A","B"]}`, w.Body.String())
}

func TestQueryParams(t *testing.T) {
	w := do(newTestRouter(), http.MethodPost, "/api/echo?name=bob&unknown=1", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"bob","tags":null}`, w.Body.String())
}

func TestFormBodyWithRedirect(t *testing.T) {
	w := do(newTestRouter(), http.MethodPost, "/api/echo", "application/x-www-form-urlencoded", "name=cy&debug=1&tags=A&tags=B")

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/done?name=cy", w.Header().Get("Location"))
}

func TestErrors(t *testing.T) {
	h := newTestRouter()

	w := do(h, http.MethodPost, "/api/echo", "application/json", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"name is required"}`, w.Body.String())

	w = do(h, http.MethodPost, "/api/echo", "application/json", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(h, http.MethodPost, "/api/echo", "text/plain", `name=x`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"unsupported content type"}`, w.Body.String())
}

func TestRawRoute(t *testing.T) {
	w := do(newTestRouter(), http.MethodOptions, "/api/echo", "", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestUnknownRoute(t *testing.T) {
	w := do(newTestRouter(), http.MethodPost, "/echo", "application/json", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

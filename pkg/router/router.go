package router

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"landing/pkg/errutil"
	"landing/pkg/httputil"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/rs/zerolog/log"
)

const apiBasePath = "/api"

// to decode url params and form posts
var decoder = schema.NewDecoder()

func init() {
	decoder.SetAliasTag("json")
	decoder.IgnoreUnknownKeys(true)
}

var (
	ErrUnsupportedContentType = errors.New("unsupported content type")
	ErrCannotDecodeUrlParams  = errors.New("cannot decode url params")
	ErrCannotDecodeForm       = errors.New("cannot decode form")
)

type Middleware interface {
	Handle(http.Handler) http.Handler
}

// RequestInfo is implemented by requests that need details of the HTTP
// request beyond its decoded params and body.
type RequestInfo interface {
	SetRequestInfo(r *http.Request)
}

// Redirect is implemented by responses that answer with a redirect instead
// of a JSON body.
type Redirect interface {
	RedirectURL() string
}

type Handler struct {
	Req        interface{}
	Res        interface{}
	HandleFunc func(ctx context.Context, req interface{}, res interface{}) error

	reqT  reflect.Type
	respT reflect.Type
}

type HttpRoute struct {
	Method  string
	Path    string
	Handler Handler
	// Raw, when set, serves the route instead of Handler.
	Raw         http.Handler
	Middlewares []Middleware
}

type HttpRouter struct {
	*mux.Router
}

// NewHttpRouter mounts the api routes under their base path of root.
func NewHttpRouter(root *mux.Router, mwf ...mux.MiddlewareFunc) *HttpRouter {
	api := root.PathPrefix(apiBasePath).Subrouter()
	api.Use(mwf...)
	return &HttpRouter{
		Router: api,
	}
}

func (r *HttpRouter) RegisterHttpRoute(hr *HttpRoute) {
	var chain http.Handler
	if hr.Raw != nil {
		chain = hr.Raw
	} else {
		// save req and res type
		hr.Handler.reqT = reflect.TypeOf(hr.Handler.Req).Elem()
		hr.Handler.respT = reflect.TypeOf(hr.Handler.Res).Elem()
		chain = hr.Handler
	}

	if hr.Middlewares != nil {
		// wrap middlewares from right to left
		for i := len(hr.Middlewares) - 1; i >= 0; i-- {
			chain = hr.Middlewares[i].Handle(chain)
		}
	}

	r.Methods(hr.Method).Path(hr.Path).Handler(chain)
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req := reflect.New(h.reqT).Interface()
	res := reflect.New(h.respT).Interface()

	if err := decoder.Decode(req, r.URL.Query()); err != nil {
		log.Ctx(ctx).Error().Msgf("decode url query params error: %v", err)
		httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(ErrCannotDecodeUrlParams))
		return
	}

	if r.Body != nil && r.Body != http.NoBody {
		if hasContentType(r, "application/json") {
			if err := httputil.ReadJsonBody(r, req); err != nil {
				log.Ctx(ctx).Error().Msgf("read json body error: %v", err)
				httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(err))
				return
			}
		} else if hasContentType(r, "application/x-www-form-urlencoded") {
			values, err := httputil.ReadFormBody(r)
			if err != nil {
				log.Ctx(ctx).Error().Msgf("read form body error: %v", err)
				httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(ErrCannotDecodeForm))
				return
			}
			if err := decoder.Decode(req, values); err != nil {
				log.Ctx(ctx).Error().Msgf("decode form error: %v", err)
				httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(ErrCannotDecodeForm))
				return
			}
		} else {
			httputil.ReturnServerResponse(w, nil, errutil.BadRequestError(ErrUnsupportedContentType))
			return
		}
	}

	if ri, ok := req.(RequestInfo); ok {
		ri.SetRequestInfo(r)
	}

	err := h.HandleFunc(ctx, req, res)

	if redirect, ok := res.(Redirect); ok && err == nil {
		if target := redirect.RedirectURL(); target != "" {
			http.Redirect(w, r, target, http.StatusSeeOther)
			return
		}
	}

	httputil.ReturnServerResponse(w, res, err)
}

type staticHeaders map[string]string

// StaticHeaders sets fixed headers on every response of a route.
func StaticHeaders(headers map[string]string) Middleware {
	return staticHeaders(headers)
}

func (m staticHeaders) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range m {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

func hasContentType(r *http.Request, mimetype string) bool {
	contentType := r.Header.Get("Content-type")
	if contentType == "" {
		return mimetype == "application/octet-stream"
	}

	for _, v := range strings.Split(contentType, ",") {
		t, _, err := mime.ParseMediaType(v)
		if err != nil {
			break
		}
		if t == mimetype {
			return true
		}
	}
	return false
}

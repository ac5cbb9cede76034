package dep

import (
	"context"
	"errors"
	"net/http"
	"net/http/httputil"
	"net/url"
	"path"
	"strings"

	"landing/config"
	"landing/pkg/errutil"
	libhttputil "landing/pkg/httputil"

	"github.com/rs/zerolog/log"
)

const htmlExt = ".html"

var ErrPageNotFound = errors.New("page not found")

// NewOrigin returns the handler serving the landing pages themselves.
// A local directory wins over an upstream URL.
func NewOrigin(ctx context.Context, cfg config.Origin) (http.Handler, error) {
	if cfg.Dir != "" {
		log.Ctx(ctx).Info().Msgf("serving pages from dir: %s", cfg.Dir)
		return newPageDir(http.Dir(cfg.Dir)), nil
	}

	if cfg.URL != "" {
		target, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, err
		}
		log.Ctx(ctx).Info().Msgf("proxying pages to: %s", target)
		return newOriginProxy(target), nil
	}

	log.Ctx(ctx).Warn().Msg("no origin configured, pages will 404")
	return http.HandlerFunc(pageNotFound), nil
}

func pageNotFound(w http.ResponseWriter, _ *http.Request) {
	libhttputil.ReturnServerResponse(w, nil, errutil.NotFoundError(ErrPageNotFound))
}

// pageDir serves files from root. Extensionless paths that match nothing
// are served from "<path>.html", so /campaign finds campaign.html.
type pageDir struct {
	root  http.FileSystem
	files http.Handler
}

func newPageDir(root http.FileSystem) *pageDir {
	return &pageDir{
		root:  root,
		files: http.FileServer(root),
	}
}

func (d *pageDir) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if p := r.URL.Path; d.wantsHTMLFallback(p) {
		r = r.Clone(r.Context())
		r.URL.Path = p + htmlExt
		r.URL.RawPath = ""
	}
	d.files.ServeHTTP(w, r)
}

func (d *pageDir) wantsHTMLFallback(p string) bool {
	if p == "" || strings.HasSuffix(p, "/") || path.Ext(p) != "" {
		return false
	}

	if f, err := d.root.Open(p); err == nil {
		_ = f.Close()
		return false
	}

	f, err := d.root.Open(p + htmlExt)
	if err != nil {
		return false
	}
	defer func() {
		_ = f.Close()
	}()

	st, err := f.Stat()
	return err == nil && !st.IsDir()
}

func newOriginProxy(target *url.URL) *httputil.ReverseProxy {
	proxy := httputil.NewSingleHostReverseProxy(target)

	director := proxy.Director
	proxy.Director = func(r *http.Request) {
		director(r)
		// bodies must arrive uncompressed to be rewritable
		r.Header.Set("Accept-Encoding", "identity")
		r.Host = target.Host
	}

	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Ctx(r.Context()).Error().Msgf("origin request failed, path: %s, err: %v", r.URL.Path, err)
		w.WriteHeader(http.StatusBadGateway)
	}

	return proxy
}

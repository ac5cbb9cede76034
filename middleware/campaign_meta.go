package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"landing/config"
	"landing/entity"
	"landing/pkg/goutil"
	"landing/pkg/htmlutil"

	"github.com/rs/zerolog/log"
)

const (
	attrProperty = "property"
	attrName     = "name"
)

// CampaignMeta rewrites the social preview tags of campaign pages so shared
// links show the campaign's own title, description and image.
type CampaignMeta struct {
	pages     config.Pages
	suffixes  []string
	campaigns *entity.CampaignTable
}

func NewCampaignMeta(pages config.Pages, campaigns *entity.CampaignTable) *CampaignMeta {
	return &CampaignMeta{
		pages:     pages,
		suffixes:  pages.PageSuffixes(),
		campaigns: campaigns,
	}
}

func (m *CampaignMeta) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cid := m.campaignID(r)
		if cid == "" {
			next.ServeHTTP(w, r)
			return
		}

		var (
			ctx      = r.Context()
			headOnly = r.Method == http.MethodHead
		)

		buf := newResponseBuffer()
		next.ServeHTTP(buf, wholePageRequest(r))

		if !isRewritable(buf) {
			body := buf.body.Bytes()
			if headOnly {
				body = nil
			}
			if err := buf.replay(w, body); err != nil {
				log.Ctx(ctx).Warn().Msgf("write origin response failed, err: %v", err)
			}
			return
		}

		if !m.campaigns.Has(cid) {
			log.Ctx(ctx).Debug().Msgf("unknown campaign, using default meta, cid: %s", cid)
		}

		body := htmlutil.ReplaceFirst(buf.body.Bytes(), m.Elements(m.campaigns.Lookup(cid)))
		if err := buf.replayRewritten(w, body, headOnly); err != nil {
			log.Ctx(ctx).Warn().Msgf("write rewritten response failed, err: %v", err)
		}
	})
}

// Elements lists the head elements rewritten for campaign, in replacement
// order.
func (m *CampaignMeta) Elements(campaign *entity.Campaign) []htmlutil.Element {
	var (
		title       = htmlutil.EscapeString(campaign.GetTitle()) + " | " + htmlutil.EscapeString(m.pages.TitleSuffix)
		description = htmlutil.EscapeString(campaign.GetDescription())
		imageURL    = htmlutil.EscapeString(m.ImageURL(campaign.ID))
		pageURL     = htmlutil.EscapeString(m.PageURL(campaign.ID))
	)

	return []htmlutil.Element{
		htmlutil.Meta(attrProperty, "og:title", title),
		htmlutil.Meta(attrProperty, "og:description", description),
		htmlutil.Meta(attrProperty, "og:image", imageURL),
		htmlutil.Meta(attrProperty, "og:url", pageURL),
		htmlutil.Meta(attrName, "twitter:title", title),
		htmlutil.Meta(attrName, "twitter:description", description),
		htmlutil.Meta(attrName, "twitter:image", imageURL),
		htmlutil.Meta(attrName, "twitter:url", pageURL),
		htmlutil.Title(title),
	}
}

func (m *CampaignMeta) ImageURL(cid string) string {
	return m.pages.BaseURL + m.pages.ImagePath + "/" + url.PathEscape(cid) + m.pages.ImageExt + "?v=" + url.QueryEscape(m.pages.ImageVersion)
}

func (m *CampaignMeta) PageURL(cid string) string {
	return m.pages.BaseURL + m.pages.PagePath + "?" + m.pages.CampaignParam + "=" + url.QueryEscape(cid)
}

func (m *CampaignMeta) campaignID(r *http.Request) string {
	if !goutil.HasAnySuffix(r.URL.Path, m.suffixes...) {
		return ""
	}
	return r.URL.Query().Get(m.pages.CampaignParam)
}

// wholePageRequest asks the origin for the complete page. Byte ranges of
// the origin page mean nothing once the page is rewritten, and HEAD must
// report the rewritten length.
func wholePageRequest(r *http.Request) *http.Request {
	r = r.Clone(r.Context())
	r.Header.Del("Range")
	r.Header.Del("If-Range")
	if r.Method == http.MethodHead {
		r.Method = http.MethodGet
	}
	return r
}

func isRewritable(buf *responseBuffer) bool {
	if buf.body.Len() == 0 {
		return false
	}

	if buf.status == http.StatusPartialContent || buf.header.Get("Content-Range") != "" {
		return false
	}

	if enc := buf.header.Get("Content-Encoding"); enc != "" && !strings.EqualFold(enc, "identity") {
		return false
	}

	return strings.Contains(strings.ToLower(buf.header.Get("Content-Type")), "text/html")
}

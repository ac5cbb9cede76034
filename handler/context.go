package handler

import "net/http"

// RequestInfo carries details of the underlying HTTP request that are not
// part of the decoded body. The router fills it after decoding.
type RequestInfo struct {
	Referer string `json:"-"`
}

func (c *RequestInfo) SetRequestInfo(r *http.Request) {
	c.Referer = r.Referer()
}

func (c *RequestInfo) GetReferer() string {
	if c != nil {
		return c.Referer
	}
	return ""
}

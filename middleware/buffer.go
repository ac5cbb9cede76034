package middleware

import (
	"bytes"
	"net/http"
	"strconv"
)

// responseBuffer holds a complete response in memory so it can be inspected
// and rewritten before reaching the client.
type responseBuffer struct {
	header      http.Header
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{
		header: make(http.Header),
		status: http.StatusOK,
	}
}

func (b *responseBuffer) Header() http.Header {
	return b.header
}

func (b *responseBuffer) WriteHeader(status int) {
	if b.wroteHeader {
		return
	}
	b.status = status
	b.wroteHeader = true
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

// replay sends the buffered status and headers with body to w.
func (b *responseBuffer) replay(w http.ResponseWriter, body []byte) error {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	w.WriteHeader(b.status)
	_, err := w.Write(body)
	return err
}

// replayRewritten sends body in place of the buffered one. With headOnly
// only the headers go out, still announcing the length of body.
func (b *responseBuffer) replayRewritten(w http.ResponseWriter, body []byte, headOnly bool) error {
	b.header.Set("Content-Length", strconv.Itoa(len(body)))
	if headOnly {
		body = nil
	}
	return b.replay(w, body)
}

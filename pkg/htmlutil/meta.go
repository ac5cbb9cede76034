package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

const (
	TagMeta  = "meta"
	TagTitle = "title"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeString escapes the five HTML-sensitive characters. Unlike
// html.EscapeString it uses named quotes and the three-digit apostrophe.
func EscapeString(s string) string {
	return escaper.Replace(s)
}

// Element is a head element identified by its tag name and, for meta tags,
// one identifying attribute such as property="og:title".
// Content must already be escaped.
type Element struct {
	Tag     string
	Attr    string
	Value   string
	Content string
}

func Meta(attr, value, content string) Element {
	return Element{
		Tag:     TagMeta,
		Attr:    attr,
		Value:   value,
		Content: content,
	}
}

func Title(content string) Element {
	return Element{
		Tag:     TagTitle,
		Content: content,
	}
}

func (e Element) String() string {
	if e.Tag == TagTitle {
		return "<title>" + e.Content + "</title>"
	}
	return "<" + e.Tag + " " + e.Attr + `="` + e.Value + `" content="` + e.Content + `">`
}

// ReplaceFirst replaces the first occurrence of each element in doc with a
// freshly built one. Elements missing from doc are skipped. All other bytes
// of doc are kept as they are.
func ReplaceFirst(doc []byte, elements []Element) []byte {
	var (
		z       = html.NewTokenizer(bytes.NewReader(doc))
		out     = bytes.NewBuffer(make([]byte, 0, len(doc)+512))
		done    = make([]bool, len(elements))
		pending []byte // an open <title> waiting for its end tag
		titleAt = -1
	)

	for {
		tt := z.Next()
		raw := z.Raw()

		if tt == html.ErrorToken {
			// unterminated title: leave it untouched
			out.Write(pending)
			out.Write(raw)
			break
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken && tt != html.EndTagToken {
			if pending != nil {
				pending = append(pending, raw...)
			} else {
				out.Write(raw)
			}
			continue
		}

		// TagName and TagAttr lower-case the tokenizer buffer in place
		raw = bytes.Clone(raw)
		name, hasAttr := z.TagName()

		if pending != nil {
			pending = append(pending, raw...)
			if tt == html.EndTagToken && string(name) == TagTitle {
				out.WriteString(elements[titleAt].String())
				done[titleAt] = true
				pending = nil
			}
			continue
		}

		i := -1
		switch {
		case tt == html.EndTagToken:
		case string(name) == TagMeta && hasAttr:
			i = matchMeta(z, elements, done)
		case string(name) == TagTitle && tt == html.StartTagToken:
			i = indexOf(elements, done, TagTitle)
			if i >= 0 {
				titleAt = i
				pending = raw
				continue
			}
		}

		if i >= 0 {
			out.WriteString(elements[i].String())
			done[i] = true
			continue
		}

		out.Write(raw)
	}

	return out.Bytes()
}

func matchMeta(z *html.Tokenizer, elements []Element, done []bool) int {
	for more := true; more; {
		var key, val []byte
		key, val, more = z.TagAttr()
		for i, e := range elements {
			if done[i] || e.Tag != TagMeta {
				continue
			}
			if e.Attr == string(key) && e.Value == string(val) {
				return i
			}
		}
	}
	return -1
}

func indexOf(elements []Element, done []bool, tag string) int {
	for i, e := range elements {
		if !done[i] && e.Tag == tag {
			return i
		}
	}
	return -1
}

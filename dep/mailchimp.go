package dep

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"landing/config"
	"landing/entity"
)

const tagStatusActive = "active"

var ErrMissingAPIKey = errors.New("mailchimp api key is not set")

// APIError is a non-2xx answer from the Mailchimp API.
type APIError struct {
	StatusCode int    `json:"-"`
	Type       string `json:"type,omitempty"`
	Title      string `json:"title,omitempty"`
	Status     int    `json:"status,omitempty"`
	Detail     string `json:"detail,omitempty"`
	Instance   string `json:"instance,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("mailchimp error: status: %d, title: %s, detail: %s", e.StatusCode, e.Title, e.Detail)
}

type MailingList interface {
	// UpsertMember creates the member keyed by its subscriber hash, or
	// overwrites it when it already exists.
	UpsertMember(ctx context.Context, member *entity.Member) (*MemberInfo, error)
	AddMemberTags(ctx context.Context, member *entity.Member) error
	Close(ctx context.Context) error
}

type MemberInfo struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Status       string `json:"status"`
}

type upsertMemberBody struct {
	EmailAddress string            `json:"email_address"`
	StatusIfNew  string            `json:"status_if_new"`
	MergeFields  map[string]string `json:"merge_fields"`
	Tags         []string          `json:"tags"`
}

type memberTag struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

type memberTagsBody struct {
	Tags []memberTag `json:"tags"`
}

type mailchimp struct {
	apiKey string
	apiURL string
	client *http.Client
}

func NewMailingList(_ context.Context, cfg config.Mailchimp) MailingList {
	return NewMailingListWithClient(cfg, http.DefaultClient)
}

func NewMailingListWithClient(cfg config.Mailchimp, client *http.Client) MailingList {
	return &mailchimp{
		apiKey: cfg.APIKey,
		apiURL: cfg.APIURL,
		client: client,
	}
}

func (s *mailchimp) UpsertMember(ctx context.Context, member *entity.Member) (*MemberInfo, error) {
	if s.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	mergeFields := member.MergeFields
	if mergeFields == nil {
		mergeFields = map[string]string{}
	}

	tags := member.Tags
	if tags == nil {
		tags = []string{}
	}

	body := &upsertMemberBody{
		EmailAddress: member.EmailAddress,
		StatusIfNew:  string(member.Status),
		MergeFields:  mergeFields,
		Tags:         tags,
	}

	info := new(MemberInfo)
	if err := s.doHttpRequest(ctx, http.MethodPut, s.memberURL(member), body, info); err != nil {
		return nil, err
	}

	return info, nil
}

// AddMemberTags activates the member's tags. The upsert call only applies
// tags to new members, so existing members need this second call.
func (s *mailchimp) AddMemberTags(ctx context.Context, member *entity.Member) error {
	if s.apiKey == "" {
		return ErrMissingAPIKey
	}

	body := &memberTagsBody{
		Tags: make([]memberTag, 0, len(member.Tags)),
	}
	for _, tag := range member.Tags {
		body.Tags = append(body.Tags, memberTag{
			Name:   tag,
			Status: tagStatusActive,
		})
	}

	return s.doHttpRequest(ctx, http.MethodPost, s.memberURL(member)+"/tags", body, nil)
}

func (s *mailchimp) Close(_ context.Context) error {
	return nil
}

func (s *mailchimp) memberURL(member *entity.Member) string {
	base := strings.ReplaceAll(s.apiURL, "{dc}", member.Datacenter)
	return fmt.Sprintf("%s/lists/%s/members/%s", base, url.PathEscape(member.ListID), member.SubscriberHash())
}

func (s *mailchimp) doHttpRequest(ctx context.Context, method, endpoint string, body, dst interface{}) error {
	js, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(js))
	if err != nil {
		return err
	}

	req.Header.Add("accept", "application/json")
	req.Header.Add("content-type", "application/json")
	req.Header.Add("authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("anystring:"+s.apiKey)))

	res, err := s.client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = res.Body.Close()
	}()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		apiErr := &APIError{StatusCode: res.StatusCode}
		// error bodies are problem+json, but keep the status even if not
		_ = json.Unmarshal(b, apiErr)
		return apiErr
	}

	if dst == nil || len(b) == 0 {
		return nil
	}

	return json.Unmarshal(b, dst)
}

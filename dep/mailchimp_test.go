package dep

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"landing/config"
	"landing/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]interface{}
}

type requestLog struct {
	mu   sync.Mutex
	reqs []recordedRequest
}

func (l *requestLog) all() []recordedRequest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]recordedRequest(nil), l.reqs...)
}

func newMailchimpServer(t *testing.T, handle func(w http.ResponseWriter, r *http.Request)) (*httptest.Server, *requestLog) {
	t.Helper()

	reqs := new(requestLog)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		rec := recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Auth:   r.Header.Get("Authorization"),
		}
		_ = json.Unmarshal(b, &rec.Body)
		reqs.mu.Lock()
		reqs.reqs = append(reqs.reqs, rec)
		reqs.mu.Unlock()
		handle(w, r)
	}))
	t.Cleanup(srv.Close)

	return srv, reqs
}

func newMember() *entity.Member {
	return &entity.Member{
		EmailAddress: "Ann@Example.com",
		Status:       entity.MemberStatusSubscribed,
		MergeFields:  map[string]string{"FNAME": "Ann"},
		Tags:         []string{"CAMPAIGN"},
		ListID:       "fb546f9c74",
		Datacenter:   "us9",
	}
}

func TestUpsertMember(t *testing.T) {
	srv, reqs := newMailchimpServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"member-1","email_address":"ann@example.com","status":"subscribed"}`))
	})

	ml := NewMailingListWithClient(config.Mailchimp{APIKey: "secret-us9", APIURL: srv.URL + "/{dc}/3.0"}, srv.Client())
	member := newMember()

	info, err := ml.UpsertMember(context.Background(), member)
	require.NoError(t, err)
	assert.Equal(t, "member-1", info.ID)

	require.Len(t, reqs.all(), 1)
	req := reqs.all()[0]
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, "/us9/3.0/lists/fb546f9c74/members/"+member.SubscriberHash(), req.Path)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("anystring:secret-us9")), req.Auth)
	assert.Equal(t, "Ann@Example.com", req.Body["email_address"])
	assert.Equal(t, "subscribed", req.Body["status_if_new"])
	assert.Equal(t, map[string]interface{}{"FNAME": "Ann"}, req.Body["merge_fields"])
	assert.Equal(t, []interface{}{"CAMPAIGN"}, req.Body["tags"])
}

func TestUpsertMemberSendsEmptyCollections(t *testing.T) {
	srv, reqs := newMailchimpServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"member-1"}`))
	})

	ml := NewMailingListWithClient(config.Mailchimp{APIKey: "k", APIURL: srv.URL}, srv.Client())
	_, err := ml.UpsertMember(context.Background(), &entity.Member{EmailAddress: "a@b.co", Status: entity.MemberStatusPending, ListID: "l1"})
	require.NoError(t, err)

	body := reqs.all()[0].Body
	assert.Equal(t, map[string]interface{}{}, body["merge_fields"])
	assert.Equal(t, []interface{}{}, body["tags"])
}

func TestUpsertMemberAPIError(t *testing.T) {
	srv, _ := newMailchimpServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"title":"Invalid Resource","status":400,"detail":"ann@example is not a valid email"}`))
	})

	ml := NewMailingListWithClient(config.Mailchimp{APIKey: "k", APIURL: srv.URL}, srv.Client())
	_, err := ml.UpsertMember(context.Background(), newMember())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "ann@example is not a valid email", apiErr.Detail)
}

func TestUpsertMemberNonJSONError(t *testing.T) {
	srv, _ := newMailchimpServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})

	ml := NewMailingListWithClient(config.Mailchimp{APIKey: "k", APIURL: srv.URL}, srv.Client())
	_, err := ml.UpsertMember(context.Background(), newMember())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Detail)
}

func TestMissingAPIKeyMakesNoCall(t *testing.T) {
	srv, reqs := newMailchimpServer(t, func(w http.ResponseWriter, _ *http.Request) {})

	ml := NewMailingListWithClient(config.Mailchimp{APIURL: srv.URL}, srv.Client())

	_, err := ml.UpsertMember(context.Background(), newMember())
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.ErrorIs(t, ml.AddMemberTags(context.Background(), newMember()), ErrMissingAPIKey)
	assert.Empty(t, reqs.all())
}

func TestAddMemberTags(t *testing.T) {
	srv, reqs := newMailchimpServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ml := NewMailingListWithClient(config.Mailchimp{APIKey: "k", APIURL: srv.URL}, srv.Client())
	member := newMember()
	member.Tags = []string{"A", "B"}

	require.NoError(t, ml.AddMemberTags(context.Background(), member))

	require.Len(t, reqs.all(), 1)
	req := reqs.all()[0]
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/lists/fb546f9c74/members/"+member.SubscriberHash()+"/tags", req.Path)
	assert.Equal(t, []interface{}{
		map[string]interface{}{"name": "A", "status": "active"},
		map[string]interface{}{"name": "B", "status": "active"},
	}, req.Body["tags"])
}

package handler

import (
	"context"
	"errors"
	"net/http"

	"landing/config"
	"landing/dep"
	"landing/entity"
	"landing/pkg/errutil"
	"landing/pkg/goutil"
	"landing/pkg/validator"

	"github.com/rs/zerolog/log"
)

const (
	msgServerConfigError   = "Server configuration error"
	msgSubscriptionFailed  = "Subscription failed"
	msgInternalServerError = "Internal server error"
)

// SubscribeCORSHeaders are returned on every subscribe response, preflight
// included.
var SubscribeCORSHeaders = map[string]string{
	"Access-Control-Allow-Origin": "*",
}

var subscribePreflightHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type",
}

type SubscriptionHandler interface {
	Subscribe(ctx context.Context, req *SubscribeRequest, res *SubscribeResponse) error
}

type subscriptionHandler struct {
	cfg         config.Mailchimp
	mailingList dep.MailingList
}

func NewSubscriptionHandler(cfg config.Mailchimp, mailingList dep.MailingList) SubscriptionHandler {
	return &subscriptionHandler{
		cfg:         cfg,
		mailingList: mailingList,
	}
}

type SubscribeRequest struct {
	EmailAddress *string           `json:"email_address,omitempty"`
	Status       *string           `json:"status,omitempty"`
	MergeFields  map[string]string `json:"merge_fields,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	AudienceID   *string           `json:"audienceId,omitempty"`
	Datacenter   *string           `json:"datacenter,omitempty"`
}

func (r *SubscribeRequest) GetEmailAddress() string {
	if r != nil && r.EmailAddress != nil {
		return *r.EmailAddress
	}
	return ""
}

func (r *SubscribeRequest) ToMember(cfg config.Mailchimp) *entity.Member {
	return &entity.Member{
		EmailAddress: r.GetEmailAddress(),
		Status:       entity.MemberStatus(goutil.StringOr(r.Status, string(entity.MemberStatusSubscribed))),
		MergeFields:  r.MergeFields,
		Tags:         r.Tags,
		ListID:       goutil.StringOr(r.AudienceID, cfg.ListID),
		Datacenter:   goutil.StringOr(r.Datacenter, cfg.Datacenter),
	}
}

type SubscribeResponse struct {
	Success *bool   `json:"success,omitempty"`
	ID      *string `json:"id,omitempty"`
}

func (r *SubscribeResponse) GetID() string {
	if r != nil && r.ID != nil {
		return *r.ID
	}
	return ""
}

var SubscribeValidator = validator.MustForm(map[string]validator.Validator{
	"status":     MemberStatusValidator(),
	"tags":       TagsValidator(),
	"audienceId": ListIDValidator(),
	"datacenter": DatacenterValidator(),
})

func (h *subscriptionHandler) Subscribe(ctx context.Context, req *SubscribeRequest, res *SubscribeResponse) error {
	if req.GetEmailAddress() == "" {
		return errutil.BadRequestError(ErrEmailRequired)
	}

	if err := SubscribeValidator.Validate(req); err != nil {
		return errutil.ValidationError(err)
	}

	// clients navigate away right after posting, which must not abort the upsert
	ctx = context.WithoutCancel(ctx)

	member := req.ToMember(h.cfg)
	info, err := h.mailingList.UpsertMember(ctx, member)
	if err != nil {
		return h.upsertError(ctx, err)
	}

	// TODO: confirm with the list owners whether failed tag calls need a retry; they are only logged for now.
	if member.HasTags() {
		if err := h.mailingList.AddMemberTags(ctx, member); err != nil {
			log.Ctx(ctx).Error().Msgf("add member tags failed, subscriber hash: %s, tags: %v, err: %v",
				member.SubscriberHash(), member.Tags, err)
		}
	}

	res.Success = goutil.Bool(true)
	if info.ID != "" {
		res.ID = goutil.String(info.ID)
	}

	return nil
}

func (h *subscriptionHandler) upsertError(ctx context.Context, err error) error {
	if errors.Is(err, dep.ErrMissingAPIKey) {
		log.Ctx(ctx).Error().Msgf("%s environment variable not set", config.EnvMailchimpAPIKey)
		return errutil.InternalError(msgServerConfigError, err)
	}

	var apiErr *dep.APIError
	if errors.As(err, &apiErr) {
		log.Ctx(ctx).Error().Msgf("upsert member rejected: %v", apiErr)
		detail := apiErr.Detail
		if detail == "" {
			detail = msgSubscriptionFailed
		}
		return errutil.UpstreamError(apiErr.StatusCode, detail)
	}

	log.Ctx(ctx).Error().Msgf("upsert member failed: %v", err)
	return errutil.InternalError(msgInternalServerError, err)
}

// SubscribePreflight answers CORS preflight requests with fixed headers and
// no body.
func SubscribePreflight(w http.ResponseWriter, _ *http.Request) {
	for k, v := range subscribePreflightHeaders {
		w.Header().Set(k, v)
	}
	w.WriteHeader(http.StatusOK)
}

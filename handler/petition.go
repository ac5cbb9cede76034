package handler

import (
	"context"
	"net/url"
	"strings"

	"landing/config"
	"landing/entity"
	"landing/pkg/errutil"
	"landing/pkg/goutil"
	"landing/pkg/logutil"
	"landing/pkg/validator"

	"github.com/rs/zerolog/log"
)

const (
	mergeFieldFirstName = "FNAME"
	mergeFieldLastName  = "LNAME"
	mergeFieldPhone     = "PHONE"
	mergeFieldZip       = "ZIP"
)

type PetitionHandler interface {
	SubmitPetition(ctx context.Context, req *SubmitPetitionRequest, res *SubmitPetitionResponse) error
}

type petitionHandler struct {
	cfg                 config.Petition
	subscriptionHandler SubscriptionHandler
}

func NewPetitionHandler(cfg config.Petition, subscriptionHandler SubscriptionHandler) PetitionHandler {
	return &petitionHandler{
		cfg:                 cfg,
		subscriptionHandler: subscriptionHandler,
	}
}

type SubmitPetitionRequest struct {
	RequestInfo
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Zip      *string `json:"zip,omitempty"`
	Next     *string `json:"next,omitempty"`
	Campaign *string `json:"campaign,omitempty"`
	Page     *string `json:"page,omitempty"`
}

func (r *SubmitPetitionRequest) GetName() string {
	if r != nil && r.Name != nil {
		return strings.TrimSpace(*r.Name)
	}
	return ""
}

func (r *SubmitPetitionRequest) GetEmail() string {
	if r != nil && r.Email != nil {
		return strings.TrimSpace(*r.Email)
	}
	return ""
}

func (r *SubmitPetitionRequest) GetPhone() string {
	if r != nil && r.Phone != nil {
		return strings.TrimSpace(*r.Phone)
	}
	return ""
}

func (r *SubmitPetitionRequest) GetZip() string {
	if r != nil && r.Zip != nil {
		return strings.TrimSpace(*r.Zip)
	}
	return ""
}

func (r *SubmitPetitionRequest) GetNext() string {
	if r != nil && r.Next != nil {
		return *r.Next
	}
	return ""
}

func (r *SubmitPetitionRequest) GetCampaign() string {
	if r != nil && r.Campaign != nil {
		return strings.TrimSpace(*r.Campaign)
	}
	return ""
}

// PagePath is the path of the page the form was posted from, falling back
// to the Referer when the form does not say.
func (r *SubmitPetitionRequest) PagePath() string {
	page := goutil.StringOr(r.Page, r.GetReferer())
	if page == "" {
		return ""
	}

	u, err := url.Parse(page)
	if err != nil {
		return ""
	}
	return u.Path
}

func (r *SubmitPetitionRequest) ToSubscribeRequest(defaultCampaign string) *SubscribeRequest {
	mergeFields := make(map[string]string)

	name := r.GetName()
	if parts := strings.Fields(name); len(parts) > 0 {
		mergeFields[mergeFieldFirstName] = parts[0]
		mergeFields[mergeFieldLastName] = strings.Join(parts[1:], " ")
	} else {
		mergeFields[mergeFieldFirstName] = name
		mergeFields[mergeFieldLastName] = ""
	}

	if phone := r.GetPhone(); phone != "" {
		mergeFields[mergeFieldPhone] = phone
	}
	if zip := r.GetZip(); zip != "" {
		mergeFields[mergeFieldZip] = zip
	}

	campaign := r.GetCampaign()
	if campaign == "" {
		campaign = firstSegment(r.PagePath())
	}
	if campaign == "" {
		campaign = defaultCampaign
	}

	return &SubscribeRequest{
		EmailAddress: goutil.String(r.GetEmail()),
		Status:       goutil.String(string(entity.MemberStatusSubscribed)),
		MergeFields:  mergeFields,
		Tags:         []string{strings.ToUpper(campaign)},
	}
}

type SubmitPetitionResponse struct {
	next string
}

func (r *SubmitPetitionResponse) RedirectURL() string {
	return r.next
}

var SubmitPetitionValidator = validator.MustForm(map[string]validator.Validator{
	"name": &validator.String{
		MaxLen:     200,
		Validators: []validator.StringFunc{notBlank},
	},
	"email": &validator.String{
		MaxLen: 254,
		Validators: []validator.StringFunc{
			notBlank,
			trimmed(matches(emailRegex, "please enter a valid email address")),
		},
	},
	"phone": &validator.String{
		Optional:  true,
		UnsetZero: true,
		MaxLen:    30,
		Validators: []validator.StringFunc{
			trimmed(matches(phoneRegex, "please enter a valid phone number")),
		},
	},
	"zip": &validator.String{
		Optional:  true,
		UnsetZero: true,
		Validators: []validator.StringFunc{
			trimmed(matches(zipRegex, "please enter a valid 5-digit ZIP code")),
		},
	},
	"next": &validator.String{
		MaxLen:     2048,
		Validators: []validator.StringFunc{isSitePath},
	},
	"campaign": &validator.String{
		Optional: true,
		MaxLen:   100,
	},
	"page": &validator.String{
		Optional: true,
		MaxLen:   2048,
	},
})

func (h *petitionHandler) SubmitPetition(ctx context.Context, req *SubmitPetitionRequest, res *SubmitPetitionResponse) error {
	if err := SubmitPetitionValidator.Validate(req); err != nil {
		return errutil.ValidationError(err)
	}

	next, err := h.nextURL(req)
	if err != nil {
		return errutil.BadRequestError(ErrNotSitePath)
	}

	if page := req.PagePath(); h.skipPage(page) {
		log.Ctx(ctx).Info().Msgf("skip subscription on page: %s", page)
	} else {
		h.subscribeAsync(ctx, req.ToSubscribeRequest(h.cfg.DefaultCampaign))
	}

	res.next = next

	return nil
}

func (h *petitionHandler) subscribeAsync(ctx context.Context, req *SubscribeRequest) {
	ctx, taskID := logutil.WithTaskID(context.WithoutCancel(ctx))

	go func() {
		log.Ctx(ctx).Info().Msgf("petition subscription started, task_id: %s", taskID)

		if err := h.subscriptionHandler.Subscribe(ctx, req, new(SubscribeResponse)); err != nil {
			log.Ctx(ctx).Error().Msgf("petition subscription failed, err: %v", err)
			return
		}

		log.Ctx(ctx).Info().Msg("petition subscription done")
	}()
}

func (h *petitionHandler) skipPage(page string) bool {
	for _, p := range h.cfg.SkipPaths {
		if p != "" && strings.Contains(page, p) {
			return true
		}
	}
	return false
}

// nextURL carries the signer's details over to the next page.
func (h *petitionHandler) nextURL(req *SubmitPetitionRequest) (string, error) {
	u, err := url.Parse(req.GetNext())
	if err != nil {
		return "", err
	}

	q := u.Query()
	q.Set("name", req.GetName())
	q.Set("email", req.GetEmail())
	q.Set("phone", req.GetPhone())
	q.Set("zip", req.GetZip())
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func firstSegment(p string) string {
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			return seg
		}
	}
	return ""
}

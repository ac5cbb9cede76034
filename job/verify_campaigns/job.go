package verify_campaigns

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"landing/config"
	"landing/entity"
	"landing/middleware"
	"landing/pkg/service"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	maxConcurrentProbes = 5
	maxProbeRetries     = 2
)

var (
	ErrEmptyTitle       = errors.New("empty title")
	ErrEmptyDescription = errors.New("empty description")
	ErrCampaignsInvalid = errors.New("some campaigns are invalid")
)

type VerifyCampaigns struct {
	cfg    *config.Config
	client *http.Client

	campaigns *entity.CampaignTable
	meta      *middleware.CampaignMeta

	maxElapsedTime time.Duration
}

func New(cfg *config.Config, client *http.Client) service.Job {
	return &VerifyCampaigns{
		cfg:            cfg,
		client:         client,
		maxElapsedTime: 30 * time.Second,
	}
}

func (j *VerifyCampaigns) Init(_ context.Context) error {
	j.campaigns = j.cfg.CampaignTable()
	j.meta = middleware.NewCampaignMeta(j.cfg.Pages, j.campaigns)
	return nil
}

func (j *VerifyCampaigns) Run(ctx context.Context) error {
	var (
		g        = new(errgroup.Group)
		mu       sync.Mutex
		problems = make(map[string][]error)
		report   = func(cid string, err error) {
			mu.Lock()
			defer mu.Unlock()
			problems[cid] = append(problems[cid], err)
		}
	)
	g.SetLimit(maxConcurrentProbes)

	campaigns := j.campaigns.All()
	log.Ctx(ctx).Info().Msgf("number of campaigns to verify: %d", len(campaigns))

	for _, campaign := range campaigns {
		campaign := campaign

		if campaign.GetTitle() == "" {
			report(campaign.ID, ErrEmptyTitle)
		}
		if campaign.GetDescription() == "" {
			report(campaign.ID, ErrEmptyDescription)
		}

		g.Go(func() error {
			if err := j.probeImage(ctx, j.meta.ImageURL(campaign.ID)); err != nil {
				report(campaign.ID, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	for cid, errs := range problems {
		for _, err := range errs {
			log.Ctx(ctx).Error().Msgf("campaign invalid, cid: %s, err: %v", cid, err)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %d of %d", ErrCampaignsInvalid, len(problems), len(campaigns))
	}

	log.Ctx(ctx).Info().Msg("all campaigns are valid")

	return nil
}

func (j *VerifyCampaigns) CleanUp(_ context.Context) error {
	return nil
}

// probeImage retries transport failures and 5xx answers. Any other non-2xx
// status fails at once.
func (j *VerifyCampaigns) probeImage(ctx context.Context, imageURL string) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = j.maxElapsedTime

	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, imageURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := j.client.Do(req)
		if err != nil {
			return err
		}
		_ = resp.Body.Close()

		if resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("image %s: status %d", imageURL, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return backoff.Permanent(fmt.Errorf("image %s: status %d", imageURL, resp.StatusCode))
		}

		return nil
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, maxProbeRetries), ctx))
}

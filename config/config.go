package config

import (
	"context"
	"encoding/json"
	"os"
	"path"
	"strings"

	"landing/entity"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Pages           Pages             `json:"pages"`
	DefaultCampaign entity.Campaign   `json:"default_campaign"`
	Campaigns       []entity.Campaign `json:"campaigns"`
	Mailchimp       Mailchimp         `json:"mailchimp"`
	Origin          Origin            `json:"origin"`
	Petition        Petition          `json:"petition"`
}

type Pages struct {
	BaseURL       string `json:"base_url"`
	PagePath      string `json:"page_path"`
	CampaignParam string `json:"campaign_param"`
	ImagePath     string `json:"image_path"`
	ImageExt      string `json:"image_ext"`
	ImageVersion  string `json:"image_version"`
	TitleSuffix   string `json:"title_suffix"`
}

// PageSuffixes returns the page path with and without its extension.
func (p *Pages) PageSuffixes() []string {
	suffixes := []string{p.PagePath}
	if ext := path.Ext(p.PagePath); ext != "" {
		suffixes = append(suffixes, strings.TrimSuffix(p.PagePath, ext))
	}
	return suffixes
}

type Mailchimp struct {
	// APIKey is only read from the environment.
	APIKey     string `json:"-"`
	APIURL     string `json:"api_url"`
	ListID     string `json:"list_id"`
	Datacenter string `json:"datacenter"`
}

// Origin serves the static pages, from Dir when set, otherwise by proxying
// to URL.
type Origin struct {
	Dir string `json:"dir"`
	URL string `json:"url"`
}

type Petition struct {
	SkipPaths       []string `json:"skip_paths"`
	DefaultCampaign string   `json:"default_campaign"`
}

func NewConfig() *Config {
	return &Config{
		Pages: Pages{
			BaseURL:       "https://action.theconservativecaucus.com",
			PagePath:      "/campaign.html",
			CampaignParam: "cid",
			ImagePath:     "/images/campaigns",
			ImageExt:      ".png",
			ImageVersion:  "1",
			TitleSuffix:   "The Conservative Caucus",
		},
		DefaultCampaign: entity.Campaign{
			Title:       "Take Action",
			Description: "Take action with The Conservative Caucus on this important issue.",
		},
		Campaigns: []entity.Campaign{
			{
				ID:          "S27wY8ZyVAjaV0qqmHaBg",
				Title:       "Release the Sexual Harassment Settlement Records Now!",
				Description: "Congress has exposed its secret slush fund used to pay off sexual harassment victims. Exposed members of Congress are hiding behind NDAs. Demand they release these records now!",
			},
			{
				ID:          "eLN1BQF0AW11pFo6vLzRs",
				Title:       "Pass Trump's Agenda WITHOUT Ending the Filibuster!",
				Description: "The Senate has rules that let Majority Leader Thune pass ALL of Trump's agenda WITHOUT ending the filibuster. Send your GOP Senators an instant message to make America great again!",
			},
		},
		Mailchimp: Mailchimp{
			APIURL:     "https://{dc}.api.mailchimp.com/3.0",
			ListID:     "fb546f9c74",
			Datacenter: "us9",
		},
		Origin: Origin{
			Dir: "./public",
		},
		Petition: Petition{
			SkipPaths:       []string{"/donate", "/thank-you"},
			DefaultCampaign: "general",
		},
	}
}

func (c *Config) CampaignTable() *entity.CampaignTable {
	return entity.NewCampaignTable(c.DefaultCampaign, c.Campaigns)
}

func (c *Config) Load(ctx context.Context, path string) error {
	c.Mailchimp.APIKey = os.Getenv(EnvMailchimpAPIKey)

	if path == "" {
		log.Ctx(ctx).Warn().Msgf("empty config file")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Ctx(ctx).Warn().Msgf("config file does not exist, file path: %s", path)
			return nil
		}
		return err
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Ctx(ctx).Error().Msgf("config file close failed, file path: %s", path)
		}
	}(f)

	p := json.NewDecoder(f)
	if err := p.Decode(&c); err != nil {
		return err
	}

	return nil
}

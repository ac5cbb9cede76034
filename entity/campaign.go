package entity

type Campaign struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (e *Campaign) GetTitle() string {
	if e != nil {
		return e.Title
	}
	return ""
}

func (e *Campaign) GetDescription() string {
	if e != nil {
		return e.Description
	}
	return ""
}

// CampaignTable is a read-only lookup of campaigns by id. It is built once
// and is safe for concurrent use.
type CampaignTable struct {
	campaigns map[string]Campaign
	fallback  Campaign
}

func NewCampaignTable(fallback Campaign, campaigns []Campaign) *CampaignTable {
	t := &CampaignTable{
		campaigns: make(map[string]Campaign, len(campaigns)),
		fallback:  fallback,
	}
	for _, c := range campaigns {
		t.campaigns[c.ID] = c
	}
	return t
}

// Lookup matches id exactly. Unknown ids get the fallback campaign,
// carrying the requested id.
func (t *CampaignTable) Lookup(id string) *Campaign {
	if c, ok := t.campaigns[id]; ok {
		return &c
	}
	c := t.fallback
	c.ID = id
	return &c
}

func (t *CampaignTable) Has(id string) bool {
	_, ok := t.campaigns[id]
	return ok
}

func (t *CampaignTable) All() []Campaign {
	campaigns := make([]Campaign, 0, len(t.campaigns))
	for _, c := range t.campaigns {
		campaigns = append(campaigns, c)
	}
	return campaigns
}

package domain

import "time"

type CampaignStatus string

const (
	CampaignStatusDraft    CampaignStatus = "draft"
	CampaignStatusOpen     CampaignStatus = "open"
	CampaignStatusClosed   CampaignStatus = "closed"
	CampaignStatusArchived CampaignStatus = "archived"
)

// Campaign binds a pathway template to a concrete program run.
type Campaign struct {
	ID                string         `json:"id"`
	ProgramID         *string        `json:"program_id,omitempty"`
	PathwayTemplateID string         `json:"pathway_template_id"`
	CreatorID         string         `json:"creator_id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	IsPublic          bool           `json:"is_public"`
	Status            CampaignStatus `json:"status"`
	StartDate         *time.Time     `json:"start_date,omitempty"`
	EndDate           *time.Time     `json:"end_date,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

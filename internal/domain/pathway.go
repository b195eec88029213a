package domain

import (
	"time"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/phaseconfig"
)

// PathwayTemplate is a reusable ordered sequence of phases.
type PathwayTemplate struct {
	ID          string    `json:"id"`
	CreatorID   string    `json:"creator_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsPrivate   bool      `json:"is_private"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Phase is one typed stage of a template. OrderIndex is dense and 0-based within
// the template; Config always matches Type.
type Phase struct {
	ID                string                `json:"id"`
	PathwayTemplateID string                `json:"pathway_template_id"`
	Name              string                `json:"name"`
	Type              phaseconfig.PhaseType `json:"type"`
	Description       string                `json:"description"`
	OrderIndex        int                   `json:"order_index"`
	Config            phaseconfig.Config    `json:"config"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
}

// PhaseOrder is one entry of a reorder request.
type PhaseOrder struct {
	ID         string `json:"id"`
	OrderIndex int    `json:"order_index"`
}

// Package editsessions hosts the configurator engine behind short-lived edit sessions.
// Each session owns one product aggregate, stored in Redis and mutated only through
// decoded commands.
package editsessions

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-configurator/internal/configurator"
)

// Session is the persisted state of one edit session. Version counts applied commands, so
// a session with Version > 0 has unsaved edits.
type Session struct {
	ID              uuid.UUID            `json:"id"`
	SourceProductID *uuid.UUID           `json:"source_product_id,omitempty"`
	Product         configurator.Product `json:"product"`
	DroppedVariants int                  `json:"dropped_variants"`
	Version         int                  `json:"version"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// View is the session state returned to clients together with its derived summary.
type View struct {
	ID              uuid.UUID            `json:"id"`
	SourceProductID *uuid.UUID           `json:"source_product_id,omitempty"`
	Product         configurator.Product `json:"product"`
	Summary         configurator.Summary `json:"summary"`
	DroppedVariants int                  `json:"dropped_variants,omitempty"`
	Version         int                  `json:"version"`
	Dirty           bool                 `json:"dirty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// NewView derives the client view of a session.
func NewView(s *Session) *View {
	return &View{
		ID:              s.ID,
		SourceProductID: s.SourceProductID,
		Product:         s.Product,
		Summary:         configurator.Summarize(s.Product),
		DroppedVariants: s.DroppedVariants,
		Version:         s.Version,
		Dirty:           s.Version > 0,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

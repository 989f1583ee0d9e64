package domain

import (
	"encoding/json"
	"time"
)

// TeamStructurePage is one editable org-chart page. ChartData holds
// the node/edge graph the visual editor drags around; it is opaque to
// the backend. IsActive == false is the page's logical delete.
type TeamStructurePage struct {
	ID          int64
	Title       string
	Description string
	ChartData   json.RawMessage
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

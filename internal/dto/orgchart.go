package dto

import (
	"encoding/json"
	"time"
)

type CreatePageRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

type UpdatePageRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}

// SaveChartDataRequest carries the editor's node/edge graph verbatim.
type SaveChartDataRequest struct {
	ChartData json.RawMessage `json:"chart_data" binding:"required"`
}

type PageResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	ChartData   json.RawMessage `json:"chart_data"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListPagesResponse struct {
	Items []PageResponse `json:"items"`
}

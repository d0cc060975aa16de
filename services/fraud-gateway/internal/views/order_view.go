package views

import (
	"time"

	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/nimeshabuddhika/konduto-go/pkg/models"
)

// APIResponse represents the structure of a standard API response.
type APIResponse struct {
	TraceID string `json:"traceId"` // unique identifier for the API request
	Data    any    `json:"data"`
}

// AnalysisView is the public shape of a stored analysis. Order is only set when reading one back.
type AnalysisView struct {
	OrderID        string                 `json:"orderId"`
	Score          *float64               `json:"score"`
	Recommendation konduto.Recommendation `json:"recommendation"`
	Status         konduto.Status         `json:"status"`
	AnalyzedAt     time.Time              `json:"analyzedAt"`
	Order          *konduto.Order         `json:"order,omitempty"`
}

func NewAnalysisView(a models.Analysis, order *konduto.Order) AnalysisView {
	return AnalysisView{
		OrderID:        a.OrderID,
		Score:          a.Score,
		Recommendation: a.Recommendation,
		Status:         a.Status,
		AnalyzedAt:     a.CreatedAt,
		Order:          order,
	}
}

type StatusUpdateRequest struct {
	Status   konduto.Status `json:"status" binding:"required,oneof=approved declined fraud"`
	Comments string         `json:"comments" binding:"max=1000"`
}

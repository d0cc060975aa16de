package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
)

// Analysis maps to table `fraud_analyses`. One row per Konduto analysis of an order.
type Analysis struct {
	ID             uuid.UUID
	OrderID        string
	TraceID        string
	Score          *float64
	Recommendation konduto.Recommendation
	Status         konduto.Status
	// Payload is the canonical order JSON, AES sealed and base64 encoded.
	Payload   string
	CreatedAt time.Time
}

// NewAnalysis builds a row from an analyzed order. The payload must already be sealed.
func NewAnalysis(traceID string, analyzed *konduto.Order, sealedPayload string) Analysis {
	return Analysis{
		ID:             uuid.New(),
		OrderID:        analyzed.ID,
		TraceID:        traceID,
		Score:          analyzed.Score,
		Recommendation: analyzed.Recommendation,
		Status:         analyzed.Status,
		Payload:        sealedPayload,
		CreatedAt:      time.Now().UTC(),
	}
}

package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/nimeshabuddhika/konduto-go/pkg/database"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/nimeshabuddhika/konduto-go/pkg/models"
)

const analysesTable = "fraud_analyses"

var analysisColumns = []string{"id", "order_id", "trace_id", "score", "recommendation", "status", "payload", "created_at"}

// AnalysisRepository persists fraud analyses.
type AnalysisRepository interface {
	// Create inserts an analysis inside tx.
	Create(ctx context.Context, tx pgx.Tx, analysis models.Analysis) (pgconn.CommandTag, error)
	// FindLatestByOrderID returns the newest analysis stored for orderID.
	FindLatestByOrderID(ctx context.Context, db database.Querier, orderID string) (models.Analysis, error)
}

type AnalysisRepositoryImpl struct {
	builder squirrel.StatementBuilderType
}

func NewAnalysisRepository() AnalysisRepository {
	return &AnalysisRepositoryImpl{builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)}
}

func (a AnalysisRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, analysis models.Analysis) (pgconn.CommandTag, error) {
	sql, args, err := a.builder.Insert(analysesTable).
		Columns(analysisColumns...).
		Values(
			analysis.ID,
			analysis.OrderID,
			analysis.TraceID,
			analysis.Score,
			string(analysis.Recommendation),
			string(analysis.Status),
			analysis.Payload,
			analysis.CreatedAt,
		).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return pgconn.CommandTag{}, fmt.Errorf("build analysis insert: %w", err)
	}
	return tx.Exec(ctx, sql, args...)
}

func (a AnalysisRepositoryImpl) FindLatestByOrderID(ctx context.Context, db database.Querier, orderID string) (models.Analysis, error) {
	if orderID == "" {
		return models.Analysis{}, errors.New("order id cannot be empty")
	}
	sql, args, err := a.builder.Select(analysisColumns...).
		From(analysesTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("created_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return models.Analysis{}, fmt.Errorf("build analysis query: %w", err)
	}

	var (
		analysis       models.Analysis
		recommendation string
		status         string
	)
	err = db.QueryRow(ctx, sql, args...).Scan(
		&analysis.ID,
		&analysis.OrderID,
		&analysis.TraceID,
		&analysis.Score,
		&recommendation,
		&status,
		&analysis.Payload,
		&analysis.CreatedAt,
	)
	analysis.Recommendation = konduto.Recommendation(recommendation)
	analysis.Status = konduto.Status(status)
	return analysis, err
}

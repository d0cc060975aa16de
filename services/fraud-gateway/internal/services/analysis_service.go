package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/konduto-go/pkg"
	"github.com/nimeshabuddhika/konduto-go/pkg/client"
	"github.com/nimeshabuddhika/konduto-go/pkg/database"
	"github.com/nimeshabuddhika/konduto-go/pkg/konduto"
	"github.com/nimeshabuddhika/konduto-go/pkg/models"
	"github.com/nimeshabuddhika/konduto-go/pkg/repositories"
	"github.com/nimeshabuddhika/konduto-go/pkg/utils"
	"go.uber.org/zap"
)

// AnalysisService sends orders to Konduto and keeps the outcome.
type AnalysisService interface {
	// AnalyzeOrder validates the order, submits it and stores the analysis.
	AnalyzeOrder(ctx context.Context, traceID string, order *konduto.Order) (models.Analysis, error)
	// GetAnalysis returns the latest stored analysis of an order and the order as it was analyzed.
	GetAnalysis(ctx context.Context, traceID string, orderID string) (models.Analysis, *konduto.Order, error)
	// FetchOrder reads the order as currently held by Konduto.
	FetchOrder(ctx context.Context, traceID string, orderID string) (*konduto.Order, error)
	// UpdateStatus reports the merchant decision on an order to Konduto.
	UpdateStatus(ctx context.Context, traceID string, orderID string, status konduto.Status, comments string) error
}

// KondutoAPI is the part of client.Client the service uses.
type KondutoAPI interface {
	konduto.Submitter
	GetOrder(ctx context.Context, orderID string) (*konduto.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status konduto.Status, comments string) error
}

// Store is satisfied by *database.DB.
type Store interface {
	database.Transactor
	database.Querier
}

type AnalysisServiceImpl struct {
	logger  *zap.Logger
	db      Store
	repo    repositories.AnalysisRepository
	konduto KondutoAPI
	aesKey  []byte
}

func NewAnalysisService(logger *zap.Logger, db Store, repo repositories.AnalysisRepository, kdt KondutoAPI, aesKey []byte) AnalysisService {
	return &AnalysisServiceImpl{
		logger:  logger,
		db:      db,
		repo:    repo,
		konduto: kdt,
		aesKey:  aesKey,
	}
}

func (s *AnalysisServiceImpl) AnalyzeOrder(ctx context.Context, traceID string, order *konduto.Order) (models.Analysis, error) {
	if err := order.Validate(); err != nil {
		return models.Analysis{}, s.mapKondutoError(traceID, err)
	}

	analyzed, err := s.konduto.Analyze(ctx, order)
	if err != nil {
		return models.Analysis{}, s.mapKondutoError(traceID, err)
	}
	if utils.IsEmpty(analyzed.ID) {
		analyzed.ID = order.ID
	}

	// analysis responses are stored as returned, without validation
	payload, err := json.Marshal(analyzed)
	if err != nil {
		return models.Analysis{}, pkg.NewAppError(pkg.ErrServerCode, "failed to encode analysis", err)
	}
	sealed, err := utils.EncryptAES(payload, s.aesKey)
	if err != nil {
		return models.Analysis{}, pkg.NewAppError(pkg.ErrServerCode, "failed to seal analysis", err)
	}

	analysis := models.NewAnalysis(traceID, analyzed, sealed)
	err = s.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := s.repo.Create(ctx, tx, analysis)
		return err
	})
	if err != nil {
		return models.Analysis{}, pkg.HandleSQLError(traceID, s.logger, err)
	}

	s.logger.Info("order_analyzed",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.OrderId, analysis.OrderID),
		zap.String("recommendation", string(analysis.Recommendation)),
	)
	return analysis, nil
}

func (s *AnalysisServiceImpl) GetAnalysis(ctx context.Context, traceID string, orderID string) (models.Analysis, *konduto.Order, error) {
	analysis, err := s.repo.FindLatestByOrderID(ctx, s.db, orderID)
	if err != nil {
		return models.Analysis{}, nil, pkg.HandleSQLError(traceID, s.logger, err)
	}

	payload, err := utils.DecryptAES(analysis.Payload, s.aesKey)
	if err != nil {
		return models.Analysis{}, nil, pkg.NewAppError(pkg.ErrServerCode, "failed to open stored analysis", err)
	}
	order, err := konduto.FromJSON[konduto.Order](payload)
	if err != nil {
		return models.Analysis{}, nil, pkg.NewAppError(pkg.ErrServerCode, "failed to decode stored analysis", err)
	}
	return analysis, order, nil
}

func (s *AnalysisServiceImpl) FetchOrder(ctx context.Context, traceID string, orderID string) (*konduto.Order, error) {
	order, err := s.konduto.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.mapKondutoError(traceID, err)
	}
	return order, nil
}

func (s *AnalysisServiceImpl) UpdateStatus(ctx context.Context, traceID string, orderID string, status konduto.Status, comments string) error {
	if err := s.konduto.UpdateOrderStatus(ctx, orderID, status, comments); err != nil {
		return s.mapKondutoError(traceID, err)
	}
	s.logger.Info("order_status_updated",
		zap.String(pkg.TraceId, traceID),
		zap.String(pkg.OrderId, orderID),
		zap.String("status", string(status)),
	)
	return nil
}

// mapKondutoError turns validation and client errors into AppErrors.
func (s *AnalysisServiceImpl) mapKondutoError(traceID string, err error) error {
	var (
		invalid *konduto.InvalidEntityError
		apiErr  *client.APIError
	)
	switch {
	case errors.As(err, &invalid):
		return pkg.NewAppError(pkg.ErrInvalidEntityCode, invalid.Message, err)
	case errors.Is(err, pkg.ErrRateLimitExceeded):
		return pkg.NewAppError(pkg.ErrRateLimitedCode, "konduto rate limit reached", err)
	case errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound:
		return pkg.NewAppError(pkg.ErrRecordNotFoundCode, "order not found at konduto", err)
	case errors.As(err, &apiErr):
		s.logger.Error("konduto_rejected_request",
			zap.String(pkg.TraceId, traceID),
			zap.Int("status_code", apiErr.StatusCode),
			zap.String("message", apiErr.Message),
		)
		if apiErr.Temporary() {
			return pkg.NewAppError(pkg.ErrUpstreamUnavailableCode, pkg.ErrUpstreamUnavailableCode.Message, err)
		}
		return pkg.NewAppError(pkg.ErrUpstreamCode, pkg.ErrUpstreamCode.Message, err)
	default:
		return pkg.NewAppError(pkg.ErrUpstreamCode, pkg.ErrUpstreamCode.Message, err)
	}
}

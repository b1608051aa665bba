package rateconfig

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"brokmang/internal/events"
	"brokmang/internal/messaging/kafka"
	rateconfigerrors "brokmang/internal/rateconfig/errors"
	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=rate_config_service.go -destination=mock/rate_config_service_mock.go -package=mock
type Service interface {
	GetActiveTaxConfig(ctx context.Context, orgID string, asOf time.Time) (*TaxConfig, error)
	SetTaxConfig(ctx context.Context, orgID, actorID string, req SetTaxConfigRequest) (TaxConfigResponse, error)
	TaxHistory(ctx context.Context, orgID string) ([]TaxConfigResponse, error)

	GetActiveCommissionConfig(ctx context.Context, orgID, role string, asOf time.Time) (*CommissionConfig, error)
	SetCommissionConfig(ctx context.Context, orgID, actorID string, req SetCommissionConfigRequest) (CommissionConfigResponse, error)
	CommissionHistory(ctx context.Context, orgID string) ([]CommissionConfigResponse, error)
	EstimateCommission(ctx context.Context, orgID, role string, dealValue decimal.Decimal, asOf time.Time) (CommissionEstimateResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return NewServiceWithOutbox(db, repo, nil)
}

func NewServiceWithOutbox(db *sql.DB, repo Repository, outboxRepo kafka.OutboxRepository) Service {
	return &service{
		db:     db,
		repo:   repo,
		outbox: outboxRepo,
		logger: zap.L().Named("rateconfig.service"),
	}
}

// GetActiveTaxConfig resolves the single config effective at asOf. Zero rows is
// the recoverable ErrNoActiveConfig; more than one is a data fault, never
// silently picked from.
func (s *service) GetActiveTaxConfig(ctx context.Context, orgID string, asOf time.Time) (*TaxConfig, error) {
	configs, err := s.repo.FindTaxAsOf(ctx, orgID, asOf)
	if err != nil {
		return nil, err
	}

	switch len(configs) {
	case 0:
		return nil, rateconfigerrors.ErrNoActiveConfig
	case 1:
		return &configs[0], nil
	default:
		s.logger.Error("overlapping tax configs detected",
			zap.String("org_id", orgID),
			zap.Time("as_of", asOf),
			zap.Int("rows", len(configs)),
		)
		return nil, rateconfigerrors.ErrConfigIntegrity
	}
}

func (s *service) SetTaxConfig(
	ctx context.Context,
	orgID, actorID string,
	req SetTaxConfigRequest,
) (TaxConfigResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if !isFraction(req.WithholdingRate) || !isFraction(req.VATRate) || !isFraction(req.IncomeTaxRate) {
		return TaxConfigResponse{}, rateconfigerrors.ErrRateOutOfRange
	}

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return TaxConfigResponse{}, apperror.InvalidField("Org Id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return TaxConfigResponse{}, apperror.InvalidField("Actor Id")
	}
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return TaxConfigResponse{}, apperror.InvalidField("Effective From")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TaxConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Row lock on the open row serializes concurrent writers for this org.
	open, err := qtx.LockOpenTax(ctx, orgID)
	if err != nil {
		return TaxConfigResponse{}, err
	}
	if len(open) > 1 {
		s.logger.Error("write blocked by overlapping open tax configs",
			zap.String("request_id", rid),
			zap.String("org_id", orgID),
			zap.Int("rows", len(open)),
		)
		return TaxConfigResponse{}, rateconfigerrors.ErrConfigIntegrity
	}

	if len(open) == 1 {
		prev := open[0]
		if !effectiveFrom.After(prev.EffectiveFrom) {
			return TaxConfigResponse{}, rateconfigerrors.ErrOverlappingWindow
		}
		if err := qtx.CloseTax(ctx, prev.ID.String(), effectiveFrom); err != nil {
			return TaxConfigResponse{}, mapRepositoryError(err)
		}
	}

	cfg := &TaxConfig{
		ID:              uuid.New(),
		OrgID:           orgUUID,
		WithholdingRate: req.WithholdingRate,
		VATRate:         req.VATRate,
		IncomeTaxRate:   req.IncomeTaxRate,
		EffectiveFrom:   effectiveFrom,
		Notes:           req.Notes,
		CreatedBy:       actorUUID,
	}
	if err := qtx.CreateTax(ctx, cfg); err != nil {
		return TaxConfigResponse{}, mapRepositoryError(err)
	}

	if err := s.queueAuditEvent(ctx, tx, orgID, actorID, events.RateConfigUpdatedType, "tax_config", cfg.ID.String()); err != nil {
		return TaxConfigResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return TaxConfigResponse{}, err
	}

	s.logger.Info("tax config set",
		zap.String("request_id", rid),
		zap.String("org_id", orgID),
		zap.String("config_id", cfg.ID.String()),
		zap.String("effective_from", req.EffectiveFrom),
	)

	return mapTaxToResponse(*cfg), nil
}

func (s *service) TaxHistory(ctx context.Context, orgID string) ([]TaxConfigResponse, error) {
	configs, err := s.repo.ListTaxByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	res := make([]TaxConfigResponse, len(configs))
	for i, c := range configs {
		res[i] = mapTaxToResponse(c)
	}
	return res, nil
}

func (s *service) GetActiveCommissionConfig(ctx context.Context, orgID, role string, asOf time.Time) (*CommissionConfig, error) {
	configs, err := s.repo.FindCommissionAsOf(ctx, orgID, role, asOf)
	if err != nil {
		return nil, err
	}

	switch len(configs) {
	case 0:
		return nil, rateconfigerrors.ErrNoActiveConfig
	case 1:
		return &configs[0], nil
	default:
		s.logger.Error("overlapping commission configs detected",
			zap.String("org_id", orgID),
			zap.String("role", role),
			zap.Int("rows", len(configs)),
		)
		return nil, rateconfigerrors.ErrConfigIntegrity
	}
}

func (s *service) SetCommissionConfig(
	ctx context.Context,
	orgID, actorID string,
	req SetCommissionConfigRequest,
) (CommissionConfigResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.RatePerMillion.IsNegative() {
		return CommissionConfigResponse{}, rateconfigerrors.ErrNegativeCommissionRate
	}

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return CommissionConfigResponse{}, apperror.InvalidField("Org Id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CommissionConfigResponse{}, apperror.InvalidField("Actor Id")
	}
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return CommissionConfigResponse{}, apperror.InvalidField("Effective From")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CommissionConfigResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	open, err := qtx.LockOpenCommission(ctx, orgID, req.Role)
	if err != nil {
		return CommissionConfigResponse{}, err
	}
	if len(open) > 1 {
		s.logger.Error("write blocked by overlapping open commission configs",
			zap.String("request_id", rid),
			zap.String("org_id", orgID),
			zap.String("role", req.Role),
			zap.Int("rows", len(open)),
		)
		return CommissionConfigResponse{}, rateconfigerrors.ErrConfigIntegrity
	}

	if len(open) == 1 {
		prev := open[0]
		if !effectiveFrom.After(prev.EffectiveFrom) {
			return CommissionConfigResponse{}, rateconfigerrors.ErrOverlappingWindow
		}
		if err := qtx.CloseCommission(ctx, prev.ID.String(), effectiveFrom); err != nil {
			return CommissionConfigResponse{}, mapRepositoryError(err)
		}
	}

	cfg := &CommissionConfig{
		ID:             uuid.New(),
		OrgID:          orgUUID,
		Role:           req.Role,
		RatePerMillion: req.RatePerMillion,
		EffectiveFrom:  effectiveFrom,
		Notes:          req.Notes,
		CreatedBy:      actorUUID,
	}
	if err := qtx.CreateCommission(ctx, cfg); err != nil {
		return CommissionConfigResponse{}, mapRepositoryError(err)
	}

	if err := s.queueAuditEvent(ctx, tx, orgID, actorID, events.RateConfigUpdatedType, "commission_config", cfg.ID.String()); err != nil {
		return CommissionConfigResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return CommissionConfigResponse{}, err
	}

	s.logger.Info("commission config set",
		zap.String("request_id", rid),
		zap.String("org_id", orgID),
		zap.String("role", req.Role),
		zap.String("config_id", cfg.ID.String()),
	)

	return mapCommissionToResponse(*cfg), nil
}

func (s *service) CommissionHistory(ctx context.Context, orgID string) ([]CommissionConfigResponse, error) {
	configs, err := s.repo.ListCommissionByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}

	res := make([]CommissionConfigResponse, len(configs))
	for i, c := range configs {
		res[i] = mapCommissionToResponse(c)
	}
	return res, nil
}

var million = decimal.NewFromInt(1_000_000)

// EstimateCommission prices a prospective deal against the commission config
// effective at asOf: dealValue * rate_per_million / 1,000,000.
func (s *service) EstimateCommission(
	ctx context.Context,
	orgID, role string,
	dealValue decimal.Decimal,
	asOf time.Time,
) (CommissionEstimateResponse, error) {
	if dealValue.IsNegative() {
		return CommissionEstimateResponse{}, apperror.InvalidField("Deal Value")
	}

	cfg, err := s.GetActiveCommissionConfig(ctx, orgID, role, asOf)
	if err != nil {
		return CommissionEstimateResponse{}, err
	}

	commission := dealValue.Mul(cfg.RatePerMillion).Div(million)
	return CommissionEstimateResponse{
		Role:           role,
		DealValue:      dealValue,
		RatePerMillion: cfg.RatePerMillion,
		Commission:     commission,
	}, nil
}

func (s *service) queueAuditEvent(
	ctx context.Context,
	tx *sql.Tx,
	orgID, actorID, eventType, aggregateType, aggregateID string,
) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.LedgerAuditEvent{
		EventType:     eventType,
		OrgID:         orgID,
		ActorID:       actorID,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         events.LedgerAuditTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func isFraction(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}

func mapTaxToResponse(c TaxConfig) TaxConfigResponse {
	return TaxConfigResponse{
		ID:              c.ID.String(),
		OrgID:           c.OrgID.String(),
		WithholdingRate: c.WithholdingRate,
		VATRate:         c.VATRate,
		IncomeTaxRate:   c.IncomeTaxRate,
		EffectiveFrom:   c.EffectiveFrom.Format(dateLayout),
		EffectiveTo:     formatDatePtr(c.EffectiveTo),
		Notes:           c.Notes,
	}
}

func mapCommissionToResponse(c CommissionConfig) CommissionConfigResponse {
	return CommissionConfigResponse{
		ID:             c.ID.String(),
		OrgID:          c.OrgID.String(),
		Role:           c.Role,
		RatePerMillion: c.RatePerMillion,
		EffectiveFrom:  c.EffectiveFrom.Format(dateLayout),
		EffectiveTo:    formatDatePtr(c.EffectiveTo),
		Notes:          c.Notes,
	}
}

func formatDatePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

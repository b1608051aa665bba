package costledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	costledgererrors "brokmang/internal/costledger/errors"
	"brokmang/internal/events"
	"brokmang/internal/messaging/kafka"
	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/contextutil"
	"brokmang/internal/shared/counter"
	"brokmang/internal/shared/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=cost_ledger_service.go -destination=mock/cost_ledger_service_mock.go -package=mock
type Service interface {
	AddCost(ctx context.Context, orgID, actorID string, req AddCostRequest) (CostEntryResponse, error)
	ListCosts(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (CostBreakdown, error)
	UpdateStatus(ctx context.Context, orgID, id string, req UpdateCostStatusRequest) (CostEntryResponse, error)
	SumByMonth(ctx context.Context, orgID string, businessUnitID *string, month period.Month) (fixed, variable decimal.Decimal, err error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counterRepo counter.Repository) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, nil)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	outboxRepo kafka.OutboxRepository,
) Service {
	return &service{
		db:      db,
		repo:    repo,
		counter: counterRepo,
		outbox:  outboxRepo,
		logger:  zap.L().Named("costledger.service"),
	}
}

func (s *service) AddCost(
	ctx context.Context,
	orgID, actorID string,
	req AddCostRequest,
) (CostEntryResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.Amount.IsNegative() {
		return CostEntryResponse{}, costledgererrors.ErrNegativeAmount
	}
	category := Category(req.Category)
	if !ValidCategory(category) {
		return CostEntryResponse{}, costledgererrors.ErrInvalidCategory
	}

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return CostEntryResponse{}, apperror.InvalidField("Org Id")
	}
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return CostEntryResponse{}, apperror.InvalidField("Actor Id")
	}

	var businessUnitUUID *uuid.UUID
	if req.BusinessUnitID != nil {
		parsed, err := uuid.Parse(*req.BusinessUnitID)
		if err != nil {
			return CostEntryResponse{}, apperror.InvalidField("Business Unit Id")
		}
		businessUnitUUID = &parsed
	}

	// Accept any day within the month; normalize to the bucketing key.
	month, err := parseCostMonth(req.CostMonth)
	if err != nil {
		return CostEntryResponse{}, err
	}

	nextVal, err := s.counter.GetNextValue(ctx, orgID, "cost_entry_number")
	if err != nil {
		s.logger.Error("generate cost entry number failed", zap.String("request_id", rid), zap.Error(err))
		return CostEntryResponse{}, err
	}
	entryNumber := fmt.Sprintf("COST-%d-%06d", month.Year, nextVal)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CostEntryResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	entry := &CostEntry{
		ID:             uuid.New(),
		OrgID:          orgUUID,
		BusinessUnitID: businessUnitUUID,
		EntryNumber:    entryNumber,
		Category:       category,
		Amount:         req.Amount,
		CostMonth:      month.Start(),
		IsFixedCost:    req.IsFixedCost,
		IsRecurring:    req.IsRecurring,
		Status:         StatusPending,
		CreatedBy:      actorUUID,
		ReceiptRef:     req.ReceiptRef,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, entry); err != nil {
		return CostEntryResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		payload, err := json.Marshal(events.LedgerAuditEvent{
			EventType:     events.CostEntryCreatedType,
			OrgID:         orgID,
			ActorID:       actorID,
			AggregateType: "cost_entry",
			AggregateID:   entry.ID.String(),
			OccurredAt:    time.Now().UTC(),
		})
		if err != nil {
			return CostEntryResponse{}, err
		}

		if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
			ID:            uuid.New().String(),
			RequestID:     rid,
			AggregateType: "cost_entry",
			AggregateID:   entry.ID.String(),
			EventType:     events.CostEntryCreatedType,
			Topic:         events.LedgerAuditTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("cost entry outbox persist failed", zap.String("request_id", rid), zap.Error(err))
			return CostEntryResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return CostEntryResponse{}, err
	}

	s.logger.Info("cost entry created",
		zap.String("request_id", rid),
		zap.String("org_id", orgID),
		zap.String("entry_number", entryNumber),
		zap.String("category", string(category)),
		zap.String("cost_month", month.String()),
	)

	return mapToResponse(*entry), nil
}

func (s *service) ListCosts(
	ctx context.Context,
	orgID string,
	businessUnitID *string,
	month period.Month,
) (CostBreakdown, error) {
	entries, err := s.repo.ListByMonth(ctx, orgID, businessUnitID, month.Start())
	if err != nil {
		return CostBreakdown{}, err
	}

	breakdown := CostBreakdown{
		Period:        month.String(),
		FixedTotal:    decimal.Zero,
		VariableTotal: decimal.Zero,
		Fixed:         []CostEntryResponse{},
		Variable:      []CostEntryResponse{},
	}

	for _, e := range entries {
		resp := mapToResponse(e)
		if e.IsFixedCost {
			breakdown.Fixed = append(breakdown.Fixed, resp)
			breakdown.FixedTotal = breakdown.FixedTotal.Add(e.Amount)
		} else {
			breakdown.Variable = append(breakdown.Variable, resp)
			breakdown.VariableTotal = breakdown.VariableTotal.Add(e.Amount)
		}
	}

	return breakdown, nil
}

func (s *service) UpdateStatus(
	ctx context.Context,
	orgID, id string,
	req UpdateCostStatusRequest,
) (CostEntryResponse, error) {
	if req.Status != StatusApproved && req.Status != StatusRejected {
		return CostEntryResponse{}, apperror.InvalidField("Status")
	}

	entry, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		return CostEntryResponse{}, mapRepositoryError(err)
	}

	if entry.Status != StatusPending {
		return CostEntryResponse{}, costledgererrors.ErrInvalidStatusTransition
	}

	if err := s.repo.UpdateStatus(ctx, id, req.Status); err != nil {
		// The entry existed above, so zero rows means a concurrent
		// transition already moved it out of PENDING.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CostEntryResponse{}, costledgererrors.ErrInvalidStatusTransition
		}
		return CostEntryResponse{}, mapRepositoryError(err)
	}

	entry.Status = req.Status
	return mapToResponse(*entry), nil
}

func (s *service) SumByMonth(
	ctx context.Context,
	orgID string,
	businessUnitID *string,
	month period.Month,
) (decimal.Decimal, decimal.Decimal, error) {
	return s.repo.SumByMonth(ctx, orgID, businessUnitID, month.Start())
}

func parseCostMonth(s string) (period.Month, error) {
	if m, err := period.Parse(s); err == nil {
		return m, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return period.Month{}, apperror.InvalidField("Cost Month")
	}
	return period.FromTime(t), nil
}

func mapToResponse(e CostEntry) CostEntryResponse {
	var businessUnitID *string
	if e.BusinessUnitID != nil {
		s := e.BusinessUnitID.String()
		businessUnitID = &s
	}

	return CostEntryResponse{
		ID:             e.ID.String(),
		OrgID:          e.OrgID.String(),
		BusinessUnitID: businessUnitID,
		EntryNumber:    e.EntryNumber,
		Category:       string(e.Category),
		Amount:         e.Amount,
		CostMonth:      e.CostMonth.Format(period.Layout),
		IsFixedCost:    e.IsFixedCost,
		IsRecurring:    e.IsRecurring,
		Status:         e.Status,
		ReceiptRef:     e.ReceiptRef,
		Notes:          e.Notes,
	}
}

package salary

import (
	"context"
	"database/sql"
	"time"

	"brokmang/internal/org"
	salaryerrors "brokmang/internal/salary/errors"
	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/contextutil"
	"brokmang/internal/shared/period"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

//go:generate mockgen -source=salary_service.go -destination=mock/salary_service_mock.go -package=mock
type Service interface {
	SetSalary(ctx context.Context, orgID string, req SetSalaryRequest) (SalaryRecordResponse, error)
	History(ctx context.Context, orgID, agentID string) ([]SalaryRecordResponse, error)

	// TotalForScope resolves each agent's salary at the LAST day of the month.
	// An agent raised mid-month is billed at the period-end rate.
	TotalForScope(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{
		db:     db,
		repo:   repo,
		logger: zap.L().Named("salary.service"),
	}
}

func (s *service) SetSalary(
	ctx context.Context,
	orgID string,
	req SetSalaryRequest,
) (SalaryRecordResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	if req.MonthlyAmount.IsNegative() {
		return SalaryRecordResponse{}, salaryerrors.ErrNegativeSalary
	}

	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return SalaryRecordResponse{}, apperror.InvalidField("Org Id")
	}
	agentUUID, err := uuid.Parse(req.AgentID)
	if err != nil {
		return SalaryRecordResponse{}, apperror.InvalidField("Agent Id")
	}
	effectiveFrom, err := time.Parse(dateLayout, req.EffectiveFrom)
	if err != nil {
		return SalaryRecordResponse{}, apperror.InvalidField("Effective From")
	}

	currency := req.Currency
	if currency == "" {
		currency = "EGP"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SalaryRecordResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	open, err := qtx.LockOpenByAgent(ctx, orgID, req.AgentID)
	if err != nil {
		return SalaryRecordResponse{}, err
	}
	if len(open) > 1 {
		s.logger.Error("overlapping open salary records",
			zap.String("request_id", rid),
			zap.String("agent_id", req.AgentID),
			zap.Int("rows", len(open)),
		)
		return SalaryRecordResponse{}, salaryerrors.ErrSalaryIntegrity
	}

	if len(open) == 1 {
		prev := open[0]
		if !effectiveFrom.After(prev.EffectiveFrom) {
			return SalaryRecordResponse{}, salaryerrors.ErrOverlappingWindow
		}
		if err := qtx.Close(ctx, prev.ID.String(), effectiveFrom); err != nil {
			return SalaryRecordResponse{}, err
		}
	}

	record := &SalaryRecord{
		ID:            uuid.New(),
		OrgID:         orgUUID,
		AgentID:       agentUUID,
		Role:          req.Role,
		MonthlyAmount: req.MonthlyAmount,
		Currency:      currency,
		EffectiveFrom: effectiveFrom,
	}
	if err := qtx.Create(ctx, record); err != nil {
		return SalaryRecordResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SalaryRecordResponse{}, err
	}

	s.logger.Info("salary record set",
		zap.String("request_id", rid),
		zap.String("org_id", orgID),
		zap.String("agent_id", req.AgentID),
		zap.String("effective_from", req.EffectiveFrom),
	)

	return mapToResponse(*record), nil
}

func (s *service) History(ctx context.Context, orgID, agentID string) ([]SalaryRecordResponse, error) {
	records, err := s.repo.ListByAgent(ctx, orgID, agentID)
	if err != nil {
		return nil, err
	}

	res := make([]SalaryRecordResponse, len(records))
	for i, r := range records {
		res[i] = mapToResponse(r)
	}
	return res, nil
}

func (s *service) TotalForScope(ctx context.Context, scope org.Scope, month period.Month) (decimal.Decimal, error) {
	return s.repo.SumActiveForScope(ctx, scope, month.End())
}

func mapToResponse(r SalaryRecord) SalaryRecordResponse {
	var effectiveTo *string
	if r.EffectiveTo != nil {
		s := r.EffectiveTo.Format(dateLayout)
		effectiveTo = &s
	}

	return SalaryRecordResponse{
		ID:            r.ID.String(),
		OrgID:         r.OrgID.String(),
		AgentID:       r.AgentID.String(),
		Role:          r.Role,
		MonthlyAmount: r.MonthlyAmount,
		Currency:      r.Currency,
		EffectiveFrom: r.EffectiveFrom.Format(dateLayout),
		EffectiveTo:   effectiveTo,
	}
}

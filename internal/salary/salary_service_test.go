package salary_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"brokmang/internal/org"
	"brokmang/internal/salary"
	salaryerrors "brokmang/internal/salary/errors"
	"brokmang/internal/shared/period"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type fakeSalaryRepository struct {
	withTxFn            func(tx *sql.Tx) salary.Repository
	lockOpenByAgentFn   func(ctx context.Context, orgID, agentID string) ([]salary.SalaryRecord, error)
	closeFn             func(ctx context.Context, id string, closeAt time.Time) error
	createFn            func(ctx context.Context, record *salary.SalaryRecord) error
	listByAgentFn       func(ctx context.Context, orgID, agentID string) ([]salary.SalaryRecord, error)
	sumActiveForScopeFn func(ctx context.Context, scope org.Scope, asOf time.Time) (decimal.Decimal, error)
}

func (f *fakeSalaryRepository) WithTx(tx *sql.Tx) salary.Repository {
	if f.withTxFn != nil {
		return f.withTxFn(tx)
	}
	return f
}

func (f *fakeSalaryRepository) LockOpenByAgent(ctx context.Context, orgID, agentID string) ([]salary.SalaryRecord, error) {
	if f.lockOpenByAgentFn != nil {
		return f.lockOpenByAgentFn(ctx, orgID, agentID)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) Close(ctx context.Context, id string, closeAt time.Time) error {
	if f.closeFn != nil {
		return f.closeFn(ctx, id, closeAt)
	}
	return nil
}

func (f *fakeSalaryRepository) Create(ctx context.Context, record *salary.SalaryRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, record)
	}
	return nil
}

func (f *fakeSalaryRepository) ListByAgent(ctx context.Context, orgID, agentID string) ([]salary.SalaryRecord, error) {
	if f.listByAgentFn != nil {
		return f.listByAgentFn(ctx, orgID, agentID)
	}
	return nil, nil
}

func (f *fakeSalaryRepository) SumActiveForScope(ctx context.Context, scope org.Scope, asOf time.Time) (decimal.Decimal, error) {
	if f.sumActiveForScopeFn != nil {
		return f.sumActiveForScopeFn(ctx, scope, asOf)
	}
	return decimal.Zero, nil
}

type serviceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service salary.Service
	repo    *fakeSalaryRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeSalaryRepository{}
	svc := salary.NewService(db, repo)

	return &serviceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestSalaryService_SetSalary(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	agentID := uuid.New().String()

	validReq := func() salary.SetSalaryRequest {
		return salary.SetSalaryRequest{
			AgentID:       agentID,
			Role:          "agent",
			MonthlyAmount: decimal.NewFromInt(15000),
			EffectiveFrom: "2025-07-01",
		}
	}

	t.Run("first record defaults currency and opens the window", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		deps.repo.createFn = func(ctx context.Context, record *salary.SalaryRecord) error {
			assert.Equal(t, agentID, record.AgentID.String())
			assert.Equal(t, "EGP", record.Currency)
			assert.Nil(t, record.EffectiveTo)
			return nil
		}

		resp, err := deps.service.SetSalary(ctx, orgID, validReq())
		assert.NoError(t, err)
		assert.Equal(t, "EGP", resp.Currency)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("a raise closes the previous window at the new start", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, true)

		prev := salary.SalaryRecord{
			ID:            uuid.New(),
			OrgID:         uuid.MustParse(orgID),
			AgentID:       uuid.MustParse(agentID),
			MonthlyAmount: decimal.NewFromInt(12000),
			EffectiveFrom: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		}
		var closedID string
		deps.repo.lockOpenByAgentFn = func(ctx context.Context, oid, aid string) ([]salary.SalaryRecord, error) {
			return []salary.SalaryRecord{prev}, nil
		}
		deps.repo.closeFn = func(ctx context.Context, id string, closeAt time.Time) error {
			closedID = id
			assert.Equal(t, "2025-07-01", closeAt.Format("2006-01-02"))
			return nil
		}

		_, err := deps.service.SetSalary(ctx, orgID, validReq())
		assert.NoError(t, err)
		assert.Equal(t, prev.ID.String(), closedID)
	})

	t.Run("backdated start inside the open window is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		expectTx(t, deps.sqlMock, false)

		deps.repo.lockOpenByAgentFn = func(ctx context.Context, oid, aid string) ([]salary.SalaryRecord, error) {
			return []salary.SalaryRecord{{
				ID:            uuid.New(),
				EffectiveFrom: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC),
			}}, nil
		}

		_, err := deps.service.SetSalary(ctx, orgID, validReq())
		assert.ErrorIs(t, err, salaryerrors.ErrOverlappingWindow)
	})

	t.Run("negative salary is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.db.Close()

		req := validReq()
		req.MonthlyAmount = decimal.NewFromInt(-1)

		_, err := deps.service.SetSalary(ctx, orgID, req)
		assert.ErrorIs(t, err, salaryerrors.ErrNegativeSalary)
	})
}

func TestSalaryService_TotalForScope(t *testing.T) {
	deps := setupServiceTest(t)
	defer deps.db.Close()

	ctx := context.Background()
	orgID := uuid.New().String()
	scope := org.OrganizationScope(orgID)
	month, err := period.Parse("2025-06")
	assert.NoError(t, err)

	var gotAsOf time.Time
	deps.repo.sumActiveForScopeFn = func(ctx context.Context, s org.Scope, asOf time.Time) (decimal.Decimal, error) {
		gotAsOf = asOf
		return decimal.NewFromInt(145000), nil
	}

	total, err := deps.service.TotalForScope(ctx, scope, month)
	assert.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(145000)))
	// Salaries resolve at the period end, so a mid-month raise bills at the new rate.
	assert.Equal(t, "2025-06-30", gotAsOf.Format("2006-01-02"))
}

package report

import (
	"context"

	"brokmang/internal/org"
	"brokmang/internal/pnl"
	"brokmang/internal/shared/period"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// rollupConcurrency bounds the number of scopes computed in parallel during a
// full-hierarchy rollup so a large org does not exhaust DB connections.
const rollupConcurrency = 8

type Service interface {
	Report(ctx context.Context, scope org.Scope, month period.Month) (pnl.Result, error)
	ReportRange(ctx context.Context, scope org.Scope, from, to period.Month) (RangeResponse, error)
	Rollup(ctx context.Context, orgID string, month period.Month) (RollupResponse, error)
}

type service struct {
	aggregator pnl.Aggregator
	orgs       org.Repository
	cache      *Cache
	group      singleflight.Group
	logger     *zap.Logger
}

func NewService(aggregator pnl.Aggregator, orgs org.Repository, cache *Cache) Service {
	return &service{
		aggregator: aggregator,
		orgs:       orgs,
		cache:      cache,
		logger:     zap.L().Named("report_service"),
	}
}

func (s *service) Report(ctx context.Context, scope org.Scope, month period.Month) (pnl.Result, error) {
	if _, err := s.orgs.FindOrganization(ctx, scope.OrgID); err != nil {
		return pnl.Result{}, mapRepositoryError(err)
	}
	return s.computeCached(ctx, scope, month)
}

// ReportRange computes one result per month of the inclusive range. Each
// month is an independent statement under the rates effective back then;
// range totals are for the caller to derive.
func (s *service) ReportRange(ctx context.Context, scope org.Scope, from, to period.Month) (RangeResponse, error) {
	months, err := period.Range(from, to)
	if err != nil {
		return RangeResponse{}, err
	}
	if _, err := s.orgs.FindOrganization(ctx, scope.OrgID); err != nil {
		return RangeResponse{}, mapRepositoryError(err)
	}

	results := make([]pnl.Result, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rollupConcurrency)
	for i, month := range months {
		g.Go(func() error {
			result, err := s.computeCached(gctx, scope, month)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RangeResponse{}, err
	}

	return RangeResponse{From: from.String(), To: to.String(), Results: results}, nil
}

// Rollup reports the whole hierarchy for one month from a single snapshot, so
// a unit created mid-request cannot appear in some rows and not others.
func (s *service) Rollup(ctx context.Context, orgID string, month period.Month) (RollupResponse, error) {
	hierarchy, err := s.orgs.LoadHierarchy(ctx, orgID)
	if err != nil {
		return RollupResponse{}, mapRepositoryError(err)
	}

	scopes := hierarchy.Scopes()
	results := make([]pnl.Result, len(scopes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rollupConcurrency)
	for i, scope := range scopes {
		g.Go(func() error {
			result, err := s.computeCached(gctx, scope, month)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("rollup failed", zap.String("org_id", orgID),
			zap.String("period", month.String()), zap.Error(err))
		return RollupResponse{}, err
	}

	response := RollupResponse{Period: month.String()}
	for i, scope := range scopes {
		switch scope.Kind {
		case org.ScopeOrganization:
			response.Organization = results[i]
		case org.ScopeBusinessUnit:
			response.BusinessUnits = append(response.BusinessUnits, results[i])
		case org.ScopeTeam:
			response.Teams = append(response.Teams, results[i])
		case org.ScopeAgent:
			response.Agents = append(response.Agents, results[i])
		}
	}
	return response, nil
}

// computeCached collapses concurrent requests for the same scope+month into a
// single aggregator run and keeps the result in Redis for a short TTL.
func (s *service) computeCached(ctx context.Context, scope org.Scope, month period.Month) (pnl.Result, error) {
	key := CacheKey(scope.OrgID, scope.Kind, scope.ID, month)

	if result, ok := s.cache.Get(ctx, key); ok {
		return result, nil
	}

	value, err, _ := s.group.Do(key, func() (any, error) {
		if result, ok := s.cache.Get(ctx, key); ok {
			return result, nil
		}
		result, err := s.aggregator.Compute(ctx, scope, month)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, key, result)
		return result, nil
	})
	if err != nil {
		return pnl.Result{}, err
	}
	return value.(pnl.Result), nil
}

package dashboard

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const recentOrderCount = 5

type Service struct {
	repo  Repository
	cache *Cache
	now   func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// Overview assembles the dashboard, serving a cached copy when fresh.
func (s *Service) Overview(ctx context.Context, userID uuid.UUID) (Overview, error) {
	key, err := s.cache.BuildKey(ctx, "dashboard", "overview", userID.String())
	if err != nil {
		return Overview{}, fmt.Errorf("build cache key: %w", err)
	}

	var overview Overview
	err = s.cache.FetchJSON(ctx, key, &overview, func(ctx context.Context) (interface{}, error) {
		return s.load(ctx, userID)
	})
	if err != nil {
		return Overview{}, err
	}
	return overview, nil
}

// Invalidate drops cached dashboards after a mutation elsewhere.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (Overview, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prevMonthStart := monthStart.AddDate(0, -1, 0)
	activeSince := now.AddDate(0, -3, 0)

	var overview Overview
	var prevRevenue float64

	// Each metric runs as its own query; they can observe slightly
	// different instants, which is acceptable for a dashboard.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.repo.OpenOrders(gctx, userID)
		if err != nil {
			return fmt.Errorf("open orders: %w", err)
		}
		overview.Stats.OpenOrders = count
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.ActiveClients(gctx, userID, activeSince)
		if err != nil {
			return fmt.Errorf("active clients: %w", err)
		}
		overview.Stats.ActiveClients = count
		return nil
	})
	g.Go(func() error {
		stock, lowStock, err := s.repo.StockTotals(gctx, userID)
		if err != nil {
			return fmt.Errorf("stock totals: %w", err)
		}
		overview.Stats.StockItems = stock
		overview.Stats.LowStockItems = lowStock
		return nil
	})
	g.Go(func() error {
		amount, cost, err := s.repo.RevenueWindow(gctx, userID, monthStart, now)
		if err != nil {
			return fmt.Errorf("current month revenue: %w", err)
		}
		overview.Stats.MonthlyRevenue = amount
		overview.Stats.MonthlyCost = cost
		overview.Stats.MonthlyProfit = amount - cost
		return nil
	})
	g.Go(func() error {
		amount, _, err := s.repo.RevenueWindow(gctx, userID, prevMonthStart, monthStart)
		if err != nil {
			return fmt.Errorf("previous month revenue: %w", err)
		}
		prevRevenue = amount
		return nil
	})
	g.Go(func() error {
		recent, err := s.repo.RecentOrders(gctx, userID, recentOrderCount)
		if err != nil {
			return fmt.Errorf("recent orders: %w", err)
		}
		overview.RecentOrders = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	overview.Stats.RevenueChange = RevenueChange(overview.Stats.MonthlyRevenue, prevRevenue)
	if overview.RecentOrders == nil {
		overview.RecentOrders = []RecentOrder{}
	}
	return overview, nil
}

// RevenueChange reports the month-over-month delta as a rounded percent.
// A zero previous month reads as flat 0%, never infinite.
func RevenueChange(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return math.Round((current - previous) / previous * 100)
}

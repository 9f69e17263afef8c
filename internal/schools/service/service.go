// Package service serves the cached DUO school directory, refreshing all
// sectors in parallel when the cache has expired.
package service

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"onderwijsloket_backend/internal/events"
	"onderwijsloket_backend/internal/schools/duo"
	"onderwijsloket_backend/internal/schools/repository"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// Fetcher loads one sector from the DUO API.
type Fetcher interface {
	FetchSector(ctx context.Context, resourceID, gemeente string) ([]duo.Record, error)
}

// Service implements the schools use cases.
type Service struct {
	repo    repository.Repository
	fetcher Fetcher
	cfg     config.SchoolsConfig
	bus     events.Bus
	log     *logger.Logger
}

// New creates the schools service.
func New(repo repository.Repository, fetcher Fetcher, cfg config.SchoolsConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		fetcher: fetcher,
		cfg:     cfg,
		bus:     bus,
		log:     log,
	}
}

// List returns the school directory per sector, refreshing it when any
// sector cache is missing or expired. The whole directory refreshes as
// one unit, matching the all-or-nothing cache swap.
func (s *Service) List(ctx context.Context) (caches []repository.SectorCache, fromCache bool, err error) {
	fresh, err := s.repo.Fresh(ctx)
	if err != nil {
		return nil, false, err
	}
	if len(fresh) == len(duo.Resources) {
		return fresh, true, nil
	}

	if err := s.Refresh(ctx); err != nil {
		// A stale partial cache beats an empty page when DUO is down.
		if len(fresh) > 0 {
			s.log.Warn("schools_refresh_failed", "error", err.Error())
			return fresh, true, nil
		}
		return nil, false, err
	}

	fresh, err = s.repo.Fresh(ctx)
	return fresh, false, err
}

// Refresh fetches all sectors from DUO in parallel and swaps the cache.
func (s *Service) Refresh(ctx context.Context) error {
	gemeente := s.cfg.GetSchoolsGemeente()

	var mu sync.Mutex
	entries := make(map[string][]duo.Record, len(duo.Resources))

	g, gctx := errgroup.WithContext(ctx)
	for _, res := range duo.Resources {
		g.Go(func() error {
			records, err := s.fetcher.FetchSector(gctx, res.ResourceID, gemeente)
			if err != nil {
				return fmt.Errorf("sector %s: %w", res.Sector, err)
			}
			mu.Lock()
			entries[res.Sector] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := s.repo.Replace(ctx, entries, s.cfg.GetSchoolsCacheTTL()); err != nil {
		return err
	}

	total := 0
	for _, records := range entries {
		total += len(records)
	}
	s.bus.Publish(ctx, events.SchoolsRefreshed{
		BaseEvent: events.NewBaseEvent(),
		Sectors:   len(entries),
		Schools:   total,
	})
	return nil
}

// Package service refreshes and serves the scraped event agenda.
package service

import (
	"context"
	"strings"
	"time"

	"onderwijsloket_backend/internal/agenda/repository"
	"onderwijsloket_backend/internal/agenda/scraper"
	"onderwijsloket_backend/internal/events"
	"onderwijsloket_backend/platform/config"
	"onderwijsloket_backend/platform/logger"
)

// scrapeDelay spaces out Firecrawl calls between sources.
const scrapeDelay = 500 * time.Millisecond

// Source is one agenda page to scrape.
type Source struct {
	Name string
	URL  string
}

// DefaultSources are the Rotterdam-focused agenda pages.
var DefaultSources = []Source{
	{Name: "Onderwijsloket Rotterdam", URL: "https://www.onderwijsloketrotterdam.nl/activiteiten"},
	{Name: "Onderwijs010", URL: "https://www.onderwijs010.nl/activiteiten"},
	{Name: "Landelijk Onderwijsloket", URL: "https://www.onderwijsloket.com/activiteiten"},
}

// Scraper fetches a page as markdown.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Service implements the agenda use cases.
type Service struct {
	repo    repository.Repository
	scraper Scraper
	cfg     config.AgendaConfig
	bus     events.Bus
	log     *logger.Logger

	delay time.Duration
}

// New creates the agenda service.
func New(repo repository.Repository, sc Scraper, cfg config.AgendaConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		scraper: sc,
		cfg:     cfg,
		bus:     bus,
		log:     log,
		delay:   scrapeDelay,
	}
}

// Sources returns the configured agenda sources. Entries are "Name|URL"
// pairs; without configuration the Rotterdam defaults apply.
func (s *Service) Sources() []Source {
	configured := s.cfg.GetAgendaSources()
	if len(configured) == 0 {
		return DefaultSources
	}

	sources := make([]Source, 0, len(configured))
	for _, entry := range configured {
		name, url, found := strings.Cut(entry, "|")
		if !found || strings.TrimSpace(url) == "" {
			continue
		}
		sources = append(sources, Source{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}
	if len(sources) == 0 {
		return DefaultSources
	}
	return sources
}

// List returns the current agenda, re-scraping expired sources first when
// scraping is enabled. cached reports whether everything came from cache.
func (s *Service) List(ctx context.Context) (sources []repository.CachedSource, cached bool, err error) {
	fresh, err := s.repo.Fresh(ctx)
	if err != nil {
		return nil, false, err
	}

	if !s.cfg.IsAgendaEnabled() {
		return fresh, true, nil
	}

	stale := s.staleSources(fresh)
	if len(stale) == 0 {
		return fresh, true, nil
	}

	if _, err := s.scrapeSources(ctx, stale); err != nil {
		return nil, false, err
	}

	fresh, err = s.repo.Fresh(ctx)
	return fresh, false, err
}

// Refresh re-scrapes all expired sources and publishes the refresh event.
// Used by the background scheduler.
func (s *Service) Refresh(ctx context.Context) error {
	if !s.cfg.IsAgendaEnabled() {
		return nil
	}

	fresh, err := s.repo.Fresh(ctx)
	if err != nil {
		return err
	}
	stale := s.staleSources(fresh)
	if len(stale) == 0 {
		return nil
	}

	total, err := s.scrapeSources(ctx, stale)
	if err != nil {
		return err
	}

	s.bus.Publish(ctx, events.AgendaRefreshed{
		BaseEvent: events.NewBaseEvent(),
		Sources:   len(stale),
		Events:    total,
	})
	return nil
}

func (s *Service) staleSources(fresh []repository.CachedSource) []Source {
	cachedURLs := make(map[string]bool, len(fresh))
	for _, f := range fresh {
		cachedURLs[f.SourceURL] = true
	}

	var stale []Source
	for _, src := range s.Sources() {
		if !cachedURLs[src.URL] {
			stale = append(stale, src)
		}
	}
	return stale
}

// scrapeSources scrapes the given sources sequentially with a small delay
// between calls. A single failing source is logged and skipped so one dead
// page cannot empty the whole agenda.
func (s *Service) scrapeSources(ctx context.Context, sources []Source) (total int, err error) {
	ttl := s.cfg.GetAgendaCacheTTL()

	for i, src := range sources {
		if i > 0 {
			select {
			case <-ctx.Done():
				return total, ctx.Err()
			case <-time.After(s.delay):
			}
		}

		markdown, err := s.scraper.Scrape(ctx, src.URL)
		if err != nil {
			s.log.ScrapeResult(src.Name, 0, err)
			continue
		}

		extracted := scraper.ExtractEvents(markdown, src.Name)
		if err := s.repo.Upsert(ctx, src.URL, src.Name, extracted, ttl); err != nil {
			s.log.ScrapeResult(src.Name, 0, err)
			continue
		}

		s.log.ScrapeResult(src.Name, len(extracted), nil)
		total += len(extracted)
	}
	return total, nil
}

// Package handler exposes the agenda HTTP endpoint.
package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"onderwijsloket_backend/internal/agenda/repository"
	"onderwijsloket_backend/internal/agenda/scraper"
	"onderwijsloket_backend/internal/agenda/transport"
	"onderwijsloket_backend/platform/httpkit"
)

// Service is the agenda logic the handler depends on.
type Service interface {
	List(ctx context.Context) (sources []repository.CachedSource, cached bool, err error)
}

// Handler handles agenda HTTP requests.
type Handler struct {
	service Service
}

// NewHandler creates a new agenda handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetAgenda returns the scraped event agenda, refreshing expired sources
// on the way when scraping is enabled.
// GET /api/v1/agenda
func (h *Handler) GetAgenda(c *gin.Context) {
	sources, cached, err := h.service.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := transport.AgendaResponse{
		Cached:  cached,
		Events:  make([]scraper.Event, 0),
		Sources: make([]transport.SourceResponse, 0, len(sources)),
	}
	for _, s := range sources {
		resp.Events = append(resp.Events, s.Events...)
		resp.Sources = append(resp.Sources, transport.SourceResponse{
			SourceName: s.SourceName,
			SourceURL:  s.SourceURL,
			ScrapedAt:  s.ScrapedAt,
			Events:     s.Events,
		})
	}
	httpkit.OK(c, resp)
}

// Package handler exposes the school directory HTTP endpoint.
package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"onderwijsloket_backend/internal/schools/duo"
	"onderwijsloket_backend/internal/schools/repository"
	"onderwijsloket_backend/platform/httpkit"
)

// Service is the schools logic the handler depends on.
type Service interface {
	List(ctx context.Context) (caches []repository.SectorCache, fromCache bool, err error)
}

// Handler handles school directory HTTP requests.
type Handler struct {
	service Service
}

// NewHandler creates a new schools handler.
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type sectorResponse struct {
	Sector    string       `json:"sector"`
	Schools   []duo.Record `json:"schools"`
	ScrapedAt time.Time    `json:"scrapedAt"`
}

type schoolsResponse struct {
	FromCache bool             `json:"fromCache"`
	Sectors   []sectorResponse `json:"sectors"`
}

// GetSchools returns the cached DUO school directory per sector.
// GET /api/v1/schools
func (h *Handler) GetSchools(c *gin.Context) {
	caches, fromCache, err := h.service.List(c.Request.Context())
	if err != nil {
		httpkit.HandleError(c, err)
		return
	}

	resp := schoolsResponse{
		FromCache: fromCache,
		Sectors:   make([]sectorResponse, 0, len(caches)),
	}
	for _, cache := range caches {
		resp.Sectors = append(resp.Sectors, sectorResponse{
			Sector:    cache.Sector,
			Schools:   cache.Schools,
			ScrapedAt: cache.ScrapedAt,
		})
	}
	httpkit.OK(c, resp)
}

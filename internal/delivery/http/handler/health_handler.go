package handler

import (
	"skill-radar/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type healthData struct {
	Rows        int    `json:"rows"`
	Source      string `json:"source"`
	Fingerprint string `json:"fingerprint"`
}

type catalog interface {
	Len() int
	Fingerprint() string
}

type HealthHandler struct {
	catalog catalog
	source  string
}

func NewHealthHandler(c catalog, source string) *HealthHandler {
	return &HealthHandler{catalog: c, source: source}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

func (h *HealthHandler) Health(c fiber.Ctx) error {
	data := healthData{Source: h.source}
	if h.catalog != nil {
		data.Rows = h.catalog.Len()
		data.Fingerprint = h.catalog.Fingerprint()
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

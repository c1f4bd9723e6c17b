package handler

import (
	"errors"
	"strconv"
	"strings"

	"skill-radar/internal/delivery/http/middleware"
	"skill-radar/internal/pkg/response"
	"skill-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

const (
	msgInvalidLimit  = "invalid limit"
	msgNameRequired  = "name is required"
	msgSkillNotFound = "Skill not found"
)

type SkillRiskHandler struct {
	uc usecase.SkillRiskUsecase
}

func NewSkillRiskHandler(uc usecase.SkillRiskUsecase) *SkillRiskHandler {
	return &SkillRiskHandler{uc: uc}
}

func (h *SkillRiskHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/skills", h.List)
	r.Get("/skill", h.FindByName)
	r.Get("/high-risk", h.HighRisk)
	r.Get("/low-risk", h.LowRisk)
	r.Get("/category-stats", h.CategoryStats)
}

func (h *SkillRiskHandler) List(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", usecase.DefaultListLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidLimit, nil, err)
	}
	return response.Raw(c, fiber.StatusOK, h.uc.ListSkills(limit))
}

func (h *SkillRiskHandler) FindByName(c fiber.Ctx) error {
	res, err := h.uc.FindByName(c.Context(), c.Query("name"))
	if err != nil {
		return mapSkillRiskUsecaseError(err)
	}
	return response.Raw(c, fiber.StatusOK, res)
}

func (h *SkillRiskHandler) HighRisk(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", usecase.DefaultRiskLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidLimit, nil, err)
	}
	return response.Raw(c, fiber.StatusOK, h.uc.HighRisk(limit))
}

func (h *SkillRiskHandler) LowRisk(c fiber.Ctx) error {
	limit, err := parseQueryIntStrict(c, "limit", usecase.DefaultRiskLimit)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, msgInvalidLimit, nil, err)
	}
	return response.Raw(c, fiber.StatusOK, h.uc.LowRisk(limit))
}

func (h *SkillRiskHandler) CategoryStats(c fiber.Ctx) error {
	return response.Raw(c, fiber.StatusOK, h.uc.CategoryStats())
}

func parseQueryIntStrict(c fiber.Ctx, key string, defaultVal int) (int, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	return v, nil
}

func mapSkillRiskUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, msgNameRequired, nil, err)
	case errors.Is(err, usecase.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, msgSkillNotFound, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

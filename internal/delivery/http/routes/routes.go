package routes

import (
	"skill-radar/internal/delivery/http/handler"
	"skill-radar/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health *handler.HealthHandler
	skills *handler.SkillRiskHandler
}

func NewRegistry(uc usecase.SkillRiskUsecase, source string) *Registry {
	return &Registry{
		health: handler.NewHealthHandler(uc, source),
		skills: handler.NewSkillRiskHandler(uc),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.skills.RegisterRoutes(app)
}

package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/internal/application/analytics"
)

// StatsHandler tablero del período.
type StatsHandler struct {
	uc *analytics.StatsUseCase
}

// NewStatsHandler construye el handler.
func NewStatsHandler(uc *analytics.StatsUseCase) *StatsHandler {
	return &StatsHandler{uc: uc}
}

// Get godoc
// @Summary      Estadísticas del período
// @Tags         stats
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "day, week, month o year"  default(month)
// @Success      200  {object}  dto.StatsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stats [get]
func (h *StatsHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.GetStats(c.UserContext(), GetTenant(c), c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

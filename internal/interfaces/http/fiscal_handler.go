package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/pkg/afip"
)

// CheckCUIT godoc
// @Summary      Validar CUIT (dígito verificador)
// @Tags         fiscal
// @Produce      json
// @Param        cuit  path  string  true  "CUIT con o sin guiones"
// @Success      200   {object}  dto.CUITCheckResponse
// @Router       /api/fiscal/cuit/{cuit} [get]
func CheckCUIT(c *fiber.Ctx) error {
	raw := c.Params("cuit")
	out := dto.CUITCheckResponse{CUIT: afip.NormalizeCUIT(raw)}
	if err := afip.ValidateCUIT(raw); err != nil {
		out.Reason = err.Error()
		return c.JSON(out)
	}
	out.Valid = true
	out.Formatted = afip.FormatCUIT(raw)
	return c.JSON(out)
}

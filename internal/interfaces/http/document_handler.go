package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/internal/application/documents"
	"github.com/jhoicas/mostrador-api/internal/application/dto"
)

// DocumentHandler facturas, remitos y presupuestos.
type DocumentHandler struct {
	uc *documents.DocumentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.DocumentUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear comprobante
// @Description  Para facturas la letra (A/B/C) se determina por la condición fiscal de empresa y cliente.
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave de reintento"
// @Param        body  body  dto.CreateDocumentRequest  true  "Comprobante"
// @Success      201   {object}  dto.DocumentResponse
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return writeError(c, err)
	}
	in.IdempotencyKey = key
	out, replay, err := h.uc.CreateDocument(c.UserContext(), GetTenant(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return created(c, out, replay)
}

// List godoc
// @Summary      Listar comprobantes
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        type       query  string  false  "INVOICE, REMITO o QUOTE"
// @Param        status     query  string  false  "DRAFT, SENT, PAID o CANCELLED"
// @Param        client_id  query  string  false  "Cliente"
// @Param        limit      query  int     false  "Límite"  default(20)
// @Param        offset     query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.DocumentListResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	var q dto.DocumentQuery
	if err := parseQuery(c, &q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ListDocuments(c.UserContext(), GetTenant(c), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener comprobante con ítems
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetDocument(c.UserContext(), GetTenant(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar comprobante
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del comprobante"
// @Param        body  body  dto.UpdateDocumentRequest  true  "Cambios"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [put]
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.UpdateDocument(c.UserContext(), GetTenant(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar comprobante
// @Tags         documents
// @Security     Bearer
// @Param        id   path  string  true  "ID del comprobante"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteDocument(c.UserContext(), GetTenant(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Authorize godoc
// @Summary      Autorizar factura (CAE simulado)
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del comprobante"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/authorize [post]
func (h *DocumentHandler) Authorize(c *fiber.Ctx) error {
	out, err := h.uc.AuthorizeDocument(c.UserContext(), GetTenant(c), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// ContentHandler secciones públicas del portal.
type ContentHandler struct {
	uc  *usecase.ContentUseCase
	log *logger.Logger
}

// NewContentHandler construye el handler.
func NewContentHandler(uc *usecase.ContentUseCase, log *logger.Logger) *ContentHandler {
	return &ContentHandler{uc: uc, log: log}
}

// GetSection godoc
// @Summary      Contenido público de una sección
// @Tags         content
// @Produce      json
// @Param        section  path  string  true  "lugares | servicios | historia | emergencias"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/content/{section} [get]
func (h *ContentHandler) GetSection(c *fiber.Ctx) error {
	out, err := h.uc.GetSection(c.UserContext(), c.Params("section"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}

// UpsertSection godoc
// @Summary      Editar una sección pública
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        section  path  string                    true  "Sección"
// @Param        body     body  dto.UpsertContentRequest  true  "Contenido"
// @Success      200  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/content/{section} [put]
func (h *ContentHandler) UpsertSection(c *fiber.Ctx) error {
	var in dto.UpsertContentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpsertSection(c.UserContext(), GetPrincipal(c), c.Params("section"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Contenido actualizado correctamente", out))
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// SecurityRegistrationHandler inscripciones al plan de seguridad.
type SecurityRegistrationHandler struct {
	uc  *usecase.SecurityRegistrationUseCase
	log *logger.Logger
}

// NewSecurityRegistrationHandler construye el handler.
func NewSecurityRegistrationHandler(uc *usecase.SecurityRegistrationUseCase, log *logger.Logger) *SecurityRegistrationHandler {
	return &SecurityRegistrationHandler{uc: uc, log: log}
}

// Submit godoc
// @Summary      Inscribirse al plan de seguridad
// @Tags         security
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSecurityRegistrationRequest  true  "Datos del hogar"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/security-registrations [post]
func (h *SecurityRegistrationHandler) Submit(c *fiber.Ctx) error {
	var in dto.CreateSecurityRegistrationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Submit(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Done("Registro enviado correctamente", out))
}

// GetByID godoc
// @Summary      Obtener registro de seguridad
// @Description  El autor del registro o un administrador.
// @Tags         security
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del registro"
// @Success      200  {object}  dto.DataResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/security-registrations/{id} [get]
func (h *SecurityRegistrationHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}

// List godoc
// @Summary      Listar registros de seguridad
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | active | rejected"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.ListResponse
// @Router       /api/admin/security-registrations [get]
func (h *SecurityRegistrationHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	items, meta, err := h.uc.List(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{Success: true, Items: items, Page: meta})
}

// Approve godoc
// @Summary      Aprobar registro de seguridad
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del registro"
// @Param        body  body  dto.ReviewRequest  false  "Notas"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/security-registrations/{id}/approve [post]
func (h *SecurityRegistrationHandler) Approve(c *fiber.Ctx) error {
	in, err := parseReview(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Approve(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Registro aprobado correctamente", out))
}

// Reject godoc
// @Summary      Rechazar registro de seguridad
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID del registro"
// @Param        body  body  dto.ReviewRequest  false  "Motivo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/security-registrations/{id}/reject [post]
func (h *SecurityRegistrationHandler) Reject(c *fiber.Ctx) error {
	in, err := parseReview(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reject(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Registro rechazado correctamente", out))
}

// UpdateNotes godoc
// @Summary      Editar notas de revisión
// @Description  Solo sobre registros rechazados.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del registro"
// @Param        body  body  dto.ReviewRequest  true  "Notas"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/security-registrations/{id}/notes [put]
func (h *SecurityRegistrationHandler) UpdateNotes(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateReviewNotes(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Notas actualizadas correctamente", out))
}

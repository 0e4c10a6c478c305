package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// EventHandler eventos comunitarios e inscripciones.
type EventHandler struct {
	uc  *usecase.EventUseCase
	log *logger.Logger
}

// NewEventHandler construye el handler.
func NewEventHandler(uc *usecase.EventUseCase, log *logger.Logger) *EventHandler {
	return &EventHandler{uc: uc, log: log}
}

// ListEvents godoc
// @Summary      Listar eventos
// @Tags         events
// @Produce      json
// @Param        limit   query  int  false  "Límite"
// @Param        offset  query  int  false  "Offset"
// @Success      200  {object}  dto.ListResponse
// @Router       /api/events [get]
func (h *EventHandler) ListEvents(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	items, meta, err := h.uc.ListEvents(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{Success: true, Items: items, Page: meta})
}

// CreateEvent godoc
// @Summary      Publicar evento
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEventRequest  true  "Datos del evento"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/admin/events [post]
func (h *EventHandler) CreateEvent(c *fiber.Ctx) error {
	var in dto.CreateEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateEvent(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Done("Evento creado correctamente", out))
}

// Register godoc
// @Summary      Inscribirse a un evento
// @Tags         events
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        eventId  path  string                              true   "ID del evento"
// @Param        body     body  dto.CreateEventRegistrationRequest  false  "Asistentes"
// @Success      201  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/events/{eventId}/registrations [post]
func (h *EventHandler) Register(c *fiber.Ctx) error {
	var in dto.CreateEventRegistrationRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Register(c.UserContext(), GetUser(c), c.Params("eventId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Done("Inscripción registrada correctamente", out))
}

// Cancel godoc
// @Summary      Cancelar mi inscripción
// @Tags         events
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.MessageResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/event-registrations/{id}/cancel [post]
func (h *EventHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.Cancel(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Inscripción cancelada correctamente", out))
}

// List godoc
// @Summary      Listar inscripciones a eventos
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        eventId  query  string  false  "Filtrar por evento"
// @Param        status   query  string  false  "pending | confirmed | blocked | cancelled"
// @Param        limit    query  int     false  "Límite"
// @Param        offset   query  int     false  "Offset"
// @Success      200  {object}  dto.ListResponse
// @Router       /api/admin/event-registrations [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	var filter usecase.RegistrationFilter
	var page dto.PageRequest
	if err := c.QueryParser(&filter); err != nil {
		return badQuery(c)
	}
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	items, meta, err := h.uc.List(c.UserContext(), filter, page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{Success: true, Items: items, Page: meta})
}

// GetByID godoc
// @Summary      Obtener inscripción
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.DataResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/event-registrations/{id} [get]
func (h *EventHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}

// Confirm godoc
// @Summary      Confirmar inscripción
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/event-registrations/{id}/confirm [post]
func (h *EventHandler) Confirm(c *fiber.Ctx) error {
	out, err := h.uc.Confirm(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Inscripción confirmada", out))
}

// Block godoc
// @Summary      Bloquear inscripción
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/event-registrations/{id}/block [post]
func (h *EventHandler) Block(c *fiber.Ctx) error {
	out, err := h.uc.Block(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Inscripción bloqueada", out))
}

// Unblock godoc
// @Summary      Desbloquear inscripción
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/event-registrations/{id}/unblock [post]
func (h *EventHandler) Unblock(c *fiber.Ctx) error {
	out, err := h.uc.Unblock(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Inscripción desbloqueada", out))
}

// Delete godoc
// @Summary      Eliminar inscripción
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la inscripción"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/event-registrations/{id} [delete]
func (h *EventHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Inscripción eliminada correctamente", nil))
}

package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/portal-comunitario-api/internal/application/dto"
	"github.com/jhoicas/portal-comunitario-api/internal/application/usecase"
	"github.com/jhoicas/portal-comunitario-api/pkg/logger"
)

// CameraAccessHandler solicitudes de acceso a cámaras y permisos.
type CameraAccessHandler struct {
	uc  *usecase.CameraAccessUseCase
	log *logger.Logger
}

// NewCameraAccessHandler construye el handler.
func NewCameraAccessHandler(uc *usecase.CameraAccessUseCase, log *logger.Logger) *CameraAccessHandler {
	return &CameraAccessHandler{uc: uc, log: log}
}

// RequestAccess godoc
// @Summary      Solicitar acceso a una cámara
// @Tags         camera-access
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateAccessRequest  true  "cameraId, cameraName, reason"
// @Success      201  {object}  dto.MessageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/camera-access/requests [post]
func (h *CameraAccessHandler) RequestAccess(c *fiber.Ctx) error {
	var in dto.CreateAccessRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RequestAccess(c.UserContext(), GetUser(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.Done("Solicitud enviada correctamente", out))
}

// MyGrants godoc
// @Summary      Cámaras a las que tengo acceso
// @Tags         camera-access
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DataResponse
// @Router       /api/camera-access/mine [get]
func (h *CameraAccessHandler) MyGrants(c *fiber.Ctx) error {
	out, err := h.uc.MyGrants(c.UserContext(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}

// CheckAccess godoc
// @Summary      Verificar acceso a una cámara
// @Tags         camera-access
// @Security     Bearer
// @Produce      json
// @Param        cameraId  path  string  true  "ID de la cámara"
// @Success      200  {object}  dto.DataResponse
// @Router       /api/camera-access/check/{cameraId} [get]
func (h *CameraAccessHandler) CheckAccess(c *fiber.Ctx) error {
	out, err := h.uc.CheckAccess(c.UserContext(), GetUserID(c), c.Params("cameraId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(out))
}

// ListRequests godoc
// @Summary      Listar solicitudes de acceso
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | approved | rejected"
// @Param        limit   query  int     false  "Límite"
// @Param        offset  query  int     false  "Offset"
// @Success      200  {object}  dto.ListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/camera-access/requests [get]
func (h *CameraAccessHandler) ListRequests(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badQuery(c)
	}
	items, meta, err := h.uc.ListRequests(c.UserContext(), c.Query("status"), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ListResponse{Success: true, Items: items, Page: meta})
}

// Approve godoc
// @Summary      Aprobar solicitud de acceso
// @Description  Marca la solicitud como aprobada y otorga acceso de vista a la cámara.
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  false  "Notas"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/camera-access/requests/{id}/approve [post]
func (h *CameraAccessHandler) Approve(c *fiber.Ctx) error {
	in, err := parseReview(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Approve(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Solicitud aprobada correctamente", out))
}

// Reject godoc
// @Summary      Rechazar solicitud de acceso
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID de la solicitud"
// @Param        body  body  dto.ReviewRequest  false  "Motivo"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/admin/camera-access/requests/{id}/reject [post]
func (h *CameraAccessHandler) Reject(c *fiber.Ctx) error {
	in, err := parseReview(c)
	if err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reject(c.UserContext(), GetPrincipal(c), c.Params("id"), in.Notes)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Solicitud rechazada correctamente", out))
}

// Revoke godoc
// @Summary      Revocar acceso a una cámara
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        userId    path  string  true  "ID del usuario"
// @Param        cameraId  path  string  true  "ID de la cámara"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/camera-access/grants/{userId}/{cameraId} [delete]
func (h *CameraAccessHandler) Revoke(c *fiber.Ctx) error {
	if err := h.uc.Revoke(c.UserContext(), GetPrincipal(c), c.Params("userId"), c.Params("cameraId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.Done("Acceso revocado correctamente", nil))
}

// parseReview el cuerpo es opcional en las revisiones.
func parseReview(c *fiber.Ctx) (dto.ReviewRequest, error) {
	var in dto.ReviewRequest
	if len(c.Body()) == 0 {
		return in, nil
	}
	err := c.BodyParser(&in)
	return in, err
}

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vertramos/eco-reporte/internal/middleware"
	"github.com/vertramos/eco-reporte/internal/repository"
)

// UserHandler exposes the citizen's own profile and zone assignment.
type UserHandler struct {
	Users *repository.UserRepo
	Zones *repository.ZoneRepo
}

func NewUserHandler(users *repository.UserRepo, zones *repository.ZoneRepo) *UserHandler {
	return &UserHandler{Users: users, Zones: zones}
}

// Profile handles GET /user/profile.
func (h *UserHandler) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, zoneName, err := h.Users.Profile(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener el perfil"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Perfil obtenido exitosamente",
		"data": echo.Map{
			"idUsuario":      u.ID,
			"name":           u.Name,
			"perfil":         u.Profile,
			"recolectPoints": u.CollectPoints,
			"idZona":         u.ZoneID,
			"zona":           zoneName,
		},
	})
}

type updateZoneReq struct {
	ZoneID uint64 `json:"idZona"`
}

// UpdateZone handles PUT /user/update-zona: assigns the citizen to a
// collection zone.
func (h *UserHandler) UpdateZone(c echo.Context) error {
	var req updateZoneReq
	if err := c.Bind(&req); err != nil || req.ZoneID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Zones.Exists(ctx, req.ZoneID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar la zona"})
	} else if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La zona especificada no existe."})
	}

	if err := h.Users.UpdateZone(ctx, middleware.CurrentUserID(c), req.ZoneID); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Usuario no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar la zona"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Zona actualizada exitosamente"})
}

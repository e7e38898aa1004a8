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

// LocationHandler covers collector position tracking: collectors push
// updates, citizens poll the collector assigned to their zone.
type LocationHandler struct {
	Locations *repository.LocationRepo
	Users     *repository.UserRepo
}

func NewLocationHandler(locations *repository.LocationRepo, users *repository.UserRepo) *LocationHandler {
	return &LocationHandler{Locations: locations, Users: users}
}

type locationReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Update handles POST /locations/update for collectors.
func (h *LocationHandler) Update(c echo.Context) error {
	var req locationReq
	if err := c.Bind(&req); err != nil || req.Latitude == nil || req.Longitude == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Coordenadas inválidas"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Locations.Upsert(ctx, middleware.CurrentUserID(c), *req.Latitude, *req.Longitude); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar la ubicación"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Ubicación actualizada exitosamente"})
}

// GetCollector handles GET /locations/getCollector for citizens: the
// latest position of the collector assigned to the citizen's zone.
func (h *LocationHandler) GetCollector(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener la ubicación del recolector"})
	}
	if u.ZoneID == 0 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "No tienes una zona asignada"})
	}

	collectors, err := h.Users.CollectorsInZone(ctx, u.ZoneID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener la ubicación del recolector"})
	}
	if len(collectors) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "No hay recolectores asignados a tu zona"})
	}

	data := make([]echo.Map, 0, len(collectors))
	for _, col := range collectors {
		loc, err := h.Locations.Latest(ctx, col.ID)
		if err == sql.ErrNoRows {
			continue // collector never pushed a position
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener la ubicación del recolector"})
		}
		data = append(data, echo.Map{
			"idUsuario":  col.ID,
			"name":       col.Name,
			"latitude":   loc.Latitude,
			"longitude":  loc.Longitude,
			"updated_at": loc.UpdatedAt,
		})
	}
	if len(data) == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "El recolector aún no ha reportado su ubicación"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Ubicación obtenida exitosamente",
		"data":    data,
	})
}

package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vertramos/eco-reporte/internal/repository"
)

// ZoneHandler manages collection zones. Create and update are
// admin-only; listing is shared with citizens picking their zone.
type ZoneHandler struct {
	Zones *repository.ZoneRepo
}

func NewZoneHandler(zones *repository.ZoneRepo) *ZoneHandler {
	return &ZoneHandler{Zones: zones}
}

type zoneReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type zoneResp struct {
	ID          uint64 `json:"id"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion"`
}

// Create handles POST /zona/create.
func (h *ZoneHandler) Create(c echo.Context) error {
	var req zoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "El nombre de la zona es obligatorio."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Zones.Create(ctx, req.Name, strings.TrimSpace(req.Description))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al crear la zona"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Zona creada exitosamente",
		"data":    zoneResp{ID: id, Name: req.Name, Description: req.Description},
	})
}

// Update handles PUT /zona/update/:id.
func (h *ZoneHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	var req zoneReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "El nombre de la zona es obligatorio."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Zones.Update(ctx, id, req.Name, strings.TrimSpace(req.Description)); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Zona no encontrada"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar la zona"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Zona actualizada exitosamente"})
}

// List handles GET /zona/list with the shared pagination envelope.
func (h *ZoneHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	zones, total, err := h.Zones.List(ctx, page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener las zonas"})
	}
	out := make([]zoneResp, 0, len(zones))
	for _, z := range zones {
		out = append(out, zoneResp{ID: z.ID, Name: z.Name, Description: z.Description})
	}
	if page < 1 {
		page = 1
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Zonas obtenidas exitosamente",
		"data":    out,
		"pagination": echo.Map{
			"current_page": page,
			"last_page":    lastPage,
			"per_page":     perPage,
			"total":        total,
		},
	})
}

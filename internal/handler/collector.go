package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vertramos/eco-reporte/internal/auth"
	"github.com/vertramos/eco-reporte/internal/repository"
)

// CollectorHandler manages collector accounts (admin-only). Collectors
// are regular users holding the recolector role and an exclusive zone
// assignment.
type CollectorHandler struct {
	Users      *repository.UserRepo
	Zones      *repository.ZoneRepo
	BcryptCost int
}

func NewCollectorHandler(users *repository.UserRepo, zones *repository.ZoneRepo, bcryptCost int) *CollectorHandler {
	return &CollectorHandler{Users: users, Zones: zones, BcryptCost: bcryptCost}
}

type collectorReq struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
	ZoneID   uint64 `json:"idZona"`
	Active   *bool  `json:"estado"`
}

type collectorResp struct {
	ID       uint64 `json:"idUsuario"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Active   bool   `json:"estado"`
	ZoneID   uint64 `json:"idZona"`
	ZoneName string `json:"zona,omitempty"`
}

// validate checks the shared create/update fields. Password is only
// required on create.
func (r *collectorReq) validate(requirePassword bool) string {
	r.Username = strings.TrimSpace(r.Username)
	r.Name = strings.TrimSpace(r.Name)
	switch {
	case r.Username == "":
		return "El nombre de usuario es obligatorio."
	case r.Name == "":
		return "El nombre es obligatorio."
	case requirePassword && len(r.Password) < 6:
		return "La contraseña debe tener al menos 6 caracteres."
	case !requirePassword && r.Password != "" && len(r.Password) < 6:
		return "La contraseña debe tener al menos 6 caracteres."
	case r.ZoneID == 0:
		return "La zona es obligatoria."
	case r.Active == nil:
		return "El estado es obligatorio."
	}
	return ""
}

// List handles GET /recolectores/index.
func (h *CollectorHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	collectors, err := h.Users.ListCollectors(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener los recolectores"})
	}
	out := make([]collectorResp, 0, len(collectors))
	for _, col := range collectors {
		out = append(out, collectorResp{
			ID:       col.ID,
			Username: col.Username,
			Name:     col.Name,
			Active:   col.Active,
			ZoneID:   col.ZoneID,
			ZoneName: col.ZoneName,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Recolectores obtenidos exitosamente",
		"data":    out,
	})
}

// Create handles POST /recolectores/create.
func (h *CollectorHandler) Create(c echo.Context) error {
	var req collectorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	if msg := req.validate(true); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if ok, err := h.Zones.Exists(ctx, req.ZoneID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al crear el recolector"})
	} else if !ok {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La zona especificada no existe."})
	}

	hash, err := auth.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al crear el recolector"})
	}

	id, err := h.Users.CreateCollector(ctx, req.Username, req.Name, hash, req.ZoneID, *req.Active)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "El nombre de usuario ya está en uso."})
		case errors.Is(err, repository.ErrZoneTaken):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La zona seleccionada ya está asignada a otro recolector."})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al crear el recolector"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Recolector creado exitosamente",
		"data": collectorResp{
			ID:       id,
			Username: req.Username,
			Name:     req.Name,
			Active:   *req.Active,
			ZoneID:   req.ZoneID,
		},
	})
}

// Update handles PUT /recolectores/update/:id. An empty password keeps
// the stored one.
func (h *CollectorHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	var req collectorReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	if msg := req.validate(false); msg != "" {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var hash string
	if req.Password != "" {
		hash, err = auth.HashPassword(req.Password, h.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar el recolector"})
		}
	}

	if err := h.Users.UpdateCollector(ctx, id, req.Username, req.Name, hash, req.ZoneID, *req.Active); err != nil {
		switch {
		case err == sql.ErrNoRows:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Recolector no encontrado"})
		case errors.Is(err, repository.ErrUsernameExists):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "El nombre de usuario ya está en uso."})
		case errors.Is(err, repository.ErrZoneTaken):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La zona seleccionada ya está asignada a otro recolector."})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar el recolector"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Recolector actualizado exitosamente"})
}

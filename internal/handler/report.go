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

	"github.com/vertramos/eco-reporte/internal/middleware"
	"github.com/vertramos/eco-reporte/internal/model"
	"github.com/vertramos/eco-reporte/internal/repository"
	"github.com/vertramos/eco-reporte/internal/service"
)

// ReportHandler covers both sides of the report lifecycle: citizens
// create and list their own reports, administrators list everything and
// move reports through pending/accepted/resolved/rejected.
type ReportHandler struct {
	Service *service.ReportService
	Reports *repository.ReportRepo
}

func NewReportHandler(svc *service.ReportService, repo *repository.ReportRepo) *ReportHandler {
	return &ReportHandler{Service: svc, Reports: repo}
}

type createReportReq struct {
	Photo       string  `json:"photo"` // base64 JPEG, data-URL prefix allowed
	Description string  `json:"description"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

type reportResp struct {
	ID          uint64  `json:"id"`
	UserID      uint64  `json:"idUsuario"`
	Description string  `json:"description"`
	ImageURL    string  `json:"image_url"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Status      int     `json:"status"`
	Fecha       string  `json:"fecha"`
	Hora        string  `json:"hora"`
}

func toReportResp(r model.Report) reportResp {
	return reportResp{
		ID:          r.ID,
		UserID:      r.UserID,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Latitude:    r.Latitude,
		Longitude:   r.Longitude,
		Status:      r.Status,
		Fecha:       r.Fecha,
		Hora:        r.Hora,
	}
}

// Create handles POST /reports/create for citizens.
func (h *ReportHandler) Create(c echo.Context) error {
	var req createReportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	req.Description = strings.TrimSpace(req.Description)
	switch {
	case req.Photo == "":
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La evidencia fotográfica es obligatoria."})
	case req.Description == "":
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La descripción del reporte es obligatoria."})
	case len(req.Description) > 1000:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La descripción no puede superar los 1000 caracteres."})
	case req.Latitude < -90 || req.Latitude > 90:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La latitud debe ser un valor numérico válido."})
	case req.Longitude < -180 || req.Longitude > 180:
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "La longitud debe ser un valor numérico válido."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	rep, err := h.Service.Create(ctx, middleware.CurrentUserID(c), req.Description, req.Photo, req.Latitude, req.Longitude)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPendingReport):
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Ya tienes un reporte pendiente. No puedes crear otro hasta que se resuelva el actual."})
		case errors.Is(err, service.ErrBadImage):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "Error al decodificar la imagen"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al crear el reporte"})
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Reporte creado exitosamente",
		"report":  toReportResp(rep),
	})
}

// List handles GET /reports/list: the authenticated citizen's own
// reports, newest first.
func (h *ReportHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reports, err := h.Reports.ListByUser(ctx, middleware.CurrentUserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener los reportes"})
	}
	out := make([]reportResp, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Reportes obtenidos exitosamente",
		"data":    out,
	})
}

// ListAll handles GET /reports/all for administrators.
func (h *ReportHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	reports, err := h.Reports.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener los reportes"})
	}
	out := make([]reportResp, 0, len(reports))
	for _, r := range reports {
		out = append(out, toReportResp(r))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Reportes obtenidos exitosamente",
		"data":    out,
	})
}

type updateStatusReq struct {
	Status int `json:"status"`
}

// UpdateStatus handles PUT /reports/update-status/:id for
// administrators.
func (h *ReportHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	if req.Status < model.ReportPending || req.Status > model.ReportRejected {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Estado de reporte inválido"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reports.UpdateStatus(ctx, id, req.Status); err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Reporte no encontrado"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al actualizar el reporte"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Estado del reporte actualizado exitosamente"})
}

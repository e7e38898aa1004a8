package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vertramos/eco-reporte/internal/middleware"
	"github.com/vertramos/eco-reporte/internal/repository"
)

// PerCapitaHandler records the citizen's daily waste-weight entries.
// One record per user per day; the check-today endpoint lets clients
// disable the form once today's record exists.
type PerCapitaHandler struct {
	Records *repository.PerCapitaRepo
}

func NewPerCapitaHandler(records *repository.PerCapitaRepo) *PerCapitaHandler {
	return &PerCapitaHandler{Records: records}
}

type perCapitaReq struct {
	WeightKg float64 `json:"weight_kg"`
}

// CheckToday handles GET /perCapita/check-today.
func (h *PerCapitaHandler) CheckToday(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exists, err := h.Records.ExistsForDate(ctx, middleware.CurrentUserID(c), time.Now().Format("2006-01-02"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al consultar tus registros"})
	}
	return c.JSON(http.StatusOK, echo.Map{"can_submit": !exists})
}

// Create handles POST /perCapita/create.
func (h *PerCapitaHandler) Create(c echo.Context) error {
	var req perCapitaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Datos inválidos"})
	}
	if req.WeightKg < 0.01 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "El peso debe ser mayor a cero."})
	}
	if req.WeightKg > 100 {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "El peso no puede superar los 100 kg."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	userID := middleware.CurrentUserID(c)
	today := time.Now().Format("2006-01-02")

	exists, err := h.Records.ExistsForDate(ctx, userID, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al guardar el registro."})
	}
	if exists {
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"message": "Ya has registrado el peso de tu basura hoy. Vuelve a intentarlo mañana."})
	}

	id, err := h.Records.Create(ctx, userID, req.WeightKg, today)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al guardar el registro."})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": fmt.Sprintf("¡Registro guardado con éxito! Tu GPC de hoy es %.2f kg.", req.WeightKg),
		"data": echo.Map{
			"id":          id,
			"weight_kg":   req.WeightKg,
			"record_date": today,
		},
	})
}

// List handles GET /perCapita/list: a page of the citizen's records plus
// an all-time summary.
func (h *PerCapitaHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))
	if perPage < 1 {
		perPage = 10
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	records, total, summary, err := h.Records.ListByUser(ctx, middleware.CurrentUserID(c), page, perPage)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "Error al obtener tus registros."})
	}

	data := make([]echo.Map, 0, len(records))
	for _, r := range records {
		data = append(data, echo.Map{"record_date": r.RecordDate, "weight_kg": r.WeightKg})
	}
	if page < 1 {
		page = 1
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Registros obtenidos exitosamente",
		"data":    data,
		"summary": echo.Map{
			"total_days":      summary.TotalDays,
			"total_weight_kg": summary.TotalWeightKg,
		},
		"pagination": echo.Map{
			"current_page": page,
			"last_page":    lastPage,
			"per_page":     perPage,
			"total":        total,
		},
	})
}

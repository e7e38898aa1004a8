package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vertramos/eco-reporte/internal/model"
	"github.com/vertramos/eco-reporte/internal/repository"
)

// DashboardHandler aggregates counts for the admin dashboard.
type DashboardHandler struct {
	Users     *repository.UserRepo
	Reports   *repository.ReportRepo
	PerCapita *repository.PerCapitaRepo
}

func NewDashboardHandler(users *repository.UserRepo, reports *repository.ReportRepo, perCapita *repository.PerCapitaRepo) *DashboardHandler {
	return &DashboardHandler{Users: users, Reports: reports, PerCapita: perCapita}
}

// Metrics handles GET /admin/dashboard.
func (h *DashboardHandler) Metrics(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	totalReports, err := h.Reports.CountByStatus(ctx, -1)
	if err != nil {
		return metricsError(c)
	}
	totalUsers, err := h.Users.CountByRole(ctx, model.RoleIDUser)
	if err != nil {
		return metricsError(c)
	}
	totalCollectors, err := h.Users.CountByRole(ctx, model.RoleIDCollector)
	if err != nil {
		return metricsError(c)
	}

	byStatus := make(map[int]int, 4)
	for _, status := range []int{model.ReportPending, model.ReportAccepted, model.ReportResolved, model.ReportRejected} {
		n, err := h.Reports.CountByStatus(ctx, status)
		if err != nil {
			return metricsError(c)
		}
		byStatus[status] = n
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"totalReports":    totalReports,
			"totalUsers":      totalUsers,
			"totalCollectors": totalCollectors,
			"pendingReports":  byStatus[model.ReportPending],
			"acceptedReports": byStatus[model.ReportAccepted],
			"resolvedReports": byStatus[model.ReportResolved],
			"rejectedReports": byStatus[model.ReportRejected],
		},
	})
}

// PerCapitaSummary handles GET /admin/dashboard/per-capita: total
// registered waste weight for the current day, week and month.
func (h *DashboardHandler) PerCapitaSummary(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	totals, err := h.PerCapita.TotalsAt(ctx, time.Now())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"message": "Error al obtener el resumen per capita",
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"dailyTotal":   totals.Daily,
			"weeklyTotal":  totals.Weekly,
			"monthlyTotal": totals.Monthly,
		},
	})
}

func metricsError(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"message": "Error al obtener métricas",
	})
}

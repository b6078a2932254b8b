package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hyttelaget/cabin-booking/internal/application"
	"github.com/hyttelaget/cabin-booking/internal/platform/response"
)

// StatisticsHandler handles HTTP requests for usage statistics.
type StatisticsHandler struct {
	service *application.StatisticsService
}

// NewStatisticsHandler creates a new StatisticsHandler.
func NewStatisticsHandler(service *application.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: service}
}

// RegisterRoutes registers the statistics route on the given router group.
func (h *StatisticsHandler) RegisterRoutes(r *gin.RouterGroup, authMW gin.HandlerFunc) {
	r.GET("/statistics", authMW, h.GetStatistics)
}

// GetStatistics handles GET /api/v1/statistics?year=YYYY. Without a year
// parameter the current year is used.
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	year := 0
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "year must be a number")
			return
		}
		year = parsed
	}

	result, err := h.service.ForYear(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

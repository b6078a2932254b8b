package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hyttelaget/cabin-booking/internal/application"
	"github.com/hyttelaget/cabin-booking/internal/platform/response"
)

// CabinHandler handles HTTP requests for cabin management.
type CabinHandler struct {
	service *application.CabinService
}

// NewCabinHandler creates a new CabinHandler.
func NewCabinHandler(service *application.CabinService) *CabinHandler {
	return &CabinHandler{service: service}
}

// RegisterRoutes registers all cabin routes on the given router group.
func (h *CabinHandler) RegisterRoutes(r *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	cabins := r.Group("/cabins")
	cabins.Use(authMW)
	{
		cabins.GET("", h.ListCabins)
		cabins.GET("/:id", h.GetCabin)
		cabins.GET("/:id/availability", h.GetAvailability)
		cabins.POST("", adminMW, h.CreateCabin)
		cabins.PATCH("/:id", adminMW, h.UpdateCabin)
		cabins.DELETE("/:id", adminMW, h.DeleteCabin)
	}
}

type createCabinRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Capacity    int     `json:"capacity" binding:"required"`
	NightlyFee  float64 `json:"nightly_fee"`
	ImageURL    string  `json:"image_url"`
}

type updateCabinRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Capacity    *int     `json:"capacity"`
	NightlyFee  *float64 `json:"nightly_fee"`
	ImageURL    *string  `json:"image_url"`
}

// ListCabins handles GET /api/v1/cabins.
func (h *CabinHandler) ListCabins(c *gin.Context) {
	result, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetCabin handles GET /api/v1/cabins/:id.
func (h *CabinHandler) GetCabin(c *gin.Context) {
	cabinID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cabin ID")
		return
	}

	result, err := h.service.Get(c.Request.Context(), cabinID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetAvailability handles GET /api/v1/cabins/:id/availability. The window
// is given as from/to query parameters (YYYY-MM-DD).
func (h *CabinHandler) GetAvailability(c *gin.Context) {
	cabinID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cabin ID")
		return
	}

	from, err := parseDate(c.Query("from"))
	if err != nil {
		response.BadRequest(c, "from must be formatted as YYYY-MM-DD")
		return
	}
	to, err := parseDate(c.Query("to"))
	if err != nil {
		response.BadRequest(c, "to must be formatted as YYYY-MM-DD")
		return
	}

	result, err := h.service.Availability(c.Request.Context(), cabinID, from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateCabin handles POST /api/v1/cabins.
func (h *CabinHandler) CreateCabin(c *gin.Context) {
	var req createCabinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Create(c.Request.Context(), application.CreateCabinCommand{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		NightlyFee:  req.NightlyFee,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// UpdateCabin handles PATCH /api/v1/cabins/:id.
func (h *CabinHandler) UpdateCabin(c *gin.Context) {
	cabinID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cabin ID")
		return
	}

	var req updateCabinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Update(c.Request.Context(), cabinID, application.UpdateCabinCommand{
		Name:        req.Name,
		Description: req.Description,
		Capacity:    req.Capacity,
		NightlyFee:  req.NightlyFee,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteCabin handles DELETE /api/v1/cabins/:id.
func (h *CabinHandler) DeleteCabin(c *gin.Context) {
	cabinID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid cabin ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), cabinID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

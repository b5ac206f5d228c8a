package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"busline/internal/domain"
	"busline/internal/service"
)

// PromotionHandler handles HTTP requests for promotions.
type PromotionHandler struct {
	promotionService *service.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(promotionService *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// CreatePromotionRequest is the HTTP request for POST /v1/promotions.
type CreatePromotionRequest struct {
	Code       string  `json:"code" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value" binding:"required"`
	StartsAt   string  `json:"starts_at" binding:"required"`
	EndsAt     string  `json:"ends_at" binding:"required"`
	UsageLimit int     `json:"usage_limit"`
	CreatedBy  string  `json:"created_by"`
}

// PromotionResponse is the HTTP response for promotion operations.
type PromotionResponse struct {
	PromotionID string  `json:"promotion_id"`
	Code        string  `json:"code"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	StartsAt    string  `json:"starts_at"`
	EndsAt      string  `json:"ends_at"`
	UsageLimit  int     `json:"usage_limit,omitempty"`
	UsageCount  int     `json:"usage_count"`
	Active      bool    `json:"active"`
}

func toPromotionResponse(promo *domain.Promotion) PromotionResponse {
	return PromotionResponse{
		PromotionID: promo.ID,
		Code:        promo.Code,
		Type:        string(promo.Type),
		Value:       promo.Value,
		StartsAt:    promo.StartsAt.Format(time.RFC3339),
		EndsAt:      promo.EndsAt.Format(time.RFC3339),
		UsageLimit:  promo.UsageLimit,
		UsageCount:  promo.UsageCount,
		Active:      promo.Active,
	}
}

// Create handles POST /v1/promotions
func (h *PromotionHandler) Create(c *gin.Context) {
	var req CreatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		respondError(c, service.ErrInvalidSchedule)
		return
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		respondError(c, service.ErrInvalidSchedule)
		return
	}

	promo, err := h.promotionService.Create(c.Request.Context(), service.CreatePromotionRequest{
		Code:       req.Code,
		Type:       domain.PromotionType(req.Type),
		Value:      req.Value,
		StartsAt:   startsAt,
		EndsAt:     endsAt,
		UsageLimit: req.UsageLimit,
		CreatedBy:  req.CreatedBy,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPromotionResponse(promo))
}

// Validate handles GET /v1/promotions/:code/validate
func (h *PromotionHandler) Validate(c *gin.Context) {
	code := c.Param("code")

	promo, err := h.promotionService.Validate(c.Request.Context(), code, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPromotionResponse(promo))
}

package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/shopspring/decimal"
)

type StylistController struct {
	stylistService service.StylistService
}

func NewStylistController(stylistService service.StylistService) *StylistController {
	return &StylistController{
		stylistService: stylistService,
	}
}

type StylistRecommendRequest struct {
	Gender         string           `json:"gender" binding:"max=20"`
	AgeGroup       string           `json:"age_group" binding:"max=30"`
	Occasion       string           `json:"occasion" binding:"max=100"`
	BudgetMin      *decimal.Decimal `json:"budget_min"`
	BudgetMax      *decimal.Decimal `json:"budget_max"`
	Colors         []string         `json:"colors" binding:"max=10,dive,max=30"`
	BodyType       string           `json:"body_type" binding:"max=50"`
	SizePreference string           `json:"size_preference" binding:"max=30"`
}

// Recommend suggests products from the active catalog
// POST /api/v1/stylist/recommend
func (ctrl *StylistController) Recommend(c *gin.Context) {
	var req StylistRecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if req.BudgetMin != nil && req.BudgetMax != nil && req.BudgetMin.GreaterThan(*req.BudgetMax) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "budget_min cannot exceed budget_max")
		return
	}

	resp, err := ctrl.stylistService.Recommend(c.Request.Context(), service.StylistRequest{
		Gender:         req.Gender,
		AgeGroup:       req.AgeGroup,
		Occasion:       req.Occasion,
		BudgetMin:      req.BudgetMin,
		BudgetMax:      req.BudgetMax,
		Colors:         req.Colors,
		BodyType:       req.BodyType,
		SizePreference: req.SizePreference,
	})
	if err != nil {
		respondError(c, err, "stylist recommend")
		return
	}

	c.JSON(http.StatusOK, resp)
}

package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hanzla-outlet/outlet-backend/internal/app/model"
	"github.com/hanzla-outlet/outlet-backend/internal/app/service"
	apperrors "github.com/hanzla-outlet/outlet-backend/internal/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStylist struct {
	got service.StylistRequest
}

func (s *stubStylist) Recommend(_ context.Context, req service.StylistRequest) (*service.StylistResponse, error) {
	s.got = req
	return &service.StylistResponse{
		Message: "Try these for the mehndi.",
		Recommendations: []service.StylistRecommendation{
			{Product: model.Product{ID: 3, Name: "Mustard Kurta", Slug: "mustard-kurta"}, Reason: "Festive colour."},
		},
	}, nil
}

func TestStylistController_Recommend(t *testing.T) {
	stylist := &stubStylist{}
	router := newTestRouter()
	router.POST("/stylist/recommend", NewStylistController(stylist).Recommend)

	w := performRequest(router, http.MethodPost, "/stylist/recommend", gin.H{
		"gender":     "female",
		"occasion":   "Mehndi",
		"budget_max": "6000",
		"colors":     []string{"yellow", "green"},
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	response := decodeBody(t, w)
	assert.Equal(t, "Try these for the mehndi.", response["message"])
	recs := response["recommendations"].([]interface{})
	require.Len(t, recs, 1)
	rec := recs[0].(map[string]interface{})
	assert.Equal(t, "Festive colour.", rec["reason"])
	assert.Equal(t, "mustard-kurta", rec["product"].(map[string]interface{})["slug"])

	assert.Equal(t, "female", stylist.got.Gender)
	require.NotNil(t, stylist.got.BudgetMax)
	assert.True(t, stylist.got.BudgetMax.Equal(decimal.NewFromInt(6000)))
	assert.Nil(t, stylist.got.BudgetMin)
}

func TestStylistController_Recommend_InvalidBudget(t *testing.T) {
	router := newTestRouter()
	router.POST("/stylist/recommend", NewStylistController(&stubStylist{}).Recommend)

	w := performRequest(router, http.MethodPost, "/stylist/recommend", gin.H{
		"budget_min": "9000",
		"budget_max": "100",
	})

	assertErrorCode(t, w, http.StatusBadRequest, apperrors.ValidationInvalidRange)
}

// Preference HTTP handlers.
//
// Endpoints for the preference surface: replacing a comparison's whole
// preference bundle, adjusting one category weight, and the standalone
// preference-mapping operation that projects historical importances onto a
// new category set.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-decision-backend/internal/domain"
)

// ReplacePreferencesRequest is the JSON payload for swapping a comparison's
// preference bundle wholesale.
type ReplacePreferencesRequest struct {
	Name            string                  `json:"name" example:"Budget focused"`
	CategoryWeights []domain.CategoryWeight `json:"categoryWeights" binding:"required"`
	ShowScores      bool                    `json:"showScores"`
	SortByScore     bool                    `json:"sortByScore"`
	HideWinner      bool                    `json:"hideWinner"`
	ColorScheme     string                  `json:"colorScheme" example:"default"`
}

// MapPreferencesRequest asks for historical importances to be projected onto
// a new category list.
type MapPreferencesRequest struct {
	HistoricalPreferences map[string]int `json:"historicalPreferences" binding:"required"`
	NewCategories         []string       `json:"newCategories" binding:"required"`
}

// MapPreferencesResponse carries the mapped importance per requested
// category.
type MapPreferencesResponse struct {
	Mapped map[string]int `json:"mapped"`
}

// ReplacePreferences godoc
// @ID          replacePreferences
// @Summary     Replace a comparison's preferences
// @Description Swaps the whole preference bundle. Importances are clamped to 0–10.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       body       body    handlers.ReplacePreferencesRequest  true  "Replacement preferences"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/preferences [put]
func (h *Handlers) ReplacePreferences(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	var req ReplacePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "categoryWeights required")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Custom"
	}
	cmp, err := h.cmpSvc.ReplacePreferences(c.Request.Context(), userID(c), id, domain.UserPreferences{
		Name:            name,
		CategoryWeights: req.CategoryWeights,
		ShowScores:      req.ShowScores,
		SortByScore:     req.SortByScore,
		HideWinner:      req.HideWinner,
		ColorScheme:     req.ColorScheme,
	})
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// SetCategoryWeight godoc
// @ID          setCategoryWeight
// @Summary     Set one category's importance
// @Description Adjusts a single category weight (clamped to 0–10). Unknown categories get a new visible entry.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       category   path    string  true  "Category name"          example(Price)
// @Param       body       body    handlers.SetCategoryWeightRequest  true  "New importance"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/weights/{category} [put]
func (h *Handlers) SetCategoryWeight(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category required")
		return
	}
	var req SetCategoryWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Importance == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "importance required")
		return
	}
	cmp, err := h.cmpSvc.SetCategoryWeight(c.Request.Context(), userID(c), id, category, *req.Importance)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// MapPreferences godoc
// @ID          mapPreferences
// @Summary     Map historical preferences onto new categories
// @Description Projects historical category importances onto a new category set. Uses the AI collaborator when configured and falls back to deterministic string matching; this endpoint never fails on AI trouble.
// @Tags        Preferences
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.MapPreferencesRequest  true  "Historical importances and target categories"
//
// @Success     200  {object} handlers.MapPreferencesResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /preferences/map [post]
func (h *Handlers) MapPreferences(c *gin.Context) {
	var req MapPreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "historicalPreferences and newCategories required")
		return
	}
	mapped := h.prefSvc.MapPreferences(c.Request.Context(), req.HistoricalPreferences, req.NewCategories)
	ok(c, http.StatusOK, MapPreferencesResponse{Mapped: mapped})
}

// Comparison HTTP handlers.
//
// This file exposes the REST endpoints for comparison resources: creation
// from free text, history listing with ETag support, snapshot reads, rename,
// AI refinement, item/point editing, score reads, undo/redo, and deletion.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results (including sentinel errors) into HTTP
// responses.
//
// Idempotency:
// If the client supplies an Idempotency-Key header on refine and a previous
// successful result exists for (user, comparison, key), the handler returns
// the currently stored snapshot and sets `Idempotency-Replayed: true`
// instead of re-running the model.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-decision-backend/internal/domain"
	"github.com/tbourn/go-decision-backend/internal/repo"
	"github.com/tbourn/go-decision-backend/internal/services"
	"github.com/tbourn/go-decision-backend/internal/sysutil"
	"github.com/tbourn/go-decision-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ComparisonService defines the comparison lifecycle operations consumed by
// the HTTP layer. Implementations must be safe for concurrent use and honor
// the provided context.
type ComparisonService interface {
	CreateFromText(ctx context.Context, userID, text string) (*domain.Comparison, error)
	Get(ctx context.Context, userID, id string) (*domain.Comparison, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.ComparisonRecord, int64, error)
	UpdateTitle(ctx context.Context, userID, id, title string) (*domain.Comparison, error)
	Refine(ctx context.Context, userID, id, instructions string) (*domain.Comparison, error)
	AddItem(ctx context.Context, userID, id string, item domain.ComparisonItem) (*domain.Comparison, error)
	RemoveItem(ctx context.Context, userID, id, itemID string) (*domain.Comparison, error)
	AddPoint(ctx context.Context, userID, id, itemID string, point domain.ComparisonPoint) (*domain.Comparison, error)
	UpdatePoint(ctx context.Context, userID, id, itemID, pointID string, point domain.ComparisonPoint) (*domain.Comparison, error)
	RemovePoint(ctx context.Context, userID, id, itemID, pointID string) (*domain.Comparison, error)
	ReplacePreferences(ctx context.Context, userID, id string, p domain.UserPreferences) (*domain.Comparison, error)
	SetCategoryWeight(ctx context.Context, userID, id, category string, importance int) (*domain.Comparison, error)
	Scores(ctx context.Context, userID, id string) ([]domain.ItemScore, error)
	UndoLast(ctx context.Context, userID, id string) (*domain.Comparison, error)
	RedoLast(ctx context.Context, userID, id string) (*domain.Comparison, error)
	Delete(ctx context.Context, userID, id string) error
	ClearHistory(ctx context.Context, userID string) error
}

// PreferenceMapper defines the standalone preference-mapping operation.
// It never fails; AI trouble degrades to the heuristic internally.
type PreferenceMapper interface {
	MapPreferences(ctx context.Context, historical map[string]int, categories []string) map[string]int
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for comparisons and preferences. It
// depends on abstract service interfaces to keep transport concerns separate
// from business logic.
type Handlers struct {
	cmpSvc  ComparisonService
	prefSvc PreferenceMapper
}

// New constructs a Handlers instance bound to the given services.
func New(cmpSvc ComparisonService, prefSvc PreferenceMapper) *Handlers {
	return &Handlers{cmpSvc: cmpSvc, prefSvc: prefSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	var fromCtx, fromHeader string
	if v, ok := c.Get("userID"); ok {
		fromCtx, _ = v.(string)
	}
	if c != nil && c.Request != nil {
		fromHeader = strings.TrimSpace(c.GetHeader("X-User-ID"))
	}
	return sysutil.FirstNonEmpty(fromCtx, fromHeader, "demo-user")
}

//
// DTOs
//

// CreateComparisonRequest is the JSON payload for creating a comparison from
// free-form decision text.
type CreateComparisonRequest struct {
	// Text is the decision described in natural language.
	Text string `json:"text" binding:"required" example:"Should I buy the MacBook Air or the ThinkPad X1?"`
}

// RefineComparisonRequest carries natural-language instructions that reshape
// an existing comparison.
type RefineComparisonRequest struct {
	Instructions string `json:"instructions" binding:"required" example:"Add a price category and a third option"`
}

// UpdateComparisonTitleRequest is the JSON payload for renaming a comparison.
type UpdateComparisonTitleRequest struct {
	// Title is the new comparison name (1–255 chars).
	Title string `json:"title" binding:"required,min=1,max=255" example:"Laptop shortlist"`
}

// SetCategoryWeightRequest sets one category's importance (0–10; out-of-range
// values are clamped).
type SetCategoryWeightRequest struct {
	Importance *int `json:"importance" binding:"required" example:"8"`
}

// ComparisonSummary is the listing projection of a stored comparison; the
// full snapshot is fetched per id.
type ComparisonSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListComparisonsResponse wraps a page of comparison summaries and
// pagination information.
type ListComparisonsResponse struct {
	Comparisons []ComparisonSummary `json:"comparisons"`
	Pagination  Pagination          `json:"pagination"`
}

// ScoresResponse wraps the ranked scores of a comparison.
type ScoresResponse struct {
	Scores []domain.ItemScore `json:"scores"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.ClampInt(utils.AtoiDefault(c.Query("page_size"), defaultPageSize), 1, maxPageSize)
	return
}

// failFromService translates service sentinel errors into the HTTP error
// envelope. Unrecognized errors become 500s.
func failFromService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrComparisonNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "comparison not found")
	case errors.Is(err, services.ErrItemNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
	case errors.Is(err, services.ErrPointNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "point not found")
	case errors.Is(err, services.ErrEmptyText),
		errors.Is(err, services.ErrTooLong),
		errors.Is(err, services.ErrEmptyInstructions),
		errors.Is(err, services.ErrInvalidPolarity):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrExtractionFailed):
		fail(c, http.StatusBadGateway, ErrCodeExtractionFailed, services.ErrExtractionFailed.Error())
	case errors.Is(err, services.ErrRefinementFailed):
		fail(c, http.StatusBadGateway, ErrCodeRefinementFailed, services.ErrRefinementFailed.Error())
	case errors.Is(err, services.ErrNothingToUndo):
		fail(c, http.StatusConflict, ErrCodeNothingToUndo, services.ErrNothingToUndo.Error())
	case errors.Is(err, services.ErrNothingToRedo):
		fail(c, http.StatusConflict, ErrCodeNothingToRedo, services.ErrNothingToRedo.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

// requireComparisonID validates the :id path parameter as a UUID.
func requireComparisonID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "comparison id must be a UUID")
		return "", false
	}
	return id, true
}

//
// Handlers
//

// CreateComparison godoc
// @ID          createComparison
// @Summary     Create a comparison from free text
// @Description Extracts items, points, and categories from natural-language decision text, seeds preferences (personalized when enough history exists), and persists the result.
// @Tags        Comparisons
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replay-safe retry key"
// @Param       body             body    handlers.CreateComparisonRequest  true  "Decision text"
//
// @Success     201  {object}  domain.Comparison
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     502  {object}  handlers.ErrorResponse  "Extraction failed"
// @Router      /comparisons [post]
func (h *Handlers) CreateComparison(c *gin.Context) {
	var req CreateComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	cmp, err := h.cmpSvc.CreateFromText(c.Request.Context(), userID(c), req.Text)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusCreated, cmp)
}

// ListComparisons godoc
// @ID          listComparisons
// @Summary     List comparison history (paginated)
// @Description Returns a page of the user's saved comparisons, most recent first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Comparisons
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListComparisonsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /comparisons [get]
func (h *Handlers) ListComparisons(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, isConcrete := h.cmpSvc.(*services.ComparisonService); isConcrete {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ComparisonsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"comparisons:%s:%d:%d"`, uid, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	records, total, err := h.cmpSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	summaries := make([]ComparisonSummary, 0, len(records))
	for _, rec := range records {
		summaries = append(summaries, ComparisonSummary{
			ID:        rec.ID,
			Title:     rec.Title,
			CreatedAt: rec.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			UpdatedAt: rec.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListComparisonsResponse{
		Comparisons: summaries,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// GetComparison godoc
// @ID          getComparison
// @Summary     Fetch a comparison snapshot
// @Tags        Comparisons
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id} [get]
func (h *Handlers) GetComparison(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	cmp, err := h.cmpSvc.Get(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// UpdateComparisonTitle godoc
// @ID          updateComparisonTitle
// @Summary     Rename a comparison
// @Tags        Comparisons
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       body       body    handlers.UpdateComparisonTitleRequest  true  "New title"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/title [put]
func (h *Handlers) UpdateComparisonTitle(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	var req UpdateComparisonTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1–255 chars)")
		return
	}
	cmp, err := h.cmpSvc.UpdateTitle(c.Request.Context(), userID(c), id, req.Title)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// RefineComparison godoc
// @ID          refineComparison
// @Summary     Refine a comparison with natural-language instructions
// @Description Sends the current comparison and the instructions to the AI collaborator and replaces the whole snapshot with the result. The previous state remains undoable.
// @Tags        Comparisons
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Replay-safe retry key"
// @Param       id               path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       body             body    handlers.RefineComparisonRequest  true  "Instructions"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     502  {object} handlers.ErrorResponse "Refinement failed"
// @Router      /comparisons/{id}/refine [post]
func (h *Handlers) RefineComparison(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	var req RefineComparisonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	ctx := c.Request.Context()
	currentUser := userID(c)

	// Idempotency (replay path): a stored key means the refinement already
	// ran; the persisted snapshot is the result.
	idemKey, _ := idempotencyKey(c)
	if idemKey != "" {
		if svc, isConcrete := h.cmpSvc.(*services.ComparisonService); isConcrete && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, id, idemKey, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := h.cmpSvc.Get(ctx, currentUser, id); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusOK, prev)
					return
				}
			}
		}
	}

	cmp, err := h.cmpSvc.Refine(ctx, currentUser, id, req.Instructions)
	if err != nil {
		failFromService(c, err)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" {
		if svc, isConcrete := h.cmpSvc.(*services.ComparisonService); isConcrete && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, id, idemKey, http.StatusOK, 24*time.Hour)
		}
	}

	ok(c, http.StatusOK, cmp)
}

// idempotencyKey extracts an idempotency key if an upstream middleware has
// already validated/stashed it. The fallback reads the "Idempotency-Key"
// header directly when no dedicated middleware exists.
func idempotencyKey(c *gin.Context) (string, bool) {
	if v := strings.TrimSpace(c.GetHeader("Idempotency-Key")); v != "" {
		return v, true
	}
	return "", false
}

// GetScores godoc
// @ID          getScores
// @Summary     Get ranked scores for a comparison
// @Description Recomputes the 0–100 scores and competition ranks from the stored snapshot; scores are derived data and never persisted.
// @Tags        Scores
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
//
// @Success     200  {object} handlers.ScoresResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/scores [get]
func (h *Handlers) GetScores(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	scores, err := h.cmpSvc.Scores(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, ScoresResponse{Scores: scores})
}

// AddItem godoc
// @ID          addItem
// @Summary     Add an option to a comparison
// @Tags        Items
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       body       body    domain.ComparisonItem  true  "Item to add (IDs optional)"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/items [post]
func (h *Handlers) AddItem(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	var item domain.ComparisonItem
	if err := c.ShouldBindJSON(&item); err != nil || strings.TrimSpace(item.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "item name required")
		return
	}
	cmp, err := h.cmpSvc.AddItem(c.Request.Context(), userID(c), id, item)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// RemoveItem godoc
// @ID          removeItem
// @Summary     Remove an option from a comparison
// @Tags        Items
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       itemId     path    string  true  "Item ID"
//
// @Success     200  {object} domain.Comparison
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/items/{itemId} [delete]
func (h *Handlers) RemoveItem(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	cmp, err := h.cmpSvc.RemoveItem(c.Request.Context(), userID(c), id, c.Param("itemId"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// AddPoint godoc
// @ID          addPoint
// @Summary     Add a point to an item
// @Description Appends a pro/con/neutral point. Weight is clamped to 1–10; a new category is registered with a neutral weight entry.
// @Tags        Points
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       itemId     path    string  true  "Item ID"
// @Param       body       body    domain.ComparisonPoint  true  "Point to add (ID optional)"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/items/{itemId}/points [post]
func (h *Handlers) AddPoint(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	var point domain.ComparisonPoint
	if err := c.ShouldBindJSON(&point); err != nil || strings.TrimSpace(point.Text) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "point text required")
		return
	}
	cmp, err := h.cmpSvc.AddPoint(c.Request.Context(), userID(c), id, c.Param("itemId"), point)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// UpdatePoint godoc
// @ID          updatePoint
// @Summary     Edit a point
// @Description Replaces a point's text, polarity, weight, category, and flags. Point identity is immutable.
// @Tags        Points
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       itemId     path    string  true  "Item ID"
// @Param       pointId    path    string  true  "Point ID"
// @Param       body       body    domain.ComparisonPoint  true  "Replacement point"
//
// @Success     200  {object} domain.Comparison
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/items/{itemId}/points/{pointId} [put]
func (h *Handlers) UpdatePoint(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	var point domain.ComparisonPoint
	if err := c.ShouldBindJSON(&point); err != nil || strings.TrimSpace(point.Text) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "point text required")
		return
	}
	cmp, err := h.cmpSvc.UpdatePoint(c.Request.Context(), userID(c), id, c.Param("itemId"), c.Param("pointId"), point)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// RemovePoint godoc
// @ID          removePoint
// @Summary     Delete a point from an item
// @Tags        Points
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
// @Param       itemId     path    string  true  "Item ID"
// @Param       pointId    path    string  true  "Point ID"
//
// @Success     200  {object} domain.Comparison
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id}/items/{itemId}/points/{pointId} [delete]
func (h *Handlers) RemovePoint(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	cmp, err := h.cmpSvc.RemovePoint(c.Request.Context(), userID(c), id, c.Param("itemId"), c.Param("pointId"))
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// UndoComparison godoc
// @ID          undoComparison
// @Summary     Undo the last change
// @Tags        Comparisons
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
//
// @Success     200  {object} domain.Comparison
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     409  {object} handlers.ErrorResponse "Nothing to undo"
// @Router      /comparisons/{id}/undo [post]
func (h *Handlers) UndoComparison(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	cmp, err := h.cmpSvc.UndoLast(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// RedoComparison godoc
// @ID          redoComparison
// @Summary     Redo the last undone change
// @Tags        Comparisons
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
//
// @Success     200  {object} domain.Comparison
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     409  {object} handlers.ErrorResponse "Nothing to redo"
// @Router      /comparisons/{id}/redo [post]
func (h *Handlers) RedoComparison(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	cmp, err := h.cmpSvc.RedoLast(c.Request.Context(), userID(c), id)
	if err != nil {
		failFromService(c, err)
		return
	}
	ok(c, http.StatusOK, cmp)
}

// DeleteComparison godoc
// @ID          deleteComparison
// @Summary     Delete a comparison from history
// @Tags        Comparisons
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Comparison ID (UUID)"   format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /comparisons/{id} [delete]
func (h *Handlers) DeleteComparison(c *gin.Context) {
	id, valid := requireComparisonID(c)
	if !valid {
		return
	}
	if err := h.cmpSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		failFromService(c, err)
		return
	}
	noContent(c)
}

// ClearComparisons godoc
// @ID          clearComparisons
// @Summary     Clear the user's entire comparison history
// @Tags        Comparisons
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     204  {string} string "No Content"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /comparisons [delete]
func (h *Handlers) ClearComparisons(c *gin.Context) {
	if err := h.cmpSvc.ClearHistory(c.Request.Context(), userID(c)); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jpfieber/jots-food-tracker/internal/domain"
	"github.com/jpfieber/jots-food-tracker/internal/usecase"
)

const dateLayout = "2006-01-02"

// Services are the use cases exposed over HTTP. A nil service answers 501.
type Services struct {
	Facts     *usecase.FactsService
	Recipes   *usecase.RecipeService
	FoodLog   *usecase.FoodLogService
	Summary   *usecase.SummaryService
	FoodNotes *usecase.FoodNoteService
	Search    *usecase.SearchService
	Import    *usecase.USDAImportService
	Meals     *usecase.MealSuggester
	Notes     domain.NoteResolver
	Cache     CacheStats
}

// CacheStats reports how many entries the vault cache holds
type CacheStats interface {
	Size() int
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	svc Services
	now func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"service": "jots-food-tracker",
		"version": "1.0.0",
	}
	if h.svc.Cache != nil {
		body["cacheEntries"] = h.svc.Cache.Size()
	}
	c.JSON(http.StatusOK, body)
}

// SearchFoods lists food notes whose name contains q
func (h *Handler) SearchFoods(c *gin.Context) {
	if h.svc.Search == nil {
		notConfigured(c, "food search")
		return
	}

	items, err := h.svc.Search.SearchFoods(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.FoodItem{}
	}
	c.JSON(http.StatusOK, gin.H{"foods": items, "count": len(items)})
}

// FoodFacts renders the nutrition facts of a food note for one serving
func (h *Handler) FoodFacts(c *gin.Context) {
	if h.svc.Facts == nil {
		notConfigured(c, "nutrition facts")
		return
	}

	ctx := c.Request.Context()
	noteID, err := h.resolveNote(ctx, c.Query("note"))
	if err != nil {
		writeError(c, err)
		return
	}

	facts, err := h.svc.Facts.FoodFacts(ctx, noteID, c.Query("serving"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facts)
}

// RecipeFacts renders a recipe panel, per serving unless view=total
func (h *Handler) RecipeFacts(c *gin.Context) {
	if h.svc.Recipes == nil {
		notConfigured(c, "recipe facts")
		return
	}

	var perServing bool
	switch view := c.DefaultQuery("view", "serving"); view {
	case "serving":
		perServing = true
	case "total":
	default:
		writeError(c, errors.Join(domain.ErrInvalidRequest, errors.New("view must be serving or total")))
		return
	}

	ctx := c.Request.Context()
	noteID, err := h.resolveNote(ctx, c.Query("note"))
	if err != nil {
		writeError(c, err)
		return
	}

	facts, err := h.svc.Recipes.RecipeFacts(ctx, noteID, perServing)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, facts)
}

// createFoodRequest mirrors usecase.CreateFoodRequest
type createFoodRequest struct {
	Name               string            `json:"name" binding:"required"`
	Group              string            `json:"group"`
	ServingDescription string            `json:"servingDescription" binding:"required"`
	ServingGrams       float64           `json:"servingGrams" binding:"required"`
	ContainerGrams     float64           `json:"containerGrams"`
	Calories           float64           `json:"calories"`
	Nutrients          map[string]string `json:"nutrients"`
}

// CreateFood writes a new food note from label values
func (h *Handler) CreateFood(c *gin.Context) {
	if h.svc.FoodNotes == nil {
		notConfigured(c, "food notes")
		return
	}

	var req createFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	noteID, err := h.svc.FoodNotes.CreateFoodNote(c.Request.Context(), usecase.CreateFoodRequest(req))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"noteId": noteID})
}

// ImportFood creates a food note from USDA FoodData Central
func (h *Handler) ImportFood(c *gin.Context) {
	if h.svc.Import == nil {
		notConfigured(c, "USDA import")
		return
	}

	var req usecase.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Query) == "" && req.FdcID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query or fdcId is required"})
		return
	}

	result, err := h.svc.Import.Import(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrLowConfidence) && result != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "best match is below the confidence threshold; retry with force",
				"match": result.Match,
			})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// logEntryRequest is the JSON form of usecase.LogRequest with a calendar date
type logEntryRequest struct {
	Date       string  `json:"date"` // YYYY-MM-DD, defaults to today
	Time       string  `json:"time"` // HH:MM, defaults to now
	Meal       string  `json:"meal"` // defaults to the suggested meal
	Food       string  `json:"food" binding:"required"`
	Serving    string  `json:"serving"`
	Quantity   float64 `json:"quantity"`
	Manual     bool    `json:"manual"`
	Calories   float64 `json:"calories"`
	Fat        float64 `json:"fat"`
	Carbs      float64 `json:"carbs"`
	Protein    float64 `json:"protein"`
	RecipeNote string  `json:"recipeNote"`
}

// LogEntry appends a diary line to the journal note of the day
func (h *Handler) LogEntry(c *gin.Context) {
	if h.svc.FoodLog == nil {
		notConfigured(c, "food logging")
		return
	}

	var body logEntryRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	now := h.now()
	date := now
	if body.Date != "" {
		d, err := time.ParseInLocation(dateLayout, body.Date, now.Location())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = d
	}
	if body.Time == "" {
		body.Time = now.Format("15:04")
	}
	if body.Meal == "" && h.svc.Meals != nil {
		if meal, ok := h.svc.Meals.Suggest(now); ok {
			body.Meal = meal.Name
		}
	}

	result, err := h.svc.FoodLog.LogFood(c.Request.Context(), usecase.LogRequest{
		Date:       date,
		Time:       body.Time,
		Meal:       body.Meal,
		Food:       body.Food,
		Serving:    body.Serving,
		Quantity:   body.Quantity,
		Manual:     body.Manual,
		Calories:   body.Calories,
		Fat:        body.Fat,
		Carbs:      body.Carbs,
		Protein:    body.Protein,
		RecipeNote: body.RecipeNote,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DaySummary returns the per-meal totals of a journal day as json, markdown or html
func (h *Handler) DaySummary(c *gin.Context) {
	if h.svc.Summary == nil {
		notConfigured(c, "day summary")
		return
	}

	date, err := time.ParseInLocation(dateLayout, c.Param("date"), h.now().Location())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	summary, err := h.svc.Summary.DaySummary(c.Request.Context(), date)
	if err != nil {
		writeError(c, err)
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, summary)
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(summary.Markdown))
	case "html":
		html, err := renderMarkdown(summary.Markdown)
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", html)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, markdown or html"})
	}
}

// SuggestMeal returns the meal slot closest to the current time
func (h *Handler) SuggestMeal(c *gin.Context) {
	if h.svc.Meals == nil {
		notConfigured(c, "meal suggestion")
		return
	}

	meal, ok := h.svc.Meals.Suggest(h.now())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no meal has a default time"})
		return
	}
	c.JSON(http.StatusOK, meal)
}

// resolveNote accepts either a note ID or a link target such as "Rolled Oats"
func (h *Handler) resolveNote(ctx context.Context, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.Join(domain.ErrInvalidRequest, errors.New("note is required"))
	}
	if h.svc.Notes == nil {
		return name, nil
	}
	return h.svc.Notes.ResolveNoteID(ctx, name)
}

func notConfigured(c *gin.Context, feature string) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": feature + " is not configured"})
}

// writeError maps domain errors to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrMalformedServing):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoteNotFound), errors.Is(err, domain.ErrNoData), errors.Is(err, domain.ErrProductNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoteExists):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUSDAAPIFailure):
		status = http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

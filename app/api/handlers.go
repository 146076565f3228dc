package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feast/app/database"
	"github.com/lysyi3m/feast/app/fetcher"
	"github.com/lysyi3m/feast/app/importer"
	"github.com/lysyi3m/feast/app/logging"
	"github.com/lysyi3m/feast/app/recipe"
	"github.com/lysyi3m/feast/app/shopping"
	"github.com/lysyi3m/feast/app/tasks"
)

const (
	dateLayout       = "2006-01-02"
	maxParseBodySize = fetcher.DefaultMaxBytes
)

func NewHandler(recipeRepo database.RecipeRepositoryInterface, mealPlanRepo database.MealPlanRepositoryInterface,
	imp ImporterInterface, parser ParserInterface,
	scheduler tasks.TaskSchedulerInterface, tracker *tasks.StatusTracker) *Handler {
	return &Handler{
		recipeRepo:   recipeRepo,
		mealPlanRepo: mealPlanRepo,
		importer:     imp,
		parser:       parser,
		aggregator:   shopping.NewAggregator(),
		scheduler:    scheduler,
		tracker:      tracker,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]any{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if count, err := h.recipeRepo.GetRecipeCount(c.Request.Context()); err == nil {
		health["recipes"] = count
	} else {
		slog.Error("Database error", "operation", "get_recipe_count", "error", err)
		health["database"] = "unavailable"
	}

	c.JSON(http.StatusOK, health)
}

// ParseHTML parses a posted HTML page without fetching or storing anything.
func (h *Handler) ParseHTML(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxParseBodySize))
	if err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "The page is too large to process"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must contain the page HTML"})
		return
	}

	parsed, err := h.parser.Run(string(body))
	if err != nil {
		slog.Debug("Parse request failed", "body", logging.RedactUserContent(string(body)), "error", err)
		c.JSON(statusForImportError(err), gin.H{"error": importer.UserMessage(err)})
		return
	}

	c.JSON(http.StatusOK, parsed)
}

func (h *Handler) ImportRecipe(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	ctx, correlationID := logging.EnsureCorrelationID(c.Request.Context())
	c.Header("X-Correlation-ID", correlationID)

	stored, err := h.importer.Run(ctx, req.URL)
	if err != nil {
		resp := gin.H{"error": importer.UserMessage(err)}

		var dup *importer.DuplicateError
		if errors.As(err, &dup) {
			resp["recipe_id"] = dup.RecipeID
		}

		c.JSON(statusForImportError(err), resp)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

func (h *Handler) EnqueueImport(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": importer.UserMessage(importer.ErrEmptyURL)})
		return
	}

	task := tasks.NewImportRecipeTask(req.URL, h.importer, h.tracker)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Warn("Failed to enqueue import", "url", logging.RedactURL(req.URL), "error", err)
		h.tracker.Failed(task.ID, "", "The import queue is full, please try again later")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The import queue is full, please try again later"})
		return
	}

	slog.Debug("Import queued", "id", task.ID, "correlation_id", task.CorrelationID, "url", logging.RedactURL(req.URL))

	c.JSON(http.StatusAccepted, h.tracker.Get(task.ID))
}

func (h *Handler) GetImportStatus(c *gin.Context) {
	status := h.tracker.Get(c.Param("id"))
	if status == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Import not found"})
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipeRepo.ListRecipes(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_recipes", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if recipes == nil {
		recipes = []database.Recipe{}
	}

	c.JSON(http.StatusOK, gin.H{
		"recipes": recipes,
		"total":   len(recipes),
	})
}

func (h *Handler) GetRecipe(c *gin.Context) {
	id := c.Param("id")

	stored, err := h.recipeRepo.GetRecipe(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_recipe", "recipe_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	c.JSON(http.StatusOK, stored)
}

func (h *Handler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")

	deleted, err := h.recipeRepo.DeleteRecipe(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "delete_recipe", "recipe_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	slog.Info("Recipe deleted", "recipe_id", id)
	c.Status(http.StatusNoContent)
}

// CreateMealPlan schedules a stored recipe; servings default to the recipe's own yield.
func (h *Handler) CreateMealPlan(c *gin.Context) {
	var req mealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and recipe_id are required"})
		return
	}

	if _, err := time.Parse(dateLayout, req.Date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be formatted as YYYY-MM-DD"})
		return
	}
	if req.Servings < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "servings must be positive"})
		return
	}

	stored, err := h.recipeRepo.GetRecipe(c.Request.Context(), req.RecipeID)
	if err != nil {
		slog.Error("Database error", "operation", "get_recipe", "recipe_id", req.RecipeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if stored == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Recipe not found"})
		return
	}

	servings := req.Servings
	if servings == 0 {
		servings = stored.Servings
	}
	mealType := req.MealType
	if mealType == "" {
		mealType = "dinner"
	}

	plan, err := h.mealPlanRepo.CreateMealPlan(c.Request.Context(), req.Date, mealType, req.RecipeID, servings)
	if err != nil {
		slog.Error("Database error", "operation", "create_meal_plan", "recipe_id", req.RecipeID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func (h *Handler) ListMealPlans(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	plans, err := h.mealPlanRepo.ListMealPlans(c.Request.Context(), start, end)
	if err != nil {
		slog.Error("Database error", "operation", "list_meal_plans", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if plans == nil {
		plans = []database.MealPlan{}
	}

	c.JSON(http.StatusOK, gin.H{
		"meal_plans": plans,
		"total":      len(plans),
		"start":      start,
		"end":        end,
	})
}

func (h *Handler) GetShoppingList(c *gin.Context) {
	start, end, ok := dateRange(c)
	if !ok {
		return
	}

	usages, err := h.mealPlanRepo.GetIngredientUsage(c.Request.Context(), start, end)
	if err != nil {
		slog.Error("Database error", "operation", "get_ingredient_usage", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	items := h.aggregator.Run(usages)
	if items == nil {
		items = []shopping.Item{}
	}

	slog.Debug("Shopping list built", "usages", len(usages), "items", logging.FormatCount(len(items), "item"))

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
		"start": start,
		"end":   end,
	})
}

// dateRange reads the start and end query parameters and writes a 400 when they are unusable.
func dateRange(c *gin.Context) (string, string, bool) {
	start := c.Query("start")
	end := c.Query("end")

	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must be formatted as YYYY-MM-DD"})
		return "", "", false
	}
	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be formatted as YYYY-MM-DD"})
		return "", "", false
	}
	if endDate.Before(startDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return "", "", false
	}

	return start, end, true
}

func statusForImportError(err error) int {
	var (
		invalidURL *fetcher.InvalidURLError
		scheme     *fetcher.InvalidSchemeError
		timeout    *fetcher.TimeoutError
		duplicate  *importer.DuplicateError
		malformed  *recipe.MalformedRecipeError
	)

	switch {
	case errors.Is(err, importer.ErrEmptyURL), errors.As(err, &invalidURL), errors.As(err, &scheme):
		return http.StatusBadRequest
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &timeout):
		return http.StatusGatewayTimeout
	case isFetchError(err):
		return http.StatusBadGateway
	case errors.Is(err, recipe.ErrNoJSONLDFound), errors.Is(err, recipe.ErrNoRecipeFound),
		errors.Is(err, recipe.ErrMultipleRecipesFound), errors.As(err, &malformed):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func isFetchError(err error) bool {
	var (
		conn        *fetcher.ConnectionError
		redirects   *fetcher.TooManyRedirectsError
		httpErr     *fetcher.HTTPError
		contentType *fetcher.InvalidContentTypeError
		tooLarge    *fetcher.ResponseTooLargeError
		readErr     *fetcher.ReadError
	)
	return errors.As(err, &conn) || errors.As(err, &redirects) || errors.As(err, &httpErr) ||
		errors.As(err, &contentType) || errors.As(err, &tooLarge) || errors.As(err, &readErr)
}

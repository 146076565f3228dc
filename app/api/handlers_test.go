package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/feast/app/database"
	"github.com/lysyi3m/feast/app/fetcher"
	"github.com/lysyi3m/feast/app/importer"
	"github.com/lysyi3m/feast/app/logging"
	"github.com/lysyi3m/feast/app/recipe"
	"github.com/lysyi3m/feast/app/shopping"
	"github.com/lysyi3m/feast/app/tasks"
)

type mockRecipeRepo struct {
	recipes map[string]*database.Recipe
}

func (m *mockRecipeRepo) CreateRecipe(ctx context.Context, r *recipe.Recipe, sourceURL, siteName string) (*database.Recipe, error) {
	stored := &database.Recipe{ID: "new", Recipe: *r, SourceURL: sourceURL, SiteName: siteName}
	m.recipes[stored.ID] = stored
	return stored, nil
}

func (m *mockRecipeRepo) GetRecipe(ctx context.Context, id string) (*database.Recipe, error) {
	return m.recipes[id], nil
}

func (m *mockRecipeRepo) ListRecipes(ctx context.Context) ([]database.Recipe, error) {
	var out []database.Recipe
	for _, r := range m.recipes {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRecipeRepo) FindBySourceURL(ctx context.Context, sourceURL string) (*database.Recipe, error) {
	return nil, nil
}

func (m *mockRecipeRepo) DeleteRecipe(ctx context.Context, id string) (bool, error) {
	if _, ok := m.recipes[id]; !ok {
		return false, nil
	}
	delete(m.recipes, id)
	return true, nil
}

func (m *mockRecipeRepo) GetRecipeCount(ctx context.Context) (int, error) {
	return len(m.recipes), nil
}

type mockMealPlanRepo struct {
	plans  []database.MealPlan
	usages []shopping.Usage
}

func (m *mockMealPlanRepo) CreateMealPlan(ctx context.Context, date, mealType, recipeID string, servings int) (*database.MealPlan, error) {
	plan := database.MealPlan{ID: "plan-1", Date: date, MealType: mealType, RecipeID: recipeID, Servings: servings}
	m.plans = append(m.plans, plan)
	return &plan, nil
}

func (m *mockMealPlanRepo) ListMealPlans(ctx context.Context, start, end string) ([]database.MealPlan, error) {
	return m.plans, nil
}

func (m *mockMealPlanRepo) GetIngredientUsage(ctx context.Context, start, end string) ([]shopping.Usage, error) {
	return m.usages, nil
}

type mockImporter struct {
	err error
}

func (m *mockImporter) Run(ctx context.Context, rawURL string) (*database.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &database.Recipe{ID: "imported", Recipe: recipe.Recipe{Name: "Soup", Servings: 4}, SourceURL: rawURL}, nil
}

type testEnv struct {
	router  *gin.Engine
	recipes *mockRecipeRepo
	plans   *mockMealPlanRepo
	imp     *mockImporter
	tracker *tasks.StatusTracker
}

func newTestEnv(apiKey string) *testEnv {
	env := &testEnv{
		recipes: &mockRecipeRepo{recipes: map[string]*database.Recipe{
			"r1": {ID: "r1", Recipe: recipe.Recipe{Name: "Bread", Servings: 4}},
		}},
		plans:   &mockMealPlanRepo{},
		imp:     &mockImporter{},
		tracker: tasks.NewStatusTracker(),
	}

	scheduler := tasks.NewScheduler(1, 1, env.tracker)
	handler := NewHandler(env.recipes, env.plans, env.imp, recipe.NewParser(), scheduler, env.tracker)
	env.router = NewServer(handler, apiKey)
	return env
}

func (e *testEnv) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestHealth(t *testing.T) {
	env := newTestEnv("")

	w := env.do(http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", w.Code)
	}
	if got := decode(t, w)["recipes"]; got != float64(1) {
		t.Errorf("Expected 1 recipe, got: %v", got)
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := newTestEnv("secret")

	if w := env.do(http.MethodGet, "/api/recipes", ""); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without key, got: %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/recipes", "", "X-API-Key", "wrong"); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong key, got: %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/recipes", "", "X-API-Key", "secret"); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with X-API-Key, got: %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/recipes", "", "Authorization", "Bearer secret"); w.Code != http.StatusOK {
		t.Errorf("Expected 200 with bearer token, got: %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Errorf("Expected health to stay public, got: %d", w.Code)
	}
}

func TestParseHTML(t *testing.T) {
	env := newTestEnv("")

	page := `<script type="application/ld+json">{"@type":"Recipe","name":"Toast",
		"recipeIngredient":["2 slices bread"],"recipeInstructions":"Toast it."}</script>`
	w := env.do(http.MethodPost, "/api/parse", page)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d (%s)", w.Code, w.Body.String())
	}
	if got := decode(t, w)["name"]; got != "Toast" {
		t.Errorf("Expected name 'Toast', got: %v", got)
	}

	w = env.do(http.MethodPost, "/api/parse", "<html><body>nothing</body></html>")
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Expected status 422, got: %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Could not find recipe data on this page" {
		t.Errorf("Unexpected error message: %v", got)
	}
}

func TestParseHTML_LogsRedactedBody(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logging.SetupWriter(&buf, true)

	env := newTestEnv("")
	page := "<html><body>secret family recipe</body></html>"
	w := env.do(http.MethodPost, "/api/parse", page)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("Expected status 422, got: %d", w.Code)
	}

	out := buf.String()
	if strings.Contains(out, "secret family recipe") {
		t.Errorf("Expected page content redacted, got: %s", out)
	}
	if !strings.Contains(out, "<46 chars>") {
		t.Errorf("Expected redacted length in log, got: %s", out)
	}
}

func TestImportRecipe(t *testing.T) {
	env := newTestEnv("")

	w := env.do(http.MethodPost, "/api/recipes/import", `{"url":"https://example.com/soup"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got: %d", w.Code)
	}
	if w.Header().Get("X-Correlation-ID") == "" {
		t.Error("Expected correlation id header")
	}
	if got := decode(t, w)["source_url"]; got != "https://example.com/soup" {
		t.Errorf("Expected source URL echoed, got: %v", got)
	}
}

func TestImportRecipe_Errors(t *testing.T) {
	tests := []struct {
		err      error
		status   int
		message  string
		recipeID string
	}{
		{importer.ErrEmptyURL, http.StatusBadRequest, "Please enter a valid website URL", ""},
		{&importer.DuplicateError{RecipeID: "r1"}, http.StatusConflict, "A recipe from this URL has already been imported", "r1"},
		{&fetcher.TimeoutError{}, http.StatusGatewayTimeout, "The website took too long to respond", ""},
		{&fetcher.HTTPError{Status: 404}, http.StatusBadGateway, "The website returned an error (HTTP 404)", ""},
		{recipe.ErrMultipleRecipesFound, http.StatusUnprocessableEntity, "This page contains multiple recipes. Please try a more specific URL", ""},
	}

	for _, tt := range tests {
		env := newTestEnv("")
		env.imp.err = tt.err

		w := env.do(http.MethodPost, "/api/recipes/import", `{"url":"https://example.com/soup"}`)
		if w.Code != tt.status {
			t.Errorf("%v: expected status %d, got: %d", tt.err, tt.status, w.Code)
		}
		body := decode(t, w)
		if body["error"] != tt.message {
			t.Errorf("%v: expected message '%s', got: %v", tt.err, tt.message, body["error"])
		}
		if tt.recipeID != "" && body["recipe_id"] != tt.recipeID {
			t.Errorf("%v: expected recipe_id %s, got: %v", tt.err, tt.recipeID, body["recipe_id"])
		}
	}
}

func TestEnqueueImport(t *testing.T) {
	env := newTestEnv("")

	w := env.do(http.MethodPost, "/api/imports", `{"url":"https://example.com/soup"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got: %d", w.Code)
	}
	body := decode(t, w)
	if body["state"] != "pending" {
		t.Errorf("Expected pending state, got: %v", body["state"])
	}

	id, _ := body["id"].(string)
	w = env.do(http.MethodGet, "/api/imports/"+id, "")
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for known import, got: %d", w.Code)
	}

	w = env.do(http.MethodPost, "/api/imports", `{"url":"https://example.com/other"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 when queue is full, got: %d", w.Code)
	}

	if w := env.do(http.MethodGet, "/api/imports/unknown", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown import, got: %d", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/imports", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing URL, got: %d", w.Code)
	}
}

func TestRecipeEndpoints(t *testing.T) {
	env := newTestEnv("")

	w := env.do(http.MethodGet, "/api/recipes", "")
	if got := decode(t, w)["total"]; got != float64(1) {
		t.Errorf("Expected total 1, got: %v", got)
	}

	if w := env.do(http.MethodGet, "/api/recipes/r1", ""); w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got: %d", w.Code)
	}
	if w := env.do(http.MethodGet, "/api/recipes/missing", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got: %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/recipes/r1", ""); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got: %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/recipes/r1", ""); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 on second delete, got: %d", w.Code)
	}
}

func TestCreateMealPlan(t *testing.T) {
	env := newTestEnv("")

	w := env.do(http.MethodPost, "/api/meal-plans", `{"date":"2024-03-01","recipe_id":"r1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got: %d (%s)", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["servings"] != float64(4) {
		t.Errorf("Expected servings to default to recipe yield, got: %v", body["servings"])
	}
	if body["meal_type"] != "dinner" {
		t.Errorf("Expected default meal type 'dinner', got: %v", body["meal_type"])
	}

	if w := env.do(http.MethodPost, "/api/meal-plans", `{"date":"March 1","recipe_id":"r1"}`); w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for bad date, got: %d", w.Code)
	}
	if w := env.do(http.MethodPost, "/api/meal-plans", `{"date":"2024-03-01","recipe_id":"missing"}`); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown recipe, got: %d", w.Code)
	}
}

func TestShoppingList(t *testing.T) {
	env := newTestEnv("")
	env.plans.usages = []shopping.Usage{
		{Name: "Flour", Quantity: 1, Unit: "cup", RecipeID: "r1", ServingsMultiplier: 2},
		{Name: "flour", Quantity: 1, Unit: "cup", RecipeID: "r2", ServingsMultiplier: 1},
	}

	w := env.do(http.MethodGet, "/api/shopping-list?start=2024-03-01&end=2024-03-07", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got: %d", w.Code)
	}

	var body struct {
		Items []shopping.Item `json:"items"`
		Total int             `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Total != 1 || len(body.Items) != 1 {
		t.Fatalf("Expected 1 item, got: %+v", body.Items)
	}
	if body.Items[0].Quantity != 3 {
		t.Errorf("Expected quantity 3, got: %v", body.Items[0].Quantity)
	}
	if len(body.Items[0].SourceRecipeIDs) != 2 {
		t.Errorf("Expected 2 source recipes, got: %v", body.Items[0].SourceRecipeIDs)
	}
}

func TestDateRangeValidation(t *testing.T) {
	env := newTestEnv("")

	tests := []string{
		"/api/meal-plans",
		"/api/meal-plans?start=2024-03-01",
		"/api/meal-plans?start=2024-03-07&end=2024-03-01",
		"/api/shopping-list?start=yesterday&end=2024-03-01",
	}

	for _, path := range tests {
		if w := env.do(http.MethodGet, path, ""); w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected status 400, got: %d", path, w.Code)
		}
	}

	if w := env.do(http.MethodGet, "/api/meal-plans?start=2024-03-01&end=2024-03-01", ""); w.Code != http.StatusOK {
		t.Errorf("Expected single-day range accepted, got: %d", w.Code)
	}
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	memclock "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/clock"
	memtokenrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/tokenrepo"
	memtravelcache "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/travelcache"
	memtravelrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/travelrepo"
	memuserrepo "github.com/wayfarer-labs/travel-log-api/internal/adapters/memory/userrepo"
	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
	"github.com/wayfarer-labs/travel-log-api/internal/app/travels"
)

type harness struct {
	handler http.Handler
	clk     *memclock.ManualClock
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	authSvc := auth.NewService(memuserrepo.NewRepo(), memtokenrepo.NewRepo(), clk)
	authSvc.BcryptCost = bcrypt.MinCost
	travelSvc := travels.NewService(memtravelrepo.NewRepo(), memtravelcache.New(clk), clk)

	api := NewServer(authSvc, travelSvc)
	return &harness{
		handler: NewRouter(api, authSvc),
		clk:     clk,
	}
}

func (h *harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

// registerAndLogin provisions a user and returns a live token.
func (h *harness) registerAndLogin(t *testing.T, name, email, password string) string {
	t.Helper()

	rec := h.do(t, http.MethodPost, "/register", "", map[string]any{
		"name":                  name,
		"email":                 email,
		"password":              password,
		"password_confirmation": password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = h.do(t, http.MethodPost, "/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", rec.Code, rec.Body.String())
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %s", rec.Body.String())
	}
	return token
}

func (h *harness) travelBody(daysFromNow, lengthDays int) map[string]any {
	start := h.clk.Now().AddDate(0, 0, daysFromNow)
	end := start.AddDate(0, 0, lengthDays)
	return map[string]any{
		"origin":      "NYC",
		"destination": "LA",
		"type":        "single day",
		"start_date":  start.Format("2006-01-02"),
		"end_date":    end.Format("2006-01-02"),
		"description": "trip",
	}
}

func TestRegister_Created(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/register", "", map[string]any{
		"name":                  "Jane Doe",
		"email":                 "j@x.com",
		"password":              "longpass1",
		"password_confirmation": "longpass1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["message"] != "User registered successfully" {
		t.Fatalf("message=%v", body["message"])
	}
	data, _ := body["data"].(map[string]any)
	if data["email"] != "j@x.com" || data["name"] != "Jane Doe" {
		t.Fatalf("data=%v", data)
	}
	// The credential must never appear on the wire, under any name.
	lower := strings.ToLower(rec.Body.String())
	if strings.Contains(lower, "password") || strings.Contains(lower, "$2a$") {
		t.Fatalf("credential material leaked: %s", rec.Body.String())
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/register", "", map[string]any{
		"name":                  "Bob",
		"email":                 "nope",
		"password":              "short",
		"password_confirmation": "other",
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	// The auth routes spell this differently from the travel routes.
	if body["message"] != "Validation Error" {
		t.Fatalf("message=%v", body["message"])
	}
	errs, _ := body["errors"].(map[string]any)
	for _, field := range []string{"name", "email", "password"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing %q in errors: %v", field, errs)
		}
	}
}

func TestRegister_MalformedJSON(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLogin_WrongPasswordIs401Not422(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	rec := h.do(t, http.MethodPost, "/login", "", map[string]any{
		"email":    "j@x.com",
		"password": "wrongpass1",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Unauthorized" {
		t.Fatalf("body=%s", rec.Body.String())
	}

	rec = h.do(t, http.MethodPost, "/login", "", map[string]any{
		"email":    "unknown@x.com",
		"password": "longpass1",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email status=%d", rec.Code)
	}
}

func TestLogout_RevokesOnlyPresentedToken(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	tokenA := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	rec := h.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "j@x.com", "password": "longpass1",
	})
	tokenB, _ := decodeBody(t, rec)["token"].(string)

	rec = h.do(t, http.MethodPost, "/logout", tokenA, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout status=%d body=%s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Logged out successfully" {
		t.Fatalf("body=%s", rec.Body.String())
	}

	// tokenA is dead, tokenB still works.
	if rec := h.do(t, http.MethodGet, "/travels", tokenA, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token status=%d", rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/travels", tokenB, nil); rec.Code != http.StatusOK {
		t.Fatalf("sibling token status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestProtectedRoutes_RequireBearerToken(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/logout"},
		{http.MethodGet, "/travels"},
		{http.MethodGet, "/travels/some-id"},
		{http.MethodPost, "/travels"},
		{http.MethodPut, "/travels/some-id"},
		{http.MethodDelete, "/travels/some-id"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			if rec := h.do(t, tc.method, tc.path, "", nil); rec.Code != http.StatusUnauthorized {
				t.Fatalf("no token: status=%d", rec.Code)
			}

			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Basic abc123")
			rec := httptest.NewRecorder()
			h.handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("non-bearer scheme: status=%d", rec.Code)
			}
		})
	}
}

func TestCreateTravel_Answers200NotCreated(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	token := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	rec := h.do(t, http.MethodPost, "/travels", token, h.travelBody(1, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Travel created successfully." {
		t.Fatalf("message=%v", body["message"])
	}
	data, _ := body["data"].(map[string]any)
	if data["origin"] != "NYC" || data["start_date"] != h.clk.Now().AddDate(0, 0, 1).Format("2006-01-02") {
		t.Fatalf("data=%v", data)
	}
}

func TestCreateTravel_EndBeforeStartIs422(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	token := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	body := h.travelBody(2, 0)
	body["end_date"] = h.clk.Now().AddDate(0, 0, 1).Format("2006-01-02")

	rec := h.do(t, http.MethodPost, "/travels", token, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d body=%s", rec.Code, rec.Body.String())
	}
	if decodeBody(t, rec)["message"] != "Validation error." {
		t.Fatalf("body=%s", rec.Body.String())
	}

	// Nothing persisted.
	rec = h.do(t, http.MethodGet, "/travels", token, nil)
	page, _ := decodeBody(t, rec)["data"].(map[string]any)
	if page["total"] != float64(0) {
		t.Fatalf("total=%v after failed create", page["total"])
	}
}

func TestTravels_OwnerIsolation(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	tokenA := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")
	tokenB := h.registerAndLogin(t, "John Smith", "john@x.com", "longpass2")

	rec := h.do(t, http.MethodPost, "/travels", tokenA, h.travelBody(1, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("create status=%d", rec.Code)
	}
	data, _ := decodeBody(t, rec)["data"].(map[string]any)
	id, _ := data["id"].(string)
	if id == "" {
		t.Fatalf("no id in create response")
	}

	// User B sees 404, never 403, on every verb.
	if rec := h.do(t, http.MethodGet, "/travels/"+id, tokenB, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign GET status=%d", rec.Code)
	}
	if rec := h.do(t, http.MethodPut, "/travels/"+id, tokenB, h.travelBody(1, 1)); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign PUT status=%d", rec.Code)
	}
	if rec := h.do(t, http.MethodDelete, "/travels/"+id, tokenB, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign DELETE status=%d", rec.Code)
	}

	// Still intact for the owner.
	if rec := h.do(t, http.MethodGet, "/travels/"+id, tokenA, nil); rec.Code != http.StatusOK {
		t.Fatalf("owner GET status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTravels_UpdateAndDelete(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	token := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	rec := h.do(t, http.MethodPost, "/travels", token, h.travelBody(1, 1))
	data, _ := decodeBody(t, rec)["data"].(map[string]any)
	id, _ := data["id"].(string)

	upd := h.travelBody(3, 2)
	upd["origin"] = "Boston"
	rec = h.do(t, http.MethodPut, "/travels/"+id, token, upd)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status=%d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Travel updated successfully." {
		t.Fatalf("message=%v", body["message"])
	}
	data, _ = body["data"].(map[string]any)
	if data["origin"] != "Boston" {
		t.Fatalf("data=%v", data)
	}

	rec = h.do(t, http.MethodDelete, "/travels/"+id, token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status=%d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Travel deleted successfully." {
		t.Fatalf("body=%s", rec.Body.String())
	}

	if rec := h.do(t, http.MethodGet, "/travels/"+id, token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("deleted record status=%d", rec.Code)
	}
	if rec := h.do(t, http.MethodDelete, "/travels/"+id, token, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("double delete status=%d", rec.Code)
	}
}

func TestTravels_NotFoundBody(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	token := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	rec := h.do(t, http.MethodGet, "/travels/no-such-id", token, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rec.Code)
	}
	if decodeBody(t, rec)["message"] != "Travel record not found." {
		t.Fatalf("body=%s", rec.Body.String())
	}
}

func TestTravels_ListingPaginatesAndCaches(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	token := h.registerAndLogin(t, "Jane Doe", "j@x.com", "longpass1")

	for i := 0; i < 12; i++ {
		if rec := h.do(t, http.MethodPost, "/travels", token, h.travelBody(1+i, 1)); rec.Code != http.StatusOK {
			t.Fatalf("create #%d status=%d", i, rec.Code)
		}
	}

	rec := h.do(t, http.MethodGet, "/travels", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status=%d", rec.Code)
	}
	page, _ := decodeBody(t, rec)["data"].(map[string]any)
	if page["total"] != float64(12) || page["per_page"] != float64(10) || page["last_page"] != float64(2) || page["current_page"] != float64(1) {
		t.Fatalf("page meta=%v", page)
	}
	if items, _ := page["data"].([]any); len(items) != 10 {
		t.Fatalf("page 1 items=%d", len(items))
	}

	rec = h.do(t, http.MethodGet, "/travels?page=2", token, nil)
	page, _ = decodeBody(t, rec)["data"].(map[string]any)
	if page["current_page"] != float64(2) {
		t.Fatalf("page meta=%v", page)
	}
	if items, _ := page["data"].([]any); len(items) != 2 {
		t.Fatalf("page 2 items=%v", page["data"])
	}

	// Two reads within the TTL are identical; a create in between forces
	// the next read to reflect the new total.
	first := h.do(t, http.MethodGet, "/travels", token, nil).Body.String()
	second := h.do(t, http.MethodGet, "/travels", token, nil).Body.String()
	if first != second {
		t.Fatalf("cached reads differ:\n%s\n%s", first, second)
	}

	if rec := h.do(t, http.MethodPost, "/travels", token, h.travelBody(1, 1)); rec.Code != http.StatusOK {
		t.Fatalf("create status=%d", rec.Code)
	}
	rec = h.do(t, http.MethodGet, "/travels", token, nil)
	page, _ = decodeBody(t, rec)["data"].(map[string]any)
	if page["total"] != float64(13) {
		t.Fatalf("total=%v after create, want 13", page["total"])
	}
}

// TestEndToEndScenario walks the canonical flow: register, login, create
// a travel, then watch another user's token bounce off it.
func TestEndToEndScenario(t *testing.T) {
	t.Parallel()

	h := newHarness(t)

	rec := h.do(t, http.MethodPost, "/register", "", map[string]any{
		"name":                  "Jane Doe",
		"email":                 "j@x.com",
		"password":              "longpass1",
		"password_confirmation": "longpass1",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", rec.Code, rec.Body.String())
	}
	data, _ := decodeBody(t, rec)["data"].(map[string]any)
	if data["email"] != "j@x.com" {
		t.Fatalf("data=%v", data)
	}

	rec = h.do(t, http.MethodPost, "/login", "", map[string]any{
		"email": "j@x.com", "password": "longpass1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status=%d", rec.Code)
	}
	token, _ := decodeBody(t, rec)["token"].(string)
	if token == "" {
		t.Fatalf("empty token")
	}

	tomorrow := h.clk.Now().AddDate(0, 0, 1)
	rec = h.do(t, http.MethodPost, "/travels", token, map[string]any{
		"origin":      "NYC",
		"destination": "LA",
		"type":        "single day",
		"start_date":  tomorrow.Format("2006-01-02"),
		"end_date":    tomorrow.AddDate(0, 0, 1).Format("2006-01-02"),
		"description": "trip",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("create status=%d body=%s", rec.Code, rec.Body.String())
	}
	created, _ := decodeBody(t, rec)["data"].(map[string]any)
	if created["user_id"] != data["id"] {
		t.Fatalf("owner=%v want=%v", created["user_id"], data["id"])
	}

	other := h.registerAndLogin(t, "Other Person", "other@x.com", "longpass2")
	id, _ := created["id"].(string)
	if rec := h.do(t, http.MethodGet, fmt.Sprintf("/travels/%s", id), other, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("foreign GET status=%d", rec.Code)
	}
}

func TestHealthz_Unauthenticated(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if rec := h.do(t, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
}

package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/villagestay/villagestay/internal/config"
	"github.com/villagestay/villagestay/internal/handlers"
	"github.com/villagestay/villagestay/internal/ledger"
	"github.com/villagestay/villagestay/internal/middleware"
	"github.com/villagestay/villagestay/internal/models"
	"github.com/villagestay/villagestay/internal/proxy"
	"github.com/villagestay/villagestay/internal/seed"
	"github.com/villagestay/villagestay/internal/services"
	"github.com/villagestay/villagestay/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "this_is_a_test_secret_key_with_32_chars_minimum"

type api struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T, ipLimit int, upstreamURL string) *api {
	t.Helper()
	fx, err := seed.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.New(fx)
	if err != nil {
		t.Fatal(err)
	}
	sessions, err := services.NewSessionService(st, services.SessionOptions{
		JWTSecret:          testSecret,
		LoginGrantCoins:    1250,
		ListingRewardCoins: 50,
		BcryptCost:         bcrypt.MinCost,
	})
	if err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{AppEnv: "test", JWTSecret: testSecret}
	h := handlers.NewHandlerManager(cfg, st, sessions, services.NewCommunityService(st))

	rl := middleware.NewRateLimiter(1000, ipLimit, time.Minute)
	t.Cleanup(rl.Close)

	if upstreamURL == "" {
		upstreamURL = "http://127.0.0.1:1"
	}
	p := proxy.New(upstreamURL, "dev-secret", time.Second)
	t.Cleanup(p.Close)

	return &api{t: t, e: New(h, p, rl)}
}

func (a *api) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			a.t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *api) login(email string) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/v1/auth/login", map[string]string{"email": email, "password": "password"}, "")
	if rec.Code != http.StatusOK {
		a.t.Fatalf("login %s: status %d, body %s", email, rec.Code, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
		Coins int64  `json:"coins"`
	}
	decode(a.t, rec, &resp)
	if resp.Coins != 1250 {
		a.t.Errorf("login coins = %d, want 1250", resp.Coins)
	}
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode %q: %v", rec.Body.String(), err)
	}
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, status, rec.Body.String())
	}
	var body handlers.ErrorResponse
	decode(t, rec, &body)
	if body.Code != code || body.Error == "" {
		t.Errorf("error body = %+v, want code %s", body, code)
	}
}

func TestHealth(t *testing.T) {
	a := newAPI(t, 1000, "")
	rec := a.do(http.MethodGet, "/healthz", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Status string      `json:"status"`
		Stats  store.Stats `json:"stats"`
	}
	decode(t, rec, &body)
	if body.Status != "ok" || body.Stats.Villages != 4 || body.Stats.Bookings != 5 {
		t.Errorf("health = %+v", body)
	}
}

func TestVillages(t *testing.T) {
	a := newAPI(t, 1000, "")

	var villages []models.Village
	decode(t, a.do(http.MethodGet, "/v1/villages", nil, ""), &villages)
	if len(villages) != 4 {
		t.Errorf("len(villages) = %d, want 4", len(villages))
	}

	var mawali models.Village
	decode(t, a.do(http.MethodGet, "/v1/villages/mawali", nil, ""), &mawali)
	if mawali.Name != "Mawali" {
		t.Errorf("village = %+v", mawali)
	}

	expectError(t, a.do(http.MethodGet, "/v1/villages/atlantis", nil, ""), http.StatusNotFound, "NOT_FOUND")
	expectError(t, a.do(http.MethodGet, "/v1/villages/mawali/posts?order=random", nil, ""), http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestCommunityPosts(t *testing.T) {
	a := newAPI(t, 1000, "")

	rec := a.do(http.MethodPost, "/v1/villages/mawali/posts", map[string]string{
		"author":  "Ravi",
		"message": "Root bridges at dawn are worth the hike",
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created models.CommunityPost
	decode(t, rec, &created)

	var newest, oldest []models.CommunityPost
	decode(t, a.do(http.MethodGet, "/v1/villages/mawali/posts", nil, ""), &newest)
	decode(t, a.do(http.MethodGet, "/v1/villages/mawali/posts?order=oldest", nil, ""), &oldest)

	if len(newest) != 3 || newest[0].ID != created.ID {
		t.Errorf("newest first = %+v", newest)
	}
	if len(oldest) != 3 || oldest[2].ID != created.ID {
		t.Errorf("oldest first = %+v", oldest)
	}

	expectError(t, a.do(http.MethodPost, "/v1/villages/mawali/posts", map[string]string{"author": "Ravi"}, ""),
		http.StatusBadRequest, "VALIDATION_ERROR")
	expectError(t, a.do(http.MethodPost, "/v1/villages/atlantis/posts", map[string]string{"author": "Ravi", "message": "hi"}, ""),
		http.StatusNotFound, "NOT_FOUND")
}

func TestCommunityPosts_AuthorFromSession(t *testing.T) {
	a := newAPI(t, 1000, "")
	token := a.login("owner@villagestay.plus")

	rec := a.do(http.MethodPost, "/v1/villages/nako/posts", map[string]string{"message": "Lake is frozen"}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var post models.CommunityPost
	decode(t, rec, &post)
	if post.Author != "Owner1" {
		t.Errorf("Author = %q, want Owner1", post.Author)
	}

	// A stale token is ignored on optional routes.
	expectError(t, a.do(http.MethodPost, "/v1/villages/nako/posts", map[string]string{"message": "hi"}, "stale"),
		http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestLogin(t *testing.T) {
	a := newAPI(t, 1000, "")

	expectError(t, a.do(http.MethodPost, "/v1/auth/login", map[string]string{"email": "admin@villagestay.plus", "password": "wrong"}, ""),
		http.StatusUnauthorized, "UNAUTHORIZED")
	expectError(t, a.do(http.MethodPost, "/v1/auth/login", map[string]string{"email": ""}, ""),
		http.StatusBadRequest, "VALIDATION_ERROR")

	if token := a.login("admin@villagestay.plus"); token == "" {
		t.Error("empty token")
	}
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t, 1000, "")

	for _, path := range []string{"/v1/coins", "/v1/bookings", "/v1/applications"} {
		t.Run(path, func(t *testing.T) {
			expectError(t, a.do(http.MethodGet, path, nil, ""), http.StatusUnauthorized, "UNAUTHORIZED")
			expectError(t, a.do(http.MethodGet, path, nil, "not-a-jwt"), http.StatusUnauthorized, "UNAUTHORIZED")
		})
	}
}

func TestApplications(t *testing.T) {
	a := newAPI(t, 1000, "")
	owner := a.login("owner@villagestay.plus")
	admin := a.login("admin@villagestay.plus")

	rec := a.do(http.MethodPost, "/v1/internships/intern-1/applications", nil, owner)
	if rec.Code != http.StatusCreated {
		t.Fatalf("apply status = %d, body %s", rec.Code, rec.Body.String())
	}
	var app models.Application
	decode(t, rec, &app)
	if app.UserID != "owner1" || app.UserName != "Owner1" || app.Status != models.ApplicationStatusApplied ||
		app.VillageName != "Mawali" || app.OpportunityTitle != "Homestay Digital Marketing" {
		t.Errorf("application = %+v", app)
	}

	expectError(t, a.do(http.MethodPost, "/v1/internships/intern-1/applications", nil, owner), http.StatusConflict, "DUPLICATE_APPLICATION")
	expectError(t, a.do(http.MethodPost, "/v1/internships/nope/applications", nil, owner), http.StatusNotFound, "NOT_FOUND")

	if rec := a.do(http.MethodPost, "/v1/internships/vol-1/applications", nil, admin); rec.Code != http.StatusCreated {
		t.Fatalf("admin apply status = %d", rec.Code)
	}

	var mine, all []models.Application
	decode(t, a.do(http.MethodGet, "/v1/applications", nil, owner), &mine)
	decode(t, a.do(http.MethodGet, "/v1/applications", nil, admin), &all)
	if len(mine) != 1 || len(all) != 2 {
		t.Errorf("owner sees %d, admin sees %d; want 1 and 2", len(mine), len(all))
	}

	path := "/v1/applications/" + app.ID + "/status"
	expectError(t, a.do(http.MethodPatch, path, map[string]string{"status": "Accepted"}, owner), http.StatusForbidden, "FORBIDDEN")

	rec = a.do(http.MethodPatch, path, map[string]string{"status": models.ApplicationStatusUnderReview}, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("status change = %d, body %s", rec.Code, rec.Body.String())
	}
	expectError(t, a.do(http.MethodPatch, path, map[string]string{"status": models.ApplicationStatusApplied}, admin),
		http.StatusConflict, "INVALID_TRANSITION")
	expectError(t, a.do(http.MethodPatch, path, map[string]string{"status": "Maybe"}, admin),
		http.StatusBadRequest, "VALIDATION_ERROR")
	expectError(t, a.do(http.MethodPatch, "/v1/applications/app-missing/status", map[string]string{"status": "Accepted"}, admin),
		http.StatusNotFound, "NOT_FOUND")
}

func TestInternships(t *testing.T) {
	a := newAPI(t, 1000, "")

	var all, volunteering []models.Internship
	decode(t, a.do(http.MethodGet, "/v1/internships", nil, ""), &all)
	decode(t, a.do(http.MethodGet, "/v1/internships?category=Volunteering", nil, ""), &volunteering)
	if len(all) == 0 || len(volunteering) == 0 || len(volunteering) >= len(all) {
		t.Errorf("all = %d, volunteering = %d", len(all), len(volunteering))
	}
	for _, in := range volunteering {
		if in.Category != models.CategoryVolunteering {
			t.Errorf("filtered list contains %s", in.Category)
		}
	}

	expectError(t, a.do(http.MethodGet, "/v1/internships?category=Jobs", nil, ""), http.StatusBadRequest, "VALIDATION_ERROR")
	expectError(t, a.do(http.MethodGet, "/v1/internships/nope", nil, ""), http.StatusNotFound, "NOT_FOUND")
}

func TestBookings(t *testing.T) {
	a := newAPI(t, 1000, "")

	tests := []struct {
		email      string
		want       []string
		wantNights []int
	}{
		{email: "owner@villagestay.plus", want: []string{"BK001", "BK004"}, wantNights: []int{5, 5}},
		{email: "admin@villagestay.plus", want: []string{"BK001", "BK002", "BK003", "BK004", "BK005"}, wantNights: []int{5, 6, 4, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			var bookings []struct {
				models.Booking
				Nights int `json:"nights"`
			}
			decode(t, a.do(http.MethodGet, "/v1/bookings", nil, a.login(tt.email)), &bookings)
			if len(bookings) != len(tt.want) {
				t.Fatalf("len(bookings) = %d, want %d", len(bookings), len(tt.want))
			}
			for i, b := range bookings {
				if b.ID != tt.want[i] || b.Nights != tt.wantNights[i] {
					t.Errorf("bookings[%d] = %s (%d nights), want %s (%d nights)", i, b.ID, b.Nights, tt.want[i], tt.wantNights[i])
				}
			}
		})
	}
}

func TestCoins(t *testing.T) {
	a := newAPI(t, 1000, "")
	token := a.login("owner@villagestay.plus")

	expectError(t, a.do(http.MethodPost, "/v1/coins/redeem", map[string]interface{}{"storeId": "ks-1", "amount": 2000}, token),
		http.StatusUnprocessableEntity, "INSUFFICIENT_BALANCE")
	expectError(t, a.do(http.MethodPost, "/v1/coins/redeem", map[string]interface{}{"storeId": "ks-1", "amount": 0}, token),
		http.StatusBadRequest, "INVALID_AMOUNT")
	expectError(t, a.do(http.MethodPost, "/v1/coins/redeem", map[string]interface{}{"storeId": "ks-1", "amount": 10.5}, token),
		http.StatusBadRequest, "INVALID_AMOUNT")
	expectError(t, a.do(http.MethodPost, "/v1/coins/redeem", map[string]interface{}{"storeId": "ks-1", "amount": "ten"}, token),
		http.StatusBadRequest, "INVALID_AMOUNT")
	expectError(t, a.do(http.MethodPost, "/v1/coins/redeem", map[string]interface{}{"storeId": "ks-404", "amount": 10}, token),
		http.StatusNotFound, "NOT_FOUND")

	rec := a.do(http.MethodPost, "/v1/coins/redeem", map[string]interface{}{"storeId": "ks-1", "amount": 500}, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("redeem status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = a.do(http.MethodPost, "/v1/listings", map[string]string{"name": "Riverside Homestay"}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("listing status = %d, body %s", rec.Code, rec.Body.String())
	}

	var coins struct {
		Balance int64                `json:"balance"`
		History []ledger.Transaction `json:"history"`
	}
	decode(t, a.do(http.MethodGet, "/v1/coins", nil, token), &coins)
	if coins.Balance != 800 || len(coins.History) != 3 {
		t.Errorf("coins = %+v, want balance 800 with 3 transactions", coins)
	}

	if rec := a.do(http.MethodPost, "/v1/auth/logout", nil, token); rec.Code != http.StatusNoContent {
		t.Fatalf("logout status = %d", rec.Code)
	}
	expectError(t, a.do(http.MethodGet, "/v1/coins", nil, token), http.StatusUnauthorized, "UNAUTHORIZED")

	fresh := a.login("owner@villagestay.plus")
	decode(t, a.do(http.MethodGet, "/v1/coins", nil, fresh), &coins)
	if coins.Balance != 1250 {
		t.Errorf("balance after relogin = %d, want 1250", coins.Balance)
	}
}

func TestRateLimit(t *testing.T) {
	a := newAPI(t, 2, "")
	body := map[string]string{"author": "Ravi", "message": "hello"}

	for i := 0; i < 2; i++ {
		rec := a.do(http.MethodPost, "/v1/villages/hampi/posts", body, "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("post %d status = %d", i+1, rec.Code)
		}
		if got, want := rec.Header().Get(middleware.HeaderRateLimitRemaining), strconv.Itoa(1-i); got != want {
			t.Errorf("post %d remaining = %q, want %q", i+1, got, want)
		}
	}
	expectError(t, a.do(http.MethodPost, "/v1/villages/hampi/posts", body, ""), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED")

	// Reads are not limited.
	if rec := a.do(http.MethodGet, "/v1/villages/hampi/posts", nil, ""); rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200", rec.Code)
	}
}

func TestMicroserviceProxy(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(proxy.HeaderInternalProxy) != "dev-secret" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"path":"`+r.URL.Path+`"}`)
	}))
	defer upstream.Close()

	a := newAPI(t, 1000, upstream.URL)
	rec := a.do(http.MethodPost, "/api/microservice/rag/query", map[string]string{"q": "coffee"}, "")
	if rec.Code != http.StatusOK || rec.Body.String() != `{"path":"/rag/query"}` {
		t.Errorf("proxy = %d %s", rec.Code, rec.Body.String())
	}

	var stats struct {
		Stats store.Stats `json:"stats"`
	}
	decode(t, a.do(http.MethodGet, "/healthz", nil, ""), &stats)
	if stats.Stats.Applications != 0 {
		t.Errorf("proxy changed registry state: %+v", stats.Stats)
	}
}

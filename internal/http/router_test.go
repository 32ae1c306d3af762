package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/pheafer-api/internal/auth"
	"github.com/redmonkez12/pheafer-api/internal/config"
	"github.com/redmonkez12/pheafer-api/internal/listing"
	"github.com/redmonkez12/pheafer-api/internal/logging"
	"github.com/redmonkez12/pheafer-api/internal/ratelimit"
	"github.com/redmonkez12/pheafer-api/internal/user"
)

func setupTestServer(t *testing.T, policy listing.Policy) *httptest.Server {
	t.Helper()

	logger := logging.NewDiscardLogger()
	cfg := &config.Config{
		Server: config.ServerConfig{Env: "prod", TrustedOrigins: []string{"http://localhost:3000"}},
	}

	tokens, err := auth.NewPasetoService(bytes.Repeat([]byte("k"), 32))
	if err != nil {
		t.Fatalf("NewPasetoService() error = %v", err)
	}

	users := user.NewMemoryStore()
	limiter := ratelimit.NewMemoryLimiter(100, time.Minute)
	t.Cleanup(limiter.Close)

	authService, err := auth.NewService(users, tokens, logger, 8*time.Hour, bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	listingService := listing.NewService(listing.NewMemoryStore(), users, listing.NewGate(policy), logger)

	router := NewRouter(cfg, Handlers{
		Auth:     auth.NewHandler(authService, limiter),
		Listings: listing.NewHandler(listingService),
	}, auth.NewMiddleware(authService), prometheus.NewRegistry(), logger)

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, token, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	return resp, buf.Bytes()
}

func login(t *testing.T, srv *httptest.Server, email, password, role string) string {
	t.Helper()

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/register", "",
		`{"email":"`+email+`","password":"`+password+`","role":"`+role+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d: %s", resp.StatusCode, body)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/login", "",
		`{"email":"`+email+`","password":"`+password+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d: %s", resp.StatusCode, body)
	}

	var tokens auth.AuthTokens
	if err := json.Unmarshal(body, &tokens); err != nil {
		t.Fatalf("decode tokens: %v", err)
	}
	return tokens.Token
}

const w1 = `{"name":"W1","city":"Dallas","latitude":32.78,"longitude":-96.8,"price":500000,"squareFootage":10000,
	"specs":{"ceilingHeight":24,"dockDoors":4,"powerCapacity":"3-phase 400A","zoningType":"Industrial"}}`

func TestRegisterLoginCreateSearch(t *testing.T) {
	srv := setupTestServer(t, listing.PolicyAnyAuthenticated)
	token := login(t, srv, "a@b.com", "pw1", "developer")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/listings", token, w1)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d: %s", resp.StatusCode, body)
	}
	var created listing.Listing
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode listing: %v", err)
	}
	want := listing.Fields{
		Name: "W1", City: "Dallas", Latitude: 32.78, Longitude: -96.8, Price: 500000, SquareFootage: 10000,
		Specs: listing.Specs{CeilingHeight: 24, DockDoors: 4, PowerCapacity: "3-phase 400A", ZoningType: "Industrial"},
	}
	if created.Fields != want || created.ID.String() == "" {
		t.Fatalf("created = %+v", created)
	}

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/listings?city=dal", "", "")
	var found []listing.Listing
	if err := json.Unmarshal(body, &found); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if resp.StatusCode != http.StatusOK || len(found) != 1 || found[0].ID != created.ID {
		t.Fatalf("search: status %d, %+v", resp.StatusCode, found)
	}

	resp, _ = doJSON(t, http.MethodGet, srv.URL+"/api/listings?city=Chicago", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("search status = %d", resp.StatusCode)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	srv := setupTestServer(t, listing.PolicyAnyAuthenticated)
	token := login(t, srv, "a@b.com", "pw1", "developer")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/listings", token, w1)
	var created listing.Listing
	_ = json.Unmarshal(body, &created)
	path := srv.URL + "/api/listings/" + created.ID.String()

	cases := []struct {
		method, url, token string
	}{
		{http.MethodPost, srv.URL + "/api/listings", ""},
		{http.MethodPut, path, ""},
		{http.MethodDelete, path, ""},
		{http.MethodDelete, path, token + "tampered"},
	}
	for _, c := range cases {
		resp, _ = doJSON(t, c.method, c.url, c.token, w1)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s: status = %d, want 401", c.method, c.url, resp.StatusCode)
		}
	}

	resp, _ = doJSON(t, http.MethodGet, path, "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("listing should survive rejected mutations, status = %d", resp.StatusCode)
	}
}

func TestCreatorOnlyPolicy(t *testing.T) {
	srv := setupTestServer(t, listing.PolicyCreatorOnly)
	owner := login(t, srv, "a@b.com", "pw1", "developer")
	other := login(t, srv, "c@d.com", "pw2", "tenant")

	_, body := doJSON(t, http.MethodPost, srv.URL+"/api/listings", owner, w1)
	var created listing.Listing
	_ = json.Unmarshal(body, &created)
	path := srv.URL + "/api/listings/" + created.ID.String()

	if resp, _ := doJSON(t, http.MethodDelete, path, other, ""); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete by other: status = %d, want 403", resp.StatusCode)
	}
	if resp, _ := doJSON(t, http.MethodDelete, path, owner, ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("delete by owner: status = %d, want 200", resp.StatusCode)
	}
	if resp, _ := doJSON(t, http.MethodDelete, path, owner, ""); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second delete: status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	srv := setupTestServer(t, listing.PolicyAnyAuthenticated)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/health", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("security headers missing, X-Content-Type-Options = %q", got)
	}

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/metrics", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("metrics status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), `pheafer_api_http_requests_total{method="GET",route="/health",status="200"} 1`) {
		t.Errorf("health request not counted:\n%s", body)
	}
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hosico-labs/bounty-backend/api/routes"
	"github.com/hosico-labs/bounty-backend/internal/config"
	"github.com/hosico-labs/bounty-backend/internal/handlers"
	"github.com/hosico-labs/bounty-backend/internal/models"
	"github.com/hosico-labs/bounty-backend/internal/repositories"
	"github.com/hosico-labs/bounty-backend/internal/repositories/memory"
	"github.com/hosico-labs/bounty-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

const (
	adminWallet    = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
	outsiderWallet = "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router   *gin.Engine
	store    *repositories.Store
	category *models.Category
	now      time.Time
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	ts := &testServer{
		store: memory.NewStore(),
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, ts.store.AdminWallets.Add(ctx, &models.AdminWallet{WalletAddress: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"}))
	ts.category = &models.Category{Name: "Memes"}
	require.NoError(t, ts.store.Categories.Create(ctx, ts.category))

	gate := services.NewAuthorizationGate(services.NewRepositoryAllowlist(ts.store.AdminWallets))
	clock := services.WithClock(func() time.Time { return ts.now })
	h := routes.Handlers{
		Bounty:     handlers.NewBountyHandler(services.NewBountyService(ts.store.Bounties, ts.store.Submissions, ts.store.Categories, gate, clock)),
		Submission: handlers.NewSubmissionHandler(services.NewSubmissionService(ts.store.Bounties, ts.store.Submissions, clock)),
		Winner:     handlers.NewWinnerHandler(services.NewWinnerService(ts.store.Bounties, ts.store.Submissions, gate, clock)),
		Ping:       ts.store.Ping,
	}
	ts.router = routes.SetupRouter(testConfig(), h, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return ts
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			AllowedOrigins: []string{"*"},
			RequestTimeout: 5 * time.Second,
		},
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			encoded, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(encoded)
		}
		reader = bytes.NewBufferString(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return w.Code, out
}

func (ts *testServer) createBounty(t *testing.T, endDate time.Time) string {
	t.Helper()
	code, body := ts.do(t, http.MethodPost, "/api/create-bounty", map[string]any{
		"walletAddress": adminWallet,
		"bounty": map[string]any{
			"title":        "Best Hosico meme",
			"description":  "Post your best meme",
			"requirements": "Follow @hosico\nTag two friends",
			"category_id":  ts.category.ID,
			"end_date":     endDate.Format(time.RFC3339),
			"prizes": []map[string]any{
				{"place": "1st", "amount": 500},
				{"place": "2nd", "amount": "300"},
				{"place": "3rd", "prize": 200},
			},
		},
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["bounty"].(map[string]any)["id"].(string)
}

func (ts *testServer) submit(t *testing.T, bountyID, wallet string) string {
	t.Helper()
	code, body := ts.do(t, http.MethodPost, "/api/submissions/create", map[string]any{
		"submission": map[string]any{
			"bounty_id":      bountyID,
			"wallet_address": wallet,
			"twitter_handle": "@hosico",
			"tweet_link":     "https://x.com/hosico/status/1",
		},
	})
	require.Equal(t, http.StatusCreated, code, body)
	return body["submission"].(map[string]any)["id"].(string)
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	code, body := ts.do(t, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateAndReadBounty(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createBounty(t, ts.now.Add(24*time.Hour))

	code, body := ts.do(t, http.MethodGet, "/api/bounties/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	bounty := body["bounty"].(map[string]any)
	assert.Equal(t, "1000", bounty["total_prize"])
	assert.Equal(t, "active", bounty["status"])
	assert.Equal(t, "HOSICO", bounty["token_symbol"])
	assert.Equal(t, []any{"Follow @hosico", "Tag two friends"}, bounty["requirements"])
	assert.Equal(t, "Memes", bounty["category"].(map[string]any)["name"])
	assert.Nil(t, bounty["winners"])

	code, body = ts.do(t, http.MethodGet, "/api/bounties", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["bounties"], 1)

	code, body = ts.do(t, http.MethodGet, "/api/categories", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["categories"], 1)
}

func TestErrorStatusMapping(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createBounty(t, ts.now.Add(time.Hour))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"malformed json", http.MethodPost, "/api/create-bounty", `{"bounty":`, http.StatusBadRequest},
		{"missing field", http.MethodPost, "/api/create-bounty", map[string]any{"walletAddress": adminWallet, "bounty": map[string]any{"title": "x"}}, http.StatusBadRequest},
		{"non-admin create", http.MethodPost, "/api/create-bounty", map[string]any{"walletAddress": outsiderWallet, "bounty": map[string]any{"title": "x"}}, http.StatusForbidden},
		{"missing wallet", http.MethodPost, "/api/bounty/delete", map[string]any{"bountyId": id}, http.StatusForbidden},
		{"delete unknown", http.MethodPost, "/api/bounty/delete", map[string]any{"bountyId": "nope", "walletAddress": adminWallet}, http.StatusNotFound},
		{"update unknown", http.MethodPost, "/api/bounty/update", map[string]any{"bounty": map[string]any{"id": "nope", "title": "x"}, "walletAddress": adminWallet}, http.StatusNotFound},
		{"select before end", http.MethodPut, "/api/bounty/select-winners", map[string]any{"bountyId": id, "winners": map[string]string{"x": "1st"}, "walletAddress": adminWallet}, http.StatusBadRequest},
		{"get unknown", http.MethodGet, "/api/bounties/nope", nil, http.StatusNotFound},
		{"bad end date", http.MethodPost, "/api/create-bounty", map[string]any{"walletAddress": adminWallet, "bounty": map[string]any{"end_date": "next week"}}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := ts.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestNonAdminDeleteKeepsBounty(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createBounty(t, ts.now.Add(time.Hour))

	code, _ := ts.do(t, http.MethodPost, "/api/bounty/delete", map[string]any{"bountyId": id, "walletAddress": outsiderWallet})
	assert.Equal(t, http.StatusForbidden, code)

	_, body := ts.do(t, http.MethodGet, "/api/bounties", nil)
	require.Len(t, body["bounties"], 1)
	assert.Equal(t, id, body["bounties"].([]any)[0].(map[string]any)["id"])

	code, body = ts.do(t, http.MethodPost, "/api/bounty/delete", map[string]any{"bountyId": id, "walletAddress": adminWallet})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Bounty deleted successfully", body["message"])
}

func TestUpdateBountyPartial(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createBounty(t, ts.now.Add(time.Hour))

	code, body := ts.do(t, http.MethodPost, "/api/bounty/update", map[string]any{
		"walletAddress": adminWallet,
		"bounty":        map[string]any{"id": id, "token_address": "", "is_custom_token": false, "title": "Renamed"},
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, true, body["success"])
	bounty := body["bounty"].(map[string]any)
	assert.Equal(t, "Renamed", bounty["title"])
	assert.Equal(t, "Post your best meme", bounty["description"])
}

func TestCreateBountyWithCategoryObjectAndCamelEndDate(t *testing.T) {
	ts := newTestServer(t)
	end := ts.now.Add(48 * time.Hour)

	code, body := ts.do(t, http.MethodPost, "/api/create-bounty", map[string]any{
		"walletAddress": adminWallet,
		"bounty": map[string]any{
			"title":        "Best Hosico meme",
			"description":  "Post your best meme",
			"requirements": []string{"Follow @hosico"},
			"category":     map[string]any{"id": ts.category.ID, "name": "Memes"},
			"endDate":      end.Format(time.RFC3339),
			"prizes":       []map[string]any{{"place": "1st", "amount": 500}},
		},
	})
	require.Equal(t, http.StatusCreated, code, body)
	bounty := body["bounty"].(map[string]any)
	assert.Equal(t, ts.category.ID, bounty["category_id"])
	assert.Equal(t, end.Format(time.RFC3339), bounty["end_date"])

	other := &models.Category{Name: "Art"}
	require.NoError(t, ts.store.Categories.Create(context.Background(), other))
	code, body = ts.do(t, http.MethodPost, "/api/bounty/update", map[string]any{
		"walletAddress": adminWallet,
		"bounty":        map[string]any{"id": bounty["id"], "category": other.ID},
	})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, other.ID, body["bounty"].(map[string]any)["category_id"])
}

func TestSubmissionFlowAndWinnerSelection(t *testing.T) {
	ts := newTestServer(t)
	id := ts.createBounty(t, ts.now.Add(time.Hour))
	s1 := ts.submit(t, id, outsiderWallet)
	s2 := ts.submit(t, id, "So11111111111111111111111111111111111111112")

	t.Run("resubmitting updates the entry", func(t *testing.T) {
		code, body := ts.do(t, http.MethodPost, "/api/submissions/create", map[string]any{
			"submission": map[string]any{"bounty_id": id, "wallet_address": outsiderWallet, "tweet_link": "https://x.com/hosico/status/2"},
		})
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, s1, body["submission"].(map[string]any)["id"])
	})

	t.Run("find", func(t *testing.T) {
		code, body := ts.do(t, http.MethodPost, "/api/submissions/find", map[string]any{"bounty_id": id, "wallet_address": outsiderWallet})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, s1, body["submission"].(map[string]any)["id"])

		code, body = ts.do(t, http.MethodPost, "/api/submissions/find", map[string]any{"bounty_id": id, "wallet_address": adminWallet})
		require.Equal(t, http.StatusOK, code)
		assert.Nil(t, body["submission"])
	})

	t.Run("owner update", func(t *testing.T) {
		code, _ := ts.do(t, http.MethodPut, "/api/submissions/update", map[string]any{
			"submissionId": s1,
			"submission":   map[string]any{"wallet_address": adminWallet, "tweet_link": "https://x.com/other"},
		})
		assert.Equal(t, http.StatusForbidden, code)

		code, body := ts.do(t, http.MethodPut, "/api/submissions/update", map[string]any{
			"submissionId": s1,
			"submission":   map[string]any{"wallet_address": outsiderWallet, "extra_info": "gm"},
		})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "gm", body["submission"].(map[string]any)["extra_info"])
	})

	ts.now = ts.now.Add(2 * time.Hour)

	t.Run("select winners once", func(t *testing.T) {
		code, body := ts.do(t, http.MethodPut, "/api/bounty/select-winners", map[string]any{
			"bountyId":      id,
			"walletAddress": adminWallet,
			"winners":       map[string]string{s1: "1st", s2: "No Prize"},
		})
		require.Equal(t, http.StatusOK, code, body)
		bounty := body["bounty"].(map[string]any)
		assert.Equal(t, map[string]any{s1: "1st"}, bounty["winners"])
		assert.Equal(t, "finalized", bounty["status"])

		code, body = ts.do(t, http.MethodPut, "/api/bounty/select-winners", map[string]any{
			"bountyId":      id,
			"walletAddress": adminWallet,
			"winners":       map[string]string{s2: "2nd"},
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "the winners have already been selected", body["error"])
	})

	t.Run("submissions closed after end", func(t *testing.T) {
		code, body := ts.do(t, http.MethodPost, "/api/submissions/create", map[string]any{
			"submission": map[string]any{"bounty_id": id, "wallet_address": adminWallet},
		})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "bounty has ended", body["error"])
	})
}

// slowBounties blocks until the request deadline passes.
type slowBounties struct {
	services.BountyService
}

func (slowBounties) List(ctx context.Context) ([]*models.Bounty, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestRequestTimeout(t *testing.T) {
	cfg := testConfig()
	cfg.Server.RequestTimeout = 20 * time.Millisecond
	router := routes.SetupRouter(cfg, routes.Handlers{
		Bounty: handlers.NewBountyHandler(slowBounties{}),
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/bounties", nil))
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.JSONEq(t, `{"error":"request timed out"}`, w.Body.String())
}

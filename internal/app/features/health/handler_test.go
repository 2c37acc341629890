package health_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/dalemusser/careerhub/internal/app/features/health"
	"github.com/dalemusser/careerhub/internal/testutil"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type response struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message"`
}

func serve(t *testing.T, h *health.Handler) (int, response) {
	t.Helper()
	rec := httptest.NewRecorder()
	health.Routes(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}
	var out response
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec.Code, out
}

func TestServe_Connected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	h := health.NewHandler(db.Client(), rdb, zap.NewNop())

	code, got := serve(t, h)
	if code != http.StatusOK || got.Status != "ok" || got.Database != "connected" || got.Cache != "connected" {
		t.Errorf("healthy: code=%d body=%+v", code, got)
	}

	mr.Close()
	code, got = serve(t, h)
	if code != http.StatusOK || got.Status != "degraded" || got.Cache != "disconnected" {
		t.Errorf("redis down: code=%d body=%+v", code, got)
	}
}

func TestServe_NoCache(t *testing.T) {
	db := testutil.SetupTestDB(t)
	code, got := serve(t, health.NewHandler(db.Client(), nil, zap.NewNop()))
	if code != http.StatusOK || got.Cache != "disabled" {
		t.Errorf("no cache: code=%d body=%+v", code, got)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI("mongodb://127.0.0.1:1").
		SetServerSelectionTimeout(200*time.Millisecond))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	code, got := serve(t, health.NewHandler(client, nil, zap.NewNop()))
	if code != http.StatusServiceUnavailable || got.Status != "error" || got.Database != "disconnected" {
		t.Errorf("db down: code=%d body=%+v", code, got)
	}
}

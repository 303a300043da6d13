package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type fakeConn struct {
	closed    bool
	connected bool
}

func (f fakeConn) IsClosed() bool    { return f.closed }
func (f fakeConn) IsConnected() bool { return f.connected }

type healthResponse struct {
	Status       string                       `json:"status"`
	Dependencies map[string]map[string]string `json:"dependencies"`
}

func runHealth(t *testing.T, h *HealthChecker) (int, healthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/healthz", nil)
	r.ServeHTTP(w, req)

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return w.Code, resp
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestHealth_AllUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	mock.ExpectPing()

	rdb, _ := newRedis(t)
	code, resp := runHealth(t, NewHealthChecker(db, fakeConn{}, fakeConn{connected: true}, rdb))

	if code != http.StatusOK || resp.Status != "healthy" {
		t.Fatalf("expected healthy 200, got %d %+v", code, resp)
	}
	for _, dep := range []string{"postgres", "rabbitmq", "mqtt", "redis"} {
		if resp.Dependencies[dep]["status"] != "up" {
			t.Errorf("expected %s up, got %+v", dep, resp.Dependencies[dep])
		}
	}
}

func TestHealth_DependenciesDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	rdb, mr := newRedis(t)
	mr.Close()

	code, resp := runHealth(t, NewHealthChecker(db, fakeConn{closed: true}, fakeConn{}, rdb))

	if code != http.StatusServiceUnavailable || resp.Status != "unhealthy" {
		t.Fatalf("expected unhealthy 503, got %d %+v", code, resp)
	}
	for _, dep := range []string{"postgres", "rabbitmq", "mqtt", "redis"} {
		if resp.Dependencies[dep]["status"] != "down" {
			t.Errorf("expected %s down, got %+v", dep, resp.Dependencies[dep])
		}
	}
	if resp.Dependencies["postgres"]["error"] != "connection refused" {
		t.Errorf("unexpected postgres error %q", resp.Dependencies["postgres"]["error"])
	}
}

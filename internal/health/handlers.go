package health

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for the health check. If nil, the database is reported
// as disconnected.
type DBPinger interface {
	Ping() error
}

// Handlers serves the health endpoint.
type Handlers struct {
	DB  DBPinger
	Rdb *redis.Client
}

type depStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// JSON GET /health/json — dependency statuses; 200 when everything is
// connected, 503 otherwise.
func (h *Handlers) JSON(c *fiber.Ctx) error {
	deps := map[string]depStatus{
		"database": h.pingDB(),
		"redis":    h.pingRedis(c),
	}

	status := "ok"
	code := fiber.StatusOK
	for _, d := range deps {
		if d.Status != "connected" {
			status = "degraded"
			code = fiber.StatusServiceUnavailable
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"status":       status,
		"dependencies": deps,
	})
}

func (h *Handlers) pingDB() depStatus {
	if h.DB == nil {
		return depStatus{Status: "disconnected"}
	}
	start := time.Now()
	if err := h.DB.Ping(); err != nil {
		return depStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return depStatus{Status: "connected", PingMs: &ms}
}

func (h *Handlers) pingRedis(c *fiber.Ctx) depStatus {
	if h.Rdb == nil {
		return depStatus{Status: "disconnected"}
	}
	start := time.Now()
	if err := h.Rdb.Ping(c.Context()).Err(); err != nil {
		return depStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return depStatus{Status: "connected", PingMs: &ms}
}

package boardserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports liveness and the active storage backend.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Version   string    `json:"version"`
	Storage   string    `json:"storage"`
	Timestamp time.Time `json:"timestamp"`
}

// Pinger checks that a storage backend is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthAPI serves /health and /healthz.
type HealthAPI struct {
	service string
	version string
	storage string
	db      Pinger
}

// NewHealthAPI creates a HealthAPI. db may be nil for the memory backend.
func NewHealthAPI(service, version, storage string, db Pinger) HealthAPI {
	return HealthAPI{service: service, version: version, storage: storage, db: db}
}

// Get /health
// Report service health
func (api *HealthAPI) HealthCheck(c *gin.Context) {
	status := "ok"
	if api.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := api.db.PingContext(ctx); err != nil {
			status = "degraded"
		}
	}
	c.JSON(http.StatusOK, HealthResponse{
		Status:    status,
		Service:   api.service,
		Version:   api.version,
		Storage:   api.storage,
		Timestamp: time.Now().UTC(),
	})
}

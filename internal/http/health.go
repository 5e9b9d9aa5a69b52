package http

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const healthProbeTimeout = 2 * time.Second

// HealthResponse is the body of GET /health. Checks maps each probe name to
// "ok", "not configured" or the probe's error.
type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type healthProbe struct {
	name  string
	check func(ctx context.Context) error // nil when not configured
}

type HealthController struct {
	probes  []healthProbe
	version string
}

// NewHealthController probes the database and, when photosDir is set, the
// photo directory.
func NewHealthController(db HealthChecker, photosDir, version string) *HealthController {
	h := &HealthController{version: version}

	dbProbe := healthProbe{name: "database"}
	if db != nil {
		dbProbe.check = db.Ping
	}
	h.probes = append(h.probes, dbProbe)

	if photosDir != "" {
		h.probes = append(h.probes, healthProbe{
			name:  "photos",
			check: func(context.Context) error { return dirReady(photosDir) },
		})
	}

	sort.Slice(h.probes, func(i, j int) bool { return h.probes[i].name < h.probes[j].name })
	return h
}

func dirReady(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}

func (h *HealthController) Status(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthProbeTimeout)
	defer cancel()

	resp := HealthResponse{
		Status:  "healthy",
		Time:    time.Now().UTC().Format(time.RFC3339),
		Version: h.version,
		Checks:  make(map[string]string, len(h.probes)),
	}
	for _, p := range h.probes {
		switch {
		case p.check == nil:
			resp.Checks[p.name] = "not configured"
		default:
			if err := p.check(ctx); err != nil {
				resp.Checks[p.name] = "error: " + err.Error()
				resp.Status = "unhealthy"
				continue
			}
			resp.Checks[p.name] = "ok"
		}
	}

	code := http.StatusOK
	if resp.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.IndentedJSON(code, resp)
}

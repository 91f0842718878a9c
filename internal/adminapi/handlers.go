// Package adminapi provides a read-only REST introspection API for the
// DNS interpreter: health, live counters, recent weird notices, and
// active session information. It never accepts a write that would change
// interpreter behavior — there is no equivalent of the teacher's
// zone/filtering management endpoints, since this process observes
// traffic rather than serving it.
//
// @title dnsvigil Admin API
// @version 1.0
// @description Read-only introspection API for the DNS wire-protocol interpreter.
//
// @contact.name dnsvigil
// @contact.url https://github.com/hydravigil/dnsvigil
//
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
//
// @host localhost:8080
// @BasePath /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
package adminapi

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/hydravigil/dnsvigil/internal/store"
)

// Handler holds the dependencies the admin API's endpoints read from.
// Grounded on the teacher's api/handlers.Handler shape (dependencies
// injected at construction, an RWMutex-guarded runtime callback), trimmed
// to the read-only surface this repository needs.
type Handler struct {
	logger    *slog.Logger
	db        *store.DB
	startTime time.Time

	mu           sync.RWMutex
	sessionCount func() int
}

// New creates a Handler bound to db for querying persisted events/weirds.
func New(db *store.DB, logger *slog.Logger) *Handler {
	return &Handler{db: db, logger: logger, startTime: time.Now()}
}

// SetSessionCountFunc wires a callback the /stats endpoint uses to report
// the number of currently-tracked sessions. While no callback is set,
// /stats reports a session count of zero.
func (h *Handler) SetSessionCountFunc(fn func() int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessionCount = fn
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status       string  `json:"status"`
	UptimeSecond float64 `json:"uptime_seconds"`
	DBHealthy    bool    `json:"db_healthy"`
	MemUsedPct   float64 `json:"mem_used_percent,omitempty"`
	CPUPercent   float64 `json:"cpu_percent,omitempty"`
	RSSBytes     uint64  `json:"rss_bytes,omitempty"`
}

// Health godoc
//
//	@Summary	Health check
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	HealthResponse
//	@Router		/health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:       "ok",
		UptimeSecond: time.Since(h.startTime).Seconds(),
		DBHealthy:    h.db == nil || h.db.Health() == nil,
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		resp.MemUsedPct = vm.UsedPercent
	}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		resp.CPUPercent = pcts[0]
	}
	if p, err := process.NewProcess(int32(processID())); err == nil {
		if mi, err := p.MemoryInfo(); err == nil && mi != nil {
			resp.RSSBytes = mi.RSS
		}
	}

	status := http.StatusOK
	if !resp.DBHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

// StatsResponse is the /stats payload.
type StatsResponse struct {
	EventCounts   map[string]int64 `json:"event_counts"`
	SessionCount  int              `json:"session_count"`
	UptimeSeconds float64          `json:"uptime_seconds"`
}

// Stats godoc
//
//	@Summary	Interpreter statistics
//	@Tags		stats
//	@Produce	json
//	@Success	200	{object}	StatsResponse
//	@Router		/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	resp := StatsResponse{
		EventCounts: map[string]int64{},
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}

	if h.db != nil {
		if counts, err := h.db.EventCounts(); err == nil {
			for kind, n := range counts {
				resp.EventCounts[eventKindName(kind)] = n
			}
		}
	}

	h.mu.RLock()
	fn := h.sessionCount
	h.mu.RUnlock()
	if fn != nil {
		resp.SessionCount = fn()
	}

	c.JSON(http.StatusOK, resp)
}

// WeirdsResponse is the /weirds payload.
type WeirdsResponse struct {
	Notices []WeirdNotice `json:"notices"`
}

// WeirdNotice is the JSON shape of a single stored notice.
type WeirdNotice struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
	Detail    string `json:"detail,omitempty"`
}

// Weirds godoc
//
//	@Summary	Recent weird notices
//	@Tags		weirds
//	@Produce	json
//	@Description	Returns at most the 100 most recent notices, newest first.
//	@Success	200		{object}	WeirdsResponse
//	@Router		/weirds [get]
func (h *Handler) Weirds(c *gin.Context) {
	limit := 100
	if h.db == nil {
		c.JSON(http.StatusOK, WeirdsResponse{})
		return
	}
	notices, err := h.db.RecentWeirds(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]WeirdNotice, 0, len(notices))
	for _, n := range notices {
		out = append(out, WeirdNotice{SessionID: n.SessionID, Name: n.Name, Detail: n.Detail})
	}
	c.JSON(http.StatusOK, WeirdsResponse{Notices: out})
}

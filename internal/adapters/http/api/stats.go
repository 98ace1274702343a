// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/okian/talentmatch/pkg/metrics"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests. Process gauges are refreshed on
// every call.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	snap := metrics.CollectSystem()

	stats := map[string]interface{}{}
	for k, v := range h.statsProvider.GetStats() {
		stats[k] = v
	}
	stats["heapAllocBytes"] = snap.HeapAllocBytes
	stats["goroutines"] = snap.Goroutines
	writeJSON(w, http.StatusOK, stats)
}

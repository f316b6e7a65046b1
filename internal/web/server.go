package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"aisrx/internal/receiver"
)

type statusResponse struct {
	Service   string            `json:"service"`
	NowUTC    string            `json:"now_utc"`
	UptimeSec int64             `json:"uptime_sec"`
	Receiver  receiver.Snapshot `json:"receiver"`
}

type recentResponse struct {
	NowUTC   string             `json:"now_utc"`
	Messages []receiver.Message `json:"messages"`
}

// Handler serves the status API:
//
//	GET /api/status  — receiver counters and feed info
//	GET /api/recent  — recently decoded messages, newest first
//	GET /metrics     — Prometheus exposition
func Handler(svc *receiver.Service, recent *MessageRing) http.Handler {
	start := time.Now().UTC()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		now := time.Now().UTC()
		resp := statusResponse{
			Service:   "aisrx",
			NowUTC:    now.Format(time.RFC3339Nano),
			UptimeSec: int64(now.Sub(start).Seconds()),
			Receiver:  svc.Snapshot(),
		}
		writeJSON(w, resp)
	})

	mux.HandleFunc("/api/recent", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		tail := 0
		if s := strings.TrimSpace(r.URL.Query().Get("tail")); s != "" {
			v, err := strconv.Atoi(s)
			if err != nil || v < 1 || v > 1000 {
				http.Error(w, "tail must be an integer in [1,1000]", http.StatusBadRequest)
				return
			}
			tail = v
		}
		resp := recentResponse{
			NowUTC:   time.Now().UTC().Format(time.RFC3339Nano),
			Messages: recent.Snapshot(tail),
		}
		writeJSON(w, resp)
	})

	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, "marshal failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(b)
	_, _ = w.Write([]byte("\n"))
}

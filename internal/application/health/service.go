// Package health reports dependency status and the request counters kept in
// Redis by middleware.HealthMarker.
package health

import (
	"context"
	"encoding/json"
	"runtime"
	"strconv"
	"time"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional. If nil, database is reported as disconnected.
type DBPinger interface {
	PingContext(ctx context.Context) error
}

// Report is the /health/json payload.
type Report struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptime_seconds"`
	Memory        MemoryInfo `json:"memory"`
	Goroutines    int        `json:"goroutines"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"go_version"`
}

type MemoryInfo struct {
	AllocMB  int `json:"alloc_mb"`
	HeapInMB int `json:"heap_in_use_mb"`
}

type TrafficInfo struct {
	TotalRequests   int                    `json:"total_requests"`
	SuccessCount    int                    `json:"success_count"`
	FailedCount     int                    `json:"failed_count"`
	SuccessRate     string                 `json:"success_rate"`
	AvgResponseTime string                 `json:"avg_response_time_ms"`
	LastRequest     map[string]interface{} `json:"last_request"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"ping_ms"`
}

const (
	StatusOK    = "ok"
	StatusIssue = "issue"
)

func ping(ctx context.Context, fn func(context.Context) error) DepStatus {
	start := time.Now()
	if err := fn(ctx); err != nil {
		return DepStatus{Status: "error"}
	}
	ms := time.Since(start).Milliseconds()
	return DepStatus{Status: "connected", PingMs: &ms}
}

// Collect gathers dependency status and traffic counters.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Report {
	r := Report{Dependencies: make(map[string]DepStatus, 2)}

	r.Dependencies["database"] = DepStatus{Status: "disconnected"}
	if db != nil {
		r.Dependencies["database"] = ping(ctx, db.PingContext)
	}

	r.Traffic = TrafficInfo{AvgResponseTime: "0", SuccessRate: "100"}
	startMs := time.Now().UnixMilli()
	r.Dependencies["redis"] = DepStatus{Status: "disconnected"}
	if rdb != nil {
		dep := ping(ctx, func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		r.Dependencies["redis"] = dep
		if dep.Status == "connected" {
			startMs = readTraffic(ctx, rdb, &r.Traffic, startMs)
		}
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptime := (time.Now().UnixMilli() - startMs) / 1000
	if uptime < 0 {
		uptime = 0
	}
	r.Runtime = RuntimeInfo{
		UptimeSeconds: uptime,
		Memory:        MemoryInfo{AllocMB: int(m.Alloc >> 20), HeapInMB: int(m.HeapInuse >> 20)},
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}

	r.Status = StatusIssue
	if r.Dependencies["database"].Status == "connected" && r.Dependencies["redis"].Status == "connected" {
		r.Status = StatusOK
	}
	return r
}

func readTraffic(ctx context.Context, rdb *redis.Client, t *TrafficInfo, startMs int64) int64 {
	vals, err := rdb.MGet(ctx,
		middleware.KeyReqTotal, middleware.KeyReqErrors, middleware.KeyResTime,
		middleware.KeyResCount, middleware.KeyStartTime, middleware.KeyLastReq,
	).Result()
	if err != nil {
		return startMs
	}
	str := func(i int) string {
		s, _ := vals[i].(string)
		return s
	}

	if s := str(4); s != "" {
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			startMs = v
		}
	} else {
		_ = rdb.SetNX(ctx, middleware.KeyStartTime, startMs, 0).Err()
	}

	t.TotalRequests, _ = strconv.Atoi(str(0))
	t.FailedCount, _ = strconv.Atoi(str(1))
	t.SuccessCount = t.TotalRequests - t.FailedCount
	if t.TotalRequests > 0 {
		t.SuccessRate = strconv.FormatFloat(float64(t.SuccessCount)/float64(t.TotalRequests)*100, 'f', 1, 64)
	}
	timeSum, _ := strconv.ParseFloat(str(2), 64)
	count, _ := strconv.Atoi(str(3))
	if count > 0 {
		t.AvgResponseTime = strconv.FormatFloat(timeSum/float64(count), 'f', 2, 64)
	}
	if s := str(5); s != "" {
		_ = json.Unmarshal([]byte(s), &t.LastRequest)
	}
	return startMs
}

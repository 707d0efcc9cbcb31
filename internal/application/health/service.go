package health

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"autovia-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as
// disconnected.
type DBPinger interface {
	Ping() error
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	Goroutines    int    `json:"goroutines"`
	HeapUsed      uint64 `json:"heapUsed"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int    `json:"totalRequests"`
	SuccessCount    int    `json:"successCount"`
	FailedCount     int    `json:"failedCount"`
	SuccessRate     string `json:"successRate"`
	AvgResponseTime string `json:"avgResponseTime"`
	LastRequest     string `json:"lastRequest"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

var processStart = time.Now()

// CollectHealth gathers connectivity for the DB and Redis plus the traffic
// counters the HealthMarker middleware accumulates.
func CollectHealth(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	result := CollectResult{Dependencies: make(map[string]DepStatus)}

	dbStatus := "disconnected"
	var dbPingMs *int64
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbPingMs = &ms
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPingMs}

	redisStatus := "disconnected"
	var redisPingMs *int64
	traffic := TrafficInfo{SuccessRate: "100", AvgResponseTime: "0"}
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = "connected"

			total := getInt(ctx, rdb, middleware.KeyReqTotal)
			failed := getInt(ctx, rdb, middleware.KeyReqErrors)
			resTime := getFloat(ctx, rdb, middleware.KeyResTime)
			resCount := getInt(ctx, rdb, middleware.KeyResCount)
			lastReq, _ := rdb.Get(ctx, middleware.KeyLastReq).Result()

			traffic.TotalRequests = total
			traffic.FailedCount = failed
			traffic.SuccessCount = total - failed
			traffic.LastRequest = lastReq
			if total > 0 {
				traffic.SuccessRate = strconv.FormatFloat(float64(total-failed)/float64(total)*100, 'f', 1, 64)
			}
			if resCount > 0 {
				traffic.AvgResponseTime = strconv.FormatFloat(resTime/float64(resCount), 'f', 2, 64)
			}
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}
	result.Traffic = traffic

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	result.Runtime = RuntimeInfo{
		UptimeSeconds: int64(time.Since(processStart).Seconds()),
		Goroutines:    runtime.NumGoroutine(),
		HeapUsed:      mem.HeapAlloc,
		Platform:      runtime.GOOS,
		GoVersion:     runtime.Version(),
	}

	result.Status = "ok"
	if dbStatus != "connected" || redisStatus != "connected" {
		result.Status = "issue"
	}
	return result
}

func getInt(ctx context.Context, rdb *redis.Client, key string) int {
	v, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

func getFloat(ctx context.Context, rdb *redis.Client, key string) float64 {
	v, err := rdb.Get(ctx, key).Result()
	if err != nil {
		return 0
	}
	f, _ := strconv.ParseFloat(v, 64)
	return f
}

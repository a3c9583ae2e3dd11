package telemetry

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

type perfGauges struct {
	cpu         metric.Float64Gauge
	memory      metric.Int64Gauge
	liveObjects metric.Int64Gauge
	goroutines  metric.Int64Gauge
}

func newPerfGauges() perfGauges {
	meter := otel.Meter("go.perf_stats")
	cpuGauge, _ := meter.Float64Gauge("cpu_usage")
	memoryGauge, _ := meter.Int64Gauge("allocated_mb")
	liveObjectsGauge, _ := meter.Int64Gauge("live_objects")
	goroutineGauge, _ := meter.Int64Gauge("goroutine_count")
	return perfGauges{
		cpu:         cpuGauge,
		memory:      memoryGauge,
		liveObjects: liveObjectsGauge,
		goroutines:  goroutineGauge,
	}
}

// PerfSample is a single reading of process stats.
type PerfSample struct {
	CpuPercent  float64
	AllocatedMb int64
	LiveObjects int64
	Goroutines  int64
}

// SamplePerf reads current process stats, the cpu reading blocks for window.
func SamplePerf(window time.Duration) PerfSample {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	sample := PerfSample{
		AllocatedMb: int64(memStats.Alloc / 1_000_000),
		LiveObjects: int64(memStats.Mallocs) - int64(memStats.Frees),
		Goroutines:  int64(runtime.NumGoroutine()),
	}
	cpuUsage, err := cpu.Percent(window, false)
	if err == nil && len(cpuUsage) > 0 {
		sample.CpuPercent = cpuUsage[0]
	} else if err != nil {
		slog.Debug("failed to read cpu usage", "err", err)
	}
	return sample
}

// InstrumentPerfStats records process stats every interval until ctx is done.
func InstrumentPerfStats(ctx context.Context, interval time.Duration) {
	gauges := newPerfGauges()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sample := SamplePerf(time.Second)
				gauges.cpu.Record(ctx, sample.CpuPercent)
				gauges.memory.Record(ctx, sample.AllocatedMb)
				gauges.liveObjects.Record(ctx, sample.LiveObjects)
				gauges.goroutines.Record(ctx, sample.Goroutines)
			case <-ctx.Done():
				return
			}
		}
	}()
}

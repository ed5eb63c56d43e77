package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rhettg/sysinfo/internal/sysinfo"
)

var (
	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sysinfo_build_info",
		Help: "Build and platform facts of the running binary. Always 1.",
	}, []string{"platform", "arch", "compiler", "vcs", "revision"})

	scriptsRevision = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sysinfo_scripts_revision_info",
		Help: "Revision of the currently loaded scripts. Always 1.",
	}, []string{"revision"})

	reloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sysinfo_scripts_reloads_total",
		Help: "Number of scripts revision reloads.",
	})

	// Mutex so the scripts revision series is swapped, not accumulated
	scriptsMutex sync.Mutex

	uptimeOnce sync.Once
)

// Observe records the facts that never change for the life of the process
// and the current scripts revision.
func Observe(r sysinfo.Report) {
	buildInfo.WithLabelValues(r.Platform, r.Arch, r.Compiler, r.VCSType, r.SourceRevision).Set(1)
	setScriptsRevision(r.ScriptsRevision)
}

// RegisterUptime exports the seconds elapsed since start.
func RegisterUptime(start time.Time) {
	uptimeOnce.Do(func() {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sysinfo_uptime_seconds",
			Help: "The uptime of the sysinfo service",
		}, func() float64 {
			return time.Since(start).Seconds()
		})
	})
}

func setScriptsRevision(rev string) {
	scriptsMutex.Lock()
	defer scriptsMutex.Unlock()

	scriptsRevision.Reset()
	scriptsRevision.WithLabelValues(rev).Set(1)
}

// Run records every scripts revision reload received on source until ctx is
// done or source is closed.
func Run(ctx context.Context, source <-chan sysinfo.Revision) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case rev, ok := <-source:
			if !ok {
				slog.Warn("reload stream closed")
				return nil
			}

			slog.Debug("recording scripts reload", "vcs", rev.Kind, "revision", rev.ID)
			reloads.Inc()
			setScriptsRevision(rev.ID)
		}
	}
}

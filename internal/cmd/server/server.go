package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rhettg/sysinfo/internal/announce"
	"github.com/rhettg/sysinfo/internal/config"
	"github.com/rhettg/sysinfo/internal/mw"
	"github.com/rhettg/sysinfo/internal/sysinfo"
	"github.com/rhettg/sysinfo/internal/telemetry"
	"github.com/rhettg/sysinfo/internal/watch"
)

var requests = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "sysinfo_requests_total",
		Help: "A counter for requests to the server.",
	},
	[]string{"code", "method"},
)

// Server serves the facts of one SysInfo over HTTP.
type Server struct {
	Name  string
	Info  *sysinfo.SysInfo
	Redis announce.Adder

	startTime time.Time
	reloads   chan sysinfo.Revision
	watchers  *watch.Hub
}

func New(name string, info *sysinfo.SysInfo, rdb announce.Adder) *Server {
	return &Server{
		Name:      name,
		Info:      info,
		Redis:     rdb,
		startTime: time.Now(),
		reloads:   make(chan sysinfo.Revision, 8),
		watchers:  watch.New(),
	}
}

// Reloads delivers the outcome of every scripts revision reload.
func (s *Server) Reloads() <-chan sysinfo.Revision {
	return s.reloads
}

// ReloadScripts re-resolves the scripts revision, then records and announces
// the new facts.
func (s *Server) ReloadScripts(ctx context.Context) sysinfo.Report {
	rev := s.Info.ReloadScriptsRevision()
	slog.Info("reloaded scripts revision", "vcs", rev.Kind, "revision", rev.ID)

	select {
	case s.reloads <- rev:
	default:
		slog.Warn("dropping reload notification", "revision", rev.ID)
	}

	report := s.Info.Report()
	s.watchers.Publish(report)
	if _, err := announce.Publish(ctx, s.Redis, announce.EventReload, s.Name, report); err != nil {
		slog.Error("failed announcing reload", "error", err)
	}
	return report
}

// Close ends every watch and closes the redis connection, if any.
func (s *Server) Close() error {
	s.watchers.Close()

	if c, ok := s.Redis.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return fmt.Errorf("closing redis: %w", err)
		}
	}
	return nil
}

func (s *Server) Handler() http.Handler {
	var wrapper func(http.Handler) http.Handler
	logmw := mw.NewLoggerMiddleware(slog.Default())
	wrapper = func(next http.Handler) http.Handler {
		return promhttp.InstrumentHandlerCounter(requests, logmw(next))
	}

	mux := http.NewServeMux()
	mux.Handle("/", wrapper(http.HandlerFunc(home)))
	mux.Handle("/v1", wrapper(http.HandlerFunc(s.homev1)))
	mux.Handle("/v1/reload", wrapper(http.HandlerFunc(s.handleReload)))
	mux.Handle("/v1/watch", wrapper(http.HandlerFunc(s.handleWatch)))
	mux.Handle("/metrics", wrapper(promhttp.Handler()))

	return mux
}

func connectRedis(ctx context.Context, url string) announce.Adder {
	if url == "" {
		return nil
	}

	slog.Info("configuring redis", "url", url)
	rdb := redis.NewClient(&redis.Options{
		Addr: url,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed connecting to redis", "error", err)
		rdb.Close()
		return nil
	}

	slog.Info("redis connected")
	return rdb
}

// Run builds the process SysInfo from conf, logs the startup banner and
// serves until ctx is done.
func Run(ctx context.Context, conf *config.Config) error {
	info, err := conf.NewSysInfo()
	if err != nil {
		return err
	}

	s := New(conf.Name, info, connectRedis(ctx, conf.RedisURL))

	report := info.Report()
	telemetry.RegisterUptime(s.startTime)
	telemetry.Observe(report)

	go func() {
		if err := telemetry.Run(ctx, s.Reloads()); err != nil {
			slog.Error("error running telemetry", "error", err)
		}
	}()

	if _, err := announce.Publish(ctx, s.Redis, announce.EventStartup, s.Name, report); err != nil {
		slog.Error("failed announcing startup", "error", err)
	}

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", conf.Port),
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.watchers.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		slog.Info("shutting down")
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server didn't shutdown gracefully", "error", err)
			httpSrv.Close()
		}
		if err := s.Close(); err != nil {
			slog.Error("failed closing server", "error", err)
		}
	}()

	slog.Info("starting", "name", conf.Name, "port", conf.Port, "build", report.SourceRevision, "facts", report)
	err = httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

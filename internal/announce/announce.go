package announce

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rhettg/sysinfo/internal/sysinfo"
)

// Stream is the redis stream facts are appended to.
const Stream = "sysinfo:facts"

// Event names why facts were announced.
type Event string

const (
	EventStartup Event = "startup"
	EventReload  Event = "reload"
)

// Adder is the part of a redis client used to announce facts.
type Adder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// Values flattens a report into stream entry fields.
func Values(event Event, name string, r sysinfo.Report) map[string]interface{} {
	return map[string]interface{}{
		"event":            string(event),
		"name":             name,
		"platform":         r.Platform,
		"os_version":       r.OSVersion,
		"cpu":              r.CPU,
		"arch":             r.Arch,
		"is_64bit":         strconv.FormatBool(r.Is64Bit),
		"compiler":         r.Compiler,
		"cflags":           r.CFlags,
		"vcs_type":         r.VCSType,
		"source_revision":  r.SourceRevision,
		"scripts_revision": r.ScriptsRevision,
		"scripts_vcs_type": r.ScriptsVCSType,
	}
}

// Publish appends the report to Stream and returns the entry ID. A nil rdb
// means redis is not configured; nothing is sent and no error returned.
func Publish(ctx context.Context, rdb Adder, event Event, name string, r sysinfo.Report) (string, error) {
	if event == "" {
		return "", errors.New("empty event")
	}

	if rdb == nil {
		return "", nil
	}

	id, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: Stream,
		MaxLen: 1000,
		Approx: true,
		Values: Values(event, name, r),
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to announce facts: %w", err)
	}

	slog.Info("announced facts", "stream", Stream, "event", event, "id", id)

	return id, nil
}

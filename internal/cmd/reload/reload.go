package reload

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rhettg/sysinfo/client"
)

// DoReload asks the server at serverURL to resolve its scripts revision again
// and prints the outcome.
func DoReload(ctx context.Context, w io.Writer, serverURL string) error {
	c := client.NewClient(serverURL)

	r, err := c.Reload(ctx)
	if err != nil {
		return err
	}
	slog.Debug("reloaded scripts revision", "server", serverURL, "revision", r.ScriptsRevision)

	rev := r.ScriptsRevision
	if rev == "" {
		rev = "none"
	}
	_, err = fmt.Fprintf(w, "%s: %s\n", r.ScriptsVCSType, rev)
	return err
}

// DoWatch prints the scripts revision of the server at serverURL every time
// it is reloaded, until ctx is done.
func DoWatch(ctx context.Context, w io.Writer, serverURL string) error {
	reports, err := client.NewClient(serverURL).Watch(ctx)
	if err != nil {
		return err
	}

	for r := range reports {
		rev := r.ScriptsRevision
		if rev == "" {
			rev = "none"
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", r.ScriptsVCSType, rev); err != nil {
			return err
		}
	}
	return nil
}

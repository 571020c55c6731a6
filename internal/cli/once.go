package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// runOnce selects config.UploadFile, uploads it and waits for the outcome.
// The destination key is printed on success.
func (a *App) runOnce(ctx context.Context) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !a.restoreSession(ctx) {
		if err := a.Login(ctx); err != nil {
			return 1
		}
	}

	if err := a.Select(ctx); err != nil {
		return 1
	}

	att, err := a.orch.Upload(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Upload failed:", err)
		return 1
	}
	if att == nil {
		fmt.Fprintln(a.out, "Nothing to upload")
		return 1
	}

	var timeout <-chan time.Time
	if a.config.WaitTimeout > 0 {
		t := time.NewTimer(a.config.WaitTimeout)
		defer t.Stop()
		timeout = t.C
	}

	select {
	case <-att.Done():
	case <-ctx.Done():
		fmt.Fprintln(a.out, "Interrupted, upload abandoned")
		return 1
	case <-timeout:
		fmt.Fprintf(a.out, "No outcome after %s, giving up\n", a.config.WaitTimeout)
		return 1
	}

	if att.Err() != nil {
		return 1
	}
	a.orch.Acknowledge()
	fmt.Fprintln(a.out, att.Key())
	return 0
}

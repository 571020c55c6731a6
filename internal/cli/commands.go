package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/imgdrop/internal/models"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

func (a *App) isLoggedIn() bool {
	return a.session.Valid()
}

// Login runs the authenticator's sign-in flow and keeps the session.
func (a *App) Login(ctx context.Context) error {
	s, err := a.auth.SignIn(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Login failed:", err)
		return err
	}
	a.session = s
	fmt.Fprintf(a.out, "Signed in as %s\n", s.Email)
	return nil
}

// restoreSession loads a stored session. It reports whether one is usable.
func (a *App) restoreSession(ctx context.Context) bool {
	s, err := a.auth.Current(ctx)
	if err != nil {
		a.logger.Warn(ctx, "stored session unusable", "error", err)
		return false
	}
	if !s.Valid() {
		return false
	}
	a.session = s
	return true
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.orch.SignOut(ctx); err != nil {
		fmt.Fprintln(a.out, "Logout failed:", err)
		return err
	}
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Select(ctx context.Context) error {
	err := a.orch.Select(ctx)
	if err != nil {
		var se *uploader.SelectionError
		switch {
		case errors.Is(err, uploader.ErrUploadInProgress):
			fmt.Fprintln(a.out, "An upload is in progress, wait for it to finish")
		case errors.As(err, &se):
			fmt.Fprintln(a.out, "Cannot use that file:", se.Err)
		default:
			fmt.Fprintln(a.out, "Selection failed:", err)
		}
		return err
	}

	h, err := a.orch.Selection()
	if err != nil {
		fmt.Fprintln(a.out, "Nothing selected")
		return nil
	}
	fmt.Fprintf(a.out, "Selected %s (%s, %d bytes)\n", h.Name, h.ContentType, h.Size)
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	att, err := a.orch.Upload(ctx)
	if errors.Is(err, uploader.ErrUploadInProgress) {
		fmt.Fprintln(a.out, "An upload is already in progress")
		return err
	}
	if err != nil {
		fmt.Fprintln(a.out, "Upload failed:", err)
		return err
	}
	if att == nil {
		fmt.Fprintln(a.out, "Select an image first")
	}
	return nil
}

func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "State: %s\n", a.orch.State())
	if h, err := a.orch.Selection(); err == nil {
		fmt.Fprintf(a.out, "Selected: %s\n", h.Path)
	}
	if att := a.orch.Current(); att != nil {
		s := att.Snapshot()
		fmt.Fprintf(a.out, "Upload %s: %d%% (%d/%d bytes) %s\n", s.Key, s.Percent, s.Transferred, s.Total, s.Outcome)
		if s.Reason != "" {
			fmt.Fprintf(a.out, "Reason: %s\n", s.Reason)
		}
	}
	return nil
}

func (a *App) Ack(ctx context.Context) error {
	fmt.Fprintf(a.out, "State: %s\n", a.orch.Acknowledge())
	return nil
}

func (a *App) History(ctx context.Context, limit int) error {
	items, err := a.journal.History(ctx, limit)
	if err != nil {
		fmt.Fprintln(a.out, "Cannot read history:", err)
		return err
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "No uploads yet")
		return nil
	}
	printHistory(a.out, items)
	return nil
}

func printHistory(out io.Writer, items []*models.Upload) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tSTATUS\tKEY\tFILE\tERROR")
	for _, u := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			u.StartedAt.Local().Format(time.DateTime), u.Status, u.StorageKey, u.LocalPath, u.Error)
	}
	_ = w.Flush()
}

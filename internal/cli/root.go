package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

// Root is the interactive entry point: restore or create a session, then
// hand over to the REPL.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to imgdrop! Type 'help' for commands.")

	if !a.restoreSession(ctx) {
		_ = a.Login(ctx)
	}

	runREPL(ctx, a, a.statusLine, a.reader, a.out)
}

// statusLine is the REPL prompt prefix, e.g. "ada@example.com [selected]".
func (a *App) statusLine() string {
	who := "guest"
	if a.session.Valid() {
		who = a.session.Email
	}

	st := a.orch.State()
	if st == uploader.StateUploading {
		if att := a.orch.Current(); att != nil {
			return fmt.Sprintf("%s [%s %d%%]", who, st, att.Snapshot().Percent)
		}
	}
	return fmt.Sprintf("%s [%s]", who, st)
}

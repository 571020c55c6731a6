package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/imgdrop/internal/prompt"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
)

// consoleListener renders upload events. On a terminal the percentage is
// redrawn in place; otherwise each change is its own line.
type consoleListener struct {
	out    io.Writer
	tty    bool
	inline bool
}

func newConsoleListener(out io.Writer) *consoleListener {
	return &consoleListener{out: out, tty: prompt.IsTerminal(out)}
}

func (l *consoleListener) UploadStarted(ctx context.Context, s uploader.Snapshot) {
	fmt.Fprintln(l.out, "Uploading...")
}

func (l *consoleListener) UploadProgress(ctx context.Context, s uploader.Snapshot) {
	if l.tty {
		fmt.Fprintf(l.out, "\rUploaded %d%%", s.Percent)
		l.inline = true
		return
	}
	fmt.Fprintf(l.out, "Uploaded %d%%\n", s.Percent)
}

func (l *consoleListener) UploadSucceeded(ctx context.Context, s uploader.Snapshot) {
	l.endLine()
	fmt.Fprintln(l.out, "Image Uploaded!!")
}

func (l *consoleListener) UploadFailed(ctx context.Context, s uploader.Snapshot, err *uploader.UploadError) {
	l.endLine()
	fmt.Fprintf(l.out, "Failed %s\n", err.Reason())
}

func (l *consoleListener) endLine() {
	if l.inline {
		fmt.Fprintln(l.out)
		l.inline = false
	}
}

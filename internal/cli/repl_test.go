package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	limit int
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) Select(ctx context.Context) error { f.calls = append(f.calls, "select"); return nil }
func (f *fakeExec) Upload(ctx context.Context) error { f.calls = append(f.calls, "upload"); return nil }
func (f *fakeExec) Status(ctx context.Context) error { f.calls = append(f.calls, "status"); return nil }
func (f *fakeExec) Ack(ctx context.Context) error    { f.calls = append(f.calls, "ack"); return nil }
func (f *fakeExec) History(ctx context.Context, limit int) error {
	f.calls = append(f.calls, "history")
	f.limit = limit
	return nil
}

func outputLines(buf *bytes.Buffer) []string {
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	var buf bytes.Buffer

	input := strings.NewReader(strings.Join([]string{
		"help",
		"select",
		"status",
		"ack",
		"login",
		"help",
		"select",
		"upload",
		"status",
		"ack",
		"history 3",
		"logout",
		"upload",
		"foobar",
		"exit",
		"status",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "guest [idle]" }, bufio.NewReader(input), &buf)
	out := outputLines(&buf)

	assert.Equal(t, []string{"login", "select", "upload", "status", "ack", "history", "logout"}, exec.calls)
	assert.Equal(t, 3, exec.limit)

	assert.Contains(t, out, "imgdrop guest [idle]> ")
	assert.Contains(t, out, "Available commands: login, history [n], exit")
	assert.Contains(t, out, "Available commands: select, upload, status, ack, history [n], logout, exit")
	assert.Contains(t, out, "Please login first")
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Equal(t, "Bye!", out[len(out)-1])
}

func TestRunREPL_History(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantCalls int
		wantLimit int
	}{
		{name: "default limit", line: "history", wantCalls: 1, wantLimit: defaultHistoryLimit},
		{name: "explicit limit", line: "history 25", wantCalls: 1, wantLimit: 25},
		{name: "not a number", line: "history many", wantCalls: 0},
		{name: "zero", line: "history 0", wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			exec := &fakeExec{}

			runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader(tt.line+"\n")), &buf)

			require.Len(t, exec.calls, tt.wantCalls)
			if tt.wantCalls == 0 {
				assert.Contains(t, outputLines(&buf), "Usage: history [n]")
				return
			}
			assert.Equal(t, tt.wantLimit, exec.limit)
		})
	}
}

func TestRunREPL_EOFWithoutNewline(t *testing.T) {
	exec := &fakeExec{loggedIn: true}

	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("\n\nupload")), io.Discard)

	assert.Equal(t, []string{"upload"}, exec.calls)
}

func TestRunREPL_GatesOrchestratorCommands(t *testing.T) {
	var buf bytes.Buffer
	exec := &fakeExec{}
	input := "select\nupload\nstatus\nack\nlogout\n"

	runREPL(context.Background(), exec, func() string { return "guest [idle]" }, bufio.NewReader(strings.NewReader(input)), &buf)

	assert.Empty(t, exec.calls)
	assert.Equal(t, 5, strings.Count(buf.String(), "Please login first\n"))
}

func TestRunREPL_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer

	runREPL(context.Background(), &fakeExec{}, func() string { return "guest [idle]" }, bufio.NewReader(strings.NewReader("help\nexit\n")), &buf)

	assert.Equal(t, []string{
		"imgdrop guest [idle]> ",
		"Available commands: login, history [n], exit",
		"imgdrop guest [idle]> ",
		"Bye!",
	}, outputLines(&buf))
}

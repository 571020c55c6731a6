package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// defaultHistoryLimit is how many rows "history" shows without an argument.
const defaultHistoryLimit = 10

// execIface is the command surface the REPL drives. *App implements it.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Select(ctx context.Context) error
	Upload(ctx context.Context) error
	Status(ctx context.Context) error
	Ack(ctx context.Context) error
	History(ctx context.Context, limit int) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// Prompts and REPL messages go to out, the writer the handlers use.
// It returns on EOF or on "exit"/"quit".
//
//	Not logged in:
//	  help, login, history, exit | quit
//
//	Logged in:
//	  help          show available commands
//	  select        pick an image (path prompt)
//	  upload        upload the selected image
//	  status        show selection and upload progress
//	  ack           dismiss the last outcome
//	  history [n]   show the last n uploads
//	  logout        sign out
//	  exit | quit   leave the program
//
// Handler errors are reported by the handlers themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	say := func(args ...any) { fmt.Fprintln(out, args...) }

	for {
		say(fmt.Sprintf("imgdrop %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		loggedIn := func() bool {
			if !a.isLoggedIn() {
				say("Please login first")
				return false
			}
			return true
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				say("Available commands: select, upload, status, ack, history [n], logout, exit")
			} else {
				say("Available commands: login, history [n], exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			if loggedIn() {
				_ = a.Logout(ctx)
			}

		case "select", "s":
			if loggedIn() {
				_ = a.Select(ctx)
			}

		case "upload", "u":
			if loggedIn() {
				_ = a.Upload(ctx)
			}

		case "status":
			if loggedIn() {
				_ = a.Status(ctx)
			}

		case "ack":
			if loggedIn() {
				_ = a.Ack(ctx)
			}

		case "history":
			limit := defaultHistoryLimit
			if len(args) > 0 {
				n, convErr := strconv.Atoi(args[0])
				if convErr != nil || n <= 0 {
					say("Usage: history [n]")
					continue
				}
				limit = n
			}
			_ = a.History(ctx, limit)

		case "exit", "quit":
			say("Bye!")
			return

		default:
			say("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Status(ctx context.Context) error
	ShowProfile(ctx context.Context) error
	Set(ctx context.Context, args []string) error
	Avatar(ctx context.Context, args []string) error
	Modal(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	Stats(ctx context.Context) error
	report(err error)
}

// runREPL starts a simple read–eval–print loop for the venuehub CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Prompts and replies are written to out. The loop exits on EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
//	Not logged in:
//	  - help                 show available commands
//	  - login                sign in with email and password
//	  - status               show session state
//	  - modal [on|off]       toggle or set the sign-in modal flag
//	  - stats                provider request statistics
//	  - exit | quit          leave the program
//
//	Logged in, additionally:
//	  - profile              refresh and show the profile
//	  - set field=value ...  update name, email, username, bio or avatar_url
//	  - avatar <path>        upload a new avatar image
//	  - logout               sign out
//
// Errors returned by command handlers are reported and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "vh %s > ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: status, profile, set, avatar, modal, stats, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: login, status, modal, stats, exit")
			}

		case "login":
			a.report(a.Login(ctx))

		case "status":
			a.report(a.Status(ctx))

		case "profile":
			a.report(a.ShowProfile(ctx))

		case "set":
			a.report(a.Set(ctx, args))

		case "avatar":
			a.report(a.Avatar(ctx, args))

		case "modal":
			a.report(a.Modal(ctx, args))

		case "stats":
			a.report(a.Stats(ctx))

		case "logout":
			a.report(a.Logout(ctx))

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readSecret reads from the terminal without echo. Swapped out in tests.
var readSecret = term.ReadPassword

// askLine writes "label: " to w and returns the next line from r with
// surrounding whitespace removed. A final line without a newline is accepted.
func askLine(r *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s: ", label); err != nil {
		return "", err
	}

	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// askPassword reads a password from stdin with echo off. The caller owns the
// returned slice and should wipe it after use.
func askPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return nil, err
	}

	pw, err := readSecret(int(os.Stdin.Fd()))
	// echo is off, so the user's Enter never reached the screen
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return pw, nil
}

// askBlock collects lines from r until a blank line or EOF and joins them
// with '\n'. Line endings are stripped; indentation inside the block is kept.
func askBlock(r *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s (finish with an empty line):\n", label); err != nil {
		return "", err
	}

	var b strings.Builder
	for n := 0; ; n++ {
		line, err := r.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if n > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		if err != nil {
			break
		}
	}
	return b.String(), nil
}

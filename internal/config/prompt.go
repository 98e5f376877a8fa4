package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// TerminalPrompt reads a secret from in without echo when in is a
// terminal, or a plain line otherwise. The label is written to out.
func TerminalPrompt(in *os.File, out io.Writer) PromptFunc {
	return func(label string) (string, error) {
		_, _ = fmt.Fprint(out, label)
		fd := int(in.Fd())
		if term.IsTerminal(fd) {
			b, err := term.ReadPassword(fd)
			_, _ = fmt.Fprintln(out)
			return string(b), err
		}
		return ReaderPrompt(in, io.Discard)(label)
	}
}

// ReaderPrompt reads one line from r.
func ReaderPrompt(r io.Reader, out io.Writer) PromptFunc {
	br := bufio.NewReader(r)
	return func(label string) (string, error) {
		_, _ = fmt.Fprint(out, label)
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}
}

package credentials

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for a line of input
type Prompter interface {
	// Input reads a visible line
	Input(ctx context.Context, label string) (string, error)
	// Password reads a line without echoing it
	Password(ctx context.Context, label string) (string, error)
}

// TerminalPrompter prompts on a terminal. End of input is reported as io.EOF.
type TerminalPrompter struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

// NewTerminalPrompter creates a prompter reading from in and writing prompts to out
func NewTerminalPrompter(in *os.File, out io.Writer) *TerminalPrompter {
	return &TerminalPrompter{
		in:     in,
		out:    out,
		reader: bufio.NewReader(in),
	}
}

// Input prints label and reads one line
func (p *TerminalPrompter) Input(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "? %s: ", label)
	return p.read(ctx, p.readLine, nil)
}

// Password prints label and reads one line with echo disabled when the
// input is a terminal
func (p *TerminalPrompter) Password(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(p.out, "? %s: ", label)

	fd := int(p.in.Fd())
	if !term.IsTerminal(fd) {
		return p.read(ctx, p.readLine, nil)
	}

	// ReadPassword only restores echo when it returns, which an abandoned
	// read never does before the process exits.
	state, err := term.GetState(fd)
	if err != nil {
		return "", fmt.Errorf("failed to get terminal state: %w", err)
	}

	answer, err := p.read(ctx, func() (string, error) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}, func() {
		_ = term.Restore(fd, state)
	})
	fmt.Fprintln(p.out)
	return answer, err
}

func (p *TerminalPrompter) readLine() (string, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// read runs a blocking read so that ctx can abandon it. abandon, if set,
// runs before returning on cancellation.
func (p *TerminalPrompter) read(ctx context.Context, readFn func() (string, error), abandon func()) (string, error) {
	type answer struct {
		text string
		err  error
	}

	done := make(chan answer, 1)
	go func() {
		text, err := readFn()
		done <- answer{text, err}
	}()

	select {
	case a := <-done:
		return a.text, a.err
	case <-ctx.Done():
		if abandon != nil {
			abandon()
		}
		return "", ctx.Err()
	}
}

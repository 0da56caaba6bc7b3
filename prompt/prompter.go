package prompt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Options customizes a Prompter. The zero value is usable.
type Options struct {
	// Warn styles re-prompt messages before they are written.
	Warn func(string) string
	// OnInvalid is called after every rejected answer.
	OnInvalid func(label string, err error)
}

// Prompter asks questions on a line-oriented reader/writer pair.
type Prompter struct {
	in   *bufio.Reader
	out  io.Writer
	opts Options
}

func New(in io.Reader, out io.Writer, opts Options) *Prompter {
	if opts.Warn == nil {
		opts.Warn = func(s string) string { return s }
	}
	return &Prompter{
		in:   bufio.NewReader(in),
		out:  out,
		opts: opts,
	}
}

// Question is a prompt plus the parser that decides whether an answer is valid.
type Question[T any] struct {
	// Preamble lines are written before every attempt.
	Preamble []string
	Label    string
	Parse    func(string) (T, error)
}

// Ask repeats q until Parse accepts an answer. It only gives up when input ends
// or ctx is done.
func Ask[T any](ctx context.Context, p *Prompter, q Question[T]) (T, error) {
	var zero T
	for {
		for _, line := range q.Preamble {
			p.Println(line)
		}
		fmt.Fprint(p.out, q.Label)

		line, err := p.ReadLine(ctx)
		if err != nil {
			return zero, err
		}

		v, err := q.Parse(line)
		if err == nil {
			return v, nil
		}

		p.Warnln(err.Error())
		if p.opts.OnInvalid != nil {
			p.opts.OnInvalid(q.Label, err)
		}
	}
}

// ReadLine returns the next input line without its line ending. A final line
// without a newline is still returned; after that ErrInputClosed.
func (p *Prompter) ReadLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
		if line == "" {
			return "", ErrInputClosed
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Println writes a plain line.
func (p *Prompter) Println(s string) {
	fmt.Fprintln(p.out, s)
}

// Warnln writes a styled warning line.
func (p *Prompter) Warnln(s string) {
	fmt.Fprintln(p.out, p.opts.Warn(s))
}

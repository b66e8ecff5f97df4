// Package console serves attendance commands from a terminal, one line at a
// time.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/command"
)

// Handler executes one chat line on behalf of requester.
type Handler interface {
	Handle(ctx context.Context, requester, text string, out command.Responder) (bool, error)
}

const usage = `commands:
  hi [-u <user>] [[<date>] <from>[-<to>]]
  bye [-u <user>] [[<date>] [<from>-]<to>]
  delete [-u <user>] <date>
  list [-u <user>] [<month>]
  csvlist [-u <user>] [<month>]
  help, exit`

// Console is a line-oriented REPL acting as a single chat user.
type Console struct {
	in      io.Reader
	out     io.Writer
	user    string
	handler Handler

	prompt lipgloss.Style
	reply  lipgloss.Style
	hint   lipgloss.Style
	fail   lipgloss.Style
}

// New creates a Console reading commands from in and writing replies to out.
// Styles degrade to plain text when out is not a terminal.
func New(in io.Reader, out io.Writer, user string, handler Handler) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		in:      in,
		out:     out,
		user:    user,
		handler: handler,
		prompt:  r.NewStyle().Foreground(lipgloss.Color("170")).Bold(true),
		reply:   r.NewStyle().Foreground(lipgloss.Color("86")),
		hint:    r.NewStyle().Foreground(lipgloss.Color("241")),
		fail:    r.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
}

// replies prints command output in the reply style and failed commands in
// the fail style.
type replies struct{ c *Console }

func (r replies) Send(_ context.Context, text string) error {
	_, err := fmt.Fprintln(r.c.out, r.c.reply.Render(text))
	return err
}

func (r replies) SendError(_ context.Context, text string) error {
	_, err := fmt.Fprintln(r.c.out, r.c.fail.Render(text))
	return err
}

// Run reads lines until EOF, "exit" or ctx cancellation.
func (c *Console) Run(ctx context.Context) error {
	out := replies{c: c}

	scanner := bufio.NewScanner(c.in)
	for {
		fmt.Fprint(c.out, c.prompt.Render(c.user+"> "))
		if !scanner.Scan() {
			fmt.Fprintln(c.out)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "help", "?":
			fmt.Fprintln(c.out, c.hint.Render(usage))
			continue
		}

		handled, err := c.handler.Handle(ctx, c.user, line, out)
		if err != nil {
			fmt.Fprintln(c.out, c.fail.Render("error: "+err.Error()))
			continue
		}
		if !handled {
			fmt.Fprintln(c.out, c.hint.Render(fmt.Sprintf("not a command: %q (type help)", line)))
		}
	}
}

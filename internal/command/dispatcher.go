package command

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/apperr"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/messages"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/observability"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timetext"
)

// DefaultListDelay separates the list acknowledgement from the list body.
const DefaultListDelay = time.Second

// Responder delivers replies to wherever the command came from.
type Responder interface {
	Send(ctx context.Context, text string) error
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, text string) error

func (f ResponderFunc) Send(ctx context.Context, text string) error {
	return f(ctx, text)
}

// ErrorResponder is a Responder that presents failed commands apart from
// regular replies. Handle uses SendError for error replies when out has it.
type ErrorResponder interface {
	Responder
	SendError(ctx context.Context, text string) error
}

// Options tune a Dispatcher. Zero values fall back to defaults; a negative
// ListDelay disables the pause.
type Options struct {
	ListDelay  time.Duration
	ListFormat attendance.Format
	Logger     *slog.Logger
	Now        func() time.Time
}

// Dispatcher runs parsed commands against the recorder and the ledger and
// renders the replies.
type Dispatcher struct {
	recorder   *attendance.Recorder
	ledger     *attendance.Ledger
	messages   *messages.Set
	listDelay  time.Duration
	listFormat attendance.Format
	logger     *slog.Logger
	now        func() time.Time
	sleep      func(time.Duration)
}

// NewDispatcher wires a Dispatcher.
func NewDispatcher(recorder *attendance.Recorder, ledger *attendance.Ledger, msgs *messages.Set, opts Options) *Dispatcher {
	d := &Dispatcher{
		recorder:   recorder,
		ledger:     ledger,
		messages:   msgs,
		listDelay:  opts.ListDelay,
		listFormat: opts.ListFormat,
		logger:     opts.Logger,
		now:        opts.Now,
		sleep:      time.Sleep,
	}
	if d.listDelay == 0 {
		d.listDelay = DefaultListDelay
	}
	if d.listFormat == "" {
		d.listFormat = attendance.FormatTable
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

// Handle parses text and, when it is a command, executes it on behalf of
// requester and sends the replies to out. It reports whether text was a
// command. Failures of the command itself are answered with the error
// message; the returned error is only set when a reply could not be sent.
func (d *Dispatcher) Handle(ctx context.Context, requester, text string, out Responder) (bool, error) {
	cmd, ok := Parse(text)
	if !ok {
		return false, nil
	}
	if cmd.User == "" {
		cmd.User = requester
	}

	err := d.Execute(ctx, cmd, out)
	if err == nil {
		return true, nil
	}
	var sendErr *sendError
	if errors.As(err, &sendErr) {
		return true, sendErr.err
	}
	if eout, ok := out.(ErrorResponder); ok {
		return true, eout.SendError(ctx, d.ErrorReply(err))
	}
	return true, out.Send(ctx, d.ErrorReply(err))
}

// Execute runs a parsed command and sends its replies to out. A failed
// command is returned as is, without an error reply.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command, out Responder) error {
	ctx, logger := observability.WithRequest(ctx, d.logger, string(cmd.Verb), cmd.User)
	start := time.Now()

	err := d.run(ctx, cmd, out)
	if err != nil {
		observability.RecordCommand(string(cmd.Verb), observability.OutcomeError)
		logger.Warn("command failed", "error", err, "code", apperr.CodeOf(err), "duration_ms", time.Since(start).Milliseconds())
		return err
	}
	observability.RecordCommand(string(cmd.Verb), observability.OutcomeOK)
	logger.Info("command handled", "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// ErrorReply renders err with the error template.
func (d *Dispatcher) ErrorReply(err error) string {
	return d.messages.Render(messages.Error, messages.Vars{"message": err.Error()})
}

// sendError marks a failure to deliver a reply, as opposed to a failed command.
type sendError struct{ err error }

func (e *sendError) Error() string { return "send reply: " + e.err.Error() }
func (e *sendError) Unwrap() error { return e.err }

func (d *Dispatcher) send(ctx context.Context, out Responder, text string) error {
	if err := out.Send(ctx, text); err != nil {
		return &sendError{err: err}
	}
	return nil
}

func (d *Dispatcher) run(ctx context.Context, cmd Command, out Responder) error {
	req := attendance.Request{User: cmd.User, Date: cmd.Date, From: cmd.From, To: cmd.To}

	switch cmd.Verb {
	case VerbHi:
		res, err := d.recorder.ClockIn(ctx, req)
		if err != nil {
			return err
		}
		id := messages.ClockIn
		if res.Future {
			id = messages.Future
		}
		return d.send(ctx, out, d.messages.Render(id, resultVars(res)))
	case VerbBye:
		res, err := d.recorder.ClockOut(ctx, req)
		if err != nil {
			return err
		}
		return d.send(ctx, out, d.messages.Render(messages.ClockOut, resultVars(res)))
	case VerbDelete:
		res, err := d.recorder.Delete(ctx, req)
		if err != nil {
			return err
		}
		return d.send(ctx, out, d.messages.Render(messages.Delete, resultVars(res)))
	case VerbList:
		return d.list(ctx, cmd, d.listFormat, messages.BeforeList, out)
	case VerbCSVList:
		return d.list(ctx, cmd, attendance.FormatCSV, messages.BeforeCSV, out)
	default:
		return apperr.New(apperr.Argument, string(cmd.Verb))
	}
}

// list acknowledges first and sends the ledger after the configured delay.
// Once the acknowledgement is out the ledger is built to completion even if
// ctx is cancelled.
func (d *Dispatcher) list(ctx context.Context, cmd Command, format attendance.Format, ack messages.ID, out Responder) error {
	month, err := timetext.ParseMonth(d.now(), cmd.Year, cmd.Month)
	if err != nil {
		return err
	}
	vars := messages.Vars{"user": cmd.User, "month": month.Format("2006/01")}

	if err := d.send(ctx, out, d.messages.Render(ack, vars)); err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	if d.listDelay > 0 {
		d.sleep(d.listDelay)
	}

	start := time.Now()
	rep, err := d.ledger.Build(ctx, cmd.User, month)
	observability.ObserveLedgerBuild(time.Since(start))
	if err != nil {
		return err
	}

	body := attendance.Render(rep, format)
	if body == "" {
		return d.send(ctx, out, d.messages.Render(messages.NoList, vars))
	}
	vars["list"] = body
	return d.send(ctx, out, d.messages.Render(messages.List, vars))
}

func resultVars(res *attendance.Result) messages.Vars {
	return messages.Vars{
		"user": res.User,
		"date": res.Date,
		"from": res.From,
		"to":   res.To,
	}
}

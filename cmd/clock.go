package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/apperr"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/command"
)

var hiCmd = &cobra.Command{
	Use:   "hi [[<date>] <from>[-<to>]]",
	Short: "Clock in (now, or at the given time)",
	Example: `  tat hi
  tat hi 9
  tat hi 1224 0900
  tat hi 12/24 9-1730`,
	RunE: chatRunner(command.VerbHi),
}

var byeCmd = &cobra.Command{
	Use:   "bye [[<date>] [<from>-]<to>]",
	Short: "Clock out (now, or at the given time)",
	Example: `  tat bye
  tat bye 1730
  tat bye 12/24 9-1730`,
	RunE: chatRunner(command.VerbBye),
}

var deleteCmd = &cobra.Command{
	Use:     "delete <date>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete every interval recorded on a day",
	Args:    cobra.ExactArgs(1),
	RunE:    chatRunner(command.VerbDelete),
}

var listCmd = &cobra.Command{
	Use:   "list [<month>]",
	Short: "Print the attendance list of a month",
	Long: `Print the attendance list of a month.
<month> is YYYY/MM, YYYYMM, YY/MM, YYMM, MM or M; default is the current month.`,
	Args: cobra.MaximumNArgs(1),
	RunE: chatRunner(command.VerbList),
}

var csvlistCmd = &cobra.Command{
	Use:   "csvlist [<month>]",
	Short: "Print the attendance list of a month as CSV",
	Args:  cobra.MaximumNArgs(1),
	RunE:  chatRunner(command.VerbCSVList),
}

// chatLine rebuilds the chat command for verb from shell arguments so the
// one-shot subcommands accept exactly what the chat accepts.
func chatLine(verb command.Verb, args []string) string {
	return strings.TrimSpace(string(verb) + " " + strings.Join(args, " "))
}

func chatRunner(verb command.Verb) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a := mustApp(ctx, appOptions{})
		defer a.Close()

		code, err := runChat(ctx, a.dispatcher, currentUser(), chatLine(verb, args), os.Stdout, os.Stderr)
		if err != nil {
			return err
		}
		if code != 0 {
			a.Close()
			os.Exit(code)
		}
		return nil
	}
}

// runChat executes line for user, printing replies to out and failures to
// errOut. It returns the process exit code: 1 for input errors, 2 for
// storage and other failures.
func runChat(ctx context.Context, d *command.Dispatcher, user, line string, out, errOut io.Writer) (int, error) {
	c, ok := command.Parse(line)
	if !ok {
		return 0, fmt.Errorf("invalid arguments: %q", line)
	}
	if c.User == "" {
		c.User = user
	}

	responder := command.ResponderFunc(func(_ context.Context, text string) error {
		_, err := fmt.Fprintln(out, text)
		return err
	})
	if err := d.Execute(ctx, c, responder); err != nil {
		fmt.Fprintln(errOut, d.ErrorReply(err))
		if apperr.CodeOf(err) != "" {
			return 1, nil
		}
		return 2, nil
	}
	return 0, nil
}

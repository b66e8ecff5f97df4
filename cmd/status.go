package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timetext"
)

var statusCmd = &cobra.Command{
	Use:   "status [<date>]",
	Short: "Show the intervals recorded on a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := mustApp(ctx, appOptions{})
	defer a.Close()

	dateArg := ""
	if len(args) == 1 {
		dateArg = args[0]
	}
	if err := printStatus(ctx, os.Stdout, a.intervals, currentUser(), dateArg, time.Now()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		a.Close()
		os.Exit(2)
	}
	return nil
}

// printStatus writes the record of user on the given date fragment (today
// when empty), one interval per line.
func printStatus(ctx context.Context, w io.Writer, intervals *storage.Intervals, user, dateArg string, now time.Time) error {
	day := timecalc.StartOfDay(now)
	if dateArg != "" {
		d, err := timetext.ParseDate(day, dateArg)
		if err != nil {
			return err
		}
		day = d
	}
	date := timetext.FormatDate(day)

	record, err := intervals.Get(ctx, user, date)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s %s: %s\n", user, date, record.State())
	for _, iv := range record {
		from, to := model.Deref(iv.From), model.Deref(iv.To)
		if from == "" {
			from = "?"
		}
		if to == "" {
			to = "..."
		}
		fmt.Fprintf(w, "  %s–%s\n", from, to)
	}

	if record.State() == model.Open && timecalc.SameDay(day, now) {
		if last := record[len(record)-1]; last.From != nil {
			if since, err := timetext.ParseTime(day, *last.From); err == nil && now.After(since) {
				fmt.Fprintf(w, "  Elapsed: %s\n", timecalc.FormatHHMM(now.Sub(since).Truncate(time.Minute)))
			}
		}
	}
	return nil
}

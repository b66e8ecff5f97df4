package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/command"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timetext"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export [<month>]",
	Short: "Export a monthly ledger to stdout without chat framing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, table, markdown, json")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	a := mustApp(ctx, appOptions{})
	defer a.Close()

	// <month> takes the same shapes as the list command.
	c, ok := command.Parse(chatLine(command.VerbList, args))
	if !ok {
		return fmt.Errorf("invalid month %q", args[0])
	}
	first, err := timetext.ParseMonth(time.Now(), c.Year, c.Month)
	if err != nil {
		return err
	}

	rep, err := a.ledger.Build(ctx, currentUser(), first)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		a.Close()
		os.Exit(2)
	}
	return writeExport(os.Stdout, rep, exportFormat)
}

type exportRow struct {
	Date     string `json:"date"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	CalcFrom string `json:"calc_from,omitempty"`
	CalcTo   string `json:"calc_to,omitempty"`
	Duration string `json:"duration,omitempty"`
	Overtime string `json:"overtime,omitempty"`
}

type exportReport struct {
	User  string      `json:"user"`
	Month string      `json:"month"`
	Rows  []exportRow `json:"rows"`
	Total string      `json:"total"`
}

// writeExport prints rep in format. The chat renderers' code fences are
// stripped so the output can be redirected straight into a file.
func writeExport(w io.Writer, rep *attendance.Report, format string) error {
	if format == "json" {
		out := exportReport{
			User:  rep.User,
			Month: rep.Month.Format("2006/01"),
			Rows:  []exportRow{},
			Total: timecalc.FormatHHMM(rep.Total),
		}
		for _, row := range rep.Rows {
			if row.Blank {
				continue
			}
			er := exportRow{Date: row.Date, From: row.From, To: row.To, CalcFrom: row.CalcFrom, CalcTo: row.CalcTo}
			if row.Duration > 0 {
				er.Duration = timecalc.FormatHHMM(row.Duration)
			}
			if row.Overtime > 0 {
				er.Overtime = timecalc.FormatHHMM(row.Overtime)
			}
			out.Rows = append(out.Rows, er)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	f, err := attendance.ParseFormat(format)
	if err != nil {
		return err
	}
	body := attendance.Render(rep, f)
	if body == "" {
		_, err := fmt.Fprintln(w, "No entries found.")
		return err
	}
	_, err = fmt.Fprintln(w, trimFence(body))
	return err
}

func trimFence(s string) string {
	const fence = "```"
	if strings.HasPrefix(s, fence) && strings.HasSuffix(s, fence) && len(s) >= 2*len(fence) {
		return s[len(fence) : len(s)-len(fence)]
	}
	return s
}

package attendance

import (
	"fmt"
	"strings"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

// Format selects a ledger rendering.
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "table":
		return FormatTable, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown list format %q: use table, csv or markdown", s)
	}
}

const (
	fence = "```"

	tableHeader = "date       | recorded      | calculated    | duration | overtime"
	tableFooter = "sum        |       |       |       |       | "
	tableBlank  = "     "

	csvHeader = `Date,Start,End,"Calc start","Calc end",Duration,Overtime`
	csvFooter = "Sum,,,,,"

	mdHeader = "| date | from | to | from' | to' | delta | over |\n|---|---|---|---|---|---|---|"
)

// Render formats rep. Table and markdown output is empty when the month has
// no interval at all; CSV always lists every calendar day.
func Render(rep *Report, format Format) string {
	switch format {
	case FormatCSV:
		return renderCSV(rep)
	case FormatMarkdown:
		return renderMarkdown(rep)
	default:
		return renderTable(rep)
	}
}

func renderTable(rep *Report) string {
	var list strings.Builder
	for _, row := range rep.Rows {
		if row.Blank {
			continue
		}
		duration := strings.Repeat(" ", 8)
		if row.Duration > 0 {
			duration = timecalc.FormatHHMM(row.Duration) + "   "
		}
		list.WriteString(strings.Join([]string{
			row.Date,
			orBlank(row.From),
			orBlank(row.To),
			orBlank(row.CalcFrom),
			orBlank(row.CalcTo),
			duration,
			overtime(row),
		}, " | "))
		list.WriteByte('\n')
	}
	if list.Len() == 0 {
		return ""
	}
	return fence + tableHeader + "\n" + list.String() + tableFooter + timecalc.FormatHHMM(rep.Total) + fence
}

func renderCSV(rep *Report) string {
	var list strings.Builder
	for _, row := range rep.Rows {
		if row.Blank {
			list.WriteString(row.Date + ",,,,,,\n")
			continue
		}
		duration := ""
		if row.Duration > 0 {
			duration = timecalc.FormatHHMM(row.Duration)
		}
		list.WriteString(strings.Join([]string{
			row.Date, row.From, row.To, row.CalcFrom, row.CalcTo, duration, overtime(row),
		}, ","))
		list.WriteByte('\n')
	}
	return fence + csvHeader + "\n" + list.String() + csvFooter + timecalc.FormatHHMM(rep.Total) + fence
}

func renderMarkdown(rep *Report) string {
	var list strings.Builder
	for _, row := range rep.Rows {
		if row.Blank {
			continue
		}
		duration := ""
		if row.Duration > 0 {
			duration = timecalc.FormatHHMM(row.Duration)
		}
		fmt.Fprintf(&list, "| %s | %s | %s | %s | %s | %s | %s |\n",
			row.Date, row.From, row.To, row.CalcFrom, row.CalcTo, duration, overtime(row))
	}
	if list.Len() == 0 {
		return ""
	}
	return mdHeader + "\n" + list.String() + "| sum | | | | | | " + timecalc.FormatHHMM(rep.Total) + " |"
}

func orBlank(s string) string {
	if s == "" {
		return tableBlank
	}
	return s
}

func overtime(row Row) string {
	if row.Overtime > 0 {
		return timecalc.FormatHHMM(row.Overtime)
	}
	return ""
}

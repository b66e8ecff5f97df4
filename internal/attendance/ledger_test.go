package attendance_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
)

var december = time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local)

func seed(t *testing.T, intervals *storage.Intervals, date, from, to string) {
	t.Helper()
	_, err := intervals.Append(context.Background(), "alice", date, model.StringPtr(from), model.StringPtr(to))
	require.NoError(t, err)
}

func seededLedger(t *testing.T) *attendance.Ledger {
	t.Helper()
	intervals := storage.NewIntervals(storage.NewMemoryStore())
	seed(t, intervals, "2024/12/02", "09:07", "17:22")
	seed(t, intervals, "2024/12/03", "09:00", "19:00")
	seed(t, intervals, "2024/12/04", "09:00", "")
	seed(t, intervals, "2024/12/05", "22:00", "02:00")
	seed(t, intervals, "2024/12/06", "09:00", "12:00")
	seed(t, intervals, "2024/12/06", "13:00", "18:00")
	seed(t, intervals, "2024/12/09", "", "18:00")
	seed(t, intervals, "2024/12/10", "10:00", "10:10")
	// Another user's data must not leak into alice's ledger.
	_, err := intervals.Append(context.Background(), "bob", "2024/12/02", model.StringPtr("08:00"), model.StringPtr("20:00"))
	require.NoError(t, err)
	return attendance.NewLedger(intervals)
}

func TestLedgerBuild(t *testing.T) {
	rep, err := seededLedger(t).Build(context.Background(), "alice", time.Date(2024, 12, 17, 15, 0, 0, 0, time.Local))
	require.NoError(t, err)

	assert.Equal(t, december, rep.Month)
	assert.Equal(t, 8, rep.Intervals)
	assert.Equal(t, 30*time.Hour, rep.Total)
	// 31 days, 6 of them with one interval and day 6 with two.
	assert.Len(t, rep.Rows, 31+1)

	byDate := map[string][]attendance.Row{}
	for _, row := range rep.Rows {
		byDate[row.Date] = append(byDate[row.Date], row)
	}

	first := byDate["2024/12/02"][0]
	assert.Equal(t, "09:15", first.CalcFrom)
	assert.Equal(t, "17:15", first.CalcTo)
	assert.Equal(t, 8*time.Hour, first.Duration)
	assert.Zero(t, first.Overtime)

	long := byDate["2024/12/03"][0]
	assert.Equal(t, 10*time.Hour, long.Duration)
	assert.Equal(t, time.Hour, long.Overtime)

	open := byDate["2024/12/04"][0]
	assert.Equal(t, "09:00", open.CalcFrom)
	assert.Empty(t, open.CalcTo)
	assert.Zero(t, open.Duration)

	night := byDate["2024/12/05"][0]
	assert.Equal(t, "02:00", night.CalcTo)
	assert.Equal(t, 4*time.Hour, night.Duration)

	assert.Len(t, byDate["2024/12/06"], 2)

	noStart := byDate["2024/12/09"][0]
	assert.Empty(t, noStart.CalcFrom)
	assert.Equal(t, "18:00", noStart.CalcTo)
	assert.Zero(t, noStart.Duration)

	short := byDate["2024/12/10"][0]
	assert.Equal(t, "10:00", short.CalcFrom)
	assert.Equal(t, "10:00", short.CalcTo)
	assert.Zero(t, short.Duration, "durations are never negative")

	assert.True(t, byDate["2024/12/01"][0].Blank)
}

func TestLedgerBuildFebruary(t *testing.T) {
	intervals := storage.NewIntervals(storage.NewMemoryStore())
	rep, err := attendance.NewLedger(intervals).Build(context.Background(), "alice", time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	assert.Len(t, rep.Rows, 29)
	assert.Equal(t, "2024/02/29", rep.Rows[28].Date)
}

func TestRenderTable(t *testing.T) {
	rep, err := seededLedger(t).Build(context.Background(), "alice", december)
	require.NoError(t, err)

	sp := strings.Repeat
	want := "```date       | recorded      | calculated    | duration | overtime\n" +
		"2024/12/02 | 09:07 | 17:22 | 09:15 | 17:15 | 08:00    | \n" +
		"2024/12/03 | 09:00 | 19:00 | 09:00 | 19:00 | 10:00    | 01:00\n" +
		"2024/12/04 | 09:00 |" + sp(" ", 7) + "| 09:00 |" + sp(" ", 7) + "|" + sp(" ", 10) + "| \n" +
		"2024/12/05 | 22:00 | 02:00 | 22:00 | 02:00 | 04:00    | \n" +
		"2024/12/06 | 09:00 | 12:00 | 09:00 | 12:00 | 03:00    | \n" +
		"2024/12/06 | 13:00 | 18:00 | 13:00 | 18:00 | 05:00    | \n" +
		"2024/12/09 |" + sp(" ", 7) + "| 18:00 |" + sp(" ", 7) + "| 18:00 |" + sp(" ", 10) + "| \n" +
		"2024/12/10 | 10:00 | 10:10 | 10:00 | 10:00 |" + sp(" ", 10) + "| \n" +
		"sum        |       |       |       |       | 30:00```"

	assert.Equal(t, want, attendance.Render(rep, attendance.FormatTable))
}

func TestRenderCSV(t *testing.T) {
	rep, err := seededLedger(t).Build(context.Background(), "alice", december)
	require.NoError(t, err)

	out := attendance.Render(rep, attendance.FormatCSV)
	require.True(t, strings.HasPrefix(out, "```Date,Start,End,\"Calc start\",\"Calc end\",Duration,Overtime\n"))
	require.True(t, strings.HasSuffix(out, "\nSum,,,,,30:00```"))

	lines := strings.Split(strings.TrimSuffix(strings.TrimPrefix(out, "```"), "```"), "\n")
	// header + 32 rows + footer
	require.Len(t, lines, 34)
	assert.Equal(t, "2024/12/01,,,,,,", lines[1])
	assert.Equal(t, "2024/12/02,09:07,17:22,09:15,17:15,08:00,", lines[2])
	assert.Equal(t, "2024/12/03,09:00,19:00,09:00,19:00,10:00,01:00", lines[3])
	assert.Equal(t, "2024/12/04,09:00,,09:00,,,", lines[4])
	assert.Equal(t, "2024/12/31,,,,,,", lines[32])
}

func TestRenderMarkdown(t *testing.T) {
	rep, err := seededLedger(t).Build(context.Background(), "alice", december)
	require.NoError(t, err)

	out := attendance.Render(rep, attendance.FormatMarkdown)
	assert.True(t, strings.HasPrefix(out, "| date | from | to | from' | to' | delta | over |\n|---|---|---|---|---|---|---|\n"))
	assert.Contains(t, out, "| 2024/12/03 | 09:00 | 19:00 | 09:00 | 19:00 | 10:00 | 01:00 |\n")
	assert.True(t, strings.HasSuffix(out, "| sum | | | | | | 30:00 |"))
	assert.NotContains(t, out, "2024/12/01")
}

func TestRenderEmptyMonth(t *testing.T) {
	intervals := storage.NewIntervals(storage.NewMemoryStore())
	rep, err := attendance.NewLedger(intervals).Build(context.Background(), "alice", december)
	require.NoError(t, err)

	assert.Empty(t, attendance.Render(rep, attendance.FormatTable))
	assert.Empty(t, attendance.Render(rep, attendance.FormatMarkdown))

	csv := attendance.Render(rep, attendance.FormatCSV)
	require.NotEmpty(t, csv, "csv lists every calendar day even without records")
	assert.Equal(t, 31, strings.Count(csv, ",,,,,,\n"))
	assert.True(t, strings.HasSuffix(csv, "Sum,,,,,00:00```"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]attendance.Format{
		"":         attendance.FormatTable,
		"table":    attendance.FormatTable,
		"CSV":      attendance.FormatCSV,
		"md":       attendance.FormatMarkdown,
		"markdown": attendance.FormatMarkdown,
	} {
		got, err := attendance.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := attendance.ParseFormat("xml")
	assert.Error(t, err)
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/command"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/config"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

func testApp(t *testing.T) *app {
	t.Helper()
	cfg := config.Config{
		Storage: config.StorageConfig{Driver: "memory"},
		List:    config.ListConfig{Format: "table"},
	}
	a, err := newApp(context.Background(), cfg, appOptions{logOut: io.Discard})
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestChatLine(t *testing.T) {
	assert.Equal(t, "hi", chatLine(command.VerbHi, nil))
	assert.Equal(t, "bye 12/24 9-1730", chatLine(command.VerbBye, []string{"12/24", "9-1730"}))
	assert.Equal(t, "list 2024/12", chatLine(command.VerbList, []string{"2024/12"}))
}

func TestRunChat(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	var out, errOut bytes.Buffer

	code, err := runChat(ctx, a.dispatcher, "alice", "hi 12/02 9-1730", &out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "alice started working at 09:00-17:30 on ")
	assert.Empty(t, errOut.String())

	out.Reset()
	code, err = runChat(ctx, a.dispatcher, "alice", "list 12", &out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	lines := strings.SplitN(out.String(), "\n", 2)
	assert.Contains(t, lines[0], "working time list on ")
	assert.Contains(t, lines[1], "| 09:00 | 17:30 | 09:00 | 17:30 | 08:30    | ")

	code, err = runChat(ctx, a.dispatcher, "alice", "hi 12/24", &out, &errOut)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Equal(t, "Error occurred: Argument error.\n", errOut.String())

	_, err = runChat(ctx, a.dispatcher, "alice", "hi tomorrow", &out, &errOut)
	assert.ErrorContains(t, err, "invalid arguments")
}

func TestCurrentUserStripsMention(t *testing.T) {
	prev := userName
	t.Cleanup(func() { userName = prev })

	userName = "@bob"
	assert.Equal(t, "bob", currentUser())

	userName = "carol"
	assert.Equal(t, "carol", currentUser())

	userName = ""
	t.Setenv("USER", "dave")
	assert.Equal(t, "dave", currentUser())
}

func TestPrintStatus(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	now := time.Date(2024, 12, 24, 11, 30, 0, 0, time.Local)

	_, err := a.intervals.Append(ctx, "alice", "2024/12/24", model.StringPtr("08:00"), model.StringPtr("09:00"))
	require.NoError(t, err)
	_, err = a.intervals.Append(ctx, "alice", "2024/12/24", model.StringPtr("10:00"), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, printStatus(ctx, &buf, a.intervals, "alice", "", now))
	assert.Equal(t, "alice 2024/12/24: open\n  08:00–09:00\n  10:00–...\n  Elapsed: 01:30\n", buf.String())

	buf.Reset()
	require.NoError(t, printStatus(ctx, &buf, a.intervals, "alice", "12/23", now))
	assert.Equal(t, "alice 2024/12/23: empty\n", buf.String())

	assert.Error(t, printStatus(ctx, &buf, a.intervals, "alice", "12/99", now))
}

func TestWriteExport(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()
	_, err := a.intervals.Append(ctx, "alice", "2024/12/03", model.StringPtr("09:00"), model.StringPtr("19:00"))
	require.NoError(t, err)
	rep, err := a.ledger.Build(ctx, "alice", time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, rep, "json"))
	var got exportReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, exportReport{
		User:  "alice",
		Month: "2024/12",
		Rows: []exportRow{{
			Date: "2024/12/03", From: "09:00", To: "19:00", CalcFrom: "09:00", CalcTo: "19:00",
			Duration: "10:00", Overtime: "01:00",
		}},
		Total: "10:00",
	}, got)

	buf.Reset()
	require.NoError(t, writeExport(&buf, rep, "csv"))
	assert.True(t, strings.HasPrefix(buf.String(), "Date,Start,End"))
	assert.True(t, strings.HasSuffix(buf.String(), "Sum,,,,,10:00\n"))

	buf.Reset()
	assert.Error(t, writeExport(&buf, rep, "xml"))

	empty, err := a.ledger.Build(ctx, "bob", time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, writeExport(&buf, empty, "table"))
	assert.Equal(t, "No entries found.\n", buf.String())
}

func TestTrimFence(t *testing.T) {
	assert.Equal(t, "a,b", trimFence("```a,b```"))
	assert.Equal(t, "plain", trimFence("plain"))
	assert.Equal(t, "``", trimFence("``"))
}

package messages_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/messages"
)

func TestSubstitute(t *testing.T) {
	got := messages.Substitute("%{user} %{user} at %{from}-%{to} %{unknown}", messages.Vars{
		"user": "alice",
		"from": "09:00",
		"to":   "",
	})
	assert.Equal(t, "alice alice at 09:00- %{unknown}", got)
	assert.Equal(t, "plain", messages.Substitute("plain", nil))
}

func TestDefaultsCoverEveryID(t *testing.T) {
	defaults := messages.Defaults()
	for _, id := range messages.IDs {
		assert.NotEmpty(t, defaults[id], id)
	}
}

func TestRenderDefaults(t *testing.T) {
	set, err := messages.New(nil)
	require.NoError(t, err)

	got := set.Render(messages.ClockIn, messages.Vars{"user": "alice", "from": "09:00", "to": "", "date": "2024/12/24"})
	assert.Equal(t, "Good morning! alice started working at 09:00- on 2024/12/24.", got)

	got = set.Render(messages.Error, messages.Vars{"message": "Argument error."})
	assert.Equal(t, "Error occurred: Argument error.", got)
}

func TestOverridesAndPicker(t *testing.T) {
	set, err := messages.New(map[messages.ID][]string{
		messages.Future:  {"A %{user}", "B %{user}"},
		messages.NoList:  {},
		messages.ClockIn: {"hi %{user}"},
	})
	require.NoError(t, err)

	set = set.WithPicker(func(n int) int { return n - 1 })
	assert.Equal(t, "B bob", set.Render(messages.Future, messages.Vars{"user": "bob"}))
	assert.Equal(t, "hi bob", set.Render(messages.ClockIn, messages.Vars{"user": "bob"}))
	assert.Equal(t, "The list of 12 is nothing.", set.Render(messages.NoList, messages.Vars{"month": "12"}),
		"empty overrides keep the default")
}

func TestUnknownOverride(t *testing.T) {
	_, err := messages.New(map[messages.ID][]string{"bogus": {"x"}})
	assert.Error(t, err)
}

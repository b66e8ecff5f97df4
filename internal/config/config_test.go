package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/messages"
)

func TestLoadWritesTemplateOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configTemplate, string(data))

	// The template itself must parse to the defaults.
	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file", again.Storage.Driver)
	assert.Equal(t, Duration(time.Second), again.List.Delay)
	assert.Equal(t, "table", again.List.Format)
	assert.Empty(t, again.Discord.Channels)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `// comment
{
  // storage
  "storage": {"driver": "sqlite"},
  "list": {"delay": "250ms"},
  "messages": {"clock_in": ["Morning %{user}!", "Hi %{user}"]}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, Duration(250*time.Millisecond), cfg.List.Delay)
	assert.Equal(t, "table", cfg.List.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, map[messages.ID][]string{
		messages.ClockIn: {"Morning %{user}!", "Hi %{user}"},
	}, cfg.MessageOverrides())
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"list": {"delay": 5}}`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Tip: delete the file")
}

func TestLoadEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage": {"driver": "sqlite"}, "discord": {"token": "file"}}`), 0o600))

	t.Setenv("TAT_STORAGE_DRIVER", "postgres")
	t.Setenv("TAT_STORAGE_DSN", "postgres://localhost/tat")
	t.Setenv("TAT_LIST_DELAY", "3s")
	t.Setenv("TAT_DISCORD_TOKEN", "")
	t.Setenv("DISCORD_TOKEN", "from-env")
	t.Setenv("TAT_DISCORD_CHANNELS", " 123, ,456 ")
	t.Setenv("TAT_LOG_FORMAT", "json")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/tat", cfg.Storage.DSN)
	assert.Equal(t, Duration(3*time.Second), cfg.List.Delay)
	assert.Equal(t, "from-env", cfg.Discord.Token)
	assert.Equal(t, []string{"123", "456"}, cfg.Discord.Channels)
	assert.Equal(t, "json", cfg.Log.Format)

	t.Setenv("TAT_LIST_DELAY", "soon")
	_, err = Load(path)
	assert.ErrorContains(t, err, "TAT_LIST_DELAY")
}

func TestStorageDSN(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, "/home/u/.tat", cfg.StorageDSN("/home/u/.tat"))

	cfg.DataDir = "/srv/tat"
	assert.Equal(t, "/srv/tat", cfg.StorageDSN("/home/u/.tat"))

	cfg.Storage.Driver = "sqlite"
	assert.Equal(t, filepath.Join("/srv/tat", "tat.db"), cfg.StorageDSN("/home/u/.tat"))

	cfg.Storage.Driver = "postgres"
	assert.Empty(t, cfg.StorageDSN("/home/u/.tat"))

	cfg.Storage.Driver = "sqlite"
	cfg.Storage.DSN = "file:other.db"
	assert.Equal(t, "file:other.db", cfg.StorageDSN("/home/u/.tat"))
}

func TestDurationJSON(t *testing.T) {
	data, err := json.Marshal(Duration(1500 * time.Millisecond))
	require.NoError(t, err)
	assert.JSONEq(t, `"1.5s"`, string(data))

	var d Duration
	require.NoError(t, json.Unmarshal([]byte(`"2m"`), &d))
	assert.Equal(t, Duration(2*time.Minute), d)
	assert.Error(t, json.Unmarshal([]byte(`"later"`), &d))
}

func TestStripLineComments(t *testing.T) {
	input := "// header\n{\n  // note\n  \"a\": 1 // kept\n}\n"
	assert.Equal(t, "{\n  \"a\": 1 // kept\n}\n\n", string(stripLineComments([]byte(input))))
}

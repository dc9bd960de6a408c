package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mostrador/internal/config"
)

func TestApplySetting_Strings(t *testing.T) {
	settings := &config.Settings{}

	require.NoError(t, applySetting(settings, "api_url", "http://example.com/api"))
	require.NoError(t, applySetting(settings, "ssh_host", "127.0.0.1"))
	require.NoError(t, applySetting(settings, "ssh_port", "2222"))

	assert.Equal(t, "http://example.com/api", settings.APIURL)
	assert.Equal(t, "127.0.0.1", settings.SSHHost)
	assert.Equal(t, "2222", settings.SSHPort)
}

func TestApplySetting_TypedValues(t *testing.T) {
	settings := &config.Settings{}

	require.NoError(t, applySetting(settings, "debug", "true"))
	require.NoError(t, applySetting(settings, "poll_minutes", "10"))
	require.NoError(t, applySetting(settings, "error_clear_delay", "5"))
	require.NoError(t, applySetting(settings, "max_log_files", "50"))

	require.NotNil(t, settings.Debug)
	assert.True(t, *settings.Debug)
	require.NotNil(t, settings.PollMinutes)
	assert.Equal(t, 10, *settings.PollMinutes)
	require.NotNil(t, settings.ErrorClearDelay)
	assert.Equal(t, 5, *settings.ErrorClearDelay)
	require.NotNil(t, settings.MaxLogFiles)
	assert.Equal(t, 50, *settings.MaxLogFiles)
}

func TestApplySetting_RejectsBadValues(t *testing.T) {
	settings := &config.Settings{}

	assert.Error(t, applySetting(settings, "debug", "yes please"))
	assert.Error(t, applySetting(settings, "poll_minutes", "zero"))
	assert.Error(t, applySetting(settings, "poll_minutes", "-3"))
	assert.Error(t, applySetting(settings, "favorite_color", "blue"))
	assert.Equal(t, &config.Settings{}, settings, "rejected values leave settings untouched")
}

func TestConfigSet_PersistsToSettingsFile(t *testing.T) {
	t.Setenv("MOSTRADOR_HOME", t.TempDir())

	settings, err := config.LoadSettings()
	require.NoError(t, err)
	require.NoError(t, applySetting(settings, "poll_minutes", "7"))
	require.NoError(t, config.SaveSettings(settings))

	reloaded, err := config.LoadSettings()
	require.NoError(t, err)
	require.NotNil(t, reloaded.PollMinutes)
	assert.Equal(t, 7, *reloaded.PollMinutes)
}

package core

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpFile.Close())
	return tmpFile.Name()
}

func TestLoadConfig_ValidConfig_ReturnsConfigStruct(t *testing.T) {
	configContent := `
discord:
  token: "${TEST_SLASHD_TOKEN}"
  guild_id: "123456789012345678"

dispatch:
  queue_size: 50
  drain_timeout: "5s"

commands:
  enabled: ["ping", "hello"]

security:
  whitelist_enabled: true
  allowed_users:
    - "111111111111111111"

logging:
  level: "debug"
`
	path := writeTempConfig(t, configContent)

	os.Setenv("TEST_SLASHD_TOKEN", "test-token-12345")
	defer os.Unsetenv("TEST_SLASHD_TOKEN")

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "test-token-12345", config.Discord.Token)
	assert.Equal(t, "123456789012345678", config.Discord.GuildID)
	assert.Equal(t, 50, config.Dispatch.QueueSize)
	assert.Equal(t, 5*time.Second, config.DrainTimeout())
	assert.True(t, config.Security.WhitelistEnabled)
	assert.Equal(t, "debug", config.Logging.Level)
}

func TestLoadConfig_MissingEnvVar_ReturnsError(t *testing.T) {
	configContent := `
discord:
  token: "${SLASHD_UNSET_VAR_FOR_TEST}"
`
	path := writeTempConfig(t, configContent)

	os.Unsetenv("SLASHD_UNSET_VAR_FOR_TEST")
	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SLASHD_UNSET_VAR_FOR_TEST")
}

func TestLoadConfig_MissingToken_ReturnsError(t *testing.T) {
	path := writeTempConfig(t, `
dispatch:
  queue_size: 10
`)

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "discord.token")
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	path := writeTempConfig(t, `
discord:
  token: "a-token"
`)

	config, err := LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, 100, config.Dispatch.QueueSize)
	assert.Equal(t, DefaultDrainTimeout, config.Dispatch.DrainTimeout)
	assert.Equal(t, DefaultLogLevel, config.Logging.Level)
	assert.Equal(t, DefaultLogMaxSize, config.Logging.MaxSize)
	assert.Equal(t, DefaultLogMaxBackups, config.Logging.MaxBackups)
	require.NotNil(t, config.Logging.EnableStdout)
	assert.True(t, *config.Logging.EnableStdout)
	require.NotNil(t, config.Logging.Compress)
	assert.True(t, *config.Logging.Compress)
}

func TestLoadConfig_ExplicitFalseLoggingFlags_Survive(t *testing.T) {
	path := writeTempConfig(t, `
discord:
  token: "a-token"
logging:
  compress: false
  enable_stdout: false
`)

	config, err := LoadConfig(path)

	require.NoError(t, err)
	require.NotNil(t, config.Logging.Compress)
	assert.False(t, *config.Logging.Compress)
	require.NotNil(t, config.Logging.EnableStdout)
	assert.False(t, *config.Logging.EnableStdout)
}

func TestLoadConfig_InvalidDrainTimeout_ReturnsError(t *testing.T) {
	path := writeTempConfig(t, `
discord:
  token: "a-token"
dispatch:
  drain_timeout: "not-a-duration"
`)

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "drain_timeout")
}

func TestLoadConfig_QueueSizeOutOfRange_ReturnsError(t *testing.T) {
	path := writeTempConfig(t, `
discord:
  token: "a-token"
dispatch:
  queue_size: 999999
`)

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue_size")
}

func TestLoadConfig_WhitelistEnabledWithoutUsers_ReturnsError(t *testing.T) {
	path := writeTempConfig(t, `
discord:
  token: "a-token"
security:
  whitelist_enabled: true
`)

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "allowed_users")
}

func TestLoadConfig_NonexistentFile_ReturnsError(t *testing.T) {
	_, err := LoadConfig("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeTempConfig(t, "discord: [not: valid: yaml")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestConfig_CommandEnabled(t *testing.T) {
	config := &Config{}
	// Empty list enables everything
	assert.True(t, config.CommandEnabled("ping"))

	config.Commands.Enabled = []string{"ping", "hello"}
	assert.True(t, config.CommandEnabled("ping"))
	assert.True(t, config.CommandEnabled("hello"))
	assert.False(t, config.CommandEnabled("echo"))
}

func TestConfig_IsUserAuthorized_WhitelistDisabled_AllowsAll(t *testing.T) {
	config := &Config{}
	assert.True(t, config.IsUserAuthorized("anyone"))
}

func TestConfig_IsUserAuthorized_WhitelistEnabled(t *testing.T) {
	config := &Config{}
	config.Security.WhitelistEnabled = true
	config.Security.AllowedUsers = []string{"user-1", "user-2"}

	assert.True(t, config.IsUserAuthorized("user-1"))
	assert.True(t, config.IsUserAuthorized("user-2"))
	assert.False(t, config.IsUserAuthorized("user-3"))
}

func TestConfig_EmptyEnabledCommandName_ReturnsError(t *testing.T) {
	path := writeTempConfig(t, `
discord:
  token: "a-token"
commands:
  enabled: ["ping", ""]
`)

	_, err := LoadConfig(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "commands.enabled")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeEnv(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, CyclePolicyAutomatic, cfg.Plan.CyclePolicy)
	assert.True(t, cfg.Plan.Strict)
	assert.Empty(t, cfg.Plan.Anchors)
	assert.Empty(t, cfg.Schema.Path)
}

func TestLoad_FromEnvFile(t *testing.T) {
	path := writeEnv(t, "DATAPLAN_LOG_FORMAT=json\nDATAPLAN_ANCHORS=Contact, Account\nDATAPLAN_SCHEMA_PATH=org.yml\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"Contact", "Account"}, cfg.Plan.Anchors)
	assert.Equal(t, "org.yml", cfg.Schema.Path)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATAPLAN_STRICT", "false")
	t.Setenv("DATAPLAN_EXCLUDE_OBJECTS", "Task,Event")

	cfg, err := Load(writeEnv(t, ""))
	require.NoError(t, err)

	assert.False(t, cfg.Plan.Strict)
	assert.Equal(t, []string{"Task", "Event"}, cfg.Plan.ExcludeObjects)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("DATAPLAN_CYCLE_POLICY", "random")

	_, err := Load(writeEnv(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cycle policy")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Log:  LogConfig{Level: "debug", Format: "json"},
		Plan: PlanConfig{CyclePolicy: CyclePolicyInteractive},
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.Log.Level = "trace"
	bad.Log.Format = "xml"
	bad.Schema = SchemaConfig{Path: "a.yml", DSN: "root@/cache"}

	err := bad.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
	assert.Contains(t, err.Error(), "invalid log format")
	assert.Contains(t, err.Error(), "mutually exclusive")
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testEnvKeys = []string{
	"LEDGER_LOG_LEVEL",
	"LEDGER_LOG_FORMAT",
	"LEDGER_DATABASE_PATH",
	"LEDGER_DATABASE_BUSY_TIMEOUT_MS",
	"LEDGER_CSV_DELIMITER",
	"LEDGER_IMPORT_STRICT",
	"LEDGER_IMPORT_SOURCE_ACCOUNT",
	"LEDGER_RULES_DRY_RUN_LIMIT",
	"LEDGER_RULES_BATCH_SIZE",
	"LEDGER_POSTING_LIMIT",
	"LEDGER_CLOSURES_ENFORCE",
}

func clearTestEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range testEnvKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	original, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(original))
	})
}

func TestInitializeConfig_Defaults(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "info", config.Log.Level)
	assert.Equal(t, "text", config.Log.Format)
	assert.Equal(t, "finledger.db", config.Database.Path)
	assert.Equal(t, 5000, config.Database.BusyTimeoutMS)
	assert.Equal(t, ",", config.CSV.Delimiter)
	assert.Equal(t, "date", config.Import.DateColumn)
	assert.Equal(t, "description", config.Import.DescriptionColumn)
	assert.Equal(t, "amount", config.Import.AmountColumn)
	assert.Equal(t, "Checking", config.Import.SourceAccount)
	assert.False(t, config.Import.Strict)
	assert.Equal(t, 1000, config.Rules.DryRunLimit)
	assert.Equal(t, 1000, config.Rules.BatchSize)
	assert.Equal(t, 10000, config.Posting.Limit)
	assert.True(t, config.Closures.Enforce)
	assert.Equal(t, ',', config.Delimiter())
}

func TestInitializeConfig_EnvironmentVariables(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	t.Setenv("LEDGER_LOG_LEVEL", "debug")
	t.Setenv("LEDGER_LOG_FORMAT", "json")
	t.Setenv("LEDGER_DATABASE_PATH", "/tmp/books.db")
	t.Setenv("LEDGER_CSV_DELIMITER", ";")
	t.Setenv("LEDGER_IMPORT_STRICT", "true")
	t.Setenv("LEDGER_RULES_BATCH_SIZE", "50")
	t.Setenv("LEDGER_CLOSURES_ENFORCE", "false")

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, "json", config.Log.Format)
	assert.Equal(t, "/tmp/books.db", config.Database.Path)
	assert.Equal(t, ';', config.Delimiter())
	assert.True(t, config.Import.Strict)
	assert.Equal(t, 50, config.Rules.BatchSize)
	assert.False(t, config.Closures.Enforce)
}

func TestInitializeConfig_ConfigFile(t *testing.T) {
	clearTestEnvVars(t)
	tempDir := t.TempDir()
	chdir(t, tempDir)

	content := `
log:
  level: "warn"
database:
  path: "books.db"
csv:
  delimiter: "|"
import:
  date_column: "Booking Date"
  source_account: "Savings"
posting:
  limit: 25
`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "config.yaml"), []byte(content), 0o644))

	config, err := InitializeConfig("")
	require.NoError(t, err)

	assert.Equal(t, "warn", config.Log.Level)
	assert.Equal(t, "books.db", config.Database.Path)
	assert.Equal(t, "|", config.CSV.Delimiter)
	assert.Equal(t, "Booking Date", config.Import.DateColumn)
	assert.Equal(t, "Savings", config.Import.SourceAccount)
	assert.Equal(t, 25, config.Posting.Limit)
	assert.Equal(t, "amount", config.Import.AmountColumn)
}

func TestInitializeConfig_ExplicitFileAndPrecedence(t *testing.T) {
	clearTestEnvVars(t)
	chdir(t, t.TempDir())

	path := filepath.Join(t.TempDir(), "ledger.yaml")
	content := `
log:
  level: "warn"
rules:
  dry_run_limit: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("LEDGER_LOG_LEVEL", "error")

	config, err := InitializeConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "error", config.Log.Level)
	assert.Equal(t, 10, config.Rules.DryRunLimit)
}

func TestInitializeConfig_MissingExplicitFile(t *testing.T) {
	clearTestEnvVars(t)

	_, err := InitializeConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidateConfig_InvalidValues(t *testing.T) {
	tests := []struct {
		name         string
		modifyConfig func(*Config)
		expectError  string
	}{
		{
			name:         "invalid log level",
			modifyConfig: func(c *Config) { c.Log.Level = "loud" },
			expectError:  "invalid log level",
		},
		{
			name:         "invalid log format",
			modifyConfig: func(c *Config) { c.Log.Format = "xml" },
			expectError:  "invalid log format",
		},
		{
			name:         "empty database path",
			modifyConfig: func(c *Config) { c.Database.Path = " " },
			expectError:  "database.path",
		},
		{
			name:         "multi-character delimiter",
			modifyConfig: func(c *Config) { c.CSV.Delimiter = ";;" },
			expectError:  "CSV delimiter",
		},
		{
			name:         "zero batch size",
			modifyConfig: func(c *Config) { c.Rules.BatchSize = 0 },
			expectError:  "rules.batch_size",
		},
		{
			name:         "negative posting limit",
			modifyConfig: func(c *Config) { c.Posting.Limit = -1 },
			expectError:  "posting.limit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.modifyConfig(config)

			err := validateConfig(config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectError)
		})
	}
}

func TestValidateConfig_Valid(t *testing.T) {
	assert.NoError(t, validateConfig(validConfig()))
}

func validConfig() *Config {
	c := &Config{}
	c.Log.Level = "info"
	c.Log.Format = "text"
	c.Database.Path = "finledger.db"
	c.CSV.Delimiter = ","
	c.Rules.DryRunLimit = 1000
	c.Rules.BatchSize = 1000
	c.Posting.Limit = 10000
	return c
}

package root_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/finledger/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "finledger", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "personal finance ledger")
	assert.Contains(t, root.Cmd.Long, "double-entry ledger")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRunE)
	assert.NotNil(t, root.Cmd.PersistentPostRunE)
}

func TestRootCommand_Flags(t *testing.T) {
	root.Init()
	root.Init()

	configFlag := root.Cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
	assert.NotEmpty(t, configFlag.Usage)

	dbFlag := root.Cmd.PersistentFlags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Contains(t, dbFlag.Usage, "database")
}

func TestGetContainer_BeforeSetup(t *testing.T) {
	if root.GetConfig() != nil {
		t.Skip("configuration already initialized by another test")
	}
	_, err := root.GetContainer(context.Background())
	assert.Error(t, err)
}

func TestRootCommand_Lifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	root.DBPath = dbPath
	defer func() { root.DBPath = "" }()

	cmd := &cobra.Command{Use: "test"}
	require.NoError(t, root.Cmd.PersistentPreRunE(cmd, nil))

	cfg := root.GetConfig()
	require.NotNil(t, cfg)
	assert.Equal(t, dbPath, cfg.Database.Path)
	assert.NotNil(t, root.GetLogger())

	c, err := root.GetContainer(context.Background())
	require.NoError(t, err)
	again, err := root.GetContainer(context.Background())
	require.NoError(t, err)
	assert.Same(t, c, again)

	require.NoError(t, root.Cmd.PersistentPostRunE(cmd, nil))
	assert.FileExists(t, dbPath)

	// Post-run with no open container is a no-op.
	assert.NoError(t, root.Cmd.PersistentPostRunE(cmd, nil))
}

func TestParseDate(t *testing.T) {
	d, err := root.ParseDate("from", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, 31, d.Day())

	_, err = root.ParseDate("to", "31/01/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--to")
}

func TestWithOutput(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	write := func(w io.Writer) error {
		_, err := io.WriteString(w, "hello\n")
		return err
	}

	require.NoError(t, root.WithOutput(cmd, "", write))
	assert.Equal(t, "hello\n", buf.String())

	path := filepath.Join(t.TempDir(), "out", "report.csv")
	require.NoError(t, root.WithOutput(cmd, path, write))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(data))
}

func TestPrintJSON(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, root.PrintJSON(cmd, map[string]int{"imported": 2}))
	assert.JSONEq(t, `{"imported":2}`, buf.String())
}

func TestParseID(t *testing.T) {
	id, err := root.ParseID("rule", "42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, arg := range []string{"0", "-3", "abc", ""} {
		_, err := root.ParseID("rule", arg)
		assert.Error(t, err, arg)
	}
}

func TestResolveRange(t *testing.T) {
	tests := []struct {
		name      string
		month     string
		from      string
		to        string
		wantStart string
		wantEnd   string
		wantErr   string
	}{
		{name: "month", month: "2024-02", wantStart: "2024-02-01", wantEnd: "2024-02-29"},
		{name: "explicit range", from: "2024-01-01", to: "2024-03-31", wantStart: "2024-01-01", wantEnd: "2024-03-31"},
		{name: "missing end", from: "2024-01-01", wantErr: "period is required"},
		{name: "nothing", wantErr: "period is required"},
		{name: "month and range", month: "2024-01", from: "2024-01-01", wantErr: "cannot be combined"},
		{name: "bad month", month: "January", wantErr: "invalid month"},
		{name: "bad from", from: "01/01/2024", to: "2024-01-31", wantErr: "--from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := root.ResolveRange(tt.month, tt.from, tt.to)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start.Format("2006-01-02"))
			assert.Equal(t, tt.wantEnd, end.Format("2006-01-02"))
		})
	}
}

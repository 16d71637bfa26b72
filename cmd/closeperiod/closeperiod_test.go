package closeperiod

import (
	"testing"
	"time"

	"fjacquet/finledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseCommand_Metadata(t *testing.T) {
	assert.Equal(t, "close", Cmd.Use)
	assert.Contains(t, Cmd.Long, "closed period")

	names := map[string]bool{}
	for _, c := range Cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["add"])
	assert.True(t, names["list"])
}

func TestAddCommand_Flags(t *testing.T) {
	monthFlag := addCmd.Flags().Lookup("month")
	require.NotNil(t, monthFlag)
	assert.Equal(t, "m", monthFlag.Shorthand)
	assert.NotNil(t, addCmd.Flags().Lookup("from"))
	assert.NotNil(t, addCmd.Flags().Lookup("to"))
}

func TestView(t *testing.T) {
	c := models.PeriodClosure{
		ID:          3,
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		ClosedAt:    time.Date(2024, 2, 5, 9, 30, 0, 0, time.UTC),
	}

	assert.Equal(t, closureView{
		ID:          3,
		PeriodStart: "2024-01-01",
		PeriodEnd:   "2024-01-31",
		ClosedAt:    "2024-02-05T09:30:00Z",
	}, view(c))
}

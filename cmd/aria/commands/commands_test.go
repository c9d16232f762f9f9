package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria/reminders/internal/domain/timecontext"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "error")

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTestCommand(t *testing.T) {
	out, err := run(t, "test")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Created reminder: "))
	assert.Contains(t, out, `"reminder_text": "Test reminder from ARIA"`)
	assert.Contains(t, out, `"priority": "normal"`)
}

func TestListingCommands(t *testing.T) {
	out, err := run(t, "upcoming", "6")
	require.NoError(t, err)
	assert.Equal(t, "Upcoming reminders (6h):\n[]\n", out)

	out, err = run(t, "upcoming")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Upcoming reminders (24h):"))

	out, err = run(t, "upcoming", "0")
	require.NoError(t, err)
	assert.Equal(t, "Upcoming reminders (24h):\n[]\n", out)

	out, err = run(t, "upcoming", "--", "-3")
	require.NoError(t, err)
	assert.Equal(t, "Upcoming reminders (24h):\n[]\n", out)

	_, err = run(t, "upcoming", "soon")
	assert.ErrorContains(t, err, "invalid hours")

	out, err = run(t, "overdue")
	require.NoError(t, err)
	assert.Equal(t, "Overdue reminders:\n[]\n", out)
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Reminder summary:")
	assert.Contains(t, out, `"user_id": "damon"`)
	assert.Contains(t, out, `"overdue_count": 0`)
}

func TestProactiveCommand(t *testing.T) {
	out, err := run(t, "proactive")
	require.NoError(t, err)
	assert.Equal(t, "No reminders to surface\n", out)
}

func TestMutationCommandsOnUnknownIDs(t *testing.T) {
	out, err := run(t, "complete", "not-a-uuid")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"message":"Reminder not found"}`, out)

	out, err = run(t, "snooze", "not-a-uuid", "15")
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false}`, out)

	out, err = run(t, "delete", "not-a-uuid")
	require.NoError(t, err)
	assert.JSONEq(t, `{"deleted":false}`, out)

	_, err = run(t, "complete")
	assert.Error(t, err)
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "tomorrow", "at", "3pm")
	require.NoError(t, err)

	var resp struct {
		Phrase  string `json:"phrase"`
		Variant string `json:"variant"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "tomorrow at 3pm", resp.Phrase)
	assert.Equal(t, string(timecontext.Absolute), resp.Variant)

	_, err = run(t, "parse", "whenever")
	assert.ErrorIs(t, err, timecontext.ErrUnparseable)
}

func TestNowCommand(t *testing.T) {
	t.Setenv("ARIA_TIMEZONE", "Europe/Berlin")
	out, err := run(t, "now")
	require.NoError(t, err)

	assert.Contains(t, out, `"timezone": "Europe/Berlin"`)
	assert.Contains(t, out, "## Current Time Context")
}

func TestTokenCommand(t *testing.T) {
	_, err := run(t, "token", "sam")
	assert.ErrorContains(t, err, "JWT secret")

	t.Setenv("JWT_SECRET", "a-real-secret")
	out, err := run(t, "token", "sam")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.NotEmpty(t, resp["token"])
	assert.Equal(t, "Bearer", resp["token_type"])
}

func TestMigrateNeedsPostgres(t *testing.T) {
	_, err := run(t, "migrate", "version")
	assert.ErrorContains(t, err, "postgres")
}

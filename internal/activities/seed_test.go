package activities

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mergington/internal/storage"
)

func writeActivities(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "activities.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultActivitiesAreValid(t *testing.T) {
	seed := DefaultActivities()
	require.Len(t, seed, 10)
	require.NoError(t, ValidateSeed(seed))
	require.NotNil(t, seed["GitHub Skills"].Participants)
}

func TestLoadSeed_EmptySourceUsesDefaults(t *testing.T) {
	seed, err := LoadSeed(context.Background(), "", storage.NewSourceOpener(nil))
	require.NoError(t, err)
	require.Contains(t, seed, "Chess Club")
}

func TestLoadSeed_FromFile(t *testing.T) {
	path := writeActivities(t, `{
		"Robotics": {
			"description": "Build robots",
			"schedule": "Mondays, 4:00 PM - 5:00 PM",
			"max_participants": 8,
			"category": "Academic",
			"created_date": "2024-03-01"
		}
	}`)

	seed, err := LoadSeed(context.Background(), path, storage.NewSourceOpener(nil))
	require.NoError(t, err)
	require.Len(t, seed, 1)
	require.Equal(t, 8, seed["Robotics"].MaxParticipants)
	require.NotNil(t, seed["Robotics"].Participants)
	require.Empty(t, seed["Robotics"].Participants)
}

func TestLoadSeed_Failures(t *testing.T) {
	cases := map[string]string{
		"malformed json":   `{"Robotics": `,
		"empty":            `{}`,
		"zero capacity":    `{"Robotics":{"description":"d","schedule":"s","max_participants":0}}`,
		"missing schedule": `{"Robotics":{"description":"d","max_participants":5}}`,
		"bad date":         `{"Robotics":{"description":"d","schedule":"s","max_participants":5,"created_date":"March 1st"}}`,
		"duplicate email":  `{"Robotics":{"description":"d","schedule":"s","max_participants":5,"participants":["a@b.edu","a@b.edu"]}}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSeed(context.Background(), writeActivities(t, body), storage.NewSourceOpener(nil))
			require.ErrorIs(t, err, ErrStartup)
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	_, err := LoadSeed(context.Background(), filepath.Join(t.TempDir(), "nope.json"), storage.NewSourceOpener(nil))
	require.ErrorIs(t, err, ErrStartup)
}

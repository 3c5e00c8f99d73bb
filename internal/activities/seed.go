package activities

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"mergington/internal/storage"
)

// DefaultActivities returns the built-in Mergington High School catalogue
func DefaultActivities() map[string]Activity {
	return map[string]Activity{
		"Chess Club": {
			Description:     "Learn strategies and compete in chess tournaments",
			Schedule:        "Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 12,
			Participants:    []string{"michael@mergington.edu", "daniel@mergington.edu"},
			Category:        "Academic",
			CreatedDate:     "2024-01-15",
		},
		"Programming Class": {
			Description:     "Learn programming fundamentals and build software projects",
			Schedule:        "Tuesdays and Thursdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"emma@mergington.edu", "sophia@mergington.edu"},
			Category:        "Academic",
			CreatedDate:     "2024-02-01",
		},
		"Gym Class": {
			Description:     "Physical education and sports activities",
			Schedule:        "Mondays, Wednesdays, Fridays, 2:00 PM - 3:00 PM",
			MaxParticipants: 30,
			Participants:    []string{"john@mergington.edu", "olivia@mergington.edu"},
			Category:        "Sports",
			CreatedDate:     "2024-01-10",
		},
		"Soccer Team": {
			Description:     "Join the school soccer team and compete in matches",
			Schedule:        "Tuesdays and Thursdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 22,
			Participants:    []string{"liam@mergington.edu", "noah@mergington.edu"},
			Category:        "Sports",
			CreatedDate:     "2024-01-20",
		},
		"Basketball Team": {
			Description:     "Practice and play basketball with the school team",
			Schedule:        "Wednesdays and Fridays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"ava@mergington.edu", "mia@mergington.edu"},
			Category:        "Sports",
			CreatedDate:     "2024-01-25",
		},
		"Art Club": {
			Description:     "Explore your creativity through painting and drawing",
			Schedule:        "Thursdays, 3:30 PM - 5:00 PM",
			MaxParticipants: 15,
			Participants:    []string{"amelia@mergington.edu", "harper@mergington.edu"},
			Category:        "Arts",
			CreatedDate:     "2024-02-05",
		},
		"Drama Club": {
			Description:     "Act, direct, and produce plays and performances",
			Schedule:        "Mondays and Wednesdays, 4:00 PM - 5:30 PM",
			MaxParticipants: 20,
			Participants:    []string{"ella@mergington.edu", "scarlett@mergington.edu"},
			Category:        "Arts",
			CreatedDate:     "2024-02-10",
		},
		"Math Club": {
			Description:     "Solve challenging problems and participate in math competitions",
			Schedule:        "Tuesdays, 3:30 PM - 4:30 PM",
			MaxParticipants: 10,
			Participants:    []string{"james@mergington.edu", "benjamin@mergington.edu"},
			Category:        "Academic",
			CreatedDate:     "2024-01-30",
		},
		"Debate Team": {
			Description:     "Develop public speaking and argumentation skills",
			Schedule:        "Fridays, 4:00 PM - 5:30 PM",
			MaxParticipants: 12,
			Participants:    []string{"charlotte@mergington.edu", "henry@mergington.edu"},
			Category:        "Academic",
			CreatedDate:     "2024-02-15",
		},
		"GitHub Skills": {
			Description:     "Learn practical coding and collaboration skills through GitHub's interactive courses",
			Schedule:        "Thursdays, 4:30 PM - 5:30 PM",
			MaxParticipants: 25,
			Participants:    []string{},
			Category:        "Academic",
			CreatedDate:     "2024-02-15",
		},
	}
}

// LoadSeed reads a name -> descriptor JSON document from source. An empty
// source selects DefaultActivities. Any failure wraps ErrStartup.
func LoadSeed(ctx context.Context, source string, opener storage.Opener) (map[string]Activity, error) {
	if source == "" {
		return DefaultActivities(), nil
	}

	rc, err := opener.Open(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStartup, err)
	}
	defer rc.Close()

	var seed map[string]Activity
	if err := json.NewDecoder(rc).Decode(&seed); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrStartup, source, err)
	}
	if len(seed) == 0 {
		return nil, fmt.Errorf("%w: %s defines no activities", ErrStartup, source)
	}

	if err := ValidateSeed(seed); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrStartup, source, err)
	}

	for name, a := range seed {
		if a.Participants == nil {
			a.Participants = []string{}
			seed[name] = a
		}
	}
	return seed, nil
}

// ValidateSeed validates every descriptor, reporting the first failure in
// name order
func ValidateSeed(seed map[string]Activity) error {
	names := make([]string, 0, len(seed))
	for name := range seed {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if name == "" {
			return fmt.Errorf("activity with empty name")
		}
		if err := seed[name].Validate(); err != nil {
			return fmt.Errorf("activity %q: %w", name, err)
		}
	}
	return nil
}

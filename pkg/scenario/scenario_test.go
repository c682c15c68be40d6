package scenario

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltin_B2(t *testing.T) {
	r, err := Builtin()
	require.NoError(t, err)

	s, err := r.Get(DefaultID)
	require.NoError(t, err)

	assert.Equal(t, "B2: The Keep on the Borderlands", s.Name)
	assert.Equal(t, "Main Gate", s.StartLocation)
	assert.Equal(t, []string{
		"Main Gate", "Entry Yard", "Traveler's Inn", "The Tavern",
		"Caves of Chaos", "Kobold Lair", "Orc Lair", "Goblin Lair",
	}, s.LocationNames())
	assert.Len(t, s.Rumors, 5)
	assert.Equal(t, "1 in 6 every 3 turns", s.WanderingMonsters.Roll)
	assert.Equal(t, "Kobolds (2d4), Orcs (1d6), Goblins (2d4), Giant Rats (3d6), Skeletons (1d6), Zombies (1d4)", s.WanderingTable())
	assert.Contains(t, s.Encounters, "Ogre (HP 25, AC 4)")
}

func TestScenario_Describe(t *testing.T) {
	s := &Scenario{
		ID:            "t",
		Name:          "Test",
		StartLocation: "Hall",
		Locations:     []Location{{Name: "Hall", Description: "A long hall."}, {Name: "Pit"}},
	}

	assert.Equal(t, "A long hall.", s.Describe("Hall"))
	assert.Equal(t, "Unknown area", s.Describe("Pit"))
	assert.Equal(t, "Unknown area", s.Describe("Nowhere"))
}

func TestScenario_Validate(t *testing.T) {
	tests := []struct {
		name    string
		s       Scenario
		wantErr bool
	}{
		{"ok", Scenario{ID: "a", Name: "A", StartLocation: "X", Locations: []Location{{Name: "X"}}}, false},
		{"missing id", Scenario{Name: "A", StartLocation: "X", Locations: []Location{{Name: "X"}}}, true},
		{"missing name", Scenario{ID: "a", StartLocation: "X", Locations: []Location{{Name: "X"}}}, true},
		{"missing start", Scenario{ID: "a", Name: "A", Locations: []Location{{Name: "X"}}}, true},
		{"unknown start", Scenario{ID: "a", Name: "A", StartLocation: "Y", Locations: []Location{{Name: "X"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestScenario_Messages(t *testing.T) {
	s := &Scenario{Name: "B2: The Keep on the Borderlands"}

	want := "--- AD&D 1E OS v4.2 ---\nBOOT SEQUENCE COMPLETE.\nMODULE: B2: THE KEEP ON THE BORDERLANDS\n" +
		"RULES: ADVANCED 1ST ED PROTOCOLS.\nMORALE: ENABLED (2d6 CHECK).\nPERMADEATH: ENABLED.\n\n" +
		"COMMAND: 'G' TO GENERATE PARTY."
	assert.Equal(t, want, s.BootMessage())
	assert.Equal(t, want+"\n\nPRESS 'G' TO GENERATE A NEW PARTY.", s.WelcomeMessage())
	assert.Equal(t, "\nINITIALIZING MODULE B2: THE KEEP ON THE BORDERLANDS...\nENVIRONMENTAL SENSORS ONLINE.", s.Banner())
}

func TestRegistry_LoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"mods/x1.json":      {Data: []byte(`{"id":"x1","name":"X1: Isle","start_location":"Beach","locations":[{"name":"Beach"}]}`)},
		"mods/broken.json":  {Data: []byte(`{not json`)},
		"mods/nostart.json": {Data: []byte(`{"id":"x2","name":"X2"}`)},
		"mods/readme.txt":   {Data: []byte(`ignored`)},
	}

	r := NewRegistry()
	require.NoError(t, r.LoadFS(fsys, "mods", nil))

	assert.Equal(t, []string{"x1"}, r.IDs())
	assert.Equal(t, map[string]string{"x1": "X1: Isle"}, r.List())

	_, err := r.Get("x2")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegistry_LoadFSMissingDir(t *testing.T) {
	r := NewRegistry()
	err := r.LoadFS(fstest.MapFS{}, "nope", nil)
	assert.Error(t, err)
}

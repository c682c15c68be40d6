package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validModule = `{
  "id": "caves",
  "name": "Caves of Chaos",
  "hook": "A ravine full of cave mouths.",
  "start_location": "Ravine",
  "locations": [{"name": "Ravine"}, {"name": "Kobold Lair"}],
  "wandering_monsters": {"roll": "1 in 6", "table": [{"name": "Kobolds", "num": "2d4"}]}
}`

func writeModule(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		body    string
		wantErr string
	}{
		{name: "valid", file: "caves.json", body: validModule},
		{name: "wrong extension", file: "caves.yaml", body: validModule, wantErr: ".json extension"},
		{name: "bad filename", file: "Caves-Of-Chaos.json", body: validModule, wantErr: "snake_case"},
		{name: "invalid json", file: "caves.json", body: `{"id":`, wantErr: "invalid JSON"},
		{
			name:    "unknown field",
			file:    "caves.json",
			body:    `{"id": "caves", "name": "Caves", "start_location": "Ravine", "locations": [{"name": "Ravine"}], "npcs": {}}`,
			wantErr: "unknown field",
		},
		{name: "id mismatch", file: "b3.json", body: validModule, wantErr: "does not match filename"},
		{
			name:    "unknown start location",
			file:    "caves.json",
			body:    `{"id": "caves", "name": "Caves", "hook": "x", "start_location": "Nowhere", "locations": [{"name": "Ravine"}]}`,
			wantErr: "not a known location",
		},
		{
			name:    "duplicate location",
			file:    "caves.json",
			body:    `{"id": "caves", "name": "Caves", "hook": "x", "start_location": "Ravine", "locations": [{"name": "Ravine"}, {"name": "ravine"}]}`,
			wantErr: "more than once",
		},
		{
			name: "bad monster count",
			file: "caves.json",
			body: `{"id": "caves", "name": "Caves", "hook": "x", "start_location": "Ravine", "locations": [{"name": "Ravine"}],
			        "wandering_monsters": {"roll": "1 in 6", "table": [{"name": "Orcs", "num": "lots"}]}}`,
			wantErr: "invalid num 'lots'",
		},
		{
			name:    "missing hook",
			file:    "caves.json",
			body:    `{"id": "caves", "name": "Caves", "start_location": "Ravine", "locations": [{"name": "Ravine"}]}`,
			wantErr: "hook is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFile(writeModule(t, tt.file, tt.body))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateFile_BuiltinModule(t *testing.T) {
	assert.NoError(t, validateFile(filepath.Join("..", "..", "pkg", "scenario", "data", "b2.json")))
}

func TestValidateFile_Missing(t *testing.T) {
	err := validateFile(filepath.Join(t.TempDir(), "gone.json"))
	assert.ErrorContains(t, err, "failed to read file")
}

func TestDiceExpressions(t *testing.T) {
	for _, ok := range []string{"2d4", "d6", "1d20", "3", "10d10"} {
		assert.True(t, diceExprRegex.MatchString(ok), ok)
	}
	for _, bad := range []string{"", "0d6", "2d0", "d", "2x4", "2d4+1"} {
		assert.False(t, diceExprRegex.MatchString(bad), bad)
	}
}

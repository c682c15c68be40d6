package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jwebster45206/keep-terminal/pkg/scenario"
)

var rootCmd = &cobra.Command{
	Use:   "keep-validate <module.json>...",
	Short: "Check adventure module files before adding them to SCENARIO_DIR",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, filename := range args {
			cmd.Printf("Validating %s...\n", filename)
			if err := validateFile(filename); err != nil {
				cmd.PrintErrf("Validation failed: %v\n", err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d module files invalid", failed, len(args))
		}
		cmd.Println("Module files are valid!")
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// ModuleValidator collects every problem in a module rather than stopping at
// the first.
type ModuleValidator struct {
	errors []string
}

func validateFile(filename string) error {
	baseName := filepath.Base(filename)
	if !strings.HasSuffix(baseName, ".json") {
		return fmt.Errorf("module file must have .json extension: %s", baseName)
	}
	stem := strings.TrimSuffix(baseName, ".json")
	if !validIDRegex.MatchString(stem) {
		return fmt.Errorf("module filename '%s' must be lowercase snake_case (e.g., b2.json, caves_of_chaos.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	s, err := decodeStrict(data)
	if err != nil {
		return fmt.Errorf("file %s: %w", filename, err)
	}

	v := &ModuleValidator{}
	v.validateModule(s, stem)
	if len(v.errors) > 0 {
		return fmt.Errorf("validation errors in %s:\n%s", filename, strings.Join(v.errors, "\n"))
	}
	return nil
}

// decodeStrict rejects unknown fields, which the server's loader would
// silently drop.
func decodeStrict(data []byte) (*scenario.Scenario, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	var s scenario.Scenario
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed strict JSON unmarshaling: %w", err)
	}
	return &s, nil
}

func (v *ModuleValidator) validateModule(s *scenario.Scenario, stem string) {
	if err := s.Validate(); err != nil {
		v.addError(err.Error())
	}

	if s.ID != "" {
		if !validIDRegex.MatchString(s.ID) {
			v.addError(fmt.Sprintf("id '%s' should be lowercase snake_case", s.ID))
		}
		if s.ID != stem {
			v.addError(fmt.Sprintf("id '%s' does not match filename '%s.json'", s.ID, stem))
		}
	}
	if strings.TrimSpace(s.Hook) == "" {
		v.addError("hook is empty; the narrator has nothing to open with")
	}

	seen := make(map[string]bool, len(s.Locations))
	for i, loc := range s.Locations {
		name := strings.TrimSpace(loc.Name)
		if name == "" {
			v.addError(fmt.Sprintf("location %d has no name", i))
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			v.addError(fmt.Sprintf("location '%s' is listed more than once", name))
		}
		seen[key] = true
	}

	for i, m := range s.WanderingMonsters.Table {
		if strings.TrimSpace(m.Name) == "" {
			v.addError(fmt.Sprintf("wandering monster %d has no name", i))
		}
		if !diceExprRegex.MatchString(m.Num) {
			v.addError(fmt.Sprintf("wandering monster '%s' has invalid num '%s' - expected a dice expression like 2d4", m.Name, m.Num))
		}
	}
	if len(s.WanderingMonsters.Table) > 0 && s.WanderingMonsters.Roll == "" {
		v.addError("wandering monster table has no roll frequency")
	}
}

func (v *ModuleValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var (
	validIDRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)
	diceExprRegex = regexp.MustCompile(`^([1-9][0-9]*)?d[1-9][0-9]*$|^[1-9][0-9]*$`)
)

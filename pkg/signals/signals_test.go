package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectCombatStart(t *testing.T) {
	k := NewKeywordExtractor(nil, nil)

	tests := []struct {
		text string
		want bool
	}{
		{"Roll for INITIATIVE!", true},
		{"The kobold attacks Thorin.", true},
		{"A random encounter: three goblins.", true},
		{"The yard is quiet. COMMAND?", false},
		{"", false},
		// mid-word matches do not count
		{"He counterattacks.", false},
	}

	for _, tt := range tests {
		if got := k.DetectCombatStart(tt.text); got != tt.want {
			t.Errorf("DetectCombatStart(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestDetectCombatEnd(t *testing.T) {
	k := NewKeywordExtractor(nil, nil)

	tests := []struct {
		text string
		want bool
	}{
		{"The orcs flee into the dark.", true},
		{"Fleeing, the goblin drops its spear.", true},
		{"The kobolds RETREAT.", true},
		{"Victory! 40 XP each.", true},
		{"All monsters are dead.", true},
		{"The leader throws down his axe in surrender.", true},
		{"Combat ends as the last rat falls.", true},
		{"The orc swings again.", false},
		{"He refleeced the sheep.", false},
	}

	for _, tt := range tests {
		if got := k.DetectCombatEnd(tt.text); got != tt.want {
			t.Errorf("DetectCombatEnd(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestCustomPhrases(t *testing.T) {
	k := NewKeywordExtractor([]string{"steel is drawn", "  "}, []string{"peace returns"})

	assert.True(t, k.DetectCombatStart("Steel is drawn on both sides."))
	assert.False(t, k.DetectCombatStart("Roll initiative."), "defaults replaced")
	assert.True(t, k.DetectCombatEnd("Peace returns to the keep."))
	assert.False(t, k.DetectCombatEnd("The orcs flee."))

	empty := NewKeywordExtractor([]string{}, []string{})
	assert.False(t, empty.DetectCombatStart("initiative attacks encounter"))
}

func TestPhrasesAreQuoted(t *testing.T) {
	k := NewKeywordExtractor([]string{"a.b"}, nil)
	assert.True(t, k.DetectCombatStart("a.b"))
	assert.False(t, k.DetectCombatStart("axb"))
}

func TestExtractXP(t *testing.T) {
	k := NewKeywordExtractor(nil, nil)

	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"You gain 50 XP.", 50, true},
		{"Award: 120xp to each survivor", 120, true},
		{"1,250 XP for the chieftain's hoard", 1250, true},
		{"15 XP now, 30 XP later", 15, true},
		{"No experience this time.", 0, false},
		{"0 XP", 0, false},
		{"XP 50", 0, false},
	}

	for _, tt := range tests {
		got, ok := k.ExtractXP(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExtractXP(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestExtractLocation(t *testing.T) {
	k := NewKeywordExtractor(nil, nil)
	known := []string{"Main Gate", "Entry Yard", "Caves of Chaos", "Kobold Lair"}

	loc, ok := k.ExtractLocation("You leave the keep and reach the CAVES OF CHAOS.", known)
	assert.True(t, ok)
	assert.Equal(t, "Caves of Chaos", loc)

	loc, ok = k.ExtractLocation("From the kobold lair you glimpse the caves of chaos.", known)
	assert.True(t, ok)
	assert.Equal(t, "Caves of Chaos", loc, "first match in list order wins")

	_, ok = k.ExtractLocation("A dark forest.", known)
	assert.False(t, ok)

	_, ok = k.ExtractLocation("main gate", nil)
	assert.False(t, ok)
}

func TestKeywordExtractorSatisfiesExtractor(t *testing.T) {
	var _ Extractor = NewKeywordExtractor(nil, nil)
}

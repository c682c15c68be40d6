package actor

import "github.com/jwebster45206/keep-terminal/pkg/dice"

// AwardXP adds amount to every member's XP and returns the updated party.
// The input slice is not modified.
//
// A member whose new total meets the threshold for their current level gains
// exactly one level, even when the award crosses several thresholds. The
// level-up rolls one hit die and adds it to both HP and MaxHP, so missing HP
// is preserved. Non-positive awards change nothing.
func AwardXP(party []Character, amount int, roller dice.Roller) []Character {
	out := make([]Character, len(party))
	for i, c := range party {
		out[i] = c.Clone()
	}
	if amount <= 0 {
		return out
	}

	for i := range out {
		c := &out[i]
		c.XP += amount
		if c.XP >= XPThreshold(c.Class, c.Level) {
			bonus := roller.Roll(HitDie(c.Class), 1)
			c.Level++
			c.HP += bonus
			c.MaxHP += bonus
		}
	}
	return out
}

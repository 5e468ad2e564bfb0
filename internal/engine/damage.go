package engine

import "math"

// Element effectiveness. The cycle fire > grass > water > fire plus
// electric > water gets a 2x multiplier; the reverse direction, an element
// attacking itself, and electric into grass are resisted at 0.5x. Normal is
// neutral both ways. Pairs not listed resolve to 1.0.
var effectiveness = map[Element]map[Element]float64{
	Fire:     {Grass: 2.0, Water: 0.5, Fire: 0.5},
	Water:    {Fire: 2.0, Grass: 0.5, Water: 0.5},
	Grass:    {Water: 2.0, Fire: 0.5, Grass: 0.5},
	Electric: {Water: 2.0, Grass: 0.5, Electric: 0.5},
}

func multiplier(attacker, defender Element) float64 {
	if m, ok := effectiveness[attacker][defender]; ok {
		return m
	}
	return 1.0
}

// Damage maps base attack power through the element matchup, rounding half
// away from zero to an integer.
func Damage(basePower int, attacker, defender Element) int {
	return int(math.Round(float64(basePower) * multiplier(attacker, defender)))
}

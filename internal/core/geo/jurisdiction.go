package geo

import (
	"fmt"
	"strings"
)

// Level is the jurisdiction tag
type Level string

// Jurisdiction levels; the empty Level means "any" when used as a filter
const (
	LevelFederal Level = "federal"
	LevelState   Level = "state"
	LevelLocal   Level = "local"
)

// ParseLevel accepts a level name in any case; unknown input yields ok=false
func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelFederal:
		return LevelFederal, true
	case LevelState:
		return LevelState, true
	case LevelLocal:
		return LevelLocal, true
	}
	return "", false
}

// Jurisdiction is the derived federal, state, or local classification of a listing
// StateCode is set for state and local, CitySlug only for local
type Jurisdiction struct {
	Level     Level  `json:"level"`
	StateCode string `json:"stateCode,omitempty"`
	CitySlug  string `json:"citySlug,omitempty"`
}

// Federal is the nationwide variant
func Federal() Jurisdiction { return Jurisdiction{Level: LevelFederal} }

// StateLevel is the statewide variant
func StateLevel(code string) Jurisdiction {
	return Jurisdiction{Level: LevelState, StateCode: code}
}

// Local is the city variant
func Local(code, citySlug string) Jurisdiction {
	return Jurisdiction{Level: LevelLocal, StateCode: code, CitySlug: citySlug}
}

// String renders a compact debug form
func (j Jurisdiction) String() string {
	switch j.Level {
	case LevelState:
		return fmt.Sprintf("state(%s)", j.StateCode)
	case LevelLocal:
		return fmt.Sprintf("local(%s/%s)", j.StateCode, j.CitySlug)
	default:
		return string(LevelFederal)
	}
}

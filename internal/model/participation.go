// Package model defines the core meeting-schedule data types.
package model

import (
	"fmt"
	"strings"
)

// ParticipationType classifies a participation record.
type ParticipationType string

const (
	President           ParticipationType = "PRESIDENT"
	OpeningPrayer       ParticipationType = "OPENING_PRAYER"
	ClosingPrayer       ParticipationType = "CLOSING_PRAYER"
	Song                ParticipationType = "SONG"
	Treasures           ParticipationType = "TREASURES"
	Ministry            ParticipationType = "MINISTRY"
	ChristianLife       ParticipationType = "CHRISTIAN_LIFE"
	BibleStudyConductor ParticipationType = "BIBLE_STUDY_CONDUCTOR"
	BibleStudyReader    ParticipationType = "BIBLE_STUDY_READER"
	Helper              ParticipationType = "HELPER"
	FinalComments       ParticipationType = "FINAL_COMMENTS"
)

// ValidTypes are the allowed participation types.
var ValidTypes = map[ParticipationType]bool{
	President:           true,
	OpeningPrayer:       true,
	ClosingPrayer:       true,
	Song:                true,
	Treasures:           true,
	Ministry:            true,
	ChristianLife:       true,
	BibleStudyConductor: true,
	BibleStudyReader:    true,
	Helper:              true,
	FinalComments:       true,
}

// ParseType parses a type name case-insensitively.
func ParseType(s string) (ParticipationType, error) {
	t := ParticipationType(strings.ToUpper(strings.TrimSpace(s)))
	if !ValidTypes[t] {
		return "", fmt.Errorf("unknown participation type %q", s)
	}
	return t, nil
}

// IsSatellite reports whether records of this type are rendered merged into a principal.
func (t ParticipationType) IsSatellite() bool {
	return t == Helper || t == BibleStudyReader
}

// Canonical titles for records the parser synthesizes.
const (
	TitlePresident       = "Presidente"
	TitleOpeningPrayer   = "Oração Inicial"
	TitleClosingPrayer   = "Oração Final"
	TitleFinalComments   = "Comentários Finais"
	TitleInitialComments = "Comentários Iniciais"
	TitleCounseling      = "Aconselhamento"
	TitleHelper          = "Ajudante"
	TitleReader          = "Leitor do EBC"
	TitleBibleStudy      = "Estudo bíblico de congregação"
)

// Participation is one assignment of a publisher to an agenda item in a given week.
type Participation struct {
	ID            string            `json:"id"`
	Week          string            `json:"week"`
	Date          string            `json:"date"`
	PartTitle     string            `json:"part_title"`
	Type          ParticipationType `json:"type"`
	PublisherName string            `json:"publisher_name"`
	Order         float64           `json:"order"`
	Duration      *int              `json:"duration,omitempty"`
	PartNumber    *int              `json:"part_number,omitempty"`
}

// HistoricalWeek is one week recovered from a historical schedule document.
type HistoricalWeek struct {
	Week           string                `json:"week"`
	Participations []ParsedParticipation `json:"participations"`
}

// ParsedParticipation is a record as extracted by the parser, before import.
type ParsedParticipation struct {
	PartTitle     string  `json:"part_title"`
	PublisherName string  `json:"publisher_name"`
	Order         float64 `json:"order"`
	PartNumber    *int    `json:"part_number,omitempty"`
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}

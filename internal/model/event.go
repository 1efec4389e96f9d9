package model

import (
	"fmt"
	"strings"
)

// ImpactAction is what a special event does to the normal agenda.
type ImpactAction string

const (
	AddPart        ImpactAction = "ADD_PART"
	ReplacePart    ImpactAction = "REPLACE_PART"
	ReplaceSection ImpactAction = "REPLACE_SECTION"
)

// ParseAction parses an impact action name.
func ParseAction(s string) (ImpactAction, error) {
	a := ImpactAction(strings.ToUpper(strings.TrimSpace(s)))
	switch a {
	case AddPart, ReplacePart, ReplaceSection:
		return a, nil
	}
	return "", fmt.Errorf("unknown impact action %q", s)
}

// Impact describes the agenda change a template applies.
type Impact struct {
	Action      ImpactAction        `json:"action" yaml:"action"`
	TargetTypes []ParticipationType `json:"target_types,omitempty" yaml:"target_types,omitempty"`
}

// EventTemplate is a reusable description of a special event kind.
type EventTemplate struct {
	ID     string `json:"id" yaml:"id"`
	Name   string `json:"name" yaml:"name"`
	Impact Impact `json:"impact" yaml:"impact"`
}

// TimeReduction shortens the first part of TargetType by Minutes.
type TimeReduction struct {
	TargetType ParticipationType `json:"target_type" yaml:"target_type"`
	Minutes    int               `json:"minutes" yaml:"minutes"`
}

// SpecialEvent overrides the agenda of one week.
type SpecialEvent struct {
	ID            string         `json:"id" yaml:"id"`
	Week          string         `json:"week" yaml:"week"`
	TemplateID    string         `json:"template_id" yaml:"template_id"`
	Theme         string         `json:"theme" yaml:"theme"`
	AssignedTo    string         `json:"assigned_to" yaml:"assigned_to"`
	Duration      *int           `json:"duration,omitempty" yaml:"duration,omitempty"`
	TimeReduction *TimeReduction `json:"time_reduction,omitempty" yaml:"time_reduction,omitempty"`
}

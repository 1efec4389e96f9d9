package model

import "slices"

// Age groups used by the pairing rule.
const (
	AgeAdult = "Adulto"
	AgeYouth = "Jovem"
	AgeChild = "Criança"
)

// Availability modes.
const (
	AvailableAlways = "always"
	AvailableNever  = "never"
)

// Availability describes when a publisher can receive assignments.
// In "always" mode ExceptionDates are the days they cannot; in "never" mode
// they are the only days they can.
type Availability struct {
	Mode           string   `json:"mode" yaml:"mode"`
	ExceptionDates []string `json:"exception_dates,omitempty" yaml:"exception_dates,omitempty"`
}

// Publisher is a person who can be assigned to parts.
type Publisher struct {
	ID                   string       `json:"id" yaml:"id"`
	Name                 string       `json:"name" yaml:"name"`
	Aliases              []string     `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	AgeGroup             string       `json:"age_group" yaml:"age_group"`
	ParentIDs            []string     `json:"parent_ids,omitempty" yaml:"parent_ids,omitempty"`
	CanPairWithNonParent bool         `json:"can_pair_with_non_parent" yaml:"can_pair_with_non_parent"`
	IsServing            *bool        `json:"is_serving,omitempty" yaml:"is_serving,omitempty"`
	Availability         Availability `json:"availability" yaml:"availability"`
	Phone                string       `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// Active reports whether the publisher is currently serving. Unset means yes.
func (p Publisher) Active() bool {
	return p.IsServing == nil || *p.IsServing
}

// AvailableOn reports whether the publisher can take a part on date (YYYY-MM-DD).
func (p Publisher) AvailableOn(date string) bool {
	if !p.Active() {
		return false
	}
	listed := slices.Contains(p.Availability.ExceptionDates, date)
	if p.Availability.Mode == AvailableNever {
		return listed
	}
	return !listed
}

// ValidationResult is the outcome of a pairing check.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidatePairing applies the helper safety rules. Children may only be
// paired with a parent, or with an adult when non-parent pairing is allowed.
// Any pairing is valid for adults and youth.
func ValidatePairing(student, helper Publisher) ValidationResult {
	if student.AgeGroup != AgeChild {
		return ValidationResult{Valid: true}
	}
	if slices.Contains(student.ParentIDs, helper.ID) {
		return ValidationResult{Valid: true}
	}
	isAdult := helper.AgeGroup == AgeAdult
	if student.CanPairWithNonParent && isAdult {
		return ValidationResult{Valid: true}
	}
	if !student.CanPairWithNonParent {
		return ValidationResult{Reason: "Crianças só podem ter um dos pais como ajudante. Autorização para terceiros não concedida."}
	}
	return ValidationResult{Reason: "O ajudante de uma criança deve ser um adulto."}
}

// Directory resolves raw names to registered publishers by normalized name or alias.
type Directory map[string]Publisher

// NewDirectory indexes publishers by normalized name and aliases.
func NewDirectory(publishers []Publisher) Directory {
	d := make(Directory, len(publishers))
	for _, p := range publishers {
		d[NormalizeName(p.Name)] = p
		for _, a := range p.Aliases {
			d[NormalizeName(a)] = p
		}
	}
	return d
}

// Lookup finds the publisher for a raw name.
func (d Directory) Lookup(name string) (Publisher, bool) {
	p, ok := d[NormalizeName(name)]
	return p, ok
}

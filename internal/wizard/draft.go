package wizard

import (
	"strings"

	"grievanceportal/backend/internal/models"
)

// State is the wizard position.
type State string

const (
	StateCollectingBasics  State = "collecting_basics"
	StateCollectingDetails State = "collecting_details"
	StateSubmitted         State = "submitted"
	StateCancelled         State = "cancelled"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateSubmitted || s == StateCancelled
}

func (s State) valid() bool {
	switch s {
	case StateCollectingBasics, StateCollectingDetails, StateSubmitted, StateCancelled:
		return true
	}
	return false
}

// Draft is the grievance being composed. Pipelines never modify a Draft in
// place; every transition produces a new value.
type Draft struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    models.Category   `json:"category"`
	SubCategory string            `json:"sub_category"`
	Details     map[string]string `json:"details"`
}

func (d Draft) clone() Draft {
	details := make(map[string]string, len(d.Details))
	for k, v := range d.Details {
		details[k] = v
	}
	d.Details = details
	return d
}

func (d Draft) withTitle(title string) Draft {
	d = d.clone()
	d.Title = title
	return d
}

func (d Draft) withDescription(description string) Draft {
	d = d.clone()
	d.Description = description
	return d
}

func (d Draft) withCategory(c models.Category) Draft {
	d.Category = c
	d.SubCategory = ""
	d.Details = map[string]string{}
	return d
}

func (d Draft) withSubCategory(sub string) Draft {
	d.SubCategory = sub
	d.Details = map[string]string{}
	return d
}

func (d Draft) withoutDetails() Draft {
	d.Details = map[string]string{}
	return d
}

func (d Draft) withDetail(key, value string) Draft {
	d = d.clone()
	d.Details[key] = value
	return d
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

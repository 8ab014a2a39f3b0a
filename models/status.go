package models

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// FindingStatus is the closed set of states in the human-approval lifecycle.
type FindingStatus string

const (
	StatusPending   FindingStatus = "Pending"
	StatusApproved  FindingStatus = "Approved"
	StatusRejected  FindingStatus = "Rejected"
	StatusSubmitted FindingStatus = "Submitted"
	StatusPaid      FindingStatus = "Paid"
)

// Statuses lists all valid finding statuses.
var Statuses = []FindingStatus{
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusSubmitted,
	StatusPaid,
}

// transitions is the full set of legal lifecycle edges. Any
// (from, to) pair not present here is rejected by CanTransition.
var transitions = map[FindingStatus][]FindingStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusSubmitted},
	StatusRejected:  {},
	StatusSubmitted: {StatusPaid},
	StatusPaid:      {},
}

// ParseStatus matches the input against the closed enumeration,
// case-insensitively.
func ParseStatus(s string) (FindingStatus, error) {
	for _, st := range Statuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (valid: %s)", s, joinStatuses())
}

func joinStatuses() string {
	parts := make([]string, len(Statuses))
	for i, s := range Statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Validate returns an error if the status is not one of the closed set.
func (s FindingStatus) Validate() error {
	_, err := ParseStatus(string(s))
	return err
}

// CanTransition reports whether the edge s -> target is legal.
func (s FindingStatus) CanTransition(target FindingStatus) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// ValidTargets returns the states reachable from s in a single transition.
// Empty for terminal states.
func (s FindingStatus) ValidTargets() []FindingStatus {
	return transitions[s]
}

// Terminal reports whether no further transitions are permitted.
func (s FindingStatus) Terminal() bool {
	return len(transitions[s]) == 0
}

// Colored renders the status with a terminal color hinting at its meaning.
func (s FindingStatus) Colored() string {
	switch s {
	case StatusPending:
		return color.YellowString(string(s))
	case StatusApproved, StatusPaid:
		return color.GreenString(string(s))
	case StatusRejected:
		return color.RedString(string(s))
	case StatusSubmitted:
		return color.CyanString(string(s))
	default:
		return string(s)
	}
}

package model

import "time"

// State is the persisted bot state: signals bucketed by calendar day plus
// one last-completed period key per scheduled task.
type State struct {
	Signals   map[string][]Signal `json:"signals"`
	Markers   map[string]string   `json:"markers"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// NewState returns an empty state with initialized maps.
func NewState() *State {
	return &State{
		Signals: make(map[string][]Signal),
		Markers: make(map[string]string),
	}
}

package dispatch

import (
	"errors"
	"strings"
)

const (
	WeatherAgent   = "Weather Agent"
	CarManualAgent = "Car Manual Agent"

	separator = "|"
)

// ErrMalformed marks a classification without the separator.
var ErrMalformed = errors.New("dispatch: classification has no separator")

// Target is the responder a decision selects.
type Target int

const (
	TargetNone Target = iota
	TargetWeather
	TargetKnowledge
)

func (t Target) String() string {
	switch t {
	case TargetWeather:
		return "weather"
	case TargetKnowledge:
		return "knowledge"
	default:
		return "none"
	}
}

// Decision is the parsed classification: the named responder and the query
// forwarded to it.
type Decision struct {
	Target Target
	Name   string
	Query  string
}

// ParseDecision splits "<responder>|<query>" on the first separator and
// trims both halves. Responder names match exactly, case included.
func ParseDecision(out string) (Decision, error) {
	name, query, ok := strings.Cut(out, separator)
	if !ok {
		return Decision{}, ErrMalformed
	}
	d := Decision{
		Name:  strings.TrimSpace(name),
		Query: strings.TrimSpace(query),
	}
	switch d.Name {
	case WeatherAgent:
		d.Target = TargetWeather
	case CarManualAgent:
		d.Target = TargetKnowledge
	}
	return d, nil
}

// Package cost scores pedal changes. Every function takes the weights
// explicitly; nothing in this package reads global configuration.
package cost

import (
	"fmt"
	"strconv"
	"strings"
)

// Weights configures the cost model.
type Weights struct {
	// PedalCost is charged for every pedal that moves.
	PedalCost uint `yaml:"pedal_cost" json:"pedal_cost"`
	// DoubleChangeCost is charged per extra pedal when one foot moves more
	// than one pedal on a beat. Only relaxed searches allow that.
	DoubleChangeCost uint `yaml:"double_change_cost" json:"double_change_cost"`
	// DoubleStringCost is charged per beat for each doubled string (E♯ and F).
	DoubleStringCost uint `yaml:"double_string_cost" json:"double_string_cost"`
	// CrossStringCost is charged per beat for each crossed pair (E♯ and F♭).
	CrossStringCost uint `yaml:"cross_string_cost" json:"cross_string_cost"`
	// EarlyChangeCost is charged when a pedal moves before it is needed.
	EarlyChangeCost uint `yaml:"early_change_cost" json:"early_change_cost"`
	// QuickChangeCost is the surcharge for moving a foot again right after it moved.
	QuickChangeCost uint `yaml:"quick_change_cost" json:"quick_change_cost"`
	// QuickChangeDecay is how much the surcharge shrinks on every idle beat.
	QuickChangeDecay uint `yaml:"quick_change_decay" json:"quick_change_decay"`
	// PedalDistanceCost scales the surcharge by how far the foot travels.
	PedalDistanceCost uint `yaml:"pedal_distance_cost" json:"pedal_distance_cost"`
	// ForgetAfter is the number of idle beats after which a foot forgets its
	// last change. Zero leaves forgetting to the decay alone.
	ForgetAfter uint `yaml:"forget_after" json:"forget_after"`
}

// Default weights.
const (
	DefaultPedalCost         = 1000
	DefaultDoubleChangeCost  = 400
	DefaultDoubleStringCost  = 100
	DefaultCrossStringCost   = 1200
	DefaultEarlyChangeCost   = 300
	DefaultQuickChangeCost   = 30
	DefaultQuickChangeDecay  = 10
	DefaultPedalDistanceCost = 1
	DefaultForgetAfter       = 4
)

// DefaultWeights returns the standard tuning.
func DefaultWeights() Weights {
	return Weights{
		PedalCost:         DefaultPedalCost,
		DoubleChangeCost:  DefaultDoubleChangeCost,
		DoubleStringCost:  DefaultDoubleStringCost,
		CrossStringCost:   DefaultCrossStringCost,
		EarlyChangeCost:   DefaultEarlyChangeCost,
		QuickChangeCost:   DefaultQuickChangeCost,
		QuickChangeDecay:  DefaultQuickChangeDecay,
		PedalDistanceCost: DefaultPedalDistanceCost,
		ForgetAfter:       DefaultForgetAfter,
	}
}

// Validate rejects weights under which a foot would never forget a change.
func (w Weights) Validate() error {
	if w.QuickChangeCost > 0 && w.QuickChangeDecay == 0 && w.ForgetAfter == 0 {
		return fmt.Errorf("cost: quick_change_decay or forget_after must be positive when quick_change_cost is set")
	}
	return nil
}

// Set assigns a weight by its configuration key.
func (w *Weights) Set(key, value string) error {
	field := w.field(strings.TrimSpace(key))
	if field == nil {
		return fmt.Errorf("cost: unknown weight %q", key)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 0)
	if err != nil {
		return fmt.Errorf("cost: %s: %w", key, err)
	}
	*field = uint(n)
	return nil
}

// Get reads a weight by its configuration key.
func (w Weights) Get(key string) (uint, error) {
	field := w.field(strings.TrimSpace(key))
	if field == nil {
		return 0, fmt.Errorf("cost: unknown weight %q", key)
	}
	return *field, nil
}

// Keys lists the configuration keys accepted by Set.
func Keys() []string {
	return []string{
		"pedal_cost",
		"double_change_cost",
		"double_string_cost",
		"cross_string_cost",
		"early_change_cost",
		"quick_change_cost",
		"quick_change_decay",
		"pedal_distance_cost",
		"forget_after",
	}
}

func (w *Weights) field(key string) *uint {
	switch strings.ReplaceAll(strings.ToLower(key), "-", "_") {
	case "pedal_cost":
		return &w.PedalCost
	case "double_change_cost":
		return &w.DoubleChangeCost
	case "double_string_cost":
		return &w.DoubleStringCost
	case "cross_string_cost":
		return &w.CrossStringCost
	case "early_change_cost":
		return &w.EarlyChangeCost
	case "quick_change_cost":
		return &w.QuickChangeCost
	case "quick_change_decay":
		return &w.QuickChangeDecay
	case "pedal_distance_cost":
		return &w.PedalDistanceCost
	case "forget_after":
		return &w.ForgetAfter
	}
	return nil
}

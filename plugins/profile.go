package plugins

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/kingrea/harpist/internal/cost"
)

// Profile is a named set of cost weight overrides loaded from
// .harpist/profiles/. Keys not listed keep the value of the weights the
// profile is applied to. A profile that extends another is applied on top
// of its parent.
type Profile struct {
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Extends     string          `json:"extends,omitempty" yaml:"extends,omitempty"`
	Weights     map[string]uint `json:"weights" yaml:"weights"`
}

// Normalized returns a trimmed copy with weight keys in canonical form.
func (p Profile) Normalized() Profile {
	clone := Profile{
		Name:        strings.TrimSpace(p.Name),
		Description: strings.TrimSpace(p.Description),
		Extends:     strings.TrimSpace(p.Extends),
	}
	if len(p.Weights) > 0 {
		clone.Weights = make(map[string]uint, len(p.Weights))
		for key, value := range p.Weights {
			trimmed := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
			if trimmed == "" {
				continue
			}
			clone.Weights[trimmed] = value
		}
	}
	return clone
}

// Validate ensures the profile has a usable name and only known weights.
func (p Profile) Validate() error {
	normalized := p.Normalized()
	if normalized.Name == "" {
		return fmt.Errorf("profile: name is required")
	}
	if strings.ContainsAny(normalized.Name, string(os.PathSeparator)+`/\`) {
		return fmt.Errorf("profile %s: name contains path separator", normalized.Name)
	}
	if normalized.Extends == normalized.Name {
		return fmt.Errorf("profile %s: extends itself", normalized.Name)
	}
	if len(normalized.Weights) == 0 && normalized.Extends == "" {
		return fmt.Errorf("profile %s: at least one weight is required", normalized.Name)
	}
	if unknown := normalized.unknownKeys(); len(unknown) > 0 {
		return fmt.Errorf("profile %s: unknown weight(s) %s (known: %s)",
			normalized.Name, strings.Join(unknown, ", "), strings.Join(cost.Keys(), ", "))
	}
	if _, err := normalized.Apply(cost.DefaultWeights()); err != nil {
		return err
	}
	return nil
}

// Apply overlays the profile on base. The result is validated as a whole.
func (p Profile) Apply(base cost.Weights) (cost.Weights, error) {
	normalized := p.Normalized()
	w := base
	for _, key := range normalized.keys() {
		if err := w.Set(key, strconv.FormatUint(uint64(normalized.Weights[key]), 10)); err != nil {
			return base, fmt.Errorf("profile %s: %w", normalized.Name, err)
		}
	}
	if err := w.Validate(); err != nil {
		return base, fmt.Errorf("profile %s: %w", normalized.Name, err)
	}
	return w, nil
}

func (p Profile) keys() []string {
	keys := make([]string, 0, len(p.Weights))
	for key := range p.Weights {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (p Profile) unknownKeys() []string {
	known := make(map[string]bool, len(cost.Keys()))
	for _, key := range cost.Keys() {
		known[key] = true
	}
	var unknown []string
	for _, key := range p.keys() {
		if !known[key] {
			unknown = append(unknown, key)
		}
	}
	return unknown
}

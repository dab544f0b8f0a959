package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kingrea/harpist/internal/search"
)

func searchOptions(s SolverConfig) search.Options {
	return search.Options{MaxExpansions: s.MaxExpansions, MaxPaths: s.MaxPaths}
}

// Apply sets a single dotted key such as "weights.pedal_cost" or
// "solver.mode". Bare weight names are accepted as well. Changes stay in
// memory; nothing is written back.
func (c *Config) Apply(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	section, name, dotted := strings.Cut(key, ".")
	if !dotted {
		section, name = "weights", key
	}
	pc := c.Project
	var err error
	switch section {
	case "weights":
		err = pc.Weights.Set(name, value)
	case "solver":
		err = pc.Solver.set(name, value)
	case "output":
		err = pc.Output.set(name, value)
	case "profile":
		pc.Profile = value
	default:
		err = fmt.Errorf("unknown key %q", key)
	}
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	pc.normalize()
	if err := pc.validate(); err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	c.Project = pc
	return nil
}

func (s *SolverConfig) set(name, value string) error {
	switch strings.ReplaceAll(name, "-", "_") {
	case "mode":
		s.Mode = value
		return nil
	case "fallback":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("solver.fallback: %w", err)
		}
		s.Fallback = b
		return nil
	case "workers":
		return setInt(&s.Workers, "solver.workers", value)
	case "max_paths":
		return setInt(&s.MaxPaths, "solver.max_paths", value)
	case "max_expansions":
		return setInt(&s.MaxExpansions, "solver.max_expansions", value)
	case "max_spellings":
		return setInt(&s.MaxSpellings, "solver.max_spellings", value)
	}
	return fmt.Errorf("unknown key solver.%s", name)
}

func (o *OutputConfig) set(name, value string) error {
	switch name {
	case "show":
		return setInt(&o.Show, "output.show", value)
	case "lilypond":
		o.Lilypond = value
		return nil
	}
	return fmt.Errorf("unknown key output.%s", name)
}

func setInt(dst *int, key, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

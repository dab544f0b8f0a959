package plugins

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/kingrea/harpist/internal/config"
	"github.com/kingrea/harpist/internal/cost"
)

// ErrProfileNotFound is returned when a named profile is not in the
// profiles directory.
var ErrProfileNotFound = errors.New("profile not found")

// LoadProfiles discovers YAML and Go profiles under dir. Two files declaring
// the same name are rejected, as is an extends naming no loaded profile.
func LoadProfiles(dir string) ([]ProfileFile, error) {
	yamlFiles, yamlErr := LoadProfileDir(dir)
	goFiles, goErr := LoadGoProfileDir(dir)
	if err := errors.Join(yamlErr, goErr); err != nil {
		return nil, err
	}
	files := append(yamlFiles, goFiles...)
	seen := make(map[string]string, len(files))
	for _, file := range files {
		name := file.Profile.Name
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("profile: duplicate profile %s (%s and %s)", name, existing, file.Path)
		}
		seen[name] = file.Path
	}
	for _, file := range files {
		if parent := file.Profile.Extends; parent != "" {
			if _, ok := seen[parent]; !ok {
				return nil, fmt.Errorf("profile: %s: %s extends %s: %w", file.Path, file.Profile.Name, parent, ErrProfileNotFound)
			}
		}
	}
	return files, nil
}

// Lineage returns the profile called name preceded by every profile it
// extends, root first.
func Lineage(dir, name string) ([]ProfileFile, error) {
	name = strings.TrimSpace(name)
	files, err := LoadProfiles(dir)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]ProfileFile, len(files))
	for _, file := range files {
		byName[file.Profile.Name] = file
	}
	var chain []ProfileFile
	var names []string
	for next := name; next != ""; {
		if slices.Contains(names, next) {
			return nil, fmt.Errorf("profile: %s: extends cycle %s -> %s", name, strings.Join(names, " -> "), next)
		}
		file, ok := byName[next]
		if !ok {
			return nil, fmt.Errorf("profile: %s in %s: %w", next, dir, ErrProfileNotFound)
		}
		chain = append(chain, file)
		names = append(names, next)
		next = file.Profile.Extends
	}
	slices.Reverse(chain)
	return chain, nil
}

// Weights resolves the cost model for a run: the configured weights with the
// named profile, and whatever it extends, applied on top. An empty name falls
// back to the profile set in config.yaml, and no profile at all returns the
// configured weights.
func Weights(cfg *config.Config, name string) (cost.Weights, error) {
	if cfg == nil {
		return cost.DefaultWeights(), nil
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = cfg.Project.Profile
	}
	if name == "" {
		return cfg.Weights(), nil
	}
	chain, err := Lineage(cfg.ProfilesDir(), name)
	if err != nil {
		return cfg.Weights(), err
	}
	w := cfg.Weights()
	for _, file := range chain {
		if w, err = file.Profile.Apply(w); err != nil {
			return cfg.Weights(), fmt.Errorf("%s: %w", file.Path, err)
		}
	}
	return w, nil
}

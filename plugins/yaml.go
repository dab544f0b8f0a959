package plugins

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProfileFile pairs a parsed profile with its on-disk source. Files holding
// several documents, and Go scripts, tag each profile as path#n.
type ProfileFile struct {
	Profile Profile
	Path    string
}

// ParseProfileYAML decodes and validates a payload holding exactly one
// profile.
func ParseProfileYAML(data []byte) (Profile, error) {
	profiles, err := ParseProfilesYAML(data)
	if err != nil {
		return Profile{}, err
	}
	if len(profiles) != 1 {
		return Profile{}, fmt.Errorf("profile: expected one document, got %d", len(profiles))
	}
	return profiles[0], nil
}

// ParseProfilesYAML decodes every document in a "---" separated stream.
// Top-level keys other than name, description, extends and weights are
// rejected so a misspelled "weight:" block does not silently apply nothing.
func ParseProfilesYAML(data []byte) ([]Profile, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("profile: payload is empty")
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var out []Profile
	for doc := 1; ; doc++ {
		var p Profile
		err := dec.Decode(&p)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("profile: document %d: decode: %w", doc, err)
		}
		if p.Name == "" && p.Extends == "" && len(p.Weights) == 0 {
			continue
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("document %d: %w", doc, err)
		}
		out = append(out, p.Normalized())
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("profile: payload has no profiles")
	}
	return out, nil
}

// LoadProfileFile reads every profile in a YAML file.
func LoadProfileFile(path string) ([]ProfileFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("profile: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("profile: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	profiles, err := ParseProfilesYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	clean := filepath.Clean(path)
	if len(profiles) == 1 {
		return []ProfileFile{{Profile: profiles[0], Path: clean}}, nil
	}
	files := make([]ProfileFile, len(profiles))
	for i, p := range profiles {
		files[i] = ProfileFile{Profile: p, Path: fmt.Sprintf("%s#%d", clean, i+1)}
	}
	return files, nil
}

// LoadProfileDir scans a directory for *.yaml profiles. A missing directory
// means no profiles. Every broken file is reported, each under its own path.
func LoadProfileDir(dir string) ([]ProfileFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile: read %s: %w", trimmed, err)
	}
	var files []ProfileFile
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !isYAMLFile(entry.Name()) {
			continue
		}
		loaded, err := LoadProfileFile(filepath.Join(trimmed, entry.Name()))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		files = append(files, loaded...)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	if len(files) == 0 {
		return nil, nil
	}
	// ReadDir sorts by file name; documents keep their order within a file.
	return files, nil
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}

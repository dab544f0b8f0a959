package plugins

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/harpist/internal/cost"
)

const goProfileFuncName = "CostProfiles"

// scriptSymbols lets a profile script `import "harpist"` and scale the
// default cost model instead of hard-coding numbers.
var scriptSymbols = interp.Exports{
	"harpist/harpist": {
		"DefaultWeight": reflect.ValueOf(defaultWeight),
		"WeightKeys":    reflect.ValueOf(cost.Keys),
	},
}

func defaultWeight(key string) uint {
	w := cost.DefaultWeights()
	got, err := w.Get(key)
	if err != nil {
		return 0
	}
	return got
}

// LoadGoProfileDir interprets every .go file in dir and collects the profiles
// returned by its CostProfiles function. Every broken script is reported.
func LoadGoProfileDir(dir string) ([]ProfileFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("profile: read %s: %w", trimmed, err)
	}
	var files []ProfileFile
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".go" || strings.HasSuffix(entry.Name(), "_test.go") {
			continue
		}
		loaded, err := loadGoProfileFile(filepath.Join(trimmed, entry.Name()))
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
	return files, nil
}

func loadGoProfileFile(path string) ([]ProfileFile, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("profile: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	i.Use(scriptSymbols)
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("profile: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(goProfileFuncName)
	if err != nil {
		return nil, fmt.Errorf("profile: %s must define %s() ([]map[string]any, error): %w", path, goProfileFuncName, err)
	}
	raws, callErr := invokeProfileFunc(fnValue)
	if callErr != nil {
		return nil, fmt.Errorf("profile: %s: %w", path, callErr)
	}
	files := make([]ProfileFile, 0, len(raws))
	for idx, raw := range raws {
		// Round trip through YAML so Go and YAML profiles share one decoder.
		payload, err := yaml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("profile: %s profile[%d]: %w", path, idx, err)
		}
		tagged := fmt.Sprintf("%s#%d", path, idx+1)
		parsed, err := ParseProfileYAML(payload)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", tagged, err)
		}
		files = append(files, ProfileFile{Profile: parsed, Path: tagged})
	}
	return files, nil
}

func invokeProfileFunc(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", goProfileFuncName)
	}
	fn := value
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", goProfileFuncName)
	}
	results := fn.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", goProfileFuncName)
	}
	defsVal := results[0]
	if len(results) == 2 {
		if !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok && e != nil {
				return nil, e
			}
			return nil, fmt.Errorf("%s returned non-error second value", goProfileFuncName)
		}
	}
	defs, ok := defsVal.Interface().([]map[string]any)
	if ok {
		return defs, nil
	}
	if defsVal.Kind() == reflect.Slice {
		result := make([]map[string]any, defsVal.Len())
		for i := 0; i < defsVal.Len(); i++ {
			entry := defsVal.Index(i).Interface()
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is not map[string]any", goProfileFuncName, i)
			}
			result[i] = m
		}
		return result, nil
	}
	return nil, fmt.Errorf("%s must return []map[string]any", goProfileFuncName)
}

// cmd/harpist/main.go
//
// Entry point for the harpist CLI.
//
// Flow:
// 1. Load .harpist/config.yaml, then the cost profile, then -set overrides
// 2. Read the score (.hrp or MIDI)
// 3. Solve, print the best candidates, and export or browse them

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kingrea/harpist/internal/candidate"
	"github.com/kingrea/harpist/internal/config"
	"github.com/kingrea/harpist/internal/lilypond"
	"github.com/kingrea/harpist/internal/logging"
	"github.com/kingrea/harpist/internal/score"
	"github.com/kingrea/harpist/internal/solve"
	"github.com/kingrea/harpist/internal/tui"
	"github.com/kingrea/harpist/plugins"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit.
func run() int {
	projectDir := flag.String("project", "", "path to the project directory (defaults to cwd)")
	profile := flag.String("profile", "", "cost profile from .harpist/profiles (defaults to config.yaml)")
	mode := flag.String("mode", "", "search mode: joint or per-spelling")
	relaxed := flag.Bool("relaxed", false, "allow one foot to move several pedals on a beat")
	fallback := flag.Bool("fallback", false, "retry relaxed when the strict search finds nothing")
	workers := flag.Int("workers", -1, "parallel searches (0 uses every CPU)")
	show := flag.Int("show", -1, "number of candidates to print")
	jsonOut := flag.String("json", "", "write every candidate to this JSON file")
	lyOut := flag.String("ly", "", "write the best candidate as a LilyPond document")
	pdf := flag.Bool("pdf", false, "run lilypond on the document")
	browse := flag.Bool("tui", false, "browse the candidates interactively")
	verbose := flag.Bool("v", false, "log debug output to stderr")
	sets := keyValueFlag{}
	flag.Var(&sets, "set", "config override (key=value, repeatable), e.g. pedal_cost=800")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: harpist [flags] FILE.hrp|FILE.mid\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return 2
	}
	scorePath := flag.Arg(0)

	project := *projectDir
	if project == "" {
		var err error
		project, err = os.Getwd()
		if err != nil {
			return fail("determine working directory: %v", err)
		}
	}
	absoluteProject, err := filepath.Abs(project)
	if err != nil {
		return fail("resolve project dir: %v", err)
	}
	if err := config.InitHarpistDir(absoluteProject); err != nil {
		return fail("init .harpist: %v", err)
	}
	cfg, err := config.NewConfig(absoluteProject)
	if err != nil {
		return fail("load config: %v", err)
	}

	logOpts := []logging.Option{logging.WithVerbose(*verbose)}
	if *verbose {
		logOpts = append(logOpts, logging.WithMirror(os.Stderr))
	}
	logger, err := logging.New(absoluteProject, logOpts...)
	if err != nil {
		return fail("open log: %v", err)
	}
	defer logger.Close()

	weights, err := plugins.Weights(cfg, *profile)
	if err != nil {
		return fail("load profile: %v", err)
	}
	cfg.Project.Weights = weights
	if err := applyOverrides(cfg, sets, *mode, *workers, *show); err != nil {
		return fail("%v", err)
	}
	logger.Debug("weights: %+v", cfg.Weights())

	sc, err := score.Load(scorePath)
	if err != nil {
		return fail("read score: %v", err)
	}
	logger.Info("loaded %s: %d beat(s)", scorePath, len(sc.Beats()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	solver := solve.New(cfg.Weights(), append(cfg.SolverOptions(), solve.WithLogger(logger))...)
	var result solve.Result
	switch {
	case *relaxed:
		result, err = solver.SolveRelaxed(ctx, sc.Input())
	case *fallback || cfg.Project.Solver.Fallback:
		result, err = solver.SolveWithFallback(ctx, sc.Input())
	default:
		result, err = solver.Solve(ctx, sc.Input())
	}
	if err != nil {
		return fail("solve: %v", err)
	}

	name := strings.TrimSuffix(filepath.Base(scorePath), filepath.Ext(scorePath))
	if *browse {
		app := tui.NewApp(filepath.Base(scorePath), result,
			tui.WithLogger(logger),
			tui.WithExporter(func(rank int, c candidate.Candidate) (string, error) {
				path := filepath.Join(cfg.OutputDir(), fmt.Sprintf("%s-%d.json", name, rank+1))
				return path, candidate.SaveJSON(path, []candidate.Candidate{c})
			}),
		)
		if err := tui.Run(app); err != nil {
			return fail("run TUI: %v", err)
		}
	} else {
		fmt.Print(renderResult(result, cfg.Project.Output.Show))
	}

	if result.Outcome != solve.Solved {
		logger.Warn("%s: %s", scorePath, describe(result))
	}
	if len(result.Candidates) == 0 {
		return 1
	}

	if path := strings.TrimSpace(*jsonOut); path != "" {
		if err := candidate.SaveJSON(path, result.Candidates); err != nil {
			return fail("write %s: %v", path, err)
		}
		fmt.Printf("Wrote %d candidate(s) to %s\n", len(result.Candidates), path)
	}

	ly := strings.TrimSpace(*lyOut)
	if ly == "" && *pdf {
		ly = filepath.Join(cfg.OutputDir(), name+".ly")
	}
	if ly != "" {
		opts := lilypond.Options{Title: name}
		if err := lilypond.WriteFile(ly, sc, result.Candidates[0], opts); err != nil {
			return fail("write %s: %v", ly, err)
		}
		fmt.Printf("Wrote %s\n", ly)
		if *pdf {
			if err := lilypond.Compile(ctx, cfg.Project.Output.Lilypond, ly); err != nil {
				return fail("%v", err)
			}
			fmt.Printf("Wrote %s\n", strings.TrimSuffix(ly, filepath.Ext(ly))+".pdf")
		}
	}
	return 0
}

func fail(format string, args ...any) int {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return 1
}

// applyOverrides layers command-line settings over the loaded config.
// Negative numbers mean the flag was not given.
func applyOverrides(cfg *config.Config, sets keyValueFlag, mode string, workers, show int) error {
	keys := make([]string, 0, len(sets))
	for key := range sets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if err := cfg.Apply(key, sets[key]); err != nil {
			return err
		}
	}
	if strings.TrimSpace(mode) != "" {
		if err := cfg.Apply("solver.mode", mode); err != nil {
			return err
		}
	}
	if workers >= 0 {
		if err := cfg.Apply("solver.workers", strconv.Itoa(workers)); err != nil {
			return err
		}
	}
	if show >= 0 {
		if err := cfg.Apply("output.show", strconv.Itoa(show)); err != nil {
			return err
		}
	}
	return nil
}

type keyValueFlag map[string]string

func (kv *keyValueFlag) String() string {
	if kv == nil || len(*kv) == 0 {
		return ""
	}
	var pairs []string
	for key, value := range *kv {
		pairs = append(pairs, fmt.Sprintf("%s=%s", key, value))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ", ")
}

func (kv *keyValueFlag) Set(value string) error {
	key, val, ok := strings.Cut(value, "=")
	if !ok {
		return fmt.Errorf("expected key=value, got %q", value)
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("override key is empty in " + strconv.Quote(value))
	}
	if *kv == nil {
		*kv = keyValueFlag{}
	}
	(*kv)[key] = val
	return nil
}

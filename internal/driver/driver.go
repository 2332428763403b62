// Package driver runs the compiler pipeline over a set of input files:
// load, parse (concurrently), build, resolve, validate.
package driver

import (
	"context"
	"fmt"
	"runtime"

	"fortio.org/safecast"

	"idlc/internal/ast"
	"idlc/internal/diag"
	"idlc/internal/observ"
	"idlc/internal/sema"
	"idlc/internal/source"
	"idlc/internal/symbols"
	"idlc/internal/trace"
	"idlc/internal/validate"
	"idlc/internal/visit"
)

// Options configure one compilation.
type Options struct {
	Sources    []string // файлы и каталоги; каталоги раскрываются в *.idl
	References []string
	// WarningsAsErrors makes warnings fail the compilation.
	WarningsAsErrors bool
	MaxDiagnostics   int // 0 — без ограничения
	Jobs             int // 0 — GOMAXPROCS
	// DefaultMode applies to files without a mode declaration; 0 means Slice2.
	DefaultMode ast.Mode
	Timings     bool
	// DiskCache replays diagnostics of an unchanged input set. It is
	// bypassed when NeedModel is set.
	DiskCache *DiskCache
	// NeedModel keeps the resolved model around for a visitor.
	NeedModel bool
	// BaseDir is used for relative paths in diagnostics.
	BaseDir string
	// Progress, when set, receives per-file and per-pass events.
	Progress ProgressSink
}

// State is everything a compilation produced.
type State struct {
	FileSet *source.FileSet
	Ast     *ast.Ast
	// Files are the lowered inputs in load order; nil when parsing failed.
	Files      []*ast.File
	Bag        *diag.Bag
	Symbols    *symbols.Table
	Sema       sema.Result
	Validation validate.Result
	Timer      *observ.Timer
	// Passes lists the passes that ran, in order.
	Passes []string
	Cached bool

	warningsAsErrors bool
}

// Succeeded reports whether the bag is free of errors (and of warnings when
// they are escalated).
func (s *State) Succeeded() bool {
	return !s.Bag.HasErrors(s.warningsAsErrors)
}

// Unit exposes the compilation to visitors.
func (s *State) Unit() visit.Unit {
	return visit.Unit{Ast: s.Ast, Bag: s.Bag, WarningsAsErrors: s.warningsAsErrors}
}

func (s *State) reporter() diag.Reporter { return diag.BagReporter{Bag: s.Bag} }

// Compile runs the pipeline. User-facing problems land in State.Bag; the
// error is reserved for cancellation and cache I/O.
func Compile(ctx context.Context, opts Options) (*State, error) {
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	if opts.DefaultMode == 0 {
		opts.DefaultMode = ast.DefaultMode
	}
	st := &State{
		FileSet:          source.NewFileSetWithBase(opts.BaseDir),
		Ast:              ast.New(),
		Bag:              diag.NewBag(opts.MaxDiagnostics),
		warningsAsErrors: opts.WarningsAsErrors,
	}
	if opts.Timings {
		st.Timer = observ.NewTimer()
	}

	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "compile", trace.CurrentSpan(ctx))
	defer func() { root.End(fmt.Sprintf("%d diagnostics", st.Bag.Len())) }()
	ctx = trace.WithSpan(ctx, root)

	var files []loadedFile
	st.pass(ctx, opts.Progress, StageLoad, func(context.Context) string {
		files = collectInputs(st.FileSet, st.reporter(), opts.Sources, opts.References)
		for _, in := range files {
			emit(opts.Progress, Event{File: in.path, Stage: StageLoad, Status: StatusQueued})
		}
		return fmt.Sprintf("%d files", len(files))
	})

	// диагностики загрузки в кеш не попадают
	useCache := opts.DiskCache != nil && !opts.NeedModel && !st.Bag.HasErrors(false)
	var key cacheKey
	if useCache {
		key = makeCacheKey(opts, st.FileSet, files)
		hit, err := opts.DiskCache.replay(key, st)
		if err != nil {
			return st, err
		}
		if hit {
			st.Cached = true
			st.reportOutcome(opts.Progress, files)
			return st, nil
		}
	}

	if err := st.run(ctx, opts, files); err != nil {
		return st, err
	}
	st.reportOutcome(opts.Progress, files)

	if useCache {
		if err := opts.DiskCache.store(key, st); err != nil {
			return st, err
		}
	}
	return st, nil
}

func (st *State) run(ctx context.Context, opts Options, files []loadedFile) error {
	if st.Bag.HasErrors(false) {
		return nil
	}

	var parsed []parsedFile
	var parseErr error
	st.pass(ctx, opts.Progress, StageParse, func(ctx context.Context) string {
		maxErrors, err := safecast.Conv[uint](max(opts.MaxDiagnostics, 0))
		if err != nil {
			parseErr = err
			return ""
		}
		parsed, parseErr = parseAll(ctx, st.FileSet, files, opts.Jobs, maxErrors, opts.Progress)
		for _, p := range parsed {
			st.Bag.Merge(p.bag)
		}
		return fmt.Sprintf("%d files", len(parsed))
	})
	if parseErr != nil {
		return parseErr
	}
	if st.Bag.HasErrors(false) {
		return nil
	}

	st.pass(ctx, opts.Progress, StageBuild, func(context.Context) string {
		b := ast.NewBuilder(st.Ast, st.reporter())
		b.DefaultMode = opts.DefaultMode
		for _, p := range parsed {
			st.Files = append(st.Files, b.AddFile(p.tree, p.path, p.reference))
		}
		return fmt.Sprintf("%d nodes", len(st.Ast.Indices()))
	})
	if st.Bag.HasErrors(false) {
		return nil
	}

	st.pass(ctx, opts.Progress, StageResolve, func(context.Context) string {
		st.Sema = sema.Check(st.Ast, sema.Options{Reporter: st.reporter()})
		st.Symbols = st.Sema.Symbols
		return fmt.Sprintf("%d unresolved", st.Sema.Unresolved)
	})
	if st.Bag.HasErrors(false) {
		return nil
	}

	st.pass(ctx, opts.Progress, StageValidate, func(context.Context) string {
		st.Validation = validate.Validate(st.Ast, validate.Options{Reporter: st.reporter()})
		return fmt.Sprintf("%d violations", st.Validation.Violations)
	})
	return nil
}

// pass wraps fn with a trace span, a timer phase and a progress event.
func (st *State) pass(ctx context.Context, sink ProgressSink, stage Stage, fn func(ctx context.Context) string) {
	name := string(stage)
	emit(sink, Event{Stage: stage, Status: StatusWorking})
	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, name, trace.CurrentSpan(ctx))
	done := st.Timer.Track(name)
	note := fn(trace.WithSpan(ctx, span))
	done(note)
	span.End(note)
	st.Passes = append(st.Passes, name)
}

package driver

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"idlc/internal/diag"
	"idlc/internal/parser"
	"idlc/internal/source"
	"idlc/internal/syntax"
	"idlc/internal/trace"
)

type parsedFile struct {
	path      string
	reference bool
	tree      *syntax.File
	bag       *diag.Bag
}

// parseAll parses files concurrently. Each file gets its own bag, so results
// can be merged in input order regardless of scheduling.
func parseAll(ctx context.Context, fset *source.FileSet, files []loadedFile, jobs int, maxErrors uint, sink ProgressSink) ([]parsedFile, error) {
	results := make([]parsedFile, len(files))
	if len(files) == 0 {
		return results, nil
	}
	tracer := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(min(jobs, len(files)), 1))
	for i, in := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			span := trace.Begin(tracer, trace.ScopeFile, "file:"+in.path, parent)
			start := time.Now()
			emit(sink, Event{File: in.path, Stage: StageParse, Status: StatusWorking})
			bag := diag.NewBag(0)
			// индекс i уникален для горутины, мьютекс не нужен
			res := parser.ParseFile(fset.Get(in.id), parser.Options{
				Reporter:  diag.BagReporter{Bag: bag},
				MaxErrors: maxErrors,
			})
			results[i] = parsedFile{path: in.path, reference: in.reference, tree: res.File, bag: bag}
			status := StatusDone
			if bag.HasErrors(false) {
				status = StatusError
			}
			emit(sink, Event{File: in.path, Stage: StageParse, Status: status, Elapsed: time.Since(start)})
			span.End("")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

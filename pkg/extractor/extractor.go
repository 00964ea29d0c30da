// Package extractor orchestrates the Project Loader and the three route
// parsers into a single catalogue (spec §5): it runs the Next.js App-Router,
// Pages-Router, and tRPC parsers over one loaded project, normalizes their
// raw findings into route.Route values, and aggregates warnings.
package extractor

import (
	"context"
	"sort"
	"sync"

	"github.com/watchapi-dev/routelens/pkg/nextapp"
	"github.com/watchapi-dev/routelens/pkg/nextpages"
	"github.com/watchapi-dev/routelens/pkg/route"
	"github.com/watchapi-dev/routelens/pkg/rlog"
	"github.com/watchapi-dev/routelens/pkg/trpc"
	"github.com/watchapi-dev/routelens/pkg/tsproject"
)

// Options configures a full extraction run.
type Options struct {
	Project tsproject.Options
	TRPC    trpc.Options
	Logger  *rlog.Logger
}

// Result is the full route catalogue plus the raw tRPC metadata the
// catalogue/report layers need alongside it (spec §4.6.4, §5).
type Result struct {
	Routes     []route.Route
	Routers    []route.TrpcRouter
	Warnings   []route.Warning
}

// Run loads the project named by opts.Project and runs all three parsers
// concurrently — their file sets are disjoint, so there is no shared
// mutable state to guard beyond each parser's own Result (spec §5
// "parsers run independently").
func Run(ctx context.Context, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = rlog.Discard()
	}

	proj, err := tsproject.Load(ctx, opts.Project)
	if err != nil {
		return Result{}, err
	}
	for _, w := range proj.Warnings {
		log.Warn(w)
	}

	var (
		wg                                     sync.WaitGroup
		appRes      nextapp.Result
		pagesRes    nextpages.Result
		trpcRes     trpc.Result
		appErr, pagesErr, trpcErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		appRes, appErr = nextapp.ParseWithLogger(ctx, proj, log)
	}()
	go func() {
		defer wg.Done()
		pagesRes, pagesErr = nextpages.ParseWithLogger(ctx, proj, log)
	}()
	go func() {
		defer wg.Done()
		trpcRes, trpcErr = trpc.ParseWithLogger(ctx, proj, opts.TRPC, log)
	}()
	wg.Wait()

	if appErr != nil {
		return Result{}, appErr
	}
	if pagesErr != nil {
		return Result{}, pagesErr
	}
	if trpcErr != nil {
		return Result{}, trpcErr
	}

	var res Result
	for _, w := range appRes.Warnings {
		res.Warnings = append(res.Warnings, w)
	}
	for _, w := range pagesRes.Warnings {
		res.Warnings = append(res.Warnings, w)
	}
	for _, w := range trpcRes.Warnings {
		res.Warnings = append(res.Warnings, w)
	}
	for _, w := range res.Warnings {
		log.Debug(w.Message, "file", w.FilePath)
	}

	for _, rec := range appRes.Handlers {
		res.Routes = append(res.Routes, route.FromNextHandler(rec, proj.RootDir))
	}
	for _, rec := range pagesRes.Handlers {
		res.Routes = append(res.Routes, route.FromNextHandler(rec, proj.RootDir))
	}
	for _, proc := range trpcRes.Procedures {
		res.Routes = append(res.Routes, route.FromTrpcProcedure(proc, proj.RootDir))
	}
	res.Routers = trpcRes.Routers

	sort.Slice(res.Routes, func(i, j int) bool {
		if res.Routes[i].Path != res.Routes[j].Path {
			return res.Routes[i].Path < res.Routes[j].Path
		}
		return res.Routes[i].Method < res.Routes[j].Method
	})

	log.Info("extraction complete", "routes", len(res.Routes), "warnings", len(res.Warnings))
	return res, nil
}

package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/routefinder/pkg/cache"
	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/flight"
	"github.com/matzehuels/routefinder/pkg/graph"
	rfio "github.com/matzehuels/routefinder/pkg/io"
	"github.com/matzehuels/routefinder/pkg/observability"
	"github.com/matzehuels/routefinder/pkg/search"
	"github.com/matzehuels/routefinder/pkg/source"
)

// Dataset is a loaded flight schedule.
type Dataset struct {
	// Name identifies the source in logs.
	Name string

	// Flights is the schedule in source order. It is never modified.
	Flights []flight.Flight

	// Hash is a content hash of Flights used in cache keys.
	Hash string

	// LoadTime is how long loading took.
	LoadTime time.Duration
}

// Airports returns every airport served by the schedule, sorted.
func (d *Dataset) Airports() []string {
	seen := make(map[string]struct{})
	for _, f := range d.Flights {
		seen[f.Origin] = struct{}{}
		seen[f.Destination] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for a := range seen {
		out = append(out, a)
	}
	slices.Sort(out)
	return out
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached results; zero selects DefaultCacheTTL.
	TTL time.Duration

	// SourceOptions configures dataset backends opened by Load.
	SourceOptions source.Options
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads opts.Dataset and searches it.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if opts.Dataset == "" {
		return nil, rferrors.New(rferrors.ErrCodeInvalidInput, "dataset is required")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	ds, err := r.Load(ctx, opts.Dataset)
	if err != nil {
		return nil, err
	}
	return r.Search(ctx, ds, opts)
}

// Load reads a dataset through the source matching its name.
func (r *Runner) Load(ctx context.Context, dataset string) (*Dataset, error) {
	src, err := source.Open(dataset, r.SourceOptions)
	if err != nil {
		return nil, err
	}
	return r.LoadSource(ctx, src)
}

// LoadSource reads a dataset from src.
func (r *Runner) LoadSource(ctx context.Context, src source.Source) (*Dataset, error) {
	start := time.Now()
	flights, err := src.Load(ctx)
	elapsed := time.Since(start)
	observability.Search().OnLoad(ctx, src.Name(), len(flights), elapsed, err)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		Name:     src.Name(),
		Flights:  flights,
		Hash:     hashFlights(flights),
		LoadTime: elapsed,
	}
	r.Logger.Info("loaded flights",
		"source", ds.Name,
		"flights", len(flights),
		"duration", elapsed)
	return ds, nil
}

func hashFlights(flights []flight.Flight) string {
	data, err := json.Marshal(flights)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// BuildGraph constructs the travel graph for a search. opts must have been
// validated.
func (r *Runner) BuildGraph(ctx context.Context, ds *Dataset, opts Options) (*graph.Graph, error) {
	start := time.Now()
	g, err := graph.New(ds.Flights, opts.Bags, graph.WithLayoverWindow(opts.MinLayover, opts.MaxLayover))
	if err != nil {
		return nil, rferrors.Wrap(rferrors.ErrCodeInvalidInput, err, "build travel graph")
	}
	elapsed := time.Since(start)
	observability.Search().OnGraphBuilt(ctx, g.NodeCount(), g.EdgeCount(), elapsed)
	r.logger(opts).Debug("built travel graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"layovers", g.LayoverCount(),
		"duration", elapsed)
	return g, nil
}

// Search runs a query against a loaded dataset, consulting the cache first.
func (r *Runner) Search(ctx context.Context, ds *Dataset, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{
		ID:          uuid.NewString(),
		DatasetHash: ds.Hash,
		Stats: Stats{
			Flights:  len(ds.Flights),
			LoadTime: ds.LoadTime,
		},
	}

	logger := r.logger(opts)
	cacheKey := r.Keyer.SearchKey(ds.Hash, opts.SearchKeyOpts())
	if routes, ok := r.cached(ctx, cacheKey, opts.Refresh); ok {
		result.Routes = routes
		result.Stats.Routes = len(routes)
		result.CacheHit = true
		logger.Info("found routes", "routes", len(routes), "cached", true, "id", result.ID)
		return result, nil
	}

	buildStart := time.Now()
	g, err := r.BuildGraph(ctx, ds, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.Nodes = g.NodeCount()
	result.Stats.Edges = g.EdgeCount()

	searchStart := time.Now()
	routes, err := search.SearchTrip(ctx, g, opts.Trip(),
		search.WithMinDwell(opts.MinDwell),
		search.WithWorkers(opts.Workers))
	result.Stats.SearchTime = time.Since(searchStart)
	observability.Search().OnSearchComplete(ctx, opts.Origin, opts.Destination, len(routes), result.Stats.SearchTime, err)
	if err != nil {
		return nil, err
	}

	records := rfio.NewRouteRecords(routes)
	SortByPrice(records)
	result.Routes = records
	result.Stats.Routes = len(records)

	logger.Info("found routes",
		"routes", len(records),
		"round_trip", opts.RoundTrip,
		"duration", result.Stats.SearchTime,
		"id", result.ID)

	r.store(ctx, cacheKey, records)
	return result, nil
}

// cached returns the routes stored under key. Cache failures are logged and
// reported as misses.
func (r *Runner) cached(ctx context.Context, key string, refresh bool) ([]rfio.RouteRecord, bool) {
	if refresh {
		return nil, false
	}
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "error", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "search")
		return nil, false
	}
	routes, err := rfio.ReadRoutesJSON(bytes.NewReader(data))
	if err != nil {
		r.Logger.Warn("discarding unreadable cache entry", "error", err)
		_ = r.Cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "search")
	return routes, true
}

func (r *Runner) store(ctx context.Context, key string, routes []rfio.RouteRecord) {
	var buf bytes.Buffer
	if err := rfio.WriteRoutesJSON(&buf, routes); err != nil {
		r.Logger.Warn("encode routes for cache", "error", err)
		return
	}
	ttl := r.TTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), ttl); err != nil {
		r.Logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "search", buf.Len())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

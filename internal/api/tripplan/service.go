package tripplan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wanderly-ai/wanderly-backend/internal/api/completions"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// Config carries the per-stage model parameters. The skeleton runs on a
// small fast model, the real fill on the large one, micro-fill and repair
// on the large and small respectively.
type Config struct {
	SkeletonParams  completions.Params
	FillParams      completions.Params
	MicroFillParams completions.Params
	RepairParams    completions.Params
	RouteParams     completions.Params

	// MicroFillDelay overrides the pause between micro-fill attempts;
	// zero means the 400ms default. Tests shrink it.
	MicroFillDelay time.Duration

	PostProcess PostProcessConfig

	// CacheTTL caches finished live plans per request; zero disables.
	CacheTTL time.Duration
}

// DefaultConfig wires the stage models the service runs in production.
func DefaultConfig() Config {
	return Config{
		SkeletonParams: completions.Params{
			Model:       "openai/gpt-oss-20b",
			Temperature: 0.3,
			MaxTokens:   8000,
		},
		FillParams: completions.Params{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.4,
			MaxTokens:   18000,
			JSONMode:    true,
		},
		MicroFillParams: completions.Params{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.4,
			MaxTokens:   4000,
			JSONMode:    true,
		},
		RepairParams: completions.Params{
			Model:       "openai/gpt-oss-20b",
			Temperature: 0.2,
			MaxTokens:   8000,
		},
		RouteParams: completions.Params{
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.2,
			MaxTokens:   2000,
			JSONMode:    true,
		},
		PostProcess: DefaultPostProcessConfig(),
		CacheTTL:    10 * time.Minute,
	}
}

// Service generates complete trip plans. The second return value reports
// whether the deterministic mock answered; the plan itself is always
// non-nil.
type Service interface {
	CreateTripPlan(ctx context.Context, req types.TripPlanRequest) (*types.TripPlan, bool)

	// OptimizeRoute reorders a day's stops into a realistic loop around
	// the hotel. It keeps the original order when the model cannot help.
	OptimizeRoute(ctx context.Context, req OptimizeRouteRequest) []types.Block
}

var _ Service = (*ServiceImpl)(nil)

type ServiceImpl struct {
	logger *slog.Logger
	client completions.Client
	cache  *cache.Cache
	cfg    Config
}

func NewServiceImpl(client completions.Client, cfg Config, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		client: client,
		cache:  cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		cfg:    cfg,
	}
}

// CreateTripPlan runs the full pipeline: skeleton, normalize, real fill,
// dedupe, micro-fill repair, cost post-processing. Every stage degrades
// instead of failing; the only way out is a plan.
func (s *ServiceImpl) CreateTripPlan(ctx context.Context, req types.TripPlanRequest) (*types.TripPlan, bool) {
	ctx, span := otel.Tracer("TripPlanService").Start(ctx, "CreateTripPlan")
	defer span.End()
	started := time.Now()

	recordTripRequest(ctx)
	l := s.logger.With(
		slog.String("method", "CreateTripPlan"),
		slog.String("destination", req.To),
	)

	cacheKey := requestCacheKey(req)
	if s.cfg.CacheTTL > 0 {
		if cached, found := s.cache.Get(cacheKey); found {
			if plan, ok := cached.(*types.TripPlan); ok {
				l.InfoContext(ctx, "Trip plan served from cache")
				span.SetAttributes(attribute.Bool("cache.hit", true))
				span.SetStatus(codes.Ok, "Cache hit")
				return plan, false
			}
		}
	}

	if s.client == nil {
		l.WarnContext(ctx, "No completion client configured, serving mock plan")
		recordMockFallback(ctx, "gateway")
		span.SetStatus(codes.Ok, "Mock plan served")
		return BuildMockTripPlan(req), true
	}

	days := dayCount(req.StartDate, req.EndDate)
	span.SetAttributes(
		attribute.Int("trip.days", days),
		attribute.String("trip.travel_type", req.TravelType),
	)

	skeleton := s.runStage(ctx, "Skeleton", func(ctx context.Context) *types.TripPlan {
		return s.buildSkeleton(ctx, req, days)
	})
	NormalizeDays(skeleton, req.HotelPerDay)
	ensureTripFields(skeleton, req)

	s.runStageVoid(ctx, "RealFill", func(ctx context.Context) {
		s.realFill(ctx, req, skeleton)
	})

	if emptyBlockCount(skeleton) == len(skeleton.Days)*len(types.BlockOrder) {
		l.WarnContext(ctx, "No blocks filled by the model, serving mock plan")
		recordMockFallback(ctx, "real_fill")
		recordPlanDuration(ctx, time.Since(started).Seconds(), true)
		span.SetStatus(codes.Ok, "Mock plan served")
		return BuildMockTripPlan(req), true
	}

	EnforceUniquePlaces(skeleton)

	s.runStageVoid(ctx, "MicroFill", func(ctx context.Context) {
		s.repairBlocks(ctx, req, skeleton)
	})

	PostProcessCosts(skeleton, req, s.cfg.PostProcess)

	if s.cfg.CacheTTL > 0 {
		s.cache.Set(cacheKey, skeleton, s.cfg.CacheTTL)
	}

	recordPlanDuration(ctx, time.Since(started).Seconds(), false)
	l.InfoContext(ctx, "Trip plan generated",
		slog.Int("days", len(skeleton.Days)),
		slog.Duration("elapsed", time.Since(started)),
	)
	span.SetStatus(codes.Ok, "Trip plan generated")
	return skeleton, false
}

func (s *ServiceImpl) runStage(ctx context.Context, name string, fn func(context.Context) *types.TripPlan) *types.TripPlan {
	ctx, span := otel.Tracer("TripPlanService").Start(ctx, name)
	defer span.End()
	return fn(ctx)
}

func (s *ServiceImpl) runStageVoid(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := otel.Tracer("TripPlanService").Start(ctx, name)
	defer span.End()
	fn(ctx)
}

// ensureTripFields backfills request-derived trip fields a model skeleton
// may have dropped.
func ensureTripFields(plan *types.TripPlan, req types.TripPlanRequest) {
	if plan.To == "" {
		plan.To = req.To
	}
	if plan.From == "" {
		plan.From = req.From
	}
	if plan.StartDate == "" {
		plan.StartDate = req.StartDate
	}
	if plan.EndDate == "" {
		plan.EndDate = req.EndDate
	}
	if plan.Language == "" {
		plan.Language = req.Language
	}
	if plan.TravelStyle == nil {
		plan.TravelStyle = &types.TravelStyle{Type: req.TravelType}
	}
	if len(plan.Hotels) == 0 {
		plan.Hotels = uniqueHotels(req.HotelPerDay)
	}
}

func emptyBlockCount(plan *types.TripPlan) int {
	n := 0
	for _, day := range plan.Days {
		for _, block := range day.Blocks {
			if len(block.Options) == 0 {
				n++
			}
		}
	}
	return n
}

func requestCacheKey(req types.TripPlanRequest) string {
	payload, err := json.Marshal(req)
	if err != nil {
		return req.To + "|" + req.StartDate + "|" + req.EndDate
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

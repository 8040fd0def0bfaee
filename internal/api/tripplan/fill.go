package tripplan

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/wanderly-ai/wanderly-backend/internal/api/llmjson"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

// realFill asks the large model to populate the skeleton's blocks and
// merges the answer back in. The skeleton stays authoritative for
// everything structural; an unrecoverable fill response just leaves the
// blocks empty for the micro-fill loop.
func (s *ServiceImpl) realFill(ctx context.Context, req types.TripPlanRequest, skeleton *types.TripPlan) {
	raw := s.client.Complete(ctx, buildRealFillPrompt(req, skeleton), s.cfg.FillParams)
	if raw == "" {
		s.logger.WarnContext(ctx, "Real-fill produced no output, continuing with empty blocks")
		return
	}

	doc := llmjson.Recover(ctx, s.client, raw, s.cfg.RepairParams)
	if doc == nil {
		s.logger.WarnContext(ctx, "Real-fill output unrecoverable, continuing with empty blocks")
		return
	}

	var filled types.TripPlan
	if err := json.Unmarshal(doc, &filled); err != nil {
		s.logger.WarnContext(ctx, "Real-fill output did not match the plan shape", slog.Any("error", err))
		return
	}

	mergeFill(skeleton, &filled)
}

// mergeFill copies options from the filled document into the skeleton by
// day position and block section. Nothing else crosses over: the model is
// not trusted with hotels, flight, travel style, dates, or day order. The
// trip-level cost summary from the fill is kept as a hint and rebuilt by
// the post-processor anyway.
func mergeFill(skeleton, filled *types.TripPlan) {
	if skeleton == nil || filled == nil {
		return
	}

	for i := range skeleton.Days {
		if i >= len(filled.Days) {
			break
		}
		dst := &skeleton.Days[i]
		src := filled.Days[i]

		bySection := make(map[string][]types.Option, len(src.Blocks))
		for _, b := range src.Blocks {
			key := strings.ToLower(strings.TrimSpace(b.Section))
			if _, dup := bySection[key]; !dup && len(b.Options) > 0 {
				bySection[key] = b.Options
			}
		}

		for j := range dst.Blocks {
			if opts, ok := bySection[dst.Blocks[j].Section]; ok {
				dst.Blocks[j].Options = opts
			} else if j < len(src.Blocks) && len(src.Blocks[j].Options) > 0 &&
				strings.TrimSpace(src.Blocks[j].Section) == "" {
				// Positional fallback for fills that dropped section labels.
				dst.Blocks[j].Options = src.Blocks[j].Options
			}
		}
	}

	if filled.CostSummary != nil && skeleton.CostSummary == nil {
		skeleton.CostSummary = filled.CostSummary
	}
}

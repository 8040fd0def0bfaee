package tripplan

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/wanderly-ai/wanderly-backend/internal/api/llmjson"
	"github.com/wanderly-ai/wanderly-backend/internal/types"
)

const (
	microFillMaxAttempts = 6
	microFillDelay       = 400 * time.Millisecond
)

// Names a model returns when it has run out of ideas. Candidates carrying
// any of these are junk, not places.
var placeholderPhrases = []string{
	"suggested activity",
	"free time",
	"placeholder",
	"explore nearby",
}

func isPlaceholderName(normalized string) bool {
	for _, phrase := range placeholderPhrases {
		if strings.Contains(normalized, phrase) {
			return true
		}
	}
	return false
}

// repairBlocks brings every underfilled block up to the two-option floor
// with targeted micro-fill calls. Attempts are bounded; when they run out
// the block is padded from what survived rather than left short.
func (s *ServiceImpl) repairBlocks(ctx context.Context, req types.TripPlanRequest, plan *types.TripPlan) {
	for i := range plan.Days {
		day := &plan.Days[i]
		for j := range day.Blocks {
			block := &day.Blocks[j]
			if realOptionCount(block.Options) >= minOptionsPerBlock {
				continue
			}
			s.fillBlock(ctx, req, day, block)
		}
	}
}

func (s *ServiceImpl) fillBlock(ctx context.Context, req types.TripPlanRequest, day *types.Day, block *types.Block) {
	delay := s.cfg.MicroFillDelay
	if delay == 0 {
		delay = microFillDelay
	}

attempts:
	for attempt := 1; attempt <= microFillMaxAttempts && len(block.Options) < minOptionsPerBlock; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				break attempts
			case <-time.After(delay):
			}
		}
		recordMicroFillAttempt(ctx, block.Section)

		needed := max(minOptionsPerBlock, 3-len(block.Options))
		added := s.microFill(ctx, req.To, block.Section, req.TravelType, block.Options, needed)
		if len(added) == 0 {
			continue
		}

		existing := make(map[string]bool, len(block.Options))
		for _, o := range block.Options {
			existing[o.NormalizedName()] = true
		}
		for _, opt := range added {
			if len(block.Options) >= maxOptionsPerBlock {
				break
			}
			key := opt.NormalizedName()
			if existing[key] {
				continue
			}
			if opt.Address == "" {
				opt.Address = fallbackAddress(req.To, day.Hotel)
			}
			existing[key] = true
			block.Options = append(block.Options, opt)
		}
	}

	// Attempts exhausted: pad from the survivor, or synthesize.
	if len(block.Options) == 1 {
		first := block.Options[0]
		if !strings.Contains(first.Name, " (Alternative)") {
			alt := first
			alt.Name = first.Name + " (Alternative)"
			block.Options = append(block.Options, alt)
		}
	}
	if len(block.Options) == 0 {
		s.logger.WarnContext(ctx, "Block empty after micro-fill, using placeholder",
			slog.String("section", block.Section), slog.Int("day", day.Day))
		block.Options = []types.Option{syntheticOption(&types.TripPlan{To: req.To}, day, block.Section)}
	}
}

// microFill runs one replacement request for a block and returns only
// candidates worth keeping: named, not a placeholder phrase, not already
// in the block.
func (s *ServiceImpl) microFill(ctx context.Context, destination, section, travelType string, existing []types.Option, needed int) []types.Option {
	raw := s.client.Complete(ctx, buildMicroFillPrompt(destination, section, travelType, existing, needed), s.cfg.MicroFillParams)
	if raw == "" {
		return nil
	}
	doc := llmjson.Recover(ctx, s.client, raw, s.cfg.RepairParams)
	if doc == nil {
		return nil
	}

	var wrapped struct {
		Options []types.Option `json:"options"`
	}
	var candidates []types.Option
	if err := json.Unmarshal(doc, &wrapped); err == nil && len(wrapped.Options) > 0 {
		candidates = wrapped.Options
	} else {
		var bare []types.Option
		if err := json.Unmarshal(doc, &bare); err != nil {
			return nil
		}
		candidates = bare
	}

	seen := make(map[string]bool, len(existing))
	for _, o := range existing {
		seen[o.NormalizedName()] = true
	}

	kept := make([]types.Option, 0, len(candidates))
	for _, opt := range candidates {
		key := opt.NormalizedName()
		if len(key) < 2 || seen[key] || isPlaceholderName(key) {
			continue
		}
		seen[key] = true
		kept = append(kept, opt)
	}
	return kept
}

// realOptionCount ignores synthetic padding when deciding whether a block
// still needs repair.
func realOptionCount(options []types.Option) int {
	n := 0
	for _, o := range options {
		name := o.NormalizedName()
		if strings.Contains(name, "activity in") || strings.Contains(name, " (alternative)") {
			continue
		}
		n++
	}
	return n
}

func fallbackAddress(destination string, hotel *types.Hotel) string {
	if hotel != nil && hotel.Address != "" {
		return hotel.Address
	}
	if destination != "" {
		return destination
	}
	return "City"
}

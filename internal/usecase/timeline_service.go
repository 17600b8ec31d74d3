package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/capao/capitascore/internal/domain/timeline"
	"github.com/capao/capitascore/internal/platform/logging"
)

// TimelineService serves the archived raw timeline documents for offline
// analysis.
type TimelineService struct {
	timelines timeline.Repository
	logger    *logging.Logger
}

func NewTimelineService(timelines timeline.Repository, logger *logging.Logger) *TimelineService {
	if logger == nil {
		logger = logging.Default()
	}
	return &TimelineService{timelines: timelines, logger: logger}
}

// GetRawTimeline returns the stored timeline blob for one match.
func (s *TimelineService) GetRawTimeline(ctx context.Context, matchID string) (timeline.Blob, error) {
	ctx, span := startSpan(ctx, "TimelineService.GetRawTimeline")
	defer span.End()

	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return timeline.Blob{}, fmt.Errorf("%w: match id is required", ErrInvalidInput)
	}

	blob, err := s.timelines.GetByMatchID(ctx, matchID)
	if err != nil {
		if isNotFound(err) {
			return timeline.Blob{}, fmt.Errorf("%w: timeline for match %s", ErrNotFound, matchID)
		}
		return timeline.Blob{}, fmt.Errorf("get timeline %s: %w", matchID, err)
	}
	return blob, nil
}

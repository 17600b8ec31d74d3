package timeline

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("timeline not found")

// Blob is the verbatim upstream timeline document for one match. It is
// stored unparsed; the metrics job interprets it later.
type Blob struct {
	ID         int64
	MatchID    string
	RawJSON    []byte
	IngestedAt time.Time
}

type Repository interface {
	GetByMatchID(ctx context.Context, matchID string) (Blob, error)
}

package round

import "time"

// Tracked is a round label the pipeline has loaded at least once.
type Tracked struct {
	RoundID     string
	Sequence    int64
	FirstSeenAt time.Time
	LastSyncAt  time.Time
}

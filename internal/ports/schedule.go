package ports

import "time"

// Schedule describes a periodic trigger as seen by one invocation.
type Schedule interface {
	// Period is the time between two consecutive trigger occurrences.
	Period() time.Duration

	// NextOccurrence is the absolute time of the next trigger.
	NextOccurrence() time.Time
}

package model

import "time"

// Urgency classifies deadline pressure. It is derived on every read.
type Urgency string

const (
	UrgencyNormal      Urgency = "normal"
	UrgencyApproaching Urgency = "approaching"
	UrgencyOverdue     Urgency = "overdue"
)

const approachingWindow = 3 * 24 * time.Hour

// ClassifyUrgency computes the urgency of o at instant now.
func ClassifyUrgency(o Order, now time.Time) Urgency {
	if o.Status.Terminal() || o.Deadline.IsZero() {
		return UrgencyNormal
	}
	remaining := o.Deadline.Sub(now)
	switch {
	case remaining < 0:
		return UrgencyOverdue
	case remaining <= approachingWindow:
		return UrgencyApproaching
	default:
		return UrgencyNormal
	}
}

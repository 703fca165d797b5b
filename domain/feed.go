package domain

// Subscription is a live registration on a change-feed channel. A receive on
// Notifications means "something changed, re-read"; bursts may be folded
// into a single signal.
type Subscription interface {
	Notifications() <-chan struct{}
	Close() error
}

package field

// Observer receives counters from the reconciler. Implementations must be
// cheap; they run inside Apply.
type Observer interface {
	ObserveEvent(event string, mode Mode)
	ObserveNotification(kind Kind)
	ObserveQueued()
	ObserveRejected(event, reason string)
}

type nopObserver struct{}

func (nopObserver) ObserveEvent(string, Mode)      {}
func (nopObserver) ObserveNotification(Kind)       {}
func (nopObserver) ObserveQueued()                 {}
func (nopObserver) ObserveRejected(string, string) {}

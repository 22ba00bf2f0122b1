package availability

// Status is the initialization result of a component, computed once at
// startup and injected into whatever depends on it.
type Status struct {
	ready  bool
	reason string
}

// Ready reports a component that initialized successfully.
func Ready() Status {
	return Status{ready: true}
}

// Unavailable reports a component that failed to initialize.
func Unavailable(reason string) Status {
	if reason == "" {
		reason = "not initialized"
	}
	return Status{reason: reason}
}

// FromError maps a constructor error to a status.
func FromError(err error) Status {
	if err == nil {
		return Ready()
	}
	return Unavailable(err.Error())
}

func (s Status) IsReady() bool { return s.ready }

// Reason is empty for ready components.
func (s Status) Reason() string { return s.reason }

func (s Status) String() string {
	if s.ready {
		return "ready"
	}
	return "unavailable: " + s.reason
}

// All is ready only when every given status is ready. The reason of the
// first unavailable status wins.
func All(statuses ...Status) Status {
	for _, s := range statuses {
		if !s.ready {
			return s
		}
	}
	return Ready()
}

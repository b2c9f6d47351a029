package domain

// ThrottleKey identifies the request stream a rate rule counts.
// SubjectID is empty for unauthenticated routes.
type ThrottleKey struct {
	Address   string
	Route     string
	SubjectID string
}

// String renders the key for stores that need a flat identifier.
func (k ThrottleKey) String() string {
	s := "throttle:" + k.Address + ":" + k.Route
	if k.SubjectID != "" {
		s += ":" + k.SubjectID
	}
	return s
}

package model

// ValidationError reports a field-level rule broken by a record before it
// ever reaches the database. Handlers translate it into a 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

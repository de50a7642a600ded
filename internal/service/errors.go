package service

// ValidationError reports a request field that failed validation. The message
// names the offending field and is returned to the client verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Package errors defines the domain error taxonomy shared by services
// and mapped to HTTP responses in the handlers.
package errors

// DomainError is a coded application error.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

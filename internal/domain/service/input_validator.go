package service

// InputValidator checks the shape of an inbound request body. A failed check returns an error
// carrying every human-readable message, classified as domainerrors.ErrValidationFailed.
type InputValidator interface {
	Validate(i any) error
}

package comparison

import (
	"samecast/internal/metadata"
	"samecast/internal/services"
)

// InputError is returned by ValidatePair. Message is safe to show to users.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

func (e *InputError) Unwrap() error { return services.ErrInvalidInput }

const (
	msgMissingTitles = "Please select two titles to compare."
	msgSameTitle     = "Please pick two different titles!"
)

// ValidatePair checks a comparison request before any lookup: both ids must be
// positive, both media types movie or tv, and the two titles must differ.
func ValidatePair(idA int64, typeA string, idB int64, typeB string) (metadata.MediaType, metadata.MediaType, error) {
	if idA <= 0 || idB <= 0 || typeA == "" || typeB == "" {
		return "", "", &InputError{Message: msgMissingTitles}
	}
	mtA, err := metadata.ParseMediaType(typeA)
	if err != nil {
		return "", "", &InputError{Message: msgMissingTitles}
	}
	mtB, err := metadata.ParseMediaType(typeB)
	if err != nil {
		return "", "", &InputError{Message: msgMissingTitles}
	}
	if idA == idB && mtA == mtB {
		return "", "", &InputError{Message: msgSameTitle}
	}
	return mtA, mtB, nil
}

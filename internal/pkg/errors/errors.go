package errors

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrNotInSession = errors.New("not in current session")
	ErrInvalid      = errors.New("invalid")
	ErrExtraction   = errors.New("extraction failed")
	ErrEmptyContent = errors.New("no text extracted")
	ErrInternal     = errors.New("internal")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsEmptyContent(err error) bool {
	return errors.Is(err, ErrEmptyContent)
}

package assessment

import "errors"

var (
	// ErrConfiguration indicates a missing prompt template or bad setup.
	ErrConfiguration = errors.New("configuration error")
	// ErrScoring indicates the provider failed or returned an unusable reply.
	ErrScoring = errors.New("scoring error")
	// ErrInvalidSection indicates an operation on a section that does not allow it.
	ErrInvalidSection = errors.New("invalid section")
	// ErrIngestion indicates a malformed upload.
	ErrIngestion = errors.New("ingestion error")
	// ErrNotFound indicates a missing company or answer.
	ErrNotFound = errors.New("not found")
	// ErrCompanyExists indicates a re-upload that needs confirmation.
	ErrCompanyExists = errors.New("company already exists")
	// ErrInvalidRequest indicates a malformed request body or parameter.
	ErrInvalidRequest = errors.New("invalid request")
)

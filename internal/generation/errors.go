package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when study-set generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate study set")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the LLM blocks the content due to safety filters
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry
	ErrTransientFailure = errors.New("transient error during generation")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrEmptySentence is returned when there is nothing to generate from
	ErrEmptySentence = errors.New("sentence cannot be empty")

	// ErrDisabled is returned by the placeholder generator used when no API key is configured
	ErrDisabled = errors.New("study-set generation is not configured")
)

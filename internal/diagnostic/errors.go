package diagnostic

import "errors"

var (
	// ErrBusy is returned when a transition is requested while the
	// session waits on the content generator.
	ErrBusy = errors.New("diagnostic: session is busy")

	ErrInvalidTransition = errors.New("diagnostic: operation not valid in current stage")
	ErrNoSelection       = errors.New("diagnostic: no option selected")
	ErrUnknownOption     = errors.New("diagnostic: option is not one of the question's options")
	ErrEmptyTopic        = errors.New("diagnostic: topic is empty")

	// ErrStale is returned when a generator result arrives after the
	// session was abandoned or reset. The result is discarded.
	ErrStale = errors.New("diagnostic: result arrived for an abandoned attempt")

	ErrGenerationFailed = errors.New("diagnostic: question generation failed")
	ErrAnalysisFailed   = errors.New("diagnostic: analysis failed")
)

// UserMessage returns the generic text shown to the learner for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrGenerationFailed):
		return "We couldn't generate questions for this topic. Please try again."
	case errors.Is(err, ErrAnalysisFailed):
		return "We couldn't analyze your answers. Please try again."
	case errors.Is(err, ErrEmptyTopic):
		return "Please enter a topic."
	case errors.Is(err, ErrBusy):
		return "Still working on it. Please wait."
	default:
		return "Something went wrong. Please try again."
	}
}

package llm

import "context"

// Purposes label every call for event logging and metrics.
const (
	PurposeDiagnosticQuestions = "diagnostic-questions"
	PurposeDiagnosticAnalysis  = "diagnostic-analysis"
	PurposeModuleContent       = "module-content"
	PurposeModuleTip           = "module-tip"
	PurposeOnboardingSubjects  = "onboarding-subjects"
)

// Label says why a request was made. It rides on the context so the
// decorators can record it without every Request carrying it.
type Label struct {
	Purpose string
	// Topic is the learner's topic, or the degree for onboarding calls.
	Topic string
}

type labelKey struct{}

// WithLabel attaches l to ctx.
func WithLabel(ctx context.Context, l Label) context.Context {
	return context.WithValue(ctx, labelKey{}, l)
}

// WithPurpose attaches a label carrying only a purpose.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return WithLabel(ctx, Label{Purpose: purpose})
}

// LabelFrom returns the label on ctx. Unlabelled calls get purpose
// "unknown".
func LabelFrom(ctx context.Context) Label {
	l, _ := ctx.Value(labelKey{}).(Label)
	if l.Purpose == "" {
		l.Purpose = "unknown"
	}
	return l
}

// PurposeFrom returns LabelFrom(ctx).Purpose.
func PurposeFrom(ctx context.Context) string {
	return LabelFrom(ctx).Purpose
}

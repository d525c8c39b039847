package llm

import "context"

// PurposeUnknown labels requests made without WithPurpose.
const PurposeUnknown = "unknown"

type purposeKey struct{}

// WithPurpose tags ctx so the event log can group calls by what they were for.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

func PurposeFrom(ctx context.Context) string {
	if v, _ := ctx.Value(purposeKey{}).(string); v != "" {
		return v
	}
	return PurposeUnknown
}

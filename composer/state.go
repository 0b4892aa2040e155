package composer

import (
	"slices"

	"iambic/iambic"
)

// WorkingPost is the draft being composed.
type WorkingPost struct {
	Body    string
	Loading bool // a submission is in flight
	// ValidationErrors holds the per-line results of the latest applied
	// validation, which was run against LastValidatedBody.
	ValidationErrors  []iambic.ValidationResult
	LastValidatedBody string
}

// ErrorBanner is the transient error notification. An empty Message means
// no error is shown.
type ErrorBanner struct {
	Message string
}

type State struct {
	WorkingPost WorkingPost
	Banner      ErrorBanner
	Posts       []iambic.Post
}

func (s State) clone() State {
	s.WorkingPost.ValidationErrors = slices.Clone(s.WorkingPost.ValidationErrors)
	s.Posts = slices.Clone(s.Posts)
	return s
}

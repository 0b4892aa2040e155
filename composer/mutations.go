package composer

import (
	"slices"

	"iambic/iambic"
)

// Mutations are pure: they take the current state and a payload and return
// the next state. Slices in the result are never shared with the payload.

func updateBody(s State, body string) State {
	s.WorkingPost.Body = body
	return s
}

func beginSubmit(s State) State {
	s.WorkingPost.Loading = true
	return s
}

func submitSucceeded(s State, stillSending bool) State {
	s.WorkingPost.Loading = stillSending
	s.WorkingPost.Body = ""
	return s
}

// submitFailed keeps the draft so the user can send it again.
func submitFailed(s State, stillSending bool) State {
	s.WorkingPost.Loading = stillSending
	return s
}

func validated(s State, target string, results []iambic.ValidationResult) State {
	s.WorkingPost.LastValidatedBody = target
	s.WorkingPost.ValidationErrors = slices.Clone(results)
	return s
}

func postsFetched(s State, posts []iambic.Post) State {
	s.Posts = slices.Clone(posts)
	return s
}

func showError(s State, message string) State {
	s.Banner.Message = message
	return s
}

func clearError(s State) State {
	s.Banner.Message = ""
	return s
}

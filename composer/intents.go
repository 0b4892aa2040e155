package composer

import (
	"context"

	"iambic/iambic"
	"iambic/logger"
)

// SubmitPost sends the draft. Loading is set at once and cleared when the
// request settles; success clears the draft, failure keeps it and shows the
// error. Submitting while another submission is in flight is allowed.
func (s *Store) SubmitPost(ctx context.Context) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return completedTask(ErrClosed, false)
	}

	s.sending++
	s.state = beginSubmit(s.state)
	s.notifyLocked()

	body := s.state.WorkingPost.Body
	return s.startLocked(ctx, func(ctx context.Context) error {
		_, err := s.api.CreatePost(ctx, body)
		s.finishSubmit(err)
		return err
	})
}

func (s *Store) finishSubmit(err error) {
	requestsTotal.WithLabelValues(string(intentSubmit), outcome(err)).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sending--
	if err == nil {
		s.state = submitSucceeded(s.state, s.sending > 0)
	} else {
		logFailure(intentSubmit, err)
		s.state = submitFailed(s.state, s.sending > 0)
		if displayable(err) {
			s.showErrorLocked(errorMessage(err))
		}
	}
	s.notifyLocked()
}

// ValidatePost validates the draft unless it is unchanged since the last
// applied validation or already being validated. Only the newest
// validation request may update state.
func (s *Store) ValidatePost(ctx context.Context) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return completedTask(ErrClosed, false)
	}

	target := s.state.WorkingPost.Body
	if target == s.state.WorkingPost.LastValidatedBody || (s.validating && target == s.validatingBody) {
		requestsTotal.WithLabelValues(string(intentValidate), "skipped").Inc()
		return completedTask(nil, true)
	}

	s.latest[intentValidate]++
	id := s.latest[intentValidate]
	s.validating, s.validatingBody = true, target

	return s.startLocked(ctx, func(ctx context.Context) error {
		results, err := s.api.ValidatePost(ctx, target)
		s.finishValidate(id, target, results, err)
		return err
	})
}

func (s *Store) finishValidate(id uint64, target string, results []iambic.ValidationResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.latest[intentValidate] {
		requestsTotal.WithLabelValues(string(intentValidate), "stale").Inc()
		logger.Log.Debug("discarding stale response", "component", "composer", "intent", string(intentValidate), "id", id)
		return
	}
	requestsTotal.WithLabelValues(string(intentValidate), outcome(err)).Inc()

	s.validating, s.validatingBody = false, ""
	if err != nil {
		logFailure(intentValidate, err)
		if displayable(err) {
			s.showErrorLocked(errorMessage(err))
			s.notifyLocked()
		}
		return
	}
	s.state = validated(s.state, target, results)
	s.notifyLocked()
}

// FetchPosts replaces the post list. A failed fetch keeps the list the
// store already has.
func (s *Store) FetchPosts(ctx context.Context) *Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return completedTask(ErrClosed, false)
	}

	s.latest[intentFetch]++
	id := s.latest[intentFetch]

	return s.startLocked(ctx, func(ctx context.Context) error {
		posts, err := s.api.ListPosts(ctx)
		s.finishFetch(id, posts, err)
		return err
	})
}

func (s *Store) finishFetch(id uint64, posts []iambic.Post, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != s.latest[intentFetch] {
		requestsTotal.WithLabelValues(string(intentFetch), "stale").Inc()
		logger.Log.Debug("discarding stale response", "component", "composer", "intent", string(intentFetch), "id", id)
		return
	}
	requestsTotal.WithLabelValues(string(intentFetch), outcome(err)).Inc()

	if err != nil {
		logFailure(intentFetch, err)
		if displayable(err) {
			s.showErrorLocked(errorMessage(err))
			s.notifyLocked()
		}
		return
	}
	s.state = postsFetched(s.state, posts)
	s.notifyLocked()
}

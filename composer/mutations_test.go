package composer

import (
	"testing"

	"iambic/iambic"

	"github.com/stretchr/testify/assert"
)

func TestMutations(t *testing.T) {
	draft := State{WorkingPost: WorkingPost{Body: "draft", Loading: true}}

	tests := []struct {
		name string
		in   State
		mut  func(State) State
		want State
	}{
		{
			name: "update body",
			in:   State{},
			mut:  func(s State) State { return updateBody(s, "new") },
			want: State{WorkingPost: WorkingPost{Body: "new"}},
		},
		{
			name: "begin submit",
			in:   State{WorkingPost: WorkingPost{Body: "draft"}},
			mut:  beginSubmit,
			want: State{WorkingPost: WorkingPost{Body: "draft", Loading: true}},
		},
		{
			name: "last submission succeeded",
			in:   draft,
			mut:  func(s State) State { return submitSucceeded(s, false) },
			want: State{},
		},
		{
			name: "submission succeeded with another in flight",
			in:   draft,
			mut:  func(s State) State { return submitSucceeded(s, true) },
			want: State{WorkingPost: WorkingPost{Loading: true}},
		},
		{
			name: "submission failed",
			in:   draft,
			mut:  func(s State) State { return submitFailed(s, false) },
			want: State{WorkingPost: WorkingPost{Body: "draft"}},
		},
		{
			name: "validated",
			in:   State{WorkingPost: WorkingPost{Body: "b"}},
			mut: func(s State) State {
				return validated(s, "a", []iambic.ValidationResult{{OK: true, Reason: iambic.ReasonOK}})
			},
			want: State{WorkingPost: WorkingPost{
				Body:              "b",
				LastValidatedBody: "a",
				ValidationErrors:  []iambic.ValidationResult{{OK: true, Reason: iambic.ReasonOK}},
			}},
		},
		{
			name: "posts fetched",
			in:   State{Posts: []iambic.Post{{ID: 1}}},
			mut:  func(s State) State { return postsFetched(s, []iambic.Post{{ID: 2}}) },
			want: State{Posts: []iambic.Post{{ID: 2}}},
		},
		{
			name: "show error",
			in:   State{Banner: ErrorBanner{Message: "old"}},
			mut:  func(s State) State { return showError(s, "new") },
			want: State{Banner: ErrorBanner{Message: "new"}},
		},
		{
			name: "clear error",
			in:   State{Banner: ErrorBanner{Message: "old"}},
			mut:  clearError,
			want: State{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mut(tt.in))
		})
	}
}

func TestMutations_DoNotSharePayload(t *testing.T) {
	posts := []iambic.Post{{ID: 1, Body: "one"}}
	s := postsFetched(State{}, posts)
	posts[0].Body = "changed"
	assert.Equal(t, "one", s.Posts[0].Body)

	results := []iambic.ValidationResult{{OK: true}}
	s = validated(s, "x", results)
	results[0].OK = false
	assert.True(t, s.WorkingPost.ValidationErrors[0].OK)
}

// Package managertest holds the behaviour every iambic.Manager must share.
// Storage packages embed ManagerSuite and set Manager in SetupTest.
package managertest

import (
	"context"
	"fmt"
	"time"

	"iambic/iambic"

	"github.com/stretchr/testify/suite"
)

var ctx = context.Background()

type ManagerSuite struct {
	suite.Suite

	Manager iambic.Manager
}

func (s *ManagerSuite) addNPosts(n int) []iambic.Post {
	var posts []iambic.Post
	for i := 1; i <= n; i++ {
		p, err := s.Manager.AddPost(ctx, fmt.Sprintf("This is post number %d", i))
		s.Require().NoError(err)
		posts = append(posts, p)
	}
	return posts
}

func (s *ManagerSuite) TestAddPost() {
	before := time.Now().Add(-time.Second)
	p, err := s.Manager.AddPost(ctx, "Shall I compare thee to a summer's day?")
	s.Require().NoError(err)
	s.Require().NotZero(p.ID)
	s.Require().Equal("Shall I compare thee to a summer's day?", p.Body)
	s.Require().True(p.CreatedAt.After(before))
}

func (s *ManagerSuite) TestAddPost_EmptyBody() {
	p, err := s.Manager.AddPost(ctx, "")
	s.Require().NoError(err)
	s.Require().NotZero(p.ID)
	s.Require().Empty(p.Body)
}

func (s *ManagerSuite) TestAddPost_IdsIncrease() {
	posts := s.addNPosts(3)
	s.Require().Less(posts[0].ID, posts[1].ID)
	s.Require().Less(posts[1].ID, posts[2].ID)
}

func (s *ManagerSuite) TestGetPost() {
	posts := s.addNPosts(3)

	got, err := s.Manager.GetPost(ctx, posts[1].ID)
	s.Require().NoError(err)
	s.Require().Equal(posts[1].ID, got.ID)
	s.Require().Equal("This is post number 2", got.Body)
	s.Require().WithinDuration(posts[1].CreatedAt, got.CreatedAt, time.Millisecond)
}

func (s *ManagerSuite) TestGetPost_NotFound() {
	_, err := s.Manager.GetPost(ctx, 424242)
	s.Require().ErrorIs(err, iambic.ErrNotFound)
}

func (s *ManagerSuite) TestListPosts_Empty() {
	posts, err := s.Manager.ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Empty(posts)
}

func (s *ManagerSuite) TestListPosts_CreationOrder() {
	created := s.addNPosts(5)

	posts, err := s.Manager.ListPosts(ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 5)
	for i := range created {
		s.Require().Equal(created[i].ID, posts[i].ID)
		s.Require().Equal(created[i].Body, posts[i].Body)
	}
}

func (s *ManagerSuite) TestIsReady() {
	s.Require().True(s.Manager.IsReady(ctx))
}

package apiclient

import (
	"context"
	"fmt"
	"net/http"

	"iambic/iambic"
)

type postRequest struct {
	Body string `json:"body"`
}

func (c *Client) ListPosts(ctx context.Context) ([]iambic.Post, error) {
	resp, err := c.do(ctx, http.MethodGet, "/posts", nil)
	if err != nil {
		return nil, err
	}
	posts := []iambic.Post{}
	if err := decode(resp, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetPost(ctx context.Context, id int64) (iambic.Post, error) {
	var post iambic.Post
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil)
	if err != nil {
		return post, err
	}
	err = decode(resp, &post)
	return post, err
}

func (c *Client) CreatePost(ctx context.Context, body string) (iambic.Post, error) {
	var post iambic.Post
	resp, err := c.do(ctx, http.MethodPost, "/posts", postRequest{Body: body})
	if err != nil {
		return post, err
	}
	err = decode(resp, &post)
	return post, err
}

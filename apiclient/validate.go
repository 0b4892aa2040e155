package apiclient

import (
	"context"
	"net/http"

	"iambic/iambic"
)

// ValidatePost returns one result per line of body.
func (c *Client) ValidatePost(ctx context.Context, body string) ([]iambic.ValidationResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/validate", postRequest{Body: body})
	if err != nil {
		return nil, err
	}
	results := []iambic.ValidationResult{}
	if err := decode(resp, &results); err != nil {
		return nil, err
	}
	return results, nil
}

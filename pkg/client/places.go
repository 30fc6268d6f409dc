package client

import (
	"context"
	"fmt"

	"github.com/planit-ai/planit/pkg/domain"
)

// SearchPlaces looks up places in a destination city.
func (c *Client) SearchPlaces(ctx context.Context, destinationCode, query string) ([]domain.Place, error) {
	body := map[string]string{"destinationCode": destinationCode, "query": query}
	var env envelope[struct {
		Items []domain.Place `json:"items"`
	}]
	if err := c.post(ctx, "/places/search", body, &env); err != nil {
		return nil, fmt.Errorf("client.SearchPlaces: %w", err)
	}
	return env.Data.Items, nil
}

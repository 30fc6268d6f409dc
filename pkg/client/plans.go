package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/planit-ai/planit/pkg/domain"
)

// ListMyPlans returns plans the signed-in user belongs to.
func (c *Client) ListMyPlans(ctx context.Context) ([]domain.PlanPreview, error) {
	var plans []domain.PlanPreview
	if err := c.get(ctx, "/plans?mine=true", &plans); err != nil {
		return nil, fmt.Errorf("client.ListMyPlans: %w", err)
	}
	return plans, nil
}

// DeletePlan deletes a plan by ID.
func (c *Client) DeletePlan(ctx context.Context, planID int64) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/plans/"+strconv.FormatInt(planID, 10), nil, nil); err != nil {
		return fmt.Errorf("client.DeletePlan: %w", err)
	}
	return nil
}

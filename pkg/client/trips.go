package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/planit-ai/planit/pkg/domain"
)

// CreateTrip starts itinerary generation. The returned trip may have no
// itineraries yet; poll TripItineraries until it does.
func (c *Client) CreateTrip(ctx context.Context, req domain.CreateTripRequest) (*domain.Trip, error) {
	var env envelope[domain.Trip]
	if err := c.post(ctx, "/trips", req, &env); err != nil {
		return nil, fmt.Errorf("client.CreateTrip: %w", err)
	}
	return &env.Data, nil
}

// TripItineraries fetches the generated itinerary of a trip.
func (c *Client) TripItineraries(ctx context.Context, tripID int64) (*domain.Trip, error) {
	var env envelope[domain.Trip]
	path := "/trips/" + strconv.FormatInt(tripID, 10) + "/itineraries"
	if err := c.get(ctx, path, &env); err != nil {
		return nil, fmt.Errorf("client.TripItineraries: %w", err)
	}
	return &env.Data, nil
}

// MyItineraries returns the signed-in user's current trip.
func (c *Client) MyItineraries(ctx context.Context) (*domain.Trip, error) {
	var env envelope[domain.Trip]
	if err := c.get(ctx, "/trips/itineraries", &env); err != nil {
		return nil, fmt.Errorf("client.MyItineraries: %w", err)
	}
	return &env.Data, nil
}

// DeleteTrip deletes the signed-in user's current trip.
func (c *Client) DeleteTrip(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/trips", nil, nil); err != nil {
		return fmt.Errorf("client.DeleteTrip: %w", err)
	}
	return nil
}

// UpdateTripDay edits activities within one itinerary day.
func (c *Client) UpdateTripDay(ctx context.Context, dayID int64, places []domain.UpdateTripPlace) error {
	body := struct {
		DayID  int64                    `json:"dayId"`
		Places []domain.UpdateTripPlace `json:"places"`
	}{dayID, places}
	if err := c.doRequest(ctx, http.MethodPatch, "/trips/itineraries/days", body, nil); err != nil {
		return fmt.Errorf("client.UpdateTripDay: %w", err)
	}
	return nil
}

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"
)

type googleResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func googleLookup(apiKey string) lookupFunc {
	return func(ctx context.Context, client *resty.Client, address string) (Coordinates, error) {
		resp, err := client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"address": address,
				"key":     apiKey,
			}).
			Get("/maps/api/geocode/json")
		if err := checkResponse(resp, err); err != nil {
			return Coordinates{}, err
		}

		var body googleResponse
		if err := json.Unmarshal(resp.Body(), &body); err != nil {
			return Coordinates{}, fmt.Errorf("decode google response: %w", err)
		}
		if body.Status != "OK" {
			return Coordinates{}, fmt.Errorf("google status %s", body.Status)
		}
		if len(body.Results) == 0 {
			return Coordinates{}, errNoResults
		}

		loc := body.Results[0].Geometry.Location
		return Coordinates{Lat: loc.Lat, Lng: loc.Lng}, nil
	}
}

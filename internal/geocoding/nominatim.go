package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
)

var errNoResults = errors.New("no results")

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func lookupNominatim(ctx context.Context, client *resty.Client, address string) (Coordinates, error) {
	resp, err := client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      address,
			"format": "json",
			"limit":  "1",
		}).
		Get("/search")
	if err := checkResponse(resp, err); err != nil {
		return Coordinates{}, err
	}

	var results []nominatimResult
	if err := json.Unmarshal(resp.Body(), &results); err != nil {
		return Coordinates{}, fmt.Errorf("decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return Coordinates{}, errNoResults
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("parse longitude: %w", err)
	}

	return Coordinates{Lat: lat, Lng: lng}, nil
}

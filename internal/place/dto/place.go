package dto

import "github.com/AlibekovAA/places-directory/internal/place/domain"

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Place struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Location    Location `json:"location"`
	Image       string   `json:"image"`
	Creator     string   `json:"creator"`
}

func FromDomain(p domain.Place) Place {
	return Place{
		ID:          string(p.ID),
		Title:       p.Title,
		Description: p.Description,
		Address:     p.Address,
		Location:    Location{Lat: p.Location.Lat, Lng: p.Location.Lng},
		Image:       p.Image,
		Creator:     string(p.CreatorID),
	}
}

func FromDomainList(places []domain.Place) []Place {
	out := make([]Place, 0, len(places))
	for _, p := range places {
		out = append(out, FromDomain(p))
	}
	return out
}

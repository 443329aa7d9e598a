package domain

import (
	"time"

	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
)

type ID string

type Location struct {
	Lat float64
	Lng float64
}

type Place struct {
	ID          ID
	Title       string
	Description string
	Address     string
	Location    Location
	Image       string
	CreatorID   userdomain.ID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p Place) OwnedBy(userID userdomain.ID) bool {
	return p.CreatorID == userID
}

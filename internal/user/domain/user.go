package domain

import "time"

type ID string

type User struct {
	ID           ID
	Name         string
	Email        string
	PasswordHash string
	Image        string
	Places       []string
	CreatedAt    time.Time
}

// Summary is a user without credentials.
type Summary struct {
	ID        ID
	Name      string
	Email     string
	Image     string
	Places    []string
	CreatedAt time.Time
}

func (u User) Summary() Summary {
	places := make([]string, len(u.Places))
	copy(places, u.Places)

	return Summary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Image:     u.Image,
		Places:    places,
		CreatedAt: u.CreatedAt,
	}
}

// Package memory keeps users and places in process memory. It backs
// STORE_DRIVER=memory and the end-to-end HTTP tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	placedomain "github.com/AlibekovAA/places-directory/internal/place/domain"
	placerepo "github.com/AlibekovAA/places-directory/internal/place/repository"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-directory/internal/user/repository"
)

type Store struct {
	mu     sync.RWMutex
	users  map[userdomain.ID]userdomain.User
	emails map[string]userdomain.ID
	places map[placedomain.ID]placedomain.Place
}

func New() *Store {
	return &Store{
		users:  make(map[userdomain.ID]userdomain.User),
		emails: make(map[string]userdomain.ID),
		places: make(map[placedomain.ID]placedomain.Place),
	}
}

func (s *Store) Users() *UserRepository {
	return &UserRepository{s: s}
}

func (s *Store) Places() *PlaceRepository {
	return &PlaceRepository{s: s}
}

func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

type UserRepository struct {
	s *Store
}

var _ userrepo.Repository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user userdomain.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := r.s.emails[key]; exists {
		return userrepo.ErrEmailAlreadyExists
	}

	user.Places = cloneIDs(user.Places)
	r.s.users[user.ID] = user
	r.s.emails[key] = user.ID
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (userdomain.User, error) {
	if err := ctx.Err(); err != nil {
		return userdomain.User{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[strings.ToLower(email)]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return copyUser(r.s.users[id]), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if err := ctx.Err(); err != nil {
		return userdomain.User{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	user, ok := r.s.users[id]
	if !ok {
		return userdomain.User{}, userrepo.ErrUserNotFound
	}
	return copyUser(user), nil
}

func (r *UserRepository) List(ctx context.Context) ([]userdomain.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]userdomain.Summary, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type PlaceRepository struct {
	s *Store
}

var _ placerepo.Repository = (*PlaceRepository)(nil)

func (r *PlaceRepository) FindByID(ctx context.Context, id placedomain.ID) (placedomain.Place, error) {
	if err := ctx.Err(); err != nil {
		return placedomain.Place{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	place, ok := r.s.places[id]
	if !ok {
		return placedomain.Place{}, placerepo.ErrPlaceNotFound
	}
	return place, nil
}

func (r *PlaceRepository) ListByCreator(ctx context.Context, creatorID userdomain.ID) ([]placedomain.Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]placedomain.Place, 0)
	for _, p := range r.s.places {
		if p.CreatorID == creatorID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PlaceRepository) Update(ctx context.Context, place placedomain.Place) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.places[place.ID]
	if !ok {
		return placerepo.ErrPlaceNotFound
	}
	current.Title = place.Title
	current.Description = place.Description
	current.UpdatedAt = place.UpdatedAt
	r.s.places[place.ID] = current
	return nil
}

func copyUser(u userdomain.User) userdomain.User {
	u.Places = cloneIDs(u.Places)
	return u
}

func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

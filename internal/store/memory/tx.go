package memory

import (
	"context"

	placedomain "github.com/AlibekovAA/places-directory/internal/place/domain"
	placerepo "github.com/AlibekovAA/places-directory/internal/place/repository"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
)

// TxManager serializes transactions behind the store's write lock. The
// callback works on private copies that replace the live maps only when
// it returns nil, so a failed callback leaves no partial writes. The
// callback must not call back into the store's repositories.
type TxManager struct {
	s *Store
}

var _ placerepo.TxManager = (*TxManager)(nil)

func (m *TxManager) WithTx(ctx context.Context, fn func(context.Context, placerepo.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	tx := &memTx{
		users:  make(map[userdomain.ID]userdomain.User, len(m.s.users)),
		places: make(map[placedomain.ID]placedomain.Place, len(m.s.places)),
	}
	for id, u := range m.s.users {
		tx.users[id] = u
	}
	for id, p := range m.s.places {
		tx.places[id] = p
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.s.users = tx.users
	m.s.places = tx.places
	return nil
}

type memTx struct {
	users  map[userdomain.ID]userdomain.User
	places map[placedomain.ID]placedomain.Place
}

func (t *memTx) CreatePlace(ctx context.Context, place placedomain.Place) error {
	if _, ok := t.users[place.CreatorID]; !ok {
		return placerepo.ErrCreatorNotFound
	}
	t.places[place.ID] = place
	return nil
}

func (t *memTx) DeletePlace(ctx context.Context, id placedomain.ID) error {
	if _, ok := t.places[id]; !ok {
		return placerepo.ErrPlaceNotFound
	}
	delete(t.places, id)
	return nil
}

func (t *memTx) AttachToUser(ctx context.Context, userID userdomain.ID, placeID placedomain.ID) error {
	u, ok := t.users[userID]
	if !ok {
		return placerepo.ErrCreatorNotFound
	}
	u.Places = append(cloneIDs(u.Places), string(placeID))
	t.users[userID] = u
	return nil
}

func (t *memTx) DetachFromUser(ctx context.Context, userID userdomain.ID, placeID placedomain.ID) error {
	u, ok := t.users[userID]
	if !ok {
		return placerepo.ErrCreatorNotFound
	}
	kept := make([]string, 0, len(u.Places))
	for _, id := range u.Places {
		if id != string(placeID) {
			kept = append(kept, id)
		}
	}
	u.Places = kept
	t.users[userID] = u
	return nil
}

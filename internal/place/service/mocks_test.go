package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/AlibekovAA/places-directory/internal/geocoding"
	"github.com/AlibekovAA/places-directory/internal/place/domain"
	"github.com/AlibekovAA/places-directory/internal/place/feed"
	placerepo "github.com/AlibekovAA/places-directory/internal/place/repository"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
)

type mockPlaceRepo struct {
	findByIDFunc      func(ctx context.Context, id domain.ID) (domain.Place, error)
	listByCreatorFunc func(ctx context.Context, creatorID userdomain.ID) ([]domain.Place, error)
	updateFunc        func(ctx context.Context, place domain.Place) error
}

func (m *mockPlaceRepo) FindByID(ctx context.Context, id domain.ID) (domain.Place, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Place{}, placerepo.ErrPlaceNotFound
}

func (m *mockPlaceRepo) ListByCreator(ctx context.Context, creatorID userdomain.ID) ([]domain.Place, error) {
	if m.listByCreatorFunc != nil {
		return m.listByCreatorFunc(ctx, creatorID)
	}
	return nil, nil
}

func (m *mockPlaceRepo) Update(ctx context.Context, place domain.Place) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, place)
	}
	return nil
}

type mockTx struct {
	createPlaceFunc    func(ctx context.Context, place domain.Place) error
	deletePlaceFunc    func(ctx context.Context, id domain.ID) error
	attachToUserFunc   func(ctx context.Context, userID userdomain.ID, placeID domain.ID) error
	detachFromUserFunc func(ctx context.Context, userID userdomain.ID, placeID domain.ID) error
}

func (m *mockTx) CreatePlace(ctx context.Context, place domain.Place) error {
	if m.createPlaceFunc != nil {
		return m.createPlaceFunc(ctx, place)
	}
	return nil
}

func (m *mockTx) DeletePlace(ctx context.Context, id domain.ID) error {
	if m.deletePlaceFunc != nil {
		return m.deletePlaceFunc(ctx, id)
	}
	return nil
}

func (m *mockTx) AttachToUser(ctx context.Context, userID userdomain.ID, placeID domain.ID) error {
	if m.attachToUserFunc != nil {
		return m.attachToUserFunc(ctx, userID, placeID)
	}
	return nil
}

func (m *mockTx) DetachFromUser(ctx context.Context, userID userdomain.ID, placeID domain.ID) error {
	if m.detachFromUserFunc != nil {
		return m.detachFromUserFunc(ctx, userID, placeID)
	}
	return nil
}

type mockTxManager struct {
	tx    *mockTx
	calls int
}

func (m *mockTxManager) WithTx(ctx context.Context, fn func(context.Context, placerepo.Tx) error) error {
	m.calls++
	return fn(ctx, m.tx)
}

type mockUserFinder struct {
	findByIDFunc func(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return userdomain.User{ID: id}, nil
}

type mockGeocoder struct {
	resolveFunc func(ctx context.Context, address string) (geocoding.Coordinates, error)
	calls       int
}

func (m *mockGeocoder) Resolve(ctx context.Context, address string) (geocoding.Coordinates, error) {
	m.calls++
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, address)
	}
	return geocoding.Coordinates{Lat: 1, Lng: 2}, nil
}

type mockImageRemover struct {
	removeFunc func(ctx context.Context, ref string) error
	removed    []string
}

func (m *mockImageRemover) Remove(ctx context.Context, ref string) error {
	m.removed = append(m.removed, ref)
	if m.removeFunc != nil {
		return m.removeFunc(ctx, ref)
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []feed.Event
}

func (p *recordingPublisher) Publish(event feed.Event) {
	p.mu.Lock()
	p.events = append(p.events, event)
	p.mu.Unlock()
}

type sequenceIDs struct {
	next int
}

func (g *sequenceIDs) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("place-%d", g.next), nil
}

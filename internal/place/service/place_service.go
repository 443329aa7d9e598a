package service

import (
	"context"
	"errors"
	"strings"

	"github.com/AlibekovAA/places-directory/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	commonerrors "github.com/AlibekovAA/places-directory/internal/common/errors"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/common/validation"
	"github.com/AlibekovAA/places-directory/internal/geocoding"
	"github.com/AlibekovAA/places-directory/internal/observability/metrics"
	"github.com/AlibekovAA/places-directory/internal/place/domain"
	"github.com/AlibekovAA/places-directory/internal/place/dto"
	"github.com/AlibekovAA/places-directory/internal/place/feed"
	placerepo "github.com/AlibekovAA/places-directory/internal/place/repository"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
	userrepo "github.com/AlibekovAA/places-directory/internal/user/repository"
)

type UserFinder interface {
	FindByID(ctx context.Context, id userdomain.ID) (userdomain.User, error)
}

type ImageRemover interface {
	Remove(ctx context.Context, ref string) error
}

type Deps struct {
	Repo        placerepo.Repository
	TxManager   placerepo.TxManager
	Users       UserFinder
	Geocoder    geocoding.Geocoder
	Images      ImageRemover
	Events      feed.Publisher
	IDGenerator commoncrypto.IDGenerator
	Clock       clock.Clock
	Log         *logger.Logger
}

type PlaceService struct {
	repo        placerepo.Repository
	txManager   placerepo.TxManager
	users       UserFinder
	geocoder    geocoding.Geocoder
	images      ImageRemover
	events      feed.Publisher
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	log         *logger.Logger
}

func NewPlaceService(deps Deps) *PlaceService {
	events := deps.Events
	if events == nil {
		events = feed.NopPublisher{}
	}
	c := deps.Clock
	if c == nil {
		c = clock.NewRealClock()
	}

	return &PlaceService{
		repo:        deps.Repo,
		txManager:   deps.TxManager,
		users:       deps.Users,
		geocoder:    deps.Geocoder,
		images:      deps.Images,
		events:      events,
		idGenerator: deps.IDGenerator,
		clock:       c,
		log:         deps.Log,
	}
}

type CreateInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"min=5"`
	Address     string `json:"address" validate:"required"`
	CreatorID   userdomain.ID
	Image       string
}

type UpdateInput struct {
	PlaceID     domain.ID
	CallerID    userdomain.ID
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"min=5"`
}

type DeleteInput struct {
	PlaceID  domain.ID
	CallerID userdomain.ID
}

func (s *PlaceService) GetByID(ctx context.Context, id domain.ID) (domain.Place, error) {
	place, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, placerepo.ErrPlaceNotFound) {
			return domain.Place{}, ErrPlaceNotFound
		}
		s.log.WithFields(ctx, logger.Fields{
			"place_id": id,
			"action":   "place_get_failed",
		}).Errorf("get place failed: %v", err)
		return domain.Place{}, commonerrors.ErrStore.WithMessage("Something went wrong, could not find a place.").WithCause(err)
	}
	return place, nil
}

// ListByUser treats a user with no places the same as an unknown user.
func (s *PlaceService) ListByUser(ctx context.Context, userID userdomain.ID) ([]domain.Place, error) {
	places, err := s.repo.ListByCreator(ctx, userID)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"user_id": userID,
			"action":  "place_list_failed",
		}).Errorf("list places failed: %v", err)
		return nil, commonerrors.ErrStore.WithMessage("Fetching places failed, please try again later.").WithCause(err)
	}
	if len(places) == 0 {
		return nil, ErrUserPlacesNotFound
	}
	return places, nil
}

func (s *PlaceService) Create(ctx context.Context, input CreateInput) (domain.Place, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Address = strings.TrimSpace(input.Address)

	logFields := logger.Fields{
		"user_id": input.CreatorID,
		"action":  "place_create",
	}

	if err := validation.Struct(input); err != nil {
		s.recordOutcome("create", "invalid")
		return domain.Place{}, err
	}

	coords, err := s.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		s.recordOutcome("create", "geocode_failed")
		if !commonerrors.IsDomainError(err) {
			err = geocoding.ErrGeocode.WithCause(err)
		}
		return domain.Place{}, err
	}

	if _, err := s.users.FindByID(ctx, input.CreatorID); err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			s.recordOutcome("create", "creator_missing")
			return domain.Place{}, ErrCreatorNotFound
		}
		s.log.WithFields(ctx, logFields).Errorf("creator lookup failed: %v", err)
		return domain.Place{}, commonerrors.ErrStore.WithMessage("Creating place failed, please try again.").WithCause(err)
	}

	id, err := s.idGenerator.NewID()
	if err != nil {
		return domain.Place{}, commonerrors.ErrStore.WithMessage("Creating place failed, please try again.").WithCause(err)
	}

	now := s.clock.Now()
	place := domain.Place{
		ID:          domain.ID(id),
		Title:       input.Title,
		Description: input.Description,
		Address:     input.Address,
		Location:    domain.Location{Lat: coords.Lat, Lng: coords.Lng},
		Image:       input.Image,
		CreatorID:   input.CreatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context, tx placerepo.Tx) error {
		if err := tx.CreatePlace(ctx, place); err != nil {
			return err
		}
		return tx.AttachToUser(ctx, place.CreatorID, place.ID)
	})
	if err != nil {
		if errors.Is(err, placerepo.ErrCreatorNotFound) {
			s.recordOutcome("create", "creator_missing")
			return domain.Place{}, ErrCreatorNotFound
		}
		s.recordOutcome("create", "failed")
		s.log.WithFields(ctx, logFields).Errorf("create place transaction failed: %v", err)
		return domain.Place{}, commonerrors.ErrStore.WithMessage("Creating place failed, please try again.").WithCause(err)
	}

	s.recordOutcome("create", "success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  place.CreatorID,
		"place_id": place.ID,
		"action":   "place_created",
	}).Info("place created")
	s.publish(feed.EventPlaceCreated, place, true)

	return place, nil
}

func (s *PlaceService) Update(ctx context.Context, input UpdateInput) (domain.Place, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)

	if err := validation.Struct(input); err != nil {
		s.recordOutcome("update", "invalid")
		return domain.Place{}, err
	}

	place, err := s.GetByID(ctx, input.PlaceID)
	if err != nil {
		return domain.Place{}, err
	}

	if !place.OwnedBy(input.CallerID) {
		s.recordOutcome("update", "forbidden")
		s.log.WithFields(ctx, logger.Fields{
			"user_id":  input.CallerID,
			"place_id": place.ID,
			"action":   "place_update_forbidden",
		}).Warn("update rejected: caller is not the creator")
		return domain.Place{}, ErrNotPlaceOwner
	}

	place.Title = input.Title
	place.Description = input.Description
	place.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, place); err != nil {
		if errors.Is(err, placerepo.ErrPlaceNotFound) {
			return domain.Place{}, ErrPlaceNotFound
		}
		s.recordOutcome("update", "failed")
		s.log.WithFields(ctx, logger.Fields{
			"place_id": place.ID,
			"action":   "place_update_failed",
		}).Errorf("update place failed: %v", err)
		return domain.Place{}, commonerrors.ErrStore.WithMessage("Something went wrong, could not update place.").WithCause(err)
	}

	s.recordOutcome("update", "success")
	s.publish(feed.EventPlaceUpdated, place, true)
	return place, nil
}

// Delete removes the place and its owner's reference together, then the
// image. A failed image removal is logged and does not fail the call.
func (s *PlaceService) Delete(ctx context.Context, input DeleteInput) error {
	place, err := s.GetByID(ctx, input.PlaceID)
	if err != nil {
		return err
	}

	if !place.OwnedBy(input.CallerID) {
		s.recordOutcome("delete", "forbidden")
		s.log.WithFields(ctx, logger.Fields{
			"user_id":  input.CallerID,
			"place_id": place.ID,
			"action":   "place_delete_forbidden",
		}).Warn("delete rejected: caller is not the creator")
		return ErrNotPlaceOwner.WithMessage("You are not allowed to delete this place.")
	}

	err = s.txManager.WithTx(ctx, func(ctx context.Context, tx placerepo.Tx) error {
		if err := tx.DeletePlace(ctx, place.ID); err != nil {
			return err
		}
		return tx.DetachFromUser(ctx, place.CreatorID, place.ID)
	})
	if err != nil {
		if errors.Is(err, placerepo.ErrPlaceNotFound) {
			return ErrPlaceNotFound
		}
		s.recordOutcome("delete", "failed")
		s.log.WithFields(ctx, logger.Fields{
			"place_id": place.ID,
			"action":   "place_delete_failed",
		}).Errorf("delete place transaction failed: %v", err)
		return commonerrors.ErrStore.WithMessage("Something went wrong, could not delete place.").WithCause(err)
	}

	if s.images != nil && place.Image != "" {
		if err := s.images.Remove(ctx, place.Image); err != nil {
			s.log.WithFields(ctx, logger.Fields{
				"place_id": place.ID,
				"image":    place.Image,
				"action":   "place_image_delete_failed",
			}).Warnf("place image delete failed: %v", err)
		}
	}

	s.recordOutcome("delete", "success")
	s.log.WithFields(ctx, logger.Fields{
		"user_id":  input.CallerID,
		"place_id": place.ID,
		"action":   "place_deleted",
	}).Info("place deleted")
	s.publish(feed.EventPlaceDeleted, place, false)
	return nil
}

func (s *PlaceService) publish(eventType feed.EventType, place domain.Place, withPlace bool) {
	event := feed.Event{
		Type:      eventType,
		PlaceID:   string(place.ID),
		CreatorID: string(place.CreatorID),
	}
	if withPlace {
		p := dto.FromDomain(place)
		event.Place = &p
	}
	s.events.Publish(event)
}

func (s *PlaceService) recordOutcome(operation, outcome string) {
	metrics.PlaceOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

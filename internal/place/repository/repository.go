package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/places-directory/internal/common/db"
	"github.com/AlibekovAA/places-directory/internal/place/domain"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
)

var (
	ErrPlaceNotFound   = errors.New("place not found")
	ErrCreatorNotFound = errors.New("creator not found")
)

type Repository interface {
	FindByID(ctx context.Context, id domain.ID) (domain.Place, error)
	ListByCreator(ctx context.Context, creatorID userdomain.ID) ([]domain.Place, error)
	Update(ctx context.Context, place domain.Place) error
}

// Tx groups the writes that must land together: a place row and the
// owning user's reference to it.
type Tx interface {
	CreatePlace(ctx context.Context, place domain.Place) error
	DeletePlace(ctx context.Context, id domain.ID) error
	AttachToUser(ctx context.Context, userID userdomain.ID, placeID domain.ID) error
	DetachFromUser(ctx context.Context, userID userdomain.ID, placeID domain.ID) error
}

type TxManager interface {
	WithTx(ctx context.Context, fn func(context.Context, Tx) error) error
}

const placeColumns = `id::text, title, description, address, lat, lng, image, creator_id::text, created_at, updated_at`

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Place, error) {
	if !isUUID(string(id)) {
		return domain.Place{}, ErrPlaceNotFound
	}

	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+placeColumns+` FROM places WHERE id = $1`, string(id))

	place, err := scanPlace(row)
	if err != nil {
		return domain.Place{}, db.HandleQueryError(err, ErrPlaceNotFound, "find place by id", start)
	}
	db.MeasureQueryDuration("find place by id", start)
	return place, nil
}

func (r *PgRepository) ListByCreator(ctx context.Context, creatorID userdomain.ID) ([]domain.Place, error) {
	places := make([]domain.Place, 0)
	if !isUUID(string(creatorID)) {
		return places, nil
	}

	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+placeColumns+` FROM places WHERE creator_id = $1 ORDER BY created_at ASC`,
		string(creatorID),
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list places by creator", start)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, db.HandleExecError(err, "scan place", start)
		}
		places = append(places, p)
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list places by creator", start)
	}

	db.MeasureQueryDuration("list places by creator", start)
	return places, nil
}

func (r *PgRepository) Update(ctx context.Context, place domain.Place) error {
	start := time.Now()
	tag, err := r.pool.Exec(
		ctx,
		`UPDATE places SET title = $2, description = $3, updated_at = $4 WHERE id = $1`,
		string(place.ID),
		place.Title,
		place.Description,
		place.UpdatedAt,
	)
	if err != nil {
		return db.HandleExecError(err, "update place", start)
	}
	db.MeasureQueryDuration("update place", start)
	if tag.RowsAffected() == 0 {
		return ErrPlaceNotFound
	}
	return nil
}

type PgTxManager struct {
	pool *pgxpool.Pool
}

func NewPgTxManager(pool *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{pool: pool}
}

func (m *PgTxManager) WithTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	return db.RunInTx(ctx, m.pool, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, &pgTx{q: tx})
	})
}

type pgTx struct {
	q db.DBTX
}

func (t *pgTx) CreatePlace(ctx context.Context, place domain.Place) error {
	start := time.Now()
	_, err := t.q.Exec(
		ctx,
		`INSERT INTO places (id, title, description, address, lat, lng, image, creator_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(place.ID),
		place.Title,
		place.Description,
		place.Address,
		place.Location.Lat,
		place.Location.Lng,
		place.Image,
		string(place.CreatorID),
		place.CreatedAt,
		place.UpdatedAt,
	)
	if db.IsForeignKeyViolation(err) {
		db.MeasureQueryDuration("create place", start)
		return ErrCreatorNotFound
	}
	return db.HandleExecError(err, "create place", start)
}

func (t *pgTx) DeletePlace(ctx context.Context, id domain.ID) error {
	start := time.Now()
	tag, err := t.q.Exec(ctx, `DELETE FROM places WHERE id = $1`, string(id))
	if err != nil {
		return db.HandleExecError(err, "delete place", start)
	}
	db.MeasureQueryDuration("delete place", start)
	if tag.RowsAffected() == 0 {
		return ErrPlaceNotFound
	}
	return nil
}

func (t *pgTx) AttachToUser(ctx context.Context, userID userdomain.ID, placeID domain.ID) error {
	start := time.Now()
	tag, err := t.q.Exec(
		ctx,
		`UPDATE users SET place_ids = array_append(place_ids, $2) WHERE id = $1`,
		string(userID),
		string(placeID),
	)
	if err != nil {
		return db.HandleExecError(err, "attach place to user", start)
	}
	db.MeasureQueryDuration("attach place to user", start)
	if tag.RowsAffected() == 0 {
		return ErrCreatorNotFound
	}
	return nil
}

func (t *pgTx) DetachFromUser(ctx context.Context, userID userdomain.ID, placeID domain.ID) error {
	start := time.Now()
	tag, err := t.q.Exec(
		ctx,
		`UPDATE users SET place_ids = array_remove(place_ids, $2) WHERE id = $1`,
		string(userID),
		string(placeID),
	)
	if err != nil {
		return db.HandleExecError(err, "detach place from user", start)
	}
	db.MeasureQueryDuration("detach place from user", start)
	if tag.RowsAffected() == 0 {
		return ErrCreatorNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPlace(row rowScanner) (domain.Place, error) {
	var (
		p         domain.Place
		id        string
		creatorID string
	)
	err := row.Scan(
		&id,
		&p.Title,
		&p.Description,
		&p.Address,
		&p.Location.Lat,
		&p.Location.Lng,
		&p.Image,
		&creatorID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Place{}, err
	}
	p.ID = domain.ID(id)
	p.CreatorID = userdomain.ID(creatorID)
	return p, nil
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

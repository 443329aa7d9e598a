package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/places-directory/internal/common/db"
	"github.com/AlibekovAA/places-directory/internal/user/domain"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

type Repository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByID(ctx context.Context, id domain.ID) (domain.User, error)
	List(ctx context.Context) ([]domain.Summary, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const userColumns = `id::text, name, email, password_hash, image, place_ids, created_at`

func (r *PgRepository) Create(ctx context.Context, user domain.User) error {
	start := time.Now()
	places := user.Places
	if places == nil {
		places = []string{}
	}

	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO users (id, name, email, password_hash, image, place_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(user.ID),
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Image,
		places,
		user.CreatedAt,
	)
	if db.IsUniqueViolation(err) {
		db.MeasureQueryDuration("create user", start)
		return ErrEmailAlreadyExists
	}
	return db.HandleExecError(err, "create user", start)
}

func (r *PgRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, ErrUserNotFound, "find user by email", start)
	}
	db.MeasureQueryDuration("find user by email", start)
	return user, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.User, error) {
	if _, err := uuid.Parse(string(id)); err != nil {
		return domain.User{}, ErrUserNotFound
	}

	start := time.Now()
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, string(id))

	user, err := scanUser(row)
	if err != nil {
		return domain.User{}, db.HandleQueryError(err, ErrUserNotFound, "find user by id", start)
	}
	db.MeasureQueryDuration("find user by id", start)
	return user, nil
}

func (r *PgRepository) List(ctx context.Context) ([]domain.Summary, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, db.HandleExecError(err, "list users", start)
	}
	defer rows.Close()

	users := make([]domain.Summary, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, db.HandleExecError(err, "scan user", start)
		}
		users = append(users, u.Summary())
	}

	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, "list users", start)
	}

	db.MeasureQueryDuration("list users", start)
	return users, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		user domain.User
		id   string
	)
	if err := row.Scan(&id, &user.Name, &user.Email, &user.PasswordHash, &user.Image, &user.Places, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	user.ID = domain.ID(id)
	if user.Places == nil {
		user.Places = []string{}
	}
	return user, nil
}

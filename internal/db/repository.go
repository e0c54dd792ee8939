package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Relationship invariant violations surfaced by repositories. Handlers map
// these onto the HTTP error taxonomy.
var (
	ErrDuplicate     = errors.New("record already exists")
	ErrMissingTarget = errors.New("referenced record does not exist")
	ErrSelfLike      = errors.New("user cannot like their own post")
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// DB exposes the underlying gorm handle for query construction
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// isDuplicateKey reports whether err is a unique constraint violation. The
// raw SQLSTATE is matched as well in case the error reaches us untranslated.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

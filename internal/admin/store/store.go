package store

import (
	"context"
	"errors"

	"github.com/haulmatch/taxadmin/internal/admin/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, postgres)
// implement this. Sub-repositories are exposed as methods so a Tx-scoped
// Store can hand out the same repos bound to the transaction.
type Store interface {
	Users() Users
	Roles() Roles
	Categories() Categories
	FormFields() FormFields
	FormValues() FormValues

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user with its roles.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail returns a user with its roles. The lookup is case-insensitive.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID). Roles are ignored;
	// use AssignRole.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to role assignments.
	DeleteUser(ctx context.Context, id string) error

	// UpdateTOTPSecret sets the TOTP secret. An empty secret disables the second factor.
	UpdateTOTPSecret(ctx context.Context, userID, secret string) error

	// AssignRole links a user to a role. Assigning an existing role is a no-op.
	AssignRole(ctx context.Context, userID, roleID string) error
}

type Roles interface {
	GetRoleBySlug(ctx context.Context, slug string) (domain.Role, error)

	// CreateRole inserts a role, normalizing its slug.
	CreateRole(ctx context.Context, r domain.Role) error

	ListAll(ctx context.Context) ([]domain.Role, error)
}

type Categories interface {
	// ListRoots returns categories without a parent, with translations, ordered by slug.
	ListRoots(ctx context.Context) ([]domain.Category, error)

	// CreateCategory inserts a category with its translations and returns its id.
	CreateCategory(ctx context.Context, c domain.Category) (int64, error)
}

type FormFields interface {
	// ListForCategory returns fields whose slug contains slugFilter and that
	// own at least one value applying to categorySlug. Each field carries only
	// the matching values, ordered by rank (nulls last) then slug.
	ListForCategory(ctx context.Context, categorySlug, slugFilter string) ([]domain.FormField, error)

	CreateFormField(ctx context.Context, f domain.FormField) (int64, error)
}

type FormValues interface {
	GetFormValueByID(ctx context.Context, id int64) (domain.FormValue, error)

	CreateFormValue(ctx context.Context, v domain.FormValue) (int64, error)

	// UpdateFormValue overwrites every mutable column of v and bumps updated_at.
	UpdateFormValue(ctx context.Context, v domain.FormValue) error
}

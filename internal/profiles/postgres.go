package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tikbook/internal/common"
	"github.com/dmitrijs2005/tikbook/internal/dbx"
	"github.com/dmitrijs2005/tikbook/internal/models"
	"github.com/dmitrijs2005/tikbook/internal/profiles/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresDB is what PostgresStore needs from the pool; *sql.DB satisfies it.
type PostgresDB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// PostgresStore keeps one row per user.
type PostgresStore struct {
	db PostgresDB
}

func NewPostgresStore(db PostgresDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded users schema.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to migrate users: %w", err)
	}
	return nil
}

// OpenPostgres opens dsn with the pgx driver and migrates it.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

const userColumns = `id, email, username, password_hash, role, name, avatar, bio,
	balance, earnings, is_verified, verification_status, supporter_level,
	followers, following, likes, referral_code, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.Name, &u.Avatar, &u.Bio,
		&u.Balance, &u.Earnings, &u.IsVerified, &u.VerificationStatus, &u.SupporterLevel,
		&u.Followers, &u.Following, &u.Likes, &u.ReferralCode, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, u *models.User) (*models.User, error) {
	if u == nil || u.ID == "" {
		return nil, fmt.Errorf("%w: user id", common.ErrValidationMissing)
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	var createdAt, level any
	if !u.CreatedAt.IsZero() {
		createdAt = u.CreatedAt
	}
	if u.SupporterLevel != 0 {
		level = u.SupporterLevel
	}

	query := `INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5, ''), 'user'), $6, $7, $8, $9, $10, $11,
			COALESCE(NULLIF($12, ''), 'none'), COALESCE($13::integer, 1), $14, $15, $16, $17,
			COALESCE($18::timestamptz, now()))
		ON CONFLICT (id) DO UPDATE SET
			email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
			username = COALESCE(NULLIF(EXCLUDED.username, ''), users.username),
			password_hash = COALESCE(NULLIF(EXCLUDED.password_hash, ''), users.password_hash),
			role = COALESCE(NULLIF($5, ''), users.role),
			name = COALESCE(NULLIF(EXCLUDED.name, ''), users.name),
			avatar = COALESCE(NULLIF(EXCLUDED.avatar, ''), users.avatar),
			bio = COALESCE(NULLIF(EXCLUDED.bio, ''), users.bio),
			balance = EXCLUDED.balance,
			earnings = EXCLUDED.earnings,
			is_verified = EXCLUDED.is_verified,
			verification_status = COALESCE(NULLIF($12, ''), users.verification_status),
			supporter_level = COALESCE($13::integer, users.supporter_level),
			followers = EXCLUDED.followers,
			following = EXCLUDED.following,
			likes = EXCLUDED.likes,
			referral_code = COALESCE(NULLIF(EXCLUDED.referral_code, ''), users.referral_code),
			created_at = CASE WHEN $18::timestamptz IS NULL THEN users.created_at ELSE EXCLUDED.created_at END
		RETURNING ` + userColumns

	stored, err := scanUser(s.db.QueryRowContext(ctx, query,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.Name, u.Avatar, u.Bio,
		u.Balance, u.Earnings, u.IsVerified, u.VerificationStatus, level,
		u.Followers, u.Following, u.Likes, u.ReferralCode, createdAt))
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", u.ID, err)
	}
	return stored, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate user rows: %w", err)
	}
	return users, nil
}

func getUser(ctx context.Context, db dbx.DBTX, id string, forUpdate bool) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	u, err := scanUser(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*models.User, error) {
	return getUser(ctx, s.db, id, false)
}

// Patch locks the row, applies p and writes every patchable column back.
func (s *PostgresStore) Patch(ctx context.Context, id string, p models.UserPatch) (*models.User, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var result *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := getUser(ctx, tx, id, true)
		if err != nil {
			return err
		}
		p.Apply(u)

		query := `UPDATE users SET
				email = $2, username = $3, password_hash = $4, role = $5, name = $6,
				avatar = $7, bio = $8, balance = $9, earnings = $10, is_verified = $11,
				verification_status = $12, supporter_level = $13, followers = $14,
				following = $15, likes = $16
			WHERE id = $1
			RETURNING ` + userColumns

		result, err = scanUser(tx.QueryRowContext(ctx, query,
			u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.Name,
			u.Avatar, u.Bio, u.Balance, u.Earnings, u.IsVerified,
			u.VerificationStatus, u.SupporterLevel, u.Followers,
			u.Following, u.Likes))
		if err != nil {
			return fmt.Errorf("failed to patch user %s: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Credit adds amount to the balance in one statement. The WHERE clause keeps
// the balance non-negative under concurrent writers.
func (s *PostgresStore) Credit(ctx context.Context, id string, amount int64) (*models.User, error) {
	query := `UPDATE users SET balance = balance + $2
		WHERE id = $1 AND balance + $2 >= 0
		RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRowContext(ctx, query, id, amount))
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to credit user %s: %w", id, err)
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to credit user %s: %w", id, err)
	}
	if !exists {
		return nil, common.ErrNotFound
	}
	return nil, common.ErrInsufficientBalance
}

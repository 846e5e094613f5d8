package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver
	"github.com/wadjakorntonsri/linkfolio/pkg/core/domain"
	"github.com/wadjakorntonsri/linkfolio/pkg/ports"
	_ "modernc.org/sqlite" // Local SQLite driver
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbURL string) (*SQLiteRepository, error) {
	driverName := "sqlite"
	if strings.Contains(dbURL, "libsql://") || strings.Contains(dbURL, "wss://") {
		driverName = "libsql"
	}

	db, err := sql.Open(driverName, dbURL)
	if err != nil {
		return nil, err
	}

	// Shared-cache memory databases lock per table; one connection keeps tests deterministic.
	if strings.Contains(dbURL, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		email TEXT NOT NULL UNIQUE,
		given_name TEXT NOT NULL DEFAULT '',
		family_name TEXT NOT NULL DEFAULT '',
		username TEXT,
		bio TEXT NOT NULL DEFAULT '',
		website TEXT,
		avatar_ref TEXT,
		visits INTEGER NOT NULL DEFAULT 0,
		completed_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_profiles_username ON profiles(LOWER(username));

	CREATE TABLE IF NOT EXISTS favorite_links (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id INTEGER NOT NULL,
		label TEXT NOT NULL,
		url TEXT NOT NULL,
		position INTEGER NOT NULL DEFAULT 0,
		clicks INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_favorite_links_profile_position ON favorite_links(profile_id, position);

	CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		profile_id INTEGER NOT NULL,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		excerpt TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'draft',
		views INTEGER NOT NULL DEFAULT 0,
		published_at DATETIME,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY(profile_id) REFERENCES profiles(id) ON DELETE CASCADE
	);
	CREATE INDEX IF NOT EXISTS idx_posts_profile_status ON posts(profile_id, status, published_at);
	`
	_, err := db.Exec(query)
	return err
}

const profileColumns = `id, email, given_name, family_name, username, bio, website, avatar_ref, visits, completed_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	var p domain.Profile
	var username, website, avatarRef sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&p.ID, &p.Email, &p.GivenName, &p.FamilyName, &username, &p.Bio, &website, &avatarRef,
		&p.Visits, &completedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if username.Valid {
		p.Username = &username.String
	}
	if website.Valid {
		p.Website = &website.String
	}
	if avatarRef.Valid {
		p.AvatarRef = &avatarRef.String
	}
	if completedAt.Valid {
		p.CompletedAt = &completedAt.Time
	}
	return &p, nil
}

func (r *SQLiteRepository) queryProfile(ctx context.Context, where string, arg any) (*domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE `+where, arg)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

func (r *SQLiteRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `INSERT INTO profiles (email, given_name, family_name, username, bio, website, avatar_ref, visits, completed_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		profile.Email, profile.GivenName, profile.FamilyName, nullString(profile.Username), profile.Bio,
		nullString(profile.Website), nullString(profile.AvatarRef), profile.Visits, nullTime(profile.CompletedAt),
		profile.CreatedAt, profile.UpdatedAt,
	)
	if err != nil {
		return mapConstraint(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	profile.ID = id
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*domain.Profile, error) {
	return r.queryProfile(ctx, `id = ?`, id)
}

func (r *SQLiteRepository) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	return r.queryProfile(ctx, `email = ?`, email)
}

func (r *SQLiteRepository) GetByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	return r.queryProfile(ctx, `LOWER(username) = LOWER(?)`, username)
}

func (r *SQLiteRepository) UsernameInUse(ctx context.Context, username string, excludingID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM profiles WHERE LOWER(username) = LOWER(?) AND id != ?)`,
		username, excludingID,
	).Scan(&exists)
	return exists, err
}

func (r *SQLiteRepository) Dump(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY id`)
	if err != nil {
		return nil, err
	}

	var profiles []domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}

	// Links are loaded after the profile cursor is closed; memory databases run on one connection.
	for i := range profiles {
		links, err := r.ListLinks(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Links = links
	}
	return profiles, nil
}

func (r *SQLiteRepository) UpdateName(ctx context.Context, id int64, givenName, familyName string) error {
	return r.updateProfile(ctx, `given_name = ?, family_name = ?`, id, givenName, familyName)
}

func (r *SQLiteRepository) UpdateUsername(ctx context.Context, id int64, username string) error {
	return mapConstraint(r.updateProfile(ctx, `username = ?`, id, username))
}

func (r *SQLiteRepository) UpdateBio(ctx context.Context, id int64, bio string) error {
	return r.updateProfile(ctx, `bio = ?`, id, bio)
}

func (r *SQLiteRepository) SetAvatar(ctx context.Context, id int64, ref string) error {
	return r.updateProfile(ctx, `avatar_ref = ?`, id, ref)
}

func (r *SQLiteRepository) updateProfile(ctx context.Context, set string, id int64, args ...any) error {
	args = append(args, time.Now(), id)
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET `+set+`, updated_at = ? WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

// MarkCompleted sets completed_at unless it is already set and reports whether this call set it.
func (r *SQLiteRepository) MarkCompleted(ctx context.Context, id int64, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET completed_at = ?, updated_at = ? WHERE id = ? AND completed_at IS NULL`,
		at, at, id,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// --- Links ---

const linkColumns = `id, profile_id, label, url, position, clicks, created_at, updated_at`

func scanLink(row rowScanner) (*domain.FavoriteLink, error) {
	var l domain.FavoriteLink
	if err := row.Scan(&l.ID, &l.ProfileID, &l.Label, &l.URL, &l.Position, &l.Clicks, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *SQLiteRepository) ListLinks(ctx context.Context, profileID int64) ([]domain.FavoriteLink, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM favorite_links WHERE profile_id = ? ORDER BY position ASC, id ASC`,
		profileID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []domain.FavoriteLink{}
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

func (r *SQLiteRepository) GetLink(ctx context.Context, profileID, linkID int64) (*domain.FavoriteLink, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM favorite_links WHERE id = ? AND profile_id = ?`,
		linkID, profileID,
	)
	l, err := scanLink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return l, err
}

// ApplyLinkChanges runs a whole links batch in one transaction. Updating a row the profile does
// not own rolls everything back with ErrLinkNotFound. Deleting a missing row and re-inserting an
// identical label/url pair are no-ops, so a resubmitted batch leaves the same rows behind.
func (r *SQLiteRepository) ApplyLinkChanges(ctx context.Context, profileID int64, changes []domain.LinkChange) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now()
	for _, c := range changes {
		position := 0
		if c.Position != nil {
			position = *c.Position
		}

		switch {
		case c.Destroy && c.ID == 0:
			continue

		case c.Destroy:
			if _, err := tx.ExecContext(ctx, `DELETE FROM favorite_links WHERE id = ? AND profile_id = ?`, c.ID, profileID); err != nil {
				return err
			}

		case c.ID != 0:
			res, err := tx.ExecContext(ctx,
				`UPDATE favorite_links SET label = ?, url = ?, position = ?, updated_at = ? WHERE id = ? AND profile_id = ?`,
				c.Label, c.URL, position, now, c.ID, profileID,
			)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			if n == 0 {
				return domain.ErrLinkNotFound
			}

		default:
			_, err := tx.ExecContext(ctx,
				`INSERT INTO favorite_links (profile_id, label, url, position, created_at, updated_at)
				 SELECT ?, ?, ?, ?, ?, ?
				 WHERE NOT EXISTS (SELECT 1 FROM favorite_links WHERE profile_id = ? AND label = ? AND url = ?)`,
				profileID, c.Label, c.URL, position, now, now,
				profileID, c.Label, c.URL,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// --- Posts ---

func (r *SQLiteRepository) CreatePost(ctx context.Context, post *domain.Post) error {
	query := `INSERT INTO posts (profile_id, title, slug, excerpt, status, views, published_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, query,
		post.ProfileID, post.Title, post.Slug, post.Excerpt, post.Status, post.Views,
		nullTime(post.PublishedAt), post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = id
	return nil
}

func (r *SQLiteRepository) GetPublishedPost(ctx context.Context, profileID, postID int64) (*domain.Post, error) {
	query := `SELECT id, profile_id, title, slug, excerpt, status, views, published_at, created_at, updated_at
			  FROM posts WHERE id = ? AND profile_id = ? AND status = ?`

	var p domain.Post
	var publishedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, postID, profileID, domain.PostStatusPublished).Scan(
		&p.ID, &p.ProfileID, &p.Title, &p.Slug, &p.Excerpt, &p.Status, &p.Views, &publishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if publishedAt.Valid {
		p.PublishedAt = &publishedAt.Time
	}
	return &p, nil
}

// --- Counters (atomic in SQL, never read-modify-write) ---

func (r *SQLiteRepository) IncrementVisits(ctx context.Context, profileID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE profiles SET visits = visits + 1 WHERE id = ?`, profileID)
	return err
}

func (r *SQLiteRepository) IncrementLinkClicks(ctx context.Context, linkID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE favorite_links SET clicks = clicks + 1 WHERE id = ?`, linkID)
	return err
}

func (r *SQLiteRepository) IncrementPostViews(ctx context.Context, postID int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE posts SET views = views + 1 WHERE id = ?`, postID)
	return err
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") && strings.Contains(err.Error(), "username") {
		return errors.Join(domain.ErrUsernameConflict, err)
	}
	return err
}

// Ensure interface compliance
var (
	_ ports.ProfileRepository = (*SQLiteRepository)(nil)
	_ ports.CounterRepository = (*SQLiteRepository)(nil)
)

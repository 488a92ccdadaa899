package blogapi

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// ErrDuplicateSlug is returned when an insert collides with an existing
// slug. Callers that re-seed treat it as a skip, not a failure.
var ErrDuplicateSlug = errors.New("duplicate slug")

// Store wraps a SQLite database and provides the post collection
// operations: insert, filtered find, count, and windowed listing. The
// slug primary key gives the uniqueness guarantee the seeder relies on.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Enable WAL mode for concurrent read/write access, set a busy timeout
	// so writers wait instead of returning SQLITE_BUSY immediately, and tune
	// performance: synchronous=NORMAL is safe with WAL and avoids an fsync
	// per transaction; larger cache and mmap reduce disk I/O.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
		PRAGMA mmap_size=268435456;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    content TEXT NOT NULL,
    author TEXT NOT NULL,
    tags TEXT NOT NULL,
    cover_image TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_title ON posts (title);
CREATE INDEX IF NOT EXISTS idx_posts_tags ON posts (tags);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC);
`)
	return err
}

// InsertPost stores a new post. Tags are trimmed and deduplicated. A slug
// collision returns ErrDuplicateSlug; the record is otherwise unchanged.
func (s *Store) InsertPost(ctx context.Context, p Post) error {
	if err := p.Validate(); err != nil {
		return err
	}
	tags := DedupeTags(p.Tags)
	tagString := "," + strings.Join(tags, ",") + ","
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO posts (slug, title, excerpt, content, author, tags, cover_image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.Slug, p.Title, p.Excerpt, p.Content, p.Author, tagString, p.CoverImage,
		p.CreatedAt.UTC().Format(time.RFC3339Nano), p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique constraint") {
			return ErrDuplicateSlug
		}
		return err
	}
	return nil
}

// GetPost returns a single post by slug, including its content.
func (s *Store) GetPost(ctx context.Context, slug string) (Post, error) {
	var title, excerpt, content, author, tags, coverImage, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT title, excerpt, content, author, tags, cover_image, created_at, updated_at FROM posts WHERE slug = ?`, slug).
		Scan(&title, &excerpt, &content, &author, &tags, &coverImage, &createdAt, &updatedAt)
	if err != nil {
		return Post{}, err
	}
	return Post{
		Title:      title,
		Slug:       slug,
		Excerpt:    excerpt,
		Content:    content,
		Author:     author,
		Tags:       parseTags(tags),
		CoverImage: coverImage,
		CreatedAt:  parseTime(createdAt),
		UpdatedAt:  parseTime(updatedAt),
	}, nil
}

// ListPosts returns one window of posts matching the query, newest first,
// along with the total match count for the predicate. The content column
// is never read for listings. Ordering is by created_at descending with
// slug as tiebreaker so windows stay stable when timestamps collide
// (a seed batch shares one timestamp).
func (s *Store) ListPosts(ctx context.Context, q ListQuery) ([]PostSummary, int, error) {
	where, args := q.filter()

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	queryArgs := append(append([]any{}, args...), q.Limit, q.offset())
	rows, err := s.db.QueryContext(ctx,
		`SELECT slug, title, excerpt, author, tags, cover_image, created_at, updated_at FROM posts`+where+
			` ORDER BY created_at DESC, slug DESC LIMIT ? OFFSET ?`, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []PostSummary
	for rows.Next() {
		var slug, title, excerpt, author, tags, coverImage, createdAt, updatedAt string
		if err := rows.Scan(&slug, &title, &excerpt, &author, &tags, &coverImage, &createdAt, &updatedAt); err != nil {
			return nil, 0, err
		}
		posts = append(posts, PostSummary{
			Title:      title,
			Slug:       slug,
			Excerpt:    excerpt,
			Author:     author,
			Tags:       parseTags(tags),
			CoverImage: coverImage,
			CreatedAt:  parseTime(createdAt),
			UpdatedAt:  parseTime(updatedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// CountPosts returns the number of posts in the store.
func (s *Store) CountPosts(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, err
}

// ListTags returns a sorted, deduplicated slice of all tags.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT tags FROM posts`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range parseTags(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	var result []string
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

// parseTags splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func parseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

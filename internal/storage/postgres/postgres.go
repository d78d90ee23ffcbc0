package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/princekumarofficial/expressions-service/internal/category"
	"github.com/princekumarofficial/expressions-service/internal/config"
	"github.com/princekumarofficial/expressions-service/internal/storage"
	"github.com/princekumarofficial/expressions-service/internal/types/users"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
)

const uniqueViolation = "23505"

type Postgres struct {
	Db *sql.DB
}

func NewPostgres(ctx context.Context, cfg config.PQSQL) (*Postgres, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	slog.Info("Connected to Postgres database", slog.String("dbname", cfg.DBName))

	pg := &Postgres{Db: db}
	if err := pg.CreateTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pg, nil
}

func (p *Postgres) CreateTables(ctx context.Context) error {
	allowed := make([]string, 0, len(category.All()))
	for _, c := range category.All() {
		allowed = append(allowed, pq.QuoteLiteral(c.String()))
	}

	queries := []string{
		`
		CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(255) UNIQUE NOT NULL,
			password TEXT NOT NULL,
			joined_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`,
		fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS videos (
			id SERIAL PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			category VARCHAR(32) NOT NULL CHECK (category IN (%s)),
			storage_reference TEXT NOT NULL,
			storage_url TEXT NOT NULL,
			uploaded_by INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		);
		`, strings.Join(allowed, ", ")),
		`CREATE INDEX IF NOT EXISTS idx_videos_category ON videos(category);`,
		`CREATE INDEX IF NOT EXISTS idx_videos_uploaded_by ON videos(uploaded_by);`,
	}

	for _, q := range queries {
		if _, err := p.Db.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	return p.Db.Close()
}

const videoColumns = `id, title, description, category, storage_reference, storage_url, COALESCE(uploaded_by::text, ''), created_at`

func (p *Postgres) CreateVideo(ctx context.Context, video videos.VideoAsset) (videos.VideoAsset, error) {
	query := `
	INSERT INTO videos (title, description, category, storage_reference, storage_url, uploaded_by)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::integer)
	RETURNING id, created_at
	`

	var id int64
	err := p.Db.QueryRowContext(ctx, query,
		video.Title, video.Description, video.Category, video.StorageReference, video.StorageURL, video.UploadedBy,
	).Scan(&id, &video.CreatedAt)
	if err != nil {
		return videos.VideoAsset{}, err
	}

	video.ID = strconv.FormatInt(id, 10)
	return video, nil
}

func (p *Postgres) GetVideoByID(ctx context.Context, id string) (videos.VideoAsset, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return videos.VideoAsset{}, storage.ErrNotFound
	}

	row := p.Db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = $1`, numericID)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return videos.VideoAsset{}, storage.ErrNotFound
	}
	return video, err
}

func (p *Postgres) ListVideos(ctx context.Context) ([]videos.VideoAsset, error) {
	return p.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos ORDER BY id`)
}

func (p *Postgres) ListVideosByCategory(ctx context.Context, category string) ([]videos.VideoAsset, error) {
	return p.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos WHERE category = $1 ORDER BY id`, category)
}

func (p *Postgres) ListVideosByUploader(ctx context.Context, userID string) ([]videos.VideoAsset, error) {
	numericID, err := strconv.ParseInt(userID, 10, 64)
	if err != nil {
		return []videos.VideoAsset{}, nil
	}
	return p.queryVideos(ctx, `SELECT `+videoColumns+` FROM videos WHERE uploaded_by = $1 ORDER BY id`, numericID)
}

func (p *Postgres) DeleteVideo(ctx context.Context, id string) error {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return storage.ErrNotFound
	}

	res, err := p.Db.ExecContext(ctx, `DELETE FROM videos WHERE id = $1`, numericID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (p *Postgres) queryVideos(ctx context.Context, query string, args ...any) ([]videos.VideoAsset, error) {
	rows, err := p.Db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []videos.VideoAsset{}
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, video)
	}

	return result, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanVideo(s scanner) (videos.VideoAsset, error) {
	var (
		video videos.VideoAsset
		id    int64
	)
	err := s.Scan(&id, &video.Title, &video.Description, &video.Category,
		&video.StorageReference, &video.StorageURL, &video.UploadedBy, &video.CreatedAt)
	if err != nil {
		return videos.VideoAsset{}, err
	}

	video.ID = strconv.FormatInt(id, 10)
	return video, nil
}

func (p *Postgres) CreateUser(ctx context.Context, username, email, passwordHash string) (string, error) {
	var userID int
	query := `
	INSERT INTO users (username, email, password)
	VALUES ($1, $2, $3)
	RETURNING id
	`

	err := p.Db.QueryRowContext(ctx, query, username, email, passwordHash).Scan(&userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return "", storage.ErrDuplicate
		}
		return "", err
	}

	return fmt.Sprintf("%d", userID), nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var userID int
	var hashedPassword string
	query := `
	SELECT id, password FROM users WHERE email = $1
	`

	err := p.Db.QueryRowContext(ctx, query, email).Scan(&userID, &hashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", storage.ErrNotFound
	}
	if err != nil {
		return "", "", err
	}

	return fmt.Sprintf("%d", userID), hashedPassword, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (users.User, error) {
	numericID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return users.User{}, storage.ErrNotFound
	}

	var user users.User
	var userID int64
	err = p.Db.QueryRowContext(ctx,
		`SELECT id, username, email, joined_at FROM users WHERE id = $1`, numericID,
	).Scan(&userID, &user.Username, &user.Email, &user.JoinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return users.User{}, storage.ErrNotFound
	}
	if err != nil {
		return users.User{}, err
	}

	user.ID = strconv.FormatInt(userID, 10)
	return user, nil
}

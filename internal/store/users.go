package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"songscout/internal/auth"
)

var (
	// ErrUserExists signals the username is already taken.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound signals the username does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates a login failure. Unknown username and
	// wrong password both collapse into it.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrIncorrectPassword rejects a profile update whose password check failed.
	ErrIncorrectPassword = errors.New("incorrect password")
	// ErrMissingFields rejects a registration without username or password.
	ErrMissingFields = errors.New("username and password are required")

	dummyPasswordHash = "$2a$10$CwTycUXWue0Thq9StjUM0uJ8n4VWeNseyX2fA9DE.D7su7J6iYGTC"
)

// Profile is the public view of a user account. The password hash never
// appears here.
type Profile struct {
	Username  string `json:"username"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	ImgURL    string `json:"imgUrl"`
}

// UserPage is a profile enriched with the user's playlists and the song ids
// in the reserved favorites playlist.
type UserPage struct {
	Profile
	FavoriteSongIDs []string   `json:"favoriteSongs"`
	Playlists       []Playlist `json:"playlists"`
}

// NewUser carries the fields accepted at registration.
type NewUser struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	ImgURL    string
}

// UserUpdate is a sparse profile change set. Password is required to verify
// the caller and is itself never written.
type UserUpdate struct {
	Password  string
	FirstName *string
	LastName  *string
	Email     *string
	ImgURL    *string
}

// Register creates the account and its reserved favorites playlist in one
// transaction and returns the new profile.
func (s *Store) Register(ctx context.Context, nu NewUser) (*Profile, error) {
	nu.Username = strings.TrimSpace(nu.Username)
	if nu.Username == "" || nu.Password == "" {
		return nil, ErrMissingFields
	}

	hash, err := auth.HashPassword(nu.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	imgURL := nu.ImgURL
	if imgURL == "" {
		imgURL = defaultProfileImageURL
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var profile Profile
	err = tx.QueryRowContext(ctx, `
		INSERT INTO users (username, password_hash, first_name, last_name, email, img_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING username, first_name, last_name, email, img_url
	`, nu.Username, hash, nu.FirstName, nu.LastName, nu.Email, imgURL).Scan(
		&profile.Username, &profile.FirstName, &profile.LastName, &profile.Email, &profile.ImgURL)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlists (name, img_url, username)
		VALUES ($1, $2, $3)
	`, FavoritesPlaylistName, favoritesImageURL, nu.Username); err != nil {
		return nil, fmt.Errorf("insert favorites playlist: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return &profile, nil
}

// Authenticate validates credentials and returns the profile.
func (s *Store) Authenticate(ctx context.Context, username, password string) (*Profile, error) {
	var (
		profile Profile
		hash    string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT username, password_hash, first_name, last_name, email, img_url
		FROM users
		WHERE username = $1
	`, username).Scan(&profile.Username, &hash, &profile.FirstName, &profile.LastName, &profile.Email, &profile.ImgURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			_ = auth.CheckPassword(dummyPasswordHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !auth.CheckPassword(hash, password) {
		return nil, ErrInvalidCredentials
	}

	return &profile, nil
}

// GetUser returns the profile enriched with the user's playlists and favorite
// song ids.
func (s *Store) GetUser(ctx context.Context, username string) (*UserPage, error) {
	var page UserPage
	err := s.db.QueryRowContext(ctx, `
		SELECT username, first_name, last_name, email, img_url
		FROM users
		WHERE username = $1
	`, username).Scan(&page.Username, &page.FirstName, &page.LastName, &page.Email, &page.ImgURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := s.enrich(ctx, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// UpdateUser applies a partial profile update after verifying the password,
// then returns the profile enriched as in GetUser. The password itself is
// never changed.
func (s *Store) UpdateUser(ctx context.Context, username string, upd UserUpdate) (*UserPage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	var hash string
	err = tx.QueryRowContext(ctx, `
		SELECT password_hash
		FROM users
		WHERE username = $1
	`, username).Scan(&hash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	var changes []fieldChange
	if upd.FirstName != nil {
		changes = append(changes, fieldChange{"firstName", *upd.FirstName})
	}
	if upd.LastName != nil {
		changes = append(changes, fieldChange{"lastName", *upd.LastName})
	}
	if upd.Email != nil {
		changes = append(changes, fieldChange{"email", *upd.Email})
	}
	if upd.ImgURL != nil {
		changes = append(changes, fieldChange{"imgUrl", *upd.ImgURL})
	}
	if upd.Password != "" {
		changes = append(changes, fieldChange{"password", upd.Password})
	}

	setClause, args, err := buildPartialUpdate(changes, map[string]string{
		"firstName": "first_name",
		"lastName":  "last_name",
		"imgUrl":    "img_url",
	})
	if err != nil {
		return nil, err
	}

	if upd.Password == "" || !auth.CheckPassword(hash, upd.Password) {
		return nil, ErrIncorrectPassword
	}

	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE username = $%d
		RETURNING username, first_name, last_name, email, img_url
	`, setClause, len(args)+1)
	args = append(args, username)

	var page UserPage
	if err := tx.QueryRowContext(ctx, query, args...).Scan(
		&page.Username, &page.FirstName, &page.LastName, &page.Email, &page.ImgURL); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	if err := s.enrich(ctx, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// enrich loads the favorite song ids and the playlist list into page.
func (s *Store) enrich(ctx context.Context, page *UserPage) error {
	var songIDs pq.StringArray
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(array_agg(ps.song_id ORDER BY ps.id), '{}')
		FROM playlists p
		JOIN playlist_songs ps ON ps.playlist_id = p.id
		WHERE p.username = $1 AND p.name = $2
	`, page.Username, FavoritesPlaylistName).Scan(&songIDs)
	if err != nil {
		return fmt.Errorf("list favorite songs: %w", err)
	}
	page.FavoriteSongIDs = []string(songIDs)
	if page.FavoriteSongIDs == nil {
		page.FavoriteSongIDs = []string{}
	}

	playlists, err := s.listPlaylists(ctx, page.Username)
	if err != nil {
		return err
	}
	page.Playlists = playlists
	return nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrPlaylistNotFound signals the playlist id does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")
	// ErrSongAlreadyInPlaylist rejects a duplicate membership insert.
	ErrSongAlreadyInPlaylist = errors.New("song already in playlist")
	// ErrSongNotInPlaylist rejects removing a song a playlist does not hold.
	// Deliberately a bad-request condition, not a not-found one; favorites
	// removal signals the not-found variant instead.
	ErrSongNotInPlaylist = errors.New("no such song in playlist")
)

// Playlist is a user-owned, named collection of song ids.
type Playlist struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	ImgURL   string   `json:"imgUrl"`
	Username string   `json:"username"`
	SongIDs  []string `json:"songs,omitempty"`
}

// CreatePlaylist persists a new playlist for the owner. An empty image URL is
// replaced with the default playlist image.
func (s *Store) CreatePlaylist(ctx context.Context, name, imgURL, username string) (*Playlist, error) {
	if imgURL == "" {
		imgURL = defaultPlaylistImageURL
	}

	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO playlists (name, img_url, username)
		VALUES ($1, $2, $3)
		RETURNING id, name, img_url, username
	`, name, imgURL, username).Scan(&playlist.ID, &playlist.Name, &playlist.ImgURL, &playlist.Username)
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist by id and returns the deleted id.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("delete playlist: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return 0, ErrPlaylistNotFound
	}
	return id, nil
}

// AddSong inserts a song membership. The existence check and the insert run
// in one transaction so a concurrent playlist delete cannot slip between them.
func (s *Store) AddSong(ctx context.Context, playlistID int64, songID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := playlistExists(ctx, tx, playlistID); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_songs (song_id, playlist_id)
		VALUES ($1, $2)
	`, songID, playlistID); err != nil {
		if isUniqueViolation(err) {
			return "", ErrSongAlreadyInPlaylist
		}
		return "", fmt.Errorf("insert playlist song: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return songID, nil
}

// RemoveSong deletes a song membership and returns the removed song id.
func (s *Store) RemoveSong(ctx context.Context, playlistID int64, songID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if err := playlistExists(ctx, tx, playlistID); err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return "", fmt.Errorf("delete playlist song: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return "", ErrSongNotInPlaylist
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return songID, nil
}

// GetPlaylist returns a playlist with its member song ids. A playlist with no
// songs yields an empty, non-nil slice.
func (s *Store) GetPlaylist(ctx context.Context, id int64) (*Playlist, error) {
	var playlist Playlist
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, img_url, username
		FROM playlists
		WHERE id = $1
	`, id).Scan(&playlist.ID, &playlist.Name, &playlist.ImgURL, &playlist.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get playlist: %w", err)
	}

	songIDs, err := s.listSongIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	playlist.SongIDs = songIDs
	return &playlist, nil
}

// ListPlaylists returns all playlists owned by a user, favorites included,
// in creation order.
func (s *Store) ListPlaylists(ctx context.Context, username string) ([]Playlist, error) {
	return s.listPlaylists(ctx, username)
}

func (s *Store) listPlaylists(ctx context.Context, username string) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, img_url, username
		FROM playlists
		WHERE username = $1
		ORDER BY id ASC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("list playlists: %w", err)
	}
	defer rows.Close()

	playlists := make([]Playlist, 0)
	for rows.Next() {
		var playlist Playlist
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.ImgURL, &playlist.Username); err != nil {
			return nil, fmt.Errorf("scan playlist: %w", err)
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlists: %w", err)
	}
	return playlists, nil
}

func (s *Store) listSongIDs(ctx context.Context, playlistID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT song_id
		FROM playlist_songs
		WHERE playlist_id = $1
		ORDER BY id ASC
	`, playlistID)
	if err != nil {
		return nil, fmt.Errorf("list playlist songs: %w", err)
	}
	defer rows.Close()

	songIDs := make([]string, 0)
	for rows.Next() {
		var songID string
		if err := rows.Scan(&songID); err != nil {
			return nil, fmt.Errorf("scan playlist song: %w", err)
		}
		songIDs = append(songIDs, songID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate playlist songs: %w", err)
	}
	return songIDs, nil
}

func playlistExists(ctx context.Context, q querier, playlistID int64) error {
	var id int64
	err := q.QueryRowContext(ctx, `
		SELECT id
		FROM playlists
		WHERE id = $1
	`, playlistID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPlaylistNotFound
	}
	if err != nil {
		return fmt.Errorf("check playlist: %w", err)
	}
	return nil
}

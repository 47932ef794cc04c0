package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrSongAlreadyInFavorites rejects favoriting a song twice.
	ErrSongAlreadyInFavorites = errors.New("song already in favorites")
	// ErrSongNotInFavorites signals the song is absent from the favorites
	// playlist. Unlike RemoveSong this is a not-found condition; callers
	// depend on the distinction.
	ErrSongNotInFavorites = errors.New("song not in favorites")
)

// AddFavorite inserts the song into the user's reserved favorites playlist.
// The user check, the playlist lookup and the insert run in one transaction.
func (s *Store) AddFavorite(ctx context.Context, username, songID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	playlistID, err := favoritesPlaylistID(ctx, tx, username)
	if err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO playlist_songs (song_id, playlist_id)
		VALUES ($1, $2)
	`, songID, playlistID); err != nil {
		if isUniqueViolation(err) {
			return "", ErrSongAlreadyInFavorites
		}
		return "", fmt.Errorf("insert favorite: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return songID, nil
}

// RemoveFavorite deletes the song from the user's favorites playlist and
// returns the removed song id.
func (s *Store) RemoveFavorite(ctx context.Context, username, songID string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	playlistID, err := favoritesPlaylistID(ctx, tx, username)
	if err != nil {
		return "", err
	}

	res, err := tx.ExecContext(ctx, `
		DELETE FROM playlist_songs
		WHERE playlist_id = $1 AND song_id = $2
	`, playlistID, songID)
	if err != nil {
		return "", fmt.Errorf("delete favorite: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return "", ErrSongNotInFavorites
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit tx: %w", err)
	}
	tx = nil

	return songID, nil
}

// favoritesPlaylistID resolves the reserved playlist for a user, reporting
// ErrUserNotFound when the user is absent.
func favoritesPlaylistID(ctx context.Context, q querier, username string) (int64, error) {
	var owner string
	err := q.QueryRowContext(ctx, `
		SELECT username
		FROM users
		WHERE username = $1
	`, username).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("check user: %w", err)
	}

	var playlistID int64
	err = q.QueryRowContext(ctx, `
		SELECT id
		FROM playlists
		WHERE username = $1 AND name = $2
	`, username, FavoritesPlaylistName).Scan(&playlistID)
	if err != nil {
		return 0, fmt.Errorf("get favorites playlist: %w", err)
	}
	return playlistID, nil
}

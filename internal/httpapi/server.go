package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"songscout/internal/auth"
	"songscout/internal/logging"
	"songscout/internal/musicapi"
	"songscout/internal/store"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, nu store.NewUser) (*store.Profile, error)
	Authenticate(ctx context.Context, username, password string) (*store.Profile, error)
	Get(ctx context.Context, username string) (*store.UserPage, error)
	Update(ctx context.Context, username string, upd store.UserUpdate) (*store.UserPage, error)
}

// PlaylistService coordinates playlist-related operations.
type PlaylistService interface {
	Create(ctx context.Context, name, imgURL, username string) (*store.Playlist, error)
	Delete(ctx context.Context, id int64) (int64, error)
	Get(ctx context.Context, id int64) (*store.Playlist, error)
	List(ctx context.Context, username string) ([]store.Playlist, error)
	AddSong(ctx context.Context, playlistID int64, songID string) (string, error)
	RemoveSong(ctx context.Context, playlistID int64, songID string) (string, error)
}

// FavoritesService coordinates favoriting workflows.
type FavoritesService interface {
	Add(ctx context.Context, username, songID string) (string, error)
	Remove(ctx context.Context, username, songID string) (string, error)
}

// DiscoverService proxies catalog search and browse requests.
type DiscoverService interface {
	Genres(ctx context.Context) ([]string, error)
	NewReleases(ctx context.Context) ([]musicapi.Album, error)
	SearchArtists(ctx context.Context, term, genre string) ([]musicapi.Artist, error)
	SearchAlbums(ctx context.Context, term string) ([]musicapi.Album, error)
	SearchTracks(ctx context.Context, term string) ([]musicapi.Track, error)
	Artist(ctx context.Context, id string) (*musicapi.Artist, error)
	ArtistAlbums(ctx context.Context, id string) ([]musicapi.Album, error)
	ArtistTopTracks(ctx context.Context, id string) ([]musicapi.Track, error)
	Album(ctx context.Context, id string) (*musicapi.Album, []musicapi.Track, error)
	Tracks(ctx context.Context, ids []string) ([]musicapi.Track, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users     UserService
	playlists PlaylistService
	favorites FavoritesService
	discover  DiscoverService
	tokens    *auth.TokenService
}

// New configures a Server with the given services.
func New(users UserService, playlists PlaylistService, favorites FavoritesService, discover DiscoverService, tokens *auth.TokenService) *Server {
	return &Server{
		users:     users,
		playlists: playlists,
		favorites: favorites,
		discover:  discover,
		tokens:    tokens,
	}
}

// Routes exposes the HTTP handlers for accounts, playlists and discovery.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	mux.HandleFunc("/api/v1/auth/register", s.handleRegister)
	mux.HandleFunc("/api/v1/auth/token", s.handleToken)
	mux.HandleFunc("/api/v1/users/", s.handleUsers)
	mux.HandleFunc("/api/v1/discover/", s.handleDiscover)

	return mux
}

func parseBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

// currentUser resolves the token subject, or "" when missing or invalid.
func (s *Server) currentUser(r *http.Request) string {
	token := parseBearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return ""
	}
	username, err := s.tokens.Validate(token)
	if err != nil {
		return ""
	}
	return username
}

// ensureSameUser authorizes requests scoped to a username. The token subject
// must match the path username exactly.
func (s *Server) ensureSameUser(w http.ResponseWriter, r *http.Request, username string) bool {
	if current := s.currentUser(r); current == "" || current != username {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	return true
}

// ensureLoggedIn authorizes requests that only need a valid session and
// returns the session username.
func (s *Server) ensureLoggedIn(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := s.currentUser(r)
	if username == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return username, true
}

// withUsername stamps the authenticated username into the request context so
// request logging can attribute the call.
func withUsername(r *http.Request, username string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), logging.UsernameKey, username))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError translates core error kinds to status codes: absent entities to
// 404, duplicates and bad input to 400, credential failures to 401.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrPlaylistNotFound),
		errors.Is(err, store.ErrSongNotInFavorites):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrUserExists),
		errors.Is(err, store.ErrSongAlreadyInPlaylist),
		errors.Is(err, store.ErrSongAlreadyInFavorites),
		errors.Is(err, store.ErrSongNotInPlaylist),
		errors.Is(err, store.ErrNoUpdateFields),
		errors.Is(err, store.ErrIncorrectPassword),
		errors.Is(err, store.ErrMissingFields),
		errors.Is(err, musicapi.ErrEmptyQuery):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrInvalidCredentials):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"songscout/internal/auth"
	"songscout/internal/logging"
	"songscout/internal/musicapi"
	"songscout/internal/store"
)

type stubUserService struct {
	registerProfile *store.Profile
	registerErr     error

	authProfile *store.Profile
	authErr     error

	page    *store.UserPage
	pageErr error

	lastUpdate store.UserUpdate
	updateErr  error
}

func (s *stubUserService) Register(context.Context, store.NewUser) (*store.Profile, error) {
	return s.registerProfile, s.registerErr
}

func (s *stubUserService) Authenticate(context.Context, string, string) (*store.Profile, error) {
	return s.authProfile, s.authErr
}

func (s *stubUserService) Get(context.Context, string) (*store.UserPage, error) {
	return s.page, s.pageErr
}

func (s *stubUserService) Update(_ context.Context, _ string, upd store.UserUpdate) (*store.UserPage, error) {
	s.lastUpdate = upd
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	return s.page, nil
}

type stubPlaylistService struct {
	playlist *store.Playlist
	err      error

	lastPlaylistID int64
	lastSongID     string
}

func (s *stubPlaylistService) Create(_ context.Context, name, imgURL, username string) (*store.Playlist, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.playlist, nil
}

func (s *stubPlaylistService) Delete(_ context.Context, id int64) (int64, error) {
	s.lastPlaylistID = id
	if s.err != nil {
		return 0, s.err
	}
	return id, nil
}

func (s *stubPlaylistService) Get(_ context.Context, id int64) (*store.Playlist, error) {
	s.lastPlaylistID = id
	if s.err != nil {
		return nil, s.err
	}
	return s.playlist, nil
}

func (s *stubPlaylistService) List(context.Context, string) ([]store.Playlist, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.playlist == nil {
		return []store.Playlist{}, nil
	}
	return []store.Playlist{*s.playlist}, nil
}

func (s *stubPlaylistService) AddSong(_ context.Context, playlistID int64, songID string) (string, error) {
	s.lastPlaylistID = playlistID
	s.lastSongID = songID
	if s.err != nil {
		return "", s.err
	}
	return songID, nil
}

func (s *stubPlaylistService) RemoveSong(_ context.Context, playlistID int64, songID string) (string, error) {
	s.lastPlaylistID = playlistID
	s.lastSongID = songID
	if s.err != nil {
		return "", s.err
	}
	return songID, nil
}

type stubFavoritesService struct {
	err        error
	lastSongID string

	ctxUsername any
}

func (s *stubFavoritesService) Add(ctx context.Context, _ string, songID string) (string, error) {
	s.ctxUsername = ctx.Value(logging.UsernameKey)
	s.lastSongID = songID
	if s.err != nil {
		return "", s.err
	}
	return songID, nil
}

func (s *stubFavoritesService) Remove(_ context.Context, _ string, songID string) (string, error) {
	s.lastSongID = songID
	if s.err != nil {
		return "", s.err
	}
	return songID, nil
}

type stubDiscoverService struct {
	genres  []string
	albums  []musicapi.Album
	artists []musicapi.Artist
	tracks  []musicapi.Track
	artist  *musicapi.Artist
	album   *musicapi.Album
	err     error

	ctxUsername any
}

func (s *stubDiscoverService) Genres(ctx context.Context) ([]string, error) {
	s.ctxUsername = ctx.Value(logging.UsernameKey)
	return s.genres, s.err
}
func (s *stubDiscoverService) NewReleases(context.Context) ([]musicapi.Album, error) {
	return s.albums, s.err
}
func (s *stubDiscoverService) SearchArtists(context.Context, string, string) ([]musicapi.Artist, error) {
	return s.artists, s.err
}
func (s *stubDiscoverService) SearchAlbums(context.Context, string) ([]musicapi.Album, error) {
	return s.albums, s.err
}
func (s *stubDiscoverService) SearchTracks(context.Context, string) ([]musicapi.Track, error) {
	return s.tracks, s.err
}
func (s *stubDiscoverService) Artist(context.Context, string) (*musicapi.Artist, error) {
	return s.artist, s.err
}
func (s *stubDiscoverService) ArtistAlbums(context.Context, string) ([]musicapi.Album, error) {
	return s.albums, s.err
}
func (s *stubDiscoverService) ArtistTopTracks(context.Context, string) ([]musicapi.Track, error) {
	return s.tracks, s.err
}
func (s *stubDiscoverService) Album(context.Context, string) (*musicapi.Album, []musicapi.Track, error) {
	return s.album, s.tracks, s.err
}
func (s *stubDiscoverService) Tracks(context.Context, []string) ([]musicapi.Track, error) {
	return s.tracks, s.err
}

func newTestTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("unit-test-secret-key", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return tokens
}

func bearerFor(t *testing.T, tokens *auth.TokenService, username string) string {
	t.Helper()
	token, err := tokens.Generate(username)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return "Bearer " + token
}

func TestRegisterReturnsToken(t *testing.T) {
	tokens := newTestTokens(t)
	users := &stubUserService{registerProfile: &store.Profile{Username: "ada"}}
	srv := New(users, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	body := bytes.NewBufferString(`{"username":"ada","password":"s3cret"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", body)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string        `json:"token"`
		User  store.Profile `json:"user"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a token in the response")
	}
	if got, err := tokens.Validate(resp.Token); err != nil || got != "ada" {
		t.Fatalf("token subject = %q (err %v), want ada", got, err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	tokens := newTestTokens(t)
	users := &stubUserService{registerErr: store.ErrUserExists}
	srv := New(users, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		bytes.NewBufferString(`{"username":"ada","password":"s3cret"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestTokenInvalidCredentials(t *testing.T) {
	tokens := newTestTokens(t)
	users := &stubUserService{authErr: store.ErrInvalidCredentials}
	srv := New(users, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/token",
		bytes.NewBufferString(`{"username":"ada","password":"wrong"}`))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUsersRequiresMatchingToken(t *testing.T) {
	tokens := newTestTokens(t)
	page := &store.UserPage{Profile: store.Profile{Username: "ada"}}
	srv := New(&stubUserService{page: page}, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)
	handler := srv.Routes()

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nonsense", http.StatusUnauthorized},
		{"other user's token", bearerFor(t, tokens, "eve"), http.StatusUnauthorized},
		{"matching token", bearerFor(t, tokens, "ada"), http.StatusOK},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/users/ada", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
		})
	}
}

func TestAddFavorite(t *testing.T) {
	tokens := newTestTokens(t)
	favorites := &stubFavoritesService{}
	srv := New(&stubUserService{}, &stubPlaylistService{}, favorites, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/ada/favorites",
		bytes.NewBufferString(`{"songId":"song42"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if favorites.lastSongID != "song42" {
		t.Fatalf("expected song42, got %q", favorites.lastSongID)
	}

	var resp struct {
		Added string `json:"added"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Added != "song42" {
		t.Fatalf("expected added song42, got %q", resp.Added)
	}
}

func TestRemoveFavoriteAbsentIs404(t *testing.T) {
	tokens := newTestTokens(t)
	favorites := &stubFavoritesService{err: store.ErrSongNotInFavorites}
	srv := New(&stubUserService{}, &stubPlaylistService{}, favorites, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/ada/favorites/song42", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestRemovePlaylistSongAbsentIs400(t *testing.T) {
	tokens := newTestTokens(t)
	playlists := &stubPlaylistService{err: store.ErrSongNotInPlaylist}
	srv := New(&stubUserService{}, playlists, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/users/ada/playlists/7/songs/song42", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if playlists.lastPlaylistID != 7 || playlists.lastSongID != "song42" {
		t.Fatalf("unexpected args: %d %q", playlists.lastPlaylistID, playlists.lastSongID)
	}
}

func TestCreatePlaylist(t *testing.T) {
	tokens := newTestTokens(t)
	playlists := &stubPlaylistService{playlist: &store.Playlist{ID: 7, Name: "Road Trip", Username: "ada"}}
	srv := New(&stubUserService{}, playlists, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/ada/playlists",
		bytes.NewBufferString(`{"name":"Road Trip"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Playlist store.Playlist `json:"playlist"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Playlist.ID != 7 {
		t.Fatalf("expected playlist 7, got %d", resp.Playlist.ID)
	}
}

func TestListPlaylists(t *testing.T) {
	tokens := newTestTokens(t)
	playlists := &stubPlaylistService{playlist: &store.Playlist{ID: 7, Name: "Road Trip", Username: "ada"}}
	srv := New(&stubUserService{}, playlists, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/ada/playlists", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Playlists []store.Playlist `json:"playlists"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Playlists) != 1 || resp.Playlists[0].Name != "Road Trip" {
		t.Fatalf("unexpected playlists: %v", resp.Playlists)
	}
}

func TestCreatePlaylistWithoutName(t *testing.T) {
	tokens := newTestTokens(t)
	srv := New(&stubUserService{}, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/ada/playlists",
		bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetPlaylistNotFound(t *testing.T) {
	tokens := newTestTokens(t)
	playlists := &stubPlaylistService{err: store.ErrPlaylistNotFound}
	srv := New(&stubUserService{}, playlists, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/ada/playlists/99", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestUpdateProfilePassthrough(t *testing.T) {
	tokens := newTestTokens(t)
	users := &stubUserService{page: &store.UserPage{Profile: store.Profile{Username: "ada", FirstName: "Augusta"}}}
	srv := New(users, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/ada",
		bytes.NewBufferString(`{"password":"s3cret","firstName":"Augusta"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if users.lastUpdate.Password != "s3cret" {
		t.Fatalf("expected password passthrough, got %q", users.lastUpdate.Password)
	}
	if users.lastUpdate.FirstName == nil || *users.lastUpdate.FirstName != "Augusta" {
		t.Fatalf("expected firstName Augusta, got %v", users.lastUpdate.FirstName)
	}
	if users.lastUpdate.LastName != nil {
		t.Fatal("expected absent lastName to stay nil")
	}
}

func TestContextCarriesUsername(t *testing.T) {
	tokens := newTestTokens(t)
	favorites := &stubFavoritesService{}
	discover := &stubDiscoverService{genres: []string{"ambient"}}
	srv := New(&stubUserService{}, &stubPlaylistService{}, favorites, discover, tokens)
	handler := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/ada/favorites",
		bytes.NewBufferString(`{"songId":"song42"}`))
	req.Header.Set("Authorization", bearerFor(t, tokens, "ada"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got, ok := favorites.ctxUsername.(string); !ok || got != "ada" {
		t.Fatalf("favorites context username = %v, want ada", favorites.ctxUsername)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/discover/genres", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "eve"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got, ok := discover.ctxUsername.(string); !ok || got != "eve" {
		t.Fatalf("discover context username = %v, want eve", discover.ctxUsername)
	}
}

func TestDiscoverRequiresLogin(t *testing.T) {
	tokens := newTestTokens(t)
	srv := New(&stubUserService{}, &stubPlaylistService{}, &stubFavoritesService{}, &stubDiscoverService{}, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/discover/genres", nil)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestDiscoverGenres(t *testing.T) {
	tokens := newTestTokens(t)
	discover := &stubDiscoverService{genres: []string{"ambient", "jazz"}}
	srv := New(&stubUserService{}, &stubPlaylistService{}, &stubFavoritesService{}, discover, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/discover/genres", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "eve"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Genres []string `json:"genres"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Genres) != 2 || resp.Genres[0] != "ambient" {
		t.Fatalf("unexpected genres: %v", resp.Genres)
	}
}

func TestDiscoverEmptySearchTerm(t *testing.T) {
	tokens := newTestTokens(t)
	discover := &stubDiscoverService{err: musicapi.ErrEmptyQuery}
	srv := New(&stubUserService{}, &stubPlaylistService{}, &stubFavoritesService{}, discover, tokens)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/discover/artists?searchTerm=", nil)
	req.Header.Set("Authorization", bearerFor(t, tokens, "eve"))
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

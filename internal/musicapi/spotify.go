package musicapi

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultAPIURL   = "https://api.spotify.com/v1"
	defaultTokenURL = "https://accounts.spotify.com/api/token"
)

// SpotifyClient implements Client against the Spotify Web API using the
// client-credentials flow. The access token is cached on the client and
// refreshed when it expires.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	httpClient   *http.Client

	apiURL   string
	tokenURL string

	mu          sync.RWMutex
	accessToken string
	tokenExpiry time.Time
}

// NewSpotifyClient creates a Spotify catalog client.
func NewSpotifyClient(clientID, clientSecret string) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiURL:   defaultAPIURL,
		tokenURL: defaultTokenURL,
	}
}

type spotifyTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type spotifySearchResponse struct {
	Artists *spotifyArtistsPage `json:"artists,omitempty"`
	Albums  *spotifyAlbumsPage  `json:"albums,omitempty"`
	Tracks  *spotifyTracksPage  `json:"tracks,omitempty"`
}

type spotifyArtistsPage struct {
	Items []spotifyArtist `json:"items"`
}

type spotifyAlbumsPage struct {
	Items []spotifyAlbum `json:"items"`
}

type spotifyTracksPage struct {
	Items []spotifyTrack `json:"items"`
}

type spotifyArtist struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Genres       []string            `json:"genres"`
	Popularity   int                 `json:"popularity"`
	Images       []spotifyImage      `json:"images"`
	ExternalURLs spotifyExternalURLs `json:"external_urls"`
}

type spotifyAlbum struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Artists      []spotifySimpleArtist `json:"artists"`
	ReleaseDate  string                `json:"release_date"`
	TotalTracks  int                   `json:"total_tracks"`
	Images       []spotifyImage        `json:"images"`
	ExternalURLs spotifyExternalURLs   `json:"external_urls"`
	Tracks       *spotifyTracksPage    `json:"tracks,omitempty"`
}

type spotifyTrack struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Artists      []spotifySimpleArtist `json:"artists"`
	Album        *spotifySimpleAlbum   `json:"album,omitempty"`
	DurationMS   int                   `json:"duration_ms"`
	TrackNumber  int                   `json:"track_number"`
	PreviewURL   string                `json:"preview_url"`
	ExternalURLs spotifyExternalURLs   `json:"external_urls"`
}

type spotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifySimpleAlbum struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// authenticate refreshes the cached access token when needed.
func (c *SpotifyClient) authenticate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if time.Now().Before(c.tokenExpiry) {
		return nil
	}

	authString := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create auth request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+authString)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send auth request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify auth error: %s - %s", resp.Status, string(body))
	}

	var token spotifyTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return fmt.Errorf("decode auth response: %w", err)
	}

	c.accessToken = token.AccessToken
	// Renew one minute early so in-flight requests never carry a stale token.
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn)*time.Second - time.Minute)
	return nil
}

// doRequest performs an authenticated GET against the Spotify API.
func (c *SpotifyClient) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := c.authenticate(ctx); err != nil {
		return err
	}

	c.mu.RLock()
	token := c.accessToken
	c.mu.RUnlock()

	apiURL := c.apiURL + "/" + endpoint
	if len(params) > 0 {
		apiURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("spotify api error: %s - %s", resp.Status, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Genres lists the genre seeds available for recommendations.
func (c *SpotifyClient) Genres(ctx context.Context) ([]string, error) {
	var result struct {
		Genres []string `json:"genres"`
	}
	if err := c.doRequest(ctx, "recommendations/available-genre-seeds", nil, &result); err != nil {
		return nil, err
	}
	return result.Genres, nil
}

// NewReleases lists newly released albums.
func (c *SpotifyClient) NewReleases(ctx context.Context) ([]Album, error) {
	var result struct {
		Albums spotifyAlbumsPage `json:"albums"`
	}
	if err := c.doRequest(ctx, "browse/new-releases", nil, &result); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(result.Albums.Items))
	for _, sa := range result.Albums.Items {
		albums = append(albums, convertAlbum(sa))
	}
	return albums, nil
}

// SearchArtists searches artists by name, optionally narrowed by genre.
func (c *SpotifyClient) SearchArtists(ctx context.Context, term, genre string) ([]Artist, error) {
	q, err := searchQuery("artist", term, genre)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"q":    []string{q},
		"type": []string{"artist"},
	}
	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return nil, err
	}
	if result.Artists == nil {
		return []Artist{}, nil
	}

	artists := make([]Artist, 0, len(result.Artists.Items))
	for _, sa := range result.Artists.Items {
		artists = append(artists, convertArtist(sa))
	}
	return artists, nil
}

// SearchAlbums searches albums by title or artist.
func (c *SpotifyClient) SearchAlbums(ctx context.Context, term string) ([]Album, error) {
	q, err := searchQuery("album", term, "")
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"q":    []string{q},
		"type": []string{"album"},
	}
	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return nil, err
	}
	if result.Albums == nil {
		return []Album{}, nil
	}

	albums := make([]Album, 0, len(result.Albums.Items))
	for _, sa := range result.Albums.Items {
		albums = append(albums, convertAlbum(sa))
	}
	return albums, nil
}

// SearchTracks searches tracks by title or artist.
func (c *SpotifyClient) SearchTracks(ctx context.Context, term string) ([]Track, error) {
	q, err := searchQuery("track", term, "")
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"q":    []string{q},
		"type": []string{"track"},
	}
	var result spotifySearchResponse
	if err := c.doRequest(ctx, "search", params, &result); err != nil {
		return nil, err
	}
	if result.Tracks == nil {
		return []Track{}, nil
	}

	tracks := make([]Track, 0, len(result.Tracks.Items))
	for _, st := range result.Tracks.Items {
		tracks = append(tracks, convertTrack(st))
	}
	return tracks, nil
}

// Artist retrieves one artist by id.
func (c *SpotifyClient) Artist(ctx context.Context, id string) (*Artist, error) {
	var sa spotifyArtist
	if err := c.doRequest(ctx, "artists/"+id, nil, &sa); err != nil {
		return nil, err
	}
	artist := convertArtist(sa)
	return &artist, nil
}

// ArtistAlbums lists an artist's albums and singles.
func (c *SpotifyClient) ArtistAlbums(ctx context.Context, id string) ([]Album, error) {
	params := url.Values{}
	params.Set("include_groups", "album,single")

	var result struct {
		Items []spotifyAlbum `json:"items"`
	}
	if err := c.doRequest(ctx, "artists/"+id+"/albums", params, &result); err != nil {
		return nil, err
	}

	albums := make([]Album, 0, len(result.Items))
	for _, sa := range result.Items {
		albums = append(albums, convertAlbum(sa))
	}
	return albums, nil
}

// ArtistTopTracks lists an artist's most popular tracks.
func (c *SpotifyClient) ArtistTopTracks(ctx context.Context, id string) ([]Track, error) {
	params := url.Values{}
	params.Set("country", "us")

	var result struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	if err := c.doRequest(ctx, "artists/"+id+"/top-tracks", params, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Tracks))
	for _, st := range result.Tracks {
		tracks = append(tracks, convertTrack(st))
	}
	return tracks, nil
}

// Album retrieves one album and its tracks by id.
func (c *SpotifyClient) Album(ctx context.Context, id string) (*Album, []Track, error) {
	var sa spotifyAlbum
	if err := c.doRequest(ctx, "albums/"+id, nil, &sa); err != nil {
		return nil, nil, err
	}

	album := convertAlbum(sa)

	tracks := []Track{}
	if sa.Tracks != nil {
		for _, st := range sa.Tracks.Items {
			st.Album = &spotifySimpleAlbum{ID: sa.ID, Name: sa.Name}
			tracks = append(tracks, convertTrack(st))
		}
	}
	return &album, tracks, nil
}

// Tracks retrieves several tracks at once.
func (c *SpotifyClient) Tracks(ctx context.Context, ids []string) ([]Track, error) {
	params := url.Values{}
	params.Set("ids", strings.Join(ids, ","))

	var result struct {
		Tracks []spotifyTrack `json:"tracks"`
	}
	if err := c.doRequest(ctx, "tracks", params, &result); err != nil {
		return nil, err
	}

	tracks := make([]Track, 0, len(result.Tracks))
	for _, st := range result.Tracks {
		tracks = append(tracks, convertTrack(st))
	}
	return tracks, nil
}

// searchQuery builds a field-filtered Spotify search query.
func searchQuery(field, term, genre string) (string, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", ErrEmptyQuery
	}
	q := field + ":" + term
	if genre != "" {
		q += " genre:" + genre
	}
	return q, nil
}

func convertArtist(sa spotifyArtist) Artist {
	imageURL := ""
	if len(sa.Images) > 0 {
		imageURL = sa.Images[0].URL
	}
	return Artist{
		ID:          sa.ID,
		Name:        sa.Name,
		Genres:      sa.Genres,
		Popularity:  sa.Popularity,
		ImageURL:    imageURL,
		ExternalURL: sa.ExternalURLs.Spotify,
	}
}

func convertAlbum(sa spotifyAlbum) Album {
	artistName := ""
	artistID := ""
	if len(sa.Artists) > 0 {
		artistName = sa.Artists[0].Name
		artistID = sa.Artists[0].ID
	}
	coverURL := ""
	if len(sa.Images) > 0 {
		coverURL = sa.Images[0].URL
	}
	return Album{
		ID:          sa.ID,
		Title:       sa.Name,
		Artist:      artistName,
		ArtistID:    artistID,
		ReleaseDate: sa.ReleaseDate,
		TrackCount:  sa.TotalTracks,
		CoverURL:    coverURL,
		ExternalURL: sa.ExternalURLs.Spotify,
	}
}

func convertTrack(st spotifyTrack) Track {
	artistName := ""
	artistID := ""
	if len(st.Artists) > 0 {
		artistName = st.Artists[0].Name
		artistID = st.Artists[0].ID
	}
	albumName := ""
	albumID := ""
	if st.Album != nil {
		albumName = st.Album.Name
		albumID = st.Album.ID
	}
	return Track{
		ID:          st.ID,
		Title:       st.Name,
		Artist:      artistName,
		ArtistID:    artistID,
		Album:       albumName,
		AlbumID:     albumID,
		DurationMS:  st.DurationMS,
		TrackNumber: st.TrackNumber,
		PreviewURL:  st.PreviewURL,
		ExternalURL: st.ExternalURLs.Spotify,
	}
}

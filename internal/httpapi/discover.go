package httpapi

import (
	"net/http"
	"strings"

	"songscout/internal/musicapi"
)

// handleDiscover routes catalog browse and search requests under
// /api/v1/discover/. Every endpoint requires a valid token but no
// particular user, since catalog data is not user-scoped.
func (s *Server) handleDiscover(w http.ResponseWriter, r *http.Request) {
	username, ok := s.ensureLoggedIn(w, r)
	if !ok {
		return
	}
	r = withUsername(r, username)
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1/discover/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")

	switch parts[0] {
	case "genres":
		genres, err := s.discover.Genres(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Genres []string `json:"genres"`
		}{Genres: genres})

	case "new-releases":
		albums, err := s.discover.NewReleases(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Albums []musicapi.Album `json:"albums"`
		}{Albums: albums})

	case "artists":
		s.handleArtists(w, r, parts[1:])

	case "albums":
		s.handleAlbums(w, r, parts[1:])

	case "tracks":
		s.handleTracks(w, r)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleArtists(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		term := r.URL.Query().Get("searchTerm")
		genre := r.URL.Query().Get("genre")
		artists, err := s.discover.SearchArtists(r.Context(), term, genre)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Artists []musicapi.Artist `json:"artists"`
		}{Artists: artists})

	case 1:
		artist, err := s.discover.Artist(r.Context(), rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Artist *musicapi.Artist `json:"artist"`
		}{Artist: artist})

	case 2:
		switch rest[1] {
		case "albums":
			albums, err := s.discover.ArtistAlbums(r.Context(), rest[0])
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, struct {
				Albums []musicapi.Album `json:"albums"`
			}{Albums: albums})
		case "top-tracks":
			tracks, err := s.discover.ArtistTopTracks(r.Context(), rest[0])
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, struct {
				Tracks []musicapi.Track `json:"tracks"`
			}{Tracks: tracks})
		default:
			http.NotFound(w, r)
		}

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleAlbums(w http.ResponseWriter, r *http.Request, rest []string) {
	switch len(rest) {
	case 0:
		term := r.URL.Query().Get("searchTerm")
		albums, err := s.discover.SearchAlbums(r.Context(), term)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Albums []musicapi.Album `json:"albums"`
		}{Albums: albums})

	case 1:
		album, tracks, err := s.discover.Album(r.Context(), rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Album  *musicapi.Album  `json:"album"`
			Tracks []musicapi.Track `json:"tracks"`
		}{Album: album, Tracks: tracks})

	default:
		http.NotFound(w, r)
	}
}

// handleTracks serves both bulk lookup by id and text search. The ids
// parameter wins when both are present.
func (s *Server) handleTracks(w http.ResponseWriter, r *http.Request) {
	if ids := r.URL.Query().Get("ids"); ids != "" {
		tracks, err := s.discover.Tracks(r.Context(), strings.Split(ids, ","))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Tracks []musicapi.Track `json:"tracks"`
		}{Tracks: tracks})
		return
	}

	term := r.URL.Query().Get("searchTerm")
	tracks, err := s.discover.SearchTracks(r.Context(), term)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tracks []musicapi.Track `json:"tracks"`
	}{Tracks: tracks})
}

package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"songscout/internal/store"
)

// handleUsers routes everything under /api/v1/users/{username}:
//
//	GET|PATCH  /users/{username}
//	POST       /users/{username}/favorites
//	DELETE     /users/{username}/favorites/{songID}
//	POST       /users/{username}/playlists
//	GET|DELETE /users/{username}/playlists/{id}
//	POST       /users/{username}/playlists/{id}/songs
//	DELETE     /users/{username}/playlists/{id}/songs/{songID}
func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/v1/users/")
	parts := strings.Split(strings.TrimSuffix(path, "/"), "/")

	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "username required", http.StatusBadRequest)
		return
	}
	username := parts[0]

	if !s.ensureSameUser(w, r, username) {
		return
	}
	r = withUsername(r, username)

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			s.getProfile(w, r, username)
		case http.MethodPatch:
			s.updateProfile(w, r, username)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch parts[1] {
	case "favorites":
		s.handleFavorites(w, r, username, parts[2:])
	case "playlists":
		s.handlePlaylists(w, r, username, parts[2:])
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) getProfile(w http.ResponseWriter, r *http.Request, username string) {
	user, err := s.users.Get(r.Context(), username)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		User *store.UserPage `json:"user"`
	}{User: user})
}

func (s *Server) updateProfile(w http.ResponseWriter, r *http.Request, username string) {
	var req struct {
		Password  string  `json:"password"`
		FirstName *string `json:"firstName"`
		LastName  *string `json:"lastName"`
		Email     *string `json:"email"`
		ImgURL    *string `json:"imgUrl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	user, err := s.users.Update(r.Context(), username, store.UserUpdate{
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		ImgURL:    req.ImgURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		User *store.UserPage `json:"user"`
	}{User: user})
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request, username string, rest []string) {
	switch {
	case len(rest) == 0 && r.Method == http.MethodPost:
		var req struct {
			SongID string `json:"songId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == "" {
			http.Error(w, "songId required", http.StatusBadRequest)
			return
		}
		added, err := s.favorites.Add(r.Context(), username, req.SongID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Added string `json:"added"`
		}{Added: added})

	case len(rest) == 1 && r.Method == http.MethodDelete:
		deleted, err := s.favorites.Remove(r.Context(), username, rest[0])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Deleted string `json:"deleted"`
		}{Deleted: deleted})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePlaylists(w http.ResponseWriter, r *http.Request, username string, rest []string) {
	if len(rest) == 0 {
		switch r.Method {
		case http.MethodGet:
			playlists, err := s.playlists.List(r.Context(), username)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusOK, struct {
				Playlists []store.Playlist `json:"playlists"`
			}{Playlists: playlists})
			return
		case http.MethodPost:
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Name   string `json:"name"`
			ImgURL string `json:"imgUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "you must name your playlist", http.StatusBadRequest)
			return
		}
		playlist, err := s.playlists.Create(r.Context(), req.Name, req.ImgURL, username)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Playlist *store.Playlist `json:"playlist"`
		}{Playlist: playlist})
		return
	}

	playlistID, err := strconv.ParseInt(rest[0], 10, 64)
	if err != nil {
		http.Error(w, "invalid playlist id", http.StatusBadRequest)
		return
	}

	switch {
	case len(rest) == 1 && r.Method == http.MethodGet:
		playlist, err := s.playlists.Get(r.Context(), playlistID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Playlist *store.Playlist `json:"playlist"`
		}{Playlist: playlist})

	case len(rest) == 1 && r.Method == http.MethodDelete:
		deleted, err := s.playlists.Delete(r.Context(), playlistID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Deleted int64 `json:"deleted"`
		}{Deleted: deleted})

	case len(rest) == 2 && rest[1] == "songs" && r.Method == http.MethodPost:
		var req struct {
			SongID string `json:"songId"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SongID == "" {
			http.Error(w, "songId required", http.StatusBadRequest)
			return
		}
		added, err := s.playlists.AddSong(r.Context(), playlistID, req.SongID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Added string `json:"added"`
		}{Added: added})

	case len(rest) == 3 && rest[1] == "songs" && r.Method == http.MethodDelete:
		deleted, err := s.playlists.RemoveSong(r.Context(), playlistID, rest[2])
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Deleted string `json:"deleted"`
		}{Deleted: deleted})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

package main

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"songscout/internal/app/discover"
	"songscout/internal/app/favorites"
	"songscout/internal/app/playlists"
	"songscout/internal/app/users"
	"songscout/internal/auth"
	"songscout/internal/httpapi"
	"songscout/internal/middleware"
	"songscout/internal/musicapi"
	"songscout/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, tokens *auth.TokenService) http.Handler {
	userSvc := users.New(dataStore)
	playlistSvc := playlists.New(dataStore)
	favoritesSvc := favorites.New(dataStore)
	discoverSvc := discover.New(newCatalogClient(cfg))

	routes := httpapi.New(userSvc, playlistSvc, favoritesSvc, discoverSvc, tokens).Routes()

	handler := middleware.Recovery()(routes)
	handler = middleware.RequestLogging()(handler)
	return withCORS(cfg.AllowedOrigins, handler)
}

func newCatalogClient(cfg Config) musicapi.Client {
	if cfg.SpotifyClientID == "" || cfg.SpotifyClientSecret == "" {
		log.Warn().Msg("Spotify credentials not provided, catalog requests will fail")
	}
	return musicapi.NewSpotifyClient(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

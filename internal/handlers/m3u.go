package handlers

import (
	"net/http"

	"github.com/streamdesk/streamdesk/internal/m3u"
)

// M3UHandler fetches and parses live-stream playlists for the admin screen.
type M3UHandler struct {
	// Client is used for playlist downloads; nil falls back to the default
	// client. The fetch itself carries the 10-second timeout.
	Client *http.Client
}

// ParsePlaylist handles both modes:
//
//	GET  /api/m3u?url=...  fetches a remote playlist and parses it
//	POST /api/m3u          parses an uploaded playlist body
func (h *M3UHandler) ParsePlaylist(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		entries, err := m3u.Parse(r.Body)
		if err != nil {
			JSONError(w, "failed to parse playlist", http.StatusBadRequest)
			return
		}
		if entries == nil {
			entries = []m3u.Entry{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
		return
	}

	url := r.URL.Query().Get("url")
	if url == "" {
		JSONError(w, "url is required", http.StatusBadRequest)
		return
	}

	entries, err := m3u.Fetch(r.Context(), h.Client, url)
	if err != nil {
		JSONError(w, "failed to fetch playlist", http.StatusBadGateway)
		return
	}
	if entries == nil {
		entries = []m3u.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

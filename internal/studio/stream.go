package studio

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"decorstudio/internal/media"
)

const keepAliveInterval = 15 * time.Second

// StreamEvents handles GET /api/events as a server-sent event stream.
func (h Handler) StreamEvents(w http.ResponseWriter, r *http.Request) {
	if h.Events == nil {
		http.Error(w, "event stream inactive", http.StatusServiceUnavailable)
		return
	}
	rc := http.NewResponseController(w)
	// the stream outlives the server write timeout
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		h.Logger.Warn().Err(err).Msg("event stream cannot flush")
		return
	}

	ch := h.Events.Subscribe()
	defer h.Events.Unsubscribe(ch)

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			_ = rc.Flush()
		case evt, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(evt)
			if err != nil {
				h.Logger.Error().Err(err).Msg("encode event")
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Name, payload); err != nil {
				return
			}
			_ = rc.Flush()
		}
	}
}

// ServeMedia handles GET /media/{key}.
func (h Handler) ServeMedia(w http.ResponseWriter, r *http.Request) {
	obj, err := h.Media.Open(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.Logger.Error().Err(err).Msg("open media failed")
		http.Error(w, "could not read media", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", obj.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(obj.Data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	_, _ = w.Write(obj.Data)
}

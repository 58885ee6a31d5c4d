package studio

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"decorstudio/internal/catalog"
	"decorstudio/internal/events"
	"decorstudio/internal/media"
	"decorstudio/internal/pipeline"
	"decorstudio/internal/session"
)

// Workflows is the part of the orchestrator the HTTP surface drives.
type Workflows interface {
	GenerateIdeasAndHero(ctx context.Context, style catalog.Style, room catalog.Room) pipeline.IdeasAndHero
	GenerateCardImage(ctx context.Context, style catalog.Style, room catalog.Room, ideaID, title string) *pipeline.Task[session.ImageResult]
	RunMakeover(ctx context.Context, style catalog.Style, photo pipeline.Photo) (*pipeline.Task[session.MakeoverResult], error)
	RemoveItems(ctx context.Context, source session.GeneratedImage, itemsText string, style catalog.Style, roomLabel string) (*pipeline.Task[session.RemovalResult], error)
}

// Handler bundles dependencies for the studio endpoints.
type Handler struct {
	Store          *session.Store
	Workflows      Workflows
	Media          media.Store
	Events         *events.Broker
	MaxUploadBytes int64
	Logger         zerolog.Logger
}

// Routes mounts the studio API on r.
func (h Handler) Routes(r chi.Router) {
	r.Get("/catalog", h.Catalog)
	r.Route("/session", func(r chi.Router) {
		r.Get("/", h.Session)
		r.Put("/style", h.SelectStyle)
		r.Put("/room", h.SelectRoom)
		r.Put("/tab", h.SetTab)
	})
	r.Post("/ideas", h.GenerateIdeas)
	r.Post("/ideas/{ideaID}/image", h.GenerateCardImage)
	r.Route("/makeover", func(r chi.Router) {
		r.Post("/upload", h.UploadPhoto)
		r.Post("/", h.RunMakeover)
		r.Post("/remove", h.RemoveItems)
	})
	r.Get("/events", h.StreamEvents)
}

// Catalog handles GET /api/catalog.
func (h Handler) Catalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"styles": catalog.Styles(),
		"rooms":  catalog.Rooms(),
	})
}

// Session handles GET /api/session.
func (h Handler) Session(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.Store.Snapshot())
}

// SelectStyle handles PUT /api/session/style. A null or empty id deselects.
func (h Handler) SelectStyle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StyleID *string `json:"style_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id := trimmed(req.StyleID)
	if id != "" {
		if _, ok := catalog.LookupStyle(id); !ok {
			http.Error(w, "unknown style: "+id, http.StatusBadRequest)
			return
		}
	}
	h.Store.SelectStyle(id)
	h.publishSelection("style", id)
	writeJSON(w, http.StatusOK, h.Store.Snapshot())
}

// SelectRoom handles PUT /api/session/room. A null or empty id deselects.
func (h Handler) SelectRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RoomID *string `json:"room_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	id := trimmed(req.RoomID)
	if id != "" {
		if _, ok := catalog.LookupRoom(id); !ok {
			http.Error(w, "unknown room: "+id, http.StatusBadRequest)
			return
		}
	}
	h.Store.SelectRoom(id)
	h.publishSelection("room", id)
	writeJSON(w, http.StatusOK, h.Store.Snapshot())
}

// SetTab handles PUT /api/session/tab.
func (h Handler) SetTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	tab, ok := session.ParseTab(strings.TrimSpace(req.Tab))
	if !ok {
		http.Error(w, "unknown tab: "+req.Tab, http.StatusBadRequest)
		return
	}
	h.Store.SetTab(tab)
	h.publish(events.Event{Name: events.TabSwitch, Target: string(tab)})
	writeJSON(w, http.StatusOK, h.Store.Snapshot())
}

// GenerateIdeas handles POST /api/ideas for the current selection.
func (h Handler) GenerateIdeas(w http.ResponseWriter, r *http.Request) {
	styleID, roomID, _ := h.Store.Selection()
	style, styleOK := catalog.LookupStyle(styleID)
	room, roomOK := catalog.LookupRoom(roomID)
	if !styleOK || !roomOK {
		http.Error(w, "select a style and a room first", http.StatusBadRequest)
		return
	}

	both := h.Workflows.GenerateIdeasAndHero(r.Context(), style, room)
	writeJSON(w, http.StatusAccepted, map[string]session.Run{
		"ideas": both.Ideas.Run(),
		"hero":  both.Hero.Run(),
	})
}

// GenerateCardImage handles POST /api/ideas/{ideaID}/image. The card is
// rendered with the style and room its ideas were generated for.
func (h Handler) GenerateCardImage(w http.ResponseWriter, r *http.Request) {
	ideaID := chi.URLParam(r, "ideaID")
	idea, ok := h.Store.Idea(ideaID)
	if !ok {
		http.Error(w, "idea not found", http.StatusNotFound)
		return
	}
	ideas := h.Store.Ideas()
	style, styleOK := catalog.LookupStyle(ideas.StyleID)
	room, roomOK := catalog.LookupRoom(ideas.RoomID)
	if !styleOK || !roomOK {
		http.Error(w, "ideas carry no style or room", http.StatusConflict)
		return
	}

	task := h.Workflows.GenerateCardImage(r.Context(), style, room, idea.ID, idea.Title)
	writeJSON(w, http.StatusAccepted, map[string]session.Run{"run": task.Run()})
}

func (h Handler) publishSelection(target, id string) {
	evt := events.Event{Name: events.Select, Target: target + ":" + id}
	if id == "" {
		evt = events.Event{Name: events.Deselect, Target: target}
	}
	h.publish(evt)
}

func (h Handler) publish(evt events.Event) {
	if h.Events != nil {
		h.Events.Publish(evt)
	}
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// statusFor maps request validation errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, pipeline.ErrNoItems):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNoPhoto), errors.Is(err, pipeline.ErrNoRendering), errors.Is(err, media.ErrNotFound):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

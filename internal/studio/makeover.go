package studio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"decorstudio/internal/catalog"
	"decorstudio/internal/events"
	"decorstudio/internal/media"
	"decorstudio/internal/pipeline"
	"decorstudio/internal/session"
)

func (h Handler) maxUpload() int64 {
	if h.MaxUploadBytes > 0 {
		return h.MaxUploadBytes
	}
	return media.MaxImageBytes
}

// UploadPhoto handles POST /api/makeover/upload with a multipart image_file.
// The new photo replaces the previous upload; workflow results are kept.
func (h Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	limit := h.maxUpload()
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit + (1 << 20)); err != nil {
		http.Error(w, fmt.Sprintf("could not parse form: %v", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image_file")
	if err != nil {
		http.Error(w, "image_file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		http.Error(w, "could not read file", http.StatusBadRequest)
		return
	}
	if len(data) == 0 {
		http.Error(w, "empty file", http.StatusBadRequest)
		return
	}
	if int64(len(data)) > limit {
		http.Error(w, fmt.Sprintf("file exceeds %d bytes", limit), http.StatusBadRequest)
		return
	}

	contentType := media.DetectImageType(data, header.Header.Get("Content-Type"))
	result, err := h.Media.Upload(r.Context(), media.UploadInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		h.Logger.Error().Err(err).Str("filename", header.Filename).Msg("upload failed")
		http.Error(w, "could not store image", http.StatusInternalServerError)
		return
	}

	upload := session.Upload{
		Key:        result.Key,
		URL:        result.URL,
		Filename:   header.Filename,
		MIME:       result.ContentType,
		Size:       result.Size,
		UploadedAt: time.Now().UTC(),
	}
	h.Store.SetUpload(upload)
	h.publish(events.Event{Name: events.Upload, Target: result.Key})
	writeJSON(w, http.StatusCreated, upload)
}

// RunMakeover handles POST /api/makeover with the selected style and the
// stored upload.
func (h Handler) RunMakeover(w http.ResponseWriter, r *http.Request) {
	styleID, _, _ := h.Store.Selection()
	style, ok := catalog.LookupStyle(styleID)
	if !ok {
		http.Error(w, "select a style first", http.StatusBadRequest)
		return
	}
	upload, ok := h.Store.Upload()
	if !ok {
		http.Error(w, "upload a photo first", http.StatusConflict)
		return
	}
	obj, err := h.Media.Open(r.Context(), upload.Key)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			http.Error(w, "uploaded photo is no longer available", http.StatusConflict)
			return
		}
		h.Logger.Error().Err(err).Str("key", upload.Key).Msg("open upload failed")
		http.Error(w, "could not read uploaded photo", http.StatusInternalServerError)
		return
	}

	task, err := h.Workflows.RunMakeover(r.Context(), style, pipeline.Photo{
		Data:      obj.Data,
		MIME:      upload.MIME,
		UploadKey: upload.Key,
	})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]session.Run{"run": task.Run()})
}

// RemoveItems handles POST /api/makeover/remove on the current rendering.
func (h Handler) RemoveItems(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items string `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rendering, ok := h.Store.Rendering()
	if !ok {
		http.Error(w, "no rendering to edit", http.StatusConflict)
		return
	}

	styleID, roomID, _ := h.Store.Selection()
	style, ok := catalog.LookupStyle(rendering.StyleID)
	if !ok {
		style, _ = catalog.LookupStyle(styleID)
	}
	roomLabel := rendering.RoomLabel
	if roomLabel == "" {
		if room, ok := catalog.LookupRoom(roomID); ok {
			roomLabel = room.Label
		} else {
			roomLabel = "room"
		}
	}

	task, err := h.Workflows.RemoveItems(r.Context(), rendering, req.Items, style, roomLabel)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]session.Run{"run": task.Run()})
}

package relay

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const maxBodyBytes = 64 << 20

type imageURLRequest struct {
	ImageURL string `json:"image_url"`
}

type imageRequest struct {
	Image string `json:"image"`
}

type pushEvent struct {
	Event string    `json:"event"`
	Data  pushImage `json:"data"`
}

type pushImage struct {
	Image    string `json:"image"`
	MIMEType string `json:"mime_type,omitempty"`
}

// Notification is written next to every edited face.
type Notification struct {
	Status           string `json:"status"`
	PanoramaID       string `json:"pano_id"`
	FaceLetter       string `json:"face_letter"`
	OriginalFilename string `json:"original_filename"`
	ModifiedFilename string `json:"modified_filename"`
	ModifiedPath     string `json:"modified_path"`
	Timestamp        string `json:"timestamp"`
}

func (s *Server) handleImageURL(w http.ResponseWriter, r *http.Request) {
	var req imageURLRequest
	if err := decodeBody(r, &req); err != nil || req.ImageURL == "" {
		writeError(w, http.StatusBadRequest, "image_url is required")
		return
	}

	meta, err := MetaFromURL(req.ImageURL)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.download(r.Context(), req.ImageURL)
	if err != nil {
		s.opts.Recorder.ObserveCache(false)
		s.log.Warn("image download failed", zap.String("url", req.ImageURL), zap.Error(err))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("failed to download image from URL: %v", err))
		return
	}

	entry := s.cache.Put(data, meta)
	s.opts.Recorder.ObserveCache(true)
	s.log.Info("image cached",
		zap.String("id", entry.ID),
		zap.String("pano_id", meta.PanoramaID),
		zap.String("face", meta.FaceLetter),
		zap.Int("bytes", len(data)),
	)

	writeJSON(w, http.StatusOK, map[string]string{"redirect_url": "/?image=" + entry.ID})
}

func (s *Server) download(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.DownloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty body")
	}
	return data, nil
}

func (s *Server) handleCachedImage(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.cache.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "image not found")
		return
	}
	writeImage(w, entry.Bytes)
}

func (s *Server) handleInputImage(w http.ResponseWriter, r *http.Request) {
	entry, ok := s.cache.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no input image")
		return
	}
	writeImage(w, entry.Bytes)
}

func (s *Server) handleUnityImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	data, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = ""
	}
	msg, err := json.Marshal(pushEvent{
		Event: "unity_image_received",
		Data:  pushImage{Image: req.Image, MIMEType: mime},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	reached := s.hub.Broadcast(msg)
	s.log.Info("image broadcast", zap.Int("bytes", len(data)), zap.Int("subscribers", reached))

	writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"message":     "Image received and event emitted",
		"subscribers": reached,
	})
}

func (s *Server) handleSendToUnity(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	data, err := decodeImage(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entry, ok := s.cache.Latest()
	if !ok {
		s.log.Warn("edited image has no cached reference")
		writeError(w, http.StatusBadRequest, "no image reference found")
		return
	}

	note, err := s.writeBack(entry, data)
	if err != nil {
		s.log.Error("writing edited image failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "error saving edited image")
		return
	}
	s.log.Info("edited image saved",
		zap.String("path", note.ModifiedPath),
		zap.String("original", note.OriginalFilename),
	)
	writeJSON(w, http.StatusOK, note)
}

// writeBack stores the edited face and its notification file.
func (s *Server) writeBack(entry CachedImage, data []byte) (Notification, error) {
	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return Notification{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	outPath := filepath.Join(s.opts.OutputDir, entry.Meta.ModifiedFilename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return Notification{}, fmt.Errorf("failed to write edited image: %w", err)
	}

	note := Notification{
		Status:           "ready",
		PanoramaID:       entry.Meta.PanoramaID,
		FaceLetter:       entry.Meta.FaceLetter,
		OriginalFilename: entry.Meta.OriginalFilename,
		ModifiedFilename: entry.Meta.ModifiedFilename,
		ModifiedPath:     outPath,
		Timestamp:        entry.Stamp,
	}
	body, err := json.MarshalIndent(note, "", "  ")
	if err != nil {
		return Notification{}, fmt.Errorf("failed to encode notification: %w", err)
	}

	notePath := filepath.Join(s.opts.OutputDir, "unity_notification_"+entry.Stamp+".json")
	if err := os.WriteFile(notePath, body, 0o644); err != nil {
		return Notification{}, fmt.Errorf("failed to write notification: %w", err)
	}
	return note, nil
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(v)
}

func decodeImage(payload string) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("image is required")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image: %w", err)
	}
	return data, nil
}

func writeImage(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

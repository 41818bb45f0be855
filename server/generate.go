package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"marketing_content_studio/content"
	"marketing_content_studio/store"
)

type generateResp struct {
	Results      map[string][]content.ChannelResult `json:"results"`
	GenerationID int64                              `json:"generation_id"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request, user store.User) {
	var req content.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	results, err := s.agent.Generate(ctx, req)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	id, err := s.store.SaveGeneration(r.Context(), user.ID, req, results)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, generateResp{Results: results, GenerationID: id})
}

// handleGenerateStream emits one channel_complete SSE event per channel as it
// finishes, then a final done event carrying the stored generation id.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request, user store.User) {
	var req content.GenerateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	results := make(map[string][]content.ChannelResult, len(req.Channels))
	for event := range s.agent.GenerateStream(ctx, req) {
		event.Variants = s.attachImages(ctx, event.Channel, event.Variants)
		results[event.Channel] = event.Variants
		writeSSE(w, "channel_complete", event)
		flusher.Flush()
	}

	id, err := s.store.SaveGeneration(r.Context(), user.ID, req, results)
	if err != nil {
		s.log.Error("save streamed generation", zap.Error(err))
		return
	}
	writeSSE(w, "done", map[string]int64{"generation_id": id})
	flusher.Flush()
}

// attachImages resolves image prompts into image URLs. Failures leave the
// variant without an image rather than failing the stream.
func (s *Server) attachImages(ctx context.Context, channel string, variants []content.ChannelResult) []content.ChannelResult {
	if s.images == nil {
		return variants
	}
	for i, v := range variants {
		if v.ImagePrompt == "" {
			continue
		}
		img, err := s.images.Generate(ctx, v.ImagePrompt, channel)
		if err != nil {
			s.log.Warn("image generation failed", zap.String("channel", channel), zap.Error(err))
			continue
		}
		variants[i].ImageURL = img.URL
	}
	return variants
}

func writeSSE(w http.ResponseWriter, event string, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
}

package server

import (
	"context"
	"net/http"
	"time"

	"marketing_content_studio/content"
	"marketing_content_studio/generator"
	"marketing_content_studio/store"
)

// --- Improve ---

type improveReq struct {
	Text       string `json:"text"`
	Channel    string `json:"channel"`
	TargetTone string `json:"target_tone,omitempty"`
}

type improveResp struct {
	OriginalText string `json:"original_text"`
	ImprovedText string `json:"improved_text"`
	Action       string `json:"action"`
}

func (s *Server) handleImprove(w http.ResponseWriter, r *http.Request, user store.User) {
	action := r.PathValue("action")
	if !generator.ValidImproveAction(action) {
		writeError(w, http.StatusBadRequest, "Invalid action. Valid values: shorten, emoji, tone, cta")
		return
	}
	var req improveReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if len([]rune(req.Text)) < 10 {
		writeError(w, http.StatusBadRequest, "Text must be at least 10 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	improved, err := s.agent.Improve(ctx, req.Text, req.Channel, content.ImproveAction(action), req.TargetTone)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, improveResp{
		OriginalText: req.Text,
		ImprovedText: improved,
		Action:       action,
	})
}

// --- Hashtags ---

type hashtagsReq struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
	Count   int    `json:"count"`
}

type hashtagsResp struct {
	Hashtags        []string `json:"hashtags"`
	SellingHashtags []string `json:"selling_hashtags"`
}

func (s *Server) handleHashtags(w http.ResponseWriter, r *http.Request, user store.User) {
	var req hashtagsReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = 5
	}
	if req.Count < 3 || req.Count > 15 {
		writeError(w, http.StatusBadRequest, "count must be between 3 and 15")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	tags, selling, err := s.agent.Hashtags(ctx, req.Text, req.Channel, req.Count)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if tags == nil {
		tags = []string{}
	}
	if selling == nil {
		selling = []string{}
	}
	writeJSON(w, http.StatusOK, hashtagsResp{Hashtags: tags, SellingHashtags: selling})
}

// --- Series ---

type seriesReq struct {
	Topic   string       `json:"topic"`
	Channel string       `json:"channel"`
	Count   int          `json:"count"`
	Goal    content.Goal `json:"goal,omitempty"`
	Tone    content.Tone `json:"tone,omitempty"`
}

type seriesResp struct {
	Topic string                  `json:"topic"`
	Posts []content.ChannelResult `json:"posts"`
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request, user store.User) {
	var req seriesReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Count == 0 {
		req.Count = 3
	}
	if req.Count < 2 || req.Count > 10 {
		writeError(w, http.StatusBadRequest, "count must be between 2 and 10")
		return
	}
	if req.Goal == "" {
		req.Goal = content.GoalSales
	}
	if req.Tone == "" {
		req.Tone = content.ToneFriendly
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	posts, err := s.agent.Series(ctx, req.Topic, req.Channel, req.Count, req.Goal, req.Tone)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, seriesResp{Topic: req.Topic, Posts: posts})
}

// --- Content plan ---

type contentPlanReq struct {
	Product      string       `json:"product"`
	DurationDays int          `json:"duration_days"`
	Channels     []string     `json:"channels"`
	Goal         content.Goal `json:"goal,omitempty"`
}

type contentPlanResp struct {
	Plan []content.ContentPlanItem `json:"plan"`
}

func (s *Server) handleContentPlan(w http.ResponseWriter, r *http.Request, user store.User) {
	var req contentPlanReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DurationDays == 0 {
		req.DurationDays = 7
	}
	if req.DurationDays < 3 || req.DurationDays > 30 {
		writeError(w, http.StatusBadRequest, "duration_days must be between 3 and 30")
		return
	}
	if len(req.Channels) == 0 {
		writeError(w, http.StatusBadRequest, "at least one channel is required")
		return
	}
	if req.Goal == "" {
		req.Goal = content.GoalSales
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	plan, err := s.agent.ContentPlan(ctx, req.Product, req.DurationDays, req.Channels, req.Goal, time.Now())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, contentPlanResp{Plan: plan})
}

// --- Audience ---

type audienceReq struct {
	Product     string `json:"product"`
	Description string `json:"description,omitempty"`
}

func (s *Server) handleAudience(w http.ResponseWriter, r *http.Request, user store.User) {
	var req audienceReq
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	analysis, err := s.agent.Audience(ctx, req.Product, req.Description)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

// --- Brand voice ---

type brandVoiceUpdateReq struct {
	Channel  string   `json:"channel"`
	Content  string   `json:"content"`
	Examples []string `json:"examples,omitempty"`
}

func (s *Server) handleBrandVoiceList(w http.ResponseWriter, r *http.Request, user store.User) {
	voices, err := s.store.BrandVoices(r.Context())
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, voices)
}

func (s *Server) handleBrandVoiceUpdate(w http.ResponseWriter, r *http.Request, user store.User) {
	var req brandVoiceUpdateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Channel == "" {
		writeError(w, http.StatusBadRequest, "channel is required")
		return
	}
	voice, err := s.store.UpsertBrandVoice(r.Context(), req.Channel, req.Content, req.Examples)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, voice)
}

type exampleCreateReq struct {
	Channel      string `json:"channel"`
	OriginalText string `json:"original_text"`
}

func (s *Server) handleExampleList(w http.ResponseWriter, r *http.Request, user store.User) {
	examples, err := s.store.BrandVoiceExamples(r.Context(), r.URL.Query().Get("channel"))
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, examples)
}

func (s *Server) handleExampleCreate(w http.ResponseWriter, r *http.Request, user store.User) {
	var req exampleCreateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Channel == "" || req.OriginalText == "" {
		writeError(w, http.StatusBadRequest, "channel and original_text are required")
		return
	}
	example, err := s.store.AddBrandVoiceExample(r.Context(), user.ID, req.Channel, req.OriginalText)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, example)
}

func (s *Server) handleExampleDelete(w http.ResponseWriter, r *http.Request, user store.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteBrandVoiceExample(r.Context(), id); err != nil {
		s.storeError(w, err, "Example not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Example deleted successfully"})
}

type analyzeReq struct {
	Channel    string  `json:"channel"`
	ExampleIDs []int64 `json:"example_ids,omitempty"`
}

type analyzeResp struct {
	Channel            string `json:"channel"`
	GeneratedGuideline string `json:"generated_guideline"`
	ExamplesCount      int    `json:"examples_count"`
}

// handleBrandVoiceAnalyze infers a style guideline from stored samples and
// persists it as the channel's brand voice.
func (s *Server) handleBrandVoiceAnalyze(w http.ResponseWriter, r *http.Request, user store.User) {
	var req analyzeReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Channel == "" {
		writeError(w, http.StatusBadRequest, "channel is required")
		return
	}
	texts, err := s.store.BrandVoiceExamplesByID(r.Context(), req.Channel, req.ExampleIDs)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	if len(texts) == 0 {
		writeJSON(w, http.StatusOK, analyzeResp{
			Channel:            req.Channel,
			GeneratedGuideline: "Нет примеров для анализа. Загрузите примеры текстов.",
			ExamplesCount:      0,
		})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	guideline, err := s.agent.AnalyzeBrandVoice(ctx, texts)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if _, err := s.store.UpsertBrandVoice(r.Context(), req.Channel, guideline, texts); err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, analyzeResp{
		Channel:            req.Channel,
		GeneratedGuideline: guideline,
		ExamplesCount:      len(texts),
	})
}

// --- Image settings and generation ---

func (s *Server) handleImageSettingsGet(w http.ResponseWriter, r *http.Request, user store.User) {
	settings, err := s.store.ImageSettings(r.Context())
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

type imageSettingsUpdateReq struct {
	APIKey  *string `json:"api_key,omitempty"`
	Model   *string `json:"model,omitempty"`
	Enabled *bool   `json:"enabled,omitempty"`
}

func (s *Server) handleImageSettingsUpdate(w http.ResponseWriter, r *http.Request, user store.User) {
	var req imageSettingsUpdateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	settings, err := s.store.UpdateImageSettings(r.Context(), store.ImageSettingsUpdate{
		APIKey:  req.APIKey,
		Model:   req.Model,
		Enabled: req.Enabled,
	})
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	settings.APIKey = maskAPIKey(settings.APIKey)
	writeJSON(w, http.StatusOK, settings)
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) > 10 {
		key = key[:10]
	}
	return key + "..."
}

type imageGenerateReq struct {
	Prompt  string `json:"prompt"`
	Channel string `json:"channel"`
}

func (s *Server) handleGenerateImage(w http.ResponseWriter, r *http.Request, user store.User) {
	var req imageGenerateReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if len([]rune(req.Prompt)) < 5 {
		writeError(w, http.StatusBadRequest, "prompt must be at least 5 characters")
		return
	}
	if s.images == nil {
		writeError(w, http.StatusServiceUnavailable, "image generation is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	img, err := s.images.Generate(ctx, req.Prompt, req.Channel)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, img)
}

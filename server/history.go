package server

import (
	"net/http"
	"strconv"

	"marketing_content_studio/store"
)

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, user store.User) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	generations, err := s.store.History(r.Context(), user.ID, limit, offset)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, generations)
}

func (s *Server) handleSaveGeneration(w http.ResponseWriter, r *http.Request, user store.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.MarkGenerationSaved(r.Context(), user.ID, id); err != nil {
		s.storeError(w, err, "Generation not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Generation saved successfully"})
}

func (s *Server) handleDeleteGeneration(w http.ResponseWriter, r *http.Request, user store.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteGeneration(r.Context(), user.ID, id); err != nil {
		s.storeError(w, err, "Generation not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Generation deleted successfully"})
}

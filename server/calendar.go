package server

import (
	"errors"
	"net/http"
	"time"

	"marketing_content_studio/content"
	"marketing_content_studio/scheduler"
	"marketing_content_studio/store"
)

type scheduleReq struct {
	GenerationID int64                 `json:"generation_id,omitempty"`
	Channel      string                `json:"channel"`
	Content      content.ChannelResult `json:"content"`
	Date         string                `json:"date"`
	Time         string                `json:"time,omitempty"`
	Timezone     string                `json:"timezone,omitempty"`
}

func (s *Server) handleCalendarCreate(w http.ResponseWriter, r *http.Request, user store.User) {
	var req scheduleReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if !content.ValidChannel(req.Channel) {
		writeError(w, http.StatusBadRequest, "Invalid channel: "+req.Channel)
		return
	}
	if err := scheduler.ValidateDate(req.Date, req.Timezone, time.Now()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	when, err := scheduler.ComposeInstant(req.Date, req.Time, req.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	tz := req.Timezone
	if tz == "" {
		tz = scheduler.DefaultTimezone
	}
	post, err := s.store.CreateScheduledPost(r.Context(), user.ID, content.ScheduledPost{
		GenerationID:  req.GenerationID,
		Channel:       req.Channel,
		Content:       req.Content,
		ScheduledDate: when,
		Timezone:      tz,
		Status:        content.StatusScheduled,
	})
	if err != nil {
		if errors.Is(err, content.ErrEmptyBody) {
			writeError(w, http.StatusBadRequest, "Post content must have a body")
			return
		}
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCalendarList(w http.ResponseWriter, r *http.Request, user store.User) {
	var filter store.CalendarFilter
	q := r.URL.Query()
	if raw := q.Get("start"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		filter.Start = t
	}
	if raw := q.Get("end"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date")
			return
		}
		filter.End = t.Add(24*time.Hour - time.Second)
	}
	if raw := q.Get("status"); raw != "" {
		filter.Status = content.PostStatus(raw)
	}
	posts, err := s.store.ListScheduledPosts(r.Context(), user.ID, filter)
	if err != nil {
		s.storeError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) handleCalendarGet(w http.ResponseWriter, r *http.Request, user store.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	post, err := s.store.ScheduledPost(r.Context(), user.ID, id)
	if err != nil {
		s.storeError(w, err, "Scheduled post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type calendarUpdateReq struct {
	Date     *string             `json:"date,omitempty"`
	Time     *string             `json:"time,omitempty"`
	Timezone *string             `json:"timezone,omitempty"`
	Status   *content.PostStatus `json:"status,omitempty"`
}

func (s *Server) handleCalendarUpdate(w http.ResponseWriter, r *http.Request, user store.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req calendarUpdateReq
	if !decodeJSON(w, r, &req) {
		return
	}

	upd := store.ScheduledPostUpdate{Status: req.Status}
	if req.Date != nil {
		existing, err := s.store.ScheduledPost(r.Context(), user.ID, id)
		if err != nil {
			s.storeError(w, err, "Scheduled post not found")
			return
		}
		tz := existing.Timezone
		if req.Timezone != nil {
			tz = *req.Timezone
		}
		clock := ""
		if req.Time != nil {
			clock = *req.Time
		}
		if err := scheduler.ValidateDate(*req.Date, tz, time.Now()); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		when, err := scheduler.ComposeInstant(*req.Date, clock, tz)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		upd.ScheduledDate = &when
		upd.Timezone = &tz
	} else if req.Timezone != nil {
		upd.Timezone = req.Timezone
	}

	post, err := s.store.UpdateScheduledPost(r.Context(), user.ID, id, upd)
	if err != nil {
		s.storeError(w, err, "Scheduled post not found")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (s *Server) handleCalendarDelete(w http.ResponseWriter, r *http.Request, user store.User) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteScheduledPost(r.Context(), user.ID, id); err != nil {
		s.storeError(w, err, "Scheduled post not found")
		return
	}
	writeJSON(w, http.StatusOK, messageResp{Message: "Scheduled post deleted successfully"})
}

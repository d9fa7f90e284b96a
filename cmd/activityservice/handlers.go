package main

import (
	"context"
	"errors"
	"net/http"

	"goa.design/clue/log"
	goahttp "goa.design/goa/v3/http"

	"github.com/fitness-app/activityservice/activity"
)

type (
	// activityServer maps HTTP requests onto an activity repository.
	activityServer struct {
		repo activity.Repository
		dec  func(*http.Request) goahttp.Decoder
		enc  func(context.Context, http.ResponseWriter) goahttp.Encoder
		vars func(*http.Request) map[string]string
	}

	mount struct {
		name    string
		verb    string
		pattern string
	}

	errorBody struct {
		Error string `json:"error"`
	}
)

var activityMounts = []mount{
	{"ListActivities", http.MethodGet, "/activities"},
	{"CreateActivity", http.MethodPost, "/activities"},
	{"GetActivity", http.MethodGet, "/activities/{id}"},
	{"ReplaceActivity", http.MethodPut, "/activities/{id}"},
	{"DeleteActivity", http.MethodDelete, "/activities/{id}"},
}

func mountActivityHandlers(mux goahttp.Muxer, repo activity.Repository) {
	s := &activityServer{
		repo: repo,
		dec:  goahttp.RequestDecoder,
		enc:  goahttp.ResponseEncoder,
		vars: mux.Vars,
	}
	handlers := map[string]http.HandlerFunc{
		"ListActivities":  s.list,
		"CreateActivity":  s.create,
		"GetActivity":     s.get,
		"ReplaceActivity": s.replace,
		"DeleteActivity":  s.delete,
	}
	for _, m := range activityMounts {
		mux.Handle(m.verb, m.pattern, handlers[m.name])
	}
}

// list returns all activities, or the activities of a single user when the
// userId query parameter is set.
func (s *activityServer) list(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	var (
		res []activity.Activity
		err error
	)
	if userID := r.URL.Query().Get("userId"); userID != "" {
		res, err = s.repo.FindByUserID(ctx, userID)
	} else {
		res, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		s.error(ctx, w, err)
		return
	}
	s.respond(ctx, w, http.StatusOK, res)
}

func (s *activityServer) create(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	var body activity.Activity
	if err := s.dec(r).Decode(&body); err != nil {
		s.error(ctx, w, errors.Join(activity.ErrInvalidActivity, err))
		return
	}
	body.ID = ""
	saved, err := s.repo.Save(ctx, body)
	if err != nil {
		s.error(ctx, w, err)
		return
	}
	s.respond(ctx, w, http.StatusCreated, saved)
}

func (s *activityServer) get(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	a, ok, err := s.repo.FindByID(ctx, s.vars(r)["id"])
	if err != nil {
		s.error(ctx, w, err)
		return
	}
	if !ok {
		s.respond(ctx, w, http.StatusNotFound, errorBody{Error: "activity not found"})
		return
	}
	s.respond(ctx, w, http.StatusOK, a)
}

// replace stores the request body under the ID in the path, creating the
// activity when it does not exist yet.
func (s *activityServer) replace(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	var body activity.Activity
	if err := s.dec(r).Decode(&body); err != nil {
		s.error(ctx, w, errors.Join(activity.ErrInvalidActivity, err))
		return
	}
	body.ID = s.vars(r)["id"]
	saved, err := s.repo.Save(ctx, body)
	if err != nil {
		s.error(ctx, w, err)
		return
	}
	s.respond(ctx, w, http.StatusOK, saved)
}

func (s *activityServer) delete(w http.ResponseWriter, r *http.Request) {
	ctx := requestContext(r)
	if err := s.repo.DeleteByID(ctx, s.vars(r)["id"]); err != nil {
		s.error(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *activityServer) respond(ctx context.Context, w http.ResponseWriter, status int, v any) {
	enc := s.enc(ctx, w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		log.Errorf(ctx, err, "failed to encode response")
	}
}

func (s *activityServer) error(ctx context.Context, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, activity.ErrInvalidActivity):
		status = http.StatusBadRequest
	case activity.IsPersistence(err):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		log.Error(ctx, err, log.KV{K: "status", V: status})
	}
	s.respond(ctx, w, status, errorBody{Error: err.Error()})
}

func requestContext(r *http.Request) context.Context {
	return context.WithValue(r.Context(), goahttp.AcceptTypeKey, r.Header.Get("Accept"))
}

package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/nudnik/nudnik/internal/challenge"
	domain "github.com/nudnik/nudnik/internal/domain/alarm"
	"github.com/nudnik/nudnik/internal/logger"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	ListAlarms(ctx context.Context) []*domain.Alarm
	GetAlarm(ctx context.Context, id string) (*domain.Alarm, error)
	AddAlarm(ctx context.Context, draft domain.Draft) (*domain.Alarm, error)
	UpdateAlarm(ctx context.Context, id string, draft domain.Draft) (*domain.Alarm, error)
	ToggleAlarm(ctx context.Context, id string, enabled bool) (*domain.Alarm, error)
	DeleteAlarm(ctx context.Context, id string) error
	SnoozeAlarm(ctx context.Context, id string) (time.Time, error)
	Challenge(ctx context.Context, id string) (challenge.Info, error)
	Dismiss(ctx context.Context, id string, attempt challenge.Attempt) (challenge.Outcome, error)
}

// Server implements the JSON/HTTP alarm API.
type Server struct {
	// service provides the business logic for alarm operations.
	service Service
}

// NewServer wires the provided service implementation into an HTTP handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Handler builds the chi router for the alarm API.
// The UI consumer is a mobile web view, hence the permissive CORS policy.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete,
		},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/healthz", s.health)

	r.Route("/api/v1/alarms", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.create)

		r.Route("/{alarmID}", func(r chi.Router) {
			r.Get("/", s.get)
			r.Put("/", s.update)
			r.Delete("/", s.remove)
			r.Post("/toggle", s.toggle)
			r.Post("/snooze", s.snooze)
			r.Get("/challenge", s.getChallenge)
			r.Post("/dismiss", s.dismiss)
		})
	})

	return r
}

// toggleRequest is the body of the toggle operation.
type toggleRequest struct {
	Enabled bool `json:"enabled"`
}

// snoozeResponse reports when the snooze notification fires.
type snoozeResponse struct {
	FiresAt time.Time `json:"firesAt"`
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListAlarms(r.Context()))
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if !decodeBody(w, r, &draft) {
		return
	}

	created, err := s.service.AddAlarm(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	found, err := s.service.GetAlarm(r.Context(), chi.URLParam(r, "alarmID"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, found)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	var draft domain.Draft
	if !decodeBody(w, r, &draft) {
		return
	}

	updated, err := s.service.UpdateAlarm(r.Context(), chi.URLParam(r, "alarmID"), draft)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	if err := s.service.DeleteAlarm(r.Context(), chi.URLParam(r, "alarmID")); err != nil {
		writeError(w, r, err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	var body toggleRequest
	if !decodeBody(w, r, &body) {
		return
	}

	toggled, err := s.service.ToggleAlarm(r.Context(), chi.URLParam(r, "alarmID"), body.Enabled)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, toggled)
}

func (s *Server) snooze(w http.ResponseWriter, r *http.Request) {
	firesAt, err := s.service.SnoozeAlarm(r.Context(), chi.URLParam(r, "alarmID"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, snoozeResponse{FiresAt: firesAt})
}

func (s *Server) getChallenge(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.Challenge(r.Context(), chi.URLParam(r, "alarmID"))
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, info)
}

func (s *Server) dismiss(w http.ResponseWriter, r *http.Request) {
	var attempt challenge.Attempt
	if !decodeBody(w, r, &attempt) {
		return
	}

	outcome, err := s.service.Dismiss(r.Context(), chi.URLParam(r, "alarmID"), attempt)
	if err != nil {
		writeError(w, r, err)

		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// decodeBody reads a JSON request body, responding with 400 on malformed input.
func decodeBody(w http.ResponseWriter, r *http.Request, into any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(into); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body: " + err.Error()})

		return false
	}

	return true
}

// writeError maps service errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidWeekday),
		errors.Is(err, domain.ErrDuplicateWeekday),
		errors.Is(err, domain.ErrInvalidSnoozeDuration),
		errors.Is(err, domain.ErrUnknownTaskType),
		errors.Is(err, domain.ErrCodeRequired),
		errors.Is(err, domain.ErrSnoozeDisabled):
		status = http.StatusBadRequest
	default:
		logger.Errorf(r.Context(), "Request %s %s failed: %v", r.Method, r.URL.Path, err)
	}

	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeJSON renders the payload with the given status code.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}

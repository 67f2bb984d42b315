package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"go.uber.org/zap"
)

func decodeTransition(r *http.Request, req any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(req)
}

func validTransition(req model.TransitionRequest) bool {
	return req.ItemId != "" && req.ActionId != "" && req.Language != "" && req.Version > 0
}

// HandlePreview expands an arbitrary template the way a notification of the
// given transition would.
func (s *Server) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var req model.PreviewRequest
	if err := decodeTransition(r, &req); err != nil || !validTransition(req.TransitionRequest) {
		respondWithError(w, http.StatusBadRequest, "invalid preview request")
		return
	}
	action, err := s.storage.GetActionDefinition(r.Context(), req.ActionId)
	if err != nil {
		respondNotFoundOr500(w, err, "action")
		return
	}
	item, err := s.storage.GetItem(r.Context(), req.ItemKey())
	if err != nil {
		respondNotFoundOr500(w, err, "item")
		return
	}
	ac := s.dispatcher.Context(r.Context(), *action, *item, req.Actor, req.Comment)
	respondOK(w, map[string]any{"text": s.expander.Expand(r.Context(), req.Template, ac)})
}

// HandleNotify queues the notification and answers at once.
func (s *Server) HandleNotify(w http.ResponseWriter, r *http.Request) {
	var req model.TransitionRequest
	if err := decodeTransition(r, &req); err != nil || !validTransition(req) {
		respondWithError(w, http.StatusBadRequest, "invalid notify request")
		return
	}
	if !s.queue.Enqueue(req) {
		logger.Error("notify queue full, dropping notification", zap.String("item", req.ItemId), zap.String("action", req.ActionId))
		respondWithError(w, http.StatusServiceUnavailable, "notify queue is full")
		return
	}
	respondWithJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}

// HandleNotifySync dispatches in the request and returns the Result. The
// status code is 200 whatever the outcome.
func (s *Server) HandleNotifySync(w http.ResponseWriter, r *http.Request) {
	var req model.TransitionRequest
	if err := decodeTransition(r, &req); err != nil || !validTransition(req) {
		respondWithError(w, http.StatusBadRequest, "invalid notify request")
		return
	}
	respondWithJSON(w, http.StatusOK, s.dispatcher.Dispatch(r.Context(), req))
}

func respondNotFoundOr500(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, persistence.ErrNotFound) {
		respondWithError(w, http.StatusNotFound, what+" does not exist")
		return
	}
	logger.Error("error loading "+what, zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "error loading "+what)
}

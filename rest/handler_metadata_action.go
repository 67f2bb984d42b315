package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
)

func (s *Server) HandleCreateActionDefinition(w http.ResponseWriter, r *http.Request) {
	var action model.ActionDefinition
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&action); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid action payload")
		return
	}
	if err := s.metadataService.ValidateAction(r.Context(), action); err != nil {
		logger.Error("error validating action", zap.String("action", action.Id), zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.metadataService.SaveAction(r.Context(), action); err != nil {
		logger.Error("error creating action", zap.String("action", action.Id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating action")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

func (s *Server) HandleGetActionDefinition(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	action, err := s.metadataService.GetMetadataStorage().GetActionDefinition(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "action does not exist")
			return
		}
		logger.Error("error loading action", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error loading action")
		return
	}
	respondWithJSON(w, http.StatusOK, action)
}

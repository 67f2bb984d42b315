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

func (s *Server) HandleCreateWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf model.Workflow
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid workflow payload")
		return
	}
	if err := s.metadataService.ValidateWorkflow(wf); err != nil {
		logger.Error("error validating workflow", zap.Error(err))
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.metadataService.SaveWorkflow(r.Context(), wf); err != nil {
		logger.Error("error creating workflow", zap.String("workflow", wf.Id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating workflow")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	wf, err := s.metadataService.GetMetadataStorage().GetWorkflowDefinition(r.Context(), id)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			logger.Info("workflow does not exist", zap.String("id", id))
			respondWithError(w, http.StatusNotFound, "workflow does not exist")
			return
		}
		logger.Error("error loading workflow", zap.String("id", id), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error loading workflow")
		return
	}
	respondWithJSON(w, http.StatusOK, wf)
}

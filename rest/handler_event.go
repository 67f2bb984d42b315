package rest

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"go.uber.org/zap"
)

// HandleAppendEvent records a transition in the history of the item version
// named by the la and v query parameters.
func (s *Server) HandleAppendEvent(w http.ResponseWriter, r *http.Request) {
	key, err := itemKey(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	var ev model.WorkflowEvent
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid event payload")
		return
	}
	if ev.Id == "" {
		ev.Id = uuid.NewString()
	}
	if ev.Date.IsZero() {
		ev.Date = time.Now().UTC()
	}
	if err := s.storage.AppendEvent(r.Context(), key, ev); err != nil {
		logger.Error("error appending event", zap.String("item", key.String()), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error appending event")
		return
	}
	respondWithJSON(w, http.StatusCreated, ev)
}

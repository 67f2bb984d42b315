package rest

import (
	"errors"
	"net/http"

	"github.com/mohitkumar/wfnotify/history"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"go.uber.org/zap"
)

// HandleGetHistory returns the persisted history of an item. With an action
// query parameter the pending transition of that action is appended.
func (s *Server) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItem(w, r)
	if !ok {
		return
	}
	var records []model.WorkflowEventRecord
	if actionId := r.URL.Query().Get("action"); actionId != "" {
		action, err := s.storage.GetActionDefinition(r.Context(), actionId)
		if err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				respondWithError(w, http.StatusNotFound, "action does not exist")
				return
			}
			respondWithError(w, http.StatusInternalServerError, "error loading action")
			return
		}
		ac := s.dispatcher.Context(r.Context(), *action, *item, r.Header.Get(HEADER_WORKFLOW_USER), r.URL.Query().Get("comment"))
		records = s.reconstructor.Build(r.Context(), ac)
	} else {
		var err error
		records, err = s.reader.Read(r.Context(), *item)
		if err != nil {
			logger.Error("error reading history", zap.String("item", item.Key().String()), zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, "error reading history")
			return
		}
	}
	if r.URL.Query().Get("format") == "html" {
		respondWithHTML(w, http.StatusOK, history.ToHtmlTable(records))
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

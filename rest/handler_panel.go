package rest

import (
	"net/http"

	"github.com/mohitkumar/wfnotify/model"
)

func (s *Server) HandleGetPanel(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItem(w, r)
	if !ok {
		return
	}
	viewer := model.UserProfile{Name: r.Header.Get(HEADER_WORKFLOW_USER)}
	if viewer.Name != "" {
		if u, err := s.storage.GetUser(r.Context(), viewer.Name); err == nil {
			viewer = *u
		}
	}
	respondWithJSON(w, http.StatusOK, s.panelBuilder.Build(r.Context(), *item, viewer))
}

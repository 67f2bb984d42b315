package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
)

func (s *Server) HandleSaveItem(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid item payload")
		return
	}
	if item.Id == "" || item.Language == "" || item.Version < 1 {
		respondWithError(w, http.StatusBadRequest, "item id, language and version are required")
		return
	}
	if err := s.storage.SaveItem(r.Context(), item); err != nil {
		logger.Error("error saving item", zap.String("item", item.Key().String()), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error saving item")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

func (s *Server) HandleGetItem(w http.ResponseWriter, r *http.Request) {
	item, ok := s.loadItem(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, item)
}

func (s *Server) HandleSaveUser(w http.ResponseWriter, r *http.Request) {
	var user model.UserProfile
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil || user.Name == "" {
		respondWithError(w, http.StatusBadRequest, "invalid user payload")
		return
	}
	if err := s.storage.SaveUser(r.Context(), user); err != nil {
		logger.Error("error saving user", zap.String("user", user.Name), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error saving user")
		return
	}
	respondOK(w, map[string]any{"created": true})
}

// loadItem writes the error response itself and reports false on failure.
func (s *Server) loadItem(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	key, err := itemKey(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	item, err := s.storage.GetItem(r.Context(), key)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "item does not exist")
			return nil, false
		}
		logger.Error("error loading item", zap.String("item", key.String()), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error loading item")
		return nil, false
	}
	return item, true
}

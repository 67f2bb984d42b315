package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/mohitkumar/wfnotify/container"
	"github.com/mohitkumar/wfnotify/history"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/metadata"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/notify"
	"github.com/mohitkumar/wfnotify/panel"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/tokens"
	"go.uber.org/zap"
)

// HEADER_WORKFLOW_USER names the authenticated user of a request.
const HEADER_WORKFLOW_USER string = "X-Workflow-User"

type Server struct {
	http.Server
	Port            int
	metadataService metadata.MetadataService
	storage         persistence.Storage
	reader          *history.EventLogReader
	reconstructor   *history.Reconstructor
	expander        *tokens.Expander
	dispatcher      *notify.Dispatcher
	queue           *notify.Queue
	panelBuilder    *panel.Builder
}

func NewServer(httpPort int, c *container.DIContiner, queue *notify.Queue) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:        fmt.Sprintf(":%d", httpPort),
			IdleTimeout: 2 * time.Second,
		},
		Port:            httpPort,
		metadataService: c.GetMetadataService(),
		storage:         c.GetStorage(),
		reader:          c.GetEventLogReader(),
		reconstructor:   c.GetReconstructor(),
		expander:        c.GetExpander(),
		dispatcher:      c.GetDispatcher(),
		queue:           queue,
		panelBuilder:    c.GetPanelBuilder(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/metadata/workflow", s.HandleCreateWorkflow).Methods(http.MethodPost)
	router.HandleFunc("/metadata/workflow/{id}", s.HandleGetWorkflow).Methods(http.MethodGet)

	router.HandleFunc("/metadata/action", s.HandleCreateActionDefinition).Methods(http.MethodPost)
	router.HandleFunc("/metadata/action/{id}", s.HandleGetActionDefinition).Methods(http.MethodGet)

	router.HandleFunc("/items", s.HandleSaveItem).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}", s.HandleGetItem).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/events", s.HandleAppendEvent).Methods(http.MethodPost)
	router.HandleFunc("/items/{id}/history", s.HandleGetHistory).Methods(http.MethodGet)
	router.HandleFunc("/items/{id}/panel", s.HandleGetPanel).Methods(http.MethodGet)

	router.HandleFunc("/users", s.HandleSaveUser).Methods(http.MethodPost)

	router.HandleFunc("/preview", s.HandlePreview).Methods(http.MethodPost)
	router.HandleFunc("/notify", s.HandleNotify).Methods(http.MethodPost)
	router.HandleFunc("/notify/sync", s.HandleNotifySync).Methods(http.MethodPost)

	router.Use(loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	err := s.Shutdown(ctx)
	if err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	return nil
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info(r.RequestURI, zap.String("method", r.Method))
		next.ServeHTTP(w, r)
	})
}

// itemKey reads the item coordinates from the path and the la and v query
// parameters. Language defaults to "en" and version to 1.
func itemKey(r *http.Request) (model.ItemKey, error) {
	key := model.ItemKey{Id: mux.Vars(r)["id"], Language: r.URL.Query().Get("la"), Version: 1}
	if key.Language == "" {
		key.Language = "en"
	}
	if v := r.URL.Query().Get("v"); v != "" {
		version, err := strconv.Atoi(v)
		if err != nil || version < 1 {
			return key, fmt.Errorf("invalid version %q", v)
		}
		key.Version = version
	}
	return key, nil
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message map[string]any) {
	respondWithJSON(w, http.StatusOK, message)
}

func respondWithHTML(w http.ResponseWriter, code int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	w.Write([]byte(body))
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

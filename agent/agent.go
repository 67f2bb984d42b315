package agent

import (
	"sync"

	"github.com/mohitkumar/wfnotify/analytics"
	"github.com/mohitkumar/wfnotify/config"
	"github.com/mohitkumar/wfnotify/container"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/notify"
	"github.com/mohitkumar/wfnotify/rest"
)

type Agent struct {
	Config       config.Config
	container    *container.DIContiner
	queue        *notify.Queue
	httpServer   *rest.Server
	shutdown     bool
	shutdowns    chan struct{}
	shutdownLock sync.Mutex
	wg           sync.WaitGroup
}

func New(config config.Config) (*Agent, error) {
	a := &Agent{
		Config:    config,
		shutdowns: make(chan struct{}),
	}
	setup := []func() error{
		a.setupAnalytics,
		a.setupContainer,
		a.setupNotifyQueue,
		a.setupHttpServer,
	}
	for _, fn := range setup {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *Agent) setupAnalytics() error {
	return analytics.InitDataCollector(a.Config.AnalyticsConfig)
}

func (a *Agent) setupContainer() error {
	a.container = container.NewDiContainer()
	return a.container.Init(a.Config)
}

func (a *Agent) setupNotifyQueue() error {
	a.queue = notify.NewQueue(a.container.GetDispatcher(), &a.wg, a.Config.NotifyCapacity)
	a.queue.Start()
	return nil
}

func (a *Agent) setupHttpServer() error {
	var err error
	a.httpServer, err = rest.NewServer(a.Config.HttpPort, a.container, a.queue)
	if err != nil {
		return err
	}
	return nil
}

func (a *Agent) Start() error {
	go func() {
		if err := a.httpServer.Start(); err != nil {
			_ = a.Shutdown()
			panic(err)
		}
	}()
	return nil
}

// Done is closed once Shutdown has started.
func (a *Agent) Done() <-chan struct{} {
	return a.shutdowns
}

func (a *Agent) Shutdown() error {
	logger.Info("shutting down server")
	a.shutdownLock.Lock()
	defer a.shutdownLock.Unlock()
	if a.shutdown {
		return nil
	}
	a.shutdown = true
	close(a.shutdowns)

	shutdown := []func() error{
		a.httpServer.Stop,
		a.queue.Stop,
	}
	for _, fn := range shutdown {
		if err := fn(); err != nil {
			return err
		}
	}
	logger.Info("waiting for all services to shutdown...")
	a.wg.Wait()
	if err := a.container.Close(); err != nil {
		return err
	}
	_ = logger.Sync()
	return nil
}

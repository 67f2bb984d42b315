package container

import (
	"fmt"

	"github.com/mohitkumar/wfnotify/cache"
	"github.com/mohitkumar/wfnotify/commands"
	"github.com/mohitkumar/wfnotify/config"
	"github.com/mohitkumar/wfnotify/history"
	"github.com/mohitkumar/wfnotify/links"
	"github.com/mohitkumar/wfnotify/metadata"
	"github.com/mohitkumar/wfnotify/notify"
	"github.com/mohitkumar/wfnotify/panel"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/persistence/memory"
	rd "github.com/mohitkumar/wfnotify/persistence/redis"
	"github.com/mohitkumar/wfnotify/persistence/sqlite"
	"github.com/mohitkumar/wfnotify/site"
	"github.com/mohitkumar/wfnotify/tokens"
	"github.com/mohitkumar/wfnotify/workflow"
)

var defaultSites = []links.SiteDefinition{
	{Name: links.DEFAULT_PUBLIC_SITE, StartPath: "/sitecore/content/home", VirtualFolder: "/"},
	{Name: site.DEFAULT_SITE, StartPath: "/sitecore/content", VirtualFolder: "/sitecore/shell"},
}

type DIContiner struct {
	initialized     bool
	storage         persistence.Storage
	closer          func() error
	labels          *cache.StateLabelCache
	metadataService metadata.MetadataService
	provider        workflow.Provider
	sites           *site.Context
	linkBuilder     *links.Builder
	reader          *history.EventLogReader
	reconstructor   *history.Reconstructor
	expander        *tokens.Expander
	transport       notify.Transport
	dispatcher      *notify.Dispatcher
	panelBuilder    *panel.Builder
}

func (p *DIContiner) setInitialized() {
	p.initialized = true
}

func NewDiContainer() *DIContiner {
	return &DIContiner{
		initialized: false,
		closer:      func() error { return nil },
	}
}

// WithTransport overrides the SMTP transport. It must be called before Init.
func (d *DIContiner) WithTransport(t notify.Transport) *DIContiner {
	d.transport = t
	return d
}

func (d *DIContiner) Init(conf config.Config) error {
	switch conf.StorageType {
	case config.STORAGE_TYPE_REDIS:
		s := rd.NewRedisStorage(rd.Config{
			Addrs:     conf.RedisConfig.Addrs,
			Namespace: conf.RedisConfig.Namespace,
			Password:  conf.RedisConfig.Password,
			PoolSize:  conf.RedisConfig.PoolSize,
		})
		d.storage, d.closer = s, s.Close
	case config.STORAGE_TYPE_SQLITE:
		s, err := sqlite.Open(conf.SqliteConfig.Path)
		if err != nil {
			return fmt.Errorf("opening sqlite storage: %w", err)
		}
		d.storage, d.closer = s, s.Close
	case config.STORAGE_TYPE_INMEM:
		d.storage = memory.NewStorage()
	default:
		return fmt.Errorf("unknown storage type %q", conf.StorageType)
	}

	d.labels = cache.NewStateLabelCache(conf.StateCacheTTL)
	d.metadataService = metadata.NewMetadataService(d.storage, d.labels)
	d.provider = workflow.NewStorageProvider(d.storage, d.storage, d.labels)

	sites := conf.LinkConfig.Sites
	if len(sites) == 0 {
		sites = defaultSites
	}
	d.sites = site.NewContext(site.DEFAULT_SITE)
	var linkService links.LinkService = links.NewSiteLinkService(sites...)
	if conf.LinkConfig.AmbientSite {
		linkService = links.NewAmbientLinkService(d.sites, links.NewContextLinkProvider(d.sites, linkService))
	}
	d.linkBuilder = links.NewBuilder(linkService, conf.LinkConfig.PublicSite, conf.LinkConfig.ShellPath)

	resolver := commands.NewResolver(d.provider)
	d.reader = history.NewEventLogReader(d.provider)
	d.reconstructor = history.NewReconstructor(d.reader, d.provider, resolver)
	d.expander = tokens.NewExpander(d.provider, resolver, d.linkBuilder, d.reconstructor, d.reader, d.storage)

	if d.transport == nil {
		d.transport = notify.NewSMTPTransport(conf.MailConfig)
	}
	d.dispatcher = notify.NewDispatcher(d.storage, d.expander, d.transport)
	d.panelBuilder = panel.NewBuilder(d.provider, panel.RoleAuthorizer{})

	d.setInitialized()
	return nil
}

func (d *DIContiner) check() {
	if !d.initialized {
		panic("container not initalized")
	}
}

func (d *DIContiner) GetStorage() persistence.Storage {
	d.check()
	return d.storage
}

func (d *DIContiner) GetMetadataService() metadata.MetadataService {
	d.check()
	return d.metadataService
}

func (d *DIContiner) GetProvider() workflow.Provider {
	d.check()
	return d.provider
}

func (d *DIContiner) GetSiteContext() *site.Context {
	d.check()
	return d.sites
}

func (d *DIContiner) GetEventLogReader() *history.EventLogReader {
	d.check()
	return d.reader
}

func (d *DIContiner) GetReconstructor() *history.Reconstructor {
	d.check()
	return d.reconstructor
}

func (d *DIContiner) GetExpander() *tokens.Expander {
	d.check()
	return d.expander
}

func (d *DIContiner) GetDispatcher() *notify.Dispatcher {
	d.check()
	return d.dispatcher
}

func (d *DIContiner) GetPanelBuilder() *panel.Builder {
	d.check()
	return d.panelBuilder
}

func (d *DIContiner) Close() error {
	return d.closer()
}

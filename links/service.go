package links

import (
	"context"
	"fmt"
	"strings"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/site"
)

// LinkService resolves the public url path of an item for a named site.
type LinkService interface {
	ItemURL(ctx context.Context, item model.Item, siteName string) (string, error)
}

// AmbientLinkProvider resolves public urls for whatever site is currently active.
type AmbientLinkProvider interface {
	ItemURL(ctx context.Context, item model.Item) (string, error)
}

type SiteDefinition struct {
	Name          string `json:"name" mapstructure:"name"`
	StartPath     string `json:"startPath" mapstructure:"start-path"`
	VirtualFolder string `json:"virtualFolder" mapstructure:"virtual-folder"`
}

var _ LinkService = new(SiteLinkService)

// SiteLinkService maps the item path below a site's start item to a
// lower-case, dash separated url path under the site's virtual folder.
type SiteLinkService struct {
	sites map[string]SiteDefinition
}

func NewSiteLinkService(sites ...SiteDefinition) *SiteLinkService {
	m := make(map[string]SiteDefinition, len(sites))
	for _, s := range sites {
		m[s.Name] = s
	}
	return &SiteLinkService{sites: m}
}

func (s *SiteLinkService) ItemURL(_ context.Context, item model.Item, siteName string) (string, error) {
	def, ok := s.sites[siteName]
	if !ok {
		return "", fmt.Errorf("site %q is not defined", siteName)
	}
	start := strings.TrimSuffix(strings.ToLower(def.StartPath), "/")
	path := strings.ToLower(item.Path)
	if path != start && !strings.HasPrefix(path, start+"/") {
		return "", fmt.Errorf("item %s is outside site %s", item.Path, siteName)
	}
	rel := strings.TrimPrefix(path, start)
	rel = strings.ReplaceAll(rel, " ", "-")
	folder := strings.TrimSuffix(def.VirtualFolder, "/")
	url := folder + rel
	if url == "" {
		url = "/"
	}
	if !strings.HasPrefix(url, "/") {
		url = "/" + url
	}
	return url, nil
}

var _ AmbientLinkProvider = new(ContextLinkProvider)

// ContextLinkProvider answers for the ambient active site.
type ContextLinkProvider struct {
	sites   *site.Context
	service LinkService
}

func NewContextLinkProvider(sites *site.Context, service LinkService) *ContextLinkProvider {
	return &ContextLinkProvider{sites: sites, service: service}
}

func (p *ContextLinkProvider) ItemURL(ctx context.Context, item model.Item) (string, error) {
	return p.service.ItemURL(ctx, item, p.sites.Active())
}

var _ LinkService = new(AmbientLinkService)

// AmbientLinkService adapts an ambient provider to an explicit site parameter
// by switching the active site for the duration of the call.
type AmbientLinkService struct {
	sites    *site.Context
	provider AmbientLinkProvider
}

func NewAmbientLinkService(sites *site.Context, provider AmbientLinkProvider) *AmbientLinkService {
	return &AmbientLinkService{sites: sites, provider: provider}
}

func (a *AmbientLinkService) ItemURL(ctx context.Context, item model.Item, siteName string) (string, error) {
	var url string
	err := a.sites.Within(siteName, func() error {
		var err error
		url, err = a.provider.ItemURL(ctx, item)
		return err
	})
	return url, err
}

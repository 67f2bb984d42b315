package links

import (
	"context"
	"errors"
	"testing"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/site"
	"github.com/stretchr/testify/require"
)

func testActionContext(host string) *model.ActionContext {
	return &model.ActionContext{
		Item: model.Item{
			Id:       "110d559f",
			Name:     "About Us",
			Path:     "/sitecore/content/Home/About Us",
			Language: "en",
			Version:  2,
		},
		HostName: host,
	}
}

func TestBuildLink(t *testing.T) {
	service := NewSiteLinkService(SiteDefinition{Name: "website", StartPath: "/sitecore/content/home", VirtualFolder: "/"})
	b := NewBuilder(service, "", "")
	ctx := context.Background()
	ac := testActionContext("http://example.com")
	const common = "id=110d559f&la=en&v=2"

	for mode, expected := range map[ActionLinkMode]string{
		Edit:       "http://example.com/sitecore/shell/Applications/Content%20editor.aspx?fo=110d559f&sc_bw=1&" + common,
		Preview:    "http://example.com/sitecore/shell/feeds/action.aspx?c=Preview&" + common,
		WorkBox:    "http://example.com/sitecore/shell/Applications/Workbox/Default.aspx?" + common,
		Production: "http://example.com/about-us",
	} {
		t.Run(mode.String(), func(t *testing.T) {
			require.Equal(t, expected, b.BuildLink(ctx, mode, ac, ""))
		})
	}

	require.Equal(t, "http://example.com/sitecore/shell/feeds/action.aspx?c=Workflow&cmd=approve&"+common,
		b.BuildLink(ctx, Submit, ac, "approve"))
	require.Equal(t, "http://example.com/sitecore/shell/feeds/action.aspx?c=Workflow&cmd=approve&nc=1&"+common,
		b.BuildLink(ctx, SubmitWithComment, ac, "approve"))
}

func TestBuildLinkRequiresCommand(t *testing.T) {
	b := NewBuilder(nil, "", "")
	ac := testActionContext("example.com")
	require.Empty(t, b.BuildLink(context.Background(), Submit, ac, ""))
	require.Empty(t, b.BuildLink(context.Background(), SubmitWithComment, ac, ""))
}

func TestBuildLinkStripsScheme(t *testing.T) {
	b := NewBuilder(nil, "", "")
	ctx := context.Background()
	for _, mode := range []ActionLinkMode{Edit, Preview, WorkBox} {
		withScheme := b.BuildLink(ctx, mode, testActionContext("http://example.com"), "")
		bare := b.BuildLink(ctx, mode, testActionContext("example.com"), "")
		require.NotEmpty(t, bare)
		require.Equal(t, bare, withScheme)
	}
}

func TestBuildLinkProductionFailureIsEmpty(t *testing.T) {
	b := NewBuilder(NewSiteLinkService(), "website", "")
	require.Empty(t, b.BuildLink(context.Background(), Production, testActionContext("example.com"), ""))
}

type failingProvider struct {
	sites *site.Context
	seen  string
	panic bool
}

func (p *failingProvider) ItemURL(_ context.Context, _ model.Item) (string, error) {
	p.seen = p.sites.Active()
	if p.panic {
		panic("link provider crashed")
	}
	return "", errors.New("link provider unavailable")
}

func TestProductionLinkRestoresSite(t *testing.T) {
	for scenario, panics := range map[string]bool{
		"provider error": false,
		"provider panic": true,
	} {
		t.Run(scenario, func(t *testing.T) {
			sites := site.NewContext("shell")
			provider := &failingProvider{sites: sites, panic: panics}
			b := NewBuilder(NewAmbientLinkService(sites, provider), "website", "")

			link := b.BuildLink(context.Background(), Production, testActionContext("example.com"), "")

			require.Empty(t, link)
			require.Equal(t, "website", provider.seen)
			require.Equal(t, "shell", sites.Active())
		})
	}
}

func TestAmbientLinkServiceResolvesUnderSite(t *testing.T) {
	sites := site.NewContext("shell")
	service := NewSiteLinkService(
		SiteDefinition{Name: "website", StartPath: "/sitecore/content/home"},
		SiteDefinition{Name: "shell", StartPath: "/sitecore/content", VirtualFolder: "/shell"},
	)
	ambient := NewAmbientLinkService(sites, NewContextLinkProvider(sites, service))
	b := NewBuilder(ambient, "website", "")

	require.Equal(t, "http://example.com/about-us", b.BuildLink(context.Background(), Production, testActionContext("example.com"), ""))
	require.Equal(t, "shell", sites.Active())
}

func TestSiteLinkService(t *testing.T) {
	service := NewSiteLinkService(
		SiteDefinition{Name: "website", StartPath: "/sitecore/content/home"},
		SiteDefinition{Name: "de", StartPath: "/sitecore/content/home", VirtualFolder: "/de/"},
	)
	ctx := context.Background()

	url, err := service.ItemURL(ctx, model.Item{Path: "/sitecore/content/Home"}, "website")
	require.NoError(t, err)
	require.Equal(t, "/", url)

	url, err = service.ItemURL(ctx, model.Item{Path: "/sitecore/content/Home/Our Team/Jane Doe"}, "de")
	require.NoError(t, err)
	require.Equal(t, "/de/our-team/jane-doe", url)

	_, err = service.ItemURL(ctx, model.Item{Path: "/sitecore/media library/logo"}, "website")
	require.Error(t, err)

	_, err = service.ItemURL(ctx, model.Item{Path: "/sitecore/content/home"}, "intranet")
	require.Error(t, err)
}

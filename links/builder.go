package links

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"go.uber.org/zap"
)

const DEFAULT_SHELL_PATH string = "/sitecore/shell"
const DEFAULT_PUBLIC_SITE string = "website"

type Builder struct {
	links      LinkService
	publicSite string
	shellPath  string
}

func NewBuilder(links LinkService, publicSite string, shellPath string) *Builder {
	if publicSite == "" {
		publicSite = DEFAULT_PUBLIC_SITE
	}
	if shellPath == "" {
		shellPath = DEFAULT_SHELL_PATH
	}
	return &Builder{
		links:      links,
		publicSite: publicSite,
		shellPath:  "/" + strings.Trim(shellPath, "/"),
	}
}

// BuildLink returns the deep link for mode, or "" when it cannot be built.
// commandId is only used by Submit and SubmitWithComment, which require it.
func (b *Builder) BuildLink(ctx context.Context, mode ActionLinkMode, ac *model.ActionContext, commandId string) (link string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic building action link", zap.String("operation", "BuildLink"),
				zap.Stringer("mode", mode), zap.String("item", ac.Item.Id), zap.Any("panic", r))
			link = ""
		}
	}()
	link, err := b.build(ctx, mode, ac, commandId)
	if err != nil {
		logger.Error("error building action link", zap.String("operation", "BuildLink"),
			zap.Stringer("mode", mode), zap.String("item", ac.Item.Id), zap.Error(err))
		return ""
	}
	return link
}

func (b *Builder) build(ctx context.Context, mode ActionLinkMode, ac *model.ActionContext, commandId string) (string, error) {
	host := StripScheme(ac.HostName)
	if mode.NeedsCommand() && commandId == "" {
		return "", fmt.Errorf("%s link requires a command id", mode)
	}
	var page string
	switch mode {
	case Edit:
		page = "Applications/Content%20editor.aspx?fo=" + url.QueryEscape(ac.Item.Id) + "&sc_bw=1"
	case Preview:
		page = "feeds/action.aspx?c=Preview"
	case Submit:
		page = "feeds/action.aspx?c=Workflow&cmd=" + url.QueryEscape(commandId)
	case SubmitWithComment:
		page = "feeds/action.aspx?c=Workflow&cmd=" + url.QueryEscape(commandId) + "&nc=1"
	case WorkBox:
		page = "Applications/Workbox/Default.aspx"
	case Production:
		if b.links == nil {
			return "", fmt.Errorf("no link service configured")
		}
		path, err := b.links.ItemURL(ctx, ac.Item, b.publicSite)
		if err != nil {
			return "", err
		}
		return "http://" + host + path, nil
	default:
		return "", fmt.Errorf("unknown link mode %d", int(mode))
	}
	sep := "?"
	if strings.Contains(page, "?") {
		sep = "&"
	}
	return "http://" + host + b.shellPath + "/" + page + sep + commonQuery(ac.Item), nil
}

func commonQuery(item model.Item) string {
	return "id=" + url.QueryEscape(item.Id) +
		"&la=" + url.QueryEscape(item.Language) +
		"&v=" + strconv.Itoa(item.Version)
}

// StripScheme drops an http:// or https:// prefix and any trailing slash.
func StripScheme(host string) string {
	host = strings.TrimSpace(host)
	for _, scheme := range []string{"http://", "https://"} {
		if len(host) >= len(scheme) && strings.EqualFold(host[:len(scheme)], scheme) {
			host = host[len(scheme):]
			break
		}
	}
	return strings.TrimSuffix(host, "/")
}

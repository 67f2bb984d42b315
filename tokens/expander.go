// Package tokens expands $token$ placeholders in notification templates.
//
// Each recognised token present in the template is resolved once, in a fixed
// order, and all of them are substituted in a single pass over the original
// text. Inserted values are never scanned again, so a value that itself looks
// like a placeholder is kept as is. Unknown placeholders are left untouched.
package tokens

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/mohitkumar/wfnotify/commands"
	"github.com/mohitkumar/wfnotify/history"
	"github.com/mohitkumar/wfnotify/links"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/workflow"
	"go.uber.org/zap"
)

const DATE_TIME_FORMAT string = "Mon, January 02, 2006, 15:04:05"

type outcome int

const (
	resolved outcome = iota
	// skipped leaves the placeholder verbatim and carries on.
	skipped
	// failed stops the expansion; later tokens stay verbatim.
	failed
)

type resolution struct {
	value   string
	outcome outcome
	err     error
}

func value(v string) resolution {
	return resolution{value: v, outcome: resolved}
}

func skip(err error) resolution {
	return resolution{outcome: skipped, err: err}
}

func fail(err error) resolution {
	return resolution{outcome: failed, err: err}
}

type resolver func(p *pass) resolution

var bindings = [tokenCount]resolver{
	ItemPath:             func(p *pass) resolution { return value(p.ac.Item.Path) },
	ItemLanguage:         resolveLanguage,
	ItemVersion:          func(p *pass) resolution { return value(strconv.Itoa(p.ac.Item.Version)) },
	ItemTitle:            func(p *pass) resolution { return value(p.ac.Item.Title()) },
	ItemDateTime:         func(p *pass) resolution { return value(p.e.now().Format(DATE_TIME_FORMAT)) },
	ItemWorkflowName:     resolveWorkflowName,
	ItemComment:          func(p *pass) resolution { return value(p.ac.PendingComment) },
	EditLink:             linkResolver(links.Edit),
	PreviewLink:          linkResolver(links.Preview),
	WorkBoxLink:          linkResolver(links.WorkBox),
	ProductionLink:       linkResolver(links.Production),
	ItemWorkflowState:    resolveWorkflowState,
	Commands:             resolveCommands,
	SubmittedByEmail:     submitterResolver(func(u *model.UserProfile) string { return u.Email }),
	SubmittedByName:      submitterResolver(func(u *model.UserProfile) string { return u.FullName }),
	LoggedInUserEmail:    actorResolver(func(u *model.UserProfile) string { return u.Email }),
	LoggedInUserName:     actorResolver(func(u *model.UserProfile) string { return u.FullName }),
	WorkflowHistoryTable: resolveHistoryTable,
}

type Expander struct {
	provider workflow.Provider
	resolver *commands.Resolver
	links    *links.Builder
	history  *history.Reconstructor
	events   *history.EventLogReader
	users    persistence.UserStorage
	now      func() time.Time
}

func NewExpander(
	provider workflow.Provider,
	resolver *commands.Resolver,
	linkBuilder *links.Builder,
	reconstructor *history.Reconstructor,
	events *history.EventLogReader,
	users persistence.UserStorage,
) *Expander {
	return &Expander{
		provider: provider,
		resolver: resolver,
		links:    linkBuilder,
		history:  reconstructor,
		events:   events,
		users:    users,
		now:      time.Now,
	}
}

// WithClock replaces the source of $itemdatetime$.
func (e *Expander) WithClock(now func() time.Time) *Expander {
	e.now = now
	return e
}

// pass holds what one Expand call computes once and shares between tokens.
type pass struct {
	ctx context.Context
	e   *Expander
	ac  *model.ActionContext

	nextResolved bool
	next         *model.WorkflowState

	submitterResolved bool
	submitter         *model.UserProfile
	submitterErr      error

	actorResolved bool
	actor         *model.UserProfile
	actorErr      error
}

// nextState resolves the next workflow state at most once per pass.
func (p *pass) nextState() *model.WorkflowState {
	if !p.nextResolved {
		p.next = p.e.resolver.ResolveNextState(p.ctx, p.ac)
		p.nextResolved = true
	}
	return p.next
}

func (p *pass) lastSubmitter() (*model.UserProfile, error) {
	if !p.submitterResolved {
		p.submitterResolved = true
		name, ok, err := p.e.events.LastActor(p.ctx, p.ac.Item)
		switch {
		case err != nil:
			p.submitterErr = err
		case !ok:
			p.submitterErr = errors.New("item has no workflow history")
		default:
			p.submitter, p.submitterErr = p.e.users.GetUser(p.ctx, name)
		}
	}
	return p.submitter, p.submitterErr
}

func (p *pass) loggedInUser() (*model.UserProfile, error) {
	if !p.actorResolved {
		p.actorResolved = true
		if p.ac.Actor == "" {
			p.actorErr = errors.New("no authenticated user")
		} else {
			p.actor, p.actorErr = p.e.users.GetUser(p.ctx, p.ac.Actor)
		}
	}
	return p.actor, p.actorErr
}

// Expand substitutes every recognised token of template for ac. It never
// fails: when a token cannot be resolved the error is logged and the text is
// returned with the tokens resolved so far substituted.
func (e *Expander) Expand(ctx context.Context, template string, ac *model.ActionContext) (text string) {
	if !strings.Contains(template, DELIMITER) {
		return template
	}
	p := &pass{ctx: ctx, e: e, ac: ac}
	var replacements []string
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic expanding template", zap.String("operation", "Expand"),
				zap.String("item", ac.Item.Id), zap.Any("panic", r))
			text = substitute(template, replacements)
		}
	}()
	for t := Token(0); t < tokenCount; t++ {
		placeholder := t.Placeholder()
		if !strings.Contains(template, placeholder) {
			continue
		}
		res := bindings[t](p)
		switch res.outcome {
		case skipped:
			logger.Debug("token left unexpanded", zap.String("token", t.String()),
				zap.String("item", ac.Item.Id), zap.Error(res.err))
			continue
		case failed:
			logger.Error("error expanding token", zap.String("operation", "Expand"),
				zap.String("token", t.String()), zap.String("item", ac.Item.Id),
				zap.String("action", ac.Action.Id), zap.Error(res.err))
			return substitute(template, replacements)
		}
		replacements = append(replacements, placeholder, res.value)
	}
	return substitute(template, replacements)
}

func substitute(template string, replacements []string) string {
	if len(replacements) == 0 {
		return template
	}
	return strings.NewReplacer(replacements...).Replace(template)
}

func resolveLanguage(p *pass) resolution {
	if p.ac.Item.LanguageName != "" {
		return value(p.ac.Item.LanguageName)
	}
	return value(p.ac.Item.Language)
}

func resolveWorkflowName(p *pass) resolution {
	wf, err := p.e.provider.GetWorkflow(p.ctx, p.ac.Item)
	if err != nil {
		return fail(err)
	}
	return value(wf.DisplayName)
}

func linkResolver(mode links.ActionLinkMode) resolver {
	return func(p *pass) resolution {
		return value(p.e.links.BuildLink(p.ctx, mode, p.ac, ""))
	}
}

func resolveWorkflowState(p *pass) resolution {
	next := p.nextState()
	if next == nil {
		return fail(fmt.Errorf("next state of action %s could not be resolved", p.ac.Action.Id))
	}
	return value(next.DisplayName)
}

func resolveCommands(p *pass) resolution {
	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, cmd := range p.e.resolver.ListCommands(p.ctx, p.ac, p.nextState()) {
		if cmd.Hidden {
			continue
		}
		name := html.EscapeString(cmd.DisplayName)
		submit := p.e.links.BuildLink(p.ctx, links.Submit, p.ac, cmd.Id)
		submitComment := p.e.links.BuildLink(p.ctx, links.SubmitWithComment, p.ac, cmd.Id)
		fmt.Fprintf(&sb, `<li><a href="%s">%s</a> or <a href="%s">%s & Comment</a></li>`,
			submit, name, submitComment, name)
	}
	sb.WriteString("</ul>")
	return value(sb.String())
}

func submitterResolver(field func(u *model.UserProfile) string) resolver {
	return func(p *pass) resolution {
		user, err := p.lastSubmitter()
		if err != nil {
			return skip(err)
		}
		return value(field(user))
	}
}

func actorResolver(field func(u *model.UserProfile) string) resolver {
	return func(p *pass) resolution {
		user, err := p.loggedInUser()
		if err != nil {
			return skip(err)
		}
		return value(field(user))
	}
}

func resolveHistoryTable(p *pass) resolution {
	return value(history.ToHtmlTable(p.e.history.BuildWithNext(p.ctx, p.ac, p.nextState())))
}

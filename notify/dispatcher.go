// Package notify sends the email bound to a workflow action. Sending is best
// effort: failures are logged and reported in the Result, never returned to
// the workflow that triggered them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mohitkumar/wfnotify/analytics"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/tokens"
	"github.com/mohitkumar/wfnotify/util"
	"go.uber.org/zap"
)

type Status string

const (
	StatusSent    Status = "sent"
	StatusInvalid Status = "invalid"
	StatusFailed  Status = "failed"
)

type Result struct {
	Id      string   `json:"id"`
	Status  Status   `json:"status"`
	Message *Message `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	err     error
}

func (r Result) Err() error {
	return r.err
}

// ConfigError reports a required action field that is blank after expansion.
type ConfigError struct {
	Field      string
	ActionPath string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("The '%s' field is not specified in the mail action item: %s", e.Field, e.ActionPath)
}

// ParseAddresses splits a recipient list on commas and semicolons.
func ParseAddresses(list string) []string {
	return util.SplitList(list, ",;")
}

type Dispatcher struct {
	store     persistence.Storage
	expander  *tokens.Expander
	transport Transport
}

func NewDispatcher(store persistence.Storage, expander *tokens.Expander, transport Transport) *Dispatcher {
	return &Dispatcher{
		store:     store,
		expander:  expander,
		transport: transport,
	}
}

// Dispatch loads the item version and the action named by req and sends.
func (d *Dispatcher) Dispatch(ctx context.Context, req model.TransitionRequest) Result {
	id := uuid.NewString()
	action, err := d.store.GetActionDefinition(ctx, req.ActionId)
	if err != nil {
		return d.failed(id, analytics.NotificationRecord{Id: id, Action: req.ActionId, Item: req.ItemId}, StatusFailed,
			fmt.Errorf("action %s: %w", req.ActionId, err))
	}
	item, err := d.store.GetItem(ctx, req.ItemKey())
	if err != nil {
		return d.failed(id, analytics.NotificationRecord{Id: id, Action: action.Id, Workflow: action.WorkflowId, Item: req.ItemId}, StatusFailed,
			fmt.Errorf("item %s: %w", req.ItemKey(), err))
	}
	return d.send(ctx, id, *action, *item, req.Actor, req.Comment)
}

// Send expands the action for item and hands the message to the transport.
func (d *Dispatcher) Send(ctx context.Context, action model.ActionDefinition, item model.Item, actor string, comment string) Result {
	return d.send(ctx, uuid.NewString(), action, item, actor, comment)
}

// Context builds the ActionContext of a notification cycle. The host name
// field is itself a template and is expanded before anything else.
func (d *Dispatcher) Context(ctx context.Context, action model.ActionDefinition, item model.Item, actor string, comment string) *model.ActionContext {
	ac := &model.ActionContext{
		Item:           item,
		Action:         action,
		Actor:          actor,
		PendingComment: comment,
	}
	ac.HostName = strings.TrimSpace(d.expander.Expand(ctx, action.HostName, ac))
	return ac
}

func (d *Dispatcher) send(ctx context.Context, id string, action model.ActionDefinition, item model.Item, actor string, comment string) (result Result) {
	rec := analytics.NotificationRecord{Id: id, Workflow: item.WorkflowId, Action: action.Id, Item: item.Key().String()}
	defer func() {
		if r := recover(); r != nil {
			result = d.failed(id, rec, StatusFailed, fmt.Errorf("panic: %v", r))
		}
	}()

	ac := d.Context(ctx, action, item, actor, comment)
	expand := func(template string) string {
		return d.expander.Expand(ctx, template, ac)
	}
	to := strings.TrimSpace(expand(action.To))
	cc := expand(action.Cc)
	from := strings.TrimSpace(expand(action.From))
	subject := expand(action.Subject)
	body := expand(action.Message)
	relay := strings.TrimSpace(expand(action.MailServer))

	for _, required := range []struct {
		field string
		value string
	}{
		{"To", to},
		{"From", from},
		{"Subject", strings.TrimSpace(subject)},
		{"Host Name", ac.HostName},
		{"Mail Server", relay},
	} {
		if required.value == "" {
			return d.failed(id, rec, StatusInvalid, ConfigError{Field: required.field, ActionPath: action.Path})
		}
	}

	msg := &Message{
		From:    from,
		To:      ParseAddresses(to),
		Cc:      ParseAddresses(cc),
		Subject: subject,
		Body:    body,
	}
	rec.To, rec.Cc, rec.Subject = msg.To, msg.Cc, msg.Subject
	if len(msg.To) == 0 {
		return d.failed(id, rec, StatusInvalid, ConfigError{Field: "To", ActionPath: action.Path})
	}

	if err := d.transport.Send(ctx, relay, msg); err != nil {
		result = d.failed(id, rec, StatusFailed, err)
		result.Message = msg
		return result
	}
	logger.Info("email sent", zap.String("id", id), zap.Strings("to", msg.To),
		zap.String("from", msg.From), zap.String("subject", msg.Subject))
	analytics.RecordNotificationSent(rec)
	return Result{Id: id, Status: StatusSent, Message: msg}
}

func (d *Dispatcher) failed(id string, rec analytics.NotificationRecord, status Status, err error) Result {
	var cfgErr ConfigError
	if errors.As(err, &cfgErr) {
		logger.Warn("notification not sent", zap.String("operation", "SendEmail"), zap.String("id", id),
			zap.String("action", rec.Action), zap.String("item", rec.Item), zap.Error(err))
	} else {
		logger.Error("error sending notification", zap.String("operation", "SendEmail"), zap.String("id", id),
			zap.String("action", rec.Action), zap.String("item", rec.Item), zap.Error(err))
	}
	analytics.RecordNotificationFailure(rec, string(status), err.Error())
	return Result{Id: id, Status: status, Error: err.Error(), err: err}
}

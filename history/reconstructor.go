// Package history rebuilds the audit trail shown in notifications: the
// persisted transitions of an item followed by the transition in flight.
package history

import (
	"context"
	"html"
	"strings"
	"time"

	"github.com/mohitkumar/wfnotify/commands"
	"github.com/mohitkumar/wfnotify/logger"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/workflow"
	"go.uber.org/zap"
)

const DATE_FORMAT string = "02 January 2006, 15:04:05"

type Reconstructor struct {
	reader   *EventLogReader
	provider workflow.Provider
	resolver *commands.Resolver
	now      func() time.Time
}

func NewReconstructor(reader *EventLogReader, provider workflow.Provider, resolver *commands.Resolver) *Reconstructor {
	return &Reconstructor{
		reader:   reader,
		provider: provider,
		resolver: resolver,
		now:      time.Now,
	}
}

// WithClock replaces the source of the pending entry timestamp.
func (r *Reconstructor) WithClock(now func() time.Time) *Reconstructor {
	r.now = now
	return r
}

// Build resolves the next state itself and delegates to BuildWithNext.
func (r *Reconstructor) Build(ctx context.Context, ac *model.ActionContext) []model.WorkflowEventRecord {
	return r.BuildWithNext(ctx, ac, r.resolver.ResolveNextState(ctx, ac))
}

// BuildWithNext returns the persisted history with the pending transition
// appended last. The result is never empty: when the log cannot be read only
// the pending entry is returned.
func (r *Reconstructor) BuildWithNext(ctx context.Context, ac *model.ActionContext, next *model.WorkflowState) []model.WorkflowEventRecord {
	records, err := r.reader.Read(ctx, ac.Item)
	if err != nil {
		logger.Error("error reading workflow history", zap.String("operation", "BuildHistory"),
			zap.String("item", ac.Item.Id), zap.Error(err))
		records = nil
	}
	return append(records, r.pending(ctx, ac, next))
}

func (r *Reconstructor) pending(ctx context.Context, ac *model.ActionContext, next *model.WorkflowState) model.WorkflowEventRecord {
	from, err := r.provider.StateLabel(ctx, ac.Item.StateId)
	if err != nil {
		logger.Warn("error resolving current state label", zap.String("item", ac.Item.Id),
			zap.String("state", ac.Item.StateId), zap.Error(err))
	}
	to := ""
	if next != nil {
		to = next.DisplayName
	}
	return model.WorkflowEventRecord{
		Timestamp:      r.now(),
		Actor:          ac.Actor,
		FromStateLabel: from,
		ToStateLabel:   to,
		Comment:        ac.PendingComment,
	}
}

const cellStyle = "text-align: left; padding: 10px;"

// ToHtmlTable renders records as a five column html table.
func ToHtmlTable(records []model.WorkflowEventRecord) string {
	var sb strings.Builder
	sb.WriteString("<table><tr>")
	for _, h := range []string{"Date", "User", "Previous State", "Current State", "Comment"} {
		sb.WriteString("<th style='" + cellStyle + "'>" + h + "</th>")
	}
	sb.WriteString("</tr>\n")
	for _, rec := range records {
		sb.WriteString("<tr>\n")
		for _, v := range Columns(rec) {
			sb.WriteString("<td style='" + cellStyle + "'>" + html.EscapeString(v) + "</td>\n")
		}
		sb.WriteString("</tr>\n")
	}
	sb.WriteString("</table>\n")
	return sb.String()
}

// Columns returns the display values of one record in table order.
func Columns(rec model.WorkflowEventRecord) []string {
	return []string{
		rec.Timestamp.Format(DATE_FORMAT),
		rec.Actor,
		rec.FromStateLabel,
		rec.ToStateLabel,
		rec.Comment,
	}
}

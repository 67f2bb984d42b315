package history

import (
	"context"
	"fmt"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/workflow"
)

// EventLogReader turns the raw event log of an item into display records.
type EventLogReader struct {
	provider workflow.Provider
}

func NewEventLogReader(provider workflow.Provider) *EventLogReader {
	return &EventLogReader{provider: provider}
}

// Read returns the persisted transitions of item, oldest first. State ids that
// no longer resolve get an empty label.
func (r *EventLogReader) Read(ctx context.Context, item model.Item) ([]model.WorkflowEventRecord, error) {
	events, err := r.provider.GetHistory(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("reading history of %s: %w", item.Key(), err)
	}
	records := make([]model.WorkflowEventRecord, 0, len(events))
	for _, ev := range events {
		from, err := r.provider.StateLabel(ctx, ev.OldStateId)
		if err != nil {
			return nil, err
		}
		to, err := r.provider.StateLabel(ctx, ev.NewStateId)
		if err != nil {
			return nil, err
		}
		records = append(records, model.WorkflowEventRecord{
			Timestamp:      ev.Date,
			Actor:          ev.User,
			FromStateLabel: from,
			ToStateLabel:   to,
			Comment:        ev.Text,
		})
	}
	return records, nil
}

// LastActor returns the user of the most recent persisted transition.
func (r *EventLogReader) LastActor(ctx context.Context, item model.Item) (string, bool, error) {
	events, err := r.provider.GetHistory(ctx, item)
	if err != nil {
		return "", false, err
	}
	if len(events) == 0 {
		return "", false, nil
	}
	return events[len(events)-1].User, true, nil
}

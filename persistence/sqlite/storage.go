package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence"
	"github.com/mohitkumar/wfnotify/util"
	_ "modernc.org/sqlite"
)

const (
	kindWorkflow = "workflow"
	kindState    = "state"
	kindAction   = "action"
	kindItem     = "item"
	kindUser     = "user"
)

var _ persistence.Storage = new(Storage)

// Storage keeps definitions, items and users as JSON documents and the
// transition history in an append-only table.
type Storage struct {
	db          *sql.DB
	workflowEnc util.EncoderDecoder[model.Workflow]
	actionEnc   util.EncoderDecoder[model.ActionDefinition]
	itemEnc     util.EncoderDecoder[model.Item]
	userEnc     util.EncoderDecoder[model.UserProfile]
}

// Open opens (or creates) the database at path. Use ":memory:" for tests.
func Open(path string) (*Storage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		db.SetMaxOpenConns(1)
	}
	s, err := NewStorage(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func NewStorage(db *sql.DB) (*Storage, error) {
	s := &Storage{
		db:          db,
		workflowEnc: util.NewJsonEncoderDecoder[model.Workflow](),
		actionEnc:   util.NewJsonEncoderDecoder[model.ActionDefinition](),
		itemEnc:     util.NewJsonEncoderDecoder[model.Item](),
		userEnc:     util.NewJsonEncoderDecoder[model.UserProfile](),
	}
	if err := s.initSchema(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			kind TEXT NOT NULL,
			doc_key TEXT NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (kind, doc_key)
		);
		CREATE TABLE IF NOT EXISTS workflow_events (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			item_key TEXT NOT NULL,
			id TEXT NOT NULL DEFAULT '',
			old_state TEXT NOT NULL DEFAULT '',
			new_state TEXT NOT NULL DEFAULT '',
			actor TEXT NOT NULL DEFAULT '',
			at INTEGER NOT NULL,
			comment TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_workflow_events_item ON workflow_events(item_key, seq);
	`)
	return err
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) put(ctx context.Context, tx *sql.Tx, kind, key string, body []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO documents (kind, doc_key, body) VALUES (?, ?, ?)
		ON CONFLICT(kind, doc_key) DO UPDATE SET body = excluded.body`, kind, key, string(body))
	return err
}

func (s *Storage) get(ctx context.Context, kind, key string) ([]byte, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM documents WHERE kind = ? AND doc_key = ?`, kind, key).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return []byte(body), nil
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if err := tx.Commit(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *Storage) SaveWorkflowDefinition(ctx context.Context, wf model.Workflow) error {
	data, err := s.workflowEnc.Encode(wf)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND body = ?`, kindState, wf.Id); err != nil {
			return err
		}
		if err := s.put(ctx, tx, kindWorkflow, wf.Id, data); err != nil {
			return err
		}
		for _, st := range wf.States {
			if err := s.put(ctx, tx, kindState, st.Id, []byte(wf.Id)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) DeleteWorkflowDefinition(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND body = ?`, kindState, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND doc_key = ?`, kindWorkflow, id)
		return err
	})
}

func (s *Storage) GetWorkflowDefinition(ctx context.Context, id string) (*model.Workflow, error) {
	data, err := s.get(ctx, kindWorkflow, id)
	if err != nil {
		return nil, err
	}
	return s.workflowEnc.Decode(data)
}

func (s *Storage) GetStateDefinition(ctx context.Context, stateId string) (*model.WorkflowState, error) {
	wfId, err := s.get(ctx, kindState, stateId)
	if err != nil {
		return nil, err
	}
	wf, err := s.GetWorkflowDefinition(ctx, string(wfId))
	if err != nil {
		return nil, err
	}
	state := wf.State(stateId)
	if state == nil {
		return nil, persistence.ErrNotFound
	}
	return state, nil
}

func (s *Storage) SaveActionDefinition(ctx context.Context, action model.ActionDefinition) error {
	data, err := s.actionEnc.Encode(action)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.put(ctx, tx, kindAction, action.Id, data)
	})
}

func (s *Storage) DeleteActionDefinition(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND doc_key = ?`, kindAction, id); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *Storage) GetActionDefinition(ctx context.Context, id string) (*model.ActionDefinition, error) {
	data, err := s.get(ctx, kindAction, id)
	if err != nil {
		return nil, err
	}
	return s.actionEnc.Decode(data)
}

func (s *Storage) SaveItem(ctx context.Context, item model.Item) error {
	data, err := s.itemEnc.Encode(item)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.put(ctx, tx, kindItem, item.Key().String(), data)
	})
}

func (s *Storage) GetItem(ctx context.Context, key model.ItemKey) (*model.Item, error) {
	data, err := s.get(ctx, kindItem, key.String())
	if err != nil {
		return nil, err
	}
	return s.itemEnc.Decode(data)
}

func (s *Storage) SaveUser(ctx context.Context, user model.UserProfile) error {
	data, err := s.userEnc.Encode(user)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return s.put(ctx, tx, kindUser, user.Name, data)
	})
}

func (s *Storage) GetUser(ctx context.Context, name string) (*model.UserProfile, error) {
	data, err := s.get(ctx, kindUser, name)
	if err != nil {
		return nil, err
	}
	return s.userEnc.Decode(data)
}

func (s *Storage) AppendEvent(ctx context.Context, key model.ItemKey, ev model.WorkflowEvent) error {
	at := ev.Date
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflow_events (item_key, id, old_state, new_state, actor, at, comment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		key.String(), ev.Id, ev.OldStateId, ev.NewStateId, ev.User, at.UnixNano(), ev.Text)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (s *Storage) GetEvents(ctx context.Context, key model.ItemKey) ([]model.WorkflowEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, old_state, new_state, actor, at, comment
		FROM workflow_events
		WHERE item_key = ?
		ORDER BY seq ASC`, key.String())
	if err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	defer rows.Close()

	out := make([]model.WorkflowEvent, 0)
	for rows.Next() {
		var (
			ev  model.WorkflowEvent
			atN int64
		)
		if err := rows.Scan(&ev.Id, &ev.OldStateId, &ev.NewStateId, &ev.User, &atN, &ev.Text); err != nil {
			return nil, err
		}
		ev.Date = time.Unix(0, atN)
		out = append(out, ev)
	}
	return out, rows.Err()
}

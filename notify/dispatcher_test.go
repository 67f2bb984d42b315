package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mohitkumar/wfnotify/commands"
	"github.com/mohitkumar/wfnotify/fixture"
	"github.com/mohitkumar/wfnotify/history"
	"github.com/mohitkumar/wfnotify/links"
	"github.com/mohitkumar/wfnotify/model"
	"github.com/mohitkumar/wfnotify/persistence/memory"
	"github.com/mohitkumar/wfnotify/tokens"
	"github.com/mohitkumar/wfnotify/workflow"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	relay string
	msg   *Message
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []sentMessage
	err  error
	boom bool
}

func (f *fakeTransport) Send(_ context.Context, relayHost string, msg *Message) error {
	if f.boom {
		panic("transport crashed")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{relay: relayHost, msg: msg})
	return f.err
}

func setup(t *testing.T) (*Dispatcher, *fakeTransport, *fixture.Fixture) {
	storage := memory.NewStorage()
	f := fixture.Sample()
	require.NoError(t, f.Load(context.Background(), storage))

	provider := workflow.NewStorageProvider(storage, storage, nil)
	resolver := commands.NewResolver(provider)
	reader := history.NewEventLogReader(provider)
	builder := links.NewBuilder(links.NewSiteLinkService(links.SiteDefinition{Name: "website", StartPath: "/sitecore/content/home"}), "", "")
	clock := func() time.Time { return time.Date(2024, time.March, 3, 14, 5, 9, 0, time.UTC) }
	expander := tokens.NewExpander(provider, resolver, builder,
		history.NewReconstructor(reader, provider, resolver).WithClock(clock), reader, storage).WithClock(clock)

	transport := &fakeTransport{}
	return NewDispatcher(storage, expander, transport), transport, f
}

func TestSendApprovalScenario(t *testing.T) {
	d, transport, f := setup(t)

	res := d.Send(context.Background(), f.Actions[0], f.Items[0], fixture.SAMPLE_REVIEWER, "")

	require.Equal(t, StatusSent, res.Status)
	require.NotEmpty(t, res.Id)
	require.Len(t, transport.sent, 1)
	sent := transport.sent[0]
	require.Equal(t, "mail.x.com", sent.relay)
	require.Equal(t, &Message{
		From:    "wf@x.com",
		To:      []string{"a@x.com", "b@x.com"},
		Cc:      []string{},
		Subject: "Approve Home",
		Body:    "Item at /sitecore/content/home is Approved",
	}, sent.msg)
}

func TestSendValidation(t *testing.T) {
	for scenario, tc := range map[string]struct {
		mutate func(a *model.ActionDefinition)
		field  string
	}{
		"blank to":          {func(a *model.ActionDefinition) { a.To = "  " }, "To"},
		"only separators":   {func(a *model.ActionDefinition) { a.To = ",;" }, "To"},
		"blank from":        {func(a *model.ActionDefinition) { a.From = "" }, "From"},
		"blank subject":     {func(a *model.ActionDefinition) { a.Subject = "" }, "Subject"},
		"blank host name":   {func(a *model.ActionDefinition) { a.HostName = "" }, "Host Name"},
		"blank mail server": {func(a *model.ActionDefinition) { a.MailServer = "" }, "Mail Server"},
		"to and from blank": {func(a *model.ActionDefinition) { a.To, a.From = "", "" }, "To"},
	} {
		t.Run(scenario, func(t *testing.T) {
			d, transport, f := setup(t)
			action := f.Actions[0]
			tc.mutate(&action)

			res := d.Send(context.Background(), action, f.Items[0], fixture.SAMPLE_REVIEWER, "")

			require.Equal(t, StatusInvalid, res.Status)
			require.Empty(t, transport.sent)
			var cfgErr ConfigError
			require.True(t, errors.As(res.Err(), &cfgErr))
			require.Equal(t, tc.field, cfgErr.Field)
			require.Equal(t, "The '"+tc.field+"' field is not specified in the mail action item: "+action.Path, res.Error)
		})
	}
}

func TestSendSwallowsTransportFailure(t *testing.T) {
	d, transport, f := setup(t)
	transport.err = errors.New("relay unreachable")

	res := d.Send(context.Background(), f.Actions[0], f.Items[0], fixture.SAMPLE_REVIEWER, "")

	require.Equal(t, StatusFailed, res.Status)
	require.Len(t, transport.sent, 1)
	require.Contains(t, res.Error, "relay unreachable")
	require.NotNil(t, res.Message)
}

func TestSendRecoversPanics(t *testing.T) {
	d, transport, f := setup(t)
	transport.boom = true

	var res Result
	require.NotPanics(t, func() {
		res = d.Send(context.Background(), f.Actions[0], f.Items[0], fixture.SAMPLE_REVIEWER, "")
	})
	require.Equal(t, StatusFailed, res.Status)
}

func TestSendExpandsHostNameAndCc(t *testing.T) {
	d, transport, f := setup(t)
	action := f.Actions[0]
	action.Cc = "$SubmittedByEmail$; audit@x.com;"
	action.Message = "$workboxLink$"

	res := d.Send(context.Background(), action, f.Items[0], fixture.SAMPLE_REVIEWER, "")

	require.Equal(t, StatusSent, res.Status)
	require.Equal(t, []string{"jdoe@x.com", "audit@x.com"}, transport.sent[0].msg.Cc)
	require.Equal(t, "http://cms.x.com/sitecore/shell/Applications/Workbox/Default.aspx?id=home&la=en&v=1", transport.sent[0].msg.Body)
}

func TestDispatch(t *testing.T) {
	d, transport, f := setup(t)
	req := model.TransitionRequest{
		ItemId:   f.Items[0].Id,
		Language: "en",
		Version:  1,
		ActionId: fixture.SAMPLE_ACTION,
		Actor:    fixture.SAMPLE_REVIEWER,
	}
	require.Equal(t, StatusSent, d.Dispatch(context.Background(), req).Status)

	req.Version = 5
	res := d.Dispatch(context.Background(), req)
	require.Equal(t, StatusFailed, res.Status)
	require.Len(t, transport.sent, 1)

	req.Version, req.ActionId = 1, "missing"
	require.Equal(t, StatusFailed, d.Dispatch(context.Background(), req).Status)
}

func TestParseAddresses(t *testing.T) {
	require.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, ParseAddresses("a@x.com, b@x.com;;c@x.com;"))
	require.Empty(t, ParseAddresses(""))
}

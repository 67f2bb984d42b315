package model

// ActionDefinition is the email action configuration item bound to a workflow command.
type ActionDefinition struct {
	Id          string `json:"id"`
	Path        string `json:"path"`
	WorkflowId  string `json:"workflowId"`
	CommandId   string `json:"commandId"`
	To          string `json:"to"`
	Cc          string `json:"cc"`
	From        string `json:"from"`
	Subject     string `json:"subject"`
	Message     string `json:"message"`
	MailServer  string `json:"mailServer"`
	HostName    string `json:"hostName"`
	NextStateId string `json:"nextStateId"`
}

// ActionContext carries everything one notification cycle needs. It is built
// once per cycle and never mutated afterwards.
type ActionContext struct {
	Item           Item
	Action         ActionDefinition
	HostName       string
	Actor          string
	PendingComment string
}

type TransitionRequest struct {
	ItemId   string `json:"itemId"`
	Language string `json:"language"`
	Version  int    `json:"version"`
	ActionId string `json:"actionId"`
	Actor    string `json:"actor"`
	Comment  string `json:"comment"`
}

func (r TransitionRequest) ItemKey() ItemKey {
	return ItemKey{Id: r.ItemId, Language: r.Language, Version: r.Version}
}

type PreviewRequest struct {
	TransitionRequest
	Template string `json:"template"`
}

package tokens

// Token is one recognised placeholder. Placeholders are case sensitive and
// written between dollar signs, e.g. $itemtitle$.
type Token int

// Declaration order is resolution order.
const (
	ItemPath Token = iota
	ItemLanguage
	ItemVersion
	ItemTitle
	ItemDateTime
	ItemWorkflowName
	ItemComment
	EditLink
	PreviewLink
	WorkBoxLink
	ProductionLink
	ItemWorkflowState
	Commands
	SubmittedByEmail
	SubmittedByName
	LoggedInUserEmail
	LoggedInUserName
	WorkflowHistoryTable
	tokenCount
)

const DELIMITER string = "$"

var tokenNames = [tokenCount]string{
	ItemPath:             "itempath",
	ItemLanguage:         "itemlanguage",
	ItemVersion:          "itemversion",
	ItemTitle:            "itemtitle",
	ItemDateTime:         "itemdatetime",
	ItemWorkflowName:     "itemworkflowname",
	ItemComment:          "itemcomment",
	EditLink:             "editlink",
	PreviewLink:          "previewlink",
	WorkBoxLink:          "workboxLink",
	ProductionLink:       "productionlink",
	ItemWorkflowState:    "itemworkflowstate",
	Commands:             "commands",
	SubmittedByEmail:     "SubmittedByEmail",
	SubmittedByName:      "SubmittedByName",
	LoggedInUserEmail:    "LoggedInUserEmail",
	LoggedInUserName:     "LoggedInUserName",
	WorkflowHistoryTable: "workflowhistorytable",
}

func (t Token) String() string {
	if t < 0 || t >= tokenCount {
		return "unknown"
	}
	return tokenNames[t]
}

func (t Token) Placeholder() string {
	return DELIMITER + t.String() + DELIMITER
}

// All returns every token in resolution order.
func All() []Token {
	all := make([]Token, 0, tokenCount)
	for t := Token(0); t < tokenCount; t++ {
		all = append(all, t)
	}
	return all
}

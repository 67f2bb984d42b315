package links

type ActionLinkMode int

const (
	Edit ActionLinkMode = iota
	Preview
	Submit
	SubmitWithComment
	WorkBox
	Production
)

func (m ActionLinkMode) String() string {
	switch m {
	case Edit:
		return "Edit"
	case Preview:
		return "Preview"
	case Submit:
		return "Submit"
	case SubmitWithComment:
		return "SubmitWithComment"
	case WorkBox:
		return "WorkBox"
	case Production:
		return "Production"
	}
	return "Unknown"
}

// NeedsCommand reports whether links of this mode carry a command id.
func (m ActionLinkMode) NeedsCommand() bool {
	return m == Submit || m == SubmitWithComment
}

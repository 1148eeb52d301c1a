package gate

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionList   Action = "list"
	ActionCreate Action = "create"

	// ActionApply covers paying for and recording a job application.
	ActionApply Action = "apply"
)

package extension

import "github.com/tidwall/gjson"

// Core edit command names. Extensions may define commands with any other
// name and an arbitrary JSON payload in Data.
const (
	CmdInsert           = "insert"
	CmdInsertLineBreak  = "insert-line-break"
	CmdDeleteBackward   = "delete-backward"
	CmdDeleteForward    = "delete-forward"
	CmdToggleInline     = "toggle-inline"
	CmdExitBlockWrapper = "exit-block-wrapper"
	CmdIndent           = "indent"
	CmdOutdent          = "outdent"
)

// Command is one edit request against a runtime state.
type Command struct {
	// Name selects the operation; one of the Cmd constants or an
	// extension-defined name.
	Name string

	// Text is the inserted text for insert commands.
	Text string

	// Marker is the literal marker for toggle-inline commands.
	Marker string

	// Data carries an extension-defined JSON payload.
	Data string
}

// Insert builds an insert command.
func Insert(text string) Command {
	return Command{Name: CmdInsert, Text: text}
}

// ToggleInline builds a toggle command for the given literal marker.
func ToggleInline(marker string) Command {
	return Command{Name: CmdToggleInline, Marker: marker}
}

// Get reads a path from the command's JSON payload.
func (c Command) Get(path string) gjson.Result {
	return gjson.Get(c.Data, path)
}

package composer

// Command constants for composer commands.
const (
	CmdAttach = "/attach"
	CmdDetach = "/detach"
	CmdExit   = "/exit"
	CmdNew    = "/new"
	CmdQuit   = "/quit"
	CmdSwitch = "/switch"
)

// maxTextareaHeight caps the composer's growth in rows.
const maxTextareaHeight = 5

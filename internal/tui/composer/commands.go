package composer

import "strings"

// Command represents a composer command with autocomplete support.
type Command struct {
	Name        string
	Args        string // Argument placeholder, empty when the command takes none
	Description string
}

// Usage returns the command with its argument placeholder.
func (c Command) Usage() string {
	if c.Args == "" {
		return c.Name
	}
	return c.Name + " " + c.Args
}

// AvailableCommands returns all available composer commands.
func AvailableCommands() []Command {
	return []Command{
		{Name: CmdAttach, Args: "<path>", Description: "Attach a file to the next message"},
		{Name: CmdDetach, Description: "Drop pending attachments"},
		{Name: CmdExit, Description: "Exit the application"},
		{Name: CmdNew, Description: "Start a new conversation"},
		{Name: CmdQuit, Description: "Exit the application"},
		{Name: CmdSwitch, Description: "Switch to another conversation"},
	}
}

// FilterCommands returns commands matching the given prefix.
func FilterCommands(prefix string) []Command {
	if prefix == "" || prefix[0] != '/' {
		return nil
	}
	all := AvailableCommands()
	if prefix == "/" {
		return all
	}
	var filtered []Command
	lowerPrefix := strings.ToLower(prefix)
	for _, cmd := range all {
		if strings.HasPrefix(strings.ToLower(cmd.Name), lowerPrefix) {
			filtered = append(filtered, cmd)
		}
	}
	return filtered
}

// parseCommand splits input into a known command and its argument.
func parseCommand(input string) (Command, string, bool) {
	name, arg, _ := strings.Cut(strings.TrimSpace(input), " ")
	for _, cmd := range AvailableCommands() {
		if strings.EqualFold(cmd.Name, name) {
			return cmd, strings.TrimSpace(arg), true
		}
	}
	return Command{}, "", false
}

package session

import "unicode"

// KeyEscape is the key code reported for the Escape key.
const KeyEscape = 27

// Command is what a single input event asks the session to do.
type Command int

const (
	CommandNone Command = iota
	CommandClick
	CommandReset
	CommandUndo
	CommandSave
	CommandQuit
)

func (c Command) String() string {
	switch c {
	case CommandClick:
		return "click"
	case CommandReset:
		return "reset"
	case CommandUndo:
		return "undo"
	case CommandSave:
		return "save"
	case CommandQuit:
		return "quit"
	default:
		return "none"
	}
}

// CommandForKey maps a key code to its command. Letters match in either case;
// unknown keys map to CommandNone.
func CommandForKey(code int) Command {
	if code == KeyEscape {
		return CommandQuit
	}
	if code <= 0 || code > unicode.MaxRune {
		return CommandNone
	}

	switch unicode.ToLower(rune(code)) {
	case 'q':
		return CommandQuit
	case 'r':
		return CommandReset
	case 'u':
		return CommandUndo
	case 's':
		return CommandSave
	default:
		return CommandNone
	}
}

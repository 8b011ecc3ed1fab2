package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rudhh/questly/internal/model"
)

type Type string

const (
	TypeAdd      Type = "add"
	TypeDone     Type = "done"
	TypeRemove   Type = "rm"
	TypeShow     Type = "show"
	TypeSettings Type = "set"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// AddArgs carries a new task. Exactly one of EndTime or DurationMin is set;
// the window token decides which.
type AddArgs struct {
	Title       string
	StartTime   string
	EndTime     string
	DurationMin int
	Force       bool
}

type DoneArgs struct {
	Target string
}

type RemoveArgs struct {
	Target string
}

type ShowArgs struct {
	Subject string
}

type SettingsArgs struct {
	Key   string
	Value string
}

type Command struct {
	Type     Type
	Raw      string
	Add      *AddArgs
	Done     *DoneArgs
	Remove   *RemoveArgs
	Show     *ShowArgs
	Settings *SettingsArgs
}

// Parse turns a palette line into a structured command. A leading slash is
// optional; the verb is case-insensitive.
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, args)
	case TypeDone:
		return parseDone(input, args)
	case TypeRemove:
		return parseRemove(input, args)
	case TypeShow:
		return parseShow(input, args)
	case TypeSettings:
		return parseSettings(input, args)
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

// parseAdd accepts "add TITLE HH:mm-HH:mm" and "add TITLE HH:mm for:MIN".
// A trailing "!" forces creation past the overlap check.
func parseAdd(raw string, args []string) (Command, error) {
	force := false
	if n := len(args); n > 0 && args[n-1] == "!" {
		force = true
		args = args[:n-1]
	}
	if len(args) < 2 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title and a time window"}
	}

	out := AddArgs{Force: force}
	titleEnd := len(args)

	last := args[len(args)-1]
	switch {
	case strings.HasPrefix(strings.ToLower(last), "for:"):
		mins, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(last), "for:"))
		if err != nil || mins <= 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid duration: %s", last)}
		}
		if len(args) < 3 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "duration form requires a start time"}
		}
		start := args[len(args)-2]
		if _, err := model.ParseClock(start); err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid start time: %s", start)}
		}
		out.StartTime = start
		out.DurationMin = mins
		titleEnd = len(args) - 2
	default:
		start, end, ok := strings.Cut(last, "-")
		if !ok {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a HH:mm-HH:mm window"}
		}
		if _, err := model.ParseClock(start); err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid start time: %s", start)}
		}
		if _, err := model.ParseClock(end); err != nil {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("invalid end time: %s", end)}
		}
		out.StartTime = start
		out.EndTime = end
		titleEnd = len(args) - 1
	}

	out.Title = strings.TrimSpace(strings.Join(args[:titleEnd], " "))
	if out.Title == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires a title"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &out}, nil
}

func parseDone(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "done requires a task id"}
	}
	return Command{Type: TypeDone, Raw: raw, Done: &DoneArgs{Target: args[0]}}, nil
}

func parseRemove(raw string, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "rm requires a task id"}
	}
	return Command{Type: TypeRemove, Raw: raw, Remove: &RemoveArgs{Target: args[0]}}, nil
}

func parseShow(raw string, args []string) (Command, error) {
	if len(args) == 0 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "show requires a subject"}
	}
	subject := strings.ToLower(args[0])
	switch subject {
	case "today", "profile", "progress", "badges", "settings":
	default:
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("unknown subject: %s", subject)}
	}
	return Command{Type: TypeShow, Raw: raw, Show: &ShowArgs{Subject: subject}}, nil
}

func parseSettings(raw string, args []string) (Command, error) {
	if len(args) != 1 || !strings.Contains(args[0], "=") {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires key=value"}
	}
	key, value, _ := strings.Cut(args[0], "=")
	key = strings.ToLower(strings.TrimSpace(key))
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "set requires key=value"}
	}
	return Command{Type: TypeSettings, Raw: raw, Settings: &SettingsArgs{Key: key, Value: value}}, nil
}

package sound

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Event names an audio cue. The engine decides when a cue fires; a Notifier
// decides how it is rendered. Calls are fire-and-forget: callers never inspect
// failures.
type Event string

const (
	EventAdd      Event = "add"
	EventComplete Event = "complete"
	EventDelete   Event = "delete"
	EventBadge    Event = "badge"
	EventWarning  Event = "warning"
	EventCritical Event = "critical"
)

func (e Event) IsValid() bool {
	switch e {
	case EventAdd, EventComplete, EventDelete, EventBadge, EventWarning, EventCritical:
		return true
	default:
		return false
	}
}

type Notifier interface {
	Play(ev Event, detail string)
}

type NoopNotifier struct{}

func (NoopNotifier) Play(Event, string) {}

// DesktopNotifier surfaces cues through the OS notification daemon, since a
// terminal app has no audio pipeline of its own.
type DesktopNotifier struct{}

func (DesktopNotifier) Play(ev Event, detail string) {
	title := "Questly: " + string(ev)
	switch runtime.GOOS {
	case "linux":
		_ = exec.Command("notify-send", title, detail).Run()
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`, escapeAppleScript(detail), escapeAppleScript(title))
		_ = exec.Command("osascript", "-e", script).Run()
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// Recorder captures events for tests.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Play(ev Event, _ string) {
	r.Events = append(r.Events, ev)
}

// Package notify sends desktop notifications through notify-send.
package notify

import (
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// Urgency levels for notifications
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Notification represents a desktop notification
type Notification struct {
	Title   string
	Body    string
	Urgency Urgency
	Timeout time.Duration
	Icon    string
}

// Notifier handles sending desktop notifications. A disabled Notifier
// accepts every call and does nothing.
type Notifier struct {
	enabled bool
	command string
}

// NewNotifier creates a notifier
func NewNotifier(enabled bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		command: "notify-send",
	}
}

// IsEnabled returns whether notifications are enabled
func (n *Notifier) IsEnabled() bool {
	return n != nil && n.enabled
}

// Args returns the notify-send arguments for notification.
func (n *Notifier) Args(notification Notification) []string {
	var args []string

	switch notification.Urgency {
	case UrgencyLow:
		args = append(args, "-u", "low")
	case UrgencyCritical:
		args = append(args, "-u", "critical")
	default:
		args = append(args, "-u", "normal")
	}

	if notification.Timeout > 0 {
		args = append(args, "-t", strconv.Itoa(int(notification.Timeout.Milliseconds())))
	}
	if notification.Icon != "" {
		args = append(args, "-i", notification.Icon)
	}

	args = append(args, "-a", "punch", notification.Title)
	if notification.Body != "" {
		args = append(args, notification.Body)
	}
	return args
}

// Send delivers notification
func (n *Notifier) Send(notification Notification) error {
	if !n.IsEnabled() {
		return nil
	}
	return exec.Command(n.command, n.Args(notification)...).Run()
}

// TimerStopped builds the notification shown when a timer stops.
func TimerStopped(taskTitle, elapsed, total string) Notification {
	return Notification{
		Title:   "Timer stopped",
		Body:    fmt.Sprintf("%s: +%s (total %s)", taskTitle, elapsed, total),
		Urgency: UrgencyLow,
		Timeout: 5 * time.Second,
		Icon:    "alarm-symbolic",
	}
}

package notify

import (
	"reflect"
	"testing"
	"time"
)

func TestArgs(t *testing.T) {
	n := NewNotifier(true)

	got := n.Args(TimerStopped("header", "00:25:00", "01:10:00"))
	want := []string{
		"-u", "low",
		"-t", "5000",
		"-i", "alarm-symbolic",
		"-a", "punch",
		"Timer stopped",
		"header: +00:25:00 (total 01:10:00)",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args = %q, want %q", got, want)
	}
}

func TestArgsOmitsEmptyFields(t *testing.T) {
	n := NewNotifier(true)

	got := n.Args(Notification{Title: "hi", Urgency: UrgencyCritical})
	want := []string{"-u", "critical", "-a", "punch", "hi"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args = %q, want %q", got, want)
	}
}

func TestDisabledSendIsNoop(t *testing.T) {
	n := NewNotifier(false)
	n.command = "/nonexistent/notify-send"

	if err := n.Send(Notification{Title: "x", Timeout: time.Second}); err != nil {
		t.Errorf("disabled Send returned %v", err)
	}

	var nilNotifier *Notifier
	if err := nilNotifier.Send(Notification{Title: "x"}); err != nil {
		t.Errorf("nil Send returned %v", err)
	}
}

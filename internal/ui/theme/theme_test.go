package theme

import (
	"testing"

	"github.com/dori/punch/internal/model"
)

func TestByName(t *testing.T) {
	for _, want := range Available() {
		got, ok := ByName(want.Name)
		if !ok || got.Name != want.Name {
			t.Errorf("ByName(%q) = %q, %v", want.Name, got.Name, ok)
		}
	}
	if _, ok := ByName("solarized"); ok {
		t.Error("ByName found an unknown theme")
	}
}

func TestNextWraps(t *testing.T) {
	themes := Available()
	if got := Next(themes[len(themes)-1].Name); got.Name != themes[0].Name {
		t.Errorf("Next(last) = %q, want %q", got.Name, themes[0].Name)
	}
	if got := Next("unknown"); got.Name != themes[0].Name {
		t.Errorf("Next(unknown) = %q, want %q", got.Name, themes[0].Name)
	}
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status model.Status
		want   string
	}{
		{model.StatusTodo, string(Nord.StatusTodo)},
		{model.StatusInProgress, string(Nord.StatusInProgress)},
		{model.StatusDone, string(Nord.StatusDone)},
	}
	for _, tt := range tests {
		if got := string(Nord.StatusColor(tt.status)); got != tt.want {
			t.Errorf("StatusColor(%s) = %s, want %s", tt.status, got, tt.want)
		}
	}
}

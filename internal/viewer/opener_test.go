package viewer

import (
	"errors"
	"testing"

	"github.com/Faultbox/panoselect/internal/handoff"
	"github.com/Faultbox/panoselect/pkg/cubeface"
)

func TestBrowserOpener(t *testing.T) {
	o := NewBrowserOpener("http://127.0.0.1:8080", nil)
	var gotName string
	var gotArgs []string
	o.command = func(name string, args ...string) error {
		gotName, gotArgs = name, args
		return nil
	}

	if err := o.Open(handoff.Reference{Face: cubeface.PosX, PanoramaID: "P1"}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if gotName == "" || gotArgs[len(gotArgs)-1] != "http://127.0.0.1:8080" {
		t.Errorf("command = %s %v", gotName, gotArgs)
	}
}

func TestBrowserOpenerRejectsNonHTTP(t *testing.T) {
	o := NewBrowserOpener("file:///etc/passwd", nil)
	o.command = func(string, ...string) error {
		t.Fatal("command must not run")
		return nil
	}
	if err := o.Open(handoff.Reference{}); err == nil {
		t.Error("expected error")
	}
}

func TestBrowserOpenerCommandFailure(t *testing.T) {
	o := NewBrowserOpener("https://editor.example.com", nil)
	o.command = func(string, ...string) error { return errors.New("not found") }
	if err := o.Open(handoff.Reference{}); err == nil {
		t.Error("expected error")
	}
}

func TestBrowserCommand(t *testing.T) {
	tests := []struct {
		goos string
		want string
	}{
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}
	for _, tt := range tests {
		if got, _ := browserCommand(tt.goos, "http://x"); got != tt.want {
			t.Errorf("browserCommand(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
}

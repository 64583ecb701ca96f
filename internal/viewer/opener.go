package viewer

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"

	"go.uber.org/zap"

	"github.com/Faultbox/panoselect/internal/handoff"
)

// BrowserOpener opens the editing service page in the system browser.
type BrowserOpener struct {
	URL string
	log *zap.Logger

	// command is replaced in tests.
	command func(name string, args ...string) error
}

// NewBrowserOpener creates an opener for serviceURL.
func NewBrowserOpener(serviceURL string, log *zap.Logger) *BrowserOpener {
	if log == nil {
		log = zap.NewNop()
	}
	return &BrowserOpener{
		URL: serviceURL,
		log: log,
		command: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open launches the browser without waiting for it.
func (o *BrowserOpener) Open(ref handoff.Reference) error {
	u, err := url.Parse(o.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q", o.URL)
	}

	name, args := browserCommand(runtime.GOOS, u.String())
	o.log.Info("opening editing service", zap.String("url", u.String()), zap.Stringer("reference", ref))
	if err := o.command(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", name, err)
	}
	return nil
}

func browserCommand(goos, target string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{target}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}
	default:
		return "xdg-open", []string{target}
	}
}

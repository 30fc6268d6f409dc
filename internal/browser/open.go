// Package browser hands map links and help pages to the desktop browser.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Open launches the default browser on rawURL. Only http and https links
// are accepted since the URLs come from the API.
func Open(rawURL string) error {
	if err := Check(rawURL); err != nil {
		return err
	}
	name, args := command(runtime.GOOS, rawURL)
	if name == "" {
		return fmt.Errorf("browser.Open: unsupported OS: %s", runtime.GOOS)
	}
	return exec.Command(name, args...).Start()
}

// Check rejects anything that is not an absolute http(s) URL.
func Check(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("browser.Check: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("browser.Check: refusing to open %q", rawURL)
	}
	return nil
}

func command(goos, rawURL string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}
	case "linux":
		return "xdg-open", []string{rawURL}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}
	default:
		return "", nil
	}
}

package browser

import "testing"

func TestCheck(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://maps.google.com/?cid=1", false},
		{"http://planit-ai.store", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"maps.google.com", true},
		{"", true},
	}
	for _, tc := range tests {
		err := Check(tc.url)
		if (err != nil) != tc.wantErr {
			t.Errorf("Check(%q) err=%v, wantErr=%v", tc.url, err, tc.wantErr)
		}
	}
}

func TestCommand(t *testing.T) {
	name, args := command("linux", "https://x.test")
	if name != "xdg-open" || len(args) != 1 {
		t.Errorf("linux: got %s %v", name, args)
	}
	name, args = command("windows", "https://x.test")
	if name != "rundll32" || len(args) != 2 {
		t.Errorf("windows: got %s %v", name, args)
	}
	if name, _ := command("plan9", "https://x.test"); name != "" {
		t.Errorf("plan9: expected no command, got %s", name)
	}
}

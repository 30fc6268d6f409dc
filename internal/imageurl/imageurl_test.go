package imageurl

import "testing"

func strPtr(s string) *string { return &s }

func TestResolve(t *testing.T) {
	const fb = "https://cdn.example/default.png"
	withBase := New("https://cdn.example", "")
	trailing := New("https://cdn.example///", "")
	noBase := New("", "")

	tests := []struct {
		name string
		r    *Resolver
		ref  *string
		want string
	}{
		{"nil", withBase, nil, fb},
		{"empty", withBase, strPtr(""), fb},
		{"blank", withBase, strPtr("   "), fb},
		{"absolute https", withBase, strPtr("https://cdn.example/img.png"), "https://cdn.example/img.png"},
		{"absolute http", noBase, strPtr("http://other.host/a.jpg"), "http://other.host/a.jpg"},
		{"absolute mixed case", noBase, strPtr("HTTPS://x.y/z.png"), "HTTPS://x.y/z.png"},
		{"key", withBase, strPtr("photos/a.png"), "https://cdn.example/photos/a.png"},
		{"key leading slashes", withBase, strPtr("//photos/a.png"), "https://cdn.example/photos/a.png"},
		{"base trailing slashes", trailing, strPtr("photos/a.png"), "https://cdn.example/photos/a.png"},
		{"key trimmed", withBase, strPtr("  photos/a.png "), "https://cdn.example/photos/a.png"},
		{"key without base", noBase, strPtr("photos/a.png"), fb},
		{"slashes only", withBase, strPtr("///"), fb},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Resolve(tt.ref, fb); got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvatar(t *testing.T) {
	r := New("https://cdn.example", "https://cdn.example/static/avatar.png")
	if got := r.Avatar(""); got != "https://cdn.example/static/avatar.png" {
		t.Errorf("Avatar(\"\") = %q", got)
	}
	if got := r.Avatar("u/1.png"); got != "https://cdn.example/u/1.png" {
		t.Errorf("Avatar(key) = %q", got)
	}
}

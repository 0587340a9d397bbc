package langmeta

import "testing"

func TestIsLocaleCode(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"en", true},
		{"fr", true},
		{"pt-BR", true},
		{"pt_BR", true},
		{"zh_CN", true},
		{"EN", true},
		{"e", false},
		{"eng", false},
		{"en-USA", false},
		{"en.json", false},
		{"12", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := IsLocaleCode(tc.name); got != tc.want {
			t.Fatalf("IsLocaleCode(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestResolveName(t *testing.T) {
	if got := Name("de"); got != "German" {
		t.Fatalf("Name(de) = %q, want German", got)
	}
	if got := Name("pt_BR"); got == "pt_BR" || got == "" {
		t.Fatalf("Name(pt_BR) = %q, want a display name", got)
	}
}

func TestResolveFlag(t *testing.T) {
	if got := Resolve("pt-BR").Flag; got != "\U0001F1E7\U0001F1F7" {
		t.Fatalf("Resolve(pt-BR).Flag = %q, want Brazilian flag", got)
	}
}

func TestFlagFromRegion(t *testing.T) {
	if got := flagFromRegion("us"); got != "\U0001F1FA\U0001F1F8" {
		t.Fatalf("flagFromRegion(us) = %q", got)
	}
	if got := flagFromRegion("USA"); got != "" {
		t.Fatalf("flagFromRegion(USA) = %q, want empty", got)
	}
	if got := flagFromRegion("1A"); got != "" {
		t.Fatalf("flagFromRegion(1A) = %q, want empty", got)
	}
}

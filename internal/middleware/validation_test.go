package middleware

import (
	"testing"

	"github.com/chabro2633/diary-korean/internal/model"
)

func TestValidateVideoID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantID  string
		wantErr bool
	}{
		{"valid short", "dQw4w9WgXcQ", "dQw4w9WgXcQ", false},
		{"valid with dash", "abc-def_123", "abc-def_123", false},
		{"trims whitespace", "  abc  ", "abc", false},
		{"empty", "", "", true},
		{"too long", "12345678901234567", "", true},
		{"exactly 16", "1234567890123456", "1234567890123456", false},
		{"invalid chars", "abc def", "", true},
		{"sql injection", "a'; DROP--", "", true},
		{"unicode", "abcédef", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateVideoID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.wantID {
				t.Errorf("got %q, want %q", got, tt.wantID)
			}
		})
	}
}

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "UCxyz_123-abc", false},
		{"empty", "", true},
		{"too long", "UC0123456789012345678901234567890", true},
		{"slash", "UC/../x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errMsg := ValidateChannelID(tt.input)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("ValidateChannelID(%q) error = %q, wantErr %v", tt.input, errMsg, tt.wantErr)
			}
		})
	}
}

func TestValidateFilters(t *testing.T) {
	if got, msg := ValidateCategory(" Drama "); msg != "" || got != "drama" {
		t.Errorf("ValidateCategory(Drama) = %q, %q", got, msg)
	}
	if _, msg := ValidateCategory("sports"); msg == "" {
		t.Error("sports should be rejected")
	}
	if got, msg := ValidateCategory(""); msg != "" || got != "" {
		t.Errorf("empty category = %q, %q", got, msg)
	}

	for _, ok := range []string{"manual", "AUTO", "community", ""} {
		if _, msg := ValidateSubtitleType(ok); msg != "" {
			t.Errorf("ValidateSubtitleType(%q) unexpected error %q", ok, msg)
		}
	}
	if _, msg := ValidateSubtitleType("none"); msg == "" {
		t.Error("none should be rejected")
	}

	if lang, msg := ValidateLanguage(""); msg != "" || lang != model.Korean {
		t.Errorf("empty lang = %q, %q", lang, msg)
	}
	if lang, msg := ValidateLanguage("EN"); msg != "" || lang != model.English {
		t.Errorf("EN lang = %q, %q", lang, msg)
	}
	if _, msg := ValidateLanguage("ja"); msg == "" {
		t.Error("ja should be rejected")
	}
}

func TestValidateQuery(t *testing.T) {
	if got, msg := ValidateQuery("  안녕  "); msg != "" || got != "안녕" {
		t.Errorf("got %q, %q", got, msg)
	}
	long := make([]rune, MaxQueryLen+1)
	for i := range long {
		long[i] = '가'
	}
	if _, msg := ValidateQuery(string(long)); msg == "" {
		t.Error("over-long query should be rejected")
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		input    string
		optional bool
		want     int64
		wantErr  bool
	}{
		{"42", false, 42, false},
		{"", true, 0, false},
		{"", false, 0, true},
		{"0", false, 0, true},
		{"-3", true, 0, true},
		{"abc", true, 0, true},
	}
	for _, tt := range tests {
		got, msg := ParseID(tt.input, "subtitleId", tt.optional)
		if (msg != "") != tt.wantErr || got != tt.want {
			t.Errorf("ParseID(%q, %v) = %d, %q", tt.input, tt.optional, got, msg)
		}
	}
}

func TestParseInt(t *testing.T) {
	if n, msg := ParseInt("", "limit", 20); msg != "" || n != 20 {
		t.Errorf("default = %d, %q", n, msg)
	}
	if n, msg := ParseInt("7", "limit", 20); msg != "" || n != 7 {
		t.Errorf("7 = %d, %q", n, msg)
	}
	if _, msg := ParseInt("-1", "limit", 20); msg == "" {
		t.Error("negative should be rejected")
	}
}

func TestSanitizePath(t *testing.T) {
	tests := map[string]string{
		"/api/videos/dQw4w9WgXcQ":    "/api/videos/:videoId",
		"/api/subtitles/123/context": "/api/subtitles/:subtitleId/context",
		"/api/channels/UC123":        "/api/channels/:channelId",
		"/api/search":                "/api/search",
		"/api/channels":              "/api/channels",
	}
	for in, want := range tests {
		if got := sanitizePath(in); got != want {
			t.Errorf("sanitizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

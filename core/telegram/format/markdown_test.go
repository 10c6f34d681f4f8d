package format

import "testing"

func TestEscapeMarkdownV2(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"a_b", `a\_b`},
		{"*bold*", `\*bold\*`},
		{"[link](url)", `\[link\]\(url\)`},
		{"1+1=2", `1\+1\=2`},
		{"a.b@x.com", `a\.b@x\.com`},
		{"back\\slash", `back\\slash`},
		{"~`>#-|{}!", "\\~\\`\\>\\#\\-\\|\\{\\}\\!"},
	}
	for _, tc := range cases {
		if got := EscapeMarkdownV2(tc.in); got != tc.want {
			t.Errorf("EscapeMarkdownV2(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestEscapeMarkdown(t *testing.T) {
	if got := EscapeMarkdown("a_b*c"); got != `a\_b\*c` {
		t.Fatalf("unexpected escape: %q", got)
	}
}

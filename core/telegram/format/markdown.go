package format

import "regexp"

var (
	mdV1Specials = regexp.MustCompile("([_*\\[`\\\\])")
	mdV2Specials = regexp.MustCompile("([_*\\[\\]()~`>#+\\-=|{}.!\\\\])")
)

// EscapeMarkdown escapes characters reserved by Telegram's legacy Markdown mode.
func EscapeMarkdown(text string) string {
	return mdV1Specials.ReplaceAllString(text, `\$1`)
}

// EscapeMarkdownV2 prefixes every MarkdownV2-reserved character (and the
// backslash itself) with a backslash so user-provided text renders literally.
func EscapeMarkdownV2(text string) string {
	return mdV2Specials.ReplaceAllString(text, `\$1`)
}

package moderation

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 只保留 ASCII 字母数字和下划线,其余都变成空格
func foldRune(r rune) rune {
	if r <= unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
		return unicode.ToLower(r)
	}
	return ' '
}

// NormalizeText 规范化文本: Unicode 分解去重音、去标点、小写、合并空白
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	// Chain 带内部缓冲,每次调用新建
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), runes.Map(foldRune))
	folded, _, err := transform.String(t, text)
	if err != nil {
		folded = strings.ToLower(text)
	}
	return strings.Join(strings.Fields(folded), " ")
}

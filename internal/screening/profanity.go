package screening

import (
	"sync"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"go-resources/internal/moderation"
)

var defaultBadWords = []string{
	"fuck", "fucking", "fucker", "motherfucker", "shit", "bullshit", "bitch",
	"bastard", "asshole", "dick", "cock", "cunt", "pussy", "slut", "whore",
	"wanker", "twat", "porn", "porno", "pornhub", "xxx", "nsfw", "hentai",
	"nigger", "nigga", "faggot", "retard",
}

// Profanity 整词匹配脏话表,文本先做规范化
type Profanity struct {
	mu      sync.Mutex
	matcher *ahocorasick.Matcher
}

// NewProfanity words 为空时使用默认词表
func NewProfanity(words []string) *Profanity {
	if len(words) == 0 {
		words = defaultBadWords
	}
	patterns := make([]string, 0, len(words))
	for _, w := range words {
		if n := moderation.NormalizeText(w); n != "" {
			// 两侧加空格,只命中完整的词
			patterns = append(patterns, " "+n+" ")
		}
	}
	return &Profanity{matcher: ahocorasick.NewStringMatcher(patterns)}
}

// Contains 文本是否含有脏话
func (p *Profanity) Contains(text string) bool {
	n := moderation.NormalizeText(text)
	if n == "" {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.matcher.Match([]byte(" "+n+" "))) > 0
}

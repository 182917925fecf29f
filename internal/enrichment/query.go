// Package enrichment 为通过审核的资源配图
package enrichment

import (
	"regexp"
	"strings"
)

var genericWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`the a an and or but in on at to for of with by
		your my our their this that these those is are was were
		be been being have has had do does did will would could
		should may might can must about into over under again further
		then once here there when where why how all any both each
		few more most other some such no nor not only own same
		so than too very just now out up down off above below`) {
		genericWords[w] = struct{}{}
	}
}

var (
	nonWordChars = regexp.MustCompile(`[^\w]`)
	digitsOnly   = regexp.MustCompile(`^\d+$`)
)

const maxQueryKeywords = 4

// BuildQuery 从标题和分类里取前几个有意义的词拼成图片搜索词
func BuildQuery(title, category string) string {
	seen := make(map[string]struct{})
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(title + " " + category)) {
		w := nonWordChars.ReplaceAllString(word, "")
		if len(w) <= 2 || digitsOnly.MatchString(w) {
			continue
		}
		if _, ok := genericWords[w]; ok {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
		if len(keywords) == maxQueryKeywords {
			break
		}
	}

	if len(keywords) > 0 {
		return strings.Join(keywords, " ") + " programming computer code"
	}
	return category + " programming computer technology"
}

var (
	filterWords    = regexp.MustCompile(`\b(tutorial|guide|how to|learn|complete|beginner|advanced|course|lesson)\b`)
	versionNumbers = regexp.MustCompile(`\bv?\d+(\.\d+)*\b`)
	specialChars   = regexp.MustCompile(`[^\w\s]`)
)

// CleanTitleForSearch 批量补图时用的搜索词: 去掉教程类词和版本号,取前三个词
func CleanTitleForSearch(title string) string {
	s := strings.ToLower(title)
	s = filterWords.ReplaceAllString(s, "")
	s = versionNumbers.ReplaceAllString(s, "")
	s = specialChars.ReplaceAllString(s, " ")
	words := strings.Fields(s)
	if len(words) > 3 {
		words = words[:3]
	}
	if len(words) == 0 {
		return "programming technology"
	}
	return strings.Join(words, " ")
}

package enrichment

import (
	"fmt"
	"strings"
)

// Image 图片及作者信息
type Image struct {
	URL                  string `json:"url"`
	PhotographerName     string `json:"photographer_name"`
	PhotographerUsername string `json:"photographer_username"`
}

// Attribution 署名文字
func (i Image) Attribution() string {
	if i.PhotographerName == "" {
		return ""
	}
	if i.PhotographerUsername == "" {
		return fmt.Sprintf("Photo by %s on Unsplash", i.PhotographerName)
	}
	return fmt.Sprintf("Photo by %s (@%s) on Unsplash", i.PhotographerName, i.PhotographerUsername)
}

const defaultPlaceholder = "/images/placeholders/default.svg"

var categoryPlaceholders = map[string]string{
	"practice & coding challenges":   "/images/placeholders/practice.svg",
	"documentation & references":     "/images/placeholders/documentation.svg",
	"learning & courses":             "/images/placeholders/courses.svg",
	"system design & architecture":   "/images/placeholders/system-design.svg",
	"tools & utilities":              "/images/placeholders/tools.svg",
	"quick references & cheatsheets": "/images/placeholders/cheatsheets.svg",
	"learning resources & guides":    "/images/placeholders/guides.svg",
	"collections & open source":      "/images/placeholders/open-source.svg",
}

// PlaceholderFor 配图失败时按分类返回占位图
func PlaceholderFor(category string) string {
	if p, ok := categoryPlaceholders[strings.ToLower(strings.TrimSpace(category))]; ok {
		return p
	}
	return defaultPlaceholder
}

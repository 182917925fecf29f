package moderation

import "strings"

// DomainClass 域名分类结果
type DomainClass int

const (
	DomainUnknown DomainClass = iota
	DomainAllow
	DomainBlock
)

func (c DomainClass) String() string {
	switch c {
	case DomainAllow:
		return "allow"
	case DomainBlock:
		return "block"
	default:
		return "unknown"
	}
}

// DomainClassifier 域名白名单/黑名单,命中即为最终结论
type DomainClassifier struct {
	allow []string
	block []string
}

func NewDomainClassifier(allow, block []string) *DomainClassifier {
	return &DomainClassifier{allow: lowerAll(allow), block: lowerAll(block)}
}

// DefaultDomainClassifier 默认名单
func DefaultDomainClassifier() *DomainClassifier {
	return NewDomainClassifier(defaultAllowedDomains, defaultBlockedDomains)
}

// Classify 精确匹配或子域名匹配,白名单优先
func (c *DomainClassifier) Classify(hostname string) DomainClass {
	host := strings.TrimSuffix(strings.ToLower(hostname), ".")
	if matchesAny(host, c.allow) {
		return DomainAllow
	}
	if matchesAny(host, c.block) {
		return DomainBlock
	}
	return DomainUnknown
}

func matchesAny(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

var defaultAllowedDomains = []string{
	// 编程平台
	"github.com", "stackoverflow.com", "stackexchange.com", "codepen.io",
	"jsfiddle.net", "codesandbox.io", "replit.com", "glitch.com",
	// 学习平台
	"freecodecamp.org", "codecademy.com", "udemy.com", "coursera.org",
	"edx.org", "khanacademy.org", "pluralsight.com", "lynda.com",
	"udacity.com", "treehouse.com", "skillshare.com",
	// 文档
	"developer.mozilla.org", "mdn.io", "w3schools.com", "w3.org",
	"docs.python.org", "nodejs.org", "reactjs.org", "vuejs.org",
	"angular.io", "django-doc.readthedocs.io", "flask.palletsprojects.com",
	// 刷题
	"leetcode.com", "hackerrank.com", "codewars.com", "codesignal.com",
	"topcoder.com", "codeforces.com", "atcoder.jp",
	// 技术博客
	"dev.to", "medium.com", "hashnode.com", "css-tricks.com",
	"smashingmagazine.com", "alistapart.com", "scotch.io",
}

var defaultBlockedDomains = []string{
	// 社交
	"tiktok.com", "instagram.com", "facebook.com", "twitter.com", "x.com",
	"snapchat.com", "pinterest.com", "linkedin.com",
	// 娱乐
	"netflix.com", "hulu.com", "disney.com", "disneyplus.com",
	"youtube.com", "youtu.be", "vimeo.com", "twitch.tv",
	// 购物
	"amazon.com", "ebay.com", "alibaba.com", "etsy.com",
	"shopify.com", "walmart.com", "target.com",
	// 新闻八卦
	"reddit.com", "buzzfeed.com", "tmz.com", "dailymail.co.uk",
}

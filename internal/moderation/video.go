package moderation

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"go-resources/internal/logger"
	"go-resources/internal/youtube"
)

const (
	reasonNotVideoLink   = "This doesn't look like a valid YouTube video link."
	reasonVideoNotFound  = "YouTube video not found. It might be private, deleted, or the ID is invalid."
	reasonVideoUpstream  = "Temporary system error. Your video is pending manual review."
	reasonVideoStrongBad = "This appears to be entertainment or gaming content, which is not allowed."
	reasonVideoBad       = "This appears to be non-educational content."
	reasonVideoUnsure    = "Our system couldn't confirm this is educational. It will be reviewed manually."
)

// 强信号给满置信度,弱信号减半
const (
	videoStrongConfidence = 1.0
	videoWeakConfidence   = 0.5
)

var videoIDPattern = regexp.MustCompile(`(?i)(?:youtube\.com/watch\?(?:[^#]*&)?v=|youtu\.be/)([^&?#/\s]+)`)

// IsVideoURL 判断是否为视频站链接
func IsVideoURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, "youtube.com/") || strings.Contains(lower, "youtu.be/")
}

// ExtractVideoID 从观看页或短链接中取视频 ID
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}

// VideoLookup 按 ID 查询视频元数据
type VideoLookup interface {
	Video(ctx context.Context, id string) (*youtube.Video, error)
}

// VideoChecker 根据视频标题、描述和标签判断
type VideoChecker struct {
	lookup VideoLookup
	good   [][]string
	bad    [][]string
	log    logger.Logger
}

func NewVideoChecker(lookup VideoLookup, vocab VideoVocabulary, log logger.Logger) *VideoChecker {
	if len(vocab.Good) == 0 && len(vocab.Bad) == 0 {
		vocab = DefaultVideoVocabulary()
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &VideoChecker{
		lookup: lookup,
		good:   tokenizePhrases(vocab.Good),
		bad:    tokenizePhrases(vocab.Bad),
		log:    log,
	}
}

// Check 检查视频链接
func (c *VideoChecker) Check(ctx context.Context, rawURL string) Verdict {
	id, ok := ExtractVideoID(rawURL)
	if !ok {
		return Reject(SourceInvalidURL, reasonNotVideoLink, 1)
	}

	video, err := c.lookup.Video(ctx, id)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			c.log.Info("Video not found", logger.String("video_id", id))
			return Reject(SourceVideoNotFound, reasonVideoNotFound, 1)
		}
		c.log.Error("Video lookup failed", logger.String("video_id", id), logger.Error(err))
		return Reject(SourceUpstreamError, reasonVideoUpstream, 0)
	}

	s := c.signals(video)
	c.log.Debug("Video signals",
		logger.String("video_id", id),
		logger.Bool("strong_good", s.strongGood),
		logger.Bool("any_good", s.anyGood),
		logger.Bool("strong_bad", s.strongBad),
		logger.Bool("any_bad", s.anyBad),
	)
	return s.verdict()
}

type videoSignals struct {
	strongGood bool
	anyGood    bool
	strongBad  bool
	anyBad     bool
}

// 顺序固定: 标题里的强学习信号优先于标签里的负面信号
func (s videoSignals) verdict() Verdict {
	switch {
	case s.strongGood:
		return Approve(SourceVideoAnalysis, videoStrongConfidence)
	case s.strongBad:
		return Reject(SourceVideoAnalysis, reasonVideoStrongBad, videoStrongConfidence)
	case s.anyGood && !s.anyBad:
		return Approve(SourceVideoAnalysis, videoWeakConfidence)
	case s.anyBad:
		return Reject(SourceVideoAnalysis, reasonVideoBad, videoWeakConfidence)
	default:
		return Reject(SourceManualReview, reasonVideoUnsure, 0)
	}
}

func (c *VideoChecker) signals(v *youtube.Video) videoSignals {
	title := tokenSet(v.Title)
	desc := tokenSet(v.Description)
	tags := make([]map[string]struct{}, 0, len(v.Tags))
	for _, t := range v.Tags {
		tags = append(tags, tokenSet(t))
	}

	var s videoSignals
	for _, p := range c.good {
		inTitle := containsPhrase(title, p)
		s.strongGood = s.strongGood || inTitle
		s.anyGood = s.anyGood || inTitle || containsPhrase(desc, p)
	}
	for _, p := range c.bad {
		inTitleOrTags := containsPhrase(title, p) || anyContainsPhrase(tags, p)
		s.strongBad = s.strongBad || inTitleOrTags
		s.anyBad = s.anyBad || inTitleOrTags || containsPhrase(desc, p)
	}
	return s
}

// 词两侧的标点不参与匹配,"Course!" 与 "course" 相同
const tokenTrimSet = `.,:;!?()[]{}"'|-`

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, tokenTrimSet); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func tokenSet(text string) map[string]struct{} {
	words := tokenize(text)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func tokenizePhrases(phrases []string) [][]string {
	out := make([][]string, 0, len(phrases))
	for _, p := range phrases {
		if words := tokenize(p); len(words) > 0 {
			out = append(out, words)
		}
	}
	return out
}

// 短语的每个词都出现在文本里即视为命中,不要求相邻
func containsPhrase(set map[string]struct{}, phrase []string) bool {
	for _, w := range phrase {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}

func anyContainsPhrase(sets []map[string]struct{}, phrase []string) bool {
	for _, s := range sets {
		if containsPhrase(s, phrase) {
			return true
		}
	}
	return false
}

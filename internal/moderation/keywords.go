package moderation

// Keywords 内容打分用的四组关键词,启动时构造一次后只读
type Keywords struct {
	StrongEducational []string // +3
	Educational       []string // +1
	StrongNegative    []string // -4
	Negative          []string // -2
}

const (
	weightStrongEducational = 3
	weightEducational       = 1
	weightStrongNegative    = -4
	weightNegative          = -2
)

func (k Keywords) empty() bool {
	return len(k.StrongEducational)+len(k.Educational)+len(k.StrongNegative)+len(k.Negative) == 0
}

// DefaultKeywords 默认关键词表
func DefaultKeywords() Keywords {
	return Keywords{
		StrongEducational: []string{
			// 学习形式
			"tutorial", "course", "lesson", "guide", "documentation", "reference",
			"walkthrough", "how to", "step by step", "beginners", "fundamentals",
			"crash course", "masterclass", "bootcamp", "workshop", "training",
			// 编程概念
			"programming", "coding", "development", "software engineering",
			"algorithm", "data structure", "design pattern", "best practices",
			"clean code", "refactoring", "debugging", "testing", "deployment",
		},
		Educational: []string{
			"javascript", "python", "java", "react", "angular", "vue", "node",
			"django", "flask", "spring", "express", "laravel", "rails",
			"html", "css", "sql", "mongodb", "postgresql", "redis",
			"docker", "kubernetes", "aws", "azure", "gcp", "git", "linux",
		},
		StrongNegative: []string{
			"official video", "music video", "lyrics", "gameplay", "funny",
			"hilarious", "prank", "memes", "fails", "compilation", "vlog",
			"unboxing", "haul", "gossip", "celebrity", "dating", "relationship",
		},
		Negative: []string{
			"entertainment", "movie", "trailer", "episode", "season", "netflix",
			"spotify", "gaming", "esports", "fortnite", "minecraft", "tiktok",
			"instagram", "shopping", "deal", "discount", "crypto", "bitcoin",
		},
	}
}

// VideoVocabulary 视频标题/描述/标签的整词短语表
type VideoVocabulary struct {
	Good []string
	Bad  []string
}

// DefaultVideoVocabulary 默认视频短语表
func DefaultVideoVocabulary() VideoVocabulary {
	return VideoVocabulary{
		Good: []string{
			// 学习形式
			"tutorial", "course", "lecture", "guide", "how to", "explain", "walkthrough",
			"beginners", "learning", "fundamentals", "crash course", "full course",
			"masterclass", "workshop", "bootcamp", "deep dive", "overview", "introduction",
			"documentation", "article", "blog", "ebook", "textbook", "reference", "cheatsheet",
			"example", "demo", "session", "training", "lesson", "module", "unit", "primeagen",
			// 编程概念
			"programming", "coding", "development", "software engineering", "web development",
			"algorithm", "data structure", "pattern", "paradigm", "concept", "principle",
			"framework", "library", "package", "dependency",
			// 编程语言
			"javascript", "js", "python", "py", "java", "c++", "cpp", "c#", "csharp",
			"go", "golang", "rust", "ruby", "php", "swift", "kotlin", "typescript", "ts",
			"scala", "r language", "dart", "elixir", "haskell", "perl", "lua",
			"html", "css", "sass", "scss", "sql", "nosql",
			// Web
			"react", "angular", "vue", "vue.js", "svelte", "next.js", "nuxt.js",
			"node", "node.js", "express", "django", "flask", "spring", "spring boot",
			"laravel", "ruby on rails", "rails", "asp.net", "jquery",
			"api", "rest", "graphql", "websocket", "http", "https", "json", "xml",
			// 数据
			"database", "db", "mysql", "postgresql", "postgres", "sqlite", "oracle",
			"mongodb", "redis", "elasticsearch", "dynamodb", "firebase", "firestore",
			"data science", "data analysis", "machine learning", "ml", "ai", "artificial intelligence",
			"big data", "data visualization", "etl",
			// 运维
			"devops", "git", "github", "gitlab", "docker", "kubernetes", "k8s",
			"aws", "amazon web services", "azure", "google cloud", "gcp", "cloud",
			"server", "backend", "frontend", "fullstack", "serverless", "microservices",
			"linux", "unix", "bash", "shell", "scripting", "command line", "terminal",
			// 计算机基础
			"computer science", "cs", "array", "linked list", "stack",
			"queue", "tree", "binary tree", "graph", "hash table", "hashmap", "set",
			"sorting", "searching", "recursion", "dynamic programming", "dp",
			"time complexity", "big o", "space complexity", "oop", "object oriented",
			"functional programming", "compiler", "interpreter", "operating system", "os",
			// 工具
			"vscode", "visual studio code", "intellij", "pycharm", "webstorm", "ide",
			"vim", "neovim", "emacs", "cli",
			"npm", "yarn", "pip", "maven", "gradle", "webpack", "babel", "parcel",
			"jest", "testing", "unit test", "integration test", "tdd", "ci", "cd",
			// 刷题
			"problem solving", "leetcode", "hackerrank", "codesignal", "codewars",
			"interview", "interview preparation", "faang", "career", "resume", "portfolio",
			"project", "build", "create", "code along", "challenge", "exercise",
			// 通用
			"learn", "understand", "master", "develop", "design",
			"implement", "optimize", "debug", "deploy", "secure", "scale", "performance",
			"best practices", "clean code", "refactor", "version control", "collaborate",
		},
		Bad: []string{
			// 音乐
			"official video", "lyrics", "lyric", "album",
			"spotify", "soundcloud", "rap", "hip hop", "pop", "rock",
			"beat", "instrumental", "mix", "remix", "release",
			"mp3", "download", "playlist", "concert", "tour",
			// 游戏
			"gameplay", "walkthrough", "playthrough", "lets play",
			"ps5", "xbox", "nintendo", "steam", "epic games",
			"fortnite", "minecraft", "roblox", "valorant", "league of legends", "lol",
			"dota", "call of duty", "warzone", "overwatch", "twitch",
			"esports", "pro player", "speedrun",
			// 娱乐
			"funny", "comedy", "hilarious", "prank", "joke", "memes", "meme",
			"fails", "compilation", "try not to laugh", "tiktok", "vine", "reels",
			"shorts", "celebrities", "entertainment", "gossip", "rumor", "hollywood",
			"bollywood",
			// vlog
			"vlog", "vlogger", "my day", "routine", "day in the life", "lifestyle",
			"morning routine", "night routine", "get ready with me", "grwm",
			"personal", "storytime", "q&a", "question and answer",
			"story time", "my story", "travel", "vacation", "food",
			"cooking", "recipe", "fitness", "workout", "gym", "motivation",
			// 影视
			"movie", "film", "trailer", "clip", "episode", "series", "season",
			"netflix", "disney+", "disney plus", "hulu", "hbo max", "prime video",
			"amazon prime", "cinema", "theatre", "actor", "actress", "director",
			"oscars", "awards", "tv show", "anime", "manga", "cartoon",
			// 购物
			"shop", "shopping", "buy", "purchase", "deal", "discount", "sale",
			"offer", "price", "cost", "amazon", "ebay", "alibaba", "unboxing",
			"unbox", "haul", "sponsor", "sponsored", "advertisement", "ad",
			"promo", "promotion", "affiliate link",
			// 标题党
			"free robux", "free vbucks", "how to get free", "make money fast",
			"get rich", "crypto", "bitcoin", "ethereum", "nft", "investment",
			"secret", "exposed", "they didn't want you to know", "shocking",
			"you won't believe", "gone wrong", "gone sexual", "almost died",
			"life hacks", "trick", "secret method",
			// 情感/美妆
			"dating", "relationship", "bf", "gf", "boyfriend", "girlfriend",
			"crush", "love", "breakup", "wedding", "makeup", "beauty", "skincare",
			"fashion", "outfit", "style", "asmr", "satisfying", "oddly satisfying",
			// 其他
			"sports", "football", "soccer", "nba", "nfl", "cricket", "highlights",
			"podcast", "documentary", "physics", "biology", "politics", "news",
			"current events", "conspiracy",
		},
	}
}

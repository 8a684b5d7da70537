package filter

import "strings"

// talkShowKeywords are matched case-insensitively as substrings of show titles
var talkShowKeywords = []string{
	"tonight show", "late show", "late night", "daily show",
	"talk show", "with seth meyers", "with james corden",
	"with jimmy", "with stephen", "with trevor", "news",
	"live with", "watch what happens live", "the view",
	"good morning", "today show", "kimmel", "colbert",
	"fallon", "ellen", "conan", "graham norton", "meet the press",
	"face the nation", "last week tonight", "real time",
	"kelly and", "kelly &", "jeopardy", "wheel of fortune",
	"daily mail", "entertainment tonight", "zeiten", "schlechte",
}

// IsTalkShow reports whether a title looks like a talk, news or game show
func IsTalkShow(title string) bool {
	if title == "" {
		return false
	}
	lower := strings.ToLower(title)
	for _, kw := range talkShowKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

package ban

import (
	"regexp"
	"strings"
)

// LikeEscape is the escape character SQL LIKE patterns produced by
// WildcardLike are built around. The store has to attach a matching
// ESCAPE clause.
const LikeEscape = "!"

// Wildcard reports whether the item contains the `*` wildcard.
func Wildcard(item string) bool {
	return strings.Contains(item, "*")
}

// WildcardRegexp translates an item into a regular expression where `*`
// matches any substring (non-greedy) and everything else is literal.
// Matching is case-insensitive and unanchored.
func WildcardRegexp(item string) (*regexp.Regexp, error) {
	pattern := "(?is)" + strings.ReplaceAll(regexp.QuoteMeta(item), `\*`, ".*?")

	return regexp.Compile(pattern)
}

var likeEscaper = strings.NewReplacer(
	LikeEscape, LikeEscape+LikeEscape,
	"%", LikeEscape+"%",
	"_", LikeEscape+"_",
)

// WildcardLike translates an item into a SQL LIKE pattern: `*` becomes
// `%`, LIKE metacharacters in the item are escaped with LikeEscape.
func WildcardLike(item string) string {
	return strings.ReplaceAll(likeEscaper.Replace(item), "*", "%")
}

// matchItem matches a ban item against an actor value: exact
// case-insensitive equality, or wildcard translation when the item
// carries a `*`.
func matchItem(item, value string) bool {
	if !Wildcard(item) {
		return strings.EqualFold(item, value)
	}

	re, err := WildcardRegexp(item)
	if err != nil {
		return false
	}

	return re.MatchString(value)
}

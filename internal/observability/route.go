package observability

import "strings"

// RouteLabel replaces id segments so metric labels stay bounded:
// "/lesson-quiz-options/12/mark-correct" becomes "/lesson-quiz-options/:id/mark-correct".
func RouteLabel(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if s == "" {
			continue
		}
		if (s[0] >= '0' && s[0] <= '9') || strings.HasPrefix(s, "temp-") || (len(s) == 36 && strings.Count(s, "-") == 4) {
			segs[i] = ":id"
		}
	}
	return strings.Join(segs, "/")
}

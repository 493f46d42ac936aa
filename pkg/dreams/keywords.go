package dreams

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// stopWords are French function words ignored by TopKeywords.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`le la les de des du un une et ou mais donc car ni je tu il elle
		nous vous ils elles que qui dont où dans sur avec sans pour par à au aux ce cette ces
		mon ma mes ton ta tes son sa ses notre votre leur leurs`) {
		stopWords[w] = struct{}{}
	}
}

// minKeywordRunes is exclusive: only tokens longer than this count.
const minKeywordRunes = 3

// KeywordCount is one entry of a TopKeywords ranking.
type KeywordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// TopKeywords ranks the whitespace-separated, lowercased tokens of every
// narrative. Tokens of three runes or fewer and stop words are skipped.
// Equal counts keep the order of first appearance.
func TopKeywords(history []Record, n int) []KeywordCount {
	counts := make(map[string]int)
	var order []string
	for _, r := range history {
		for _, w := range strings.Fields(strings.ToLower(r.Text)) {
			if utf8.RuneCountInString(w) <= minKeywordRunes {
				continue
			}
			if _, stop := stopWords[w]; stop {
				continue
			}
			if counts[w] == 0 {
				order = append(order, w)
			}
			counts[w]++
		}
	}

	out := make([]KeywordCount, 0, len(order))
	for _, w := range order {
		out = append(out, KeywordCount{Word: w, Count: counts[w]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

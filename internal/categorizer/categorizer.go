// Package categorizer assigns a fixed category label to document text using
// ordered keyword rules.
package categorizer

import (
	"strings"

	"github.com/ziadkadry99/docsearch/internal/domain"
)

// rule maps a category to the keywords that select it.
type rule struct {
	category domain.Category
	keywords []string
}

// rules are evaluated in order; the first rule with a matching keyword wins.
var rules = []rule{
	{domain.CategoryMarketing, []string{"marketing", "strategy", "campaign"}},
	{domain.CategoryProduct, []string{"product", "roadmap", "feature"}},
	{domain.CategoryInternal, []string{"q4", "q3", "internal", "memo"}},
}

// Categorize returns the category for text. Keywords are matched as
// case-insensitive substrings. Text that matches no rule is General.
func Categorize(text string) domain.Category {
	lower := strings.ToLower(text)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.category
			}
		}
	}
	return domain.CategoryGeneral
}

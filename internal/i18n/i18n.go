// Package i18n holds the localized complexity explanations and negotiates the
// display language for a request.
package i18n

import (
	"golang.org/x/text/language"

	"github.com/abhisek/snipbox/internal/complexity"
)

// Supported display languages. English is the fallback.
var (
	English    = language.English
	Vietnamese = language.Vietnamese
)

var matcher = language.NewMatcher([]language.Tag{English, Vietnamese})

var explanations = map[language.Base]map[string]string{
	base(Vietnamese): {
		complexity.RuleDefault:         "Thuật toán đơn giản, không có vòng lặp phức tạp",
		"nested-loop":                  "Phát hiện vòng lặp lồng nhau, độ phức tạp bậc hai",
		"single-loop":                  "Phát hiện vòng lặp đơn, độ phức tạp tuyến tính",
		"binary-search":                "Phát hiện tìm kiếm nhị phân",
		"recursion":                    "Phát hiện đệ quy, có thể có độ phức tạp mũ",
		"quadratic-sort":               "Thuật toán sắp xếp đơn giản",
		"linearithmic-sort":            "Thuật toán sắp xếp hiệu quả",
		"tree-traversal":               "Duyệt cây, h là chiều cao của cây",
		"hash-table":                   "Sử dụng cấu trúc dữ liệu băm",
		complexity.RuleMultipleLoops:   "Phát hiện nhiều vòng lặp",
		complexity.RuleLinearStructure: "Phát hiện cấu trúc dữ liệu tuyến tính",
	},
}

func base(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

// Negotiate picks the display language from an explicit query value first,
// then an Accept-Language header. Unknown or empty inputs yield English.
func Negotiate(query, acceptLanguage string) language.Tag {
	if query != "" {
		if tag, err := language.Parse(query); err == nil {
			if _, idx, conf := matcher.Match(tag); conf != language.No {
				return []language.Tag{English, Vietnamese}[idx]
			}
		}
	}
	if acceptLanguage == "" {
		return English
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return English
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return []language.Tag{English, Vietnamese}[idx]
}

// Explain returns the explanation for r in lang. English, and any rule with
// no translation, uses the estimator's own text.
func Explain(r complexity.Result, lang language.Tag) string {
	if msgs, ok := explanations[base(lang)]; ok {
		if s, ok := msgs[r.Rule]; ok {
			return s
		}
	}
	return r.Explanation
}

// Localize returns a copy of r with its explanation translated.
func Localize(r complexity.Result, lang language.Tag) complexity.Result {
	r.Explanation = Explain(r, lang)
	return r
}

package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/matfinder/backend/internal/domain"
)

// materialKeywords maps catalog vocabulary to canonical material labels.
// Matching is longest-keyword-first so "natural rubber" wins over "rubber"
// and "thermoplastic elastomer" over nothing at all.
var materialKeywords = map[string]string{
	"thermoplastic elastomer": "TPE",
	"natural tree rubber":     "Natural Rubber",
	"natural rubber":          "Natural Rubber",
	"recycled rubber":         "Recycled Rubber",
	"polyurethane":            "PU",
	"microfiber":              "Microfiber",
	"microfibre":              "Microfiber",
	"vinyl":                   "PVC",
	"suede":                   "Suede",
	"cotton":                  "Cotton",
	"rubber":                  "Rubber",
	"cork":                    "Cork",
	"jute":                    "Jute",
	"hemp":                    "Hemp",
	"wool":                    "Wool",
	"foam":                    "Foam",
	"tpe":                     "TPE",
	"pvc":                     "PVC",
	"nbr":                     "NBR",
	"eva":                     "EVA",
	"pu":                      "PU",
}

// featureKeywords maps canonical feature tags to the phrases that imply
// them. Tests are independent: a product can carry zero, one, or many tags.
var featureKeywords = map[string][]string{
	"Non-Slip":         {"non-slip", "non slip", "anti-slip", "anti slip", "slip-resistant", "slip resistant", "grippy"},
	"Eco-Friendly":     {"eco-friendly", "eco friendly", "sustainable", "sustainably", "biodegradable", "recyclable"},
	"Reversible":       {"reversible", "dual-sided", "dual sided", "two-sided"},
	"Alignment":        {"alignment", "align lines", "alignment lines"},
	"Travel":           {"travel", "foldable", "packable"},
	"Extra Thick":      {"extra thick", "extra-thick"},
	"Extra Long":       {"extra long", "extra-long"},
	"Lightweight":      {"lightweight", "light weight"},
	"Machine Washable": {"machine washable", "machine-washable"},
	"Non-Toxic":        {"non-toxic", "non toxic", "toxin-free"},
	"Cushioned":        {"cushion", "cushioned", "cushioning"},
	"Moisture-Wicking": {"moisture-wicking", "moisture wicking", "sweat-wicking", "sweat wicking", "absorbent"},
}

// Compiled at init: one word-boundary matcher per keyword, plus one negation
// matcher per material keyword so "PVC-free" never classifies as PVC.
var (
	materialMatchers  []materialMatcher
	materialNegations []*regexp.Regexp
	featureMatchers   map[string][]*regexp.Regexp
)

type materialMatcher struct {
	keyword string
	label   string
	pattern *regexp.Regexp
}

func init() {
	keywords := make([]string, 0, len(materialKeywords))
	for keyword := range materialKeywords {
		keywords = append(keywords, keyword)
	}
	// Longest first; ties alphabetical for determinism.
	sort.Slice(keywords, func(i, j int) bool {
		if len(keywords[i]) != len(keywords[j]) {
			return len(keywords[i]) > len(keywords[j])
		}
		return keywords[i] < keywords[j]
	})

	for _, keyword := range keywords {
		quoted := regexp.QuoteMeta(keyword)
		materialMatchers = append(materialMatchers, materialMatcher{
			keyword: keyword,
			label:   materialKeywords[keyword],
			pattern: regexp.MustCompile(`(?i)\b` + quoted + `\b`),
		})
		materialNegations = append(materialNegations, regexp.MustCompile(
			fmt.Sprintf(`(?i)\b(?:free\s+(?:of|from)\s+%[1]s|no\s+%[1]s|without\s+%[1]s|non[-\s]%[1]s|%[1]s[-\s]free)\b`, quoted),
		))
	}

	featureMatchers = make(map[string][]*regexp.Regexp, len(featureKeywords))
	for tag, phrases := range featureKeywords {
		for _, phrase := range phrases {
			featureMatchers[tag] = append(featureMatchers[tag],
				regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(phrase)+`\b`))
		}
	}
}

// ExtractMaterial finds the product's material by longest-keyword-first
// substring match, after stripping negation phrases so that "PVC-free"
// text cannot classify the product as PVC. Returns "" when nothing matches.
func ExtractMaterial(text string, tags []string) string {
	combined := text
	if len(tags) > 0 {
		combined += " " + strings.Join(tags, " ")
	}

	for _, negation := range materialNegations {
		combined = negation.ReplaceAllString(combined, " ")
	}

	for _, matcher := range materialMatchers {
		if matcher.pattern.MatchString(combined) {
			return matcher.label
		}
	}
	return ""
}

// ExtractFeatures returns every feature tag whose keyword set matches the
// text, in deterministic order.
func ExtractFeatures(text string) []string {
	var features []string
	for tag, patterns := range featureMatchers {
		for _, pattern := range patterns {
			if pattern.MatchString(text) {
				features = append(features, tag)
				break
			}
		}
	}
	sort.Strings(features)
	return features
}

// ExtractColors reads the product's color enumeration from an explicitly
// color-named option. There is no fallback to variant values: a product with
// no dedicated color option has no color list, never an inferred one.
func ExtractColors(options []domain.Option) []string {
	for _, option := range options {
		if !IsColorOptionName(option.Name) {
			continue
		}
		seen := make(map[string]bool, len(option.Values))
		colors := make([]string, 0, len(option.Values))
		for _, value := range option.Values {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" || seen[strings.ToLower(trimmed)] {
				continue
			}
			seen[strings.ToLower(trimmed)] = true
			colors = append(colors, trimmed)
		}
		if len(colors) > 0 {
			return colors
		}
	}
	return nil
}

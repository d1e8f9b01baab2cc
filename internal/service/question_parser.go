package service

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stemsi/course-catalog/internal/model"
)

// matchPolicy decides what happens when several rules of one category match.
type matchPolicy int

const (
	// firstMatch stops the category at the first rule that matches.
	firstMatch matchPolicy = iota
	// lastMatch evaluates every rule; a later match overwrites an earlier one.
	lastMatch
)

// extractionRule pairs a matcher over the lower-cased question with the
// transform that writes the captured value into a FilterSet. set returns false
// when the captured value cannot be converted; the rule then counts as unmatched.
type extractionRule struct {
	match func(text string) (string, bool)
	set   func(f *model.FilterSet, value string) bool
}

type ruleCategory struct {
	key    string
	policy matchPolicy
	rules  []extractionRule
}

// departmentKeywords is scanned in order; the first substring hit wins.
var departmentKeywords = []string{
	"computer science",
	"cs",
	"mechanical",
	"electrical",
	"civil",
	"mathematics",
	"physics",
	"chemistry",
	"biology",
	"economics",
	"business",
	"commerce",
	"management",
	"data science",
	"ai",
	"artificial intelligence",
}

var departmentAliases = map[string]string{
	"cs": "computer science",
}

var (
	feeCeilingPattern  = regexp.MustCompile(`under\s*(\d[\d,]*)|below\s*(\d[\d,]*)`)
	ratingFloorPattern = regexp.MustCompile(`rating\s*(\d(\.\d)?)`)
)

// questionRules is the extraction policy, evaluated top to bottom.
//
// Level uses lastMatch with the UG rule listed after PG, so a question that
// mentions both tiers resolves to UG. Keyword matching is plain substring
// matching: "ug" also fires inside words such as "august".
var questionRules = []ruleCategory{
	{
		key:    "level",
		policy: lastMatch,
		rules: []extractionRule{
			keywordRule(string(model.LevelPG), setLevel, "pg", "postgraduate", "masters"),
			keywordRule(string(model.LevelUG), setLevel, "ug", "undergraduate", "bachelors"),
		},
	},
	{
		key:    "delivery_mode",
		policy: firstMatch,
		rules: []extractionRule{
			keywordRule(string(model.DeliveryOnline), setDeliveryMode, "online"),
			keywordRule(string(model.DeliveryOffline), setDeliveryMode, "offline", "on-campus", "on campus"),
			keywordRule(string(model.DeliveryHybrid), setDeliveryMode, "hybrid"),
		},
	},
	{
		key:    "max_fee",
		policy: firstMatch,
		rules:  []extractionRule{{match: matchFeeCeiling, set: setMaxFee}},
	},
	{
		key:    "min_rating",
		policy: firstMatch,
		rules:  []extractionRule{{match: matchRatingFloor, set: setMinRating}},
	},
	{
		key:    "department",
		policy: firstMatch,
		rules:  departmentRules(),
	},
}

// ExtractFilters maps a free-text question to a FilterSet. It is pure and
// deterministic; categories with no match are left nil. Extracted values are
// not checked against the stored catalog.
func ExtractFilters(question string) model.FilterSet {
	text := strings.ToLower(question)

	var f model.FilterSet
	for _, cat := range questionRules {
		for _, rule := range cat.rules {
			value, ok := rule.match(text)
			if !ok || !rule.set(&f, value) {
				continue
			}
			if cat.policy == firstMatch {
				break
			}
		}
	}
	return f
}

// keywordRule matches when text contains any keyword and yields value.
func keywordRule(value string, set func(*model.FilterSet, string) bool, keywords ...string) extractionRule {
	return extractionRule{
		match: func(text string) (string, bool) {
			for _, kw := range keywords {
				if strings.Contains(text, kw) {
					return value, true
				}
			}
			return "", false
		},
		set: set,
	}
}

func departmentRules() []extractionRule {
	rules := make([]extractionRule, 0, len(departmentKeywords))
	for _, kw := range departmentKeywords {
		name := kw
		if alias, ok := departmentAliases[kw]; ok {
			name = alias
		}
		rules = append(rules, keywordRule(name, setDepartment, kw))
	}
	return rules
}

func matchFeeCeiling(text string) (string, bool) {
	m := feeCeilingPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], m[2] != ""
}

func matchRatingFloor(text string) (string, bool) {
	m := ratingFloorPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func setLevel(f *model.FilterSet, v string) bool {
	l := model.Level(v)
	f.Level = &l
	return true
}

func setDeliveryMode(f *model.FilterSet, v string) bool {
	m := model.DeliveryMode(v)
	f.DeliveryMode = &m
	return true
}

func setDepartment(f *model.FilterSet, v string) bool {
	f.Department = &v
	return true
}

func setMaxFee(f *model.FilterSet, v string) bool {
	n, err := strconv.Atoi(strings.ReplaceAll(v, ",", ""))
	if err != nil {
		return false
	}
	f.MaxFee = &n
	return true
}

func setMinRating(f *model.FilterSet, v string) bool {
	r, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return false
	}
	f.MinRating = &r
	return true
}

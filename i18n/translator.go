package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional values substituted into the message template
// (for example "name", "value" or "type").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var templates = map[string]map[string]string{
	"en": {
		"invalid_type":           "{name}: {value} is not {type}",
		"invalid":                "{name} is not valid",
		"unknown_key":            "no such attribute: {name}",
		"no_member":              "{name}: no member of {type} accepts the value",
		"parse_error":            "parse error",
		"duplicate_key":          "duplicate key",
		"truncated":              "truncated",
		"validation":             "{message}",
		"validator_failed":       "{message}",
		"dependency_unavailable": "dependency unavailable",
		"required":               "{name} is required",
		"too_short":              "{name} needs at least {min} item(s)",
		"uniqueness":             "{name}: duplicate {key} {value}",
	},
	"ja": {
		"invalid_type":           "{name}: {value} は {type} ではありません",
		"invalid":                "{name} が不正です",
		"unknown_key":            "未知の属性です: {name}",
		"no_member":              "{name}: {type} のどのメンバーにも一致しません",
		"parse_error":            "解析エラー",
		"duplicate_key":          "キーが重複しています",
		"truncated":              "打ち切られました",
		"validation":             "{message}",
		"validator_failed":       "{message}",
		"dependency_unavailable": "依存先サービスが利用できません",
		"required":               "{name} は必須です",
		"too_short":              "{name} には {min} 件以上の要素が必要です",
		"uniqueness":             "{name}: {key} {value} が重複しています",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tpl, ok := templates[t.lang][code]
	if !ok {
		return code
	}
	return expand(tpl, data)
}

// expand substitutes {key} placeholders; unknown placeholders are left as-is.
func expand(tpl string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(tpl, "{") {
		return tpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}

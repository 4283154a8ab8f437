// Package i18n renders human messages for defaultinput issue codes.
package i18n

import "sync"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":  "invalid type",
		"invalid_key":   "invalid scheme key",
		"duplicate_key": "duplicate key",
		"too_deep":      "scheme nesting too deep",
		"invalid_param": "invalid parameter",
		"parse_error":   "parse error",
		"truncated":     "truncated",
		"invalid_table": "invalid scheme table",
	},
	"ja": {
		"invalid_type":  "型が不正です",
		"invalid_key":   "スキームのキーが不正です",
		"duplicate_key": "キーが重複しています",
		"too_deep":      "スキームの入れ子が深すぎます",
		"invalid_param": "引数が不正です",
		"parse_error":   "解析エラー",
		"truncated":     "打ち切られました",
		"invalid_table": "スキームテーブルが不正です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if key := data["key"]; key != "" {
		return msg + ": " + key
	}
	return msg
}

var (
	mu                           = sync.RWMutex{}
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
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

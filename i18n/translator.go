package i18n

import (
	"sort"
	"strings"
)

// Translator retrieves localized messages for issue codes. data carries
// optional details (for example "kind" or "field") appended to the message.
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"unsupported_kind":     "unsupported value type",
		"invalid_type":         "value does not match its type",
		"invalid_shape":        "value has the wrong shape",
		"required":             "required property missing",
		"parse_error":          "parse error",
		"duplicate_key":        "duplicate key",
		"truncated":            "document too large or too deep",
		"unknown_target":       "target prototype not found",
		"unknown_field":        "field not declared on the prototype",
		"unknown_property":     "unknown property",
		"field_conversion":     "field value cannot be converted",
		"index_out_of_range":   "array index out of range",
		"not_ready":            "property metadata not initialized",
		"contract_violation":   "property contract violation",
		"invalid_path":         "field path cannot be walked",
		"dependency_not_found": "referenced prototype not found",
	},
	"ja": {
		"unsupported_kind":     "未対応の値型です",
		"invalid_type":         "型が不正です",
		"invalid_shape":        "値の構造が不正です",
		"required":             "必須プロパティが不足しています",
		"parse_error":          "解析エラー",
		"duplicate_key":        "キーが重複しています",
		"truncated":            "ドキュメントが大きすぎるか深すぎます",
		"unknown_target":       "対象のプロトタイプが見つかりません",
		"unknown_field":        "プロトタイプに存在しないフィールドです",
		"unknown_property":     "未知のプロパティです",
		"field_conversion":     "フィールド値を変換できません",
		"index_out_of_range":   "配列インデックスが範囲外です",
		"not_ready":            "プロパティ情報が初期化されていません",
		"contract_violation":   "プロパティの契約違反です",
		"invalid_path":         "フィールドパスをたどれません",
		"dependency_not_found": "参照先のプロトタイプが見つかりません",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		msg = code
	}
	if len(data) == 0 {
		return msg
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(msg)
	b.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(data[k])
	}
	b.WriteByte(')')
	return b.String()
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation. nil restores the
// built-in English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

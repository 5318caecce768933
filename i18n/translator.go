package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "type" or "pattern").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_location":
			return "パラメータ位置が不正です"
		case "type_mismatch":
			return "型が一致しません"
		case "pattern_mismatch":
			return "パターンに一致しません"
		case "param_missing":
			return "必須パラメータが不足しています"
		case "unknown_type":
			return "未知の型キーワードです"
		case "invalid_pattern":
			return "パターンを解釈できません"
		case "invalid_spec":
			return "パラメータ定義が不正です"
		case "enclosed_ignored":
			return "ネスト定義は無視されました"
		case "duplicate_param":
			return "パラメータ名が重複しています"
		case "default_unreachable":
			return "デフォルト値は適用されません"
		}
	default: // "en"
		switch code {
		case "invalid_location":
			return "invalid parameter location"
		case "type_mismatch":
			return "type mismatch"
		case "pattern_mismatch":
			return "pattern mismatch"
		case "param_missing":
			return "required parameter missing"
		case "unknown_type":
			return "unknown type keyword"
		case "invalid_pattern":
			return "invalid pattern"
		case "invalid_spec":
			return "invalid parameter definition"
		case "enclosed_ignored":
			return "enclosed definitions ignored"
		case "duplicate_param":
			return "duplicate parameter name"
		case "default_unreachable":
			return "default value can never apply"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }

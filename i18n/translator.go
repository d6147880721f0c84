package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "member" or "type"). Placeholders use the {key} form.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_member":
			msg = "メンバー定義が不正です"
		case "unsupported_type":
			msg = "未対応の型です: {type}"
		case "contract_not_registered":
			msg = "共有コントラクトが登録されていません: {type}"
		case "contract_cycle":
			msg = "コントラクトの解決が循環しています: {type}"
		case "no_accessor":
			msg = "アクセサが存在しません: {member}"
		case "member_access_denied":
			msg = "非公開メンバーへのアクセスが許可されていません: {member}"
		case "invalid_host":
			msg = "ホストインスタンスの型が不正です: {got}"
		case "invalid_value":
			msg = "値の型が不正です: {got}"
		case "invalid_config":
			msg = "設定が不正です"
		}
	default: // "en"
		switch code {
		case "invalid_member":
			msg = "invalid member"
		case "unsupported_type":
			msg = "unsupported type {type}"
		case "contract_not_registered":
			msg = "no shared contract registered for {type}"
		case "contract_cycle":
			msg = "contract resolution cycle at {type}"
		case "no_accessor":
			msg = "no accessor for {member}"
		case "member_access_denied":
			msg = "access to unexported member {member} is not allowed"
		case "invalid_host":
			msg = "invalid host instance {got}, want {type}"
		case "invalid_value":
			msg = "cannot assign {got} to {member} of type {type}"
		case "invalid_config":
			msg = "invalid configuration"
		}
	}
	if msg == "" {
		return code
	}
	return expand(msg, data)
}

func expand(msg string, data map[string]string) string {
	if !strings.Contains(msg, "{") {
		return msg
	}
	for k, v := range data {
		msg = strings.ReplaceAll(msg, "{"+k+"}", v)
	}
	// drop placeholders that were not supplied
	for {
		i := strings.IndexByte(msg, '{')
		if i < 0 {
			break
		}
		j := strings.IndexByte(msg[i:], '}')
		if j < 0 {
			break
		}
		msg = strings.TrimRight(msg[:i], " :") + msg[i+j+1:]
	}
	return msg
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

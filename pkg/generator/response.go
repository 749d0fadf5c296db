package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedDocRegex = regexp.MustCompile("(?s)^```(?:html|HTML)?\\s*(.*\\S)\\s*```$")
	htmlBlockRegex = regexp.MustCompile("(?s)```(?:html|HTML)?\\s*(.*\\S)\\s*```")
	jsonBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*\\S)\\s*```")
)

// StripFences はモデルが付けがちな Markdown のコードフェンス (```html ... ```) を取り除きます。
// 応答全体を囲むフェンスだけを外し、文書内部のコードブロックには触れません。
func StripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if matches := fencedDocRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}
	// 前置きの文章に続けてフェンス付きの文書が来る応答
	if !strings.HasPrefix(raw, "<") && !strings.HasPrefix(raw, "```") {
		if matches := htmlBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}
	// 閉じフェンスのない応答
	raw = strings.TrimPrefix(raw, "```html")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}

// extractJSON は応答から JSON オブジェクト部分を取り出します。
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if matches := jsonBlockRegex.FindStringSubmatch(raw); len(matches) > 1 {
		return matches[1]
	}
	// 最も外側のオブジェクトを探す
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first != -1 && last > first {
		return raw[first : last+1]
	}
	return raw
}

// decodeObject は JSON オブジェクトをキーごとの生データに分解し、必須キーの欠落を検出します。
func decodeObject(raw string, required []string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(extractJSON(raw)), &obj); err != nil {
		return nil, fmt.Errorf("AIからの応答に含まれるJSONの解析に失敗しました (応答抜粋: %q): %w", truncateString(raw, 200), err)
	}

	var missing []string
	for _, key := range required {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("必須フィールドがありません: %s", strings.Join(missing, ", "))
	}
	return obj, nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

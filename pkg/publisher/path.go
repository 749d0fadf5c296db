package publisher

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ResolveOutputPath は、ベースとなるディレクトリパスとファイル名から最終的な出力パスを生成します。
// ファイル名にディレクトリ要素が含まれる場合はエラーになります。
func ResolveOutputPath(baseDir, fileName string) (string, error) {
	if fileName == "" || fileName != filepath.Base(fileName) || strings.Contains(fileName, "..") {
		return "", fmt.Errorf("不正なファイル名です: %q", fileName)
	}
	if baseDir == "" {
		baseDir = "."
	}
	return filepath.Join(baseDir, fileName), nil
}

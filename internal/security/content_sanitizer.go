// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService はユーザーが入力したテキストをサニタイズし、
// 保存型XSS攻撃から求人閲覧者・雇用者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグのみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はユーザー入力テキストのサニタイズ機能のインターフェースを定義する。
// 求人の説明・応募のカバーレターなど、後にブラウザで表示される
// テキストの保存前に使用される。
type ContentSanitizerService interface {
	// SanitizeRichText は求人の説明文など書式付きテキストをサニタイズする。
	// 基本的な整形タグ（p, br, ul, ol, li, strong, em, a）のみを通過させ、
	// script, iframe, styleタグおよびon*イベント属性を除去する。
	// aタグにはrel="noopener noreferrer"が自動付与される。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeRichText(raw string) string

	// SanitizePlainText はカバーレター・氏名・会社名などの
	// プレーンテキストフィールドからすべてのHTMLタグを除去する。
	SanitizePlainText(raw string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	richPolicy  *bluemonday.Policy
	plainPolicy *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
// 書式付きポリシーの内容:
//   - 許可タグ: p, br, ul, ol, li, strong, em, a
//   - 禁止タグ: script, iframe, style および全てのon*イベント属性
//   - aタグ: rel="noopener noreferrer" を自動付与、httpsのみ
//
// プレーンポリシーはすべてのタグを除去する。
func NewContentSanitizer() *contentSanitizer {
	rich := bluemonday.NewPolicy()

	// 許可リストに含めないタグは自動的に除去される。
	// on*イベント属性はbluemondayのデフォルトで許可されない。
	rich.AllowElements(
		"p", "br", "ul", "ol", "li",
		"strong", "em",
	)

	// 求人説明内のリンク: 絶対URLのみ、rel属性を強制付与
	rich.AllowAttrs("href").OnElements("a")
	rich.AllowRelativeURLs(false)
	rich.AllowURLSchemes("https")
	rich.AddTargetBlankToFullyQualifiedLinks(true)
	rich.RequireNoReferrerOnLinks(true)

	return &contentSanitizer{
		richPolicy:  rich,
		plainPolicy: bluemonday.StrictPolicy(),
	}
}

// SanitizeRichText は書式付きテキストをサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeRichText(raw string) string {
	return strings.TrimSpace(s.richPolicy.Sanitize(raw))
}

// SanitizePlainText はすべてのHTMLタグを除去したテキストを返す。
func (s *contentSanitizer) SanitizePlainText(raw string) string {
	return strings.TrimSpace(s.plainPolicy.Sanitize(raw))
}

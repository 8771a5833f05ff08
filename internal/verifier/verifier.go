package verifier

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/LJTian/NewsGauge/internal/collector"
)

// 命中任意一个短语就把得分乘 0.8，多个命中会叠乘
var suspiciousPhrases = []string{"unverified", "alleged", "rumor", "claim"}

// Result 是对一篇文章的可信度判定
type Result struct {
	IsCredible bool    `json:"is_credible"`
	Score      float64 `json:"score"`
	Reason     string  `json:"reason"`
}

// VerifiedArticle 在原始文章上附加判定结果
type VerifiedArticle struct {
	collector.Article
	Verified           bool    `json:"verified"`
	CredibilityScore   float64 `json:"credibility_score"`
	VerificationReason string  `json:"verification_reason"`
}

// VerifyArticle 用长度启发式给单篇文章打分。
// 基础分 = min(0.95, 正文字符数/500)，字符数按 rune 计；空正文基础分为 0。
// 之后对可疑短语表做不区分大小写的子串匹配，每命中一个乘 0.8（四个都会检查，
// 不短路），最终钳制在 [0, 1]。score > 0.5 判为可信。
func VerifyArticle(title, content, source string) Result {
	score := math.Min(0.95, float64(utf8.RuneCountInString(content))/500.0)

	lower := strings.ToLower(content)
	for _, phrase := range suspiciousPhrases {
		if strings.Contains(lower, phrase) {
			score *= 0.8
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	return Result{
		IsCredible: score > 0.5,
		Score:      score,
		Reason:     fmt.Sprintf("Article analyzed with credibility score %.2f", score),
	}
}

// VerifyBatch 对整批文章逐篇打分，保持输入的顺序与条数，不做去重
func VerifyBatch(articles []collector.Article) []VerifiedArticle {
	verified := make([]VerifiedArticle, 0, len(articles))
	for _, a := range articles {
		result := VerifyArticle(a.Title, a.Description, a.Source)
		verified = append(verified, VerifiedArticle{
			Article:            a,
			Verified:           result.IsCredible,
			CredibilityScore:   result.Score,
			VerificationReason: result.Reason,
		})
	}
	return verified
}

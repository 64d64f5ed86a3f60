// Package scoring evaluates one candidate answer against one question by
// blending deterministic keyword coverage with a model-judged semantic
// score. The keyword signal is always available and serves as the safety
// net: every model failure mode degrades to it instead of aborting.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/interview"
	"github.com/tttiuem2k3/Agent-Interview/internal/textnorm"
	"github.com/tttiuem2k3/Agent-Interview/internal/util"
)

// alphaKeyword is the blend weight of keyword coverage; the remainder goes
// to the semantic score.
const alphaKeyword = 0.30

const judgeInstruction = "Bạn là giám khảo kỹ thuật. Chấm mức độ đúng ngữ nghĩa so với đáp án mẫu. Trả về JSON duy nhất."

const logPreviewLength = 200

var letterToken = regexp.MustCompile(`\p{L}+`)

// Engine scores answers. A nil completer disables the semantic step and
// every score is keyword-only.
type Engine struct {
	llm    ai.Completer
	logger *zap.Logger
}

// NewEngine creates a scoring engine.
func NewEngine(llm ai.Completer, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{llm: llm, logger: logger}
}

// Score computes the blended score for one answer, clamped to
// [0, question weight] and rounded to two decimals, together with an
// explanatory comment.
func (e *Engine) Score(ctx context.Context, answer string, q interview.Question) (float64, string) {
	coverage, kwComment := KeywordCoverage(answer, q.KeywordsCSV)

	if e.llm == nil {
		return round2(coverage * q.Weight), kwComment + " (keyword-only)"
	}

	outcome := e.judgeSemantic(ctx, answer, q)
	switch outcome.Kind {
	case SemanticParsed:
		sem := clamp01(outcome.Score)
		combined := q.Weight * (alphaKeyword*coverage + (1-alphaKeyword)*sem)
		final := round2(clamp(combined, 0, q.Weight))
		comment := fmt.Sprintf("LLM: %s | Keyword: %s | α=%.2g", strings.TrimSpace(outcome.Reasoning), kwComment, alphaKeyword)
		return final, comment
	case SemanticQuotaExhausted:
		return round2(coverage * q.Weight), kwComment + " (fallback keyword: insufficient_quota)"
	case SemanticMalformed:
		return round2(coverage * q.Weight), kwComment
	default:
		return round2(coverage * q.Weight), kwComment + " (fallback keyword: error)"
	}
}

// SemanticKind tags the outcome of the semantic judgment so the degrade
// path is explicit and testable.
type SemanticKind int

const (
	// SemanticParsed means a usable score was obtained.
	SemanticParsed SemanticKind = iota
	// SemanticMalformed means the reply could not be parsed even after
	// stripping code fences.
	SemanticMalformed
	// SemanticQuotaExhausted means the provider rejected the call for
	// quota or rate-limit reasons.
	SemanticQuotaExhausted
	// SemanticUnavailable means the call failed for any other reason.
	SemanticUnavailable
)

// SemanticOutcome is the tagged result of one semantic judgment.
type SemanticOutcome struct {
	Kind      SemanticKind
	Score     float64
	Reasoning string
}

func (e *Engine) judgeSemantic(ctx context.Context, answer string, q interview.Question) SemanticOutcome {
	message := fmt.Sprintf(`Câu hỏi: %s
Trọng số tối đa: %g
Đáp án mẫu (model_answer): %s
Keywords gợi ý: %s
Câu trả lời ứng viên: %s

Yêu cầu:
- semantic_score: số thực 0..1 (1 = rất sát, 0 = chệch hẳn).
- reasoning: 1-2 câu giải thích ngắn.
Trả về đúng JSON:
{"semantic_score": number, "reasoning": "string"}`,
		q.Text, q.Weight, q.ModelAnswer, q.KeywordsCSV, answer)

	raw, err := e.llm.Complete(ctx, judgeInstruction, nil, message)
	if err != nil {
		if errors.Is(err, ai.ErrQuotaExhausted) {
			e.logger.Warn("semantic judgment skipped", zap.String("reason", "insufficient quota"))
			return SemanticOutcome{Kind: SemanticQuotaExhausted}
		}
		e.logger.Warn("semantic judgment failed", zap.Error(err))
		return SemanticOutcome{Kind: SemanticUnavailable}
	}

	outcome, ok := ParseSemantic(raw)
	if !ok {
		e.logger.Debug("semantic reply unparseable",
			zap.String("response_preview", util.TruncateForLog(raw, logPreviewLength)),
		)
		return SemanticOutcome{Kind: SemanticMalformed}
	}
	return outcome
}

// ParseSemantic decodes the judge reply. The raw response is tried as-is
// first; on failure code fences are stripped and the first JSON object is
// extracted for one more attempt.
func ParseSemantic(raw string) (SemanticOutcome, bool) {
	if out, ok := decodeSemantic(firstJSONObject(raw)); ok {
		return out, true
	}

	cleaned := stripCodeFences(raw)
	if out, ok := decodeSemantic(firstJSONObject(cleaned)); ok {
		return out, true
	}
	return SemanticOutcome{Kind: SemanticMalformed}, false
}

// KeywordCoverage computes the fraction of reference keywords present in
// the answer, in [0, 1], with a short comment. Both sides are compared on
// the canonicalized (diacritic-free, lowercase) form. Multi-word keywords
// must appear whole-word-bounded; single-word keywords match a token
// exactly or as a stem with a suffix of at most three characters.
func KeywordCoverage(answer, keywordsCSV string) (float64, string) {
	if strings.TrimSpace(answer) == "" {
		return 0, "Trả lời trống."
	}

	keywords := parseKeywords(keywordsCSV)
	if len(keywords) == 0 {
		return 0, "Không có tiêu chí keywords để tham chiếu."
	}

	flat := textnorm.Canonicalize(answer)
	tokens := make(map[string]bool)
	for _, tok := range letterToken.FindAllString(flat, -1) {
		tokens[tok] = true
	}

	hits := 0
	for _, kw := range keywords {
		if hitKeyword(kw, flat, tokens) {
			hits++
		}
	}

	coverage := clamp01(float64(hits) / float64(len(keywords)))

	comment := "Tốt, bao phủ phần lớn ý."
	switch {
	case hits == 0:
		comment = "Chưa chạm ý chính."
	case coverage < 0.5:
		comment = "Cần chi tiết hơn."
	}

	return coverage, comment
}

func parseKeywords(csv string) []string {
	seen := make(map[string]bool)
	var keywords []string
	for _, part := range strings.Split(csv, ",") {
		kw := textnorm.Canonicalize(part)
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}
	return keywords
}

func hitKeyword(kw, flat string, tokens map[string]bool) bool {
	if strings.Contains(kw, " ") {
		return containsWholePhrase(flat, kw)
	}

	if tokens[kw] {
		return true
	}
	// Cheap stemming: "index" hits "indexing", "indexes", "indexed".
	// The suffix budget counts runes so a multibyte letter like đ does
	// not use it up faster than an ASCII one.
	for tok := range tokens {
		if strings.HasPrefix(tok, kw) && utf8.RuneCountInString(tok[len(kw):]) <= 3 {
			return true
		}
	}
	return false
}

// containsWholePhrase reports whether the phrase occurs in s bounded by
// non-letters or the string edges.
func containsWholePhrase(s, phrase string) bool {
	for from := 0; ; {
		idx := strings.Index(s[from:], phrase)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(phrase)

		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		beforeOK := start == 0 || !unicode.IsLetter(before)
		afterOK := end == len(s) || !unicode.IsLetter(after)
		if beforeOK && afterOK {
			return true
		}
		from = start + 1
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package resolve maps free-form candidate replies onto the closed sets of
// known position names and seniority levels. The model path is consulted
// first and validated deterministically; local fuzzy matching is the
// fallback so a model outage never blocks resolution.
package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/textnorm"
)

// Seniority tiers. Zero means unresolved.
const (
	LevelFresher = 1
	LevelJunior  = 2
	LevelSenior  = 3
)

const positionInstruction = `Bạn là bộ đối sánh vị trí ứng tuyển.
- Nhiệm vụ: từ câu trả lời tự do (có thể có lỗi chính tả/tiếng lóng), xác định vị trí gần nhất trong danh sách cho phép.
- Chỉ trả về JSON:
{ "match": true|false, "normalized": "<tên VỊ TRÍ đúng như trong danh sách hoặc rỗng>" }
- Bỏ qua hư từ như 'ạ', 'dạ', 'mình', 'em', 'anh', ..., ký tự thừa.
- Ưu tiên khớp gần đúng (fuzzy) và đồng nghĩa hiển nhiên (ví dụ Enginner → Engineer). Không suy đoán ngoài danh sách.`

const levelInstruction = `Bạn là bộ chuẩn hoá level ứng viên.
- Suy ra level 1/2/3 từ câu trả lời tự do (fresher=1, junior=2, senior=3; chấp nhận văn nói như 'fresher á', 'em junior ạ').
- Trả về JSON: { "level": "1|2|3|" } (chuỗi rỗng nếu không xác định).`

var (
	fresherPattern = regexp.MustCompile(`\bfresher\b`)
	juniorPattern  = regexp.MustCompile(`\bjun(ior)?\b`)
	seniorPattern  = regexp.MustCompile(`\bsen(ior)?\b`)
)

// Resolver performs position and level resolution. The completer may be
// nil; only the local deterministic paths run then.
type Resolver struct {
	llm    ai.Completer
	logger *zap.Logger
}

// NewResolver creates a Resolver.
func NewResolver(llm ai.Completer, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{llm: llm, logger: logger}
}

// Position maps the reply to one of the allowed position names, or "" when
// nothing acceptable is found. A model claim is only accepted when the
// normalized value is itself a member of the allowed set; the model is
// never trusted to invent a valid name.
func (r *Resolver) Position(ctx context.Context, reply string, allowed []string) string {
	reply = strings.TrimSpace(reply)
	if reply == "" || len(allowed) == 0 {
		return ""
	}

	if name := r.positionByModel(ctx, reply, allowed); name != "" {
		return name
	}

	return textnorm.BestMatch(reply, allowed)
}

func (r *Resolver) positionByModel(ctx context.Context, reply string, allowed []string) string {
	if r.llm == nil {
		return ""
	}

	message := fmt.Sprintf("Danh sách cho phép: [%s]\nCâu trả lời: %q.\nTrả về JSON theo hướng dẫn.",
		strings.Join(allowed, ", "), reply)

	raw, err := r.llm.Complete(ctx, positionInstruction, nil, message)
	if err != nil {
		r.logger.Debug("position resolution model call failed", zap.Error(err))
		return ""
	}

	var payload struct {
		Match      bool   `json:"match"`
		Normalized string `json:"normalized"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		r.logger.Debug("position resolution reply malformed", zap.Error(err))
		return ""
	}

	if !payload.Match {
		return ""
	}

	normalized := strings.TrimSpace(payload.Normalized)
	for _, name := range allowed {
		if strings.EqualFold(strings.TrimSpace(name), normalized) {
			return strings.TrimSpace(name)
		}
	}
	return ""
}

// Level maps the reply to one of the three seniority tiers, or 0 when
// unresolved. The model suggestion is validated by the same deterministic
// normalizer that serves as the local fallback.
func (r *Resolver) Level(ctx context.Context, reply string) int {
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return 0
	}

	if lv := r.levelByModel(ctx, reply); lv != 0 {
		return lv
	}

	return NormalizeLevel(reply)
}

func (r *Resolver) levelByModel(ctx context.Context, reply string) int {
	if r.llm == nil {
		return 0
	}

	message := fmt.Sprintf("Câu trả lời: %q. Trả về JSON theo yêu cầu.", reply)
	raw, err := r.llm.Complete(ctx, levelInstruction, nil, message)
	if err != nil {
		r.logger.Debug("level resolution model call failed", zap.Error(err))
		return 0
	}

	var payload struct {
		Level string `json:"level"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		r.logger.Debug("level resolution reply malformed", zap.Error(err))
		return 0
	}

	return NormalizeLevel(payload.Level)
}

// NormalizeLevel maps free text to a level: an exact number 1-3, or the
// spoken forms fresher/junior/senior (with jun/sen shorthands). Returns 0
// when nothing matches.
func NormalizeLevel(input string) int {
	s := textnorm.Canonicalize(input)
	if s == "" {
		return 0
	}

	if n, err := strconv.Atoi(s); err == nil && n >= LevelFresher && n <= LevelSenior {
		return n
	}

	switch {
	case fresherPattern.MatchString(s):
		return LevelFresher
	case juniorPattern.MatchString(s):
		return LevelJunior
	case seniorPattern.MatchString(s):
		return LevelSenior
	}
	return 0
}

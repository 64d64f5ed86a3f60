// Package contact turns one free-text reply into name, email and phone,
// combining a model-assisted parse with a deterministic regex fallback.
package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/textnorm"
)

// Info holds the contact fields collected during intake. Fields stay empty
// until resolved.
type Info struct {
	Name  string
	Email string
	Phone string
}

// Complete reports whether all three fields are populated.
func (i Info) Complete() bool {
	return i.Name != "" && i.Email != "" && i.Phone != ""
}

// Missing lists the human-readable names of the still-empty fields.
func (i Info) Missing() []string {
	var missing []string
	if i.Name == "" {
		missing = append(missing, "name")
	}
	if i.Email == "" {
		missing = append(missing, "email")
	}
	if i.Phone == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Merge fills the empty fields of base from update. Populated fields are
// never overwritten, so a field can only progress from empty to set.
func Merge(base, update Info) Info {
	if base.Name == "" {
		base.Name = update.Name
	}
	if base.Email == "" {
		base.Email = update.Email
	}
	if base.Phone == "" {
		base.Phone = update.Phone
	}
	return base
}

// ParseOutcome tags the result of the model-assisted parse so callers see
// the degrade path explicitly instead of a swallowed error.
type ParseOutcome int

const (
	// ParseOK means the model returned a well-formed contact object.
	ParseOK ParseOutcome = iota
	// ParseMalformed means the model reply could not be decoded.
	ParseMalformed
	// ParseUnavailable means the model call itself failed.
	ParseUnavailable
)

const extractorInstruction = `Bạn là bộ trích xuất liên hệ.
- Nhiệm vụ: từ văn bản tự do (tiếng Việt, có thể văn nói), trích xuất:
  name  = họ tên đầy đủ (không kèm từ 'tên', 'là', ...),
  email = địa chỉ email hợp lệ (nếu có),
  phone = số điện thoại dạng số (ưu tiên VN: +84xxxxxxxx hoặc 0xxxxxxxx).
- TRẢ VỀ JSON THUẦN: {"name":"...","email":"...","phone":"..."}
- Nếu trường nào không có, để chuỗi rỗng.
- Tuyệt đối không thêm giải thích.`

var (
	emailPattern        = regexp.MustCompile(`(?i)([A-Z0-9._%+\-]+@[A-Z0-9.\-]+\.[A-Z]{2,})`)
	vnPhonePattern      = regexp.MustCompile(`(\+?84\d{8,11}|0\d{8,11})`)
	genericPhonePattern = regexp.MustCompile(`(\+?\d{8,15})`)
	punctuationRun      = regexp.MustCompile(`[,:;|]+`)
	nonLetterRun        = regexp.MustCompile(`[^\p{L}\s]`)
	spaceRun            = regexp.MustCompile(`\s+`)
)

// Extractor resolves contact details from free text. The model path and
// the deterministic fallback both run on every call; the fallback only
// fills what the model left empty.
type Extractor struct {
	llm    ai.Completer
	logger *zap.Logger
}

// NewExtractor creates an Extractor. The completer may be nil, in which
// case only the deterministic fallback runs.
func NewExtractor(llm ai.Completer, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{llm: llm, logger: logger}
}

// Extract never fails: every model failure mode degrades to the regex
// fallback and the returned Info simply keeps unresolved fields empty.
func (e *Extractor) Extract(ctx context.Context, text string) Info {
	text = strings.TrimSpace(text)
	if text == "" {
		return Info{}
	}

	info, outcome := e.extractByModel(ctx, text)
	if outcome != ParseOK {
		e.logger.Debug("model contact extraction degraded to fallback",
			zap.Int("outcome", int(outcome)),
		)
	}

	return Merge(info, ExtractFallback(text))
}

func (e *Extractor) extractByModel(ctx context.Context, text string) (Info, ParseOutcome) {
	if e.llm == nil {
		return Info{}, ParseUnavailable
	}

	message := fmt.Sprintf("Văn bản: %q. Hãy trả về đúng JSON nói trên.", text)
	raw, err := e.llm.Complete(ctx, extractorInstruction, nil, message)
	if err != nil {
		return Info{}, ParseUnavailable
	}

	var payload struct {
		Name  string `json:"name"`
		Email string `json:"email"`
		Phone string `json:"phone"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Info{}, ParseMalformed
	}

	return Info{
		Name:  CleanName(payload.Name),
		Email: cleanEmail(payload.Email),
		Phone: cleanPhone(payload.Phone),
	}, ParseOK
}

// ExtractFallback is the deterministic path: email and phone by regex,
// name by delimiter segmentation with label stripping.
func ExtractFallback(text string) Info {
	if strings.TrimSpace(text) == "" {
		return Info{}
	}

	var info Info

	if m := emailPattern.FindStringSubmatch(text); m != nil {
		info.Email = strings.TrimSpace(m[1])
	}

	normalized := strings.NewReplacer(" ", "", "-", "").Replace(text)
	if m := vnPhonePattern.FindStringSubmatch(normalized); m != nil {
		info.Phone = m[1]
	} else if m := genericPhonePattern.FindStringSubmatch(normalized); m != nil {
		info.Phone = m[1]
	}

	info.Name = extractName(text, info.Email, info.Phone)

	return info
}

// nameStopwords are label words stripped from name segments, compared on
// the canonicalized form so "Tên", "tên" and "ten" all match.
var nameStopwords = map[string]bool{
	"ten":  true,
	"ho":   true,
	"name": true,
	"la":   true,
}

func extractName(text, foundEmail, foundPhone string) string {
	segments := splitSegments(text)
	if len(segments) == 0 {
		return ""
	}

	segment := segments[0]
	for _, s := range segments {
		if segmentMentionsName(s) {
			segment = s
			break
		}
	}

	if foundEmail != "" {
		segment = removeInsensitive(segment, foundEmail)
	}
	if foundPhone != "" {
		segment = removeInsensitive(segment, foundPhone)
	}

	return CleanName(segment)
}

func splitSegments(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == '|' || r == '\n'
	})

	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}

// removeInsensitive deletes every case-insensitive occurrence of substr
// from s. The match is located rune-wise in s itself: lowercasing a copy
// first would desync byte offsets for case pairs of different lengths
// (İ vs i) and cut the string mid-rune.
func removeInsensitive(s, substr string) string {
	if substr == "" {
		return s
	}
	for {
		start, end := indexFold(s, substr)
		if start < 0 {
			return s
		}
		s = s[:start] + s[end:]
	}
}

// indexFold returns the byte range in s of the first case-insensitive
// occurrence of substr, or (-1, -1) when absent.
func indexFold(s, substr string) (int, int) {
	want := []rune(substr)
	if len(want) == 0 {
		return -1, -1
	}

	for i := 0; i < len(s); {
		j, matched := i, 0
		for matched < len(want) {
			r, size := utf8.DecodeRuneInString(s[j:])
			if size == 0 || unicode.ToLower(r) != unicode.ToLower(want[matched]) {
				break
			}
			j += size
			matched++
		}
		if matched == len(want) {
			return i, j
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return -1, -1
}

func segmentMentionsName(s string) bool {
	for _, word := range strings.Fields(textnorm.Canonicalize(s)) {
		if word == "ten" || word == "name" {
			return true
		}
	}
	return false
}

// CleanName strips label words, punctuation and anything that is not a
// letter or space, rejecting results shorter than two characters.
// Diacritics are preserved since they are part of the name itself.
func CleanName(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}

	x := punctuationRun.ReplaceAllString(strings.TrimSpace(s), " ")
	x = nonLetterRun.ReplaceAllString(x, " ")
	x = spaceRun.ReplaceAllString(x, " ")

	kept := make([]string, 0, 8)
	for _, word := range strings.Fields(x) {
		if nameStopwords[textnorm.Canonicalize(word)] {
			continue
		}
		kept = append(kept, word)
	}

	result := strings.Join(kept, " ")
	if len([]rune(result)) < 2 {
		return ""
	}
	return result
}

func cleanEmail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if m := emailPattern.FindString(s); m == s {
		return s
	}
	return ""
}

func cleanPhone(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	x := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(s))
	if m := vnPhonePattern.FindString(x); m == x {
		return x
	}
	if m := genericPhonePattern.FindString(x); m == x {
		return x
	}
	return ""
}

package contact

import (
	"context"
	"errors"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
)

type stubCompleter struct {
	response string
	err      error
	calls    int
}

func (s *stubCompleter) Complete(_ context.Context, _ string, _ []ai.Turn, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestExtractFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect Info
	}{
		{
			name:  "comma separated full reply",
			input: "Nguyen Van A, email a@x.com, sdt 0901234567",
			expect: Info{
				Name:  "Nguyen Van A",
				Email: "a@x.com",
				Phone: "0901234567",
			},
		},
		{
			name:  "name segment selected by keyword",
			input: "liên hệ 0912345678; tên mình là Trần Thị B; b@y.vn",
			expect: Info{
				Name:  "mình Trần Thị B",
				Email: "b@y.vn",
				Phone: "0912345678",
			},
		},
		{
			name:  "international phone with spaces",
			input: "Le Van C | c@z.io | +84 90 123 4567",
			expect: Info{
				Name:  "Le Van C",
				Email: "c@z.io",
				Phone: "+84901234567",
			},
		},
		{
			name:   "empty input",
			input:  "   ",
			expect: Info{},
		},
		{
			name:  "email only",
			input: "d@corp.example.com",
			expect: Info{
				Email: "d@corp.example.com",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := ExtractFallback(tt.input)
			assert.Equal(t, tt.expect.Name, got.Name, "name")
			assert.Equal(t, tt.expect.Email, got.Email, "email")
			assert.Equal(t, tt.expect.Phone, got.Phone, "phone")
		})
	}
}

func TestMergeIsLeftBiased(t *testing.T) {
	t.Parallel()

	base := Info{Name: "Nguyen Van A", Email: "a@x.com"}
	update := Info{Name: "Someone Else", Email: "other@x.com", Phone: "0901234567"}

	merged := Merge(base, update)
	assert.Equal(t, "Nguyen Van A", merged.Name)
	assert.Equal(t, "a@x.com", merged.Email)
	assert.Equal(t, "0901234567", merged.Phone)

	// A populated field never regresses to empty.
	again := Merge(merged, Info{})
	assert.Equal(t, merged, again)
}

func TestExtractUsesModelFirst(t *testing.T) {
	t.Parallel()

	llm := &stubCompleter{response: `{"name":"Phạm Văn D","email":"d@x.com","phone":"0987654321"}`}
	e := NewExtractor(llm, nil)

	got := e.Extract(context.Background(), "mình là Phạm Văn D, d@x.com, 0987654321")
	require.Equal(t, 1, llm.calls)
	assert.Equal(t, "Phạm Văn D", got.Name)
	assert.Equal(t, "d@x.com", got.Email)
	assert.Equal(t, "0987654321", got.Phone)
}

func TestExtractDegradesOnMalformedModelReply(t *testing.T) {
	t.Parallel()

	llm := &stubCompleter{response: "I could not find any contact details, sorry!"}
	e := NewExtractor(llm, nil)

	got := e.Extract(context.Background(), "Nguyen Van A, a@x.com, 0901234567")
	assert.Equal(t, "Nguyen Van A", got.Name)
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "0901234567", got.Phone)
}

func TestExtractDegradesOnModelError(t *testing.T) {
	t.Parallel()

	llm := &stubCompleter{err: errors.New("transport down")}
	e := NewExtractor(llm, nil)

	got := e.Extract(context.Background(), "Nguyen Van A, a@x.com, 0901234567")
	assert.Equal(t, "a@x.com", got.Email)
	assert.Equal(t, "0901234567", got.Phone)
}

func TestExtractWithoutModel(t *testing.T) {
	t.Parallel()

	e := NewExtractor(nil, nil)
	got := e.Extract(context.Background(), "Nguyen Van A, a@x.com, 0901234567")
	assert.True(t, got.Complete())
}

func TestInfoMissing(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"name", "email", "phone"}, Info{}.Missing())
	assert.Nil(t, Info{Name: "a b", Email: "a@x.com", Phone: "0901234567"}.Missing())
	assert.Equal(t, []string{"phone"}, Info{Name: "a b", Email: "a@x.com"}.Missing())
}

func TestCleanName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input  string
		expect string
	}{
		{"tên là Nguyễn Văn A", "Nguyễn Văn A"},
		{"Nguyen Van A.", "Nguyen Van A"},
		{"  A ", ""},
		{"", ""},
		{"name: John Smith", "John Smith"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, CleanName(tt.input), "input %q", tt.input)
	}
}

func TestRemoveInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		remove string
		expect string
	}{
		{
			name:   "mixed case occurrence",
			input:  "liên hệ A@X.COM nhé",
			remove: "a@x.com",
			expect: "liên hệ  nhé",
		},
		{
			name:   "repeated occurrences",
			input:  "a@x.com rồi a@x.com",
			remove: "a@x.com",
			expect: " rồi ",
		},
		{
			name:   "length changing case pair before match",
			input:  "İ tên Nguyen Van A a@x.com",
			remove: "a@x.com",
			expect: "İ tên Nguyen Van A ",
		},
		{
			name:   "absent substring",
			input:  "không có gì để xoá",
			remove: "a@x.com",
			expect: "không có gì để xoá",
		},
		{
			name:   "empty substring",
			input:  "giữ nguyên",
			remove: "",
			expect: "giữ nguyên",
		},
	}

	for _, tt := range tests {
		got := removeInsensitive(tt.input, tt.remove)
		assert.Equal(t, tt.expect, got, tt.name)
		assert.True(t, utf8.ValidString(got), tt.name)
	}
}

package interview

import "github.com/tttiuem2k3/Agent-Interview/internal/ai"

// transcript is the append-only conversation log owned by a single run.
// Collaborators only ever see copies, never a mutable handle.
type transcript struct {
	turns []ai.Turn
}

func (t *transcript) add(role, text string) {
	if text == "" {
		return
	}
	t.turns = append(t.turns, ai.Turn{Role: role, Text: text})
}

// view returns an immutable snapshot of the transcript for use as model
// context.
func (t *transcript) view() []ai.Turn {
	out := make([]ai.Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

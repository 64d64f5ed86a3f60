package interview

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tttiuem2k3/Agent-Interview/internal/ai"
	"github.com/tttiuem2k3/Agent-Interview/internal/contact"
	"github.com/tttiuem2k3/Agent-Interview/internal/notify"
	"github.com/tttiuem2k3/Agent-Interview/internal/textnorm"
)

// Config holds the tunable interview parameters. Zero values fall back
// to the defaults below.
type Config struct {
	// PassThreshold is the minimum percentage for a Pass result.
	PassThreshold float64
	// MaxQuestions caps the number of questions per session.
	MaxQuestions int
	// ContactRetryLimit bounds the clarification rounds during intake.
	ContactRetryLimit int
	// SelectionAttempts bounds position and level selection (ask plus
	// re-asks).
	SelectionAttempts int
}

const (
	defaultPassThreshold     = 60.0
	defaultMaxQuestions      = 6
	defaultContactRetryLimit = 5
	defaultSelectionAttempts = 2
)

func (c Config) withDefaults() Config {
	if c.PassThreshold <= 0 {
		c.PassThreshold = defaultPassThreshold
	}
	if c.MaxQuestions <= 0 {
		c.MaxQuestions = defaultMaxQuestions
	}
	if c.ContactRetryLimit <= 0 {
		c.ContactRetryLimit = defaultContactRetryLimit
	}
	if c.SelectionAttempts <= 0 {
		c.SelectionAttempts = defaultSelectionAttempts
	}
	return c
}

// Orchestrator drives one interview session end to end: intake,
// position and level selection, the question loop, summary and outcome
// routing. It owns the conversation transcript for the run.
type Orchestrator struct {
	cfg      Config
	deps     Deps
	log      *zap.Logger
	dialogue transcript
	now      func() time.Time
}

// New validates the collaborators and builds an Orchestrator.
func New(cfg Config, deps Deps) (*Orchestrator, error) {
	switch {
	case deps.LLM == nil:
		return nil, errors.New("interview: completer is required")
	case deps.Store == nil:
		return nil, errors.New("interview: store is required")
	case deps.Contacts == nil:
		return nil, errors.New("interview: contact extractor is required")
	case deps.Resolver == nil:
		return nil, errors.New("interview: entity resolver is required")
	case deps.Scorer == nil:
		return nil, errors.New("interview: scorer is required")
	case deps.Reviewers == nil:
		return nil, errors.New("interview: reviewer finder is required")
	case deps.Scheduler == nil:
		return nil, errors.New("interview: scheduler is required")
	case deps.Notifier == nil:
		return nil, errors.New("interview: notifier is required")
	case deps.Console == nil:
		return nil, errors.New("interview: console is required")
	}

	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &Orchestrator{
		cfg:  cfg.withDefaults(),
		deps: deps,
		log:  deps.Logger,
		now:  time.Now,
	}, nil
}

// Run executes the full dialogue. A nil return means the session ended
// on a terminal message to the candidate, including the polite abort
// paths. A non-nil error means a collaborator failed mid-session.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.say(msgBanner)

	intro, err := o.askModel(ctx, reqIntro)
	if err != nil {
		return o.modelDown(err)
	}
	o.say(intro)

	info, ok, err := o.collectContact(ctx)
	if err != nil {
		return err
	}
	if !ok {
		o.say(msgContactGiveUp)
		return nil
	}

	names, err := o.deps.Store.ActivePositionNames(ctx)
	if err != nil {
		return fmt.Errorf("load open positions: %w", err)
	}
	if len(names) == 0 {
		o.say(msgNoPositions)
		return nil
	}
	o.say(renderPositionList(names))

	posName, ok, err := resolveWithRetry(ctx, o, reqAskPosition, reqReaskPosition,
		func(ctx context.Context, reply string) (string, bool) {
			name := o.deps.Resolver.Position(ctx, reply, names)
			return name, name != ""
		})
	if err != nil {
		return err
	}
	if !ok {
		o.say(msgPositionGiveUp)
		return nil
	}

	level, ok, err := resolveWithRetry(ctx, o, reqAskLevel, reqReaskLevel,
		func(ctx context.Context, reply string) (int, bool) {
			lvl := o.deps.Resolver.Level(ctx, reply)
			return lvl, lvl != 0
		})
	if err != nil {
		return err
	}
	if !ok {
		o.say(msgLevelGiveUp)
		return nil
	}

	pos, err := o.lookupPosition(ctx, posName)
	if err != nil {
		return err
	}
	if pos == nil {
		o.say(msgPositionGiveUp)
		return nil
	}

	candidateID, err := o.deps.Store.UpsertCandidate(ctx, Candidate{
		FullName: info.Name,
		Email:    info.Email,
		Phone:    info.Phone,
	})
	if err != nil {
		return fmt.Errorf("upsert candidate: %w", err)
	}
	o.log.Info("candidate registered",
		zap.Int64("candidate_id", candidateID),
		zap.String("position", pos.Name),
		zap.Int("level", level),
	)

	roleIntro, err := o.askModel(ctx, fmt.Sprintf(reqPositionIntroFmt, pos.Name, pos.Description, pos.RequiredSkillsCSV))
	if err != nil {
		return o.modelDown(err)
	}
	o.say(roleIntro)

	outcome, done, err := o.runQuestions(ctx, candidateID, pos.ID, level)
	if err != nil {
		return err
	}
	if !done {
		return nil
	}

	closing, err := o.askModel(ctx, fmt.Sprintf(reqClosingFmt, formatScore(outcome.Percentage), resultLabel(outcome.Result)))
	if err != nil {
		return o.modelDown(err)
	}
	o.say(closing)

	return o.routeOutcome(ctx, outcome, info, candidateID, pos)
}

// collectContact runs the intake: one open question, then bounded
// clarification rounds that only ever ask for the fields still missing.
// The accumulated Info is returned even when intake gives up, so logs
// keep the partial state.
func (o *Orchestrator) collectContact(ctx context.Context) (contact.Info, bool, error) {
	ask, err := o.askModel(ctx, reqContactIntake)
	if err != nil {
		return contact.Info{}, false, o.modelDown(err)
	}
	o.say(ask)

	reply, err := o.hear()
	if err != nil {
		return contact.Info{}, false, err
	}
	info := o.deps.Contacts.Extract(ctx, reply)

	for round := 0; round < o.cfg.ContactRetryLimit && !info.Complete(); round++ {
		for _, field := range info.Missing() {
			if !missingField(info, field) {
				continue
			}

			ask, err := o.askModel(ctx, clarifyRequest(field))
			if err != nil {
				return info, false, o.modelDown(err)
			}
			o.say(ask)

			reply, err := o.hear()
			if err != nil {
				return info, false, err
			}
			info = contact.Merge(info, o.deps.Contacts.Extract(ctx, reply))
		}
	}

	return info, info.Complete(), nil
}

func clarifyRequest(field string) string {
	switch field {
	case "email":
		return reqClarifyEmail
	case "phone":
		return reqClarifyPhone
	default:
		return reqClarifyName
	}
}

// missingField re-checks a field against the merged state, since one
// clarification reply may have filled several fields at once.
func missingField(i contact.Info, field string) bool {
	switch field {
	case "email":
		return i.Email == ""
	case "phone":
		return i.Phone == ""
	default:
		return i.Name == ""
	}
}

// resolveWithRetry is the shared ask-then-re-ask loop for position and
// level selection. The second return value is false when every attempt
// stayed unresolved.
func resolveWithRetry[T any](
	ctx context.Context,
	o *Orchestrator,
	firstReq, retryReq string,
	resolve func(context.Context, string) (T, bool),
) (T, bool, error) {
	var zero T

	for attempt := 0; attempt < o.cfg.SelectionAttempts; attempt++ {
		req := firstReq
		if attempt > 0 {
			req = retryReq
		}

		ask, err := o.askModel(ctx, req)
		if err != nil {
			return zero, false, o.modelDown(err)
		}
		o.say(ask)

		reply, err := o.hear()
		if err != nil {
			return zero, false, err
		}
		if v, ok := resolve(ctx, reply); ok {
			return v, true, nil
		}
	}

	return zero, false, nil
}

// lookupPosition maps the resolved name back onto its stored record by
// canonical comparison. A nil result means the name has no record, for
// example when the position was closed mid-session.
func (o *Orchestrator) lookupPosition(ctx context.Context, name string) (*Position, error) {
	all, err := o.deps.Store.AllPositions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load positions: %w", err)
	}

	want := textnorm.Canonicalize(name)
	for i := range all {
		if textnorm.Canonicalize(all[i].Name) == want {
			return &all[i], nil
		}
	}

	// The record may spell the name slightly differently than the open
	// list the candidate chose from.
	names := make([]string, len(all))
	for i := range all {
		names[i] = all[i].Name
	}
	if best := textnorm.BestMatch(name, names); best != "" {
		for i := range all {
			if all[i].Name == best {
				return &all[i], nil
			}
		}
	}
	return nil, nil
}

// runQuestions drives the scored question loop for one session. The
// second return value is false when there is no question bank and the
// session ended early on a terminal message.
func (o *Orchestrator) runQuestions(ctx context.Context, candidateID, positionID int64, level int) (Outcome, bool, error) {
	qs, err := o.deps.Store.QuestionsFor(ctx, positionID, level, o.cfg.MaxQuestions)
	if err != nil {
		return Outcome{}, false, fmt.Errorf("load questions: %w", err)
	}
	if len(qs) == 0 {
		o.say(msgNoQuestions)
		return Outcome{}, false, nil
	}

	sessionID, err := o.deps.Store.CreateSession(ctx, Session{
		CandidateID: candidateID,
		PositionID:  positionID,
		Level:       level,
		Result:      ResultNone,
		CreatedAt:   o.now(),
	})
	if err != nil {
		return Outcome{}, false, fmt.Errorf("create session: %w", err)
	}

	var earned, possible float64
	for _, q := range qs {
		// Zero-weight questions still count one point of denominator,
		// matching the per-question floor used at scoring time.
		possible += max(1, q.Weight)

		ask, err := o.askModel(ctx, fmt.Sprintf(reqAskQuestionFmt, q.Text))
		if err != nil {
			return Outcome{}, false, o.modelDown(err)
		}
		o.say(ask)

		answer, err := o.hear()
		if err != nil {
			return Outcome{}, false, err
		}

		score, comment := o.deps.Scorer.Score(ctx, answer, q)
		earned += score

		if err := o.deps.Store.InsertAnswer(ctx, Answer{
			SessionID:  sessionID,
			QuestionID: q.ID,
			Content:    answer,
			Score:      score,
			Comment:    comment + " | Gợi ý: " + q.ModelAnswer,
			CreatedAt:  o.now(),
		}); err != nil {
			return Outcome{}, false, fmt.Errorf("persist answer: %w", err)
		}

		feedback, err := o.askModel(ctx, fmt.Sprintf(reqFeedbackFmt, comment))
		if err != nil {
			return Outcome{}, false, o.modelDown(err)
		}
		o.say(msgFeedbackPrefix + feedback)

		o.log.Debug("answer scored",
			zap.Int64("question_id", q.ID),
			zap.Float64("score", score),
			zap.Float64("weight", q.Weight),
		)
	}

	var percentage float64
	if possible > 0 {
		percentage = round2(earned * 100 / possible)
	}
	result := ResultFail
	if percentage >= o.cfg.PassThreshold {
		result = ResultPass
	}

	if err := o.deps.Store.FinalizeSession(ctx, sessionID, percentage, result); err != nil {
		return Outcome{}, false, fmt.Errorf("finalize session: %w", err)
	}
	o.log.Info("session finished",
		zap.Int64("session_id", sessionID),
		zap.Float64("percentage", percentage),
		zap.String("result", string(result)),
	)

	return Outcome{Percentage: percentage, Result: result}, true, nil
}

// routeOutcome handles the post-summary branch: scheduling plus both
// invitations on a pass, an encouraging close on a fail. Invitation
// delivery failures abort the run, the session itself is already
// finalized by then.
func (o *Orchestrator) routeOutcome(ctx context.Context, outcome Outcome, info contact.Info, candidateID int64, pos *Position) error {
	if outcome.Result != ResultPass {
		o.say(msgFailClose)
		return nil
	}

	rev, err := o.deps.Reviewers.FindReviewer(ctx, pos.ID)
	if err != nil {
		return fmt.Errorf("find reviewer: %w", err)
	}
	if rev == nil {
		o.say(msgNoReviewer)
		return nil
	}

	sched, err := o.deps.Scheduler.CreateNextRound(ctx, candidateID, rev.ID, pos.ID)
	if err != nil {
		return fmt.Errorf("schedule next round: %w", err)
	}

	details := notify.Details{
		CandidateName:  info.Name,
		CandidateEmail: info.Email,
		CandidatePhone: info.Phone,
		ReviewerName:   rev.FullName,
		ReviewerEmail:  rev.Email,
		PositionName:   pos.Name,
		StartTime:      sched.StartTime,
	}
	for _, inv := range []notify.Invitation{
		notify.CandidateInvitation(details),
		notify.ReviewerInvitation(details),
	} {
		if err := o.deps.Notifier.Send(ctx, inv.To, inv.Subject, inv.Body); err != nil {
			return fmt.Errorf("send invitation to %s: %w", inv.To, err)
		}
	}

	o.say(fmt.Sprintf(msgScheduledFmt, rev.FullName, info.Email))
	return nil
}

// askModel sends one request to the model on top of the spoken
// transcript, records the reply as an assistant turn and applies the
// inter-call throttle. Internal requests are not recorded, only what
// the candidate actually hears.
func (o *Orchestrator) askModel(ctx context.Context, request string) (string, error) {
	reply, err := o.deps.LLM.Complete(ctx, personaInstruction, o.dialogue.view(), request)
	if err != nil {
		return "", err
	}

	reply = strings.TrimSpace(reply)
	o.dialogue.add(ai.RoleAssistant, reply)
	return reply, nil
}

func (o *Orchestrator) hear() (string, error) {
	reply, err := o.deps.Console.Read()
	if err != nil {
		return "", fmt.Errorf("read candidate reply: %w", err)
	}
	o.dialogue.add(ai.RoleUser, reply)
	return reply, nil
}

func (o *Orchestrator) say(text string) {
	o.deps.Console.Say(text)
}

// modelDown tells the candidate the session cannot continue before
// surfacing the underlying failure to the caller.
func (o *Orchestrator) modelDown(err error) error {
	o.say(msgModelTrouble)
	return fmt.Errorf("model call failed: %w", err)
}

func renderPositionList(names []string) string {
	var b strings.Builder
	b.WriteString(msgPositionsHeader)
	for i, n := range names {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, n)
	}
	return b.String()
}

func formatScore(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

func resultLabel(r Result) string {
	if r == ResultPass {
		return "ĐẠT"
	}
	return "CHƯA ĐẠT"
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

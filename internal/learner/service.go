package learner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/skillpilot/internal/content"
	"github.com/abhisek/skillpilot/internal/persona"
	"github.com/abhisek/skillpilot/internal/program"
	"github.com/abhisek/skillpilot/internal/skillgraph"
	"github.com/abhisek/skillpilot/internal/store"
)

// Service composes the classifier, the skill graph engine and the program
// state machine over a content catalog. Every operation returns a new profile
// and leaves its input untouched. Profiles are saved only when persist is
// true and the profile is not a preview.
type Service struct {
	catalog  *content.Catalog
	table    persona.Table
	profiles store.ProfileRepo
	events   store.EventRepo
	machine  *program.Machine
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService creates a learner service. profiles, events and reviewer may be
// nil: without a profile repo nothing is persisted, without an event repo no
// events are logged, and without a reviewer week submissions fail with
// ErrNoReviewer.
func NewService(catalog *content.Catalog, profiles store.ProfileRepo, events store.EventRepo, reviewer program.Reviewer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		catalog:  catalog,
		table:    persona.DefaultTable(),
		profiles: profiles,
		events:   events,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	if reviewer != nil {
		s.machine = program.NewMachine(reviewer, logger)
	}
	return s
}

// Catalog returns the content catalog the service reads from.
func (s *Service) Catalog() *content.Catalog { return s.catalog }

// Load fetches a saved profile.
func (s *Service) Load(ctx context.Context, userID string) (*Profile, error) {
	if s.profiles == nil {
		return nil, ErrProfileNotFound
	}
	rec, err := s.profiles.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, userID)
	}
	var p Profile
	if err := json.Unmarshal(rec.Data, &p); err != nil {
		return nil, fmt.Errorf("decode profile %s: %w", userID, err)
	}
	return &p, nil
}

// Nodes returns the learner's view of the active skill tree.
func (s *Service) Nodes(p *Profile) ([]skillgraph.Node, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	tree, err := s.tree(p.SkillTreeID)
	if err != nil {
		return nil, err
	}
	return tree.WithStatuses(p.SkillStatuses), nil
}

// Onboard classifies the intake and creates a profile with statuses computed
// for the selected skill tree. An empty userID gets a generated one.
func (s *Service) Onboard(ctx context.Context, userID string, in persona.Intake, isAdmin, persist bool) (*Profile, error) {
	if userID == "" {
		userID = s.newID()
	}
	if persist && s.profiles != nil {
		existing, err := s.profiles.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, fmt.Errorf("%w: %s", ErrProfileExists, userID)
		}
	}

	now := s.now().UTC()
	p := &Profile{
		UserID:         userID,
		Intake:         in,
		IsAdmin:        isAdmin,
		Result:         s.table.Classify(in),
		MasteryScore:   InitialMastery,
		VerifiedSkills: []string{},
		Artifacts:      []Artifact{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.resetStatuses(p); err != nil {
		return nil, err
	}

	if err := s.commit(ctx, p, persist, store.ProgressEventData{Kind: store.KindOnboarded, RefID: p.SkillTreeID}); err != nil {
		return nil, err
	}
	s.logger.Info("learner onboarded",
		"user", p.UserID,
		"domain", p.Domain,
		"persona", p.PrimaryPersona,
		"tree", p.SkillTreeID,
		"program", p.ProgramID,
	)
	return p, nil
}

// Reclassify re-runs the classifier on edited intake answers. Mastery,
// verified skills, artifacts and program progress carry over. When the tree
// or domain changes, statuses are rebuilt from the new template and the
// verified skills are replayed onto it.
func (s *Service) Reclassify(ctx context.Context, p *Profile, in persona.Intake, persist bool) (*Profile, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	out := p.Clone()
	out.Intake = in
	out.Result = s.table.Classify(in)

	if out.SkillTreeID != p.SkillTreeID || out.Domain != p.Domain {
		if err := s.resetStatuses(out); err != nil {
			return nil, err
		}
	} else if err := s.recompute(out); err != nil {
		return nil, err
	}
	out.UpdatedAt = s.now().UTC()

	ev := store.ProgressEventData{
		Kind:   store.KindReclassified,
		RefID:  out.SkillTreeID,
		Detail: fmt.Sprintf("%s/%s -> %s/%s", p.Domain, p.PrimaryPersona, out.Domain, out.PrimaryPersona),
	}
	if err := s.commit(ctx, out, persist, ev); err != nil {
		return nil, err
	}
	return out, nil
}

// Recompute re-runs the graph state engine with the profile's current
// mastery and domain.
func (s *Service) Recompute(ctx context.Context, p *Profile, persist bool) (*Profile, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	out := p.Clone()
	if err := s.recompute(out); err != nil {
		return nil, err
	}
	out.UpdatedAt = s.now().UTC()
	if err := s.commit(ctx, out, persist, store.ProgressEventData{}); err != nil {
		return nil, err
	}
	return out, nil
}

// SetMastery overrides the mastery score (clamped to [0,100]) and re-runs
// the graph state engine.
func (s *Service) SetMastery(ctx context.Context, p *Profile, score int, persist bool) (*Profile, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	out := p.Clone()
	out.MasteryScore = clampMastery(score)
	if err := s.recompute(out); err != nil {
		return nil, err
	}
	out.UpdatedAt = s.now().UTC()
	if err := s.commit(ctx, out, persist, store.ProgressEventData{}); err != nil {
		return nil, err
	}
	return out, nil
}

// SetAdmin switches the admin override. Admins see every node of their tree
// UNLOCKED; switching back rebuilds the learner's gated view from verified
// skills and mastery.
func (s *Service) SetAdmin(ctx context.Context, p *Profile, isAdmin bool, persist bool) (*Profile, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	out := p.Clone()
	out.IsAdmin = isAdmin
	if err := s.resetStatuses(out); err != nil {
		return nil, err
	}
	out.UpdatedAt = s.now().UTC()

	ev := store.ProgressEventData{Kind: store.KindAdminChanged, Detail: fmt.Sprintf("isAdmin=%t", isAdmin)}
	if err := s.commit(ctx, out, persist, ev); err != nil {
		return nil, err
	}
	s.logger.Info("admin override changed", "user", out.UserID, "admin", isAdmin)
	return out, nil
}

// Completion is the outcome of completing a use case.
type Completion struct {
	Profile       *Profile `json:"profile"`
	Artifact      Artifact `json:"artifact"`
	NewlyVerified []string `json:"newlyVerified"`
	NewlyUnlocked []string `json:"newlyUnlocked"`
	MasteryBefore int      `json:"masteryBefore"`
}

// CompleteUseCase marks the use case's required skills completed, unlocks
// their direct dependents, adds delta to mastery, re-runs the graph state
// engine and records an artifact. Use cases tagged for another domain are
// rejected with ErrOutOfDomain unless the learner is an admin. Nothing
// changes on error.
func (s *Service) CompleteUseCase(ctx context.Context, p *Profile, useCaseID string, delta int, persist bool) (*Completion, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	uc, ok := s.catalog.UseCase(useCaseID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUseCase, useCaseID)
	}
	if !p.IsAdmin && !skillgraph.InDomain(uc.Domain, p.Domain) {
		return nil, fmt.Errorf("%w: %s is %s, learner is %s", ErrOutOfDomain, uc.ID, uc.Domain, p.Domain)
	}
	tree, err := s.tree(p.SkillTreeID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	out := p.Clone()

	before := tree.WithStatuses(p.SkillStatuses)
	nodes := skillgraph.CompleteUseCase(before, uc.RequiredSkills)
	var verified []string
	for _, id := range uc.RequiredSkills {
		if !p.HasVerified(id) && !slices.Contains(verified, id) {
			verified = append(verified, id)
		}
	}
	out.VerifiedSkills = unionSorted(out.VerifiedSkills, uc.RequiredSkills)
	out.MasteryScore = clampMastery(p.MasteryScore + delta)
	nodes = settle(out, nodes)

	art := Artifact{
		ID:         s.newID(),
		Title:      uc.Title,
		Type:       ArtifactType,
		UseCaseID:  uc.ID,
		PreviewURL: uc.PreviewURL,
		CreatedAt:  now,
	}
	out.Artifacts = append([]Artifact{art}, out.Artifacts...)
	out.UpdatedAt = now

	ev := store.ProgressEventData{
		Kind:          store.KindUseCaseCompleted,
		RefID:         uc.ID,
		MasteryBefore: p.MasteryScore,
		MasteryAfter:  out.MasteryScore,
	}
	if err := s.commit(ctx, out, persist, ev); err != nil {
		return nil, err
	}

	unlocked := skillgraph.NewlyUnlocked(before, nodes)
	s.logger.Info("use case completed",
		"user", out.UserID,
		"use_case", uc.ID,
		"mastery", out.MasteryScore,
		"unlocked", len(unlocked),
	)
	return &Completion{
		Profile:       out,
		Artifact:      art,
		NewlyVerified: verified,
		NewlyUnlocked: unlocked,
		MasteryBefore: p.MasteryScore,
	}, nil
}

// StartProgram initializes progress for the profile's active program. It is
// a no-op when that program is already started.
func (s *Service) StartProgram(ctx context.Context, p *Profile, persist bool) (*Profile, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	if p.ProgramProgress != nil {
		if p.ProgramProgress.ProgramID == p.ProgramID {
			return p.Clone(), nil
		}
		return nil, fmt.Errorf("%w: %s", ErrProgramActive, p.ProgramProgress.ProgramID)
	}
	prog, ok := s.catalog.Program(p.ProgramID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoProgram, p.ProgramID)
	}

	now := s.now().UTC()
	out := p.Clone()
	out.ProgramProgress = program.NewProgress(prog, now)
	out.UpdatedAt = now

	if err := s.commit(ctx, out, persist, store.ProgressEventData{Kind: store.KindProgramStarted, RefID: prog.ID}); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitWeek records a week submission and requests a review. On a reviewer
// failure the returned profile holds the week at submitted together with a
// *program.ReviewError; it is persisted so the review can be resumed.
func (s *Service) SubmitWeek(ctx context.Context, p *Profile, weekNo int, text string, attachments []string, persist bool) (*Profile, error) {
	prog, err := s.journey(p)
	if err != nil {
		return nil, err
	}
	next, reviewErr := s.machine.SubmitForReview(program.WithLearner(ctx, p.UserID), p.ProgramProgress, prog, weekNo, text, attachments)
	if next == nil {
		return nil, reviewErr
	}
	s.appendEvent(ctx, p, persist, store.ProgressEventData{Kind: store.KindWeekSubmitted, RefID: prog.ID, WeekNo: &weekNo})
	return s.finishReview(ctx, p, next, prog.ID, weekNo, reviewErr, persist)
}

// ResumeReview re-requests the review of a week left at submitted.
func (s *Service) ResumeReview(ctx context.Context, p *Profile, weekNo int, persist bool) (*Profile, error) {
	prog, err := s.journey(p)
	if err != nil {
		return nil, err
	}
	next, reviewErr := s.machine.ResumeReview(program.WithLearner(ctx, p.UserID), p.ProgramProgress, prog, weekNo)
	if next == nil {
		return nil, reviewErr
	}
	return s.finishReview(ctx, p, next, prog.ID, weekNo, reviewErr, persist)
}

// Preview builds an in-memory profile for an admin to inspect a variant.
// It is never persisted.
func (s *Service) Preview(d skillgraph.Domain, pr persona.Persona) (*Profile, error) {
	if d != skillgraph.DomainOps && d != skillgraph.DomainMarketing {
		return nil, fmt.Errorf("%w: domain must be ops or marketing, got %q", ErrInvalidPreview, d)
	}
	var secondary persona.Persona
	found := false
	for _, c := range persona.Candidates(d) {
		if c.Persona == pr {
			found = true
		} else {
			secondary = c.Persona
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: persona %q does not belong to domain %q", ErrInvalidPreview, pr, d)
	}

	v := s.table.Lookup(d, pr)
	now := s.now().UTC()
	p := &Profile{
		UserID: "preview-" + string(d) + "-" + string(pr),
		Result: persona.Result{
			Track:             persona.TrackAnalyst,
			Domain:            d,
			PrimaryPersona:    pr,
			SecondaryPersona:  secondary,
			SkillTreeID:       v.SkillTreeID,
			ProgramID:         v.ProgramID,
			StartingUseCaseID: s.table.StartingUseCase(d),
		},
		MasteryScore:   InitialMastery,
		VerifiedSkills: []string{},
		Artifacts:      []Artifact{},
		Preview:        true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.resetStatuses(p); err != nil {
		return nil, err
	}
	if prog, ok := s.catalog.Program(p.ProgramID); ok {
		p.ProgramProgress = program.NewProgress(prog, now)
	}
	return p, nil
}

// PreviewSubmit submits a week on a fresh preview profile. Nothing is
// persisted.
//
// If the target week is LOCKED it is set to UNLOCKED before submitting, so
// an operator can exercise any week's review without walking the earlier
// ones. This override exists only here: SubmitWeek on a learner profile
// rejects a locked week with program.ErrWeekLocked.
func (s *Service) PreviewSubmit(ctx context.Context, d skillgraph.Domain, pr persona.Persona, weekNo int, text string, attachments []string) (*Profile, error) {
	p, err := s.Preview(d, pr)
	if err != nil {
		return nil, err
	}
	if p.ProgramProgress != nil {
		if ws, ok := p.ProgramProgress.Weeks[weekNo]; ok && ws.Status == program.WeekLocked {
			ws.Status = program.WeekUnlocked
			p.ProgramProgress.Weeks[weekNo] = ws
		}
	}
	return s.SubmitWeek(ctx, p, weekNo, text, attachments, false)
}

func (s *Service) journey(p *Profile) (*program.Program, error) {
	if p == nil {
		return nil, ErrNilProfile
	}
	if p.ProgramProgress == nil {
		return nil, ErrNoProgram
	}
	if s.machine == nil {
		return nil, ErrNoReviewer
	}
	prog, ok := s.catalog.Program(p.ProgramProgress.ProgramID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoProgram, p.ProgramProgress.ProgramID)
	}
	return prog, nil
}

func (s *Service) finishReview(ctx context.Context, p *Profile, next *program.Progress, programID string, weekNo int, reviewErr error, persist bool) (*Profile, error) {
	out := p.Clone()
	out.ProgramProgress = next
	out.UpdatedAt = s.now().UTC()

	ev := store.ProgressEventData{Kind: store.KindWeekReviewed, RefID: programID, WeekNo: &weekNo}
	if reviewErr != nil {
		ev.Kind = store.KindWeekReviewFailed
		ev.Detail = reviewErr.Error()
	} else if ws, ok := next.Weeks[weekNo]; ok {
		ev.Detail = string(ws.Status)
	}
	if err := s.commit(ctx, out, persist, ev); err != nil {
		return nil, err
	}
	return out, reviewErr
}

func (s *Service) tree(id string) (*skillgraph.Graph, error) {
	tree, ok := s.catalog.SkillTree(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTree, id)
	}
	return tree, nil
}

// resetStatuses rebuilds the overlay from the template: engine, replay of
// verified skills, engine again with the same mastery. SetAdmin goes
// through it in both directions.
func (s *Service) resetStatuses(p *Profile) error {
	tree, err := s.tree(p.SkillTreeID)
	if err != nil {
		return err
	}
	nodes := skillgraph.ComputeNodeStatuses(tree.Nodes(), p.MasteryScore, p.Domain)
	if len(p.VerifiedSkills) > 0 {
		nodes = skillgraph.CompleteUseCase(nodes, p.VerifiedSkills)
	}
	settle(p, nodes)
	return nil
}

func (s *Service) recompute(p *Profile) error {
	tree, err := s.tree(p.SkillTreeID)
	if err != nil {
		return err
	}
	settle(p, tree.WithStatuses(p.SkillStatuses))
	return nil
}

// settle runs the graph state engine for p's mastery and domain and stores
// the result as p's overlay. Admins skip the engine: every node they have
// not completed is UNLOCKED.
func settle(p *Profile, nodes []skillgraph.Node) []skillgraph.Node {
	if p.IsAdmin {
		nodes = skillgraph.UnlockAll(nodes)
	} else {
		nodes = skillgraph.ComputeNodeStatuses(nodes, p.MasteryScore, p.Domain)
	}
	p.SkillStatuses = skillgraph.StatusMap(nodes)
	return nodes
}

// commit saves the profile and then appends ev (when ev.Kind is set). A
// failed save aborts the operation; a failed event append is only logged.
func (s *Service) commit(ctx context.Context, p *Profile, persist bool, ev store.ProgressEventData) error {
	if persist && !p.Preview && s.profiles != nil {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode profile: %w", err)
		}
		rec := &store.ProfileRecord{
			UserID:       p.UserID,
			Data:         data,
			Domain:       string(p.Domain),
			MasteryScore: p.MasteryScore,
			CreatedAt:    p.CreatedAt,
		}
		if err := s.profiles.Save(ctx, rec); err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
	}
	if ev.Kind != "" {
		s.appendEvent(ctx, p, persist, ev)
	}
	return nil
}

func (s *Service) appendEvent(ctx context.Context, p *Profile, persist bool, ev store.ProgressEventData) {
	if !persist || p.Preview || s.events == nil {
		return
	}
	ev.UserID = p.UserID
	if ev.MasteryBefore == 0 && ev.MasteryAfter == 0 {
		ev.MasteryBefore, ev.MasteryAfter = p.MasteryScore, p.MasteryScore
	}
	if err := s.events.AppendProgressEvent(ctx, ev); err != nil {
		s.logger.Warn("failed to append progress event", "user", p.UserID, "kind", ev.Kind, "error", err)
	}
}

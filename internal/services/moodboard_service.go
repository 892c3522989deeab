package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wedplan/internal/config"
	"wedplan/internal/models/db_models"
	"wedplan/internal/models/request_models"
	"wedplan/internal/models/response_models"
	"wedplan/internal/moodboard"
	"wedplan/internal/onboarding"
	"wedplan/internal/realtime"
	"wedplan/internal/repositories"
	"wedplan/internal/reveal"
	"wedplan/pkg/storage"
	"wedplan/pkg/utils"
)

type MoodboardServiceInterface interface {
	// Generate builds the complete moodboard from the saved preferences,
	// replacing the current one if any.
	Generate(ctx context.Context, workspaceID, userID uuid.UUID) (*response_models.MoodboardResponse, error)
	Regenerate(ctx context.Context, workspaceID, userID uuid.UUID, focusArea string) (*response_models.MoodboardResponse, error)
	RegenerateSection(ctx context.Context, workspaceID, userID uuid.UUID, imageType string) (*response_models.MoodboardResponse, error)
	RegenerateInfo(ctx context.Context, workspaceID uuid.UUID) (*response_models.RegenerateInfoResponse, error)
	DebugRegen(ctx context.Context, workspaceID, userID uuid.UUID, req request_models.DebugRegenRequest) (*response_models.DebugRegenResponse, error)
	Current(ctx context.Context, workspaceID uuid.UUID) (*response_models.MoodboardResponse, error)
	Reveal(ctx context.Context, workspaceID uuid.UUID) (*response_models.RevealResponse, error)
}

type MoodboardService struct {
	itemRepo      repositories.ItemRepository
	embeddingRepo repositories.MoodboardEmbeddingRepository
	workspaceRepo repositories.WorkspaceRepository
	onboarding    OnboardingServiceInterface
	activity      ActivityServiceInterface
	text          utils.TextGeneratorInterface
	images        utils.ImageGeneratorInterface
	embedder      utils.EmbeddingClientInterface
	store         storage.Storage
	hub           *realtime.Hub
	timings       reveal.Timings
	timeout       time.Duration
	maxParallel   int
	mediaBaseURL  string
	log           *zap.Logger
}

// NewMoodboardService wires the generator. embedder may be nil, in which case
// moodboards are not indexed for similarity search.
func NewMoodboardService(
	itemRepo repositories.ItemRepository,
	embeddingRepo repositories.MoodboardEmbeddingRepository,
	workspaceRepo repositories.WorkspaceRepository,
	onboardingService OnboardingServiceInterface,
	activity ActivityServiceInterface,
	text utils.TextGeneratorInterface,
	images utils.ImageGeneratorInterface,
	embedder utils.EmbeddingClientInterface,
	store storage.Storage,
	hub *realtime.Hub,
	timings reveal.Timings,
	cfg *config.Config,
	log *zap.Logger,
) MoodboardServiceInterface {
	maxParallel := cfg.AI.MaxParallelImages
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &MoodboardService{
		itemRepo:      itemRepo,
		embeddingRepo: embeddingRepo,
		workspaceRepo: workspaceRepo,
		onboarding:    onboardingService,
		activity:      activity,
		text:          text,
		images:        images,
		embedder:      embedder,
		store:         store,
		hub:           hub,
		timings:       timings,
		timeout:       cfg.GetGenerationTimeout(),
		maxParallel:   maxParallel,
		mediaBaseURL:  strings.TrimRight(cfg.Storage.PublicBaseURL, "/"),
		log:           log,
	}
}

func (s *MoodboardService) Generate(ctx context.Context, workspaceID, userID uuid.UUID) (*response_models.MoodboardResponse, error) {
	return s.run(ctx, workspaceID, userID, func(prefs onboarding.Preferences) moodboard.Plan {
		return moodboard.PlanFor(moodboard.FocusComplete, prefs)
	})
}

func (s *MoodboardService) Regenerate(ctx context.Context, workspaceID, userID uuid.UUID, focusArea string) (*response_models.MoodboardResponse, error) {
	focus, ok := moodboard.ParseFocusArea(focusArea)
	if !ok {
		return nil, fmt.Errorf("%w: %q, expected one of %v", utils.ErrInvalidFocusArea, focusArea, moodboard.FocusAreas())
	}
	return s.run(ctx, workspaceID, userID, func(prefs onboarding.Preferences) moodboard.Plan {
		return moodboard.PlanFor(focus, prefs)
	})
}

func (s *MoodboardService) RegenerateSection(ctx context.Context, workspaceID, userID uuid.UUID, imageType string) (*response_models.MoodboardResponse, error) {
	t, ok := moodboard.ParseSectionImageType(imageType)
	if !ok {
		return nil, fmt.Errorf("%w: %q, expected one of %v", utils.ErrInvalidImageType, imageType, moodboard.SectionImageTypes())
	}
	return s.run(ctx, workspaceID, userID, func(onboarding.Preferences) moodboard.Plan {
		return moodboard.SectionPlan(t)
	})
}

func (s *MoodboardService) RegenerateInfo(ctx context.Context, workspaceID uuid.UUID) (*response_models.RegenerateInfoResponse, error) {
	current, err := s.Current(ctx, workspaceID)
	if err != nil && !errors.Is(err, utils.ErrMoodboardNotFound) {
		return nil, err
	}

	info := &response_models.RegenerateInfoResponse{
		Moodboard:         current,
		FocusAreas:        moodboard.FocusAreas(),
		SectionImageTypes: moodboard.SectionImageTypes(),
	}
	if current != nil {
		info.HasPreviousGeneration = current.Moodboard.PreviousGeneration != nil
	}
	return info, nil
}

// DebugRegen reports what a regeneration would send. With Execute set it
// also performs the regeneration.
func (s *MoodboardService) DebugRegen(ctx context.Context, workspaceID, userID uuid.UUID, req request_models.DebugRegenRequest) (*response_models.DebugRegenResponse, error) {
	focusArea := req.FocusArea
	if focusArea == "" {
		focusArea = string(moodboard.FocusComplete)
	}
	focus, ok := moodboard.ParseFocusArea(focusArea)
	if !ok {
		return nil, fmt.Errorf("%w: %q", utils.ErrInvalidFocusArea, focusArea)
	}
	if _, err := requireWorkspace(ctx, s.workspaceRepo, workspaceID); err != nil {
		return nil, err
	}

	prefs, err := s.onboarding.Preferences(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	existing, current, err := s.load(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	plan := moodboard.PlanFor(focus, prefs)
	resp := &response_models.DebugRegenResponse{
		Preferences:  prefs,
		Plan:         plan,
		ImagePrompts: make(map[moodboard.ImageType]string, len(plan.Images)),
	}
	if plan.Text != moodboard.TextNone {
		resp.TextPrompt = moodboard.TextPrompt(prefs, plan.Text)
	}
	for _, t := range plan.Images {
		resp.ImagePrompts[t] = moodboard.ImagePrompt(t, prefs, current.StyleGuide)
	}
	if existing != nil {
		meta := current.Metadata
		resp.Current = &meta
	}

	if !req.Execute {
		return resp, nil
	}

	started := time.Now()
	result, err := s.Regenerate(ctx, workspaceID, userID, string(focus))
	if err != nil {
		return nil, err
	}
	resp.Executed = true
	resp.ElapsedMS = time.Since(started).Milliseconds()
	resp.Result = result
	return resp, nil
}

func (s *MoodboardService) Current(ctx context.Context, workspaceID uuid.UUID) (*response_models.MoodboardResponse, error) {
	item, artifact, err := s.load(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, utils.ErrMoodboardNotFound
	}
	return toMoodboardResponse(item, artifact), nil
}

func (s *MoodboardService) Reveal(ctx context.Context, workspaceID uuid.UUID) (*response_models.RevealResponse, error) {
	current, err := s.Current(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	events := reveal.Timeline(current.Moodboard, s.timings)
	resp := &response_models.RevealResponse{Moodboard: *current, Events: events}
	if n := len(events); n > 0 {
		resp.TotalMS = events[n-1].OffsetMS
	}
	return resp, nil
}

// load returns the workspace's moodboard item and its decoded artifact, or a
// nil item when none was generated yet.
func (s *MoodboardService) load(ctx context.Context, workspaceID uuid.UUID) (*db_models.Item, moodboard.Artifact, error) {
	var artifact moodboard.Artifact

	item, err := s.itemRepo.FindByKey(ctx, db_models.MoodboardKey(workspaceID))
	if err != nil {
		return nil, artifact, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}
	if item == nil {
		return nil, artifact, nil
	}
	if err := json.Unmarshal(item.Data, &artifact); err != nil {
		return nil, artifact, fmt.Errorf("decode moodboard %s: %w", item.ID, err)
	}
	return item, artifact, nil
}

// run executes one generation. Partial plans need an existing moodboard to
// patch; concurrent runs are not serialized and the last write wins.
func (s *MoodboardService) run(
	ctx context.Context,
	workspaceID, userID uuid.UUID,
	planFor func(onboarding.Preferences) moodboard.Plan,
) (*response_models.MoodboardResponse, error) {
	if _, err := requireWorkspace(ctx, s.workspaceRepo, workspaceID); err != nil {
		return nil, err
	}

	prefs, err := s.onboarding.Preferences(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	plan := planFor(prefs)

	existing, artifact, err := s.load(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if existing == nil && plan.Focus != moodboard.FocusComplete {
		return nil, utils.ErrMoodboardNotFound
	}
	if existing != nil {
		artifact.PreviousGeneration = artifact.Snapshot()
	}

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	if err := s.generate(genCtx, workspaceID, prefs, plan, &artifact); err != nil {
		s.log.Warn("moodboard generation failed",
			zap.String("workspace_id", workspaceID.String()),
			zap.String("focus_area", string(plan.Focus)),
			zap.Duration("elapsed", time.Since(started)),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", utils.ErrGenerationFailed, err)
	}

	data, err := json.Marshal(artifact)
	if err != nil {
		return nil, fmt.Errorf("encode moodboard: %w", err)
	}
	key := db_models.MoodboardKey(workspaceID)
	item := &db_models.Item{
		WorkspaceID: workspaceID,
		Type:        db_models.ItemTypeMoodboard,
		Key:         &key,
		Data:        data,
		Status:      db_models.ItemStatusActive,
		CreatedBy:   userID,
	}
	if err := s.itemRepo.UpsertByKey(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrDatabaseError, err)
	}

	s.log.Info("moodboard generated",
		zap.String("workspace_id", workspaceID.String()),
		zap.String("focus_area", string(plan.Focus)),
		zap.Int("images", len(plan.Images)),
		zap.Duration("elapsed", time.Since(started)))

	action, activity := realtime.ActionCreated, ActivityMoodboardGenerated
	if existing != nil {
		action, activity = realtime.ActionUpdated, ActivityMoodboardRegen
	}
	publishItem(s.hub, item, action)
	s.activity.Record(ctx, workspaceID, userID, activity, map[string]any{"focus_area": plan.Focus})

	if plan.Text != moodboard.TextNone {
		s.index(ctx, item, artifact)
	}

	return toMoodboardResponse(item, artifact), nil
}

// generate fills artifact with the text and images of plan. Text comes first
// since image prompts use the style guide.
func (s *MoodboardService) generate(ctx context.Context, workspaceID uuid.UUID, prefs onboarding.Preferences, plan moodboard.Plan, artifact *moodboard.Artifact) error {
	var textPrompt string
	if plan.Text != moodboard.TextNone {
		textPrompt = moodboard.TextPrompt(prefs, plan.Text)
		raw, err := s.text.GenerateJSON(ctx, textPrompt)
		if err != nil {
			return fmt.Errorf("text: %w", err)
		}
		text, err := moodboard.ParseText(raw, plan.Text)
		if err != nil {
			return fmt.Errorf("text: %w", err)
		}
		artifact.ApplyText(text, plan.Text)
	}

	images := make([]moodboard.Image, len(plan.Images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxParallel)
	for i, t := range plan.Images {
		i, t := i, t
		g.Go(func() error {
			img, err := s.renderImage(gctx, workspaceID, t, prefs, artifact.StyleGuide)
			if err != nil {
				return fmt.Errorf("%s image: %w", t, err)
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if plan.Focus == moodboard.FocusComplete {
		// A complete run replaces the image set; dropped types must not linger.
		artifact.SourceImages = nil
		artifact.ImageURL = ""
	}
	for _, img := range images {
		artifact.SetImage(img)
	}

	prompt := textPrompt
	if prompt == "" && len(images) > 0 {
		prompt = images[0].Prompt
	}
	artifact.Metadata = moodboard.GenerationMetadata{
		Model:       s.text.ModelName(),
		ImageModel:  s.images.ModelName(),
		Prompt:      prompt,
		GeneratedAt: time.Now().UTC(),
		FocusArea:   plan.Focus,
	}
	return nil
}

func (s *MoodboardService) renderImage(ctx context.Context, workspaceID uuid.UUID, t moodboard.ImageType, prefs onboarding.Preferences, guide moodboard.StyleGuide) (moodboard.Image, error) {
	prompt := moodboard.ImagePrompt(t, prefs, guide)

	png, err := s.images.GenerateImage(ctx, prompt)
	if err != nil {
		return moodboard.Image{}, err
	}

	path, err := s.store.Upload(ctx, uuid.New(), fmt.Sprintf("%s-%s.png", workspaceID.String()[:8], t), bytes.NewReader(png))
	if err != nil {
		return moodboard.Image{}, fmt.Errorf("store: %w", err)
	}

	return moodboard.Image{
		Type:        t,
		URL:         s.mediaBaseURL + "/" + path,
		StoragePath: path,
		Prompt:      prompt,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// index stores the style embedding used by the community similarity search.
func (s *MoodboardService) index(ctx context.Context, item *db_models.Item, artifact moodboard.Artifact) {
	if s.embedder == nil {
		return
	}

	var doc strings.Builder
	doc.WriteString(artifact.WeddingSummary)
	for _, sw := range artifact.StyleGuide.ColorPalette {
		doc.WriteString(" " + sw.Name)
	}
	doc.WriteString(" " + strings.Join(artifact.StyleGuide.Keywords, " "))
	doc.WriteString(" " + strings.Join(artifact.StyleGuide.Themes, " "))

	vector, err := s.embedder.GetEmbedding(ctx, strings.TrimSpace(doc.String()))
	if err != nil {
		s.log.Warn("failed to embed moodboard", zap.String("moodboard_id", item.ID.String()), zap.Error(err))
		return
	}

	err = s.embeddingRepo.Upsert(ctx, &db_models.MoodboardEmbedding{
		WorkspaceID: item.WorkspaceID,
		MoodboardID: item.ID,
		Summary:     artifact.WeddingSummary,
		Keywords:    artifact.StyleGuide.Keywords,
		Themes:      artifact.StyleGuide.Themes,
		Embedding:   vector,
	})
	if err != nil {
		s.log.Warn("failed to index moodboard", zap.String("moodboard_id", item.ID.String()), zap.Error(err))
	}
}

func toMoodboardResponse(item *db_models.Item, artifact moodboard.Artifact) *response_models.MoodboardResponse {
	return &response_models.MoodboardResponse{
		ID:        item.ID,
		Moodboard: artifact,
		UpdatedAt: utils.FromUnixSeconds(item.UpdatedAt),
	}
}

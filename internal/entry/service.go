// AngelaMos | 2026
// service.go

package entry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"

	"github.com/angelamos/promptvault/internal/core"
	"github.com/angelamos/promptvault/internal/tag"
)

// Transactor runs fn with entry and tag repositories bound to one
// transaction.
type Transactor interface {
	WithinTx(
		ctx context.Context,
		fn func(entries Repository, tags tag.Repository) error,
	) error
}

type sqlxTransactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) Transactor {
	return &sqlxTransactor{db: db}
}

func (t *sqlxTransactor) WithinTx(
	ctx context.Context,
	fn func(entries Repository, tags tag.Repository) error,
) error {
	return core.InTx(ctx, t.db, func(tx *sqlx.Tx) error {
		return fn(NewRepository(tx), tag.NewRepository(tx))
	})
}

type Service struct {
	repo   Repository
	tags   tag.Repository
	tx     Transactor
	logger *slog.Logger
}

func NewService(
	repo Repository,
	tags tag.Repository,
	tx Transactor,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		tags:   tags,
		tx:     tx,
		logger: logger.With("component", "entry"),
	}
}

// Query returns the caller's entries matching params. The tag filter runs
// after the ordered, limited fetch, so a tag match ranked beyond Take is not
// returned even when fewer than Take entries come back.
func (s *Service) Query(
	ctx context.Context,
	userID string,
	params QueryParams,
) ([]Entry, error) {
	if userID == "" {
		return nil, fmt.Errorf("query entries: %w", core.ErrUnauthorized)
	}

	params.Normalize()

	ctx, span := core.StartSpan(ctx, "entry.Query",
		attribute.Bool("include_deleted", params.IncludeDeleted),
		attribute.Int("take", params.Take),
		attribute.Bool("tag_filter", params.Tag != ""),
	)
	defer span.End()

	// Malformed ids cannot match any row.
	if !isUUID(params.CategoryID) || !isUUID(params.SectionID) {
		return []Entry{}, nil
	}

	entries, err := s.repo.List(ctx, userID, params)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.ID)
	}

	refs, err := s.tags.ForEntries(ctx, ids)
	if err != nil {
		core.SetSpanError(ctx, err)
		return nil, err
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Tags = refs[e.ID]
		if params.Tag != "" && !tag.MatchesName(e.Tags, params.Tag) {
			continue
		}
		out = append(out, e)
	}

	return out, nil
}

// Create validates the request, inserts the entry and attaches its tags in
// one transaction. Nothing is written when validation fails.
func (s *Service) Create(
	ctx context.Context,
	userID string,
	req CreateEntryRequest,
) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("create entry: %w", core.ErrUnauthorized)
	}

	if err := validateCreate(req); err != nil {
		return "", err
	}

	e := &Entry{
		ID:         uuid.New().String(),
		UserID:     userID,
		CategoryID: req.CategoryID,
		SectionID:  req.SectionID,
		Title:      req.Title,
		PromptText: req.PromptText,
		OutputText: req.OutputText,
		ModelUsed:  req.ModelUsed,
		Comments:   req.Comments,
	}

	ctx, span := core.StartSpan(ctx, "entry.Create")
	defer span.End()

	err := s.tx.WithinTx(ctx, func(entries Repository, tags tag.Repository) error {
		if err := entries.Create(ctx, e); err != nil {
			return err
		}

		refs, err := tag.Reconcile(ctx, tags, userID, e.ID, req.Tags, tag.ModeAttach)
		if err != nil {
			return err
		}
		core.AddSpanEvent(ctx, "tags.reconciled", attribute.Int("count", len(refs)))
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return "", err
	}

	s.logger.InfoContext(ctx, "entry created", "user_id", userID, "entry_id", e.ID)
	return e.ID, nil
}

// Update applies the fields present in req. Associations are replaced only
// when req.Tags is set; an empty list clears them.
func (s *Service) Update(
	ctx context.Context,
	userID, id string,
	req UpdateEntryRequest,
) error {
	if userID == "" {
		return fmt.Errorf("update entry: %w", core.ErrUnauthorized)
	}

	if !isUUID(id) || id == "" {
		return fmt.Errorf("update entry: %w", core.ErrNotFound)
	}

	if err := validateUpdate(req); err != nil {
		return err
	}

	patch := Patch{
		CategoryID: req.CategoryID,
		SectionID:  req.SectionID,
		Title:      req.Title,
		PromptText: req.PromptText,
		OutputText: req.OutputText,
		ModelUsed:  req.ModelUsed,
		Comments:   req.Comments,
	}

	ctx, span := core.StartSpan(ctx, "entry.Update",
		attribute.Bool("replace_tags", req.Tags != nil),
	)
	defer span.End()

	err := s.tx.WithinTx(ctx, func(entries Repository, tags tag.Repository) error {
		if err := entries.Update(ctx, userID, id, patch); err != nil {
			return err
		}

		if req.Tags == nil {
			return nil
		}

		refs, err := tag.Reconcile(ctx, tags, userID, id, *req.Tags, tag.ModeReplace)
		if err != nil {
			return err
		}
		core.AddSpanEvent(ctx, "tags.reconciled", attribute.Int("count", len(refs)))
		return nil
	})
	if err != nil {
		core.SetSpanError(ctx, err)
		return err
	}

	s.logger.DebugContext(ctx, "entry updated", "user_id", userID, "entry_id", id)
	return nil
}

func (s *Service) SoftDelete(ctx context.Context, userID, id string) error {
	if err := checkTarget("delete entry", userID, id); err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, userID, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "entry soft deleted", "user_id", userID, "entry_id", id)
	return nil
}

func (s *Service) Restore(ctx context.Context, userID, id string) error {
	if err := checkTarget("restore entry", userID, id); err != nil {
		return err
	}

	if err := s.repo.Restore(ctx, userID, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "entry restored", "user_id", userID, "entry_id", id)
	return nil
}

func (s *Service) HardDelete(ctx context.Context, userID, id string) error {
	if err := checkTarget("hard delete entry", userID, id); err != nil {
		return err
	}

	err := s.tx.WithinTx(ctx, func(entries Repository, _ tag.Repository) error {
		return entries.HardDelete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "entry hard deleted", "user_id", userID, "entry_id", id)
	return nil
}

func (s *Service) Counts(ctx context.Context) (Counts, error) {
	return s.repo.Counts(ctx)
}

func checkTarget(op, userID, id string) error {
	if userID == "" {
		return fmt.Errorf("%s: %w", op, core.ErrUnauthorized)
	}
	if id == "" || !isUUID(id) {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}

func validateCreate(req CreateEntryRequest) error {
	switch {
	case req.CategoryID == "":
		return fmt.Errorf("categoryId is required: %w", core.ErrInvalidInput)
	case !isUUID(req.CategoryID):
		return fmt.Errorf("categoryId is malformed: %w", core.ErrInvalidInput)
	case req.SectionID != nil && !isUUID(*req.SectionID):
		return fmt.Errorf("sectionId is malformed: %w", core.ErrInvalidInput)
	case req.PromptText == "":
		return fmt.Errorf("promptText is required: %w", core.ErrInvalidInput)
	case req.OutputText == "":
		return fmt.Errorf("outputText is required: %w", core.ErrInvalidInput)
	case req.ModelUsed == "":
		return fmt.Errorf("modelUsed is required: %w", core.ErrInvalidInput)
	}
	return nil
}

func validateUpdate(req UpdateEntryRequest) error {
	switch {
	case req.CategoryID != nil && (*req.CategoryID == "" || !isUUID(*req.CategoryID)):
		return fmt.Errorf("categoryId is malformed: %w", core.ErrInvalidInput)
	case req.SectionID != nil && !isUUID(*req.SectionID):
		return fmt.Errorf("sectionId is malformed: %w", core.ErrInvalidInput)
	case req.PromptText != nil && *req.PromptText == "":
		return fmt.Errorf("promptText must not be empty: %w", core.ErrInvalidInput)
	case req.OutputText != nil && *req.OutputText == "":
		return fmt.Errorf("outputText must not be empty: %w", core.ErrInvalidInput)
	case req.ModelUsed != nil && *req.ModelUsed == "":
		return fmt.Errorf("modelUsed must not be empty: %w", core.ErrInvalidInput)
	}
	return nil
}

// isUUID treats the empty string as "no filter".
func isUUID(s string) bool {
	if s == "" {
		return true
	}
	_, err := uuid.Parse(s)
	return err == nil
}

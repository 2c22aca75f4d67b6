package service

import (
	"context"
	"strings"
	"time"

	"wayfare/internal/models"
	"wayfare/internal/observability"
	"wayfare/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const (
	maxTitleLen   = 300
	maxContentLen = 50000
	maxImages     = 9
)

// TravelService owns the travel diary lifecycle: creation, visibility,
// author edits, deletion, and review verdicts. Every mutating operation is
// gated through the authorization predicates in authz.go before any write.
type TravelService struct {
	travelRepo repository.TravelRepository
}

type CreateTravelInput struct {
	AuthorID uint
	Title    string
	Content  string
	Images   []string
	Video    string
}

type ListPublicTravelsInput struct {
	Keyword string
	Limit   int
	Offset  int
}

type ListAdminTravelsInput struct {
	Viewer Viewer
	Status string // "" lists all statuses
	Limit  int
	Offset int
}

type ListMyTravelsInput struct {
	AuthorID uint
	Status   string // "" lists all statuses
	Limit    int
	Offset   int
}

// UpdateTravelInput is a patch: nil fields are retained as-is.
type UpdateTravelInput struct {
	Viewer   Viewer
	TravelID uint
	Title    *string
	Content  *string
	Images   []string
	Video    *string
}

type DeleteTravelInput struct {
	Viewer   Viewer
	TravelID uint
}

type ReviewTravelInput struct {
	Viewer       Viewer
	TravelID     uint
	Decision     string // approved or rejected
	RejectReason string
}

// NewTravelService returns a new TravelService.
func NewTravelService(travelRepo repository.TravelRepository) *TravelService {
	return &TravelService{travelRepo: travelRepo}
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	return nil
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

func validateImages(images []string) error {
	if len(images) == 0 {
		return models.NewValidationError("At least one image is required")
	}
	if len(images) > maxImages {
		return models.NewValidationError("At most 9 images are allowed")
	}
	for _, ref := range images {
		if strings.TrimSpace(ref) == "" {
			return models.NewValidationError("Image references must not be empty")
		}
	}
	return nil
}

// Create persists a new diary in pending state. Nothing is written when
// validation fails.
func (s *TravelService) Create(ctx context.Context, in CreateTravelInput) (*models.Travel, error) {
	span, ctx := observability.NewSpan(ctx, "TravelService.Create")
	defer span.End()
	span.AddAttributes(attribute.Int("travel.author_id", int(in.AuthorID)))

	if err := validateTitle(in.Title); err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if err := validateImages(in.Images); err != nil {
		return nil, err
	}

	travel := &models.Travel{
		Title:    in.Title,
		Content:  in.Content,
		Images:   models.StringList(in.Images),
		Video:    in.Video,
		AuthorID: in.AuthorID,
		Status:   models.StatusPending,
	}
	if err := s.travelRepo.Create(ctx, travel); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("travel.id", int(travel.ID)))
	return travel, nil
}

// Get returns a single diary subject to visibility rules: approved diaries
// are public, pending and rejected ones are visible only to the author and
// moderators.
func (s *TravelService) Get(ctx context.Context, viewer Viewer, travelID uint) (*models.Travel, error) {
	travel, err := s.travelRepo.GetByID(ctx, travelID)
	if err != nil {
		return nil, err
	}
	if !CanViewTravel(viewer, travel) {
		return nil, models.NewForbiddenError("You do not have access to this travel")
	}
	return travel, nil
}

// ListPublic returns approved diaries only, regardless of any status the
// caller may have asked for. The keyword matches titles and author nicknames.
func (s *TravelService) ListPublic(ctx context.Context, in ListPublicTravelsInput) ([]*models.Travel, int64, error) {
	return s.travelRepo.List(ctx, repository.TravelListFilter{
		Status:  models.StatusApproved,
		Keyword: strings.TrimSpace(in.Keyword),
		Limit:   in.Limit,
		Offset:  in.Offset,
	})
}

// ListAdmin returns diaries of any status for the moderation queue.
func (s *TravelService) ListAdmin(ctx context.Context, in ListAdminTravelsInput) ([]*models.Travel, int64, error) {
	if !CanReviewTravel(in.Viewer) {
		return nil, 0, models.NewForbiddenError("Reviewer or admin role required")
	}
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, 0, models.NewValidationError("Invalid status filter")
	}
	return s.travelRepo.List(ctx, repository.TravelListFilter{
		Status: in.Status,
		Limit:  in.Limit,
		Offset: in.Offset,
	})
}

// ListMine returns the author's own diaries across all statuses.
func (s *TravelService) ListMine(ctx context.Context, in ListMyTravelsInput) ([]*models.Travel, int64, error) {
	if in.Status != "" && !models.ValidStatus(in.Status) {
		return nil, 0, models.NewValidationError("Invalid status filter")
	}
	return s.travelRepo.List(ctx, repository.TravelListFilter{
		Status:   in.Status,
		AuthorID: in.AuthorID,
		Limit:    in.Limit,
		Offset:   in.Offset,
	})
}

// Update applies an author edit and resubmits the diary for review.
// Approved diaries are immutable: the edit fails with Conflict no matter who
// asks. Review metadata of the previous cycle is kept until the next review
// overwrites it.
func (s *TravelService) Update(ctx context.Context, in UpdateTravelInput) (*models.Travel, error) {
	travel, err := s.travelRepo.GetByID(ctx, in.TravelID)
	if err != nil {
		return nil, err
	}
	if travel.Status == models.StatusApproved {
		return nil, models.NewConflictError("Approved travels cannot be edited")
	}
	if !CanEditTravel(in.Viewer, travel) {
		return nil, models.NewForbiddenError("Only the author can edit this travel")
	}

	if in.Title != nil {
		if err := validateTitle(*in.Title); err != nil {
			return nil, err
		}
		travel.Title = *in.Title
	}
	if in.Content != nil {
		if err := validateContent(*in.Content); err != nil {
			return nil, err
		}
		travel.Content = *in.Content
	}
	if in.Images != nil {
		if err := validateImages(in.Images); err != nil {
			return nil, err
		}
		travel.Images = models.StringList(in.Images)
	}
	if in.Video != nil {
		travel.Video = *in.Video
	}

	travel.Status = models.StatusPending
	travel.RejectReason = ""

	if err := s.travelRepo.Update(ctx, travel); err != nil {
		return nil, err
	}
	return travel, nil
}

// Delete removes a diary. Admins soft-delete any diary (their own included),
// keeping the record for audit; non-admin authors hard-delete their own.
// Reviewers have no delete rights.
func (s *TravelService) Delete(ctx context.Context, in DeleteTravelInput) error {
	travel, err := s.travelRepo.GetByID(ctx, in.TravelID)
	if err != nil {
		return err
	}

	switch DeleteModeFor(in.Viewer, travel) {
	case DeleteHard:
		return s.travelRepo.HardDelete(ctx, travel.ID)
	case DeleteSoft:
		return s.travelRepo.SoftDelete(ctx, travel.ID)
	default:
		return models.NewForbiddenError("You do not have permission to delete this travel")
	}
}

// Review records a moderation verdict. Any prior status may be re-reviewed,
// which permits correcting moderation mistakes; re-approving an approved
// diary just refreshes the review timestamp.
func (s *TravelService) Review(ctx context.Context, in ReviewTravelInput) (*models.Travel, error) {
	span, ctx := observability.NewSpan(ctx, "TravelService.Review")
	defer span.End()
	span.AddAttributes(
		attribute.Int("travel.id", int(in.TravelID)),
		attribute.String("review.decision", in.Decision),
	)

	if !CanReviewTravel(in.Viewer) {
		return nil, models.NewForbiddenError("Reviewer or admin role required")
	}
	if in.Decision != models.StatusApproved && in.Decision != models.StatusRejected {
		return nil, models.NewValidationError("Decision must be approved or rejected")
	}
	if in.Decision == models.StatusRejected && strings.TrimSpace(in.RejectReason) == "" {
		return nil, models.NewValidationError("A rejection reason is required")
	}

	travel, err := s.travelRepo.GetByID(ctx, in.TravelID)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	now := time.Now()
	reviewerID := in.Viewer.ID
	travel.Status = in.Decision
	travel.ReviewedByID = &reviewerID
	travel.ReviewedAt = &now
	if in.Decision == models.StatusRejected {
		travel.RejectReason = in.RejectReason
	} else {
		travel.RejectReason = ""
	}

	if err := s.travelRepo.Update(ctx, travel); err != nil {
		span.SetError(err)
		return nil, err
	}
	return travel, nil
}

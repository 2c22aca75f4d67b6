package service

import "wayfare/internal/models"

// Viewer describes the requesting principal for authorization decisions.
// A zero Viewer is an anonymous request.
type Viewer struct {
	ID   uint
	Role string
}

// Anonymous reports whether the viewer is unauthenticated.
func (v Viewer) Anonymous() bool {
	return v.ID == 0
}

// CanModerate reports whether the viewer holds a moderation role.
func (v Viewer) CanModerate() bool {
	return v.Role == models.RoleReviewer || v.Role == models.RoleAdmin
}

// CanViewTravel decides read access to a single travel diary.
// Approved diaries are public. Pending and rejected diaries are visible only
// to their author and to moderators.
func CanViewTravel(v Viewer, t *models.Travel) bool {
	if t.Status == models.StatusApproved {
		return true
	}
	return t.IsOwnedBy(v.ID) || v.CanModerate()
}

// CanEditTravel decides edit access. Only the author may edit; moderator
// roles grant no edit rights over other users' diaries.
func CanEditTravel(v Viewer, t *models.Travel) bool {
	return t.IsOwnedBy(v.ID)
}

// DeleteMode is the outcome of a delete authorization decision.
type DeleteMode int

const (
	// DeleteDenied means the viewer may not delete the travel.
	DeleteDenied DeleteMode = iota
	// DeleteHard removes the row permanently (non-admin author deleting their own).
	DeleteHard
	// DeleteSoft hides the travel but keeps the row (any admin delete).
	DeleteSoft
)

// DeleteModeFor decides whether and how the viewer may delete a travel.
// Admins soft-delete any diary, their own included, so the record stays
// for audit. Non-admin authors hard-delete their own. Reviewers cannot
// delete at all.
func DeleteModeFor(v Viewer, t *models.Travel) DeleteMode {
	if v.Role == models.RoleAdmin {
		return DeleteSoft
	}
	if t.IsOwnedBy(v.ID) {
		return DeleteHard
	}
	return DeleteDenied
}

// CanReviewTravel decides whether the viewer may issue review verdicts.
func CanReviewTravel(v Viewer) bool {
	return v.CanModerate()
}

package service

import (
	"testing"

	"wayfare/internal/models"

	"github.com/stretchr/testify/assert"
)

func travelWith(status string, authorID uint) *models.Travel {
	return &models.Travel{ID: 1, AuthorID: authorID, Status: status}
}

func TestCanViewTravel(t *testing.T) {
	author := Viewer{ID: 10, Role: models.RoleUser}
	stranger := Viewer{ID: 20, Role: models.RoleUser}
	reviewer := Viewer{ID: 30, Role: models.RoleReviewer}
	admin := Viewer{ID: 40, Role: models.RoleAdmin}
	anon := Viewer{}

	tests := []struct {
		name   string
		viewer Viewer
		status string
		want   bool
	}{
		{"anyone sees approved", anon, models.StatusApproved, true},
		{"stranger sees approved", stranger, models.StatusApproved, true},
		{"author sees own pending", author, models.StatusPending, true},
		{"author sees own rejected", author, models.StatusRejected, true},
		{"stranger blocked from pending", stranger, models.StatusPending, false},
		{"stranger blocked from rejected", stranger, models.StatusRejected, false},
		{"anonymous blocked from pending", anon, models.StatusPending, false},
		{"reviewer sees pending", reviewer, models.StatusPending, true},
		{"reviewer sees rejected", reviewer, models.StatusRejected, true},
		{"admin sees pending", admin, models.StatusPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanViewTravel(tt.viewer, travelWith(tt.status, author.ID))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanEditTravel(t *testing.T) {
	travel := travelWith(models.StatusPending, 10)

	assert.True(t, CanEditTravel(Viewer{ID: 10, Role: models.RoleUser}, travel))
	assert.False(t, CanEditTravel(Viewer{ID: 20, Role: models.RoleUser}, travel))
	assert.False(t, CanEditTravel(Viewer{ID: 30, Role: models.RoleReviewer}, travel), "reviewers do not edit other users' diaries")
	assert.False(t, CanEditTravel(Viewer{ID: 40, Role: models.RoleAdmin}, travel), "admins do not edit other users' diaries")
	assert.False(t, CanEditTravel(Viewer{}, travel))
}

func TestDeleteModeFor(t *testing.T) {
	travel := travelWith(models.StatusApproved, 10)

	tests := []struct {
		name   string
		viewer Viewer
		want   DeleteMode
	}{
		{"author hard-deletes own", Viewer{ID: 10, Role: models.RoleUser}, DeleteHard},
		{"admin author soft-deletes own", Viewer{ID: 10, Role: models.RoleAdmin}, DeleteSoft},
		{"admin soft-deletes others", Viewer{ID: 40, Role: models.RoleAdmin}, DeleteSoft},
		{"reviewer denied", Viewer{ID: 30, Role: models.RoleReviewer}, DeleteDenied},
		{"stranger denied", Viewer{ID: 20, Role: models.RoleUser}, DeleteDenied},
		{"anonymous denied", Viewer{}, DeleteDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeleteModeFor(tt.viewer, travel))
		})
	}
}

func TestCanReviewTravel(t *testing.T) {
	assert.True(t, CanReviewTravel(Viewer{ID: 30, Role: models.RoleReviewer}))
	assert.True(t, CanReviewTravel(Viewer{ID: 40, Role: models.RoleAdmin}))
	assert.False(t, CanReviewTravel(Viewer{ID: 10, Role: models.RoleUser}))
	assert.False(t, CanReviewTravel(Viewer{}))
}

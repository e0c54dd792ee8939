package db

import (
	"errors"
	"testing"

	"github.com/covernet/covernet/internal/models"
)

func TestGroupCreateBatchAllOrNothing(t *testing.T) {
	repo := newTestRepository(t)
	groups := NewGroupRepository(repo)

	if err := groups.CreateBatch(testCtx(), []*models.Group{
		{KgcID: 1, GroupName: "Existing", Country: "A"},
	}); err != nil {
		t.Fatalf("Failed to seed group: %v", err)
	}

	err := groups.CreateBatch(testCtx(), []*models.Group{
		{KgcID: 2, GroupName: "New", Country: "B"},
		{KgcID: 1, GroupName: "Collides", Country: "C"},
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("Expected ErrDuplicate for colliding batch, got: %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.Group{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count groups: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected the rejected batch to persist nothing, got %d rows", count)
	}

	err = groups.CreateBatch(testCtx(), []*models.Group{
		{KgcID: 3, GroupName: "Twin", Country: "D"},
		{KgcID: 3, GroupName: "Twin", Country: "D"},
	})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate for repeated key within the batch, got: %v", err)
	}
}

func TestOrganizationCreateBatchValidatesGroup(t *testing.T) {
	repo := newTestRepository(t)
	groups := NewGroupRepository(repo)
	orgs := NewOrganizationRepository(repo)

	if err := groups.CreateBatch(testCtx(), []*models.Group{
		{KgcID: 1, GroupName: "Host", Country: "A"},
	}); err != nil {
		t.Fatalf("Failed to seed group: %v", err)
	}

	err := orgs.CreateBatch(testCtx(), []*models.Organization{
		{FacID: 10, KgcID: 1, FacName: "Valid"},
		{FacID: 11, KgcID: 99, FacName: "Orphan"},
	})
	if !errors.Is(err, ErrMissingTarget) {
		t.Fatalf("Expected ErrMissingTarget for unknown group, got: %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.Organization{}).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count organizations: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected the rejected batch to persist nothing, got %d rows", count)
	}
}

func TestOrganizationDeleteRemovesTactics(t *testing.T) {
	repo := newTestRepository(t)
	orgs := NewOrganizationRepository(repo)

	if err := NewGroupRepository(repo).CreateBatch(testCtx(), []*models.Group{
		{KgcID: 1, GroupName: "Host", Country: "A"},
	}); err != nil {
		t.Fatalf("Failed to seed group: %v", err)
	}
	org := &models.Organization{FacID: 10, KgcID: 1, FacName: "Org"}
	if err := orgs.CreateBatch(testCtx(), []*models.Organization{org}); err != nil {
		t.Fatalf("Failed to seed organization: %v", err)
	}
	if err := NewViolentTacticRepository(repo).CreateBatch(testCtx(), []*models.ViolentTactic{
		{FacID: 10, Year: 1990},
	}); err != nil {
		t.Fatalf("Failed to seed violent tactic: %v", err)
	}
	if err := NewNonviolentTacticRepository(repo).CreateBatch(testCtx(), []*models.NonviolentTactic{
		{FacID: 10, Year: 1991},
	}); err != nil {
		t.Fatalf("Failed to seed nonviolent tactic: %v", err)
	}

	if err := orgs.Delete(testCtx(), org); err != nil {
		t.Fatalf("Failed to delete organization: %v", err)
	}

	for _, model := range []interface{}{&models.ViolentTactic{}, &models.NonviolentTactic{}} {
		var count int64
		if err := repo.db.Model(model).Where("fac_id = ?", 10).Count(&count).Error; err != nil {
			t.Fatalf("Failed to count tactics: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected tactics rows to be removed with their organization, got %d", count)
		}
	}
}

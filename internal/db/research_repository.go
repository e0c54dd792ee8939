package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/covernet/covernet/internal/models"
)

// GroupRepository provides ethnolinguistic-group database operations
type GroupRepository struct {
	*Repository
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(repo *Repository) *GroupRepository {
	return &GroupRepository{Repository: repo}
}

// GetByKgcID retrieves a group by its natural identifier
func (r *GroupRepository) GetByKgcID(ctx context.Context, kgcID int64) (*models.Group, error) {
	var group models.Group
	if err := r.db.WithContext(ctx).Where("kgc_id = ?", kgcID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// CreateBatch persists one or more groups. Every entry is validated against
// existing rows and the rest of the batch before anything is inserted; a
// single conflict rejects the whole batch.
func (r *GroupRepository) CreateBatch(ctx context.Context, groups []*models.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[int64]bool, len(groups))
		for _, g := range groups {
			if seen[g.KgcID] {
				return ErrDuplicate
			}
			seen[g.KgcID] = true

			var count int64
			if err := tx.Model(&models.Group{}).
				Where("kgc_id = ?", g.KgcID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicate
			}
		}
		for _, g := range groups {
			if err := tx.Create(g).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrDuplicate
				}
				return err
			}
		}
		return nil
	})
}

// Update updates a group
func (r *GroupRepository) Update(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Save(group).Error
}

// Delete removes a group
func (r *GroupRepository) Delete(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Delete(group).Error
}

// Query returns the base query for group collections
func (r *GroupRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Group{}).Order("kgc_id ASC")
}

// OrganizationRepository provides organization database operations
type OrganizationRepository struct {
	*Repository
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(repo *Repository) *OrganizationRepository {
	return &OrganizationRepository{Repository: repo}
}

// GetByFacID retrieves an organization by its natural identifier
func (r *OrganizationRepository) GetByFacID(ctx context.Context, facID int64) (*models.Organization, error) {
	var org models.Organization
	if err := r.db.WithContext(ctx).Where("fac_id = ?", facID).First(&org).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

// CreateBatch persists one or more organizations, all-or-nothing. Each entry
// must reference an existing group and carry an unused facId.
func (r *OrganizationRepository) CreateBatch(ctx context.Context, orgs []*models.Organization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[int64]bool, len(orgs))
		for _, o := range orgs {
			if seen[o.FacID] {
				return ErrDuplicate
			}
			seen[o.FacID] = true

			var count int64
			if err := tx.Model(&models.Organization{}).
				Where("fac_id = ?", o.FacID).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrDuplicate
			}
			if err := tx.Model(&models.Group{}).
				Where("kgc_id = ?", o.KgcID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrMissingTarget
			}
		}
		for _, o := range orgs {
			if err := tx.Create(o).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrDuplicate
				}
				return err
			}
		}
		return nil
	})
}

// Update updates an organization
func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Save(org).Error
}

// Delete removes an organization and its tactics rows
func (r *OrganizationRepository) Delete(ctx context.Context, org *models.Organization) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fac_id = ?", org.FacID).Delete(&models.ViolentTactic{}).Error; err != nil {
			return err
		}
		if err := tx.Where("fac_id = ?", org.FacID).Delete(&models.NonviolentTactic{}).Error; err != nil {
			return err
		}
		return tx.Delete(org).Error
	})
}

// Query returns the base query for organization collections
func (r *OrganizationRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Organization{}).Order("fac_id ASC")
}

// ByGroupQuery returns organizations within a group
func (r *OrganizationRepository) ByGroupQuery(ctx context.Context, kgcID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Organization{}).
		Where("kgc_id = ?", kgcID).
		Order("fac_id ASC")
}

// ViolentTacticRepository provides violent-tactic database operations
type ViolentTacticRepository struct {
	*Repository
}

// NewViolentTacticRepository creates a new violent-tactic repository
func NewViolentTacticRepository(repo *Repository) *ViolentTacticRepository {
	return &ViolentTacticRepository{Repository: repo}
}

// GetByID retrieves a violent-tactic record by id
func (r *ViolentTacticRepository) GetByID(ctx context.Context, id int64) (*models.ViolentTactic, error) {
	var tactic models.ViolentTactic
	if err := r.db.WithContext(ctx).First(&tactic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tactic, nil
}

// CreateBatch persists one or more violent-tactic records, all-or-nothing.
// Each entry must reference an existing organization; client-supplied ids
// must not collide.
func (r *ViolentTacticRepository) CreateBatch(ctx context.Context, tactics []*models.ViolentTactic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[int64]bool, len(tactics))
		for _, t := range tactics {
			if t.ID != 0 {
				if seen[t.ID] {
					return ErrDuplicate
				}
				seen[t.ID] = true

				var count int64
				if err := tx.Model(&models.ViolentTactic{}).
					Where("id = ?", t.ID).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return ErrDuplicate
				}
			}
			var count int64
			if err := tx.Model(&models.Organization{}).
				Where("fac_id = ?", t.FacID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrMissingTarget
			}
		}
		for _, t := range tactics {
			if err := tx.Create(t).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrDuplicate
				}
				return err
			}
		}
		return nil
	})
}

// Update updates a violent-tactic record
func (r *ViolentTacticRepository) Update(ctx context.Context, tactic *models.ViolentTactic) error {
	return r.db.WithContext(ctx).Save(tactic).Error
}

// Delete removes a violent-tactic record
func (r *ViolentTacticRepository) Delete(ctx context.Context, tactic *models.ViolentTactic) error {
	return r.db.WithContext(ctx).Delete(tactic).Error
}

// Query returns the base query for violent-tactic collections
func (r *ViolentTacticRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ViolentTactic{}).Order("id ASC")
}

// ByOrganizationQuery returns violent-tactic records for an organization
func (r *ViolentTacticRepository) ByOrganizationQuery(ctx context.Context, facID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ViolentTactic{}).
		Where("fac_id = ?", facID).
		Order("year ASC")
}

// NonviolentTacticRepository provides nonviolent-tactic database operations
type NonviolentTacticRepository struct {
	*Repository
}

// NewNonviolentTacticRepository creates a new nonviolent-tactic repository
func NewNonviolentTacticRepository(repo *Repository) *NonviolentTacticRepository {
	return &NonviolentTacticRepository{Repository: repo}
}

// GetByID retrieves a nonviolent-tactic record by id
func (r *NonviolentTacticRepository) GetByID(ctx context.Context, id int64) (*models.NonviolentTactic, error) {
	var tactic models.NonviolentTactic
	if err := r.db.WithContext(ctx).First(&tactic, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tactic, nil
}

// CreateBatch persists one or more nonviolent-tactic records, all-or-nothing
func (r *NonviolentTacticRepository) CreateBatch(ctx context.Context, tactics []*models.NonviolentTactic) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seen := make(map[int64]bool, len(tactics))
		for _, t := range tactics {
			if t.ID != 0 {
				if seen[t.ID] {
					return ErrDuplicate
				}
				seen[t.ID] = true

				var count int64
				if err := tx.Model(&models.NonviolentTactic{}).
					Where("id = ?", t.ID).
					Count(&count).Error; err != nil {
					return err
				}
				if count > 0 {
					return ErrDuplicate
				}
			}
			var count int64
			if err := tx.Model(&models.Organization{}).
				Where("fac_id = ?", t.FacID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrMissingTarget
			}
		}
		for _, t := range tactics {
			if err := tx.Create(t).Error; err != nil {
				if isDuplicateKey(err) {
					return ErrDuplicate
				}
				return err
			}
		}
		return nil
	})
}

// Update updates a nonviolent-tactic record
func (r *NonviolentTacticRepository) Update(ctx context.Context, tactic *models.NonviolentTactic) error {
	return r.db.WithContext(ctx).Save(tactic).Error
}

// Delete removes a nonviolent-tactic record
func (r *NonviolentTacticRepository) Delete(ctx context.Context, tactic *models.NonviolentTactic) error {
	return r.db.WithContext(ctx).Delete(tactic).Error
}

// Query returns the base query for nonviolent-tactic collections
func (r *NonviolentTacticRepository) Query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.NonviolentTactic{}).Order("id ASC")
}

// ByOrganizationQuery returns nonviolent-tactic records for an organization
func (r *NonviolentTacticRepository) ByOrganizationQuery(ctx context.Context, facID int64) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.NonviolentTactic{}).
		Where("fac_id = ?", facID).
		Order("year ASC")
}

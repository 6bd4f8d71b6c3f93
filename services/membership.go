package services

import (
	"errors"

	"stackflow/models"

	"gorm.io/gorm"
)

// MembershipStore is the persistence surface the resolver needs. The GORM
// implementation below is used in production; tests substitute an in-memory
// fake.
type MembershipStore interface {
	FindProject(id uint) (*models.Project, error)
	FindTenant(id uint) (*models.Tenant, error)
	FindTenantMembership(tenantID, userID uint) (*models.TenantMembership, error)
	FindProjectMembership(projectID, userID uint) (*models.ProjectMembership, error)
	CountProjectRole(projectID uint, role models.Role) (int64, error)
	CountTenantRole(tenantID uint, role models.Role) (int64, error)
}

// MembershipResolver determines a user's effective role for a tenant or
// project scope. It performs reads only; request guards consume its output.
type MembershipResolver struct {
	store MembershipStore
}

func NewMembershipResolver(store MembershipStore) *MembershipResolver {
	return &MembershipResolver{store: store}
}

// ResolveProjectRole returns the user's effective role on a project.
//
// Order of precedence: the system-wide super admin flag, then tenant
// membership (tenant roles dominate project roles regardless of rank), then
// project membership. Soft-deleted projects resolve NotFound for everyone,
// super admins included; trashed projects are reachable only through the
// explicit trash endpoints.
func (r *MembershipResolver) ResolveProjectRole(user *models.User, projectID uint) (models.Role, error) {
	if projectID == 0 {
		return "", BadRequest("missing project id")
	}

	project, err := r.store.FindProject(projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NotFound("project not found")
		}
		return "", err
	}
	if project.IsTrashed() {
		return "", NotFound("project not found")
	}

	if user.IsSuperAdmin {
		return models.RoleSuperAdmin, nil
	}

	tm, err := r.store.FindTenantMembership(project.TenantID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if tm != nil {
		return tm.Role, nil
	}

	pm, err := r.store.FindProjectMembership(projectID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if pm != nil {
		return pm.Role, nil
	}

	return "", Forbidden("you do not have access to this project")
}

// ResolveTenantRole returns the user's effective role on a tenant.
func (r *MembershipResolver) ResolveTenantRole(user *models.User, tenantID uint) (models.Role, error) {
	if tenantID == 0 {
		return "", BadRequest("missing tenant id")
	}

	if _, err := r.store.FindTenant(tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", NotFound("workspace not found")
		}
		return "", err
	}

	if user.IsSuperAdmin {
		return models.RoleSuperAdmin, nil
	}

	tm, err := r.store.FindTenantMembership(tenantID, user.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if tm != nil {
		return tm.Role, nil
	}

	return "", Forbidden("you do not have access to this workspace")
}

// CheckLastOwner rejects removing or demoting the sole remaining OWNER of a
// project. Call it before any membership mutation that lowers an owner.
func (r *MembershipResolver) CheckLastOwner(projectID uint, targetRole models.Role) error {
	if targetRole != models.RoleOwner {
		return nil
	}
	count, err := r.store.CountProjectRole(projectID, models.RoleOwner)
	if err != nil {
		return err
	}
	if count <= 1 {
		return Conflict("cannot remove or demote the last owner of a project")
	}
	return nil
}

// CheckLastTenantOwner is the tenant-level variant of CheckLastOwner.
func (r *MembershipResolver) CheckLastTenantOwner(tenantID uint, targetRole models.Role) error {
	if targetRole != models.RoleOwner {
		return nil
	}
	count, err := r.store.CountTenantRole(tenantID, models.RoleOwner)
	if err != nil {
		return err
	}
	if count <= 1 {
		return Conflict("cannot remove or demote the last owner of a workspace")
	}
	return nil
}

// GormMembershipStore backs the resolver with the application database.
type GormMembershipStore struct {
	DB *gorm.DB
}

func NewGormMembershipStore(db *gorm.DB) *GormMembershipStore {
	return &GormMembershipStore{DB: db}
}

func (s *GormMembershipStore) FindProject(id uint) (*models.Project, error) {
	var project models.Project
	if err := s.DB.First(&project, id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (s *GormMembershipStore) FindTenant(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.DB.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *GormMembershipStore) FindTenantMembership(tenantID, userID uint) (*models.TenantMembership, error) {
	var m models.TenantMembership
	if err := s.DB.Where("tenant_id = ? AND user_id = ?", tenantID, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormMembershipStore) FindProjectMembership(projectID, userID uint) (*models.ProjectMembership, error) {
	var m models.ProjectMembership
	if err := s.DB.Where("project_id = ? AND user_id = ?", projectID, userID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *GormMembershipStore) CountProjectRole(projectID uint, role models.Role) (int64, error) {
	var count int64
	err := s.DB.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND role = ?", projectID, role).
		Count(&count).Error
	return count, err
}

func (s *GormMembershipStore) CountTenantRole(tenantID uint, role models.Role) (int64, error) {
	var count int64
	err := s.DB.Model(&models.TenantMembership{}).
		Where("tenant_id = ? AND role = ?", tenantID, role).
		Count(&count).Error
	return count, err
}

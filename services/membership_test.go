package services

import (
	"net/http"
	"testing"
	"time"

	"gorm.io/gorm"

	"stackflow/models"
)

// fakeStore is an in-memory MembershipStore.
type fakeStore struct {
	projects    map[uint]*models.Project
	tenants     map[uint]*models.Tenant
	tenantRoles map[[2]uint]models.Role // [tenantID, userID]
	projRoles   map[[2]uint]models.Role // [projectID, userID]
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		projects:    map[uint]*models.Project{},
		tenants:     map[uint]*models.Tenant{},
		tenantRoles: map[[2]uint]models.Role{},
		projRoles:   map[[2]uint]models.Role{},
	}
}

func (f *fakeStore) FindProject(id uint) (*models.Project, error) {
	if p, ok := f.projects[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindTenant(id uint) (*models.Tenant, error) {
	if t, ok := f.tenants[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindTenantMembership(tenantID, userID uint) (*models.TenantMembership, error) {
	if role, ok := f.tenantRoles[[2]uint{tenantID, userID}]; ok {
		return &models.TenantMembership{TenantID: tenantID, UserID: userID, Role: role}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) FindProjectMembership(projectID, userID uint) (*models.ProjectMembership, error) {
	if role, ok := f.projRoles[[2]uint{projectID, userID}]; ok {
		return &models.ProjectMembership{ProjectID: projectID, UserID: userID, Role: role}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) CountProjectRole(projectID uint, role models.Role) (int64, error) {
	var n int64
	for key, r := range f.projRoles {
		if key[0] == projectID && r == role {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) CountTenantRole(tenantID uint, role models.Role) (int64, error) {
	var n int64
	for key, r := range f.tenantRoles {
		if key[0] == tenantID && r == role {
			n++
		}
	}
	return n, nil
}

func testUser(id uint) *models.User {
	u := &models.User{}
	u.ID = id
	return u
}

// One tenant (1) with one live project (10) and one trashed project (11).
func seededStore() *fakeStore {
	store := newFakeStore()
	store.tenants[1] = &models.Tenant{Name: "acme"}
	store.projects[10] = &models.Project{ID: 10, TenantID: 1, Name: "live"}
	trashedAt := time.Now().Add(-time.Hour)
	store.projects[11] = &models.Project{ID: 11, TenantID: 1, Name: "trashed", DeletedAt: &trashedAt}
	return store
}

func TestResolveProjectRoleTenantMembershipDominates(t *testing.T) {
	store := seededStore()
	store.tenantRoles[[2]uint{1, 5}] = models.RoleViewer
	store.projRoles[[2]uint{10, 5}] = models.RoleAdmin

	r := NewMembershipResolver(store)
	role, err := r.ResolveProjectRole(testUser(5), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != models.RoleViewer {
		t.Errorf("expected tenant role VIEWER to dominate project role, got %s", role)
	}
}

func TestResolveProjectRoleFallsBackToProjectMembership(t *testing.T) {
	store := seededStore()
	store.projRoles[[2]uint{10, 5}] = models.RoleMember

	r := NewMembershipResolver(store)
	role, err := r.ResolveProjectRole(testUser(5), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != models.RoleMember {
		t.Errorf("expected MEMBER, got %s", role)
	}
}

func TestResolveProjectRoleOutsiderIsForbidden(t *testing.T) {
	r := NewMembershipResolver(seededStore())
	_, err := r.ResolveProjectRole(testUser(99), 10)
	if KindOf(err) != KindForbidden {
		t.Errorf("expected forbidden, got %v", err)
	}
}

func TestResolveProjectRoleMissingProjectIsNotFound(t *testing.T) {
	r := NewMembershipResolver(seededStore())
	_, err := r.ResolveProjectRole(testUser(5), 404)
	if KindOf(err) != KindNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestResolveProjectRoleZeroIDIsBadRequest(t *testing.T) {
	r := NewMembershipResolver(seededStore())
	_, err := r.ResolveProjectRole(testUser(5), 0)
	if KindOf(err) != KindBadRequest {
		t.Errorf("expected bad request, got %v", err)
	}
}

func TestResolveProjectRoleTrashedProjectIsInvisible(t *testing.T) {
	store := seededStore()
	store.tenantRoles[[2]uint{1, 5}] = models.RoleOwner

	r := NewMembershipResolver(store)
	_, err := r.ResolveProjectRole(testUser(5), 11)
	if KindOf(err) != KindNotFound {
		t.Errorf("expected trashed project to resolve not found even for an owner, got %v", err)
	}
}

func TestResolveProjectRoleTrashedProjectHidesFromSuperAdmin(t *testing.T) {
	r := NewMembershipResolver(seededStore())
	admin := testUser(1)
	admin.IsSuperAdmin = true

	_, err := r.ResolveProjectRole(admin, 11)
	if KindOf(err) != KindNotFound {
		t.Errorf("expected not found for super admin on trashed project, got %v", err)
	}
}

func TestResolveProjectRoleSuperAdmin(t *testing.T) {
	r := NewMembershipResolver(seededStore())
	admin := testUser(1)
	admin.IsSuperAdmin = true

	role, err := r.ResolveProjectRole(admin, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != models.RoleSuperAdmin {
		t.Errorf("expected SUPER_ADMIN, got %s", role)
	}
}

func TestResolveErrorKindsMapToDistinctStatuses(t *testing.T) {
	r := NewMembershipResolver(seededStore())
	user := testUser(5)

	_, badReq := r.ResolveProjectRole(user, 0)
	_, notFound := r.ResolveProjectRole(user, 404)
	_, forbidden := r.ResolveProjectRole(user, 10)

	statuses := map[error]int{
		badReq:    http.StatusBadRequest,
		notFound:  http.StatusNotFound,
		forbidden: http.StatusForbidden,
	}
	for err, want := range statuses {
		if got := StatusCode(err); got != want {
			t.Errorf("StatusCode(%v) = %d, want %d", err, got, want)
		}
	}
}

func TestResolveTenantRole(t *testing.T) {
	store := seededStore()
	store.tenantRoles[[2]uint{1, 5}] = models.RoleAdmin

	r := NewMembershipResolver(store)
	role, err := r.ResolveTenantRole(testUser(5), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != models.RoleAdmin {
		t.Errorf("expected ADMIN, got %s", role)
	}

	if _, err := r.ResolveTenantRole(testUser(99), 1); KindOf(err) != KindForbidden {
		t.Errorf("expected forbidden for outsider, got %v", err)
	}
	if _, err := r.ResolveTenantRole(testUser(5), 404); KindOf(err) != KindNotFound {
		t.Errorf("expected not found for missing tenant, got %v", err)
	}
}

func TestCheckLastOwner(t *testing.T) {
	store := seededStore()
	store.projRoles[[2]uint{10, 1}] = models.RoleOwner
	store.projRoles[[2]uint{10, 2}] = models.RoleAdmin

	r := NewMembershipResolver(store)

	if err := r.CheckLastOwner(10, models.RoleOwner); KindOf(err) != KindConflict {
		t.Errorf("expected conflict demoting the sole owner, got %v", err)
	}
	if err := r.CheckLastOwner(10, models.RoleAdmin); err != nil {
		t.Errorf("demoting a non-owner must pass, got %v", err)
	}

	// A second owner lifts the restriction.
	store.projRoles[[2]uint{10, 3}] = models.RoleOwner
	if err := r.CheckLastOwner(10, models.RoleOwner); err != nil {
		t.Errorf("expected no error with two owners, got %v", err)
	}
}

func TestCheckLastTenantOwner(t *testing.T) {
	store := seededStore()
	store.tenantRoles[[2]uint{1, 1}] = models.RoleOwner

	r := NewMembershipResolver(store)
	if err := r.CheckLastTenantOwner(1, models.RoleOwner); KindOf(err) != KindConflict {
		t.Errorf("expected conflict for last workspace owner, got %v", err)
	}

	store.tenantRoles[[2]uint{1, 2}] = models.RoleOwner
	if err := r.CheckLastTenantOwner(1, models.RoleOwner); err != nil {
		t.Errorf("expected no error with two owners, got %v", err)
	}
}

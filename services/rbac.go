package services

import "github.com/edurecords/student-mis/models"

// Resources and actions the permission map speaks about.
const (
	ResourceUsers    = "users"
	ResourceData     = "data"
	ResourceReports  = "reports"
	ResourceSettings = "settings"
	ResourceBackup   = "backup"

	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionRestore = "restore"
)

// RBAC is the static role permission map consulted by the session layer.
// Only admins delete; the data warehouse operator inserts and updates but
// never deletes; supervisors create and view; teachers only view; every role
// can generate reports.
type RBAC struct {
	permissions map[models.Role]map[string][]string
}

func NewRBAC() *RBAC {
	return &RBAC{
		permissions: map[models.Role]map[string][]string{
			models.RoleAdmin: {
				ResourceUsers:    {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
				ResourceData:     {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
				ResourceReports:  {ActionRead, ActionCreate, ActionUpdate, ActionDelete},
				ResourceSettings: {ActionRead, ActionUpdate},
				ResourceBackup:   {ActionRead, ActionCreate, ActionRestore, ActionDelete},
			},
			models.RoleDataWarehouse: {
				ResourceUsers:    {ActionRead},
				ResourceData:     {ActionRead, ActionCreate, ActionUpdate},
				ResourceReports:  {ActionRead, ActionCreate},
				ResourceSettings: {ActionRead},
				ResourceBackup:   {ActionRead, ActionCreate, ActionRestore},
			},
			models.RoleSupervisor: {
				ResourceUsers:    {ActionRead},
				ResourceData:     {ActionRead, ActionCreate},
				ResourceReports:  {ActionRead, ActionCreate},
				ResourceSettings: {ActionRead},
				ResourceBackup:   {ActionRead},
			},
			models.RoleTeacher: {
				ResourceUsers:    {},
				ResourceData:     {ActionRead},
				ResourceReports:  {ActionRead, ActionCreate},
				ResourceSettings: {},
				ResourceBackup:   {},
			},
		},
	}
}

// CheckPermission reports whether role may perform action on resource.
func (r *RBAC) CheckPermission(role models.Role, resource, action string) bool {
	rolePermissions, ok := r.permissions[role]
	if !ok {
		return false
	}
	for _, allowed := range rolePermissions[resource] {
		if allowed == action {
			return true
		}
	}
	return false
}

// GetUserPermissions returns the full resource/action map for a role. The
// returned map is a copy; mutating it does not affect the RBAC table.
func (r *RBAC) GetUserPermissions(role models.Role) map[string][]string {
	rolePermissions, ok := r.permissions[role]
	if !ok {
		return map[string][]string{}
	}
	out := make(map[string][]string, len(rolePermissions))
	for resource, actions := range rolePermissions {
		out[resource] = append([]string(nil), actions...)
	}
	return out
}

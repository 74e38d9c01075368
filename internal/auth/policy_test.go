package auth

import (
	"testing"

	"github.com/stretchr/testify/require"

	"teamtrack/internal/models"
)

func uintPtr(v uint64) *uint64 {
	return &v
}

func TestPolicy_CanRead_SameProjectOnly(t *testing.T) {
	task := &models.Task{ID: 1, ProjectID: 10}

	admin := Claims{UserID: 1, Role: models.RoleAdmin, ProjectID: 10}
	member := Claims{UserID: 2, Role: models.RoleMember, ProjectID: 10}
	outsider := Claims{UserID: 3, Role: models.RoleAdmin, ProjectID: 99}

	require.True(t, PolicyFor(admin).CanRead(admin, task))
	require.True(t, PolicyFor(member).CanRead(member, task))
	require.False(t, PolicyFor(outsider).CanRead(outsider, task))
}

func TestPolicy_CanWrite_AdminBypassesOwnership(t *testing.T) {
	admin := Claims{UserID: 1, Role: models.RoleAdmin, ProjectID: 10}

	assignedToOther := &models.Task{ID: 1, ProjectID: 10, AssignedTo: uintPtr(2)}
	unassigned := &models.Task{ID: 2, ProjectID: 10}

	require.True(t, PolicyFor(admin).CanWrite(admin, assignedToOther))
	require.True(t, PolicyFor(admin).CanWrite(admin, unassigned))
}

func TestPolicy_CanWrite_MemberOnlyOwnTasks(t *testing.T) {
	member := Claims{UserID: 2, Role: models.RoleMember, ProjectID: 10}

	mine := &models.Task{ID: 1, ProjectID: 10, AssignedTo: uintPtr(2)}
	someoneElses := &models.Task{ID: 2, ProjectID: 10, AssignedTo: uintPtr(3)}
	unassigned := &models.Task{ID: 3, ProjectID: 10}

	policy := PolicyFor(member)
	require.True(t, policy.CanWrite(member, mine))
	require.False(t, policy.CanWrite(member, someoneElses))
	require.False(t, policy.CanWrite(member, unassigned), "unassigned tasks are admin-only")
}

func TestPolicy_CanWrite_NeverAcrossProjects(t *testing.T) {
	task := &models.Task{ID: 1, ProjectID: 10, AssignedTo: uintPtr(5)}

	foreignAdmin := Claims{UserID: 1, Role: models.RoleAdmin, ProjectID: 11}
	foreignAssignee := Claims{UserID: 5, Role: models.RoleMember, ProjectID: 11}

	require.False(t, PolicyFor(foreignAdmin).CanWrite(foreignAdmin, task))
	require.False(t, PolicyFor(foreignAssignee).CanWrite(foreignAssignee, task))
}

func TestPolicy_CanWrite_ZeroAssigneeTreatedAsUnassigned(t *testing.T) {
	member := Claims{UserID: 0, Role: models.RoleMember, ProjectID: 10}
	task := &models.Task{ID: 1, ProjectID: 10, AssignedTo: uintPtr(0)}

	require.False(t, PolicyFor(member).CanWrite(member, task))
}

func TestPolicy_RequireAdmin(t *testing.T) {
	admin := Claims{UserID: 1, Role: models.RoleAdmin, ProjectID: 10}
	member := Claims{UserID: 2, Role: models.RoleMember, ProjectID: 10}

	require.NoError(t, PolicyFor(admin).RequireAdmin())
	require.ErrorIs(t, PolicyFor(member).RequireAdmin(), ErrForbidden)
}

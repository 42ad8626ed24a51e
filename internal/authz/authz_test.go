package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

func admin(primary bool) repository.Principal {
	return repository.FromRecord(&repository.PrincipalRecord{ID: "a", Role: types.RoleAdmin, IsAdmin: true, IsPrimary: primary})
}

func client(role types.Role) repository.Principal {
	return repository.FromRecord(&repository.PrincipalRecord{ID: "c", Role: role})
}

func TestEnforcer_AdminLevels(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	assert.True(t, e.Allow(admin(false), ObjGroups, Write))
	assert.True(t, e.Allow(admin(false), ObjAdmins, Read))
	assert.False(t, e.Allow(admin(false), ObjAdmins, Write))
	assert.False(t, e.Allow(admin(false), ObjPrimaryAdmin, Write))

	assert.True(t, e.Allow(admin(true), ObjAdmins, Write))
	assert.True(t, e.Allow(admin(true), ObjPrimaryAdmin, Write))
	assert.True(t, e.Allow(admin(true), ObjAudit, Read))
}

func TestEnforcer_TeamLeaderIsCosmetic(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	objs := []string{ObjWorkspace, ObjBoard, ObjTeam, ObjExport}
	for _, o := range objs {
		assert.Equal(t, e.Allow(client(types.RoleClient), o, Read), e.Allow(client(types.RoleTeamLeader), o, Read), o)
	}
	assert.False(t, e.Allow(client(types.RoleTeamLeader), ObjGroups, Read))
	assert.False(t, e.Allow(client(types.RoleClient), ObjAudit, Read))
}

func TestEnforcer_PortalsDisjoint(t *testing.T) {
	e, err := New()
	require.NoError(t, err)
	assert.False(t, e.Allow(admin(true), ObjBoard, Read))
	assert.False(t, e.Allow(nil, ObjBoard, Read))
}

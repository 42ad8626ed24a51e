package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
)

func ptr[T any](v T) *T { return &v }

func countPublic(t *testing.T, repo repository.GroupRepository) int {
	t.Helper()
	pub, err := repo.ListPublic(context.Background())
	require.NoError(t, err)
	return len(pub)
}

func TestGroups_SetActiveConcurrentKeepsSingleActive(t *testing.T) {
	ctx := context.Background()
	repo := New().Groups()

	ids := make([]string, 0, 8)
	for i := 0; i < 8; i++ {
		g, err := repo.Create(ctx, repository.CreateGroupInput{Name: fmt.Sprintf("g%d", i)})
		require.NoError(t, err)
		assert.False(t, g.IsPublic)
		ids = append(ids, g.ID)
	}

	var wg sync.WaitGroup
	for round := 0; round < 20; round++ {
		for _, id := range ids {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				_, err := repo.SetActive(ctx, id)
				assert.NoError(t, err)
				assert.LessOrEqual(t, countPublic(t, repo), 1)
			}(id)
		}
	}
	wg.Wait()
	assert.Equal(t, 1, countPublic(t, repo))
}

func TestGroups_SetActiveReportsOnlyRealChanges(t *testing.T) {
	ctx := context.Background()
	repo := New().Groups()
	a, _ := repo.Create(ctx, repository.CreateGroupInput{Name: "Alpha"})
	b, _ := repo.Create(ctx, repository.CreateGroupInput{Name: "Beta"})

	ch, err := repo.SetActive(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, ch, 1)
	assert.Equal(t, a.ID, ch[0].Group.ID)
	assert.False(t, ch[0].Previous)
	assert.True(t, ch[0].Current)

	ch, err = repo.SetActive(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, ch)

	ch, err = repo.SetActive(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, ch, 2)
	assert.Equal(t, a.ID, ch[0].Group.ID)
	assert.False(t, ch[0].Current)
	assert.Equal(t, b.ID, ch[1].Group.ID)
	assert.True(t, ch[1].Current)

	_, err = repo.SetActive(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestGroups_NameUniqueCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := New().Groups()
	a, err := repo.Create(ctx, repository.CreateGroupInput{Name: "Alpha"})
	require.NoError(t, err)
	b, err := repo.Create(ctx, repository.CreateGroupInput{Name: "Beta"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, repository.CreateGroupInput{Name: "ALPHA"})
	assert.ErrorIs(t, err, repository.ErrConflict)

	_, err = repo.Update(ctx, b.ID, repository.UpdateGroupInput{Name: ptr("alpha")})
	assert.ErrorIs(t, err, repository.ErrConflict)

	// renombrar a sí mismo con otro casing es válido
	g, err := repo.Update(ctx, a.ID, repository.UpdateGroupInput{Name: ptr("ALPHA")})
	require.NoError(t, err)
	assert.Equal(t, "ALPHA", g.Name)
}

func TestPrincipals_FirstAdminIsPrimaryAndProtected(t *testing.T) {
	ctx := context.Background()
	repo := New().Principals()

	first, err := repo.Create(ctx, repository.CreatePrincipalInput{DisplayName: "Root", Login: ptr("root@x.io"), Role: types.RoleAdmin, IsAdmin: true})
	require.NoError(t, err)
	second, err := repo.Create(ctx, repository.CreatePrincipalInput{DisplayName: "Ops", Login: ptr("ops@x.io"), Role: types.RoleAdmin, IsAdmin: true})
	require.NoError(t, err)

	admin, ok := first.(*repository.AdminPrincipal)
	require.True(t, ok)
	assert.True(t, admin.Primary())
	assert.False(t, second.Record().IsPrimary)

	err = repo.Delete(ctx, first.PrincipalID())
	assert.ErrorIs(t, err, repository.ErrConflict)

	require.NoError(t, repo.SetPrimary(ctx, second.PrincipalID()))
	p1, _ := repo.GetByID(ctx, first.PrincipalID())
	p2, _ := repo.GetByID(ctx, second.PrincipalID())
	assert.False(t, p1.Record().IsPrimary)
	assert.True(t, p2.Record().IsPrimary)

	require.NoError(t, repo.Delete(ctx, first.PrincipalID()))
}

func TestPrincipals_LoginLookupIsCaseInsensitive(t *testing.T) {
	ctx := context.Background()
	repo := New().Principals()
	_, err := repo.Create(ctx, repository.CreatePrincipalInput{DisplayName: "Ana", Login: ptr("ana@x.io"), Role: types.RoleClient})
	require.NoError(t, err)

	_, err = repo.FindByLogin(ctx, "nobody@x.io")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	p, err := repo.FindByLogin(ctx, "ANA@x.io")
	require.NoError(t, err)
	_, isClient := p.(*repository.ClientPrincipal)
	assert.True(t, isClient)

	_, err = repo.Create(ctx, repository.CreatePrincipalInput{DisplayName: "Other", Login: ptr("ana@X.io"), Role: types.RoleClient})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTasks_CompletedAtFollowsTransitions(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	db := New(WithClock(func() time.Time { return base }))
	g, _ := db.Groups().Create(ctx, repository.CreateGroupInput{Name: "G"})

	task, err := db.Tasks().Create(ctx, repository.CreateTaskInput{
		Title: "t", GroupID: g.ID, CreatedBy: "u", Priority: types.PriorityMedium, Status: types.StatusPending, At: base,
	})
	require.NoError(t, err)
	assert.Nil(t, task.CompletedAt)

	done := base.Add(2 * time.Hour)
	ch, err := db.Tasks().Update(ctx, task.ID, repository.UpdateTaskInput{Status: ptr(types.StatusCompleted), At: done})
	require.NoError(t, err)
	require.NotNil(t, ch.After.CompletedAt)
	assert.Equal(t, done, *ch.After.CompletedAt)
	assert.Equal(t, types.StatusPending, ch.Before.Status)

	// seguir en completed preserva el timestamp
	ch, err = db.Tasks().Update(ctx, task.ID, repository.UpdateTaskInput{Status: ptr(types.StatusCompleted), At: done.Add(time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, done, *ch.After.CompletedAt)

	ch, err = db.Tasks().Update(ctx, task.ID, repository.UpdateTaskInput{Status: ptr(types.StatusInProgress), At: done.Add(2 * time.Hour)})
	require.NoError(t, err)
	assert.Nil(t, ch.After.CompletedAt)
}

func TestAudit_QueryNewestFirstWithLimit(t *testing.T) {
	ctx := context.Background()
	repo := New().Audit()
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Append(ctx, repository.AuditEntry{Action: fmt.Sprintf("A%d", i), EntityType: "group"}))
	}
	out, err := repo.Query(ctx, repository.AuditFilter{}, 3)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "A4", out[0].Action)
	assert.Equal(t, "A2", out[2].Action)
}

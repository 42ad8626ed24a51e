package client

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/tasktrack/internal/audit"
	"github.com/dropDatabas3/tasktrack/internal/domain/repository"
	"github.com/dropDatabas3/tasktrack/internal/domain/types"
	"github.com/dropDatabas3/tasktrack/internal/http/services/common"
	"github.com/dropDatabas3/tasktrack/internal/store/adapters/memory"
)

func ptr[T any](v T) *T { return &v }

type fixture struct {
	db     *memory.DB
	rec    *audit.Recorder
	svc    Service
	group  *repository.Group
	other  *repository.Group
	member repository.Principal
	admin  repository.Principal
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	db := memory.New(memory.WithClock(clock))
	f := &fixture{db: db, rec: audit.New(db.Audit(), audit.WithClock(clock))}
	f.svc = NewService(Deps{
		Principals: db.Principals(),
		Groups:     db.Groups(),
		Tasks:      db.Tasks(),
		Audit:      f.rec,
		Now:        clock,
	})

	var err error
	f.group, err = db.Groups().Create(ctx, repository.CreateGroupInput{Name: "Alpha"})
	require.NoError(t, err)
	f.other, err = db.Groups().Create(ctx, repository.CreateGroupInput{Name: "Beta"})
	require.NoError(t, err)
	_, err = db.Groups().SetActive(ctx, f.group.ID)
	require.NoError(t, err)

	f.member, err = db.Principals().Create(ctx, repository.CreatePrincipalInput{
		DisplayName: "Ana", Login: ptr("ana@x.io"), CredentialHash: "x", Role: types.RoleClient, GroupID: &f.group.ID,
	})
	require.NoError(t, err)
	f.admin, err = db.Principals().Create(ctx, repository.CreatePrincipalInput{
		DisplayName: "Root", Login: ptr("root@x.io"), CredentialHash: "x", Role: types.RoleAdmin, IsAdmin: true,
	})
	require.NoError(t, err)
	return f
}

func TestBoard_FiltersKeepGroupStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateTask(ctx, f.group.ID, f.member, common.TaskDraft{Title: "Write docs", Priority: types.PriorityHigh})
	require.NoError(t, err)
	_, err = f.svc.CreateTask(ctx, f.group.ID, f.member, common.TaskDraft{Title: "Review", AssigneeID: ptr(f.member.PrincipalID())})
	require.NoError(t, err)

	b, err := f.svc.Board(ctx, f.group.ID, BoardFilter{Priority: types.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, b.Tasks, 1)
	assert.Equal(t, "Write docs", b.Tasks[0].Title)
	assert.Equal(t, 2, b.Stats.Total)

	b, err = f.svc.Board(ctx, f.group.ID, BoardFilter{AssigneeID: "unassigned"})
	require.NoError(t, err)
	require.Len(t, b.Tasks, 1)
	assert.Nil(t, b.Tasks[0].AssigneeID)

	b, err = f.svc.Board(ctx, f.group.ID, BoardFilter{Search: "REVIEW"})
	require.NoError(t, err)
	assert.Len(t, b.Tasks, 1)
}

func TestWorkspaceUnavailable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Board(ctx, f.other.ID, BoardFilter{})
	assert.ErrorIs(t, err, ErrWorkspaceUnavailable)

	_, err = f.db.Groups().Deactivate(ctx, f.group.ID)
	require.NoError(t, err)

	_, err = f.svc.Board(ctx, f.group.ID, BoardFilter{})
	assert.ErrorIs(t, err, ErrWorkspaceUnavailable)
	_, err = f.svc.CreateTask(ctx, f.group.ID, f.member, common.TaskDraft{Title: "x"})
	assert.ErrorIs(t, err, ErrWorkspaceUnavailable)
	_, err = f.svc.Team(ctx, f.group.ID)
	assert.ErrorIs(t, err, ErrWorkspaceUnavailable)
}

func TestTasks_OtherGroupIsHidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	foreign, err := f.db.Tasks().Create(ctx, repository.CreateTaskInput{
		Title: "secret", GroupID: f.other.ID, CreatedBy: "root", Priority: types.PriorityLow, Status: types.StatusPending,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateTask(ctx, f.group.ID, foreign.ID, repository.UpdateTaskInput{Title: ptr("mine")})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	err = f.svc.DeleteTask(ctx, f.group.ID, foreign.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.svc.CreateTask(ctx, f.group.ID, f.member, common.TaskDraft{Title: "x", AssigneeID: ptr(f.admin.PrincipalID())})
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestTasks_UpdateAndDeleteRecordAudit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := f.svc.CreateTask(ctx, f.group.ID, f.member, common.TaskDraft{Title: "Ship"})
	require.NoError(t, err)
	assert.Equal(t, f.member.PrincipalID(), task.CreatedBy)

	got, err := f.svc.UpdateTask(ctx, f.group.ID, task.ID, repository.UpdateTaskInput{Status: ptr(types.StatusCompleted)})
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)

	_, err = f.svc.UpdateTask(ctx, f.group.ID, task.ID, repository.UpdateTaskInput{})
	assert.ErrorIs(t, err, common.ErrNoFieldsToUpdate)

	require.NoError(t, f.svc.DeleteTask(ctx, f.group.ID, task.ID))

	entries, err := f.rec.Query(ctx, repository.AuditFilter{EntityType: audit.EntityTask}, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, audit.ActionDelete, entries[0].Action)
	assert.Equal(t, audit.ActionUpdate, entries[1].Action)
	assert.Equal(t, audit.ActionCreate, entries[2].Action)
}

func TestTeam_ExcludesAdmins(t *testing.T) {
	f := newFixture(t)
	team, err := f.svc.Team(context.Background(), f.group.ID)
	require.NoError(t, err)
	require.Len(t, team, 1)
	assert.Equal(t, f.member.PrincipalID(), team[0].PrincipalID())
}

func TestExport_WritesCSVAndAudits(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.svc.CreateTask(ctx, f.group.ID, f.member, common.TaskDraft{
		Title: "Plan, then build", AssigneeID: ptr(f.member.PrincipalID()),
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := f.svc.Export(ctx, f.group.ID, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "Plan, then build", rows[1][1])
	assert.Equal(t, "Ana", rows[1][5])

	entries, err := f.rec.Query(ctx, repository.AuditFilter{Action: audit.ActionExportTasks}, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Details["count"])
}

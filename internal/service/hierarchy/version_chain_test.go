package hierarchy

import (
	"context"
	"testing"
	"time"

	"docspace/internal/domain"
	models "docspace/internal/domain/models/hierarchy"
	hierarchyRepo "docspace/internal/domain/repositories/hierarchy"
	"docspace/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var versionTime = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newVersionChain(t *testing.T) (*VersionChain, hierarchyRepo.FileRepository) {
	t.Helper()
	files := memory.NewFileRepository(memory.NewStore())
	chain := NewVersionChain(files, discardLogger())
	require.NoError(t, chain.Create(context.Background(), &models.File{
		ID:            "doc",
		TenantID:      testTenant,
		FolderID:      "A",
		Title:         "report.docx",
		ContentLength: 10,
		CreatedBy:     testUser,
		CreatedAt:     versionTime,
		ModifiedAt:    versionTime,
	}))
	return chain, files
}

func appendVersion(t *testing.T, chain *VersionChain, size int64, forcesave models.ForcesaveState) *models.File {
	t.Helper()
	row, err := chain.AppendVersion(context.Background(), testTenant, "doc", models.NewVersion{
		ContentLength: size,
		Forcesave:     forcesave,
	}, testUser, versionTime.Add(time.Hour))
	require.NoError(t, err)
	return row
}

// groups renders the chain as version:group pairs with a * on the current row
func groups(t *testing.T, files hierarchyRepo.FileRepository) []string {
	t.Helper()
	versions, err := files.ListVersions(context.Background(), testTenant, "doc")
	require.NoError(t, err)
	out := make([]string, len(versions))
	for i, v := range versions {
		mark := ""
		if v.CurrentVersion {
			mark = "*"
		}
		out[i] = string(rune('0'+v.Version)) + ":" + string(rune('0'+v.VersionGroup)) + mark
	}
	return out
}

func TestVersionChain_AppendOpensGroups(t *testing.T) {
	chain, files := newVersionChain(t)

	v2 := appendVersion(t, chain, 20, models.ForcesaveNone)
	assert.Equal(t, 2, v2.Version)
	assert.Equal(t, 2, v2.VersionGroup)
	assert.True(t, v2.CurrentVersion)
	assert.Equal(t, "report.docx", v2.Title, "empty title keeps the current one")
	assert.Equal(t, versionTime, v2.CreatedAt)

	v3 := appendVersion(t, chain, 30, models.ForcesaveUser)
	assert.Equal(t, 2, v3.VersionGroup, "forcesave joins the superseded version's group")

	appendVersion(t, chain, 40, "")
	assert.Equal(t, []string{"1:1", "2:2", "3:2", "4:3*"}, groups(t, files))
}

func TestVersionChain_PromoteKeepsSingleCurrent(t *testing.T) {
	ctx := context.Background()
	chain, files := newVersionChain(t)
	appendVersion(t, chain, 20, models.ForcesaveNone)

	promoted, err := chain.PromoteVersion(ctx, testTenant, "doc", 1)
	require.NoError(t, err)
	assert.True(t, promoted.CurrentVersion)
	assert.Equal(t, []string{"1:1*", "2:2"}, groups(t, files))

	_, err = chain.PromoteVersion(ctx, testTenant, "doc", 7)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVersionChain_DeleteCurrentFails(t *testing.T) {
	chain, files := newVersionChain(t)
	appendVersion(t, chain, 20, models.ForcesaveNone)

	_, err := chain.DeleteVersion(context.Background(), testTenant, "doc", 2)
	require.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, []string{"1:1", "2:2*"}, groups(t, files))
}

func TestVersionChain_DeleteRenumbersEmptiedGroup(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		delete int
		want   []string
	}{
		// 1:1 2:2 3:2 4:3 5:4*
		{"group still populated", 2, []string{"1:1", "3:2", "4:3", "5:4*"}},
		{"group emptied", 4, []string{"1:1", "2:2", "3:2", "5:3*"}},
		{"first group emptied", 1, []string{"2:1", "3:1", "4:2", "5:3*"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, files := newVersionChain(t)
			appendVersion(t, chain, 20, models.ForcesaveNone)
			appendVersion(t, chain, 30, models.ForcesaveSystem)
			appendVersion(t, chain, 40, models.ForcesaveNone)
			appendVersion(t, chain, 50, models.ForcesaveNone)
			require.Equal(t, []string{"1:1", "2:2", "3:2", "4:3", "5:4*"}, groups(t, files))

			deleted, err := chain.DeleteVersion(ctx, testTenant, "doc", tt.delete)
			require.NoError(t, err)
			assert.Equal(t, tt.delete, deleted.Version)
			assert.Equal(t, tt.want, groups(t, files))
		})
	}
}

func TestVersionChain_AppendThenDeleteRoundTrip(t *testing.T) {
	ctx := context.Background()

	for _, forcesave := range []models.ForcesaveState{models.ForcesaveNone, models.ForcesaveUser} {
		t.Run(string(forcesave), func(t *testing.T) {
			chain, files := newVersionChain(t)
			appendVersion(t, chain, 20, models.ForcesaveNone)

			before, err := files.ListVersions(ctx, testTenant, "doc")
			require.NoError(t, err)

			added := appendVersion(t, chain, 99, forcesave)
			_, err = chain.PromoteVersion(ctx, testTenant, "doc", 2)
			require.NoError(t, err)
			_, err = chain.DeleteVersion(ctx, testTenant, "doc", added.Version)
			require.NoError(t, err)

			after, err := files.ListVersions(ctx, testTenant, "doc")
			require.NoError(t, err)
			assert.Equal(t, before, after)

			next := appendVersion(t, chain, 1, models.ForcesaveNone)
			assert.Equal(t, added.Version+1, next.Version, "version numbers are never reused")
		})
	}
}

func TestVersionChain_StableVersionAt(t *testing.T) {
	ctx := context.Background()
	chain, _ := newVersionChain(t)
	appendVersion(t, chain, 20, models.ForcesaveUser)   // 2
	appendVersion(t, chain, 30, models.ForcesaveSystem) // 3
	appendVersion(t, chain, 40, models.ForcesaveSystem) // 4

	tests := []struct {
		max  int
		want int
	}{
		{0, 2},
		{4, 2},
		{3, 2},
		{1, 1},
	}
	for _, tt := range tests {
		stable, err := chain.StableVersionAt(ctx, testTenant, "doc", tt.max)
		require.NoError(t, err)
		assert.Equal(t, tt.want, stable.Version, "max %d", tt.max)
	}

	_, err := chain.StableVersionAt(ctx, testTenant, "missing", 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExpectCurrent(t *testing.T) {
	current := &models.File{ID: "doc", Version: 3}
	assert.NoError(t, ExpectCurrent(current, 0))
	assert.NoError(t, ExpectCurrent(current, 3))
	assert.ErrorIs(t, ExpectCurrent(current, 2), domain.ErrConcurrentModification)
}

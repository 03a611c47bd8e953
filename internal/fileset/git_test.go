package fileset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T, files map[string]string) (string, *git.Worktree) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for path, content := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
		_, err = wt.Add(path)
		require.NoError(t, err)
	}

	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	return dir, wt
}

func TestTracked(t *testing.T) {
	dir, _ := initTestRepo(t, map[string]string{
		"README.md":   "readme\n",
		"src/main.go": "package main\n",
		"src/util.go": "package main\n",
	})

	files, err := Tracked(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "src/main.go", "src/util.go"}, files)
}

func TestTrackedNotARepo(t *testing.T) {
	_, err := Tracked(t.TempDir())
	assert.ErrorContains(t, err, "open git repository")
}

func TestStaged(t *testing.T) {
	dir, wt := initTestRepo(t, map[string]string{
		"README.md": "readme\n",
		"old.txt":   "old\n",
	})

	// Stage a new file and a modification; leave one file untouched and
	// stage a deletion.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("new\n"), 0o644))
	_, err := wt.Add("new.txt")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("changed\n"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)

	_, err = wt.Remove("old.txt")
	require.NoError(t, err)

	files, err := Staged(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"README.md", "new.txt"}, files, "staged deletions are omitted")
}

func TestStagedCleanTree(t *testing.T) {
	dir, _ := initTestRepo(t, map[string]string{"a.txt": "a\n"})

	files, err := Staged(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

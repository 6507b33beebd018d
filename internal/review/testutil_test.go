package review

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"gtd-review/internal/repository"
)

// testEnv bundles the repositories and core objects a test may need, all
// backed by one throwaway sqlite file.
type testEnv struct {
	db       *gorm.DB
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	sessions *repository.SessionRepository
	reviews  *repository.ReviewRepository
	metrics  *repository.MetricsRepository
	loader   *Loader
	manager  *Manager
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewDB failed: %v", err)
	}

	env := &testEnv{
		db:       db,
		tasks:    repository.NewTaskRepository(db),
		projects: repository.NewProjectRepository(db),
		sessions: repository.NewSessionRepository(db),
		reviews:  repository.NewReviewRepository(db),
		metrics:  repository.NewMetricsRepository(db),
	}
	env.loader = NewLoader(env.tasks, env.projects, env.reviews)
	env.manager = NewManager(env.sessions, env.reviews, env.metrics, env.loader)
	return env
}

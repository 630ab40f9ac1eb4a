package services_test

import (
	"context"
	"sort"
	"time"

	"taskdeck/internal/models"
	"taskdeck/internal/storage"
)

// fakeUserStore keeps users in memory keyed by email.
type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]models.User{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Email]; ok {
		return storage.ErrDuplicate
	}
	f.users[user.Email] = *user
	return nil
}

func (f *fakeUserStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) FindUserByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return &user, nil
		}
	}
	return nil, storage.ErrNotFound
}

// fakeTaskStore mirrors the ordering guarantees of the Postgres store.
type fakeTaskStore struct {
	tasks map[string]models.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: map[string]models.Task{}}
}

func (f *fakeTaskStore) CreateTask(_ context.Context, task *models.Task) error {
	f.tasks[task.ID] = cloneTask(*task)
	return nil
}

func (f *fakeTaskStore) ListTasks(_ context.Context, userID, status string) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		if task.UserID != userID {
			continue
		}
		if status != "" && task.Status != status {
			continue
		}
		tasks = append(tasks, cloneTask(task))
	}
	sortByDueDate(tasks)
	return tasks, nil
}

func (f *fakeTaskStore) FindTaskByID(_ context.Context, id string) (*models.Task, error) {
	task, ok := f.tasks[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	task = cloneTask(task)
	return &task, nil
}

func (f *fakeTaskStore) UpdateTask(_ context.Context, task *models.Task, replaceChecklist bool) error {
	stored, ok := f.tasks[task.ID]
	if !ok {
		return storage.ErrNotFound
	}
	updated := cloneTask(*task)
	if !replaceChecklist {
		updated.Checklist = stored.Checklist
	}
	f.tasks[task.ID] = updated
	return nil
}

func (f *fakeTaskStore) DeleteTask(_ context.Context, id, userID string) (int64, error) {
	task, ok := f.tasks[id]
	if !ok || task.UserID != userID {
		return 0, nil
	}
	delete(f.tasks, id)
	return 1, nil
}

func (f *fakeTaskStore) CountTasksCreatedSince(_ context.Context, userID string, since time.Time) (int, error) {
	count := 0
	for _, task := range f.tasks {
		if task.UserID == userID && !task.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) CountTasksCompletedSince(_ context.Context, userID string, since time.Time) (int, error) {
	count := 0
	for _, task := range f.tasks {
		if task.UserID == userID && task.Status == models.StatusCompleted && !task.UpdatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) ListUpcomingTasks(_ context.Context, userID string, limit int) ([]models.Task, error) {
	var tasks []models.Task
	for _, task := range f.tasks {
		if task.UserID == userID && task.Status != models.StatusCompleted {
			tasks = append(tasks, cloneTask(task))
		}
	}
	sortByDueDate(tasks)
	if len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks, nil
}

// fakeMemoStore keeps memos in insertion order.
type fakeMemoStore struct {
	memos []models.Memo
}

func (f *fakeMemoStore) CreateMemo(_ context.Context, memo *models.Memo) error {
	f.memos = append(f.memos, *memo)
	return nil
}

func (f *fakeMemoStore) ListMemos(_ context.Context, userID string, limit int) ([]models.Memo, error) {
	var memos []models.Memo
	for _, memo := range f.memos {
		if memo.UserID == userID {
			memos = append(memos, memo)
		}
	}
	sort.SliceStable(memos, func(i, j int) bool {
		return memos[i].CreatedAt.After(memos[j].CreatedAt)
	})
	if limit > 0 && len(memos) > limit {
		memos = memos[:limit]
	}
	return memos, nil
}

func mustUserWithoutHash(email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:        "provisioned-" + email,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func cloneTask(task models.Task) models.Task {
	task.Checklist = append([]models.ChecklistItem(nil), task.Checklist...)
	return task
}

func sortByDueDate(tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case a.DueDate.Equal(*b.DueDate):
			return a.CreatedAt.Before(b.CreatedAt)
		default:
			return a.DueDate.Before(*b.DueDate)
		}
	})
}

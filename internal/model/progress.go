package model

import "context"

// LoadResult describes how a stored record was obtained.
type LoadResult string

const (
	LoadFound   LoadResult = "found"
	LoadMissing LoadResult = "missing"
	LoadCorrupt LoadResult = "corrupt"
	LoadTimeout LoadResult = "timeout"
	LoadFailed  LoadResult = "failed"
)

// UserDataRepository reads and writes the whole user record. Load never fails:
// every failure path degrades to DefaultUserData.
type UserDataRepository interface {
	Load(ctx context.Context) (UserData, LoadResult)
	Save(ctx context.Context, data UserData) error
	Clear(ctx context.Context) error
}

// ReminderScheduler enables and disables reminder notifications.
type ReminderScheduler interface {
	RequestPermission(ctx context.Context) (bool, error)
	ScheduleDailyReminders(ctx context.Context) error
	CancelAll(ctx context.Context) error
}

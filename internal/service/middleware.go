package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"todolist-api/internal/cache"
	"todolist-api/internal/metrics"
	"todolist-api/internal/models"
)

type TaskMiddleware func(TaskService) TaskService

type AuthMiddleware func(AuthService) AuthService

// ChainTask applies mws so that the first one is the outermost.
func ChainTask(s TaskService, mws ...TaskMiddleware) TaskService {
	for i := len(mws) - 1; i >= 0; i-- {
		s = mws[i](s)
	}
	return s
}

func resultOf(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.Is(err, ErrTaskNotFound):
		return metrics.ResultNotFound
	case errors.Is(err, ErrInvalidCredentials), errors.As(err, &verr):
		return metrics.ResultInvalid
	default:
		return metrics.ResultFailure
	}
}

func TaskLoggingMiddleware(logger *zap.Logger) TaskMiddleware {
	return func(next TaskService) TaskService {
		return taskLoggingMiddleware{logger, next}
	}
}

type taskLoggingMiddleware struct {
	logger *zap.Logger
	next   TaskService
}

func (mw taskLoggingMiddleware) log(method string, begin time.Time, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("method", method),
		zap.Duration("took", time.Since(begin)),
	)
	if err != nil {
		mw.logger.Warn("Task operation failed", append(fields, zap.Error(err))...)
		return
	}
	mw.logger.Info("Task operation", fields...)
}

func (mw taskLoggingMiddleware) ListTasks(ctx context.Context, userID int64, filter string) (tasks []models.Task, err error) {
	defer func(begin time.Time) {
		mw.log("ListTasks", begin, err, zap.Int64("user_id", userID), zap.String("filter", filter), zap.Int("count", len(tasks)))
	}(time.Now())
	return mw.next.ListTasks(ctx, userID, filter)
}

func (mw taskLoggingMiddleware) GetTask(ctx context.Context, id, userID int64) (task *models.Task, err error) {
	defer func(begin time.Time) {
		mw.log("GetTask", begin, err, zap.Int64("user_id", userID), zap.Int64("task_id", id))
	}(time.Now())
	return mw.next.GetTask(ctx, id, userID)
}

func (mw taskLoggingMiddleware) CreateTask(ctx context.Context, in models.TaskInput, userID int64) (task *models.Task, err error) {
	defer func(begin time.Time) {
		var id int64
		if task != nil {
			id = task.ID
		}
		mw.log("CreateTask", begin, err, zap.Int64("user_id", userID), zap.Int64("task_id", id))
	}(time.Now())
	return mw.next.CreateTask(ctx, in, userID)
}

func (mw taskLoggingMiddleware) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate, userID int64) (task *models.Task, err error) {
	defer func(begin time.Time) {
		mw.log("UpdateTask", begin, err, zap.Int64("user_id", userID), zap.Int64("task_id", id), zap.Bool("is_completed", upd.IsCompleted))
	}(time.Now())
	return mw.next.UpdateTask(ctx, id, upd, userID)
}

func (mw taskLoggingMiddleware) DeleteTask(ctx context.Context, id, userID int64) (deleted bool, err error) {
	defer func(begin time.Time) {
		mw.log("DeleteTask", begin, err, zap.Int64("user_id", userID), zap.Int64("task_id", id), zap.Bool("deleted", deleted))
	}(time.Now())
	return mw.next.DeleteTask(ctx, id, userID)
}

func (mw taskLoggingMiddleware) ToggleTask(ctx context.Context, id, userID int64) (task *models.Task, err error) {
	defer func(begin time.Time) {
		mw.log("ToggleTask", begin, err, zap.Int64("user_id", userID), zap.Int64("task_id", id))
	}(time.Now())
	return mw.next.ToggleTask(ctx, id, userID)
}

func (mw taskLoggingMiddleware) GetStatistics(ctx context.Context, userID int64) (stats models.TaskStatistics, err error) {
	defer func(begin time.Time) {
		mw.log("GetStatistics", begin, err, zap.Int64("user_id", userID))
	}(time.Now())
	return mw.next.GetStatistics(ctx, userID)
}

func TaskInstrumentingMiddleware(rec metrics.Recorder) TaskMiddleware {
	return func(next TaskService) TaskService {
		return taskInstrumentingMiddleware{rec, next}
	}
}

type taskInstrumentingMiddleware struct {
	rec  metrics.Recorder
	next TaskService
}

func (mw taskInstrumentingMiddleware) ListTasks(ctx context.Context, userID int64, filter string) (tasks []models.Task, err error) {
	defer func() { mw.rec.RecordTaskOperation("list", resultOf(err)) }()
	return mw.next.ListTasks(ctx, userID, filter)
}

func (mw taskInstrumentingMiddleware) GetTask(ctx context.Context, id, userID int64) (task *models.Task, err error) {
	defer func() { mw.rec.RecordTaskOperation("get", resultOf(err)) }()
	return mw.next.GetTask(ctx, id, userID)
}

func (mw taskInstrumentingMiddleware) CreateTask(ctx context.Context, in models.TaskInput, userID int64) (task *models.Task, err error) {
	defer func() { mw.rec.RecordTaskOperation("create", resultOf(err)) }()
	return mw.next.CreateTask(ctx, in, userID)
}

func (mw taskInstrumentingMiddleware) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate, userID int64) (task *models.Task, err error) {
	defer func() { mw.rec.RecordTaskOperation("update", resultOf(err)) }()
	return mw.next.UpdateTask(ctx, id, upd, userID)
}

func (mw taskInstrumentingMiddleware) DeleteTask(ctx context.Context, id, userID int64) (deleted bool, err error) {
	defer func() {
		result := resultOf(err)
		if err == nil && !deleted {
			result = metrics.ResultNotFound
		}
		mw.rec.RecordTaskOperation("delete", result)
	}()
	return mw.next.DeleteTask(ctx, id, userID)
}

func (mw taskInstrumentingMiddleware) ToggleTask(ctx context.Context, id, userID int64) (task *models.Task, err error) {
	defer func() { mw.rec.RecordTaskOperation("toggle", resultOf(err)) }()
	return mw.next.ToggleTask(ctx, id, userID)
}

func (mw taskInstrumentingMiddleware) GetStatistics(ctx context.Context, userID int64) (stats models.TaskStatistics, err error) {
	defer func() { mw.rec.RecordTaskOperation("statistics", resultOf(err)) }()
	return mw.next.GetStatistics(ctx, userID)
}

// TaskCachingMiddleware reads single tasks through c. Mutations write the
// store first and then drop the entry, so a read racing with them can at
// most refill a stale copy for cache.MaxFillTTL. Lists and statistics
// always go to the store.
func TaskCachingMiddleware(c cache.TaskCache) TaskMiddleware {
	return func(next TaskService) TaskService {
		return taskCachingMiddleware{c, next}
	}
}

type taskCachingMiddleware struct {
	cache cache.TaskCache
	next  TaskService
}

func (mw taskCachingMiddleware) ListTasks(ctx context.Context, userID int64, filter string) ([]models.Task, error) {
	return mw.next.ListTasks(ctx, userID, filter)
}

func (mw taskCachingMiddleware) GetTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	if task, ok := mw.cache.Get(ctx, userID, id); ok {
		return task, nil
	}
	task, err := mw.next.GetTask(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	mw.cache.Add(ctx, task)
	return task, nil
}

func (mw taskCachingMiddleware) CreateTask(ctx context.Context, in models.TaskInput, userID int64) (*models.Task, error) {
	task, err := mw.next.CreateTask(ctx, in, userID)
	if err != nil {
		return nil, err
	}
	mw.cache.Set(ctx, task)
	return task, nil
}

func (mw taskCachingMiddleware) UpdateTask(ctx context.Context, id int64, upd models.TaskUpdate, userID int64) (*models.Task, error) {
	defer mw.cache.Delete(ctx, userID, id)
	return mw.next.UpdateTask(ctx, id, upd, userID)
}

func (mw taskCachingMiddleware) DeleteTask(ctx context.Context, id, userID int64) (bool, error) {
	defer mw.cache.Delete(ctx, userID, id)
	return mw.next.DeleteTask(ctx, id, userID)
}

func (mw taskCachingMiddleware) ToggleTask(ctx context.Context, id, userID int64) (*models.Task, error) {
	defer mw.cache.Delete(ctx, userID, id)
	return mw.next.ToggleTask(ctx, id, userID)
}

func (mw taskCachingMiddleware) GetStatistics(ctx context.Context, userID int64) (models.TaskStatistics, error) {
	return mw.next.GetStatistics(ctx, userID)
}

// AuthLoggingMiddleware writes login and registration outcomes to logger.
// Passwords are never logged.
func AuthLoggingMiddleware(logger *zap.Logger) AuthMiddleware {
	return func(next AuthService) AuthService {
		return authLoggingMiddleware{logger, next}
	}
}

type authLoggingMiddleware struct {
	logger *zap.Logger
	next   AuthService
}

func (mw authLoggingMiddleware) Authenticate(ctx context.Context, email, password string) (res *models.LoginResult, err error) {
	defer func() {
		switch {
		case err == nil:
			mw.logger.Info("Login succeeded", zap.String("email", email))
		case errors.Is(err, ErrInvalidCredentials):
			mw.logger.Warn("Login failed", zap.String("email", email))
		default:
			mw.logger.Error("Login error", zap.String("email", email), zap.Error(err))
		}
	}()
	return mw.next.Authenticate(ctx, email, password)
}

func (mw authLoggingMiddleware) Register(ctx context.Context, reg models.Registration) (user *models.User, err error) {
	defer func() {
		if err != nil {
			mw.logger.Warn("Registration rejected", zap.String("email", reg.Email), zap.Error(err))
			return
		}
		mw.logger.Info("User registered", zap.Int64("user_id", user.ID), zap.String("email", user.Email))
	}()
	return mw.next.Register(ctx, reg)
}

func AuthInstrumentingMiddleware(rec metrics.Recorder) AuthMiddleware {
	return func(next AuthService) AuthService {
		return authInstrumentingMiddleware{rec, next}
	}
}

type authInstrumentingMiddleware struct {
	rec  metrics.Recorder
	next AuthService
}

func (mw authInstrumentingMiddleware) Authenticate(ctx context.Context, email, password string) (res *models.LoginResult, err error) {
	defer func() { mw.rec.RecordLoginAttempt(resultOf(err)) }()
	return mw.next.Authenticate(ctx, email, password)
}

func (mw authInstrumentingMiddleware) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	return mw.next.Register(ctx, reg)
}

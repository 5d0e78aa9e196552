package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"token-rewards-dashboard/internal/model"
	"token-rewards-dashboard/internal/pkg/lock"
	"token-rewards-dashboard/internal/repository"
)

// Common errors for task operations.
var (
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrTaskOnCooldown       = errors.New("task is on cooldown")
	ErrStakeRequired        = errors.New("task requires an active stake")
	ErrEmptyTitle           = errors.New("task title must not be empty")
	ErrInvalidReward        = errors.New("task reward must be positive")
	ErrInvalidCooldown      = errors.New("task cooldown must not be negative")
)

// TaskService handles task claims and the admin-managed catalog. Claim
// policy is decided by the task's own fields, never by its id:
//
//   - approval-required: claiming appends a pending task_submission instead
//     of crediting; the completion stamp is written at submission time
//   - one-time (OneTime flag or zero cooldown): claimable once
//   - cooldown: claimable again once the cooldown has elapsed
//   - stake-gated (RequiresStake): additionally needs StakedBalance > 0
type TaskService struct {
	store *repository.Store
	locks *lock.AccountLock

	now func() time.Time
}

// NewTaskService creates a new TaskService instance.
func NewTaskService(store *repository.Store, locks *lock.AccountLock) *TaskService {
	return &TaskService{store: store, locks: locks, now: time.Now}
}

// Tasks returns the current task catalog.
func (s *TaskService) Tasks() []*model.Task {
	return s.store.Tasks()
}

// Claim attempts to claim the task for the account. submission is the
// optional free-text payload carried on approval-required tasks. An
// ineligible claim fails with no state change.
func (s *TaskService) Claim(ctx context.Context, uid, taskID, submission string) error {
	return s.locks.WithLock(uid, func() error {
		return s.store.Update(ctx, func(st *model.State) error {
			acct, ok := st.Accounts[uid]
			if !ok {
				return repository.ErrAccountNotFound
			}
			task := findTask(st, taskID)
			if task == nil {
				return repository.ErrTaskNotFound
			}

			now := s.now()
			if err := checkEligibility(acct, task, now); err != nil {
				return err
			}

			if task.RequiresApproval {
				desc := fmt.Sprintf("Submission request for task: %s", task.Title)
				if submission != "" {
					desc += " - " + submission
				}
				tx := newTransaction(uid, model.TxTypeTaskSubmission, task.Reward, desc, model.TxStatusPending, now)
				tx.TaskID = task.ID
				acct.AppendTransaction(tx)
				// Stamped at submission, not approval: resubmitting while
				// the admin decides is blocked by the eligibility check.
				acct.TasksCompleted[task.ID] = now
				log.Info().Str("uid", uid).Str("task", task.ID).Msg("Task submitted for review")
				return nil
			}

			acct.TokenBalance += task.Reward
			tx := newTransaction(uid, model.TxTypeTask, task.Reward,
				fmt.Sprintf("Reward for task: %s", task.Title), model.TxStatusCompleted, now)
			tx.TaskID = task.ID
			acct.AppendTransaction(tx)
			acct.TasksCompleted[task.ID] = now

			log.Info().Str("uid", uid).Str("task", task.ID).Float64("reward", task.Reward).Msg("Task claimed")
			return nil
		})
	})
}

// checkEligibility applies the task's claim policy against the account.
func checkEligibility(acct *model.Account, task *model.Task, now time.Time) error {
	if task.RequiresStake && acct.StakedBalance <= 0 {
		return ErrStakeRequired
	}

	last, completed := acct.TasksCompleted[task.ID]
	if !completed {
		return nil
	}
	if task.OneTime || task.Cooldown == 0 {
		return ErrTaskAlreadyCompleted
	}
	if now.Sub(last) < task.Cooldown {
		return ErrTaskOnCooldown
	}
	return nil
}

// AddTask appends a new task to the catalog. Admin only.
func (s *TaskService) AddTask(ctx context.Context, adminUID string, task model.Task) (*model.Task, error) {
	if err := validateTask(&task); err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = "task_" + uuid.NewString()
	}

	err := s.store.Update(ctx, func(st *model.State) error {
		if err := requireAdmin(st, adminUID); err != nil {
			return err
		}
		if findTask(st, task.ID) != nil {
			return fmt.Errorf("task %q already exists", task.ID)
		}
		st.Tasks = append(st.Tasks, task.Clone())
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("admin", adminUID).Str("task", task.ID).Msg("Task added")
	return task.Clone(), nil
}

// UpdateTask replaces an existing task definition. Admin only.
func (s *TaskService) UpdateTask(ctx context.Context, adminUID string, task model.Task) error {
	if err := validateTask(&task); err != nil {
		return err
	}

	return s.store.Update(ctx, func(st *model.State) error {
		if err := requireAdmin(st, adminUID); err != nil {
			return err
		}
		for i, existing := range st.Tasks {
			if existing.ID == task.ID {
				st.Tasks[i] = task.Clone()
				return nil
			}
		}
		return repository.ErrTaskNotFound
	})
}

// DeleteTask removes a task from the catalog. Admin only. Ledger entries
// and completion stamps referencing the id are left as history.
func (s *TaskService) DeleteTask(ctx context.Context, adminUID, taskID string) error {
	return s.store.Update(ctx, func(st *model.State) error {
		if err := requireAdmin(st, adminUID); err != nil {
			return err
		}
		for i, existing := range st.Tasks {
			if existing.ID == taskID {
				st.Tasks = append(st.Tasks[:i], st.Tasks[i+1:]...)
				return nil
			}
		}
		return repository.ErrTaskNotFound
	})
}

// validateTask rejects malformed task definitions before any state change.
func validateTask(task *model.Task) error {
	if task.Title == "" {
		return ErrEmptyTitle
	}
	if task.Reward <= 0 {
		return ErrInvalidReward
	}
	if task.Cooldown < 0 {
		return ErrInvalidCooldown
	}
	return nil
}

// findTask returns the task with the given id from the state, or nil.
func findTask(st *model.State, taskID string) *model.Task {
	for _, task := range st.Tasks {
		if task.ID == taskID {
			return task
		}
	}
	return nil
}

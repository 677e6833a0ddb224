package db

import (
	"context"
	"log"
	"time"

	"github.com/renanmoutaa/Portal-Cativo/internal/util"
	"github.com/renanmoutaa/Portal-Cativo/models"
)

// Operation represents a database write that needs to be executed
type Operation struct {
	Execute func() (interface{}, error)
	Result  chan OperationResult
}

// OperationResult contains the result of an operation
type OperationResult struct {
	Data  interface{}
	Error error
}

// DBManager serializes write access to the login store so that id
// assignment and created_at ordering stay monotonic within the process.
// Reads go straight to the repository.
type DBManager struct {
	opQueue  chan Operation
	stopping chan struct{}
}

// NewDBManager creates a new database manager
func NewDBManager() *DBManager {
	m := &DBManager{
		opQueue:  make(chan Operation, 100),
		stopping: make(chan struct{}),
	}

	// Start the worker goroutine
	go m.worker()
	log.Println("Database access manager started")

	return m
}

// worker processes operations one at a time
func (m *DBManager) worker() {
	for {
		select {
		case op := <-m.opQueue:
			data, err := op.Execute()
			op.Result <- OperationResult{Data: data, Error: err}
		case <-m.stopping:
			return
		}
	}
}

// ExecuteOperation executes a database write through the worker
func (m *DBManager) ExecuteOperation(execute func() (interface{}, error)) (interface{}, error) {
	resultChan := make(chan OperationResult, 1)
	m.opQueue <- Operation{
		Execute: execute,
		Result:  resultChan,
	}
	result := <-resultChan
	return result.Data, result.Error
}

// Stop stops the database manager
func (m *DBManager) Stop() {
	close(m.stopping)
}

// CreateLogin serializes login inserts
func (m *DBManager) CreateLogin(repo LoginRepository, ctx context.Context, record *models.LoginRecord) (*models.LoginRecord, error) {
	result, err := m.ExecuteOperation(func() (interface{}, error) {
		created, err := util.RetryOnLockWithResult(func() (*models.LoginRecord, error) {
			return repo.Create(ctx, record)
		})
		return created, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.LoginRecord), nil
}

// DeleteLoginsOlderThan serializes retention sweeps with inserts
func (m *DBManager) DeleteLoginsOlderThan(repo LoginRepository, ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := m.ExecuteOperation(func() (interface{}, error) {
		deleted, err := util.RetryOnLockWithResult(func() (int64, error) {
			return repo.DeleteOlderThan(ctx, cutoff)
		})
		return deleted, err
	})
	if err != nil {
		return 0, err
	}
	return result.(int64), nil
}

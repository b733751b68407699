package importer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/odpf/salt/log"
	"github.com/stretchr/testify/assert"
	testifyMock "github.com/stretchr/testify/mock"

	"github.com/galaxyhub/importer/config"
	"github.com/galaxyhub/importer/importer"
	"github.com/galaxyhub/importer/importer/validate"
	"github.com/galaxyhub/importer/mock"
	"github.com/galaxyhub/importer/models"
)

func newTestImporters(t *testing.T, l log.Logger) (*importer.CollectionImporter, *importer.RepositoryImporter) {
	t.Helper()
	conf := config.ImporterConfig{WorkDir: t.TempDir()}
	validator := validate.NewValidator(l, new(mock.PlatformRepository), new(mock.CloudPlatformRepository), new(mock.ContentRepository))
	fetcher := importer.NewFetcher(l)
	collectionImporter := importer.NewCollectionImporter(l, conf, fetcher, validator,
		new(mock.NamespaceRepository), new(mock.CollectionRepository))
	repositoryImporter := importer.NewRepositoryImporter(l, conf, fetcher, validator,
		new(mock.ContentRepository))
	return collectionImporter, repositoryImporter
}

func TestImportManager(t *testing.T) {
	ctx := context.Background()
	l := log.NewNoop()
	managerConfig := importer.ImportManagerConfig{
		NumWorkers:    1,
		WorkerTimeout: time.Minute,
		QueueCapacity: 10,
	}

	t.Run("SubmitCollection", func(t *testing.T) {
		t.Run("should fail when the task cannot be saved", func(t *testing.T) {
			uuidProvider := new(mock.UUIDProvider)
			defer uuidProvider.AssertExpectations(t)

			taskRepo := new(mock.ImportTaskRepository)
			defer taskRepo.AssertExpectations(t)

			taskID := uuid.New()
			uuidProvider.On("NewUUID").Return(taskID, nil)
			taskRepo.On("Save", ctx, testifyMock.Anything).Return(errors.New("connection refused"))

			collectionImporter, repositoryImporter := newTestImporters(t, l)
			manager := importer.NewImportManager(l, managerConfig, collectionImporter, repositoryImporter,
				uuidProvider, taskRepo)
			defer manager.Close()

			_, err := manager.SubmitCollection(ctx, "/tmp/a.tar.gz", "a.tar.gz")

			assert.NotNil(t, err)
		})
		t.Run("should run the import and record a terminal failed state on a bad filename", func(t *testing.T) {
			uuidProvider := new(mock.UUIDProvider)
			defer uuidProvider.AssertExpectations(t)

			taskRepo := new(mock.ImportTaskRepository)
			defer taskRepo.AssertExpectations(t)

			taskID := uuid.New()
			uuidProvider.On("NewUUID").Return(taskID, nil)
			taskRepo.On("Save", ctx, testifyMock.Anything).Return(nil)
			taskRepo.On("GetByID", testifyMock.Anything, taskID).Return(models.ImportTask{
				ID:    taskID,
				Kind:  models.ImportKindCollection,
				State: models.ImportTaskStatePending,
			}, nil)

			states := make(chan models.ImportTaskState, 2)
			taskRepo.On("UpdateByID", testifyMock.Anything, testifyMock.Anything).
				Run(func(args testifyMock.Arguments) {
					states <- args.Get(1).(models.ImportTask).State
				}).Return(nil)

			collectionImporter, repositoryImporter := newTestImporters(t, l)
			manager := importer.NewImportManager(l, managerConfig, collectionImporter, repositoryImporter,
				uuidProvider, taskRepo)

			gotID, err := manager.SubmitCollection(ctx, "/tmp/not-a-collection.zip", "not-a-collection.zip")

			assert.Nil(t, err)
			assert.Equal(t, taskID, gotID)

			assert.Equal(t, models.ImportTaskStateRunning, waitForState(t, states))
			assert.Equal(t, models.ImportTaskStateFailed, waitForState(t, states))
			assert.Nil(t, manager.Close())
		})
		t.Run("should fail the task right away when the queue is full", func(t *testing.T) {
			uuidProvider := new(mock.UUIDProvider)
			defer uuidProvider.AssertExpectations(t)

			taskRepo := new(mock.ImportTaskRepository)
			defer taskRepo.AssertExpectations(t)

			taskID := uuid.New()
			uuidProvider.On("NewUUID").Return(taskID, nil)
			taskRepo.On("Save", ctx, testifyMock.Anything).Return(nil)

			var rejected models.ImportTask
			taskRepo.On("UpdateByID", ctx, testifyMock.Anything).
				Run(func(args testifyMock.Arguments) {
					rejected = args.Get(1).(models.ImportTask)
				}).Return(nil)

			collectionImporter, repositoryImporter := newTestImporters(t, l)
			manager := importer.NewImportManager(l, importer.ImportManagerConfig{
				NumWorkers:    0,
				WorkerTimeout: time.Minute,
				QueueCapacity: 0,
			}, collectionImporter, repositoryImporter, uuidProvider, taskRepo)
			defer manager.Close()

			_, err := manager.SubmitCollection(ctx, "/tmp/a.tar.gz", "a.tar.gz")

			assert.ErrorIs(t, err, importer.ErrQueueFull)
			assert.Equal(t, models.ImportTaskStateFailed, rejected.State)
			assert.Equal(t, importer.ErrQueueFull.Error(), rejected.Error)
			assert.False(t, rejected.FinishedAt.IsZero())
		})
		t.Run("should persist the terminal state after the worker deadline expired", func(t *testing.T) {
			uuidProvider := new(mock.UUIDProvider)
			defer uuidProvider.AssertExpectations(t)

			taskRepo := new(mock.ImportTaskRepository)
			defer taskRepo.AssertExpectations(t)

			taskID := uuid.New()
			uuidProvider.On("NewUUID").Return(taskID, nil)
			taskRepo.On("Save", ctx, testifyMock.Anything).Return(nil)
			taskRepo.On("GetByID", testifyMock.Anything, taskID).Return(models.ImportTask{
				ID:    taskID,
				Kind:  models.ImportKindCollection,
				State: models.ImportTaskStatePending,
			}, nil)

			type update struct {
				state  models.ImportTaskState
				ctxErr error
			}
			updates := make(chan update, 2)
			taskRepo.On("UpdateByID", testifyMock.Anything, testifyMock.Anything).
				Run(func(args testifyMock.Arguments) {
					updates <- update{
						state:  args.Get(1).(models.ImportTask).State,
						ctxErr: args.Get(0).(context.Context).Err(),
					}
				}).Return(nil)

			collectionImporter, repositoryImporter := newTestImporters(t, l)
			manager := importer.NewImportManager(l, importer.ImportManagerConfig{
				NumWorkers:    1,
				WorkerTimeout: time.Nanosecond,
				QueueCapacity: 10,
			}, collectionImporter, repositoryImporter, uuidProvider, taskRepo)

			_, err := manager.SubmitCollection(ctx, "/tmp/ns-name-1.0.0.tar.gz", "ns-name-1.0.0.tar.gz")
			assert.Nil(t, err)

			deadline := time.After(5 * time.Second)
			for {
				select {
				case u := <-updates:
					if u.state != models.ImportTaskStateFailed {
						continue
					}
					// the failed write must not ride the expired request
					// context or the task would stay running forever
					assert.Nil(t, u.ctxErr)
					assert.Nil(t, manager.Close())
					return
				case <-deadline:
					t.Fatal("timed out waiting for terminal task state")
				}
			}
		})
	})
	t.Run("GetStatus", func(t *testing.T) {
		t.Run("should return the stored task", func(t *testing.T) {
			uuidProvider := new(mock.UUIDProvider)
			taskRepo := new(mock.ImportTaskRepository)
			defer taskRepo.AssertExpectations(t)

			taskID := uuid.New()
			stored := models.ImportTask{
				ID:    taskID,
				Kind:  models.ImportKindRepository,
				State: models.ImportTaskStateSuccess,
			}
			taskRepo.On("GetByID", ctx, taskID).Return(stored, nil)

			collectionImporter, repositoryImporter := newTestImporters(t, l)
			manager := importer.NewImportManager(l, managerConfig, collectionImporter, repositoryImporter,
				uuidProvider, taskRepo)
			defer manager.Close()

			task, err := manager.GetStatus(ctx, taskID)

			assert.Nil(t, err)
			assert.Equal(t, stored, task)
		})
	})
}

func waitForState(t *testing.T, states chan models.ImportTaskState) models.ImportTaskState {
	t.Helper()
	select {
	case state := <-states:
		return state
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for task state update")
		return ""
	}
}

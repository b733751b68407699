package importer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/odpf/salt/log"
	"github.com/pkg/errors"

	"github.com/galaxyhub/importer/core/progress"
	"github.com/galaxyhub/importer/internal/telemetry"
	"github.com/galaxyhub/importer/models"
	"github.com/galaxyhub/importer/store"
	"github.com/galaxyhub/importer/utils"
)

// ErrQueueFull is returned when the import queue cannot take another
// request
var ErrQueueFull = errors.New("import queue is full")

// deadline for task state writes that must not inherit an already
// expired request context
const statusWriteTimeout = 10 * time.Second

// ImportManager accepts import requests, runs them on background
// workers and tracks task state. Results are observed by polling task
// status, not through a return value.
type ImportManager interface {
	SubmitCollection(ctx context.Context, artifactPath, filename string) (uuid.UUID, error)
	SubmitRepository(ctx context.Context, repo models.Repository) (uuid.UUID, error)
	GetStatus(ctx context.Context, taskID uuid.UUID) (models.ImportTask, error)
	Close() error
}

type ImportManagerConfig struct {
	NumWorkers    int
	WorkerTimeout time.Duration
	QueueCapacity int
}

type importManager struct {
	// wait group to synchronise on workers
	wg sync.WaitGroup

	// request queue, used by workers
	requestQ chan models.ImportRequest

	l log.Logger

	config ImportManagerConfig

	workerCapacity int32

	collectionImporter *CollectionImporter
	repositoryImporter *RepositoryImporter

	uuidProvider utils.UUIDProvider
	taskRepo     store.ImportTaskRepository
}

// NewImportManager constructs the manager and spawns its workers
func NewImportManager(l log.Logger, config ImportManagerConfig, collectionImporter *CollectionImporter,
	repositoryImporter *RepositoryImporter, uuidProvider utils.UUIDProvider,
	taskRepo store.ImportTaskRepository) *importManager {
	mgr := &importManager{
		requestQ:           make(chan models.ImportRequest, config.QueueCapacity),
		l:                  l,
		config:             config,
		collectionImporter: collectionImporter,
		repositoryImporter: repositoryImporter,
		uuidProvider:       uuidProvider,
		taskRepo:           taskRepo,
	}
	mgr.Init()
	return mgr
}

func (m *importManager) SubmitCollection(ctx context.Context, artifactPath, filename string) (uuid.UUID, error) {
	taskID, err := m.uuidProvider.NewUUID()
	if err != nil {
		return uuid.Nil, err
	}
	req := models.ImportRequest{
		ID:           taskID,
		Kind:         models.ImportKindCollection,
		ArtifactPath: artifactPath,
		Filename:     filename,
	}
	return taskID, m.enqueue(ctx, req)
}

func (m *importManager) SubmitRepository(ctx context.Context, repo models.Repository) (uuid.UUID, error) {
	taskID, err := m.uuidProvider.NewUUID()
	if err != nil {
		return uuid.Nil, err
	}
	req := models.ImportRequest{
		ID:         taskID,
		Kind:       models.ImportKindRepository,
		Repository: repo,
	}
	return taskID, m.enqueue(ctx, req)
}

func (m *importManager) enqueue(ctx context.Context, req models.ImportRequest) error {
	task := models.ImportTask{
		ID:        req.ID,
		Kind:      req.Kind,
		State:     models.ImportTaskStatePending,
		StartedAt: time.Now().UTC(),
	}
	if err := m.taskRepo.Save(ctx, task); err != nil {
		return err
	}

	select {
	case m.requestQ <- req:
		telemetry.NewCounter("importer_runs_total", map[string]string{
			"kind": req.Kind.String(),
		}).Inc()
		return nil
	default:
		// no worker will ever pick this task up, fail it right away
		// instead of leaving it pending
		task.State = models.ImportTaskStateFailed
		task.Error = ErrQueueFull.Error()
		task.FinishedAt = time.Now().UTC()
		if err := m.taskRepo.UpdateByID(ctx, task); err != nil {
			m.l.Error("unable to mark rejected task failed", "task id", req.ID, "error", err)
		}
		return ErrQueueFull
	}
}

func (m *importManager) GetStatus(ctx context.Context, taskID uuid.UUID) (models.ImportTask, error) {
	return m.taskRepo.GetByID(ctx, taskID)
}

func (m *importManager) Init() {
	m.l.Info("starting import workers", "count", m.config.NumWorkers)
	for i := 0; i < m.config.NumWorkers; i++ {
		m.wg.Add(1)
		go m.spawnWorker()
	}

	// wait until all workers are ready
	for {
		if int(atomic.LoadInt32(&m.workerCapacity)) == m.config.NumWorkers {
			break
		}
		time.Sleep(time.Millisecond * 50)
	}
}

// spawnWorker consumes requests until the queue closes
func (m *importManager) spawnWorker() {
	defer m.wg.Done()
	atomic.AddInt32(&m.workerCapacity, 1)
	for req := range m.requestQ {
		atomic.AddInt32(&m.workerCapacity, -1)
		telemetry.NewGauge("importer_workers_available", nil).Set(float64(atomic.LoadInt32(&m.workerCapacity)))

		m.l.Info("worker picked up import request", "task id", req.ID, "kind", req.Kind)
		ctx, cancelCtx := context.WithTimeout(context.Background(), m.config.WorkerTimeout)
		m.runImport(ctx, req)
		cancelCtx()

		atomic.AddInt32(&m.workerCapacity, 1)
		telemetry.NewGauge("importer_workers_available", nil).Set(float64(atomic.LoadInt32(&m.workerCapacity)))
	}
}

// runImport drives one task through its state machine. Domain failures
// become a terminal failed state with a readable reason, anything else
// is additionally logged for monitoring.
func (m *importManager) runImport(ctx context.Context, req models.ImportRequest) {
	task, err := m.taskRepo.GetByID(ctx, req.ID)
	if err != nil {
		m.l.Error("unable to fetch import task", "task id", req.ID, "error", err)
		return
	}
	task.State = models.ImportTaskStateRunning
	if err := m.taskRepo.UpdateByID(ctx, task); err != nil {
		m.l.Error("unable to mark import task running", "task id", req.ID, "error", err)
		return
	}

	obs := &logObserver{l: m.l}
	var summary models.ImportSummary
	switch req.Kind {
	case models.ImportKindCollection:
		summary, err = m.collectionImporter.Import(ctx, req, obs)
	case models.ImportKindRepository:
		summary, err = m.repositoryImporter.Import(ctx, req, obs)
	default:
		err = errors.Errorf("unknown import kind %q", req.Kind)
	}

	task.FinishedAt = time.Now().UTC()
	if err != nil {
		task.State = models.ImportTaskStateFailed
		task.Error = err.Error()
		if !IsDomainError(err) {
			m.l.Error("import run failed unexpectedly", "task id", req.ID, "error", err)
		}
		telemetry.NewCounter("importer_runs_failed_total", map[string]string{
			"kind": req.Kind.String(),
		}).Inc()
	} else {
		task.State = models.ImportTaskStateSuccess
		task.Summary = summary
		telemetry.NewCounter("importer_runs_succeeded_total", map[string]string{
			"kind": req.Kind.String(),
		}).Inc()
	}

	// the request context may already be past its worker deadline, the
	// terminal write gets its own so the task cannot stay running
	writeCtx, cancelWrite := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancelWrite()
	if err := m.taskRepo.UpdateByID(writeCtx, task); err != nil {
		m.l.Error("unable to persist terminal task state", "task id", req.ID, "error", err)
	}
	m.l.Info("import run finished", "task id", req.ID, "state", task.State)
}

// Close stops consuming any new request
func (m *importManager) Close() error {
	if m.requestQ != nil {
		// stop accepting any more requests
		close(m.requestQ)
	}
	// wait for request workers to finish
	m.wg.Wait()

	return nil
}

// logObserver forwards pipeline progress events to the logger
type logObserver struct {
	l log.Logger
}

func (o *logObserver) Notify(evt progress.Event) {
	o.l.Info(evt.String())
}

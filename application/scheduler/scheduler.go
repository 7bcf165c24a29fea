// application/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mr-trader-bot/pkg/logger"

	"github.com/robfig/cron/v3"
)

// jobTimeout ограничение времени одного запуска задачи
const jobTimeout = 5 * time.Minute

// Job описывает одну планируемую задачу
type Job struct {
	Name        string
	Description string
	// Spec cron-выражение с секундами: "сек мин час день месяц день_недели"
	Spec    string
	Handler func(ctx context.Context) error

	mu      sync.Mutex
	entryID cron.EntryID
	lastRun time.Time
	lastErr error
	runs    int
}

// JobStatus снапшот состояния задачи
type JobStatus struct {
	Name        string
	Description string
	NextRun     time.Time
	LastRun     time.Time
	LastErr     error
	Runs        int
}

// Scheduler управляет всеми cron-задачами приложения
type Scheduler struct {
	cron *cron.Cron
	jobs []*Job
	mu   sync.RWMutex
	ctx  context.Context
	stop context.CancelFunc
}

// New создает новый планировщик
func New() *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:  ctx,
		stop: cancel,
	}
}

// Register добавляет задачу в планировщик
func (s *Scheduler) Register(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.cron.AddFunc(job.Spec, func() { s.run(job) })
	if err != nil {
		return fmt.Errorf("ошибка регистрации задачи %q (%s): %w", job.Name, job.Spec, err)
	}
	job.entryID = id
	s.jobs = append(s.jobs, job)

	logger.Info("📋 [Scheduler] Зарегистрирована задача %q (%s)", job.Name, job.Spec)
	return nil
}

// Start запускает планировщик в фоне
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("✅ [Scheduler] Запущен (%d задач)", len(s.jobs))
}

// Stop останавливает планировщик и ждет завершения текущих задач
func (s *Scheduler) Stop() {
	done := s.cron.Stop()
	s.stop()
	<-done.Done()
	logger.Info("🛑 [Scheduler] Остановлен")
}

// RunNow выполняет задачу по имени немедленно
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, job := range s.jobs {
		if job.Name == name {
			s.run(job)
			return job.Status(s.cron).LastErr
		}
	}
	return fmt.Errorf("задача %q не найдена", name)
}

// Jobs возвращает статус всех задач
func (s *Scheduler) Jobs() []JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statuses := make([]JobStatus, len(s.jobs))
	for i, j := range s.jobs {
		statuses[i] = j.Status(s.cron)
	}
	return statuses
}

// Status возвращает текущее состояние задачи
func (j *Job) Status(c *cron.Cron) JobStatus {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobStatus{
		Name:        j.Name,
		Description: j.Description,
		NextRun:     c.Entry(j.entryID).Next,
		LastRun:     j.lastRun,
		LastErr:     j.lastErr,
		Runs:        j.runs,
	}
}

// run выполняет одну задачу и обновляет ее состояние
func (s *Scheduler) run(job *Job) {
	ctx, cancel := context.WithTimeout(s.ctx, jobTimeout)
	defer cancel()

	logger.Debug("▶️  [Scheduler] Запуск задачи %q", job.Name)
	start := time.Now()

	err := safeRun(ctx, job.Handler)
	elapsed := time.Since(start)

	job.mu.Lock()
	job.lastRun = start
	job.lastErr = err
	job.runs++
	job.mu.Unlock()

	if err != nil {
		logger.Error("❌ [Scheduler] Задача %q завершилась с ошибкой за %v: %v", job.Name, elapsed, err)
		return
	}
	logger.Debug("✅ [Scheduler] Задача %q выполнена за %v", job.Name, elapsed)
}

func safeRun(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("паника: %v", r)
		}
	}()
	return fn(ctx)
}

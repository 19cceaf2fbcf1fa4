package conformance

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"metaobj/pkg/driver"
)

// Job is one scenario submitted to a Pool.
type Job struct {
	Scenario Scenario
	Seq      int
}

// PoolStats describes the work a Pool has done so far.
type PoolStats struct {
	TotalJobs     int
	ActiveJobs    int
	CompletedJobs int
	FailedJobs    int
	AverageTime   time.Duration
	TotalTime     time.Duration
	WorkerCount   int
}

// Pool runs scenarios on a fixed set of goroutines. Each job gets its own
// runtime, so workers share no object graph.
type Pool struct {
	numWorkers   int
	resultBuffer int
	config       driver.Config
	logger       logrus.FieldLogger

	jobQueue   chan *Job
	resultChan chan *Result

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	stats      PoolStats
	statsMutex sync.RWMutex
}

// NewPool creates a pool of numWorkers goroutines; zero or less means one
// per CPU.
func NewPool(numWorkers int, conf driver.Config, logger logrus.FieldLogger) *Pool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pool{
		numWorkers:   numWorkers,
		resultBuffer: numWorkers,
		config:       conf,
		logger:       logger,
	}
}

// Start launches the workers. ctx cancellation stops them after their
// current scenario.
func (p *Pool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&p.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.jobQueue = make(chan *Job)
	p.resultChan = make(chan *Result, p.resultBuffer)
	p.stats = PoolStats{WorkerCount: p.numWorkers}

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
	p.logger.WithField("workers", p.numWorkers).Debug("worker pool started")
	return nil
}

// Submit hands a job to the next free worker, blocking until one takes it
// or the pool's context ends.
func (p *Pool) Submit(job *Job) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&p.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}

	atomic.AddInt32(&p.activeJobs, 1)
	select {
	case p.jobQueue <- job:
		p.statsMutex.Lock()
		p.stats.TotalJobs++
		p.statsMutex.Unlock()
		return nil
	case <-p.ctx.Done():
		atomic.AddInt32(&p.activeJobs, -1)
		return p.ctx.Err()
	}
}

// Results delivers one Result per accepted job. It is closed by Shutdown.
func (p *Pool) Results() <-chan *Result {
	return p.resultChan
}

// Shutdown stops accepting jobs and waits for the workers. If ctx ends
// first the workers are cancelled; Shutdown still waits for them to exit
// and then returns ctx's error. Results is closed either way.
func (p *Pool) Shutdown(ctx context.Context) error {
	if atomic.LoadInt32(&p.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if !atomic.CompareAndSwapInt32(&p.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}
	close(p.jobQueue)

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		p.cancel()
		<-done
		err = ctx.Err()
	}
	p.cancel()
	close(p.resultChan)
	p.logger.WithField("stats", fmt.Sprintf("%+v", p.Stats())).Debug("worker pool stopped")
	return err
}

// HasActiveJobs reports whether submitted jobs are still running.
func (p *Pool) HasActiveJobs() bool {
	return atomic.LoadInt32(&p.activeJobs) > 0
}

// Stats returns a snapshot of the pool statistics.
func (p *Pool) Stats() PoolStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&p.activeJobs))
	return stats
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	logger := p.logger.WithField("worker", id)

	for {
		select {
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			res := job.Scenario.Execute(p.config, logger.WithField("scenario", job.Scenario.Name))
			res.WorkerID = id
			p.record(res)
			atomic.AddInt32(&p.activeJobs, -1)

			select {
			case p.resultChan <- res:
			case <-p.ctx.Done():
				return
			}
		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) record(res *Result) {
	p.statsMutex.Lock()
	defer p.statsMutex.Unlock()

	if res.Passed() {
		p.stats.CompletedJobs++
	} else {
		p.stats.FailedJobs++
	}
	p.stats.TotalTime += res.Duration
	p.stats.AverageTime = p.stats.TotalTime / time.Duration(p.stats.CompletedJobs+p.stats.FailedJobs)
}

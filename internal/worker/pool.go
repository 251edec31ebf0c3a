package worker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// ErrQueueFull : очередь задач переполнена, задача не принята
var ErrQueueFull = errors.New("очередь обработки переполнена")

// ErrPoolStopped : пул остановлен и не принимает новые задачи
var ErrPoolStopped = errors.New("пул обработки остановлен")

// Task : единица фоновой работы; ctx несёт дедлайн обработки
type Task func(ctx context.Context)

// Handle : позволяет дождаться завершения конкретной задачи
type Handle struct {
	done chan struct{}
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type job struct {
	name string
	fn   Task
	done chan struct{}
}

// Pool : пул фоновой обработки с ограниченной очередью.
// Каждая задача получает контекст с таймаутом taskTimeout (0 — без таймаута).
type Pool struct {
	tasks       chan job
	wg          sync.WaitGroup
	baseCtx     context.Context
	cancel      context.CancelFunc
	taskTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

func NewPool(workers int, queueSize int, taskTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = workers
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool := &Pool{
		tasks:       make(chan job, queueSize),
		baseCtx:     ctx,
		cancel:      cancel,
		taskTimeout: taskTimeout,
	}

	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.run(i)
	}

	return pool
}

// Submit : ставит задачу в очередь и возвращает handle для ожидания.
// Не блокируется: при переполненной очереди возвращает ErrQueueFull.
func (p *Pool) Submit(name string, fn Task) (*Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolStopped
	}

	j := job{name: name, fn: fn, done: make(chan struct{})}
	select {
	case p.tasks <- j:
		return &Handle{done: j.done}, nil
	default:
		return nil, ErrQueueFull
	}
}

// Shutdown : прекращает приём задач и ждёт, пока воркеры доработают
// очередь; по истечении ctx оставшиеся задачи отменяются через их контекст
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		p.cancel()
		<-drained
		return ctx.Err()
	}
}

func (p *Pool) run(workerID int) {
	defer p.wg.Done()

	for j := range p.tasks {
		p.execute(workerID, j)
	}
}

// execute : паника задачи не роняет воркер, она только логируется
func (p *Pool) execute(workerID int, j job) {
	defer close(j.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[WorkerPool] worker %d: паника в задаче %s: %v", workerID, j.name, r)
		}
	}()

	ctx := p.baseCtx
	if p.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.taskTimeout)
		defer cancel()
	}

	j.fn(ctx)
}

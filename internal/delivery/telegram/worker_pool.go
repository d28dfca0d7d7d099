package telegram

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/yourusername/bagshop-bot/internal/usecase"
)

// messageRequest navbatdagi bitta hodisa
type messageRequest struct {
	ctx    context.Context
	chatID int64
	event  usecase.Event
}

func (r *messageRequest) userID() int64 {
	return r.event.Customer.UserID
}

// workerPool foydalanuvchi bo'yicha kalitlangan navbatlar.
// Bitta foydalanuvchining xabarlari har doim bitta navbatga tushadi va ketma-ket ishlanadi.
type workerPool struct {
	queues  []chan *messageRequest
	process func(req *messageRequest)
	onPanic func(req *messageRequest, recovered interface{})
	wg      sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

const (
	requestQueueSize      = 100
	defaultWorkerCount    = 8
	defaultRequestTimeout = 45 * time.Second
)

// newWorkerPool creates a new worker pool
func newWorkerPool(workerCount int, process func(*messageRequest), onPanic func(*messageRequest, interface{})) *workerPool {
	if workerCount <= 0 {
		workerCount = defaultWorkerCount
	}

	wp := &workerPool{
		queues:  make([]chan *messageRequest, workerCount),
		process: process,
		onPanic: onPanic,
	}
	for i := range wp.queues {
		wp.queues[i] = make(chan *messageRequest, requestQueueSize)
	}
	return wp
}

// start starts one worker per queue
func (wp *workerPool) start(ctx context.Context) {
	log.Printf("Starting %d workers for parallel message processing", len(wp.queues))

	for i := range wp.queues {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	queue := wp.queues[id]
	for {
		select {
		case <-ctx.Done():
			log.Printf("Worker %d shutting down", id)
			return
		case req, ok := <-queue:
			if !ok {
				log.Printf("Worker %d shutting down (queue closed)", id)
				return
			}
			if req == nil {
				continue
			}
			wp.run(req)
		}
	}
}

func (wp *workerPool) run(req *messageRequest) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in message processing for user %d: %v", req.userID(), r)
			if wp.onPanic != nil {
				wp.onPanic(req, r)
			}
		}
	}()
	wp.process(req)
}

func (wp *workerPool) queueFor(userID int64) chan *messageRequest {
	return wp.queues[uint64(userID)%uint64(len(wp.queues))]
}

// submit navbatga qo'yadi; navbat to'la yoki yopiq bo'lsa false
func (wp *workerPool) submit(req *messageRequest) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}

	queue := wp.queueFor(req.userID())
	select {
	case queue <- req:
		return true
	default:
		log.Printf("Worker queue is full (%d/%d), rejecting request from user %d", len(queue), requestQueueSize, req.userID())
		return false
	}
}

// shutdown gracefully shuts down the worker pool
func (wp *workerPool) shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	pending := 0
	for _, q := range wp.queues {
		pending += len(q)
		close(q)
	}
	wp.mu.Unlock()

	log.Printf("Shutting down worker pool, %d messages in queue", pending)
	wp.wg.Wait()
	log.Println("Worker pool shut down successfully")
}

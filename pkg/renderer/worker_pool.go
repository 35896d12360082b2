package renderer

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/df07/go-simple-pathtracer/pkg/core"
)

// PixelJob asks a worker to render one pixel
type PixelJob struct {
	X, Y int
}

// PixelSample is the finished, gamma corrected color of one pixel
type PixelSample struct {
	Index int       // Byte offset of the pixel in the output buffer, (y*width + x) * 3
	Color core.Vec3 // Averaged and gamma corrected, not yet clamped
	Rays  int       // Scene intersection queries spent on the pixel
}

// PixelFunc renders a job using the worker's own random generator
type PixelFunc func(job PixelJob, random *rand.Rand) PixelSample

// WorkerPool manages parallel pixel rendering
type WorkerPool struct {
	taskQueue   chan PixelJob
	resultQueue chan PixelSample
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker handles individual pixel jobs
type Worker struct {
	ID          int
	render      PixelFunc
	random      *rand.Rand // Owned by this worker only
	taskQueue   chan PixelJob
	resultQueue chan PixelSample
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// queueSize bounds both the task and result channels.
func NewWorkerPool(numWorkers, queueSize int, render PixelFunc) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if queueSize < numWorkers {
		queueSize = numWorkers
	}

	wp := &WorkerPool{
		taskQueue:   make(chan PixelJob, queueSize),
		resultQueue: make(chan PixelSample, queueSize),
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			render:      render,
			random:      rand.New(rand.NewSource(int64(i))),
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the task queue, waits for the workers to drain it and then closes the result queue
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
}

// SubmitTask submits a pixel job to the worker pool
func (wp *WorkerPool) SubmitTask(job PixelJob) {
	wp.taskQueue <- job
}

// GetResult retrieves a completed pixel. ok is false once the pool has been stopped and drained.
func (wp *WorkerPool) GetResult() (PixelSample, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range w.taskQueue {
		w.resultQueue <- w.render(job, w.random)
	}
}

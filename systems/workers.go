package systems

import (
	"runtime"
	"sync"
)

// RangeFunc processes elements [start, end). Concurrent calls always receive
// disjoint ranges.
type RangeFunc func(start, end int)

// workChunk represents a range of elements for a worker to process.
type workChunk struct {
	start, end int
	fn         RangeFunc
}

// WorkerPool is a persistent set of goroutines that split per-element work
// into contiguous chunks. Workers start lazily on the first parallel Run.
type WorkerPool struct {
	numWorkers int
	threshold  int
	minChunk   int

	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewWorkerPool creates a pool. workers <= 0 uses GOMAXPROCS. Runs over fewer
// than threshold elements stay on the calling goroutine.
func NewWorkerPool(workers, threshold, minChunk int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if minChunk < 1 {
		minChunk = 1
	}
	return &WorkerPool{
		numWorkers: workers,
		threshold:  threshold,
		minChunk:   minChunk,
	}
}

// Workers returns the number of worker goroutines used for parallel runs.
func (p *WorkerPool) Workers() int {
	return p.numWorkers
}

// start launches persistent worker goroutines.
func (p *WorkerPool) start() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Close signals all workers to exit and waits for them. Safe to call on a
// pool that never started, and on a nil pool.
func (p *WorkerPool) Close() {
	if p == nil || !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// Run applies fn over [0, n) and returns once every chunk has completed.
// A nil pool runs fn inline.
func (p *WorkerPool) Run(n int, fn RangeFunc) {
	if n <= 0 {
		return
	}
	if p == nil || p.numWorkers < 2 || n < p.threshold {
		fn(0, n)
		return
	}

	if !p.running {
		p.start()
	}

	// At most one chunk per worker, so the buffered done channel never fills
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	if chunkSize < p.minChunk {
		chunkSize = p.minChunk
	}

	chunksDispatched := 0
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

package worker

import (
  "context"
  "sync"

  log "github.com/sirupsen/logrus"
)

const DefaultCount = 8

type Task func(ctx context.Context) error

type Pool struct {
  count    uint8
  ch       chan Task
  done     chan struct{}
  stopped  bool
  dropOnce sync.Once
}

func NewPool(ctx context.Context, count uint8) *Pool {
  if count == 0 {
    count = DefaultCount
  }

  pool := &Pool{
    count: count,
    ch:    make(chan Task),
    done:  make(chan struct{}),
  }
  pool.start(ctx)

  return pool
}

func (p *Pool) start(ctx context.Context) {
  var wg sync.WaitGroup

  wg.Add(int(p.count))

  for index := 0; index < int(p.count); index++ {
    go func() {
      defer wg.Done()

      // Workers run until the channel closes. Exiting on ctx.Done() here
      // would leave a concurrent Push blocked forever on the unbuffered
      // channel, so cancellation drops pending tasks instead.
      for task := range p.ch {
        if ctx.Err() != nil {
          p.dropOnce.Do(func() {
            log.Warn("worker.pool: context cancelled: pending tasks dropped")
          })

          continue
        }

        if err := task(ctx); err != nil {
          log.Errorf("worker.pool: task failed: %v", err)
        }
      }
    }()
  }

  go func() {
    wg.Wait()

    p.done <- struct{}{}
  }()
}

func (p *Pool) Push(task Task) {
  p.ch <- task
}

// StopWait closes the pool and blocks until all pushed tasks have resolved.
func (p *Pool) StopWait() {
  if p.stopped {
    return
  }
  close(p.ch)

  <-p.done

  p.stopped = true
}

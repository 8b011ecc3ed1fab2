package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rudhh/questly/internal/model"
)

var ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")

// EventKind names the lifecycle edges of a task window.
type EventKind string

const (
	KindStart    EventKind = "start"
	KindCritical EventKind = "critical"
	KindExpiry   EventKind = "expiry"
)

// WindowEvent is a single scheduled edge of one task's window.
type WindowEvent struct {
	TaskID string
	Kind   EventKind
	At     time.Time
}

// criticalFraction places the critical cue inside the window; it matches the
// progress threshold the status engine fires at.
const criticalFraction = 0.9

// PlanTask derives the window events for one task, skipping edges that are
// already in the past and everything for a completed task.
func PlanTask(task model.Task, now time.Time) []WindowEvent {
	if task.IsCompleted {
		return nil
	}
	start, end, err := task.Window(now)
	if err != nil {
		return nil
	}

	critical := start.Add(time.Duration(float64(end.Sub(start)) * criticalFraction))
	candidates := []WindowEvent{
		{TaskID: task.ID, Kind: KindStart, At: start},
		{TaskID: task.ID, Kind: KindCritical, At: critical},
		{TaskID: task.ID, Kind: KindExpiry, At: end},
	}
	out := make([]WindowEvent, 0, len(candidates))
	for _, ev := range candidates {
		if ev.At.After(now) {
			out = append(out, ev)
		}
	}
	return out
}

type queueItem struct {
	event WindowEvent
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].event.At.Before(pq[j].event.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

// Engine delivers window events at their trigger instants. Delivery is
// non-blocking: when the consumer lags, events are dropped and counted rather
// than stalling the timer loop.
type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan WindowEvent
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

func NewEngine(bufferSize int) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan WindowEvent, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

func (e *Engine) C() <-chan WindowEvent {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(ev WindowEvent) error {
	if ev.At.IsZero() {
		return ErrInvalidTriggerTime
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return errors.New("scheduler: engine stopped")
	}

	heap.Push(&e.queue, queueItem{event: ev})
	e.signalWakeup()
	return nil
}

// ScheduleTask queues every pending edge of the task's window.
func (e *Engine) ScheduleTask(task model.Task, now time.Time) error {
	for _, ev := range PlanTask(task, now) {
		if err := e.Schedule(ev); err != nil {
			return err
		}
	}
	return nil
}

// Cancel removes every queued event for a task, e.g. after completion or
// deletion. Events already delivered are unaffected.
func (e *Engine) Cancel(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	kept := e.queue[:0]
	for _, item := range e.queue {
		if item.event.TaskID != taskID {
			kept = append(kept, item)
		}
	}
	e.queue = kept
	heap.Init(&e.queue)
	e.signalWakeup()
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.At)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, ev := range due {
				select {
				case e.out <- ev:
				default:
					atomic.AddUint64(&e.dropped, 1)
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (WindowEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return WindowEvent{}, false
	}
	return e.queue[0].event, true
}

func (e *Engine) popDue(now time.Time) []WindowEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]WindowEvent, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].event
		if next.At.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.event)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}

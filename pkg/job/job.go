// Package job implements the hierarchical progress, cancellation and error
// tree that long running commands report through.
//
// A Job owns its sub-jobs. Each sub-job keeps a back-reference to its parent
// only to push progress upwards. All jobs of one tree share a single mutex so
// that cancellation may arrive from another goroutine, for example a signal
// handler.
package job

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
)

// State is the lifecycle state of a job.
type State int

const (
	// Running jobs have neither completed nor failed nor been cancelled.
	Running State = iota
	// Completed jobs finished their work.
	Completed
	// Cancelled jobs, or jobs below a cancelled ancestor, must not start new work.
	Cancelled
	// Failed jobs have an error recorded.
	Failed
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes a change somewhere in a job tree.
type Event struct {
	Hint     string
	Title    string
	Progress float64
	State    State
	Err      error
}

// Listener receives events after every change. It is called without any lock
// held and may be called from several goroutines.
type Listener func(Event)

// Option configures a new job tree.
type Option func(*tree)

// WithListener registers the listener for the whole tree.
func WithListener(l Listener) Option {
	return func(t *tree) {
		t.listener = l
	}
}

type tree struct {
	mu       sync.Mutex
	listener Listener
	errSeq   uint64
}

// Job is a node of the tree.
type Job struct {
	tree   *tree
	parent *Job

	title    string
	weight   float64
	own      float64
	progress float64
	children []*Job

	err       error
	errSeq    uint64
	cancelled bool
	completed bool
}

// New creates the root of a job tree.
func New(title string, opts ...Option) *Job {
	t := &tree{}
	for _, opt := range opts {
		opt(t)
	}
	return &Job{tree: t, title: title, weight: 1}
}

// NewSubJob creates a child that contributes weight times its own progress to
// this job. Sibling weights are normalized when they add up to more than one.
func (j *Job) NewSubJob(weight float64, title string) *Job {
	if weight < 0 {
		weight = 0
	}

	j.tree.mu.Lock()
	child := &Job{tree: j.tree, parent: j, title: title, weight: weight}
	j.children = append(j.children, child)
	ev := child.eventLocked()
	j.tree.mu.Unlock()

	j.tree.emit(ev)
	return child
}

// Title returns the job title.
func (j *Job) Title() string {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.title
}

// SetTitle replaces the job title.
func (j *Job) SetTitle(title string) {
	j.tree.mu.Lock()
	j.title = title
	ev := j.eventLocked()
	j.tree.mu.Unlock()
	j.tree.emit(ev)
}

// Hint returns the titles from the root down to this job joined by " / ".
func (j *Job) Hint() string {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.hintLocked()
}

func (j *Job) hintLocked() string {
	var parts []string
	for cur := j; cur != nil; cur = cur.parent {
		if cur.title != "" {
			parts = append(parts, cur.title)
		}
	}
	for i, k := 0, len(parts)-1; i < k; i, k = i+1, k-1 {
		parts[i], parts[k] = parts[k], parts[i]
	}
	return strings.Join(parts, " / ")
}

// SetProgress sets the fraction of work this job did itself, outside of its
// sub-jobs. Values are clamped to [0,1] and lower values than before are
// ignored.
func (j *Job) SetProgress(p float64) {
	p = clamp(p)

	j.tree.mu.Lock()
	if p <= j.own {
		j.tree.mu.Unlock()
		return
	}
	j.own = p
	changed := j.recomputeLocked()
	ev := j.eventLocked()
	j.tree.mu.Unlock()

	if changed {
		j.tree.emit(ev)
	}
}

// Progress returns the aggregated progress in [0,1].
func (j *Job) Progress() float64 {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.progress
}

// recomputeLocked refreshes the progress of j and its ancestors. Progress
// never decreases.
func (j *Job) recomputeLocked() bool {
	changed := false
	for cur := j; cur != nil; cur = cur.parent {
		p := cur.aggregateLocked()
		if p <= cur.progress {
			break
		}
		cur.progress = p
		changed = true
	}
	return changed
}

func (j *Job) aggregateLocked() float64 {
	var sum, total float64
	for _, c := range j.children {
		sum += c.weight * c.progress
		total += c.weight
	}
	if total > 1 {
		sum /= total
	}
	return clamp(j.own + sum)
}

// Complete marks the job finished. It does not change the progress and may be
// called more than once.
func (j *Job) Complete() {
	j.tree.mu.Lock()
	if j.completed {
		j.tree.mu.Unlock()
		return
	}
	j.completed = true
	ev := j.eventLocked()
	j.tree.mu.Unlock()

	j.tree.emit(ev)
}

// CompleteWithProgress sets the progress to 1, which hands the full weight of
// this job to its parent, and completes it.
func (j *Job) CompleteWithProgress() {
	j.SetProgress(1)
	j.Complete()
}

// IsCompleted reports whether Complete was called.
func (j *Job) IsCompleted() bool {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.completed
}

// Fail records err. Only the first error is kept.
func (j *Job) Fail(err error) {
	if err == nil {
		return
	}

	j.tree.mu.Lock()
	if j.err != nil {
		j.tree.mu.Unlock()
		return
	}
	j.tree.errSeq++
	j.err = err
	j.errSeq = j.tree.errSeq
	ev := j.eventLocked()
	j.tree.mu.Unlock()

	j.tree.emit(ev)
}

// SetErrorMessage records an error with the given text.
func (j *Job) SetErrorMessage(msg string) {
	j.Fail(stderrors.New(msg))
}

// Err returns the error of this job, or else the earliest error recorded
// anywhere below it.
func (j *Job) Err() error {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()

	if j.err != nil {
		return j.err
	}
	first, _ := j.firstErrLocked()
	return first
}

func (j *Job) firstErrLocked() (error, uint64) {
	err, seq := j.err, j.errSeq
	for _, c := range j.children {
		cerr, cseq := c.firstErrLocked()
		if cerr != nil && (err == nil || cseq < seq) {
			err, seq = cerr, cseq
		}
	}
	return err, seq
}

// ErrorMessage returns the text of Err or an empty string.
func (j *Job) ErrorMessage() string {
	if err := j.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Cancel marks this job and every descendant that has not completed as
// cancelled.
func (j *Job) Cancel() {
	j.tree.mu.Lock()
	j.cancelLocked()
	ev := j.eventLocked()
	j.tree.mu.Unlock()

	j.tree.emit(ev)
}

func (j *Job) cancelLocked() {
	if !j.completed {
		j.cancelled = true
	}
	for _, c := range j.children {
		c.cancelLocked()
	}
}

// IsCancelled reports whether this job or one of its ancestors was cancelled.
func (j *Job) IsCancelled() bool {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.cancelledLocked()
}

func (j *Job) cancelledLocked() bool {
	for cur := j; cur != nil; cur = cur.parent {
		if cur.cancelled {
			return true
		}
	}
	return false
}

// ShouldProceed must be polled before each discrete step of work. It returns
// false once this job or an ancestor failed or was cancelled.
func (j *Job) ShouldProceed() bool {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()

	for cur := j; cur != nil; cur = cur.parent {
		if cur.cancelled || cur.err != nil {
			return false
		}
	}
	return true
}

// State returns the current state. Failure takes precedence over
// cancellation.
func (j *Job) State() State {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.stateLocked()
}

func (j *Job) stateLocked() State {
	switch {
	case j.err != nil:
		return Failed
	case j.cancelledLocked():
		return Cancelled
	case j.completed:
		return Completed
	default:
		return Running
	}
}

// Children returns the sub-jobs in creation order.
func (j *Job) Children() []*Job {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	out := make([]*Job, len(j.children))
	copy(out, j.children)
	return out
}

// BindContext cancels the job when ctx is done. The returned function stops
// the binding.
func (j *Job) BindContext(ctx context.Context) (stop func() bool) {
	return context.AfterFunc(ctx, j.Cancel)
}

func (j *Job) eventLocked() Event {
	root := j
	for root.parent != nil {
		root = root.parent
	}
	return Event{
		Hint:     j.hintLocked(),
		Title:    j.title,
		Progress: root.progress,
		State:    j.stateLocked(),
		Err:      j.err,
	}
}

func (t *tree) emit(ev Event) {
	if t.listener != nil {
		t.listener(ev)
	}
}

func clamp(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

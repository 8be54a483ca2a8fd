// Package session runs one circuit as a live, shared simulation. A Session
// owns its grid inside the Run goroutine; edits, ticks and snapshots are
// serialized through channels so an edit never overlaps a tick.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Garsondee/Circuits/internal/circuit"
	"github.com/Garsondee/Circuits/internal/logging"
	"github.com/Garsondee/Circuits/internal/snapshot"
)

var (
	// ErrClosed is returned once Run has exited.
	ErrClosed = errors.New("session: closed")
	// ErrRejected wraps edits the grid refused, such as off-grid cells.
	ErrRejected = errors.New("session: command rejected")
)

// Op is a session command.
type Op uint8

const (
	OpPlace Op = iota + 1
	OpClear
	OpRotate
	OpSetActive
	OpStep
	OpRun
	OpPause
)

func (o Op) String() string {
	switch o {
	case OpPlace:
		return "place"
	case OpClear:
		return "clear"
	case OpRotate:
		return "rotate"
	case OpSetActive:
		return "set_active"
	case OpStep:
		return "step"
	case OpRun:
		return "run"
	case OpPause:
		return "pause"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// Command is one edit or control request. X, Y address the cell for the
// cell ops, Cell is the placed cell and Active the forced signal.
type Command struct {
	Op     Op
	X, Y   int
	Cell   circuit.Cell
	Active bool
}

// Frame is the published state after a change.
type Frame struct {
	Name    string
	Tick    uint64
	Running bool
	Width   int
	Height  int
	Data    []byte // circuit binary encoding
}

// Grid decodes the frame data.
func (f Frame) Grid() (*circuit.Grid, error) {
	return circuit.Decode(f.Data)
}

// Options configures a Session.
type Options struct {
	Name string
	// Period is the interval between ticks while running. Defaults to 200ms.
	Period time.Duration
	// Buffer is the per-subscriber frame queue length. Defaults to 8.
	Buffer int
	Logger *slog.Logger
}

type cmdReq struct {
	cmd   Command
	reply chan error
}

type subReq struct {
	reply chan *Subscription
}

// Session is a live circuit simulation.
type Session struct {
	name   string
	period time.Duration
	buffer int
	log    *slog.Logger

	// Owned by the Run goroutine.
	grid    *circuit.Grid
	tick    uint64
	running bool
	subs    map[int]chan Frame
	nextSub int

	cmds   chan cmdReq
	sub    chan subReq
	unsub  chan int
	snaps  chan chan snapshot.Snapshot
	done   chan struct{}
	runner sync.Once
}

// New returns a session over g. The session takes ownership of g.
func New(g *circuit.Grid, opts Options) *Session {
	if opts.Period <= 0 {
		opts.Period = 200 * time.Millisecond
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 8
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Session{
		name:   opts.Name,
		period: opts.Period,
		buffer: opts.Buffer,
		log:    opts.Logger.With("session", opts.Name),
		grid:   g,
		subs:   make(map[int]chan Frame),
		cmds:   make(chan cmdReq),
		sub:    make(chan subReq),
		unsub:  make(chan int),
		snaps:  make(chan chan snapshot.Snapshot),
		done:   make(chan struct{}),
	}
}

// Name returns the session name.
func (s *Session) Name() string { return s.name }

// Run owns the grid until ctx is cancelled. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	err := ErrClosed
	s.runner.Do(func() { err = s.run(ctx) })
	return err
}

func (s *Session) run(ctx context.Context) error {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	defer func() {
		for id, ch := range s.subs {
			close(ch)
			delete(s.subs, id)
		}
		close(s.done)
	}()

	s.log.Info("session started",
		"width", s.grid.Width(), "height", s.grid.Height(), "period", s.period)
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopped", "tick", s.tick)
			return ctx.Err()
		case req := <-s.cmds:
			req.reply <- s.apply(req.cmd)
		case req := <-s.sub:
			req.reply <- s.addSubscriber()
		case id := <-s.unsub:
			if ch, ok := s.subs[id]; ok {
				close(ch)
				delete(s.subs, id)
			}
		case reply := <-s.snaps:
			reply <- snapshot.Snapshot{Name: s.name, Tick: s.tick, Grid: s.grid.Clone()}
		case <-ticker.C:
			if s.running {
				s.step()
				s.publish()
			}
		}
	}
}

func (s *Session) apply(cmd Command) error {
	ok := true
	switch cmd.Op {
	case OpPlace:
		ok = s.grid.Put(cmd.X, cmd.Y, cmd.Cell)
	case OpClear:
		ok = s.grid.Clear(cmd.X, cmd.Y)
	case OpRotate:
		ok = s.grid.Rotate(cmd.X, cmd.Y)
	case OpSetActive:
		ok = s.grid.SetActive(cmd.X, cmd.Y, cmd.Active)
	case OpStep:
		s.step()
	case OpRun:
		s.running = true
	case OpPause:
		s.running = false
	default:
		return fmt.Errorf("%w: unknown %s", ErrRejected, cmd.Op)
	}
	if !ok {
		s.log.Debug("command rejected", "op", cmd.Op.String(), "x", cmd.X, "y", cmd.Y)
		return fmt.Errorf("%w: %s at %d,%d", ErrRejected, cmd.Op, cmd.X, cmd.Y)
	}
	s.log.Debug("command applied", "op", cmd.Op.String(), "x", cmd.X, "y", cmd.Y)
	s.publish()
	return nil
}

func (s *Session) step() {
	s.grid.Simulate()
	s.tick++
	s.log.Log(context.Background(), logging.LevelTrace, "tick", "tick", s.tick, "epoch", s.grid.Epoch())
}

func (s *Session) frame() Frame {
	data, _ := s.grid.MarshalBinary()
	return Frame{
		Name:    s.name,
		Tick:    s.tick,
		Running: s.running,
		Width:   s.grid.Width(),
		Height:  s.grid.Height(),
		Data:    data,
	}
}

// publish hands the current frame to every subscriber. A subscriber whose
// queue is full loses its oldest frame.
func (s *Session) publish() {
	if len(s.subs) == 0 {
		return
	}
	f := s.frame()
	for _, ch := range s.subs {
		select {
		case ch <- f:
			continue
		default:
		}
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- f:
		default:
		}
	}
}

func (s *Session) addSubscriber() *Subscription {
	id := s.nextSub
	s.nextSub++
	ch := make(chan Frame, s.buffer)
	ch <- s.frame()
	s.subs[id] = ch
	return &Subscription{C: ch, id: id, s: s}
}

// Do submits cmd and waits for it to be applied.
func (s *Session) Do(ctx context.Context, cmd Command) error {
	reply := make(chan error, 1)
	select {
	case s.cmds <- cmdReq{cmd: cmd, reply: reply}:
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscription receives frames, starting with the current state.
// C is closed by Close or when the session stops.
type Subscription struct {
	C    <-chan Frame
	id   int
	s    *Session
	once sync.Once
}

// Subscribe registers a frame subscriber.
func (s *Session) Subscribe(ctx context.Context) (*Subscription, error) {
	reply := make(chan *Subscription, 1)
	select {
	case s.sub <- subReq{reply: reply}:
	case <-s.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return <-reply, nil
}

// Close unregisters the subscription.
func (sub *Subscription) Close() {
	sub.once.Do(func() {
		select {
		case sub.s.unsub <- sub.id:
		case <-sub.s.done:
		}
	})
}

// Snapshot captures the grid and tick counter.
func (s *Session) Snapshot(ctx context.Context) (snapshot.Snapshot, error) {
	reply := make(chan snapshot.Snapshot, 1)
	select {
	case s.snaps <- reply:
	case <-s.done:
		return snapshot.Snapshot{}, ErrClosed
	case <-ctx.Done():
		return snapshot.Snapshot{}, ctx.Err()
	}
	return <-reply, nil
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }

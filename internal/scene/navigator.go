package scene

import (
	"BattingNarrativeApi/internal/jsonlog"
	"context"
)

// SnapshotFunc builds the message pushed to watchers for a state.
type SnapshotFunc func(s State) ([]byte, error)

type result struct {
	state State
	err   error
}

type dispatch struct {
	event Event
	reply chan result
}

// Navigator owns the live navigation state. Events are applied one at a time by Run, and
// every change is pushed to the joined watchers.
type Navigator struct {
	catalog  Catalog
	snapshot SnapshotFunc
	logger   *jsonlog.Logger
	state    State
	watchers map[*Watcher]bool
	events   chan dispatch
	queries  chan chan State
	join     chan *Watcher
	leave    chan *Watcher
	done     chan struct{}
}

func NewNavigator(catalog Catalog, snapshot SnapshotFunc, logger *jsonlog.Logger) *Navigator {
	return &Navigator{
		catalog:  catalog,
		snapshot: snapshot,
		logger:   logger,
		watchers: make(map[*Watcher]bool),
		events:   make(chan dispatch),
		queries:  make(chan chan State),
		join:     make(chan *Watcher),
		leave:    make(chan *Watcher),
		done:     make(chan struct{}),
	}
}

// Run processes events until ctx is cancelled, then disconnects all watchers.
func (n *Navigator) Run(ctx context.Context) {
	defer close(n.done)

	for {
		select {
		case <-ctx.Done():
			for w := range n.watchers {
				delete(n.watchers, w)
				close(w.send)
			}
			return
		case w := <-n.join:
			n.watchers[w] = true
			if msg, ok := n.buildSnapshot(); ok {
				n.sendTo(w, msg)
			}
		case w := <-n.leave:
			if _, ok := n.watchers[w]; ok {
				delete(n.watchers, w)
				close(w.send)
			}
		case req := <-n.events:
			next, err := req.event.apply(n.state, n.catalog)
			if err == nil {
				changed := !next.Equal(n.state)
				n.state = next
				n.logger.PrintInfo("scene transition", map[string]string{
					"event": req.event.Name(),
					"scene": n.state.String(),
				})
				if changed {
					n.broadcast()
				}
			}
			req.reply <- result{state: n.state, err: err}
		case reply := <-n.queries:
			reply <- n.state
		}
	}
}

// Dispatch applies e to the live state and returns the resulting state. On a rejected
// event the returned state is the unchanged current one.
func (n *Navigator) Dispatch(ctx context.Context, e Event) (State, error) {
	req := dispatch{event: e, reply: make(chan result, 1)}

	select {
	case n.events <- req:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-n.done:
		return State{}, ErrNavigatorStopped
	}

	select {
	case res := <-req.reply:
		return res.state, res.err
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

func (n *Navigator) State(ctx context.Context) (State, error) {
	reply := make(chan State, 1)

	select {
	case n.queries <- reply:
	case <-ctx.Done():
		return State{}, ctx.Err()
	case <-n.done:
		return State{}, ErrNavigatorStopped
	}

	select {
	case s := <-reply:
		return s, nil
	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Join registers w; it immediately receives the current scene.
func (n *Navigator) Join(w *Watcher) error {
	select {
	case n.join <- w:
		return nil
	case <-n.done:
		return ErrNavigatorStopped
	}
}

func (n *Navigator) Leave(w *Watcher) {
	select {
	case n.leave <- w:
	case <-n.done:
	}
}

func (n *Navigator) buildSnapshot() ([]byte, bool) {
	msg, err := n.snapshot(n.state)
	if err != nil {
		n.logger.PrintError(err, map[string]string{"scene": n.state.String()})
		return nil, false
	}
	return msg, true
}

func (n *Navigator) broadcast() {
	if len(n.watchers) == 0 {
		return
	}
	msg, ok := n.buildSnapshot()
	if !ok {
		return
	}
	for w := range n.watchers {
		n.sendTo(w, msg)
	}
}

// sendTo drops a watcher whose queue is full.
func (n *Navigator) sendTo(w *Watcher, msg []byte) {
	select {
	case w.send <- msg:
	default:
		delete(n.watchers, w)
		close(w.send)
		n.logger.PrintInfo("dropped slow watcher", map[string]string{"watcher": w.ID.String()})
	}
}

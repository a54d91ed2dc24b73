package session

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vk/nodegraph/internal/evaluator"
	"github.com/vk/nodegraph/internal/graph"
	"github.com/vk/nodegraph/internal/ident"
	"github.com/vk/nodegraph/internal/outcache"
	"github.com/vk/nodegraph/internal/templates"
	"github.com/vk/nodegraph/internal/value"
)

// Session owns a graph and the state an editor keeps around it.
type Session struct {
	mu       sync.Mutex
	id       uuid.UUID
	graph    *templates.Graph
	registry *templates.Registry
	eval     *evaluator.Evaluator
	cache    *outcache.Retained
	logger   *slog.Logger

	active    ident.NodeID
	hasActive bool
}

type options struct {
	graph      *templates.Graph
	logger     *slog.Logger
	expiration time.Duration
	hook       evaluator.ComputeHook
}

// Option configures a Session.
type Option func(*options)

// WithGraph starts the session from an existing graph instead of an empty
// one. The session takes ownership of g.
func WithGraph(g *templates.Graph) Option {
	return func(o *options) { o.graph = g }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCacheExpiration bounds how long computed outputs are retained. Zero
// retains them until invalidated. Without the option outputs expire after
// outcache.DefaultExpiration.
func WithCacheExpiration(d time.Duration) Option {
	return func(o *options) { o.expiration = d }
}

// WithComputeHook observes every node computation.
func WithComputeHook(h evaluator.ComputeHook) Option {
	return func(o *options) { o.hook = h }
}

// New creates a session offering the templates of reg.
func New(reg *templates.Registry, opts ...Option) *Session {
	o := options{logger: slog.Default(), expiration: outcache.DefaultExpiration}
	for _, opt := range opts {
		opt(&o)
	}
	if o.graph == nil {
		o.graph = graph.New[templates.NodeData]()
	}

	id := uuid.New()
	logger := o.logger.With("session", id.String())
	evalOpts := []evaluator.Option{evaluator.WithLogger(logger)}
	if o.hook != nil {
		evalOpts = append(evalOpts, evaluator.WithComputeHook(o.hook))
	}

	return &Session{
		id:       id,
		graph:    o.graph,
		registry: reg,
		eval:     evaluator.New(evalOpts...),
		cache:    outcache.NewRetained(o.expiration, outcache.DefaultCleanupInterval),
		logger:   logger,
	}
}

// ID identifies the session in logs and on the wire.
func (s *Session) ID() uuid.UUID { return s.id }

// Templates lists the templates that can be added.
func (s *Session) Templates() []templates.Template { return s.registry.All() }

// View runs fn with read access to the graph. fn must not retain g or mutate
// it.
func (s *Session) View(fn func(g *templates.Graph)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.graph)
}

// AddNode instantiates t.
func (s *Session) AddNode(t templates.Template) (ident.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := templates.Instantiate(s.graph, t)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("Node added.", "node", id, "template", t)
	return id, nil
}

// AddTextScaffold adds a Text node feeding the body of a new Scaffold node.
func (s *Session) AddTextScaffold() (text, scaffold ident.NodeID, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if text, err = templates.Instantiate(s.graph, templates.Text); err != nil {
		return 0, 0, err
	}
	if scaffold, err = templates.Instantiate(s.graph, templates.Scaffold); err != nil {
		return 0, 0, err
	}
	out, err := s.graph.GetOutput(text, "widget")
	if err != nil {
		return 0, 0, err
	}
	in, err := s.graph.GetInput(scaffold, "body")
	if err != nil {
		return 0, 0, err
	}
	if err := s.graph.AddConnection(out, in); err != nil {
		return 0, 0, err
	}
	s.logger.Debug("Text scaffold added.", "text", text, "scaffold", scaffold)
	return text, scaffold, nil
}

// RemoveNode removes a node with its connections. The selection is cleared
// if it pointed at the removed node.
func (s *Session) RemoveNode(id ident.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.invalidate(id); err != nil {
		return err
	}
	removed, err := s.graph.RemoveNode(id)
	if err != nil {
		return err
	}
	if s.hasActive && s.active == id {
		s.hasActive = false
	}
	s.logger.Debug("Node removed.", "node", id, "connections", len(removed))
	return nil
}

// Connect feeds input from output.
func (s *Session) Connect(output ident.OutputID, input ident.InputID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.graph.AddConnection(output, input); err != nil {
		return err
	}
	return s.invalidateInput(input)
}

// Disconnect removes the connection feeding input, if any.
func (s *Session) Disconnect(input ident.InputID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.invalidateInput(input); err != nil {
		return err
	}
	s.graph.RemoveConnection(input)
	return nil
}

// SetInputValue replaces the inline constant of input.
func (s *Session) SetInputValue(input ident.InputID, v value.Value) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.graph.SetInputValue(input, v); err != nil {
		return err
	}
	return s.invalidateInput(input)
}

// ClearInputValue drops the inline constant of input. An unconnected input
// without a constant fails evaluation with a missing value.
func (s *Session) ClearInputValue(input ident.InputID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.graph.ClearInputValue(input); err != nil {
		return err
	}
	return s.invalidateInput(input)
}

// SetInputJSON decodes raw against the input's data type and stores it.
func (s *Session) SetInputJSON(input ident.InputID, raw json.RawMessage) error {
	s.mu.Lock()
	p, err := s.graph.Input(input)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	v, err := decodeValue(p.Type, raw)
	if err != nil {
		return fmt.Errorf("input %q: %w", p.Name, err)
	}
	return s.SetInputValue(input, v)
}

// SetActive selects the node whose result is reported by Status.
func (s *Session) SetActive(id ident.NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.graph.Node(id); err != nil {
		return err
	}
	s.active, s.hasActive = id, true
	return nil
}

// ClearActive drops the selection.
func (s *Session) ClearActive() {
	s.mu.Lock()
	s.hasActive = false
	s.mu.Unlock()
}

// Active returns the selected node.
func (s *Session) Active() (ident.NodeID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.hasActive
}

// Upstream lists the nodes directly feeding id.
func (s *Session) Upstream(id ident.NodeID) ([]ident.NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.Upstream(id)
}

// Evaluate computes the primary output of id, reusing retained outputs.
func (s *Session) Evaluate(id ident.NodeID) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval.Evaluate(s.graph, id, s.cache)
}

// EvaluateOutput computes the named output of id, reusing retained outputs.
func (s *Session) EvaluateOutput(id ident.NodeID, output string) (value.Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eval.EvaluateOutput(s.graph, id, output, s.cache)
}

// Status evaluates the active node and describes the result. It is empty
// when nothing is selected.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasActive {
		return ""
	}
	if !s.graph.HasNode(s.active) {
		s.hasActive = false
		return ""
	}
	v, err := s.eval.Evaluate(s.graph, s.active, s.cache)
	if err != nil {
		return fmt.Sprintf("Execution error: %v", err)
	}
	return fmt.Sprintf("The result is: %s", v)
}

func (s *Session) invalidateInput(input ident.InputID) error {
	p, err := s.graph.Input(input)
	if err != nil {
		return err
	}
	return s.invalidate(p.Node)
}

// invalidate drops the cached outputs of id and of every node downstream of
// it. Callers hold mu.
func (s *Session) invalidate(id ident.NodeID) error {
	seen := map[ident.NodeID]bool{id: true}
	queue := []ident.NodeID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		n, err := s.graph.Node(cur)
		if err != nil {
			return err
		}
		s.cache.Delete(n.Outputs...)

		next, err := s.graph.Downstream(cur)
		if err != nil {
			return err
		}
		for _, d := range next {
			if !seen[d] {
				seen[d] = true
				queue = append(queue, d)
			}
		}
	}
	if len(seen) > 1 {
		s.logger.Debug("Invalidated cached outputs.", "root", id, "nodes", len(seen))
	}
	return nil
}

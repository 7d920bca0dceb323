// Package session holds the mutable state of one packing session: the active
// mode and its policy, the packed circles, the id counter and the transient
// drag context. Every presentation-layer event goes through a Session method.
package session

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/piwi3910/coinpack/internal/engine"
	"github.com/piwi3910/coinpack/internal/model"
)

// Drag is the transient state of a circle under the pointer. It exists from
// BeginNew/BeginDrag until Drop or Cancel.
type Drag struct {
	Circle *model.Circle
	IsNew  bool        // Spawned from the supply, not yet packed
	Origin model.Point // Last valid position of an existing circle

	before Snapshot
}

// DropResult reports how a drag ended.
type DropResult struct {
	Outcome model.DropOutcome   `json:"outcome"`
	Circle  model.Circle        `json:"circle"`
	Resolve engine.ResolveStats `json:"resolve"`
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used by the session and its resolver.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session is safe for concurrent use; all mutations are serialized.
type Session struct {
	ID string

	mu       sync.Mutex
	settings model.Settings
	policy   engine.Policy
	resolver *engine.Resolver
	circles  []*model.Circle
	nextID   int
	drag     *Drag
	history  *History
	metrics  model.Metrics
	logger   *slog.Logger
}

// New creates an empty session in the settings' mode.
func New(settings model.Settings, opts ...Option) *Session {
	s := &Session{
		ID:       uuid.New().String()[:8],
		settings: settings,
		history:  NewHistory(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resolver = engine.NewResolver(settings)
	s.resolver.Logger = s.logger
	s.policy = engine.PolicyFor(settings)
	s.refresh()
	return s
}

// Settings returns the current session settings.
func (s *Session) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Mode returns the active mode.
func (s *Session) Mode() model.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Mode()
}

// Radius returns the radius every circle of the session shares.
func (s *Session) Radius() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.Radius()
}

// BoxSize returns the side of the active container square.
func (s *Session) BoxSize() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy.BoxSize()
}

// Circles returns a copy of the packed circles in placement order.
func (s *Session) Circles() []model.Circle {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Circle, len(s.circles))
	for i, c := range s.circles {
		out[i] = *c
	}
	return out
}

// Metrics returns the metrics computed after the last state change.
func (s *Session) Metrics() model.Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.metrics
	m.Overlapping = make(map[int]bool, len(s.metrics.Overlapping))
	for id, v := range s.metrics.Overlapping {
		m.Overlapping[id] = v
	}
	return m
}

// Dragging returns the circle under the pointer, if any.
func (s *Session) Dragging() (model.Circle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return model.Circle{}, false
	}
	return *s.drag.Circle, true
}

// SwitchMode clears the board and restarts the id counter under the new
// mode's radius and boundary rules. Switching to the active mode is a no-op.
func (s *Session) SwitchMode(mode model.Mode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mode == s.settings.Mode {
		return false
	}
	s.settings.Mode = mode
	s.policy = engine.PolicyFor(s.settings)
	s.drag = nil
	s.circles = nil
	s.nextID = 0
	s.history.Clear()
	s.refresh()
	s.logger.Info("mode switched", "session", s.ID, "mode", mode, "radius", s.policy.Radius())
	return true
}

// SetRadius changes the sandbox radius and propagates it to every circle.
// Puzzle mode keeps its fixed radius, and negative input is ignored.
func (s *Session) SetRadius(r int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.Mode != model.ModeSandbox || r < 0 {
		return false
	}
	s.settings.Radius = r
	s.policy = engine.PolicyFor(s.settings)
	s.applyRadius()
	s.refresh()
	s.logger.Debug("radius changed", "session", s.ID, "radius", r)
	return true
}

// BeginNew spawns a transient circle from the supply at p and starts dragging
// it. Any drag still in progress is cancelled first.
func (s *Session) BeginNew(p model.Point) model.Circle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beginNewLocked(p)
}

func (s *Session) beginNewLocked(p model.Point) model.Circle {
	s.cancelLocked()

	c := &model.Circle{ID: s.nextID, X: p.X, Y: p.Y, R: s.policy.Radius()}
	s.nextID++
	s.drag = &Drag{
		Circle: c,
		IsNew:  true,
		before: MakeSnapshot(s.circles, fmt.Sprintf("Place circle %d", c.ID)),
	}
	return *c
}

// BeginDrag starts dragging the packed circle with the given id. It returns
// false when no such circle exists.
func (s *Session) BeginDrag(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	c := s.find(id)
	if c == nil {
		return false
	}
	s.drag = &Drag{
		Circle: c,
		Origin: c.Center(),
		before: MakeSnapshot(s.circles, fmt.Sprintf("Move circle %d", id)),
	}
	return true
}

// Move puts the dragged circle at p and runs one in-progress resolve pass in
// which the dragged circle holds still and the others yield.
func (s *Session) Move(p model.Point) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return false
	}
	s.drag.Circle.MoveTo(p)

	working := s.circles
	if s.drag.IsNew && s.policy.AcceptsDrop(p) {
		working = append(append([]*model.Circle(nil), s.circles...), s.drag.Circle)
	}
	s.resolver.Resolve(working, s.policy, s.drag.Circle.ID, false)
	s.refresh()
	return true
}

// Drop releases the dragged circle at p. Accepted drops are contained by the
// boundary policy and resolved with every circle participating. Rejected
// drops follow the policy: new circles are discarded, existing ones snap back
// or are removed. Dropping with no active drag is a no-op.
func (s *Session) Drop(p model.Point) DropResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dropLocked(p)
}

func (s *Session) dropLocked(p model.Point) DropResult {
	if s.drag == nil {
		return DropResult{Outcome: model.OutcomeIgnored}
	}
	d := s.drag
	s.drag = nil

	if !s.policy.AcceptsDrop(p) {
		return s.reject(d)
	}

	d.Circle.MoveTo(p)
	s.policy.Contain(d.Circle)
	if d.IsNew {
		s.circles = append(s.circles, d.Circle)
	}
	stats := s.resolver.Resolve(s.circles, s.policy, d.Circle.ID, true)
	s.commit(d)
	s.refresh()

	s.logger.Debug("circle placed",
		"session", s.ID,
		"id", d.Circle.ID,
		"x", d.Circle.X,
		"y", d.Circle.Y,
		"passes", stats.Passes,
	)
	return DropResult{Outcome: model.OutcomePlaced, Circle: *d.Circle, Resolve: stats}
}

// Cancel aborts the drag exactly as if it had been dropped outside the valid area.
func (s *Session) Cancel() DropResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return DropResult{Outcome: model.OutcomeIgnored}
	}
	d := s.drag
	s.drag = nil
	return s.reject(d)
}

// Place spawns a circle and drops it at p in one step. No other event can
// land between the spawn and the drop.
func (s *Session) Place(p model.Point) DropResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beginNewLocked(p)
	return s.dropLocked(p)
}

// Remove takes the circle with the given id out of the packed set. Unknown
// ids are a no-op.
func (s *Session) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.find(id) == nil {
		return false
	}
	if s.drag != nil && s.drag.Circle.ID == id {
		s.drag = nil
	}
	s.history.Push(MakeSnapshot(s.circles, fmt.Sprintf("Remove circle %d", id)))
	s.removeLocked(id)
	s.refresh()
	return true
}

// Reset clears every packed circle and restarts the id counter.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.circles) > 0 {
		s.history.Push(MakeSnapshot(s.circles, "Reset"))
	}
	s.drag = nil
	s.circles = nil
	s.nextID = 0
	s.refresh()
	s.logger.Info("session reset", "session", s.ID)
}

// Undo restores the packing from before the last placement, removal or reset.
// It is refused while a drag is in progress.
func (s *Session) Undo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag != nil {
		return false
	}
	snap, ok := s.history.Undo(MakeSnapshot(s.circles, "Redo"))
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// Redo reapplies the last undone change.
func (s *Session) Redo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag != nil {
		return false
	}
	snap, ok := s.history.Redo(MakeSnapshot(s.circles, "Undo"))
	if !ok {
		return false
	}
	s.restore(snap)
	return true
}

// CanUndo reports whether Undo has anything to restore.
func (s *Session) CanUndo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanUndo()
}

// CanRedo reports whether Redo has anything to restore.
func (s *Session) CanRedo() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.CanRedo()
}

// reject ends a drag whose circle was not accepted. Circles pushed aside by
// the drag go back to where they were before it started. The caller holds s.mu.
func (s *Session) reject(d *Drag) DropResult {
	s.rewind(d.before)
	outcome := s.policy.RejectOutcome(d.IsNew)
	switch outcome {
	case model.OutcomeSnappedBack:
		d.Circle.MoveTo(d.Origin)
	case model.OutcomeRemoved:
		s.removeLocked(d.Circle.ID)
	}
	s.commit(d)
	s.refresh()

	s.logger.Debug("drop rejected", "session", s.ID, "id", d.Circle.ID, "outcome", outcome)
	return DropResult{Outcome: outcome, Circle: *d.Circle}
}

// cancelLocked rejects any drag in progress. The caller holds s.mu.
func (s *Session) cancelLocked() {
	if s.drag == nil {
		return
	}
	d := s.drag
	s.drag = nil
	s.reject(d)
}

// commit records the pre-drag state for undo when the drag changed anything.
func (s *Session) commit(d *Drag) {
	after := MakeSnapshot(s.circles, "")
	if sameCircles(d.before.Circles, after.Circles) {
		return
	}
	s.history.Push(d.before)
}

// rewind puts every packed circle back at its position in snap. Circles
// missing from snap keep their place, and radii are left alone.
func (s *Session) rewind(snap Snapshot) {
	pos := make(map[int]model.Point, len(snap.Circles))
	for _, c := range snap.Circles {
		pos[c.ID] = c.Center()
	}
	for _, c := range s.circles {
		if p, ok := pos[c.ID]; ok {
			c.MoveTo(p)
		}
	}
}

func (s *Session) restore(snap Snapshot) {
	r := s.policy.Radius()
	s.circles = make([]*model.Circle, len(snap.Circles))
	for i := range snap.Circles {
		c := snap.Circles[i]
		c.R = r
		s.circles[i] = &c
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
	s.refresh()
	s.logger.Debug("history restored", "session", s.ID, "label", snap.Label, "circles", len(s.circles))
}

func (s *Session) find(id int) *model.Circle {
	for _, c := range s.circles {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Session) removeLocked(id int) {
	kept := s.circles[:0]
	for _, c := range s.circles {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.circles = kept
}

func (s *Session) applyRadius() {
	r := s.policy.Radius()
	for _, c := range s.circles {
		c.R = r
	}
	if s.drag != nil {
		s.drag.Circle.R = r
	}
}

func (s *Session) refresh() {
	s.metrics = engine.ComputeMetrics(s.circles, s.policy, s.settings)
}

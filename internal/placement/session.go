package placement

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/internal/snap"
	"github.com/Faultbox/ghostbrush/internal/tick"
)

// VariantSwapper replaces the variant of a placed object in the host world.
type VariantSwapper interface {
	SwapVariant(obj LiveObject, to orient.ObjectID) (LiveObject, error)
}

// SessionConfig wires a preview session to its collaborators.
type SessionConfig struct {
	Objects orient.ObjectSource
	Orient  *orient.Resolver
	Placer  *Resolver
	Applier *Applier       // optional
	Swapper VariantSwapper // optional
	Actor   Actor
	Flags   snap.Flags
	Log     *zap.Logger
}

// Session is one active ghost preview: the selected object, its cursor, the
// current target and the last placement request.
type Session struct {
	ID uuid.UUID

	cfg    SessionConfig
	log    *zap.Logger
	cursor *orient.Cursor

	object  orient.Object
	subtype string
	hit     picking.Hit
	hasHit  bool
	flags   snap.Flags
	live    LiveObject

	dirty     bool
	evaluated bool
	lastHit   picking.Hit
	lastFlags snap.Flags
	request   Request
	evals     int

	cancels []func()
}

// NewSession creates a session with no selected object.
func NewSession(cfg SessionConfig) *Session {
	id := uuid.New()
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		ID:     id,
		cfg:    cfg,
		log:    log.With(zap.String("session", id.String())),
		cursor: orient.NewCursor(nil),
		flags:  cfg.Flags,
		dirty:  true,
	}
	s.cursor.Observe(s.onChange)
	return s
}

// Cursor returns the session's orientation cursor.
func (s *Session) Cursor() *orient.Cursor {
	return s.cursor
}

// Object returns the selected object.
func (s *Session) Object() orient.Object {
	return s.object
}

// Flags returns the active snapping flags.
func (s *Session) Flags() snap.Flags {
	return s.flags
}

// Select switches the preview to obj. The orientation table is replaced and
// the cursor re-seated on obj's own entry without emitting a change.
func (s *Session) Select(obj orient.Object, subtype string) {
	t := s.cfg.Orient.Resolve(obj.ID, subtype)
	s.object = obj
	s.subtype = subtype
	s.cursor.Reset(t, obj.ID)
	s.dirty = true
	s.log.Debug("object selected",
		zap.String("code", obj.Code),
		zap.Stringer("mode", s.cfg.Orient.ModeFor(obj.ID, subtype)),
		zap.Int("orientations", len(t)),
		zap.Int("index", s.cursor.Index()),
	)
}

// Target sets the raycast hit the preview follows.
func (s *Session) Target(hit picking.Hit) {
	s.hit = hit
	s.hasHit = true
}

// ClearTarget drops the current hit; the next evaluation clears the request.
func (s *Session) ClearTarget() {
	s.hasHit = false
	s.dirty = true
}

// SetFlags changes the snapping flags.
func (s *Session) SetFlags(f snap.Flags) {
	s.flags = f
}

// Rotate steps the orientation cursor. When a bound object's variant cannot
// be swapped, the cursor is rolled back to the bound variant.
func (s *Session) Rotate(dir int) (orient.Change, bool) {
	return s.cursor.Rotate(dir)
}

// SetIndex selects an orientation directly.
func (s *Session) SetIndex(i int) (orient.Change, bool) {
	return s.cursor.SetIndex(i)
}

// Bind attaches an already placed object; later orientation changes are
// applied to it instead of only to the preview. The cursor is seated on the
// live variant's entry nearest to the stored angle, without transforming.
func (s *Session) Bind(live LiveObject) {
	s.live = nil
	if live == nil {
		return
	}
	if i, exact, ok := matchLive(s.cursor.Table(), live); ok {
		if !exact {
			s.log.Debug("stored angle off table, binding to nearest entry",
				zap.Int("object", int(live.ObjectID())),
				zap.Float64("angle", s.cursor.Table()[i].MeshAngle),
			)
		}
		s.cursor.SetIndex(i)
	} else {
		s.cursor.TrySyncToObjectID(live.ObjectID())
	}
	s.live = live
}

// matchLive finds the entry for live's variant whose mesh angle is nearest,
// on the circle, to the angle the object currently stores. exact reports a
// match within AngleEpsilon.
func matchLive(t orient.Table, live LiveObject) (idx int, exact, ok bool) {
	attrs := live.Attributes()
	best := math.Inf(1)
	for i, d := range t {
		if d.VariantID != live.ObjectID() || d.RotationAttribute == "" {
			continue
		}
		stored, found := attrs[d.RotationAttribute]
		if !found {
			continue
		}
		if dist := orient.AngleDistance(stored, d.MeshAngle); dist < best {
			best, idx, ok = dist, i, true
		}
	}
	return idx, ok && best <= orient.AngleEpsilon, ok
}

// Unbind detaches the placed object.
func (s *Session) Unbind() {
	s.live = nil
}

// Live returns the bound placed object, if any.
func (s *Session) Live() LiveObject {
	return s.live
}

func (s *Session) onChange(ch orient.Change) {
	s.dirty = true
	if s.live == nil {
		return
	}

	if ch.VariantChanged() {
		if s.cfg.Swapper == nil {
			s.log.Debug("variant change on placed object without swapper",
				zap.Int("to", int(ch.Current.VariantID)))
			s.cursor.Seat(ch.PrevIndex)
			return
		}
		swapped, err := s.cfg.Swapper.SwapVariant(s.live, ch.Current.VariantID)
		if err != nil {
			s.log.Warn("variant swap failed", zap.Error(err))
			s.cursor.Seat(ch.PrevIndex)
			return
		}
		s.live = swapped
	}

	prev := ch.Prev
	if a, ok := storedAngle(s.live, ch.Current); ok {
		prev.MeshAngle = a
	}
	if orient.AngleDistance(prev.MeshAngle, ch.Current.MeshAngle) == 0 {
		return
	}
	if s.cfg.Applier == nil {
		s.log.Debug("no applier, placed object keeps its angle")
		return
	}
	if !s.cfg.Applier.Apply(s.live, prev, ch.Current) {
		s.log.Debug("placed object did not accept rotation",
			zap.Int("object", int(s.live.ObjectID())))
	}
}

// storedAngle reads the angle live currently stores under def's rotation
// attribute.
func storedAngle(live LiveObject, def orient.Definition) (float64, bool) {
	attr := def.RotationAttribute
	if attr == "" {
		return 0, false
	}
	a, ok := live.Attributes()[attr]
	return a, ok
}

// Request returns the last evaluated placement request. ok is false when
// there is no target.
func (s *Session) Request() (Request, bool) {
	return s.request, s.evaluated && s.hasHit
}

// Evaluations returns how many times the placement was recomputed.
func (s *Session) Evaluations() int {
	return s.evals
}

// Refresh re-evaluates the placement when something changed since the last
// evaluation. It reports whether an evaluation ran.
func (s *Session) Refresh() bool {
	if !s.dirty && s.evaluated && s.hit == s.lastHit && s.flags == s.lastFlags {
		return false
	}
	s.evaluate()
	return true
}

// Revalidate re-evaluates unconditionally, picking up world changes that
// do not touch the session's own inputs.
func (s *Session) Revalidate() {
	s.evaluate()
}

func (s *Session) evaluate() {
	s.dirty = false
	s.evaluated = true
	s.lastHit = s.hit
	s.lastFlags = s.flags
	if !s.hasHit {
		s.request = Request{}
		return
	}

	def := s.cursor.Current()
	obj, ok := s.cfg.Objects.Object(def.VariantID)
	if !ok {
		obj = s.object
	}
	s.request = s.cfg.Placer.Build(s.cfg.Actor, obj, def, s.hit, s.flags)
	s.evals++
}

// Attach registers the fast (refresh) and slow (revalidate) cadences.
func (s *Session) Attach(sched tick.Scheduler, fast, slow time.Duration) {
	s.cancels = append(s.cancels,
		sched.Every(fast, func(time.Time) { s.Refresh() }),
		sched.Every(slow, func(time.Time) { s.Revalidate() }),
	)
}

// Close cancels the session's tick registrations.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
	s.cancels = nil
	s.live = nil
}

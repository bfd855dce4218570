package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"

	"github.com/Faultbox/ghostbrush/internal/catalog"
	"github.com/Faultbox/ghostbrush/internal/config"
	"github.com/Faultbox/ghostbrush/internal/logger"
	"github.com/Faultbox/ghostbrush/internal/orient"
	"github.com/Faultbox/ghostbrush/internal/picking"
	"github.com/Faultbox/ghostbrush/internal/placement"
	"github.com/Faultbox/ghostbrush/internal/snap"
	"github.com/Faultbox/ghostbrush/internal/tick"
	"github.com/Faultbox/ghostbrush/internal/world"
	"github.com/Faultbox/ghostbrush/pkg/grid"
)

type step struct {
	name string
	run  func() error
}

type sim struct {
	cfg     *config.Config
	log     *zap.Logger
	cat     *catalog.Catalog
	orient  *orient.Resolver
	grid    *world.Grid
	actor   placement.Actor
	look    picking.Look
	session *placement.Session
	loop    *tick.Loop

	script []step
	next   int
	err    error
	hup    chan os.Signal
}

func newSim(cfg *config.Config, log *zap.Logger) (*sim, error) {
	log = logger.OrNop(log)
	flags, err := cfg.SnapFlags()
	if err != nil {
		return nil, err
	}

	cat, err := catalog.Load(cfg.Catalog.Path, log.Named("catalog"))
	if err != nil {
		return nil, err
	}
	r := orient.NewResolver(cat, cat, log.Named("orient"))
	cat.OnReload(r.Invalidate)

	size := grid.Pos{X: cfg.World.SizeX, Y: cfg.World.SizeY, Z: cfg.World.SizeZ}
	g := world.NewGrid(size, log.Named("world"))
	floor := orient.ObjectID(1)
	if obj, ok := cat.Lookup("game:stone-granite"); ok {
		floor = obj.ID
	}
	if err := g.Fill(grid.Pos{}, grid.Pos{X: size.X - 1, Z: size.Z - 1}, floor); err != nil {
		return nil, err
	}

	actor := placement.Actor{
		Name:  "builder",
		Eye:   mgl64.Vec3{float64(size.X) / 2, 2.62, float64(size.Z) / 2},
		Reach: cfg.World.ActorReach,
	}

	s := &sim{
		cfg:    cfg,
		log:    log,
		cat:    cat,
		orient: r,
		grid:   g,
		actor:  actor,
		loop:   tick.NewLoop(time.Now(), log.Named("tick")),
		hup:    make(chan os.Signal, 1),
	}
	s.session = placement.NewSession(placement.SessionConfig{
		Objects: cat,
		Orient:  r,
		Placer:  placement.NewResolver(g, cfg.Placement.SnapThreshold, log.Named("placement")),
		Applier: placement.NewApplier(g, log.Named("applier")),
		Swapper: g,
		Actor:   actor,
		Flags:   flags,
		Log:     log.Named("session"),
	})

	// Session ticks are registered first so each script step sees the
	// request evaluated for the previous one.
	s.session.Attach(s.loop, cfg.Placement.FastTick, cfg.Placement.SlowTick)
	s.loop.Every(cfg.Placement.FastTick, s.advanceScript)
	s.loop.Every(cfg.Placement.SlowTick, s.checkReload)
	signal.Notify(s.hup, syscall.SIGHUP)

	s.script = s.buildScript()
	return s, nil
}

// Close releases the session and signal registration.
func (s *sim) Close() {
	signal.Stop(s.hup)
	s.session.Close()
}

func (s *sim) done() bool {
	return s.err != nil || s.next >= len(s.script)
}

// RunSimulated steps a virtual clock until the script finishes.
func (s *sim) RunSimulated() error {
	now := time.Now()
	for !s.done() {
		now = now.Add(s.cfg.Placement.FastTick)
		s.loop.Advance(now)
	}
	return s.err
}

// RunRealtime drives the loop from the wall clock until the script finishes
// or ctx is cancelled.
func (s *sim) RunRealtime(ctx context.Context) error {
	err := s.loop.Run(ctx, s.cfg.Placement.FastTick)
	if s.err != nil {
		return s.err
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (s *sim) advanceScript(time.Time) {
	if s.done() {
		return
	}
	s.logRequest()

	st := s.script[s.next]
	s.next++
	s.log.Info("step", zap.Int("n", s.next), zap.String("name", st.name))
	if err := st.run(); err != nil {
		s.err = fmt.Errorf("step %q: %w", st.name, err)
	}
	if s.done() {
		s.loop.Stop()
	}
}

func (s *sim) checkReload(time.Time) {
	select {
	case <-s.hup:
		if err := s.cat.Reload(); err != nil {
			s.log.Warn("catalog reload failed", zap.Error(err))
			return
		}
		obj, ok := s.cat.Object(s.session.Object().ID)
		if ok {
			s.session.Select(obj, "")
		}
	default:
	}
}

func (s *sim) logRequest() {
	req, ok := s.session.Request()
	if !ok {
		s.log.Debug("no placement target")
		return
	}
	code := fmt.Sprint(req.Definition.VariantID)
	if obj, ok := s.cat.Object(req.Definition.VariantID); ok {
		code = obj.Code
	}
	s.log.Info("placement request",
		zap.String("variant", code),
		zap.Float64("angle", req.Definition.MeshAngle),
		zap.Stringer("pos", req.Position),
		zap.Bool("legal", req.Legal),
		zap.Bool("snapped", req.Snapped),
	)
}

func (s *sim) lookup(code string) (orient.Object, error) {
	obj, ok := s.cat.Lookup(code)
	if !ok {
		return orient.Object{}, fmt.Errorf("catalog has no %s", code)
	}
	return obj, nil
}

// aim points the actor at the top face of the floor cell (x, z), offset by
// (du, dv) from the face center, and targets whatever the ray hits.
func (s *sim) aim(x, z int, du, dv float64) {
	target := mgl64.Vec3{float64(x) + 0.5 + du, 1, float64(z) + 0.5 + dv}
	s.look = picking.LookAt(s.actor.Eye, target)
	s.cast()
}

// cast targets whatever the current view ray hits.
func (s *sim) cast() {
	hit, ok := s.grid.Cast(s.look.Ray(s.actor.Eye), 4*s.actor.Reach+8)
	if !ok {
		s.session.ClearTarget()
		return
	}
	s.log.Debug("aim",
		zap.Stringer("block", hit.Block),
		zap.Stringer("normal", hit.Normal),
		zap.Float64("distance", hit.Distance),
	)
	s.session.Target(hit)
}

func (s *sim) rotate(dir int) {
	ch, ok := s.session.Rotate(dir)
	if !ok {
		s.log.Info("nothing to rotate", zap.String("code", s.session.Object().Code))
		return
	}
	s.log.Info("rotated",
		zap.Int("index", ch.Index),
		zap.Stringer("from", ch.Prev),
		zap.Stringer("to", ch.Current),
		zap.Bool("variant_changed", ch.VariantChanged()),
	)
}

// spawn places a live entity for code in front of the actor and binds it.
func (s *sim) spawn(code string, pos grid.Pos) error {
	obj, err := s.lookup(code)
	if err != nil {
		return err
	}
	transform, err := s.cat.HasLiveTransform(obj)
	if err != nil {
		return err
	}
	e, err := s.grid.Spawn(pos, obj.ID, transform, placement.Attributes{orient.DefaultMeshAngleAttr: 0})
	if err != nil {
		return err
	}
	s.session.Select(obj, "")
	s.session.Bind(e)
	return nil
}

func (s *sim) logLive() {
	live := s.session.Live()
	if live == nil {
		return
	}
	obj, _ := s.cat.Object(live.ObjectID())
	s.log.Info("placed object",
		zap.String("code", obj.Code),
		zap.Any("attributes", live.Attributes()),
	)
}

func (s *sim) buildScript() []step {
	cx, cz := s.cfg.World.SizeX/2, s.cfg.World.SizeZ/2
	selectCode := func(code, subtype string) error {
		obj, err := s.lookup(code)
		if err != nil {
			return err
		}
		s.session.Select(obj, subtype)
		return nil
	}

	return []step{
		{"select torch", func() error {
			s.aim(cx+1, cz, 0, 0)
			return selectCode("game:torch-north", "")
		}},
		{"rotate torch", func() error { s.rotate(1); return nil }},
		{"rotate torch back twice", func() error {
			s.rotate(-1)
			s.rotate(-1)
			return nil
		}},
		{"aim at face edge", func() error { s.aim(cx+1, cz, 0, 0.42); return nil }},
		{"look up", func() error {
			s.look.Turn(0, 1.2)
			s.cast()
			return nil
		}},
		{"look back down", func() error {
			s.look.Turn(0, -1.2)
			s.cast()
			return nil
		}},
		{"disable snapping", func() error { s.session.SetFlags(snap.None); return nil }},
		{"restore snapping", func() error { s.session.SetFlags(snap.Default); return nil }},
		{"select wooden crate", func() error {
			s.aim(cx, cz+1, 0, 0)
			return selectCode("game:crate", "wood")
		}},
		{"rotate crate", func() error {
			for i := 0; i < 3; i++ {
				s.rotate(1)
			}
			return nil
		}},
		{"bind placed chest", func() error {
			if err := s.spawn("game:chest", grid.Pos{X: cx - 1, Y: 1, Z: cz}); err != nil {
				return err
			}
			s.rotate(-1)
			s.logLive()
			return nil
		}},
		{"bind placed lantern", func() error {
			if err := s.spawn("game:lantern-iron-north", grid.Pos{X: cx, Y: 1, Z: cz - 1}); err != nil {
				return err
			}
			for i := 0; i < 4; i++ {
				s.rotate(1)
			}
			s.logLive()
			return nil
		}},
		{"release", func() error {
			s.session.Unbind()
			s.session.ClearTarget()
			return nil
		}},
	}
}

package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-eir/sim/geometry"
)

func TestCatalogScenesValidate(t *testing.T) {
	require.Len(t, Entries(), CatalogSize)

	for _, e := range Entries() {
		t.Run(e.Name, func(t *testing.T) {
			s, err := Catalog(e.ID)
			require.NoError(t, err)
			require.Equal(t, e.Name, s.Name)
			require.NoError(t, s.Validate())

			box := s.Bounds(0, 2, 9)
			require.True(t, box.Contains(s.Emitter.PositionAt(0)), "emitter outside bounds")
			require.True(t, box.Contains(s.Receiver.CenterAt(0)), "receiver outside bounds")
		})
	}
}

func TestCatalogUnknownScene(t *testing.T) {
	for _, id := range []int{-1, CatalogSize, 42} {
		_, err := Catalog(id)
		require.ErrorIs(t, err, ErrUnknownScene)
	}
}

func TestCatalogReturnsFreshScenes(t *testing.T) {
	a, err := Catalog(0)
	require.NoError(t, err)
	a.Receiver.Radius = 7

	b, err := Catalog(0)
	require.NoError(t, err)
	require.Equal(t, DefaultReceiverRadius, b.Receiver.Radius)
}

func TestStaticness(t *testing.T) {
	want := map[int]bool{0: true, 1: false, 2: false, 3: false, 4: false, 5: false}
	for id, static := range want {
		s, err := Catalog(id)
		require.NoError(t, err)
		require.Equal(t, static, s.IsStatic(), "scene %d", id)
	}
}

func TestApproachingReceiverSpeed(t *testing.T) {
	s, err := Catalog(2)
	require.NoError(t, err)

	d0 := s.Receiver.CenterAt(0).Sub(s.Emitter.PositionAt(0)).Len()
	d1 := s.Receiver.CenterAt(0.9).Sub(s.Emitter.PositionAt(0.9)).Len()
	require.InDelta(t, SpeedOfSound/9*0.9, d0-d1, 1e-9)
}

func TestLoopPeriod(t *testing.T) {
	want := map[int]float64{1: 1, 2: 1.25, 3: 4, 4: 1, 5: 2}
	for _, e := range Entries() {
		s, err := Catalog(e.ID)
		require.NoError(t, err)

		period, ok := s.LoopPeriod()
		p, looping := want[e.ID]
		require.Equal(t, looping, ok, e.Name)
		require.InDelta(t, p, period, 1e-12, e.Name)
	}

	s, err := Catalog(1)
	require.NoError(t, err)
	s.Receiver.Motion = geometry.Looped{Motion: geometry.Translation{Velocity: geometry.V(1, 0, 0)}, Period: 3}
	_, ok := s.LoopPeriod()
	require.False(t, ok, "incommensurate periods")
}

func TestValidateRejects(t *testing.T) {
	base := func() *Scene {
		s, err := Catalog(1)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name   string
		mutate func(s *Scene)
	}{
		{"nil shape", func(s *Scene) { s.Surfaces[0].Shape = nil }},
		{"empty composite", func(s *Scene) { s.Surfaces[0].Shape = geometry.Composite{} }},
		{"absorption above one", func(s *Scene) { s.Surfaces[0].Material.Absorption = 1.5 }},
		{"negative diffusion", func(s *Scene) { s.Surfaces[1].Material.Diffusion = -0.1 }},
		{"bad surface motion", func(s *Scene) { s.Surfaces[1].Motion = geometry.Rotation{AngularVelocity: 1} }},
		{"nan emitter", func(s *Scene) { s.Emitter.Position.X = math.NaN() }},
		{"zero cone", func(s *Scene) { s.Emitter.Directional = true }},
		{"bad receiver motion", func(s *Scene) { s.Receiver.Motion = geometry.Keyframes{} }},
		{"infinite radius", func(s *Scene) { s.Receiver.Radius = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			require.ErrorIs(t, s.Validate(), ErrInvalidScene)
		})
	}

	var nilScene *Scene
	require.ErrorIs(t, nilScene.Validate(), ErrInvalidScene)
}

func TestValidateAcceptsDegenerateReceiver(t *testing.T) {
	s, err := Catalog(0)
	require.NoError(t, err)
	s.Receiver.Radius = 0
	require.NoError(t, s.Validate())
}

func TestBoxWallsFaceInward(t *testing.T) {
	lo, hi := geometry.V(-1, -2, -3), geometry.V(4, 5, 6)
	center := lo.Add(hi).Scale(0.5)

	walls := Box(lo, hi).Facets()
	require.Len(t, walls, 6)
	for i, f := range walls {
		require.False(t, f.Degenerate(), "wall %d", i)
		require.Greater(t, geometry.SignedDistance(f, center), 0.0, "wall %d faces outward", i)
	}
}

func TestBoundsFollowMotion(t *testing.T) {
	s, err := Catalog(3)
	require.NoError(t, err)

	box := s.Bounds(0, 0, 1)
	require.InDelta(t, -15, box.Min.X, 1e-12)
	require.InDelta(t, 15, box.Max.X, 1e-12)
	require.True(t, box.Contains(s.Emitter.PositionAt(1)))
}

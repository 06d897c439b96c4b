package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eir/sim/geometry"
)

// ErrUnknownScene is returned by Catalog for an id outside the catalog.
var ErrUnknownScene = errors.New("scene: unknown scene id")

// Entry describes one catalog scene.
type Entry struct {
	ID          int
	Name        string
	Description string
}

type catalogEntry struct {
	Entry
	build func() *Scene
}

var catalog = []catalogEntry{
	{Entry{0, "static-cube", "static 20 m concrete cube"}, staticCube},
	{Entry{1, "rotating-panel", "20 m cube with a glass panel spinning at 1 rev/s"}, rotatingPanel},
	{Entry{2, "approaching-receiver", "receiver approaching a directional emitter at c/9 in a long hall"}, approachingReceiver},
	{Entry{3, "fly-by", "emitter flying past the receiver on a looped keyframe path"}, flyBy},
	{Entry{4, "rotating-room", "whole room rotating at 1 rev/s about the vertical axis"}, rotatingRoom},
	{Entry{5, "l-shaped-room", "non-convex L-shaped room with a translating reflector"}, lShapedRoom},
}

// CatalogSize is the number of scenes in the catalog.
var CatalogSize = len(catalog)

// Catalog builds the scene with the given id. Every call returns a fresh
// scene.
func Catalog(id int) (*Scene, error) {
	if id < 0 || id >= len(catalog) {
		return nil, fmt.Errorf("%w: %d (have 0..%d)", ErrUnknownScene, id, len(catalog)-1)
	}
	return catalog[id].build(), nil
}

// Entries lists the catalog in id order.
func Entries() []Entry {
	out := make([]Entry, len(catalog))
	for i, c := range catalog {
		out[i] = c.Entry
	}
	return out
}

func cube(half float64) geometry.Composite {
	return Box(geometry.V(-half, -half, -half), geometry.V(half, half, half))
}

func staticCube() *Scene {
	return &Scene{
		Name:     "static-cube",
		Surfaces: []Surface{{Name: "walls", Shape: cube(10), Material: Concrete}},
		Emitter:  Emitter{Position: geometry.V(0, 0, 2)},
		Receiver: Receiver{Position: geometry.V(0, 0, -2), Radius: DefaultReceiverRadius},
	}
}

func rotatingPanel() *Scene {
	pivot := geometry.V(0, 5, 0)
	return &Scene{
		Name: "rotating-panel",
		Surfaces: []Surface{
			{Name: "walls", Shape: cube(10), Material: Concrete},
			{
				Name:     "panel",
				Shape:    geometry.Disc{Center: pivot, Normal: geometry.V(0, 1, 0), Radius: 3},
				Material: Glass,
				Motion: geometry.Rotation{
					Pivot:           pivot,
					Axis:            geometry.V(0, 0, 1),
					AngularVelocity: geometry.RevolutionsPerSecond(1),
				},
			},
		},
		Emitter:  Emitter{Position: geometry.V(-4, 0, 0)},
		Receiver: Receiver{Position: geometry.V(4, 0, 0), Radius: DefaultReceiverRadius},
	}
}

// approachingReceiver loops the approach every 1.25 s so the receiver never
// reaches the emitter.
func approachingReceiver() *Scene {
	return &Scene{
		Name: "approaching-receiver",
		Surfaces: []Surface{{
			Name:     "hall",
			Shape:    Box(geometry.V(-5, -5, -5), geometry.V(60, 5, 5)),
			Material: Concrete,
		}},
		Emitter: Emitter{Position: geometry.V(0, 0, 0), Directional: true, ConeAngle: 15 * math.Pi / 180},
		Receiver: Receiver{
			Position: geometry.V(55, 0, 0),
			Radius:   DefaultReceiverRadius,
			Motion: geometry.Looped{
				Motion: geometry.Translation{Velocity: geometry.V(-SpeedOfSound/9, 0, 0)},
				Period: 1.25,
			},
		},
	}
}

func flyBy() *Scene {
	return &Scene{
		Name:     "fly-by",
		Surfaces: []Surface{{Name: "walls", Shape: cube(15), Material: Concrete}},
		Emitter: Emitter{
			Position: geometry.V(0, 3, 0),
			Motion: geometry.Looped{
				Motion: geometry.Keyframes{
					{Time: 0, Offset: geometry.V(-12, 0, 0)},
					{Time: 2, Offset: geometry.V(12, 0, 0)},
					{Time: 4, Offset: geometry.V(-12, 0, 0)},
				},
				Period: 4,
			},
		},
		Receiver: Receiver{Position: geometry.V(0, -3, 0), Radius: DefaultReceiverRadius},
	}
}

func rotatingRoom() *Scene {
	return &Scene{
		Name: "rotating-room",
		Surfaces: []Surface{{
			Name:     "room",
			Shape:    Box(geometry.V(-5, -4, -3), geometry.V(5, 4, 3)),
			Material: Concrete,
			Motion: geometry.Rotation{
				Axis:            geometry.V(0, 0, 1),
				AngularVelocity: geometry.RevolutionsPerSecond(1),
			},
		}},
		Emitter:  Emitter{Position: geometry.V(-2, 0, 0)},
		Receiver: Receiver{Position: geometry.V(2, 0, 0), Radius: DefaultReceiverRadius},
	}
}

// lShapedRoom joins a 20x8 m and an 8x12 m wing, 4 m high. Emitter and
// receiver sit in different wings without line of sight.
func lShapedRoom() *Scene {
	v := geometry.V
	wall := func(c, along geometry.Vec3) geometry.Rect {
		return geometry.Rect{Center: c, U: along, V: v(0, 0, 2)}
	}
	slab := func(z float64) geometry.Composite {
		return geometry.Composite{
			geometry.Rect{Center: v(10, 4, z), U: v(10, 0, 0), V: v(0, 4, 0)},
			geometry.Rect{Center: v(4, 14, z), U: v(4, 0, 0), V: v(0, 6, 0)},
		}
	}

	room := geometry.Composite{
		wall(v(10, 0, 2), v(10, 0, 0)),
		wall(v(20, 4, 2), v(0, 4, 0)),
		wall(v(14, 8, 2), v(6, 0, 0)),
		wall(v(8, 14, 2), v(0, 6, 0)),
		wall(v(4, 20, 2), v(4, 0, 0)),
		wall(v(0, 10, 2), v(0, 10, 0)),
		slab(0),
		slab(4),
	}

	return &Scene{
		Name: "l-shaped-room",
		Surfaces: []Surface{
			{Name: "room", Shape: room, Material: Concrete},
			{
				Name:     "reflector",
				Shape:    geometry.Triangle{A: v(12, 3, 0.5), B: v(14, 5, 0.5), C: v(13, 4, 3.5)},
				Material: Wood,
				Motion: geometry.Looped{
					Motion: geometry.Keyframes{
						{Time: 0, Offset: v(0, 0, 0)},
						{Time: 1, Offset: v(1, -1, 0)},
						{Time: 2, Offset: v(0, 0, 0)},
					},
					Period: 2,
				},
			},
		},
		Emitter:  Emitter{Position: v(16, 4, 1.5)},
		Receiver: Receiver{Position: v(4, 16, 1.5), Radius: DefaultReceiverRadius},
	}
}

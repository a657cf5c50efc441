package prefabs

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/thirdperson/animation"
	"github.com/milk9111/thirdperson/character"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSpec = errors.New("prefabs: invalid spec")

// LoadSpec decodes a yaml prefab into T. Fields already set on defaults and
// absent from the file keep their value.
func LoadSpec[T any](filename string, defaults T) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	spec := defaults
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func (v Vec3Spec) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

type CapsuleSpec struct {
	Height float64  `yaml:"height"`
	Radius float64  `yaml:"radius"`
	Center Vec3Spec `yaml:"center"`
}

func (c CapsuleSpec) Capsule() character.Capsule {
	return character.Capsule{Height: c.Height, Center: c.Center.Vec3(), Radius: c.Radius}
}

type LocomotionSpec struct {
	MovingTurnSpeed     float64 `yaml:"moving_turn_speed"`
	StationaryTurnSpeed float64 `yaml:"stationary_turn_speed"`
	JumpPower           float64 `yaml:"jump_power"`
	GravityMultiplier   float64 `yaml:"gravity_multiplier"`
	MoveSpeedMultiplier float64 `yaml:"move_speed_multiplier"`
	AnimSpeedMultiplier float64 `yaml:"anim_speed_multiplier"`
	GroundCheckDistance float64 `yaml:"ground_check_distance"`
	RunCycleLegOffset   float64 `yaml:"run_cycle_leg_offset"`
	ParamDampTime       float64 `yaml:"param_damp_time"`
	ExtraTurnWeight     float64 `yaml:"extra_turn_weight"`
}

func (l LocomotionSpec) Parameters() character.Parameters {
	return character.Parameters{
		MovingTurnSpeed:     l.MovingTurnSpeed,
		StationaryTurnSpeed: l.StationaryTurnSpeed,
		JumpPower:           l.JumpPower,
		GravityMultiplier:   l.GravityMultiplier,
		MoveSpeedMultiplier: l.MoveSpeedMultiplier,
		AnimSpeedMultiplier: l.AnimSpeedMultiplier,
		GroundCheckDistance: l.GroundCheckDistance,
		RunCycleLegOffset:   l.RunCycleLegOffset,
		ParamDampTime:       l.ParamDampTime,
		ExtraTurnWeight:     l.ExtraTurnWeight,
	}
}

func locomotionDefaults() LocomotionSpec {
	p := character.DefaultParameters()
	return LocomotionSpec{
		MovingTurnSpeed:     p.MovingTurnSpeed,
		StationaryTurnSpeed: p.StationaryTurnSpeed,
		JumpPower:           p.JumpPower,
		GravityMultiplier:   p.GravityMultiplier,
		MoveSpeedMultiplier: p.MoveSpeedMultiplier,
		AnimSpeedMultiplier: p.AnimSpeedMultiplier,
		GroundCheckDistance: p.GroundCheckDistance,
		RunCycleLegOffset:   p.RunCycleLegOffset,
		ParamDampTime:       p.ParamDampTime,
		ExtraTurnWeight:     p.ExtraTurnWeight,
	}
}

type AnimatorSpec struct {
	CycleRate         float64 `yaml:"cycle_rate"`
	IdleCycleRate     float64 `yaml:"idle_cycle_rate"`
	StrideSpeed       float64 `yaml:"stride_speed"`
	CrouchStrideScale float64 `yaml:"crouch_stride_scale"`
	TurnRate          float64 `yaml:"turn_rate"`
}

func (a AnimatorSpec) Config() animation.Config {
	return animation.Config{
		CycleRate:         a.CycleRate,
		IdleCycleRate:     a.IdleCycleRate,
		StrideSpeed:       a.StrideSpeed,
		CrouchStrideScale: a.CrouchStrideScale,
		TurnRate:          a.TurnRate,
	}
}

// CharacterSpec describes one controllable character.
type CharacterSpec struct {
	Name string `yaml:"name"`
	// Spawn names a level spawn point. Position and Yaw are used when the
	// level has no spawn of that name.
	Spawn    string   `yaml:"spawn"`
	Position Vec3Spec `yaml:"position"`
	// Yaw is in degrees.
	Yaw        float64        `yaml:"yaw"`
	Mass       float64        `yaml:"mass"`
	Capsule    CapsuleSpec    `yaml:"capsule"`
	Locomotion LocomotionSpec `yaml:"locomotion"`
	Animator   AnimatorSpec   `yaml:"animator"`
	Script     string         `yaml:"script"`
	Debug      bool           `yaml:"debug"`
}

func characterDefaults() CharacterSpec {
	cfg := animation.DefaultConfig()
	return CharacterSpec{
		Mass: 1,
		Capsule: CapsuleSpec{
			Height: 1.6,
			Radius: 0.3,
			Center: Vec3Spec{Y: 0.8},
		},
		Locomotion: locomotionDefaults(),
		Animator: AnimatorSpec{
			CycleRate:         cfg.CycleRate,
			IdleCycleRate:     cfg.IdleCycleRate,
			StrideSpeed:       cfg.StrideSpeed,
			CrouchStrideScale: cfg.CrouchStrideScale,
			TurnRate:          cfg.TurnRate,
		},
	}
}

func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	spec, err := LoadSpec(filename, characterDefaults())
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// Validate rejects specs no controller can be built from. Out-of-range
// locomotion values are left to character.Parameters.Sanitize.
func (s *CharacterSpec) Validate() error {
	switch {
	case s.Capsule.Height <= 0:
		return fmt.Errorf("%w: capsule height %.3f", ErrInvalidSpec, s.Capsule.Height)
	case s.Capsule.Radius <= 0:
		return fmt.Errorf("%w: capsule radius %.3f", ErrInvalidSpec, s.Capsule.Radius)
	case s.Capsule.Radius*2 > s.Capsule.Height:
		return fmt.Errorf("%w: capsule radius %.3f too large for height %.3f", ErrInvalidSpec, s.Capsule.Radius, s.Capsule.Height)
	case s.Mass <= 0:
		return fmt.Errorf("%w: mass %.3f", ErrInvalidSpec, s.Mass)
	}
	return nil
}

// BoxSpec is an axis-aligned solid in the side-view plane; X and Y are its
// lower-left corner.
type BoxSpec struct {
	Name string  `yaml:"name"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	W    float64 `yaml:"w"`
	H    float64 `yaml:"h"`
}

// RampSpec is a convex solid given by its outline points.
type RampSpec struct {
	Name   string       `yaml:"name"`
	Points [][2]float64 `yaml:"points"`
}

func (r RampSpec) Verts() []cp.Vector {
	out := make([]cp.Vector, 0, len(r.Points))
	for _, p := range r.Points {
		out = append(out, cp.Vector{X: p[0], Y: p[1]})
	}
	return out
}

type SpawnSpec struct {
	Name     string   `yaml:"name"`
	Position Vec3Spec `yaml:"position"`
	Yaw      float64  `yaml:"yaw"`
}

// LevelSpec is a side-view course plus the characters placed in it.
type LevelSpec struct {
	Name       string      `yaml:"name"`
	Gravity    Vec3Spec    `yaml:"gravity"`
	Boxes      []BoxSpec   `yaml:"boxes"`
	Ramps      []RampSpec  `yaml:"ramps"`
	Spawns     []SpawnSpec `yaml:"spawns"`
	Characters []string    `yaml:"characters"`
}

func LoadLevelSpec(filename string) (*LevelSpec, error) {
	spec, err := LoadSpec(filename, LevelSpec{Gravity: Vec3Spec{Y: -9.81}})
	if err != nil {
		return nil, err
	}
	for _, r := range spec.Ramps {
		if len(r.Points) < 3 {
			return nil, fmt.Errorf("prefabs: %s: %w: ramp %q needs 3 points", filename, ErrInvalidSpec, r.Name)
		}
	}
	return &spec, nil
}

func (l *LevelSpec) Spawn(name string) (SpawnSpec, bool) {
	if l == nil || name == "" {
		return SpawnSpec{}, false
	}
	for _, s := range l.Spawns {
		if s.Name == name {
			return s, true
		}
	}
	return SpawnSpec{}, false
}

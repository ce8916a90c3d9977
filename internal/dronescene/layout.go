// Package dronescene assembles the quick-change docking demo: a quadcopter
// drone over a docking pad with a swappable payload box, lit and framed for a
// preview still, with a descend-grasp-lift animation that hands the box over
// to the drone mid-flight.
package dronescene

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"
)

// Layout gathers every dimension, position, and timing constant of the demo
// in one place, so the physical design can be audited or adjusted without
// touching build logic. All lengths are meters, angles degrees, frames
// 1-based.
type Layout struct {
	Frames    FrameLayout  `yaml:"frames"`
	Flight    FlightLayout `yaml:"flight"`
	Render    RenderLayout `yaml:"render"`
	World     WorldLayout  `yaml:"world"`
	Camera    CameraLayout `yaml:"camera"`
	KeyLight  LightLayout  `yaml:"key_light"`
	FillLight LightLayout  `yaml:"fill_light"`
	Drone     DroneLayout  `yaml:"drone"`
	Dock      DockLayout   `yaml:"dock"`
}

// FrameLayout is the scene frame range and the frame used for the preview
// still.
type FrameLayout struct {
	Start   int `yaml:"start"`
	End     int `yaml:"end"`
	Preview int `yaml:"preview"`
}

// FlightLayout keys the drone root's altitude over time. Settle is the frame
// just before Grasp where the box's resting position is keyed, so the
// handover has a fixed reference on both sides.
type FlightLayout struct {
	StartFrame    int     `yaml:"start_frame"`
	StartZ        float32 `yaml:"start_z"`
	ApproachFrame int     `yaml:"approach_frame"`
	ApproachZ     float32 `yaml:"approach_z"`
	GraspFrame    int     `yaml:"grasp_frame"`
	GraspZ        float32 `yaml:"grasp_z"`
	LiftFrame     int     `yaml:"lift_frame"`
	LiftZ         float32 `yaml:"lift_z"`
	SettleFrame   int     `yaml:"settle_frame"`
}

// RenderLayout is the preview resolution and output file. A "//" prefix on
// the path means relative to the saved scene file.
type RenderLayout struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	PreviewPath string `yaml:"preview_path"`
}

// WorldLayout is the flat background environment.
type WorldLayout struct {
	Color    mgl32.Vec3 `yaml:"color"`
	Strength float32    `yaml:"strength"`
}

// CameraLayout frames the shot. FOVDeg is the vertical field of view; the
// default approximates a 50mm lens on a 16:9 frame.
type CameraLayout struct {
	Pos    mgl32.Vec3 `yaml:"pos"`
	RotDeg mgl32.Vec3 `yaml:"rot_deg"`
	FOVDeg float32    `yaml:"fov_deg"`
}

// LightLayout places one area lamp.
type LightLayout struct {
	Pos    mgl32.Vec3 `yaml:"pos"`
	Energy float32    `yaml:"energy"`
	Size   float32    `yaml:"size"`
}

// DroneLayout is the drone frame: body, crossed arms, four motor and
// propeller pairs on the arm diagonals, the underslung mount plate with its
// guide cones, and the two side latches. Cube sizes are full edge lengths.
type DroneLayout struct {
	BodySize mgl32.Vec3 `yaml:"body_size"`
	BodyPos  mgl32.Vec3 `yaml:"body_pos"`

	ArmXSize mgl32.Vec3 `yaml:"arm_x_size"`
	ArmYSize mgl32.Vec3 `yaml:"arm_y_size"`
	ArmPos   mgl32.Vec3 `yaml:"arm_pos"`

	MotorRadius float32 `yaml:"motor_radius"`
	MotorDepth  float32 `yaml:"motor_depth"`
	MotorSpread float32 `yaml:"motor_spread"`
	MotorZ      float32 `yaml:"motor_z"`

	PropSize mgl32.Vec3 `yaml:"prop_size"`
	PropLift float32    `yaml:"prop_lift"`

	PlateSize mgl32.Vec3 `yaml:"plate_size"`
	PlatePos  mgl32.Vec3 `yaml:"plate_pos"`

	GuideRadiusBottom float32 `yaml:"guide_radius_bottom"`
	GuideRadiusTop    float32 `yaml:"guide_radius_top"`
	GuideDepth        float32 `yaml:"guide_depth"`
	GuideSpreadX      float32 `yaml:"guide_spread_x"`
	GuideSpreadY      float32 `yaml:"guide_spread_y"`
	GuideZ            float32 `yaml:"guide_z"`

	LatchSize    mgl32.Vec3 `yaml:"latch_size"`
	LatchOffsetY float32    `yaml:"latch_offset_y"`
	LatchZ       float32    `yaml:"latch_z"`
}

// DockLayout is the ground side: the pad, the quick-change box with its lid,
// alignment pins and latch slots, and the decorative lamp post.
type DockLayout struct {
	BaseSize mgl32.Vec3 `yaml:"base_size"`
	BasePos  mgl32.Vec3 `yaml:"base_pos"`

	BoxSize mgl32.Vec3 `yaml:"box_size"`
	BoxPos  mgl32.Vec3 `yaml:"box_pos"`

	LidSize mgl32.Vec3 `yaml:"lid_size"`
	LidPos  mgl32.Vec3 `yaml:"lid_pos"`

	PinRadius  float32 `yaml:"pin_radius"`
	PinDepth   float32 `yaml:"pin_depth"`
	PinSpreadX float32 `yaml:"pin_spread_x"`
	PinSpreadY float32 `yaml:"pin_spread_y"`
	PinZ       float32 `yaml:"pin_z"`

	SlotSize    mgl32.Vec3 `yaml:"slot_size"`
	SlotOffsetY float32    `yaml:"slot_offset_y"`
	SlotZ       float32    `yaml:"slot_z"`

	PoleRadius float32    `yaml:"pole_radius"`
	PoleDepth  float32    `yaml:"pole_depth"`
	PolePos    mgl32.Vec3 `yaml:"pole_pos"`

	HeadSize mgl32.Vec3 `yaml:"head_size"`
	HeadPos  mgl32.Vec3 `yaml:"head_pos"`
}

// DefaultLayout returns the stock demo configuration.
func DefaultLayout() Layout {
	return Layout{
		Frames: FrameLayout{Start: 1, End: 120, Preview: 68},
		Flight: FlightLayout{
			StartFrame:    1,
			StartZ:        2.0,
			ApproachFrame: 40,
			ApproachZ:     0.6,
			GraspFrame:    58,
			GraspZ:        0.46,
			LiftFrame:     100,
			LiftZ:         1.9,
			SettleFrame:   57,
		},
		Render: RenderLayout{Width: 1920, Height: 1080, PreviewPath: "//quickchange_dock_preview.png"},
		World:  WorldLayout{Color: mgl32.Vec3{0.02, 0.03, 0.06}, Strength: 0.7},
		Camera: CameraLayout{
			Pos:    mgl32.Vec3{3.1, -2.8, 2.0},
			RotDeg: mgl32.Vec3{72, 0, 48},
			FOVDeg: 23,
		},
		KeyLight:  LightLayout{Pos: mgl32.Vec3{1.4, -2.2, 3.0}, Energy: 1300, Size: 2.0},
		FillLight: LightLayout{Pos: mgl32.Vec3{-2.2, 1.5, 2.0}, Energy: 550, Size: 1.6},
		Drone: DroneLayout{
			BodySize: mgl32.Vec3{0.42, 0.30, 0.07},
			BodyPos:  mgl32.Vec3{0, 0, 2.35},

			ArmXSize: mgl32.Vec3{0.80, 0.03, 0.02},
			ArmYSize: mgl32.Vec3{0.03, 0.80, 0.02},
			ArmPos:   mgl32.Vec3{0, 0, 2.35},

			MotorRadius: 0.06,
			MotorDepth:  0.05,
			MotorSpread: 0.68,
			MotorZ:      2.36,

			PropSize: mgl32.Vec3{0.28, 0.015, 0.005},
			PropLift: 0.03,

			PlateSize: mgl32.Vec3{0.28, 0.20, 0.02},
			PlatePos:  mgl32.Vec3{0, 0, 2.12},

			GuideRadiusBottom: 0.04,
			GuideRadiusTop:    0.02,
			GuideDepth:        0.09,
			GuideSpreadX:      0.16,
			GuideSpreadY:      0.12,
			GuideZ:            2.04,

			LatchSize:    mgl32.Vec3{0.02, 0.05, 0.03},
			LatchOffsetY: 0.24,
			LatchZ:       2.10,
		},
		Dock: DockLayout{
			BaseSize: mgl32.Vec3{0.70, 0.50, 0.03},
			BasePos:  mgl32.Vec3{0, 0, 0.03},

			BoxSize: mgl32.Vec3{0.26, 0.18, 0.12},
			BoxPos:  mgl32.Vec3{0, 0, 0.18},

			LidSize: mgl32.Vec3{0.24, 0.16, 0.015},
			LidPos:  mgl32.Vec3{0, 0, 0.30},

			PinRadius:  0.014,
			PinDepth:   0.05,
			PinSpreadX: 0.16,
			PinSpreadY: 0.12,
			PinZ:       0.33,

			SlotSize:    mgl32.Vec3{0.025, 0.04, 0.02},
			SlotOffsetY: 0.20,
			SlotZ:       0.21,

			PoleRadius: 0.045,
			PoleDepth:  1.7,
			PolePos:    mgl32.Vec3{1.35, 0, 0.85},

			HeadSize: mgl32.Vec3{0.22, 0.10, 0.05},
			HeadPos:  mgl32.Vec3{1.50, 0, 1.62},
		},
	}
}

// LoadLayout merges a YAML override file over the defaults. A missing file
// or an empty path returns the defaults unchanged; a malformed file is an
// error. Overrides apply per field: zero fields keep their default, so a
// file can adjust a single dimension.
func LoadLayout(path string) (Layout, error) {
	def := DefaultLayout()
	if path == "" {
		return def, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return def, nil
	}
	if err != nil {
		return def, fmt.Errorf("dronescene: read layout: %w", err)
	}
	var over Layout
	if err := yaml.Unmarshal(data, &over); err != nil {
		return def, fmt.Errorf("dronescene: parse layout: %w", err)
	}
	if err := mergeLayout(&def, &over); err != nil {
		return def, fmt.Errorf("dronescene: merge layout: %w", err)
	}
	def.normalize()
	return def, nil
}

// mergeLayout copies every non-zero override field over the defaults. The
// copy runs section by section so that overrides stay field-granular.
func mergeLayout(def, over *Layout) error {
	opt := copier.Option{IgnoreEmpty: true}
	sections := []struct{ to, from interface{} }{
		{&def.Frames, &over.Frames},
		{&def.Flight, &over.Flight},
		{&def.Render, &over.Render},
		{&def.World, &over.World},
		{&def.Camera, &over.Camera},
		{&def.KeyLight, &over.KeyLight},
		{&def.FillLight, &over.FillLight},
		{&def.Drone, &over.Drone},
		{&def.Dock, &over.Dock},
	}
	for _, s := range sections {
		if err := copier.CopyWithOption(s.to, s.from, opt); err != nil {
			return err
		}
	}
	return nil
}

// normalize clamps values an override could have pushed out of range.
func (l *Layout) normalize() {
	if l.Frames.End < l.Frames.Start {
		l.Frames.End = l.Frames.Start
	}
	if l.Frames.Preview < l.Frames.Start {
		l.Frames.Preview = l.Frames.Start
	}
	if l.Frames.Preview > l.Frames.End {
		l.Frames.Preview = l.Frames.End
	}
	if l.Render.Width <= 0 {
		l.Render.Width = 1920
	}
	if l.Render.Height <= 0 {
		l.Render.Height = 1080
	}
	if l.Camera.FOVDeg <= 0 || l.Camera.FOVDeg >= 180 {
		l.Camera.FOVDeg = 23
	}
	if l.KeyLight.Energy < 0 {
		l.KeyLight.Energy = 0
	}
	if l.FillLight.Energy < 0 {
		l.FillLight.Energy = 0
	}
}

package project

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/piwi3910/coinpack/internal/model"
	"github.com/piwi3910/coinpack/internal/session"
)

// Step operations understood by a scenario.
const (
	OpSpawn  = "spawn"  // Start dragging a new circle from the supply
	OpGrab   = "grab"   // Start dragging a packed circle by id
	OpMove   = "move"   // Pointer move
	OpDrop   = "drop"   // Pointer release
	OpCancel = "cancel" // Pointer lost (e.g. touch cancel)
	OpPlace  = "place"  // Spawn and drop at the same point
	OpRemove = "remove"
	OpRadius = "radius"
	OpMode   = "mode"
	OpReset  = "reset"
	OpUndo   = "undo"
	OpRedo   = "redo"
)

// Step is one presentation-layer event.
type Step struct {
	Op    string       `yaml:"op"`
	At    *model.Point `yaml:"at,omitempty"`
	ID    *int         `yaml:"id,omitempty"`
	Value int          `yaml:"value,omitempty"`
	Mode  string       `yaml:"mode,omitempty"`
}

// Scenario is a scripted sequence of events replayed against a fresh session.
type Scenario struct {
	Name   string `yaml:"name"`
	Mode   string `yaml:"mode"`
	Radius int    `yaml:"radius,omitempty"`
	Steps  []Step `yaml:"steps"`
}

// StepResult records what a step did.
type StepResult struct {
	Index   int               `json:"index"`
	Op      string            `json:"op"`
	OK      bool              `json:"ok"`
	Outcome model.DropOutcome `json:"outcome,omitempty"`
	Circle  *model.Circle     `json:"circle,omitempty"`
}

// LoadScenario reads and validates a YAML scenario file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return Scenario{}, err
	}
	return sc, nil
}

// Validate checks that every step carries the arguments its op needs.
func (sc Scenario) Validate() error {
	if _, err := model.ParseMode(sc.Mode); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}
	if sc.Radius < 0 {
		return fmt.Errorf("invalid scenario: negative radius %d", sc.Radius)
	}
	for i, st := range sc.Steps {
		switch st.Op {
		case OpSpawn, OpMove, OpDrop, OpPlace:
			if st.At == nil {
				return fmt.Errorf("step %d (%s): missing \"at\" coordinates", i+1, st.Op)
			}
		case OpGrab, OpRemove:
			if st.ID == nil {
				return fmt.Errorf("step %d (%s): missing \"id\"", i+1, st.Op)
			}
		case OpMode:
			if _, err := model.ParseMode(st.Mode); err != nil || st.Mode == "" {
				return fmt.Errorf("step %d (%s): invalid mode %q", i+1, st.Op, st.Mode)
			}
		case OpRadius, OpCancel, OpReset, OpUndo, OpRedo:
		default:
			return fmt.Errorf("step %d: unknown op %q", i+1, st.Op)
		}
	}
	return nil
}

// Settings returns base with the scenario's mode and radius applied.
func (sc Scenario) Settings(base model.Settings) model.Settings {
	if mode, err := model.ParseMode(sc.Mode); err == nil && sc.Mode != "" {
		base.Mode = mode
	}
	if sc.Radius > 0 {
		base.Radius = sc.Radius
	}
	return base
}

// Play replays every step against s in order.
func (sc Scenario) Play(s *session.Session) []StepResult {
	results := make([]StepResult, 0, len(sc.Steps))
	for i, st := range sc.Steps {
		r := StepResult{Index: i + 1, Op: st.Op}
		switch st.Op {
		case OpSpawn:
			c := s.BeginNew(*st.At)
			r.OK, r.Circle = true, &c
		case OpGrab:
			r.OK = s.BeginDrag(*st.ID)
		case OpMove:
			r.OK = s.Move(*st.At)
		case OpDrop:
			r.setDrop(s.Drop(*st.At))
		case OpCancel:
			r.setDrop(s.Cancel())
		case OpPlace:
			r.setDrop(s.Place(*st.At))
		case OpRemove:
			r.OK = s.Remove(*st.ID)
		case OpRadius:
			r.OK = s.SetRadius(st.Value)
		case OpMode:
			mode, _ := model.ParseMode(st.Mode)
			r.OK = s.SwitchMode(mode)
		case OpReset:
			s.Reset()
			r.OK = true
		case OpUndo:
			r.OK = s.Undo()
		case OpRedo:
			r.OK = s.Redo()
		}
		results = append(results, r)
	}
	return results
}

func (r *StepResult) setDrop(res session.DropResult) {
	r.Outcome = res.Outcome
	r.OK = res.Outcome != model.OutcomeIgnored
	if r.OK {
		c := res.Circle
		r.Circle = &c
	}
}

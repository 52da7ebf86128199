// ============================================================================
// METADATA
// ============================================================================
// Per-mode loop controllers - ralph, autopilot, ultrawork, pipeline,
// ultraqa, tdd.
//
// Purpose: each controller implements the shared Stop-event shape from
// spec section 4.8: load state, apply mode-specific rules, then either
// emit a continuation (block), mark inactive (pass-through), or report
// "not handled" so the stop gate moves on to the next controller. See
// spec section 4.9 for how the gate orders these.
package modes

import (
	"fmt"

	"omc/internal/boulder"
	"omc/internal/hookproto"
)

// initialRalphIterations is the starting budget before the first doubling.
const initialRalphIterations = 10

// ControllerResult is what a per-mode controller returns to the stop gate.
type ControllerResult struct {
	// Handled is true when this mode was active and produced a decision
	// (block or explicit completion). False means "not active, gate should
	// consult the next mode".
	Handled bool
	Output  hookproto.Output
}

func passResult() ControllerResult {
	return ControllerResult{Handled: false}
}

// RalphStop implements spec section 4.8's ralph controller: iteration
// counter with auto-extension. If iteration >= max_iterations, max is
// doubled (10 -> 20 -> 40 -> ...) instead of letting the loop end silently.
// Completion only happens when the caller has externally written
// active:false (a verifier signal or the cancel keyword); this controller
// never marks ralph inactive on its own.
func RalphStop(omcRoot, sessionID string) (ControllerResult, error) {
	s, err := Read(omcRoot, Ralph)
	if err != nil {
		return passResult(), err
	}
	if s == nil || !s.Active {
		return passResult(), nil
	}

	if s.MaxIterations <= 0 {
		s.MaxIterations = initialRalphIterations
	}
	s.Iteration++
	if s.Iteration >= s.MaxIterations {
		s.MaxIterations *= 2
	}
	if err := Write(omcRoot, Ralph, s); err != nil {
		return passResult(), err
	}

	msg := fmt.Sprintf("[RALPH - ITERATION %d/%d] Continue working the plan. If the task is complete, mark ralph inactive.", s.Iteration, s.MaxIterations)
	return ControllerResult{Handled: true, Output: hookproto.Block(msg)}, nil
}

// AutopilotLikeStop implements the shared shape for autopilot, ultraqa, and
// tdd: one-shot entry then a per-Stop "continue your plan" nudge
// referencing boulder progress, clearing active state once all tasks are
// complete.
func AutopilotLikeStop(omcRoot, sessionID string, mode Name, label string) (ControllerResult, error) {
	s, err := Read(omcRoot, mode)
	if err != nil {
		return passResult(), err
	}
	if s == nil || !s.Active {
		return passResult(), nil
	}

	progress := boulder.Progress{}
	planPath := ""
	if s.Metadata != nil {
		planPath = s.Metadata.PlanPath
	}
	if planPath != "" {
		progress = boulder.GetPlanProgress(planPath)
	}

	if progress.Total > 0 && progress.Completed == progress.Total {
		s.Active = false
		if err := Write(omcRoot, mode, s); err != nil {
			return passResult(), err
		}
		return ControllerResult{Handled: true, Output: hookproto.PassThrough()}, nil
	}

	msg := fmt.Sprintf("[%s] Continue your plan (%d/%d tasks complete).", label, progress.Completed, progress.Total)
	if err := Write(omcRoot, mode, s); err != nil {
		return passResult(), err
	}
	return ControllerResult{Handled: true, Output: hookproto.Block(msg)}, nil
}

// AutopilotStop is AutopilotLikeStop specialized for the autopilot mode.
func AutopilotStop(omcRoot, sessionID string) (ControllerResult, error) {
	return AutopilotLikeStop(omcRoot, sessionID, Autopilot, "AUTOPILOT")
}

// UltraqaStop is AutopilotLikeStop specialized for ultraqa.
func UltraqaStop(omcRoot, sessionID string) (ControllerResult, error) {
	return AutopilotLikeStop(omcRoot, sessionID, Ultraqa, "ULTRAQA")
}

// TDDStop is AutopilotLikeStop specialized for tdd.
func TDDStop(omcRoot, sessionID string) (ControllerResult, error) {
	return AutopilotLikeStop(omcRoot, sessionID, TDD, "TDD")
}

// ultraworkReinforcementCap is the upper bound on "keep going" reinforcement
// messages before ultrawork defers entirely to the primary mode.
const ultraworkReinforcementCap = 5

// UltraworkStop implements the ultrawork overlay: emits a short "keep
// going" message up to ultraworkReinforcementCap times, then reports
// unhandled so the primary mode (or pass-through) takes over. Per spec
// section 4.9 step 5, when a primary mode also emits a block in the same
// Stop cycle, the primary's block wins; the gate is responsible for that
// ordering, this controller only reports its own decision.
func UltraworkStop(omcRoot, sessionID string) (ControllerResult, error) {
	s, err := Read(omcRoot, Ultrawork)
	if err != nil {
		return passResult(), err
	}
	if s == nil || !s.Active {
		return passResult(), nil
	}

	if s.ReinforcementCount >= ultraworkReinforcementCap {
		return passResult(), nil
	}

	s.ReinforcementCount++
	if err := Write(omcRoot, Ultrawork, s); err != nil {
		return passResult(), err
	}
	msg := fmt.Sprintf("[ULTRAWORK %d/%d] Keep going.", s.ReinforcementCount, ultraworkReinforcementCap)
	return ControllerResult{Handled: true, Output: hookproto.Block(msg)}, nil
}

// PipelineStop implements the pipeline controller: advances an explicit
// stage pointer on each Stop, emitting the next stage's instruction and
// completing on the last stage.
func PipelineStop(omcRoot, sessionID string) (ControllerResult, error) {
	s, err := Read(omcRoot, Pipeline)
	if err != nil {
		return passResult(), err
	}
	if s == nil || !s.Active || len(s.Stages) == 0 {
		return passResult(), nil
	}

	if s.CurrentStage >= len(s.Stages)-1 {
		s.Active = false
		if err := Write(omcRoot, Pipeline, s); err != nil {
			return passResult(), err
		}
		return ControllerResult{Handled: true, Output: hookproto.PassThrough()}, nil
	}

	s.CurrentStage++
	stage := s.Stages[s.CurrentStage]
	if err := Write(omcRoot, Pipeline, s); err != nil {
		return passResult(), err
	}
	msg := fmt.Sprintf("[PIPELINE stage %d/%d: %s] %s", s.CurrentStage+1, len(s.Stages), stage.Name, stage.Instruction)
	return ControllerResult{Handled: true, Output: hookproto.Block(msg)}, nil
}

// UltrapilotStop is AutopilotLikeStop specialized for ultrapilot. Spec
// section 4.8 only details ralph, autopilot, ultrawork, pipeline, ultraqa,
// and tdd explicitly; ultrapilot is a primary mode (section 4.3) with no
// documented special behavior beyond "drives the Stop gate", so it is
// treated as an autopilot-family mode here. See DESIGN.md's Open Question
// decision log for this call.
func UltrapilotStop(omcRoot, sessionID string) (ControllerResult, error) {
	return AutopilotLikeStop(omcRoot, sessionID, Ultrapilot, "ULTRAPILOT")
}

// Order is the arbitration priority from spec section 4.9 step 5: ralph
// first, then autopilot/ultrapilot, then the ultrawork overlay.
var Order = []func(omcRoot, sessionID string) (ControllerResult, error){
	RalphStop,
	AutopilotStop,
	UltrapilotStop,
	UltraqaStop,
	PipelineStop,
	UltraworkStop,
	TDDStop,
}

// ============================================================================
// METADATA
// ============================================================================
// Mode State - on-disk shape for <omcRoot>/state/<mode>-state.json
//
// Purpose: one struct covers every mode's state file. Mode-specific fields
// are optional (omitempty) so a ralph state file doesn't carry an empty
// "stages" array and vice versa. See spec section 3.
package modes

import "time"

// PipelineStage is one step of a pipeline mode's stage list.
type PipelineStage struct {
	Name         string `json:"name"`
	Instruction  string `json:"instruction"`
}

// State is the on-disk shape of <mode>-state.json.
type State struct {
	Active    bool   `json:"active"`
	StartedAt string `json:"startedAt"`
	UpdatedAt string `json:"updatedAt"`
	SessionID string `json:"sessionId,omitempty"`

	// Ralph
	Iteration     int    `json:"iteration,omitempty"`
	MaxIterations int    `json:"max_iterations,omitempty"`
	PRDPath       string `json:"prdPath,omitempty"`

	// Ralph / autopilot
	Metadata *Metadata `json:"metadata,omitempty"`

	// Ultrawork overlay
	ReinforcementCount int `json:"reinforcementCount,omitempty"`

	// Pipeline
	Stages       []PipelineStage `json:"stages,omitempty"`
	CurrentStage int             `json:"currentStage,omitempty"`
}

// Metadata carries the free-form extension fields referenced by spec
// section 3 ("metadata.planPath").
type Metadata struct {
	PlanPath string `json:"planPath,omitempty"`
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

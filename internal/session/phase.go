package session

// Phase is a stage in the discovery workflow. Phases advance strictly
// forward; the only phase that may be skipped is gap analysis, and only
// when the cost profile says so.
type Phase string

const (
	PhaseSeedInput           Phase = "seed_input"
	PhaseScopeSetup          Phase = "scope_setup"
	PhaseTopicExpansion      Phase = "topic_expansion"
	PhaseRelationshipMapping Phase = "relationship_mapping"
	PhaseGapAnalysis         Phase = "gap_analysis"
	PhaseDepthCalibration    Phase = "depth_calibration"
	PhasePrioritization      Phase = "prioritization"
	PhaseReview              Phase = "review"
	PhaseComplete            Phase = "complete"
)

var phaseOrder = []Phase{
	PhaseSeedInput,
	PhaseScopeSetup,
	PhaseTopicExpansion,
	PhaseRelationshipMapping,
	PhaseGapAnalysis,
	PhaseDepthCalibration,
	PhasePrioritization,
	PhaseReview,
	PhaseComplete,
}

// IsValid checks whether the phase is one of the defined stages.
func (p Phase) IsValid() bool {
	return p.index() >= 0
}

// IsTerminal reports whether the workflow has finished.
func (p Phase) IsTerminal() bool {
	return p == PhaseComplete
}

func (p Phase) index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// next returns the following phase, honoring the gap-analysis skip.
func (p Phase) next(skipGapAnalysis bool) Phase {
	i := p.index()
	if i < 0 || i == len(phaseOrder)-1 {
		return PhaseComplete
	}
	n := phaseOrder[i+1]
	if n == PhaseGapAnalysis && skipGapAnalysis {
		return PhaseDepthCalibration
	}
	return n
}

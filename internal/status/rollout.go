package status

// RolloutStatus is the phase of a rollout as shown in list and header views.
type RolloutStatus string

const (
	RolloutHealthy     RolloutStatus = "Healthy"
	RolloutProgressing RolloutStatus = "Progressing"
	RolloutPaused      RolloutStatus = "Paused"
	RolloutDegraded    RolloutStatus = "Degraded"
	RolloutUnknown     RolloutStatus = "Unknown"
)

// ParseRolloutStatus maps a phase reported by the rollouts controller.
func ParseRolloutStatus(phase string) RolloutStatus {
	switch RolloutStatus(phase) {
	case RolloutHealthy, RolloutProgressing, RolloutPaused, RolloutDegraded:
		return RolloutStatus(phase)
	default:
		return RolloutUnknown
	}
}

// RolloutIcon returns the icon for a rollout phase.
func RolloutIcon(s RolloutStatus) Icon {
	switch s {
	case RolloutHealthy:
		return Icon{Symbol: SymbolCheck}
	case RolloutProgressing:
		return Icon{Symbol: SymbolSpinner, Spin: true}
	case RolloutPaused:
		return Icon{Symbol: SymbolPause}
	case RolloutDegraded:
		return Icon{Symbol: SymbolCross}
	default:
		return Icon{Symbol: SymbolQuestion}
	}
}

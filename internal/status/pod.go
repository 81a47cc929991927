package status

import "strings"

// PodStatus is the semantic category of a raw pod status string.
type PodStatus string

const (
	PodPending PodStatus = "pending"
	PodSuccess PodStatus = "success"
	PodFailed  PodStatus = "failure"
	PodWarning PodStatus = "warning"
	PodUnknown PodStatus = "unknown"
)

// ParsePodStatus maps a raw status ("Running", "CrashLoopBackOff"...) to its
// category. Matching is exact and case-sensitive; anything not listed is
// PodUnknown.
func ParsePodStatus(raw string) PodStatus {
	switch raw {
	case "Pending", "Terminating", "ContainerCreating":
		return PodPending
	case "Running", "Completed":
		return PodSuccess
	case "Failed", "InvalidImageName", "CrashLoopBackOff":
		return PodFailed
	case "ImagePullBackOff", "RegistryUnavailable":
		return PodWarning
	default:
		return PodUnknown
	}
}

// Symbol names the glyph used for a status. Renderers map it to whatever
// their medium supports.
type Symbol string

const (
	SymbolSpinner   Symbol = "circle-notch"
	SymbolCheck     Symbol = "check"
	SymbolCross     Symbol = "times"
	SymbolWarning   Symbol = "exclamation-triangle"
	SymbolQuestion  Symbol = "question-circle"
	SymbolPause     Symbol = "pause"
	SymbolArrowDown Symbol = "arrow-down"
)

// Icon is the rendering hint for a status: which glyph, and whether it spins.
type Icon struct {
	Symbol Symbol
	Spin   bool
}

// PodIcon returns the icon for a raw pod status.
//
// The prefix/suffix hints are evaluated first and then overwritten by the
// category icon, so they never reach the caller: PodIcon("Init:1/2") is the
// PodUnknown icon, not the spinner.
func PodIcon(raw string) Icon {
	icon := statusHintIcon(raw)

	switch ParsePodStatus(raw) {
	case PodPending:
		icon = Icon{Symbol: SymbolSpinner, Spin: true}
	case PodSuccess:
		icon = Icon{Symbol: SymbolCheck}
	case PodFailed:
		icon = Icon{Symbol: SymbolCross}
	case PodWarning:
		icon = Icon{Symbol: SymbolWarning}
	default:
		icon = Icon{Symbol: SymbolQuestion}
	}
	return icon
}

// statusHintIcon derives an icon from the shape of the raw string alone.
// Later rules win over earlier ones.
func statusHintIcon(raw string) Icon {
	var icon Icon
	if strings.HasPrefix(raw, "Init:") {
		icon = Icon{Symbol: SymbolSpinner, Spin: true}
	}
	if strings.HasPrefix(raw, "Signal:") || strings.HasPrefix(raw, "ExitCode:") {
		icon = Icon{Symbol: SymbolCross, Spin: icon.Spin}
	}
	if strings.HasSuffix(raw, "Error") || strings.HasPrefix(raw, "Err") {
		icon = Icon{Symbol: SymbolWarning, Spin: icon.Spin}
	}
	return icon
}

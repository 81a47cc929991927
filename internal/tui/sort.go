package tui

import (
	"sort"
	"strings"

	"github.com/Taishi66/rollouts-tui/internal/domain"
	"github.com/Taishi66/rollouts-tui/internal/status"
)

// SortColumn identifies a column for sorting.
type SortColumn int

const (
	SortNone SortColumn = iota
	// Rollouts
	SortRolloutName
	SortRolloutStatus
	SortRolloutAge
	// Events
	SortEvtType
	SortEvtAge
	SortEvtCount
)

// SortState holds the current sort configuration for a view.
type SortState struct {
	Column    SortColumn
	Ascending bool
}

// Label returns the header label of the sorted column.
func (s SortState) Label() string {
	switch s.Column {
	case SortRolloutName:
		return "NAME"
	case SortRolloutStatus:
		return "STATUS"
	case SortRolloutAge, SortEvtAge:
		return "AGE"
	case SortEvtType:
		return "TYPE"
	case SortEvtCount:
		return "COUNT"
	default:
		return ""
	}
}

// SortIndicator returns ▲ or ▼ for the active sort column header.
func SortIndicator(header string, state SortState) string {
	label := state.Label()
	if label == "" || !strings.EqualFold(header, label) {
		return header
	}
	if state.Ascending {
		return header + " ▲"
	}
	return header + " ▼"
}

// statusRank orders rollouts so the ones needing attention come first.
func statusRank(s string) int {
	switch status.ParseRolloutStatus(s) {
	case status.RolloutDegraded:
		return 0
	case status.RolloutPaused:
		return 1
	case status.RolloutProgressing:
		return 2
	case status.RolloutHealthy:
		return 3
	default:
		return 4
	}
}

// --- Rollout sorting ---

func SortRollouts(rollouts []domain.RolloutInfo, state SortState) []domain.RolloutInfo {
	if state.Column == SortNone || len(rollouts) == 0 {
		return rollouts
	}
	sorted := make([]domain.RolloutInfo, len(rollouts))
	copy(sorted, rollouts)
	sort.SliceStable(sorted, func(i, j int) bool {
		var less bool
		switch state.Column {
		case SortRolloutName:
			less = strings.ToLower(sorted[i].Name) < strings.ToLower(sorted[j].Name)
		case SortRolloutStatus:
			less = statusRank(sorted[i].Status) < statusRank(sorted[j].Status)
		case SortRolloutAge:
			less = sorted[i].CreatedAt.After(sorted[j].CreatedAt) // newest first for ascending
		default:
			return false
		}
		if !state.Ascending {
			return !less
		}
		return less
	})
	return sorted
}

func NextRolloutSort(current SortColumn) SortColumn {
	switch current {
	case SortNone:
		return SortRolloutName
	case SortRolloutName:
		return SortRolloutStatus
	case SortRolloutStatus:
		return SortRolloutAge
	default:
		return SortNone
	}
}

// --- Event sorting ---

func SortEvents(events []domain.EventInfo, state SortState) []domain.EventInfo {
	if state.Column == SortNone || len(events) == 0 {
		return events
	}
	sorted := make([]domain.EventInfo, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		var less bool
		switch state.Column {
		case SortEvtType:
			less = sorted[i].Type < sorted[j].Type
		case SortEvtAge:
			less = sorted[i].CreatedAt.After(sorted[j].CreatedAt)
		case SortEvtCount:
			less = sorted[i].Count < sorted[j].Count
		default:
			return false
		}
		if !state.Ascending {
			return !less
		}
		return less
	})
	return sorted
}

func NextEventSort(current SortColumn) SortColumn {
	switch current {
	case SortNone:
		return SortEvtType
	case SortEvtType:
		return SortEvtAge
	case SortEvtAge:
		return SortEvtCount
	default:
		return SortNone
	}
}

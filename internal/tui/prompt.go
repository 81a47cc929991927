package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptState collects the argument of set-image and undo.
type promptState struct {
	action string // btnSetImage or btnUndo
	input  textinput.Model
}

func newPromptState() promptState {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60
	return promptState{input: ti}
}

func (ps *promptState) open(action string, containers []string) tea.Cmd {
	ps.action = action
	ps.input.SetValue("")
	switch action {
	case btnSetImage:
		if len(containers) == 1 {
			ps.input.Placeholder = "image (ex: nginx:1.27)"
		} else {
			ps.input.Placeholder = "container=image, * pour tous"
		}
	case btnUndo:
		ps.input.Placeholder = "révision (vide = précédente)"
	}
	return ps.input.Focus()
}

func (ps *promptState) close() {
	ps.action = ""
	ps.input.SetValue("")
	ps.input.Blur()
}

func (ps *promptState) isActive() bool {
	return ps.action != ""
}

func (ps *promptState) view() string {
	title := "Set image"
	if ps.action == btnUndo {
		title = "Undo vers la révision"
	}
	return fmt.Sprintf("\n  %s : %s\n  enter:valider  esc:annuler\n", title, ps.input.View())
}

// parseImageInput reads "container=image". A bare image is accepted when the
// rollout has a single container.
func parseImageInput(input string, containers []string) (container, image string, err error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", "", fmt.Errorf("image vide")
	}
	name, img, ok := strings.Cut(input, "=")
	if !ok {
		if len(containers) != 1 {
			return "", "", fmt.Errorf("précisez le container : container=image")
		}
		return containers[0], input, nil
	}
	name, img = strings.TrimSpace(name), strings.TrimSpace(img)
	if name == "" || img == "" {
		return "", "", fmt.Errorf("format attendu : container=image")
	}
	return name, img, nil
}

// parseRevision reads an undo target. Empty means the previous revision (0).
func parseRevision(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, nil
	}
	rev, err := strconv.Atoi(input)
	if err != nil || rev < 0 {
		return 0, fmt.Errorf("révision invalide : %q", input)
	}
	return rev, nil
}

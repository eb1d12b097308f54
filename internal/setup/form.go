package setup

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// HuhPrompter is the charmbracelet/huh based Prompter.
type HuhPrompter struct{}

var _ Prompter = (*HuhPrompter)(nil)

// RunConfirm shows a confirm prompt defaulting to yes.
func (h *HuhPrompter) RunConfirm(title, description string) (bool, error) {
	confirm := true
	field := huh.NewConfirm().Title(title).Value(&confirm)
	if description != "" {
		field = field.Description(description)
	}
	form := huh.NewForm(huh.NewGroup(field))
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("setup.RunConfirm: %w", err)
	}
	return confirm, nil
}

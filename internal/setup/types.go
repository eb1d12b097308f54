package setup

// Prompter asks the user questions during setup.
// Production uses the huh implementation; tests use a stub.
type Prompter interface {
	// RunConfirm shows a yes/no prompt. description may be empty.
	RunConfirm(title, description string) (bool, error)
}

// ConfirmWith adapts a Prompter to the Confirm callback of
// EnsurePathConfigured. A nil Prompter yields a nil Confirm.
func ConfirmWith(p Prompter) Confirm {
	if p == nil {
		return nil
	}
	return func(configFile, line string) (bool, error) {
		return p.RunConfirm("Update PATH in "+configFile+"?", line)
	}
}

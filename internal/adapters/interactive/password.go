package interactive

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/grugslair/blob-arena-contracts/internal/domain/config"
)

// PasswordPrompter asks for keystore passwords on the terminal
type PasswordPrompter struct {
	config *config.RuntimeConfig
}

// NewPasswordPrompter creates a new password prompter
func NewPasswordPrompter(cfg *config.RuntimeConfig) *PasswordPrompter {
	return &PasswordPrompter{config: cfg}
}

// Password prompts for the password of keystore
func (p *PasswordPrompter) Password(keystore string) (string, error) {
	if p.config.NonInteractive {
		return "", fmt.Errorf("keystore %s needs a password (-p) in non-interactive mode", keystore)
	}
	prompt := promptui.Prompt{
		Label: fmt.Sprintf("Password for %s", keystore),
		Mask:  '*',
		Validate: func(s string) error {
			if s == "" {
				return errors.New("password cannot be empty")
			}
			return nil
		},
	}
	password, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("password prompt cancelled: %w", err)
	}
	return password, nil
}

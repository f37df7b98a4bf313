package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/marshallshelly/stockroom/pkg/workflow"
)

var stdin = bufio.NewReader(os.Stdin)

// ask prints label and reads one trimmed line. fallback is returned for an
// empty answer.
func ask(label, fallback string) (string, error) {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	line, err := stdin.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback, nil
	}
	return line, nil
}

// confirmer returns the confirmation used by delete commands: approve all
// with --yes, else ask on the terminal.
func confirmer(yes bool) workflow.Confirmer {
	if yes {
		return workflow.AlwaysConfirm
	}
	return workflow.ConfirmFunc(func(prompt string) bool {
		answer, err := ask(prompt+" (y/N)", "")
		if err != nil {
			return false
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		}
		return false
	})
}

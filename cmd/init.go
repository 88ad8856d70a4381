package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const initTemplate = `DATA:
message IS TEXT

PROCEDURE:
STORE "Hello from %s!" IN message
DISPLAY message
`

// InitCmd scaffolds a new <name>.ldpl file with a minimal DATA:/PROCEDURE:
// skeleton, mirroring the teacher's own cmd/init.go scaffolding command.
var InitCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Scaffold a new LDPL source file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		path := name + ".ldpl"
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
		content := fmt.Sprintf(initTemplate, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
		fmt.Printf("scaffolded %s\n", path)
		return nil
	},
}

package commands

import (
	"github.com/marshallshelly/stockroom/cmd/stockroom/output"
	"github.com/marshallshelly/stockroom/internal/sandbox"
	"github.com/spf13/cobra"
)

var (
	// Sandbox flags
	sandboxAddr string
	seed        bool
)

// sandboxCmd represents the sandbox command
var sandboxCmd = &cobra.Command{
	Use:   "sandbox",
	Short: "Run an in-memory backend for local use",
	Long: `Run an in-memory implementation of the inventory REST API. Data is lost
when the process exits.

Examples:
  stockroom sandbox --seed
  STOCKROOM_API_URL=http://localhost:8000/api/ stockroom login`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		srv := sandbox.New(logger)
		if seed {
			srv.Seed()
			output.Success("Seeded demo account")
			output.Info("  username: %s", sandbox.DemoUsername)
			output.Info("  password: %s", sandbox.DemoPassword)
		}
		output.Info("Serving the API at http://%s/api/ (Ctrl+C to stop)", displayAddr(sandboxAddr))
		return srv.Serve(cmd.Context(), sandboxAddr)
	},
}

func init() {
	rootCmd.AddCommand(sandboxCmd)

	sandboxCmd.Flags().StringVar(&sandboxAddr, "addr", ":8000", "Listen address")
	sandboxCmd.Flags().BoolVar(&seed, "seed", true, "Create the demo account with sample data")
}

func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}

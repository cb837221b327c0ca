package commands

import (
	"fmt"

	"github.com/dyluth/figplot/internal/config"
	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

var (
	configPath   string
	rootOverride string
	verbose      bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "figplot",
	Short: "figplot - summarise repeated training runs as a bar chart",
	Long: `figplot walks an output tree of neural network training runs, reads the
per-epoch train and test logs of every run, averages the final accuracy over
repeated runs of each configuration and renders the result as a horizontal
bar chart with standard deviation error bars.

Run directories encode their parameters as integers in the path, for example
out/quality_50/bits_0/block_16/split_3. The last parameter is the repetition
axis and is averaged over.`,
	Version: version,
	// Prevent silent success when unknown flags are passed to root command
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to figplot.yml (defaults apply if the default file is missing)")
	rootCmd.PersistentFlags().StringVarP(&rootOverride, "root", "r", "", "Output tree to walk (overrides 'root' in figplot.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log each run directory as it is loaded")
}

package commands

import (
	"fmt"

	"github.com/dyluth/figplot/internal/config"
	"github.com/dyluth/figplot/internal/printer"
	"github.com/dyluth/figplot/internal/scaffold"
	"github.com/spf13/cobra"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter figplot.yml",
	Long: `Write a starter figplot.yml in the current directory.

The generated file describes the default layout: an ./out tree whose run
directories encode quality, bits, block size and split, with 150-epoch
train.log and test.log files.

Use --force to overwrite an existing figplot.yml.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing figplot.yml")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	if !forceInit {
		if err := scaffold.CheckExisting("."); err != nil {
			return printer.Error(
				"project already initialized",
				fmt.Sprintf("%s already exists in this directory.", config.DefaultPath),
				[]string{"Reinitialize (overwrites existing configuration):\n  figplot init --force"},
			)
		}
	}

	if err := scaffold.Initialize(".", forceInit); err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	scaffold.PrintSuccess()
	return nil
}

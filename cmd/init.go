package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"SwiftPush/internal/config"
)

var initForce bool

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file skeleton",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
	}
	if err := config.Write(config.Template(), path); err != nil {
		return err
	}
	cmd.Printf("Wrote %s; edit the swift section, then run `swiftpush doctor`\n", path)
	return nil
}

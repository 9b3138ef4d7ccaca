package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"SwiftPush/internal/config"
	"SwiftPush/internal/doctor"
	"SwiftPush/internal/swift"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, authentication, container access, and local state",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	v, err := config.Load(true)
	if err != nil {
		cmd.Printf("Config load: ERROR: %v\n", err)
		return err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		cmd.Printf("Config unmarshal: ERROR: %v\n", err)
		return err
	}
	if err := config.Validate(cfg); err != nil {
		cmd.Printf("Config validate: ERROR: %v\n", err)
		return err
	}
	log, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	var conn *swift.Connection
	if cfg.Swift != nil {
		if conn, err = newConnection(cfg, log); err != nil {
			cmd.Printf("Transport: ERROR: %v\n", err)
			return err
		}
	}

	results := doctor.Run(cmd.Context(), cfg, conn)
	allOK := true
	for _, r := range results {
		status := "OK"
		if !r.OK {
			status = "ERROR"
			allOK = false
		}
		cmd.Printf("%-12s %s: %s\n", r.Name, status, r.Detail)
	}
	if !allOK {
		return fmt.Errorf("one or more checks failed; see output above")
	}
	return nil
}

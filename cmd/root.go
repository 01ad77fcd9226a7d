package cmd

import (
	"fmt"
	"os"

	"github.com/NorskHelsenett/dcn-ipam-firewall-ssi/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "dcn-ipam-firewall-ssi",
	Short: "IPAM to firewall sync service",
	Long: `dcn-ipam-firewall-ssi keeps firewall address objects and security groups
in sync with prefix data from NetBox. It serves an HTTP trigger API and runs
scheduled syncs per priority class.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with debug level gives readable ISO8601 output for
		// a CLI invocation.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

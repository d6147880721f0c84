package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

type rootOptions struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "contractkit",
		Short: "Inspect the data contract catalog",
		Long: `contractkit describes how Go types map to serializable data contracts.
Settings are read from contractkit.yaml and CONTRACTKIT_* environment variables.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a contractkit config file")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable development logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPrimitivesCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	return rootCmd
}

func (o *rootOptions) logger() (*zap.Logger, error) {
	if !o.verbose {
		return zap.NewNop(), nil
	}
	return zap.NewDevelopment()
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command nucleusd runs a component container with its HTTP browser.
//
//	nucleusd --config config.yml
//	NUCLEUS_MODULES=DAS,DafEar.base NUCLEUS_SERVER_ENABLED=true nucleusd
//	nucleusd modules
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/nucleus/builtin"
	"github.com/kbukum/nucleus/config"
	"github.com/kbukum/nucleus/version"
)

const envPrefix = "NUCLEUS_"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		envFile    string
		modules    []string
		initial    string
	)

	root := &cobra.Command{
		Use:           serviceName,
		Short:         "Run a component container",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, envFile)
			if err != nil {
				return err
			}
			if len(modules) > 0 {
				cfg.Modules = modules
			}
			if initial != "" {
				cfg.InitialService = initial
			}
			d, err := newDaemon(cfg)
			if err != nil {
				return err
			}
			return d.run(cmd.Context())
		},
	}
	root.Flags().StringVarP(&configFile, "config", "c", "", "config file (default: search for config.yml)")
	root.Flags().StringVar(&envFile, "env-file", "", ".env file (default: search for .env)")
	root.Flags().StringSliceVarP(&modules, "module", "m", nil, "modules to load, overrides config")
	root.Flags().StringVar(&initial, "initial-service", "", "component resolved at start, overrides config")

	root.AddCommand(newModulesCmd(), newVersionCmd())
	return root
}

func loadConfig(configFile, envFile string) (*Config, error) {
	opts := []config.LoaderOption{config.WithEnvPrefix(envPrefix)}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}
	var cfg Config
	if err := config.Load(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func newModulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the modules in the built-in catalog",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			printModules(cmd.OutOrStdout())
		},
	}
}

func printModules(w io.Writer) {
	catalog := builtin.NewCatalog()
	for _, name := range catalog.Names() {
		m, _ := catalog.Get(name)
		line := name
		if len(m.Requires) > 0 {
			line += " (requires " + strings.Join(m.Requires, ", ") + ")"
		}
		if m.Description != "" {
			line += ": " + m.Description
		}
		fmt.Fprintln(w, line)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.GetVersionInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", serviceName, info, info.GoVersion)
		},
	}
}

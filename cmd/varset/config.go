package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// configKeys are the settings the scan/query/check commands read as
// flag defaults. Every key holds a string.
var configKeys = map[string]string{
	"dataset":  "Default dataset identifier",
	"registry": "Default registry database path",
	"ontology": "Default sequence ontology map (TSV)",
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage varset configuration",
		Long:  "Show, get, or set default flag values. Config is stored in ~/.varset.yaml.",
		Example: `  varset config                                # show all config
  varset config set registry /data/varset.db  # set the default registry
  varset config get dataset                    # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func knownKeys() []string {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func checkConfigKey(key string) error {
	if _, ok := configKeys[key]; !ok {
		return fmt.Errorf("unknown key %q (known keys: %s)", key, strings.Join(knownKeys(), ", "))
	}
	return nil
}

func runConfigShow() error {
	settings := make(map[string]string)
	for key := range configKeys {
		if val := viper.GetString(key); val != "" {
			settings[key] = val
		}
	}
	if len(settings) == 0 {
		fmt.Printf("# No configuration set. Known keys: %s\n", strings.Join(knownKeys(), ", "))
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	if err := checkConfigKey(key); err != nil {
		return err
	}
	viper.Set(key, value)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".varset.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	if err := checkConfigKey(key); err != nil {
		return err
	}
	val := viper.GetString(key)
	if val == "" {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}

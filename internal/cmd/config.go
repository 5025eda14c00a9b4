package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/civicdesk/civicdesk/internal/config"
	"github.com/civicdesk/civicdesk/internal/ux"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit civicdesk configuration",
	Long: `Manage civicdesk configuration stored at ~/.civicdesk/config.yaml

Configuration includes:
  base_url      municipal backend base URL
  http_timeout  request timeout in seconds
  default_role  login role when --role is omitted
  log_level     minimum diagnostic level
  log_format    diagnostic output encoding

Examples:
  # Write a default configuration file
  civicdesk config init

  # View current configuration
  civicdesk config view

  # Set a specific value
  civicdesk config set base_url https://complaints.example.gov

  # Show configuration file path
  civicdesk config path
`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long:  `Write a configuration file with default values, refusing to overwrite an existing one.`,
	RunE:  runConfigInit,
}

var configViewCmd = &cobra.Command{
	Use:     "view",
	Aliases: []string{"show"},
	Short:   "Display current configuration",
	Long:    `Display the effective configuration after defaults and environment overrides.`,
	RunE:    runConfigView,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific configuration value",
	Long:  `Set a configuration key (base_url, http_timeout, default_role, log_level, log_format) and write the file back.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configViewCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("configuration already exists: %s", path)
	}

	if err := config.Save(config.DefaultConfig(), path); err != nil {
		return err
	}

	fmt.Println(ux.Success(fmt.Sprintf("Wrote %s", path)))
	return nil
}

func runConfigView(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	fmt.Print(string(data))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]

	cfg, err := config.LoadDefault()
	if err != nil {
		return err
	}

	switch key {
	case "base_url":
		cfg.BaseURL = value
	case "http_timeout":
		seconds, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("http_timeout must be an integer: %s", value)
		}
		cfg.HTTPTimeoutSeconds = seconds
	case "default_role":
		cfg.DefaultRole = value
	case "log_level":
		cfg.LogLevel = value
	case "log_format":
		cfg.LogFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	path, err := config.Path()
	if err != nil {
		return err
	}

	if err := config.Save(cfg, path); err != nil {
		return err
	}

	fmt.Println(ux.Success(fmt.Sprintf("Set %s = %s", key, value)))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.Path()
	if err != nil {
		return err
	}

	fmt.Println(path)
	return nil
}

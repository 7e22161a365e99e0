package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// CLIConfig captures runtime configuration for the audit run.
type CLIConfig struct {
	ProjectDir  string
	FrontendDir string
	BackendDir  string
	ReportDir   string
	SkipInstall bool
	// ToolRate caps external-tool launches per second; 0 means unlimited.
	ToolRate float64
	Progress bool
	Denylist []string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		ProjectDir:  ".",
		FrontendDir: "frontend",
		BackendDir:  "backend",
		ReportDir:   "",
		ToolRate:    0,
	}
}

// applyConfigDefaults merges config file defaults into the runtime config
// when the user did not explicitly override the corresponding flag.
func applyConfigDefaults(cmd *cobra.Command) {
	flags := runCmd.Flags()

	if viper.IsSet("project_dir") {
		applyStringDefault(flags, "project-dir", viper.GetString("project_dir"), func(v string) {
			cliConfig.ProjectDir = v
		})
	}
	if viper.IsSet("report_dir") {
		applyStringDefault(flags, "report-dir", viper.GetString("report_dir"), func(v string) {
			cliConfig.ReportDir = v
		})
	}
	if viper.IsSet("tool_rate") {
		applyFloatDefault(flags, "tool-rate", viper.GetFloat64("tool_rate"), func(v float64) {
			cliConfig.ToolRate = v
		})
	}
	if viper.IsSet("skip_install") {
		applyBoolDefault(flags, "skip-install", viper.GetBool("skip_install"), func(v bool) {
			cliConfig.SkipInstall = v
		})
	}
	if viper.IsSet("progress") {
		applyBoolDefault(flags, "progress", viper.GetBool("progress"), func(v bool) {
			cliConfig.Progress = v
		})
	}
	if viper.IsSet("denylist") {
		cliConfig.Denylist = viper.GetStringSlice("denylist")
	}
}

func applyStringDefault(flags *pflag.FlagSet, name, value string, setter func(string)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyFloatDefault(flags *pflag.FlagSet, name string, value float64, setter func(float64)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

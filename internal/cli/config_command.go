package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/temirov/pkgdoc/internal/config"
)

const (
	configUse                  = "config"
	configShortDescription     = "manage pkgdoc configuration"
	configInitUse              = "init"
	configInitShortDescription = "write a starter configuration file"
	globalFlagName             = "global"
	globalFlagDescription      = "write to the per-user configuration instead of the working directory"
	configForceFlagDescription = "overwrite an existing configuration file"
	configWrittenFormat        = "Wrote configuration to %s\n"
)

// createConfigCommand returns the config command group.
func createConfigCommand(state *application) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var global bool
	var force bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            force,
				WorkingDirectory: state.environment.workingDirectory,
				FileSystem:       state.environment.fileSystem,
			})
			if initError != nil {
				return initError
			}
			fmt.Fprintf(state.environment.output, configWrittenFormat, path)
			return nil
		},
	}
	initCommand.Flags().BoolVar(&global, globalFlagName, false, globalFlagDescription)
	initCommand.Flags().BoolVar(&force, forceFlagName, false, configForceFlagDescription)
	configCommand.AddCommand(initCommand)
	return configCommand
}

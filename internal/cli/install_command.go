package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgdoc/internal/config"
	"github.com/temirov/pkgdoc/internal/install"
	"github.com/temirov/pkgdoc/internal/utils"
)

const (
	installUse              = "install <package>"
	installAlias            = "i"
	installShortDescription = "copy package documentation into a folder (" + installAlias + ")"
	// installLongDescription provides detailed help for the install command.
	installLongDescription = `Copy the internals folder and root documents of an installed package into a destination.
The layout decides the folder below the destination and the policy decides what happens to files that already exist.`
	// installUsageExample demonstrates install command usage.
	installUsageExample = `  # Install into ./docs/acme.widgets/1.4.0
  pkgdoc install acme.widgets --destination ./docs

  # Preview a merge without touching the filesystem
  pkgdoc install acme.widgets --destination ./docs --layout module --policy merge --list-only`

	destinationFlagName        = "destination"
	layoutFlagName             = "layout"
	includeVersionFlagName     = "include-version"
	policyFlagName             = "policy"
	forceFlagName              = "force"
	listOnlyFlagName           = "list-only"
	excludeIntroFlagName       = "exclude-intro"
	openFlagName               = "open"
	destinationFlagDescription = "folder that receives the documentation"
	layoutFlagDescription      = "destination layout: direct, module, or module-and-version"
	includeVersionDescription  = "legacy switch between module and module-and-version layouts"
	policyFlagDescription      = "conflict policy: stop, skip, overwrite, or merge"
	forceFlagDescription       = "replace existing files when merging"
	listOnlyFlagDescription    = "print the plan without copying"
	excludeIntroDescription    = "leave introduction files out"
	openFlagDescription        = "open the destination folder afterwards"

	planHeaderFormat  = "Plan for %s -> %s (%d files, %s, policy %s)\n"
	planFileFormat    = "  %s\n"
	installedFormat   = "Installed %s into %s: %d copied, %d skipped (%s)\n"
	skippedFileFormat = "  skipped %s\n"
)

type installOptions struct {
	destination    string
	version        string
	layout         string
	includeVersion *bool
	policy         string
	force          bool
	listOnly       bool
	excludeIntro   *bool
	open           *bool
}

// createInstallCommand returns the install subcommand.
func createInstallCommand(state *application) *cobra.Command {
	var options installOptions

	installCommand := &cobra.Command{
		Use:     installUse,
		Aliases: []string{installAlias},
		Short:   installShortDescription,
		Long:    installLongDescription,
		Example: installUsageExample,
		Args:    cobra.ExactArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runInstallCommand(state, arguments[0], options)
		},
	}

	flags := installCommand.Flags()
	flags.StringVar(&options.destination, destinationFlagName, "", destinationFlagDescription)
	flags.StringVar(&options.version, packageVersionFlagName, "", packageVersionDescription)
	flags.StringVar(&options.layout, layoutFlagName, "", layoutFlagDescription)
	registerOptionalBooleanFlag(flags, &options.includeVersion, includeVersionFlagName, includeVersionDescription)
	flags.StringVar(&options.policy, policyFlagName, "", policyFlagDescription)
	flags.BoolVar(&options.force, forceFlagName, false, forceFlagDescription)
	flags.BoolVar(&options.listOnly, listOnlyFlagName, false, listOnlyFlagDescription)
	registerOptionalBooleanFlag(flags, &options.excludeIntro, excludeIntroFlagName, excludeIntroDescription)
	registerOptionalBooleanFlag(flags, &options.open, openFlagName, openFlagDescription)
	_ = installCommand.MarkFlagRequired(destinationFlagName)
	return installCommand
}

func runInstallCommand(state *application, packageName string, options installOptions) error {
	installSettings := state.configuration.Install
	layout, layoutError := resolveLayout(options, installSettings)
	if layoutError != nil {
		return layoutError
	}
	policy, policyError := install.ParsePolicy(firstNonEmpty(options.policy, installSettings.Policy))
	if policyError != nil {
		return policyError
	}

	reference, findError := state.registry().Find(packageName, options.version)
	if findError != nil {
		return fmt.Errorf("find package %s: %w", packageName, findError)
	}
	installer := install.NewInstaller(state.environment.fileSystem, state.logger)
	result, installError := installer.Install(install.Request{
		Package:      reference,
		Bases:        state.baseResolver().Resolve(reference.Root),
		BasePath:     options.destination,
		Layout:       layout,
		Policy:       policy,
		Force:        options.force,
		ListOnly:     options.listOnly,
		ExcludeIntro: config.BoolValue(options.excludeIntro, config.BoolValue(installSettings.ExcludeIntro, false)),
	})
	if installError != nil {
		return installError
	}

	if result.ListOnly {
		printInstallPlan(state.environment.output, reference.Name, result)
		return nil
	}
	printInstallResult(state.environment.output, reference.Name, result)

	if config.BoolValue(options.open, config.BoolValue(installSettings.Open, false)) && state.environment.opener != nil {
		if openError := state.environment.opener.Open(result.Destination); openError != nil {
			state.logger.Warn("unable to open destination", zap.String("path", result.Destination), zap.Error(openError))
		}
	}
	return nil
}

// resolveLayout prefers --layout, then the legacy --include-version switch, then configuration.
func resolveLayout(options installOptions, settings config.InstallConfiguration) (install.Layout, error) {
	if options.layout != "" {
		return install.ParseLayout(options.layout)
	}
	if options.includeVersion != nil {
		return install.LayoutFromLegacy(*options.includeVersion), nil
	}
	return install.ParseLayout(settings.Layout)
}

func printInstallPlan(writer io.Writer, packageName string, result install.Result) {
	plan := result.Plan
	fmt.Fprintf(writer, planHeaderFormat, packageName, result.Destination, len(plan.Files), utils.FormatFileSize(plan.TotalBytes()), plan.Policy)
	for _, file := range plan.Files {
		fmt.Fprintf(writer, planFileFormat, file.RelativePath)
	}
}

func printInstallResult(writer io.Writer, packageName string, result install.Result) {
	color.New(color.FgGreen).Fprintf(writer, installedFormat,
		packageName, result.Destination, len(result.Copied), len(result.Skipped), utils.FormatFileSize(result.Plan.TotalBytes()))
	skipped := color.New(color.FgYellow)
	for _, relativePath := range result.Skipped {
		skipped.Fprintf(writer, skippedFileFormat, relativePath)
	}
}

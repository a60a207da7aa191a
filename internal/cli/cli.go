// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/pkgdoc/internal/config"
	"github.com/temirov/pkgdoc/internal/docs"
	"github.com/temirov/pkgdoc/internal/docs/remotedoc"
	"github.com/temirov/pkgdoc/internal/fsops"
	"github.com/temirov/pkgdoc/internal/packages"
	"github.com/temirov/pkgdoc/internal/services/clipboard"
	"github.com/temirov/pkgdoc/internal/tokens"
	"github.com/temirov/pkgdoc/internal/utils"
)

const (
	verboseFlagName      = "verbose"
	configFlagName       = "config"
	versionTemplate      = "pkgdoc version: {{.Version}}\n"
	rootUse              = "pkgdoc"
	rootShortDescription = "pkgdoc command line interface"
	rootLongDescription  = `pkgdoc shows and installs the documentation bundled with installed packages.
Documents are looked up in the package folder, its internals folder and the manifest;
when a document is missing locally it is fetched from the package's GitHub or Azure DevOps repository.`
	verboseFlagDescription      = "log debug details such as skipped tiers and files"
	configFlagDescription       = "configuration file to use instead of ./" + utils.LocalConfigFileName
	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
)

// environment holds the process-level collaborators of the commands.
type environment struct {
	output           io.Writer
	errorOutput      io.Writer
	fileSystem       fsops.FS
	httpClient       *http.Client
	lookupEnv        func(string) (string, bool)
	clipboard        clipboard.Copier
	opener           directoryOpener
	tokenStorePath   string
	workingDirectory string
}

// application is the per-invocation state built once flags are parsed.
type application struct {
	environment   environment
	configuration config.ApplicationConfiguration
	logger        *zap.Logger
}

// Execute runs the pkgdoc application.
func Execute() error {
	workingDirectory, workingDirectoryError := os.Getwd()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	rootCommand := createRootCommand(environment{
		output:           os.Stdout,
		errorOutput:      os.Stderr,
		fileSystem:       fsops.NewOSFS(),
		httpClient:       &http.Client{},
		lookupEnv:        os.LookupEnv,
		clipboard:        clipboard.NewService(),
		opener:           newSystemOpener(),
		workingDirectory: workingDirectory,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(context.Background())
}

// createRootCommand builds the root Cobra command over the given environment.
func createRootCommand(env environment) *cobra.Command {
	var verbose bool
	var configPath string
	state := &application{environment: env, logger: zap.NewNop()}

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		Version:      utils.GetApplicationVersion(),
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			logger, loggerError := utils.NewApplicationLogger(verbose)
			if loggerError != nil {
				return fmt.Errorf("create logger: %w", loggerError)
			}
			state.logger = logger
			configuration, configurationError := config.LoadApplicationConfiguration(config.LoadOptions{
				WorkingDirectory: env.workingDirectory,
				ExplicitFilePath: configPath,
			})
			if configurationError != nil {
				return configurationError
			}
			state.configuration = configuration
			return nil
		},
	}
	rootCommand.SetVersionTemplate(versionTemplate)
	rootCommand.SetOut(env.output)
	rootCommand.SetErr(env.errorOutput)
	rootCommand.PersistentFlags().BoolVar(&verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&configPath, configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createShowCommand(state),
		createInstallCommand(state),
		createTokenCommand(state),
		createConfigCommand(state),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

func (state *application) registry() packages.Registry {
	return packages.NewRegistry(state.configuration.PackageSearchPaths(state.environment.lookupEnv), state.environment.fileSystem)
}

func (state *application) baseResolver() docs.BaseResolver {
	return docs.NewBaseResolver(state.environment.fileSystem, nil, state.logger)
}

func (state *application) tokenStore() (tokens.Store, error) {
	storePath := state.environment.tokenStorePath
	if storePath == "" {
		defaultPath, pathError := tokens.DefaultPath()
		if pathError != nil {
			return tokens.Store{}, pathError
		}
		storePath = defaultPath
	}
	return tokens.NewStore(storePath, state.environment.fileSystem, nil), nil
}

func (state *application) remoteClient() (remotedoc.Client, error) {
	store, storeError := state.tokenStore()
	if storeError != nil {
		return remotedoc.Client{}, storeError
	}
	resolver := tokens.NewResolver(store, state.logger).WithLookupEnv(state.environment.lookupEnv)
	httpClient := state.environment.httpClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	remoteSettings := state.configuration.Remote
	return remotedoc.NewClient(httpClient).
		WithGitHubRawBase(remoteSettings.GitHubRawBase).
		WithAzureDevOpsBase(remoteSettings.AzureDevOpsBase).
		WithTimeout(remoteSettings.Timeout).
		WithTokenSource(resolver).
		WithLogger(state.logger), nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

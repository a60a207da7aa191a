package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/temirov/pkgdoc/internal/docs/remotedoc"
	"github.com/temirov/pkgdoc/internal/tokens"
	"github.com/temirov/pkgdoc/internal/utils"
)

const (
	tokenUse                    = "token"
	tokenShortDescription       = "manage stored repository credentials"
	tokenSetUse                 = "set"
	tokenSetShortDescription    = "store GitHub and Azure DevOps tokens"
	tokenClearUse               = "clear"
	tokenClearShortDescription  = "remove every stored token"
	tokenStatusUse              = "status"
	tokenStatusShortDescription = "show where each host's token comes from"
	// tokenSetUsageExample demonstrates token set usage.
	tokenSetUsageExample = `  # Store a GitHub token
  pkgdoc token set --github ghp_example

  # Remove only the Azure DevOps token
  pkgdoc token set --azure-devops ""`

	gitHubTokenFlagName             = "github"
	azureDevOpsTokenFlagName        = "azure-devops"
	gitHubTokenFlagDescription      = "GitHub token; an empty value removes it"
	azureDevOpsTokenFlagDescription = "Azure DevOps personal access token; an empty value removes it"

	noTokenProvidedMessage = "provide --github and/or --azure-devops"
	tokensSavedFormat      = "Saved tokens to %s (%s)\n"
	tokensClearedFormat    = "Removed stored tokens at %s\n"
	storeStatusFormat      = "Store: %s (%s)\n"
	storeUpdatedFormat     = "Store: %s (%s, updated %s)\n"
	hostStoredFormat       = "%s: stored\n"
	hostEnvironmentFormat  = "%s: environment (%s)\n"
	hostMissingFormat      = "%s: not configured\n"
	hostUnreadableFormat   = "%s: unreadable store (%v)\n"
)

var statusHosts = []remotedoc.HostKind{remotedoc.HostGitHub, remotedoc.HostAzureDevOps}

// createTokenCommand returns the token command group.
func createTokenCommand(state *application) *cobra.Command {
	tokenCommand := &cobra.Command{
		Use:   tokenUse,
		Short: tokenShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}
	tokenCommand.AddCommand(
		createTokenSetCommand(state),
		createTokenClearCommand(state),
		createTokenStatusCommand(state),
	)
	return tokenCommand
}

func createTokenSetCommand(state *application) *cobra.Command {
	var gitHubToken string
	var azureDevOpsToken string

	setCommand := &cobra.Command{
		Use:     tokenSetUse,
		Short:   tokenSetShortDescription,
		Example: tokenSetUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			var gitHubValue, azureDevOpsValue *string
			if command.Flags().Changed(gitHubTokenFlagName) {
				trimmed := strings.TrimSpace(gitHubToken)
				gitHubValue = &trimmed
			}
			if command.Flags().Changed(azureDevOpsTokenFlagName) {
				trimmed := strings.TrimSpace(azureDevOpsToken)
				azureDevOpsValue = &trimmed
			}
			return runTokenSetCommand(state, gitHubValue, azureDevOpsValue)
		},
	}
	setCommand.Flags().StringVar(&gitHubToken, gitHubTokenFlagName, "", gitHubTokenFlagDescription)
	setCommand.Flags().StringVar(&azureDevOpsToken, azureDevOpsTokenFlagName, "", azureDevOpsTokenFlagDescription)
	return setCommand
}

func createTokenClearCommand(state *application) *cobra.Command {
	return &cobra.Command{
		Use:   tokenClearUse,
		Short: tokenClearShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			store, storeError := state.tokenStore()
			if storeError != nil {
				return storeError
			}
			if clearError := store.Clear(); clearError != nil {
				return clearError
			}
			color.New(color.FgGreen).Fprintf(state.environment.output, tokensClearedFormat, store.Path())
			return nil
		},
	}
}

func createTokenStatusCommand(state *application) *cobra.Command {
	return &cobra.Command{
		Use:   tokenStatusUse,
		Short: tokenStatusShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return runTokenStatusCommand(state)
		},
	}
}

func runTokenSetCommand(state *application, gitHubToken *string, azureDevOpsToken *string) error {
	if gitHubToken == nil && azureDevOpsToken == nil {
		return errors.New(noTokenProvidedMessage)
	}
	store, storeError := state.tokenStore()
	if storeError != nil {
		return storeError
	}
	if saveError := store.Save(gitHubToken, azureDevOpsToken); saveError != nil {
		return saveError
	}
	color.New(color.FgGreen).Fprintf(state.environment.output, tokensSavedFormat, store.Path(), store.ProtectorName())
	return nil
}

func runTokenStatusCommand(state *application) error {
	store, storeError := state.tokenStore()
	if storeError != nil {
		return storeError
	}
	writer := state.environment.output
	if modifiedAt, exists := store.ModifiedAt(); exists {
		fmt.Fprintf(writer, storeUpdatedFormat, store.Path(), store.ProtectorName(), utils.FormatTimestamp(modifiedAt))
	} else {
		fmt.Fprintf(writer, storeStatusFormat, store.Path(), store.ProtectorName())
	}

	configured := color.New(color.FgGreen)
	missing := color.New(color.FgYellow)
	for _, host := range statusHosts {
		_, stored, readError := store.Read(host)
		if readError != nil {
			missing.Fprintf(writer, hostUnreadableFormat, host, readError)
			continue
		}
		if stored {
			configured.Fprintf(writer, hostStoredFormat, host)
			continue
		}
		if variableName, found := environmentTokenVariable(state.environment.lookupEnv, host); found {
			configured.Fprintf(writer, hostEnvironmentFormat, host, variableName)
			continue
		}
		missing.Fprintf(writer, hostMissingFormat, host)
	}
	return nil
}

func environmentTokenVariable(lookupEnv func(string) (string, bool), host remotedoc.HostKind) (string, bool) {
	if lookupEnv == nil {
		return "", false
	}
	for _, variableName := range tokens.EnvironmentVariables(host) {
		if value, present := lookupEnv(variableName); present && strings.TrimSpace(value) != "" {
			return variableName, true
		}
	}
	return "", false
}

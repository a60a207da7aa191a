package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/pkgdoc/internal/config"
	"github.com/temirov/pkgdoc/internal/docs"
	"github.com/temirov/pkgdoc/internal/render"
	"github.com/temirov/pkgdoc/internal/types"
)

const (
	showUse              = "show <package...>"
	showAlias            = "s"
	showShortDescription = "display package documentation (" + showAlias + ")"
	// showLongDescription provides detailed help for the show command.
	showLongDescription = `Display the readme, changelog, license, introduction and upgrade notes of installed packages.
Local files win over manifest narrative, which wins over the remote repository.
Use --kind to select documents, --format to choose raw, markdown, json, or xml output, and --html to export a page.`
	// showUsageExample demonstrates show command usage.
	showUsageExample = `  # Show every document of the newest installed version
  pkgdoc show acme.widgets

  # Show the changelog of a specific version from the internals folder
  pkgdoc show acme.widgets --version 1.4.0 --kind changelog --prefer-internals

  # Render two packages as terminal markdown and copy the output
  pkgdoc show acme.widgets acme.gadgets --format markdown --clipboard`

	kindFlagName               = "kind"
	packageVersionFlagName     = "version"
	preferInternalsFlagName    = "prefer-internals"
	remoteFlagName             = "remote"
	branchFlagName             = "branch"
	remotePathFlagName         = "remote-path"
	tokenFlagName              = "token"
	formatFlagName             = "format"
	styleFlagName              = "style"
	htmlFlagName               = "html"
	clipboardFlagName          = "clipboard"
	kindFlagDescription        = "documents to show: readme, changelog, license, intro, upgrade or all"
	packageVersionDescription  = "package version to use instead of the newest installed one"
	preferInternalsDescription = "look in the internals folder before the package root"
	remoteFlagDescription      = "fetch documents missing locally from the package repository"
	branchFlagDescription      = "repository branch to fetch from"
	remotePathFlagDescription  = "additional repository folder to search"
	tokenFlagDescription       = "access token for this request only"
	formatFlagDescription      = "output format: raw, markdown, json, or xml"
	styleFlagDescription       = "markdown style: auto, dark, light, or notty"
	htmlFlagDescription        = "also write the documentation as an HTML page to this file"
	clipboardFlagDescription   = "copy the rendered output to the clipboard"

	kindNameAll                    = "all"
	multiPackageTitle              = "Package documentation"
	clipboardServiceMissingMessage = "clipboard service is not configured"
	clipboardCopyErrorFormat       = "copy output to clipboard: %w"
	versionWithManyPackagesMessage = "--version applies to a single package"
	authHintFormat                 = "%s: %s requires repository credentials; run `pkgdoc token set` or pass --token\n"
	htmlWrittenFormat              = "Wrote %s\n"
)

type showOptions struct {
	kinds           []string
	version         string
	preferInternals *bool
	remote          *bool
	branch          string
	remotePaths     []string
	token           string
	format          string
	style           string
	htmlPath        string
	clipboard       *bool
}

// createShowCommand returns the show subcommand.
func createShowCommand(state *application) *cobra.Command {
	var options showOptions

	showCommand := &cobra.Command{
		Use:     showUse,
		Aliases: []string{showAlias},
		Short:   showShortDescription,
		Long:    showLongDescription,
		Example: showUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			return runShowCommand(command.Context(), state, arguments, options)
		},
	}

	flags := showCommand.Flags()
	flags.StringSliceVar(&options.kinds, kindFlagName, nil, kindFlagDescription)
	flags.StringVar(&options.version, packageVersionFlagName, "", packageVersionDescription)
	registerOptionalBooleanFlag(flags, &options.preferInternals, preferInternalsFlagName, preferInternalsDescription)
	registerOptionalBooleanFlag(flags, &options.remote, remoteFlagName, remoteFlagDescription)
	flags.StringVar(&options.branch, branchFlagName, "", branchFlagDescription)
	flags.StringArrayVar(&options.remotePaths, remotePathFlagName, nil, remotePathFlagDescription)
	flags.StringVar(&options.token, tokenFlagName, "", tokenFlagDescription)
	flags.StringVar(&options.format, formatFlagName, "", formatFlagDescription)
	flags.StringVar(&options.style, styleFlagName, "", styleFlagDescription)
	flags.StringVar(&options.htmlPath, htmlFlagName, "", htmlFlagDescription)
	registerOptionalBooleanFlag(flags, &options.clipboard, clipboardFlagName, clipboardFlagDescription)
	return showCommand
}

// isSupportedFormat reports whether the provided format is recognized.
func isSupportedFormat(format string) bool {
	switch format {
	case types.FormatRaw, types.FormatMarkdown, types.FormatJSON, types.FormatXML:
		return true
	default:
		return false
	}
}

func runShowCommand(ctx context.Context, state *application, packageNames []string, options showOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	showSettings := state.configuration.Show
	format := strings.ToLower(firstNonEmpty(options.format, showSettings.Format, types.FormatRaw))
	if !isSupportedFormat(format) {
		return fmt.Errorf(invalidFormatMessage, format)
	}
	if options.version != "" && len(packageNames) > 1 {
		return errors.New(versionWithManyPackagesMessage)
	}
	kinds, kindsError := types.ParseDocumentKinds(options.kinds)
	if kindsError != nil {
		return kindsError
	}

	remoteClient, clientError := state.remoteClient()
	if clientError != nil {
		return clientError
	}
	registry := state.registry()
	baseResolver := state.baseResolver()
	planner := docs.NewPlanner(state.environment.fileSystem, remoteClient, state.logger)

	requestTemplate := docs.Request{
		Kinds:           kinds,
		All:             requestsAllKinds(options.kinds),
		PreferInternals: config.BoolValue(options.preferInternals, config.BoolValue(showSettings.PreferInternals, false)),
		Remote: docs.RemoteSettings{
			Enabled:    config.BoolValue(options.remote, config.BoolValue(showSettings.Remote, true)),
			Branch:     strings.TrimSpace(options.branch),
			ExtraPaths: options.remotePaths,
			Token:      strings.TrimSpace(options.token),
		},
	}

	results := make([]docs.PlanResult, len(packageNames))
	group, groupContext := errgroup.WithContext(ctx)
	for packageIndex, packageName := range packageNames {
		packageIndex, packageName := packageIndex, packageName
		group.Go(func() error {
			reference, findError := registry.Find(packageName, options.version)
			if findError != nil {
				return fmt.Errorf("find package %s: %w", packageName, findError)
			}
			request := requestTemplate
			request.Package = reference
			request.Bases = baseResolver.Resolve(reference.Root)
			result, planError := planner.Plan(groupContext, request)
			if planError != nil {
				return fmt.Errorf("plan documentation for %s: %w", packageName, planError)
			}
			results[packageIndex] = result
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return waitError
	}

	documents := make([]types.PackageDocumentation, 0, len(results))
	for _, result := range results {
		documents = append(documents, result.Documentation())
		reportAuthRequired(state.environment.errorOutput, result)
	}

	renderer := render.NewRenderer(state.environment.fileSystem).WithStyle(firstNonEmpty(options.style, showSettings.Style))
	rendered, renderError := renderer.Render(format, documents)
	if renderError != nil {
		return renderError
	}
	if writeError := writeShowOutput(state, rendered, config.BoolValue(options.clipboard, config.BoolValue(showSettings.Clipboard, false))); writeError != nil {
		return writeError
	}

	if options.htmlPath != "" {
		if htmlError := renderer.WriteHTML(options.htmlPath, showTitle(results), documents); htmlError != nil {
			return htmlError
		}
		state.logger.Debug("html export written", zap.String("path", options.htmlPath))
		fmt.Fprintf(state.environment.errorOutput, htmlWrittenFormat, options.htmlPath)
	}
	return nil
}

func writeShowOutput(state *application, rendered string, copyRequested bool) error {
	outputWriter := state.environment.output
	var clipboardBuffer *bytes.Buffer
	if copyRequested {
		if state.environment.clipboard == nil {
			return errors.New(clipboardServiceMissingMessage)
		}
		clipboardBuffer = &bytes.Buffer{}
		outputWriter = io.MultiWriter(outputWriter, clipboardBuffer)
	}
	if _, writeError := fmt.Fprint(outputWriter, rendered); writeError != nil {
		return writeError
	}
	if !strings.HasSuffix(rendered, "\n") {
		if _, writeError := fmt.Fprintln(outputWriter); writeError != nil {
			return writeError
		}
	}
	if copyRequested {
		if copyError := state.environment.clipboard.Copy(clipboardBuffer.String()); copyError != nil {
			return fmt.Errorf(clipboardCopyErrorFormat, copyError)
		}
	}
	return nil
}

func reportAuthRequired(writer io.Writer, result docs.PlanResult) {
	if writer == nil {
		return
	}
	hint := color.New(color.FgYellow)
	for _, kind := range result.AuthRequired {
		hint.Fprintf(writer, authHintFormat, result.Title, strings.ToLower(kind.Title()))
	}
}

func requestsAllKinds(names []string) bool {
	requested := 0
	for _, name := range names {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == kindNameAll {
			return true
		}
		if normalized != "" {
			requested++
		}
	}
	return requested == 0
}

func showTitle(results []docs.PlanResult) string {
	if len(results) == 1 {
		return results[0].Title
	}
	return multiPackageTitle
}

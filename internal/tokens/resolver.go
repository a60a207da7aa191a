package tokens

import (
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/pkgdoc/internal/docs/remotedoc"
)

var defaultEnvironmentVariables = map[remotedoc.HostKind][]string{
	remotedoc.HostGitHub:      {"GITHUB_TOKEN", "GH_TOKEN"},
	remotedoc.HostAzureDevOps: {"AZURE_DEVOPS_PAT", "SYSTEM_ACCESSTOKEN"},
}

type tokenReader interface {
	Read(host remotedoc.HostKind) (string, bool, error)
}

// Resolver looks a host's token up in the store first and the environment second.
// Explicit per-call tokens are handled by remotedoc.Ref and never reach it.
type Resolver struct {
	store     tokenReader
	lookupEnv func(string) (string, bool)
	variables map[remotedoc.HostKind][]string
	logger    *zap.Logger
}

// NewResolver constructs a Resolver over store; store may be nil to use the environment only.
func NewResolver(store tokenReader, logger *zap.Logger) Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Resolver{
		store:     store,
		lookupEnv: os.LookupEnv,
		variables: defaultEnvironmentVariables,
		logger:    logger,
	}
}

// WithLookupEnv replaces the environment lookup used after the store misses.
func (resolver Resolver) WithLookupEnv(lookupEnv func(string) (string, bool)) Resolver {
	if lookupEnv != nil {
		resolver.lookupEnv = lookupEnv
	}
	return resolver
}

// EnvironmentVariables lists the variables consulted for host, in lookup order.
func EnvironmentVariables(host remotedoc.HostKind) []string {
	return append([]string(nil), defaultEnvironmentVariables[host]...)
}

// Token implements remotedoc.TokenSource.
func (resolver Resolver) Token(host remotedoc.HostKind) (string, bool) {
	if resolver.store != nil {
		stored, found, readError := resolver.store.Read(host)
		if readError != nil {
			resolver.logger.Warn("ignoring unreadable token store", zap.String("host", string(host)), zap.Error(readError))
		} else if found && strings.TrimSpace(stored) != "" {
			return stored, true
		}
	}
	for _, variableName := range resolver.variables[host] {
		value, present := resolver.lookupEnv(variableName)
		if present && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

var _ remotedoc.TokenSource = Resolver{}

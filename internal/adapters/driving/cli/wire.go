package cli

import (
	"fmt"

	"github.com/worklens/worklens/internal/adapters/driven/config/file"
	"github.com/worklens/worklens/internal/adapters/driven/oauth"
	"github.com/worklens/worklens/internal/adapters/driven/storage/sqlite"
	"github.com/worklens/worklens/internal/connectors/github"
	"github.com/worklens/worklens/internal/connectors/jira"
	"github.com/worklens/worklens/internal/connectors/slack"
	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
	"github.com/worklens/worklens/internal/core/services"
	"github.com/worklens/worklens/internal/executor"
	"github.com/worklens/worklens/internal/logger"
	"github.com/worklens/worklens/internal/normalisers"
)

// Shared infrastructure behind the service variables.
var (
	store      *sqlite.Store
	config     *file.ConfigStore
	connectors map[domain.ProviderType]driven.Connector

	credentialService *services.CredentialService
	integrationStore  driven.IntegrationStore
)

// initServices builds the full service stack: config, store, connectors
// and the core services the commands drive.
func initServices() error {
	var err error
	config, err = file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err = sqlite.NewStore(config.GetString("storage.data_dir"))
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	exec := executor.New(config.GetInt("sync.pool_size"))
	connectors = map[domain.ProviderType]driven.Connector{
		domain.ProviderGitHub: github.New(exec),
		domain.ProviderJira:   jira.New(exec),
		domain.ProviderSlack:  slack.New(exec),
	}

	integrationStore = store.IntegrationStore()
	credentialService = services.NewCredentialService(integrationStore, oauth.NewRefresher(oauthCredentials()))

	syncService = services.NewSyncService(
		connectors,
		credentialService,
		store.ContextStore(),
		store.SyncStateStore(),
		normalisers.NewRegistry(),
	)
	searchService = services.NewSearchService(store.ContextStore())
	statsService = services.NewStatsService(store.ContextStore(), store.SyncStateStore())
	integrationService = services.NewIntegrationService(integrationStore, connectors)

	if owner == "" {
		owner = config.GetString("owner")
	}
	return nil
}

// oauthCredentials reads per-provider OAuth app credentials from config.
// Providers without credentials simply cannot refresh; personal tokens
// keep working.
func oauthCredentials() map[domain.ProviderType]oauth.ClientCredentials {
	credentials := make(map[domain.ProviderType]oauth.ClientCredentials)
	for _, provider := range domain.AllProviderTypes() {
		id := config.GetString("oauth." + string(provider) + ".client_id")
		secret := config.GetString("oauth." + string(provider) + ".client_secret")
		if id != "" && secret != "" {
			credentials[provider] = oauth.ClientCredentials{ClientID: id, ClientSecret: secret}
		}
	}
	return credentials
}

func closeServices() {
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("close store: %v", err)
		}
		store = nil
	}
}

// requireOwner resolves the owner flag or config value.
func requireOwner() (string, error) {
	if owner == "" {
		return "", fmt.Errorf("owner is required: pass --owner or set it in %s", config.Path())
	}
	return owner, nil
}

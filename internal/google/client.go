// Package google holds the thin adapters over the Google Workspace APIs:
// Gmail as the message source, People as the contact store, Tasks as the
// task store. Token acquisition happens elsewhere; these clients consume
// an already-cached OAuth token.
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	peopleapi "google.golang.org/api/people/v1"
	"google.golang.org/api/option"
	tasksapi "google.golang.org/api/tasks/v1"
)

var scopes = []string{
	gmailapi.GmailReadonlyScope,
	peopleapi.ContactsScope,
	tasksapi.TasksScope,
}

// Services bundles the three API clients built from one OAuth identity.
type Services struct {
	Gmail  *gmailapi.Service
	People *peopleapi.Service
	Tasks  *tasksapi.Service
}

// NewServices builds the API clients from an OAuth client-credentials
// file and a cached token file.
func NewServices(ctx context.Context, credentialsFile, tokenFile string) (*Services, error) {
	client, err := httpClient(ctx, credentialsFile, tokenFile)
	if err != nil {
		return nil, err
	}

	gmailSvc, err := gmailapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create gmail service: %w", err)
	}
	peopleSvc, err := peopleapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create people service: %w", err)
	}
	tasksSvc, err := tasksapi.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("create tasks service: %w", err)
	}

	return &Services{Gmail: gmailSvc, People: peopleSvc, Tasks: tasksSvc}, nil
}

func httpClient(ctx context.Context, credentialsFile, tokenFile string) (*http.Client, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	cfg, err := google.ConfigFromJSON(creds, scopes...)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file: %w", err)
	}

	tokenData, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("parse token file: %w", err)
	}

	return cfg.Client(ctx, &token), nil
}

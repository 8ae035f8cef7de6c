package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/kerbaras/mangashelf/pkg/migration"
	"github.com/kerbaras/mangashelf/pkg/utils"
)

const migratableSourcesQuery = `query GET_MIGRATABLE_SOURCES {
  mangas(condition: { inLibrary: true }) {
    nodes {
      sourceId
      source {
        id
        displayName
        lang
        iconUrl
      }
    }
  }
}`

type graphQLRequest struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

// Suwayomi talks to a Suwayomi server's GraphQL endpoint.
type Suwayomi struct {
	api *utils.API
}

func NewSuwayomi(serverURL string) *Suwayomi {
	return &Suwayomi{api: utils.NewAPI(strings.TrimRight(serverURL, "/"))}
}

func (s *Suwayomi) query(ctx context.Context, req graphQLRequest, v any) error {
	var resp struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphQLError  `json:"errors"`
	}
	if err := s.api.Post(ctx, "/api/graphql", req, &resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		msgs := make([]string, len(resp.Errors))
		for i, e := range resp.Errors {
			msgs[i] = e.Message
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return json.Unmarshal(resp.Data, v)
}

// MigratableMangas lists the server's library manga with their sources.
func (s *Suwayomi) MigratableMangas(ctx context.Context) ([]migration.Manga, error) {
	var result struct {
		Mangas struct {
			Nodes []struct {
				SourceID string `json:"sourceId"`
				Source   *struct {
					ID          string `json:"id"`
					DisplayName string `json:"displayName"`
					Lang        string `json:"lang"`
					IconURL     string `json:"iconUrl"`
				} `json:"source"`
			} `json:"nodes"`
		} `json:"mangas"`
	}
	req := graphQLRequest{OperationName: "GET_MIGRATABLE_SOURCES", Query: migratableSourcesQuery}
	if err := s.query(ctx, req, &result); err != nil {
		return nil, fmt.Errorf("failed to get migratable sources: %w", err)
	}

	mangas := make([]migration.Manga, len(result.Mangas.Nodes))
	for i, node := range result.Mangas.Nodes {
		mangas[i] = migration.Manga{SourceID: node.SourceID}
		if src := node.Source; src != nil {
			mangas[i].Source = &migration.SourceInfo{
				ID:      src.ID,
				Name:    src.DisplayName,
				Lang:    src.Lang,
				IconURL: s.absolute(src.IconURL),
			}
		}
	}
	return mangas, nil
}

// absolute resolves server relative paths such as icon URLs.
func (s *Suwayomi) absolute(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.api.BaseURL() + path
	}
	return path
}

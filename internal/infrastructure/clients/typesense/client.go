package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/menshealthfinder/clinicfinder/pkg/config"
	"github.com/menshealthfinder/clinicfinder/pkg/retry"
)

const (
	ClinicsCollection = "clinics"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	// Test connection with retry
	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().
				Int("attempt", attempt).
				Err(err).
				Dur("next_delay", nextDelay).
				Msg("Typesense connection attempt failed, retrying")
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Msg("Successfully connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the clinics collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == ClinicsCollection {
			log.Info().Msg("Typesense collection 'clinics' already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: ClinicsCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "slug",
				Type: "string",
			},
			{
				Name: "name",
				Type: "string",
			},
			{
				Name:  "city",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name:  "state",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name:  "tier",
				Type:  "string",
				Facet: pointer.True(),
			},
			{
				Name:  "verified",
				Type:  "bool",
				Facet: pointer.True(),
			},
			{
				Name: "is_active",
				Type: "bool",
			},
			{
				Name:     "services",
				Type:     "string[]",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name:     "searchable_terms",
				Type:     "string[]",
				Optional: pointer.True(),
			},
			{
				Name:     "tags",
				Type:     "string[]",
				Optional: pointer.True(),
			},
			{
				Name: "total_clicks",
				Type: "int64",
			},
			{
				Name:     "location",
				Type:     "geopoint",
				Optional: pointer.True(),
			},
			{
				Name: "created_at",
				Type: "int64",
			},
		},
		DefaultSortingField: pointer.String("total_clicks"),
	}

	_, err = c.client.Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Msg("Created Typesense collection 'clinics'")
	return nil
}

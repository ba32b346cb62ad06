package main

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/stationdir/internal/api"
	"github.com/bbernstein/stationdir/internal/config"
	"github.com/bbernstein/stationdir/internal/loader"
	"github.com/bbernstein/stationdir/internal/stations"
	"github.com/bbernstein/stationdir/pkg/http/client"
)

var (
	cfg           *config.Config
	stationLoader *loader.Loader
	setupOnce     sync.Once
)

func init() {
	setupOnce.Do(func() {
		cfg = config.LoadFromEnv()
		cfg.InitializeLogging()

		log.Info().Str("env", cfg.Environment).Msg("Environment")
		log.Debug().Msg("Debug logs enabled")

		httpClient := client.New(client.Options{
			BaseURL:    cfg.DatasetURL,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
		})

		var mirror *loader.S3Mirror
		if cfg.S3Bucket != "" {
			var err error
			mirror, err = loader.NewS3Mirror(context.Background(), cfg.S3Bucket)
			if err != nil {
				log.Warn().Err(err).Msg("Dataset mirror disabled")
			}
		}

		var err error
		stationLoader, err = loader.New(cfg, httpClient, mirror)
		if err != nil {
			log.Fatal().Err(err).Msg("Creating station loader")
		}
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	log.Info().Msg("Handling Lambda request")

	query, err := api.ParseQuery(params)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	limit, sample, err := api.ParseLimit(params)
	if err != nil {
		return api.Error(err.Error(), http.StatusBadRequest)
	}

	selection, err := stations.Load(ctx, stationLoader, query, stations.WithMaxAge(cfg.MaxAge))
	if err != nil {
		var invalidErr *stations.InvalidFilterError
		if errors.As(err, &invalidErr) {
			return api.Error(err.Error(), http.StatusBadRequest)
		}
		var sourceErr *stations.SourceUnavailableError
		if errors.As(err, &sourceErr) {
			log.Error().Err(err).Msg("Station directory unavailable")
			return api.Error("Station directory unavailable", http.StatusServiceUnavailable)
		}
		return api.Error("Error selecting stations", http.StatusInternalServerError)
	}

	return api.Success(api.NewStationsResponse(selection.Count(), selection.Fetch(limit, sample)))
}

func main() {
	lambda.Start(handleRequest)
}

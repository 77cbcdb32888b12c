package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	mongoMigration "hotelbook/internal/migrations/mongo"
	hotelrepository "hotelbook/internal/hotels/repository"
	"hotelbook/internal/hotels/seed"
	"hotelbook/pkg/config"
	"hotelbook/pkg/model"

	"github.com/spf13/cobra"
)

const cliName = "hotelctl"

// withMongo loads configuration, connects to Mongo and runs fn.
func withMongo(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config) error) error {
	cfg := config.Load(cliName)
	if cfg.StoreBackend != config.StoreMongo {
		return fmt.Errorf("%s needs STORE_BACKEND=mongo, got %q", cmd.Name(), cfg.StoreBackend)
	}
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	return fn(cmd.Context(), cfg)
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create collections, validators and indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMongo(cmd, func(ctx context.Context, cfg *config.Config) error {
				return mongoMigration.RunMigration(ctx, cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.Log)
			})
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Register the default hotels, skipping ones that already exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMongo(cmd, func(ctx context.Context, cfg *config.Config) error {
				result, err := seed.Seed(ctx, hotelrepository.NewMongoHotelRepository(cfg), seed.DefaultHotels(), cfg.Log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d, skipped %d\n", len(result.Created), len(result.Skipped))
				return nil
			})
		},
	}
}

func newHotelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hotels",
		Short: "List registered hotels",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMongo(cmd, func(ctx context.Context, cfg *config.Config) error {
				hotels, err := hotelrepository.NewMongoHotelRepository(cfg).List(ctx)
				if err != nil {
					return err
				}
				return printHotels(cmd.OutOrStdout(), hotels)
			})
		},
	}
}

func printHotels(out io.Writer, hotels []*model.Hotel) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY\tSTATUS")
	for _, h := range hotels {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", h.ID, h.Name, h.City, h.Status)
	}
	return w.Flush()
}

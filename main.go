// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"techapps/config"
	"techapps/controllers"
	"techapps/routes"
	"techapps/store"
	"techapps/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	var (
		envFile  string
		port     string
		inMemory bool
	)

	cmd := &cobra.Command{
		Use:          "techapps",
		Short:        "Tech Apps marketplace API server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), envFile, port, inMemory)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", ".env", "file to load environment variables from")
	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides PORT)")
	cmd.Flags().BoolVar(&inMemory, "memory", false, "keep data in memory instead of MongoDB")
	return cmd
}

func run(ctx context.Context, envFile, port string, inMemory bool) error {
	// Load environment variables from .env file
	if err := godotenv.Load(envFile); err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	cfg, err := config.Load(inMemory)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(cfg.TokenSecret)

	var db *store.Database
	if cfg.InMemory {
		log.Println("Using in-memory store; data is lost on exit")
		db = store.NewMemoryDatabase()
	} else {
		client, err := utils.ConnectDB(ctx, cfg.MongoURI)
		if err != nil {
			return err
		}
		defer func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Printf("Failed to disconnect from MongoDB: %v", err)
			}
		}()

		mdb := client.Database(cfg.DatabaseName)
		if err := store.EnsureIndexes(ctx, mdb); err != nil {
			return err
		}
		db = store.NewMongoDatabase(mdb)
	}

	gateway := utils.NewStripeGateway(cfg.StripeSecretKey)

	var receipts controllers.ReceiptSender
	if cfg.PostmarkToken != "" {
		receipts = utils.NewEmailService(cfg.PostmarkToken, cfg.EmailSender)
	}

	handler := routes.NewHandler(db, gateway, receipts, cfg.AllowedOrigins)

	fmt.Printf("The server is running on port %s\n", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, handler)
}

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/worklog-hq/worklog/internal/api/clients"
	"github.com/worklog-hq/worklog/internal/models"
)

var (
	clientDBPath string
	clientName   string
	clientSlug   string
)

// clientCmd represents the client command group
var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Client registry commands",
	Long: `Commands for managing the client registry.

Work reports reference clients by slug; the registry maps slugs to
display names.

Examples:
  # List all clients
  worklogctl client list

  # Register a client (slug derived from the name)
  worklogctl client add --name "ACME Inc"

  # Remove a client no reports reference
  worklogctl client rm --slug acme-inc`,
}

// clientListCmd lists registered clients
var clientListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(clientDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		clientList, err := store.Clients().List(ctx)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}

		if len(clientList) == 0 {
			fmt.Println("No clients found.")
			return nil
		}

		fmt.Printf("\n%-36s  %-30s  %-30s  %s\n", "ID", "NAME", "SLUG", "CREATED")
		fmt.Println(strings.Repeat("-", 110))
		for _, c := range clientList {
			fmt.Printf("%-36s  %-30s  %-30s  %s\n",
				c.ID, c.Name, c.Slug, c.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Printf("\nTotal: %d client(s)\n", len(clientList))

		return nil
	},
}

// clientAddCmd registers a new client
var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new client",
	Long: `Register a new client in the registry.

The slug is derived from the name unless --slug is given. Reports
reference the slug, which never changes once assigned.

Example:
  worklogctl client add --name "ACME Inc"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if clientName == "" {
			return fmt.Errorf("--name is required")
		}
		if err := clients.ValidateName(clientName); err != nil {
			return fmt.Errorf("invalid name: %w", err)
		}

		slug := clientSlug
		if slug == "" {
			slug = models.Slugify(clientName)
		}

		store, err := openDatabase(clientDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		existing, err := store.Clients().GetByName(ctx, strings.TrimSpace(clientName))
		if err != nil {
			return fmt.Errorf("check name: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("client name '%s' already exists", clientName)
		}

		existing, err = store.Clients().GetBySlug(ctx, slug)
		if err != nil {
			return fmt.Errorf("check slug: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("client slug '%s' already exists", slug)
		}

		client := models.NewClient(clientName, slug)
		client.ID = uuid.New().String()

		if err := store.Clients().Create(ctx, client); err != nil {
			return fmt.Errorf("create client: %w", err)
		}

		fmt.Printf("\nClient registered:\n")
		fmt.Printf("  ID:   %s\n", client.ID)
		fmt.Printf("  Name: %s\n", client.Name)
		fmt.Printf("  Slug: %s\n", client.Slug)

		return nil
	},
}

// clientRmCmd removes a client
var clientRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a client",
	Long: `Remove a client from the registry.

A client referenced by any work report cannot be removed; delete or
reattribute those reports first.

Example:
  worklogctl client rm --slug acme-inc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if clientSlug == "" {
			return fmt.Errorf("--slug is required")
		}

		store, err := openDatabase(clientDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		client, err := store.Clients().GetBySlug(ctx, clientSlug)
		if err != nil {
			return fmt.Errorf("find client: %w", err)
		}
		if client == nil {
			return fmt.Errorf("client '%s' not found", clientSlug)
		}

		inUse, err := store.Reports().CountByClientSlug(ctx, client.Slug)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if inUse > 0 {
			return fmt.Errorf("client '%s' is referenced by %d report(s)", client.Slug, inUse)
		}

		if err := store.Clients().Delete(ctx, client.ID); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}

		fmt.Printf("Client '%s' removed.\n", client.Slug)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(clientListCmd)
	clientCmd.AddCommand(clientAddCmd)
	clientCmd.AddCommand(clientRmCmd)

	for _, cmd := range []*cobra.Command{clientListCmd, clientAddCmd, clientRmCmd} {
		cmd.Flags().StringVar(&clientDBPath, "db", defaultDBPath, "path to SQLite database file")
	}

	clientAddCmd.Flags().StringVar(&clientName, "name", "", "client display name (required)")
	clientAddCmd.Flags().StringVar(&clientSlug, "slug", "", "slug override (derived from name when omitted)")
	clientAddCmd.MarkFlagRequired("name")

	clientRmCmd.Flags().StringVar(&clientSlug, "slug", "", "slug of the client to remove (required)")
	clientRmCmd.MarkFlagRequired("slug")
}

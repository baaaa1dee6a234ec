package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/propmatch/pkg/config"
	"github.com/wonny/propmatch/pkg/database"
)

// testDBCmd represents the test-db command
var testDBCmd = &cobra.Command{
	Use:   "test-db",
	Short: "Test the PostgreSQL connection",
	Long: `Tests the database connection and shows pool statistics.

This command:
- Loads DATABASE_URL from config
- Opens a connection pool
- Runs a ping and health check
- Prints connection pool statistics

Example:
  go run ./cmd/propmatch test-db
  go run ./cmd/propmatch test-db --env production`,
	RunE: runTestDB,
}

func init() {
	rootCmd.AddCommand(testDBCmd)
}

func runTestDB(cmd *cobra.Command, args []string) error {
	fmt.Println("=== PropMatch Database Connection Test ===")

	// Load configuration
	fmt.Println("Loading configuration...")
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("❌ Failed to load config: %w", err)
	}
	fmt.Printf("✅ Config loaded (ENV: %s)\n", cfg.Env)
	fmt.Printf("   Database URL: %s\n\n", maskURL(cfg.Database.URL))

	// Create database connection
	fmt.Println("Connecting to database...")
	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("❌ Failed to connect to database: %w", err)
	}
	defer db.Close()
	fmt.Println("✅ Database connection established")

	// Health check
	fmt.Println("Running health check...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.Health(ctx); err != nil {
		return fmt.Errorf("❌ Health check failed: %w", err)
	}
	fmt.Println("✅ Health check passed")

	// Pool statistics
	stats := db.Pool.Stat()
	fmt.Println("\n📊 Connection Pool Statistics:")
	fmt.Printf("   Max Connections: %d\n", stats.MaxConns())
	fmt.Printf("   Total Connections: %d\n", stats.TotalConns())
	fmt.Printf("   Acquired Connections: %d\n", stats.AcquiredConns())
	fmt.Printf("   Idle Connections: %d\n", stats.IdleConns())
	fmt.Printf("   Constructing Connections: %d\n", stats.ConstructingConns())

	fmt.Println("\n✅ Database test completed!")
	return nil
}

// maskURL hides credentials in a connection string for display
func maskURL(url string) string {
	if len(url) < 40 {
		return "***"
	}
	return url[:12] + "***" + url[len(url)-20:]
}

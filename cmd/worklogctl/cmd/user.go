package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/worklog-hq/worklog/internal/api/auth"
	"github.com/worklog-hq/worklog/internal/api/users"
	"github.com/worklog-hq/worklog/internal/models"
	"github.com/worklog-hq/worklog/internal/storage"
)

var (
	userDBPath      string
	userUsername    string
	userDisplayName string
	userRole        string
)

// userCmd represents the user command group
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Account management commands",
	Long: `Commands for managing WorkLog accounts.

These commands operate directly on the database file and are intended
for system administrators to manage accounts outside of the API.

Examples:
  # List all accounts
  worklogctl user list

  # Create an employee account
  worklogctl user create --username alice --display-name "Alice Smith"

  # Change an account's password
  worklogctl user passwd --username alice`,
}

// userListCmd lists all accounts
var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts",
	Long: `List all accounts in the database.

Displays username, display name, role, and creation date for each
account. Passwords are never displayed.

Example:
  worklogctl user list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		userList, err := store.Users().List(ctx)
		if err != nil {
			return fmt.Errorf("list users: %w", err)
		}

		if len(userList) == 0 {
			fmt.Println("No accounts found.")
			return nil
		}

		// Print header
		fmt.Printf("\n%-36s  %-20s  %-30s  %-10s  %s\n",
			"ID", "USERNAME", "DISPLAY NAME", "ROLE", "CREATED")
		fmt.Println(strings.Repeat("-", 120))

		for _, u := range userList {
			fmt.Printf("%-36s  %-20s  %-30s  %-10s  %s\n",
				u.ID,
				u.Username,
				u.DisplayName,
				u.Role,
				u.CreatedAt.Format("2006-01-02 15:04:05"),
			)
		}
		fmt.Printf("\nTotal: %d account(s)\n", len(userList))

		return nil
	},
}

// userCreateCmd creates a new account
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new account",
	Long: `Create a new account in the database.

The password will be prompted interactively for security reasons
(to avoid exposing it in shell history).

The display name labels the account's work reports in exports, so it
must be unique across accounts.

Available roles:
  - admin: manages accounts, clients, and all reports
  - employee: logs and views their own work reports

Example:
  worklogctl user create --username alice --display-name "Alice Smith" --role employee`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userUsername == "" {
			return fmt.Errorf("--username is required")
		}
		if userDisplayName == "" {
			return fmt.Errorf("--display-name is required")
		}

		// Validate username
		if err := users.ValidateUsername(userUsername); err != nil {
			return fmt.Errorf("invalid username: %w", err)
		}

		// Validate display name
		if err := users.ValidateDisplayName(userDisplayName); err != nil {
			return fmt.Errorf("invalid display name: %w", err)
		}

		// Validate role
		role, err := users.ValidateRole(userRole)
		if err != nil {
			return fmt.Errorf("invalid role: %w", err)
		}

		// Prompt for password securely
		password, err := promptPassword("Enter password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		// Validate password
		if err := auth.ValidatePassword(password); err != nil {
			return fmt.Errorf("invalid password: %w", err)
		}

		// Confirm password
		confirmPassword, err := promptPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("read password confirmation: %w", err)
		}

		if password != confirmPassword {
			return fmt.Errorf("passwords do not match")
		}

		// Open database
		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		// Check if username already exists
		existing, err := store.Users().GetByUsername(ctx, userUsername)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("username '%s' already exists", userUsername)
		}

		// Check if display name already exists
		existing, err = store.Users().GetByDisplayName(ctx, strings.TrimSpace(userDisplayName))
		if err != nil {
			return fmt.Errorf("check display name: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("display name '%s' already exists", userDisplayName)
		}

		// Hash password
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		// Create account
		now := time.Now()
		user := &models.User{
			ID:           uuid.New().String(),
			Username:     strings.TrimSpace(userUsername),
			DisplayName:  strings.TrimSpace(userDisplayName),
			PasswordHash: string(hash),
			Role:         role,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if err := store.Users().Create(ctx, user); err != nil {
			return fmt.Errorf("create user: %w", err)
		}

		fmt.Printf("\nAccount created successfully:\n")
		fmt.Printf("  ID:           %s\n", user.ID)
		fmt.Printf("  Username:     %s\n", user.Username)
		fmt.Printf("  Display name: %s\n", user.DisplayName)
		fmt.Printf("  Role:         %s\n", user.Role)

		return nil
	},
}

// userPasswdCmd changes an account's password
var userPasswdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change an account's password",
	Long: `Change the password for an existing account.

The new password will be prompted interactively for security reasons
(to avoid exposing it in shell history).

Example:
  worklogctl user passwd --username alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userUsername == "" {
			return fmt.Errorf("--username is required")
		}

		// Open database
		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		// Find account
		user, err := store.Users().GetByUsername(ctx, userUsername)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("account '%s' not found", userUsername)
		}

		// Prompt for new password
		password, err := promptPassword("Enter new password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		// Validate password
		if err := auth.ValidatePassword(password); err != nil {
			return fmt.Errorf("invalid password: %w", err)
		}

		// Confirm password
		confirmPassword, err := promptPassword("Confirm new password: ")
		if err != nil {
			return fmt.Errorf("read password confirmation: %w", err)
		}

		if password != confirmPassword {
			return fmt.Errorf("passwords do not match")
		}

		// Hash new password
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}

		// Update account
		user.PasswordHash = string(hash)
		user.UpdatedAt = time.Now()

		if err := store.Users().Update(ctx, user); err != nil {
			return fmt.Errorf("update user: %w", err)
		}

		// Revoke all refresh tokens for this account (force re-login)
		if err := store.Tokens().RevokeAllForUser(ctx, user.ID); err != nil {
			// Log warning but don't fail - password was already changed
			PrintVerbose("Warning: could not revoke existing sessions: %v", err)
		}

		fmt.Printf("\nPassword changed successfully for account '%s'.\n", user.Username)
		fmt.Println("All existing sessions have been revoked.")

		return nil
	},
}

// userDeleteCmd removes an account
var userDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete an account",
	Long: `Delete an account from the database.

Work reports attributed to the account are kept; they keep the stored
attribution but no longer resolve to a login.

Example:
  worklogctl user delete --username alice`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if userUsername == "" {
			return fmt.Errorf("--username is required")
		}

		store, err := openDatabase(userDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		user, err := store.Users().GetByUsername(ctx, userUsername)
		if err != nil {
			return fmt.Errorf("find user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("account '%s' not found", userUsername)
		}

		if err := store.Users().Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}

		if err := store.Tokens().RevokeAllForUser(ctx, user.ID); err != nil {
			PrintVerbose("Warning: could not revoke existing sessions: %v", err)
		}

		fmt.Printf("Account '%s' deleted.\n", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userPasswdCmd)
	userCmd.AddCommand(userDeleteCmd)

	// Common flags (db has default value)
	for _, cmd := range []*cobra.Command{userListCmd, userCreateCmd, userPasswdCmd, userDeleteCmd} {
		cmd.Flags().StringVar(&userDBPath, "db", defaultDBPath, "path to SQLite database file")
	}

	// Create-specific flags
	userCreateCmd.Flags().StringVar(&userUsername, "username", "", "username for the new account (required)")
	userCreateCmd.Flags().StringVar(&userDisplayName, "display-name", "", "display name for the new account (required)")
	userCreateCmd.Flags().StringVar(&userRole, "role", "employee", "role: admin or employee (default: employee)")
	userCreateCmd.MarkFlagRequired("username")
	userCreateCmd.MarkFlagRequired("display-name")

	// Passwd-specific flags
	userPasswdCmd.Flags().StringVar(&userUsername, "username", "", "username of the account to update (required)")
	userPasswdCmd.MarkFlagRequired("username")

	// Delete-specific flags
	userDeleteCmd.Flags().StringVar(&userUsername, "username", "", "username of the account to delete (required)")
	userDeleteCmd.MarkFlagRequired("username")
}

// openDatabase opens the SQLite database.
func openDatabase(path string) (*storage.SQLiteStorage, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", path)
	}

	store := storage.NewSQLiteStorage(path)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return store, nil
}

// promptPassword prompts for a password without echoing to the terminal.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)

	// Check if stdin is a terminal
	fd := syscall.Stdin
	if term.IsTerminal(fd) {
		// Read password without echo
		passwordBytes, err := term.ReadPassword(fd)
		fmt.Println() // Add newline after password input
		if err != nil {
			return "", err
		}
		return string(passwordBytes), nil
	}

	// Fallback for non-terminal input (e.g., piped input)
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(password), nil
}

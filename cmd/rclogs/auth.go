package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"rclogs/pkg/auth"
	"rclogs/pkg/logger"
	"rclogs/pkg/ringcentral"
	"rclogs/pkg/ui"
)

var loginShowGuide bool

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage RingCentral credentials",
	Long: `Manage stored RingCentral JWT credentials.

Credentials are resolved in order from:
  - System keychain (when available)
  - Encrypted file with PBKDF2 key derivation
  - RC_CLIENT_ID, RC_CLIENT_SECRET, RC_JWT_TOKEN and RC_SERVER
    environment variables

Never share your JWT token or config files.`,
}

// authLoginCmd represents the auth login command
var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store RingCentral credentials securely",
	Long: `Store RingCentral JWT credentials in the system keychain or, when no
keychain is available, in an encrypted file.

You will be prompted for:
  - Client ID and Client Secret of your RingCentral app
  - A JWT token authorized for that app
  - The server URL (press Enter for production)

The credentials are verified with a token exchange before they are
stored.`,
	Example: `  # Interactive login
  rclogs auth login

  # Step-by-step instructions for creating the app and JWT
  rclogs auth login --help-credentials`,
	Args: cobra.NoArgs,
	Run:  runAuthLogin,
}

// authLogoutCmd represents the auth logout command
var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	Long: `Remove the stored RingCentral credentials from every writable store.

Credentials provided through environment variables are not touched.`,
	Args: cobra.NoArgs,
	Run:  runAuthLogout,
}

// authStatusCmd represents the auth status command
var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credentials would be used",
	Long:  `Show the resolved credentials with secrets masked, and where they came from.`,
	Args:  cobra.NoArgs,
	Run:   runAuthStatus,
}

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)

	authLoginCmd.Flags().BoolVar(&loginShowGuide, "help-credentials", false, "show detailed instructions for obtaining credentials")
}

func runAuthLogin(cmd *cobra.Command, args []string) {
	if loginShowGuide {
		auth.ShowCredentialGuide()
		return
	}

	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)

	auth.ShowQuickGuide()
	fmt.Println()
	fmt.Print("Ready to enter your credentials? (Y/n): ")
	ready, _ := reader.ReadString('\n')
	if strings.ToLower(strings.TrimSpace(ready)) == "n" {
		fmt.Println("\nRun 'rclogs auth login' when you're ready.")
		return
	}

	if manager.Exists() {
		fmt.Print("\nStored credentials already exist. Replace them? (y/N): ")
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			return
		}
	}

	fmt.Println("\nEnter your RingCentral app credentials (secrets are hidden as you type):")
	fmt.Println()

	fmt.Print("Client ID: ")
	input, err := reader.ReadString('\n')
	if err != nil {
		ui.PrintError("Failed to read client ID", err.Error())
		os.Exit(1)
	}
	clientID := strings.TrimSpace(input)
	if clientID == "" {
		ui.PrintError("Client ID is required")
		os.Exit(1)
	}

	fmt.Print("Client Secret: ")
	clientSecret, err := readPassword()
	if err != nil {
		ui.PrintError("Failed to read client secret", err.Error())
		os.Exit(1)
	}
	if clientSecret == "" {
		ui.PrintError("Client secret is required")
		os.Exit(1)
	}

	var jwtToken string
	for {
		fmt.Print("JWT token: ")
		jwtToken, err = readPassword()
		if err != nil {
			ui.PrintError("Failed to read JWT token", err.Error())
			os.Exit(1)
		}

		// A JWT is three dot-separated base64 segments
		if strings.Count(jwtToken, ".") != 2 || len(jwtToken) < 40 {
			fmt.Println("\nThat doesn't look like a JWT.")
			fmt.Println("   It should be a long three-part token like eyJhbG...xyz.eyJhdW...abc.SflKx...123")
			fmt.Print("\nTry again? (Y/n): ")
			retry, _ := reader.ReadString('\n')
			if strings.ToLower(strings.TrimSpace(retry)) == "n" {
				os.Exit(1)
			}
			continue
		}
		break
	}

	fmt.Printf("Server URL (press Enter for %s): ", ringcentral.ProductionServer)
	input, _ = reader.ReadString('\n')
	serverURL := strings.TrimSpace(input)
	if serverURL == "" {
		serverURL = ringcentral.ProductionServer
	}

	creds := &auth.Credentials{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		JWTToken:     jwtToken,
		ServerURL:    serverURL,
		LastModified: time.Now(),
	}
	if err := creds.Validate(); err != nil {
		ui.PrintError("Invalid credentials", err.Error())
		os.Exit(1)
	}

	fmt.Println("\nVerifying credentials against the RingCentral API...")
	if err := verifyCredentials(creds); err != nil {
		ui.PrintWarning("Verification failed", err.Error())
		fmt.Print("\nStore the credentials anyway? (y/N): ")
		input, _ := reader.ReadString('\n')
		if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(input)), "y") {
			os.Exit(1)
		}
	} else {
		ui.PrintSuccess("Credentials verified")
	}

	if err := manager.Store(creds); err != nil {
		ui.PrintError("Failed to store credentials", err.Error())
		os.Exit(1)
	}

	sanitized := auth.Sanitize(creds)
	fmt.Println()
	ui.PrintSuccess("Credentials stored")
	ui.PrintInfo("Client ID", sanitized.ClientID)
	ui.PrintInfo("Client Secret", sanitized.ClientSecret)
	ui.PrintInfo("JWT token", sanitized.JWTToken)
	ui.PrintInfo("Server", sanitized.ServerURL)

	fmt.Println("\nTry it out:")
	fmt.Println("  $ rclogs fetch")
	fmt.Println("\nShow more options:")
	fmt.Println("  $ rclogs --help")
}

func runAuthLogout(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if err := manager.Delete(); err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No stored credentials to remove")
			return
		}
		ui.PrintError("Failed to remove credentials", err.Error())
		os.Exit(1)
	}
	ui.PrintSuccess("Stored credentials removed")
}

func runAuthStatus(cmd *cobra.Command, args []string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	creds, source, err := manager.Resolve()
	if err != nil {
		if errors.Is(err, auth.ErrCredentialsNotFound) {
			ui.PrintWarning("No credentials found")
			fmt.Println("\nStore credentials securely with:")
			fmt.Println("  rclogs auth login")
			return
		}
		ui.PrintError("Failed to resolve credentials", err.Error())
		os.Exit(1)
	}

	sanitized := auth.Sanitize(creds)
	ui.PrintHighlight("Resolved Credentials")
	fmt.Println()
	ui.PrintInfo("Source", source)
	ui.PrintInfo("Client ID", sanitized.ClientID)
	ui.PrintInfo("Client Secret", sanitized.ClientSecret)
	ui.PrintInfo("JWT token", sanitized.JWTToken)
	ui.PrintInfo("Server", sanitized.ServerURL)
	if !sanitized.LastModified.IsZero() {
		ui.PrintInfo("Last Modified", sanitized.LastModified.Format("2006-01-02 15:04:05"))
	}
}

// verifyCredentials performs a token exchange to prove the credentials
// work before storing them
func verifyCredentials(creds *auth.Credentials) error {
	tokens := ringcentral.NewJWTTokenSource(ringcentral.JWTConfig{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		JWT:          creds.JWTToken,
		ServerURL:    creds.ServerURL,
	}, logger.GetLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := tokens.Token(ctx)
	return err
}

// readPassword reads a secret from stdin without echoing
func readPassword() (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		password, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err == nil {
			return strings.TrimSpace(string(password)), nil
		}
	}

	// Not a terminal, read a plain line
	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

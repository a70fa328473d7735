package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/vstratful/composer/internal/update"
)

var (
	checkOnly     bool
	forceUpdate   bool
	updateTimeout time.Duration
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update composer to the latest version",
	Long: `Check for and install updates from GitHub Releases.

Examples:
  composer update               # Check and install update interactively
  composer update --check       # Only check for updates
  composer update --force       # Update without confirmation
  composer update --timeout 60s # Set network timeout`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for updates, don't install")
	updateCmd.Flags().BoolVarP(&forceUpdate, "force", "f", false, "Update without confirmation")
	updateCmd.Flags().DurationVar(&updateTimeout, "timeout", 30*time.Second, "Timeout for network operations")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	updater, err := update.New(logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
	defer cancel()

	fmt.Println("Checking for updates...")
	fmt.Printf("Current version: %s\n", version)

	release, err := updater.Check(ctx, version)
	if err != nil {
		if errors.Is(err, update.ErrDevVersion) {
			fmt.Println("\nYou are running a development build.")
			fmt.Println("Auto-update is only available for released versions.")
			fmt.Println("Install a release from: " + update.ReleasesURL())
			return nil
		}
		return fmt.Errorf("failed to check for updates: %w", err)
	}

	if release == nil {
		fmt.Println("\nYou are running the latest version.")
		return nil
	}

	fmt.Printf("Latest version:  %s\n", release.Version)

	if release.Notes != "" {
		fmt.Printf("\nRelease notes:\n")
		for _, line := range strings.Split(release.Notes, "\n") {
			fmt.Printf("  %s\n", line)
		}
	}

	if checkOnly {
		fmt.Printf("\nRun 'composer update' to install the update.\n")
		return nil
	}

	if !forceUpdate {
		fmt.Printf("\nDo you want to update? [y/N]: ")
		response, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Update cancelled.")
			return nil
		}
	}

	fmt.Printf("\nDownloading %s...\n", release.AssetName)

	// The download gets its own, longer deadline
	cancel()
	downloadCtx, downloadCancel := context.WithTimeout(cmd.Context(), updateTimeout*2)
	defer downloadCancel()

	if err := updater.Apply(downloadCtx, release); err != nil {
		// go-selfupdate doesn't export typed errors for these failures
		errMsg := err.Error()
		if strings.Contains(errMsg, "permission denied") || strings.Contains(errMsg, "access is denied") {
			fmt.Println("\nPermission denied. Try running with elevated privileges:")
			if runtime.GOOS == "windows" {
				fmt.Println("  Run as Administrator")
			} else {
				fmt.Println("  sudo composer update")
			}
			return err
		}
		if strings.Contains(errMsg, "checksum") {
			fmt.Println("\nSecurity warning: Checksum verification failed!")
			fmt.Println("The downloaded file may be corrupted or tampered with.")
			fmt.Println("Please download manually from: " + update.ReleasesURL())
			return err
		}
		return err
	}

	fmt.Printf("\nSuccessfully updated to v%s!\n", release.Version)
	return nil
}

// Package main implements tagctl, the command-line client for the tagforge
// API. It owns the machine-local response cache, so repeating a request
// never hits the server twice within the cache TTL.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tagforge/tagforge/internal/client"
	"github.com/tagforge/tagforge/internal/domain"
	"github.com/tagforge/tagforge/internal/localcache"
)

var (
	serverURL string
	method    string
	title     string
	inputFile string
	noCache   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tagctl",
		Short:         "Generate hashtags for text via the tagforge API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the tagforge server")

	root.AddCommand(newGenerateCmd())
	root.AddCommand(newCacheCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate hashtags for text read from a file or stdin",
		RunE:  runGenerate,
	}
	cmd.Flags().StringVarP(&method, "method", "m", string(domain.MethodGemini),
		fmt.Sprintf("generation method (%s, %s, %s)", domain.MethodClaude, domain.MethodGPT5, domain.MethodGemini))
	cmd.Flags().StringVarP(&title, "title", "t", "", "optional title for the text")
	cmd.Flags().StringVarP(&inputFile, "file", "f", "", "read text from this file instead of stdin")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the local response cache")
	return cmd
}

func newCacheCmd() *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local response cache",
	}
	cacheCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached generation result",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openLocalCache()
			if err != nil {
				return err
			}
			defer store.Close()
			store.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Local cache cleared.")
			return nil
		},
	})
	return cacheCmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	parsed, err := domain.ParseMethod(method)
	if err != nil {
		return err
	}

	text, err := readInput(cmd.InOrStdin())
	if err != nil {
		return err
	}

	var store *localcache.Store
	if !noCache {
		store, err = openLocalCache()
		if err != nil {
			// A broken local cache should never block generation.
			slog.Debug("local cache unavailable", "error", err)
		} else {
			defer store.Close()
		}
	}

	c := client.New(serverURL, nil, store)
	result, err := c.Generate(cmd.Context(), parsed, strings.TrimSpace(title), text)
	if err != nil {
		return err
	}

	for _, tag := range result.Hashtags {
		fmt.Fprintln(cmd.OutOrStdout(), tag)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "generated %d hashtags via %s in %dms\n",
		len(result.Hashtags), result.Method, result.DurationMs)
	return nil
}

func readInput(stdin io.Reader) (string, error) {
	var raw []byte
	var err error
	if inputFile != "" {
		raw, err = os.ReadFile(inputFile)
	} else {
		raw, err = io.ReadAll(stdin)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read input text: %w", err)
	}

	text := strings.TrimSpace(string(raw))
	if len(text) < domain.MinTextLength {
		return "", fmt.Errorf("%w: need at least %d characters", domain.ErrTextTooShort, domain.MinTextLength)
	}
	if len(text) > domain.MaxTextLength {
		return "", fmt.Errorf("%w: at most %d characters", domain.ErrTextTooLong, domain.MaxTextLength)
	}
	return text, nil
}

func openLocalCache() (*localcache.Store, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate cache directory: %w", err)
	}
	cacheDir := filepath.Join(dir, "tagforge")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return localcache.Open(filepath.Join(cacheDir, "cache.db"), nil)
}

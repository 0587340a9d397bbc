// locsync — locale tree synchronizer: diffs nested JSON locale files
// against a base locale and fills the gaps with AI translation.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"locsync/i18n"
	"locsync/langmeta"
	"locsync/localetree"
	"locsync/resolve"
	"locsync/settings"
	"locsync/syncer"
	"locsync/translate"
	"locsync/workspace"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

func logInfo(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorBlue+"[INFO]"+colorReset+" "+format+"\n", args...)
}

func logSuccess(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorGreen+"[OK]"+colorReset+" "+format+"\n", args...)
}

func logWarning(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorYellow+"[WARN]"+colorReset+" "+format+"\n", args...)
}

func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, colorRed+"[ERROR]"+colorReset+" "+format+"\n", args...)
}

// ---------------------------------------------------------------------------
// Global flag
// ---------------------------------------------------------------------------

var rootDir string

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "locsync",
		Short: "Locale synchronizer: nested JSON locale files with AI translation",
		Long: `locsync — locale synchronizer for nested JSON translation files.

Compares every target locale against a base locale, reports missing keys,
extra keys, and shape conflicts, and resolves them — interactively by
default, automatically with --auto. Missing values are filled by an AI
translation provider with a persisted cache and placeholder integrity
checking.

Commands:
  status      Show per-locale discrepancy counts (read-only)
  sync        Synchronize target locales against the base locale
  auth        Manage provider API keys

AI Providers:
  google         Google AI (Gemini) — API key required
  groq           Groq — API key required
  ollama         Ollama local server
  custom-openai  Custom OpenAI-compatible endpoint`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global persistent flag — inherited by all subcommands
	root.PersistentFlags().StringVar(&rootDir, "root", ".", "Locale root directory (one subdirectory per locale)")

	root.AddCommand(
		newStatusCmd(),
		newSyncCmd(),
		newAuthCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	// .env is optional; absence is not an error
	_ = godotenv.Load()
	i18n.Init("")

	if err := newRootCmd().Execute(); err != nil {
		logError("%v", err)
		os.Exit(1)
	}
}

// ---------------------------------------------------------------------------
// version (display version information)
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display version, commit hash, and build date.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("locsync version %s\n", version)
			fmt.Printf("  commit:    %s\n", commit)
			fmt.Printf("  built:     %s\n", date)
		},
	}

	return cmd
}

// ---------------------------------------------------------------------------
// status (read-only: per-locale discrepancy counts)
// ---------------------------------------------------------------------------

func newStatusCmd() *cobra.Command {
	var base string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-locale discrepancy counts",
		Long: `Compare every target locale against the base locale and report the
number of missing keys, extra keys, and shape conflicts per locale.
Read-only: no files are modified.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Discover(rootDir)
			if err != nil {
				return err
			}
			sf, err := workspace.LoadSyncFile(ws.Root)
			if err != nil {
				return err
			}
			if sf != nil && sf.BaseLocale != "" && !cmd.Flags().Changed("base") {
				base = sf.BaseLocale
			}
			return runStatus(ws, base)
		},
	}

	cmd.Flags().StringVar(&base, "base", "en", "Base (reference) locale")

	return cmd
}

func runStatus(ws *workspace.Workspace, base string) error {
	targets, err := ws.Targets(base, "", "")
	if err != nil {
		return err
	}

	baseMeta := langmeta.Resolve(base)
	fmt.Fprintf(os.Stderr, "\n%sLocale status%s (base: %s %s)\n", colorBlue, colorReset, baseMeta.Flag, base)
	fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

	if len(targets) == 0 {
		logInfo("No target locales found under %s", ws.Root)
		return nil
	}

	for _, locale := range targets {
		c := localeCounts(ws, base, locale)
		meta := langmeta.Resolve(locale)

		if c.clean() {
			fmt.Fprintf(os.Stderr, "  %s %-8s %-20s %sin sync%s\n",
				meta.Flag, locale, meta.Name, colorGreen, colorReset)
			continue
		}

		parts := []string{}
		if c.missingFiles > 0 {
			parts = append(parts, fmt.Sprintf("%d missing files", c.missingFiles))
		}
		if c.extraFiles > 0 {
			parts = append(parts, fmt.Sprintf("%d extra files", c.extraFiles))
		}
		if c.missingKeys > 0 {
			parts = append(parts, fmt.Sprintf("%d missing keys", c.missingKeys))
		}
		if c.extraKeys > 0 {
			parts = append(parts, fmt.Sprintf("%d extra keys", c.extraKeys))
		}
		if c.mismatches > 0 {
			parts = append(parts, fmt.Sprintf("%d shape conflicts", c.mismatches))
		}
		fmt.Fprintf(os.Stderr, "  %s %-8s %-20s %s%s%s\n",
			meta.Flag, locale, meta.Name, colorYellow, strings.Join(parts, ", "), colorReset)
	}
	fmt.Fprintln(os.Stderr)

	return nil
}

// diffCounts aggregates the discrepancies between one target locale and
// the base locale.
type diffCounts struct {
	missingFiles int
	extraFiles   int
	missingKeys  int
	extraKeys    int
	mismatches   int
}

func (c diffCounts) clean() bool {
	return c.missingFiles == 0 && c.extraFiles == 0 &&
		c.missingKeys == 0 && c.extraKeys == 0 && c.mismatches == 0
}

func localeCounts(ws *workspace.Workspace, base, locale string) diffCounts {
	var c diffCounts

	baseFiles, err := ws.ListFiles(base)
	if err != nil {
		logWarning("Listing %s: %v", base, err)
		return c
	}
	targetFiles, err := ws.ListFiles(locale)
	if err != nil {
		logWarning("Listing %s: %v", locale, err)
		return c
	}

	targetSet := map[string]bool{}
	for _, f := range targetFiles {
		targetSet[f] = true
	}
	baseSet := map[string]bool{}
	for _, f := range baseFiles {
		baseSet[f] = true
	}

	for _, f := range targetFiles {
		if !baseSet[f] {
			c.extraFiles++
		}
	}

	for _, f := range baseFiles {
		if !targetSet[f] {
			c.missingFiles++
			continue
		}
		baseTree, err := localetree.ReadTree(ws.TreePath(base, f))
		if err != nil {
			logWarning("%v", err)
		}
		targetTree, err := localetree.ReadTree(ws.TreePath(locale, f))
		if err != nil {
			logWarning("%v", err)
		}
		d := localetree.Diff(baseTree, targetTree)
		c.missingKeys += len(d.Missing)
		c.extraKeys += len(d.Extra)
		c.mismatches += len(d.Mismatches)
	}

	return c
}

// ---------------------------------------------------------------------------
// sync (compare and resolve, the main command)
// ---------------------------------------------------------------------------

type syncArgs struct {
	// Target selection
	base    string
	include string
	exclude string

	// Resolution behavior
	auto         bool
	preferRemove bool
	dryRun       bool
	verbose      bool

	// Translation
	concurrency int
	noCache     bool

	// Provider selection
	provider string
	apiKey   string
	model    string
	baseURL  string

	// Network
	timeout    time.Duration
	proxy      string
	maxRetries int
}

func newSyncCmd() *cobra.Command {
	var a syncArgs

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Synchronize target locales against the base locale",
		Long: `Synchronize every target locale against the base locale.

Missing files and keys are created by translating the base values; extra
files and keys are reported and optionally removed; shape conflicts are
aligned to the base. Each discrepancy is confirmed interactively unless
--auto is given.

Examples:
  # Interactive sync with Google AI
  locsync sync --provider google --model gemini-2.5-flash

  # Non-interactive: fill all gaps, keep extra keys
  locsync sync --auto --provider groq --model llama-3.3-70b-versatile

  # Non-interactive: remove everything not present in the base
  locsync sync --auto --prefer-remove --provider ollama --model llama3.2

  # Show what would change without touching any file
  locsync sync --auto --dry-run --provider ollama --model llama3.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ws, err := workspace.Discover(rootDir)
			if err != nil {
				return err
			}
			sf, err := workspace.LoadSyncFile(ws.Root)
			if err != nil {
				return err
			}
			mergeSyncDefaults(&a, sf, cmd.Flags().Changed)
			return runSync(ws, a)
		},
	}

	// Target selection
	cmd.Flags().StringVar(&a.base, "base", "en", "Base (reference) locale")
	cmd.Flags().StringVar(&a.include, "include", "", "Only synchronize these locales (comma-separated)")
	cmd.Flags().StringVar(&a.exclude, "exclude", "", "Skip these locales (comma-separated)")

	// Resolution behavior
	cmd.Flags().BoolVar(&a.auto, "auto", false, "Resolve discrepancies without prompting")
	cmd.Flags().BoolVar(&a.preferRemove, "prefer-remove", false, "With --auto: remove extra entries instead of adopting them")
	cmd.Flags().BoolVar(&a.dryRun, "dry-run", false, "Report what would change without writing any file")
	cmd.Flags().BoolVar(&a.verbose, "verbose", false, "Enable detailed logging")

	// Translation
	cmd.Flags().IntVar(&a.concurrency, "concurrency", translate.DefaultConcurrency, "Maximum concurrent translation requests")
	cmd.Flags().BoolVar(&a.noCache, "no-cache", false, "Disable the persisted translation cache")

	// Provider selection
	cmd.Flags().StringVar(&a.provider, "provider", "", "AI provider (required): google, groq, ollama, custom-openai")
	cmd.Flags().StringVar(&a.model, "model", "", "Model name (required)")
	cmd.Flags().StringVar(&a.apiKey, "api-key", "", "API key (or LOCSYNC_API_KEY env var)")
	cmd.Flags().StringVar(&a.baseURL, "base-url", "", "Custom API base URL")

	// Network
	cmd.Flags().DurationVar(&a.timeout, "timeout", 0, "Request timeout (0 = provider default)")
	cmd.Flags().StringVar(&a.proxy, "proxy", "", "HTTP/HTTPS proxy URL")
	cmd.Flags().IntVar(&a.maxRetries, "max-retries", 3, "Maximum retries on rate limit (429)")

	// Provider completion
	_ = cmd.RegisterFlagCompletionFunc("provider", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{
			"google\tGoogle AI (Gemini) — API key required",
			"groq\tGroq — API key required",
			"ollama\tOllama local server",
			"custom-openai\tCustom OpenAI-compatible endpoint",
		}, cobra.ShellCompDirectiveNoFileComp
	})

	// Model completion (provider-aware)
	_ = cmd.RegisterFlagCompletionFunc("model", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		p, _ := cmd.Flags().GetString("provider")
		switch p {
		case "google":
			return []string{"gemini-2.5-flash", "gemini-2.0-flash-exp", "gemini-1.5-pro"}, cobra.ShellCompDirectiveNoFileComp
		case "groq":
			return []string{"llama-3.3-70b-versatile", "mixtral-8x7b-32768"}, cobra.ShellCompDirectiveNoFileComp
		case "ollama":
			return []string{"llama3.2", "qwen2.5", "mistral", "phi3"}, cobra.ShellCompDirectiveNoFileComp
		default:
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
	})

	return cmd
}

// mergeSyncDefaults applies .locsync.yaml values for every flag the user
// did not set explicitly. Flags always win over the file.
func mergeSyncDefaults(a *syncArgs, sf *workspace.SyncFile, changed func(string) bool) {
	if sf == nil {
		return
	}
	if sf.BaseLocale != "" && !changed("base") {
		a.base = sf.BaseLocale
	}
	if sf.Include != "" && !changed("include") {
		a.include = sf.Include
	}
	if sf.Exclude != "" && !changed("exclude") {
		a.exclude = sf.Exclude
	}
	if sf.Provider != "" && !changed("provider") {
		a.provider = sf.Provider
	}
	if sf.Model != "" && !changed("model") {
		a.model = sf.Model
	}
	if sf.Concurrency > 0 && !changed("concurrency") {
		a.concurrency = sf.Concurrency
	}
	if sf.Cache != nil && !changed("no-cache") {
		a.noCache = !*sf.Cache
	}
}

// resolveAPIKey looks up the key from the flag, then the environment,
// then the stored credentials.
func resolveAPIKey(flagKey, providerID string) string {
	if flagKey != "" {
		return flagKey
	}
	if key := os.Getenv("LOCSYNC_API_KEY"); key != "" {
		return key
	}
	return settings.GetAPIKey(providerID)
}

// resolveProviderConfig validates the provider selection and builds the
// final Provider configuration from flags, environment, and stored keys.
func resolveProviderConfig(a syncArgs) (translate.Provider, error) {
	if a.provider == "" {
		return translate.Provider{}, fmt.Errorf("no provider specified; use --provider (google, groq, ollama, custom-openai)")
	}

	prov, ok := translate.DefaultProviders()[a.provider]
	if !ok {
		return translate.Provider{}, fmt.Errorf("unknown provider %q; available: google, groq, ollama, custom-openai", a.provider)
	}
	if a.model == "" {
		return translate.Provider{}, fmt.Errorf("no model specified; use --model")
	}

	prov.Model = a.model
	prov.Proxy = a.proxy
	if a.baseURL != "" {
		prov.BaseURL = a.baseURL
	}
	if a.timeout > 0 {
		prov.Timeout = a.timeout
	}
	if prov.BaseURL == "" {
		return translate.Provider{}, fmt.Errorf("provider %s requires --base-url", prov.ID)
	}

	prov.APIKey = resolveAPIKey(a.apiKey, prov.ID)
	if prov.RequiresAPIKey() && prov.APIKey == "" {
		return translate.Provider{}, fmt.Errorf("provider %s requires an API key; use --api-key, LOCSYNC_API_KEY, or 'locsync auth login --provider %s'", prov.ID, prov.ID)
	}

	return prov, nil
}

func runSync(ws *workspace.Workspace, a syncArgs) error {
	targets, err := ws.Targets(a.base, a.include, a.exclude)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		logInfo("No target locales to synchronize under %s", ws.Root)
		return nil
	}

	prov, err := resolveProviderConfig(a)
	if err != nil {
		return err
	}

	translator := translate.New(translate.Config{
		Provider:     prov,
		Concurrency:  a.concurrency,
		CacheFile:    ws.CachePath(),
		CacheEnabled: !a.noCache,
		MaxRetries:   a.maxRetries,
		Verbose:      a.verbose,
		OnLog:        logInfo,
		OnWarn:       logWarning,
	})

	var policy resolve.Policy
	if a.auto {
		policy = resolve.Auto{PreferRemove: a.preferRemove}
	} else {
		policy = resolve.NewInteractive(os.Stdin, os.Stderr)
	}

	if a.verbose {
		baseMeta := langmeta.Resolve(a.base)
		logInfo("Base locale: %s %s (%s)", baseMeta.Flag, a.base, baseMeta.Name)
		logInfo("Targets: %s", strings.Join(targets, ", "))
		logInfo("Provider: %s, model: %s", prov.Name, prov.Model)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	s := syncer.New(syncer.Config{
		Workspace:  ws,
		BaseLocale: a.base,
		Targets:    targets,
		Policy:     policy,
		Translator: translator,
		DryRun:     a.dryRun,
		Verbose:    a.verbose,
		OnLog:      logInfo,
		OnWarn:     logWarning,
	})

	stats, runErr := s.Run(ctx)

	// Persist whatever got translated, even on a failed or interrupted run
	if err := translator.FlushCache(); err != nil {
		logWarning("Saving translation cache: %v", err)
	}

	if runErr != nil {
		return runErr
	}

	printSummary(stats, a.dryRun)
	return nil
}

func printSummary(stats syncer.Stats, dryRun bool) {
	total := stats.Translated + stats.Copied + stats.Removed + stats.Aligned + stats.Skipped
	if total == 0 {
		logInfo("%s", i18n.T("Nothing to do — all locales are in sync"))
		return
	}

	if stats.Translated > 0 {
		logInfo(i18n.N("Translated %d string", "Translated %d strings", stats.Translated), stats.Translated)
	}
	if stats.Copied > 0 {
		logInfo("Copied %d non-text values", stats.Copied)
	}
	if stats.Removed > 0 {
		logInfo(i18n.N("Removed %d entry", "Removed %d entries", stats.Removed), stats.Removed)
	}
	if stats.Aligned > 0 {
		logInfo("Aligned %d shape conflicts", stats.Aligned)
	}
	if stats.Skipped > 0 {
		logInfo(i18n.N("Skipped %d discrepancy", "Skipped %d discrepancies", stats.Skipped), stats.Skipped)
	}
	if stats.FilesWritten > 0 {
		logInfo("Wrote %d files", stats.FilesWritten)
	}

	if dryRun {
		logWarning("%s", i18n.T("Dry run: no files were modified"))
	} else {
		logSuccess("%s", i18n.T("Synchronization complete"))
	}
}

// ---------------------------------------------------------------------------
// auth (API key management)
// ---------------------------------------------------------------------------

// apiKeyProviders lists the providers that can store a key.
var apiKeyProviders = []struct {
	id   string
	desc string
}{
	{translate.ProviderGoogle, "Google AI Studio (Gemini API key)"},
	{translate.ProviderGroq, "Groq Cloud"},
	{translate.ProviderCustomOpenAI, "Custom OpenAI-compatible endpoint"},
}

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage provider API keys",
		Long: `Manage API keys for AI translation providers.

API key providers:
  google        Google AI Studio (Gemini API key)
  groq          Groq Cloud (free tier available)
  custom-openai Custom OpenAI-compatible endpoint

No auth required:
  ollama        Local Ollama server

Examples:
  locsync auth login --provider google     Store Google AI API key
  locsync auth logout --provider google    Remove Google API key
  locsync auth list                        Show stored keys`,
	}

	cmd.AddCommand(
		newAuthLoginCmd(),
		newAuthLogoutCmd(),
		newAuthListCmd(),
	)

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store an API key for a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			scanner := bufio.NewScanner(os.Stdin)

			// If no provider specified, prompt user
			if provider == "" {
				fmt.Fprintln(os.Stderr)
				fmt.Fprintf(os.Stderr, "%sSelect provider:%s\n\n", colorBlue, colorReset)
				for i, p := range apiKeyProviders {
					fmt.Fprintf(os.Stderr, "  %d. %s%-13s%s %s\n", i+1, colorYellow, p.id, colorReset, p.desc)
				}
				fmt.Fprintln(os.Stderr)
				fmt.Fprintf(os.Stderr, "Enter choice (number or name): ")

				if !scanner.Scan() {
					return fmt.Errorf("no input received")
				}
				choice := strings.TrimSpace(scanner.Text())
				for i, p := range apiKeyProviders {
					if choice == fmt.Sprintf("%d", i+1) || choice == p.id {
						provider = p.id
						break
					}
				}
				if provider == "" {
					return fmt.Errorf("unknown choice %q", choice)
				}
			}

			known := false
			for _, p := range apiKeyProviders {
				if p.id == provider {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("provider %q does not use an API key", provider)
			}

			prov := translate.DefaultProviders()[provider]
			fmt.Fprintf(os.Stderr, "Enter API key for %s: ", prov.Name)
			if !scanner.Scan() {
				return fmt.Errorf("no input received")
			}
			key := strings.TrimSpace(scanner.Text())
			if key == "" {
				return fmt.Errorf("empty API key")
			}

			if err := settings.SetAPIKey(provider, key); err != nil {
				return err
			}
			logSuccess("Stored API key for %s (%s)", provider, settings.MaskKey(key))
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to authenticate (google, groq, custom-openai)")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove a stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider == "" {
				return fmt.Errorf("no provider specified; use --provider")
			}
			if err := settings.RemoveAPIKey(provider); err != nil {
				return err
			}
			logSuccess("Removed stored API key for %s", provider)
			return nil
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Provider to log out (google, groq, custom-openai)")

	return cmd
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls", "status"},
		Short:   "Show stored API keys and status",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stderr, "\n%sStored Credentials%s (%s)\n", colorBlue, colorReset, settings.FilePath())
			fmt.Fprintln(os.Stderr, strings.Repeat("─", 60))

			for _, p := range apiKeyProviders {
				key := settings.GetAPIKey(p.id)
				if key != "" {
					fmt.Fprintf(os.Stderr, "  %-14s %sconfigured%s (key: %s)\n",
						p.id, colorGreen, colorReset, settings.MaskKey(key))
				} else {
					fmt.Fprintf(os.Stderr, "  %-14s %snot configured%s\n", p.id, colorRed, colorReset)
				}
			}

			fmt.Fprintf(os.Stderr, "\n  %sEnvironment%s\n", colorYellow, colorReset)
			if envKey := os.Getenv("LOCSYNC_API_KEY"); envKey != "" {
				fmt.Fprintf(os.Stderr, "  LOCSYNC_API_KEY: %s%s%s (overrides stored keys)\n",
					colorGreen, settings.MaskKey(envKey), colorReset)
			} else {
				fmt.Fprintf(os.Stderr, "  LOCSYNC_API_KEY: %snot set%s\n", colorRed, colorReset)
			}
			fmt.Fprintln(os.Stderr)
		},
	}
}

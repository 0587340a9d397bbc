package translate

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"locsync/cachefile"
	"locsync/langmeta"
)

// DefaultConcurrency is the default bound on in-flight provider calls.
const DefaultConcurrency = 3

// SystemPrompt is the fixed instruction sent with every translation request.
// {{sourceLang}} and {{targetLang}} are replaced with English language names.
const SystemPrompt = `You are a professional translator for software localization. Translate the text you receive from {{sourceLang}} to {{targetLang}}.

CRITICAL rules:
1. Return ONLY the translated text — no explanations, no notes, no surrounding quotes.
2. Placeholders in curly braces like {name}, {count}, {0} must appear in the output EXACTLY as written. Never translate, rename, or drop them.
3. Preserve punctuation, capitalization style, and any HTML tags or escape sequences.
4. If the text cannot be translated meaningfully, return it unchanged.`

// placeholderPattern matches a maximal {...} run with no nested braces.
var placeholderPattern = regexp.MustCompile(`\{[^{}]*\}`)

// markdownCodeBlock strips code fences some models wrap their output in.
var markdownCodeBlock = regexp.MustCompile("(?s)^```(?:[a-z]*)?\\s*(.*?)\\s*```$")

// Config controls a Translator.
type Config struct {
	// Provider is the AI provider configuration.
	Provider Provider
	// Concurrency bounds in-flight provider calls. Minimum 1; zero or
	// negative selects DefaultConcurrency.
	Concurrency int
	// CacheFile is the persisted cache location (ignored when caching is
	// disabled).
	CacheFile string
	// CacheEnabled controls loading and flushing of the on-disk cache.
	// The in-memory cache always runs so a run never pays twice for the
	// same text.
	CacheEnabled bool
	// MaxRetries is the retry budget for rate-limited requests. Default: 3.
	MaxRetries int
	// Verbose enables request-level debug logging.
	Verbose bool
	// OnLog emits informational messages.
	OnLog func(format string, args ...any)
	// OnWarn emits warnings (placeholder loss, unreadable cache).
	OnWarn func(format string, args ...any)
}

// Translator wraps provider calls with caching, a FIFO concurrency bound,
// and placeholder integrity checking. One Translator serves a whole run
// and is safe for concurrent use.
type Translator struct {
	cfg   Config
	sem   *semaphore.Weighted
	rl    *rateLimitState
	cache *cachefile.Store

	flushMu sync.Mutex
	flushed bool

	// call is the provider transport; tests replace it.
	call func(ctx context.Context, prov Provider, systemPrompt, userPrompt string, rl *rateLimitState, maxRetries int, verbose bool) (string, error)
}

// New builds a Translator, loading the persisted cache when enabled. An
// unreadable cache file is reported and treated as empty rather than
// aborting the run.
func New(cfg Config) *Translator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConcurrency
	}

	cache := cachefile.New(cfg.CacheFile)
	if cfg.CacheEnabled {
		loaded, err := cachefile.Load(cfg.CacheFile)
		if err != nil {
			warnf(cfg, "translation cache unusable, starting empty: %v", err)
		} else {
			cache = loaded
		}
	}

	return &Translator{
		cfg:   cfg,
		sem:   semaphore.NewWeighted(int64(cfg.Concurrency)),
		rl:    &rateLimitState{},
		cache: cache,
		call:  callProvider,
	}
}

func warnf(cfg Config, format string, args ...any) {
	if cfg.OnWarn != nil {
		cfg.OnWarn(format, args...)
	} else if cfg.OnLog != nil {
		cfg.OnLog(format, args...)
	}
}

func (t *Translator) maxRetries() int {
	if t.cfg.MaxRetries > 0 {
		return t.cfg.MaxRetries
	}
	return 3
}

// Translate returns the translation of text from one locale to another.
//
// Cached results return immediately without consuming a concurrency slot.
// Otherwise one slot is acquired (FIFO, blocking when Concurrency calls are
// already in flight), the provider is called, and the slot is released on
// every exit path. If the response drops any {placeholder} present in the
// source, the source text itself is cached and returned with a warning —
// placeholder loss is degraded output, never an error. Provider failures
// propagate to the caller.
func (t *Translator) Translate(ctx context.Context, text, fromLocale, toLocale string) (string, error) {
	key := cachefile.Key(fromLocale, toLocale, text)
	if cached, ok := t.cache.Get(key); ok {
		return cached, nil
	}

	placeholders := placeholderTokens(text)

	if err := t.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	raw, err := func() (string, error) {
		defer t.sem.Release(1)
		return t.call(ctx, t.cfg.Provider, t.systemPrompt(fromLocale, toLocale), text, t.rl, t.maxRetries(), t.cfg.Verbose)
	}()
	if err != nil {
		return "", err
	}

	translated := sanitizeResponse(raw)
	if lost := missingPlaceholders(placeholders, translated); len(lost) > 0 {
		warnf(t.cfg, "%s→%s translation lost placeholder(s) %s, keeping source text: %q",
			fromLocale, toLocale, strings.Join(lost, " "), text)
		t.cache.Set(key, text)
		return text, nil
	}

	t.cache.Set(key, translated)
	return translated, nil
}

func (t *Translator) systemPrompt(fromLocale, toLocale string) string {
	p := strings.ReplaceAll(SystemPrompt, "{{sourceLang}}", langmeta.Name(fromLocale))
	return strings.ReplaceAll(p, "{{targetLang}}", langmeta.Name(toLocale))
}

// FlushCache writes the cache to disk. Called once after all translations
// complete; later calls are no-ops, as is the whole method when caching is
// disabled.
func (t *Translator) FlushCache() error {
	if !t.cfg.CacheEnabled {
		return nil
	}

	t.flushMu.Lock()
	defer t.flushMu.Unlock()
	if t.flushed {
		return nil
	}
	t.flushed = true

	return t.cache.Save()
}

// CacheLen returns the number of cached translations.
func (t *Translator) CacheLen() int {
	return t.cache.Len()
}

// placeholderTokens extracts the set of {placeholder} tokens from text, in
// first-appearance order with duplicates collapsed.
func placeholderTokens(text string) []string {
	var tokens []string
	seen := make(map[string]bool)
	for _, tok := range placeholderPattern.FindAllString(text, -1) {
		if !seen[tok] {
			seen[tok] = true
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// missingPlaceholders returns the tokens not present in the translation.
func missingPlaceholders(tokens []string, translated string) []string {
	var lost []string
	for _, tok := range tokens {
		if !strings.Contains(translated, tok) {
			lost = append(lost, tok)
		}
	}
	return lost
}

// sanitizeResponse trims whitespace and unwraps a markdown code fence if
// the model added one around the translation.
func sanitizeResponse(s string) string {
	s = strings.TrimSpace(s)
	if m := markdownCodeBlock.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	return s
}

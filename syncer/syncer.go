// Package syncer drives locale synchronization end to end: per target
// locale it classifies file-level and key-level discrepancies against the
// base locale, asks the resolution policy what to do with each one, fills
// gaps through the translator, and commits the mutated trees.
package syncer

import (
	"context"
	"fmt"
	"os"

	"locsync/localetree"
	"locsync/resolve"
	"locsync/workspace"
)

// Translator fills translation gaps. Satisfied by *translate.Translator;
// tests substitute a stub.
type Translator interface {
	Translate(ctx context.Context, text, fromLocale, toLocale string) (string, error)
}

// Config controls one sync run.
type Config struct {
	// Workspace is the discovered locale root.
	Workspace *workspace.Workspace
	// BaseLocale is the reference locale.
	BaseLocale string
	// Targets are the locales to synchronize, in order.
	Targets []string
	// Policy decides every discrepancy.
	Policy resolve.Policy
	// Translator fills gaps. Only string leaves are ever sent to it;
	// other leaf kinds are copied verbatim.
	Translator Translator
	// DryRun reports what would change without touching the filesystem.
	// Translation calls still happen so the report shows real values.
	DryRun bool
	// Verbose enables per-file progress logging.
	Verbose bool
	// OnLog emits informational messages.
	OnLog func(format string, args ...any)
	// OnWarn emits warnings (file-set differences, unreadable files).
	OnWarn func(format string, args ...any)
}

// Stats summarizes what a run did (or, under dry-run, would have done).
type Stats struct {
	// Translated counts leaves filled through the translator.
	Translated int
	// Copied counts non-string leaves carried over verbatim.
	Copied int
	// Removed counts deleted keys and files.
	Removed int
	// Aligned counts shape mismatches resolved by overwriting.
	Aligned int
	// Skipped counts discrepancies left untouched.
	Skipped int
	// FilesWritten counts committed (or dry-run suppressed) tree writes.
	FilesWritten int
}

// Syncer synchronizes target locales against the base locale. It runs
// strictly sequentially across locales, files, and discrepancies; the only
// concurrency lives inside the translator.
type Syncer struct {
	cfg   Config
	stats Stats
}

// New builds a Syncer.
func New(cfg Config) *Syncer {
	return &Syncer{cfg: cfg}
}

// Run synchronizes every target locale. It stops at the first hard error
// (translation call failure, filesystem write failure); files committed in
// earlier iterations stay committed — there is no global transaction.
func (s *Syncer) Run(ctx context.Context) (Stats, error) {
	for _, locale := range s.cfg.Targets {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		s.logf("Synchronizing %s against %s", locale, s.cfg.BaseLocale)
		if err := s.syncLocale(ctx, locale); err != nil {
			return s.stats, fmt.Errorf("locale %s: %w", locale, err)
		}
	}
	return s.stats, nil
}

func (s *Syncer) syncLocale(ctx context.Context, locale string) error {
	base := s.cfg.BaseLocale
	ws := s.cfg.Workspace

	baseFiles, err := ws.ListFiles(base)
	if err != nil {
		return err
	}
	targetFiles, err := ws.ListFiles(locale)
	if err != nil {
		return err
	}

	missing, extra, common := splitFileSets(baseFiles, targetFiles)
	if len(missing) > 0 || len(extra) > 0 {
		s.warnf("%s and %s have different file sets (missing in %s: %d, extra: %d)",
			base, locale, locale, len(missing), len(extra))
	}

	for _, file := range missing {
		if err := s.resolveMissingFile(ctx, locale, file); err != nil {
			return err
		}
	}
	for _, file := range extra {
		if err := s.resolveExtraFile(ctx, locale, file); err != nil {
			return err
		}
	}
	for _, file := range common {
		if err := s.syncCommonFile(ctx, locale, file); err != nil {
			return err
		}
	}
	return nil
}

// resolveMissingFile handles a file present under base but absent under the
// target locale: create it by whole-file translation, remove it from base
// instead, or skip.
func (s *Syncer) resolveMissingFile(ctx context.Context, locale, file string) error {
	base := s.cfg.BaseLocale

	q := fmt.Sprintf("%s/%s is missing. Create it by translating %s/%s?", locale, file, base, file)
	if s.cfg.Policy.ConfirmTranslate(q) {
		baseTree := s.readTree(base, file)
		translated, err := s.translateTree(ctx, baseTree, base, locale)
		if err != nil {
			return err
		}
		return s.writeTree(locale, file, translated)
	}

	if s.cfg.Policy.ConfirmRemove(fmt.Sprintf("Remove %s/%s from the base locale instead?", base, file)) {
		return s.removeFile(base, file)
	}

	s.stats.Skipped++
	return nil
}

// resolveExtraFile handles a file present under the target locale but
// absent under base: adopt it into base by translating, remove it from the
// target, or keep it as is.
func (s *Syncer) resolveExtraFile(ctx context.Context, locale, file string) error {
	base := s.cfg.BaseLocale

	q := fmt.Sprintf("%s/%s exists only in %s. Add it to %s by translating?", locale, file, locale, base)
	if s.cfg.Policy.ConfirmTranslate(q) {
		targetTree := s.readTree(locale, file)
		translated, err := s.translateTree(ctx, targetTree, locale, base)
		if err != nil {
			return err
		}
		return s.writeTree(base, file, translated)
	}

	if s.cfg.Policy.ConfirmRemove(fmt.Sprintf("Remove %s/%s instead?", locale, file)) {
		return s.removeFile(locale, file)
	}

	s.stats.Skipped++
	return nil
}

// syncCommonFile diffs a file present in both locales and resolves every
// key-level discrepancy, then persists both trees if anything could have
// changed.
func (s *Syncer) syncCommonFile(ctx context.Context, locale, file string) error {
	base := s.cfg.BaseLocale

	baseTree := s.readTree(base, file)
	targetTree := s.readTree(locale, file)

	diff := localetree.Diff(baseTree, targetTree)
	if diff.Empty() {
		if s.cfg.Verbose {
			s.logf("%s/%s is in sync", locale, file)
		}
		return nil
	}

	for _, path := range diff.Missing {
		if err := s.resolveMissingKey(ctx, locale, file, path, baseTree, targetTree); err != nil {
			return err
		}
	}
	for _, path := range diff.Extra {
		if err := s.resolveExtraKey(ctx, locale, file, path, baseTree, targetTree); err != nil {
			return err
		}
	}
	for _, m := range diff.Mismatches {
		if err := s.resolveMismatch(ctx, locale, file, m, baseTree, targetTree); err != nil {
			return err
		}
	}

	if err := s.writeTree(base, file, baseTree); err != nil {
		return err
	}
	return s.writeTree(locale, file, targetTree)
}

func (s *Syncer) resolveMissingKey(ctx context.Context, locale, file, path string, baseTree, targetTree localetree.Tree) error {
	base := s.cfg.BaseLocale

	q := fmt.Sprintf("%s/%s: key %q is missing. Translate and add it?", locale, file, path)
	if s.cfg.Policy.ConfirmTranslate(q) {
		value, _ := localetree.GetAtPath(baseTree, path)
		out, err := s.translateLeaf(ctx, value, base, locale)
		if err != nil {
			return err
		}
		localetree.SetAtPath(targetTree, path, out)
		return nil
	}

	if s.cfg.Policy.ConfirmRemove(fmt.Sprintf("Remove %q from %s/%s instead?", path, base, file)) {
		localetree.DeleteAtPath(baseTree, path)
		s.stats.Removed++
		return nil
	}

	s.stats.Skipped++
	return nil
}

func (s *Syncer) resolveExtraKey(ctx context.Context, locale, file, path string, baseTree, targetTree localetree.Tree) error {
	base := s.cfg.BaseLocale

	q := fmt.Sprintf("%s/%s: key %q exists only here. Translate and add it to %s?", locale, file, path, base)
	if s.cfg.Policy.ConfirmTranslate(q) {
		value, _ := localetree.GetAtPath(targetTree, path)
		out, err := s.translateLeaf(ctx, value, locale, base)
		if err != nil {
			return err
		}
		localetree.SetAtPath(baseTree, path, out)
		return nil
	}

	if s.cfg.Policy.ConfirmRemove(fmt.Sprintf("Remove %q from %s/%s?", path, locale, file)) {
		localetree.DeleteAtPath(targetTree, path)
		s.stats.Removed++
		return nil
	}

	s.stats.Skipped++
	return nil
}

func (s *Syncer) resolveMismatch(ctx context.Context, locale, file string, m localetree.ShapeMismatch, baseTree, targetTree localetree.Tree) error {
	base := s.cfg.BaseLocale

	q := fmt.Sprintf("%s/%s: %q is %s in %s but %s here. Overwrite it to match %s?",
		locale, file, m.Path, m.Base, base, m.Target, base)
	if s.cfg.Policy.ConfirmAlignToBase(q) {
		value, _ := localetree.GetAtPath(baseTree, m.Path)
		out, err := s.translateLeaf(ctx, value, base, locale)
		if err != nil {
			return err
		}
		localetree.SetAtPath(targetTree, m.Path, out)
		s.stats.Aligned++
		return nil
	}

	if s.cfg.Policy.ConfirmAlignToTarget(fmt.Sprintf("Overwrite %q in %s/%s from %s instead?", m.Path, base, file, locale)) {
		value, _ := localetree.GetAtPath(targetTree, m.Path)
		out, err := s.translateLeaf(ctx, value, locale, base)
		if err != nil {
			return err
		}
		localetree.SetAtPath(baseTree, m.Path, out)
		s.stats.Aligned++
		return nil
	}

	s.stats.Skipped++
	return nil
}

// translateTree rebuilds a whole tree in another locale: string leaves go
// through the translator, everything else is copied verbatim, and the
// result has the identical key structure.
func (s *Syncer) translateTree(ctx context.Context, src localetree.Tree, fromLocale, toLocale string) (localetree.Tree, error) {
	out := localetree.Tree{}
	for _, entry := range localetree.Flatten(src) {
		value, err := s.translateLeaf(ctx, entry.Value, fromLocale, toLocale)
		if err != nil {
			return nil, err
		}
		localetree.SetAtPath(out, entry.Path, value)
	}
	return out, nil
}

// translateLeaf sends string leaves to the translator and passes every
// other leaf kind through unchanged.
func (s *Syncer) translateLeaf(ctx context.Context, value any, fromLocale, toLocale string) (any, error) {
	text, ok := value.(string)
	if !ok {
		s.stats.Copied++
		return value, nil
	}

	translated, err := s.cfg.Translator.Translate(ctx, text, fromLocale, toLocale)
	if err != nil {
		return nil, fmt.Errorf("translating %q (%s→%s): %w", text, fromLocale, toLocale, err)
	}
	s.stats.Translated++
	return translated, nil
}

// readTree loads a locale tree, downgrading read/parse failures to a
// warning plus an empty tree so a lone corrupt file cannot abort the run.
func (s *Syncer) readTree(locale, file string) localetree.Tree {
	tree, err := localetree.ReadTree(s.cfg.Workspace.TreePath(locale, file))
	if err != nil {
		s.warnf("treating %s/%s as empty: %v", locale, file, err)
	}
	return tree
}

func (s *Syncer) writeTree(locale, file string, tree localetree.Tree) error {
	path := s.cfg.Workspace.TreePath(locale, file)
	if s.cfg.DryRun {
		s.logf("[dry-run] would write %s", path)
		s.stats.FilesWritten++
		return nil
	}
	if err := localetree.WriteTree(path, tree); err != nil {
		return err
	}
	s.stats.FilesWritten++
	if s.cfg.Verbose {
		s.logf("wrote %s", path)
	}
	return nil
}

func (s *Syncer) removeFile(locale, file string) error {
	path := s.cfg.Workspace.TreePath(locale, file)
	s.stats.Removed++
	if s.cfg.DryRun {
		s.logf("[dry-run] would remove %s", path)
		return nil
	}
	return os.Remove(path)
}

func (s *Syncer) logf(format string, args ...any) {
	if s.cfg.OnLog != nil {
		s.cfg.OnLog(format, args...)
	}
}

func (s *Syncer) warnf(format string, args ...any) {
	if s.cfg.OnWarn != nil {
		s.cfg.OnWarn(format, args...)
	} else if s.cfg.OnLog != nil {
		s.cfg.OnLog(format, args...)
	}
}

// splitFileSets partitions two sorted basename lists into base-only,
// target-only, and common.
func splitFileSets(baseFiles, targetFiles []string) (missing, extra, common []string) {
	inTarget := make(map[string]bool, len(targetFiles))
	for _, f := range targetFiles {
		inTarget[f] = true
	}
	inBase := make(map[string]bool, len(baseFiles))
	for _, f := range baseFiles {
		inBase[f] = true
	}

	for _, f := range baseFiles {
		if inTarget[f] {
			common = append(common, f)
		} else {
			missing = append(missing, f)
		}
	}
	for _, f := range targetFiles {
		if !inBase[f] {
			extra = append(extra, f)
		}
	}
	return missing, extra, common
}

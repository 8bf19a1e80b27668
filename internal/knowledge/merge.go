package knowledge

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

// MergeResult summarizes one merge run.
type MergeResult struct {
	BaseFAQs   int    `json:"base_faqs"`
	NewFAQs    int    `json:"new_faqs"`
	Added      int    `json:"added"`
	Updated    int    `json:"updated"`
	Skipped    int    `json:"skipped"`
	TotalFAQs  int    `json:"total_faqs"`
	BackupPath string `json:"backup_path,omitempty"`
}

// Merger combines two knowledge source files by entry id. On conflicting
// ids the new file's content wins; identical entries count as skipped.
type Merger struct {
	logger *slog.Logger
	now    func() time.Time
}

// MergerOption configures a Merger.
type MergerOption func(*Merger)

// WithMergeClock overrides the time source. Used by tests.
func WithMergeClock(now func() time.Time) MergerOption {
	return func(m *Merger) { m.now = now }
}

// NewMerger creates a Merger. logger may be nil.
func NewMerger(logger *slog.Logger, opts ...MergerOption) *Merger {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Merger{logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge validates both files, merges newFile into baseFile, and writes
// the combined collection to outputFile. An advisory file lock on the
// output prevents two merge invocations from interleaving writes. With
// createBackup a timestamped copy of the base file is made first.
func (m *Merger) Merge(baseFile, newFile, outputFile string, createBackup bool) (*MergeResult, error) {
	if outputFile == "" {
		outputFile = baseFile
	}

	if report := ValidateFile(baseFile); !report.Valid() {
		return nil, fmt.Errorf("%w: base file %s: %s", ErrInvalidFile, baseFile, strings.Join(report.Errors, "; "))
	}
	if report := ValidateFile(newFile); !report.Valid() {
		return nil, fmt.Errorf("%w: new file %s: %s", ErrInvalidFile, newFile, strings.Join(report.Errors, "; "))
	}

	base, err := LoadFile(baseFile)
	if err != nil {
		return nil, err
	}
	fresh, err := LoadFile(newFile)
	if err != nil {
		return nil, err
	}

	result := &MergeResult{BaseFAQs: len(base.FAQs), NewFAQs: len(fresh.FAQs)}

	if createBackup {
		backupPath, backupErr := m.backup(baseFile)
		if backupErr != nil {
			return nil, backupErr
		}
		result.BackupPath = backupPath
	}

	merged := m.mergeFAQs(base.FAQs, fresh.FAQs, result)
	result.TotalFAQs = len(merged)

	out := &File{
		Metadata: FileMetadata{
			Version:     base.Metadata.Version,
			Language:    base.Metadata.Language,
			LastUpdated: m.now().Format("2006-01-02"),
			TotalFAQs:   len(merged),
		},
		FAQs: merged,
	}

	if err := m.writeLocked(outputFile, out); err != nil {
		return nil, err
	}

	if report := ValidateFile(outputFile); !report.Valid() {
		return nil, fmt.Errorf("%w: merged output %s: %s", ErrInvalidFile, outputFile, strings.Join(report.Errors, "; "))
	}

	m.logger.Info("merge complete",
		"output", outputFile,
		"added", result.Added,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"total", result.TotalFAQs)

	return result, nil
}

// mergeFAQs preserves base order, replacing conflicting entries in place
// and appending new ids at the end.
func (m *Merger) mergeFAQs(base, fresh []FAQ, result *MergeResult) []FAQ {
	merged := make([]FAQ, len(base))
	copy(merged, base)

	position := make(map[string]int, len(base))
	for i, faq := range base {
		position[faq.ID] = i
	}

	for _, faq := range fresh {
		idx, exists := position[faq.ID]
		switch {
		case !exists:
			position[faq.ID] = len(merged)
			merged = append(merged, faq)
			result.Added++
		case merged[idx].Equal(faq):
			result.Skipped++
		default:
			merged[idx] = faq
			result.Updated++
		}
	}

	return merged
}

// backup copies the base file next to itself with a timestamp suffix.
func (m *Merger) backup(baseFile string) (string, error) {
	data, err := os.ReadFile(baseFile)
	if err != nil {
		return "", fmt.Errorf("reading base file for backup: %w", err)
	}

	ext := filepath.Ext(baseFile)
	stem := strings.TrimSuffix(baseFile, ext)
	backupPath := fmt.Sprintf("%s_backup_%s%s", stem, m.now().Format("20060102_150405"), ext)

	if err := os.WriteFile(backupPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing backup: %w", err)
	}

	m.logger.Info("created backup", "path", backupPath)
	return backupPath, nil
}

// writeLocked writes the merged file while holding an advisory lock so
// concurrent merges targeting the same output serialize.
func (m *Merger) writeLocked(outputFile string, file *File) error {
	lock := flock.New(outputFile + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking output file: %w", err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			m.logger.Warn("releasing output lock", "error", unlockErr)
		}
	}()

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding merged file: %w", err)
	}

	if err := os.WriteFile(outputFile, data, 0644); err != nil {
		return fmt.Errorf("writing merged file: %w", err)
	}

	return nil
}

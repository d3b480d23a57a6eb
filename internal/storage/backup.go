package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// DefaultMaxBackups is the number of backups kept when the config does not
// say otherwise.
const DefaultMaxBackups = 10

// BackupDir is the subdirectory for backups next to the database file.
const BackupDir = "backups"

// BackupInfo describes a backup file on disk.
type BackupInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

func (kv *KV) backupDir() string {
	return filepath.Join(filepath.Dir(kv.path), BackupDir)
}

// Backup creates a consistent snapshot of the database via VACUUM INTO and
// prunes old backups down to keep files. Returns the backup file path.
func (kv *KV) Backup(keep int) (string, error) {
	backupDir := kv.backupDir()
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Timestamped filename with a random suffix to avoid collisions.
	timestamp := time.Now().Format("2006-01-02T15-04-05.000")
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	backupFile := filepath.Join(backupDir,
		fmt.Sprintf("tdl-%s-%s.db", timestamp, hex.EncodeToString(randomBytes)))

	if _, err := kv.Exec(fmt.Sprintf("VACUUM INTO '%s'", backupFile)); err != nil {
		return "", fmt.Errorf("failed to create backup: %w", err)
	}

	if keep <= 0 {
		keep = DefaultMaxBackups
	}
	if err := pruneBackups(backupDir, keep); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to prune old backups: %v\n", err)
	}

	return backupFile, nil
}

// ListBackups returns the available backup files for this store, newest first.
func (kv *KV) ListBackups() ([]BackupInfo, error) {
	entries, err := os.ReadDir(kv.backupDir())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "tdl-") || !strings.HasSuffix(name, ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, BackupInfo{
			Path:    filepath.Join(kv.backupDir(), name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].ModTime.After(backups[j].ModTime)
	})
	return backups, nil
}

// pruneBackups removes old backups, keeping only the newest 'keep' files.
func pruneBackups(backupDir string, keep int) error {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return err
	}

	type candidate struct {
		name    string
		modTime time.Time
	}
	var files []candidate
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, "tdl-") || !strings.HasSuffix(name, ".db") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, candidate{name: name, modTime: info.ModTime()})
	}

	if len(files) <= keep {
		return nil
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].modTime.After(files[j].modTime)
	})
	for _, f := range files[keep:] {
		if err := os.Remove(filepath.Join(backupDir, f.name)); err != nil {
			return err
		}
	}
	return nil
}

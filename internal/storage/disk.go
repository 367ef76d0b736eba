package storage

import (
	"os"
)

// DatabaseFiles lists the files SQLite keeps for dbPath in WAL mode.
func DatabaseFiles(dbPath string) []string {
	if dbPath == "" {
		return nil
	}
	return []string{dbPath, dbPath + "-wal", dbPath + "-shm"}
}

// DatabaseSize returns the bytes used on disk by the database at dbPath,
// including its WAL and shared-memory files. Missing files count as zero.
func DatabaseSize(dbPath string) (int64, error) {
	var total int64
	for _, p := range DatabaseFiles(dbPath) {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, err
		}
		total += info.Size()
	}
	return total, nil
}

package engine

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/nxadm/tail"
	"go.uber.org/zap"
)

// DefaultCheckpointFile is where watch mode persists read offsets between
// runs when the configuration does not name another location.
const DefaultCheckpointFile = "/var/lib/mgenviz/offsets.json"

// Checkpoint persists per-file read offsets so watch mode can resume
// where it left off instead of re-reading a log from the start.
type Checkpoint struct {
	logger  *zap.SugaredLogger
	mu      sync.Mutex
	offsets map[string]int64
	file    string
}

// NewCheckpoint creates a checkpoint store backed by the given file.
// An empty path falls back to DefaultCheckpointFile.
func NewCheckpoint(file string, logger *zap.SugaredLogger) *Checkpoint {
	if file == "" {
		file = DefaultCheckpointFile
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Checkpoint{
		logger:  logger,
		offsets: make(map[string]int64),
		file:    file,
	}
}

// Load reads offsets from disk. A missing file is not an error.
func (c *Checkpoint) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.file)
	if err != nil {
		if !os.IsNotExist(err) {
			c.logger.Warnf("Failed to load checkpoints: %v", err)
		}
		return
	}
	if err := json.Unmarshal(data, &c.offsets); err != nil {
		c.logger.Warnf("Failed to parse checkpoints: %v", err)
	}
}

// Save writes offsets to disk, creating the parent directory if needed.
func (c *Checkpoint) Save() {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.MarshalIndent(c.offsets, "", "  ")
	if err != nil {
		c.logger.Warnf("Failed to marshal checkpoints: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.file), 0755); err != nil {
		c.logger.Warnf("Failed to create checkpoint directory: %v", err)
		return
	}
	if err := os.WriteFile(c.file, data, 0644); err != nil {
		c.logger.Warnf("Failed to save checkpoints: %v", err)
	}
}

// UpdateOffset records the current read offset for a file.
func (c *Checkpoint) UpdateOffset(file string, offset int64) {
	c.mu.Lock()
	c.offsets[file] = offset
	c.mu.Unlock()
}

// Offset returns the saved offset for a file, if any.
func (c *Checkpoint) Offset(file string) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	off, ok := c.offsets[file]
	return off, ok
}

// SeekInfo returns the tail start position for a file under the given
// policy: "start" reads from the beginning, "end" from the current tail,
// and "offset" resumes from the saved offset, falling back to the start
// when the file shrank underneath it (log rotation).
func (c *Checkpoint) SeekInfo(file string, mode string) *tail.SeekInfo {
	savedOffset, ok := c.Offset(file)

	switch mode {
	case "start":
		return &tail.SeekInfo{Offset: 0, Whence: 0}
	case "offset":
		if ok {
			info, err := os.Stat(file)
			if err == nil {
				if info.Size() < savedOffset {
					c.logger.Infof("Log rotation detected for %s (size %d < offset %d), resetting to start", file, info.Size(), savedOffset)
					return &tail.SeekInfo{Offset: 0, Whence: 0}
				}
				return &tail.SeekInfo{Offset: savedOffset, Whence: 0}
			}
		}
		return &tail.SeekInfo{Offset: 0, Whence: 0}
	default:
		return &tail.SeekInfo{Offset: 0, Whence: 2}
	}
}

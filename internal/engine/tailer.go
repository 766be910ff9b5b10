package engine

import (
	"context"
	"time"

	"github.com/nxadm/tail"
	"go.uber.org/zap"

	"github.com/mgenviz/mgenviz/pkg/errors"
)

// Tailer follows a growing mgen log and keeps the JSON graph snapshot
// current. It feeds each new line through the same per-line pipeline as a
// one-shot conversion and rewrites the output on a flush interval, so a
// visualization can poll the file during a running simulation.
type Tailer struct {
	converter  *Converter
	checkpoint *Checkpoint
	logger     *zap.SugaredLogger
}

// NewTailer creates a Tailer around an existing Converter.
func NewTailer(converter *Converter, checkpoint *Checkpoint, logger *zap.SugaredLogger) *Tailer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Tailer{converter: converter, checkpoint: checkpoint, logger: logger}
}

// Follow tails inputPath until ctx is canceled, rewriting outputPath
// whenever new records arrived within the flush interval. position is the
// checkpoint policy ("start", "end", "offset"). A final snapshot and
// checkpoint save happen on shutdown.
func (t *Tailer) Follow(ctx context.Context, inputPath, outputPath string, flushEvery time.Duration, position string) error {
	if outputPath == "" {
		outputPath = DeriveOutputPath(inputPath)
	}
	t.checkpoint.Load()

	tf, err := tail.TailFile(inputPath, tail.Config{
		Location:  t.checkpoint.SeekInfo(inputPath, position),
		Follow:    true,
		ReOpen:    true, // Handle log rotation
		MustExist: false,
		Poll:      true, // Fallback if inotify fails
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return errors.NewInputError(inputPath, err)
	}

	t.logger.Infof("Following %s (position=%s, flush every %s)", inputPath, position, flushEvery)

	ticker := time.NewTicker(flushEvery)
	defer ticker.Stop()

	dirty := false
	for {
		select {
		case <-ctx.Done():
			tf.Stop()
			return t.finalize(outputPath)
		case line, ok := <-tf.Lines:
			if !ok {
				return t.finalize(outputPath)
			}
			if line.Err != nil {
				t.logger.Warnf("Error reading %s: %v", inputPath, line.Err)
				continue
			}
			t.converter.ProcessLine(line.Text)
			if pos, err := tf.Tell(); err == nil {
				t.checkpoint.UpdateOffset(inputPath, pos)
			}
			dirty = true
		case <-ticker.C:
			if !dirty {
				continue
			}
			if err := t.converter.Flush(outputPath); err != nil {
				return err
			}
			t.checkpoint.Save()
			dirty = false
		}
	}
}

// finalize writes the last snapshot and persists the checkpoint.
func (t *Tailer) finalize(outputPath string) error {
	t.checkpoint.Save()
	if err := t.converter.Flush(outputPath); err != nil {
		return err
	}
	nodes, edges := t.converter.GraphSize()
	t.logger.Infof("Stopped: wrote %s with %d nodes, %d edges (%s)",
		outputPath, nodes, edges, t.converter.Stats().Summary())
	return nil
}

package commands

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mgenviz/mgenviz/internal/config"
	"github.com/mgenviz/mgenviz/internal/engine"
	"github.com/mgenviz/mgenviz/internal/metrics"
	"github.com/mgenviz/mgenviz/internal/utils/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <mgen-log>",
	Short: "Follow a growing mgen log and keep the graph JSON current",
	Long: `Watch tails an mgen log while a simulation is still writing it,
accumulating RECV records as they appear and rewriting the JSON snapshot
atomically on the flush interval. Read offsets are checkpointed so an
interrupted watch can resume with --position=offset instead of re-reading
the whole log. Stop with Ctrl-C; a final snapshot is written on shutdown.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get(cmd.Context())

		filter := watchFilterFlag
		if filter == "" {
			filter = cfg.Engine.Filter
		}
		position := positionFlag
		if position == "" {
			position = cfg.Engine.TailPosition
		}
		if err := config.ValidatePosition(position); err != nil {
			return err
		}
		flushEvery := flushFlag
		if flushEvery == 0 {
			d, err := cfg.ParseFlushInterval()
			if err != nil {
				return err
			}
			flushEvery = d
		}

		converter, err := engine.NewConverter(engine.Options{
			Filter: filter,
			Logger: log,
		})
		if err != nil {
			return err
		}

		checkpoint := engine.NewCheckpoint(cfg.Engine.CheckpointPath, log)
		tailer := engine.NewTailer(converter, checkpoint, log)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if cfg.Metrics.Enabled {
			srv := metrics.Serve(cfg.Metrics.Listen)
			defer metrics.Shutdown(srv)
			log.Infof("Serving metrics on %s/metrics", cfg.Metrics.Listen)

			go func() {
				ticker := time.NewTicker(flushEvery)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						nodes, edges := converter.GraphSize()
						metrics.Observe(converter.Stats(), nodes, edges)
					}
				}
			}()
		}

		return tailer.Follow(ctx, args[0], watchOutfileFlag, flushEvery, position)
	},
}

var (
	watchOutfileFlag string
	watchFilterFlag  string
	positionFlag     string
	flushFlag        time.Duration
)

func init() {
	watchCmd.Flags().StringVarP(&watchOutfileFlag, "outfile", "o", "", "Output file path (default: input path with .json extension)")
	watchCmd.Flags().StringVar(&watchFilterFlag, "filter", "", "Record filter expression")
	watchCmd.Flags().StringVar(&positionFlag, "position", "", "Start position: start, end or offset (default from config)")
	watchCmd.Flags().DurationVar(&flushFlag, "flush-interval", 0, "Snapshot rewrite cadence (default from config)")
	RootCmd.AddCommand(watchCmd)
}

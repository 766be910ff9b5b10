package commands

import (
	"github.com/spf13/cobra"

	"github.com/mgenviz/mgenviz/internal/engine"
	"github.com/mgenviz/mgenviz/internal/utils/logger"
)

var convertCmd = &cobra.Command{
	Use:   "convert <mgen-log>",
	Short: "Convert one mgen log into graph JSON",
	Long: `Convert reads an mgen log once, accumulates every valid RECV record
into the traffic graph, and writes the JSON node array.

Lines that are not RECV records are ignored. RECV records missing their
src/dst fields or carrying an invalid IP address are skipped with a
diagnostic naming the record position; a skipped record never aborts the
conversion. Without --outfile the output path is the input path with its
final extension replaced by .json.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Get(cmd.Context())

		filter := filterFlag
		if filter == "" {
			filter = cfg.Engine.Filter
		}

		converter, err := engine.NewConverter(engine.Options{
			Filter: filter,
			Logger: log,
		})
		if err != nil {
			return err
		}
		return converter.Convert(args[0], outfileFlag)
	},
}

var (
	outfileFlag string
	filterFlag  string
)

func init() {
	convertCmd.Flags().StringVarP(&outfileFlag, "outfile", "o", "", "Output file path (default: input path with .json extension)")
	convertCmd.Flags().StringVar(&filterFlag, "filter", "", `Record filter expression, e.g. 'Proto() == "UDP"'`)
	RootCmd.AddCommand(convertCmd)
}

package main

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/lk2023060901/recjson/application"
	"github.com/lk2023060901/recjson/internal/json"
	"github.com/lk2023060901/recjson/pkg/codec"
	"github.com/lk2023060901/recjson/pkg/document"
	"github.com/lk2023060901/recjson/pkg/formatter"
	"github.com/lk2023060901/recjson/pkg/log"
)

type rootOptions struct {
	configPath string
	app        *application.Application
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "recjson",
		Short:        "Reformat, convert and validate JSON documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var args []string
			if opts.configPath != "" {
				args = append(args, "--config="+opts.configPath)
			}
			opts.app = application.New()
			return opts.app.Run(args)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.app != nil {
				opts.app.Close()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file path (default ./recjson.yaml)")

	cmd.AddCommand(
		newPrettyCommand(opts),
		newConvertCommand(opts),
		newValidateCommand(),
	)
	return cmd
}

// pretty 在指标开启时计入 formatter 指标。
func (o *rootOptions) pretty(data []byte) ([]byte, error) {
	if o.app != nil && o.app.Config().Metrics.Enabled {
		return formatter.PrettyBytes(data)
	}
	return formatter.Reformat(data)
}

func newPrettyCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pretty [file]",
		Short: "Indent a JSON document read from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			out, err := root.pretty(data)
			if err != nil {
				return err
			}
			return writeLine(cmd.OutOrStdout(), out)
		},
	}
}

func newConvertCommand(root *rootOptions) *cobra.Command {
	var from, to string
	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Re-encode a document between json and msgpack, keeping key order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := codec.Lookup(from)
			if err != nil {
				return err
			}
			dst, err := codec.Lookup(to)
			if err != nil {
				return err
			}
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var value any
			if src.Name() == codec.NameJSON {
				value, err = document.Parse(data)
			} else {
				value, err = src.DecodeObject(data)
			}
			if err != nil {
				return err
			}

			out, err := dst.Marshal(document.ResolveNumbers(value))
			if err != nil {
				return err
			}
			if dst.Name() == codec.NameJSON {
				if root.app != nil && root.app.Serializer().PrettyPrint() {
					if out, err = root.pretty(out); err != nil {
						return err
					}
				}
				return writeLine(cmd.OutOrStdout(), out)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&from, "from", codec.NameJSON, "input format: json or msgpack")
	cmd.Flags().StringVar(&to, "to", codec.NameMsgpack, "output format: json or msgpack")
	return cmd
}

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check that the input is a single valid JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if !json.Valid(data) {
				log.Ctx(cmd.Context()).Debug("invalid json input", log.FieldOp("validate"))
				return errors.New("invalid json")
			}
			return writeLine(cmd.OutOrStdout(), []byte("valid"))
		},
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", args[0])
	}
	return data, nil
}

func writeLine(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

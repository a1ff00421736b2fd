package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"govintel/internal/features"
	"govintel/internal/modelregistry"
	"govintel/internal/prediction/models"
)

type rootOptions struct {
	modelDir string
	fsys     fs.FS
}

func (o *rootOptions) artifacts() fs.FS {
	if o.fsys != nil {
		return o.fsys
	}
	return os.DirFS(o.modelDir)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFS(nil)
}

// newRootCmdWithFS lets tests substitute the artifact tree.
func newRootCmdWithFS(fsys fs.FS) *cobra.Command {
	opts := &rootOptions{fsys: fsys}
	root := &cobra.Command{
		Use:           "featurecheck",
		Short:         "Inspect model artifacts and feature encoding",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.modelDir, "model-dir", "models", "Directory holding per-domain artifacts")

	root.AddCommand(newColumnsCmd(opts), newEncodeCmd(opts), newStatusCmd(opts))
	return root
}

func newColumnsCmd(opts *rootOptions) *cobra.Command {
	var domain string
	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Print the training column order of a domain",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := modelregistry.LoadArtifactSet(opts.artifacts(), modelregistry.Domain(domain))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, c := range set.Columns() {
				fmt.Fprintf(out, "%2d  %s\n", i, c)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", string(modelregistry.DemandForecasting), "demand_forecasting or crisis_prediction")
	return cmd
}

func newEncodeCmd(opts *rootOptions) *cobra.Command {
	var (
		domain string
		input  string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a request body into the model feature vector",
		Long: `Read a prediction request as JSON (from --input or stdin), validate it,
and print the feature vector in training column order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := modelregistry.Domain(domain)
			set, err := modelregistry.LoadArtifactSet(opts.artifacts(), d)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd.InOrStdin(), input)
			if err != nil {
				return err
			}
			vec, err := encode(d, raw, set)
			if err != nil {
				return err
			}
			return printVector(cmd.OutOrStdout(), vec, asJSON)
		},
	}
	cmd.Flags().StringVarP(&domain, "domain", "d", string(modelregistry.DemandForecasting), "demand_forecasting or crisis_prediction")
	cmd.Flags().StringVarP(&input, "input", "i", "", "Request JSON file (default: stdin)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as a JSON object instead of a table")
	return cmd
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Load every domain and report what would serve",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			reg := modelregistry.Open(context.Background(), opts.artifacts(), modelregistry.Domains,
				modelregistry.WithLogger(logger))

			status := reg.Status()
			names := make([]string, 0, len(status))
			for d := range status {
				names = append(names, string(d))
			}
			sort.Strings(names)

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DOMAIN\tLOADED\tTYPE\tVERSION")
			for _, n := range names {
				st := status[modelregistry.Domain(n)]
				fmt.Fprintf(tw, "%s\t%t\t%s\t%s\n", n, st.Loaded, st.Type, st.Version)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if !reg.AllLoaded() {
				return fmt.Errorf("not every domain loaded")
			}
			return nil
		},
	}
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func encode(d modelregistry.Domain, raw []byte, set *modelregistry.ArtifactSet) (features.Vector, error) {
	switch d {
	case modelregistry.DemandForecasting:
		var req models.DemandForecastRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return features.Vector{}, fmt.Errorf("decode request: %w", err)
		}
		if err := req.Validate(); err != nil {
			return features.Vector{}, err
		}
		return features.EncodeDemand(&req, set)
	case modelregistry.CrisisPrediction:
		var req models.CrisisPredictionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return features.Vector{}, fmt.Errorf("decode request: %w", err)
		}
		if err := req.Validate(); err != nil {
			return features.Vector{}, err
		}
		return features.EncodeCrisis(&req, set)
	default:
		return features.Vector{}, fmt.Errorf("unknown domain %q", d)
	}
}

func printVector(out io.Writer, vec features.Vector, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(vec.Map())
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	values := vec.Values()
	for i, c := range vec.Columns() {
		fmt.Fprintf(tw, "%s\t%g\n", c, values[i])
	}
	return tw.Flush()
}

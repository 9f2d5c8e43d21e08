package main

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/themis/internal/convert"
	"github.com/UnknownOlympus/themis/internal/docgen"
	"github.com/UnknownOlympus/themis/internal/geocoding"
	"github.com/UnknownOlympus/themis/internal/jurisdiction"
	"github.com/UnknownOlympus/themis/internal/service"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "themis",
		Short: "Court jurisdiction matching and legal document batch tools",
		Long: `themis assigns the competent basic people's court to addresses using a
district-to-court mapping table, fills Word templates from a spreadsheet and
converts Word documents to PDF with LibreOffice.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "configuration file (yaml, json, toml or env)")

	mapping := &cobra.Command{
		Use:   "mapping",
		Short: "Manage the district mapping stored in PostgreSQL",
	}
	mapping.AddCommand(newMappingImportCmd(a))

	root.AddCommand(newMatchCmd(a), newGenerateCmd(a), newConvertCmd(a), mapping)

	return root
}

func newMatchCmd(a *app) *cobra.Command {
	var (
		req    service.MatchRequest
		source string
	)

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Assign a court to every address of a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req.MappingSource = service.MappingSource(source)
			obs := &consoleProgress{w: cmd.ErrOrStderr()}

			return a.guard(cmd, "地址匹配", func(ctx context.Context) error {
				repo, closeRepo, err := a.openRepository(ctx)
				if err != nil {
					return err
				}
				defer closeRepo()

				provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
					Type:      geocoding.ProviderType(a.cfg.Geocoder.Type),
					APIKey:    a.cfg.Geocoder.APIKey,
					RateLimit: a.cfg.Geocoder.RateLimit,
					Language:  a.cfg.Geocoder.Language,
					Logger:    a.log,
				})
				if err != nil {
					return err
				}

				loader := jurisdiction.NewMappingLoader(a.log, a.cfg.Match.CourtColumn, a.cfg.Match.RegionColumn)
				svc := service.NewMatchService(a.log, loader, repo, provider, a.metrics)

				summary, err := svc.Run(ctx, req, obs)
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d addresses, %d resolved (%d geocoded), %d unresolved\n",
					summary.RunID, summary.Total, summary.Resolved, summary.Geocoded, summary.Unresolved)
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.MappingPath, "mapping", "m", "", "district mapping CSV (court and region-list columns)")
	flags.StringVar(&source, "mapping-source", string(service.MappingFromFile), "where to read the mapping from: file or postgres")
	flags.StringVarP(&req.AddressPath, "addresses", "a", "", "address list, one address per line")
	flags.StringVarP(&req.OutputPath, "output", "o", "results.csv", "result CSV")
	flags.BoolVar(&req.Persist, "persist", false, "store the results in PostgreSQL")
	_ = cmd.MarkFlagRequired("addresses")

	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var req service.GenerateRequest

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Fill a Word template once per spreadsheet row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obs := &consoleProgress{w: cmd.ErrOrStderr()}

			return a.guard(cmd, "文书生成", func(ctx context.Context) error {
				svc := service.NewGenerateService(a.log, docgen.DocxRenderer{}, a.cfg.Generate.FilenameColumn, a.metrics)

				summary, err := svc.Run(ctx, req, obs)
				if err != nil {
					return err
				}

				for _, file := range summary.Files {
					fmt.Fprintln(cmd.OutOrStdout(), file)
				}
				return nil
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&req.TemplatePath, "template", "t", "", "Word template with {column} placeholders")
	flags.StringVarP(&req.SheetPath, "data", "d", "", "spreadsheet (.xlsx or .csv) whose first row names the columns")
	flags.StringVarP(&req.OutputDir, "output-dir", "o", ".", "directory receiving the documents")
	_ = cmd.MarkFlagRequired("template")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	var req service.ConvertRequest

	cmd := &cobra.Command{
		Use:   "convert [files, directories or patterns...]",
		Short: "Convert Word documents to PDF with LibreOffice",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Inputs = args
			obs := &consoleProgress{w: cmd.ErrOrStderr()}

			return a.guard(cmd, "PDF转换", func(ctx context.Context) error {
				svc := service.NewConvertService(
					a.log,
					convert.NewCandidateResolver(a.cfg.Convert.OfficePath),
					convert.ExecRunner{WaitDelay: convert.DefaultWaitDelay},
					convert.Options{
						Timeout:    a.cfg.Convert.Timeout,
						Retries:    a.cfg.Convert.Retries,
						RetryDelay: a.cfg.Convert.RetryDelay,
					},
					a.metrics,
				)

				summary, err := svc.Run(ctx, req, obs)
				if err != nil {
					return err
				}

				for _, failure := range summary.Failures {
					fmt.Fprintf(cmd.OutOrStdout(), "FAILED %s: %v\n", failure.Source, failure.Err)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&req.OutputDir, "output-dir", "o", ".", "directory receiving the PDFs")

	return cmd
}

func newMappingImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <mapping.csv>",
		Short: "Replace the stored district mapping with a CSV table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			obs := &consoleProgress{w: cmd.ErrOrStderr()}

			return a.guard(cmd, "导入映射", func(ctx context.Context) error {
				repo, closeRepo, err := a.openRepository(ctx)
				if err != nil {
					return err
				}
				defer closeRepo()

				loader := jurisdiction.NewMappingLoader(a.log, a.cfg.Match.CourtColumn, a.cfg.Match.RegionColumn)
				svc := service.NewMatchService(a.log, loader, repo, nil, a.metrics)

				_, err = svc.ImportMapping(ctx, args[0], obs)
				return err
			})
		},
	}
}

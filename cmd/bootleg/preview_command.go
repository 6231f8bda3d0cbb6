package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/handiism/bootleg-splitter/internal/tracklist"
	"github.com/handiism/bootleg-splitter/internal/ytdlp"
)

var errInvalidTracklist = errors.New("tracklist has invalid lines")

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var tracklistPath string
	var template string
	var url string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show how a tracklist will be split without downloading",
		Long:  "preview parses a tracklist against the template and prints the resulting tracks. With --url the video length is looked up so the last track gets an end.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			text, err := readTracklist(cmd, tracklistPath)
			if err != nil {
				return err
			}
			if template == "" {
				template = settings.Template
			}

			duration := 0
			if url != "" {
				logger, err := ctx.logger(cmd.ErrOrStderr(), shouldColorize(cmd.ErrOrStderr()))
				if err != nil {
					return err
				}
				meta, err := ytdlp.NewClient(settings.YtDlpBinary, logger).Fetch(cmd.Context(), url)
				if err != nil {
					return err
				}
				duration = meta.DurationSeconds
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", meta.Title, meta.DurationString())
			}

			preview := tracklist.Project(tracklist.Resolve(template, text, duration))
			if preview.TemplateError != "" {
				return fmt.Errorf("template: %s", preview.TemplateError)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderPreview(preview))
			if !preview.Valid {
				painter(out, color.FgRed).Fprintln(out, preview.Status)
				return errInvalidTracklist
			}
			painter(out, color.FgGreen).Fprintln(out, preview.Status)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tracklistPath, "tracklist", "t", "-", "Tracklist file, - reads stdin")
	cmd.Flags().StringVar(&template, "template", "", "Tracklist line template (overrides config)")
	cmd.Flags().StringVarP(&url, "url", "u", "", "Video URL to read the duration from")
	return cmd
}

func renderPreview(p tracklist.Preview) string {
	headers := []string{"#", "Line", "Name", "Start", "Length", "Error"}
	rows := make([][]string, 0, len(p.Rows))
	for _, row := range p.Rows {
		rows = append(rows, []string{
			strconv.Itoa(row.Index),
			strconv.Itoa(row.Line),
			row.Name,
			row.Timestamp,
			row.Length,
			row.Error,
		})
	}
	return renderTable(headers, rows, []columnAlignment{alignRight, alignRight, alignLeft, alignRight, alignRight, alignLeft}, "")
}

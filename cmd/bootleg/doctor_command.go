package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/handiism/bootleg-splitter/internal/deps"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check that yt-dlp and ffmpeg are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries(deps.Requirements(settings.YtDlpBinary, settings.FFmpegBinary))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderDependencies(statuses))

			missing := deps.Missing(statuses)
			if len(missing) > 0 {
				painter(out, color.FgRed).Fprintf(out, "%d required tool(s) missing\n", len(missing))
				names := make([]string, 0, len(missing))
				for _, m := range missing {
					names = append(names, m.Name)
				}
				return fmt.Errorf("missing dependencies: %s", strings.Join(names, ", "))
			}
			painter(out, color.FgGreen).Fprintln(out, "All tools found")
			return nil
		},
	}
}

func renderDependencies(statuses []deps.Status) string {
	rows := make([][]string, 0, len(statuses))
	for _, s := range statuses {
		state := "OK"
		where := s.Path
		if !s.Available {
			state = "MISSING"
			if s.Optional {
				state = "OPTIONAL"
			}
			where = s.Detail
		}
		rows = append(rows, []string{s.Name, s.Command, state, where, s.Description})
	}
	return renderTable([]string{"Tool", "Command", "Status", "Path", "Used for"}, rows, nil, "")
}

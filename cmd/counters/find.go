package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/msf-counter-service/internal/catalog"
	"github.com/preston-bernstein/msf-counter-service/internal/domain/counters"
)

func newFindCmd(opts *rootOptions) *cobra.Command {
	var (
		mode      string
		useRoster bool
	)

	cmd := &cobra.Command{
		Use:   "find [character...]",
		Short: "Recommend counters for an enemy team",
		Example: `  counters find --mode War Thanos "Doctor Doom"
  counters find --mode Raid --roster "Black Widow"`,
		Args: cobra.RangeArgs(1, counters.MaxTeamSize),
		RunE: func(cmd *cobra.Command, args []string) error {
			gameMode, err := parseMode(mode)
			if err != nil {
				return err
			}

			cat := catalog.NewDefault()
			team := make([]*counters.Character, 0, len(args))
			for i, name := range args {
				name = strings.TrimSpace(name)
				if name == "" {
					continue
				}
				if !cat.Contains(name) {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is not in the character list\n", name)
				}
				team = append(team, &counters.Character{ID: int64(i + 1), Name: name})
			}

			ctx, cancel := opts.context(cmd)
			defer cancel()

			out, err := opts.client().FindCounters(ctx, team, gameMode, useRoster)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", string(counters.ModeWar), "game mode (War, Crucible, Arena, Raid)")
	cmd.Flags().BoolVar(&useRoster, "roster", false, "limit recommendations to the user's roster")
	return cmd
}

func parseMode(raw string) (counters.GameMode, error) {
	mode, known := counters.LookupGameMode(raw)
	if !known {
		return "", fmt.Errorf("unknown game mode %q", raw)
	}
	return mode, nil
}

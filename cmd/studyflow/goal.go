package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/studyflow/internal/stats"
	"github.com/verte-zerg/studyflow/internal/store"
)

func newGoalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage custom goals",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runGoalAddCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE:  runGoalListCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "done ID",
		Short: "Mark a goal as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalSetCmd(cmd, args[0], true)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "undo ID",
		Short: "Mark a goal as not completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGoalSetCmd(cmd, args[0], false)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "rm ID",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE:  runGoalRemoveCmd,
	})
	return cmd
}

func runGoalAddCmd(cmd *cobra.Command, args []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.store.InsertGoal(context.Background(), strings.Join(args, " "), a.now())
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Added goal #%d\n", id); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runGoalListCmd(cmd *cobra.Command, _ []string) error {
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	goals, err := a.store.ListGoals(context.Background())
	if err != nil {
		return err
	}
	if err := stats.RenderGoals(cmd.OutOrStdout(), goals); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runGoalSetCmd(cmd *cobra.Command, rawID string, completed bool) error {
	id, err := parseGoalID(rawID)
	if err != nil {
		return err
	}
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.SetGoalCompleted(context.Background(), id, completed); err != nil {
		return goalError(id, err)
	}
	return nil
}

func runGoalRemoveCmd(cmd *cobra.Command, args []string) error {
	id, err := parseGoalID(args[0])
	if err != nil {
		return err
	}
	a, err := setupApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.store.DeleteGoal(context.Background(), id); err != nil {
		return goalError(id, err)
	}
	return nil
}

func parseGoalID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid goal id %q", raw)
	}
	return id, nil
}

func goalError(id int64, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("goal #%d not found", id)
	}
	return err
}

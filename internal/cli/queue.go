package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"auralis.core/internal/queue"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Manage the standalone track extraction queue",
}

var enqueuePriority int

var queueEnqueueCmd = &cobra.Command{
	Use:   "enqueue <track-id> <file-path>",
	Short: "Add a track to the extraction queue",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := queue.NewSQLiteRepository(queueDB)
		if err != nil {
			return fmt.Errorf("open queue: %w", err)
		}
		if err := repo.Enqueue(args[0], args[1], enqueuePriority); err != nil {
			return fmt.Errorf("enqueue track: %w", err)
		}
		fmt.Printf("enqueued %s (priority %d)\n", args[0], enqueuePriority)
		return nil
	},
}

var queueReleaseCmd = &cobra.Command{
	Use:   "release <track-id>",
	Short: "Release a stuck claim, making the track claimable again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := queue.NewSQLiteRepository(queueDB)
		if err != nil {
			return fmt.Errorf("open queue: %w", err)
		}
		if err := repo.ReleaseClaim(context.Background(), args[0]); err != nil {
			return fmt.Errorf("release claim: %w", err)
		}
		fmt.Printf("released claim on %s\n", args[0])
		return nil
	},
}

func init() {
	queueEnqueueCmd.Flags().IntVar(&enqueuePriority, "priority", 0, "higher values are claimed first")

	queueCmd.AddCommand(queueEnqueueCmd)
	queueCmd.AddCommand(queueReleaseCmd)
}

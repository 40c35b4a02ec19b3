package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"auralis.core/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and manage the persistent fingerprint cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache hit/miss counters and tier sizes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cache.New(cacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		s := c.Stats()
		fmt.Printf("hits:              %d\n", s.Hits)
		fmt.Printf("misses:            %d\n", s.Misses)
		fmt.Printf("hit rate:          %.1f%%\n", s.HitRatePercent)
		fmt.Printf("insertions:        %d\n", s.Insertions)
		fmt.Printf("memory entries:    %d / %d\n", s.MemoryEntries, s.MaxMemoryEntries)
		fmt.Printf("persistent rows:   %d\n", s.PersistentEntries)
		fmt.Printf("persistent size:   %.2f MB / %.2f GB\n", s.PersistentSizeMB, s.MaxSizeGB)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty both cache tiers",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cache.New(cacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		if err := c.Clear(); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		fmt.Println("cache cleared")
		return nil
	},
}

var cacheCleanupDays int

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove persistent entries not accessed recently",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cache.New(cacheDir)
		if err != nil {
			return fmt.Errorf("open cache: %w", err)
		}
		n, err := c.CleanupOldEntries(cacheCleanupDays)
		if err != nil {
			return fmt.Errorf("cleanup cache: %w", err)
		}
		fmt.Printf("removed %d stale entries\n", n)
		return nil
	},
}

func init() {
	cacheCleanupCmd.Flags().IntVar(&cacheCleanupDays, "older-than-days", 90, "remove rows not accessed within this many days")

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
}

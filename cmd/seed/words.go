package main

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"

	apperrors "mealplan/internal/errors"
	"mealplan/internal/repository"
	"mealplan/internal/service"
)

var banWordsCmd = &cobra.Command{
	Use:   "ban-words word [word...]",
	Short: "Add words to the banned word list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		moderation := service.NewModerationService(
			repository.NewBannedWordRepository(gormDB),
			repository.NewUserRepository(gormDB),
		)
		added, skipped, err := seedWords(cmd.Context(), moderation, args)
		if err != nil {
			return err
		}
		log.Printf("Seed completed: %d words added, %d already banned", added, skipped)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(banWordsCmd)
}

func seedWords(ctx context.Context, moderation service.ModerationService, words []string) (added, skipped int, err error) {
	for _, word := range words {
		if _, err := moderation.AddWord(ctx, word, "seed"); err != nil {
			if errors.Is(err, apperrors.ErrBannedWordExists) {
				skipped++
				continue
			}
			return added, skipped, err
		}
		added++
	}
	return added, skipped, nil
}

package services

import (
	"errors"
	"fmt"

	"nfl-pool-go/models"
)

var (
	// ErrInvalidSeason is returned for a season that cannot hold NFL data
	ErrInvalidSeason = errors.New("invalid season")
	// ErrInvalidWeek is returned for a week outside the regular season
	ErrInvalidWeek = errors.New("invalid week")
)

func validateSeason(season int) error {
	if season < 1920 || season > 2100 {
		return fmt.Errorf("%w: %d", ErrInvalidSeason, season)
	}
	return nil
}

func validateWeek(week int) error {
	if !models.IsValidWeek(week) {
		return fmt.Errorf("%w: %d", ErrInvalidWeek, week)
	}
	return nil
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/obasola/sports-mgmt-app-server-sub003/internal/models"
)

// TTL constants
const (
	StandingsTTL = 5 * time.Minute
	BracketTTL   = 5 * time.Minute
)

// StandingsCache is a read-through cache for computed standings and brackets.
// A cache failure is never fatal; callers fall back to recomputing.
type StandingsCache struct {
	client *redis.Client
}

// NewStandingsCache creates a new standings cache backed by Redis
func NewStandingsCache(client *redis.Client) *StandingsCache {
	return &StandingsCache{
		client: client,
	}
}

func standingsKey(seasonYear string, seasonType models.SeasonType, throughWeek *int) string {
	week := "full"
	if throughWeek != nil {
		week = fmt.Sprintf("w%d", *throughWeek)
	}
	return fmt.Sprintf("standings:%s:%d:%s", seasonYear, seasonType, week)
}

func bracketKey(seasonYear, mode string) string {
	return fmt.Sprintf("bracket:%s:%s", seasonYear, mode)
}

// GetStandings returns cached standings, or (nil, false) on a miss
func (c *StandingsCache) GetStandings(ctx context.Context, seasonYear string, seasonType models.SeasonType, throughWeek *int) ([]models.TeamStanding, bool) {
	data, err := c.client.Get(ctx, standingsKey(seasonYear, seasonType, throughWeek)).Bytes()
	if err != nil {
		return nil, false
	}

	var standings []models.TeamStanding
	if err := json.Unmarshal(data, &standings); err != nil {
		return nil, false
	}
	return standings, true
}

// SetStandings stores computed standings with a short TTL
func (c *StandingsCache) SetStandings(ctx context.Context, seasonYear string, seasonType models.SeasonType, throughWeek *int, standings []models.TeamStanding) error {
	data, err := json.Marshal(standings)
	if err != nil {
		return fmt.Errorf("marshaling standings: %w", err)
	}

	return c.client.Set(ctx, standingsKey(seasonYear, seasonType, throughWeek), data, StandingsTTL).Err()
}

// GetBracket returns a cached bracket, or (nil, false) on a miss
func (c *StandingsCache) GetBracket(ctx context.Context, seasonYear, mode string) (*models.PlayoffBracket, bool) {
	data, err := c.client.Get(ctx, bracketKey(seasonYear, mode)).Bytes()
	if err != nil {
		return nil, false
	}

	var bracket models.PlayoffBracket
	if err := json.Unmarshal(data, &bracket); err != nil {
		return nil, false
	}
	return &bracket, true
}

// SetBracket stores a computed bracket with a short TTL
func (c *StandingsCache) SetBracket(ctx context.Context, seasonYear, mode string, bracket *models.PlayoffBracket) error {
	data, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("marshaling bracket: %w", err)
	}

	return c.client.Set(ctx, bracketKey(seasonYear, mode), data, BracketTTL).Err()
}

// Invalidate drops every cached entry for a season. Called whenever a game
// result lands, since any standings or bracket for that season may change.
func (c *StandingsCache) Invalidate(ctx context.Context, seasonYear string) error {
	patterns := []string{
		fmt.Sprintf("standings:%s:*", seasonYear),
		fmt.Sprintf("bracket:%s:*", seasonYear),
	}

	pipe := c.client.Pipeline()
	for _, pattern := range patterns {
		iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			pipe.Del(ctx, iter.Val())
		}
		if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
	}

	_, err := pipe.Exec(ctx)
	return err
}

// Ping verifies the Redis connection
func (c *StandingsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

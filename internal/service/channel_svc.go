package service

import (
	"context"
	"fmt"

	"github.com/chabro2633/diary-korean/internal/logging"
	"github.com/chabro2633/diary-korean/internal/model"
	"github.com/chabro2633/diary-korean/internal/repository"
)

type ChannelService struct {
	repo *repository.ChannelRepo
}

func NewChannelService(repo *repository.ChannelRepo) *ChannelService {
	return &ChannelService{repo: repo}
}

// List returns whitelisted channels with their ingested video counts.
func (s *ChannelService) List(ctx context.Context, activeOnly bool) ([]model.ChannelSummary, error) {
	return s.repo.List(ctx, activeOnly)
}

// Get returns one channel.
func (s *ChannelService) Get(ctx context.Context, channelID string) (*model.Channel, error) {
	return s.repo.FindByID(ctx, channelID)
}

// SyncResult counts the changes of a whitelist sync.
type SyncResult struct {
	Upserted    int
	Deactivated int
}

// Sync makes the stored whitelist match channels: every listed channel is
// upserted and every other active channel is deactivated. Data of
// deactivated channels is kept.
func (s *ChannelService) Sync(ctx context.Context, channels []model.Channel) (*SyncResult, error) {
	listed := make(map[string]bool, len(channels))
	res := &SyncResult{}
	for i := range channels {
		if err := s.repo.Upsert(ctx, &channels[i]); err != nil {
			return res, err
		}
		listed[channels[i].ID] = true
		res.Upserted++
	}

	current, err := s.repo.List(ctx, true)
	if err != nil {
		return res, err
	}
	log := logging.Component("channels")
	for _, ch := range current {
		if listed[ch.ID] {
			continue
		}
		if err := s.repo.Deactivate(ctx, ch.ID); err != nil {
			return res, fmt.Errorf("deactivate %s: %w", ch.ID, err)
		}
		log.Info().Str("channel_id", ch.ID).Msg("channel removed from whitelist")
		res.Deactivated++
	}
	return res, nil
}

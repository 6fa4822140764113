package services

import (
	"context"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/querycache"
)

type SupportBlocksBackend interface {
	List(ctx context.Context, p api.ListParams) (api.Page[domain.SupportBlock], error)
	Get(ctx context.Context, id domain.ID) (domain.SupportBlock, error)
	Create(ctx context.Context, req api.CreateSupportBlockRequest) (domain.SupportBlock, error)
	Update(ctx context.Context, id domain.ID, req api.UpdateSupportBlockRequest) (domain.SupportBlock, error)
	Delete(ctx context.Context, id domain.ID) error
}

type SupportAgentsBackend interface {
	List(ctx context.Context, f api.AgentFilter) (api.Page[domain.SupportAgent], error)
	Create(ctx context.Context, req api.CreateSupportAgentRequest) (domain.SupportAgent, error)
	Update(ctx context.Context, id domain.ID, req api.UpdateSupportAgentRequest) (domain.SupportAgent, error)
	Delete(ctx context.Context, id domain.ID) error
}

type TeamStructureBackend interface {
	TeamStructure(ctx context.Context) (domain.TeamStructure, error)
}

type SupportService interface {
	ListBlocks(ctx context.Context, p api.ListParams) (api.Page[domain.SupportBlock], error)
	GetBlock(ctx context.Context, id domain.ID) (domain.SupportBlock, error)
	CreateBlock(ctx context.Context, req api.CreateSupportBlockRequest) (domain.SupportBlock, error)
	UpdateBlock(ctx context.Context, id domain.ID, req api.UpdateSupportBlockRequest) (domain.SupportBlock, error)
	DeleteBlock(ctx context.Context, id domain.ID) error

	ListAgents(ctx context.Context, f api.AgentFilter) (api.Page[domain.SupportAgent], error)
	CreateAgent(ctx context.Context, req api.CreateSupportAgentRequest) (domain.SupportAgent, error)
	UpdateAgent(ctx context.Context, id domain.ID, req api.UpdateSupportAgentRequest) (domain.SupportAgent, error)
	DeleteAgent(ctx context.Context, id domain.ID) error

	TeamStructure(ctx context.Context) (domain.TeamStructure, error)
}

type supportService struct {
	cache  *querycache.Cache
	iv     invalidator
	blocks SupportBlocksBackend
	agents SupportAgentsBackend
	team   TeamStructureBackend
}

func NewSupportService(log *logger.Logger, cache *querycache.Cache, blocks SupportBlocksBackend, agents SupportAgentsBackend, team TeamStructureBackend) SupportService {
	return &supportService{
		cache:  cache,
		iv:     invalidator{cache: cache, log: log.With("service", "SupportService")},
		blocks: blocks,
		agents: agents,
		team:   team,
	}
}

func (s *supportService) ListBlocks(ctx context.Context, p api.ListParams) (api.Page[domain.SupportBlock], error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[api.Page[domain.SupportBlock]]{
		Key: SupportBlockKeys.List(p.KeyParams()),
		Fn: func(ctx context.Context) (api.Page[domain.SupportBlock], error) {
			return s.blocks.List(ctx, p)
		},
	})
}

func (s *supportService) GetBlock(ctx context.Context, id domain.ID) (domain.SupportBlock, error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[domain.SupportBlock]{
		Key: SupportBlockKeys.Detail(id),
		Fn: func(ctx context.Context) (domain.SupportBlock, error) {
			return s.blocks.Get(ctx, id)
		},
	})
}

func (s *supportService) blocksChanged(ctx context.Context) {
	s.iv.invalidate(ctx, SupportBlockKeys.All(), TeamStructureKeys.All())
}

func (s *supportService) agentsChanged(ctx context.Context) {
	s.iv.invalidate(ctx, SupportAgentKeys.All(), SupportBlockKeys.All(), TeamStructureKeys.All())
}

func (s *supportService) CreateBlock(ctx context.Context, req api.CreateSupportBlockRequest) (domain.SupportBlock, error) {
	b, err := s.blocks.Create(ctx, req)
	if err != nil {
		return domain.SupportBlock{}, err
	}
	s.blocksChanged(ctx)
	return b, nil
}

func (s *supportService) UpdateBlock(ctx context.Context, id domain.ID, req api.UpdateSupportBlockRequest) (domain.SupportBlock, error) {
	b, err := s.blocks.Update(ctx, id, req)
	if err != nil {
		return domain.SupportBlock{}, err
	}
	s.blocksChanged(ctx)
	return b, nil
}

func (s *supportService) DeleteBlock(ctx context.Context, id domain.ID) error {
	if err := s.blocks.Delete(ctx, id); err != nil {
		return err
	}
	s.iv.remove(ctx, SupportBlockKeys.Detail(id))
	s.blocksChanged(ctx)
	return nil
}

func (s *supportService) ListAgents(ctx context.Context, f api.AgentFilter) (api.Page[domain.SupportAgent], error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[api.Page[domain.SupportAgent]]{
		Key: SupportAgentKeys.List(f.Params().KeyParams()),
		Fn: func(ctx context.Context) (api.Page[domain.SupportAgent], error) {
			return s.agents.List(ctx, f)
		},
	})
}

func (s *supportService) CreateAgent(ctx context.Context, req api.CreateSupportAgentRequest) (domain.SupportAgent, error) {
	a, err := s.agents.Create(ctx, req)
	if err != nil {
		return domain.SupportAgent{}, err
	}
	s.agentsChanged(ctx)
	return a, nil
}

func (s *supportService) UpdateAgent(ctx context.Context, id domain.ID, req api.UpdateSupportAgentRequest) (domain.SupportAgent, error) {
	a, err := s.agents.Update(ctx, id, req)
	if err != nil {
		return domain.SupportAgent{}, err
	}
	s.agentsChanged(ctx)
	return a, nil
}

func (s *supportService) DeleteAgent(ctx context.Context, id domain.ID) error {
	if err := s.agents.Delete(ctx, id); err != nil {
		return err
	}
	s.agentsChanged(ctx)
	return nil
}

func (s *supportService) TeamStructure(ctx context.Context) (domain.TeamStructure, error) {
	return querycache.Fetch(ctx, s.cache, querycache.Query[domain.TeamStructure]{
		Key:       TeamStructureKeys.All(),
		Fn:        s.team.TeamStructure,
		StaleTime: teamStructureStaleTime,
	})
}

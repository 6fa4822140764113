package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/yungbote/lesson-admin/internal/domain"
)

type CreateSupportBlockRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
}

type UpdateSupportBlockRequest struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type SupportBlocksAPI struct {
	r resource[domain.SupportBlock]
}

func (c *Client) SupportBlocks() SupportBlocksAPI {
	return SupportBlocksAPI{r: resource[domain.SupportBlock]{c: c, path: "/support-blocks"}}
}

func (a SupportBlocksAPI) List(ctx context.Context, p ListParams) (Page[domain.SupportBlock], error) {
	return a.r.list(ctx, p)
}

func (a SupportBlocksAPI) Get(ctx context.Context, id domain.ID) (domain.SupportBlock, error) {
	return a.r.get(ctx, id)
}

func (a SupportBlocksAPI) Create(ctx context.Context, req CreateSupportBlockRequest) (domain.SupportBlock, error) {
	return a.r.create(ctx, req)
}

func (a SupportBlocksAPI) Update(ctx context.Context, id domain.ID, req UpdateSupportBlockRequest) (domain.SupportBlock, error) {
	return a.r.update(ctx, id, req)
}

func (a SupportBlocksAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

type CreateSupportAgentRequest struct {
	UserID  domain.ID          `json:"userId"`
	BlockID domain.ID          `json:"blockId,omitempty"`
	Status  domain.AgentStatus `json:"status"`
	IsLead  bool               `json:"isLead"`
	LeadID  domain.ID          `json:"leadId,omitempty"`
}

// UpdateSupportAgentRequest uses ClearLead to send an explicit null leadId.
type UpdateSupportAgentRequest struct {
	Status    *domain.AgentStatus
	IsLead    *bool
	LeadID    *domain.ID
	ClearLead bool
	BlockID   *domain.ID
}

func (r UpdateSupportAgentRequest) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if r.Status != nil {
		out["status"] = *r.Status
	}
	if r.IsLead != nil {
		out["isLead"] = *r.IsLead
	}
	switch {
	case r.ClearLead:
		out["leadId"] = nil
	case r.LeadID != nil:
		out["leadId"] = *r.LeadID
	}
	if r.BlockID != nil {
		out["blockId"] = *r.BlockID
	}
	return json.Marshal(out)
}

type AgentFilter struct {
	BlockID domain.ID
	Status  domain.AgentStatus
	Page    int
}

func (f AgentFilter) Params() ListParams {
	p := ListParams{Page: f.Page}
	if !f.BlockID.IsZero() {
		p = p.with("blockId", f.BlockID.String())
	}
	if f.Status != "" {
		p = p.with("status", string(f.Status))
	}
	return p
}

type SupportAgentsAPI struct {
	r resource[domain.SupportAgent]
}

func (c *Client) SupportAgents() SupportAgentsAPI {
	return SupportAgentsAPI{r: resource[domain.SupportAgent]{c: c, path: "/support-agents"}}
}

func (a SupportAgentsAPI) List(ctx context.Context, f AgentFilter) (Page[domain.SupportAgent], error) {
	return a.r.list(ctx, f.Params())
}

func (a SupportAgentsAPI) Create(ctx context.Context, req CreateSupportAgentRequest) (domain.SupportAgent, error) {
	return a.r.create(ctx, req)
}

func (a SupportAgentsAPI) Update(ctx context.Context, id domain.ID, req UpdateSupportAgentRequest) (domain.SupportAgent, error) {
	return a.r.update(ctx, id, req)
}

func (a SupportAgentsAPI) Delete(ctx context.Context, id domain.ID) error {
	return a.r.delete(ctx, id)
}

// TeamStructure loads /tickets/team-structure. The backend returns either
// {"data":{"blocks":[...]}} or {"data":[...]}.
func (c *Client) TeamStructure(ctx context.Context) (domain.TeamStructure, error) {
	raw, err := c.do(ctx, http.MethodGet, "/tickets/team-structure", nil, nil)
	if err != nil {
		return domain.TeamStructure{}, err
	}
	data, err := decodeData[json.RawMessage](raw)
	if err != nil {
		return domain.TeamStructure{}, err
	}
	var ts domain.TeamStructure
	if strings.HasPrefix(strings.TrimSpace(string(data)), "[") {
		if err := json.Unmarshal(data, &ts.Blocks); err != nil {
			return domain.TeamStructure{}, fmt.Errorf("decode team structure: %w", err)
		}
	} else if err := json.Unmarshal(data, &ts); err != nil {
		return domain.TeamStructure{}, fmt.Errorf("decode team structure: %w", err)
	}
	if ts.Blocks == nil {
		ts.Blocks = []domain.TeamBlock{}
	}
	return ts, nil
}

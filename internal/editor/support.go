package editor

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/services"
)

const supportBlocksPath = "/support-blocks"

type SupportBlockForm struct {
	Name        string `json:"name" validate:"notblank,max=120"`
	Slug        string `json:"slug" validate:"slug,max=120"`
	Description string `json:"description" validate:"max=1000"`
	IsActive    bool   `json:"isActive"`
}

// SupportBlockEditor manages support blocks and the agents assigned to them.
type SupportBlockEditor struct {
	log      *logger.Logger
	support  services.SupportService
	validate *forms.Validator
	OnSaved  func(SaveEvent)
}

func NewSupportBlockEditor(log *logger.Logger, support services.SupportService, v *forms.Validator) *SupportBlockEditor {
	return &SupportBlockEditor{
		log:      log.With("service", "SupportBlockEditor"),
		support:  support,
		validate: v,
	}
}

// SaveBlock creates the block when id is zero and updates it otherwise. An
// empty slug is derived from the name.
func (e *SupportBlockEditor) SaveBlock(ctx context.Context, id domain.ID, form SupportBlockForm) Outcome {
	if strings.TrimSpace(form.Slug) == "" {
		form.Slug = forms.Slugify(form.Name)
	}
	if fe := e.validate.Struct(form); fe != nil {
		return invalid(fe)
	}
	if id.IsZero() {
		b, err := e.support.CreateBlock(ctx, api.CreateSupportBlockRequest{
			Name:        strings.TrimSpace(form.Name),
			Slug:        form.Slug,
			Description: form.Description,
			IsActive:    form.IsActive,
		})
		if err != nil {
			return failure(e.log, "create support block", err)
		}
		e.saved("supportBlock", "create", b.ID)
		out := success("Support block created")
		out.Redirect = supportBlocksPath
		return out
	}
	name := strings.TrimSpace(form.Name)
	if _, err := e.support.UpdateBlock(ctx, id, api.UpdateSupportBlockRequest{
		Name:        &name,
		Slug:        &form.Slug,
		Description: &form.Description,
		IsActive:    &form.IsActive,
	}); err != nil {
		return failure(e.log, "update support block", err)
	}
	e.saved("supportBlock", "update", id)
	out := success("Support block updated")
	out.Redirect = supportBlocksPath
	return out
}

func (e *SupportBlockEditor) DeleteBlock(ctx context.Context, id domain.ID) Outcome {
	if err := e.support.DeleteBlock(ctx, id); err != nil {
		return failure(e.log, "delete support block", err)
	}
	e.saved("supportBlock", "delete", id)
	return success("Support block deleted")
}

// AssignAgent moves an agent into a block. A zero blockID unassigns the
// agent, which also detaches it from its lead.
func (e *SupportBlockEditor) AssignAgent(ctx context.Context, agentID, blockID domain.ID) Outcome {
	req := api.UpdateSupportAgentRequest{BlockID: &blockID}
	msg := "Agent assigned"
	if blockID.IsZero() {
		req.ClearLead = true
		msg = "Agent unassigned"
	}
	return e.updateAgent(ctx, agentID, req, msg)
}

// PromoteToLead makes an agent a lead. Leads report to nobody.
func (e *SupportBlockEditor) PromoteToLead(ctx context.Context, agentID domain.ID) Outcome {
	lead := true
	return e.updateAgent(ctx, agentID, api.UpdateSupportAgentRequest{IsLead: &lead, ClearLead: true}, "Agent promoted to lead")
}

func (e *SupportBlockEditor) DemoteLead(ctx context.Context, agentID domain.ID) Outcome {
	lead := false
	return e.updateAgent(ctx, agentID, api.UpdateSupportAgentRequest{IsLead: &lead}, "Lead demoted")
}

// SetLead puts agentID under leadID. A zero leadID clears the lead.
func (e *SupportBlockEditor) SetLead(ctx context.Context, agentID, leadID domain.ID) Outcome {
	if leadID.IsZero() {
		return e.updateAgent(ctx, agentID, api.UpdateSupportAgentRequest{ClearLead: true}, "Lead cleared")
	}
	if leadID == agentID {
		fe := forms.FieldErrors{}
		fe.Add("leadId", "an agent cannot lead itself")
		return invalid(fe)
	}
	return e.updateAgent(ctx, agentID, api.UpdateSupportAgentRequest{LeadID: &leadID}, "Lead updated")
}

func (e *SupportBlockEditor) ChangeStatus(ctx context.Context, agentID domain.ID, status domain.AgentStatus) Outcome {
	if !status.Valid() {
		fe := forms.FieldErrors{}
		fe.Add("status", fmt.Sprintf("status must be one of [%s %s %s]", domain.StatusAvailable, domain.StatusBusy, domain.StatusOffline))
		return invalid(fe)
	}
	return e.updateAgent(ctx, agentID, api.UpdateSupportAgentRequest{Status: &status}, "Status updated")
}

func (e *SupportBlockEditor) updateAgent(ctx context.Context, agentID domain.ID, req api.UpdateSupportAgentRequest, msg string) Outcome {
	if _, err := e.support.UpdateAgent(ctx, agentID, req); err != nil {
		return failure(e.log, "update support agent", err)
	}
	e.saved("supportAgent", "update", agentID)
	return success(msg)
}

func (e *SupportBlockEditor) saved(entity, action string, id domain.ID) {
	if e.OnSaved != nil {
		e.OnSaved(SaveEvent{Entity: entity, Action: action, ID: id.String()})
	}
}

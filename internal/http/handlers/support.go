package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lesson-admin/internal/api"
	"github.com/yungbote/lesson-admin/internal/domain"
	"github.com/yungbote/lesson-admin/internal/editor"
	"github.com/yungbote/lesson-admin/internal/forms"
	"github.com/yungbote/lesson-admin/internal/http/response"
	"github.com/yungbote/lesson-admin/internal/platform/logger"
	"github.com/yungbote/lesson-admin/internal/services"
)

type agentInput struct {
	UserID  domain.ID          `json:"userId" validate:"notblank"`
	BlockID domain.ID          `json:"blockId"`
	Status  domain.AgentStatus `json:"status" validate:"oneof=available busy offline"`
	IsLead  bool               `json:"isLead"`
	LeadID  domain.ID          `json:"leadId"`
}

type SupportHandler struct {
	log      *logger.Logger
	support  services.SupportService
	validate *forms.Validator
}

func NewSupportHandler(log *logger.Logger, support services.SupportService, v *forms.Validator) *SupportHandler {
	return &SupportHandler{log: log.With("handler", "SupportHandler"), support: support, validate: v}
}

func (h *SupportHandler) newEditor() *editor.SupportBlockEditor {
	return editor.NewSupportBlockEditor(h.log, h.support, h.validate)
}

// GET /api/support-blocks?page=&search=
func (h *SupportHandler) ListBlocks(c *gin.Context) {
	page, err := h.support.ListBlocks(c.Request.Context(), listParams(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// GET /api/support-blocks/:id
func (h *SupportHandler) GetBlock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	b, err := h.support.GetBlock(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": b})
}

// POST /api/support-blocks
func (h *SupportHandler) CreateBlock(c *gin.Context) {
	h.saveBlock(c, "")
}

// PUT /api/support-blocks/:id
func (h *SupportHandler) UpdateBlock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.saveBlock(c, id)
}

func (h *SupportHandler) saveBlock(c *gin.Context, id domain.ID) {
	var form editor.SupportBlockForm
	if !bindJSON(c, &form) {
		return
	}
	out := h.newEditor().SaveBlock(c.Request.Context(), id, form)
	response.RespondOutcome(c, out, nil)
}

// DELETE /api/support-blocks/:id
func (h *SupportHandler) DeleteBlock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	response.RespondOutcome(c, h.newEditor().DeleteBlock(c.Request.Context(), id), nil)
}

// GET /api/support-agents?blockId=&status=&page=
func (h *SupportHandler) ListAgents(c *gin.Context) {
	f := api.AgentFilter{
		BlockID: domain.ID(strings.TrimSpace(c.Query("blockId"))),
		Status:  domain.AgentStatus(strings.TrimSpace(c.Query("status"))),
		Page:    atoi(c.Query("page")),
	}
	if f.Status != "" && !f.Status.Valid() {
		respondInvalid(c, "status", "status must be one of [available busy offline]")
		return
	}
	page, err := h.support.ListAgents(c.Request.Context(), f)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, page)
}

// POST /api/support-agents
func (h *SupportHandler) CreateAgent(c *gin.Context) {
	var in agentInput
	if !bindJSON(c, &in) || !validate(c, h.validate, in) {
		return
	}
	a, err := h.support.CreateAgent(c.Request.Context(), api.CreateSupportAgentRequest{
		UserID:  in.UserID,
		BlockID: in.BlockID,
		Status:  in.Status,
		IsLead:  in.IsLead,
		LeadID:  in.LeadID,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"data": a})
}

// PATCH /api/support-agents/:id
//
// Body members are applied in order: blockId (null unassigns), isLead,
// leadId (null clears), status. The first failure stops the rest.
func (h *SupportHandler) UpdateAgent(c *gin.Context) {
	agentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var body map[string]json.RawMessage
	if !bindJSON(c, &body) {
		return
	}

	ctx := c.Request.Context()
	ed := h.newEditor()
	var steps []func() editor.Outcome

	if raw, ok := body["blockId"]; ok {
		var blockID domain.ID
		if err := json.Unmarshal(raw, &blockID); err != nil {
			respondInvalid(c, "blockId", "blockId must be an id or null")
			return
		}
		steps = append(steps, func() editor.Outcome { return ed.AssignAgent(ctx, agentID, blockID) })
	}
	if raw, ok := body["isLead"]; ok {
		var lead bool
		if err := json.Unmarshal(raw, &lead); err != nil {
			respondInvalid(c, "isLead", "isLead must be a boolean")
			return
		}
		if lead {
			steps = append(steps, func() editor.Outcome { return ed.PromoteToLead(ctx, agentID) })
		} else {
			steps = append(steps, func() editor.Outcome { return ed.DemoteLead(ctx, agentID) })
		}
	}
	if raw, ok := body["leadId"]; ok {
		var leadID domain.ID
		if err := json.Unmarshal(raw, &leadID); err != nil {
			respondInvalid(c, "leadId", "leadId must be an id or null")
			return
		}
		steps = append(steps, func() editor.Outcome { return ed.SetLead(ctx, agentID, leadID) })
	}
	if raw, ok := body["status"]; ok {
		var status domain.AgentStatus
		if err := json.Unmarshal(raw, &status); err != nil {
			respondInvalid(c, "status", "status must be a string")
			return
		}
		steps = append(steps, func() editor.Outcome { return ed.ChangeStatus(ctx, agentID, status) })
	}
	if len(steps) == 0 {
		response.RespondError(c, http.StatusBadRequest, "empty_update", errEmptyUpdate)
		return
	}

	var out editor.Outcome
	for _, step := range steps {
		if out = step(); !out.OK() {
			break
		}
	}
	response.RespondOutcome(c, out, nil)
}

// DELETE /api/support-agents/:id
func (h *SupportHandler) DeleteAgent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.support.DeleteAgent(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/team-structure
func (h *SupportHandler) TeamStructure(c *gin.Context) {
	ts, err := h.support.TeamStructure(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{"data": ts})
}

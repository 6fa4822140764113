package support

import "github.com/yungbote/lesson-admin/internal/domain/ident"

type AgentStatus string

const (
	StatusAvailable AgentStatus = "available"
	StatusBusy      AgentStatus = "busy"
	StatusOffline   AgentStatus = "offline"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusBusy, StatusOffline:
		return true
	}
	return false
}

type User struct {
	ID    ident.ID `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email,omitempty"`
}

type Member struct {
	ID     ident.ID `json:"id"`
	User   User     `json:"user"`
	IsLead bool     `json:"isLead"`
}

type SupportBlock struct {
	ID          ident.ID `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	IsActive    bool     `json:"isActive"`
	Members     []Member `json:"members"`
}

type LeadRef struct {
	ID   ident.ID `json:"id"`
	User User     `json:"user"`
}

type SupportAgent struct {
	ID      ident.ID    `json:"id"`
	User    User        `json:"user"`
	Status  AgentStatus `json:"status"`
	IsLead  bool        `json:"isLead"`
	LeadID  ident.ID    `json:"leadId,omitempty"`
	Lead    *LeadRef    `json:"lead,omitempty"`
	BlockID ident.ID    `json:"blockId,omitempty"`
}

// TeamStructure is the read model behind the ticket routing screen.
type TeamStructure struct {
	Blocks []TeamBlock `json:"blocks"`
}

type TeamBlock struct {
	ID         ident.ID       `json:"id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	IsActive   bool           `json:"isActive"`
	Leads      []TeamLead     `json:"leads"`
	Unassigned []SupportAgent `json:"unassigned,omitempty"`
}

type TeamLead struct {
	Agent  SupportAgent   `json:"agent"`
	Agents []SupportAgent `json:"agents"`
}

// AgentCount counts leads plus their agents plus unassigned agents.
func (b TeamBlock) AgentCount() int {
	n := len(b.Unassigned)
	for _, l := range b.Leads {
		n += 1 + len(l.Agents)
	}
	return n
}

package directory

import "strings"

// Sync priority classes. Each integrator belongs to exactly one class and
// runs are triggered per class.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// IsValidPriority checks if the given priority class is known.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Integrator is a sync binding: one IPAM query feeding zero or more firewall
// and security-platform targets. Rows are fetched fresh at the start of
// every run and never mutated by the sync core.
type Integrator struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	// Priority is the sync priority class (low, medium, high).
	Priority string `json:"priority"`

	// NetboxURL is the IPAM endpoint serving this integrator.
	NetboxURL string `json:"netbox_url"`
	// NetboxTokenEnv names the environment variable holding the IPAM token.
	NetboxTokenEnv string `json:"-"`
	// PrefixQuery is the raw IPAM query string selecting desired prefixes.
	PrefixQuery string `json:"prefix_query"`

	// ManageFirewallGroups requests address-group management on firewalls.
	ManageFirewallGroups bool `json:"manage_firewall_groups"`
	// FirewallGroupKey is the group key the grp_/grp6_ names derive from.
	FirewallGroupKey string `json:"firewall_group_key"`

	// ManageSecurityGroups requests group management on security platforms.
	ManageSecurityGroups bool `json:"manage_security_groups"`
	// SecurityGroupKey is the key the nsg- name derives from.
	SecurityGroupKey         string `json:"security_group_key"`
	SecurityGroupDescription string `json:"security_group_description"`
	// TagScope and TagValue form the optional tag attached to the group.
	// The tag is only attached when both are set.
	TagScope string `json:"tag_scope"`
	TagValue string `json:"tag_value"`

	FirewallTargets []FirewallTarget `gorm:"foreignKey:IntegratorID" json:"firewall_targets"`
	SecurityTargets []SecurityTarget `gorm:"foreignKey:IntegratorID" json:"security_targets"`
}

// FirewallTarget is one firewall endpoint with one or more named scopes.
type FirewallTarget struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	IntegratorID uint   `json:"-"`
	Hostname     string `json:"hostname"`
	// VDOMs is a comma-separated list of scope names on this endpoint.
	VDOMs string `gorm:"column:vdoms" json:"vdoms"`
	// TokenEnv names the environment variable holding the API token.
	TokenEnv string `json:"-"`
}

// Scopes returns the target's scope names, trimmed, empty entries dropped.
func (t FirewallTarget) Scopes() []string {
	var scopes []string
	for _, s := range strings.Split(t.VDOMs, ",") {
		if s = strings.TrimSpace(s); s != "" {
			scopes = append(scopes, s)
		}
	}
	return scopes
}

// SecurityTarget is one security-platform endpoint.
type SecurityTarget struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	IntegratorID uint   `json:"-"`
	Hostname     string `json:"hostname"`
	// Domain is the policy domain the group lives in ("default" if empty).
	Domain string `json:"domain"`
	// UserEnv and PasswordEnv name the environment variables holding the
	// platform credentials.
	UserEnv     string `json:"-"`
	PasswordEnv string `json:"-"`
}

// TableName overrides keep the directory schema names explicit.
func (Integrator) TableName() string     { return "integrators" }
func (FirewallTarget) TableName() string { return "firewall_targets" }
func (SecurityTarget) TableName() string { return "security_targets" }

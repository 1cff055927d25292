// model/resource.go
package model

// Resource is a protected asset node in the organizational graph.
type Resource struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Type            string   `json:"type"`
	Classification  string   `json:"classification"` // public .. top_secret
	OwnerID         string   `json:"owner_id,omitempty"`
	OwnerDepartment string   `json:"owner_department,omitempty"`
	Scope           string   `json:"scope,omitempty"`
	Projects        []string `json:"projects,omitempty"`
}

// Relationship captures how a subject relates to a resource owner in the
// graph: management edges and shared project memberships.
type Relationship struct {
	SharedProjects     int  `json:"shared_projects"`
	IsDirectManager    bool `json:"is_direct_manager"`
	IsSkipLevelManager bool `json:"is_skip_level_manager"`
}

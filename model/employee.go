// model/employee.go
package model

import "time"

// Employee is a person node in the organizational graph.
type Employee struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Role           string     `json:"role"`
	Department     string     `json:"department"`
	Team           string     `json:"team"`
	HierarchyLevel int        `json:"hierarchy_level"` // 1 (junior) .. 5 (CEO)
	Clearance      string     `json:"clearance"`
	EmploymentType string     `json:"employment_type"` // "employee" or "contractor"
	ContractEnd    *time.Time `json:"contract_end,omitempty"`
	ManagerID      string     `json:"manager_id,omitempty"`
	Projects       []string   `json:"projects,omitempty"`
}

// IsContractor reports whether the employee is on a contract.
func (e *Employee) IsContractor() bool {
	return e.EmploymentType == "contractor"
}

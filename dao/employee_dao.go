// dao/employee_dao.go
package dao

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	helper_util "github.com/skyber-io/privacy-firewall/util/helper"
)

type EmployeeDAO struct {
	Driver neo4j.Driver
}

func NewEmployeeDAO(driver neo4j.Driver) *EmployeeDAO {
	return &EmployeeDAO{Driver: driver}
}

// GetEmployee fetches an employee node with its department, team and
// project memberships.
func (dao *EmployeeDAO) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (e:Employee {id: $id})
        OPTIONAL MATCH (e)-[:REPORTS_TO]->(m:Employee)
        OPTIONAL MATCH (e)-[:WORKS_ON]->(p:Project)
        RETURN e, m.id AS managerID, collect(p.id) AS projects
        `
		res, err := transaction.Run(query, map[string]interface{}{"id": employeeID})
		if err != nil {
			return nil, fw_errors.ErrDatabaseOperation
		}

		if res.Next() {
			record := res.Record()
			node, ok := record.Values[0].(neo4j.Node)
			if !ok {
				return nil, fw_errors.ErrInternalServer
			}
			employee := mapNodeToEmployee(node)
			if managerID, ok := record.Values[1].(string); ok {
				employee.ManagerID = managerID
			}
			if projects, ok := record.Values[2].([]interface{}); ok {
				for _, p := range projects {
					if s, ok := p.(string); ok {
						employee.Projects = append(employee.Projects, s)
					}
				}
			}
			return employee, nil
		}

		return nil, fw_errors.ErrEmployeeNotFound
	})

	duration := time.Since(start)
	if err != nil {
		if err != fw_errors.ErrEmployeeNotFound {
			logger.Error("Failed to get employee",
				zap.Error(err),
				zap.String("employeeID", employeeID),
				zap.Duration("duration", duration))
		}
		return nil, err
	}

	logger.Debug("Employee retrieved",
		zap.String("employeeID", employeeID),
		zap.Duration("duration", duration))
	return result.(*model.Employee), nil
}

func mapNodeToEmployee(node neo4j.Node) *model.Employee {
	props := node.Props

	employee := &model.Employee{
		ID:             getStringProp(props, "id"),
		Name:           getStringProp(props, "name"),
		Role:           getStringProp(props, "role"),
		Department:     getStringProp(props, "department"),
		Team:           getStringProp(props, "team"),
		Clearance:      getStringProp(props, "clearance"),
		EmploymentType: getStringProp(props, "employmentType"),
	}

	if level, ok := props["hierarchyLevel"].(int64); ok {
		employee.HierarchyLevel = int(level)
	}

	if end, err := helper_util.ParseNullableTime(props["contractEnd"]); err == nil {
		employee.ContractEnd = end
	}

	return employee
}

func getStringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

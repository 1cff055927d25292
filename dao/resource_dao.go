// dao/resource_dao.go
package dao

import (
	"context"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
)

type ResourceDAO struct {
	Driver neo4j.Driver
}

func NewResourceDAO(driver neo4j.Driver) *ResourceDAO {
	return &ResourceDAO{Driver: driver}
}

// GetResource fetches a resource node with its owner and owning department.
func (dao *ResourceDAO) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (r:Resource {id: $id})
        OPTIONAL MATCH (o:Employee)-[:OWNS]->(r)
        OPTIONAL MATCH (r)-[:BELONGS_TO]->(p:Project)
        RETURN r, o.id AS ownerID, o.department AS ownerDepartment, collect(p.id) AS projects
        `
		res, err := transaction.Run(query, map[string]interface{}{"id": resourceID})
		if err != nil {
			return nil, fw_errors.ErrDatabaseOperation
		}

		if res.Next() {
			record := res.Record()
			node, ok := record.Values[0].(neo4j.Node)
			if !ok {
				return nil, fw_errors.ErrInternalServer
			}
			resource := mapNodeToResource(node)
			if ownerID, ok := record.Values[1].(string); ok {
				resource.OwnerID = ownerID
			}
			if ownerDept, ok := record.Values[2].(string); ok {
				resource.OwnerDepartment = ownerDept
			}
			if projects, ok := record.Values[3].([]interface{}); ok {
				for _, p := range projects {
					if s, ok := p.(string); ok {
						resource.Projects = append(resource.Projects, s)
					}
				}
			}
			return resource, nil
		}

		return nil, fw_errors.ErrResourceNotFound
	})

	duration := time.Since(start)
	if err != nil {
		if err != fw_errors.ErrResourceNotFound {
			logger.Error("Failed to get resource",
				zap.Error(err),
				zap.String("resourceID", resourceID),
				zap.Duration("duration", duration))
		}
		return nil, err
	}

	logger.Debug("Resource retrieved",
		zap.String("resourceID", resourceID),
		zap.Duration("duration", duration))
	return result.(*model.Resource), nil
}

func mapNodeToResource(node neo4j.Node) *model.Resource {
	props := node.Props

	return &model.Resource{
		ID:             getStringProp(props, "id"),
		Name:           getStringProp(props, "name"),
		Type:           getStringProp(props, "type"),
		Classification: getStringProp(props, "classification"),
		Scope:          getStringProp(props, "scope"),
	}
}

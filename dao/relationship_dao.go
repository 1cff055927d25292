// dao/relationship_dao.go
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

type RelationshipDAO struct {
	Driver neo4j.Driver
}

func NewRelationshipDAO(driver neo4j.Driver) *RelationshipDAO {
	return &RelationshipDAO{Driver: driver}
}

// GetRelationship computes the management and project edges between a
// subject and a resource owner. Absent edges produce a zero-valued
// relationship, not an error.
func (dao *RelationshipDAO) GetRelationship(ctx context.Context, subjectID, ownerID string) (*model.Relationship, error) {
	start := time.Now()
	session := dao.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()

	result, err := session.ReadTransaction(func(transaction neo4j.Transaction) (interface{}, error) {
		query := `
        MATCH (s:Employee {id: $subjectID}), (o:Employee {id: $ownerID})
        OPTIONAL MATCH (s)-[:WORKS_ON]->(p:Project)<-[:WORKS_ON]-(o)
        RETURN count(DISTINCT p) AS sharedProjects,
               exists((o)-[:REPORTS_TO]->(s)) AS isDirectManager,
               exists((o)-[:REPORTS_TO]->(:Employee)-[:REPORTS_TO]->(s)) AS isSkipLevelManager
        `
		params := map[string]interface{}{
			"subjectID": subjectID,
			"ownerID":   ownerID,
		}
		res, err := transaction.Run(query, params)
		if err != nil {
			return nil, fw_errors.ErrDatabaseOperation
		}

		if res.Next() {
			record := res.Record()
			rel := &model.Relationship{}
			if shared, ok := record.Values[0].(int64); ok {
				rel.SharedProjects = int(shared)
			}
			if direct, ok := record.Values[1].(bool); ok {
				rel.IsDirectManager = direct
			}
			if skip, ok := record.Values[2].(bool); ok {
				rel.IsSkipLevelManager = skip
			}
			return rel, nil
		}

		// No row means one of the employees is missing; the employee
		// lookup reports that case, so treat it as no relationship.
		return &model.Relationship{}, nil
	})

	duration := time.Since(start)
	if err != nil {
		logger.Error("Failed to get relationship",
			zap.Error(err),
			zap.String("subjectID", subjectID),
			zap.String("ownerID", ownerID),
			zap.Duration("duration", duration))
		return nil, err
	}

	return result.(*model.Relationship), nil
}

// service/directory_service.go
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/skyber-io/privacy-firewall/dao"
	"github.com/skyber-io/privacy-firewall/db"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
)

// IDirectoryService resolves graph entities, read-through cached.
type IDirectoryService interface {
	GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error)
	GetResource(ctx context.Context, resourceID string) (*model.Resource, error)
	GetRelationship(ctx context.Context, subjectID, ownerID string) (*model.Relationship, error)
}

// DirectoryService fronts the graph DAOs with the Redis entity cache.
// Cache failures fall through to the graph.
type DirectoryService struct {
	employeeDAO     *dao.EmployeeDAO
	resourceDAO     *dao.ResourceDAO
	relationshipDAO *dao.RelationshipDAO
}

func NewDirectoryService(employeeDAO *dao.EmployeeDAO, resourceDAO *dao.ResourceDAO, relationshipDAO *dao.RelationshipDAO) *DirectoryService {
	return &DirectoryService{
		employeeDAO:     employeeDAO,
		resourceDAO:     resourceDAO,
		relationshipDAO: relationshipDAO,
	}
}

func (s *DirectoryService) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	cached, err := db.GetCachedEmployee(ctx, employeeID)
	if err != nil {
		logger.Warn("Employee cache read failed", zap.Error(err), zap.String("employeeID", employeeID))
	}
	if cached != nil {
		return cached, nil
	}

	employee, err := s.employeeDAO.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	if err := db.CacheEmployee(ctx, employee); err != nil {
		logger.Warn("Failed to cache employee", zap.Error(err), zap.String("employeeID", employeeID))
	}
	return employee, nil
}

func (s *DirectoryService) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	cached, err := db.GetCachedResource(ctx, resourceID)
	if err != nil {
		logger.Warn("Resource cache read failed", zap.Error(err), zap.String("resourceID", resourceID))
	}
	if cached != nil {
		return cached, nil
	}

	resource, err := s.resourceDAO.GetResource(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	if err := db.CacheResource(ctx, resource); err != nil {
		logger.Warn("Failed to cache resource", zap.Error(err), zap.String("resourceID", resourceID))
	}
	return resource, nil
}

func (s *DirectoryService) GetRelationship(ctx context.Context, subjectID, ownerID string) (*model.Relationship, error) {
	cached, err := db.GetCachedRelationship(ctx, subjectID, ownerID)
	if err != nil {
		logger.Warn("Relationship cache read failed", zap.Error(err),
			zap.String("subjectID", subjectID), zap.String("ownerID", ownerID))
	}
	if cached != nil {
		return cached, nil
	}

	rel, err := s.relationshipDAO.GetRelationship(ctx, subjectID, ownerID)
	if err != nil {
		return nil, err
	}

	if err := db.CacheRelationship(ctx, subjectID, ownerID, rel); err != nil {
		logger.Warn("Failed to cache relationship", zap.Error(err),
			zap.String("subjectID", subjectID), zap.String("ownerID", ownerID))
	}
	return rel, nil
}

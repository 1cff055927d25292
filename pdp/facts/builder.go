// pdp/facts/builder.go
package facts

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	fw_errors "github.com/skyber-io/privacy-firewall/errors"
	logger "github.com/skyber-io/privacy-firewall/logging"
	"github.com/skyber-io/privacy-firewall/model"
	helper_util "github.com/skyber-io/privacy-firewall/util/helper"
)

// Directory resolves graph entities for fact derivation.
type Directory interface {
	GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error)
	GetResource(ctx context.Context, resourceID string) (*model.Resource, error)
	GetRelationship(ctx context.Context, subjectID, ownerID string) (*model.Relationship, error)
}

// Builder derives the typed FactSet for one subject/resource pair.
type Builder struct {
	directory Directory
}

func NewBuilder(directory Directory) *Builder {
	return &Builder{directory: directory}
}

// Build resolves both entities and derives every fact the rule
// evaluator can predicate on. An unresolvable subject or resource
// yields a FactLookupError, never a deny.
func (b *Builder) Build(ctx context.Context, subjectID, resourceID string, at time.Time) (*model.FactSet, error) {
	var (
		employee *model.Employee
		resource *model.Resource
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		employee, err = b.directory.GetEmployee(gctx, subjectID)
		if errors.Is(err, fw_errors.ErrEmployeeNotFound) {
			return &fw_errors.FactLookupError{Kind: "employee", ID: subjectID, Err: err}
		}
		return err
	})
	g.Go(func() error {
		var err error
		resource, err = b.directory.GetResource(gctx, resourceID)
		if errors.Is(err, fw_errors.ErrResourceNotFound) {
			return &fw_errors.FactLookupError{Kind: "resource", ID: resourceID, Err: err}
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	fs := &model.FactSet{
		SubjectID:      subjectID,
		ResourceID:     resourceID,
		Role:           employee.Role,
		Department:     employee.Department,
		Team:           employee.Team,
		HierarchyLevel: employee.HierarchyLevel,
		Clearance:      employee.Clearance,
		Classification: resource.Classification,
		ResourceType:   resource.Type,
		ResourceScope:  resource.Scope,
		EvaluatedAt:    at,
	}

	fs.IsCEO = employee.HierarchyLevel >= 5
	fs.IsExecutive = employee.HierarchyLevel >= 4
	fs.IsContractor = employee.IsContractor()
	if fs.IsContractor && employee.ContractEnd != nil {
		fs.ContractExpired = employee.ContractEnd.Before(at)
	}

	required := model.RequiredClearance(resource.Classification)
	fs.HasRequiredClearance = model.ClearanceRank(employee.Clearance) >= model.ClearanceRank(required)

	fs.IsBusinessHours = helper_util.IsBusinessHours(at)
	fs.IsWeekend = helper_util.IsWeekend(at)

	if resource.OwnerDepartment != "" {
		fs.SameDepartment = employee.Department == resource.OwnerDepartment
	}

	if resource.OwnerID != "" && resource.OwnerID != subjectID {
		rel, err := b.directory.GetRelationship(ctx, subjectID, resource.OwnerID)
		if err != nil {
			return nil, err
		}
		fs.SharedProjects = rel.SharedProjects > 0
		fs.IsDirectManager = rel.IsDirectManager
		fs.IsSkipLevelManager = rel.IsSkipLevelManager
	}

	if resource.OwnerID != "" {
		owner, err := b.directory.GetEmployee(ctx, resource.OwnerID)
		if err == nil {
			fs.SameTeam = employee.Team != "" && employee.Team == owner.Team
			fs.HierarchyLevelDelta = employee.HierarchyLevel - owner.HierarchyLevel
			if resource.OwnerDepartment == "" {
				fs.SameDepartment = employee.Department == owner.Department
			}
		} else if !errors.Is(err, fw_errors.ErrEmployeeNotFound) {
			return nil, err
		}
	}

	logger.Debug("Fact set built",
		zap.String("subjectID", subjectID),
		zap.String("resourceID", resourceID),
		zap.Bool("hasRequiredClearance", fs.HasRequiredClearance))
	return fs, nil
}

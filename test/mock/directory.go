// test/mock/directory.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/skyber-io/privacy-firewall/model"
)

// MockDirectory is a mock implementation of facts.Directory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) GetEmployee(ctx context.Context, employeeID string) (*model.Employee, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *MockDirectory) GetResource(ctx context.Context, resourceID string) (*model.Resource, error) {
	args := m.Called(ctx, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Resource), args.Error(1)
}

func (m *MockDirectory) GetRelationship(ctx context.Context, subjectID, ownerID string) (*model.Relationship, error) {
	args := m.Called(ctx, subjectID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Relationship), args.Error(1)
}

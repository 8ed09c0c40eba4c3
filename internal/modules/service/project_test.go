package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/WalidElHadhri/PDS/internal/modules/model"
)

// MockUserRepo is a mock implementation of repo.UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) Save(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepo) ListForUser(ctx context.Context, userID uuid.UUID, afterUpdatedAt time.Time, afterID uuid.UUID, limit int) ([]*model.Project, error) {
	args := m.Called(ctx, userID, afterUpdatedAt, afterID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Project), args.Error(1)
}

func newTestUser(username string) *model.User {
	return &model.User{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
}

func TestProjectService_Create(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")

	tests := []struct {
		name    string
		setup   func(*MockProjectRepo, *MockUserRepo)
		wantErr bool
	}{
		{
			name: "successful creation",
			setup: func(projects *MockProjectRepo, users *MockUserRepo) {
				projects.On("Create", ctx, mock.AnythingOfType("*model.Project")).Return(nil)
				users.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*model.User{owner}, nil)
			},
		},
		{
			name: "repository error",
			setup: func(projects *MockProjectRepo, users *MockUserRepo) {
				projects.On("Create", ctx, mock.AnythingOfType("*model.Project")).Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockProjects := &MockProjectRepo{}
			mockUsers := &MockUserRepo{}
			tt.setup(mockProjects, mockUsers)

			svc := NewProjectService(mockProjects, mockUsers)
			view, err := svc.Create(ctx, owner, "Compiler lab", "parser and lexer work")

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, view)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, owner.ID, view.OwnerID)
				assert.Equal(t, owner.Public(), view.Owner)
				// the owner always appears as a member with the Owner role
				assert.Len(t, view.Members, 1)
				assert.Equal(t, model.RoleOwner, view.Members[0].Role)
			}

			mockProjects.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestProjectService_View_DerivesOwnerMembership(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")
	collab := newTestUser("amine")

	p := &model.Project{
		ID:      uuid.New(),
		Name:    "Compiler lab",
		OwnerID: owner.ID,
		Collaborators: datatypes.JSONSlice[model.Collaborator]{
			{UserID: collab.ID, Role: model.RoleCollaborator},
		},
	}

	mockProjects := &MockProjectRepo{}
	mockUsers := &MockUserRepo{}
	mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID, collab.ID}).
		Return([]*model.User{owner, collab}, nil)

	svc := NewProjectService(mockProjects, mockUsers)
	view, err := svc.View(ctx, p)

	assert.NoError(t, err)
	assert.Equal(t, owner.Public(), view.Owner)
	assert.Len(t, view.Members, 2)
	assert.Equal(t, model.RoleOwner, view.Members[0].Role)
	assert.Equal(t, owner.ID, view.Members[0].User.ID)
	assert.Equal(t, model.RoleCollaborator, view.Members[1].Role)
	assert.Equal(t, collab.ID, view.Members[1].User.ID)
	mockUsers.AssertExpectations(t)
}

func TestProjectService_List(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")

	makeProject := func(updatedAt time.Time) *model.Project {
		return &model.Project{
			ID:        uuid.New(),
			OwnerID:   owner.ID,
			UpdatedAt: updatedAt,
		}
	}

	t.Run("no limit returns all", func(t *testing.T) {
		p1 := makeProject(time.Now())
		p2 := makeProject(time.Now().Add(-time.Hour))

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("ListForUser", ctx, owner.ID, time.Time{}, uuid.Nil, 0).
			Return([]*model.Project{p1, p2}, nil)
		mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*model.User{owner}, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		out, err := svc.List(ctx, ListProjectsInput{UserID: owner.ID})

		assert.NoError(t, err)
		assert.Len(t, out.Items, 2)
		assert.False(t, out.HasMore)
		assert.Empty(t, out.NextCursor)
		mockProjects.AssertExpectations(t)
	})

	t.Run("has more results", func(t *testing.T) {
		// limit+1 rows back from the repo trigger HasMore and a cursor
		p1 := makeProject(time.Now())
		p2 := makeProject(time.Now().Add(-time.Hour))
		p3 := makeProject(time.Now().Add(-2 * time.Hour))

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("ListForUser", ctx, owner.ID, time.Time{}, uuid.Nil, 3).
			Return([]*model.Project{p1, p2, p3}, nil)
		mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*model.User{owner}, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		out, err := svc.List(ctx, ListProjectsInput{UserID: owner.ID, Limit: 2})

		assert.NoError(t, err)
		assert.Len(t, out.Items, 2)
		assert.True(t, out.HasMore)
		assert.NotEmpty(t, out.NextCursor)
		mockProjects.AssertExpectations(t)
	})

	t.Run("invalid cursor", func(t *testing.T) {
		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}

		svc := NewProjectService(mockProjects, mockUsers)
		out, err := svc.List(ctx, ListProjectsInput{UserID: owner.ID, Cursor: "not-a-cursor"})

		assert.Error(t, err)
		assert.Nil(t, out)
	})

	t.Run("repository error", func(t *testing.T) {
		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("ListForUser", ctx, owner.ID, time.Time{}, uuid.Nil, 0).
			Return(nil, errors.New("database error"))

		svc := NewProjectService(mockProjects, mockUsers)
		out, err := svc.List(ctx, ListProjectsInput{UserID: owner.ID})

		assert.Error(t, err)
		assert.Nil(t, out)
	})
}

func TestProjectService_AddCollaborator(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")
	collab := newTestUser("amine")

	newProject := func() *model.Project {
		return &model.Project{
			ID:            uuid.New(),
			OwnerID:       owner.ID,
			Collaborators: datatypes.JSONSlice[model.Collaborator]{},
		}
	}

	t.Run("successful addition", func(t *testing.T) {
		p := newProject()

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, collab.Email).Return(collab, nil)
		mockProjects.On("Save", ctx, p).Return(nil)
		mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID, collab.ID}).
			Return([]*model.User{owner, collab}, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		view, err := svc.AddCollaborator(ctx, p, collab.Email)

		assert.NoError(t, err)
		assert.True(t, p.IsCollaborator(collab.ID))
		assert.Len(t, view.Members, 2)
		mockProjects.AssertExpectations(t)
		mockUsers.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		p := newProject()

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc := NewProjectService(mockProjects, mockUsers)
		view, err := svc.AddCollaborator(ctx, p, "nobody@example.com")

		assert.ErrorIs(t, err, ErrUserNotFound)
		assert.Nil(t, view)
	})

	t.Run("owner cannot be added", func(t *testing.T) {
		p := newProject()

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, owner.Email).Return(owner, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		view, err := svc.AddCollaborator(ctx, p, owner.Email)

		assert.ErrorIs(t, err, ErrAlreadyCollaborator)
		assert.Nil(t, view)
		assert.Empty(t, p.Collaborators)
	})

	t.Run("duplicate collaborator", func(t *testing.T) {
		p := newProject()
		p.Collaborators = append(p.Collaborators, model.Collaborator{UserID: collab.ID, Role: model.RoleCollaborator})

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockUsers.On("GetByEmail", ctx, collab.Email).Return(collab, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		view, err := svc.AddCollaborator(ctx, p, collab.Email)

		assert.ErrorIs(t, err, ErrAlreadyCollaborator)
		assert.Nil(t, view)
		assert.Len(t, p.Collaborators, 1)
	})
}

func TestProjectService_RemoveCollaborator(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")
	collab := newTestUser("amine")

	t.Run("successful removal", func(t *testing.T) {
		p := &model.Project{
			ID:      uuid.New(),
			OwnerID: owner.ID,
			Collaborators: datatypes.JSONSlice[model.Collaborator]{
				{UserID: collab.ID, Role: model.RoleCollaborator},
			},
		}

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("Save", ctx, p).Return(nil)
		mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*model.User{owner}, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		view, err := svc.RemoveCollaborator(ctx, p, collab.ID)

		assert.NoError(t, err)
		assert.Empty(t, p.Collaborators)
		assert.Len(t, view.Members, 1)
		mockProjects.AssertExpectations(t)
	})

	t.Run("owner removal rejected", func(t *testing.T) {
		p := &model.Project{ID: uuid.New(), OwnerID: owner.ID}

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}

		svc := NewProjectService(mockProjects, mockUsers)
		view, err := svc.RemoveCollaborator(ctx, p, owner.ID)

		assert.ErrorIs(t, err, ErrOwnerRemoval)
		assert.Nil(t, view)
		mockProjects.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("removing non member succeeds", func(t *testing.T) {
		p := &model.Project{
			ID:            uuid.New(),
			OwnerID:       owner.ID,
			Collaborators: datatypes.JSONSlice[model.Collaborator]{},
		}

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("Save", ctx, p).Return(nil)
		mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*model.User{owner}, nil)

		svc := NewProjectService(mockProjects, mockUsers)
		_, err := svc.RemoveCollaborator(ctx, p, uuid.New())

		assert.NoError(t, err)
		mockProjects.AssertExpectations(t)
	})
}

func TestProjectService_UpdateCodeFile(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")

	t.Run("new project falls back to default filename", func(t *testing.T) {
		p := &model.Project{ID: uuid.New(), OwnerID: owner.ID}

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("Save", ctx, p).Return(nil)

		svc := NewProjectService(mockProjects, mockUsers)
		cf, err := svc.UpdateCodeFile(ctx, p, "", "public class Main {}")

		assert.NoError(t, err)
		assert.Equal(t, model.DefaultCodeFilename, cf.Filename)
		assert.Equal(t, "public class Main {}", cf.Content)
		assert.NotNil(t, cf.UpdatedAt)
	})

	t.Run("missing filename keeps existing one", func(t *testing.T) {
		p := &model.Project{ID: uuid.New(), OwnerID: owner.ID}
		p.CodeFile = datatypes.NewJSONType(model.CodeFile{Filename: "Lexer.java", Content: "old"})

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("Save", ctx, p).Return(nil)

		svc := NewProjectService(mockProjects, mockUsers)
		cf, err := svc.UpdateCodeFile(ctx, p, "", "new content")

		assert.NoError(t, err)
		assert.Equal(t, "Lexer.java", cf.Filename)
		assert.Equal(t, "new content", cf.Content)
	})

	t.Run("explicit filename wins", func(t *testing.T) {
		p := &model.Project{ID: uuid.New(), OwnerID: owner.ID}
		p.CodeFile = datatypes.NewJSONType(model.CodeFile{Filename: "Lexer.java", Content: "old"})

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("Save", ctx, p).Return(nil)

		svc := NewProjectService(mockProjects, mockUsers)
		cf, err := svc.UpdateCodeFile(ctx, p, "Parser.java", "new content")

		assert.NoError(t, err)
		assert.Equal(t, "Parser.java", cf.Filename)
	})

	t.Run("repository error", func(t *testing.T) {
		p := &model.Project{ID: uuid.New(), OwnerID: owner.ID}

		mockProjects := &MockProjectRepo{}
		mockUsers := &MockUserRepo{}
		mockProjects.On("Save", ctx, p).Return(errors.New("database error"))

		svc := NewProjectService(mockProjects, mockUsers)
		cf, err := svc.UpdateCodeFile(ctx, p, "", "content")

		assert.Error(t, err)
		assert.Nil(t, cf)
	})
}

func TestProjectService_UpdateDocumentation(t *testing.T) {
	ctx := context.Background()
	p := &model.Project{ID: uuid.New(), Documentation: "old text"}

	mockProjects := &MockProjectRepo{}
	mockUsers := &MockUserRepo{}
	mockProjects.On("Save", ctx, p).Return(nil)

	svc := NewProjectService(mockProjects, mockUsers)
	err := svc.UpdateDocumentation(ctx, p, "new text")

	assert.NoError(t, err)
	assert.Equal(t, "new text", p.Documentation)
	mockProjects.AssertExpectations(t)
}

func TestProjectService_Update(t *testing.T) {
	ctx := context.Background()
	owner := newTestUser("walid")

	name := "Renamed"
	desc := ""

	p := &model.Project{ID: uuid.New(), OwnerID: owner.ID, Name: "Old", Description: "keep or clear"}

	mockProjects := &MockProjectRepo{}
	mockUsers := &MockUserRepo{}
	mockProjects.On("Save", ctx, p).Return(nil)
	mockUsers.On("ListByIDs", ctx, []uuid.UUID{owner.ID}).Return([]*model.User{owner}, nil)

	svc := NewProjectService(mockProjects, mockUsers)
	view, err := svc.Update(ctx, p, &name, &desc)

	assert.NoError(t, err)
	assert.Equal(t, "Renamed", view.Name)
	// an explicit empty description clears the field
	assert.Equal(t, "", view.Description)
	mockProjects.AssertExpectations(t)
}

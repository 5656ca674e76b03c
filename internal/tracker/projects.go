package tracker

import (
	"context"
	"strings"
	"time"

	"github.com/dori/punch/internal/model"
	"github.com/rs/zerolog"
)

// NewProject holds the input for ProjectService.Create.
type NewProject struct {
	Name        string
	Description string
	StartTime   *time.Time
}

// ProjectPatch lists the editable project fields. Nil fields are left
// unchanged. The running flag is derived and cannot be patched.
type ProjectPatch struct {
	Name        *string
	Description *string
	StartTime   *time.Time
}

// ProjectService owns project CRUD.
type ProjectService struct {
	projects ProjectStore
	clock    Clock
	log      zerolog.Logger
}

// NewProjectService creates a project service.
func NewProjectService(projects ProjectStore, clock Clock, log zerolog.Logger) *ProjectService {
	return &ProjectService{projects: projects, clock: clock, log: log}
}

// Create adds a project for the caller.
func (s *ProjectService) Create(ctx context.Context, userID string, in NewProject) (*model.Project, error) {
	name := strings.TrimSpace(in.Name)
	description := strings.TrimSpace(in.Description)
	switch {
	case name == "":
		return nil, Invalid("name", "is required")
	case description == "":
		return nil, Invalid("description", "is required")
	case in.StartTime == nil || in.StartTime.IsZero():
		return nil, Invalid("start_time", "is required")
	}

	now := s.clock.Now()
	p := &model.Project{
		Name:        name,
		Description: description,
		StartTime:   in.StartTime,
		UserID:      userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.CreateProject(ctx, p); err != nil {
		return nil, upstream("create project", err)
	}

	s.log.Info().Str("project_id", p.ID).Str("user_id", userID).Msg("project created")
	return p, nil
}

// List returns the caller's projects.
func (s *ProjectService) List(ctx context.Context, userID string) ([]model.Project, error) {
	projects, err := s.projects.ListProjects(ctx, userID)
	if err != nil {
		return nil, upstream("list projects", err)
	}
	return projects, nil
}

// Get returns one of the caller's projects.
func (s *ProjectService) Get(ctx context.Context, userID, id string) (*model.Project, error) {
	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, upstream("get project", err)
	}
	return authorize(p, userID)
}

// Update applies patch to one of the caller's projects.
func (s *ProjectService) Update(ctx context.Context, userID, id string, patch ProjectPatch) (*model.Project, error) {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, Invalid("name", "must not be empty")
		}
		p.Name = name
	}
	if patch.Description != nil {
		description := strings.TrimSpace(*patch.Description)
		if description == "" {
			return nil, Invalid("description", "must not be empty")
		}
		p.Description = description
	}
	if patch.StartTime != nil {
		p.StartTime = patch.StartTime
	}
	p.UpdatedAt = s.clock.Now()

	if err := s.projects.UpdateProject(ctx, p); err != nil {
		return nil, upstream("update project", err)
	}

	s.log.Info().Str("project_id", p.ID).Msg("project updated")
	return p, nil
}

// Delete removes one of the caller's projects and all of its tasks.
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	p, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.projects.DeleteProject(ctx, p.ID); err != nil {
		return upstream("delete project", err)
	}

	s.log.Info().Str("project_id", p.ID).Msg("project deleted with tasks")
	return nil
}

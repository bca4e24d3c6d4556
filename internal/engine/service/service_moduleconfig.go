package service

import (
	"context"
	"fmt"

	"github.com/leadfoundry/leadcore/internal/engine/core/resolve"
	"github.com/leadfoundry/leadcore/internal/engine/model/moduleconfig"
	repo "github.com/leadfoundry/leadcore/internal/engine/repo/moduleconfig"
	"github.com/leadfoundry/leadcore/pkg/id"
	"github.com/leadfoundry/leadcore/pkg/log"
)

// ModuleConfigService owns the admin CRUD surface for module configs. Every
// write invalidates the resolver cache for the touched scope, so concurrent
// readers observe either the pre-edit or post-edit document, never a stale
// cached copy past the write.
type ModuleConfigService struct {
	repo     repo.IModuleConfigRepository
	resolver *resolve.CachedResolver
}

func NewModuleConfigService(r repo.IModuleConfigRepository, resolver *resolve.CachedResolver) *ModuleConfigService {
	return &ModuleConfigService{
		repo:     r,
		resolver: resolver,
	}
}

// Resolve returns the effective config for the scope via the cached resolver.
func (s *ModuleConfigService) Resolve(ctx context.Context, projectId, moduleId string) (*moduleconfig.ModuleConfig, error) {
	return s.resolver.Resolve(ctx, projectId, moduleId)
}

// Create validates and persists a new config document. An existing live
// document for the same scope is rejected; edits go through Update.
func (s *ModuleConfigService) Create(ctx context.Context, req *moduleconfig.CreateModuleConfigRequest) (*moduleconfig.ModuleConfig, error) {
	if req.ModuleId == "" {
		return nil, fmt.Errorf("moduleId is required")
	}

	raw, err := moduleconfig.EncodeFields(req.Fields)
	if err != nil {
		return nil, err
	}

	if _, err := s.lookupScope(ctx, req.ModuleId, req.ProjectId); err == nil {
		return nil, fmt.Errorf("module config already exists for module %s project %q", req.ModuleId, req.ProjectId)
	}

	cfg := &moduleconfig.ModuleConfig{
		ConfigId:  id.GetUUID(),
		ModuleId:  req.ModuleId,
		ProjectId: req.ProjectId,
		Version:   1,
		Fields:    raw,
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, cfg); err != nil {
		return nil, err
	}

	s.resolver.Invalidate(ctx, req.ProjectId, req.ModuleId)
	log.Infow("module config created",
		"configId", cfg.ConfigId,
		"moduleId", cfg.ModuleId,
		"projectId", cfg.ProjectId,
	)
	return cfg, nil
}

// Update replaces the field definitions of an existing config.
func (s *ModuleConfigService) Update(ctx context.Context, configId string, req *moduleconfig.UpdateModuleConfigRequest) error {
	cfg, err := s.repo.GetByConfigId(ctx, configId)
	if err != nil {
		return err
	}

	raw, err := moduleconfig.EncodeFields(req.Fields)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateFields(ctx, configId, raw); err != nil {
		return err
	}

	s.resolver.Invalidate(ctx, cfg.ProjectId, cfg.ModuleId)
	return nil
}

// Delete soft-deletes a config document.
func (s *ModuleConfigService) Delete(ctx context.Context, configId string) error {
	cfg, err := s.repo.GetByConfigId(ctx, configId)
	if err != nil {
		return err
	}

	if err := s.repo.SoftDelete(ctx, configId); err != nil {
		return err
	}

	s.resolver.Invalidate(ctx, cfg.ProjectId, cfg.ModuleId)
	log.Infow("module config deleted", "configId", configId)
	return nil
}

func (s *ModuleConfigService) Get(ctx context.Context, configId string) (*moduleconfig.ModuleConfig, error) {
	return s.repo.GetByConfigId(ctx, configId)
}

func (s *ModuleConfigService) ListByModule(ctx context.Context, moduleId string) ([]*moduleconfig.ModuleConfig, error) {
	return s.repo.ListByModule(ctx, moduleId)
}

func (s *ModuleConfigService) lookupScope(ctx context.Context, moduleId, projectId string) (*moduleconfig.ModuleConfig, error) {
	if projectId == "" {
		return s.repo.GetGlobal(ctx, moduleId)
	}
	return s.repo.GetByModuleAndProject(ctx, moduleId, projectId)
}

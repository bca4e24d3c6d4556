package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadfoundry/leadcore/internal/engine/model/accesscontrol"
	repo "github.com/leadfoundry/leadcore/internal/engine/repo/accesscontrol"
	"github.com/leadfoundry/leadcore/pkg/id"
	"github.com/leadfoundry/leadcore/pkg/log"
)

// AccessControlService owns the admin surface for access control documents
// and the get-or-create semantics for first access to a (project, channel)
// pair.
type AccessControlService struct {
	repo repo.IAccessControlRepository
}

func NewAccessControlService(r repo.IAccessControlRepository) *AccessControlService {
	return &AccessControlService{repo: r}
}

// Create validates and persists a new document. Documents with zero module
// configs are rejected outright.
func (s *AccessControlService) Create(ctx context.Context, req *accesscontrol.CreateAccessControlRequest) (*accesscontrol.AccessControl, error) {
	if req.ProjectId == "" || req.ChannelId == "" {
		return nil, fmt.Errorf("projectId and channelId are required")
	}

	raw, err := accesscontrol.EncodeModuleConfigs(req.ModuleConfigs)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByProjectAndChannel(ctx, req.ProjectId, req.ChannelId); err == nil {
		return nil, fmt.Errorf("access control document already exists for project %s channel %s", req.ProjectId, req.ChannelId)
	} else if !errors.Is(err, repo.ErrAccessDocNotFound) {
		return nil, err
	}

	doc := &accesscontrol.AccessControl{
		AccessId:      id.GetUUID(),
		ProjectId:     req.ProjectId,
		ChannelId:     req.ChannelId,
		ModuleConfigs: raw,
		CreatedBy:     req.CreatedBy,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	log.Infow("access control document created",
		"accessId", doc.AccessId,
		"projectId", doc.ProjectId,
		"channelId", doc.ChannelId,
	)
	return doc, nil
}

// GetOrCreate returns the document for the pair, creating it from the seed
// on first access. The seed must itself be a valid document.
func (s *AccessControlService) GetOrCreate(ctx context.Context, projectId, channelId string, seed []accesscontrol.ModuleRoleConfig, createdBy string) (*accesscontrol.AccessControl, error) {
	doc, err := s.repo.GetByProjectAndChannel(ctx, projectId, channelId)
	if err == nil {
		return doc, nil
	}
	if !errors.Is(err, repo.ErrAccessDocNotFound) {
		return nil, err
	}

	return s.Create(ctx, &accesscontrol.CreateAccessControlRequest{
		ProjectId:     projectId,
		ChannelId:     channelId,
		ModuleConfigs: seed,
		CreatedBy:     createdBy,
	})
}

func (s *AccessControlService) Get(ctx context.Context, projectId, channelId string) (*accesscontrol.AccessControl, error) {
	return s.repo.GetByProjectAndChannel(ctx, projectId, channelId)
}

// Update replaces or merges the module configs of an existing document. With
// Merge set, modules absent from the request keep their stored toggles.
func (s *AccessControlService) Update(ctx context.Context, accessId string, req *accesscontrol.UpdateAccessControlRequest) error {
	doc, err := s.repo.GetByAccessId(ctx, accessId)
	if err != nil {
		return err
	}

	next := req.ModuleConfigs
	if req.Merge {
		current, dErr := doc.DecodeModuleConfigs()
		if dErr != nil {
			return dErr
		}
		next = mergeModuleConfigs(current, req.ModuleConfigs)
	}

	raw, err := accesscontrol.EncodeModuleConfigs(next)
	if err != nil {
		return err
	}
	return s.repo.UpdateModuleConfigs(ctx, accessId, raw)
}

func (s *AccessControlService) Delete(ctx context.Context, accessId string) error {
	return s.repo.SoftDelete(ctx, accessId)
}

// mergeModuleConfigs overlays incoming module entries onto current ones,
// keeping the stored order for untouched modules.
func mergeModuleConfigs(current, incoming []accesscontrol.ModuleRoleConfig) []accesscontrol.ModuleRoleConfig {
	byModule := make(map[string]int, len(current))
	merged := make([]accesscontrol.ModuleRoleConfig, len(current))
	copy(merged, current)
	for i, mc := range merged {
		byModule[mc.ModuleId] = i
	}

	for _, mc := range incoming {
		if i, ok := byModule[mc.ModuleId]; ok {
			merged[i] = mc
			continue
		}
		byModule[mc.ModuleId] = len(merged)
		merged = append(merged, mc)
	}
	return merged
}

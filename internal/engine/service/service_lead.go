package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/leadfoundry/leadcore/internal/engine/core/resolve"
	"github.com/leadfoundry/leadcore/internal/engine/core/status"
	"github.com/leadfoundry/leadcore/internal/engine/metrics"
	"github.com/leadfoundry/leadcore/internal/engine/model/lead"
	repo "github.com/leadfoundry/leadcore/internal/engine/repo/lead"
	"github.com/leadfoundry/leadcore/pkg/id"
	"github.com/leadfoundry/leadcore/pkg/log"
)

// LeadService owns lead intake and the disposition-change flow that drives
// status bucket resolution.
type LeadService struct {
	repo    repo.ILeadRepository
	configs *ModuleConfigService
}

func NewLeadService(r repo.ILeadRepository, configs *ModuleConfigService) *LeadService {
	return &LeadService{
		repo:    r,
		configs: configs,
	}
}

func (s *LeadService) Create(ctx context.Context, req *lead.CreateLeadRequest) (*lead.Lead, error) {
	if req.ProjectId == "" || req.ModuleId == "" {
		return nil, fmt.Errorf("projectId and moduleId are required")
	}

	l := &lead.Lead{
		LeadId:    id.GetUUID(),
		LeadCode:  id.ShortId(),
		ProjectId: req.ProjectId,
		ChannelId: req.ChannelId,
		ModuleId:  req.ModuleId,
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedBy: req.CreatedBy,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *LeadService) Get(ctx context.Context, leadId string) (*lead.Lead, error) {
	return s.repo.GetByLeadId(ctx, leadId)
}

func (s *LeadService) ListByProject(ctx context.Context, projectId, bucket string) ([]*lead.Lead, error) {
	return s.repo.ListByProject(ctx, projectId, bucket)
}

// UpdateDisposition stores the new triple and recomputes the status bucket.
// An unresolved bucket is a normal outcome (missing config, unknown triple):
// the stored bucket stays as it was and only the triple changes.
func (s *LeadService) UpdateDisposition(ctx context.Context, leadId string, req *lead.UpdateDispositionRequest) (*lead.Lead, error) {
	l, err := s.repo.GetByLeadId(ctx, leadId)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"progress":        req.Progress,
		"disposition":     req.Disposition,
		"sub_disposition": req.SubDisposition,
	}

	bucket, ok := s.resolveBucket(ctx, l.ProjectId, l.ModuleId, req)
	if ok {
		updates["bucket"] = bucket
	}

	if err := s.repo.UpdateDisposition(ctx, leadId, updates); err != nil {
		return nil, err
	}
	return s.repo.GetByLeadId(ctx, leadId)
}

func (s *LeadService) resolveBucket(ctx context.Context, projectId, moduleId string, req *lead.UpdateDispositionRequest) (string, bool) {
	cfg, err := s.configs.Resolve(ctx, projectId, moduleId)
	if err != nil {
		if errors.Is(err, resolve.ErrConfigNotFound) {
			log.Debugw("no module config for scope, leaving bucket unchanged",
				"projectId", projectId,
				"moduleId", moduleId,
			)
		} else {
			log.Errorw("module config resolution failed",
				"projectId", projectId,
				"moduleId", moduleId,
				"error", err,
			)
		}
		metrics.StatusResolutions.WithLabelValues(moduleId, "unresolved").Inc()
		return "", false
	}

	fields, err := cfg.DecodeFields()
	if err != nil {
		log.Errorw("undecodable module config", "configId", cfg.ConfigId, "error", err)
		metrics.StatusResolutions.WithLabelValues(moduleId, "unresolved").Inc()
		return "", false
	}

	bucket, ok := status.DetermineBucket(fields, req.Progress, req.Disposition, req.SubDisposition)
	outcome := "unresolved"
	if ok {
		outcome = "resolved"
	}
	metrics.StatusResolutions.WithLabelValues(moduleId, outcome).Inc()
	return bucket, ok
}

package service

import (
	"context"
	"errors"

	coreaccess "github.com/leadfoundry/leadcore/internal/engine/core/access"
	corepermission "github.com/leadfoundry/leadcore/internal/engine/core/permission"
	"github.com/leadfoundry/leadcore/internal/engine/metrics"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	acrepo "github.com/leadfoundry/leadcore/internal/engine/repo/accesscontrol"
	"github.com/leadfoundry/leadcore/pkg/log"
)

// AuthCheck is one authorization request: a role acting on a resource inside
// a project+channel+module scope.
type AuthCheck struct {
	RoleId     string
	ProjectId  string
	ChannelId  string
	ModuleId   string
	ResourceId string
	Action     permission.Action
	Context    map[string]string
}

// AuthService combines the module enablement gate with fine-grained rule
// evaluation. A missing access document, a disabled toggle and a NoMatch
// evaluation all land on deny: nothing is granted without explicit
// configuration.
type AuthService struct {
	acRepo acrepo.IAccessControlRepository
	rules  *PermissionRuleService
}

func NewAuthService(acRepo acrepo.IAccessControlRepository, rules *PermissionRuleService) *AuthService {
	return &AuthService{
		acRepo: acRepo,
		rules:  rules,
	}
}

// IsModuleEnabled runs only the access toggle gate.
func (s *AuthService) IsModuleEnabled(ctx context.Context, projectId, channelId, moduleId, roleId string) (bool, error) {
	doc, err := s.acRepo.GetByProjectAndChannel(ctx, projectId, channelId)
	if err != nil {
		if errors.Is(err, acrepo.ErrAccessDocNotFound) {
			metrics.AccessDecisions.WithLabelValues(moduleId, "disabled").Inc()
			return false, nil
		}
		return false, err
	}

	configs, err := doc.DecodeModuleConfigs()
	if err != nil {
		// A document that cannot be decoded grants nothing.
		log.Errorw("undecodable access control document", "accessId", doc.AccessId, "error", err)
		metrics.AccessDecisions.WithLabelValues(moduleId, "disabled").Inc()
		return false, nil
	}

	enabled := coreaccess.IsEnabled(configs, moduleId, roleId)
	result := "disabled"
	if enabled {
		result = "enabled"
	}
	metrics.AccessDecisions.WithLabelValues(moduleId, result).Inc()
	return enabled, nil
}

// Authorize runs the full check: module gate first, then rule evaluation.
// The decision is returned alongside the boolean so callers can distinguish
// an explicit deny from an unconfigured NoMatch.
func (s *AuthService) Authorize(ctx context.Context, check AuthCheck) (bool, corepermission.Decision, error) {
	enabled, err := s.IsModuleEnabled(ctx, check.ProjectId, check.ChannelId, check.ModuleId, check.RoleId)
	if err != nil {
		return false, corepermission.NoMatch, err
	}
	if !enabled {
		log.Debugw("authorization denied: module disabled",
			"roleId", check.RoleId,
			"moduleId", check.ModuleId,
		)
		return false, corepermission.Deny, nil
	}

	inputs, err := s.rules.ActiveInputsByRole(ctx, check.RoleId)
	if err != nil {
		return false, corepermission.NoMatch, err
	}

	decision := corepermission.Evaluate(inputs, check.ResourceId, check.Action, check.Context)
	metrics.PermissionDecisions.WithLabelValues(decision.String()).Inc()

	// NoMatch defaults to deny here: this service is the route-guard
	// posture, not the engine.
	allowed := decision == corepermission.Allow
	if !allowed {
		log.Debugw("authorization denied",
			"roleId", check.RoleId,
			"resourceId", check.ResourceId,
			"action", check.Action,
			"decision", decision.String(),
		)
	}
	return allowed, decision, nil
}

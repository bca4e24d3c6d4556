package service

import (
	"context"
	"encoding/json"
	"fmt"

	corepermission "github.com/leadfoundry/leadcore/internal/engine/core/permission"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	repo "github.com/leadfoundry/leadcore/internal/engine/repo/permission"
	"github.com/leadfoundry/leadcore/pkg/id"
	"github.com/leadfoundry/leadcore/pkg/log"
	"gorm.io/datatypes"
)

// PermissionRuleService owns the admin CRUD surface for permission rules and
// decodes stored rules into evaluator inputs.
type PermissionRuleService struct {
	repo repo.IPermissionRuleRepository
}

func NewPermissionRuleService(r repo.IPermissionRuleRepository) *PermissionRuleService {
	return &PermissionRuleService{repo: r}
}

// Create validates and persists a rule. The (role, resource, action, effect)
// tuple must be free: a resource may hold one allow and one deny for the
// same action, never two rules of the same effect.
func (s *PermissionRuleService) Create(ctx context.Context, req *permission.CreateRuleRequest) (*permission.Rule, error) {
	status := req.Status
	if status == "" {
		status = permission.RuleActive
	}

	rule := &permission.Rule{
		RuleId:     id.GetUUID(),
		RoleId:     req.RoleId,
		ResourceId: req.ResourceId,
		Action:     req.Action,
		Effect:     req.Effect,
		Status:     status,
		CreatedBy:  req.CreatedBy,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if len(req.Conditions) > 0 {
		raw, err := json.Marshal(req.Conditions)
		if err != nil {
			return nil, fmt.Errorf("encode conditions: %w", err)
		}
		rule.Conditions = datatypes.JSON(raw)
	}

	exists, err := s.repo.ExistsTuple(ctx, req.RoleId, req.ResourceId, req.Action, req.Effect)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("rule already exists for resource %s action %s effect %s", req.ResourceId, req.Action, req.Effect)
	}

	if err := s.repo.Create(ctx, rule); err != nil {
		return nil, err
	}

	log.Infow("permission rule created",
		"ruleId", rule.RuleId,
		"roleId", rule.RoleId,
		"resourceId", rule.ResourceId,
		"action", rule.Action,
		"effect", rule.Effect,
	)
	return rule, nil
}

func (s *PermissionRuleService) Update(ctx context.Context, ruleId string, req *permission.UpdateRuleRequest) error {
	rule, err := s.repo.GetByRuleId(ctx, ruleId)
	if err != nil {
		return err
	}

	status := req.Status
	if status == "" {
		status = rule.Status
	}
	if status != permission.RuleActive && status != permission.RuleInactive {
		return fmt.Errorf("unknown status %q", status)
	}

	conditions := rule.Conditions
	if req.Conditions != nil {
		raw, mErr := json.Marshal(req.Conditions)
		if mErr != nil {
			return fmt.Errorf("encode conditions: %w", mErr)
		}
		conditions = datatypes.JSON(raw)
	}

	return s.repo.Update(ctx, ruleId, conditions, status)
}

func (s *PermissionRuleService) Delete(ctx context.Context, ruleId string) error {
	return s.repo.SoftDelete(ctx, ruleId)
}

func (s *PermissionRuleService) Get(ctx context.Context, ruleId string) (*permission.Rule, error) {
	return s.repo.GetByRuleId(ctx, ruleId)
}

func (s *PermissionRuleService) ListByRole(ctx context.Context, roleId string) ([]*permission.Rule, error) {
	return s.repo.ListByRole(ctx, roleId)
}

// ActiveInputsByRole loads and decodes the role's active rules into
// evaluator inputs. A rule with a corrupt condition map makes the whole set
// unevaluable: skipping it would drop a deny rule and quietly widen access,
// so the error is surfaced and the caller denies.
func (s *PermissionRuleService) ActiveInputsByRole(ctx context.Context, roleId string) ([]corepermission.Input, error) {
	rules, err := s.repo.ListActiveByRole(ctx, roleId)
	if err != nil {
		return nil, err
	}

	inputs := make([]corepermission.Input, 0, len(rules))
	for _, r := range rules {
		conditions, dErr := r.DecodeConditions()
		if dErr != nil {
			log.Errorw("rule has undecodable conditions", "ruleId", r.RuleId, "roleId", roleId, "error", dErr)
			return nil, fmt.Errorf("rule %s: %w", r.RuleId, dErr)
		}
		inputs = append(inputs, corepermission.Input{
			ResourceId: r.ResourceId,
			Action:     r.Action,
			Effect:     r.Effect,
			Conditions: conditions,
			Status:     r.Status,
		})
	}
	return inputs, nil
}

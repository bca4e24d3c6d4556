package service

import (
	"context"
	"os"
	"testing"

	corepermission "github.com/leadfoundry/leadcore/internal/engine/core/permission"
	"github.com/leadfoundry/leadcore/internal/engine/model/accesscontrol"
	"github.com/leadfoundry/leadcore/internal/engine/model/permission"
	acrepo "github.com/leadfoundry/leadcore/internal/engine/repo/accesscontrol"
	permrepo "github.com/leadfoundry/leadcore/internal/engine/repo/permission"
	"github.com/leadfoundry/leadcore/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestMain(m *testing.M) {
	log.MustInit(log.SetDefaults())
	os.Exit(m.Run())
}

// fakeAccessRepo serves one document per (project, channel) pair.
type fakeAccessRepo struct {
	docs map[string]*accesscontrol.AccessControl
}

func (f *fakeAccessRepo) Create(_ context.Context, doc *accesscontrol.AccessControl) error {
	f.docs[doc.ProjectId+":"+doc.ChannelId] = doc
	return nil
}

func (f *fakeAccessRepo) GetByProjectAndChannel(_ context.Context, projectId, channelId string) (*accesscontrol.AccessControl, error) {
	if doc, ok := f.docs[projectId+":"+channelId]; ok {
		return doc, nil
	}
	return nil, acrepo.ErrAccessDocNotFound
}

func (f *fakeAccessRepo) GetByAccessId(_ context.Context, accessId string) (*accesscontrol.AccessControl, error) {
	for _, doc := range f.docs {
		if doc.AccessId == accessId {
			return doc, nil
		}
	}
	return nil, acrepo.ErrAccessDocNotFound
}

func (f *fakeAccessRepo) UpdateModuleConfigs(_ context.Context, accessId string, moduleConfigs datatypes.JSON) error {
	for _, doc := range f.docs {
		if doc.AccessId == accessId {
			doc.ModuleConfigs = moduleConfigs
			return nil
		}
	}
	return acrepo.ErrAccessDocNotFound
}

func (f *fakeAccessRepo) SoftDelete(_ context.Context, accessId string) error {
	for key, doc := range f.docs {
		if doc.AccessId == accessId {
			delete(f.docs, key)
			return nil
		}
	}
	return acrepo.ErrAccessDocNotFound
}

// fakeRuleRepo holds rules in memory; only ListActiveByRole filters.
type fakeRuleRepo struct {
	rules []*permission.Rule
}

func (f *fakeRuleRepo) Create(_ context.Context, rule *permission.Rule) error {
	f.rules = append(f.rules, rule)
	return nil
}

func (f *fakeRuleRepo) Update(_ context.Context, ruleId string, conditions datatypes.JSON, status permission.RuleStatus) error {
	for _, r := range f.rules {
		if r.RuleId == ruleId {
			r.Conditions = conditions
			r.Status = status
			return nil
		}
	}
	return permrepo.ErrRuleNotFound
}

func (f *fakeRuleRepo) SoftDelete(_ context.Context, ruleId string) error {
	for _, r := range f.rules {
		if r.RuleId == ruleId {
			r.IsDeleted = 1
			return nil
		}
	}
	return permrepo.ErrRuleNotFound
}

func (f *fakeRuleRepo) GetByRuleId(_ context.Context, ruleId string) (*permission.Rule, error) {
	for _, r := range f.rules {
		if r.RuleId == ruleId && r.IsDeleted == 0 {
			return r, nil
		}
	}
	return nil, permrepo.ErrRuleNotFound
}

func (f *fakeRuleRepo) ListByRole(_ context.Context, roleId string) ([]*permission.Rule, error) {
	var out []*permission.Rule
	for _, r := range f.rules {
		if r.RoleId == roleId && r.IsDeleted == 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) ListActiveByRole(_ context.Context, roleId string) ([]*permission.Rule, error) {
	var out []*permission.Rule
	for _, r := range f.rules {
		if r.RoleId == roleId && r.Status == permission.RuleActive && r.IsDeleted == 0 {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRuleRepo) ExistsTuple(_ context.Context, roleId, resourceId string, action permission.Action, effect permission.Effect) (bool, error) {
	for _, r := range f.rules {
		if r.RoleId == roleId && r.ResourceId == resourceId && r.Action == action && r.Effect == effect && r.IsDeleted == 0 {
			return true, nil
		}
	}
	return false, nil
}

func accessDoc(t *testing.T, projectId, channelId string, configs []accesscontrol.ModuleRoleConfig) *accesscontrol.AccessControl {
	t.Helper()
	raw, err := accesscontrol.EncodeModuleConfigs(configs)
	require.NoError(t, err)
	return &accesscontrol.AccessControl{
		AccessId:      "ac-" + projectId + "-" + channelId,
		ProjectId:     projectId,
		ChannelId:     channelId,
		ModuleConfigs: raw,
	}
}

func newAuthUnderTest(t *testing.T) (*AuthService, *fakeAccessRepo, *fakeRuleRepo) {
	t.Helper()
	accessRepo := &fakeAccessRepo{docs: map[string]*accesscontrol.AccessControl{}}
	ruleRepo := &fakeRuleRepo{}
	return NewAuthService(accessRepo, NewPermissionRuleService(ruleRepo)), accessRepo, ruleRepo
}

func TestIsModuleEnabled(t *testing.T) {
	auth, accessRepo, _ := newAuthUnderTest(t)
	ctx := context.Background()

	doc := accessDoc(t, "p1", "web", []accesscontrol.ModuleRoleConfig{
		{
			ModuleId: "leads",
			RoleConfigs: []accesscontrol.RoleToggle{
				{RoleId: "agent", Status: true},
				{RoleId: "viewer", Status: false},
			},
		},
	})
	require.NoError(t, accessRepo.Create(ctx, doc))

	enabled, err := auth.IsModuleEnabled(ctx, "p1", "web", "leads", "agent")
	require.NoError(t, err)
	assert.True(t, enabled)

	enabled, err = auth.IsModuleEnabled(ctx, "p1", "web", "leads", "viewer")
	require.NoError(t, err)
	assert.False(t, enabled, "explicitly disabled toggle")

	enabled, err = auth.IsModuleEnabled(ctx, "p1", "web", "reports", "agent")
	require.NoError(t, err)
	assert.False(t, enabled, "module absent from document")

	enabled, err = auth.IsModuleEnabled(ctx, "p1", "ivr", "leads", "agent")
	require.NoError(t, err)
	assert.False(t, enabled, "missing document fails closed, not with an error")
}

func TestIsModuleEnabledUndecodableDocument(t *testing.T) {
	auth, accessRepo, _ := newAuthUnderTest(t)
	ctx := context.Background()

	accessRepo.docs["p1:web"] = &accesscontrol.AccessControl{
		AccessId:      "ac-broken",
		ProjectId:     "p1",
		ChannelId:     "web",
		ModuleConfigs: []byte("[not json"),
	}

	enabled, err := auth.IsModuleEnabled(ctx, "p1", "web", "leads", "agent")
	require.NoError(t, err)
	assert.False(t, enabled, "undecodable document grants nothing")
}

func TestAuthorize(t *testing.T) {
	auth, accessRepo, ruleRepo := newAuthUnderTest(t)
	ctx := context.Background()

	doc := accessDoc(t, "p1", "web", []accesscontrol.ModuleRoleConfig{
		{
			ModuleId: "leads",
			RoleConfigs: []accesscontrol.RoleToggle{
				{RoleId: "agent", Status: true},
			},
		},
	})
	require.NoError(t, accessRepo.Create(ctx, doc))

	ruleRepo.rules = []*permission.Rule{
		{RuleId: "r1", RoleId: "agent", ResourceId: "leads", Action: permission.ActionView, Effect: permission.EffectAllow, Status: permission.RuleActive},
		{RuleId: "r2", RoleId: "agent", ResourceId: "leads", Action: permission.ActionDelete, Effect: permission.EffectDeny, Status: permission.RuleActive},
	}

	check := AuthCheck{
		RoleId:     "agent",
		ProjectId:  "p1",
		ChannelId:  "web",
		ModuleId:   "leads",
		ResourceId: "leads",
		Action:     permission.ActionView,
	}

	allowed, decision, err := auth.Authorize(ctx, check)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, corepermission.Allow, decision)

	check.Action = permission.ActionDelete
	allowed, decision, err = auth.Authorize(ctx, check)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, corepermission.Deny, decision)

	// No rule covers edit: NoMatch, denied at this layer.
	check.Action = permission.ActionEdit
	allowed, decision, err = auth.Authorize(ctx, check)
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, corepermission.NoMatch, decision)
}

func TestAuthorizeModuleGateRunsFirst(t *testing.T) {
	auth, _, ruleRepo := newAuthUnderTest(t)
	ctx := context.Background()

	// A permissive rule exists, but no access document enables the module.
	ruleRepo.rules = []*permission.Rule{
		{RuleId: "r1", RoleId: "agent", ResourceId: "leads", Action: permission.ActionAll, Effect: permission.EffectAllow, Status: permission.RuleActive},
	}

	allowed, decision, err := auth.Authorize(ctx, AuthCheck{
		RoleId:     "agent",
		ProjectId:  "p1",
		ChannelId:  "web",
		ModuleId:   "leads",
		ResourceId: "leads",
		Action:     permission.ActionView,
	})
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, corepermission.Deny, decision, "disabled module must deny before rules are consulted")
}

func TestActiveInputsCorruptConditionsFailClosed(t *testing.T) {
	_, _, ruleRepo := newAuthUnderTest(t)
	svc := NewPermissionRuleService(ruleRepo)
	ctx := context.Background()

	ruleRepo.rules = []*permission.Rule{
		{RuleId: "r1", RoleId: "agent", ResourceId: "leads", Action: permission.ActionView, Effect: permission.EffectAllow, Status: permission.RuleActive, Conditions: []byte("{broken")},
		{RuleId: "r2", RoleId: "agent", ResourceId: "leads", Action: permission.ActionEdit, Effect: permission.EffectAllow, Status: permission.RuleActive},
	}

	inputs, err := svc.ActiveInputsByRole(ctx, "agent")
	assert.Error(t, err, "a corrupt rule makes the role's rule set unevaluable")
	assert.Nil(t, inputs)
}

func TestAuthorizeCorruptDenyRuleDenies(t *testing.T) {
	auth, accessRepo, ruleRepo := newAuthUnderTest(t)
	ctx := context.Background()

	doc := accessDoc(t, "p1", "web", []accesscontrol.ModuleRoleConfig{
		{
			ModuleId: "leads",
			RoleConfigs: []accesscontrol.RoleToggle{
				{RoleId: "agent", Status: true},
			},
		},
	})
	require.NoError(t, accessRepo.Create(ctx, doc))

	// A broad allow plus a deny whose conditions no longer decode. If the
	// deny were skipped, the role would silently keep the broad allow.
	ruleRepo.rules = []*permission.Rule{
		{RuleId: "r1", RoleId: "agent", ResourceId: "leads", Action: permission.ActionAll, Effect: permission.EffectAllow, Status: permission.RuleActive},
		{RuleId: "r2", RoleId: "agent", ResourceId: "leads", Action: permission.ActionDelete, Effect: permission.EffectDeny, Status: permission.RuleActive, Conditions: []byte("{broken")},
	}

	allowed, _, err := auth.Authorize(ctx, AuthCheck{
		RoleId:     "agent",
		ProjectId:  "p1",
		ChannelId:  "web",
		ModuleId:   "leads",
		ResourceId: "leads",
		Action:     permission.ActionDelete,
	})
	assert.Error(t, err)
	assert.False(t, allowed, "an unevaluable rule set must not widen access")
}

func TestCreateRuleRejectsDuplicateTuple(t *testing.T) {
	_, _, ruleRepo := newAuthUnderTest(t)
	svc := NewPermissionRuleService(ruleRepo)
	ctx := context.Background()

	req := &permission.CreateRuleRequest{
		RoleId:     "agent",
		ResourceId: "leads",
		Action:     permission.ActionView,
		Effect:     permission.EffectAllow,
	}

	first, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.NotEmpty(t, first.RuleId)
	assert.Equal(t, permission.RuleActive, first.Status, "status defaults to active")

	_, err = svc.Create(ctx, req)
	assert.Error(t, err, "same (role, resource, action, effect) tuple must be rejected")

	// The opposite effect on the same action is a different tuple.
	deny := *req
	deny.Effect = permission.EffectDeny
	_, err = svc.Create(ctx, &deny)
	assert.NoError(t, err)
}

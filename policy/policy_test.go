package policy

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestPolicy_Check(t *testing.T) {
	type testCase struct {
		name        string
		policy      *Policy
		operation   string
		expectedErr error
	}

	confirm := func(answer bool) AskFunc {
		return func(ctx context.Context, operation, subject string, p *Policy) bool { return answer }
	}

	tests := []testCase{
		{name: "nil policy", policy: nil, operation: "approve-new-job-posting"},
		{name: "auto", policy: &Policy{Mode: ModeAuto}, operation: "approve-new-job-posting"},
		{name: "deny", policy: &Policy{Mode: ModeDeny}, operation: "approve-new-job-posting", expectedErr: ErrBlocked},
		{name: "blocked case insensitive", policy: &Policy{BlockList: []string{"Reject-New-Job-Posting"}}, operation: "reject-new-job-posting", expectedErr: ErrBlocked},
		{name: "not in allow list", policy: &Policy{AllowList: []string{"mark-job-premium"}}, operation: "approve-edited-job", expectedErr: ErrBlocked},
		{name: "block beats allow", policy: &Policy{AllowList: []string{"mark-job-premium"}, BlockList: []string{"mark-job-premium"}}, operation: "mark-job-premium", expectedErr: ErrBlocked},
		{name: "ask confirmed", policy: &Policy{Mode: ModeAsk, Ask: confirm(true)}, operation: "approve-edited-job"},
		{name: "ask declined", policy: &Policy{Mode: ModeAsk, Ask: confirm(false)}, operation: "approve-edited-job", expectedErr: ErrDeclined},
		{name: "ask without prompt", policy: &Policy{Mode: ModeAsk}, operation: "approve-edited-job", expectedErr: ErrDeclined},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Check(context.Background(), tc.operation, "task 1")
			if tc.expectedErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tc.expectedErr), err)
		})
	}
}

func TestPolicy_AskMayMutate(t *testing.T) {
	asked := 0
	p := &Policy{Mode: ModeAsk, Ask: func(ctx context.Context, operation, subject string, p *Policy) bool {
		asked++
		p.Mode = ModeAuto
		return true
	}}
	assert.NoError(t, p.Check(context.Background(), "approve-edited-job", "task 1"))
	assert.NoError(t, p.Check(context.Background(), "approve-edited-job", "task 2"))
	assert.Equal(t, 1, asked)
}

func TestConfig(t *testing.T) {
	cfg := &Config{Mode: "ASK", AllowList: []string{"a"}, BlockList: []string{"b"}}
	assert.NoError(t, cfg.Validate())
	p := FromConfig(cfg)
	assert.Equal(t, ModeAsk, p.Mode)
	assert.Equal(t, &Config{Mode: ModeAsk, AllowList: []string{"a"}, BlockList: []string{"b"}}, ToConfig(p))
	assert.Nil(t, FromConfig(nil))
	assert.Nil(t, ToConfig(nil))
	assert.Error(t, (&Config{Mode: "maybe"}).Validate())
}

func TestContext(t *testing.T) {
	p := &Policy{Mode: ModeDeny}
	ctx := WithPolicy(context.Background(), p)
	assert.Same(t, p, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}

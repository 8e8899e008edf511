package rotator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noon-labs/namecycler/common"
	"github.com/noon-labs/namecycler/telegram"
)

// PrimaryPath is the structured rename call.
type PrimaryPath interface {
	SetBusinessAccountName(ctx context.Context, params telegram.SetBusinessAccountNameParams) (bool, error)
}

// SecondaryPath is the raw HTTP rename call; it returns the reply body.
type SecondaryPath interface {
	PostSetBusinessAccountName(ctx context.Context, connectionID, name string) ([]byte, error)
}

// Attempt records one candidate name pushed through the setter.
type Attempt struct {
	ID           string
	ConnectionID string
	Name         string
	Primary      common.Outcome
	Secondary    *common.Outcome
	StartedAt    time.Time
	Duration     time.Duration
}

// Outcomes lists the path outcomes in the order they were tried.
func (a Attempt) Outcomes() []common.Outcome {
	if a.Secondary == nil {
		return []common.Outcome{a.Primary}
	}
	return []common.Outcome{a.Primary, *a.Secondary}
}

// Result folds both paths into one outcome: success if either path
// succeeded, rate limited if either path was throttled.
func (a Attempt) Result() common.Outcome {
	outcomes := a.Outcomes()

	cause := common.CauseOther
	details := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			return o
		}
		if o.RateLimited() {
			cause = common.CauseRateLimited
		}
		details = append(details, o.Path+": "+o.Detail)
	}

	last := outcomes[len(outcomes)-1]
	return common.Failure(last.Path, cause, strings.Join(details, "; "))
}

func (a Attempt) OK() bool {
	return a.Result().OK()
}

// Setter applies a name through the primary path and falls back to the
// secondary path whenever the primary does not succeed.
type Setter struct {
	primary   PrimaryPath
	secondary SecondaryPath
	logger    common.Logger
}

func NewSetter(primary PrimaryPath, secondary SecondaryPath, logger common.Logger) *Setter {
	return &Setter{
		primary:   primary,
		secondary: secondary,
		logger:    common.OrNop(logger),
	}
}

// Apply tries name on both paths. An empty connectionID is rejected with
// ErrNoConnection before either path is called.
func (s *Setter) Apply(ctx context.Context, connectionID, name string) Attempt {
	a := Attempt{
		ID:           uuid.NewString(),
		ConnectionID: connectionID,
		Name:         name,
		StartedAt:    time.Now(),
	}

	if connectionID == "" {
		s.logger.Warn("Rename skipped", "attemptId", a.ID, "error", common.ErrNoConnection)
		a.Primary = common.Failure(common.PathPrimary, common.CauseOther, common.ErrNoConnection.Error())
		return a
	}

	a.Primary = s.tryPrimary(ctx, a.ID, connectionID, name)
	if a.Primary.OK() {
		a.Duration = time.Since(a.StartedAt)
		return a
	}

	if err := ctx.Err(); err != nil {
		skipped := common.Failure(common.PathSecondary, common.CauseOther, "skipped: "+err.Error())
		a.Secondary = &skipped
		a.Duration = time.Since(a.StartedAt)
		return a
	}

	secondary := s.trySecondary(ctx, a.ID, connectionID, name)
	a.Secondary = &secondary
	a.Duration = time.Since(a.StartedAt)
	return a
}

func (s *Setter) tryPrimary(ctx context.Context, attemptID, connectionID, name string) common.Outcome {
	ok, err := s.primary.SetBusinessAccountName(ctx, telegram.SetBusinessAccountNameParams{
		BusinessConnectionID: connectionID,
		FirstName:            name,
		Name:                 name,
	})

	switch {
	case err == nil && ok:
		s.logger.Info("Renamed via primary path", "attemptId", attemptID, "name", name)
		return common.Success(common.PathPrimary)

	case err == nil:
		s.logger.Error("Primary path returned no result", "attemptId", attemptID, "name", name)
		return common.Failure(common.PathPrimary, common.CauseOther, "empty result")
	}

	cause := common.ClassifyError(err)
	if cause == common.CauseRateLimited {
		s.logger.Warn("Primary path rate limited", "attemptId", attemptID, "error", err)
	} else {
		s.logger.Error("Primary path failed", "attemptId", attemptID, "error", err)
	}
	return common.Failure(common.PathPrimary, cause, err.Error())
}

func (s *Setter) trySecondary(ctx context.Context, attemptID, connectionID, name string) common.Outcome {
	body, err := s.secondary.PostSetBusinessAccountName(ctx, connectionID, name)
	if err != nil {
		cause := common.ClassifyError(err)
		if cause == common.CauseRateLimited {
			s.logger.Warn("Secondary path rate limited", "attemptId", attemptID, "error", err)
		} else {
			s.logger.Error("Secondary path failed", "attemptId", attemptID, "error", err)
		}
		return common.Failure(common.PathSecondary, cause, err.Error())
	}

	raw := string(body)
	s.logger.Info("Secondary path replied", "attemptId", attemptID, "response", raw)

	var reply struct {
		OK bool `json:"ok"`
	}
	if err := json.Unmarshal(body, &reply); err == nil && reply.OK {
		s.logger.Info("Renamed via secondary path", "attemptId", attemptID, "name", name)
		return common.Success(common.PathSecondary)
	}

	cause := common.ClassifyText(raw)
	if cause == common.CauseRateLimited {
		s.logger.Warn("Secondary path rate limited", "attemptId", attemptID)
	} else {
		s.logger.Error("Secondary path rejected rename", "attemptId", attemptID, "response", raw)
	}
	return common.Failure(common.PathSecondary, cause, raw)
}

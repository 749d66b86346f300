package service

import (
	"context"
	"time"

	"ordersnag/internal/core/notif"
	"ordersnag/internal/core/scoring"
	"ordersnag/internal/platform/logger"
	insdom "ordersnag/internal/services/inspector/domain"
	outdom "ordersnag/internal/services/outcomes/domain"
	"ordersnag/internal/services/pipeline/domain"
	prdom "ordersnag/internal/services/prompts/domain"
)

// Executor drives one decision through inspection and action. Re-entrant per
// notification; every error becomes an outcome, nothing escapes to crash the
// pipeline
type Executor struct {
	inspector insdom.InspectorPort
	screen    insdom.ScreenPort
	confirm   prdom.ConfirmPort

	// ConfidenceFloor separates direct action from a confirmation prompt
	confidenceFloor float64
	// triggerDeadline bounds the physical trigger; the order-claim window
	// is seconds, a hung trigger must not pin a worker
	triggerDeadline time.Duration
}

// Result is the terminal state plus the outcome to record and the states
// visited along the way
type Result struct {
	Final   domain.State
	Trace   []domain.State
	Outcome outdom.ExecutionOutcome
}

// NewExecutor constructs an Executor
func NewExecutor(ins insdom.InspectorPort, screen insdom.ScreenPort, confirm prdom.ConfirmPort, floor float64, triggerDeadline time.Duration) *Executor {
	if floor <= 0 {
		floor = 0.7
	}
	if triggerDeadline <= 0 {
		triggerDeadline = 2 * time.Second
	}
	return &Executor{
		inspector:       ins,
		screen:          screen,
		confirm:         confirm,
		confidenceFloor: floor,
		triggerDeadline: triggerDeadline,
	}
}

// Execute runs the state machine for one scored notification
func (e *Executor) Execute(ctx context.Context, sig notif.OrderSignal, dec scoring.Decision) Result {
	r := Result{Final: domain.StateIdle, Trace: []domain.State{domain.StateIdle}}
	r.Outcome = outdom.ExecutionOutcome{
		NotificationID: sig.NotificationID,
		Platform:       sig.Platform,
		SourcePackage:  sig.SourcePackage,
		AmountCents:    sig.AmountCents,
		Verdict:        dec.Verdict,
		Scores:         dec.Scores,
	}

	// rejects bypass inspection entirely; nothing will be acted on
	if dec.Verdict == scoring.VerdictReject {
		r.Outcome.Path = outdom.PathRejected
		return e.finish(&r, domain.StateDone)
	}

	e.step(&r, domain.StateInspecting)
	ins, err := e.inspectWithRetry(ctx, sig.SourcePackage)
	if err != nil {
		r.Outcome.Path = outdom.PathInspectFailed
		r.Outcome.Reason = err.Error()
		return e.finish(&r, domain.StateFailed)
	}
	if !ins.Found {
		r.Outcome.Path = outdom.PathNoControl
		r.Outcome.Reason = "no accept control located"
		return e.finish(&r, domain.StateFailed)
	}

	if dec.Verdict == scoring.VerdictAutoAccept && ins.Confidence >= e.confidenceFloor {
		e.step(&r, domain.StateReady)
		return e.act(ctx, &r, sig, ins, outdom.PathAutoAccepted)
	}

	// ask-user verdicts and low-confidence matches go to the user surface
	e.step(&r, domain.StateAwaitingConfirmation)
	reply, err := e.confirm.Ask(ctx, prdom.Prompt{
		Platform:      sig.Platform,
		SourcePackage: sig.SourcePackage,
		AmountCents:   sig.AmountCents,
		Verdict:       dec.Verdict,
		Scores:        dec.Scores,
	})
	if err != nil && reply != prdom.ReplyTimedOut {
		reply = prdom.ReplyTimedOut
	}

	switch reply {
	case prdom.ReplyAccepted:
		return e.act(ctx, &r, sig, ins, outdom.PathUserAccepted)
	case prdom.ReplyRejected:
		r.Outcome.Path = outdom.PathUserRejected
		return e.finish(&r, domain.StateDone)
	default:
		r.Outcome.Path = outdom.PathConfirmTimeout
		r.Outcome.Reason = "no reply within the order expiry window"
		return e.finish(&r, domain.StateFailed)
	}
}

// act triggers the located control, retrying once through a forced
// re-inspection when the control went stale underneath us
func (e *Executor) act(ctx context.Context, r *Result, sig notif.OrderSignal, ins insdom.InspectionResult, path outdom.DecisionPath) Result {
	e.step(r, domain.StateExecuting)
	r.Outcome.Attempted = true
	r.Outcome.Path = path

	if e.trigger(ctx, ins) {
		r.Outcome.Succeeded = true
		return e.finish(r, domain.StateDone)
	}

	// stale control: bypass the cache, re-locate, try once more
	fresh, err := e.inspector.Inspect(ctx, sig.SourcePackage, true)
	if err == nil && fresh.Found && e.trigger(ctx, fresh) {
		r.Outcome.Succeeded = true
		return e.finish(r, domain.StateDone)
	}

	r.Outcome.Path = outdom.PathTriggerFailed
	r.Outcome.Reason = "trigger did not take effect"
	return e.finish(r, domain.StateFailed)
}

// trigger invokes the control under the trigger deadline. The inspector's
// locks are never held here; acquire, read, release, then act
func (e *Executor) trigger(ctx context.Context, ins insdom.InspectionResult) bool {
	tctx, cancel := context.WithTimeout(ctx, e.triggerDeadline)
	defer cancel()

	ok, err := e.screen.Trigger(tctx, ins.Target)
	if err != nil {
		logger.C(ctx).Debug().Err(err).Msg("trigger errored")
		return false
	}
	return ok
}

// inspectWithRetry retries a failed inspection once with a forced cache
// bypass before giving up
func (e *Executor) inspectWithRetry(ctx context.Context, pkg string) (insdom.InspectionResult, error) {
	ins, err := e.inspector.Inspect(ctx, pkg, false)
	if err == nil {
		return ins, nil
	}
	return e.inspector.Inspect(ctx, pkg, true)
}

func (e *Executor) step(r *Result, s domain.State) {
	r.Final = s
	r.Trace = append(r.Trace, s)
}

func (e *Executor) finish(r *Result, s domain.State) Result {
	e.step(r, s)
	return *r
}

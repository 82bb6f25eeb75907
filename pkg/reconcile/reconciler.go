package reconcile

import (
	"context"

	"github.com/namelessknight/autostartstop/internal/models"
	"github.com/namelessknight/autostartstop/pkg/schedule"
	"go.uber.org/zap"
)

// InstanceController is the compute-provider contract the reconciler
// drives. *aws.EC2Client implements it; tests substitute a fake.
type InstanceController interface {
	ListTaggedInstances(ctx context.Context, tagKey string) ([]models.InstanceRecord, error)
	StartInstance(ctx context.Context, id string) error
	StopInstance(ctx context.Context, id string) error
}

// Result records what happened to one instance during a reconcile pass
type Result struct {
	Instance models.InstanceRecord
	Action   schedule.ResolvedAction
	Err      error
}

// Summary aggregates one reconcile pass over the tagged fleet
type Summary struct {
	DefaultAction schedule.Action
	Results       []Result
	Started       int
	Stopped       int
	Skipped       int
	Failed        int
}

// FleetReconciler lists the tagged fleet and dispatches the resolved
// action for each instance
type FleetReconciler struct {
	controller InstanceController
	log        *zap.SugaredLogger
}

// NewFleetReconciler creates a FleetReconciler
func NewFleetReconciler(controller InstanceController, log *zap.SugaredLogger) *FleetReconciler {
	return &FleetReconciler{
		controller: controller,
		log:        log,
	}
}

// Reconcile evaluates every instance carrying tagKey against the default
// action and issues the resulting commands. A listing failure ends the
// pass quietly with an empty summary; a per-instance command failure is
// recorded and the remaining instances are still processed.
func (r *FleetReconciler) Reconcile(ctx context.Context, tagKey string, defaultAction schedule.Action) Summary {
	summary := Summary{DefaultAction: defaultAction}

	instances, err := r.controller.ListTaggedInstances(ctx, tagKey)
	if err != nil {
		r.log.Warnw("listing tagged instances failed, nothing to do this run",
			"tagKey", tagKey, "error", err)
		return summary
	}
	if len(instances) == 0 {
		r.log.Infow("no instances carry the scheduling tag", "tagKey", tagKey)
		return summary
	}

	for _, instance := range instances {
		action := schedule.ResolveInstanceAction(instance.TagValue, defaultAction)
		result := Result{Instance: instance, Action: action}

		switch action {
		case schedule.ResolvedStart:
			if err := r.controller.StartInstance(ctx, instance.ID); err != nil {
				result.Err = err
				summary.Failed++
				r.log.Errorw("start command failed",
					"instance", instance.ID, "error", err)
			} else {
				summary.Started++
				r.log.Infow("started instance",
					"instance", instance.ID, "name", instance.Name(), "tagValue", instance.TagValue)
			}
		case schedule.ResolvedStop:
			if err := r.controller.StopInstance(ctx, instance.ID); err != nil {
				result.Err = err
				summary.Failed++
				r.log.Errorw("stop command failed",
					"instance", instance.ID, "error", err)
			} else {
				summary.Stopped++
				r.log.Infow("stopped instance",
					"instance", instance.ID, "name", instance.Name(), "tagValue", instance.TagValue)
			}
		default:
			summary.Skipped++
			r.log.Infow("tag value does not match the current phase, leaving instance as-is",
				"instance", instance.ID, "tagValue", instance.TagValue, "defaultAction", defaultAction.String())
		}

		summary.Results = append(summary.Results, result)
	}

	return summary
}

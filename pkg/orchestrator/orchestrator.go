package orchestrator

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/job"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/planner"
)

// ErrHandedOver is returned by Process after the operations were passed to a
// self-update script. The caller should exit right away.
var ErrHandedOver = stderrors.New("operations handed over to the self-update process")

// New creates an Orchestrator.
func New(repo Repository, detectors []Detector, su SelfUpdater) *Orchestrator {
	return &Orchestrator{Repo: repo, Detectors: detectors, SelfUpdater: su}
}

func (o *Orchestrator) planner() *planner.Planner {
	return planner.New(o.Repo)
}

// Process executes ops in order, one sub-job per operation. It stops before
// the next operation once j should not proceed. Applied operations are not
// rolled back. The first error is recorded in j and returned.
func (o *Orchestrator) Process(ctx context.Context, j *job.Job, ops []model.InstallOperation) error {
	stop := j.BindContext(ctx)
	defer stop()
	defer j.Complete()

	if o.replacesSelf(ops) {
		return o.handOver(j, ops)
	}

	weight := 1.0
	if len(ops) > 0 {
		weight = 1 / float64(len(ops))
	}
	for _, op := range ops {
		if !j.ShouldProceed() {
			break
		}

		sub := j.NewSubJob(weight, title(op))
		logger.Debug("Executing operation", logger.Fields{"operation": op.String()})
		if err := o.apply(ctx, op, sub); err != nil {
			err = fmt.Errorf("%s: %w", op, err)
			sub.Fail(err)
			sub.Complete()
			j.Fail(err)
			break
		}
		sub.CompleteWithProgress()
	}

	if err := j.Err(); err != nil {
		return err
	}
	if j.IsCancelled() {
		return errors.ErrCancelled
	}
	j.SetProgress(1)
	return nil
}

func (o *Orchestrator) apply(ctx context.Context, op model.InstallOperation, j *job.Job) error {
	if op.Install {
		pv, err := o.Repo.FindPackageVersion(op.Package, op.Version)
		if err != nil {
			return err
		}
		if pv == nil {
			return &planner.LookupError{Kind: errors.ErrPackageVersionNotFound, Name: op.Package, Version: op.Version.String()}
		}
		return o.Repo.Install(ctx, pv, j)
	}

	ipv := o.Repo.FindInstalled(model.NewVersionKey(op.Package, op.Version))
	if ipv == nil {
		return &planner.LookupError{Kind: errors.ErrNotInstalled, Name: op.Package, Version: op.Version.String()}
	}
	return o.Repo.Uninstall(ctx, ipv, j)
}

// replacesSelf reports whether an uninstall operation removes the
// installation the running executable lives in.
func (o *Orchestrator) replacesSelf(ops []model.InstallOperation) bool {
	if o.SelfUpdater == nil {
		return false
	}
	executable := o.Executable
	if executable == nil {
		executable = os.Executable
	}
	exe, err := executable()
	if err != nil {
		return false
	}

	for _, op := range ops {
		if op.Install {
			continue
		}
		ipv := o.Repo.FindInstalled(model.NewVersionKey(op.Package, op.Version))
		if ipv != nil && ipv.Directory != "" && fsutil.IsWithin(ipv.Directory, exe) {
			return true
		}
	}
	return false
}

func (o *Orchestrator) handOver(j *job.Job, ops []model.InstallOperation) error {
	script, err := o.SelfUpdater.Stage(ops)
	if err != nil {
		j.Fail(err)
		return err
	}
	if err := o.SelfUpdater.Launch(script); err != nil {
		j.Fail(err)
		return err
	}
	logger.Info("Self-update started", logger.Fields{"script": script})
	j.SetProgress(1)
	return ErrHandedOver
}

func title(op model.InstallOperation) string {
	if op.Install {
		return fmt.Sprintf("Installing %s %s", op.Package, op.Version)
	}
	return fmt.Sprintf("Removing %s %s", op.Package, op.Version)
}

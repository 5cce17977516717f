package orchestrator

import (
	"context"
	stderrors "errors"
	"slices"
	"strings"

	"github.com/glorpus-work/wpm/internal/logger"
	"github.com/glorpus-work/wpm/pkg/detect"
	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/job"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/planner"
)

// Install installs the requested package versions and their missing
// dependencies. A request without a version selects the newest one. Targets
// that are installed already are reported instead of being installed again.
// The whole batch is aborted on the first planning error.
func (o *Orchestrator) Install(ctx context.Context, j *job.Job, reqs []Request) (*InstallResult, error) {
	defer j.Complete()

	if err := o.Refresh(ctx, j.NewSubJob(0.01, "Detecting packages")); err != nil {
		return nil, o.fail(j, err)
	}

	p := o.planner()
	s := p.NewSession(o.Repo.Installed())
	res := &InstallResult{}
	for _, r := range reqs {
		pkg, err := p.ResolvePackage(r.Package)
		if err != nil {
			return nil, o.fail(j, err)
		}
		pv, err := p.ResolveVersion(pkg.Name, r.Version)
		if err != nil {
			return nil, o.fail(j, err)
		}
		if ipv := o.Repo.FindInstalled(pv.Key()); ipv != nil {
			res.AlreadyInstalled = append(res.AlreadyInstalled, ipv)
			continue
		}
		if err := s.Install(pv); err != nil {
			return nil, o.fail(j, err)
		}
	}
	res.Operations = s.Operations()
	j.SetProgress(0.14)

	if err := o.execute(ctx, j, 0.85, "Installing", res.Operations); err != nil {
		return res, err
	}
	return res, nil
}

// Remove uninstalls the requested installed versions. A request without a
// version is accepted only when exactly one version is installed. Other
// installed packages that depend on a removed version are not checked.
func (o *Orchestrator) Remove(ctx context.Context, j *job.Job, reqs []Request) ([]model.InstallOperation, error) {
	defer j.Complete()

	if err := o.Refresh(ctx, j.NewSubJob(0.1, "Detecting packages")); err != nil {
		return nil, o.fail(j, err)
	}

	p := o.planner()
	installed := o.Repo.Installed()
	s := p.NewSession(installed)
	for _, r := range reqs {
		name, err := o.installedName(p, r.Package)
		if err != nil {
			return nil, o.fail(j, err)
		}
		ipv, err := planner.ResolveInstalled(name, r.Version, installed)
		if err != nil {
			return nil, o.fail(j, err)
		}
		s.Uninstall(ipv.Key())
	}
	ops := s.Operations()

	if err := o.execute(ctx, j, 0.9, "Removing", ops); err != nil {
		return ops, err
	}
	return ops, nil
}

// Update replaces the installed versions of the named packages, or of every
// installed package when names is empty, by the newest catalog version. It
// returns errors.ErrUpToDate when nothing needs to change.
func (o *Orchestrator) Update(ctx context.Context, j *job.Job, names []string) ([]model.InstallOperation, error) {
	defer j.Complete()

	if err := o.Refresh(ctx, j.NewSubJob(0.05, "Detecting packages")); err != nil {
		return nil, o.fail(j, err)
	}

	p := o.planner()
	installed := o.Repo.Installed()
	pkgs, err := o.updateTargets(p, names, installed)
	if err != nil {
		return nil, o.fail(j, err)
	}

	ops, err := p.PlanUpdates(pkgs, installed)
	if err != nil {
		return nil, o.fail(j, err)
	}
	if len(ops) == 0 {
		j.SetProgress(1)
		return nil, errors.ErrUpToDate
	}
	j.SetProgress(0.1)

	if err := o.execute(ctx, j, 0.85, "Updating", ops); err != nil {
		return ops, err
	}
	return ops, nil
}

func (o *Orchestrator) updateTargets(p *planner.Planner, names []string, installed []*model.InstalledPackageVersion) ([]*model.Package, error) {
	if len(names) == 0 {
		var pkgs []*model.Package
		seen := make(map[string]bool)
		for _, ipv := range installed {
			if seen[ipv.Package] {
				continue
			}
			seen[ipv.Package] = true
			pkg, err := o.Repo.FindPackage(ipv.Package)
			if err != nil {
				return nil, err
			}
			// installations unknown to the catalog cannot be updated
			if pkg != nil {
				pkgs = append(pkgs, pkg)
			}
		}
		return pkgs, nil
	}

	pkgs := make([]*model.Package, 0, len(names))
	for _, n := range names {
		pkg, err := p.ResolvePackage(n)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs, nil
}

// Check returns the installed versions with dependencies that no installed
// version satisfies. Detection errors are logged and ignored.
func (o *Orchestrator) Check(ctx context.Context, j *job.Job) ([]Problem, error) {
	defer j.Complete()

	rj := j.NewSubJob(0.5, "Detecting packages")
	if err := o.Refresh(ctx, rj); err != nil {
		logger.Warn("Detection failed", logger.Fields{"error": err.Error()})
		rj.CompleteWithProgress()
	}

	m := o.planner().Matcher()
	installed := o.Repo.Installed()
	var problems []Problem
	for _, ipv := range installed {
		pv, err := o.Repo.FindPackageVersion(ipv.Package, ipv.Version)
		if err != nil {
			return nil, o.fail(j, err)
		}
		if pv == nil {
			continue
		}
		for _, dep := range pv.Dependencies {
			if m.FindHighestInstalledMatch(dep, installed) == nil {
				problems = append(problems, Problem{Installed: ipv, Dependency: dep})
			}
		}
	}
	j.CompleteWithProgress()
	return problems, nil
}

// Refresh runs the detectors, adds what they found to the catalog and the
// installed database, forgets installations whose directory vanished and
// persists the result.
func (o *Orchestrator) Refresh(ctx context.Context, j *job.Job) error {
	defer j.Complete()

	for i, d := range o.Detectors {
		if !j.ShouldProceed() {
			return o.cancelled(j)
		}
		if err := ctx.Err(); err != nil {
			return o.fail(j, err)
		}

		res, err := d.Detect(ctx)
		if err != nil {
			return o.fail(j, errors.Wrapf(err, "detector %s", d.Name()))
		}
		if err := o.merge(res); err != nil {
			return o.fail(j, err)
		}
		j.SetProgress(0.9 * float64(i+1) / float64(len(o.Detectors)))
	}

	for _, ipv := range o.Repo.Prune() {
		logger.Debug("Forgetting vanished installation", logger.Fields{"package": ipv.String(), "directory": ipv.Directory})
	}
	if err := o.Repo.Save(); err != nil {
		return o.fail(j, err)
	}
	j.SetProgress(1)
	return nil
}

func (o *Orchestrator) merge(res *detect.Result) error {
	if res == nil {
		return nil
	}
	for _, p := range res.Packages {
		known, err := o.Repo.FindPackage(p.Name)
		if err != nil {
			return err
		}
		if known == nil {
			if err := o.Repo.SavePackage(p); err != nil {
				return err
			}
		}
	}
	for _, pv := range res.Versions {
		known, err := o.Repo.FindPackageVersion(pv.Package, pv.Version)
		if err != nil {
			return err
		}
		if known == nil {
			if err := o.Repo.SavePackageVersion(pv); err != nil {
				return err
			}
		}
	}
	for _, ipv := range res.Installed {
		if o.Repo.FindInstalled(ipv.Key()) == nil {
			o.Repo.AddInstalled(ipv)
		}
	}
	return nil
}

// DependencyTree resolves the dependencies of pv recursively. Each
// dependency is satisfied by the highest installed match, else by the
// version that would be installed, else it is missing.
func (o *Orchestrator) DependencyTree(pv *model.PackageVersion) ([]*DependencyNode, error) {
	m := o.planner().Matcher()
	installed := o.Repo.Installed()
	visited := map[model.VersionKey]bool{pv.Key(): true}
	return o.dependencyNodes(m, pv, installed, visited)
}

func (o *Orchestrator) dependencyNodes(m *planner.Matcher, pv *model.PackageVersion, installed []*model.InstalledPackageVersion, visited map[model.VersionKey]bool) ([]*DependencyNode, error) {
	nodes := make([]*DependencyNode, 0, len(pv.Dependencies))
	for _, dep := range pv.Dependencies {
		node := &DependencyNode{Dependency: dep, Status: StatusMissing}
		nodes = append(nodes, node)

		var next *model.PackageVersion
		if ipv := m.FindHighestInstalledMatch(dep, installed); ipv != nil {
			node.Status, node.Version = StatusInstalled, ipv.Version
			found, err := o.Repo.FindPackageVersion(ipv.Package, ipv.Version)
			if err != nil {
				return nil, err
			}
			next = found
		} else {
			cand, err := m.FindBestMatchToInstall(dep, nil)
			if err != nil {
				return nil, err
			}
			if cand != nil {
				node.Status, node.Version = StatusInstall, cand.Version
				next = cand
			}
		}

		if next == nil || visited[next.Key()] {
			continue
		}
		visited[next.Key()] = true
		children, err := o.dependencyNodes(m, next, installed, visited)
		if err != nil {
			return nil, err
		}
		node.Children = children
	}
	return nodes, nil
}

// FindInstalledPath returns the directory of the highest installed version
// matching dep.
func (o *Orchestrator) FindInstalledPath(dep model.Dependency) (string, error) {
	ipv := o.planner().Matcher().FindHighestInstalledMatch(dep, o.Repo.Installed())
	if ipv == nil {
		return "", &planner.LookupError{Kind: errors.ErrNotInstalled, Name: dep.String()}
	}
	return ipv.Directory, nil
}

// Which returns the installation that contains path.
func (o *Orchestrator) Which(path string) (*model.InstalledPackageVersion, error) {
	ipv := o.Repo.FindOwner(path)
	if ipv == nil {
		return nil, &planner.LookupError{Kind: errors.ErrNotInstalled, Name: path}
	}
	return ipv, nil
}

// installedName maps a short name to the full name of an installed package.
// Names with a dot are used as given.
func (o *Orchestrator) installedName(p *planner.Planner, name string) (string, error) {
	if strings.Contains(name, ".") {
		return name, nil
	}
	pkg, err := p.ResolvePackage(name)
	if err == nil {
		return pkg.Name, nil
	}
	if !stderrors.Is(err, errors.ErrPackageNotFound) {
		return "", err
	}

	var names []string
	for _, ipv := range o.Repo.Installed() {
		last := ipv.Package[strings.LastIndexByte(ipv.Package, '.')+1:]
		if strings.EqualFold(last, name) && !slices.Contains(names, ipv.Package) {
			names = append(names, ipv.Package)
		}
	}
	switch len(names) {
	case 0:
		return "", err
	case 1:
		return names[0], nil
	default:
		return "", &planner.LookupError{Kind: errors.ErrAmbiguousShortName, Name: name, Candidates: names}
	}
}

// execute runs ops in a sub-job of the given weight.
func (o *Orchestrator) execute(ctx context.Context, j *job.Job, weight float64, title string, ops []model.InstallOperation) error {
	if !j.ShouldProceed() {
		return o.cancelled(j)
	}
	sub := j.NewSubJob(weight, title)
	if err := o.Process(ctx, sub, ops); err != nil {
		if !stderrors.Is(err, ErrHandedOver) && !stderrors.Is(err, errors.ErrCancelled) {
			j.Fail(err)
		}
		return err
	}
	j.SetProgress(1)
	return nil
}

func (o *Orchestrator) fail(j *job.Job, err error) error {
	j.Fail(err)
	return err
}

func (o *Orchestrator) cancelled(j *job.Job) error {
	if err := j.Err(); err != nil {
		return err
	}
	return errors.ErrCancelled
}

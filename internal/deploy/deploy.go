// Package deploy commits the working tree and pushes it to the remote.
package deploy

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sqve/shipit/internal/config"
	shiperrors "github.com/sqve/shipit/internal/errors"
	"github.com/sqve/shipit/internal/git"
	"github.com/sqve/shipit/internal/logger"
	"github.com/sqve/shipit/internal/ui"
)

// TimestampLayout formats the time in generated commit messages.
const TimestampLayout = "2006-01-02 15:04:05"

const totalSteps = 4

// Repository is the subset of git.Repository the deploy flow needs.
type Repository interface {
	Root() string
	CurrentBranch() (string, error)
	RemoteURL(name string) (string, error)
	HeadSummary() (git.CommitSummary, error)
	Status(ctx context.Context) (git.ChangeCounts, error)
	StageAll(ctx context.Context) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, target git.PushTarget, branch string) error
}

var _ Repository = (*git.Repository)(nil)

// Options are the per-invocation switches of `shipit deploy`.
type Options struct {
	// Message is used verbatim when non-empty.
	Message string
	// Yes skips the branch confirmation.
	Yes bool
	// DryRun reports what would happen without committing or pushing.
	DryRun bool
}

// Result describes a finished run.
type Result struct {
	Branch    string
	Committed bool
	Message   string
	Target    git.PushTarget
	Head      git.CommitSummary
	DryRun    bool
}

// Deployer runs the commit, confirm and push sequence against a repository.
type Deployer struct {
	repo        Repository
	cfg         config.DeployConfig
	pushTimeout time.Duration
	printer     *ui.Printer
	confirmer   ui.Confirmer
	now         func() time.Time
	lookupEnv   func(string) (string, bool)
	preflight   func(context.Context) error
	interactive bool
}

func New(repo Repository, cfg *config.Config, printer *ui.Printer, confirmer ui.Confirmer) *Deployer {
	return &Deployer{
		repo:        repo,
		cfg:         cfg.Deploy,
		pushTimeout: cfg.Git.PushTimeout,
		printer:     printer,
		confirmer:   confirmer,
		now:         time.Now,
		lookupEnv:   os.LookupEnv,
	}
}

// WithClock sets the time source for generated commit messages.
func (d *Deployer) WithClock(now func() time.Time) *Deployer {
	d.now = now
	return d
}

// WithEnv sets the lookup used to read the access token.
func (d *Deployer) WithEnv(lookup func(string) (string, bool)) *Deployer {
	d.lookupEnv = lookup
	return d
}

// WithPreflight registers a check that must pass before anything is mutated.
func (d *Deployer) WithPreflight(check func(context.Context) error) *Deployer {
	d.preflight = check
	return d
}

// WithSpinner animates the push when interactive is true.
func (d *Deployer) WithSpinner(interactive bool) *Deployer {
	d.interactive = interactive
	return d
}

// DefaultMessage returns the generated commit message for t.
func DefaultMessage(prefix string, t time.Time) string {
	if prefix == "" {
		prefix = config.DefaultMessagePrefix
	}
	return fmt.Sprintf("%s: %s", prefix, t.Format(TimestampLayout))
}

// Run executes a deployment. Pushing is attempted exactly once; a failed
// push leaves any commit created by this run in place.
func (d *Deployer) Run(ctx context.Context, opts Options) (*Result, error) {
	log := logger.WithComponent("deploy")
	start := time.Now()
	defer func() {
		log.Performance("deploy", time.Since(start), "dry_run", opts.DryRun)
	}()

	result := &Result{DryRun: opts.DryRun}

	d.printer.Step(1, totalSteps, "Checking repository")
	branch, err := d.repo.CurrentBranch()
	if err != nil {
		return result, err
	}
	result.Branch = branch
	d.printer.Detail("%s on branch %s", d.repo.Root(), branch)

	if d.preflight != nil {
		if err := d.preflight(ctx); err != nil {
			return result, err
		}
	}

	d.printer.Step(2, totalSteps, "Committing changes")
	if err := d.commit(ctx, opts, result); err != nil {
		return result, err
	}

	d.printer.Step(3, totalSteps, "Checking branch")
	if err := d.confirmBranch(branch, opts); err != nil {
		log.Info("deployment cancelled", "branch", branch)
		return result, err
	}

	target, err := d.pushTarget()
	if err != nil {
		return result, err
	}
	result.Target = target

	d.printer.Step(4, totalSteps, "Pushing to "+target.String())
	if opts.DryRun {
		d.printer.Info("Would push %s to %s", branch, target)
		return result, nil
	}

	if err := d.push(ctx, target, branch); err != nil {
		d.printer.Error("Push failed")
		d.printer.Detail("check that %s holds a valid token and that the remote is reachable", d.cfg.TokenEnv)
		if result.Committed {
			d.printer.Warning("The local commit was not rolled back; local and remote history now differ")
		}
		return result, err
	}

	head, err := d.repo.HeadSummary()
	if err != nil {
		return result, err
	}
	result.Head = head

	d.printer.Success("Deployed %s", branch)
	d.printer.Detail("%s", head)
	return result, nil
}

func (d *Deployer) commit(ctx context.Context, opts Options, result *Result) error {
	counts, err := d.repo.Status(ctx)
	if err != nil {
		return err
	}

	if !counts.HasChanges() {
		d.printer.Info("No changes to commit")
		return nil
	}

	message := opts.Message
	if message == "" {
		message = DefaultMessage(d.cfg.MessagePrefix, d.now())
	}
	result.Message = message

	if opts.DryRun {
		d.printer.Info("Would commit %d file(s): %q", counts.Total(), message)
		return nil
	}

	if err := d.repo.StageAll(ctx); err != nil {
		return err
	}
	if err := d.repo.Commit(ctx, message); err != nil {
		return err
	}

	result.Committed = true
	d.printer.Success("Committed %d file(s): %s", counts.Total(), message)
	return nil
}

func (d *Deployer) confirmBranch(branch string, opts Options) error {
	if branch == d.cfg.Branch {
		return nil
	}

	d.printer.Warning("Not on %s", d.cfg.Branch)
	if opts.Yes {
		return nil
	}
	if opts.DryRun {
		d.printer.Info("Would ask for confirmation before pushing %s", branch)
		return nil
	}

	ok, err := d.confirmer.Confirm(fmt.Sprintf("You're on branch '%s', not '%s'. Continue?", branch, d.cfg.Branch))
	if err != nil {
		return err
	}
	if !ok {
		return shiperrors.ErrDeploymentCancelled(branch)
	}
	return nil
}

func (d *Deployer) pushTarget() (git.PushTarget, error) {
	token, _ := d.lookupEnv(d.cfg.TokenEnv)
	if token == "" {
		return git.ResolvePushTarget(d.cfg.Remote, "", "")
	}

	repoURL := d.cfg.RepositoryURL
	if repoURL == "" {
		var err error
		repoURL, err = d.repo.RemoteURL(d.cfg.Remote)
		if err != nil {
			return git.PushTarget{}, shiperrors.ErrConfigInvalid("cannot build an authenticated push URL", err).
				WithContext("remote", d.cfg.Remote)
		}
	}

	target, err := git.ResolvePushTarget(d.cfg.Remote, repoURL, token)
	if err != nil {
		return git.PushTarget{}, shiperrors.ErrConfigInvalid("cannot build an authenticated push URL", err).
			WithContext("remote", d.cfg.Remote)
	}
	return target, nil
}

func (d *Deployer) push(ctx context.Context, target git.PushTarget, branch string) error {
	if d.pushTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.pushTimeout)
		defer cancel()
	}

	spinner := ui.StartSpinner(d.printer.Out, d.interactive, fmt.Sprintf("Pushing %s...", branch))
	defer spinner.Stop()

	return d.repo.Push(ctx, target, branch)
}

package commands

import (
	"context"
	"dirsync/lib/history"
	"dirsync/lib/notify"
	"dirsync/lib/platforms/okta"
	"dirsync/lib/platforms/vbout"
	"dirsync/lib/restyutil"
	"dirsync/lib/timezone"
	"dirsync/services/dirsync"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type OktaConfig struct {
	BaseUrl   string `json:"base_url"`
	ApiKey    string `json:"api_key"`
	PageLimit int    `json:"page_limit"`
}

type VboutConfig struct {
	BaseUrl  string `json:"base_url"`
	ApiKey   string `json:"api_key"`
	ListName string `json:"list_name"`
	// sent as the limit of every listing request, a response with at least
	// this many records is treated as truncated
	ListLimit int                `json:"list_limit"`
	Fields    dirsync.FieldNames `json:"fields"`
}

type Config struct {
	Okta           OktaConfig        `json:"okta"`
	Vbout          VboutConfig       `json:"vbout"`
	ExcludedGroups []string          `json:"excluded_groups"`
	Smtp           notify.SmtpConfig `json:"smtp"`
	SubjectPrefix  string            `json:"subject_prefix"`
	Database       history.Config    `json:"database"`
	// nil uses dirsync.DefaultGuardOptions
	Guard    *dirsync.GuardOptions `json:"guard"`
	Timezone string                `json:"timezone"`
	// cron expression used by the daemon command
	Schedule string `json:"schedule"`
	// when set, okta and vbout request/response dumps are written here
	// while running with --verbose
	DebugHttpDir string `json:"debug_http_dir"`
}

func (c Config) validate() error {
	var errs []error
	if c.Okta.BaseUrl == "" {
		errs = append(errs, fmt.Errorf("okta.base_url is required"))
	}
	if c.Okta.ApiKey == "" {
		errs = append(errs, fmt.Errorf("okta.api_key is required"))
	}
	if c.Vbout.ApiKey == "" {
		errs = append(errs, fmt.Errorf("vbout.api_key is required"))
	}
	if c.Vbout.ListName == "" {
		errs = append(errs, fmt.Errorf("vbout.list_name is required"))
	}
	return errors.Join(errs...)
}

func (c Config) runOptions(dryRun, force bool) dirsync.RunOptions {
	limit := c.Vbout.ListLimit
	if limit <= 0 {
		limit = vbout.DefaultLimit
	}
	return dirsync.RunOptions{
		ExcludedGroups: c.ExcludedGroups,
		ListName:       c.Vbout.ListName,
		ListLimit:      limit,
		Fields:         c.Vbout.Fields,
		DryRun:         dryRun,
		Force:          force,
	}
}

func (c Config) newRunContext(dryRun, force bool) dirsync.RunContext {
	return dirsync.NewRunContext(timezone.Now(), c.runOptions(dryRun, force))
}

func (c Config) httpOutput(name string) restyutil.InstrumentOutput {
	if c.DebugHttpDir == "" {
		return nil
	}
	out, err := restyutil.NewFilesystemOutput(filepath.Join(c.DebugHttpDir, name))
	if err != nil {
		slog.Warn("failed to create http dump directory", "dir", c.DebugHttpDir, "err", err)
		return nil
	}
	return out
}

func (c Config) openHistory(ctx context.Context) (history.Store, func(), error) {
	database, err := c.Database.OpenDB()
	if err != nil {
		return history.Store{}, nil, err
	}
	store := history.NewStore(database)
	err = store.Migrate(ctx)
	if err != nil {
		database.Close()
		return history.Store{}, nil, err
	}
	return store, func() { database.Close() }, nil
}

// newService wires the okta and vbout clients, the history store and the
// notifier into a dirsync.Service. the returned func releases the history db.
func (c Config) newService(ctx context.Context) (dirsync.Service, func(), error) {
	err := c.validate()
	if err != nil {
		return dirsync.Service{}, nil, err
	}

	source := okta.NewClient(okta.ClientOptions{
		BaseUrl:   c.Okta.BaseUrl,
		ApiKey:    c.Okta.ApiKey,
		PageLimit: c.Okta.PageLimit,
		Output:    c.httpOutput("okta"),
	})
	target := vbout.NewClient(vbout.ClientOptions{
		BaseUrl: c.Vbout.BaseUrl,
		ApiKey:  c.Vbout.ApiKey,
		Output:  c.httpOutput("vbout"),
	})

	var notifier dirsync.Notifier = notify.Writer{Out: os.Stdout}
	if c.Smtp.Enabled() {
		notifier = notify.NewEmail(c.Smtp)
	} else {
		slog.Warn("smtp is not configured, reports will be printed to stdout")
	}

	guard := dirsync.DefaultGuardOptions()
	if c.Guard != nil {
		guard = *c.Guard
	}

	opts := dirsync.Options{
		Source:        source,
		Target:        target,
		Notifier:      notifier,
		Guard:         guard,
		SubjectPrefix: c.SubjectPrefix,
	}

	closeHistory := func() {}
	if c.Database.Enabled() {
		store, closeDB, err := c.openHistory(ctx)
		if err != nil {
			return dirsync.Service{}, nil, fmt.Errorf("open history: %w", err)
		}
		opts.History = store
		closeHistory = closeDB
	}

	return dirsync.NewService(opts), closeHistory, nil
}

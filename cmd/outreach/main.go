package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/outreach/internal/config"
	"github.com/ignite/outreach/internal/csvio"
	"github.com/ignite/outreach/internal/domain"
	"github.com/ignite/outreach/internal/enrich"
	"github.com/ignite/outreach/internal/lifecycle"
	"github.com/ignite/outreach/internal/mailer"
	"github.com/ignite/outreach/internal/personalize"
	"github.com/ignite/outreach/internal/pkg/distlock"
	"github.com/ignite/outreach/internal/repository/postgres"
	"github.com/ignite/outreach/internal/sendlimit"
	"github.com/ignite/outreach/internal/service/campaign"
	"github.com/ignite/outreach/internal/service/contact"
	"github.com/ignite/outreach/internal/service/suppression"
	"github.com/ignite/outreach/internal/template"
	"github.com/ignite/outreach/internal/workflow"
)

const usage = `outreach - outbound prospecting from the command line

Usage: outreach <command> [flags]

Commands:
  import       import contacts from a CSV file (local path or s3://bucket/key)
  export       export contacts to a CSV file
  contacts     list, add or show contacts; mark a reply received
  enrich       enrich contacts via the data provider
  template     list templates or preview one against a contact
  campaign     create / approve / send / list campaigns
  followups    send due follow-ups
  personalize  generate an opener hook for a contact
  suppress     manage the do-not-contact list
  stats        pipeline and deliverability summary

Any command that sends real email requires --confirm. Use --dry-run to
preview a send without touching anything.
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}
	defer app.close()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "import":
		err = app.cmdImport(ctx, args)
	case "export":
		err = app.cmdExport(ctx, args)
	case "contacts":
		err = app.cmdContacts(ctx, args)
	case "enrich":
		err = app.cmdEnrich(ctx, args)
	case "template":
		err = app.cmdTemplate(ctx, args)
	case "campaign":
		err = app.cmdCampaign(ctx, args)
	case "followups":
		err = app.cmdFollowups(ctx, args)
	case "personalize":
		err = app.cmdPersonalize(ctx, args)
	case "suppress":
		err = app.cmdSuppress(ctx, args)
	case "stats":
		err = app.cmdStats(ctx, args)
	default:
		fmt.Print(usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%s: %v", cmd, err)
	}
}

type app struct {
	cfg *config.Config
	db  *sql.DB
	rdb *redis.Client

	contacts     *contact.Service
	campaigns    *campaign.Service
	suppressions *suppression.Service
	campaignRepo *postgres.CampaignRepo
}

func newApp(ctx context.Context) (*app, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadFromEnv(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", configPath, err)
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("database url not configured (set DATABASE_URL)")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	campaignRepo := postgres.NewCampaignRepo(db)
	return &app{
		cfg:          cfg,
		db:           db,
		rdb:          rdb,
		contacts:     contact.NewService(postgres.NewContactRepo(db)),
		campaigns:    campaign.NewService(campaignRepo),
		suppressions: suppression.NewService(postgres.NewSuppressionRepo(db)),
		campaignRepo: campaignRepo,
	}, nil
}

func (a *app) close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	a.db.Close()
}

// loadTemplates reads the template directory.
func (a *app) loadTemplates() (*template.Store, error) {
	store := template.NewStore(a.cfg.Outreach.TemplatesDir)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// buildMailer picks the configured transport, wrapped in the dry-run
// decorator when requested.
func (a *app) buildMailer(ctx context.Context, dryRun bool) (mailer.Mailer, error) {
	var m mailer.Mailer
	switch {
	case a.cfg.SendGrid.Enabled:
		m = mailer.NewSendGridMailer(a.cfg.SendGrid)
	case a.cfg.SES.Enabled:
		var err error
		m, err = mailer.NewSESMailer(ctx, a.cfg.SES)
		if err != nil {
			return nil, fmt.Errorf("ses mailer: %w", err)
		}
	default:
		if !dryRun {
			return nil, fmt.Errorf("no email transport configured (set SENDGRID_API_KEY or enable ses)")
		}
		return mailer.NewDryRun(nil), nil
	}
	if dryRun {
		return mailer.NewDryRun(m), nil
	}
	return m, nil
}

// buildRunner wires the workflow runner for send-style commands.
func (a *app) buildRunner(ctx context.Context, dryRun bool) (*workflow.Runner, *sendlimit.Limiter, error) {
	store, err := a.loadTemplates()
	if err != nil {
		return nil, nil, err
	}
	m, err := a.buildMailer(ctx, dryRun)
	if err != nil {
		return nil, nil, err
	}
	limiter := sendlimit.New(a.rdb, a.campaignRepo, a.cfg.Outreach.DailyLimit)
	r := workflow.NewRunner(
		a.contacts, a.campaigns, store, template.NewRenderer(),
		m, a.suppressions, limiter, a.cfg.Outreach,
	)
	r.DryRun = dryRun
	return r, limiter, nil
}

// guardSend enforces the confirmation gate and reports today's allowance.
func (a *app) guardSend(ctx context.Context, confirm, dryRun bool, limiter *sendlimit.Limiter) error {
	if !confirm && !dryRun {
		return fmt.Errorf("refusing to send real email without --confirm (use --dry-run to preview)")
	}
	if dryRun {
		return nil
	}
	remaining, err := limiter.Remaining(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("check daily allowance: %w", err)
	}
	if remaining <= 0 {
		return fmt.Errorf("daily send limit of %d reached, try again tomorrow", limiter.Limit())
	}
	fmt.Printf("%d of %d sends left today\n", remaining, limiter.Limit())
	return nil
}

// withLock runs fn while holding the named batch lock, so two invocations
// cannot double-send.
func (a *app) withLock(ctx context.Context, name string, fn func() error) error {
	lock := distlock.New(a.rdb, a.db, name, 30*time.Minute)
	ok, err := lock.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire %s lock: %w", name, err)
	}
	if !ok {
		return fmt.Errorf("another %s run is already in progress", name)
	}
	defer lock.Release(context.Background())
	return fn()
}

// ---------------------------------------------------------------------------
// commands
// ---------------------------------------------------------------------------

func (a *app) cmdImport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV path or s3://bucket/key (required)")
	segment := fs.String("segment", "", "assign every imported contact to this segment")
	tags := fs.String("tags", "", "comma-separated tags to attach")
	fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	src, err := csvio.Open(ctx, *file, csvio.S3Options{
		Region:  a.cfg.Import.S3Region,
		Profile: a.cfg.Import.GetAWSProfile(),
	})
	if err != nil {
		return err
	}
	defer src.Close()

	opts := csvio.ImportOptions{Segment: *segment}
	if *tags != "" {
		opts.Tags = strings.Split(*tags, ",")
	}

	report, err := csvio.NewImporter(a.contacts).Import(ctx, src, opts)
	if err != nil {
		return err
	}
	fmt.Printf("imported %d rows: %d created, %d already present, %d skipped\n",
		report.Rows, report.Created, report.Existed, report.Skipped)
	for _, e := range report.Errors {
		fmt.Printf("  line %d: %s\n", e.Line, e.Reason)
	}
	return nil
}

func (a *app) cmdExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "", "output CSV path (required)")
	segment := fs.String("segment", "", "export only this segment")
	status := fs.String("status", "", "export only this status")
	fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	list, err := a.contacts.List(ctx, contact.ListFilter{
		Segment: *segment,
		Status:  domain.ContactStatus(*status),
	})
	if err != nil {
		return err
	}

	out, err := os.Create(*file)
	if err != nil {
		return err
	}
	defer out.Close()

	if err := csvio.Export(out, list); err != nil {
		return err
	}
	fmt.Printf("exported %d contacts to %s\n", len(list), *file)
	return nil
}

func (a *app) cmdContacts(ctx context.Context, args []string) error {
	if len(args) > 0 {
		switch args[0] {
		case "add":
			return a.contactAdd(ctx, args[1:])
		case "show":
			return a.contactShow(ctx, args[1:])
		case "replied":
			return a.contactReplied(ctx, args[1:])
		case "list":
			args = args[1:]
		}
	}

	fs := flag.NewFlagSet("contacts", flag.ExitOnError)
	segment := fs.String("segment", "", "filter by segment")
	status := fs.String("status", "", "filter by status")
	search := fs.String("search", "", "match against company/email/name")
	limit := fs.Int("limit", 50, "max rows")
	fs.Parse(args)

	list, err := a.contacts.List(ctx, contact.ListFilter{
		Segment: *segment,
		Status:  domain.ContactStatus(*status),
		Search:  *search,
		Limit:   *limit,
	})
	if err != nil {
		return err
	}

	fmt.Printf("%-30s %-30s %-12s %-10s %s\n", "COMPANY", "EMAIL", "STATUS", "SENT", "NEXT FOLLOW-UP")
	for i := range list {
		c := &list[i]
		next := "-"
		if c.NextFollowupAt != nil {
			next = c.NextFollowupAt.Format("2006-01-02")
		}
		fmt.Printf("%-30s %-30s %-12s %-10d %s\n",
			trunc(c.Company, 30), trunc(c.Email, 30), c.Status, c.EmailsSent, next)
	}
	fmt.Printf("%d contacts\n", len(list))
	return nil
}

func (a *app) contactAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contacts add", flag.ExitOnError)
	company := fs.String("company", "", "company name (required)")
	email := fs.String("email", "", "email address")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	title := fs.String("title", "", "job title")
	segment := fs.String("segment", "", "segment")
	linkedin := fs.String("linkedin", "", "LinkedIn profile URL")
	fs.Parse(args)
	if *company == "" {
		return fmt.Errorf("-company is required")
	}

	c, err := a.contacts.Create(ctx, &domain.Contact{
		Company:     *company,
		Email:       *email,
		FirstName:   *first,
		LastName:    *last,
		Title:       *title,
		Segment:     *segment,
		LinkedInURL: *linkedin,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created contact %s\n", c.ID)
	return nil
}

func (a *app) contactShow(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: contacts show <id|email>")
	}
	c, err := a.resolveContact(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n", c.Company, c.FullName())
	fmt.Printf("  id:        %s\n", c.ID)
	fmt.Printf("  email:     %s\n", c.Email)
	fmt.Printf("  title:     %s\n", c.Title)
	fmt.Printf("  segment:   %s\n", c.Segment)
	fmt.Printf("  status:    %s\n", c.Status)
	fmt.Printf("  sent/opened/clicked: %d/%d/%d\n", c.EmailsSent, c.EmailsOpened, c.EmailsClicked)
	if c.PersonalizationHook != "" {
		fmt.Printf("  hook:      %s\n", c.PersonalizationHook)
	}
	if c.NextFollowupAt != nil {
		fmt.Printf("  next follow-up: %s (count %d)\n",
			c.NextFollowupAt.Format(time.RFC3339), c.FollowupCount)
	}

	logs, err := a.campaigns.ContactHistory(ctx, c.ID)
	if err != nil {
		return err
	}
	for i := range logs {
		l := &logs[i]
		fmt.Printf("  %s  %-9s  %s\n", l.CreatedAt.Format("2006-01-02"), l.Status, l.Subject)
	}
	return nil
}

// contactReplied records a manually confirmed reply: the contact leaves the
// follow-up cadence and the reply is attributed to its most recent sent
// email and that email's campaign.
func (a *app) contactReplied(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: contacts replied <id|email>")
	}
	c, err := a.resolveContact(ctx, args[0])
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	lifecycle.RecordReply(c, now)
	if err := a.contacts.Update(ctx, c); err != nil {
		return err
	}

	campaignID, err := a.campaigns.MarkReplied(ctx, c.ID, now)
	if err != nil {
		return err
	}
	if campaignID != nil {
		if err := a.campaigns.RecomputeMetrics(ctx, *campaignID); err != nil {
			return err
		}
	}

	fmt.Printf("recorded reply from %s (status %s)\n", c.Email, c.Status)
	return nil
}

func (a *app) cmdEnrich(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("enrich", flag.ExitOnError)
	segment := fs.String("segment", "", "enrich only this segment")
	limit := fs.Int("limit", 25, "max contacts per run")
	dryRun := fs.Bool("dry-run", false, "look up but do not persist")
	fs.Parse(args)

	if !a.cfg.Enrichment.Enabled {
		return fmt.Errorf("enrichment provider not configured (set ENRICHMENT_API_KEY)")
	}

	targets, err := a.contacts.List(ctx, contact.ListFilter{
		Status:  domain.ContactNew,
		Segment: *segment,
		Limit:   *limit,
	})
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		fmt.Println("nothing to enrich")
		return nil
	}

	// Enrichment never sends email, so no transport is wired in.
	runner := workflow.NewRunner(
		a.contacts, a.campaigns, template.NewStore(""), template.NewRenderer(),
		mailer.NewDryRun(nil), a.suppressions,
		sendlimit.New(a.rdb, a.campaignRepo, a.cfg.Outreach.DailyLimit), a.cfg.Outreach,
	)
	runner.DryRun = *dryRun

	report, err := runner.EnrichContacts(ctx, enrich.NewClient(a.cfg.Enrichment), targets)
	if err != nil {
		return err
	}
	fmt.Printf("enriched %d of %d (%d skipped, %d failed)\n",
		report.Enriched, report.Total, report.Skipped, report.Failed)
	for _, f := range report.Failures {
		fmt.Printf("  %s: %s\n", f.Email, f.Reason)
	}
	return nil
}

func (a *app) cmdTemplate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("template", flag.ExitOnError)
	name := fs.String("name", "", "template to preview")
	contactRef := fs.String("contact", "", "render against this contact id or email")
	fs.Parse(args)

	store, err := a.loadTemplates()
	if err != nil {
		return err
	}

	if *name == "" {
		for _, n := range store.Names() {
			fmt.Println(n)
		}
		return nil
	}

	tmpl, err := store.Get(*name)
	if err != nil {
		return err
	}

	c := &domain.Contact{Company: "Acme Corp", FirstName: "Ada", Email: "ada@acme.example"}
	if *contactRef != "" {
		c, err = a.resolveContact(ctx, *contactRef)
		if err != nil {
			return err
		}
	}

	rendered, err := template.NewRenderer().Render(tmpl, template.ContactContext(c))
	if err != nil {
		return err
	}
	fmt.Printf("Subject: %s\n\n%s\n", rendered.Subject,
		mailer.AppendUnsubscribeFooter(rendered.Body, a.cfg.Outreach.UnsubscribeURL))
	return nil
}

func (a *app) cmdCampaign(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: campaign <create|approve|send|list> ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "create":
		fs := flag.NewFlagSet("campaign create", flag.ExitOnError)
		name := fs.String("name", "", "campaign name (required)")
		tmplName := fs.String("template", "", "template name (required)")
		segment := fs.String("segment", "", "target segment (empty = all contacts)")
		fs.Parse(rest)
		if *name == "" || *tmplName == "" {
			return fmt.Errorf("-name and -template are required")
		}

		store, err := a.loadTemplates()
		if err != nil {
			return err
		}
		tmpl, err := store.Get(*tmplName)
		if err != nil {
			return err
		}

		input := campaign.CreateInput{Name: *name, TemplateName: tmpl.Name, Subject: tmpl.Subject}
		if *segment != "" {
			input.Segment = segment
		}
		cmp, err := a.campaigns.Create(ctx, input)
		if err != nil {
			return err
		}
		fmt.Printf("created campaign %s (%s) in draft\n", cmp.Name, cmp.ID)
		return nil

	case "approve":
		if len(rest) != 1 {
			return fmt.Errorf("usage: campaign approve <id>")
		}
		if err := a.campaigns.Approve(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("campaign approved")
		return nil

	case "send":
		fs := flag.NewFlagSet("campaign send", flag.ExitOnError)
		confirm := fs.Bool("confirm", false, "actually send email")
		dryRun := fs.Bool("dry-run", false, "preview without sending")
		fs.Parse(rest)
		if fs.NArg() != 1 {
			return fmt.Errorf("usage: campaign send <id> [--confirm|--dry-run]")
		}
		id := fs.Arg(0)

		runner, limiter, err := a.buildRunner(ctx, *dryRun)
		if err != nil {
			return err
		}
		if err := a.guardSend(ctx, *confirm, *dryRun, limiter); err != nil {
			return err
		}

		return a.withLock(ctx, "campaign-send", func() error {
			report, err := runner.SendCampaign(ctx, id)
			if err != nil {
				return err
			}
			printSendReport(report.Sent, report.Skipped, report.Failed, report.DryRun, report.Failures)
			return nil
		})

	case "list":
		list, err := a.campaigns.List(ctx, campaign.ListFilter{})
		if err != nil {
			return err
		}
		fmt.Printf("%-36s %-25s %-10s %6s %6s %6s\n", "ID", "NAME", "STATUS", "TOTAL", "SENT", "OPENED")
		for i := range list {
			c := &list[i]
			fmt.Printf("%-36s %-25s %-10s %6d %6d %6d\n",
				c.ID, trunc(c.Name, 25), c.Status, c.TotalRecipients, c.EmailsSent, c.EmailsOpened)
		}
		return nil

	default:
		return fmt.Errorf("unknown campaign subcommand %q", sub)
	}
}

func (a *app) cmdFollowups(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("followups", flag.ExitOnError)
	confirm := fs.Bool("confirm", false, "actually send email")
	dryRun := fs.Bool("dry-run", false, "preview without sending")
	limit := fs.Int("limit", 0, "max follow-ups this run (0 = daily limit)")
	fs.Parse(args)

	runner, limiter, err := a.buildRunner(ctx, *dryRun)
	if err != nil {
		return err
	}
	if err := a.guardSend(ctx, *confirm, *dryRun, limiter); err != nil {
		return err
	}

	batch := *limit
	if batch <= 0 {
		batch = a.cfg.Outreach.DailyLimit
	}

	return a.withLock(ctx, "followups", func() error {
		report, err := runner.RunFollowups(ctx, batch)
		if err != nil {
			return err
		}
		fmt.Printf("%d due\n", report.Due)
		printSendReport(report.Sent, report.Skipped, report.Failed, report.DryRun, report.Failures)
		return nil
	})
}

func (a *app) cmdPersonalize(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("personalize", flag.ExitOnError)
	contactRef := fs.String("contact", "", "contact id or email (required)")
	save := fs.Bool("save", false, "persist the generated hook on the contact")
	fs.Parse(args)
	if *contactRef == "" {
		return fmt.Errorf("-contact is required")
	}

	gen, err := personalize.New(ctx, a.cfg.Personalize)
	if err != nil {
		return err
	}
	if !gen.Available() {
		return fmt.Errorf("personalization provider not configured (set OPENAI_API_KEY)")
	}

	c, err := a.resolveContact(ctx, *contactRef)
	if err != nil {
		return err
	}

	hook, err := gen.GenerateHook(ctx, c)
	if err != nil {
		return err
	}
	fmt.Println(hook)

	if *save {
		c.PersonalizationHook = hook
		if err := a.contacts.Update(ctx, c); err != nil {
			return err
		}
		fmt.Println("saved")
	}
	return nil
}

func (a *app) cmdSuppress(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: suppress <add|remove|list> ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "add":
		if len(rest) != 1 {
			return fmt.Errorf("usage: suppress add <email>")
		}
		if err := a.suppressions.Suppress(ctx, rest[0], domain.SuppressManual, "cli"); err != nil {
			return err
		}
		fmt.Println("suppressed")
		return nil
	case "remove":
		if len(rest) != 1 {
			return fmt.Errorf("usage: suppress remove <email>")
		}
		if err := a.suppressions.Remove(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil
	case "list":
		entries, err := a.suppressions.List(ctx, suppression.ListFilter{})
		if err != nil {
			return err
		}
		for i := range entries {
			e := &entries[i]
			fmt.Printf("%-40s %-12s %s\n", e.Email, e.Reason, e.CreatedAt.Format("2006-01-02"))
		}
		fmt.Printf("%d entries\n", len(entries))
		return nil
	default:
		return fmt.Errorf("unknown suppress subcommand %q", sub)
	}
}

func (a *app) cmdStats(ctx context.Context, args []string) error {
	list, err := a.contacts.List(ctx, contact.ListFilter{})
	if err != nil {
		return err
	}
	byStatus := map[domain.ContactStatus]int{}
	for i := range list {
		byStatus[list[i].Status]++
	}

	fmt.Printf("contacts: %d\n", len(list))
	for _, s := range domain.AllContactStatuses {
		if byStatus[s] > 0 {
			fmt.Printf("  %-14s %d\n", s, byStatus[s])
		}
	}

	limiter := sendlimit.New(a.rdb, a.campaignRepo, a.cfg.Outreach.DailyLimit)
	sent, err := limiter.SentToday(ctx, time.Now())
	if err == nil {
		fmt.Printf("sent today: %d / %d\n", sent, a.cfg.Outreach.DailyLimit)
	}

	if stats, err := a.suppressions.GetStats(ctx); err == nil {
		fmt.Printf("suppressed: %d\n", stats.Total)
		for reason, n := range stats.ByReason {
			fmt.Printf("  %-14s %d\n", reason, n)
		}
	}

	if a.cfg.Enrichment.Enabled {
		if credits, err := enrich.NewClient(a.cfg.Enrichment).Credits(ctx); err == nil {
			fmt.Printf("enrichment credits: %d\n", credits)
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

// resolveContact accepts a contact id or an email address.
func (a *app) resolveContact(ctx context.Context, ref string) (*domain.Contact, error) {
	if strings.ContainsRune(ref, '@') {
		return a.contacts.GetByEmail(ctx, ref)
	}
	return a.contacts.Get(ctx, ref)
}

func printSendReport(sent, skipped, failed int, dryRun bool, failures []workflow.Failure) {
	mode := ""
	if dryRun {
		mode = " (dry run)"
	}
	fmt.Printf("sent %d, skipped %d, failed %d%s\n", sent, skipped, failed, mode)
	for _, f := range failures {
		fmt.Printf("  %s: %s\n", f.Email, f.Reason)
	}
}

func trunc(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

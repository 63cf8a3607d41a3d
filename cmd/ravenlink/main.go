package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aim-ba/ravenlink/internal/api"
	"github.com/aim-ba/ravenlink/internal/cache"
	"github.com/aim-ba/ravenlink/internal/config"
	"github.com/aim-ba/ravenlink/internal/directory"
	"github.com/aim-ba/ravenlink/internal/form"
	"github.com/aim-ba/ravenlink/internal/model"
	"github.com/aim-ba/ravenlink/internal/output"
	"github.com/aim-ba/ravenlink/internal/session"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: ravenlink <command> [flags]

Commands:
  jobs     search and browse open opportunities
  apply    submit an employment interest form for a posting
  login    sign in to the platform
  signup   create an account
  logout   sign out and clear the stored session
  whoami   show the signed-in identity

Run "ravenlink <command> -h" for the command's flags.`)
}

func envOrFlag(flagVal, envKey string) string {
	if flagVal != "" {
		return flagVal
	}
	return os.Getenv(envKey)
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("ravenlink: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: loading config: %v\n", err)
		os.Exit(1)
	}

	client, err := api.New(api.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.Timeout})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store := session.NewStore(client, cfg.SessionFile)
	client.SetTokenSource(store)

	ctx := context.Background()

	switch os.Args[1] {
	case "jobs":
		store.Restore(ctx)
		err = runJobs(ctx, cfg, client, os.Args[2:])
	case "apply":
		store.Restore(ctx)
		err = runApply(ctx, client, os.Args[2:])
	case "login":
		err = runLogin(ctx, store, os.Args[2:])
	case "signup":
		err = runSignup(ctx, store, os.Args[2:])
	case "logout":
		err = runLogout(ctx, store)
	case "whoami":
		err = runWhoami(ctx, store)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runJobs(ctx context.Context, cfg config.Config, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("jobs", flag.ExitOnError)
	query := fs.String("q", "", "search text matched against title, company, and location")
	jobType := fs.String("type", directory.AllTypes, "job type filter (see -types)")
	listTypes := fs.Bool("types", false, "list the selectable job types and exit")
	jobID := fs.String("id", "", "show the detail view for one posting")
	fs.Parse(args)

	var listingCache directory.Cache
	if cfg.RedisURL != "" {
		c, err := cache.New(cfg.RedisURL, cfg.APIBaseURL, cfg.CacheTTL)
		if err != nil {
			log.Printf("warning: listing cache disabled: %v", err)
		} else {
			defer c.Close()
			listingCache = c
		}
	}

	dir := directory.New(client, listingCache)
	if err := dir.Load(ctx); err != nil {
		return err
	}

	printer := output.NewPrinter(os.Stdout)

	if *listTypes {
		for _, t := range dir.Types() {
			fmt.Println(t)
		}
		return nil
	}

	if *jobID != "" {
		for _, posting := range dir.Postings() {
			if posting.ID == *jobID && posting.IsActive {
				return printer.PrintJob(posting)
			}
		}
		return fmt.Errorf("no open posting with id %q", *jobID)
	}

	filtered := dir.Filter(directory.Criteria{SearchText: *query, SelectedType: *jobType})
	if err := printer.PrintJobs(filtered); err != nil {
		return err
	}
	fmt.Printf("\nTotal: %d open opportunity(ies).\n", len(filtered))
	return nil
}

func runApply(ctx context.Context, client *api.Client, args []string) error {
	fs := flag.NewFlagSet("apply", flag.ExitOnError)
	jobID := fs.String("job", "", "posting id to apply to (required)")
	resumePath := fs.String("resume", "", "path to a PDF or Word resume (required)")

	name := fs.String("name", "", "full name (first, last)")
	dob := fs.String("dob", "", "date of birth (YYYY-MM-DD)")
	phone := fs.String("phone", "", "phone number")
	email := fs.String("email", "", "email address")
	address := fs.String("address", "", "mailing address")
	indigenous := fs.Bool("indigenous", false, "self-identify as Indigenous")

	resumeHelp := fs.Bool("resume-help", false, "need help creating a resume")
	transportation := fs.Bool("transportation", false, "have transportation to and from work")
	ppe := fs.Bool("ppe", false, "in need of PPE")
	training := fs.Bool("training", false, "seeking training opportunities on this project")
	barriers := fs.String("barriers", "", "other barriers to obtaining employment")

	interests := fs.String("interests", "", "areas of employment interest")
	otherInterest := fs.String("other-interest", "", "other employment interest")
	project := fs.String("project", "", "project of interest")
	otherProject := fs.String("other-project", "", "other project")
	location := fs.String("location", "", "preferred work location")
	otherLocation := fs.String("other-location", "", "other work location")
	start := fs.String("start", "", "available start date (YYYY-MM-DD)")

	coverLetter := fs.String("cover-letter", "", "cover letter text")
	education := fs.String("education", "", "education level: high_school, college, bachelor, master, doctorate, other")
	certificates := fs.String("certificates", "", "relevant certificates, licenses, or tickets")
	experience := fs.String("experience", "", "years of experience: 0-1, 1-3, 3-5, 5-10, 10+")

	band := fs.String("band", "", "band affiliation")
	otherAffiliation := fs.String("other-affiliation", "", "other affiliation")
	communityContact := fs.String("community-contact", "", "Indigenous community contact name")
	communityMonitor := fs.Bool("community-monitor", false, "interested in participating as a Community Monitor")

	consent := fs.Bool("consent", false, "acknowledge the consent statement")
	fs.Parse(args)

	if *jobID == "" {
		return errors.New("-job is required")
	}

	draft := form.NewDraft(*jobID)
	if err := draft.SetFields(form.Fields{
		ApplicantName:          *name,
		DateOfBirth:            *dob,
		Phone:                  *phone,
		Email:                  *email,
		MailingAddress:         *address,
		SelfIdentifyIndigenous: *indigenous,

		NeedResumeHelp:     *resumeHelp,
		HasTransportation:  *transportation,
		NeedPPE:            *ppe,
		SeekingTraining:    *training,
		EmploymentBarriers: *barriers,

		AreasOfInterest:    *interests,
		OtherInterest:      *otherInterest,
		Project:            *project,
		OtherProject:       *otherProject,
		PreferredLocation:  *location,
		OtherLocation:      *otherLocation,
		AvailableStartDate: *start,

		CoverLetter:     *coverLetter,
		EducationLevel:  *education,
		Certificates:    *certificates,
		YearsExperience: *experience,

		BandAffiliation:            *band,
		OtherAffiliation:           *otherAffiliation,
		IndigenousCommunityContact: *communityContact,
		InterestedCommunityMonitor: *communityMonitor,

		ConsentAcknowledged: *consent,
	}); err != nil {
		return err
	}

	if *resumePath != "" {
		file, err := readResume(*resumePath)
		if err != nil {
			return err
		}
		if err := draft.AttachResume(file); err != nil {
			return err
		}
	}

	if err := draft.Submit(ctx, client); err != nil {
		return err
	}
	fmt.Println("Application submitted. Thank you for your interest.")
	return nil
}

func readResume(path string) (model.ResumeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ResumeFile{}, fmt.Errorf("reading resume: %w", err)
	}
	return model.ResumeFile{
		Name:     filepath.Base(path),
		Size:     int64(len(data)),
		MIMEType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Content:  data,
	}, nil
}

func runLogin(ctx context.Context, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (falls back to RAVEN_PASSWORD)")
	fs.Parse(args)

	sess, err := store.SignIn(ctx, *email, envOrFlag(*password, "RAVEN_PASSWORD"))
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", sess.Email, sess.Role)
	return nil
}

func runSignup(ctx context.Context, store *session.Store, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (falls back to RAVEN_PASSWORD)")
	role := fs.String("role", string(model.RoleContractor), "account role: contractor, project_proponent, admin")
	organization := fs.String("organization", "", "organization name (required for project proponents)")
	fs.Parse(args)

	sess, err := store.SignUp(ctx, *email, envOrFlag(*password, "RAVEN_PASSWORD"), model.Role(*role), *organization)
	if err != nil {
		return err
	}
	fmt.Printf("Account created. Signed in as %s (%s)\n", sess.Email, sess.Role)
	return nil
}

func runLogout(ctx context.Context, store *session.Store) error {
	// Restore first so the server-side revocation carries the stored token.
	store.Restore(ctx)
	store.SignOut(ctx)
	fmt.Println("Signed out.")
	return nil
}

func runWhoami(ctx context.Context, store *session.Store) error {
	sess, ok := store.Restore(ctx)
	if !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("%s (%s)\n", sess.Email, sess.Role)
	if sess.OrganizationName != "" {
		fmt.Printf("Organization: %s\n", sess.OrganizationName)
	}
	return nil
}

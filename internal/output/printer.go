package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aim-ba/ravenlink/internal/model"
)

// Printer renders postings for the terminal.
type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// PrintJobs writes postings as a formatted table in the given order.
func (p *Printer) PrintJobs(postings []model.JobPosting) error {
	if len(postings) == 0 {
		fmt.Fprintln(p.w, "No opportunities found. Try adjusting your search or filters.")
		return nil
	}

	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCOMPANY\tLOCATION\tTYPE\tPOSTED")
	fmt.Fprintln(tw, "--\t-----\t-------\t--------\t----\t------")
	for _, posting := range postings {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			posting.ID, posting.Title, posting.Company, posting.Location,
			posting.Type, posting.PostedDate.Format("2006-01-02"))
	}
	return tw.Flush()
}

// PrintJob writes the detail view for one posting. Description and
// requirements arrive as CMS HTML and are flattened to readable text.
func (p *Printer) PrintJob(posting model.JobPosting) error {
	fmt.Fprintf(p.w, "%s\n", posting.Title)
	fmt.Fprintf(p.w, "%s, %s (%s)\n", posting.Company, posting.Location, posting.Type)
	if posting.SalaryRange != "" {
		fmt.Fprintf(p.w, "Salary: %s\n", posting.SalaryRange)
	}
	if posting.ProponentOrganization != "" {
		fmt.Fprintf(p.w, "Proponent: %s\n", posting.ProponentOrganization)
	}
	fmt.Fprintf(p.w, "Posted: %s\n", posting.PostedDate.Format("2006-01-02"))

	if desc := HTMLToText(posting.Description); desc != "" {
		fmt.Fprintf(p.w, "\n%s\n", desc)
	}
	if reqs := HTMLToText(posting.Requirements); reqs != "" {
		fmt.Fprintf(p.w, "\nRequirements:\n%s\n", reqs)
	}
	return nil
}
